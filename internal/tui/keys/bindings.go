package keys

import "github.com/gdamore/tcell/v2"

// Action represents a keybinding action.
type Action struct {
	Key         tcell.Key
	Rune        rune
	Label       string // key as shown in the menu, e.g. "d" or "Enter"
	Description string
	Handler     func()
	Visible     bool
}

// Matches returns true if the event matches this action.
func (a *Action) Matches(ev *tcell.EventKey) bool {
	if a.Key != tcell.KeyRune {
		return ev.Key() == a.Key
	}
	return ev.Key() == tcell.KeyRune && ev.Rune() == a.Rune
}

// Hint is a visible binding as rendered in the menu.
type Hint struct {
	Key         string
	Description string
}

type scope struct {
	names   []string
	actions map[string]*Action
}

func (s *scope) add(name string, a *Action) {
	if _, ok := s.actions[name]; !ok {
		s.names = append(s.names, name)
	}
	s.actions[name] = a
}

func (s *scope) each(fn func(*Action) bool) bool {
	for _, n := range s.names {
		if fn(s.actions[n]) {
			return true
		}
	}
	return false
}

// Registry holds keybindings organized by scope. Bindings keep their
// registration order so hints render in a stable order.
type Registry struct {
	global *scope
	views  map[string]*scope
}

// NewRegistry creates a new keybinding registry.
func NewRegistry() *Registry {
	return &Registry{
		global: &scope{actions: make(map[string]*Action)},
		views:  make(map[string]*scope),
	}
}

// AddGlobal registers a global keybinding. Re-adding a name replaces it in place.
func (r *Registry) AddGlobal(name string, action *Action) {
	r.global.add(name, action)
}

// AddView registers a view-specific keybinding.
func (r *Registry) AddView(view, name string, action *Action) {
	s, ok := r.views[view]
	if !ok {
		s = &scope{actions: make(map[string]*Action)}
		r.views[view] = s
	}
	s.add(name, action)
}

// Hints returns visible bindings for a view, view bindings first.
func (r *Registry) Hints(view string) []Hint {
	var hints []Hint
	collect := func(a *Action) bool {
		if a.Visible {
			hints = append(hints, Hint{Key: a.Label, Description: a.Description})
		}
		return false
	}
	if s, ok := r.views[view]; ok {
		s.each(collect)
	}
	r.global.each(collect)
	return hints
}

// HandleEvent dispatches a key event to matching action in the given view.
// Returns true if a handler matched.
func (r *Registry) HandleEvent(view string, ev *tcell.EventKey) bool {
	fire := func(a *Action) bool {
		if !a.Matches(ev) {
			return false
		}
		a.Handler()
		return true
	}
	// View bindings shadow globals.
	if s, ok := r.views[view]; ok && s.each(fire) {
		return true
	}
	return r.global.each(fire)
}
