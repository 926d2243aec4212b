package views

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/raveoir/internal/api"
	"github.com/matheus3301/raveoir/internal/tui/ui"
	"github.com/rivo/tview"
)

const (
	labelFirstName = "First name"
	labelLastName  = "Last name"
	labelEmail     = "Email"
	labelPassword  = "Password"
	labelConfirm   = "Confirm password"
)

// AuthMode selects the sign-in or registration form.
type AuthMode int

const (
	ModeSignIn AuthMode = iota
	ModeSignUp
)

// AuthView is the sign-in and registration screen.
type AuthView struct {
	*tview.Flex
	theme   *ui.Theme
	box     *tview.Flex
	form    *tview.Form
	message *tview.TextView
	mode    AuthMode
	domain  string

	onSignIn  func(email, password string)
	onSignUp  func(req *api.SignUpRequest)
	onSuggest func(first, last string)
	onQuit    func()
}

// NewAuthView creates a new auth view.
func NewAuthView(theme *ui.Theme) *AuthView {
	form := tview.NewForm()
	form.SetBackgroundColor(theme.BgColor)
	form.SetFieldBackgroundColor(theme.FieldBgColor)
	form.SetButtonBackgroundColor(theme.ButtonBgColor)
	form.SetLabelColor(theme.MenuKeyColor)

	message := tview.NewTextView().
		SetDynamicColors(true).
		SetWordWrap(true)
	message.SetBackgroundColor(theme.BgColor)
	message.SetBorderPadding(0, 0, 2, 2)

	box := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(form, 0, 1, true).
		AddItem(message, 4, 0, false)
	box.SetBorder(true)
	box.SetBorderColor(theme.BorderColor)
	box.SetTitleColor(theme.TitleColor)
	box.SetBackgroundColor(theme.BgColor)

	// Center the box on screen.
	outer := tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().
			SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(box, 20, 0, true).
			AddItem(nil, 0, 1, false), 64, 0, true).
		AddItem(nil, 0, 1, false)

	av := &AuthView{
		Flex:    outer,
		theme:   theme,
		form:    form,
		message: message,
	}
	form.SetCancelFunc(func() {
		if av.mode == ModeSignUp {
			av.SetMode(ModeSignIn)
		}
	})
	av.box = box
	av.SetMode(ModeSignIn)
	return av
}

// SetDomain sets the mail domain shown in the registration hint.
func (av *AuthView) SetDomain(domain string) {
	av.domain = domain
}

// SetOnSignIn sets the sign-in callback.
func (av *AuthView) SetOnSignIn(fn func(email, password string)) { av.onSignIn = fn }

// SetOnSignUp sets the registration callback.
func (av *AuthView) SetOnSignUp(fn func(req *api.SignUpRequest)) { av.onSignUp = fn }

// SetOnSuggest sets the callback asking for address suggestions.
func (av *AuthView) SetOnSuggest(fn func(first, last string)) { av.onSuggest = fn }

// SetOnQuit sets the quit callback.
func (av *AuthView) SetOnQuit(fn func()) { av.onQuit = fn }

// Mode returns the form currently shown.
func (av *AuthView) Mode() AuthMode { return av.mode }

// Form returns the focusable form.
func (av *AuthView) Form() *tview.Form { return av.form }

// SetMode rebuilds the form for mode.
func (av *AuthView) SetMode(mode AuthMode) {
	av.mode = mode
	av.form.Clear(true)
	av.message.Clear()

	switch mode {
	case ModeSignIn:
		av.box.SetTitle(" Sign in ")
		av.form.AddInputField(labelEmail, "", 40, nil, nil)
		av.form.AddPasswordField(labelPassword, "", 40, '*', nil)
		av.form.AddButton("Sign in", av.submitSignIn)
		av.form.AddButton("Create account", func() { av.SetMode(ModeSignUp) })
		av.form.AddButton("Quit", av.quit)
	case ModeSignUp:
		av.box.SetTitle(" Create account ")
		av.form.AddInputField(labelFirstName, "", 30, nil, nil)
		av.form.AddInputField(labelLastName, "", 30, nil, nil)
		av.form.AddInputField(labelEmail, "", 40, nil, nil)
		av.form.AddPasswordField(labelPassword, "", 30, '*', nil)
		av.form.AddPasswordField(labelConfirm, "", 30, '*', nil)
		av.form.AddButton("Sign up", av.submitSignUp)
		av.form.AddButton("Suggest", av.suggest)
		av.form.AddButton("Back", func() { av.SetMode(ModeSignIn) })
		if av.domain != "" {
			av.Info(fmt.Sprintf("Addresses look like name*%s", av.domain))
		}
	}
	av.form.SetFocus(0)
}

func (av *AuthView) text(label string) string {
	item := av.form.GetFormItemByLabel(label)
	if item == nil {
		return ""
	}
	return item.(*tview.InputField).GetText()
}

// SetEmail fills the email field.
func (av *AuthView) SetEmail(addr string) {
	if item := av.form.GetFormItemByLabel(labelEmail); item != nil {
		item.(*tview.InputField).SetText(addr)
	}
}

func (av *AuthView) submitSignIn() {
	if av.onSignIn != nil {
		av.onSignIn(strings.TrimSpace(av.text(labelEmail)), av.text(labelPassword))
	}
}

func (av *AuthView) submitSignUp() {
	if av.onSignUp == nil {
		return
	}
	av.onSignUp(&api.SignUpRequest{
		FirstName:       av.text(labelFirstName),
		LastName:        av.text(labelLastName),
		Email:           strings.TrimSpace(av.text(labelEmail)),
		Password:        av.text(labelPassword),
		ConfirmPassword: av.text(labelConfirm),
	})
}

func (av *AuthView) suggest() {
	if av.onSuggest != nil {
		av.onSuggest(av.text(labelFirstName), av.text(labelLastName))
	}
}

func (av *AuthView) quit() {
	if av.onQuit != nil {
		av.onQuit()
	}
}

// Info shows a neutral message under the form.
func (av *AuthView) Info(msg string) {
	av.message.Clear()
	_, _ = fmt.Fprintf(av.message, "[%s]%s[-]", colorHex(av.theme.MutedColor), tview.Escape(msg))
}

// Error shows an error message under the form.
func (av *AuthView) Error(msg string) {
	av.message.Clear()
	_, _ = fmt.Fprintf(av.message, "[%s]%s[-]", colorHex(av.theme.FlashErrColor), tview.Escape(msg))
}

// ShowSuggestions lists free addresses under the form.
func (av *AuthView) ShowSuggestions(suggestions []string) {
	av.message.Clear()
	if len(suggestions) == 0 {
		_, _ = fmt.Fprintf(av.message, "[%s]No free suggestions for this name.[-]", colorHex(av.theme.MutedColor))
		return
	}
	_, _ = fmt.Fprintf(av.message, "[%s]Available:[-] %s",
		colorHex(av.theme.MutedColor), tview.Escape(strings.Join(suggestions, ", ")))
}

func colorHex(c tcell.Color) string {
	return fmt.Sprintf("#%06x", c.Hex())
}
