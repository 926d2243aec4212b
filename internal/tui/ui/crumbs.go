package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Tab is one entry of the tab bar.
type Tab struct {
	Name  string
	Count int
}

// Crumbs is the tab bar above the mailbox, highlighting the active tab.
type Crumbs struct {
	*tview.TextView
	theme *Theme
}

// NewCrumbs creates a new tab bar.
func NewCrumbs(theme *Theme) *Crumbs {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)

	return &Crumbs{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders the tabs with active highlighted.
func (c *Crumbs) Update(tabs []Tab, active string) {
	c.Clear()
	if len(tabs) == 0 {
		return
	}

	parts := make([]string, 0, len(tabs))
	for i, tab := range tabs {
		label := fmt.Sprintf("%d %s", i+1, tab.Name)
		if tab.Count > 0 {
			label = fmt.Sprintf("%s (%d)", label, tab.Count)
		}
		if tab.Name == active {
			parts = append(parts, fmt.Sprintf("[%s:%s:b] %s [-:-:-]",
				colorName(c.theme.TabActiveFg), colorName(c.theme.TabActiveBg), label))
		} else {
			parts = append(parts, fmt.Sprintf("[%s:%s:] %s [-:-:-]",
				colorName(c.theme.TabInactiveFg), colorName(c.theme.TabInactiveBg), label))
		}
	}
	_, _ = fmt.Fprint(c, strings.Join(parts, " "))
}

// colorName returns a tview-compatible color name string.
func colorName(c tcell.Color) string {
	for name, val := range tcell.ColorNames {
		if val == c {
			return name
		}
	}
	return fmt.Sprintf("#%06x", c.Hex())
}
