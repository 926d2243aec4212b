package ui

import (
	"fmt"
	"time"

	"github.com/rivo/tview"
)

// AccountData holds the signed-in account and daemon state for display.
type AccountData struct {
	Instance string
	Email    string
	Name     string
	State    string
	Unread   int
	Archived int
	Uptime   time.Duration
}

// AccountInfo displays account metadata in the header.
type AccountInfo struct {
	*tview.TextView
	theme *Theme
}

// NewAccountInfo creates a new account info panel.
func NewAccountInfo(theme *Theme) *AccountInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 1, 1)

	return &AccountInfo{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders the account info. A nil data clears the panel.
func (ai *AccountInfo) Update(data *AccountData) {
	ai.Clear()
	if data == nil {
		return
	}

	fgColor := colorName(ai.theme.FgColor)
	counterColor := colorName(ai.theme.CounterColor)

	account := data.Email
	if account == "" {
		account = "-"
	}
	name := data.Name
	if name == "" {
		name = "-"
	}

	_, _ = fmt.Fprintf(ai,
		"[%s::b]Instance:[-:-:-] [%s]%s[-]\n"+
			"[%s::b]Account:[-:-:-]  [%s]%s[-]\n"+
			"[%s::b]Name:[-:-:-]     [%s]%s[-]\n"+
			"[%s::b]State:[-:-:-]    [%s]%s[-]  [%s::b]Up:[-:-:-] [%s]%s[-]\n"+
			"[%s::b]Unread:[-:-:-]   [%s]%d[-]  [%s::b]Archived:[-:-:-] [%s]%d[-]",
		fgColor, counterColor, tview.Escape(data.Instance),
		fgColor, counterColor, tview.Escape(account),
		fgColor, counterColor, tview.Escape(name),
		fgColor, counterColor, data.State, fgColor, counterColor, FormatUptime(data.Uptime),
		fgColor, counterColor, data.Unread, fgColor, counterColor, data.Archived,
	)
}

// FormatUptime renders d as "1h5m" or "5m".
func FormatUptime(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
