package views

import (
	"fmt"
	"time"

	"github.com/matheus3301/raveoir/internal/api"
	"github.com/matheus3301/raveoir/internal/tui/ui"
	"github.com/rivo/tview"
)

// EmailView displays a single email.
type EmailView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewEmailView creates a new email view.
func NewEmailView(theme *ui.Theme) *EmailView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitleColor(theme.TitleColor)
	tv.SetBorderPadding(0, 0, 1, 1)

	return &EmailView{TextView: tv, theme: theme}
}

// Show renders resp.
func (ev *EmailView) Show(resp *api.OpenResponse) {
	ev.Clear()
	e := resp.Email

	subject := e.Subject
	if subject == "" {
		subject = "(no subject)"
	}
	ev.SetTitle(" " + tview.Escape(sanitizeForTerminal(subject)) + " ")

	avatar := colorHex(ev.theme.AvatarColor(e.From.AvatarColor))
	muted := colorHex(ev.theme.MutedColor)

	_, _ = fmt.Fprintf(ev, "[black:%s:b] %s [-:-:-] [::b]%s[-:-:-] [%s]<%s>[-]\n",
		avatar, resp.Initial, tview.Escape(e.From.DisplayName()), muted, tview.Escape(e.From.Email))
	_, _ = fmt.Fprintf(ev, "[%s]to %s <%s>[-]\n", muted, tview.Escape(e.To.DisplayName()), tview.Escape(e.To.Email))
	_, _ = fmt.Fprintf(ev, "[%s]%s[-]\n\n", muted, e.CreatedAt.Local().Format(time.RFC1123))
	_, _ = fmt.Fprint(ev, tview.Escape(sanitizeForTerminal(e.Body)))

	ev.ScrollToBeginning()
}
