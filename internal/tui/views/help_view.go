package views

import (
	"fmt"
	"strings"

	"github.com/matheus3301/raveoir/internal/tui/ui"
	"github.com/rivo/tview"
)

// HelpView displays the key binding and command reference.
type HelpView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewHelpView creates a new help view.
func NewHelpView(theme *ui.Theme) *HelpView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Help ")
	tv.SetTitleColor(theme.TitleColor)

	hv := &HelpView{
		TextView: tv,
		theme:    theme,
	}
	hv.render()
	return hv
}

type helpSection struct {
	title string
	rows  [][2]string
}

var helpSections = []helpSection{
	{"Global", [][2]string{
		{":", "Command mode"},
		{"?", "Help"},
		{"Esc", "Cancel / go back"},
		{"q", "Quit"},
		{"Ctrl-C", "Quit immediately"},
	}},
	{"Mailbox", [][2]string{
		{"1-4", "Inbox, sent, spam, archived"},
		{"Tab", "Next tab"},
		{"Enter", "Open email"},
		{"c", "Compose"},
		{"r", "Refresh (archives old mail)"},
		{"d", "Delete (archived: remove from archive)"},
		{"!", "Report sender as spam"},
		{"u", "Remove sender from spam"},
		{"/", "Filter by sender or subject"},
	}},
	{"Email", [][2]string{
		{"R", "Reply"},
		{"d", "Delete"},
		{"!", "Report sender as spam"},
	}},
	{"Compose", [][2]string{
		{"Ctrl-S", "Send"},
		{"Esc", "Discard"},
	}},
	{"Commands", [][2]string{
		{":inbox :sent :spam :archived", "Switch tab"},
		{":compose [address]", "New email"},
		{":refresh", "Fetch now"},
		{":export <file>", "Write the archive as mbox"},
		{":signout", "Sign out"},
		{":help / :h", "Show this help"},
		{":quit / :q", "Quit application"},
	}},
}

func (hv *HelpView) render() {
	kc := fmt.Sprintf("#%06x", hv.theme.MenuKeyColor.Hex())

	var b strings.Builder
	for _, s := range helpSections {
		fmt.Fprintf(&b, "\n  [::b]%s[-:-:-]\n\n", s.title)
		for _, r := range s.rows {
			fmt.Fprintf(&b, "  [%s]%-30s[-:-:-] %s\n", kc, tview.Escape(r[0]), r[1])
		}
	}
	_, _ = fmt.Fprint(hv, b.String())
}
