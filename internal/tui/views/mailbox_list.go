package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/raveoir/internal/model"
	"github.com/matheus3301/raveoir/internal/tui/ui"
	"github.com/rivo/tview"
)

// MailboxList is the table of emails of the active tab.
type MailboxList struct {
	*tview.Table
	theme   *ui.Theme
	tab     string
	emails  []model.Email
	visible []int
	filter  string
}

// NewMailboxList creates a new mailbox table.
func NewMailboxList(theme *ui.Theme) *MailboxList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false).
		SetFixed(1, 0)
	table.SetBorder(true)
	table.SetBorderColor(theme.BorderColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))
	table.SetTitleColor(theme.TitleColor)

	return &MailboxList{
		Table: table,
		theme: theme,
	}
}

// Update replaces the emails shown for tab.
func (ml *MailboxList) Update(tab string, emails []model.Email) {
	ml.tab = tab
	ml.emails = emails
	ml.render()
}

// SetFilter sets the active filter text and re-renders.
func (ml *MailboxList) SetFilter(filter string) {
	ml.filter = filter
	ml.render()
}

// ClearFilter clears the active filter.
func (ml *MailboxList) ClearFilter() {
	ml.filter = ""
	ml.render()
}

// Filter returns the active filter.
func (ml *MailboxList) Filter() string {
	return ml.filter
}

// counterpart is the other side of the conversation: the recipient in the
// sent tab, the sender everywhere else.
func (ml *MailboxList) counterpart(e *model.Email) model.Participant {
	if ml.tab == "sent" {
		return e.To
	}
	return e.From
}

func (ml *MailboxList) render() {
	row, _ := ml.GetSelection()
	ml.Clear()

	who := " FROM"
	if ml.tab == "sent" {
		who = " TO"
	}
	headers := []struct {
		text string
		exp  int
	}{
		{" ", 0},
		{who, 1},
		{" SUBJECT", 2},
		{" DATE", 0},
	}
	for col, h := range headers {
		cell := tview.NewTableCell(h.text).
			SetSelectable(false).
			SetTextColor(ml.theme.TableHeaderFg).
			SetBackgroundColor(ml.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold).
			SetExpansion(h.exp)
		ml.SetCell(0, col, cell)
	}

	ml.visible = ml.visible[:0]
	for i := range ml.emails {
		e := &ml.emails[i]
		p := ml.counterpart(e)
		if ml.filter != "" && !matches(ml.filter, p.Email, p.DisplayName(), e.Subject) {
			continue
		}
		ml.visible = append(ml.visible, i)
		r := len(ml.visible)

		color := ml.theme.FgColor
		attrs := tcell.AttrNone
		if !e.IsRead && ml.tab == "inbox" {
			color = ml.theme.UnreadColor
			attrs = tcell.AttrBold
		}

		avatar := tview.NewTableCell(" " + model.Initial(p.Email)).
			SetTextColor(ml.theme.AvatarColor(p.AvatarColor)).
			SetAttributes(tcell.AttrBold)
		name := p.DisplayName()
		if name == "" {
			name = p.Email
		}
		subject := e.Subject
		if subject == "" {
			subject = "(no subject)"
		}

		ml.SetCell(r, 0, avatar)
		ml.SetCell(r, 1, tview.NewTableCell(" "+tview.Escape(sanitizeForTerminal(name))).
			SetExpansion(1).SetMaxWidth(30).SetTextColor(color).SetAttributes(attrs))
		ml.SetCell(r, 2, tview.NewTableCell(" "+tview.Escape(sanitizeForTerminal(subject))).
			SetExpansion(2).SetTextColor(color).SetAttributes(attrs))
		ml.SetCell(r, 3, tview.NewTableCell(" "+formatDate(e.CreatedAt, time.Now())+" ").
			SetTextColor(ml.theme.MutedColor).SetAlign(tview.AlignRight))
	}

	title := titleCase(ml.tab)
	if ml.filter != "" {
		ml.SetTitle(fmt.Sprintf(" %s (%d/%d) filter: %s ", title, len(ml.visible), len(ml.emails), tview.Escape(ml.filter)))
	} else {
		ml.SetTitle(fmt.Sprintf(" %s (%d) ", title, len(ml.emails)))
	}

	switch {
	case len(ml.visible) == 0:
		ml.Select(0, 0)
	case row < 1:
		ml.Select(1, 0)
	case row > len(ml.visible):
		ml.Select(len(ml.visible), 0)
	default:
		ml.Select(row, 0)
	}
}

// Selected returns the email under the cursor.
func (ml *MailboxList) Selected() (model.Email, bool) {
	row, _ := ml.GetSelection()
	idx := row - 1 // account for header
	if idx < 0 || idx >= len(ml.visible) {
		return model.Email{}, false
	}
	return ml.emails[ml.visible[idx]], true
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func matches(filter string, fields ...string) bool {
	filter = strings.ToLower(filter)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), filter) {
			return true
		}
	}
	return false
}

// formatDate shows the time for today's mail and the date otherwise.
func formatDate(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	t = t.Local()
	now = now.Local()
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return t.Format("15:04")
	}
	if t.Year() == now.Year() {
		return t.Format("Jan 02")
	}
	return t.Format("2006-01-02")
}
