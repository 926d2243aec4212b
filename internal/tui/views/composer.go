package views

import (
	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/raveoir/internal/tui/ui"
	"github.com/rivo/tview"
)

const (
	labelTo      = "To"
	labelSubject = "Subject"
	labelBody    = "Body"
)

// Composer is the form for writing a new email.
type Composer struct {
	*tview.Form
	onSend   func(to, subject, body string)
	onCancel func()
}

// NewComposer creates a new email composer.
func NewComposer(theme *ui.Theme) *Composer {
	form := tview.NewForm()
	form.SetBorder(true)
	form.SetTitle(" New email ")
	form.SetBorderColor(theme.BorderColor)
	form.SetTitleColor(theme.TitleColor)
	form.SetBackgroundColor(theme.BgColor)
	form.SetFieldBackgroundColor(theme.FieldBgColor)
	form.SetButtonBackgroundColor(theme.ButtonBgColor)
	form.SetLabelColor(theme.MenuKeyColor)

	c := &Composer{Form: form}

	form.AddInputField(labelTo, "", 0, nil, nil)
	form.AddInputField(labelSubject, "", 0, nil, nil)
	form.AddTextArea(labelBody, "", 0, 12, 0, nil)
	form.AddButton("Send", func() {
		if c.onSend != nil {
			c.onSend(c.field(labelTo).GetText(), c.field(labelSubject).GetText(), c.body().GetText())
		}
	})
	form.AddButton("Cancel", c.cancel)
	form.SetCancelFunc(c.cancel)

	// Ctrl-S sends from any field.
	form.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlS && c.onSend != nil {
			c.onSend(c.field(labelTo).GetText(), c.field(labelSubject).GetText(), c.body().GetText())
			return nil
		}
		return event
	})

	return c
}

func (c *Composer) field(label string) *tview.InputField {
	return c.GetFormItemByLabel(label).(*tview.InputField)
}

func (c *Composer) body() *tview.TextArea {
	return c.GetFormItemByLabel(labelBody).(*tview.TextArea)
}

func (c *Composer) cancel() {
	if c.onCancel != nil {
		c.onCancel()
	}
}

// SetOnSend sets the callback for the Send button and Ctrl-S.
func (c *Composer) SetOnSend(fn func(to, subject, body string)) {
	c.onSend = fn
}

// SetOnCancel sets the callback for Cancel and Esc.
func (c *Composer) SetOnCancel(fn func()) {
	c.onCancel = fn
}

// Reset clears the form, pre-filling the recipient, and focuses the first
// empty field.
func (c *Composer) Reset(to string) {
	c.field(labelTo).SetText(to)
	c.field(labelSubject).SetText("")
	c.body().SetText("", false)
	if to == "" {
		c.SetFocus(0)
	} else {
		c.SetFocus(1)
	}
}
