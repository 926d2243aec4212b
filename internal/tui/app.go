package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/raveoir/internal/api"
	"github.com/matheus3301/raveoir/internal/bus"
	"github.com/matheus3301/raveoir/internal/client"
	"github.com/matheus3301/raveoir/internal/mailbox"
	"github.com/matheus3301/raveoir/internal/tui/keys"
	"github.com/matheus3301/raveoir/internal/tui/model"
	"github.com/matheus3301/raveoir/internal/tui/ui"
	"github.com/matheus3301/raveoir/internal/tui/views"
	"github.com/rivo/tview"
)

const (
	pageAuth    = "auth"
	pageMailbox = "mailbox"
	pageEmail   = "email"
	pageCompose = "compose"
	pageHelp    = "help"
)

// App is the main TUI application shell.
type App struct {
	app      *tview.Application
	root     *tview.Flex
	pages    *ui.Pages
	theme    *ui.Theme
	vm       *model.ViewModel
	grpc     *client.Client
	registry *keys.Registry
	instance string

	account   *ui.AccountInfo
	menu      *ui.Menu
	crumbs    *ui.Crumbs
	prompt    *ui.Prompt
	flashBar  *ui.FlashBar
	authView  *views.AuthView
	mailList  *views.MailboxList
	emailView *views.EmailView
	composer  *views.Composer
	helpView  *views.HelpView

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp creates the TUI application. domain is the mail domain shown on the
// registration form.
func NewApp(c *client.Client, instanceName, domain string) *App {
	ctx, cancel := context.WithCancel(context.Background())
	theme := ui.DefaultTheme()

	a := &App{
		app:       tview.NewApplication(),
		pages:     ui.NewPages(),
		theme:     theme,
		vm:        model.NewViewModel(c),
		grpc:      c,
		registry:  keys.NewRegistry(),
		instance:  instanceName,
		account:   ui.NewAccountInfo(theme),
		menu:      ui.NewMenu(theme),
		crumbs:    ui.NewCrumbs(theme),
		prompt:    ui.NewPrompt(theme),
		flashBar:  ui.NewFlashBar(theme),
		authView:  views.NewAuthView(theme),
		mailList:  views.NewMailboxList(theme),
		emailView: views.NewEmailView(theme),
		composer:  views.NewComposer(theme),
		helpView:  views.NewHelpView(theme),
		ctx:       ctx,
		cancel:    cancel,
	}

	a.authView.SetDomain(domain)
	a.prompt.SetCommands(Commands)
	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()

	return a
}

func rune1(r rune, label, desc string, visible bool, fn func()) *keys.Action {
	return &keys.Action{Key: tcell.KeyRune, Rune: r, Label: label, Description: desc, Visible: visible, Handler: fn}
}

func (a *App) setupBindings() {
	a.registry.AddGlobal("command", rune1(':', ":", "Command", true, func() { a.showPrompt(ui.PromptCommand) }))
	a.registry.AddGlobal("help", rune1('?', "?", "Help", true, func() { a.pages.Push(pageHelp) }))
	a.registry.AddGlobal("quit", rune1('q', "q", "Quit", true, a.Stop))

	a.registry.AddView(pageMailbox, "open", &keys.Action{
		Key: tcell.KeyEnter, Label: "Enter", Description: "Open", Visible: true,
		Handler: a.openSelected,
	})
	a.registry.AddView(pageMailbox, "compose", rune1('c', "c", "Compose", true, func() { a.compose("") }))
	a.registry.AddView(pageMailbox, "refresh", rune1('r', "r", "Refresh", true, a.refresh))
	a.registry.AddView(pageMailbox, "delete", rune1('d', "d", "Delete", true, a.deleteSelected))
	a.registry.AddView(pageMailbox, "spam", rune1('!', "!", "Spam", true, a.reportSelected))
	a.registry.AddView(pageMailbox, "unspam", rune1('u', "u", "Not spam", true, a.unspamSelected))
	a.registry.AddView(pageMailbox, "filter", rune1('/', "/", "Filter", true, func() { a.showPrompt(ui.PromptFilter) }))
	a.registry.AddView(pageMailbox, "next", &keys.Action{
		Key: tcell.KeyTab, Label: "Tab", Description: "Next tab",
		Handler: a.nextTab,
	})
	for i, tab := range mailbox.Tabs {
		a.registry.AddView(pageMailbox, "tab-"+string(tab),
			rune1(rune('1'+i), fmt.Sprint(i+1), string(tab), false, func() { a.switchTab(tab) }))
	}

	a.registry.AddView(pageEmail, "reply", rune1('R', "R", "Reply", true, a.reply))
	a.registry.AddView(pageEmail, "delete", rune1('d', "d", "Delete", true, a.deleteActive))
	a.registry.AddView(pageEmail, "spam", rune1('!', "!", "Spam", true, a.reportActive))
}

func (a *App) setupCallbacks() {
	a.pages.SetOnChange(func([]string) { a.updateMenu() })

	a.authView.SetOnQuit(a.Stop)
	a.authView.SetOnSignIn(func(email, password string) {
		a.authView.Info("Signing in...")
		go func() {
			err := a.vm.SignIn(a.ctx, email, password)
			a.app.QueueUpdateDraw(func() { a.afterAuth(err) })
		}()
	})
	a.authView.SetOnSignUp(func(req *api.SignUpRequest) {
		a.authView.Info("Creating account...")
		go func() {
			err := a.vm.SignUp(a.ctx, req)
			a.app.QueueUpdateDraw(func() { a.afterAuth(err) })
		}()
	})
	a.authView.SetOnSuggest(func(first, last string) {
		go func() {
			resp, err := a.vm.Suggest(a.ctx, first, last)
			a.app.QueueUpdateDraw(func() {
				if err != nil {
					a.authView.Error(model.ErrorText(err))
					return
				}
				a.authView.SetEmail(resp.Default)
				a.authView.ShowSuggestions(resp.Suggestions)
			})
		}()
	})

	a.mailList.SetSelectedFunc(func(int, int) { a.openSelected() })

	a.composer.SetOnCancel(func() { a.pages.Pop() })
	a.composer.SetOnSend(func(to, subject, body string) {
		go func() {
			if err := a.vm.Send(a.ctx, to, subject, body); err != nil {
				a.app.QueueUpdateDraw(a.renderFlash)
				return
			}
			a.app.QueueUpdateDraw(func() {
				a.pages.Pop()
				a.renderMailbox()
				a.renderFlash()
			})
		}()
	})

	a.prompt.SetOnSubmit(func(mode ui.PromptMode, text string) {
		a.hidePrompt()
		switch mode {
		case ui.PromptCommand:
			a.runCommand(ParseCommand(text).Canonical())
		case ui.PromptFilter:
			a.mailList.SetFilter(text)
		}
	})
	a.prompt.SetOnCancel(a.hidePrompt)
}

func (a *App) setupLayout() {
	header := tview.NewFlex().
		AddItem(a.account, 0, 2, false).
		AddItem(a.menu, 0, 3, false).
		AddItem(ui.NewLogo(a.theme), 24, 0, false)

	a.pages.AddPage(pageAuth, a.authView, true, false)
	a.pages.AddPage(pageMailbox, a.mailList, true, false)
	a.pages.AddPage(pageEmail, a.emailView, true, false)
	a.pages.AddPage(pageCompose, a.composer, true, false)
	a.pages.AddPage(pageHelp, a.helpView, true, false)

	a.root = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(header, 5, 0, false).
		AddItem(a.crumbs, 1, 0, false).
		AddItem(a.prompt, 0, 0, false).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.flashBar, 1, 0, false)
	a.root.SetBackgroundColor(a.theme.BgColor)

	a.app.SetRoot(a.root, true)

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		// The prompt handles its own Enter and Esc.
		if a.app.GetFocus() == a.prompt.InputField {
			return event
		}

		page := a.pages.Current()

		// Forms own every key; their cancel funcs handle Esc.
		if page == pageAuth || page == pageCompose {
			return event
		}

		if event.Key() == tcell.KeyEscape {
			switch page {
			case pageEmail, pageHelp:
				a.pages.Pop()
				a.focusCurrent()
				return nil
			case pageMailbox:
				if a.mailList.Filter() != "" {
					a.mailList.ClearFilter()
					return nil
				}
			}
			return event
		}

		if a.registry.HandleEvent(page, event) {
			return nil
		}
		return event
	})
}

func (a *App) updateMenu() {
	page := a.pages.Current()
	var hints []ui.MenuHint
	if page == pageMailbox {
		hints = append(hints, ui.MenuHint{Key: "1-4", Description: "Tabs", Numeric: true})
	}
	if page == pageAuth || page == pageCompose {
		hints = append(hints,
			ui.MenuHint{Key: "Tab", Description: "Next field"},
			ui.MenuHint{Key: "Esc", Description: "Back"},
		)
		if page == pageCompose {
			hints = append(hints, ui.MenuHint{Key: "Ctrl-S", Description: "Send"})
		}
	} else {
		for _, h := range a.registry.Hints(page) {
			hints = append(hints, ui.MenuHint{Key: h.Key, Description: h.Description})
		}
	}
	if page == pageEmail || page == pageHelp {
		hints = append(hints, ui.MenuHint{Key: "Esc", Description: "Back"})
	}
	a.menu.Update(hints)
	a.focusCurrent()
}

func (a *App) focusCurrent() {
	switch a.pages.Current() {
	case pageAuth:
		a.app.SetFocus(a.authView.Form())
	case pageMailbox:
		a.app.SetFocus(a.mailList)
	case pageEmail:
		a.app.SetFocus(a.emailView)
	case pageCompose:
		a.app.SetFocus(a.composer)
	case pageHelp:
		a.app.SetFocus(a.helpView)
	}
}

func (a *App) showPrompt(mode ui.PromptMode) {
	a.prompt.Activate(mode)
	a.root.ResizeItem(a.prompt, 3, 0)
	a.app.SetFocus(a.prompt.InputField)
}

func (a *App) hidePrompt() {
	a.root.ResizeItem(a.prompt, 0, 0)
	a.focusCurrent()
}

func (a *App) runCommand(cmd Command) {
	switch cmd.Name {
	case "inbox", "sent", "spam", "archived":
		if tab, err := mailbox.ParseTab(cmd.Name); err == nil && a.vm.SignedIn() {
			a.showMailbox()
			a.switchTab(tab)
		}
	case "compose":
		if a.vm.SignedIn() {
			a.compose(cmd.Args)
		}
	case "refresh":
		a.refresh()
	case "export":
		if cmd.Args == "" {
			a.vm.Flash.Warn("usage: :export <file>")
			a.renderFlash()
			return
		}
		a.background(func() error { return a.vm.Export(a.ctx, cmd.Args) }, nil)
	case "signout":
		a.background(func() error { return a.vm.SignOut(a.ctx) }, a.showAuth)
	case "help":
		a.pages.Push(pageHelp)
	case "quit":
		a.Stop()
	default:
		a.vm.Flash.Warn("unknown command: " + cmd.Name)
		a.renderFlash()
	}
}

// background runs fn off the UI goroutine, then redraws and, on success,
// calls then on the UI goroutine. Errors reach the user through the flash.
func (a *App) background(fn func() error, then func()) {
	go func() {
		err := fn()
		a.app.QueueUpdateDraw(func() {
			if err == nil && then != nil {
				then()
			}
			a.renderAll()
		})
	}()
}

func (a *App) afterAuth(err error) {
	if err != nil {
		a.authView.Error(model.ErrorText(err))
		return
	}
	a.showMailbox()
	a.renderAll()
}

func (a *App) showAuth() {
	a.authView.SetMode(views.ModeSignIn)
	a.pages.Reset(pageAuth)
}

func (a *App) showMailbox() {
	a.pages.Reset(pageMailbox)
}

func (a *App) switchTab(tab mailbox.Tab) {
	a.mailList.ClearFilter()
	a.background(func() error { return a.vm.SetTab(a.ctx, tab) }, nil)
	a.crumbs.Update(a.vm.Tabs(), string(tab))
}

func (a *App) nextTab() {
	cur := a.vm.Tab()
	for i, t := range mailbox.Tabs {
		if t == cur {
			a.switchTab(mailbox.Tabs[(i+1)%len(mailbox.Tabs)])
			return
		}
	}
}

func (a *App) refresh() {
	if !a.vm.SignedIn() {
		return
	}
	a.background(func() error { return a.vm.Refresh(a.ctx) }, nil)
}

func (a *App) compose(to string) {
	a.composer.Reset(to)
	a.pages.Push(pageCompose)
}

func (a *App) openSelected() {
	e, ok := a.mailList.Selected()
	if !ok {
		return
	}
	go func() {
		resp, err := a.vm.Open(a.ctx, e.ID)
		if err != nil {
			a.app.QueueUpdateDraw(a.renderFlash)
			return
		}
		_ = a.vm.LoadTab(a.ctx)
		a.app.QueueUpdateDraw(func() {
			a.emailView.Show(resp)
			a.pages.Push(pageEmail)
			a.renderMailbox()
		})
	}()
}

func (a *App) deleteSelected() {
	if e, ok := a.mailList.Selected(); ok {
		a.background(func() error { return a.vm.Delete(a.ctx, e.ID) }, nil)
	}
}

func (a *App) reportSelected() {
	if e, ok := a.mailList.Selected(); ok {
		a.background(func() error { return a.vm.ReportSpam(a.ctx, e) }, nil)
	}
}

func (a *App) unspamSelected() {
	if e, ok := a.mailList.Selected(); ok {
		a.background(func() error { return a.vm.RemoveSpam(a.ctx, e) }, nil)
	}
}

func (a *App) reply() {
	if active := a.vm.Active(); active != nil {
		a.compose(active.Email.From.Email)
	}
}

func (a *App) deleteActive() {
	if active := a.vm.Active(); active != nil {
		id := active.Email.ID
		a.background(func() error { return a.vm.Delete(a.ctx, id) }, func() {
			a.pages.Pop()
		})
	}
}

func (a *App) reportActive() {
	if active := a.vm.Active(); active != nil {
		e := active.Email
		a.background(func() error { return a.vm.ReportSpam(a.ctx, e) }, func() {
			a.pages.Pop()
		})
	}
}

func (a *App) renderAll() {
	a.renderHeader()
	a.renderMailbox()
	a.renderFlash()
}

func (a *App) renderHeader() {
	s := a.vm.Status()
	if s == nil {
		a.account.Update(&ui.AccountData{Instance: a.instance, State: "CONNECTING"})
		return
	}
	data := &ui.AccountData{
		Instance: s.Instance,
		State:    s.State,
		Unread:   a.vm.Unread(),
		Archived: s.Archived,
		Uptime:   time.Duration(s.UptimeMs) * time.Millisecond,
	}
	if s.Profile != nil {
		data.Email = s.Profile.Email
		data.Name = s.Profile.FirstName + " " + s.Profile.LastName
	}
	a.account.Update(data)
}

func (a *App) renderMailbox() {
	tab := string(a.vm.Tab())
	a.crumbs.Update(a.vm.Tabs(), tab)
	a.mailList.Update(tab, a.vm.Emails())
}

func (a *App) renderFlash() {
	a.flashBar.Update(a.vm.Flash.GetMessage())
}

// Run starts the TUI application.
func (a *App) Run() error {
	a.pages.Reset(pageMailbox)
	a.renderHeader()

	go func() {
		err := a.vm.LoadStatus(a.ctx)
		signedIn := a.vm.SignedIn()
		if signedIn {
			_ = a.vm.LoadTab(a.ctx)
		}
		a.app.QueueUpdateDraw(func() {
			if err != nil {
				a.vm.Flash.Err("Cannot reach daemon: " + model.ErrorText(err))
			}
			if !signedIn {
				a.showAuth()
			}
			a.renderAll()
		})

		go a.watchLoop()
		go a.flashLoop()
		a.startRefreshLoop()
	}()

	return a.app.Run()
}

// startRefreshLoop keeps the header current and expires flash messages.
func (a *App) startRefreshLoop() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			_ = a.vm.LoadStatus(a.ctx)
			a.app.QueueUpdateDraw(func() {
				a.renderHeader()
				a.renderFlash()
			})
		case <-a.ctx.Done():
			return
		}
	}
}

func (a *App) flashLoop() {
	for {
		select {
		case <-a.vm.Flash.Watch():
			a.app.QueueUpdateDraw(a.renderFlash)
		case <-a.ctx.Done():
			return
		}
	}
}

// watchLoop follows the daemon's event stream, reconnecting after failures.
func (a *App) watchLoop() {
	for {
		err := a.watch()
		if a.ctx.Err() != nil {
			return
		}
		if err != nil && !errors.Is(err, io.EOF) {
			a.vm.Flash.Warn("Live updates interrupted: " + model.ErrorText(err))
		}
		select {
		case <-time.After(2 * time.Second):
		case <-a.ctx.Done():
			return
		}
	}
}

func (a *App) watch() error {
	stream, err := a.grpc.Mail.Watch(a.ctx)
	if err != nil {
		return err
	}
	for {
		evt, err := stream.Recv()
		if err != nil {
			return err
		}
		a.onEvent(evt)
	}
}

func (a *App) onEvent(evt *api.MailEvent) {
	switch evt.Kind {
	case bus.KindMailboxUpdated:
		a.vm.ApplyCounts(evt.Counts, evt.Unread)
		_ = a.vm.LoadTab(a.ctx)
		_ = a.vm.LoadStatus(a.ctx)
		a.app.QueueUpdateDraw(a.renderAll)
	case bus.KindSignedOut:
		a.vm.Reset()
		_ = a.vm.LoadStatus(a.ctx)
		a.app.QueueUpdateDraw(func() {
			if a.pages.Current() != pageAuth {
				a.showAuth()
			}
			a.renderAll()
		})
	case bus.KindSignedIn:
		_ = a.vm.LoadStatus(a.ctx)
		_ = a.vm.LoadTab(a.ctx)
		a.app.QueueUpdateDraw(func() {
			if a.pages.Current() == pageAuth {
				a.showMailbox()
			}
			a.renderAll()
		})
	default:
		_ = a.vm.LoadStatus(a.ctx)
		a.app.QueueUpdateDraw(a.renderHeader)
	}
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}
