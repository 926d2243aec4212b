package model

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/matheus3301/raveoir/internal/api"
	"github.com/matheus3301/raveoir/internal/client"
	"github.com/matheus3301/raveoir/internal/mailbox"
	"github.com/matheus3301/raveoir/internal/model"
	"github.com/matheus3301/raveoir/internal/tui/ui"
	"google.golang.org/grpc/status"
)

// ViewModel caches daemon state for the views and signals UI refreshes.
type ViewModel struct {
	mu sync.RWMutex

	client *client.Client
	Flash  *ui.FlashModel

	status *api.StatusResponse
	tab    mailbox.Tab
	emails []model.Email
	counts map[string]int
	unread int
	active *api.OpenResponse

	refreshCh chan struct{}
}

// NewViewModel creates a new view model connected to the daemon client.
func NewViewModel(c *client.Client) *ViewModel {
	return &ViewModel{
		client:    c,
		Flash:     ui.NewFlashModel(),
		tab:       mailbox.TabInbox,
		counts:    make(map[string]int),
		refreshCh: make(chan struct{}, 1),
	}
}

// RefreshCh returns the channel that signals UI refresh.
func (vm *ViewModel) RefreshCh() <-chan struct{} {
	return vm.refreshCh
}

func (vm *ViewModel) signalRefresh() {
	select {
	case vm.refreshCh <- struct{}{}:
	default:
	}
}

// ErrorText extracts the user-facing message of a daemon error.
func ErrorText(err error) string {
	if s, ok := status.FromError(err); ok {
		return s.Message()
	}
	return err.Error()
}

// fail flashes err and returns it.
func (vm *ViewModel) fail(err error) error {
	vm.Flash.Err(ErrorText(err))
	vm.signalRefresh()
	return err
}

// LoadStatus fetches the daemon and account status.
func (vm *ViewModel) LoadStatus(ctx context.Context) error {
	resp, err := vm.client.Session.Status(ctx)
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.status = resp
	vm.unread = resp.Unread
	vm.mu.Unlock()
	vm.signalRefresh()
	return nil
}

// SignedIn reports whether the last status showed an identity.
func (vm *ViewModel) SignedIn() bool {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.status != nil && vm.status.SignedIn
}

// Status returns the last fetched status, or nil.
func (vm *ViewModel) Status() *api.StatusResponse {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.status
}

// SetTab switches the active tab and loads it.
func (vm *ViewModel) SetTab(ctx context.Context, tab mailbox.Tab) error {
	vm.mu.Lock()
	vm.tab = tab
	vm.mu.Unlock()
	return vm.LoadTab(ctx)
}

// Tab returns the active tab.
func (vm *ViewModel) Tab() mailbox.Tab {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.tab
}

// LoadTab fetches the emails of the active tab.
func (vm *ViewModel) LoadTab(ctx context.Context) error {
	tab := vm.Tab()
	resp, err := vm.client.Mail.List(ctx, string(tab))
	if err != nil {
		return err
	}
	vm.mu.Lock()
	if vm.tab == tab {
		vm.emails = resp.Emails
	}
	vm.unread = resp.Unread
	vm.counts[string(tab)] = len(resp.Emails)
	vm.mu.Unlock()
	vm.signalRefresh()
	return nil
}

// Refresh asks the daemon for a fresh fetch, then reloads the active tab.
func (vm *ViewModel) Refresh(ctx context.Context) error {
	resp, err := vm.client.Mail.Refresh(ctx)
	if err != nil {
		return vm.fail(err)
	}
	vm.ApplyCounts(resp.Counts, resp.Unread)
	if resp.ArchivedNow > 0 {
		vm.Flash.Info(fmt.Sprintf("Archived %d old emails", resp.ArchivedNow))
	}
	return vm.LoadTab(ctx)
}

// ApplyCounts stores per-tab counts pushed by the daemon.
func (vm *ViewModel) ApplyCounts(counts map[string]int, unread int) {
	vm.mu.Lock()
	for k, v := range counts {
		vm.counts[k] = v
	}
	vm.unread = unread
	vm.mu.Unlock()
	vm.signalRefresh()
}

// Emails returns the cached emails of the active tab.
func (vm *ViewModel) Emails() []model.Email {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.emails
}

// Tabs returns the tab bar entries. Inbox carries the unread count, the
// others their size.
func (vm *ViewModel) Tabs() []ui.Tab {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	tabs := make([]ui.Tab, len(mailbox.Tabs))
	for i, t := range mailbox.Tabs {
		n := vm.counts[string(t)]
		if t == mailbox.TabInbox {
			n = vm.unread
		}
		tabs[i] = ui.Tab{Name: string(t), Count: n}
	}
	return tabs
}

// Unread returns the last known unread inbox count.
func (vm *ViewModel) Unread() int {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.unread
}

// Open loads an email, marking it read when it is unread inbox mail.
func (vm *ViewModel) Open(ctx context.Context, id string) (*api.OpenResponse, error) {
	resp, err := vm.client.Mail.Open(ctx, id)
	if err != nil {
		return nil, vm.fail(err)
	}
	vm.mu.Lock()
	vm.active = resp
	vm.mu.Unlock()
	return resp, nil
}

// Active returns the last opened email, or nil.
func (vm *ViewModel) Active() *api.OpenResponse {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.active
}

// Delete removes an email. In the archived tab only the local archive entry
// is removed.
func (vm *ViewModel) Delete(ctx context.Context, id string) error {
	var err error
	if vm.Tab() == mailbox.TabArchived {
		err = vm.client.Archive.Remove(ctx, id)
	} else {
		err = vm.client.Mail.Delete(ctx, id)
	}
	if err != nil {
		return vm.fail(err)
	}
	vm.Flash.Info("Email deleted")
	return vm.LoadTab(ctx)
}

// Send composes a new email.
func (vm *ViewModel) Send(ctx context.Context, to, subject, body string) error {
	if _, err := vm.client.Mail.Send(ctx, &api.SendRequest{To: to, Subject: subject, Body: body}); err != nil {
		return vm.fail(err)
	}
	vm.Flash.Info("Email sent successfully!")
	return vm.LoadTab(ctx)
}

// ReportSpam reports the sender of an email.
func (vm *ViewModel) ReportSpam(ctx context.Context, e model.Email) error {
	if err := vm.client.Mail.ReportSpam(ctx, e.From.ID); err != nil {
		return vm.fail(err)
	}
	vm.Flash.Info(fmt.Sprintf("Reported %s as spam", e.From.Email))
	return vm.LoadTab(ctx)
}

// RemoveSpam moves a sender's mail back to the inbox.
func (vm *ViewModel) RemoveSpam(ctx context.Context, e model.Email) error {
	if err := vm.client.Mail.RemoveSpam(ctx, e.From.ID); err != nil {
		return vm.fail(err)
	}
	vm.Flash.Info(fmt.Sprintf("Removed %s from spam", e.From.Email))
	return vm.LoadTab(ctx)
}

// Export writes the archive as an mbox file.
func (vm *ViewModel) Export(ctx context.Context, path string) error {
	resp, err := vm.client.Archive.Export(ctx)
	if err != nil {
		return vm.fail(err)
	}
	if err := os.WriteFile(path, resp.Mbox, 0o600); err != nil {
		return vm.fail(fmt.Errorf("write %s: %w", path, err))
	}
	vm.Flash.Info(fmt.Sprintf("Exported %d emails to %s", resp.Count, path))
	vm.signalRefresh()
	return nil
}

// SignIn authenticates and loads the inbox.
func (vm *ViewModel) SignIn(ctx context.Context, email, password string) error {
	resp, err := vm.client.Session.SignIn(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return err
	}
	vm.Flash.Info("Signed in as " + resp.Profile.Email)
	return vm.afterSignIn(ctx)
}

// SignUp registers an account and signs in.
func (vm *ViewModel) SignUp(ctx context.Context, req *api.SignUpRequest) error {
	resp, err := vm.client.Session.SignUp(ctx, req)
	if err != nil {
		return err
	}
	vm.Flash.Info("Welcome, " + resp.Profile.FirstName)
	return vm.afterSignIn(ctx)
}

func (vm *ViewModel) afterSignIn(ctx context.Context) error {
	if err := vm.LoadStatus(ctx); err != nil {
		return err
	}
	return vm.SetTab(ctx, mailbox.TabInbox)
}

// SignOut ends the session and drops cached mail.
func (vm *ViewModel) SignOut(ctx context.Context) error {
	if err := vm.client.Session.SignOut(ctx); err != nil {
		return vm.fail(err)
	}
	vm.Reset()
	return vm.LoadStatus(ctx)
}

// Reset drops everything cached for the signed-in account.
func (vm *ViewModel) Reset() {
	vm.mu.Lock()
	vm.emails = nil
	vm.active = nil
	vm.unread = 0
	vm.counts = make(map[string]int)
	vm.tab = mailbox.TabInbox
	vm.mu.Unlock()
	vm.signalRefresh()
}

// Suggest returns the default address and free alternatives for a name.
func (vm *ViewModel) Suggest(ctx context.Context, first, last string) (*api.SuggestEmailsResponse, error) {
	return vm.client.Session.SuggestEmails(ctx, first, last)
}
