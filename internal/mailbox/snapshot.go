package mailbox

import (
	"fmt"
	"slices"
	"time"

	"github.com/matheus3301/raveoir/internal/model"
)

// Tab is one of the mailbox views.
type Tab string

const (
	TabInbox    Tab = "inbox"
	TabSent     Tab = "sent"
	TabSpam     Tab = "spam"
	TabArchived Tab = "archived"
)

// Tabs lists every view in display order.
var Tabs = []Tab{TabInbox, TabSent, TabSpam, TabArchived}

// ParseTab validates a tab name.
func ParseTab(s string) (Tab, error) {
	t := Tab(s)
	if !slices.Contains(Tabs, t) {
		return "", fmt.Errorf("unknown tab %q", s)
	}
	return t, nil
}

// Snapshot is the result of one fetch: the emails still in the primary store,
// the user's spam set and the archive entries. It is never mutated after
// publication.
type Snapshot struct {
	ProfileID string
	Emails    []model.Email
	Spam      []string
	Archived  []model.Email
	FetchedAt time.Time
	// ArchivedNow counts entries moved to the archive by this fetch.
	ArchivedNow int
}

func (s *Snapshot) isSpam(senderID string) bool {
	return slices.Contains(s.Spam, senderID)
}

func (s *Snapshot) filter(keep func(*model.Email) bool) []model.Email {
	out := make([]model.Email, 0)
	for i := range s.Emails {
		if keep(&s.Emails[i]) {
			out = append(out, s.Emails[i])
		}
	}
	return out
}

func (s *Snapshot) inInbox(e *model.Email) bool {
	return e.To.ID == s.ProfileID && !s.isSpam(e.From.ID)
}

// Inbox is mail to self from senders not reported as spam.
func (s *Snapshot) Inbox() []model.Email {
	return s.filter(s.inInbox)
}

// Sent is mail from self.
func (s *Snapshot) Sent() []model.Email {
	return s.filter(func(e *model.Email) bool { return e.From.ID == s.ProfileID })
}

// SpamFolder is mail to self from reported senders.
func (s *Snapshot) SpamFolder() []model.Email {
	return s.filter(func(e *model.Email) bool {
		return e.To.ID == s.ProfileID && s.isSpam(e.From.ID)
	})
}

// Tab returns the emails shown under t.
func (s *Snapshot) Tab(t Tab) []model.Email {
	switch t {
	case TabInbox:
		return s.Inbox()
	case TabSent:
		return s.Sent()
	case TabSpam:
		return s.SpamFolder()
	case TabArchived:
		return slices.Clone(s.Archived)
	}
	return nil
}

// UnreadCount is the number of unread inbox emails.
func (s *Snapshot) UnreadCount() int {
	n := 0
	for i := range s.Emails {
		if s.inInbox(&s.Emails[i]) && !s.Emails[i].IsRead {
			n++
		}
	}
	return n
}

// Find looks an email up in the primary set, then in the archive.
func (s *Snapshot) Find(id string) (*model.Email, bool) {
	for _, set := range [][]model.Email{s.Emails, s.Archived} {
		for i := range set {
			if set[i].ID == id {
				e := set[i]
				return &e, true
			}
		}
	}
	return nil, false
}
