package api

import "github.com/matheus3301/raveoir/internal/model"

// Empty is the request or response of calls that carry nothing.
type Empty struct{}

type StatusResponse struct {
	Instance string         `json:"instance"`
	State    string         `json:"state"`
	UptimeMs int64          `json:"uptime_ms"`
	SignedIn bool           `json:"signed_in"`
	User     *model.User    `json:"user,omitempty"`
	Profile  *model.Profile `json:"profile,omitempty"`
	Unread   int            `json:"unread"`
	Archived int            `json:"archived"`
}

type SignUpRequest struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password,omitempty"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type IdentityResponse struct {
	User    model.User    `json:"user"`
	Profile model.Profile `json:"profile"`
}

type CheckEmailRequest struct {
	Email string `json:"email"`
}

type CheckEmailResponse struct {
	Exists bool `json:"exists"`
}

type SuggestEmailsRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type SuggestEmailsResponse struct {
	// Default is the address pre-filled on the registration form.
	Default     string   `json:"default"`
	Suggestions []string `json:"suggestions"`
}

type RefreshResponse struct {
	Counts      map[string]int `json:"counts"`
	Unread      int            `json:"unread"`
	ArchivedNow int            `json:"archived_now"`
}

type ListRequest struct {
	Tab string `json:"tab"`
}

type ListResponse struct {
	Tab    string        `json:"tab"`
	Emails []model.Email `json:"emails"`
	Unread int           `json:"unread"`
}

type EmailRequest struct {
	ID string `json:"id"`
}

type SendRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type SendResponse struct {
	ID string `json:"id"`
}

type SenderRequest struct {
	SenderID string `json:"sender_id"`
}

type ExportResponse struct {
	Count int    `json:"count"`
	Mbox  []byte `json:"mbox"`
}

// MailEvent is one message of the Watch stream.
type MailEvent struct {
	EventID          string         `json:"event_id"`
	Instance         string         `json:"instance"`
	Kind             string         `json:"kind"`
	OccurredAtUnixMs int64          `json:"occurred_at_unix_ms"`
	State            string         `json:"state"`
	Counts           map[string]int `json:"counts,omitempty"`
	Unread           int            `json:"unread"`
}

type OpenResponse struct {
	Email model.Email `json:"email"`
	// Initial is the avatar letter of the sender.
	Initial string `json:"initial"`
}
