package archive

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-mbox"
	"github.com/emersion/go-message/mail"
	"github.com/matheus3301/raveoir/internal/model"
)

// Export writes the user's archive to w in mbox format, one RFC 5322 message
// per entry, and returns the number of messages written.
func (c *Cache) Export(ctx context.Context, userID string, w io.Writer) (int, error) {
	entries, err := c.Entries(ctx, userID)
	if err != nil {
		return 0, err
	}

	mw := mbox.NewWriter(w)
	for i := range entries {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := writeMessage(mw, &entries[i]); err != nil {
			return i, fmt.Errorf("export %s: %w", entries[i].ID, err)
		}
	}
	if err := mw.Close(); err != nil {
		return len(entries), err
	}
	return len(entries), nil
}

func writeMessage(mw *mbox.Writer, e *model.Email) error {
	from := model.AuthAddress(e.From.Email)
	msgw, err := mw.CreateMessage(from, e.CreatedAt)
	if err != nil {
		return err
	}

	var h mail.Header
	h.SetDate(e.CreatedAt)
	h.SetSubject(e.Subject)
	h.SetMessageID(e.ID + "@archive." + domainOf(from))
	h.SetAddressList("From", []*mail.Address{{Name: e.From.DisplayName(), Address: from}})
	h.SetAddressList("To", []*mail.Address{{Name: e.To.DisplayName(), Address: model.AuthAddress(e.To.Email)}})
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})

	body, err := mail.CreateSingleInlineWriter(msgw, h)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(body, e.Body); err != nil {
		_ = body.Close()
		return err
	}
	return body.Close()
}

func domainOf(addr string) string {
	if _, domain, ok := strings.Cut(addr, "@"); ok && domain != "" {
		return domain
	}
	return "localhost"
}
