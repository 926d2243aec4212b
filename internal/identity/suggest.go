package identity

import (
	"context"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/matheus3301/raveoir/internal/model"
)

const maxSuggestions = 3

// compact lower-cases s and drops every whitespace rune.
func compact(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}

// DefaultAddress is the address pre-filled on the registration form.
func DefaultAddress(first, last, domain string) string {
	return model.Address(compact(first+last), domain)
}

// candidates lists the addresses offered when the chosen one is taken.
func candidates(first, last, domain string, now time.Time, n int) []string {
	f, l := compact(first), compact(last)
	base := f + l
	return []string{
		model.Address(base, domain),
		model.Address(f+firstRune(l), domain),
		model.Address(firstRune(f)+l, domain),
		model.Address(base+strconv.Itoa(n), domain),
		model.Address(base+strconv.Itoa(now.Year()), domain),
	}
}

// SuggestEmails returns up to three free addresses derived from the name.
func (s *Session) SuggestEmails(ctx context.Context, first, last string) ([]string, error) {
	var free []string
	for _, addr := range candidates(first, last, s.domain, time.Now(), rand.IntN(100)) {
		taken, err := s.provider.EmailTaken(ctx, addr)
		if err != nil {
			return nil, err
		}
		if !taken {
			free = append(free, addr)
		}
		if len(free) >= maxSuggestions {
			break
		}
	}
	return free, nil
}
