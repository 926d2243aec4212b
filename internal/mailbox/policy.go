package mailbox

import (
	"time"

	"github.com/matheus3301/raveoir/internal/model"
)

// Day is the unit the retention period is counted in.
const Day = 24 * time.Hour

// AgeInDays is the number of whole days between created and now, truncated.
// Future timestamps count as zero.
func AgeInDays(now, created time.Time) int {
	d := now.Sub(created)
	if d < 0 {
		return 0
	}
	return int(d / Day)
}

// Aged reports whether e is due for archiving: it is at least retentionDays
// whole days old and self is its sender or recipient.
func Aged(e *model.Email, self string, now time.Time, retentionDays int) bool {
	return AgeInDays(now, e.CreatedAt) >= retentionDays && e.Involves(self)
}

// Partition splits emails into the aged set and the set still presented from
// the primary store. Order is preserved in both.
func Partition(emails []model.Email, self string, now time.Time, retentionDays int) (aged, current []model.Email) {
	current = make([]model.Email, 0, len(emails))
	for i := range emails {
		if Aged(&emails[i], self, now, retentionDays) {
			aged = append(aged, emails[i])
			continue
		}
		current = append(current, emails[i])
	}
	return aged, current
}
