package instance

import (
	"fmt"
	"regexp"
	"strings"
)

const namePattern = `^[a-z0-9_-]{1,64}$`

var nameRegexp = regexp.MustCompile(namePattern)

// NameError reports an instance name that cannot be used as a directory and
// socket name.
type NameError struct {
	Name   string
	Reason string
}

func (e *NameError) Error() string {
	return fmt.Sprintf("invalid instance name %q: %s", e.Name, e.Reason)
}

// ValidateName checks that name is usable as an instance name. A leading
// hyphen is refused so the name never parses as a flag.
func ValidateName(name string) error {
	if !nameRegexp.MatchString(name) {
		return &NameError{Name: name, Reason: "must match " + namePattern}
	}
	if strings.HasPrefix(name, "-") {
		return &NameError{Name: name, Reason: "must not start with a hyphen"}
	}
	return nil
}
