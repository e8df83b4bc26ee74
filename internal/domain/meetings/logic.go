package meetings

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	ErrNoAttendees    = errors.New("attendee list is empty")
	ErrBadPlatform    = errors.New("unknown platform")
	ErrUpstreamFailed = errors.New("meeting provider failed")
)

// Matches local@domain.tld; no display names, no bare domains.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateAttendees rejects an empty list and any entry that is not a
// plain email address.
func ValidateAttendees(attendees []string) error {
	if len(attendees) == 0 {
		return ErrNoAttendees
	}
	for _, a := range attendees {
		if !emailPattern.MatchString(strings.TrimSpace(a)) {
			return fmt.Errorf("invalid attendee %q", a)
		}
	}
	return nil
}

// ParseStart combines the date and time fields into a UTC instant.
func ParseStart(date, clock string) (time.Time, error) {
	return time.Parse("2006-01-02 15:04", date+" "+clock)
}

func ValidPlatform(platform string) bool {
	return platform == PlatformGoogle || platform == PlatformZoom
}
