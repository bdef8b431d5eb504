package scheduler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

const minutesPerDay = 24 * 60

// Offset is a time of day expressed as minutes since midnight.
type Offset int

// ParseOffset parses a 24-hour HH:MM time of day.
func ParseOffset(s string) (Offset, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 {
		return 0, errors.Mark(errors.Newf("%q: expected HH:MM", s), ErrInvalidTime)
	}

	hour, err := parseDigits(hh)
	if err != nil || hour > 23 {
		return 0, errors.Mark(errors.Newf("%q: hour out of range", s), ErrInvalidTime)
	}
	minute, err := parseDigits(mm)
	if err != nil || minute > 59 {
		return 0, errors.Mark(errors.Newf("%q: minute out of range", s), ErrInvalidTime)
	}

	return Offset(hour*60 + minute), nil
}

// parseDigits rejects signs and spaces that strconv.Atoi would accept.
func parseDigits(s string) (int, error) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, errors.Newf("not a digit: %q", r)
		}
	}
	return strconv.Atoi(s)
}

func (o Offset) String() string {
	return fmt.Sprintf("%02d:%02d", int(o)/60, int(o)%60)
}

func (o Offset) valid() bool {
	return o >= 0 && o < minutesPerDay
}
