// Package duration parses and formats human-entered elapsed times.
package duration

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalid is returned for malformed or non-positive duration input.
var ErrInvalid = errors.New("invalid duration")

// Parse reads a compound duration string: digit runs each followed by an
// 'h' (hours) or 'm' (minutes) unit, in any order or repetition, e.g.
// "1h30m", "45m", "2h". A trailing digit run with no unit counts as
// minutes, but only when no unit appeared anywhere in the string, so
// "90" is 90 minutes while "1h90" is an error. Colons are tolerated and
// ignored (legacy HH:MM input). Input is lowercased before scanning.
func Parse(text string) (time.Duration, error) {
	s := strings.ToLower(strings.TrimSpace(text))

	var minutes int
	num := ""
	hadUnit := false
	for _, ch := range s {
		switch {
		case ch >= '0' && ch <= '9':
			num += string(ch)
		case ch == 'h' || ch == 'm':
			if num == "" {
				return 0, fmt.Errorf("%w: missing number before %q", ErrInvalid, string(ch))
			}
			n, _ := strconv.Atoi(num)
			if ch == 'h' {
				minutes += n * 60
			} else {
				minutes += n
			}
			num = ""
			hadUnit = true
		case ch == ':':
			// tolerated for legacy HH:MM input
		default:
			return 0, fmt.Errorf("%w: unsupported character %q", ErrInvalid, string(ch))
		}
	}
	if num != "" {
		if hadUnit {
			return 0, fmt.Errorf("%w: trailing %q has no unit", ErrInvalid, num)
		}
		n, _ := strconv.Atoi(num)
		minutes += n
	}
	if minutes <= 0 {
		return 0, fmt.Errorf("%w: must be greater than zero", ErrInvalid)
	}
	return time.Duration(minutes) * time.Minute, nil
}

// ParseHours reads text the way a manual log entry accepts it: a plain
// number (integer or with a single decimal point) is hours, e.g. "3" or
// "3.5"; anything else goes through Parse.
func ParseHours(text string) (time.Duration, error) {
	s := strings.TrimSpace(text)
	if isPlainNumber(s) {
		hours, err := strconv.ParseFloat(s, 64)
		if err != nil || hours <= 0 {
			return 0, fmt.Errorf("%w: hours must be greater than zero", ErrInvalid)
		}
		return time.Duration(hours * float64(time.Hour)), nil
	}
	return Parse(s)
}

func isPlainNumber(s string) bool {
	if s == "" || s == "." {
		return false
	}
	dots := 0
	for _, ch := range s {
		switch {
		case ch >= '0' && ch <= '9':
		case ch == '.':
			dots++
			if dots > 1 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Human formats d as "3h05m" when hours are present, else "45m". No
// leading zero on hours, two-digit minutes, sign preserved.
func Human(d time.Duration) string {
	secs := int64(d / time.Second)
	sign := ""
	if secs < 0 {
		sign = "-"
		secs = -secs
	}
	h := secs / 3600
	m := (secs % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%s%dh%02dm", sign, h, m)
	}
	return fmt.Sprintf("%s%dm", sign, m)
}

// Clock formats d as zero-padded HH:MM:SS. Negative values clamp to zero.
func Clock(d time.Duration) string {
	secs := int64(d / time.Second)
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}

// HoursMinutes formats whole seconds as zero-padded HH:MM, the time-sheet
// column format.
func HoursMinutes(secs int64) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/3600, (secs%3600)/60)
}
