package chapters

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var timestampPattern = regexp.MustCompile(`^(\d+):([0-5]\d):([0-5]\d)(?:\.(\d{1,9}))?$`)

// maxHours is the largest hour count a time.Duration can hold.
const maxHours = math.MaxInt64 / int64(time.Hour)

// FormatTimestamp converts d to the HH:MM:SS.nnnnnnnnn form used in chapter XML.
// Negative durations are clamped to zero.
//
// Example:
//
//	FormatTimestamp(0)                          // "00:00:00.000000000"
//	FormatTimestamp(90 * time.Second)           // "00:01:30.000000000"
//	FormatTimestamp(3661500 * time.Millisecond) // "01:01:01.500000000"
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second
	d -= seconds * time.Second
	return fmt.Sprintf("%02d:%02d:%02d.%09d", int64(hours), int64(minutes), int64(seconds), d.Nanoseconds())
}

// ParseTimestamp parses HH:MM:SS with an optional fraction of up to nine digits.
func ParseTimestamp(s string) (time.Duration, error) {
	m := timestampPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid timestamp %q: want HH:MM:SS.nnnnnnnnn", s)
	}

	hours, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || hours > maxHours {
		return 0, fmt.Errorf("invalid timestamp %q: out of range", s)
	}
	minutes, _ := strconv.ParseInt(m[2], 10, 64)
	seconds, _ := strconv.ParseInt(m[3], 10, 64)

	var nanos int64
	if frac := m[4]; frac != "" {
		// Right-pad so "5" means 500ms, not 5ns.
		nanos, _ = strconv.ParseInt(frac+strings.Repeat("0", 9-len(frac)), 10, 64)
	}

	whole := time.Duration(hours) * time.Hour
	rest := time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second + time.Duration(nanos)
	if whole > math.MaxInt64-rest {
		return 0, fmt.Errorf("invalid timestamp %q: out of range", s)
	}
	return whole + rest, nil
}

// NormalizeTimestamp accepts either a chapter timestamp or a Go duration string ("90s", "1h2m")
// and returns the canonical HH:MM:SS.nnnnnnnnn form.
func NormalizeTimestamp(s string) (string, error) {
	s = strings.TrimSpace(s)
	if timestampPattern.MatchString(s) {
		d, err := ParseTimestamp(s)
		if err != nil {
			return "", err
		}
		return FormatTimestamp(d), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return "", fmt.Errorf("invalid timestamp %q: want HH:MM:SS.nnnnnnnnn or a duration like 90s", s)
	}
	if d < 0 {
		return "", fmt.Errorf("invalid timestamp %q: negative", s)
	}
	return FormatTimestamp(d), nil
}
