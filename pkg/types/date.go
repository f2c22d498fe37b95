// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// PubDate is a publication date that may be partial. Month and Day are
// zero when the source does not supply them.
type PubDate struct {
	Year  int
	Month int
	Day   int
}

// DateOf returns the full PubDate of t.
func DateOf(t time.Time) PubDate {
	if t.IsZero() {
		return PubDate{}
	}
	return PubDate{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// ParsePubDate parses "YYYY", "YYYY-MM" or "YYYY-MM-DD". Slashes are
// accepted in place of dashes. An empty string yields the zero date.
func ParsePubDate(s string) (PubDate, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "/", "-"))
	if s == "" {
		return PubDate{}, nil
	}
	parts := strings.Split(s, "-")
	if len(parts) > 3 {
		return PubDate{}, fmt.Errorf("invalid date %q", s)
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return PubDate{}, fmt.Errorf("invalid date %q: %w", s, err)
		}
		nums[i] = n
	}
	d := PubDate{Year: nums[0], Month: nums[1], Day: nums[2]}
	if d.Year <= 0 || d.Month < 0 || d.Month > 12 || d.Day < 0 || d.Day > 31 {
		return PubDate{}, fmt.Errorf("invalid date %q", s)
	}
	if d.Month == 0 && d.Day != 0 {
		return PubDate{}, fmt.Errorf("invalid date %q: day without month", s)
	}
	return d, nil
}

// IsZero reports whether the date is unknown.
func (d PubDate) IsZero() bool { return d.Year == 0 }

// Before reports whether d sorts before o. Unknown parts sort first, so
// "2024" is before "2024-01".
func (d PubDate) Before(o PubDate) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// YearString returns the four-digit year, or "" when unknown.
func (d PubDate) YearString() string {
	if d.Year == 0 {
		return ""
	}
	return fmt.Sprintf("%04d", d.Year)
}

// Time returns the earliest instant the date may denote.
func (d PubDate) Time() time.Time {
	if d.IsZero() {
		return time.Time{}
	}
	month, day := d.Month, d.Day
	if month == 0 {
		month = 1
	}
	if day == 0 {
		day = 1
	}
	return time.Date(d.Year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// String formats the date with only the known parts.
func (d PubDate) String() string {
	switch {
	case d.Year == 0:
		return ""
	case d.Month == 0:
		return fmt.Sprintf("%04d", d.Year)
	case d.Day == 0:
		return fmt.Sprintf("%04d-%02d", d.Year, d.Month)
	default:
		return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d PubDate) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *PubDate) UnmarshalText(b []byte) error {
	parsed, err := ParsePubDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
