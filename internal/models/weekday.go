package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Weekday numbers meetings 0=Sunday..6=Saturday, matching time.Weekday.
type Weekday int

var koreanWeekdays = []string{"일", "월", "화", "수", "목", "금", "토"}

// ParseWeekday accepts the numeric form, English names (full or three
// letter) and the single-character Korean labels.
func ParseWeekday(raw string) (Weekday, error) {
	value := strings.TrimSpace(raw)
	if n, err := strconv.Atoi(value); err == nil {
		if n < 0 || n > 6 {
			return 0, fmt.Errorf("weekday %d out of range", n)
		}
		return Weekday(n), nil
	}

	trimmed := strings.TrimSuffix(value, "요일")
	for i, label := range koreanWeekdays {
		if trimmed == label {
			return Weekday(i), nil
		}
	}

	lower := strings.ToLower(value)
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if lower == name || lower == name[:3] {
			return Weekday(d), nil
		}
	}

	return 0, fmt.Errorf("unknown weekday %q", raw)
}

// Valid reports whether the weekday is within 0..6.
func (d Weekday) Valid() bool {
	return d >= 0 && d <= 6
}

// Korean returns the single-character Korean label.
func (d Weekday) Korean() string {
	if !d.Valid() {
		return ""
	}
	return koreanWeekdays[d]
}

// Time converts to the standard library weekday.
func (d Weekday) Time() time.Weekday {
	return time.Weekday(d)
}

// ParseClock parses "HH:MM" into minutes after midnight.
func ParseClock(raw string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", raw)
	}
	return t.Hour()*60 + t.Minute(), nil
}
