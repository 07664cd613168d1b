package model

import (
	"fmt"
	"strings"
	"time"
)

// DateFormat is the canonical on-disk and on-wire date layout.
const DateFormat = "2006-01-02"

// Entry represents one day's logged study session. The date is the unique
// key: there is at most one Entry per calendar day.
type Entry struct {
	Date       time.Time `json:"date"`
	Topic      string    `json:"topic"`
	Minutes    int       `json:"minutes"`
	Practiced  string    `json:"practiced"`
	Challenges string    `json:"challenges"`
	Wins       string    `json:"wins"`
	Confidence int       `json:"confidence"`
	Tags       string    `json:"tags"`
}

// Day normalizes a time to midnight UTC so entry dates compare and subtract
// as whole calendar days.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar day, normalized.
func Today() time.Time {
	return Day(time.Now())
}

// dateLayouts are the accepted input layouts for ParseDate, tried in order.
var dateLayouts = []string{
	DateFormat,
	"2006/01/02",
	"02.01.2006",
	"01/02/2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// ParseDate parses a date string in one of the accepted layouts and
// normalizes it to midnight UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse date %q", s)
}

// FormatDate renders a date in the canonical YYYY-MM-DD layout.
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}
