// Package metrics derives analytics from the full entry set: progress
// scores, week windows, weekly totals, and study streaks. Everything here
// is pure date math over data the caller already loaded.
package metrics

import (
	"sort"
	"time"

	"github.com/ptarn/studylog/internal/model"
)

// ProgressScore is the composite activity metric minutes × confidence.
func ProgressScore(minutes, confidence int) int {
	return minutes * confidence
}

// WeekIndex returns the zero-based count of 7-day windows between start
// and date. Dates before start map to 0.
func WeekIndex(date, start time.Time) int {
	days := int(model.Day(date).Sub(model.Day(start)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days / 7
}

// WeekBounds returns the Monday and Sunday of the calendar week containing
// ref, both normalized to midnight UTC.
func WeekBounds(ref time.Time) (time.Time, time.Time) {
	d := model.Day(ref)
	// Go's weekday is Sunday=0; shift so Monday=0.
	offset := (int(d.Weekday()) + 6) % 7
	monday := d.AddDate(0, 0, -offset)
	return monday, monday.AddDate(0, 0, 6)
}

// WeeklyMinutes sums the minutes of all entries whose date falls within
// the Monday–Sunday week containing weekOf, inclusive on both ends.
func WeeklyMinutes(entries []model.Entry, weekOf time.Time) int {
	start, end := WeekBounds(weekOf)
	total := 0
	for _, e := range entries {
		d := model.Day(e.Date)
		if !d.Before(start) && !d.After(end) {
			total += e.Minutes
		}
	}
	return total
}

// ComputeStreaks returns the current and longest runs of consecutive study
// days in dates. Duplicates collapse. The current streak is the run ending
// at today, or 0 when today is absent.
func ComputeStreaks(dates []time.Time, today time.Time) (current, longest int) {
	if len(dates) == 0 {
		return 0, 0
	}

	seen := make(map[time.Time]bool, len(dates))
	var uniq []time.Time
	for _, d := range dates {
		day := model.Day(d)
		if !seen[day] {
			seen[day] = true
			uniq = append(uniq, day)
		}
	}
	sort.Slice(uniq, func(i, j int) bool { return uniq[i].Before(uniq[j]) })

	longest = 1
	run := 1
	for i := 1; i < len(uniq); i++ {
		if uniq[i].Sub(uniq[i-1]) == 24*time.Hour {
			run++
		} else {
			if run > longest {
				longest = run
			}
			run = 1
		}
	}
	if run > longest {
		longest = run
	}

	if !seen[model.Day(today)] {
		return 0, longest
	}
	current = 1
	for d := model.Day(today).AddDate(0, 0, -1); seen[d]; d = d.AddDate(0, 0, -1) {
		current++
	}
	return current, longest
}
