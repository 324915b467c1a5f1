package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/avelis/habitdo/internal/models"
)

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// NextOccurrence finds the first day strictly after the given time that
// satisfies a repeat rule. The boolean is false when the rule qualifies no
// days.
func NextOccurrence(repeat models.Repeat, after time.Time) (time.Time, bool) {
	matcher := matcherFor(repeat)
	if matcher == nil {
		return time.Time{}, false
	}

	// A year of candidates covers every rule type.
	for offset := 1; offset <= 366; offset++ {
		candidate := after.AddDate(0, 0, offset)
		if matcher(candidate) {
			return startOfDay(candidate), true
		}
	}
	return time.Time{}, false
}

// UpcomingOccurrences lists every qualifying day in (from, until].
func UpcomingOccurrences(repeat models.Repeat, from, until time.Time) []time.Time {
	var occurrences []time.Time
	cursor := from
	for {
		next, ok := NextOccurrence(repeat, cursor)
		if !ok || next.After(until) {
			return occurrences
		}
		occurrences = append(occurrences, next)
		cursor = next
	}
}

func matcherFor(repeat models.Repeat) func(time.Time) bool {
	switch repeat.Type {
	case models.RepeatDayOfWeek:
		var targets []time.Weekday
		for _, name := range repeat.When {
			if weekday, ok := weekdayNames[strings.ToLower(name)]; ok {
				targets = append(targets, weekday)
			}
		}
		if len(targets) == 0 {
			return nil
		}
		return func(candidate time.Time) bool {
			for _, target := range targets {
				if candidate.Weekday() == target {
					return true
				}
			}
			return false
		}

	case models.RepeatDayOfMonth:
		var days []int
		for _, raw := range repeat.When {
			if day, err := strconv.Atoi(raw); err == nil && day >= 1 && day <= 31 {
				days = append(days, day)
			}
		}
		if len(days) == 0 {
			return nil
		}
		return func(candidate time.Time) bool {
			for _, day := range days {
				if candidate.Day() == day {
					return true
				}
			}
			return false
		}

	case models.RepeatDayOfYear:
		// When entries are "01-15" month-day pairs.
		qualifying := make(map[string]bool, len(repeat.When))
		for _, raw := range repeat.When {
			qualifying[raw] = true
		}
		if len(qualifying) == 0 {
			return nil
		}
		return func(candidate time.Time) bool {
			return qualifying[candidate.Format("01-02")]
		}
	}
	return nil
}

// CurrentWindow returns the habit period window containing now. Windows are
// back-to-back spans of Amount units anchored at the period start, or at the
// todo's creation when no start is set.
func CurrentWindow(period models.Period, createdAt, now time.Time) (time.Time, time.Time) {
	anchor := createdAt
	if period.Start != nil {
		anchor = *period.Start
	}

	start := anchor
	end := advance(start, period)
	for !now.Before(end) {
		start = end
		end = advance(start, period)
	}
	return start, end
}

func advance(from time.Time, period models.Period) time.Time {
	amount := period.Amount
	if amount <= 0 {
		amount = 1
	}
	switch period.Type {
	case models.PeriodDays:
		return from.AddDate(0, 0, amount)
	case models.PeriodWeeks:
		return from.AddDate(0, 0, 7*amount)
	case models.PeriodMonths:
		return from.AddDate(0, amount, 0)
	case models.PeriodYears:
		return from.AddDate(amount, 0, 0)
	}
	return from.AddDate(0, 0, amount)
}

// ApplyBuffer extends a window deadline by the habit's buffer: DAY_START
// pushes it to the start of day Amount days later, HOURS adds Amount hours.
func ApplyBuffer(buffer models.Buffer, deadline time.Time) time.Time {
	switch buffer.Type {
	case models.BufferDayStart:
		return startOfDay(deadline).AddDate(0, 0, buffer.Amount)
	case models.BufferHours:
		return deadline.Add(time.Duration(buffer.Amount) * time.Hour)
	}
	return deadline
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
