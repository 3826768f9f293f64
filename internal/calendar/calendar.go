// Package calendar answers two questions the loan engine keeps asking:
// is this date a business day, and where do the months end.
package calendar

import (
	"time"

	"cloud.google.com/go/civil"
)

// Calendar combines a fixed holiday set with the Saturday/Sunday weekend
// rule. It is immutable after construction and safe for concurrent use.
type Calendar struct {
	holidays map[civil.Date]struct{}
}

// New builds a calendar from an explicit holiday list.
func New(holidays []civil.Date) *Calendar {
	c := &Calendar{holidays: make(map[civil.Date]struct{}, len(holidays))}
	for _, d := range holidays {
		c.holidays[d] = struct{}{}
	}
	return c
}

// Indonesia2025 returns the Indonesian public-holiday calendar for 2025.
func Indonesia2025() *Calendar {
	return New([]civil.Date{
		{Year: 2025, Month: time.January, Day: 1},    // New Year's Day
		{Year: 2025, Month: time.January, Day: 29},   // Chinese New Year
		{Year: 2025, Month: time.March, Day: 14},     // Nyepi
		{Year: 2025, Month: time.March, Day: 29},     // Maulid Nabi Muhammad
		{Year: 2025, Month: time.March, Day: 31},     // Easter Monday
		{Year: 2025, Month: time.April, Day: 9},      // Isra Miraj
		{Year: 2025, Month: time.May, Day: 1},        // Labour Day
		{Year: 2025, Month: time.May, Day: 12},       // Vesak Day
		{Year: 2025, Month: time.May, Day: 29},       // Ascension Day
		{Year: 2025, Month: time.June, Day: 1},       // Pancasila Day
		{Year: 2025, Month: time.June, Day: 6},       // Eid al-Fitr 1
		{Year: 2025, Month: time.June, Day: 7},       // Eid al-Fitr 2
		{Year: 2025, Month: time.June, Day: 17},      // Joint holiday
		{Year: 2025, Month: time.August, Day: 12},    // Eid al-Adha
		{Year: 2025, Month: time.August, Day: 17},    // Independence Day
		{Year: 2025, Month: time.September, Day: 1},  // Islamic New Year
		{Year: 2025, Month: time.November, Day: 10},  // Prophet Muhammad's Birthday
		{Year: 2025, Month: time.December, Day: 25},  // Christmas Day
	})
}

// WithHolidays returns a new calendar that also treats extra as holidays.
// The receiver is not modified.
func (c *Calendar) WithHolidays(extra []civil.Date) *Calendar {
	merged := make([]civil.Date, 0, len(c.holidays)+len(extra))
	for d := range c.holidays {
		merged = append(merged, d)
	}
	merged = append(merged, extra...)
	return New(merged)
}

// IsHoliday reports whether d is in the holiday set.
func (c *Calendar) IsHoliday(d civil.Date) bool {
	_, ok := c.holidays[d]
	return ok
}

// IsBusinessDay reports whether d is a weekday outside the holiday set.
func (c *Calendar) IsBusinessDay(d civil.Date) bool {
	wd := d.In(time.UTC).Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	return !c.IsHoliday(d)
}

// MonthEnd returns the last day of d's month.
func MonthEnd(d civil.Date) civil.Date {
	firstOfNext := time.Date(d.Year, d.Month+1, 1, 0, 0, 0, 0, time.UTC)
	return civil.DateOf(firstOfNext.AddDate(0, 0, -1))
}

// MonthEndsWithin returns every calendar month-end falling inside
// [start, end], in chronological order.
func MonthEndsWithin(start, end civil.Date) []civil.Date {
	var ends []civil.Date
	cur := civil.Date{Year: start.Year, Month: start.Month, Day: 1}
	for !cur.After(end) {
		me := MonthEnd(cur)
		if !me.Before(start) && !me.After(end) {
			ends = append(ends, me)
		}
		cur = me.AddDays(1)
	}
	return ends
}
