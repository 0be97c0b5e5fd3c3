// Package dateparse resolves natural-language date phrases ("tomorrow",
// "next friday", "in 3 days", "feb 24") to a calendar date. It works on local
// calendar days only; no time-of-day, no timezone conversion.
package dateparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	reNextWeekday = regexp.MustCompile(`next\s+(monday|tuesday|wednesday|thursday|friday|saturday|sunday)`)
	reThisWeekday = regexp.MustCompile(`this\s+(monday|tuesday|wednesday|thursday|friday|saturday|sunday)`)
	reInDays      = regexp.MustCompile(`in\s+(\d+)\s+days?`)
	reInWeeks     = regexp.MustCompile(`in\s+(\d+)\s+weeks?`)
	reInMonths    = regexp.MustCompile(`in\s+(\d+)\s+months?`)
	reISODate     = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)
	reMonthDay    = regexp.MustCompile(`(jan|january|feb|february|mar|march|apr|april|may|jun|june|jul|july|aug|august|sep|september|oct|october|nov|november|dec|december)\s+(\d{1,2})(?:st|nd|rd|th)?\b`)
	reDayMonth    = regexp.MustCompile(`(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?(jan|january|feb|february|mar|march|apr|april|may|jun|june|jul|july|aug|august|sep|september|oct|october|nov|november|dec|december)\b`)
)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

var months = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

// Resolve converts a natural-language date phrase to a calendar date relative
// to now. ok is false when no rule matches; callers treat that as "no date
// extracted", not an error.
func Resolve(text string, now time.Time) (time.Time, bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return time.Time{}, false
	}
	today := midnight(now)

	if d, ok := resolveEnglish(t, today); ok {
		return d, true
	}
	return resolveArabic(t, today)
}

func resolveEnglish(t string, today time.Time) (time.Time, bool) {
	switch {
	case strings.Contains(t, "tomorrow"):
		return today.AddDate(0, 0, 1), true
	case strings.Contains(t, "today"):
		return today, true
	case strings.Contains(t, "yesterday"):
		return today.AddDate(0, 0, -1), true
	}

	if m := reNextWeekday.FindStringSubmatch(t); m != nil {
		return nextWeekday(today, weekdays[m[1]]), true
	}
	if m := reThisWeekday.FindStringSubmatch(t); m != nil {
		return thisWeekday(today, weekdays[m[1]]), true
	}

	if m := reInDays.FindStringSubmatch(t); m != nil {
		n, _ := strconv.Atoi(m[1])
		return today.AddDate(0, 0, n), true
	}
	if m := reInWeeks.FindStringSubmatch(t); m != nil {
		n, _ := strconv.Atoi(m[1])
		return today.AddDate(0, 0, n*7), true
	}
	if m := reInMonths.FindStringSubmatch(t); m != nil {
		n, _ := strconv.Atoi(m[1])
		return today.AddDate(0, n, 0), true
	}

	if strings.Contains(t, "next week") {
		return today.AddDate(0, 0, 7), true
	}
	if strings.Contains(t, "next month") {
		// First of the following month.
		return time.Date(today.Year(), today.Month()+1, 1, 0, 0, 0, 0, today.Location()), true
	}
	if strings.Contains(t, "end of week") {
		days := int(time.Sunday) - int(today.Weekday())
		if days <= 0 {
			days += 7
		}
		return today.AddDate(0, 0, days), true
	}
	if strings.Contains(t, "end of month") {
		// Day zero of the next month is the last day of this one.
		return time.Date(today.Year(), today.Month()+1, 0, 0, 0, 0, 0, today.Location()), true
	}

	if m := reISODate.FindStringSubmatch(t); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		if mo >= 1 && mo <= 12 && validDay(y, time.Month(mo), d) {
			return time.Date(y, time.Month(mo), d, 0, 0, 0, 0, today.Location()), true
		}
		return time.Time{}, false
	}

	if m := reMonthDay.FindStringSubmatch(t); m != nil {
		day, _ := strconv.Atoi(m[2])
		return monthDay(today, months[m[1]], day)
	}
	if m := reDayMonth.FindStringSubmatch(t); m != nil {
		day, _ := strconv.Atoi(m[1])
		return monthDay(today, months[m[2]], day)
	}

	return time.Time{}, false
}

// resolveArabic handles the Arabic literals the speech recognizer produces.
func resolveArabic(t string, today time.Time) (time.Time, bool) {
	switch {
	case strings.Contains(t, "غدا"):
		return today.AddDate(0, 0, 1), true
	case strings.Contains(t, "اليوم"):
		return today, true
	case strings.Contains(t, "أمس"):
		return today.AddDate(0, 0, -1), true
	case strings.Contains(t, "الأسبوع القادم"):
		return today.AddDate(0, 0, 7), true
	case strings.Contains(t, "الشهر القادم"):
		return time.Date(today.Year(), today.Month()+1, 1, 0, 0, 0, 0, today.Location()), true
	}
	return time.Time{}, false
}

// nextWeekday advances to the next occurrence strictly after today: asking
// for "next monday" on a Monday lands seven days out, never zero.
func nextWeekday(today time.Time, target time.Weekday) time.Time {
	ahead := int(target) - int(today.Weekday())
	if ahead <= 0 {
		ahead += 7
	}
	return today.AddDate(0, 0, ahead)
}

// thisWeekday resolves to the current week's occurrence; a weekday that has
// already passed rolls to the upcoming one. Today resolves to today.
func thisWeekday(today time.Time, target time.Weekday) time.Time {
	ahead := int(target) - int(today.Weekday())
	if ahead < 0 {
		ahead += 7
	}
	return today.AddDate(0, 0, ahead)
}

// monthDay assumes the current year; a date strictly before today rolls
// forward to next year, so "jan 5" spoken in December means the coming
// January.
func monthDay(today time.Time, month time.Month, day int) (time.Time, bool) {
	if !validDay(today.Year(), month, day) {
		return time.Time{}, false
	}
	d := time.Date(today.Year(), month, day, 0, 0, 0, 0, today.Location())
	if d.Before(today) {
		d = d.AddDate(1, 0, 0)
	}
	return d, true
}

func validDay(year int, month time.Month, day int) bool {
	if day < 1 {
		return false
	}
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	return day <= last
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// FormatAPIDate serializes a date as YYYY-MM-DD, the form every store and the
// semantic service exchange dates in.
func FormatAPIDate(t time.Time) string {
	return t.Format("2006-01-02")
}
