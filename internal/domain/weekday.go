package domain

import "strings"

// Weekdays lists the canonical day names, Monday first. It is an array so
// callers always receive a copy.
var Weekdays = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// DayIndex returns the zero-based Monday-first offset of a day name, or -1.
func DayIndex(day string) int {
	day = strings.TrimSpace(day)
	for i, d := range Weekdays {
		if strings.EqualFold(d, day) {
			return i
		}
	}
	return -1
}

// CanonicalDay normalizes a day name ("monday", "MON") to its canonical form.
// Returns "" for names that are not days.
func CanonicalDay(day string) string {
	day = strings.TrimSpace(day)
	if i := DayIndex(day); i >= 0 {
		return Weekdays[i]
	}
	if len(day) >= 3 {
		for _, d := range Weekdays {
			if strings.EqualFold(d[:3], day[:3]) && len(day) <= len(d) && strings.EqualFold(d[:len(day)], day) {
				return d
			}
		}
	}
	return ""
}
