package services

import (
	"time"
)

// startOfDay truncates t to midnight UTC
func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// unlockedThrough returns the highest day a student enrolled at enrolledAt may open at now.
// Day 1 is open on the enrollment date and one more day opens at each UTC midnight.
func unlockedThrough(enrolledAt, now time.Time, days int) int {
	start := startOfDay(enrolledAt)
	today := startOfDay(now)
	if !today.After(start) {
		return 1
	}
	n := int(today.Sub(start).Hours()/24) + 1
	if n > days {
		return days
	}
	return n
}

// unlocksAt returns the moment a day opens for a student enrolled at enrolledAt
func unlocksAt(enrolledAt time.Time, day int) time.Time {
	return startOfDay(enrolledAt).AddDate(0, 0, day-1)
}
