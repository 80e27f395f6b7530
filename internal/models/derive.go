package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// GenerateID returns a time-ordered random identifier (UUIDv7)
func GenerateID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source does
		return uuid.NewString()
	}
	return id.String()
}

// CalculateProgress returns the percentage of tasks that are done, rounded
// half up. An empty list has no progress.
func CalculateProgress(tasks []Task) int {
	if len(tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range tasks {
		if t.Status == TaskDone {
			done++
		}
	}
	total := len(tasks)
	return (200*done + total) / (2 * total)
}

// IsOverdue reports whether due is strictly before now
func IsOverdue(due Date) bool {
	return IsOverdueAt(due, time.Now())
}

func IsOverdueAt(due Date, now time.Time) bool {
	return due.Before(now)
}

// DaysBetween returns the absolute distance between a and b in days, rounded up
func DaysBetween(a, b time.Time) int {
	diff := b.Sub(a)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(diff.Hours() / 24))
}
