package model

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusNone     Status = "none"
	StatusOverdue  Status = "overdue"
	StatusDueToday Status = "due-today"
	StatusUpcoming Status = "upcoming"
)

// Classify derives the temporal status of t relative to today. Completed
// tasks and tasks without a deadline are always StatusNone.
func Classify(t Task, today Date) Status {
	if !t.HasDue() || t.Completed {
		return StatusNone
	}
	switch due := *t.DueDate; {
	case due.Before(today):
		return StatusOverdue
	case due.Equal(today):
		return StatusDueToday
	default:
		return StatusUpcoming
	}
}

// FormatDue renders a due date for display: "Today", "Tomorrow", or a short
// month/day with the year only when it differs from today's.
func FormatDue(due, today Date) string {
	switch {
	case due.Equal(today):
		return "Today"
	case due.Equal(today.AddDays(1)):
		return "Tomorrow"
	}
	tm := due.Midnight(time.UTC)
	if due.Year != today.Year {
		return tm.Format("Jan 2, 2006")
	}
	return tm.Format("Jan 2")
}

func DueLabel(t Task, today Date) string {
	if !t.HasDue() {
		return ""
	}
	when := FormatDue(*t.DueDate, today)
	switch Classify(t, today) {
	case StatusOverdue:
		return "Overdue: " + when
	case StatusDueToday:
		return "Due today: " + when
	default:
		return "Due: " + when
	}
}

type Stats struct {
	Active    int
	Completed int
	Overdue   int
	DueToday  int
}

func ComputeStats(tasks []Task, today Date) Stats {
	var s Stats
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		} else {
			s.Active++
		}
		switch Classify(t, today) {
		case StatusOverdue:
			s.Overdue++
		case StatusDueToday:
			s.DueToday++
		}
	}
	return s
}

func RemainingLabel(active int) string {
	if active == 1 {
		return "1 task remaining"
	}
	return fmt.Sprintf("%d tasks remaining", active)
}
