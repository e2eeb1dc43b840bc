package model

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyText = errors.New("model: task text is required")
	ErrInvalidID = errors.New("model: task id must be positive")
)

type Task struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	DueDate   *Date     `json:"dueDate,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (t Task) Validate() error {
	if t.ID <= 0 {
		return ErrInvalidID
	}
	if strings.TrimSpace(t.Text) == "" {
		return ErrEmptyText
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task createdAt is required")
	}
	return nil
}

// HasDue reports whether the task carries a deadline.
func (t Task) HasDue() bool {
	return t.DueDate != nil && !t.DueDate.IsZero()
}

// Clone copies t so the due date pointer is not shared.
func (t Task) Clone() Task {
	out := t
	if t.DueDate != nil {
		d := *t.DueDate
		out.DueDate = &d
	}
	return out
}
