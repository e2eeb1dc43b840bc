package model

import (
	"errors"
	"fmt"
)

var ErrInvalidReminderKind = errors.New("model: invalid reminder kind")

type ReminderKind string

const (
	ReminderOverdue  ReminderKind = "overdue"
	ReminderDueToday ReminderKind = "due-today"
)

func (k ReminderKind) IsValid() bool {
	switch k {
	case ReminderOverdue, ReminderDueToday:
		return true
	default:
		return false
	}
}

func (k ReminderKind) Validate() error {
	if !k.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidReminderKind, k)
	}
	return nil
}
