// Package notify wraps the platform notification capability: permission
// state, the permission request flow and showing a reminder.
package notify

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUnsupported = errors.New("notify: notifications not supported")
	ErrNotGranted  = errors.New("notify: permission not granted")
)

const (
	DefaultTag          = "todo-notification"
	DefaultDismissAfter = 5 * time.Second
)

type Permission string

const (
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
	// PermissionDefault means the user has not been asked yet.
	PermissionDefault Permission = "default"
)

func (p Permission) IsValid() bool {
	switch p {
	case PermissionGranted, PermissionDenied, PermissionDefault:
		return true
	default:
		return false
	}
}

type Notification struct {
	Title string
	Body  string
	Tag   string
	// Timeout is how long the reminder stays up before it is dismissed.
	Timeout time.Duration
}

type Platform interface {
	Supported() bool
	Permission() Permission
	// RequestPermission asks the platform (and through it the user) for
	// permission. It may block until the decision is made.
	RequestPermission(ctx context.Context) (Permission, error)
	Show(ctx context.Context, n Notification) error
}

func StatusLabel(p Permission) string {
	switch p {
	case PermissionGranted:
		return "Notifications Enabled"
	case PermissionDenied:
		return "Notifications Blocked"
	default:
		return "Enable Notifications"
	}
}
