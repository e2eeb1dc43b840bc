package notify

import (
	"context"
	"fmt"
	"time"
)

type Outcome string

const (
	OutcomeUnsupported    Outcome = "unsupported"
	OutcomeBlocked        Outcome = "blocked"
	OutcomeAlreadyEnabled Outcome = "already-enabled"
	OutcomeGranted        Outcome = "granted"
	OutcomeDenied         Outcome = "denied"
	OutcomeDismissed      Outcome = "dismissed"
)

func (o Outcome) Message() string {
	switch o {
	case OutcomeUnsupported:
		return "Notifications are not supported on this system"
	case OutcomeBlocked:
		return "Notifications are blocked. Please enable them in your settings."
	case OutcomeAlreadyEnabled:
		return "Notifications are already enabled!"
	case OutcomeGranted:
		return "Notifications enabled"
	case OutcomeDenied:
		return "Notifications were denied"
	case OutcomeDismissed:
		return "Notification permission was not granted"
	default:
		return string(o)
	}
}

// Confirmation is shown once permission has just been granted.
var Confirmation = Notification{
	Title: "Notifications Enabled",
	Body:  "You will now receive reminders for your tasks!",
	Tag:   DefaultTag,
}

// RequestFlow runs the explicit user-initiated permission request. A
// previously denied permission is never re-requested. The confirmation stays
// up for dismissAfter; a failed confirmation is returned alongside
// OutcomeGranted because the permission stands either way.
func RequestFlow(ctx context.Context, p Platform, dismissAfter time.Duration) (Outcome, error) {
	if !p.Supported() {
		return OutcomeUnsupported, nil
	}
	switch p.Permission() {
	case PermissionDenied:
		return OutcomeBlocked, nil
	case PermissionGranted:
		return OutcomeAlreadyEnabled, nil
	}

	perm, err := p.RequestPermission(ctx)
	if err != nil {
		return OutcomeDismissed, err
	}
	switch perm {
	case PermissionGranted:
		confirm := Confirmation
		confirm.Timeout = dismissAfter
		if err := p.Show(ctx, confirm); err != nil {
			return OutcomeGranted, fmt.Errorf("notify: show confirmation: %w", err)
		}
		return OutcomeGranted, nil
	case PermissionDenied:
		return OutcomeDenied, nil
	default:
		return OutcomeDismissed, nil
	}
}
