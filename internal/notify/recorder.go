package notify

import (
	"context"
	"sync"
)

// Recorder is an in-memory Platform. It backs headless runs and tests.
type Recorder struct {
	mu sync.Mutex
	// Unsupported makes Supported report false.
	Unsupported bool
	// Decision is what RequestPermission resolves to.
	Decision   Permission
	RequestErr error
	ShowErr    error
	Requests   int
	perm       Permission
	shown      []Notification
}

func NewRecorder(initial Permission) *Recorder {
	if !initial.IsValid() {
		initial = PermissionDefault
	}
	return &Recorder{perm: initial, Decision: PermissionGranted}
}

func (r *Recorder) Supported() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.Unsupported
}

func (r *Recorder) Permission() Permission {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.perm
}

func (r *Recorder) SetPermission(p Permission) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.perm = p
}

func (r *Recorder) RequestPermission(context.Context) (Permission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Requests++
	if r.RequestErr != nil {
		return r.perm, r.RequestErr
	}
	r.perm = r.Decision
	return r.perm, nil
}

func (r *Recorder) Show(_ context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ShowErr != nil {
		return r.ShowErr
	}
	if r.perm != PermissionGranted {
		return ErrNotGranted
	}
	r.shown = append(r.shown, n)
	return nil
}

func (r *Recorder) Shown() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.shown))
	copy(out, r.shown)
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shown = nil
}
