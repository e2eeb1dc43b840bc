package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sandeepkv93/duetasks/internal/storage"
)

type fakeRunner struct {
	calls [][]string
	err   error
}

func (f *fakeRunner) run(_ context.Context, name string, args ...string) error {
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.err
}

func newTestDesktop(t *testing.T, kv storage.KV, goos string, opts DesktopOptions) (*Desktop, *fakeRunner) {
	t.Helper()
	d := NewDesktop(context.Background(), kv, opts)
	runner := &fakeRunner{}
	d.goos = goos
	d.run = runner.run
	d.lookPath = func(name string) (string, error) { return "/usr/bin/" + name, nil }
	return d, runner
}

func TestDesktopRequestPersistsPermission(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	d, _ := newTestDesktop(t, kv, "linux", DesktopOptions{})
	if d.Permission() != PermissionDefault {
		t.Fatalf("expected default permission, got %q", d.Permission())
	}
	perm, err := d.RequestPermission(ctx)
	if err != nil || perm != PermissionGranted {
		t.Fatalf("unexpected request result: %q %v", perm, err)
	}
	raw, _ := kv.Get(ctx, PermissionKey)
	if raw != "granted" {
		t.Fatalf("expected persisted grant, got %q", raw)
	}

	reopened := NewDesktop(ctx, kv, DesktopOptions{})
	if reopened.Permission() != PermissionGranted {
		t.Fatalf("expected granted after reopen, got %q", reopened.Permission())
	}
}

func TestDesktopBlockedForcesDenied(t *testing.T) {
	kv := storage.NewMemoryKV()
	_ = kv.Set(context.Background(), PermissionKey, "granted")
	d, _ := newTestDesktop(t, kv, "linux", DesktopOptions{Blocked: true})
	if d.Permission() != PermissionDenied {
		t.Fatalf("expected denied, got %q", d.Permission())
	}
	out, err := RequestFlow(context.Background(), d, 0)
	if err != nil || out != OutcomeBlocked {
		t.Fatalf("expected blocked outcome, got %q %v", out, err)
	}
}

func TestDesktopShowNotifySend(t *testing.T) {
	ctx := context.Background()
	d, runner := newTestDesktop(t, storage.NewMemoryKV(), "linux", DesktopOptions{DismissAfter: 5000})
	if err := d.Show(ctx, Notification{Title: "t", Body: "b"}); !errors.Is(err, ErrNotGranted) {
		t.Fatalf("expected ErrNotGranted before permission, got %v", err)
	}
	_, _ = d.RequestPermission(ctx)
	if err := d.Show(ctx, Notification{Title: "Task Overdue!", Body: `"Pay rent" was due on Jan 9`}); err != nil {
		t.Fatalf("show: %v", err)
	}
	if len(runner.calls) != 1 {
		t.Fatalf("expected one command, got %d", len(runner.calls))
	}
	got := strings.Join(runner.calls[0], " ")
	if !strings.HasPrefix(got, "notify-send -a duetasks -t 5000") || !strings.Contains(got, "Task Overdue!") {
		t.Fatalf("unexpected notify-send call: %s", got)
	}
}

func TestDesktopShowOsascriptEscapes(t *testing.T) {
	ctx := context.Background()
	d, runner := newTestDesktop(t, storage.NewMemoryKV(), "darwin", DesktopOptions{})
	_, _ = d.RequestPermission(ctx)
	if err := d.Show(ctx, Notification{Title: "Task Due Today!", Body: `"Call mom" is due today`}); err != nil {
		t.Fatalf("show: %v", err)
	}
	call := runner.calls[0]
	if call[0] != "osascript" || !strings.Contains(call[2], `\"Call mom\"`) {
		t.Fatalf("unexpected osascript call: %v", call)
	}
}

func TestDesktopUnsupported(t *testing.T) {
	d, _ := newTestDesktop(t, storage.NewMemoryKV(), "windows", DesktopOptions{})
	if d.Supported() {
		t.Fatal("expected windows to be unsupported")
	}
	if _, err := d.RequestPermission(context.Background()); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}

	missing, _ := newTestDesktop(t, storage.NewMemoryKV(), "linux", DesktopOptions{})
	missing.lookPath = func(string) (string, error) { return "", errors.New("not found") }
	if missing.Supported() {
		t.Fatal("expected missing notify-send to be unsupported")
	}
}
