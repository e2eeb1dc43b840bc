package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/sandeepkv93/duetasks/internal/storage"
)

const PermissionKey = "notification_permission"

type DesktopOptions struct {
	AppName string
	// Blocked forces the denied state, mirroring a platform policy the user
	// has to lift in configuration.
	Blocked      bool
	DismissAfter int // milliseconds
	Logger       *slog.Logger
}

// Desktop shows reminders with notify-send on linux and osascript on darwin.
// The granted permission is persisted in the key-value store.
type Desktop struct {
	kv       storage.KV
	opts     DesktopOptions
	goos     string
	lookPath func(string) (string, error)
	run      func(ctx context.Context, name string, args ...string) error

	// mu guards permission; the TUI requests permission off its update loop.
	mu         sync.Mutex
	permission Permission
}

func NewDesktop(ctx context.Context, kv storage.KV, opts DesktopOptions) *Desktop {
	if opts.AppName == "" {
		opts.AppName = "duetasks"
	}
	if opts.DismissAfter <= 0 {
		opts.DismissAfter = int(DefaultDismissAfter.Milliseconds())
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	d := &Desktop{
		kv:         kv,
		opts:       opts,
		goos:       runtime.GOOS,
		lookPath:   exec.LookPath,
		run:        runCommand,
		permission: PermissionDefault,
	}
	if raw, err := kv.Get(ctx, PermissionKey); err == nil {
		if p := Permission(strings.TrimSpace(raw)); p.IsValid() {
			d.permission = p
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		opts.Logger.Warn("notification_permission_load_failed", slog.String("error", err.Error()))
	}
	return d
}

func runCommand(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

func (d *Desktop) binary() string {
	switch d.goos {
	case "linux", "freebsd", "openbsd":
		return "notify-send"
	case "darwin":
		return "osascript"
	default:
		return ""
	}
}

func (d *Desktop) Supported() bool {
	bin := d.binary()
	if bin == "" {
		return false
	}
	_, err := d.lookPath(bin)
	return err == nil
}

func (d *Desktop) Permission() Permission {
	if d.opts.Blocked {
		return PermissionDenied
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.permission
}

// RequestPermission grants on an explicit request; the keypress asking for
// notifications is the user's consent.
func (d *Desktop) RequestPermission(ctx context.Context) (Permission, error) {
	if !d.Supported() {
		return PermissionDefault, ErrUnsupported
	}
	if d.opts.Blocked {
		return PermissionDenied, nil
	}
	d.mu.Lock()
	d.permission = PermissionGranted
	d.mu.Unlock()
	if err := d.kv.Set(ctx, PermissionKey, string(PermissionGranted)); err != nil {
		d.opts.Logger.Error("notification_permission_persist_failed", slog.String("error", err.Error()))
	}
	return PermissionGranted, nil
}

func (d *Desktop) Show(ctx context.Context, n Notification) error {
	if d.Permission() != PermissionGranted {
		return ErrNotGranted
	}
	if !d.Supported() {
		return ErrUnsupported
	}
	timeout := d.opts.DismissAfter
	if n.Timeout > 0 {
		timeout = int(n.Timeout.Milliseconds())
	}
	tag := n.Tag
	if tag == "" {
		tag = DefaultTag
	}

	var err error
	switch d.binary() {
	case "notify-send":
		err = d.run(ctx, "notify-send",
			"-a", d.opts.AppName,
			"-t", strconv.Itoa(timeout),
			"-h", "string:x-canonical-private-synchronous:"+tag,
			n.Title, n.Body,
		)
	case "osascript":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		err = d.run(ctx, "osascript", "-e", script)
	}
	if err != nil {
		return fmt.Errorf("show notification: %w", err)
	}
	return nil
}

func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
