package views

import (
	"strings"
	"testing"
)

func TestRenderTaskListEmptyState(t *testing.T) {
	if got := RenderTaskList(nil); !strings.Contains(got, EmptyStateText) {
		t.Fatalf("expected empty state, got %q", got)
	}
}

func TestRenderTaskListRows(t *testing.T) {
	out := RenderTaskList([]TaskRow{
		{ID: 1, Text: "Pay rent", DueLabel: "Overdue: Jan 9", State: RowOverdue, Selected: true},
		{ID: 2, Text: "Buy milk", DueLabel: "Due today: Today", State: RowDueToday},
		{ID: 3, Text: "Old chore", State: RowCompleted},
	})
	for _, want := range []string{"Pay rent", "Overdue: Jan 9", "Buy milk", "Due today: Today", "Old chore", "[x]", "> "} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if lines := strings.Split(out, "\n"); len(lines) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(lines))
	}
}

func TestRenderStats(t *testing.T) {
	out := RenderStats("2 tasks remaining", 1, "Enable Notifications")
	for _, want := range []string{"2 tasks remaining", "1 overdue", "Enable Notifications"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
	if out := RenderStats("0 tasks remaining", 0, ""); strings.Contains(out, "overdue") {
		t.Fatalf("overdue badge should be hidden: %q", out)
	}
}

func TestRenderAppSections(t *testing.T) {
	out := RenderApp(AppData{
		Header:      "duetasks",
		TaskList:    "row",
		StatusLine:  "status: boom",
		StatusError: true,
		Footer:      "keys",
	})
	for _, want := range []string{"duetasks", "row", "status: boom", "keys"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderMarkdownFallsBackOnEmpty(t *testing.T) {
	if got := RenderMarkdown("   "); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
	if got := RenderMarkdown("# Help"); !strings.Contains(got, "Help") {
		t.Fatalf("expected rendered heading, got %q", got)
	}
}
