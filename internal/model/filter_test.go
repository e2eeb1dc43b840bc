package model

import (
	"errors"
	"testing"
)

func sampleTasks() []Task {
	return []Task{
		{ID: 5, Text: "e", Completed: true},
		{ID: 4, Text: "d"},
		{ID: 3, Text: "c", Completed: true},
		{ID: 2, Text: "b"},
		{ID: 1, Text: "a"},
	}
}

func ids(tasks []Task) []int64 {
	out := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestFilterModes(t *testing.T) {
	tasks := sampleTasks()
	cases := []struct {
		mode FilterMode
		want []int64
	}{
		{FilterAll, []int64{5, 4, 3, 2, 1}},
		{FilterActive, []int64{4, 2, 1}},
		{FilterCompleted, []int64{5, 3}},
	}
	for _, tc := range cases {
		got := ids(Filter(tasks, tc.mode))
		if len(got) != len(tc.want) {
			t.Fatalf("%s: got %v want %v", tc.mode, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("%s: got %v want %v", tc.mode, got, tc.want)
			}
		}
	}
}

func TestFilterPartition(t *testing.T) {
	tasks := sampleTasks()
	active := Filter(tasks, FilterActive)
	completed := Filter(tasks, FilterCompleted)
	seen := make(map[int64]int)
	for _, task := range active {
		seen[task.ID]++
	}
	for _, task := range completed {
		seen[task.ID]++
	}
	if len(seen) != len(tasks) {
		t.Fatalf("union size %d, want %d", len(seen), len(tasks))
	}
	for id, n := range seen {
		if n != 1 {
			t.Fatalf("task %d appears %d times across active/completed", id, n)
		}
	}
}

func TestFilterCompletedExample(t *testing.T) {
	a := Task{ID: 1, Text: "taskA"}
	b := Task{ID: 2, Text: "taskB", Completed: true}
	got := Filter([]Task{a, b}, FilterCompleted)
	if len(got) != 1 || got[0].ID != b.ID {
		t.Fatalf("expected [taskB], got %+v", got)
	}
}

func TestFilterEmptyResult(t *testing.T) {
	got := Filter([]Task{{ID: 1, Text: "a"}}, FilterCompleted)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestParseFilterMode(t *testing.T) {
	mode, err := ParseFilterMode(" Active ")
	if err != nil || mode != FilterActive {
		t.Fatalf("unexpected parse result: %q %v", mode, err)
	}
	if _, err := ParseFilterMode("done"); !errors.Is(err, ErrInvalidFilter) {
		t.Fatalf("expected ErrInvalidFilter, got %v", err)
	}
}
