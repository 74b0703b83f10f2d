package pipeline

import (
	"errors"
	"testing"
)

func TestTaskLifecycle(t *testing.T) {
	task := NewTask(testConfig(t))
	if task.ID() == "" {
		t.Fatal("task has no id")
	}
	snap := task.Snapshot()
	if snap.Status != StatusPending || snap.Progress != 0 {
		t.Fatalf("new task snapshot = %v/%d, want pending/0", snap.Status, snap.Progress)
	}

	task.start()
	if task.Snapshot().Status != StatusProcessing {
		t.Fatal("start did not move task to processing")
	}

	task.complete("out/x.mp4", 42.5, 1024)
	snap = task.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("status = %v, want completed", snap.Status)
	}
	if snap.Progress != 100 {
		t.Fatalf("completed progress = %d, want 100", snap.Progress)
	}
	if snap.OutputPath != "out/x.mp4" || snap.OutputDuration != 42.5 {
		t.Fatalf("output fields not recorded: %+v", snap)
	}
}

// Progress may never move backwards, whatever order updates arrive in.
func TestTaskProgressMonotonic(t *testing.T) {
	task := NewTask(testConfig(t))
	task.start()

	updates := []int{5, 10, 20, 55, 30, 65, 40, 90}
	last := 0
	for _, p := range updates {
		task.setProgress(p, "working")
		got := task.Snapshot().Progress
		if got < last {
			t.Fatalf("progress regressed from %d to %d", last, got)
		}
		last = got
	}
	if last != 90 {
		t.Fatalf("final progress = %d, want 90", last)
	}
}

// Failure freezes progress at its last value; it must not reset.
func TestTaskFailKeepsProgress(t *testing.T) {
	task := NewTask(testConfig(t))
	task.start()
	task.setProgress(65, "subtitles prepared")
	task.fail(errors.New("encoder exploded"))

	snap := task.Snapshot()
	if snap.Status != StatusFailed {
		t.Fatalf("status = %v, want failed", snap.Status)
	}
	if snap.Progress != 65 {
		t.Fatalf("failed progress = %d, want frozen at 65", snap.Progress)
	}
	if snap.ErrorMessage == "" {
		t.Fatal("failure lost its error message")
	}
}

func TestTaskWarnings(t *testing.T) {
	task := NewTask(testConfig(t))
	task.warn("skipped asset a.mp4")
	task.warn("skipped asset b.mp4")

	snap := task.Snapshot()
	if len(snap.Warnings) != 2 {
		t.Fatalf("warnings = %v, want 2 entries", snap.Warnings)
	}
	// The snapshot owns its slice; appending to the task later must not
	// show through.
	task.warn("third")
	if len(snap.Warnings) != 2 {
		t.Fatal("snapshot warnings aliased the live slice")
	}
}
