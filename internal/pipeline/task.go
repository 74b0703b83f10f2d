package pipeline

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"videomix/internal/store"
	"videomix/internal/taskconfig"
)

// Status is a render task's lifecycle state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Task is one render job. Only the worker goroutine that owns the task
// mutates it; pollers read value-copy snapshots, never the live struct.
type Task struct {
	mu sync.Mutex

	id             string
	cfg            taskconfig.Config
	status         Status
	progress       int
	message        string
	errMessage     string
	outputPath     string
	outputDuration float64
	outputSize     int64
	warnings       []string
	createdAt      time.Time
	updatedAt      time.Time
}

// Snapshot is a consistent value copy of a task's visible state.
type Snapshot struct {
	ID             string    `json:"task_id"`
	Status         Status    `json:"status"`
	Progress       int       `json:"progress"`
	Message        string    `json:"message"`
	ErrorMessage   string    `json:"error_message,omitempty"`
	OutputPath     string    `json:"output_path,omitempty"`
	OutputDuration float64   `json:"output_duration,omitempty"`
	OutputSize     int64     `json:"output_size,omitempty"`
	Warnings       []string  `json:"warnings,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewTask creates a pending task with a fresh id.
func NewTask(cfg taskconfig.Config) *Task {
	now := time.Now().UTC()
	return &Task{
		id:        uuid.New().String(),
		cfg:       cfg,
		status:    StatusPending,
		message:   "queued",
		createdAt: now,
		updatedAt: now,
	}
}

// ID returns the task's identifier.
func (t *Task) ID() string {
	return t.id
}

// Config returns the task's validated configuration.
func (t *Task) Config() taskconfig.Config {
	return t.cfg
}

// Snapshot returns a copy of the task's state safe to read concurrently
// with the worker.
func (t *Task) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	warnings := make([]string, len(t.warnings))
	copy(warnings, t.warnings)
	return Snapshot{
		ID:             t.id,
		Status:         t.status,
		Progress:       t.progress,
		Message:        t.message,
		ErrorMessage:   t.errMessage,
		OutputPath:     t.outputPath,
		OutputDuration: t.outputDuration,
		OutputSize:     t.outputSize,
		Warnings:       warnings,
		CreatedAt:      t.createdAt,
		UpdatedAt:      t.updatedAt,
	}
}

// start moves the task to processing.
func (t *Task) start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = StatusProcessing
	t.updatedAt = time.Now().UTC()
}

// setProgress advances progress. Progress never moves backwards, so a
// late or out-of-order update can't violate the polling contract.
func (t *Task) setProgress(p int, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if p > t.progress {
		t.progress = p
	}
	t.message = message
	t.updatedAt = time.Now().UTC()
}

// warn attaches a non-fatal notice, e.g. a skipped asset.
func (t *Task) warn(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.warnings = append(t.warnings, message)
	t.updatedAt = time.Now().UTC()
}

// complete finishes the task. Completion always reads as 100 percent.
func (t *Task) complete(outputPath string, duration float64, size int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = StatusCompleted
	t.progress = 100
	t.message = "completed"
	t.outputPath = outputPath
	t.outputDuration = duration
	t.outputSize = size
	t.updatedAt = time.Now().UTC()
}

// fail finishes the task with an error. Progress stays frozen at its last
// value so pollers never see it move backwards.
func (t *Task) fail(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = StatusFailed
	t.message = "failed"
	t.errMessage = err.Error()
	t.updatedAt = time.Now().UTC()
}

// record converts a snapshot into its persisted form.
func (s Snapshot) record() store.Record {
	return store.Record{
		ID:             s.ID,
		Status:         string(s.Status),
		Progress:       s.Progress,
		Message:        s.Message,
		ErrorMessage:   s.ErrorMessage,
		OutputPath:     s.OutputPath,
		OutputDuration: s.OutputDuration,
		OutputSize:     s.OutputSize,
		Warnings:       s.Warnings,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}
