// Package store persists render task records so status survives polling
// across requests. The mongo store backs the service; the memory store
// backs one-shot CLI renders and tests.
package store

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned for unknown task ids.
var ErrNotFound = errors.New("task not found")

// Record is one task's persisted state, written by the pipeline worker
// after every status or progress change.
type Record struct {
	ID             string    `bson:"_id" json:"task_id"`
	Status         string    `bson:"status" json:"status"`
	Progress       int       `bson:"progress" json:"progress"`
	Message        string    `bson:"message" json:"message"`
	ErrorMessage   string    `bson:"error_message,omitempty" json:"error_message,omitempty"`
	OutputPath     string    `bson:"output_path,omitempty" json:"output_path,omitempty"`
	OutputDuration float64   `bson:"output_duration,omitempty" json:"output_duration,omitempty"`
	OutputSize     int64     `bson:"output_size,omitempty" json:"output_size,omitempty"`
	Warnings       []string  `bson:"warnings,omitempty" json:"warnings,omitempty"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

// Store saves and loads task records.
type Store interface {
	Save(ctx context.Context, rec Record) error
	Get(ctx context.Context, id string) (Record, error)
}

// MemoryStore keeps records in a process-local map.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

// Save upserts a record by id.
func (s *MemoryStore) Save(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = rec
	return nil
}

// Get loads a record by id.
func (s *MemoryStore) Get(_ context.Context, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}
