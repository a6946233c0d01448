// Package memory provides an in-memory catalog store used by tests and by
// local runs without a postgres instance. It mirrors the semantics of the
// postgresql store: uniqueness-guarded intent writes, unconditional
// supersession for later statuses, and job-id-idempotent transaction records.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/zkmarket/mintworkersrv/internal/catalog"
	"github.com/zkmarket/mintworkersrv/pkg/types"
)

type Store struct {
	mu      sync.RWMutex
	entries map[types.ObjectId]*catalog.Entry
	records map[string]*catalog.TransactionRecord
}

func NewStore() *Store {
	return &Store{
		entries: make(map[types.ObjectId]*catalog.Entry),
		records: make(map[string]*catalog.TransactionRecord),
	}
}

func cloneEntry(e *catalog.Entry) *catalog.Entry {
	c := *e
	if e.Document != nil {
		c.Document = make(map[string]any, len(e.Document))
		for k, v := range e.Document {
			c.Document[k] = v
		}
	}
	return &c
}

func (s *Store) CreateEntry(ctx context.Context, entry *catalog.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.Status.IsIntent() {
		if _, ok := s.entries[entry.ObjectId]; ok {
			return catalog.ErrConflict.Msg("catalog entry already exists: " + entry.ObjectId.String())
		}
	}
	c := cloneEntry(entry)
	c.UpdatedAt = time.Now()
	s.entries[entry.ObjectId] = c
	return nil
}

func (s *Store) GetEntry(ctx context.Context, id types.ObjectId) (*catalog.Entry, error) {
	if id.IsNil() {
		return nil, catalog.ErrInvalidEntry.Msg("object id cannot be empty")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, catalog.ErrNotFound.Msg("catalog entry not found: " + id.String())
	}
	return cloneEntry(e), nil
}

func (s *Store) UpdateEntryFields(ctx context.Context, id types.ObjectId, mutate catalog.Mutation) (*catalog.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, catalog.ErrNotFound.Msg("catalog entry not found: " + id.String())
	}
	c := cloneEntry(e)
	if err := mutate(c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.UpdatedAt = time.Now()
	s.entries[id] = c
	return cloneEntry(c), nil
}

func (s *Store) AppendTransactionRecord(ctx context.Context, rec *catalog.TransactionRecord) error {
	if rec.JobId == "" {
		return catalog.ErrInvalidEntry.Msg("job id cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[rec.JobId]; ok {
		return nil
	}
	c := *rec
	if c.Timestamp.IsZero() {
		c.Timestamp = time.Now()
	}
	s.records[rec.JobId] = &c
	return nil
}

func (s *Store) GetTransactionRecord(ctx context.Context, jobId string) (*catalog.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[jobId]
	if !ok {
		return nil, catalog.ErrNotFound.Msg("transaction record not found: " + jobId)
	}
	c := *r
	return &c, nil
}

func (s *Store) Close(ctx context.Context) {}
