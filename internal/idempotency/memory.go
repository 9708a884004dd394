package idempotency

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps records in process memory. Expired records are invisible
// to callers and removed by DeleteExpired.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*Record
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*Record),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) Reserve(ctx context.Context, key, requestHash string, ttl time.Duration) (*Record, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if rec, ok := s.records[key]; ok && now.Before(rec.ExpiresAt) {
		return checkExisting(rec.clone(), requestHash)
	}

	s.records[key] = &Record{
		Key:         key,
		RequestHash: requestHash,
		State:       StateProcessing,
		ExpiresAt:   now.Add(ttl),
	}
	return nil, nil
}

func (s *MemoryStore) Complete(ctx context.Context, key string, resp Response, ttl time.Duration) error {
	if key == "" {
		return ErrKeyRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok {
		rec = &Record{Key: key}
		s.records[key] = rec
	}

	body := append([]byte(nil), resp.Body...)
	resp.Body = body
	rec.State = StateCompleted
	rec.Response = &resp
	rec.ExpiresAt = s.now().Add(ttl)
	return nil
}

func (s *MemoryStore) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.records[key]; ok && rec.State == StateProcessing {
		delete(s.records, key)
	}
	return nil
}

// DeleteExpired removes up to limit records that expired at or before before.
func (s *MemoryStore) DeleteExpired(before time.Time, limit int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for key, rec := range s.records {
		if limit > 0 && deleted >= limit {
			break
		}
		if !rec.ExpiresAt.After(before) {
			delete(s.records, key)
			deleted++
		}
	}
	return deleted, nil
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
