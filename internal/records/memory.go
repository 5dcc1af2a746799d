package records

import (
	"context"
	"sync"
	"time"

	"campushub.org/internal/ids"
)

// MemoryStore is an in-memory Store used in tests and when the service runs
// without a database DSN. Safe for concurrent use.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]Document
	now         func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string][]Document),
		now:         time.Now,
	}
}

// SetClock overrides the timestamp source. Test hook.
func (s *MemoryStore) SetClock(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

func (s *MemoryStore) Create(_ context.Context, collection string, doc Document) (string, error) {
	id := ids.New()
	stored := make(Document, len(doc)+2)
	for k, v := range doc {
		stored[k] = v
	}
	stored["id"] = id
	if _, ok := stored["created_at"]; !ok {
		stored["created_at"] = s.now().UTC().Format(time.RFC3339)
	}

	s.mu.Lock()
	s.collections[collection] = append(s.collections[collection], stored)
	s.mu.Unlock()
	return id, nil
}

func (s *MemoryStore) List(_ context.Context, collection string, filter Filter) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Document
	for _, doc := range s.collections[collection] {
		if !matches(doc, filter) {
			continue
		}
		copied := make(Document, len(doc))
		for k, v := range doc {
			copied[k] = v
		}
		out = append(out, copied)
	}
	return out, nil
}

func (s *MemoryStore) UpdateOne(_ context.Context, collection, id string, patch Document) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, doc := range s.collections[collection] {
		if doc.ID() != id {
			continue
		}
		for k, v := range patch {
			if k == "id" {
				continue
			}
			doc[k] = v
		}
		doc["updated_at"] = s.now().UTC().Format(time.RFC3339)
		return 1, nil
	}
	return 0, nil
}

func matches(doc Document, filter Filter) bool {
	for k, want := range filter {
		if doc[k] != want {
			return false
		}
	}
	return true
}
