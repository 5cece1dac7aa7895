package resolve

import (
	"sync"

	"github.com/google/uuid"

	"record-triplifier/internal/common"
)

// SaveAs is the side-channel accumulator of matched values keyed by a
// node-declared tag. It grows monotonically across all records of a run and
// supports safe concurrent appends; insertion order within one key is
// arbitrary under parallel processing but complete.
type SaveAs struct {
	mu     sync.Mutex
	runID  string
	values map[string][]string
}

// NewSaveAs creates an empty store tagged with a fresh run ID.
func NewSaveAs() *SaveAs {
	return &SaveAs{
		runID:  uuid.NewString(),
		values: make(map[string][]string),
	}
}

// RunID identifies the run this store accumulates for.
func (s *SaveAs) RunID() string {
	return s.runID
}

// Add appends values under the given key.
func (s *SaveAs) Add(key string, vals ...string) {
	if s == nil || key == "" || len(vals) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = append(s.values[key], vals...)
}

// Values returns a copy of the accumulated values for a key.
func (s *SaveAs) Values(key string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.values[key]...)
}

// Keys returns the keys that accumulated at least one value.
func (s *SaveAs) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.values))
	for k := range s.values {
		out = append(out, k)
	}

	return out
}

// Dedup removes duplicate values under every key, preserving first-seen order.
func (s *SaveAs) Dedup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, vals := range s.values {
		s.values[k] = common.Dedup(vals)
	}
}

// Clear drops all accumulated values. The run ID is retained.
func (s *SaveAs) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values = make(map[string][]string)
}
