package testutil

import (
	"sort"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/yungbote/rehabdir-backend/internal/data/aggregates"
)

// HooksRecorder captures aggregate hook signals in tests.
type HooksRecorder struct {
	mu sync.Mutex

	Operations []OperationEvent
	Conflicts  []string
	Retries    []string
	// Bumps holds one entry per namespace bump, in order.
	Bumps []string
}

type OperationEvent struct {
	Name     string
	Status   string
	Duration time.Duration
}

var _ aggregates.Hooks = (*HooksRecorder)(nil)

func (h *HooksRecorder) ObserveOperation(name, status string, dur time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Operations = append(h.Operations, OperationEvent{Name: name, Status: status, Duration: dur})
}

func (h *HooksRecorder) IncConflict(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Conflicts = append(h.Conflicts, name)
}

func (h *HooksRecorder) IncRetry(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Retries = append(h.Retries, name)
}

func (h *HooksRecorder) ObserveBump(namespace string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Bumps = append(h.Bumps, namespace)
}

// BumpedNamespaces returns the distinct bumped namespaces, sorted.
func (h *HooksRecorder) BumpedNamespaces() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := mapset.NewThreadUnsafeSet[string](h.Bumps...).ToSlice()
	sort.Strings(out)
	return out
}

// LastStatus returns the status of the most recent operation named op.
func (h *HooksRecorder) LastStatus(op string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := len(h.Operations) - 1; i >= 0; i-- {
		if h.Operations[i].Name == op {
			return h.Operations[i].Status, true
		}
	}
	return "", false
}

// Reset drops everything recorded so far.
func (h *HooksRecorder) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Operations, h.Conflicts, h.Retries, h.Bumps = nil, nil, nil, nil
}
