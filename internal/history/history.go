// internal/history/history.go
package history

import (
	"sync"

	"github.com/akashkhedar/datamanager/internal/types"
)

// Entry records one visited (task, annotation) pair.
type Entry struct {
	TaskID       types.TaskID
	AnnotationPK types.AnnotationPK
}

// History tracks navigation order for back/forward movement and label-stream
// resumption. A revisited task moves to the tail unless the visit originated
// from history navigation itself.
type History struct {
	mu      sync.Mutex
	entries []Entry
	cursor  int
}

// New creates an empty history.
func New() *History {
	return &History{cursor: -1}
}

// Visit records a visit. When fromHistory is true the order is left alone
// and only the cursor moves; otherwise any existing entry for the task is
// extracted and re-appended at the tail.
func (h *History) Visit(taskID types.TaskID, pk types.AnnotationPK, fromHistory bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if fromHistory {
		for i, e := range h.entries {
			if e.TaskID == taskID {
				h.entries[i].AnnotationPK = pk
				h.cursor = i
				return
			}
		}
		// Not actually in history; fall through and append.
	}

	for i, e := range h.entries {
		if e.TaskID == taskID {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			break
		}
	}
	h.entries = append(h.entries, Entry{TaskID: taskID, AnnotationPK: pk})
	h.cursor = len(h.entries) - 1
}

// Prev moves the cursor back and returns the entry there.
func (h *History) Prev() (Entry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cursor <= 0 {
		return Entry{}, false
	}
	h.cursor--
	return h.entries[h.cursor], true
}

// Next moves the cursor forward and returns the entry there.
func (h *History) Next() (Entry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cursor < 0 || h.cursor >= len(h.entries)-1 {
		return Entry{}, false
	}
	h.cursor++
	return h.entries[h.cursor], true
}

// CanPrev reports whether Prev would succeed.
func (h *History) CanPrev() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor > 0
}

// CanNext reports whether Next would succeed.
func (h *History) CanNext() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor >= 0 && h.cursor < len(h.entries)-1
}

// Entries returns a copy of the history in visit order.
func (h *History) Entries() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Clear resets the history.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
	h.cursor = -1
}
