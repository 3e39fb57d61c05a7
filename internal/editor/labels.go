// internal/editor/labels.go
package editor

import (
	"sort"
	"sync"
)

// LabelRegistry is the per-project custom-label vocabulary, grouped by the
// control tag each label extends.
type LabelRegistry struct {
	mu     sync.Mutex
	byCtrl map[string][]string
}

// NewLabelRegistry creates an empty registry.
func NewLabelRegistry() *LabelRegistry {
	return &LabelRegistry{byCtrl: make(map[string][]string)}
}

// Add appends labels for a control tag, skipping duplicates.
func (r *LabelRegistry) Add(control string, labels []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing := r.byCtrl[control]
	for _, label := range labels {
		if !contains(existing, label) {
			existing = append(existing, label)
		}
	}
	r.byCtrl[control] = existing
}

// Labels returns the labels registered for a control tag.
func (r *LabelRegistry) Labels(control string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.byCtrl[control]))
	copy(out, r.byCtrl[control])
	return out
}

// Controls returns the control tags with registered labels, sorted.
func (r *LabelRegistry) Controls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.byCtrl))
	for c := range r.byCtrl {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func contains(list []string, s string) bool {
	for _, cur := range list {
		if cur == s {
			return true
		}
	}
	return false
}
