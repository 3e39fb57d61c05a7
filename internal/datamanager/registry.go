// internal/datamanager/registry.go
package datamanager

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Action is a named toolbar button or menu entry contributed by plugin code.
type Action struct {
	ID      string
	Title   string
	Handler func(ctx context.Context, dm *DataManager) error
}

// Instrument is a named custom toolbar widget.
type Instrument struct {
	ID    string
	Title string
	Build func(dm *DataManager) any
}

// registry is a uniquely-keyed extension point. Duplicate or missing
// identifiers are rejected outright; registries are wiped by Reload and must
// be filled again by the embedding code.
type registry[T any] struct {
	mu    sync.RWMutex
	kind  string
	items map[string]T
	order []string
}

func newRegistry[T any](kind string) *registry[T] {
	return &registry[T]{kind: kind, items: make(map[string]T)}
}

func (r *registry[T]) add(id string, item T) error {
	if id == "" {
		return fmt.Errorf("%s registered without an id", r.kind)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; ok {
		return fmt.Errorf("duplicate %s id %q", r.kind, id)
	}
	r.items[id] = item
	r.order = append(r.order, id)
	return nil
}

func (r *registry[T]) get(id string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	return item, ok
}

func (r *registry[T]) ids() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func (r *registry[T]) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = make(map[string]T)
	r.order = nil
}

// parseToolbar divides the layout string into pipe-separated sections of
// space-separated instrument names. Unknown names are warned about and
// dropped rather than failing the whole toolbar.
func parseToolbar(layout string, known func(string) bool) [][]string {
	var sections [][]string
	for _, rawSection := range strings.Split(layout, "|") {
		var section []string
		for _, name := range strings.Fields(rawSection) {
			if !known(name) {
				slog.Warn("unknown toolbar instrument, dropping", "instrument", name)
				continue
			}
			section = append(section, name)
		}
		if len(section) > 0 {
			sections = append(sections, section)
		}
	}
	return sections
}
