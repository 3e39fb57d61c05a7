// internal/store/store.go
package store

import (
	"log/slog"
	"sync"

	"github.com/akashkhedar/datamanager/internal/types"
)

// Store holds the project, the task list and per-task annotations, drafts
// and predictions. It may be destroyed asynchronously while a network call
// is in flight, so every consumer resolves nodes by id through a liveness
// check instead of caching pointers across suspension points.
type Store struct {
	mu       sync.RWMutex
	alive    bool
	project  *types.Project
	tasks    map[types.TaskID]*types.Task
	order    []types.TaskID
	selected types.TaskID
	loading  bool
}

// New creates an empty, live store.
func New() *Store {
	return &Store{
		alive: true,
		tasks: make(map[types.TaskID]*types.Task),
	}
}

// Alive reports whether the store has not been destroyed.
func (s *Store) Alive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.alive
}

// Destroy tears the store down. All subsequent lookups return not-found and
// all mutations become no-ops.
func (s *Store) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alive = false
	s.tasks = make(map[types.TaskID]*types.Task)
	s.order = nil
	s.project = nil
	s.selected = 0
}

// SetProject installs the project settings.
func (s *Store) SetProject(p *types.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.alive {
		return
	}
	s.project = p
}

// Project returns the project settings, or nil when unset or dead.
func (s *Store) Project() *types.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.alive {
		return nil
	}
	return s.project
}

// SetTasks replaces the whole task list, preserving list order.
func (s *Store) SetTasks(tasks []*types.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.alive {
		return
	}
	s.tasks = make(map[types.TaskID]*types.Task, len(tasks))
	s.order = s.order[:0]
	for _, t := range tasks {
		s.tasks[t.ID] = t
		s.order = append(s.order, t.ID)
	}
}

// Replace installs the task, overwriting any previous node with the same id.
func (s *Store) Replace(task *types.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.alive {
		return
	}
	if _, ok := s.tasks[task.ID]; !ok {
		s.order = append(s.order, task.ID)
	}
	s.tasks[task.ID] = task
}

// Merge installs the task but keeps annotations already present on the live
// node that the incoming task does not carry (matched by PK, unsaved ones by
// LocalID). Used when a task is re-selected so annotations-in-flight are not
// lost.
func (s *Store) Merge(task *types.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.alive {
		return
	}
	prev, ok := s.tasks[task.ID]
	if !ok {
		s.order = append(s.order, task.ID)
		s.tasks[task.ID] = task
		return
	}
	for _, old := range prev.Annotations {
		if !containsAnnotation(task.Annotations, old) {
			task.Annotations = append(task.Annotations, old)
		}
	}
	s.tasks[task.ID] = task
}

func containsAnnotation(list []*types.Annotation, a *types.Annotation) bool {
	for _, cur := range list {
		if a.PK != "" && cur.PK == a.PK {
			return true
		}
		if a.PK == "" && cur.LocalID == a.LocalID {
			return true
		}
	}
	return false
}

// Task resolves the live node for id. The second result is false when the
// store is dead or the task is unknown; callers must tolerate that without
// throwing, because teardown can race any in-flight operation.
func (s *Store) Task(id types.TaskID) (*types.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.alive {
		return nil, false
	}
	t, ok := s.tasks[id]
	return t, ok
}

// Update runs fn on the live node under the store lock. Returns false (and
// logs) when the store is dead or the task is gone, which is expected under
// concurrent navigation and unmount.
func (s *Store) Update(id types.TaskID, fn func(*types.Task)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.alive {
		slog.Warn("store update on dead store", "task_id", int64(id))
		return false
	}
	t, ok := s.tasks[id]
	if !ok {
		slog.Warn("store update on missing task", "task_id", int64(id))
		return false
	}
	fn(t)
	return true
}

// IDs returns the task ids in list order.
func (s *Store) IDs() []types.TaskID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.alive {
		return nil
	}
	out := make([]types.TaskID, len(s.order))
	copy(out, s.order)
	return out
}

// IndexOf returns the position of id in the task list, or -1.
func (s *Store) IndexOf(id types.TaskID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i, cur := range s.order {
		if cur == id {
			return i
		}
	}
	return -1
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// SetSelected records which task the editor is currently showing.
func (s *Store) SetSelected(id types.TaskID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.alive {
		return
	}
	s.selected = id
}

// Selected returns the currently shown task id, 0 when none.
func (s *Store) Selected() types.TaskID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// SetLoading flags an in-flight operation that mutates task or annotation
// state so interaction can be suppressed.
func (s *Store) SetLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = v
}

// Loading reports whether a state-mutating operation is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}
