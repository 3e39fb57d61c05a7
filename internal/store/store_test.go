// internal/store/store_test.go
package store

import (
	"testing"

	"github.com/akashkhedar/datamanager/internal/types"
)

func TestSetTasksAndLookup(t *testing.T) {
	s := New()
	s.SetTasks([]*types.Task{{ID: 1}, {ID: 2}, {ID: 3}})

	if s.Len() != 3 {
		t.Fatalf("expected 3 tasks, got %d", s.Len())
	}
	if _, ok := s.Task(2); !ok {
		t.Error("expected task 2 to resolve")
	}
	if _, ok := s.Task(99); ok {
		t.Error("expected task 99 to be missing")
	}
	ids := s.IDs()
	if len(ids) != 3 || ids[0] != 1 || ids[2] != 3 {
		t.Errorf("expected list order preserved, got %v", ids)
	}
	if s.IndexOf(3) != 2 {
		t.Errorf("expected index 2 for task 3, got %d", s.IndexOf(3))
	}
	if s.IndexOf(99) != -1 {
		t.Errorf("expected -1 for unknown task, got %d", s.IndexOf(99))
	}
}

func TestDestroyInvalidatesLookups(t *testing.T) {
	s := New()
	s.SetTasks([]*types.Task{{ID: 1}})
	s.Destroy()

	if s.Alive() {
		t.Error("expected store to be dead")
	}
	if _, ok := s.Task(1); ok {
		t.Error("expected lookup on dead store to fail")
	}
	if s.Update(1, func(task *types.Task) { task.IsLabeled = true }) {
		t.Error("expected update on dead store to be a no-op")
	}
	// Mutations after teardown must not panic or resurrect state.
	s.SetTasks([]*types.Task{{ID: 2}})
	if s.Len() != 0 {
		t.Errorf("expected dead store to stay empty, got %d tasks", s.Len())
	}
}

func TestUpdateMutatesLiveNode(t *testing.T) {
	s := New()
	s.SetTasks([]*types.Task{{ID: 5}})

	ok := s.Update(5, func(task *types.Task) { task.IsLabeled = true })
	if !ok {
		t.Fatal("expected update to succeed")
	}
	task, _ := s.Task(5)
	if !task.IsLabeled {
		t.Error("expected mutation to be visible")
	}
	if s.Update(6, func(task *types.Task) {}) {
		t.Error("expected update on missing task to fail")
	}
}

func TestReplaceOverwritesNode(t *testing.T) {
	s := New()
	s.SetTasks([]*types.Task{{ID: 1, IsLabeled: true}})
	s.Replace(&types.Task{ID: 1})

	task, _ := s.Task(1)
	if task.IsLabeled {
		t.Error("expected replace to drop previous state")
	}
	s.Replace(&types.Task{ID: 2})
	if s.Len() != 2 {
		t.Errorf("expected replace to append unknown task, got %d", s.Len())
	}
}

func TestMergeKeepsAnnotationsInFlight(t *testing.T) {
	s := New()
	unsaved := &types.Annotation{LocalID: "local-1"}
	persisted := &types.Annotation{LocalID: "local-2", PK: "10"}
	s.SetTasks([]*types.Task{{ID: 1, Annotations: []*types.Annotation{unsaved, persisted}}})

	// The incoming task carries the persisted annotation but not the
	// unsaved one.
	s.Merge(&types.Task{ID: 1, Annotations: []*types.Annotation{
		{LocalID: "server-copy", PK: "10"},
	}})

	task, _ := s.Task(1)
	if len(task.Annotations) != 2 {
		t.Fatalf("expected 2 annotations after merge, got %d", len(task.Annotations))
	}
	found := false
	for _, a := range task.Annotations {
		if a.LocalID == "local-1" {
			found = true
		}
	}
	if !found {
		t.Error("expected unsaved annotation to survive the merge")
	}
}

func TestTaskRefLiveness(t *testing.T) {
	s := New()
	s.SetTasks([]*types.Task{{ID: 7}})
	ref := s.Ref(7)

	if node, ok := ref.Node(); !ok || node.ID != 7 {
		t.Fatal("expected ref to resolve the live node")
	}
	if !ref.Update(func(task *types.Task) { task.IsLabeled = true }) {
		t.Error("expected ref update to succeed")
	}

	s.Destroy()
	if _, ok := ref.Node(); ok {
		t.Error("expected ref to report dead store")
	}
	if ref.Update(func(task *types.Task) {}) {
		t.Error("expected ref update on dead store to be a no-op")
	}
	if ref.ID() != 7 {
		t.Errorf("expected ref id to stay 7, got %d", ref.ID())
	}
}

func TestZeroRefInvalid(t *testing.T) {
	var ref TaskRef
	if ref.Valid() {
		t.Error("zero ref should be invalid")
	}
	if _, ok := ref.Node(); ok {
		t.Error("zero ref should not resolve")
	}
}

func TestSelectedAndLoading(t *testing.T) {
	s := New()
	s.SetTasks([]*types.Task{{ID: 1}})
	s.SetSelected(1)
	if s.Selected() != 1 {
		t.Errorf("expected selected 1, got %d", s.Selected())
	}
	s.SetLoading(true)
	if !s.Loading() {
		t.Error("expected loading flag set")
	}
	s.SetLoading(false)
	if s.Loading() {
		t.Error("expected loading flag cleared")
	}
}
