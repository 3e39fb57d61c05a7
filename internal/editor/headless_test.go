// internal/editor/headless_test.go
package editor

import (
	"context"
	"testing"

	"github.com/akashkhedar/datamanager/internal/types"
)

func TestNewHeadlessFiresLoad(t *testing.T) {
	loaded := false
	h := NewHeadless(Options{Callbacks: Callbacks{OnLoad: func() { loaded = true }}})
	if !loaded {
		t.Error("expected OnLoad to fire at construction")
	}
	if h.Initializing() {
		t.Error("headless editor should never report initializing")
	}
}

func TestSetTaskLoadsAnnotationsAndPredictions(t *testing.T) {
	h := NewHeadless(Options{})
	task := &types.Task{
		ID:          1,
		Annotations: []*types.Annotation{{LocalID: "a", PK: types.PKFromID(1)}},
		Predictions: []*types.Prediction{{LocalID: "p"}},
	}
	h.SetTask(task, true)

	if len(h.Annotations()) != 1 {
		t.Fatalf("expected task annotations in editor store, got %d", len(h.Annotations()))
	}
	if len(h.Predictions()) != 1 {
		t.Fatalf("expected task predictions in editor store, got %d", len(h.Predictions()))
	}
	if h.Selected() != nil {
		t.Error("expected no selection after SetTask")
	}

	// Pushing a new task drops the previous store.
	h.SetTask(&types.Task{ID: 2}, false)
	if len(h.Annotations()) != 0 || len(h.Predictions()) != 0 {
		t.Error("expected editor store cleared for the new task")
	}
}

func TestCreateAndSelectAnnotation(t *testing.T) {
	user := &types.User{ID: 9}
	h := NewHeadless(Options{User: user})

	a := h.CreateAnnotation()
	if a.LocalID == "" {
		t.Fatal("expected local id assigned")
	}
	if a.CreatedBy != 9 {
		t.Errorf("expected author from options, got %d", a.CreatedBy)
	}
	if !h.SelectAnnotation(a.LocalID) {
		t.Fatal("expected selection to succeed")
	}
	if sel := h.Selected(); sel == nil || sel.LocalID != a.LocalID {
		t.Error("expected created annotation selected")
	}
	if h.SelectAnnotation("unknown") {
		t.Error("selecting an unknown annotation should fail")
	}
}

func TestRemoveAnnotationClearsSelection(t *testing.T) {
	h := NewHeadless(Options{})
	a := h.CreateAnnotation()
	h.SelectAnnotation(a.LocalID)
	h.RemoveAnnotation(a.LocalID)

	if len(h.Annotations()) != 0 {
		t.Error("expected annotation removed")
	}
	if h.Selected() != nil {
		t.Error("expected selection cleared with the removed annotation")
	}
}

func TestUpdateResultMarksUnsaved(t *testing.T) {
	h := NewHeadless(Options{})
	a := h.CreateAnnotation()
	a.DraftSaved = true

	ok := h.UpdateResult(a.LocalID, []types.Result{{Type: "labels"}})
	if !ok {
		t.Fatal("expected update to succeed")
	}
	if a.DraftSaved {
		t.Error("expected edit to mark the draft unsaved")
	}
	if len(a.Result) != 1 {
		t.Errorf("expected 1 result, got %d", len(a.Result))
	}
}

func TestReadOnlyAffordancesUnavailable(t *testing.T) {
	// Only navigation is wired; every mutating slot is nil.
	h := NewHeadless(Options{Callbacks: Callbacks{
		OnNextTask: func(ctx context.Context) error { return nil },
		OnPrevTask: func(ctx context.Context) error { return nil },
	}})
	h.CreateAnnotation()
	h.SelectAnnotation(h.Annotations()[0].LocalID)

	ctx := context.Background()
	if err := h.Submit(ctx); err != ErrUnavailable {
		t.Errorf("expected ErrUnavailable from Submit, got %v", err)
	}
	if err := h.Update(ctx); err != ErrUnavailable {
		t.Errorf("expected ErrUnavailable from Update, got %v", err)
	}
	if err := h.DeleteCurrent(ctx); err != ErrUnavailable {
		t.Errorf("expected ErrUnavailable from DeleteCurrent, got %v", err)
	}
	if err := h.Skip(ctx); err != ErrUnavailable {
		t.Errorf("expected ErrUnavailable from Skip, got %v", err)
	}
	if err := h.Unskip(ctx); err != ErrUnavailable {
		t.Errorf("expected ErrUnavailable from Unskip, got %v", err)
	}
	if err := h.Next(ctx); err != nil {
		t.Errorf("expected navigation to stay available, got %v", err)
	}
	if err := h.Prev(ctx); err != nil {
		t.Errorf("expected navigation to stay available, got %v", err)
	}
}

func TestDestroy(t *testing.T) {
	h := NewHeadless(Options{})
	h.CreateAnnotation()
	h.Destroy()

	if len(h.Annotations()) != 0 {
		t.Error("expected annotation store dropped on destroy")
	}
	h.SetTask(&types.Task{ID: 1}, true)
	if h.Task() != nil {
		t.Error("expected SetTask after destroy to be a no-op")
	}
}

func TestLabelRegistry(t *testing.T) {
	r := NewLabelRegistry()
	r.Add("sentiment", []string{"positive", "negative"})
	r.Add("sentiment", []string{"negative", "neutral"})
	r.Add("topic", []string{"sports"})

	labels := r.Labels("sentiment")
	if len(labels) != 3 {
		t.Errorf("expected deduplicated labels, got %v", labels)
	}
	controls := r.Controls()
	if len(controls) != 2 || controls[0] != "sentiment" || controls[1] != "topic" {
		t.Errorf("expected sorted controls, got %v", controls)
	}
	if len(r.Labels("unknown")) != 0 {
		t.Error("expected no labels for unknown control")
	}
}
