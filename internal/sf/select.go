// internal/sf/select.go
package sf

import (
	"context"
	"log/slog"
	"time"

	"github.com/akashkhedar/datamanager/internal/types"
)

// AutoAnnotation is the sentinel annotation id that matches the first
// existing (or auto-generated) annotation in explore mode.
const AutoAnnotation types.AnnotationPK = "auto"

// selectOpts mirrors the selection hints an annotation id arrives with.
type selectOpts struct {
	selectAnnotation bool
	selectPrediction bool
}

// SelectTask makes the given task current. Re-selecting the task already
// tracked merges annotations-in-flight into the live node instead of
// replacing them; a different task replaces the node outright. User labels
// are loaded before the task is pushed into the editor.
func (w *Wrapper) SelectTask(ctx context.Context, task *types.Task, annotationPK types.AnnotationPK, fromHistory bool) error {
	return w.selectTask(ctx, task, annotationPK, selectOpts{selectAnnotation: annotationPK != ""}, fromHistory)
}

// SelectTaskPrediction makes the given task current with one of its
// predictions preselected by pk. Review surfaces use this to open a task
// directly on a model suggestion instead of an annotation.
func (w *Wrapper) SelectTaskPrediction(ctx context.Context, task *types.Task, predictionPK types.AnnotationPK) error {
	return w.selectTask(ctx, task, predictionPK, selectOpts{selectPrediction: predictionPK != ""}, false)
}

func (w *Wrapper) selectTask(ctx context.Context, task *types.Task, annotationPK types.AnnotationPK, opts selectOpts, fromHistory bool) error {
	if task == nil {
		return nil
	}
	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		return nil
	}
	prev := w.taskID
	w.taskID = task.ID
	w.mu.Unlock()

	if prev == task.ID {
		w.store.Merge(task)
	} else {
		w.store.Replace(task)
	}

	if err := w.LoadUserLabels(ctx); err != nil {
		slog.Warn("user labels unavailable", "error", err)
	}

	return w.setTask(ctx, annotationPK, opts, fromHistory)
}

// setTask pushes the tracked task into the editor and selects an annotation.
func (w *Wrapper) setTask(ctx context.Context, annotationPK types.AnnotationPK, opts selectOpts, fromHistory bool) error {
	ed := w.Editor()
	if ed == nil {
		return nil
	}
	node, ok := w.taskRef().Node()
	if !ok {
		slog.Warn("setTask on dead store", "task_id", int64(w.TaskID()))
		return nil
	}

	// A genuinely different task needs the editor's full state reset to
	// avoid stale-canvas rendering for some file types; re-pushing the same
	// task only resets the annotation store.
	changed := w.store.Selected() != node.ID
	w.store.SetSelected(node.ID)

	// Rejected-queue tasks carry a preselected annotation; resolve it
	// before the visit is recorded so history replays the same selection.
	if annotationPK == "" && node.DefaultAnnotation != "" {
		annotationPK = node.DefaultAnnotation
		opts.selectAnnotation = true
	}

	w.hist.Visit(node.ID, annotationPK, fromHistory)

	w.store.SetLoading(true)
	ed.SetLoading(true)
	defer func() {
		ed.SetLoading(false)
		w.store.SetLoading(false)
	}()

	w.awaitEditorReady(ed)
	ed.SetTask(node, changed)

	w.setAnnotation(ctx, annotationPK, opts)
	return nil
}

// setAnnotation applies the annotation-selection policy and notifies the
// editor of the outcome.
func (w *Wrapper) setAnnotation(ctx context.Context, annotationPK types.AnnotationPK, opts selectOpts) {
	ed := w.Editor()
	if ed == nil {
		return
	}
	node, ok := w.taskRef().Node()
	if !ok {
		slog.Warn("setAnnotation on dead store", "task_id", int64(w.TaskID()))
		return
	}

	w.rebuildDrafts(node)

	var selected *types.Annotation
	var prediction *types.Prediction

	if w.mode == types.ModeLabelStream {
		selected = w.pickLabelStream(ed, node, annotationPK, opts)
	} else {
		selected, prediction = w.pickExplore(ed, node, annotationPK, opts)
	}

	now := time.Now()
	if prediction != nil {
		ed.SelectPrediction(prediction.LocalID)
		w.bus.Emit("sf:annotationSet", prediction)
		return
	}
	if selected == nil {
		selected = ed.CreateAnnotation()
	}
	selected.LoadedAt = now
	w.mu.Lock()
	w.loadedAt = now
	w.mu.Unlock()
	ed.SelectAnnotation(selected.LocalID)
	w.bus.Emit("sf:annotationSet", selected)
}

// rebuildDrafts reconstructs unsaved drafts from the task node into the
// editor's annotation store. A draft linked to a submitted annotation is
// matched by pk; an unlinked draft becomes a fresh local annotation carrying
// the draft result.
func (w *Wrapper) rebuildDrafts(node *types.Task) {
	ed := w.Editor()
	if ed == nil {
		return
	}
	for _, d := range node.Drafts {
		if d == nil {
			continue
		}
		if d.AnnotationPK != "" {
			if a := findByPK(ed.Annotations(), d.AnnotationPK); a != nil {
				a.DraftID = d.ID
				a.Result = d.Result
				a.DraftSaved = true
				continue
			}
		}
		a := ed.CreateAnnotationFrom(d.Result)
		a.DraftID = d.ID
		a.DraftSaved = true
		a.CreatedAt = d.CreatedAt
	}
}

// pickLabelStream implements the label-stream selection priority:
// draft-in-progress > requested annotation > promoted prediction > new.
func (w *Wrapper) pickLabelStream(ed editorStore, node *types.Task, annotationPK types.AnnotationPK, opts selectOpts) *types.Annotation {
	for _, a := range ed.Annotations() {
		if a.DraftID != 0 && !a.Persisted() {
			return a
		}
	}
	if annotationPK != "" && opts.selectAnnotation {
		if a := findByPK(ed.Annotations(), annotationPK); a != nil {
			return a
		}
	}
	if w.collabPredictions() && !w.cfg.InteractivePreannotation {
		if preds := ed.Predictions(); len(preds) > 0 {
			return promotePrediction(ed, preds[0])
		}
	}
	return ed.CreateAnnotation()
}

// pickExplore implements the explore-mode selection priority: explicit
// prediction > auto-promoted first prediction when no annotations exist >
// explicit annotation > the "auto" sentinel > new.
func (w *Wrapper) pickExplore(ed editorStore, node *types.Task, annotationPK types.AnnotationPK, opts selectOpts) (*types.Annotation, *types.Prediction) {
	if opts.selectPrediction && annotationPK != "" {
		if p := findPredictionByPK(ed.Predictions(), annotationPK); p != nil {
			return nil, p
		}
	}
	anns := ed.Annotations()
	if len(anns) == 0 {
		if preds := ed.Predictions(); len(preds) > 0 {
			return promotePrediction(ed, preds[0]), nil
		}
	}
	if annotationPK != "" && annotationPK != AutoAnnotation {
		if a := findByPK(anns, annotationPK); a != nil {
			return a, nil
		}
	}
	if annotationPK == AutoAnnotation && len(anns) > 0 {
		return anns[0], nil
	}
	return ed.CreateAnnotation(), nil
}

// editorStore is the subset of the editor the selection policy reads.
type editorStore interface {
	Annotations() []*types.Annotation
	Predictions() []*types.Prediction
	CreateAnnotation() *types.Annotation
	CreateAnnotationFrom(result []types.Result) *types.Annotation
}

func (w *Wrapper) collabPredictions() bool {
	p := w.store.Project()
	return p != nil && p.ShowCollabPredictions
}

func promotePrediction(ed editorStore, p *types.Prediction) *types.Annotation {
	a := ed.CreateAnnotationFrom(p.Result)
	a.DraftSaved = false
	return a
}

func findByPK(list []*types.Annotation, pk types.AnnotationPK) *types.Annotation {
	for _, a := range list {
		if a.PK == pk {
			return a
		}
	}
	return nil
}

func findPredictionByPK(list []*types.Prediction, pk types.AnnotationPK) *types.Prediction {
	for _, p := range list {
		if p.PK == pk {
			return p
		}
	}
	return nil
}
