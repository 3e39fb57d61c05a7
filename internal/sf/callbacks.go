// internal/sf/callbacks.go
package sf

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/akashkhedar/datamanager/internal/editor"
	"github.com/akashkhedar/datamanager/internal/types"
	"github.com/akashkhedar/datamanager/pkg/api"
)

// buildCallbacks wires the editor's lifecycle hooks. Without annotate
// permission every mutating slot stays nil so the editor never exposes the
// affordance at all; navigation remains available.
func (w *Wrapper) buildCallbacks() editor.Callbacks {
	cb := editor.Callbacks{
		OnNextTask: w.onNextTask,
		OnPrevTask: w.onPrevTask,
	}
	if !w.caps.CanAnnotate {
		return cb
	}
	cb.OnSubmitAnnotation = w.onSubmitAnnotation
	cb.OnUpdateAnnotation = w.onUpdateAnnotation
	cb.OnDeleteAnnotation = w.onDeleteAnnotation
	cb.OnSkipTask = w.onSkipTask
	cb.OnUnskipTask = w.onUnskipTask
	cb.OnGroundTruth = w.onGroundTruth
	cb.OnEntityCreate = w.onEntityCreate
	cb.OnEntityDelete = w.onEntityDelete
	return cb
}

func (w *Wrapper) onSubmitAnnotation(ctx context.Context, a *types.Annotation) error {
	if a == nil {
		return nil
	}
	ref := w.taskRef()
	if _, ok := ref.Node(); !ok {
		slog.Warn("submit on dead store", "task_id", int64(ref.ID()))
		return nil
	}

	w.store.SetLoading(true)
	defer w.store.SetLoading(false)

	body := w.PrepareData(a, PrepareOpts{})
	resp, err := w.apic.Call(ctx, "submitAnnotation", api.Params{
		Path: map[string]string{"taskID": formatTaskID(ref.ID())},
		Body: body,
	})
	if err != nil {
		return w.mutationFailed("Annotation was not saved", err)
	}

	a.PK = types.PKFromID(resp.ID)
	a.LeadTime = body.LeadTime
	w.discardDraft(ctx, a)
	ref.Update(func(t *types.Task) {
		upsertAnnotation(t, a)
		t.IsLabeled = true
	})

	w.toast.Show(types.ToastSuccess, "Annotation saved")
	w.bus.Emit("sf:submitAnnotation", a)
	return w.advance(ctx)
}

func (w *Wrapper) onUpdateAnnotation(ctx context.Context, a *types.Annotation) error {
	if a == nil || !a.Persisted() {
		// Updating an annotation that was never persisted is a caller bug,
		// absorbed rather than escalated.
		return nil
	}
	ref := w.taskRef()
	if _, ok := ref.Node(); !ok {
		slog.Warn("update on dead store", "task_id", int64(ref.ID()))
		return nil
	}

	w.store.SetLoading(true)
	defer w.store.SetLoading(false)

	body := w.PrepareData(a, PrepareOpts{IncludeID: true})
	_, err := w.apic.Call(ctx, "updateAnnotation", api.Params{
		Path: map[string]string{"annotationID": string(a.PK)},
		Body: body,
	})
	if err != nil {
		return w.mutationFailed("Annotation was not updated", err)
	}

	a.LeadTime = body.LeadTime
	w.discardDraft(ctx, a)
	ref.Update(func(t *types.Task) {
		upsertAnnotation(t, a)
		t.IsLabeled = true
	})

	w.toast.Show(types.ToastSuccess, "Annotation updated")
	w.bus.Emit("sf:updateAnnotation", a)
	return w.advance(ctx)
}

func (w *Wrapper) onDeleteAnnotation(ctx context.Context, a *types.Annotation) error {
	if a == nil || !a.Persisted() {
		return nil
	}
	ref := w.taskRef()
	if _, ok := ref.Node(); !ok {
		slog.Warn("delete on dead store", "task_id", int64(ref.ID()))
		return nil
	}

	_, err := w.apic.Call(ctx, "deleteAnnotation", api.Params{
		Path: map[string]string{"annotationID": string(a.PK)},
	})
	if err != nil {
		return w.mutationFailed("Annotation was not deleted", err)
	}

	ref.Update(func(t *types.Task) {
		removeAnnotation(t, a.PK)
		t.IsLabeled = len(t.Annotations) > 0
	})
	if ed := w.Editor(); ed != nil {
		ed.RemoveAnnotation(a.LocalID)
	}

	w.toast.Show(types.ToastSuccess, "Annotation deleted")
	w.bus.Emit("sf:deleteAnnotation", a)
	return w.advance(ctx)
}

func (w *Wrapper) onSkipTask(ctx context.Context) error {
	ref := w.taskRef()
	node, ok := ref.Node()
	if !ok {
		slog.Warn("skip on dead store", "task_id", int64(ref.ID()))
		return nil
	}

	// Skip is allowed unless the task explicitly forbids it, except for the
	// manager roles which may force-skip.
	allowed := node.AllowSkip == nil || *node.AllowSkip || w.caps.Role.Manager()
	if !allowed {
		w.toast.Show(types.ToastError, "Skipping is not allowed for this task")
		return nil
	}

	ed := w.Editor()
	if ed == nil {
		return nil
	}
	a := ed.Selected()
	if a == nil {
		a = ed.CreateAnnotation()
	}

	w.store.SetLoading(true)
	defer w.store.SetLoading(false)

	body := w.PrepareData(a, PrepareOpts{IncludeID: a.Persisted()})
	body.WasCancelled = true

	var resp *api.Response
	var err error
	if a.Persisted() {
		resp, err = w.apic.Call(ctx, "updateAnnotation", api.Params{
			Path: map[string]string{"annotationID": string(a.PK)},
			Body: body,
		})
	} else {
		resp, err = w.apic.Call(ctx, "submitAnnotation", api.Params{
			Path: map[string]string{"taskID": formatTaskID(ref.ID())},
			Body: body,
		})
	}
	if err != nil {
		return w.mutationFailed("Task was not skipped", err)
	}

	a.Skipped = true
	if !a.Persisted() && resp.ID != 0 {
		a.PK = types.PKFromID(resp.ID)
	}
	a.LeadTime = body.LeadTime
	ref.Update(func(t *types.Task) {
		upsertAnnotation(t, a)
		t.IsLabeled = true
	})

	w.toast.Show(types.ToastSuccess, "Task skipped")
	w.bus.Emit("sf:skipTask", a)
	return w.advance(ctx)
}

func (w *Wrapper) onUnskipTask(ctx context.Context) error {
	ed := w.Editor()
	if ed == nil {
		return nil
	}
	a := ed.Selected()
	if a == nil || !a.Persisted() {
		return nil
	}
	ref := w.taskRef()
	if _, ok := ref.Node(); !ok {
		slog.Warn("unskip on dead store", "task_id", int64(ref.ID()))
		return nil
	}

	resp, err := w.apic.Call(ctx, "convertToDraft", api.Params{
		Path: map[string]string{"annotationID": string(a.PK)},
	})
	if err != nil {
		return w.mutationFailed("Task was not unskipped", err)
	}

	// The backend deletes the annotation and hands back an unlinked draft.
	oldPK := a.PK
	a.PK = ""
	a.Skipped = false
	a.DraftID = types.DraftID(resp.ID)
	a.DraftSaved = true
	ref.Update(func(t *types.Task) {
		removeAnnotation(t, oldPK)
		t.IsLabeled = len(t.Annotations) > 0
		t.Drafts = append(t.Drafts, &types.Draft{
			ID:       a.DraftID,
			Result:   a.Result,
			LeadTime: a.LeadTime,
		})
	})

	w.toast.Show(types.ToastSuccess, "Task returned to queue")
	w.bus.Emit("sf:unskipTask", a)
	return w.advance(ctx)
}

func (w *Wrapper) onGroundTruth(ctx context.Context, a *types.Annotation, value bool) error {
	if a == nil || !a.Persisted() {
		return nil
	}
	_, err := w.apic.Call(ctx, "updateAnnotation", api.Params{
		Path: map[string]string{"annotationID": string(a.PK)},
		Body: map[string]any{"ground_truth": value},
	})
	if err != nil {
		return w.mutationFailed("Ground truth was not updated", err)
	}
	a.GroundTruth = value
	w.bus.Emit("sf:groundTruth", a)
	return nil
}

func (w *Wrapper) onEntityCreate(ctx context.Context, r *types.Result) error {
	if ed := w.Editor(); ed != nil {
		if a := ed.Selected(); a != nil {
			a.DraftSaved = false
		}
	}
	w.bus.Emit("sf:entityCreate", r)
	return nil
}

func (w *Wrapper) onEntityDelete(ctx context.Context, r *types.Result) error {
	if ed := w.Editor(); ed != nil {
		if a := ed.Selected(); a != nil {
			a.DraftSaved = false
		}
	}
	w.bus.Emit("sf:entityDelete", r)
	return nil
}

// onNextTask saves the in-progress draft, then moves forward through history
// or, at the tail, advances the queue. The draft save is awaited before
// navigation so a lost-draft race cannot occur.
func (w *Wrapper) onNextTask(ctx context.Context) error {
	w.saveSelectedDraft(ctx)
	if entry, ok := w.hist.Next(); ok {
		task, err := w.loader.Load(ctx, entry.TaskID)
		if err != nil {
			return w.navigationFailed(err)
		}
		return w.SelectTask(ctx, task, entry.AnnotationPK, true)
	}
	return w.advance(ctx)
}

// onPrevTask saves the in-progress draft, then moves back through history.
func (w *Wrapper) onPrevTask(ctx context.Context) error {
	w.saveSelectedDraft(ctx)
	entry, ok := w.hist.Prev()
	if !ok {
		return nil
	}
	task, err := w.loader.Load(ctx, entry.TaskID)
	if err != nil {
		return w.navigationFailed(err)
	}
	return w.SelectTask(ctx, task, entry.AnnotationPK, true)
}

// advance pulls the next task from the loader and selects it. Queue
// exhaustion is an informational toast, not an error.
func (w *Wrapper) advance(ctx context.Context) error {
	task, err := w.loader.Next(ctx)
	if err != nil {
		if api.IsNotFound(err) {
			w.toast.Show(types.ToastInfo, "No more tasks in the queue")
			w.bus.Emit("sf:queueEmpty")
			return nil
		}
		return w.navigationFailed(err)
	}
	return w.SelectTask(ctx, task, "", false)
}

// mutationFailed implements the shared failure semantics of the mutating
// callbacks: the paused-project gate bubbles to the global handler, anything
// else becomes a non-blocking toast with editor state preserved and no
// navigation.
func (w *Wrapper) mutationFailed(message string, err error) error {
	if api.IsProjectPaused(err) {
		return err
	}
	slog.Warn("backend call failed", "error", err)
	w.toast.Show(types.ToastError, message)
	return nil
}

func (w *Wrapper) navigationFailed(err error) error {
	if api.IsProjectPaused(err) {
		return err
	}
	slog.Warn("task load failed", "error", err)
	w.toast.Show(types.ToastError, "Could not load the next task")
	return nil
}

func (w *Wrapper) saveSelectedDraft(ctx context.Context) {
	ed := w.Editor()
	if ed == nil {
		return
	}
	if a := ed.Selected(); a != nil {
		if err := w.SaveDraft(ctx, a); err != nil {
			slog.Warn("draft save before navigation failed", "error", err)
		}
	}
}

func upsertAnnotation(t *types.Task, a *types.Annotation) {
	for i, cur := range t.Annotations {
		if cur.LocalID == a.LocalID || (a.PK != "" && cur.PK == a.PK) {
			t.Annotations[i] = a
			return
		}
	}
	t.Annotations = append(t.Annotations, a)
}

func removeAnnotation(t *types.Task, pk types.AnnotationPK) {
	for i, cur := range t.Annotations {
		if cur.PK == pk {
			t.Annotations = append(t.Annotations[:i], t.Annotations[i+1:]...)
			return
		}
	}
}

func formatTaskID(id types.TaskID) string {
	return strconv.FormatInt(int64(id), 10)
}
