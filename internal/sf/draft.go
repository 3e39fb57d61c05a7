// internal/sf/draft.go
package sf

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/akashkhedar/datamanager/internal/convert"
	"github.com/akashkhedar/datamanager/internal/types"
	"github.com/akashkhedar/datamanager/pkg/api"
)

// PrepareOpts controls how an annotation is serialized for the backend.
type PrepareOpts struct {
	// IncludeID keeps the numeric id in the payload (updates only).
	IncludeID bool
	// IsNewDraft zeroes the previously-submitted lead time so a fresh draft
	// does not double-count it.
	IsNewDraft bool
}

// PrepareData serializes the annotation into the wire format. The lead time
// is the sum of the previously submitted lead time, the linked draft's
// accumulated lead time, and the wall-clock seconds since the annotation was
// loaded into the editor. started_at stays monotonic across draft-save
// cycles: the later of the draft's backdated creation time and the load time.
func (w *Wrapper) PrepareData(a *types.Annotation, opts PrepareOpts) *convert.AnnotationPayload {
	p := convert.FromAnnotation(a)
	if !opts.IncludeID {
		p.ID = 0
	}

	prior := a.LeadTime
	if opts.IsNewDraft {
		prior = 0
	}
	draftLead, draftCreated := w.draftMeta(a)
	p.LeadTime = prior + draftLead + elapsedSince(a.LoadedAt)

	started := a.LoadedAt
	if !draftCreated.IsZero() {
		adjusted := draftCreated.Add(-time.Duration(draftLead * float64(time.Second)))
		if adjusted.After(started) {
			started = adjusted
		}
	}
	p.StartedAt = started
	return p
}

// draftMeta resolves the linked draft's accumulated lead time and creation
// time from the live node, zero values when there is no draft or the store
// is gone.
func (w *Wrapper) draftMeta(a *types.Annotation) (float64, time.Time) {
	if a.DraftID == 0 {
		return 0, time.Time{}
	}
	node, ok := w.taskRef().Node()
	if !ok {
		return 0, time.Time{}
	}
	for _, d := range node.Drafts {
		if d.ID == a.DraftID {
			return d.LeadTime, d.CreatedAt
		}
	}
	return 0, time.Time{}
}

func elapsedSince(t time.Time) float64 {
	if t.IsZero() {
		return 0
	}
	return time.Since(t).Seconds()
}

// draftRequest is the wire body for draft create/update calls.
type draftRequest struct {
	Result   []types.Result `json:"result"`
	LeadTime float64        `json:"lead_time"`
}

// SaveDraft persists the annotation-in-progress as a draft. It is
// idempotent: nothing is written when there are no unsaved changes, and a
// call that arrives while a save is already in flight joins that save
// instead of double-submitting.
func (w *Wrapper) SaveDraft(ctx context.Context, a *types.Annotation) error {
	if a == nil {
		return nil
	}
	if a.DraftSaved {
		return nil
	}
	if len(a.Result) == 0 && a.DraftID == 0 {
		// A pristine annotation has nothing worth snapshotting.
		return nil
	}
	_, err, _ := w.saves.Do(a.LocalID, func() (any, error) {
		return nil, w.saveDraftOnce(ctx, a)
	})
	return err
}

func (w *Wrapper) saveDraftOnce(ctx context.Context, a *types.Annotation) error {
	ref := w.taskRef()
	if _, ok := ref.Node(); !ok {
		slog.Warn("draft save on dead store", "task_id", int64(ref.ID()))
		return nil
	}

	isNew := a.DraftID == 0
	lead, _ := w.draftMeta(a)
	body := draftRequest{
		Result:   a.Result,
		LeadTime: lead + elapsedSince(a.LoadedAt),
	}

	var resp *api.Response
	var err error
	switch {
	case !isNew:
		resp, err = w.apic.Call(ctx, "updateDraft", api.Params{
			Path: map[string]string{"draftID": strconv.FormatInt(int64(a.DraftID), 10)},
			Body: body,
		})
	case a.Persisted():
		resp, err = w.apic.Call(ctx, "createDraftForAnnotation", api.Params{
			Path: map[string]string{
				"taskID":       formatTaskID(ref.ID()),
				"annotationID": string(a.PK),
			},
			Body: body,
		})
	default:
		resp, err = w.apic.Call(ctx, "createDraftForTask", api.Params{
			Path: map[string]string{"taskID": formatTaskID(ref.ID())},
			Body: body,
		})
	}
	if err != nil {
		// Draft failures surface like any transient failure and never block
		// a subsequent submission.
		if api.IsProjectPaused(err) {
			return err
		}
		slog.Warn("draft save failed", "error", err)
		w.toast.Show(types.ToastError, "Draft was not saved")
		return err
	}

	if isNew && resp.ID != 0 {
		a.DraftID = types.DraftID(resp.ID)
	}
	a.DraftSaved = true

	draftID := a.DraftID
	ref.Update(func(t *types.Task) {
		for _, d := range t.Drafts {
			if d.ID == draftID {
				d.Result = a.Result
				d.LeadTime = body.LeadTime
				d.AnnotationPK = a.PK
				d.UpdatedAt = time.Now()
				return
			}
		}
		t.Drafts = append(t.Drafts, &types.Draft{
			ID:           draftID,
			AnnotationPK: a.PK,
			Result:       a.Result,
			LeadTime:     body.LeadTime,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		})
	})
	w.bus.Emit("sf:draftSaved", a)
	return nil
}

// discardDraft deletes the draft linked to a just-persisted annotation.
// Best effort: a failure here must not disturb the successful submit.
func (w *Wrapper) discardDraft(ctx context.Context, a *types.Annotation) {
	if a.DraftID == 0 {
		return
	}
	draftID := a.DraftID
	if _, err := w.apic.Call(ctx, "deleteDraft", api.Params{
		Path: map[string]string{"draftID": strconv.FormatInt(int64(draftID), 10)},
	}); err != nil {
		slog.Warn("draft cleanup failed", "draft_id", int64(draftID), "error", err)
	}
	w.taskRef().Update(func(t *types.Task) {
		for i, d := range t.Drafts {
			if d.ID == draftID {
				t.Drafts = append(t.Drafts[:i], t.Drafts[i+1:]...)
				return
			}
		}
	})
	a.DraftID = 0
	a.DraftSaved = true
}
