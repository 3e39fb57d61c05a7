// internal/editor/headless.go
package editor

import (
	"context"
	"errors"
	"sync"

	"github.com/akashkhedar/datamanager/internal/events"
	"github.com/akashkhedar/datamanager/internal/types"
)

// ErrUnavailable is returned by a Headless affordance whose callback slot is
// nil, mirroring an affordance the embedded editor never rendered.
var ErrUnavailable = errors.New("editor affordance unavailable")

// Headless is an in-memory Editor. It keeps the same annotation-store
// semantics as the embedded widget but renders nothing, which makes it the
// driver for the CLI harness and for tests.
type Headless struct {
	mu          sync.Mutex
	opts        Options
	emitter     *events.Emitter
	labels      *LabelRegistry
	task        *types.Task
	annotations []*types.Annotation
	predictions []*types.Prediction
	selected    string // local id of the current annotation
	loading     bool
	destroyed   bool
}

// NewHeadless constructs a ready editor and fires the load callback.
func NewHeadless(opts Options) *Headless {
	h := &Headless{
		opts:    opts,
		emitter: events.NewEmitter(),
		labels:  NewLabelRegistry(),
	}
	if opts.Callbacks.OnLoad != nil {
		opts.Callbacks.OnLoad()
	}
	h.emitter.Emit("load")
	return h
}

// Options returns the construction options, mainly for inspection in tests.
func (h *Headless) Options() Options {
	return h.opts
}

func (h *Headless) SetTask(task *types.Task, fullReset bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.destroyed {
		return
	}
	h.task = task
	h.annotations = nil
	h.selected = ""
	h.predictions = nil
	if task != nil {
		h.annotations = append(h.annotations, task.Annotations...)
		h.predictions = append(h.predictions, task.Predictions...)
	}
	if fullReset {
		// A full reset additionally drops any canvas-level state; headless
		// has none beyond the annotation store.
		h.loading = false
	}
	h.emitter.Emit("taskSet", task)
}

// Task returns the task currently shown.
func (h *Headless) Task() *types.Task {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.task
}

func (h *Headless) Annotations() []*types.Annotation {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*types.Annotation, len(h.annotations))
	copy(out, h.annotations)
	return out
}

func (h *Headless) Predictions() []*types.Prediction {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*types.Prediction, len(h.predictions))
	copy(out, h.predictions)
	return out
}

func (h *Headless) CreateAnnotation() *types.Annotation {
	return h.CreateAnnotationFrom(nil)
}

func (h *Headless) CreateAnnotationFrom(result []types.Result) *types.Annotation {
	h.mu.Lock()
	defer h.mu.Unlock()
	a := &types.Annotation{
		LocalID: types.NewLocalID(),
		Result:  result,
	}
	if h.opts.User != nil {
		a.CreatedBy = h.opts.User.ID
	}
	h.annotations = append(h.annotations, a)
	return a
}

func (h *Headless) RemoveAnnotation(localID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, a := range h.annotations {
		if a.LocalID == localID {
			h.annotations = append(h.annotations[:i], h.annotations[i+1:]...)
			break
		}
	}
	if h.selected == localID {
		h.selected = ""
	}
}

func (h *Headless) SelectAnnotation(localID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, a := range h.annotations {
		if a.LocalID == localID {
			h.selected = localID
			h.emitter.Emit("selectAnnotation", a)
			return true
		}
	}
	return false
}

func (h *Headless) SelectPrediction(localID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, p := range h.predictions {
		if p.LocalID == localID {
			h.selected = ""
			h.emitter.Emit("selectPrediction", p)
			return true
		}
	}
	return false
}

func (h *Headless) Selected() *types.Annotation {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, a := range h.annotations {
		if a.LocalID == h.selected {
			return a
		}
	}
	return nil
}

// UpdateResult replaces the result of a local annotation and marks it as
// having unsaved changes, like a user editing regions on the canvas.
func (h *Headless) UpdateResult(localID string, result []types.Result) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, a := range h.annotations {
		if a.LocalID == localID {
			a.Result = result
			a.DraftSaved = false
			return true
		}
	}
	return false
}

func (h *Headless) SetLoading(v bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.loading = v
}

// Loading reports whether interaction is currently suppressed.
func (h *Headless) Loading() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loading
}

func (h *Headless) Initializing() bool {
	return false
}

func (h *Headless) Labels() (*LabelRegistry, bool) {
	return h.labels, true
}

func (h *Headless) Events() *events.Emitter {
	return h.emitter
}

func (h *Headless) Destroy() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.destroyed = true
	h.task = nil
	h.annotations = nil
	h.predictions = nil
	h.emitter.Clear()
}

// The methods below drive the editor the way a user would press its buttons.
// Each returns ErrUnavailable when the corresponding affordance was wired to
// nil at construction (read-only mode).

func (h *Headless) Submit(ctx context.Context) error {
	if h.opts.Callbacks.OnSubmitAnnotation == nil {
		return ErrUnavailable
	}
	a := h.Selected()
	if a == nil {
		return errors.New("no annotation selected")
	}
	return h.opts.Callbacks.OnSubmitAnnotation(ctx, a)
}

func (h *Headless) Update(ctx context.Context) error {
	if h.opts.Callbacks.OnUpdateAnnotation == nil {
		return ErrUnavailable
	}
	a := h.Selected()
	if a == nil {
		return errors.New("no annotation selected")
	}
	return h.opts.Callbacks.OnUpdateAnnotation(ctx, a)
}

func (h *Headless) DeleteCurrent(ctx context.Context) error {
	if h.opts.Callbacks.OnDeleteAnnotation == nil {
		return ErrUnavailable
	}
	a := h.Selected()
	if a == nil {
		return errors.New("no annotation selected")
	}
	return h.opts.Callbacks.OnDeleteAnnotation(ctx, a)
}

func (h *Headless) Skip(ctx context.Context) error {
	if h.opts.Callbacks.OnSkipTask == nil {
		return ErrUnavailable
	}
	return h.opts.Callbacks.OnSkipTask(ctx)
}

func (h *Headless) Unskip(ctx context.Context) error {
	if h.opts.Callbacks.OnUnskipTask == nil {
		return ErrUnavailable
	}
	return h.opts.Callbacks.OnUnskipTask(ctx)
}

func (h *Headless) Next(ctx context.Context) error {
	if h.opts.Callbacks.OnNextTask == nil {
		return ErrUnavailable
	}
	return h.opts.Callbacks.OnNextTask(ctx)
}

func (h *Headless) Prev(ctx context.Context) error {
	if h.opts.Callbacks.OnPrevTask == nil {
		return ErrUnavailable
	}
	return h.opts.Callbacks.OnPrevTask(ctx)
}
