// internal/editor/editor.go
// Package editor defines the contract the integration layer consumes from
// the embedded labeling editor, plus a headless in-memory implementation
// used by the CLI harness and tests.
package editor

import (
	"context"

	"github.com/akashkhedar/datamanager/internal/events"
	"github.com/akashkhedar/datamanager/internal/types"
)

// Callbacks are the lifecycle hooks the editor invokes. A nil slot means the
// editor never exposes the corresponding affordance; in read-only mode every
// mutating slot is nil rather than guarded at call time.
type Callbacks struct {
	OnSubmitAnnotation func(ctx context.Context, a *types.Annotation) error
	OnUpdateAnnotation func(ctx context.Context, a *types.Annotation) error
	OnDeleteAnnotation func(ctx context.Context, a *types.Annotation) error
	OnSkipTask         func(ctx context.Context) error
	OnUnskipTask       func(ctx context.Context) error
	OnGroundTruth      func(ctx context.Context, a *types.Annotation, value bool) error
	OnEntityCreate     func(ctx context.Context, r *types.Result) error
	OnEntityDelete     func(ctx context.Context, r *types.Result) error
	OnNextTask         func(ctx context.Context) error
	OnPrevTask         func(ctx context.Context) error
	OnLoad             func()
}

// Options is the construction contract for an editor instance.
type Options struct {
	User               *types.User
	Config             string // label configuration
	Description        string
	Interfaces         []string
	Users              []*types.User
	Keymap             map[string]string
	Messages           map[string]string
	QueueTotal         int
	QueuePosition      int
	ReadonlyAnnotation bool
	Callbacks          Callbacks
}

// Editor is the embedded labeling editor as seen by the wrapper. All state
// the wrapper reads back (annotations, selection, dirtiness) lives behind
// this interface because the editor owns its annotation store.
type Editor interface {
	// SetTask pushes a task into the editor. fullReset clears all editor
	// state instead of only the annotation store; the full reset avoids
	// stale-canvas rendering for certain file types when the task changed.
	SetTask(task *types.Task, fullReset bool)

	// Annotations returns the editor's current annotation store contents.
	Annotations() []*types.Annotation
	// Predictions returns the read-only prediction candidates.
	Predictions() []*types.Prediction

	// CreateAnnotation adds a brand-new empty annotation.
	CreateAnnotation() *types.Annotation
	// CreateAnnotationFrom adds a local annotation seeded with the given
	// result, used when reconstructing drafts and promoting predictions.
	CreateAnnotationFrom(result []types.Result) *types.Annotation
	// RemoveAnnotation drops an annotation from the editor store.
	RemoveAnnotation(localID string)

	// SelectAnnotation makes the annotation current. Returns false when the
	// local id is unknown.
	SelectAnnotation(localID string) bool
	// SelectPrediction makes the prediction current. Returns false when the
	// local id is unknown.
	SelectPrediction(localID string) bool
	// Selected returns the current annotation, nil when none.
	Selected() *types.Annotation

	// SetLoading suppresses interaction while task or annotation state is
	// being mutated by an in-flight request.
	SetLoading(v bool)

	// Initializing reports whether the editor is still running its own
	// startup; touching the label registry during that window can corrupt
	// the editor's internal state.
	Initializing() bool
	// Labels returns the editor's label registry; false means the registry
	// is not safely accessible yet.
	Labels() (*LabelRegistry, bool)

	// Events is the editor's native event emitter.
	Events() *events.Emitter

	// Destroy unmounts the editor instance.
	Destroy()
}
