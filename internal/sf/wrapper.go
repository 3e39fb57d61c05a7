// internal/sf/wrapper.go
// Package sf bridges one embedded labeling-editor instance to one logical
// current task. It translates editor lifecycle callbacks into backend
// operations and keeps editor-visible state consistent with the task store.
package sf

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/akashkhedar/datamanager/internal/editor"
	"github.com/akashkhedar/datamanager/internal/events"
	"github.com/akashkhedar/datamanager/internal/history"
	"github.com/akashkhedar/datamanager/internal/store"
	"github.com/akashkhedar/datamanager/internal/types"
	"github.com/akashkhedar/datamanager/pkg/api"
)

// APICaller is the slice of the API proxy the wrapper needs.
type APICaller interface {
	Call(ctx context.Context, name string, params api.Params) (*api.Response, error)
}

// Factory constructs the embedded editor instance.
type Factory func(opts editor.Options) (editor.Editor, error)

// TaskLoader fetches tasks on behalf of the wrapper. Load resolves one task
// by id; Next advances the queue and reports api.IsNotFound when the queue
// is exhausted.
type TaskLoader interface {
	Load(ctx context.Context, id types.TaskID) (*types.Task, error)
	Next(ctx context.Context) (*types.Task, error)
}

// Config wires a Wrapper.
type Config struct {
	API          APICaller
	Store        *store.Store
	Loader       TaskLoader
	Factory      Factory
	Capabilities types.Capabilities
	Mode         types.Mode
	Project      types.ProjectID
	Toast        types.Toaster
	Bus          *events.Emitter
	History      *history.History

	// InteractivePreannotation suppresses automatic prediction promotion in
	// the label stream.
	InteractivePreannotation bool

	Interfaces []string
	Users      []*types.User
	Keymap     map[string]string
	Messages   map[string]string
}

// Bounded waits. Neither produces a hard failure on expiry; both paths
// proceed optimistically.
const (
	initWaitTimeout = 500 * time.Millisecond
	initWaitStep    = 25 * time.Millisecond
	labelPollTries  = 10
	labelPollDelay  = 50 * time.Millisecond
)

// Wrapper adapts the embedded editor to the task store and backend. It
// stores the current task id, never the node: every access re-resolves the
// live node through the store's liveness check, because the store can be
// torn down while a network call is in flight.
type Wrapper struct {
	cfg    Config
	apic   APICaller
	store  *store.Store
	loader TaskLoader
	caps   types.Capabilities
	mode   types.Mode
	toast  types.Toaster
	bus    *events.Emitter
	hist   *history.History

	mu        sync.Mutex
	sf        editor.Editor // set only after the editor's own load fires
	taskID    types.TaskID
	loadedAt  time.Time // when the current annotation entered the editor
	destroyed bool

	saves singleflight.Group
}

// New constructs the wrapper and initializes the editor exactly once. An
// editor that fails to initialize is logged and left unset; every later
// operation that needs it becomes a no-op.
func New(cfg Config) (*Wrapper, error) {
	if cfg.API == nil || cfg.Store == nil || cfg.Loader == nil || cfg.Factory == nil {
		return nil, errors.New("sf: API, Store, Loader and Factory are required")
	}
	if cfg.Mode == "" {
		cfg.Mode = types.ModeExplore
	}
	if cfg.Toast == nil {
		cfg.Toast = slogToaster{}
	}
	if cfg.Bus == nil {
		cfg.Bus = events.NewEmitter()
	}
	if cfg.History == nil {
		cfg.History = history.New()
	}
	w := &Wrapper{
		cfg:    cfg,
		apic:   cfg.API,
		store:  cfg.Store,
		loader: cfg.Loader,
		caps:   cfg.Capabilities,
		mode:   cfg.Mode,
		toast:  cfg.Toast,
		bus:    cfg.Bus,
		hist:   cfg.History,
	}
	w.initEditor()
	return w, nil
}

// initEditor builds the construction options and creates the editor
// instance. Called once from New.
func (w *Wrapper) initEditor() {
	opts := editor.Options{
		User:          w.caps.User,
		Interfaces:    w.cfg.Interfaces,
		Users:         w.cfg.Users,
		Keymap:        w.cfg.Keymap,
		Messages:      w.cfg.Messages,
		QueueTotal:    w.store.Len(),
		QueuePosition: 0,
		Callbacks:     w.buildCallbacks(),
	}
	if p := w.store.Project(); p != nil {
		opts.Config = p.LabelConfig
		opts.Description = p.Instruction
	}

	var ed editor.Editor
	loaded := make(chan struct{}, 1)
	opts.Callbacks.OnLoad = func() {
		select {
		case loaded <- struct{}{}:
		default:
		}
	}

	ed, err := w.cfg.Factory(opts)
	if err != nil {
		slog.Error("editor failed to initialize", "error", err)
		return
	}

	// The editor only becomes visible to the wrapper after its own load
	// event; a factory that never fires it leaves the wrapper inert.
	select {
	case <-loaded:
	case <-time.After(initWaitTimeout):
		slog.Warn("editor load event did not fire, proceeding")
	}

	w.mu.Lock()
	w.sf = ed
	w.mu.Unlock()
}

// Editor returns the editor instance, nil when initialization failed or the
// wrapper was destroyed.
func (w *Wrapper) Editor() editor.Editor {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sf
}

// TaskID returns the tracked current task id, 0 when none.
func (w *Wrapper) TaskID() types.TaskID {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.taskID
}

// taskRef returns a weak handle to the tracked task. Every operation that
// touches the node goes through here and tolerates a dead resolve.
func (w *Wrapper) taskRef() store.TaskRef {
	w.mu.Lock()
	id := w.taskID
	w.mu.Unlock()
	return w.store.Ref(id)
}

// History exposes the navigation history.
func (w *Wrapper) History() *history.History {
	return w.hist
}

// Bus exposes the wrapper's event bus.
func (w *Wrapper) Bus() *events.Emitter {
	return w.bus
}

// awaitEditorReady waits for the editor to leave its initializing phase,
// bounded by initWaitTimeout.
func (w *Wrapper) awaitEditorReady(ed editor.Editor) {
	deadline := time.Now().Add(initWaitTimeout)
	for ed.Initializing() {
		if time.Now().After(deadline) {
			return
		}
		time.Sleep(initWaitStep)
	}
}

// Destroy tears the wrapper down. Safe to call more than once.
func (w *Wrapper) Destroy() {
	w.mu.Lock()
	ed := w.sf
	w.sf = nil
	w.destroyed = true
	w.taskID = 0
	w.mu.Unlock()
	if ed != nil {
		ed.Destroy()
	}
}

// Destroyed reports whether Destroy has run.
func (w *Wrapper) Destroyed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.destroyed
}

// slogToaster logs toasts when no UI-facing toaster is wired.
type slogToaster struct{}

func (slogToaster) Show(kind types.ToastKind, message string) {
	if kind == types.ToastError {
		slog.Warn("toast", "kind", string(kind), "message", message)
		return
	}
	slog.Info("toast", "kind", string(kind), "message", message)
}
