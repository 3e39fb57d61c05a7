// internal/datamanager/manager.go
// Package datamanager is the single entry point of the SDK: it bootstraps
// configuration, the REST client, the observable task store, the
// action/instrument registries, the event bus, and the embedded editor's
// lifecycle.
package datamanager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"sync"

	"github.com/akashkhedar/datamanager/internal/comments"
	"github.com/akashkhedar/datamanager/internal/convert"
	"github.com/akashkhedar/datamanager/internal/events"
	"github.com/akashkhedar/datamanager/internal/poll"
	"github.com/akashkhedar/datamanager/internal/sf"
	"github.com/akashkhedar/datamanager/internal/store"
	"github.com/akashkhedar/datamanager/internal/types"
	"github.com/akashkhedar/datamanager/pkg/api"
)

// ErrPreloadMissing marks a request for a preload target that does not
// exist. Unlike transient failures there is no in-progress editor state to
// protect, so the embedding application shows a blocking modal for it.
var ErrPreloadMissing = errors.New("preload target does not exist")

// DataManager is the façade over the whole integration layer.
type DataManager struct {
	cfg         Config
	apic        *api.Proxy
	taskStore   *store.Store
	bus         *events.Emitter
	actions     *registry[Action]
	instruments *registry[Instrument]
	toolbar     [][]string
	users       *comments.UserCache
	commentsSdk *comments.Sdk

	mu             sync.Mutex
	caps           types.Capabilities
	capsResolved   bool
	sfw            *sf.Wrapper
	bridge         *events.Bridge
	detachComments func()
	poller         *poll.Refresher
	destroyed      bool
}

// New constructs the façade: REST client, store, bus and registries. No
// network traffic happens until InitApp.
func New(cfg Config) (*DataManager, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	opts := []api.Option{}
	if cfg.Token != "" {
		opts = append(opts, api.WithToken(cfg.Token))
	}
	if len(cfg.Endpoints) > 0 {
		opts = append(opts, api.WithEndpoints(cfg.Endpoints))
	}

	dm := &DataManager{
		cfg:         cfg,
		apic:        api.New(cfg.Gateway, opts...),
		taskStore:   store.New(),
		bus:         events.NewEmitter(),
		actions:     newRegistry[Action]("action"),
		instruments: newRegistry[Instrument]("instrument"),
		users:       comments.NewUserCache(),
	}
	dm.commentsSdk = comments.New(dm, dm.users, cfg.DraftComments)

	for _, a := range cfg.Actions {
		if err := dm.actions.add(a.ID, a); err != nil {
			return nil, err
		}
	}
	for _, inst := range cfg.Instruments {
		if err := dm.instruments.add(inst.ID, inst); err != nil {
			return nil, err
		}
	}
	dm.toolbar = parseToolbar(cfg.Toolbar, func(name string) bool {
		_, ok := dm.instruments.get(name)
		return ok
	})
	return dm, nil
}

// Call routes a named REST operation through the proxy, injecting the
// project path param when the caller did not set one. DataManager itself is
// the APICaller handed to the wrapper and the comments SDK.
func (dm *DataManager) Call(ctx context.Context, name string, params api.Params) (*api.Response, error) {
	if params.Path == nil {
		params.Path = map[string]string{}
	}
	if _, ok := params.Path["project"]; !ok {
		params.Path["project"] = strconv.FormatInt(int64(dm.cfg.Project), 10)
	}
	return dm.apic.Call(ctx, name, params)
}

// InitApp resolves capabilities, boots the store with the project and task
// list, and starts polling when enabled.
func (dm *DataManager) InitApp(ctx context.Context) error {
	dm.mu.Lock()
	if dm.destroyed {
		dm.mu.Unlock()
		return errors.New("datamanager: destroyed")
	}
	dm.mu.Unlock()

	caps := resolveCapabilities(ctx, dm.apic, dm.cfg.CanAnnotate)
	dm.mu.Lock()
	dm.caps = caps
	dm.capsResolved = true
	dm.mu.Unlock()

	resp, err := dm.Call(ctx, "project", api.Params{})
	if err != nil {
		return fmt.Errorf("fetch project: %w", err)
	}
	var project convert.ProjectPayload
	if err := resp.Decode(&project); err != nil {
		return fmt.Errorf("fetch project: %w", err)
	}
	dm.taskStore.SetProject(convert.ToProject(&project))

	if err := dm.loadTaskList(ctx); err != nil {
		return err
	}

	if dm.cfg.Polling {
		dm.mu.Lock()
		if dm.poller == nil {
			dm.poller = poll.New(dm.cfg.pollingInterval(), func() {
				if err := dm.refreshTaskList(context.Background()); err != nil {
					slog.Warn("task list refresh failed", "error", err)
				}
			})
			if err := dm.poller.Start(); err != nil {
				slog.Warn("polling disabled", "error", err)
				dm.poller = nil
			}
		}
		dm.mu.Unlock()
	}

	dm.bus.Emit("ready")
	return nil
}

func (dm *DataManager) loadTaskList(ctx context.Context) error {
	payloads, err := dm.fetchTaskList(ctx)
	if err != nil {
		return err
	}
	tasks := make([]*types.Task, 0, len(payloads))
	for i := range payloads {
		tasks = append(tasks, convert.ToTask(&payloads[i]))
	}
	dm.taskStore.SetTasks(tasks)
	return nil
}

// refreshTaskList merges fresh task data into the live nodes so
// annotations-in-flight survive a poll cycle.
func (dm *DataManager) refreshTaskList(ctx context.Context) error {
	payloads, err := dm.fetchTaskList(ctx)
	if err != nil {
		return err
	}
	for i := range payloads {
		dm.taskStore.Merge(convert.ToTask(&payloads[i]))
	}
	dm.bus.Emit("tasksRefreshed")
	return nil
}

func (dm *DataManager) fetchTaskList(ctx context.Context) ([]convert.TaskPayload, error) {
	q := url.Values{}
	q.Set("fields", "all")
	resp, err := dm.Call(ctx, "tasks", api.Params{Query: q})
	if err != nil {
		return nil, fmt.Errorf("fetch tasks: %w", err)
	}
	var payloads []convert.TaskPayload
	if err := resp.Decode(&payloads); err != nil {
		return nil, fmt.Errorf("fetch tasks: %w", err)
	}
	return payloads, nil
}

// InitSF lazily constructs the wrapper and the editor; called when rendering
// begins. Subsequent calls are no-ops.
func (dm *DataManager) InitSF(ctx context.Context) error {
	dm.mu.Lock()
	if dm.sfw != nil || dm.destroyed {
		dm.mu.Unlock()
		return nil
	}
	resolved := dm.capsResolved
	dm.mu.Unlock()

	if !resolved {
		caps := resolveCapabilities(ctx, dm.apic, dm.cfg.CanAnnotate)
		dm.mu.Lock()
		dm.caps = caps
		dm.capsResolved = true
		dm.mu.Unlock()
	}

	w, err := sf.New(sf.Config{
		API:                      dm,
		Store:                    dm.taskStore,
		Loader:                   dm,
		Factory:                  dm.cfg.EditorFactory,
		Capabilities:             dm.Capabilities(),
		Mode:                     dm.cfg.Mode,
		Project:                  dm.cfg.Project,
		Toast:                    dm.cfg.Toast,
		Bus:                      dm.bus,
		InteractivePreannotation: dm.cfg.InteractivePreannotation,
		Interfaces:               dm.cfg.interfaceList(),
		Users:                    dm.cfg.Users,
		Keymap:                   dm.cfg.Keymap,
		Messages:                 dm.cfg.Messages,
	})
	if err != nil {
		return fmt.Errorf("init editor wrapper: %w", err)
	}

	dm.mu.Lock()
	dm.sfw = w
	dm.mu.Unlock()

	if ed := w.Editor(); ed != nil {
		bridge := events.NewBridge(dm.bus, ed.Events(), BridgedEvents())
		bridge.Attach()
		detach := dm.commentsSdk.Attach(ctx, ed.Events())
		dm.mu.Lock()
		dm.bridge = bridge
		dm.detachComments = detach
		dm.mu.Unlock()
	}
	return nil
}

// StartLabeling shows the given task, or pulls the next queue task when id
// is 0. Idempotent: asking for the task already shown is a no-op.
func (dm *DataManager) StartLabeling(ctx context.Context, taskID types.TaskID) error {
	dm.mu.Lock()
	if dm.sfw != nil && taskID != 0 && dm.sfw.TaskID() == taskID {
		dm.mu.Unlock()
		return nil
	}
	dm.mu.Unlock()

	if err := dm.InitSF(ctx); err != nil {
		return err
	}

	var task *types.Task
	var err error
	if taskID == 0 {
		task, err = dm.Next(ctx)
	} else {
		task, err = dm.Load(ctx, taskID)
	}
	if err != nil {
		if api.IsNotFound(err) {
			return fmt.Errorf("%w: task %d", ErrPreloadMissing, taskID)
		}
		return err
	}

	pk := types.AnnotationPK("")
	if dm.cfg.Mode != types.ModeLabelStream {
		pk = sf.AutoAnnotation
	}
	return dm.Wrapper().SelectTask(ctx, task, pk, false)
}

// Load fetches one task by id; part of the wrapper's TaskLoader contract.
// Navigation always awaits this fetch before the new task is selected.
func (dm *DataManager) Load(ctx context.Context, id types.TaskID) (*types.Task, error) {
	resp, err := dm.Call(ctx, "task", api.Params{
		Path: map[string]string{"taskID": strconv.FormatInt(int64(id), 10)},
	})
	if err != nil {
		return nil, err
	}
	var payload convert.TaskPayload
	if err := resp.Decode(&payload); err != nil {
		return nil, fmt.Errorf("load task %d: %w", id, err)
	}
	return convert.ToTask(&payload), nil
}

// Next advances the queue. In the label stream the backend picks the task;
// in explore mode the next task in list order is used. Exhaustion is
// reported as a not-found status error.
func (dm *DataManager) Next(ctx context.Context) (*types.Task, error) {
	if dm.cfg.Mode == types.ModeLabelStream {
		resp, err := dm.Call(ctx, "nextTask", api.Params{})
		if err != nil {
			return nil, err
		}
		var payload convert.TaskPayload
		if err := resp.Decode(&payload); err != nil {
			return nil, fmt.Errorf("next task: %w", err)
		}
		return convert.ToTask(&payload), nil
	}

	ids := dm.taskStore.IDs()
	cur := dm.taskStore.Selected()
	next := types.TaskID(0)
	if cur == 0 && len(ids) > 0 {
		next = ids[0]
	} else {
		for i, id := range ids {
			if id == cur && i+1 < len(ids) {
				next = ids[i+1]
				break
			}
		}
	}
	if next == 0 {
		return nil, &api.StatusError{Endpoint: "tasks", Code: 404, Reason: "queue exhausted"}
	}
	return dm.Load(ctx, next)
}

// Reload tears the editor down and re-boots the façade. Registries are
// wiped: the embedding code must register its actions and instruments
// again afterwards.
func (dm *DataManager) Reload(ctx context.Context) error {
	dm.DestroySF()
	dm.actions.clear()
	dm.instruments.clear()
	dm.mu.Lock()
	dm.toolbar = nil
	dm.mu.Unlock()
	return dm.InitApp(ctx)
}

// DestroySF unmounts the editor and detaches the bridge.
func (dm *DataManager) DestroySF() {
	dm.mu.Lock()
	w := dm.sfw
	bridge := dm.bridge
	detach := dm.detachComments
	dm.sfw = nil
	dm.bridge = nil
	dm.detachComments = nil
	dm.mu.Unlock()

	if bridge != nil {
		bridge.Detach()
	}
	if detach != nil {
		detach()
	}
	if w != nil {
		w.Destroy()
	}
}

// Destroy unmounts everything and tears down the store. When clearEvents is
// true every registered bus callback is dropped as well.
func (dm *DataManager) Destroy(clearEvents bool) {
	dm.DestroySF()
	dm.mu.Lock()
	poller := dm.poller
	dm.poller = nil
	dm.destroyed = true
	dm.mu.Unlock()
	if poller != nil {
		poller.Stop()
	}
	dm.taskStore.Destroy()
	if clearEvents {
		dm.bus.Clear()
	}
}

// RegisterAction adds an action after construction, with the same
// uniqueness rules.
func (dm *DataManager) RegisterAction(a Action) error {
	return dm.actions.add(a.ID, a)
}

// RegisterInstrument adds an instrument after construction.
func (dm *DataManager) RegisterInstrument(inst Instrument) error {
	return dm.instruments.add(inst.ID, inst)
}

// InvokeAction runs a registered action by id.
func (dm *DataManager) InvokeAction(ctx context.Context, id string) error {
	a, ok := dm.actions.get(id)
	if !ok {
		return fmt.Errorf("unknown action %q", id)
	}
	return a.Handler(ctx, dm)
}

// Accessors.

func (dm *DataManager) Store() *store.Store        { return dm.taskStore }
func (dm *DataManager) Bus() *events.Emitter       { return dm.bus }
func (dm *DataManager) Comments() *comments.Sdk    { return dm.commentsSdk }
func (dm *DataManager) Users() *comments.UserCache { return dm.users }
func (dm *DataManager) Proxy() *api.Proxy          { return dm.apic }

// Wrapper returns the editor wrapper, nil before InitSF.
func (dm *DataManager) Wrapper() *sf.Wrapper {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	return dm.sfw
}

// Capabilities returns the resolved immutable capability record.
func (dm *DataManager) Capabilities() types.Capabilities {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	return dm.caps
}

// Toolbar returns the parsed toolbar layout.
func (dm *DataManager) Toolbar() [][]string {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	return dm.toolbar
}

// ActionIDs lists registered action ids in registration order.
func (dm *DataManager) ActionIDs() []string { return dm.actions.ids() }

// InstrumentIDs lists registered instrument ids in registration order.
func (dm *DataManager) InstrumentIDs() []string { return dm.instruments.ids() }
