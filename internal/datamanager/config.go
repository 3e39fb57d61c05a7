// internal/datamanager/config.go
package datamanager

import (
	"errors"
	"sort"
	"time"

	"github.com/akashkhedar/datamanager/internal/sf"
	"github.com/akashkhedar/datamanager/internal/types"
	"github.com/akashkhedar/datamanager/pkg/api"
)

// Config is the construction surface of the DataManager façade.
type Config struct {
	// Root identifies the mount point the embedding application renders
	// into. Opaque to the SDK.
	Root string

	Gateway string
	Token   string
	Project types.ProjectID

	// Mode selects label-stream or explore behavior.
	Mode types.Mode

	// Endpoints overrides entries of the default REST endpoint table.
	Endpoints map[string]api.Endpoint

	// Interfaces are independent boolean capability switches
	// (tabs/import/export/ground-truth/auto-annotation/...). Nil means the
	// defaults.
	Interfaces map[string]bool

	// Toolbar is the layout string: pipe-separated sections of
	// space-separated instrument names.
	Toolbar string

	// Actions and Instruments are the initial registry contents. Duplicate
	// or empty identifiers are rejected at construction.
	Actions     []Action
	Instruments []Instrument

	// Polling enables periodic task-list refresh.
	Polling         bool
	PollingInterval time.Duration

	// CanAnnotate explicitly overrides capability resolution; nil defers to
	// the server-reported per-user flag, then true.
	CanAnnotate *bool

	// DraftComments gates draft-scoped comment creation and listing.
	DraftComments bool

	// InteractivePreannotation suppresses automatic prediction promotion in
	// the label stream.
	InteractivePreannotation bool

	Toast         types.Toaster
	EditorFactory sf.Factory

	Users    []*types.User
	Keymap   map[string]string
	Messages map[string]string
}

// DefaultInterfaces is the capability-switch set enabled when the config
// does not specify any.
func DefaultInterfaces() map[string]bool {
	return map[string]bool{
		"tabs":             true,
		"toolbar":          true,
		"import":           true,
		"export":           true,
		"labelButton":      true,
		"groundTruth":      false,
		"autoAnnotation":   false,
		"annotations:tabs": true,
		"predictions:tabs": true,
	}
}

func (c *Config) validate() error {
	if c.Gateway == "" {
		return errors.New("datamanager: gateway is required")
	}
	if c.Project == 0 {
		return errors.New("datamanager: project is required")
	}
	if c.EditorFactory == nil {
		return errors.New("datamanager: editor factory is required")
	}
	return nil
}

func (c *Config) interfaces() map[string]bool {
	if c.Interfaces == nil {
		return DefaultInterfaces()
	}
	return c.Interfaces
}

// interfaceList returns the enabled switches as the editor's interface
// string list.
func (c *Config) interfaceList() []string {
	var out []string
	for name, on := range c.interfaces() {
		if on {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func (c *Config) pollingInterval() time.Duration {
	if c.PollingInterval > 0 {
		return c.PollingInterval
	}
	return 30 * time.Second
}
