// internal/sf/labels.go
package sf

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/akashkhedar/datamanager/internal/editor"
	"github.com/akashkhedar/datamanager/internal/types"
	"github.com/akashkhedar/datamanager/pkg/api"
)

// userLabelPayload is one custom-label link as the backend reports it.
type userLabelPayload struct {
	Control string `json:"from_name"`
	Value   string `json:"value"`
	Project int64  `json:"project"`
}

// LoadUserLabels fetches the per-project custom-label vocabulary and feeds
// it into the editor's label registry. Registry access is deferred until the
// editor reports it safe; touching it during the editor's own
// initialization can corrupt its internal state.
func (w *Wrapper) LoadUserLabels(ctx context.Context) error {
	ed := w.Editor()
	if ed == nil {
		return nil
	}

	q := url.Values{}
	q.Set("project", strconv.FormatInt(int64(w.cfg.Project), 10))
	q.Set("expand", "label")
	resp, err := w.apic.Call(ctx, "userLabelsForProject", api.Params{Query: q})
	if err != nil {
		return fmt.Errorf("load user labels: %w", err)
	}
	var links []userLabelPayload
	if err := resp.Decode(&links); err != nil {
		return fmt.Errorf("load user labels: %w", err)
	}
	if len(links) == 0 {
		return nil
	}

	reg := w.awaitLabelRegistry(ed)
	if reg == nil {
		// Proceed optimistically; the labels will arrive on the next load.
		slog.Warn("label registry not accessible, skipping custom labels")
		return nil
	}
	byControl := make(map[string][]string)
	for _, link := range links {
		byControl[link.Control] = append(byControl[link.Control], link.Value)
	}
	for control, labels := range byControl {
		reg.Add(control, labels)
	}
	w.bus.Emit("sf:userLabelsLoaded", byControl)
	return nil
}

// SaveUserLabels persists newly created custom labels for a control tag and
// mirrors them into the editor registry.
func (w *Wrapper) SaveUserLabels(ctx context.Context, control string, labels []string) error {
	if len(labels) == 0 {
		return nil
	}
	body := make([]userLabelPayload, 0, len(labels))
	for _, value := range labels {
		body = append(body, userLabelPayload{
			Control: control,
			Value:   value,
			Project: int64(w.cfg.Project),
		})
	}
	if _, err := w.apic.Call(ctx, "saveUserLabels", api.Params{Body: body}); err != nil {
		if api.IsProjectPaused(err) {
			return err
		}
		w.toast.Show(types.ToastError, "Labels were not saved")
		return fmt.Errorf("save user labels: %w", err)
	}
	if ed := w.Editor(); ed != nil {
		if reg := w.awaitLabelRegistry(ed); reg != nil {
			reg.Add(control, labels)
		}
	}
	return nil
}

// awaitLabelRegistry polls for safe access to the editor's label registry,
// bounded by labelPollTries. Returns nil when the registry never became
// accessible.
func (w *Wrapper) awaitLabelRegistry(ed editor.Editor) *editor.LabelRegistry {
	for i := 0; i < labelPollTries; i++ {
		if !ed.Initializing() {
			if reg, ok := ed.Labels(); ok {
				return reg
			}
		}
		time.Sleep(labelPollDelay)
	}
	return nil
}
