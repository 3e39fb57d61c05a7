// internal/convert/convert.go
// Package convert holds the pure data-shape adapters between backend wire
// representations and the editor-side types. Nothing in here performs I/O.
package convert

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/akashkhedar/datamanager/internal/types"
)

// TaskPayload is the backend wire shape of a task.
type TaskPayload struct {
	ID                        int64               `json:"id"`
	Data                      json.RawMessage     `json:"data"`
	Annotations               []AnnotationPayload `json:"annotations,omitempty"`
	Predictions               []PredictionPayload `json:"predictions,omitempty"`
	Drafts                    []DraftPayload      `json:"drafts,omitempty"`
	IsLabeled                 bool                `json:"is_labeled"`
	Overlap                   int                 `json:"overlap"`
	AllowSkip                 *bool               `json:"allow_skip,omitempty"`
	DefaultSelectedAnnotation int64               `json:"default_selected_annotation,omitempty"`
	CreatedAt                 time.Time           `json:"created_at"`
	UpdatedAt                 time.Time           `json:"updated_at"`
}

// AnnotationPayload is the backend wire shape of an annotation.
type AnnotationPayload struct {
	ID           int64          `json:"id,omitempty"`
	Result       []types.Result `json:"result"`
	LeadTime     float64        `json:"lead_time"`
	WasCancelled bool           `json:"was_cancelled"`
	GroundTruth  bool           `json:"ground_truth"`
	DraftID      int64          `json:"draft_id,omitempty"`
	CompletedBy  int64          `json:"completed_by,omitempty"`
	StartedAt    time.Time      `json:"started_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// PredictionPayload is the backend wire shape of a prediction.
type PredictionPayload struct {
	ID           int64          `json:"id"`
	Result       []types.Result `json:"result"`
	ModelVersion string         `json:"model_version"`
	Score        float64        `json:"score"`
	CreatedAt    time.Time      `json:"created_at"`
}

// DraftPayload is the backend wire shape of a draft. Annotation is nil for
// drafts not linked to a submitted annotation.
type DraftPayload struct {
	ID         int64          `json:"id"`
	Annotation *int64         `json:"annotation"`
	Result     []types.Result `json:"result"`
	LeadTime   float64        `json:"lead_time"`
	User       int64          `json:"user,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// ToTask converts a backend task into the editor shape, mapping each
// annotation, prediction and draft independently.
func ToTask(p *TaskPayload) *types.Task {
	t := &types.Task{
		ID:        types.TaskID(p.ID),
		Data:      p.Data,
		IsLabeled: p.IsLabeled,
		Overlap:   p.Overlap,
		AllowSkip: p.AllowSkip,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.DefaultSelectedAnnotation != 0 {
		t.DefaultAnnotation = types.PKFromID(p.DefaultSelectedAnnotation)
	}
	for i := range p.Annotations {
		t.Annotations = append(t.Annotations, ToAnnotation(&p.Annotations[i]))
	}
	for i := range p.Predictions {
		t.Predictions = append(t.Predictions, ToPrediction(&p.Predictions[i]))
	}
	for i := range p.Drafts {
		t.Drafts = append(t.Drafts, ToDraft(&p.Drafts[i]))
	}
	return t
}

// ToAnnotation converts a backend annotation into the editor shape. The
// numeric id is dropped in favor of a string PK, and a fresh local id is
// assigned for editor-side addressing.
func ToAnnotation(p *AnnotationPayload) *types.Annotation {
	return &types.Annotation{
		LocalID:     types.NewLocalID(),
		PK:          types.PKFromID(p.ID),
		Result:      p.Result,
		LeadTime:    p.LeadTime,
		Skipped:     p.WasCancelled,
		GroundTruth: p.GroundTruth,
		DraftID:     types.DraftID(p.DraftID),
		CreatedBy:   types.UserID(p.CompletedBy),
		CreatedAt:   p.CreatedAt,
	}
}

// ToPrediction converts a backend prediction. The author is the trimmed
// model-version string, empty when absent.
func ToPrediction(p *PredictionPayload) *types.Prediction {
	return &types.Prediction{
		LocalID:      types.NewLocalID(),
		PK:           types.PKFromID(p.ID),
		Result:       p.Result,
		ModelVersion: strings.TrimSpace(p.ModelVersion),
		Score:        p.Score,
		CreatedAt:    p.CreatedAt,
	}
}

// ToDraft converts a backend draft.
func ToDraft(p *DraftPayload) *types.Draft {
	d := &types.Draft{
		ID:        types.DraftID(p.ID),
		Result:    p.Result,
		LeadTime:  p.LeadTime,
		User:      types.UserID(p.User),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Annotation != nil {
		d.AnnotationPK = types.PKFromID(*p.Annotation)
	}
	return d
}

// FromAnnotation converts an editor annotation back to the wire shape, used
// only for event payloads. The created_at stamp is client-side and not
// authoritative; the backend sets the persisted value itself.
func FromAnnotation(a *types.Annotation) *AnnotationPayload {
	p := &AnnotationPayload{
		Result:       a.Result,
		LeadTime:     a.LeadTime,
		WasCancelled: a.Skipped,
		GroundTruth:  a.GroundTruth,
		DraftID:      int64(a.DraftID),
		CompletedBy:  int64(a.CreatedBy),
		CreatedAt:    time.Now(),
	}
	if id, ok := a.PK.ID(); ok {
		p.ID = id
	}
	return p
}
