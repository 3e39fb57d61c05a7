// internal/types/models.go
package types

import (
	"encoding/json"
	"strings"
	"time"
)

// Result is one typed region or label result inside an annotation.
type Result struct {
	ID       string          `json:"id,omitempty"`
	Type     string          `json:"type"`
	FromName string          `json:"from_name,omitempty"`
	ToName   string          `json:"to_name,omitempty"`
	Value    json.RawMessage `json:"value,omitempty"`
}

// Annotation is the editor-side view of a persisted or in-progress
// annotation. A brand-new annotation has only a LocalID; PK is assigned by
// the backend on submit.
type Annotation struct {
	LocalID     string
	PK          AnnotationPK
	Result      []Result
	LeadTime    float64 // seconds spent, as last persisted
	Skipped     bool
	GroundTruth bool
	DraftID     DraftID // linked autosave draft, 0 when none
	DraftSaved  bool    // true when the current editor state is captured in the draft
	CreatedBy   UserID
	CreatedAt   time.Time
	LoadedAt    time.Time // when the annotation was loaded into the editor
}

// Persisted reports whether the annotation has been submitted to the backend.
func (a *Annotation) Persisted() bool {
	return a.PK != ""
}

// Prediction is a read-only machine-generated annotation candidate.
type Prediction struct {
	LocalID      string
	PK           AnnotationPK
	Result       []Result
	ModelVersion string
	Score        float64
	CreatedAt    time.Time
}

// Draft is an unsubmitted, periodically-autosaved snapshot of an
// annotation-in-progress. AnnotationPK is empty for drafts that are not
// linked to an already-submitted annotation.
type Draft struct {
	ID           DraftID
	AnnotationPK AnnotationPK
	Result       []Result
	LeadTime     float64
	User         UserID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Task is one unit of work. It is owned by the store; the integration layer
// refers to it by ID only and re-resolves the live node on every access.
type Task struct {
	ID          TaskID
	Data        json.RawMessage
	Annotations []*Annotation
	Predictions []*Prediction
	Drafts      []*Draft
	IsLabeled   bool
	Overlap     int
	// AllowSkip is tri-state: nil means the backend did not say, which is
	// treated as allowed.
	AllowSkip *bool
	// DefaultAnnotation preselects an annotation for rejected-queue tasks.
	DefaultAnnotation AnnotationPK
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Annotation returns the task's annotation with the given PK, or nil.
func (t *Task) Annotation(pk AnnotationPK) *Annotation {
	for _, a := range t.Annotations {
		if a.PK == pk {
			return a
		}
	}
	return nil
}

// Project holds the per-project settings the integration layer consumes.
type Project struct {
	ID                    ProjectID
	Title                 string
	LabelConfig           string
	Instruction           string // HTML
	ShowCollabPredictions bool
}

// User is a marketplace account as reported by the backend.
type User struct {
	ID        UserID
	Email     string
	FirstName string
	LastName  string
	Avatar    string
}

// DisplayName returns the full name, falling back to the email.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// Comment is attached to exactly one of {annotation, draft}; the zero value
// of the other id marks it unset.
type Comment struct {
	ID              CommentID
	Text            string
	IsResolved      bool
	RegionRef       string
	Classifications json.RawMessage
	AnnotationID    int64
	DraftID         DraftID
	CreatedBy       UserID
	CreatedAt       time.Time
}

// Mode selects between the queue-driven label stream and free exploration of
// the task list.
type Mode string

const (
	ModeLabelStream Mode = "labelstream"
	ModeExplore     Mode = "explore"
)
