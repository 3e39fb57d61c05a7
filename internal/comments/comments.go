// internal/comments/comments.go
// Package comments is the thin event-bridge exposing comment CRUD to the
// embedded editor, forwarding to backend calls with minimal transformation.
package comments

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/akashkhedar/datamanager/internal/types"
	"github.com/akashkhedar/datamanager/pkg/api"
)

// APICaller is the slice of the API proxy the SDK needs.
type APICaller interface {
	Call(ctx context.Context, name string, params api.Params) (*api.Response, error)
}

// Scope ties a comment to exactly one of {annotation, draft}.
type Scope struct {
	AnnotationID int64
	DraftID      types.DraftID
}

func (s Scope) empty() bool {
	return s.AnnotationID == 0 && s.DraftID == 0
}

// Sdk performs comment CRUD. Draft scoping sits behind a feature flag;
// deployments without it fall back to annotation scoping only.
type Sdk struct {
	apic          APICaller
	cache         *UserCache
	draftComments bool
}

// New creates the SDK. cache may be shared with other consumers of user
// enrichment data.
func New(apic APICaller, cache *UserCache, draftComments bool) *Sdk {
	if cache == nil {
		cache = NewUserCache()
	}
	return &Sdk{apic: apic, cache: cache, draftComments: draftComments}
}

// Users exposes the shared user-enrichment cache.
func (s *Sdk) Users() *UserCache {
	return s.cache
}

// commentPayload is the backend wire shape. CreatedBy arrives either as a
// numeric id or an embedded user object, depending on expansion.
type commentPayload struct {
	ID              int64           `json:"id,omitempty"`
	Text            string          `json:"text"`
	IsResolved      bool            `json:"is_resolved"`
	RegionRef       string          `json:"region_ref,omitempty"`
	Classifications json.RawMessage `json:"classifications,omitempty"`
	Annotation      *int64          `json:"annotation,omitempty"`
	Draft           *int64          `json:"draft,omitempty"`
	CreatedBy       json.RawMessage `json:"created_by,omitempty"`
	CreatedAt       time.Time       `json:"created_at,omitzero"`
}

// CreateRequest is the input for Create.
type CreateRequest struct {
	Text            string
	RegionRef       string
	Classifications json.RawMessage
	Scope           Scope
}

// Create posts a new comment. A request with neither scoping key proceeds to
// the backend unscoped; the backend accepts it, so it is preserved here and
// only logged.
func (s *Sdk) Create(ctx context.Context, req CreateRequest) (*types.Comment, error) {
	body := commentPayload{
		Text:            req.Text,
		RegionRef:       req.RegionRef,
		Classifications: req.Classifications,
	}
	if req.Scope.AnnotationID != 0 {
		id := req.Scope.AnnotationID
		body.Annotation = &id
	} else if req.Scope.DraftID != 0 && s.draftComments {
		id := int64(req.Scope.DraftID)
		body.Draft = &id
	}
	if body.Annotation == nil && body.Draft == nil {
		slog.Warn("creating comment without annotation or draft scope")
	}

	resp, err := s.apic.Call(ctx, "createComment", api.Params{Body: body})
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	var out commentPayload
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	c, _ := s.toComment(&out)
	return c, nil
}

// List fetches the comments for the given scope. Without a usable scope it
// returns an empty list and performs no network call. Enrichment failures
// also degrade to an empty list: a partially-enriched list would render
// comments with broken authorship, so the whole page is dropped instead.
func (s *Sdk) List(ctx context.Context, scope Scope) ([]*types.Comment, error) {
	q := url.Values{}
	switch {
	case scope.AnnotationID != 0:
		q.Set("annotation", strconv.FormatInt(scope.AnnotationID, 10))
	case scope.DraftID != 0 && s.draftComments:
		q.Set("draft", strconv.FormatInt(int64(scope.DraftID), 10))
	default:
		return []*types.Comment{}, nil
	}
	q.Set("ordering", "-id")
	q.Set("expand_created_by", "true")

	resp, err := s.apic.Call(ctx, "listComments", api.Params{Query: q})
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	var payloads []commentPayload
	if err := resp.Decode(&payloads); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	out := make([]*types.Comment, 0, len(payloads))
	for i := range payloads {
		c, ok := s.toComment(&payloads[i])
		if !ok {
			slog.Warn("comment enrichment failed, dropping list")
			return []*types.Comment{}, nil
		}
		out = append(out, c)
	}
	return out, nil
}

// UpdateRequest patches a comment.
type UpdateRequest struct {
	Text       *string
	IsResolved *bool
}

// Update patches a persisted comment. A missing or negative id marks an
// optimistic local-only comment that was never persisted; the call is
// refused without touching the network.
func (s *Sdk) Update(ctx context.Context, id types.CommentID, req UpdateRequest) error {
	if id <= 0 {
		return nil
	}
	body := map[string]any{}
	if req.Text != nil {
		body["text"] = *req.Text
	}
	if req.IsResolved != nil {
		body["is_resolved"] = *req.IsResolved
	}
	if len(body) == 0 {
		return nil
	}
	if _, err := s.apic.Call(ctx, "updateComment", api.Params{
		Path: map[string]string{"commentID": strconv.FormatInt(int64(id), 10)},
		Body: body,
	}); err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	return nil
}

// Delete removes a persisted comment, with the same missing-id guard as
// Update.
func (s *Sdk) Delete(ctx context.Context, id types.CommentID) error {
	if id <= 0 {
		return nil
	}
	if _, err := s.apic.Call(ctx, "deleteComment", api.Params{
		Path: map[string]string{"commentID": strconv.FormatInt(int64(id), 10)},
	}); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

// toComment converts the wire shape, extracting an embedded user object into
// the shared cache and replacing created_by with just the id. ok is false
// when created_by could not be understood.
func (s *Sdk) toComment(p *commentPayload) (*types.Comment, bool) {
	c := &types.Comment{
		ID:              types.CommentID(p.ID),
		Text:            p.Text,
		IsResolved:      p.IsResolved,
		RegionRef:       p.RegionRef,
		Classifications: p.Classifications,
		CreatedAt:       p.CreatedAt,
	}
	if p.Annotation != nil {
		c.AnnotationID = *p.Annotation
	}
	if p.Draft != nil {
		c.DraftID = types.DraftID(*p.Draft)
	}
	if len(p.CreatedBy) == 0 || string(p.CreatedBy) == "null" {
		return c, true
	}
	var id int64
	if err := json.Unmarshal(p.CreatedBy, &id); err == nil {
		c.CreatedBy = types.UserID(id)
		return c, true
	}
	var user struct {
		ID        int64  `json:"id"`
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Avatar    string `json:"avatar"`
	}
	if err := json.Unmarshal(p.CreatedBy, &user); err != nil || user.ID == 0 {
		return nil, false
	}
	s.cache.Publish(&types.User{
		ID:        types.UserID(user.ID),
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Avatar:    user.Avatar,
	})
	c.CreatedBy = types.UserID(user.ID)
	return c, true
}
