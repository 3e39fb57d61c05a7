// internal/comments/comments_test.go
package comments

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/akashkhedar/datamanager/internal/events"
	"github.com/akashkhedar/datamanager/internal/types"
	"github.com/akashkhedar/datamanager/pkg/api"
)

type recordedCall struct {
	Name   string
	Params api.Params
}

type fakeAPI struct {
	mu        sync.Mutex
	calls     []recordedCall
	responses map[string]*api.Response
	errs      map[string]error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		responses: make(map[string]*api.Response),
		errs:      make(map[string]error),
	}
}

func (f *fakeAPI) Call(ctx context.Context, name string, params api.Params) (*api.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, recordedCall{Name: name, Params: params})
	if err := f.errs[name]; err != nil {
		return nil, err
	}
	if resp, ok := f.responses[name]; ok {
		return resp, nil
	}
	return &api.Response{}, nil
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

func (f *fakeAPI) last(name string) (recordedCall, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].Name == name {
			return f.calls[i], true
		}
	}
	return recordedCall{}, false
}

func TestCreateAnnotationScoped(t *testing.T) {
	apic := newFakeAPI()
	apic.responses["createComment"] = &api.Response{
		Body: []byte(`{"id": 3, "text": "looks wrong", "annotation": 10, "created_by": 4}`),
	}
	sdk := New(apic, nil, false)

	c, err := sdk.Create(context.Background(), CreateRequest{
		Text:  "looks wrong",
		Scope: Scope{AnnotationID: 10},
	})
	if err != nil {
		t.Fatal(err)
	}
	if c.ID != 3 || c.AnnotationID != 10 || c.CreatedBy != 4 {
		t.Errorf("comment not mapped: %+v", c)
	}

	call, _ := apic.last("createComment")
	body := call.Params.Body.(commentPayload)
	if body.Annotation == nil || *body.Annotation != 10 {
		t.Error("expected annotation scope in the request body")
	}
	if body.Draft != nil {
		t.Error("expected no draft scope")
	}

	// Server-assigned fields stay out of the create body.
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	var sent map[string]any
	if err := json.Unmarshal(raw, &sent); err != nil {
		t.Fatal(err)
	}
	if _, ok := sent["id"]; ok {
		t.Error("create body must not carry an id")
	}
	if _, ok := sent["created_at"]; ok {
		t.Error("create body must not carry a creation timestamp")
	}
}

func TestCreateDraftScopeGatedByFlag(t *testing.T) {
	apic := newFakeAPI()
	sdk := New(apic, nil, false)
	sdk.Create(context.Background(), CreateRequest{Text: "x", Scope: Scope{DraftID: 5}})

	call, _ := apic.last("createComment")
	body := call.Params.Body.(commentPayload)
	if body.Draft != nil {
		t.Error("draft scope must be dropped when the flag is off")
	}

	apic = newFakeAPI()
	sdk = New(apic, nil, true)
	sdk.Create(context.Background(), CreateRequest{Text: "x", Scope: Scope{DraftID: 5}})
	call, _ = apic.last("createComment")
	body = call.Params.Body.(commentPayload)
	if body.Draft == nil || *body.Draft != 5 {
		t.Error("expected draft scope with the flag on")
	}
}

func TestListWithoutScopeReturnsEmptyNoNetwork(t *testing.T) {
	apic := newFakeAPI()
	sdk := New(apic, nil, true)

	list, err := sdk.List(context.Background(), Scope{})
	if err != nil {
		t.Fatal(err)
	}
	if list == nil || len(list) != 0 {
		t.Errorf("expected an empty non-nil list, got %v", list)
	}
	if len(apic.calls) != 0 {
		t.Error("unscoped list must not reach the network")
	}
}

func TestListQueryShape(t *testing.T) {
	apic := newFakeAPI()
	apic.responses["listComments"] = &api.Response{Body: []byte(`[]`)}
	sdk := New(apic, nil, false)

	if _, err := sdk.List(context.Background(), Scope{AnnotationID: 10}); err != nil {
		t.Fatal(err)
	}
	call, _ := apic.last("listComments")
	q := call.Params.Query
	if q.Get("annotation") != "10" {
		t.Errorf("expected annotation=10, got %q", q.Get("annotation"))
	}
	if q.Get("ordering") != "-id" {
		t.Errorf("expected ordering=-id, got %q", q.Get("ordering"))
	}
	if q.Get("expand_created_by") != "true" {
		t.Error("expected expand_created_by=true")
	}
}

func TestListEnrichmentFailureDropsWholeList(t *testing.T) {
	apic := newFakeAPI()
	apic.responses["listComments"] = &api.Response{
		Body: []byte(`[
			{"id": 1, "text": "ok", "created_by": 4},
			{"id": 2, "text": "broken", "created_by": {"email": "no-id@example.com"}}
		]`),
	}
	sdk := New(apic, nil, false)

	list, err := sdk.List(context.Background(), Scope{AnnotationID: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Errorf("expected the whole list dropped on enrichment failure, got %d", len(list))
	}
}

func TestListPublishesEmbeddedUsers(t *testing.T) {
	apic := newFakeAPI()
	apic.responses["listComments"] = &api.Response{
		Body: []byte(`[
			{"id": 1, "text": "hi", "created_by": {"id": 8, "email": "u@example.com", "first_name": "U"}}
		]`),
	}
	cache := NewUserCache()
	sdk := New(apic, cache, false)

	list, err := sdk.List(context.Background(), Scope{AnnotationID: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].CreatedBy != 8 {
		t.Fatalf("expected created_by collapsed to id 8, got %+v", list)
	}
	u := cache.Get(8)
	if u == nil || u.Email != "u@example.com" {
		t.Error("expected embedded user published to the cache")
	}
}

func TestUpdateRefusesLocalComment(t *testing.T) {
	apic := newFakeAPI()
	sdk := New(apic, nil, false)
	text := "edited"

	if err := sdk.Update(context.Background(), 0, UpdateRequest{Text: &text}); err != nil {
		t.Fatal(err)
	}
	if err := sdk.Update(context.Background(), -3, UpdateRequest{Text: &text}); err != nil {
		t.Fatal(err)
	}
	if len(apic.calls) != 0 {
		t.Error("local-only comments must not reach the network")
	}
}

func TestUpdateSendsOnlySetFields(t *testing.T) {
	apic := newFakeAPI()
	sdk := New(apic, nil, false)
	resolved := true

	if err := sdk.Update(context.Background(), 7, UpdateRequest{IsResolved: &resolved}); err != nil {
		t.Fatal(err)
	}
	call, _ := apic.last("updateComment")
	if call.Params.Path["commentID"] != "7" {
		t.Errorf("expected comment 7 in path, got %q", call.Params.Path["commentID"])
	}
	body := call.Params.Body.(map[string]any)
	if _, ok := body["text"]; ok {
		t.Error("unset text must not be sent")
	}
	if body["is_resolved"] != true {
		t.Error("expected is_resolved true in body")
	}

	// An empty patch is a no-op.
	if err := sdk.Update(context.Background(), 7, UpdateRequest{}); err != nil {
		t.Fatal(err)
	}
	if apic.count("updateComment") != 1 {
		t.Error("empty patch must not reach the network")
	}
}

func TestDeleteRefusesLocalComment(t *testing.T) {
	apic := newFakeAPI()
	sdk := New(apic, nil, false)

	if err := sdk.Delete(context.Background(), 0); err != nil {
		t.Fatal(err)
	}
	if len(apic.calls) != 0 {
		t.Error("local-only comments must not reach the network")
	}
	if err := sdk.Delete(context.Background(), 5); err != nil {
		t.Fatal(err)
	}
	if apic.count("deleteComment") != 1 {
		t.Error("expected one delete call")
	}
}

func TestUserCache(t *testing.T) {
	cache := NewUserCache()
	cache.Publish(&types.User{ID: 1, Email: "a@example.com"})
	cache.Publish(&types.User{ID: 1, Email: "a2@example.com"})
	cache.Publish(&types.User{ID: 2, Email: "b@example.com"})

	if cache.Len() != 2 {
		t.Errorf("expected 2 distinct users, got %d", cache.Len())
	}
	if u := cache.Get(1); u == nil || u.Email != "a2@example.com" {
		t.Error("expected latest publish to win")
	}
	if cache.Get(9) != nil {
		t.Error("expected miss for unknown user")
	}
}

func TestAttachBridgesEvents(t *testing.T) {
	apic := newFakeAPI()
	apic.responses["createComment"] = &api.Response{
		Body: []byte(`{"id": 3, "text": "hi", "annotation": 10}`),
	}
	sdk := New(apic, nil, false)
	em := events.NewEmitter()
	detach := sdk.Attach(context.Background(), em)

	var created *types.Comment
	em.On(EventCreated, func(args ...any) {
		created, _ = args[0].(*types.Comment)
	})
	em.Emit(EventCreate, CreateRequest{Text: "hi", Scope: Scope{AnnotationID: 10}})
	if created == nil || created.ID != 3 {
		t.Fatalf("expected created event with the new comment, got %+v", created)
	}

	detach()
	em.Emit(EventCreate, CreateRequest{Text: "bye", Scope: Scope{AnnotationID: 10}})
	if apic.count("createComment") != 1 {
		t.Error("expected no handling after detach")
	}
}
