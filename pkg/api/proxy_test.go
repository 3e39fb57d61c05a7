package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestCallExpandsPathParams(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"id": 42}`))
	}))
	defer server.Close()

	p := New(server.URL)
	resp, err := p.Call(context.Background(), "task", Params{
		Path: map[string]string{"taskID": "42"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if gotPath != "/api/tasks/42/" {
		t.Errorf("expected /api/tasks/42/, got %s", gotPath)
	}
	if resp.ID != 42 {
		t.Errorf("expected id 42, got %d", resp.ID)
	}
}

func TestCallMissingPathParam(t *testing.T) {
	p := New("http://localhost")
	_, err := p.Call(context.Background(), "task", Params{})
	if err == nil {
		t.Fatal("expected error for missing path param")
	}
}

func TestCallUnknownEndpoint(t *testing.T) {
	p := New("http://localhost")
	_, err := p.Call(context.Background(), "doesNotExist", Params{})
	if err == nil {
		t.Fatal("expected error for unknown endpoint")
	}
}

func TestCallSendsTokenAndBody(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &gotBody)
		w.Write([]byte(`{"id": 7}`))
	}))
	defer server.Close()

	p := New(server.URL, WithToken("secret"))
	_, err := p.Call(context.Background(), "submitAnnotation", Params{
		Path: map[string]string{"taskID": "1"},
		Body: map[string]any{"lead_time": 12.5},
	})
	if err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Token secret" {
		t.Errorf("expected 'Token secret' auth header, got %q", gotAuth)
	}
	if gotBody["lead_time"] != 12.5 {
		t.Errorf("expected lead_time 12.5 in body, got %v", gotBody["lead_time"])
	}
}

func TestCallQueryString(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	q := url.Values{}
	q.Set("ordering", "-id")
	p := New(server.URL)
	if _, err := p.Call(context.Background(), "listComments", Params{Query: q}); err != nil {
		t.Fatal(err)
	}
	if gotQuery.Get("ordering") != "-id" {
		t.Errorf("expected ordering=-id, got %q", gotQuery.Get("ordering"))
	}
}

func TestCallStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"reason": "PROJECT_PAUSED"}`))
	}))
	defer server.Close()

	p := New(server.URL)
	_, err := p.Call(context.Background(), "whoami", Params{})
	if err == nil {
		t.Fatal("expected status error")
	}
	if !IsProjectPaused(err) {
		t.Errorf("expected paused-project error, got %v", err)
	}
}

func TestCallNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail": "not found"}`))
	}))
	defer server.Close()

	p := New(server.URL)
	_, err := p.Call(context.Background(), "whoami", Params{})
	if !IsNotFound(err) {
		t.Errorf("expected not-found error, got %v", err)
	}
	if IsProjectPaused(err) {
		t.Error("404 should not count as paused")
	}
}

func TestWithEndpointsOverride(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	p := New(server.URL, WithEndpoints(map[string]Endpoint{
		"whoami": {Method: "GET", Path: "/custom/me/"},
	}))
	if _, err := p.Call(context.Background(), "whoami", Params{}); err != nil {
		t.Fatal(err)
	}
	if gotPath != "/custom/me/" {
		t.Errorf("expected /custom/me/, got %s", gotPath)
	}
}

func TestExpandPathEscapesValues(t *testing.T) {
	got, err := expandPath("/api/tasks/:taskID/", map[string]string{"taskID": "a/b"})
	if err != nil {
		t.Fatal(err)
	}
	if got != "/api/tasks/a%2Fb/" {
		t.Errorf("expected escaped segment, got %s", got)
	}
}

func TestPresignURL(t *testing.T) {
	p := New("http://gateway")

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "absolute passthrough",
			raw:  "https://bucket.example.com/file.jpg",
			want: "https://bucket.example.com/file.jpg",
		},
		{
			name: "relative non-resolve passthrough",
			raw:  "/static/img.png",
			want: "/static/img.png",
		},
		{
			name: "task resolve",
			raw:  "/tasks/5/resolve/?fileuri=abc",
			want: "http://gateway/api/projects/12/presign/?fileuri=" + url.QueryEscape("http://gateway/tasks/5/resolve/?fileuri=abc"),
		},
		{
			name: "project resolve",
			raw:  "/projects/12/resolve/x",
			want: "http://gateway/api/projects/12/presign/?fileuri=" + url.QueryEscape("http://gateway/projects/12/resolve/x"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.PresignURL("12", tt.raw)
			if got != tt.want {
				t.Errorf("PresignURL(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
