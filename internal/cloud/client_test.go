package cloud

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientUpsertDocument(t *testing.T) {
	var (
		gotMethod string
		gotPath   string
		gotAuth   string
		gotBody   map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret-token", StaticSession{ID: "user-1"})
	payload := map[string]string{"id": "doc-1", "name": "inbox"}
	if err := c.UpsertDocument(context.Background(), CollectionProjects, "doc-1", payload); err != nil {
		t.Fatalf("UpsertDocument: %v", err)
	}

	if gotMethod != http.MethodPut {
		t.Errorf("method = %s, want PUT", gotMethod)
	}
	if want := "/users/user-1/projects/doc-1"; gotPath != want {
		t.Errorf("path = %s, want %s", gotPath, want)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotBody["name"] != "inbox" {
		t.Errorf("body = %v", gotBody)
	}
}

func TestClientFetchAllDocuments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if want := "/users/user-1/tasks"; r.URL.Path != want {
			t.Errorf("path = %s, want %s", r.URL.Path, want)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": "a", "data": {"title": "first"}},
			{"id": "b", "data": {"title": "second"}}
		]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", StaticSession{ID: "user-1"})
	docs, err := c.FetchAllDocuments(context.Background(), CollectionTasks)
	if err != nil {
		t.Fatalf("FetchAllDocuments: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}
	if docs[0].ID != "a" || docs[1].ID != "b" {
		t.Errorf("ids = %s, %s", docs[0].ID, docs[1].ID)
	}
	var payload struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(docs[1].Data, &payload); err != nil {
		t.Fatalf("unmarshaling payload: %v", err)
	}
	if payload.Title != "second" {
		t.Errorf("payload title = %q", payload.Title)
	}
}

func TestClientUnauthorizedIsAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "expired", StaticSession{ID: "user-1"})
	_, err := c.FetchAllDocuments(context.Background(), CollectionBudgets)
	if err == nil {
		t.Fatal("want error for 401 response")
	}
	if !IsAuthError(err) {
		t.Fatalf("error %v is not an AuthError", err)
	}
}

func TestClientSignedOutSessionFailsWithoutRequest(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", StaticSession{})
	if err := c.UpsertDocument(context.Background(), CollectionProjects, "x", nil); !IsAuthError(err) {
		t.Fatalf("upsert with empty user: err = %v, want AuthError", err)
	}
	if _, err := c.FetchAllDocuments(context.Background(), CollectionProjects); !IsAuthError(err) {
		t.Fatalf("fetch with empty user: err = %v, want AuthError", err)
	}
	if requests != 0 {
		t.Fatalf("server received %d requests, want 0", requests)
	}
}

func TestClientRetriesRateLimit(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", StaticSession{ID: "user-1"})
	c.maxRetries = 2
	docs, err := c.FetchAllDocuments(context.Background(), CollectionVirtualAssets)
	if err != nil {
		t.Fatalf("FetchAllDocuments after 429: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("got %d documents, want 0", len(docs))
	}
	if attempts != 2 {
		t.Errorf("server saw %d attempts, want 2", attempts)
	}
}
