package workspace

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestQueryDatabase_SendsAuthAndCursor(t *testing.T) {
	var gotPath, gotAuth, gotVersion string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotVersion = r.Header.Get("X-Workspace-Version")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results":     []any{map[string]any{"id": "page-1", "properties": map[string]any{}}},
			"next_cursor": "cur-2",
			"has_more":    true,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok-123", "2024-01-01")
	res, err := c.QueryDatabase(context.Background(), "db-1", TicketStatusFilter(), "cur-1")
	if err != nil {
		t.Fatalf("QueryDatabase: %v", err)
	}

	if gotPath != "/v1/databases/db-1/query" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("auth = %q", gotAuth)
	}
	if gotVersion != "2024-01-01" {
		t.Errorf("version header = %q", gotVersion)
	}
	if gotBody["start_cursor"] != "cur-1" {
		t.Errorf("start_cursor = %v", gotBody["start_cursor"])
	}
	if gotBody["filter"] == nil {
		t.Errorf("filter missing from request body")
	}

	if len(res.Pages) != 1 || res.Pages[0].ID != "page-1" {
		t.Fatalf("pages = %+v", res.Pages)
	}
	if !res.HasMore || res.NextCursor != "cur-2" {
		t.Fatalf("pagination = %+v", res)
	}
}

func TestQueryDatabase_LastPage_NoCursor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results":     []any{},
			"next_cursor": nil,
			"has_more":    false,
		})
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, "t", "").QueryDatabase(context.Background(), "db", nil, "")
	if err != nil {
		t.Fatalf("QueryDatabase: %v", err)
	}
	if res.HasMore || res.NextCursor != "" {
		t.Fatalf("expected terminal page, got %+v", res)
	}
}

func TestQueryDatabase_Non200_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid token"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "bad", "").QueryDatabase(context.Background(), "db", nil, "")
	if err == nil {
		t.Fatalf("expected error on 401")
	}
}

func TestTicketStatusFilter_Shape(t *testing.T) {
	f := TicketStatusFilter()
	and, ok := f["and"].([]map[string]any)
	if !ok || len(and) != 2 {
		t.Fatalf("filter = %#v", f)
	}
	or, ok := and[1]["or"].([]map[string]any)
	if !ok || len(or) != len(SyncStatuses) {
		t.Fatalf("or branch = %#v", and[1])
	}
	// The allow-list is exact and case-sensitive; the filter must carry the
	// vocabulary verbatim.
	for i, s := range SyncStatuses {
		eq := or[i]["status"].(map[string]any)["equals"]
		if eq != s {
			t.Errorf("or[%d] = %v, want %q", i, eq, s)
		}
	}
}
