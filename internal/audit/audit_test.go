package audit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/empath-labs/intake-server/internal/db"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestLogAndList(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	if err := store.LogRouting(ctx, "conv-1", "HIGH_RISK", "kill", "high_risk"); err != nil {
		t.Fatalf("LogRouting: %v", err)
	}
	if err := store.LogRouting(ctx, "conv-1", "NORMAL", "", "intake"); err != nil {
		t.Fatalf("LogRouting: %v", err)
	}
	if err := store.LogRouting(ctx, "conv-2", "NORMAL", "", "summary"); err != nil {
		t.Fatalf("LogRouting: %v", err)
	}

	all, err := store.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 events, got %d", len(all))
	}

	byConv, _ := store.List(ctx, ListFilter{ConversationID: "conv-1"})
	if len(byConv) != 2 {
		t.Errorf("expected 2 events for conv-1, got %d", len(byConv))
	}

	byMode, _ := store.List(ctx, ListFilter{Mode: "HIGH_RISK"})
	if len(byMode) != 1 {
		t.Fatalf("expected 1 HIGH_RISK event, got %d", len(byMode))
	}
	if byMode[0].Marker != "kill" {
		t.Errorf("marker = %q", byMode[0].Marker)
	}
}

func TestListRoute(t *testing.T) {
	store := setupTestStore(t)
	store.LogRouting(context.Background(), "conv-1", "POCSO", "molested", "pocso")

	r := chi.NewRouter()
	RegisterRoutes(r, store)

	req := httptest.NewRequest(http.MethodGet, "/api/audit?mode=POCSO", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var events []Event
	if err := json.NewDecoder(rec.Body).Decode(&events); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(events) != 1 || events[0].ConversationID != "conv-1" {
		t.Errorf("unexpected events: %+v", events)
	}
}
