package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	moodAnalytics "github.com/linyuezhao/cultural-navigator/backend/internal/analytics/mood"
	postStore "github.com/linyuezhao/cultural-navigator/backend/internal/store/posts"
)

func setupRouter(t *testing.T) (*chi.Mux, *postStore.Store) {
	t.Helper()
	store, err := postStore.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open err: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	handler := New(store)
	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, store
}

func TestCalendarView(t *testing.T) {
	r, store := setupRouter(t)
	date := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)
	if _, err := store.Save(context.Background(), "想家了", "文化适应", "很难过", date); err != nil {
		t.Fatalf("Save err: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/analytics/calendar?year=2024&month=3", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var view moodAnalytics.CalendarView
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if view.Year != 2024 || view.Month != 3 || len(view.Cells) != 31 {
		t.Fatalf("unexpected view: year=%d month=%d cells=%d", view.Year, view.Month, len(view.Cells))
	}
	if view.Cells[7].Color != "#CD5C5C" {
		t.Fatalf("March 8 cell color: got %s", view.Cells[7].Color)
	}
}

func TestCalendarDefaultsToLatestMonth(t *testing.T) {
	r, store := setupRouter(t)
	date := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	if _, err := store.Save(context.Background(), "二月的帖子", "其他", "", date); err != nil {
		t.Fatalf("Save err: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/analytics/calendar", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	var view moodAnalytics.CalendarView
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if view.Year != 2024 || view.Month != 2 {
		t.Fatalf("expected latest post month 2024-02, got %d-%d", view.Year, view.Month)
	}
}

func TestCalendarInvalidMonth(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/analytics/calendar?month=13", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestTrendView(t *testing.T) {
	r, store := setupRouter(t)
	ctx := context.Background()

	early := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	if _, err := store.Save(ctx, "后写的帖子", "其他", "非常开心", late); err != nil {
		t.Fatalf("Save err: %v", err)
	}
	if _, err := store.Save(ctx, "先发生的帖子", "其他", "很难过", early); err != nil {
		t.Fatalf("Save err: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/analytics/trend", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var view moodAnalytics.TrendView
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if len(view.Points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(view.Points))
	}
	if !view.Points[0].PostDate.Before(view.Points[1].PostDate) {
		t.Fatal("points must be ordered by post date ascending")
	}
	if view.Min != 0 || view.Max != 100 || len(view.Ticks) != 5 {
		t.Fatalf("axis metadata wrong: %+v", view)
	}
}
