package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"url-event-pipeline/internal/adapters/stream"
	"url-event-pipeline/internal/enrichment"
	"url-event-pipeline/internal/services"
)

type fakeLister struct {
	records []stream.StoredRecord
	err     error
	limit   int
}

func (f *fakeLister) List(ctx context.Context, limit int) ([]stream.StoredRecord, error) {
	f.limit = limit
	return f.records, f.err
}

func setupTestRouter(lister RecordLister) (*gin.Engine, *stream.MockPublisher) {
	gin.SetMode(gin.TestMode)

	publisher := stream.NewMockPublisher()
	router := gin.New()
	SetupRoutes(router, &RouterConfig{
		ServiceName:       "event-collector",
		CollectorService:  services.NewCollectorService(publisher),
		EnrichmentService: services.NewEnrichmentService(enrichment.NewEnricher(), false),
		RecordLister:      lister,
	})
	return router, publisher
}

func TestGinRoutes(t *testing.T) {
	router, publisher := setupTestRouter(nil)

	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
		wantType   string
	}{
		{"health", "GET", "/health", "", http.StatusOK, "application/json"},
		{"collect", "POST", "/collect?utm_source=test", `{"url":"https://example.com"}`, http.StatusOK, "application/json"},
		{"pixel", "GET", "/pixel.gif?url=https%3A%2F%2Fexample.com", "", http.StatusOK, "image/gif"},
		{"script", "GET", "/js/tracker.js", "", http.StatusOK, "application/javascript"},
		{"not found", "GET", "/nothing", "", http.StatusNotFound, "application/json"},
		{"events without sink", "GET", "/events", "", http.StatusNotFound, "application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if got := w.Header().Get("Content-Type"); got != tt.wantType {
				t.Errorf("Expected content type %s, got %s", tt.wantType, got)
			}
		})
	}

	if got := len(publisher.Records()); got != 2 {
		t.Errorf("Expected 2 published events, got %d", got)
	}
}

func TestGinPixelServesBinaryGIF(t *testing.T) {
	router, _ := setupTestRouter(nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/track.gif", nil))

	if !strings.HasPrefix(w.Body.String(), "GIF89a") {
		t.Errorf("Expected decoded GIF body, got %q", w.Body.String())
	}
	if w.Header().Get("Pragma") != "no-cache" {
		t.Error("Expected no-cache headers")
	}
}

func TestEnrichEndpoint(t *testing.T) {
	router, _ := setupTestRouter(nil)

	t.Run("enriches event", func(t *testing.T) {
		w := httptest.NewRecorder()
		body := `{"event_id":"e1","url":"https://example.com/checkout","session_id":"sess_1"}`
		router.ServeHTTP(w, httptest.NewRequest("POST", "/enrich", strings.NewReader(body)))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		var out map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("Invalid JSON response: %v", err)
		}
		if out["conversion_potential"] != "high" {
			t.Errorf("Expected high conversion potential, got %v", out["conversion_potential"])
		}
		if out["is_new_session"] != true {
			t.Errorf("Expected new session, got %v", out["is_new_session"])
		}
	})

	t.Run("rejects invalid body", func(t *testing.T) {
		for _, body := range []string{`{bad`, `null`} {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("POST", "/enrich", strings.NewReader(body)))
			if w.Code != http.StatusBadRequest {
				t.Errorf("Body %s: expected status 400, got %d", body, w.Code)
			}
		}
	})
}

func TestEventsEndpoint(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	lister := &fakeLister{records: []stream.StoredRecord{
		{ID: 2, PartitionKey: "user_1", Data: []byte(`{"event_id":"b"}`), CreatedAt: created},
	}}
	router, _ := setupTestRouter(lister)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/events?limit=5", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if lister.limit != 5 {
		t.Errorf("Expected limit 5, got %d", lister.limit)
	}

	var out []StoredEvent
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if len(out) != 1 || out[0].CreatedAt != "2024-05-01T12:00:00Z" {
		t.Errorf("Unexpected events %+v", out)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/events?limit=-1", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for bad limit, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/events", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if lister.limit != 50 {
		t.Errorf("Expected default limit 50, got %d", lister.limit)
	}

	lister.err = errors.New("disk gone")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/events", nil))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
}
