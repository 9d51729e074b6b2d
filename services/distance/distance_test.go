package distance

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func matrixServer(t *testing.T, meters, seconds int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"status": "OK",
			"rows": []any{
				map[string]any{
					"elements": []any{
						map[string]any{
							"status":   "OK",
							"distance": map[string]int{"value": meters},
							"duration": map[string]int{"value": seconds},
						},
					},
				},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestLookupFromMatrix(t *testing.T) {
	srv := matrixServer(t, 40234, 2700) // ~25 miles, 45 minutes
	defer srv.Close()

	svc := NewService("test-key", nil, zap.NewNop())
	svc.baseURL = srv.URL

	r, err := svc.Lookup(context.Background(), "100 Main St, Dallas TX", "200 Oak Ave, Plano TX")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if r.Estimated {
		t.Error("expected a live result, got an estimate")
	}
	if r.Miles < 24.9 || r.Miles > 25.1 {
		t.Errorf("Miles = %.2f, want ~25", r.Miles)
	}
	if r.DriveTimeMinute != 45 {
		t.Errorf("DriveTimeMinute = %d, want 45", r.DriveTimeMinute)
	}
}

func TestLookupFallsBackWhenServiceDown(t *testing.T) {
	svc := NewService("test-key", nil, zap.NewNop())
	svc.baseURL = "http://127.0.0.1:1" // refused

	r, err := svc.Lookup(context.Background(), "123 Elm St, Austin TX", "500 Commerce St, Dallas TX")
	if err != nil {
		t.Fatalf("Lookup must not fail the turn, got: %v", err)
	}
	if !r.Estimated {
		t.Error("expected an estimated result")
	}
	if r.Miles != 195 {
		t.Errorf("Miles = %.0f, want 195 from the austin|dallas pair", r.Miles)
	}
}

func TestLookupFallsBackWithoutKey(t *testing.T) {
	svc := NewService("", nil, zap.NewNop())

	r, err := svc.Lookup(context.Background(), "somewhere", "elsewhere")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if !r.Estimated || r.Miles != defaultLocalMiles {
		t.Errorf("got %+v, want local estimate of %d miles", r, defaultLocalMiles)
	}
}

func TestFallbackEstimate(t *testing.T) {
	tests := []struct {
		name     string
		pickup   string
		delivery string
		want     float64
	}{
		{"known pair", "Houston, TX", "San Antonio, TX", 197},
		{"reversed pair", "San Antonio TX", "Houston TX", 197},
		{"same city", "north Dallas", "south Dallas", defaultLocalMiles},
		{"unknown cities", "Springfield", "Shelbyville", defaultLocalMiles},
		{"one unknown", "Austin TX", "Springfield", defaultLocalMiles},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fallbackEstimate(tt.pickup, tt.delivery)
			if got.Miles != tt.want {
				t.Errorf("fallbackEstimate(%q, %q).Miles = %.0f, want %.0f",
					tt.pickup, tt.delivery, got.Miles, tt.want)
			}
			if !got.Estimated {
				t.Error("Estimated flag not set")
			}
		})
	}
}
