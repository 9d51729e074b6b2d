// Package distance resolves the road distance and drive time between two
// postal addresses. Results are cached in Redis per address pair; when the
// geocoding service is unavailable a deterministic city-pair table answers
// instead, so a distance lookup never fails the call turn.
package distance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Result is one resolved route.
type Result struct {
	Miles           float64 `json:"miles"`
	DriveTimeMinute int     `json:"driveTimeMinutes"`
	Estimated       bool    `json:"estimated"` // true when the fallback table answered
}

// Service performs distance lookups.
type Service struct {
	apiKey  string
	cache   *redis.Client
	client  *http.Client
	logger  *zap.Logger
	baseURL string
}

const cacheTTL = 24 * time.Hour

// NewService builds the distance service. cache may be nil (lookups then skip
// memoization).
func NewService(apiKey string, cache *redis.Client, logger *zap.Logger) *Service {
	return &Service{
		apiKey:  apiKey,
		cache:   cache,
		client:  &http.Client{Timeout: 6 * time.Second},
		logger:  logger,
		baseURL: "https://maps.googleapis.com/maps/api/distancematrix/json",
	}
}

type matrixResponse struct {
	Status string `json:"status"`
	Rows   []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Value int `json:"value"` // meters
			} `json:"distance"`
			Duration struct {
				Value int `json:"value"` // seconds
			} `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
}

// Lookup resolves pickup → delivery. The error return is reserved for cache
// encoding bugs; an unreachable or unhappy geocoding service falls back to the
// city-pair table.
func (s *Service) Lookup(ctx context.Context, pickup, delivery string) (Result, error) {
	key := cacheKey(pickup, delivery)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key).Result(); err == nil {
			var r Result
			if err := json.Unmarshal([]byte(cached), &r); err == nil {
				return r, nil
			}
		}
	}

	r, err := s.queryMatrix(ctx, pickup, delivery)
	if err != nil {
		s.logger.Warn("distance service unavailable, using city-pair fallback",
			zap.String("pickup", pickup), zap.String("delivery", delivery), zap.Error(err))
		r = fallbackEstimate(pickup, delivery)
	}

	if s.cache != nil && !r.Estimated {
		if encoded, err := json.Marshal(r); err == nil {
			if err := s.cache.Set(ctx, key, encoded, cacheTTL).Err(); err != nil {
				s.logger.Warn("failed to cache distance result", zap.Error(err))
			}
		}
	}
	return r, nil
}

func (s *Service) queryMatrix(ctx context.Context, pickup, delivery string) (Result, error) {
	if s.apiKey == "" {
		return Result{}, fmt.Errorf("distance API key not configured")
	}

	reqURL := fmt.Sprintf("%s?origins=%s&destinations=%s&units=imperial&key=%s",
		s.baseURL, url.QueryEscape(pickup), url.QueryEscape(delivery), s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Result{}, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("distance matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	var matrix matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&matrix); err != nil {
		return Result{}, fmt.Errorf("failed to decode distance matrix response: %w", err)
	}
	if matrix.Status != "OK" || len(matrix.Rows) == 0 || len(matrix.Rows[0].Elements) == 0 {
		return Result{}, fmt.Errorf("distance matrix status %q", matrix.Status)
	}
	el := matrix.Rows[0].Elements[0]
	if el.Status != "OK" {
		return Result{}, fmt.Errorf("distance element status %q", el.Status)
	}

	const metersPerMile = 1609.344
	return Result{
		Miles:           float64(el.Distance.Value) / metersPerMile,
		DriveTimeMinute: el.Duration.Value / 60,
	}, nil
}

func cacheKey(pickup, delivery string) string {
	norm := func(s string) string {
		return strings.Join(strings.Fields(strings.ToLower(s)), " ")
	}
	return "distance:" + norm(pickup) + "|" + norm(delivery)
}
