package services

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"github.com/ptcgp/data-api/internal/metrics"
)

const (
	assetsBaseURL       = "https://assets.tcgdex.net"
	defaultProbeTimeout = 3 * time.Second
	probeCacheSize      = 256
	probeCacheTTL       = 24 * time.Hour
	probeAttempts       = 2
)

// ImageService resolves the best available asset URL for a card. It probes
// the high-resolution variant with a HEAD request and falls back to the
// low-resolution URL; probe outcomes are cached per asset key so repeated
// requests for the same card and language do not re-probe.
type ImageService struct {
	client     *http.Client
	cache      *expirable.LRU[string, bool]
	limiter    *rate.Limiter
	timeout    time.Duration
	skipChecks bool
	baseURL    string
}

// NewImageService builds an ImageService from the environment. IMAGE_TIMEOUT
// sets the per-attempt probe timeout in seconds; SKIP_IMAGE_CHECKS disables
// probing entirely and always returns the high-resolution URL.
func NewImageService() *ImageService {
	timeout := defaultProbeTimeout
	if v := os.Getenv("IMAGE_TIMEOUT"); v != "" {
		if secs, err := strconv.ParseFloat(v, 64); err == nil && secs > 0 {
			timeout = time.Duration(secs * float64(time.Second))
		}
	}

	return &ImageService{
		client:     &http.Client{Timeout: timeout},
		cache:      expirable.NewLRU[string, bool](probeCacheSize, nil, probeCacheTTL),
		limiter:    rate.NewLimiter(rate.Limit(20), 40),
		timeout:    timeout,
		skipChecks: os.Getenv("SKIP_IMAGE_CHECKS") != "",
		baseURL:    assetsBaseURL,
	}
}

// Resolve returns the high-resolution URL when the asset exists (or checks
// are skipped) and the low-resolution URL otherwise. Probe failures are
// absorbed here and never surface as request errors.
func (s *ImageService) Resolve(ctx context.Context, lang, setID, localID string) string {
	base := fmt.Sprintf("%s/%s/tcgp/%s/%s", s.baseURL, lang, setID, localID)
	high := base + "/high.webp"
	low := base + "/low.webp"

	if s.skipChecks {
		return high
	}

	if ok, cached := s.cache.Get(high); cached {
		metrics.ImageProbeCacheHits.Inc()
		if ok {
			return high
		}
		return low
	}
	metrics.ImageProbeCacheMisses.Inc()

	ok := false
	for attempt := 0; attempt < probeAttempts; attempt++ {
		if attempt > 0 {
			log.Printf("Retrying image HEAD request for %s", high)
		}
		if s.probe(ctx, high) {
			ok = true
			break
		}
	}
	s.cache.Add(high, ok)

	if ok {
		metrics.ImageProbesTotal.WithLabelValues("high").Inc()
		return high
	}
	metrics.ImageProbesTotal.WithLabelValues("low").Inc()
	return low
}

func (s *ImageService) probe(ctx context.Context, url string) bool {
	if err := s.limiter.Wait(ctx); err != nil {
		return false
	}

	probeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodHead, url, nil)
	if err != nil {
		log.Printf("HEAD request failed for %s: %v", url, err)
		return false
	}
	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("HEAD request failed for %s: %v", url, err)
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
