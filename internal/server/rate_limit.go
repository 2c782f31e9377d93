package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/smallbiznis/facture/internal/invoice/domain"
	"github.com/smallbiznis/facture/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/facture/internal/observability/metrics"
	"go.uber.org/zap"
)

const rateLimitReasonClientRate = "client-rate"

// RenderRateLimit throttles render endpoints per client address. Limiter
// errors fail open so a Redis outage does not take rendering down with it.
func (s *Server) RenderRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.limiter == nil || !s.limiter.Enabled() {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		endpoint := normalizeRateLimitEndpoint(c)

		cost, err := renderCost(c, s.cfg.RateLimit.RenderBurst)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		res, err := s.limiter.AllowRender(ctx, c.ClientIP(), cost)
		if err != nil {
			logger.FromContext(ctx).Warn("render rate limit check failed", zap.Error(err))
			c.Next()
			return
		}
		if res == nil || res.Allowed {
			if res != nil {
				c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
				c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			}
			recordRateLimitAllowed(ctx, endpoint, s.obsMetrics)
			c.Next()
			return
		}

		logger.FromContext(ctx).Warn("render rate limit exceeded",
			zap.String("reason", rateLimitReasonClientRate),
			zap.String("endpoint", endpoint),
		)
		recordRateLimitDenied(ctx, endpoint, rateLimitReasonClientRate, s.obsMetrics)

		c.Header("Retry-After", retryAfterSeconds(res.RetryAfter))
		c.Header("X-Rate-Limited-Reason", rateLimitReasonClientRate)
		AbortWithError(c, ErrRateLimited)
	}
}

// maxBatchBodyBytes bounds how much of a batch body is buffered to price it.
const maxBatchBodyBytes = 2 << 20

// renderCost is the number of distinct documents a request asks for, capped
// at the bucket burst so an allowed request always exists. Batch bodies are
// peeked and restored for the handler; unreadable bodies cost one document
// and are rejected later by binding.
func renderCost(c *gin.Context, burst int) (int, error) {
	if !strings.HasSuffix(c.FullPath(), "/batch") || c.Request.Body == nil {
		return 1, nil
	}
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBatchBodyBytes))
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return 0, ErrPayloadTooLarge
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil || len(body) == 0 {
		return 1, nil
	}

	var peek struct {
		Formats []string `json:"formats"`
	}
	if err := json.Unmarshal(body, &peek); err != nil {
		return 1, nil
	}
	return capCost(batchCost(peek.Formats), burst), nil
}

// batchCost counts the distinct known formats. Unknown formats fail without
// rendering; an empty list means every format.
func batchCost(formats []string) int {
	if len(formats) == 0 {
		return len(invoicedomain.Formats)
	}
	seen := make(map[invoicedomain.OutputFormat]struct{}, len(formats))
	for _, raw := range formats {
		if f, err := invoicedomain.ParseFormat(raw); err == nil {
			seen[f] = struct{}{}
		}
	}
	return max(len(seen), 1)
}

func capCost(cost, burst int) int {
	if burst > 0 && cost > burst {
		return burst
	}
	return cost
}

func retryAfterSeconds(d time.Duration) string {
	secs := int(d.Round(time.Second) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

func recordRateLimitAllowed(ctx context.Context, endpoint string, metrics *obsmetrics.Metrics) {
	if metrics == nil {
		return
	}
	metrics.RecordRateLimitAllowed(ctx, endpoint)
}

func recordRateLimitDenied(ctx context.Context, endpoint, reason string, metrics *obsmetrics.Metrics) {
	if metrics == nil {
		return
	}
	metrics.RecordRateLimitDenied(ctx, endpoint, reason)
}

func normalizeRateLimitEndpoint(c *gin.Context) string {
	if c == nil {
		return "unknown"
	}
	endpoint := strings.TrimSpace(c.FullPath())
	if endpoint == "" {
		endpoint = strings.TrimSpace(c.Request.URL.Path)
	}
	if endpoint == "" {
		endpoint = "unknown"
	}
	return endpoint
}
