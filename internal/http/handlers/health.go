package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// Probe is one readiness dependency (database, redis, ...).
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

type HealthHandler struct {
	probes  []Probe
	timeout time.Duration
}

func NewHealthHandler(probes ...Probe) *HealthHandler {
	return &HealthHandler{probes: probes, timeout: 3 * time.Second}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// GET /readyz
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	results := make([]string, len(h.probes))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range h.probes {
		i, p := i, p
		g.Go(func() error {
			if err := p.Check(gctx); err != nil {
				results[i] = err.Error()
				return fmt.Errorf("%s: %w", p.Name, err)
			}
			results[i] = "ok"
			return nil
		})
	}
	err := g.Wait()

	checks := make(gin.H, len(h.probes))
	for i, p := range h.probes {
		if results[i] == "" {
			results[i] = "skipped"
		}
		checks[p.Name] = results[i]
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "checks": checks})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "checks": checks})
}
