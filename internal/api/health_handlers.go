package api

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// severity orders statuses so the worst component decides the overall one.
var severity = map[string]int{statusHealthy: 0, statusDegraded: 1, statusUnhealthy: 2}

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "healthCheck",
		Method:        http.MethodGet,
		Path:          "/health",
		Summary:       "Health check",
		Description:   "Reports database, search index, event stream and webhook status. Answers 503 while any component is unhealthy.",
		Tags:          []string{"Health"},
		DefaultStatus: http.StatusOK,
	}, s.handleHealthCheck)
}

// ComponentHealth describes one dependency.
type ComponentHealth struct {
	Status  string `json:"status" enum:"healthy,degraded,unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Time taken by the check"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is the /health body.
type HealthResponse struct {
	Status     string                     `json:"status" enum:"healthy,degraded,unhealthy"`
	Components map[string]ComponentHealth `json:"components"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Status int
	Body   HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	checks := map[string]func(context.Context) ComponentHealth{
		"database": s.checkDatabase,
		"search":   s.checkSearchIndex,
		"sse":      s.checkSSEManager,
		"webhooks": s.checkWebhooks,
	}

	out := &HealthOutput{
		Status: http.StatusOK,
		Body:   HealthResponse{Status: statusHealthy, Components: make(map[string]ComponentHealth, len(checks))},
	}
	for name, check := range checks {
		c := check(ctx)
		out.Body.Components[name] = c
		if severity[c.Status] > severity[out.Body.Status] {
			out.Body.Status = c.Status
		}
	}
	if out.Body.Status == statusUnhealthy {
		out.Status = http.StatusServiceUnavailable
	}
	return out, nil
}

// timed runs probe and records its latency on the result.
func timed(probe func() ComponentHealth) ComponentHealth {
	start := time.Now()
	c := probe()
	c.Latency = time.Since(start).String()
	return c
}

func (s *Server) checkDatabase(ctx context.Context) ComponentHealth {
	if s.store == nil {
		return ComponentHealth{Status: statusDegraded, Message: "database not configured"}
	}
	return timed(func() ComponentHealth {
		if err := s.store.Ping(ctx); err != nil {
			return ComponentHealth{Status: statusUnhealthy, Message: "database ping failed"}
		}
		return ComponentHealth{Status: statusHealthy}
	})
}

func (s *Server) checkSearchIndex(context.Context) ComponentHealth {
	if s.services == nil || s.services.Search == nil {
		return ComponentHealth{Status: statusDegraded, Message: "search service not configured"}
	}
	return timed(func() ComponentHealth {
		n, err := s.services.Search.DocumentCount()
		if err != nil {
			return ComponentHealth{Status: statusUnhealthy, Message: "search index unreachable"}
		}
		// Empty is normal on a fresh install.
		return ComponentHealth{Status: statusHealthy, Message: fmt.Sprintf("%d documents", n)}
	})
}

func (s *Server) checkSSEManager(context.Context) ComponentHealth {
	if s.sseManager == nil {
		return ComponentHealth{Status: statusDegraded, Message: "SSE manager not configured"}
	}
	return ComponentHealth{Status: statusHealthy, Message: formatSSEStatus(s.sseManager.ClientCount())}
}

// checkWebhooks lists providers without a secret. They reject every
// delivery, so the platform still works but misses updates.
func (s *Server) checkWebhooks(context.Context) ComponentHealth {
	if s.services == nil || s.services.Webhook == nil {
		return ComponentHealth{Status: statusDegraded, Message: "webhook service not configured"}
	}
	var missing []string
	for name, ok := range s.services.Webhook.Providers() {
		if !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return ComponentHealth{Status: statusHealthy}
	}
	slices.Sort(missing)
	return ComponentHealth{Status: statusDegraded, Message: "no secret for " + strings.Join(missing, ", ")}
}

func formatSSEStatus(count int) string {
	switch count {
	case 0:
		return "no connected clients"
	case 1:
		return "1 connected client"
	default:
		return fmt.Sprintf("%d connected clients", count)
	}
}
