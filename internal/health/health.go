package health

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Status represents the health status of a service or dependency.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	// StatusDisabled marks a dependency switched off by configuration.
	StatusDisabled Status = "disabled"
)

// CheckResult represents the health check result for a single dependency.
type CheckResult struct {
	Status    Status `json:"status"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
	Error     string `json:"error,omitempty"`
}

// HealthStatus represents the overall health status of the service.
type HealthStatus struct {
	Status  Status                 `json:"status"`
	Version string                 `json:"version,omitempty"`
	Checks  map[string]CheckResult `json:"checks,omitempty"`
}

// CheckFunc probes one dependency. A nil error means healthy.
type CheckFunc func(ctx context.Context) error

type namedCheck struct {
	name     string
	check    CheckFunc
	disabled bool
}

// Checker performs health checks on service dependencies.
type Checker struct {
	checks  []namedCheck
	version string
	timeout time.Duration
}

type Option func(*Checker)

// WithRedis pings the reminder store. A nil client reports the store as disabled.
func WithRedis(client *redis.Client) Option {
	return func(c *Checker) {
		if client == nil {
			c.checks = append(c.checks, namedCheck{name: "redis", disabled: true})
			return
		}
		c.checks = append(c.checks, namedCheck{
			name: "redis",
			check: func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			},
		})
	}
}

// WithCheck adds a custom dependency check.
func WithCheck(name string, check CheckFunc) Option {
	return func(c *Checker) {
		c.checks = append(c.checks, namedCheck{name: name, check: check, disabled: check == nil})
	}
}

func NewChecker(version string, opts ...Option) *Checker {
	c := &Checker{
		version: version,
		timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	sort.SliceStable(c.checks, func(i, j int) bool {
		return c.checks[i].name < c.checks[j].name
	})
	return c
}

// Check performs health checks on all dependencies and returns the overall status.
func (c *Checker) Check(ctx context.Context) *HealthStatus {
	checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	status := &HealthStatus{
		Status:  StatusHealthy,
		Version: c.version,
		Checks:  make(map[string]CheckResult, len(c.checks)),
	}

	for _, nc := range c.checks {
		if nc.disabled {
			status.Checks[nc.name] = CheckResult{Status: StatusDisabled}
			continue
		}

		start := time.Now()
		if err := nc.check(checkCtx); err != nil {
			status.Status = StatusUnhealthy
			status.Checks[nc.name] = CheckResult{
				Status: StatusUnhealthy,
				Error:  err.Error(),
			}
			continue
		}
		status.Checks[nc.name] = CheckResult{
			Status:    StatusHealthy,
			LatencyMs: time.Since(start).Milliseconds(),
		}
	}

	return status
}

// LiveHandler returns a Gin handler for liveness probes.
func (c *Checker) LiveHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// ReadyHandler returns a Gin handler for readiness probes.
func (c *Checker) ReadyHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := c.Check(ctx.Request.Context())

		httpStatus := http.StatusOK
		if status.Status != StatusHealthy {
			httpStatus = http.StatusServiceUnavailable
		}

		ctx.JSON(httpStatus, status)
	}
}
