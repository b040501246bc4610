// Package api exposes the Service as a JSON HTTP API.
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nhle/momentum/internal/app"
	"github.com/nhle/momentum/internal/gamify"
	"github.com/nhle/momentum/internal/metrics"
	"github.com/nhle/momentum/internal/retry"
	"github.com/nhle/momentum/internal/store"
)

// Server holds the handlers' dependencies.
type Server struct {
	svc *app.Service
	// completions is svc with the user-action retry policy.
	completions  *app.Service
	logger       *slog.Logger
	metrics      *metrics.Metrics
	saveSettings func(thresholdDays int) error
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option { return func(s *Server) { s.logger = l } }

// WithMetrics serves m at /metrics.
func WithMetrics(m *metrics.Metrics) Option { return func(s *Server) { s.metrics = m } }

// WithSettingsSaver persists settings changed through the API.
func WithSettingsSaver(fn func(thresholdDays int) error) Option {
	return func(s *Server) { s.saveSettings = fn }
}

// New creates a Server over svc.
func New(svc *app.Service, opts ...Option) *Server {
	s := &Server{
		svc:         svc,
		completions: svc.Retrying(retry.UserActions()),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.logRequests())

	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	v := r.Group("/api")
	v.GET("/snapshot", s.snapshot)

	goals := v.Group("/goals")
	goals.GET("", s.listGoals)
	goals.POST("", s.createGoal)
	goals.GET("/stats", s.goalStats)
	goals.GET("/inactive", s.inactiveGoals)
	goals.GET("/:id", s.getGoal)
	goals.PUT("/:id", s.updateGoal)
	goals.DELETE("/:id", s.deleteGoal)
	goals.POST("/:id/archive", s.archiveGoal)
	goals.POST("/:id/pause", s.pauseGoal)
	goals.POST("/:id/resume", s.resumeGoal)
	goals.POST("/:id/prestige", s.prestigeGoal)
	goals.POST("/:id/reorder", s.reorderGoal)

	tasks := v.Group("/tasks")
	tasks.GET("", s.listTasks)
	tasks.POST("", s.createTask)
	tasks.POST("/quick", s.quickAdd)
	tasks.GET("/:id", s.getTask)
	tasks.PUT("/:id", s.updateTask)
	tasks.DELETE("/:id", s.deleteTask)
	tasks.POST("/:id/complete", s.completeTask)
	tasks.POST("/:id/archive", s.archiveTask)
	tasks.POST("/:id/dependencies", s.addDependency)
	tasks.DELETE("/:id/dependencies/:dep", s.removeDependency)
	tasks.GET("/:id/streak", s.taskStreak)
	tasks.GET("/:id/history", s.entityHistory)

	v.GET("/history", s.history)
	v.GET("/journal", s.journal)

	v.GET("/themes", s.listThemes)
	v.GET("/themes/today", s.todayTheme)
	v.PUT("/themes/:day", s.putTheme)
	v.DELETE("/themes/:day", s.deleteTheme)

	v.GET("/profiles/:id", s.getProfile)
	v.PUT("/profiles/:id", s.putProfile)

	v.GET("/settings", s.getSettings)
	v.PUT("/settings", s.putSettings)
	v.POST("/reset", s.reset)

	return r
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, app.ErrValidation),
		errors.Is(err, app.ErrSelfDependency),
		errors.Is(err, app.ErrDependencyCycle):
		return http.StatusBadRequest
	case errors.Is(err, app.ErrDependenciesIncomplete),
		errors.Is(err, gamify.ErrNotMaxLevel),
		errors.Is(err, store.ErrVersionConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as a JSON error response.
func (s *Server) fail(c *gin.Context, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(code, gin.H{"error": "internal error"})
		return
	}
	c.JSON(code, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
