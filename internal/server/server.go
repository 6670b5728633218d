// Package server exposes the solve dispatcher over HTTP.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/njchilds90/gonumerics"
	"github.com/njchilds90/gonumerics/solver"
)

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

// Solver runs one request; *gonumerics.Dispatcher implements it.
type Solver interface {
	Solve(req gonumerics.Request) gonumerics.Response
}

// Handlers serves the solve API.
type Handlers struct {
	solver       Solver
	metrics      *Metrics
	logger       *slog.Logger
	maxBodyBytes int64
}

// NewHandlers wires the handlers. A nil metrics gets a fresh registry.
func NewHandlers(s Solver, metrics *Metrics, logger *slog.Logger, maxBodyBytes int64) *Handlers {
	if metrics == nil {
		metrics = NewMetrics()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = 1 << 20
	}
	return &Handlers{solver: s, metrics: metrics, logger: logger, maxBodyBytes: maxBodyBytes}
}

// RegisterRoutes registers the API under rg.
//
// Endpoints:
//
//	POST /solve   - run one method
//	GET  /methods - JSON schema of every method
func RegisterRoutes(rg *gin.RouterGroup, h *Handlers) {
	rg.POST("/solve", h.HandleSolve)
	rg.GET("/methods", h.HandleMethods)
}

// NewRouter builds the gin engine with middleware, the /v1 API, /health
// and /metrics.
func NewRouter(h *Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), h.requestLogger())
	RegisterRoutes(r.Group("/v1"), h)
	r.GET("/health", h.HandleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.metrics.Registry, promhttp.HandlerOpts{})))
	return r
}

// HandleSolve decodes a Request, solves it and writes the flat response.
// Solve failures are reported with 200 and success=false; only malformed
// HTTP input yields 400.
func (h *Handlers) HandleSolve(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()

	var req gonumerics.Request
	if err := dec.Decode(&req); err != nil {
		c.JSON(http.StatusBadRequest, badRequest(err.Error()))
		return
	}
	if dec.More() {
		c.JSON(http.StatusBadRequest, badRequest("invalid JSON: trailing data"))
		return
	}

	start := time.Now()
	resp := h.solver.Solve(req)
	elapsed := time.Since(start)

	label := "unknown"
	if m, err := gonumerics.ParseMethod(req.Method); err == nil {
		label = m.String()
	}
	outcome := "success"
	if !resp.Success {
		outcome = "failure"
	}
	h.metrics.observe(label, outcome, elapsed.Seconds())

	body, err := json.Marshal(resp)
	if err != nil {
		h.logger.Error("encode response", slog.String("method", req.Method), slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, badRequest("failed to encode response"))
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}

// HandleMethods returns the method schema.
func (h *Handlers) HandleMethods(c *gin.Context) {
	c.Data(http.StatusOK, "application/json", []byte(gonumerics.MethodSpec()))
}

// HandleHealth is the liveness check.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func badRequest(msg string) gin.H {
	return gin.H{
		"success": false,
		"error":   gin.H{"kind": solver.InvalidArgument.String(), "message": msg},
	}
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func (h *Handlers) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.logger.Info("request",
			slog.String("request_id", c.GetString("request_id")),
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
		)
	}
}
