// internal/httpserver/server.go
// Control-plane HTTP API for the fiber tester session. Drives the same
// selection state machine as the terminal panel; the pulse stream itself
// is never served, only selection, preparation, and history.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ColonelBlimp/fibertester/internal/history"
	"github.com/ColonelBlimp/fibertester/internal/morse"
	"github.com/ColonelBlimp/fibertester/internal/recovery"
	"github.com/ColonelBlimp/fibertester/internal/session"
)

// Journal is the narrow journal contract required by the history endpoint.
type Journal interface {
	Recent(ctx context.Context, limit int) ([]history.Record, error)
}

// Server exposes the session controller over HTTP.
type Server struct {
	addr    string
	session *session.Controller
	journal Journal
	server  *http.Server
	ctx     context.Context
	cancel  context.CancelFunc
	port    int
}

// NewServer creates an HTTP API server for the given session controller.
// journal may be nil; the history endpoint then reports no records.
func NewServer(addr string, ctrl *session.Controller, journal Journal) *Server {
	if addr == "" {
		addr = ":8000"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:    addr,
		session: ctrl,
		journal: journal,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// routes builds the gin engine with all endpoints registered.
func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/api/health", s.handleHealth)
	r.GET("/api/status", s.handleStatus)
	r.GET("/api/history", s.handleHistory)
	r.POST("/api/set-color", s.handleSetColor)
	r.POST("/api/set-number", s.handleSetNumber)
	r.POST("/api/prepare", s.handlePrepare)
	r.POST("/api/complete", s.handleComplete)
	r.POST("/api/clear", s.handleClear)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Endpoint not found",
			"path":  c.Request.URL.Path,
		})
	})

	return r
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)

	s.server = &http.Server{
		Handler:           s.routes(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	if tcp, ok := listener.Addr().(*net.TCPAddr); ok {
		s.port = tcp.Port
	}

	go func() {
		defer recovery.HandlePanicFunc(s.cancel)
		_ = s.server.Serve(listener)
	}()
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// errorEnvelope is the failure shape shared by all session operations.
// Failures are application-level, so they still travel as HTTP 200.
func errorEnvelope(message string) gin.H {
	return gin.H{
		"success": false,
		"message": message,
		"status":  "error",
	}
}

// nullable maps the empty string to JSON null for status fields.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"message":   "Fiber Tester Backend Running",
		"port":      s.listenPort(),
		"timestamp": float64(time.Now().UnixMilli()) / 1000.0,
	})
}

// listenPort is the bound port when serving, else the configured one.
func (s *Server) listenPort() int {
	if s.port != 0 {
		return s.port
	}
	_, portStr, err := net.SplitHostPort(s.addr)
	if err != nil {
		return 0
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0
	}
	return port
}

func (s *Server) handleStatus(c *gin.Context) {
	st := s.session.Status()
	c.JSON(http.StatusOK, gin.H{
		"color":           nullable(st.Color),
		"number":          nullable(st.Number),
		"is_transmitting": st.Transmitting,
		"history":         st.History,
		"ready_to_send":   st.ReadyToSend,
	})
}

func (s *Server) handleSetColor(c *gin.Context) {
	var req struct {
		Color string `json:"color"`
	}
	// An absent or malformed body behaves like a missing color
	_ = c.ShouldBindJSON(&req)

	res, err := s.session.SetColor(req.Color)
	if err != nil {
		c.JSON(http.StatusOK, errorEnvelope(err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": res.Message,
		"status":  res.Status,
		"color":   res.Color,
	})
}

func (s *Server) handleSetNumber(c *gin.Context) {
	var req struct {
		Number string `json:"number"`
	}
	_ = c.ShouldBindJSON(&req)

	res, err := s.session.SetNumber(req.Number)
	if err != nil {
		c.JSON(http.StatusOK, errorEnvelope(err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": res.Message,
		"status":  res.Status,
		"number":  res.Number,
	})
}

func (s *Server) handlePrepare(c *gin.Context) {
	prep, err := s.session.Prepare()
	if err != nil {
		c.JSON(http.StatusOK, errorEnvelope(err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"message":           prep.Message,
		"status":            "transmitting",
		"color":             prep.Color,
		"number":            prep.Number,
		"sequence":          sequenceJSON(prep.Steps),
		"total_duration_ms": prep.TotalDuration.Milliseconds(),
	})
}

func (s *Server) handleComplete(c *gin.Context) {
	done, err := s.session.Complete()
	if err != nil {
		// Nothing staged is an operator mistake; a journal write
		// failure is a server fault.
		if errors.Is(err, session.ErrNothingToComplete) {
			c.JSON(http.StatusOK, errorEnvelope(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   err.Error(),
			"message": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": done.Message,
		"status":  "completed",
		"history": done.History,
	})
}

func (s *Server) handleClear(c *gin.Context) {
	res := s.session.Clear()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": res.Message,
		"status":  res.Status,
	})
}

func (s *Server) handleHistory(c *gin.Context) {
	limit := history.DefaultRecentLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	if s.journal == nil {
		c.JSON(http.StatusOK, gin.H{"records": []journalRecord{}, "count": 0})
		return
	}

	recs, err := s.journal.Recent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   err.Error(),
			"message": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"records": recordsJSON(recs),
		"count":   len(recs),
	})
}

// sequenceStep is the wire form of one transmission step.
type sequenceStep struct {
	Kind       string `json:"kind"`
	DurationMS int64  `json:"duration_ms"`
	Label      string `json:"label"`
}

func sequenceJSON(steps []morse.TransmissionStep) []sequenceStep {
	out := make([]sequenceStep, len(steps))
	for i, st := range steps {
		out[i] = sequenceStep{
			Kind:       st.Kind.String(),
			DurationMS: st.Duration.Milliseconds(),
			Label:      st.Label,
		}
	}
	return out
}

// journalRecord is the wire form of one persisted transmission.
type journalRecord struct {
	ID         string `json:"id"`
	Color      string `json:"color"`
	Number     string `json:"number"`
	Pattern    string `json:"pattern"`
	Profile    string `json:"profile"`
	DurationMS int64  `json:"duration_ms"`
	SentAt     string `json:"sent_at"`
}

func recordsJSON(recs []history.Record) []journalRecord {
	out := make([]journalRecord, len(recs))
	for i, rec := range recs {
		out[i] = journalRecord{
			ID:         rec.ID,
			Color:      rec.Color,
			Number:     rec.Number,
			Pattern:    rec.Pattern,
			Profile:    rec.Profile,
			DurationMS: rec.TotalDuration.Milliseconds(),
			SentAt:     rec.SentAt.Format(time.RFC3339),
		}
	}
	return out
}
