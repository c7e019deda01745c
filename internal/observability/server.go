package observability

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// StatsFunc reports live session counters for the health endpoint.
type StatsFunc func() map[string]uint64

// Server exposes /metrics and /health on a side listener. It never touches
// the protocol streams.
type Server struct {
	router   *gin.Engine
	http     *http.Server
	log      zerolog.Logger
	appeared time.Time
}

func NewServer(addr, version string, logger zerolog.Logger, stats StatsFunc) *Server {
	RegisterMetrics()
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(logger))
	r.Use(RequestMetricsMiddleware())

	s := &Server{
		router:   r,
		log:      logger,
		appeared: time.Now(),
	}
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		body := gin.H{
			"status":  "ok",
			"service": "ctagd",
			"version": version,
			"uptime":  time.Since(s.appeared).String(),
		}
		if stats != nil {
			body["session"] = stats()
		}
		c.JSON(http.StatusOK, body)
	})
	s.http = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address and serves in the background.
// The bound address is returned so ":0" can be used.
func (s *Server) Start() (string, error) {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return "", err
	}
	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("metrics listener stopped")
		}
	}()
	s.log.Info().Str("addr", ln.Addr().String()).Msg("metrics listener started")
	return ln.Addr().String(), nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
