// Package server exposes prayer times, the next event, the qibla and the
// Hijri date over a small JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/smokyabdulrahman/adhan/internal/prayer"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = "127.0.0.1:8787"

const shutdownTimeout = 5 * time.Second

// Options configure a Server.
type Options struct {
	Settings prayer.Settings
	// RequestsPerSecond and Burst bound the whole API. Zero disables the
	// limit.
	RequestsPerSecond float64
	Burst             int
	// HijriOffset shifts the Hijri date by whole days.
	HijriOffset int
	// Now defaults to time.Now.
	Now func() time.Time
}

// Server serves the API for one set of settings, which can be replaced
// while running.
type Server struct {
	mu       sync.RWMutex
	settings prayer.Settings

	hijriOffset int
	now         func() time.Time
	limiter     *rate.Limiter
	router      *gin.Engine
}

// New builds the router.
func New(opts Options) *Server {
	s := &Server{
		settings:    opts.Settings,
		hijriOffset: opts.HijriOffset,
		now:         opts.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	s.router = s.routes()
	return s
}

// SetSettings replaces the settings used for requests without overrides.
func (s *Server) SetSettings(settings prayer.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
}

func (s *Server) currentSettings() prayer.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(string) bool { return true },
		AllowMethods:    []string{"GET", "OPTIONS", "HEAD"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	if s.limiter != nil {
		api.Use(limit(s.limiter))
	}
	api.GET("/times", s.handleTimes)
	api.GET("/next", s.handleNext)
	api.GET("/qibla", s.handleQibla)
	api.GET("/methods", s.handleMethods)
	api.GET("/hijri", s.handleHijri)
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("serving prayer times")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}

func limit(l *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
