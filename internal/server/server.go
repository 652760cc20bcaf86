// Package server exposes the transition engine over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/thurmanmarka/risetrans"
	"github.com/thurmanmarka/risetrans/internal/config"
	"github.com/thurmanmarka/risetrans/internal/ephemeris"
	"github.com/thurmanmarka/risetrans/internal/transit"
)

const (
	jsonContentType = "application/json; charset=utf-8"
	shutdownTimeout = 5 * time.Second
)

// Server holds the router and the engine it serves.
type Server struct {
	cfg      *config.Config
	log      zerolog.Logger
	calc     *risetrans.Calculator
	engine   []transit.Option
	dayCache *transit.DayCache
	cache    *ResponseCache
	metrics  Metrics
	now      func() time.Time
	router   *gin.Engine
}

// New builds a Server from cfg.
func New(cfg *config.Config, log zerolog.Logger) (*Server, error) {
	mode, err := cfg.Transit.Mode()
	if err != nil {
		return nil, fmt.Errorf("transit: %w", err)
	}

	s := &Server{
		cfg:      cfg,
		log:      log,
		dayCache: transit.NewDayCache(cfg.Transit.DayCacheTTL),
		now:      time.Now,
	}
	s.engine = []transit.Option{
		transit.WithCadence(cfg.Transit.Cadence),
		transit.WithPolarLatitude(cfg.Transit.PolarLatitude),
		transit.WithMaxPolarDays(cfg.Transit.MaxPolarDays),
		transit.WithRiseSetMode(mode),
		transit.WithDayCache(s.dayCache),
		transit.WithLogger(log),
	}

	oracle := ephemeris.NewMeeus(
		ephemeris.WithSearchSpan(cfg.Ephemeris.SearchSpan),
		ephemeris.WithSearchGrid(cfg.Ephemeris.SearchGrid),
	)
	opts := []risetrans.Option{
		risetrans.WithOracle(oracle),
		risetrans.WithLogger(log),
		risetrans.WithTransitOptions(s.engine...),
	}
	if cfg.Ephemeris.Serialize {
		opts = append(opts, risetrans.WithSerializedOracle())
	}
	s.calc = risetrans.New(opts...)

	s.metrics = NewMetrics(cfg.Metrics.Enabled, s.dayCache.Len)
	if cfg.Cache.Enabled {
		s.cache = NewResponseCache(cfg.Cache.Size, cfg.Cache.TTL)
	}

	gin.SetMode(cfg.Server.Mode)
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(s.log), MetricsMiddleware(s.metrics))

	r.GET("/health", s.health)
	if s.cfg.Metrics.Enabled {
		r.GET(s.cfg.Metrics.Path, gin.WrapH(s.metrics.Handler()))
	}

	api := r.Group("/")
	if s.cfg.RateLimit.Enabled {
		api.Use(RateLimit(NewIPRateLimiter(rate.Limit(s.cfg.RateLimit.RPS), s.cfg.RateLimit.Burst)))
	}
	caching := Cache(s.cache, s.metrics)
	{
		api.GET("/rise-set-times", caching, s.riseSetTimes)
		api.GET("/sun-rise-set-times", caching, s.sunRiseSetTimes)
		api.GET("/moon-phases", caching, s.moonPhases)
		api.GET("/pheno", caching, s.pheno)
	}
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", srv.Addr).Msg("http server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// dispatcher returns the shared engine, or a fresh one when the request
// asks for a different rise/set mode.
func (s *Server) dispatcher(mode ephemeris.RiseSetMode, custom bool) *transit.Dispatcher {
	if !custom {
		return s.calc.Dispatcher()
	}
	opts := append(slices.Clone(s.engine), transit.WithRiseSetMode(mode))
	return transit.NewDispatcher(s.calc.Oracle(), opts...)
}

func writeJSON(c *gin.Context, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Data(status, jsonContentType, b)
}

func fail(c *gin.Context, err error) {
	writeJSON(c, http.StatusBadRequest, gin.H{"error": err.Error()})
	c.Abort()
}
