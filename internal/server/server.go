// Package server exposes the decoder over HTTP.
//
// Routes:
//
//	POST /decode   decode a multipart/form-data body and return part summaries
//	GET  /healthz  liveness
//	GET  /metrics  prometheus exposition of the decode metrics
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/shapestone/shape-formdata/internal/report"
	"github.com/shapestone/shape-formdata/pkg/formdata"
)

// Server is the decode service.
type Server struct {
	engine          *gin.Engine
	log             *zap.Logger
	reg             *prometheus.Registry
	metrics         *formdata.Metrics
	opts            []formdata.Option
	addr            string
	shutdownTimeout time.Duration
}

// Config holds the server settings.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Options         []formdata.Option
	Logger          *zap.Logger
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// New builds the server and its routes.
func New(cfg Config) *Server {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	reg := prometheus.NewRegistry()
	s := &Server{
		log:             log,
		reg:             reg,
		metrics:         formdata.NewMetrics(reg),
		addr:            cfg.Addr,
		shutdownTimeout: cfg.ShutdownTimeout,
	}
	s.opts = append(append(s.opts, cfg.Options...),
		formdata.WithLogger(log), formdata.WithMetrics(s.metrics))

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.logRequests())
	r.POST("/decode", s.handleDecode)
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok\n") })
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	s.engine = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run over an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handleDecode(c *gin.Context) {
	format, err := report.ParseFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	form, err := formdata.FromRequest(c.Request, s.opts...)
	if err != nil {
		resp := ErrorResponse{Error: err.Error()}
		var pe *formdata.ParseError
		if errors.As(err, &pe) {
			resp.Kind = pe.Kind.Error()
		}
		s.log.Debug("decode failed", zap.Error(err))
		c.JSON(formdata.StatusCode(err), resp)
		return
	}
	defer func() {
		if err := form.Close(); err != nil {
			s.log.Warn("close form", zap.Error(err))
		}
	}()

	body, err := report.Marshal(format, report.Summarize(form))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.Data(http.StatusOK, format.ContentType(), body)
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)))
	}
}
