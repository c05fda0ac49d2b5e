package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"geneinfo/internal/app"
	"geneinfo/internal/config"
	"geneinfo/internal/logging"
	"geneinfo/internal/lookup"
	"geneinfo/internal/render"
	"geneinfo/internal/upstream"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

var version = "0.1.0"

// geneLookup is the part of lookup.Service the handlers use.
type geneLookup interface {
	Lookup(ctx context.Context, symbol string) (*lookup.Result, error)
}

// statusResponseWriter captures status and bytes written for logging
type statusResponseWriter struct {
	http.ResponseWriter
	status  int
	written int64
}

func (w *statusResponseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusResponseWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.written += int64(n)
	return n, err
}

// loggingMiddleware logs each request with method, path, status, size and duration
func loggingMiddleware(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			srw := &statusResponseWriter{ResponseWriter: w}
			next.ServeHTTP(srw, r)
			if srw.status == 0 {
				srw.status = http.StatusOK
			}
			logger.Info("request",
				"remote", r.RemoteAddr,
				"method", r.Method,
				"path", r.URL.RequestURI(),
				"status", srw.status,
				"bytes", srw.written,
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()))
		})
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// statusFor maps a lookup error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, lookup.ErrEmptyQuery):
		return http.StatusBadRequest
	case errors.Is(err, upstream.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, upstream.ErrNetwork), errors.Is(err, upstream.ErrFormat):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func doLookup(svc geneLookup, logger *log.Logger, w http.ResponseWriter, r *http.Request) (*lookup.Result, bool) {
	symbol := lookup.NormalizeSymbol(chi.URLParam(r, "symbol"))
	res, err := svc.Lookup(r.Context(), symbol)
	if err != nil {
		n := lookup.Notify(symbol, err)
		status := statusFor(err)
		if status >= 500 {
			logger.Warn("lookup failed", "symbol", symbol, "err", err)
		}
		writeJSON(w, status, errorResponse{Error: n.Title, Message: n.Message})
		return nil, false
	}
	return res, true
}

// apiGeneHandler returns the lookup result as JSON.
func apiGeneHandler(svc geneLookup, logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, ok := doLookup(svc, logger, w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// geneTextHandler returns the lookup result as plain text.
func geneTextHandler(svc geneLookup, logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, ok := doLookup(svc, logger, w, r)
		if !ok {
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = fmt.Fprint(w, render.Plain(res))
	}
}

func newRouter(svc geneLookup, logger *log.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(loggingMiddleware(logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version})
	})
	r.Get("/api/genes/{symbol}", apiGeneHandler(svc, logger))
	r.Get("/genes/{symbol}", geneTextHandler(svc, logger))
	return r
}

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	configPath := flag.String("config", "", "path to config.json or config.yaml (optional)")
	verbose := flag.Bool("verbose", false, "enable verbose (debug) logging")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, closeLog, err := logging.New(logging.Options{Level: cfg.LogLevel, Verbose: *verbose, File: cfg.LogFile, Stderr: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	svc := app.NewService(cfg, version, logger)
	srv := &http.Server{
		Addr:         *addr,
		Handler:      newRouter(svc, logger),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: time.Duration(cfg.RequestTimeoutSeconds)*3*time.Second + 5*time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving gene lookups", "addr", *addr, "ncbi", cfg.NcbiBaseURL, "kegg", cfg.KeggBaseURL)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", "err", err)
	}
}
