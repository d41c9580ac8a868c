// cmd/api/main.go
//
// Waypost API – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Install a bootstrap console logger so resolver spans surface before
//     the file logger exists.
//
//  2. Resolve the settings snapshot (env > optional .env > defaults).  A
//     validation failure prints every offending variable and exits; the
//     snapshot is constructed once here and passed down explicitly.
//
//  3. Start the daily rotating file logger, level derived from the
//     environment tier (tees to console when running in a TTY).
//
//  4. Stamp the build/config gauges for Prometheus.
//
//  5. Build the chi router – /healthz, /metrics, <prefix>/version – wrapped
//     in HTTPS-enforcement, CORS, and security-header middleware, all
//     derived from the snapshot.
//
//  6. Serve with hardened timeouts; SIGINT/SIGTERM drains gracefully.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wayposthq/waypost/internal/config"
	"github.com/wayposthq/waypost/internal/logger"
	"github.com/wayposthq/waypost/internal/metrics"
	"github.com/wayposthq/waypost/internal/middleware"
	"github.com/wayposthq/waypost/internal/server"
)

// shutdownGrace caps how long in-flight requests may run after a signal.
const shutdownGrace = 10 * time.Second

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	// Bootstrap console logger; replaced once the file logger is online.
	zap.ReplaceGlobals(zap.Must(zap.NewDevelopment()))

	//
	// ── 1.  Settings snapshot ───────────────────────────────────────────
	//
	cfg, err := config.Load()
	if err != nil {
		var verr *config.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintln(os.Stderr, "waypost: invalid configuration:")
			for _, f := range verr.Fields {
				fmt.Fprintf(os.Stderr, "  %s\n", f)
			}
			os.Exit(1)
		}
		log.Fatalf("resolve settings: %v", err)
	}

	//
	// ── 2.  File logger (level from tier) ──────────────────────────────
	//
	rootDir, _ := os.Getwd()
	logOut, err := logger.New(rootDir, cfg.Environment, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer func() { _ = logOut.Sync() }()

	//
	// ── 3.  Build/config gauges ─────────────────────────────────────────
	//
	metrics.BuildInfo.WithLabelValues(cfg.AppVersion, cfg.Environment).Set(1)
	metrics.ConfigLoadedTimestamp.SetToCurrentTime()
	metrics.ConfigCORSOrigins.Set(float64(len(cfg.AllCORSOrigins())))

	//
	// ── 4.  Router: health, metrics, version ───────────────────────────
	//
	r := chi.NewRouter()
	r.Use(middleware.ForceHTTPS(cfg.Environment))
	r.Use(middleware.CORS(cfg.AllCORSOrigins()))
	r.Use(middleware.Security(cfg.Environment))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok\n")
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Route(cfg.APIPrefix, func(r chi.Router) {
		r.Get("/version", handleVersion(cfg))
	})

	//
	// ── 5.  Serve until signalled ───────────────────────────────────────
	//
	srv := server.New(cfg, r)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logOut.Infow("listening",
			"addr", srv.Addr,
			"prefix", cfg.APIPrefix,
			"environment", cfg.Environment,
			"version", cfg.AppVersion,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logOut.Infow("shutting down", "grace", shutdownGrace)

		shutCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})

	if err := g.Wait(); err != nil {
		logOut.Fatalw("api server", "err", err)
	}
	logOut.Infow("shutdown complete")
}

// handleVersion reports build identity from the snapshot.  The payload is
// fixed at boot; there is nothing to recompute per request.
func handleVersion(cfg *config.Settings) http.HandlerFunc {
	body := struct {
		Project     string `json:"project"`
		Version     string `json:"version"`
		Environment string `json:"environment"`
	}{cfg.ProjectName, cfg.AppVersion, cfg.Environment}

	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}
}
