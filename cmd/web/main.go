// cmd/web/main.go
//
// Surge backend – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Start daily rotating logger (tees to console when running in a TTY).
//
//  2. Load configuration (.env → conf/global.yaml → SURGE_ env overlay).
//
//  3. Open the MySQL pool and fail fast when the store is unreachable;
//     the process must not come up without a database.
//
//  4. Open the GeoLite2 database when configured; sessions degrade to
//     "unknown" locations without it.
//
//  5. Mount the API router, the Prometheus /metrics endpoint, and the
//     security-header / ForceHTTPS middleware.
//
//  6. Serve with hardened timeouts.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/surgemusic/surge/internal/api"
	"github.com/surgemusic/surge/internal/auth"
	"github.com/surgemusic/surge/internal/clientinfo"
	"github.com/surgemusic/surge/internal/config"
	"github.com/surgemusic/surge/internal/database"
	"github.com/surgemusic/surge/internal/logger"
	"github.com/surgemusic/surge/internal/middleware"
	"github.com/surgemusic/surge/internal/server"
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	rootDir, _ := os.Getwd()
	logOut, err := logger.New(rootDir, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}

	//
	// ── 1.  Configuration ───────────────────────────────────────────────
	//
	cfg, err := config.Load()
	if err != nil {
		logOut.Fatalf("load config: %v", err)
	}

	//
	// ── 2.  Database connect (fail fast) ────────────────────────────────
	//
	logOut.Infow("connecting to database")
	db, err := database.OpenWithOptions(cfg.Database.DSN, cfg.Database.MaxOpen, cfg.Database.MaxIdle)
	if err != nil {
		logOut.Fatalf("connect database: %v", err)
	}
	defer db.Close()
	logOut.Infow("database online")

	//
	// ── 3.  GeoIP (optional) ────────────────────────────────────────────
	//
	if cfg.Geo.DBPath != "" {
		if err := clientinfo.InitGeo(cfg.Geo.DBPath); err != nil {
			logOut.Warnw("geoip unavailable, sessions will carry unknown locations",
				"path", cfg.Geo.DBPath, "err", err)
		}
	}

	//
	// ── 4.  Router: API + metrics, wrapped in security middleware ──────
	//
	authSvc := auth.NewService(db, logOut)
	handler := api.New(db, authSvc, logOut)

	root := chi.NewRouter()
	root.Handle("/metrics", promhttp.Handler())
	root.Mount("/", handler.Routes())

	chain := middleware.ForceHTTPS(cfg.HTTP.ForceHTTPS, middleware.Security(root))

	//
	// ── 5.  Serve ───────────────────────────────────────────────────────
	//
	srv := server.New(cfg.HTTP.ListenAddr, chain)
	logOut.Infow("listening", "addr", cfg.HTTP.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logOut.Fatalf("http server: %v", err)
	}
}
