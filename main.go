package main

import (
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"pixeldown_server/logger"
	"pixeldown_server/logic"
	"pixeldown_server/network"
	"pixeldown_server/storage"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	// .env is optional; flags and process env win over defaults.
	_ = godotenv.Load()

	var addr, cfgPath, dbPath, logPath string
	flag.StringVar(&addr, "addr", envOr("PIXELDOWN_ADDR", ":3001"), "server listen address")
	flag.StringVar(&cfgPath, "config", envOr("PIXELDOWN_CONFIG", "game_config.json"), "game config path")
	flag.StringVar(&dbPath, "db", envOr("PIXELDOWN_DB", "pixeldown.db"), "sqlite profile store path")
	flag.StringVar(&logPath, "log", envOr("PIXELDOWN_LOG", "app.log"), "log file path")
	flag.Parse()

	if err := logger.Init(logPath); err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := logic.LoadConfig(cfgPath)
	if err != nil {
		logger.Log.Warnw("config load failed, using defaults", "path", cfgPath, "err", err)
		cfg = logic.DefaultConfig()
	}

	// The profile store is a best-effort collaborator: without it every
	// player simply starts at the default balance.
	var profiles network.ProfileStore
	store, err := storage.Open(dbPath, logger.Log)
	if err != nil {
		logger.Log.Warnw("profile store unavailable", "path", dbPath, "err", err)
	} else {
		profiles = store
		defer store.Close()
	}

	registry := network.NewRegistry(cfg, profiles, logger.Log)
	defer registry.Close()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		network.ServeWS(registry, w, r)
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(registry.MetricsSnapshot())
	})

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Log.Infof("Pixel Down server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("shutting down")
	_ = srv.Close()
}
