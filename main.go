package main

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	handler "stremjack/api"
	"stremjack/cache"
	"stremjack/config"
	"stremjack/logging"
	"stremjack/monitoring"
	"stremjack/requester"
)

func main() {
	cfg := config.Load()
	logging.InitLogger(cfg.Debug)

	metrics := monitoring.NewMetrics()
	metrics.Register()

	var store cache.Store
	if cfg.CacheEnabled {
		switch cfg.CacheBackend {
		case config.CacheBackendRedis:
			store = cache.NewRedis(cfg.RedisHost, cfg.CacheTTL)
		default:
			store = cache.NewMemory(cfg.CacheMaxEntries, cfg.CacheTTL)
		}
	}

	req := requester.New(store, cfg.CacheEnabled, cfg.RequestTimeout, cfg.HostConcurrency, metrics)
	h := handler.NewHandler(cfg, req, metrics)

	addonMux := http.NewServeMux()
	addonMux.HandleFunc("/", h.HandlerIndex)
	addonMux.HandleFunc("/manifest.json", h.HandlerManifest)
	addonMux.HandleFunc("/stream/", h.HandlerStream)
	addonMux.HandleFunc("/stats", h.HandlerStats)

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())

	go func() {
		addr := fmt.Sprintf(":%d", cfg.MetricsPort)
		if err := http.ListenAndServe(addr, metricsMux); err != nil {
			logging.Fatal().Err(err).Msg("Metrics server failed")
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.Port)
	logging.Info().Str("addr", addr).Str("name", cfg.Name).Msg("Starting addon")
	if err := http.ListenAndServe(addr, logging.HTTPLoggingMiddleware(addonMux)); err != nil {
		logging.Fatal().Err(err).Msg("Addon server failed")
	}
}
