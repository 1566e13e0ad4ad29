package handler

import (
	"encoding/json"
	"net/http"

	"stremjack/config"
	"stremjack/jackett"
	"stremjack/logging"
	"stremjack/meta"
	"stremjack/monitoring"
	"stremjack/requester"
	"stremjack/torrent"
)

// Handler owns the discovery pipeline collaborators and serves the addon
// endpoints.
type Handler struct {
	cfg      *config.Config
	metrics  *monitoring.Metrics
	req      *requester.Requester
	resolver *meta.Resolver
	jackett  *jackett.Client
	fetcher  *torrent.Fetcher
}

func NewHandler(cfg *config.Config, req *requester.Requester, metrics *monitoring.Metrics) *Handler {
	return &Handler{
		cfg:      cfg,
		metrics:  metrics,
		req:      req,
		resolver: meta.NewResolver(req, cfg, metrics),
		jackett:  jackett.NewClient(req, cfg, metrics),
		fetcher:  torrent.NewFetcher(req),
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error().Err(err).Msg("Could not encode response")
	}
}

// HandlerStats serves the cumulative cache counters.
func (h *Handler) HandlerStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.req.Stats())
}

// HandlerIndex serves a minimal landing page pointing at the manifest.
func (h *Handler) HandlerIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	_, _ = w.Write([]byte(`<html><body>` + h.cfg.Name +
		` — Stremio addon. Install via <a href="/manifest.json">/manifest.json</a></body></html>`))
}
