package handler

import "net/http"

const Version = "1.3.0"

type manifest struct {
	ID          string   `json:"id"`
	Version     string   `json:"version"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Resources   []string `json:"resources"`
	Types       []string `json:"types"`
	IDPrefixes  []string `json:"idPrefixes"`
	Catalogs    []any    `json:"catalogs"`
}

// HandlerManifest serves the addon manifest Stremio installs from.
func (h *Handler) HandlerManifest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, manifest{
		ID:          "community.stremjack",
		Version:     Version,
		Name:        h.cfg.Name,
		Description: "Resolves movie and series streams from your Jackett indexers",
		Resources:   []string{"stream"},
		Types:       []string{"movie", "series"},
		IDPrefixes:  []string{"tt", "tmdb:"},
		Catalogs:    []any{},
	})
}
