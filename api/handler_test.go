package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stremjack/config"
	"stremjack/monitoring"
	"stremjack/requester"
	"stremjack/schema"
)

func newTestHandler(cfg *config.Config) *Handler {
	metrics := monitoring.NewMetrics()
	req := requester.New(nil, false, 5*time.Second, 4, metrics)
	return NewHandler(cfg, req, metrics)
}

func TestParseStreamPath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		wantType schema.MediaType
		wantID   string
		wantOK   bool
	}{
		{
			name:     "Movie",
			path:     "/stream/movie/tt1160419.json",
			wantType: schema.MediaTypeMovie,
			wantID:   "tt1160419",
			wantOK:   true,
		},
		{
			name:     "Series episode",
			path:     "/stream/series/tt1839578:2:3.json",
			wantType: schema.MediaTypeSeries,
			wantID:   "tt1839578:2:3",
			wantOK:   true,
		},
		{
			name:     "TMDB id",
			path:     "/stream/movie/tmdb:693134.json",
			wantType: schema.MediaTypeMovie,
			wantID:   "tmdb:693134",
			wantOK:   true,
		},
		{
			name:   "Missing id",
			path:   "/stream/movie.json",
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mt, id, ok := parseStreamPath(tt.path)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantType, mt)
				assert.Equal(t, tt.wantID, id)
			}
		})
	}
}

func decodeStreams(t *testing.T, rec *httptest.ResponseRecorder) schema.StreamResponse {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, "stream endpoint always answers 200")
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var resp schema.StreamResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandlerStreamInvalidType(t *testing.T) {
	h := newTestHandler(&config.Config{JackettAPIKey: "key"})

	rec := httptest.NewRecorder()
	h.HandlerStream(rec, httptest.NewRequest(http.MethodGet, "/stream/music/tt1.json", nil))

	resp := decodeStreams(t, rec)
	assert.NotNil(t, resp.Streams)
	assert.Empty(t, resp.Streams)
}

func TestHandlerStreamMissingAPIKey(t *testing.T) {
	h := newTestHandler(&config.Config{})

	rec := httptest.NewRecorder()
	h.HandlerStream(rec, httptest.NewRequest(http.MethodGet, "/stream/movie/tt1160419.json", nil))

	resp := decodeStreams(t, rec)
	assert.Empty(t, resp.Streams)
}

func TestHandlerStreamUnparseableID(t *testing.T) {
	h := newTestHandler(&config.Config{JackettAPIKey: "key"})

	rec := httptest.NewRecorder()
	h.HandlerStream(rec, httptest.NewRequest(http.MethodGet, "/stream/movie/garbage.json", nil))

	resp := decodeStreams(t, rec)
	assert.Empty(t, resp.Streams)
}

func TestHandlerManifest(t *testing.T) {
	h := newTestHandler(&config.Config{Name: "Jackett (S/H)"})

	rec := httptest.NewRecorder()
	h.HandlerManifest(rec, httptest.NewRequest(http.MethodGet, "/manifest.json", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))

	assert.Equal(t, "community.stremjack", m["id"])
	assert.Equal(t, Version, m["version"])
	assert.Equal(t, "Jackett (S/H)", m["name"])
	assert.Equal(t, []any{"stream"}, m["resources"])
	assert.Equal(t, []any{"movie", "series"}, m["types"])
	assert.Equal(t, []any{"tt", "tmdb:"}, m["idPrefixes"])
}

func TestHandlerStats(t *testing.T) {
	h := newTestHandler(&config.Config{})

	rec := httptest.NewRecorder()
	h.HandlerStats(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

	var stats schema.CacheStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.False(t, stats.Enabled)
}

func TestBuildStreamMovie(t *testing.T) {
	h := newTestHandler(&config.Config{})

	q := schema.TitleQuery{ID: "tt1160419", Type: schema.MediaTypeMovie, Name: "Dune Part Two", Year: 2024}
	tor := schema.Torrent{
		Title:     "Dune.Part.Two.2024.1080p.WEB-DL",
		Seeders:   120,
		Peers:     30,
		Size:      2000000000,
		Indexer:   "moviehd",
		Published: time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC),
		ExtraTag:  "1080p WEB-DL",
	}
	mi := &schema.Metainfo{
		InfoHash: "c12fe1c06bba254a9dc9f519b335aa7c1367a88a",
		Trackers: []string{"udp://tracker.one:1337/announce"},
		Files: []schema.FileEntry{
			{Name: "Dune.Part.Two.2024.mkv", Length: 1},
			{Name: "info.nfo", Length: 1},
		},
	}

	s := h.buildStream(q, tor, mi)

	assert.Equal(t, "1080p", s.Name)
	assert.Equal(t, mi.InfoHash, s.InfoHash)
	require.NotNil(t, s.FileIdx)
	assert.Equal(t, 0, *s.FileIdx)
	assert.Equal(t, 120, s.Seeders)
	assert.Equal(t, []string{
		"tracker:udp://tracker.one:1337/announce",
		"dht:c12fe1c06bba254a9dc9f519b335aa7c1367a88a",
	}, s.Sources)
	assert.Equal(t, "tt1160419", s.BehaviorHints.BingeGroup)

	lines := strings.Split(s.Title, "\r\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Dune.Part.Two.2024.1080p.WEB-DL", lines[0])
	assert.Equal(t, "", lines[1])
	assert.Equal(t, "👤 120/30 💾 1.9 gb ⚙️ moviehd", lines[2])
	assert.Equal(t, "📅 15 April 2024", lines[3])
}

func TestBuildStreamSeries(t *testing.T) {
	h := newTestHandler(&config.Config{})

	q := schema.TitleQuery{ID: "tt1839578", Type: schema.MediaTypeSeries, Name: "Severance", Season: 2, Episode: 3}
	tor := schema.Torrent{Title: "Severance.S02.1080p", Seeders: 50, Peers: 10, Size: 1 << 30, Indexer: "tvland"}
	mi := &schema.Metainfo{
		InfoHash: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		Files: []schema.FileEntry{
			{Name: "Severance.S02E01.mkv", Length: 1},
			{Name: "Severance.S02E03.mkv", Length: 1},
		},
	}

	s := h.buildStream(q, tor, mi)

	require.NotNil(t, s.FileIdx)
	assert.Equal(t, 1, *s.FileIdx)
	assert.Equal(t, "tt1839578-s2", s.BehaviorHints.BingeGroup)
	assert.Equal(t, []string{"dht:aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}, s.Sources)
	assert.NotContains(t, s.Title, "📅", "no publish date line without a date")
}

func TestBuildStreamMagnetOnly(t *testing.T) {
	h := newTestHandler(&config.Config{})

	q := schema.TitleQuery{ID: "tt1160419", Type: schema.MediaTypeMovie, Name: "Dune Part Two"}
	mi := &schema.Metainfo{InfoHash: "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"}

	s := h.buildStream(q, schema.Torrent{Title: "Dune Part Two"}, mi)
	assert.Nil(t, s.FileIdx, "no file list, no file index")
}
