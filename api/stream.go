package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"stremjack/logging"
	"stremjack/rank"
	"stremjack/schema"
	"stremjack/torrent"
	"stremjack/utils"
)

// HandlerStream is the outward entry point of the discovery pipeline:
// GET /stream/{type}/{id}.json. It always answers 200 with a stream list;
// any unexpected failure degrades to an empty list.
func (h *Handler) HandlerStream(w http.ResponseWriter, r *http.Request) {
	mediaType, id, ok := parseStreamPath(r.URL.Path)

	start := time.Now()
	defer func() {
		h.metrics.StreamDuration.WithLabelValues(string(mediaType)).Observe(time.Since(start).Seconds())
		h.metrics.StreamRequests.WithLabelValues(string(mediaType)).Inc()
	}()

	if !ok || !mediaType.Valid() || id == "" {
		writeJSON(w, schema.StreamResponse{Streams: []schema.Stream{}})
		return
	}
	if h.cfg.JackettAPIKey == "" {
		logging.Error().Msg("JACKETT_API_KEY is not configured")
		writeJSON(w, schema.StreamResponse{Streams: []schema.Stream{}})
		return
	}

	streams := h.discover(r.Context(), mediaType, id)
	if streams == nil {
		streams = []schema.Stream{}
	}
	writeJSON(w, schema.StreamResponse{Streams: streams})
}

func parseStreamPath(path string) (schema.MediaType, string, bool) {
	path = strings.TrimPrefix(path, "/stream/")
	path = strings.TrimSuffix(path, ".json")
	parts := strings.SplitN(path, "/", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return schema.MediaType(parts[0]), parts[1], true
}

// discover runs the full pipeline: resolve title queries, search every
// eligible indexer per query, fetch metainfo per record, assemble and score
// candidate streams, then dedup/rank/truncate. Each failing branch
// contributes nothing; a panic anywhere degrades to an empty result.
func (h *Handler) discover(ctx context.Context, mediaType schema.MediaType, id string) (streams []schema.Stream) {
	defer func() {
		if rec := recover(); rec != nil {
			logging.Error().Interface("panic", rec).Str("id", id).Msg("Stream discovery panicked")
			streams = nil
		}
	}()

	queries := h.resolver.Queries(ctx, mediaType, id)
	logging.Debug().Int("queries", len(queries)).Str("id", id).Msg("Resolved title queries")
	if len(queries) == 0 {
		return nil
	}

	results := make([][]rank.Scored, len(queries))
	var wg sync.WaitGroup
	for i, q := range queries {
		wg.Add(1)
		go func(i int, q schema.TitleQuery) {
			defer wg.Done()
			results[i] = h.searchQuery(ctx, q)
		}(i, q)
	}
	wg.Wait()

	var candidates []rank.Scored
	for _, r := range results {
		candidates = append(candidates, r...)
	}

	return rank.Rank(candidates, h.cfg.MaximumCount)
}

// searchQuery handles one title query: torznab search fan-out, then a
// metainfo fetch per record, concurrently.
func (h *Handler) searchQuery(ctx context.Context, q schema.TitleQuery) []rank.Scored {
	torrents := h.jackett.Search(ctx, q)
	if len(torrents) == 0 {
		return nil
	}

	scored := make([]*rank.Scored, len(torrents))
	var wg sync.WaitGroup
	for i, t := range torrents {
		wg.Add(1)
		go func(i int, t schema.Torrent) {
			defer wg.Done()

			mi := h.fetcher.Fetch(ctx, t)
			if mi == nil {
				return
			}
			// A fetched file list without a single video file is not
			// playable; magnet-derived metainfo has no file list and
			// passes through.
			if len(mi.Files) > 0 && !torrent.ContainsVideo(mi.Files) {
				return
			}

			s := h.buildStream(q, t, mi)
			scored[i] = &rank.Scored{Stream: s, Score: rank.Score(q, s)}
		}(i, t)
	}
	wg.Wait()

	out := make([]rank.Scored, 0, len(scored))
	for _, s := range scored {
		if s != nil {
			out = append(out, *s)
		}
	}
	return out
}

// buildStream assembles the output stream for one candidate: display title
// with the seeder/size/indexer and date subtitle lines, quality tag, tracker
// sources and the binge group key.
func (h *Handler) buildStream(q schema.TitleQuery, t schema.Torrent, mi *schema.Metainfo) schema.Stream {
	s := schema.Stream{
		InfoHash:  mi.InfoHash,
		Seeders:   t.Seeders,
		Published: t.Published,
	}

	if len(mi.Files) > 0 {
		if idx, ok := torrent.SelectFileIndex(q, mi.Files); ok {
			s.FileIdx = &idx
		}
	}

	s.Name = utils.FindQuality(t.ExtraTag)

	title := strings.ReplaceAll(t.Title, "\n", "")
	title += "\r\n\r\n" + fmt.Sprintf("👤 %d/%d 💾 %s ⚙️ %s", t.Seeders, t.Peers, utils.FormatSize(t.Size), t.Indexer)
	if !t.Published.IsZero() {
		title += "\r\n" + "📅 " + t.Published.Format("2 January 2006")
	}
	s.Title = title

	s.Sources = make([]string, 0, len(mi.Trackers)+1)
	for _, tracker := range mi.Trackers {
		s.Sources = append(s.Sources, "tracker:"+tracker)
	}
	s.Sources = append(s.Sources, "dht:"+mi.InfoHash)

	binge := q.ID
	if q.Type == schema.MediaTypeSeries && q.Season > 0 {
		binge += fmt.Sprintf("-s%d", q.Season)
	}
	s.BehaviorHints.BingeGroup = binge

	return s
}
