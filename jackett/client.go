package jackett

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"stremjack/config"
	"stremjack/logging"
	"stremjack/monitoring"
	"stremjack/requester"
	"stremjack/schema"
	"stremjack/utils"
)

// Client performs torznab capability discovery and searches against a
// Jackett instance.
type Client struct {
	req     *requester.Requester
	metrics *monitoring.Metrics

	baseURL string
	apiKey  string

	minimumSeeders   int
	maximumSizeBytes int64
	ignoreTitles     *regexp.Regexp
	debug            bool
}

func NewClient(req *requester.Requester, cfg *config.Config, metrics *monitoring.Metrics) *Client {
	return &Client{
		req:              req,
		metrics:          metrics,
		baseURL:          cfg.JackettURL,
		apiKey:           cfg.JackettAPIKey,
		minimumSeeders:   cfg.MinimumSeeders,
		maximumSizeBytes: cfg.MaximumSizeBytes,
		ignoreTitles:     cfg.IgnoreTitles,
		debug:            cfg.Debug,
	}
}

// Indexers discovers the configured indexers and their movie/series support.
func (c *Client) Indexers(ctx context.Context) ([]Indexer, error) {
	endpoint := fmt.Sprintf("%s/api/v2.0/indexers/all/results/torznab/api", c.baseURL)
	params := url.Values{
		"apikey":     {c.apiKey},
		"t":          {"indexers"},
		"configured": {"true"},
	}

	resp, err := c.req.Get(ctx, endpoint, params, requester.Options{})
	if err != nil {
		return nil, fmt.Errorf("indexer discovery failed: %w", err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("indexer discovery returned status %d", resp.Status)
	}

	return parseIndexers(resp.Body)
}

// Search runs one torznab query per capability-eligible indexer concurrently
// and returns the union of their filtered records. A failing indexer is
// logged and contributes nothing.
func (c *Client) Search(ctx context.Context, q schema.TitleQuery) []schema.Torrent {
	indexers, err := c.Indexers(ctx)
	if err != nil {
		logging.Error().Err(err).Msg("Could not discover indexers")
		return nil
	}

	eligible := utils.Filter(indexers, func(idx Indexer) bool {
		switch q.Type {
		case schema.MediaTypeMovie:
			return idx.Movie
		case schema.MediaTypeSeries:
			return idx.Series
		}
		return false
	})

	results := make([][]schema.Torrent, len(eligible))
	var wg sync.WaitGroup
	for i, idx := range eligible {
		wg.Add(1)
		go func(i int, idx Indexer) {
			defer wg.Done()
			results[i] = c.searchIndexer(ctx, idx, q)
		}(i, idx)
	}
	wg.Wait()

	var torrents []schema.Torrent
	for _, r := range results {
		torrents = append(torrents, r...)
	}
	return torrents
}

func (c *Client) searchIndexer(ctx context.Context, idx Indexer, q schema.TitleQuery) []schema.Torrent {
	c.metrics.IndexerRequests.WithLabelValues(idx.ID).Inc()

	endpoint := fmt.Sprintf("%s/api/v2.0/indexers/%s/results/torznab/api", c.baseURL, idx.ID)
	params := url.Values{
		"apikey": {c.apiKey},
		"q":      {utils.CleanName(q.Name)},
	}
	switch q.Type {
	case schema.MediaTypeMovie:
		params.Set("t", "search")
	case schema.MediaTypeSeries:
		params.Set("t", "tvsearch")
		if q.Season > 0 {
			params.Set("season", strconv.Itoa(q.Season))
		}
		if q.Episode > 0 {
			params.Set("ep", strconv.Itoa(q.Episode))
		}
	}

	resp, err := c.req.Get(ctx, endpoint, params, requester.Options{})
	if err != nil || !resp.OK() {
		c.metrics.IndexerErrors.WithLabelValues(idx.ID).Inc()
		logging.Error().Err(err).Str("indexer", idx.ID).Msg("Indexer search failed")
		return nil
	}

	items, err := parseRSS(resp.Body)
	if err != nil {
		c.metrics.IndexerErrors.WithLabelValues(idx.ID).Inc()
		logging.Error().Err(err).Str("indexer", idx.ID).Msg("Could not parse search response")
		return nil
	}

	torrents := make([]schema.Torrent, 0, len(items))
	for _, item := range items {
		if t, ok := c.buildTorrent(idx, item); ok {
			torrents = append(torrents, t)
		}
	}
	return torrents
}

// buildTorrent converts one RSS item into a record, applying the blacklist,
// seeder and size filters and normalizing the magnet/http link pair.
func (c *Client) buildTorrent(idx Indexer, item rssItem) (schema.Torrent, bool) {
	if item.Title == "" || item.Link == "" {
		return schema.Torrent{}, false
	}

	if c.ignoreTitles != nil && c.ignoreTitles.MatchString(item.Title) {
		logging.Debug().Str("title", item.Title).Msg("Ignoring blacklisted title")
		return schema.Torrent{}, false
	}

	t := schema.Torrent{
		Title:     item.Title,
		Link:      item.Link,
		MagnetURI: item.MagnetURI,
		Indexer:   idx.ID,
	}
	t.Seeders, _ = strconv.Atoi(item.attr("seeders"))
	t.Peers, _ = strconv.Atoi(item.attr("peers"))
	t.Size, _ = strconv.ParseInt(item.attr("size"), 10, 64)
	t.Files, _ = strconv.Atoi(item.attr("files"))
	if t.MagnetURI == "" {
		t.MagnetURI = item.attr("magneturl")
	}

	if !c.debug && t.Seeders < c.minimumSeeders {
		logging.Debug().Str("title", t.Title).Int("seeders", t.Seeders).Msg("Skipping torrent due to low seeders")
		return schema.Torrent{}, false
	}
	if !c.debug && t.Size > c.maximumSizeBytes {
		logging.Debug().Str("title", t.Title).Int64("size", t.Size).Msg("Skipping torrent due to high size")
		return schema.Torrent{}, false
	}

	// A magnet URI beats an http link; a magnet-form link doubles as the
	// magnet URI.
	if strings.HasPrefix(t.MagnetURI, "magnet:") && strings.HasPrefix(t.Link, "http") {
		t.Link = t.MagnetURI
	}
	if strings.HasPrefix(t.Link, "magnet:") && t.MagnetURI == "" {
		t.MagnetURI = t.Link
	}

	t.Published = parsePubDate(item.PubDate)
	t.ExtraTag = utils.ExtraTag(t.Title)

	return t, true
}

func parsePubDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC1123Z, time.RFC1123, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	logging.Debug().Str("pubDate", s).Msg("Unrecognized publish date format")
	return time.Time{}
}
