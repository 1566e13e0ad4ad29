package requester

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"stremjack/cache"
	"stremjack/logging"
	"stremjack/monitoring"
	"stremjack/schema"
)

// Options tweaks a single Get call.
type Options struct {
	// Accept overrides the Accept header (torrent downloads ask for
	// application/x-bittorrent).
	Accept string
}

// Response carries the status and body back to the caller. Non-2xx responses
// are returned, never cached.
type Response struct {
	Status int
	Body   []byte
}

func (r *Response) OK() bool {
	return r != nil && r.Status >= http.StatusOK && r.Status < http.StatusMultipleChoices
}

// Requester performs cache-fronted GET requests. Every outbound HTTP call in
// the addon goes through here, so the cache key canonicalization and the
// per-host concurrency cap apply uniformly. Concurrent identical lookups are
// not coalesced; both perform their own network call.
type Requester struct {
	store   cache.Store
	enabled bool
	client  *http.Client
	timeout time.Duration
	limiter *hostLimiter
	metrics *monitoring.Metrics

	hits   atomic.Int64
	misses atomic.Int64
}

func New(store cache.Store, enabled bool, timeout time.Duration, perHost int64, metrics *monitoring.Metrics) *Requester {
	return &Requester{
		store:   store,
		enabled: enabled && store != nil,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				ForceAttemptHTTP2:   true,
			},
		},
		timeout: timeout,
		limiter: newHostLimiter(perHost),
		metrics: metrics,
	}
}

// Get fetches rawURL with params merged into its query string. On a cache hit
// the stored body is returned with no network call. On a miss the response is
// stored only when the status is 2xx and the body is non-empty.
func (r *Requester) Get(ctx context.Context, rawURL string, params url.Values, opts Options) (*Response, error) {
	key := cache.Key(rawURL, params)

	if r.enabled {
		if body, ok := r.store.Get(ctx, key); ok {
			r.hits.Add(1)
			r.metrics.CacheHits.WithLabelValues("http_body").Inc()
			logging.Debug().Str("url", rawURL).Msg("Cache hit")
			return &Response{Status: http.StatusOK, Body: body}, nil
		}
		r.misses.Add(1)
		r.metrics.CacheMisses.WithLabelValues("http_body").Inc()
	}

	target, err := mergeParams(rawURL, params)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}
	if opts.Accept != "" {
		req.Header.Set("Accept", opts.Accept)
	}

	release, err := r.limiter.acquire(ctx, target.Host)
	if err != nil {
		return nil, err
	}
	defer release()

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if r.enabled && resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices && len(body) > 0 {
		r.store.Set(ctx, key, body)
	}

	return &Response{Status: resp.StatusCode, Body: body}, nil
}

// Stats reports the cumulative cache counters for the process lifetime.
func (r *Requester) Stats() schema.CacheStats {
	if !r.enabled {
		return schema.CacheStats{Enabled: false}
	}
	return schema.CacheStats{
		Enabled: true,
		Hits:    r.hits.Load(),
		Misses:  r.misses.Load(),
		Keys:    r.store.Len(),
		Max:     r.store.Max(),
	}
}

func mergeParams(rawURL string, params url.Values) (*url.URL, error) {
	target, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if len(params) > 0 {
		q := target.Query()
		for k, vs := range params {
			for _, v := range vs {
				q.Set(k, v)
			}
		}
		target.RawQuery = q.Encode()
	}
	return target, nil
}
