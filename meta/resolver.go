package meta

import (
	"context"
	"fmt"
	"sync"

	"stremjack/config"
	"stremjack/monitoring"
	"stremjack/requester"
	"stremjack/schema"
)

// Resolver turns a content id into the set of canonical title queries the
// indexer search runs against. It never returns an error: every failing
// language or provider branch resolves to an empty slice and the result is
// the union of whatever succeeded. An empty union means "no streams", not a
// failure.
type Resolver struct {
	req     *requester.Requester
	metrics *monitoring.Metrics

	tmdbAPIKey      string
	tmdbBaseURL     string
	cinemetaBaseURL string

	languages              []string
	additionalYearSearch   bool
	additionalSeasonSearch bool
}

func NewResolver(req *requester.Requester, cfg *config.Config, metrics *monitoring.Metrics) *Resolver {
	return &Resolver{
		req:                    req,
		metrics:                metrics,
		tmdbAPIKey:             cfg.TMDBAPIKey,
		tmdbBaseURL:            DefaultTMDBBaseURL,
		cinemetaBaseURL:        DefaultCinemetaBaseURL,
		languages:              cfg.Languages,
		additionalYearSearch:   cfg.AdditionalYearSearch,
		additionalSeasonSearch: cfg.AdditionalSeasonSearch,
	}
}

// Queries resolves id into title queries. TMDB ids require a TMDB API key;
// IMDb ids prefer localized titles via TMDB's find lookup when a key is
// configured, and fall back to a single Cinemeta call otherwise (or when the
// find lookups come back empty).
func (r *Resolver) Queries(ctx context.Context, mt schema.MediaType, id string) []schema.TitleQuery {
	cid, err := ParseContentID(id)
	if err != nil {
		return nil
	}

	switch cid.DB {
	case DBTMDB:
		if r.tmdbAPIKey == "" {
			return nil
		}
		return r.perLanguage(ctx, func(ctx context.Context, lang string) []schema.TitleQuery {
			return r.tmdbByID(ctx, lang, mt, cid)
		})
	case DBIMDB:
		if r.tmdbAPIKey != "" {
			queries := r.perLanguage(ctx, func(ctx context.Context, lang string) []schema.TitleQuery {
				return r.tmdbFind(ctx, lang, mt, cid)
			})
			if len(queries) > 0 {
				return queries
			}
		}
		return r.cinemeta(ctx, mt, cid)
	}

	return nil
}

// perLanguage runs one lookup per configured language concurrently and
// returns the flattened union, languages in configured order.
func (r *Resolver) perLanguage(ctx context.Context, lookup func(context.Context, string) []schema.TitleQuery) []schema.TitleQuery {
	results := make([][]schema.TitleQuery, len(r.languages))

	var wg sync.WaitGroup
	for i, lang := range r.languages {
		wg.Add(1)
		go func(i int, lang string) {
			defer wg.Done()
			results[i] = lookup(ctx, lang)
		}(i, lang)
	}
	wg.Wait()

	var union []schema.TitleQuery
	for _, qs := range results {
		union = append(union, qs...)
	}
	return union
}

// buildQueries emits the base query plus the optional year and season
// variants, each gated by its own configuration flag.
func (r *Resolver) buildQueries(base schema.TitleQuery) []schema.TitleQuery {
	queries := []schema.TitleQuery{base}

	if r.additionalYearSearch && base.Year > 0 {
		variant := base
		variant.Name = fmt.Sprintf("%s %d", base.Name, base.Year)
		queries = append(queries, variant)
	}
	if r.additionalSeasonSearch && base.Season > 0 {
		variant := base
		variant.Name = fmt.Sprintf("%s S%d", base.Name, base.Season)
		queries = append(queries, variant)
	}

	return queries
}
