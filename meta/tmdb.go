package meta

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"stremjack/logging"
	"stremjack/requester"
	"stremjack/schema"
)

const DefaultTMDBBaseURL = "https://api.themoviedb.org/3"

// tmdbTitle is the subset of a TMDB movie/show object the resolver reads.
// Movies carry "title"/"release_date", shows carry "name".
type tmdbTitle struct {
	Title       string `json:"title"`
	Name        string `json:"name"`
	ReleaseDate string `json:"release_date"`
}

func (t tmdbTitle) name() string {
	if t.Title != "" {
		return t.Title
	}
	return t.Name
}

func (t tmdbTitle) year() int {
	parts := strings.SplitN(t.ReleaseDate, "-", 2)
	if len(parts) == 0 {
		return 0
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	return year
}

type tmdbFindResponse struct {
	MovieResults []tmdbTitle `json:"movie_results"`
	TVResults    []tmdbTitle `json:"tv_results"`
}

// tmdbByID resolves a TMDB id through the "by id" lookup for one language.
// Any failure yields an empty result for this branch.
func (r *Resolver) tmdbByID(ctx context.Context, lang string, mt schema.MediaType, cid ContentID) []schema.TitleQuery {
	r.metrics.MetaRequests.WithLabelValues("tmdb").Inc()

	endpoint := fmt.Sprintf("%s/%s/%s", r.tmdbBaseURL, mt.TMDBPath(), cid.ID)
	params := url.Values{
		"api_key":  {r.tmdbAPIKey},
		"language": {lang},
	}

	resp, err := r.req.Get(ctx, endpoint, params, requester.Options{})
	if err != nil || !resp.OK() {
		r.metrics.MetaErrors.WithLabelValues("tmdb").Inc()
		logging.Error().Err(err).Str("id", cid.ID).Str("language", lang).Msg("TMDB lookup failed")
		return nil
	}

	var info tmdbTitle
	if err := json.Unmarshal(resp.Body, &info); err != nil {
		r.metrics.MetaErrors.WithLabelValues("tmdb").Inc()
		logging.Error().Err(err).Str("id", cid.ID).Msg("Could not parse TMDB response")
		return nil
	}
	if info.name() == "" {
		return nil
	}

	return r.buildQueries(schema.TitleQuery{
		ID:      cid.ID,
		Type:    mt,
		Name:    info.name(),
		Year:    info.year(),
		Season:  cid.Season,
		Episode: cid.Episode,
		DB:      DBTMDB,
	})
}

// tmdbFind cross-references an IMDb id through TMDB's "find by external id"
// lookup for one language. The media type picks the result bucket.
func (r *Resolver) tmdbFind(ctx context.Context, lang string, mt schema.MediaType, cid ContentID) []schema.TitleQuery {
	r.metrics.MetaRequests.WithLabelValues("tmdb_find").Inc()

	endpoint := fmt.Sprintf("%s/find/%s", r.tmdbBaseURL, cid.ID)
	params := url.Values{
		"api_key":         {r.tmdbAPIKey},
		"language":        {lang},
		"external_source": {"imdb_id"},
	}

	resp, err := r.req.Get(ctx, endpoint, params, requester.Options{})
	if err != nil || !resp.OK() {
		r.metrics.MetaErrors.WithLabelValues("tmdb_find").Inc()
		logging.Error().Err(err).Str("id", cid.ID).Str("language", lang).Msg("TMDB find lookup failed")
		return nil
	}

	var found tmdbFindResponse
	if err := json.Unmarshal(resp.Body, &found); err != nil {
		r.metrics.MetaErrors.WithLabelValues("tmdb_find").Inc()
		logging.Error().Err(err).Str("id", cid.ID).Msg("Could not parse TMDB find response")
		return nil
	}

	results := found.MovieResults
	if mt == schema.MediaTypeSeries {
		results = found.TVResults
	}
	if len(results) == 0 || results[0].name() == "" {
		return nil
	}

	return r.buildQueries(schema.TitleQuery{
		ID:      cid.ID,
		Type:    mt,
		Name:    results[0].name(),
		Year:    results[0].year(),
		Season:  cid.Season,
		Episode: cid.Episode,
		DB:      DBIMDB,
	})
}
