package meta

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"stremjack/logging"
	"stremjack/requester"
	"stremjack/schema"
)

const DefaultCinemetaBaseURL = "https://v3-cinemeta.strem.io"

type cinemetaResponse struct {
	Meta struct {
		Name string `json:"name"`
		Year string `json:"year"`
	} `json:"meta"`
}

// cinemeta is the keyless fallback metadata lookup for IMDb ids. It returns a
// single (non-localized) title.
func (r *Resolver) cinemeta(ctx context.Context, mt schema.MediaType, cid ContentID) []schema.TitleQuery {
	r.metrics.MetaRequests.WithLabelValues("cinemeta").Inc()

	endpoint := fmt.Sprintf("%s/meta/%s/%s.json", r.cinemetaBaseURL, mt, cid.ID)
	resp, err := r.req.Get(ctx, endpoint, nil, requester.Options{})
	if err != nil || !resp.OK() {
		r.metrics.MetaErrors.WithLabelValues("cinemeta").Inc()
		logging.Error().Err(err).Str("id", cid.ID).Msg("Cinemeta lookup failed")
		return nil
	}

	var meta cinemetaResponse
	if err := json.Unmarshal(resp.Body, &meta); err != nil {
		r.metrics.MetaErrors.WithLabelValues("cinemeta").Inc()
		logging.Error().Err(err).Str("id", cid.ID).Msg("Could not parse Cinemeta response")
		return nil
	}
	if meta.Meta.Name == "" {
		return nil
	}

	return r.buildQueries(schema.TitleQuery{
		ID:      cid.ID,
		Type:    mt,
		Name:    meta.Meta.Name,
		Year:    leadingYear(meta.Meta.Year),
		Season:  cid.Season,
		Episode: cid.Episode,
		DB:      DBIMDB,
	})
}

// leadingYear extracts the first year out of Cinemeta's year field, which is
// a range like "2011-2019" for series.
func leadingYear(s string) int {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	year, _ := strconv.Atoi(s[:i])
	return year
}
