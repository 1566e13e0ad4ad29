package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// Parameters that must never leak into cache keys. Stripping them also makes
// requests that differ only in credentials collide on one entry.
var ignoredParams = map[string]struct{}{
	"path":           {},
	"jackett_apikey": {},
	"api_key":        {},
	"apikey":         {},
}

// Key canonicalizes a request into a content-addressed cache key: the URL's
// own query parameters are merged with params (params win), percent-decoded,
// stripped of authentication parameters and re-serialized with keys sorted,
// so equivalent requests produce the same SHA-256 digest regardless of
// parameter ordering or encoding.
func Key(rawURL string, params url.Values) string {
	base := rawURL
	rawQuery := ""
	if idx := strings.Index(rawURL, "?"); idx >= 0 {
		base = rawURL[:idx]
		rawQuery = rawURL[idx+1:]
	}

	merged := map[string]string{}
	if parsed, err := url.ParseQuery(rawQuery); err == nil {
		for k, vs := range parsed {
			if len(vs) > 0 {
				merged[decode(k)] = decode(vs[0])
			}
		}
	}
	for k, vs := range params {
		if len(vs) > 0 {
			merged[decode(k)] = decode(vs[0])
		}
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		if _, ignored := ignoredParams[k]; ignored {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(base)
	for i, k := range keys {
		if i == 0 {
			sb.WriteByte('?')
		} else {
			sb.WriteByte('&')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(merged[k])
	}

	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

// decode undoes a stray extra level of percent-encoding. url.ParseQuery has
// already decoded once; values that were double-encoded upstream still
// normalize to the same key.
func decode(s string) string {
	if d, err := url.QueryUnescape(s); err == nil {
		return d
	}
	return s
}
