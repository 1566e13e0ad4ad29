package schema

import "time"

type MediaType string

const (
	MediaTypeMovie  MediaType = "movie"
	MediaTypeSeries MediaType = "series"
)

// Valid reports whether the media type is one the addon can resolve.
func (m MediaType) Valid() bool {
	return m == MediaTypeMovie || m == MediaTypeSeries
}

// TMDBPath maps the addon media type to the TMDB API path segment.
func (m MediaType) TMDBPath() string {
	switch m {
	case MediaTypeMovie:
		return "movie"
	case MediaTypeSeries:
		return "tv"
	}
	return ""
}

// TitleQuery is a single canonical search query derived from a content id.
// One id typically produces several of these (per language, plus year/season
// variants); each is consumed once by the indexer search and discarded.
type TitleQuery struct {
	ID      string    `json:"id"`
	Type    MediaType `json:"type"`
	Name    string    `json:"name"`
	Year    int       `json:"year,omitempty"`
	Season  int       `json:"season,omitempty"`
	Episode int       `json:"episode,omitempty"`
	DB      string    `json:"db"`
}

// Torrent is a raw record parsed from a torznab search response. It has
// already passed the blacklist/seeder/size filters when it leaves the
// jackett package.
type Torrent struct {
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	MagnetURI string    `json:"magnet_uri,omitempty"`
	Seeders   int       `json:"seeders"`
	Peers     int       `json:"peers"`
	Size      int64     `json:"size"`
	Files     int       `json:"files,omitempty"`
	Published time.Time `json:"published"`
	Indexer   string    `json:"indexer"`
	ExtraTag  string    `json:"extra_tag,omitempty"`
}

// FileEntry is one file inside a torrent, in metainfo order.
type FileEntry struct {
	Name   string `json:"name"`
	Length int64  `json:"length"`
}

// Metainfo is the decoded torrent metainfo. InfoHash is the stable identity
// used for dedup. Files is empty when the metainfo came from a magnet URI.
type Metainfo struct {
	InfoHash string      `json:"info_hash"`
	Trackers []string    `json:"trackers"`
	Files    []FileEntry `json:"files,omitempty"`
}

type BehaviorHints struct {
	BingeGroup string `json:"bingeGroup,omitempty"`
}

// Stream is one playable result in the addon's output contract.
type Stream struct {
	Name          string        `json:"name,omitempty"`
	Title         string        `json:"title,omitempty"`
	InfoHash      string        `json:"infoHash"`
	FileIdx       *int          `json:"fileIdx,omitempty"`
	Seeders       int           `json:"seeders,omitempty"`
	Published     time.Time     `json:"published,omitempty"`
	Sources       []string      `json:"sources,omitempty"`
	BehaviorHints BehaviorHints `json:"behaviorHints"`
}

type StreamResponse struct {
	Streams []Stream `json:"streams"`
}

// CacheStats is the shape served by the stats endpoint. Only Enabled is
// populated when caching is off.
type CacheStats struct {
	Enabled bool  `json:"enabled"`
	Hits    int64 `json:"hits,omitempty"`
	Misses  int64 `json:"misses,omitempty"`
	Keys    int   `json:"keys,omitempty"`
	Max     int   `json:"max,omitempty"`
}
