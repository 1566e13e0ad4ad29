package meta

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	DBTMDB = "tmdb"
	DBIMDB = "tt"
)

// ContentID is a parsed Stremio content id. Two shapes are accepted:
// "tmdb:<id>[:season:episode]" and "tt<digits>[:season:episode]".
type ContentID struct {
	DB      string
	ID      string
	Season  int
	Episode int
}

func ParseContentID(id string) (ContentID, error) {
	parts := strings.Split(id, ":")

	switch {
	case parts[0] == "tmdb" && len(parts) >= 2:
		cid := ContentID{DB: DBTMDB, ID: parts[1]}
		cid.Season, cid.Episode = parseSuffix(parts[2:])
		return cid, nil
	case strings.HasPrefix(parts[0], "tt"):
		cid := ContentID{DB: DBIMDB, ID: parts[0]}
		cid.Season, cid.Episode = parseSuffix(parts[1:])
		return cid, nil
	}

	return ContentID{}, fmt.Errorf("unrecognized content id %q", id)
}

func parseSuffix(parts []string) (season, episode int) {
	if len(parts) > 0 {
		season, _ = strconv.Atoi(parts[0])
	}
	if len(parts) > 1 {
		episode, _ = strconv.Atoi(parts[1])
	}
	return season, episode
}
