package rank

import (
	"sort"

	"stremjack/schema"
)

// Scored pairs a stream with its transient relevance score. The score never
// leaves this package; Rank strips it before returning.
type Scored struct {
	Stream schema.Stream
	Score  float64
}

// Rank deduplicates candidates by infohash, sorts descending by score and
// truncates to max. When two candidates share an infohash the later-processed
// one replaces the earlier (last-write-wins) while the group keeps its first
// position; ties in score keep their relative order (stable sort).
func Rank(candidates []Scored, max int) []schema.Stream {
	byHash := make(map[string]Scored, len(candidates))
	var order []string
	for _, c := range candidates {
		if _, seen := byHash[c.Stream.InfoHash]; !seen {
			order = append(order, c.Stream.InfoHash)
		}
		byHash[c.Stream.InfoHash] = c
	}

	unique := make([]Scored, 0, len(order))
	for _, hash := range order {
		unique = append(unique, byHash[hash])
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].Score > unique[j].Score
	})

	if max > 0 && len(unique) > max {
		unique = unique[:max]
	}

	streams := make([]schema.Stream, 0, len(unique))
	for _, c := range unique {
		streams = append(streams, c.Stream)
	}
	return streams
}
