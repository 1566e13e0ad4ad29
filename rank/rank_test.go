package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stremjack/schema"
)

func movieQuery() schema.TitleQuery {
	return schema.TitleQuery{Type: schema.MediaTypeMovie, Name: "Dune Part Two", Year: 2024}
}

func TestScoreSimilarity(t *testing.T) {
	q := movieQuery()

	exact := Score(q, schema.Stream{Title: "Dune Part Two"})
	other := Score(q, schema.Stream{Title: "Completely Unrelated Release"})
	assert.Greater(t, exact, other, "the matching title must outrank the unrelated one")
}

func TestScoreIgnoresSubtitleLines(t *testing.T) {
	q := movieQuery()

	plain := Score(q, schema.Stream{Title: "Dune Part Two"})
	decorated := Score(q, schema.Stream{Title: "Dune Part Two\r\n\r\n👤 120/30 💾 2.0 gb ⚙️ moviehd"})
	assert.InDelta(t, plain, decorated, 0.001, "subtitle lines must not affect similarity")
}

func TestScoreMovieYearBonus(t *testing.T) {
	q := movieQuery()

	withYear := Score(q, schema.Stream{Title: "Dune Part Two 2024"})
	withoutYear := Score(q, schema.Stream{Title: "Dune Part Two"})
	assert.Greater(t, withYear, withoutYear)
}

func TestHasSeasonIndicator(t *testing.T) {
	tests := []struct {
		name   string
		title  string
		season int
		want   bool
	}{
		{name: "Short form", title: "Severance S2", season: 2, want: true},
		{name: "Long form", title: "Severance Season 2", season: 2, want: true},
		{name: "Localized form", title: "Severance Сезон 2", season: 2, want: true},
		{name: "Localized lowercase", title: "severance сезон 2", season: 2, want: true},
		{name: "Localized at start", title: "сезон 2", season: 2, want: true},
		{name: "Wrong season", title: "Severance Season 3", season: 2, want: false},
		{name: "Season digit as prefix", title: "Severance Season 21", season: 2, want: false},
		{name: "No indicator", title: "Severance Complete", season: 2, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hasSeasonIndicator(tt.title, tt.season))
		})
	}
}

func TestScoreSeriesSeasonBonus(t *testing.T) {
	q := schema.TitleQuery{Type: schema.MediaTypeSeries, Name: "Severance", Season: 2, Episode: 1}

	// Titles in each pair differ only in the season number, so the bonus is
	// what separates the scores, not string similarity.
	tests := []struct {
		name    string
		match   string
		noMatch string
	}{
		{name: "Short form", match: "Severance S2", noMatch: "Severance S9"},
		{name: "Long form", match: "Severance Season 2", noMatch: "Severance Season 9"},
		{name: "Localized form", match: "Severance Сезон 2", noMatch: "Severance Сезон 9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(q, schema.Stream{Title: tt.match})
			other := Score(q, schema.Stream{Title: tt.noMatch})
			assert.Greater(t, got, other)
		})
	}
}

func TestScoreSeederWeight(t *testing.T) {
	q := movieQuery()

	low := Score(q, schema.Stream{Title: "Dune Part Two", Seeders: 10})
	high := Score(q, schema.Stream{Title: "Dune Part Two", Seeders: 50})
	assert.InDelta(t, 80, high-low, 0.001, "two points per seeder")
}

func TestScoreQualityBonusHighestOnly(t *testing.T) {
	q := movieQuery()

	base := Score(q, schema.Stream{Title: "Dune Part Two"})
	bd := Score(q, schema.Stream{Title: "Dune Part Two BDRip"})
	both := Score(q, schema.Stream{Title: "Dune Part Two 1080p BDRip"})

	assert.InDelta(t, 10, bd-base, 0.5, "BDRip bonus")
	assert.InDelta(t, 15, both-base, 0.5, "only the highest bonus applies")
}

func scored(hash string, score float64) Scored {
	return Scored{Stream: schema.Stream{InfoHash: hash, Title: hash}, Score: score}
}

func TestRankSortsDescending(t *testing.T) {
	streams := Rank([]Scored{scored("a", 10), scored("b", 30), scored("c", 20)}, 0)
	hashes := make([]string, 0, len(streams))
	for _, s := range streams {
		hashes = append(hashes, s.InfoHash)
	}
	assert.Equal(t, []string{"b", "c", "a"}, hashes)
}

func TestRankTruncates(t *testing.T) {
	streams := Rank([]Scored{scored("a", 10), scored("b", 30), scored("c", 20)}, 2)
	assert.Len(t, streams, 2)
	assert.Equal(t, "b", streams[0].InfoHash)
	assert.Equal(t, "c", streams[1].InfoHash)
}

func TestRankNoLimit(t *testing.T) {
	streams := Rank([]Scored{scored("a", 10), scored("b", 30)}, 0)
	assert.Len(t, streams, 2)
	assert.Equal(t, "b", streams[0].InfoHash)
}

func TestRankDeduplicatesByInfoHash(t *testing.T) {
	first := Scored{Stream: schema.Stream{InfoHash: "a", Title: "first"}, Score: 40}
	second := Scored{Stream: schema.Stream{InfoHash: "a", Title: "second"}, Score: 10}

	streams := Rank([]Scored{first, scored("b", 20), second}, 0)
	assert.Len(t, streams, 2)
	// The later duplicate replaces the earlier one, score included.
	assert.Equal(t, "b", streams[0].InfoHash)
	assert.Equal(t, "second", streams[1].Title)
}

func TestRankStableOnTies(t *testing.T) {
	streams := Rank([]Scored{scored("a", 10), scored("b", 10), scored("c", 10)}, 0)
	hashes := make([]string, 0, len(streams))
	for _, s := range streams {
		hashes = append(hashes, s.InfoHash)
	}
	assert.Equal(t, []string{"a", "b", "c"}, hashes)
}
