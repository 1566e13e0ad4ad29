package rank

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hbollon/go-edlib"

	"stremjack/schema"
	"stremjack/utils"
)

// technicalTags are stripped from a candidate title before the similarity
// term is computed, so release tagging does not drown out the actual name.
var technicalTags = regexp.MustCompile(`(?i)\b(4K|[0-9]{3,4}[pi]|x26[45]|h26[45]|HEVC|AV1|XviD|DivX|AAC|AC3|DTS(?:-HD)?|BDRip|BRRip|WEB(?:-DL|-Rip|Rip)?|HDTV(?:Rip)?|TVRip|DVDRip|HDRip|Bluray|BluRay|Remux|10bit|UKR|ENG|MULTI|DUB|SUB)\b`)

// seederMarker starts the subtitle lines appended to a display title
// (seeders/peers, size, date). Similarity only looks at the first line.
const seederMarker = "👤"

const jaccardSplitLength = 2

// Score computes the relevance of a candidate stream for a title query.
// Higher ranks first. Additive terms: up to 100 for string similarity, +30
// for a movie year match, +50 for a series season match, a single quality
// bonus, and two points per seeder. No ceiling is applied.
func Score(q schema.TitleQuery, s schema.Stream) float64 {
	title := cleanCandidateTitle(s.Title)

	score := 100 * float64(edlib.JaccardSimilarity(
		strings.ToLower(utils.CleanName(q.Name)),
		strings.ToLower(title),
		jaccardSplitLength,
	))

	switch q.Type {
	case schema.MediaTypeMovie:
		if q.Year > 0 && containsWord(title, fmt.Sprintf("%d", q.Year)) {
			score += 30
		}
	case schema.MediaTypeSeries:
		if q.Season > 0 && hasSeasonIndicator(title, q.Season) {
			score += 50
		}
	}

	score += qualityBonus(s.Title)
	score += float64(s.Seeders) * 2

	return score
}

// cleanCandidateTitle truncates the display title at the seeder/peer marker
// line and strips technical release tags.
func cleanCandidateTitle(title string) string {
	if idx := strings.Index(title, seederMarker); idx >= 0 {
		title = title[:idx]
	}
	if idx := strings.IndexAny(title, "\r\n"); idx >= 0 {
		title = title[:idx]
	}
	title = technicalTags.ReplaceAllString(title, " ")
	return utils.CleanName(title)
}

func containsWord(s, word string) bool {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(word) + `\b`)
	return re.MatchString(s)
}

// hasSeasonIndicator recognizes "S<n>", "Season <n>" and the localized
// "Сезон <n>" forms. `\b` is an ASCII word boundary and never fires next to
// Cyrillic letters, so the localized form anchors on its own non-letter check.
func hasSeasonIndicator(title string, season int) bool {
	re := regexp.MustCompile(fmt.Sprintf(
		`(?i)(\b(s%d|season\s*%d)\b|(?:^|[^\p{L}\d])сезон\s*%d\b)`,
		season, season, season,
	))
	return re.MatchString(title)
}

// qualityBonuses in descending order of value; only the highest applicable
// bonus is awarded.
var qualityBonuses = []struct {
	re    *regexp.Regexp
	bonus float64
}{
	{regexp.MustCompile(`(?i)\b1080p\b`), 15},
	{regexp.MustCompile(`(?i)\bBDRip\b`), 10},
	{regexp.MustCompile(`(?i)\bDVDRip\b`), 5},
}

func qualityBonus(title string) float64 {
	for _, q := range qualityBonuses {
		if q.re.MatchString(title) {
			return q.bonus
		}
	}
	return 0
}
