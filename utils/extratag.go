package utils

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/moistari/rls"
)

// ExtraTag strips the recognized movie/show name, year and episode tag out of
// a release title and returns the technical remainder ("1080p BDRip UKR ENG"
// and the like). The remainder is what quality detection and relevance
// scoring look at.
func ExtraTag(name string) string {
	parsed := rls.ParseString(name)
	tag := CleanName(name)

	if parsed.Title != "" {
		if re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(CleanName(parsed.Title))); err == nil {
			tag = re.ReplaceAllString(tag, "")
		}
	}

	if parsed.Year > 0 {
		tag = strings.Replace(tag, strconv.Itoa(parsed.Year), "", 1)
	}

	hasEpisode := parsed.Series > 0 && parsed.Episode > 0
	if hasEpisode {
		episodeTag := EpisodeTag(parsed.Series, parsed.Episode)
		if re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(episodeTag)); err == nil {
			tag = re.ReplaceAllString(tag, "")
		}
	}

	tag = strings.TrimSpace(tag)
	parts := strings.Fields(tag)
	if len(parts) == 0 {
		return ""
	}

	// Episode ranges like S01E01-08 lose their tail during cleaning; stitch
	// the range back together when the original title carries it.
	if hasEpisode && len(parts[0]) == 2 && isDigits(parts[0]) {
		ranged := EpisodeTag(parsed.Series, parsed.Episode) + "-" + parts[0]
		if strings.Contains(strings.ToLower(name), strings.ToLower(ranged)) {
			parts[0] = ranged
		}
	}

	// Anchor the tag at its first token inside the original title so the
	// remainder keeps the original separators.
	if idx := strings.Index(strings.ToLower(name), strings.ToLower(parts[0])); idx >= 0 {
		tag = name[idx:]
		tag = strings.NewReplacer("_", " ", "(", " ", ")", " ", "[", " ", "]", " ", ",", " ").Replace(tag)
		if strings.Count(tag, ".") > 1 {
			tag = strings.ReplaceAll(tag, ".", " ")
		}
		tag = nameSpaces.ReplaceAllString(tag, " ")
		tag = strings.TrimSpace(tag)
	}

	return tag
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
