package utils

import (
	"fmt"
	"regexp"
	"strings"
)

// Filter returns the elements of arr for which f is true, preserving order.
func Filter[A any](arr []A, f func(A) bool) []A {
	res := make([]A, 0, len(arr))
	for _, v := range arr {
		if f(v) {
			res = append(res, v)
		}
	}
	return res
}

var (
	namePunct  = regexp.MustCompile("[._\\-–()\\[\\]:,]")
	nameSpaces = regexp.MustCompile(`\s+`)
)

// CleanName normalizes a title for use as a free-text search term: punctuation
// used as word separators becomes spaces, apostrophes are dropped and runs of
// whitespace collapse to a single space.
func CleanName(name string) string {
	if name == "" {
		return ""
	}
	name = namePunct.ReplaceAllString(name, " ")
	name = strings.ReplaceAll(name, "'", "")
	name = nameSpaces.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// EpisodeTag formats a season/episode pair in the standard SxxEyy form.
func EpisodeTag(season, episode int) string {
	return fmt.Sprintf("S%02dE%02d", season, episode)
}

var (
	qualityRegex = regexp.MustCompile(`(?i)\b(4K|[0-9]{3,4}[pi])\b`)
	sourceRegex  = regexp.MustCompile(`(?i)\b(DLRip|HDTV|DivX|XviD|DL(?:MUX)?|WEB(?:-DL|-Rip|MUX)?|BDMUX|BRMUX|Telecine|CAMRip|HQCAM|Bluray|VHSSCR|R5|PPVRip|TC|HDTVRip|TVRip|DVDscr|DVDR\d?|DVDRip|BDRip|BRRip|HDRip|HDTS|HD(?:CAM|TS|Rip)|TS|CAM)\b`)
)

// FindQuality picks the quality tag to display for a release: a resolution tag
// ("1080p", "4K") wins over a source tag ("BDRip", "WEB-DL"). Returns "" when
// neither is present.
func FindQuality(tag string) string {
	if m := qualityRegex.FindString(tag); m != "" {
		return m
	}
	return sourceRegex.FindString(tag)
}
