package torrent

import (
	"fmt"
	"regexp"

	"stremjack/schema"
)

var videoExtRegex = regexp.MustCompile(`(?i)\.(mkv|mp4|avi|mov|webm|flv|wmv|mpeg|mpg|3gp|ts|m4v)$`)

// yearPatternForms match a release year inside a filename, in priority
// order: bare year as a word, parenthesized, bracketed, delimited by
// non-letters.
var yearPatternForms = []string{
	`\b%d\b`,
	`\(%d\)`,
	`\[%d\]`,
	`[^a-zA-Z]%d[^a-zA-Z]`,
}

// episodePatternForms match a season/episode pair inside a filename, in
// priority order. Verbs are formatted with (season, episode) in short or
// zero-padded form as each pattern needs. The last form covers the localized
// "4 з 13" / "4 із 13" / "4 of 13" fraction style.
var episodePatternForms = []func(season, episode int) string{
	func(s, e int) string { return fmt.Sprintf(`(?i)s%de%d`, s, e) },
	func(s, e int) string { return fmt.Sprintf(`(?i)s%02de%02d`, s, e) },
	func(s, e int) string { return fmt.Sprintf(`(?i)\b%d[x\-]%02d\b`, s, e) },
	func(s, e int) string { return fmt.Sprintf(`(?i)e%02d\b`, e) },
	func(s, e int) string { return fmt.Sprintf(`(?i)\b%02d\b`, e) },
	func(s, e int) string { return fmt.Sprintf(`(?i)\b%d\b`, e) },
	func(s, e int) string { return fmt.Sprintf(`(?i)\b%d\s*(з|із|of|/|\\)\s*\d{1,2}\b`, e) },
}

// IsVideo reports whether a filename carries a recognized video extension.
func IsVideo(name string) bool {
	return videoExtRegex.MatchString(name)
}

// ContainsVideo reports whether any file in the list is a video file.
func ContainsVideo(files []schema.FileEntry) bool {
	for _, f := range files {
		if IsVideo(f.Name) {
			return true
		}
	}
	return false
}

// SelectFileIndex picks the index of the file to play inside a multi-file
// torrent. The returned bool is false when no file could be pinned; the
// stream is still playable without a file index.
func SelectFileIndex(q schema.TitleQuery, files []schema.FileEntry) (int, bool) {
	if len(files) == 0 {
		return 0, false
	}
	if len(files) == 1 {
		return 0, true
	}

	switch q.Type {
	case schema.MediaTypeMovie:
		return selectMovieFile(files, q.Year)
	case schema.MediaTypeSeries:
		return selectEpisodeFile(files, q.Season, q.Episode)
	}
	return 0, false
}

// selectMovieFile handles multi-file movie torrents: with several video
// files the year patterns disambiguate (collections shipping multiple
// movies); with exactly one video file that file wins.
func selectMovieFile(files []schema.FileEntry, year int) (int, bool) {
	videos := videoIndices(files)
	switch {
	case len(videos) > 1:
		// Without a year there is nothing to disambiguate a collection
		// with; the stream stays playable without a pinned file.
		if year <= 0 {
			return 0, false
		}
		for _, form := range yearPatternForms {
			re := regexp.MustCompile(fmt.Sprintf(form, year))
			for _, idx := range videos {
				if re.MatchString(files[idx].Name) {
					return idx, true
				}
			}
		}
		return 0, false
	case len(videos) == 1:
		return videos[0], true
	}
	return 0, false
}

// selectEpisodeFile walks the episode pattern table in priority order. The
// first pattern with any filename match wins; among its matches the one with
// a video extension is selected.
func selectEpisodeFile(files []schema.FileEntry, season, episode int) (int, bool) {
	if season <= 0 || episode <= 0 {
		return 0, false
	}

	for _, form := range episodePatternForms {
		re := regexp.MustCompile(form(season, episode))

		var matches []int
		for i, f := range files {
			if re.MatchString(f.Name) {
				matches = append(matches, i)
			}
		}
		if len(matches) == 0 {
			continue
		}
		for _, idx := range matches {
			if IsVideo(files[idx].Name) {
				return idx, true
			}
		}
		return 0, false
	}
	return 0, false
}

func videoIndices(files []schema.FileEntry) []int {
	var out []int
	for i, f := range files {
		if IsVideo(f.Name) {
			out = append(out, i)
		}
	}
	return out
}
