package urls

import (
	"regexp"

	"github.com/samber/lo"
)

// videoURLPattern matches watch-page and short-link URLs. The match stops at
// the end of the id, so trailing query parameters (&t=, ?si=) are not part of
// the extracted URL. Scheme and host are matched case-sensitively
var videoURLPattern = regexp.MustCompile(`https?://(?:www\.)?(?:youtube\.com/watch\?v=|youtu\.be/)([\w-]+)`)

// Discover scans free-form text for YouTube video URLs and returns them in
// order of first occurrence with duplicates removed. URLs are compared as
// plain strings; two links to the same video with different forms are both kept
func Discover(text string) []string {
	found := videoURLPattern.FindAllString(text, -1)
	if len(found) == 0 {
		return []string{}
	}
	return lo.Uniq(found)
}

// IsVideoURL reports whether s is exactly a URL Discover would extract
func IsVideoURL(s string) bool {
	loc := videoURLPattern.FindStringIndex(s)
	return loc != nil && loc[0] == 0 && loc[1] == len(s)
}

// VideoID returns the id portion of a discovered URL
func VideoID(videoURL string) (string, bool) {
	m := videoURLPattern.FindStringSubmatch(videoURL)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}
