package page

import (
	"html"
	"regexp"
)

var (
	ogTitlePattern       = regexp.MustCompile(`<meta property="og:title" content="([^"]+)"`)
	ogDescriptionPattern = regexp.MustCompile(`<meta property="og:description" content="([^"]+)"`)
)

// PatternParser matches the literal og meta tags YouTube renders server-side.
// It does not tolerate reordered attributes or different quoting
type PatternParser struct{}

// NewPatternParser creates a new pattern parser
func NewPatternParser() *PatternParser {
	return &PatternParser{}
}

// Name returns PatternParserName
func (p *PatternParser) Name() string { return PatternParserName }

// Metadata extracts the content of the first og:title and og:description tags
func (p *PatternParser) Metadata(body string) Metadata {
	return Metadata{
		Title:       firstSubmatch(ogTitlePattern, body),
		Description: firstSubmatch(ogDescriptionPattern, body),
	}
}

// CaptionURL returns the timedtext URL embedded in the page script data
func (p *PatternParser) CaptionURL(body string) (string, bool) {
	return findCaptionURL(body)
}

// ScrapeMetadata extracts title and description with the pattern parser
func ScrapeMetadata(body string) Metadata {
	return NewPatternParser().Metadata(body)
}

// ScrapeCaptionURL extracts the caption URL with the pattern parser
func ScrapeCaptionURL(body string) (string, bool) {
	return findCaptionURL(body)
}

// firstSubmatch returns the entity-decoded first capture group, or ""
func firstSubmatch(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return html.UnescapeString(m[1])
}
