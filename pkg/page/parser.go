// Package page scrapes title, description and the captions endpoint out of a
// fetched YouTube watch page.
//
// Watch-page markup is not a stable contract, so scraping sits behind the
// Parser interface. Each implementation handles one known page shape; a new
// shape gets a new Parser rather than changes to the pipeline
package page

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Metadata holds what a parser found in a watch page. Empty fields were not found
type Metadata struct {
	Title       string
	Description string
}

// Parser extracts metadata and the caption URL from a watch-page body
type Parser interface {
	// Name identifies the parser in configuration and logs
	Name() string

	// Metadata extracts title and description. Missing tags leave the field empty
	Metadata(body string) Metadata

	// CaptionURL returns the fetchable timedtext URL referenced by the page, if any
	CaptionURL(body string) (string, bool)
}

// Parser names accepted by New
const (
	PatternParserName  = "pattern"
	DocumentParserName = "document"
)

// ErrUnknownParser is returned by New for a name it does not know
var ErrUnknownParser = errors.New("unknown page parser")

// New returns the parser registered under name
func New(name string) (Parser, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PatternParserName:
		return NewPatternParser(), nil
	case DocumentParserName:
		return NewDocumentParser(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownParser, name)
	}
}

// Names lists the registered parser names
func Names() []string {
	return []string{PatternParserName, DocumentParserName}
}

// captionURLPattern matches the timedtext URL as it is embedded in the page's
// inline player JSON, up to the closing quote
var captionURLPattern = regexp.MustCompile(`https://www\.youtube\.com/api/timedtext\?v=[^"]+`)

// escapedAmpersand is how the inline JSON encodes '&'
const escapedAmpersand = `\u0026`

// findCaptionURL is shared by every parser: the reference lives in script
// data rather than in markup, so it is matched on the raw body
func findCaptionURL(body string) (string, bool) {
	raw := captionURLPattern.FindString(body)
	if raw == "" {
		return "", false
	}
	return strings.ReplaceAll(raw, escapedAmpersand, "&"), true
}

var langParamPattern = regexp.MustCompile(`(?:^|[?&])lang=([^&]*)`)

// CaptionLanguage returns the lang query parameter of a caption URL
func CaptionLanguage(captionURL string) (string, bool) {
	m := langParamPattern.FindStringSubmatch(captionURL)
	if len(m) < 2 || m[1] == "" {
		return "", false
	}
	return m[1], true
}
