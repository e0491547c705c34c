package page

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// DocumentParser parses the page as HTML and reads the og meta tags through
// CSS selectors, so attribute order and quoting do not matter. When a tag is
// missing it falls back to readability's title and excerpt
type DocumentParser struct {
	// SkipReadability disables the readability fallback
	SkipReadability bool
}

// NewDocumentParser creates a new document parser
func NewDocumentParser() *DocumentParser {
	return &DocumentParser{}
}

// Name returns DocumentParserName
func (p *DocumentParser) Name() string { return DocumentParserName }

// Metadata extracts title and description, trying og tags first
func (p *DocumentParser) Metadata(body string) Metadata {
	var meta Metadata
	if strings.TrimSpace(body) == "" {
		return meta
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err == nil {
		meta.Title = metaContent(doc, "og:title")
		meta.Description = metaContent(doc, "og:description")
	}

	if p.SkipReadability || (meta.Title != "" && meta.Description != "") {
		return meta
	}

	article, err := readability.FromReader(strings.NewReader(body), nil)
	if err != nil {
		return meta
	}
	if meta.Title == "" {
		meta.Title = strings.TrimSpace(article.Title)
	}
	if meta.Description == "" {
		meta.Description = strings.TrimSpace(article.Excerpt)
	}

	return meta
}

// CaptionURL matches the raw body like PatternParser, since the URL lives in script data
func (p *DocumentParser) CaptionURL(body string) (string, bool) {
	return findCaptionURL(body)
}

func metaContent(doc *goquery.Document, property string) string {
	content, exists := doc.Find("meta[property='" + property + "']").First().Attr("content")
	if !exists {
		return ""
	}
	return strings.TrimSpace(content)
}
