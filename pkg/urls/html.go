package urls

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"youtube-caption/pkg/httpclient"
)

// ErrNoVideoLinks is returned when a fetched page links to no video
var ErrNoVideoLinks = errors.New("no video links found in HTML")

// Link is a video link found in an HTML page
type Link struct {
	Location string // video URL, resolved against the page URL
	Title    string // anchor text or title attribute (optional)
}

// ExtractVideoLinks returns the anchors of an HTML document that point at a
// YouTube video, in document order with duplicate locations removed.
// Relative hrefs are resolved against base when it is non-nil
func ExtractVideoLinks(html string, base *url.URL) ([]Link, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var links []Link
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(i int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}

		if base != nil {
			ref, err := url.Parse(href)
			if err != nil {
				return
			}
			href = base.ResolveReference(ref).String()
		}

		// Keep only the part Discover would extract, dropping &t= and friends
		location := videoURLPattern.FindString(href)
		if location == "" || !strings.HasPrefix(href, location) || seen[location] {
			return
		}
		seen[location] = true

		title := strings.TrimSpace(a.Text())
		if title == "" {
			title, _ = a.Attr("title")
		}

		links = append(links, Link{Location: location, Title: title})
	})

	return links, nil
}

// HTMLSource collects the video links of a fetched web page
type HTMLSource struct {
	fetcher httpclient.Fetcher
}

// NewHTMLSource creates a new HTML source
func NewHTMLSource(fetcher httpclient.Fetcher) *HTMLSource {
	return &HTMLSource{fetcher: fetcher}
}

// Fetch fetches pageURL and extracts its video links
func (s *HTMLSource) Fetch(ctx context.Context, pageURL string) ([]Link, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL: %w", err)
	}

	html, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch HTML: %w", err)
	}

	links, err := ExtractVideoLinks(html, base)
	if err != nil {
		return nil, fmt.Errorf("failed to extract URLs: %w", err)
	}

	if len(links) == 0 {
		return nil, ErrNoVideoLinks
	}

	return links, nil
}

// Prompt returns the page's video links as prompt text, one per line
func (s *HTMLSource) Prompt(ctx context.Context, pageURL string) (string, error) {
	links, err := s.Fetch(ctx, pageURL)
	if err != nil {
		return "", err
	}

	lines := make([]string, len(links))
	for i, l := range links {
		lines[i] = l.Location
	}
	return strings.Join(lines, "\n"), nil
}
