// Package feed builds prompt text from an RSS/Atom feed, such as the feed
// YouTube publishes for every channel and playlist
package feed

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"

	"youtube-caption/pkg/httpclient"
)

const youtubeFeedBase = "https://www.youtube.com/feeds/videos.xml"

// Feed source errors
var (
	ErrEmptyFeedURL = errors.New("feed URL is empty")
	ErrEmptyFeed    = errors.New("feed contains no item links")
)

// ChannelFeedURL returns the Atom feed URL of a YouTube channel
func ChannelFeedURL(channelID string) string {
	return youtubeFeedBase + "?channel_id=" + url.QueryEscape(channelID)
}

// PlaylistFeedURL returns the Atom feed URL of a YouTube playlist
func PlaylistFeedURL(playlistID string) string {
	return youtubeFeedBase + "?playlist_id=" + url.QueryEscape(playlistID)
}

// Source fetches feeds through the shared HTTP fetcher and parses them with gofeed
type Source struct {
	fetcher    httpclient.Fetcher
	feedParser *gofeed.Parser
}

// NewSource creates a new feed source
func NewSource(fetcher httpclient.Fetcher) *Source {
	return &Source{
		fetcher:    fetcher,
		feedParser: gofeed.NewParser(),
	}
}

// Links returns the item links of the feed in feed order, skipping items without one
func (s *Source) Links(ctx context.Context, feedURL string) ([]string, error) {
	feedURL = strings.TrimSpace(feedURL)
	if feedURL == "" {
		return nil, ErrEmptyFeedURL
	}

	body, err := s.fetcher.Fetch(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}

	feed, err := s.feedParser.ParseString(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	links := make([]string, 0, len(feed.Items))
	for _, item := range feed.Items {
		if link := strings.TrimSpace(item.Link); link != "" {
			links = append(links, link)
		}
	}

	if len(links) == 0 {
		return nil, ErrEmptyFeed
	}

	return links, nil
}

// Prompt returns the feed's item links as prompt text, one per line
func (s *Source) Prompt(ctx context.Context, feedURL string) (string, error) {
	links, err := s.Links(ctx, feedURL)
	if err != nil {
		return "", err
	}
	return strings.Join(links, "\n"), nil
}
