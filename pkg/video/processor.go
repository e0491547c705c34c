package video

import (
	"context"

	"github.com/sirupsen/logrus"

	"youtube-caption/pkg/caption"
	"youtube-caption/pkg/domain"
	"youtube-caption/pkg/httpclient"
	"youtube-caption/pkg/page"
	"youtube-caption/pkg/urls"
)

// Processor runs the per-video pipeline: fetch the watch page, scrape its
// metadata and caption URL, fetch the captions document and decode it.
//
// It holds no per-call state and is safe for concurrent use
type Processor struct {
	fetcher httpclient.Fetcher
	parser  page.Parser
	decoder caption.Decoder
	log     logrus.FieldLogger
}

// NewProcessor creates a processor using the pattern page parser and the
// default caption decoder
func NewProcessor(fetcher httpclient.Fetcher) *Processor {
	return &Processor{
		fetcher: fetcher,
		parser:  page.NewPatternParser(),
		decoder: caption.Default,
		log:     logrus.StandardLogger(),
	}
}

// SetParser sets the page parser
func (p *Processor) SetParser(parser page.Parser) {
	if parser != nil {
		p.parser = parser
	}
}

// SetDecoder sets the caption decoder
func (p *Processor) SetDecoder(decoder caption.Decoder) {
	if decoder != nil {
		p.decoder = decoder
	}
}

// SetLogger sets the logger
func (p *Processor) SetLogger(log logrus.FieldLogger) {
	if log != nil {
		p.log = log
	}
}

// Process never fails: every failure is folded into the result. If the page
// cannot be fetched only URL is set. Missing, unfetchable and undecodable
// captions all leave Caption and Language unset. Each external call is made
// at most once
func (p *Processor) Process(ctx context.Context, videoURL string) domain.VideoResult {
	result := domain.VideoResult{URL: videoURL}
	log := p.log.WithField("url", videoURL)
	if id, ok := urls.VideoID(videoURL); ok {
		log = log.WithField("video_id", id)
	}

	body, err := p.fetcher.Fetch(ctx, videoURL)
	if err != nil {
		log.WithError(err).Info("watch page unavailable")
		return result
	}

	meta := p.parser.Metadata(body)
	result.Title = meta.Title
	result.Description = meta.Description

	captionURL, ok := p.parser.CaptionURL(body)
	if !ok {
		log.Debug("no caption referenced by page")
		return result
	}
	result.CaptionURL = captionURL

	doc, err := p.fetcher.Fetch(ctx, captionURL)
	if err != nil {
		log.WithError(err).Debug("caption document unavailable")
		return result
	}

	transcript, err := p.decoder.Decode(doc)
	if err != nil {
		log.WithError(err).Debug("caption document did not decode")
		return result
	}

	result.Caption = &transcript
	if lang, ok := page.CaptionLanguage(captionURL); ok {
		result.Language = lang
	}

	return result
}
