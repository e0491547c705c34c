package prompt

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"youtube-caption/pkg/domain"
	"youtube-caption/pkg/urls"
)

// DefaultWorkers is how many videos are processed at once
const DefaultWorkers = 4

// VideoProcessor processes one discovered video URL
type VideoProcessor interface {
	Process(ctx context.Context, videoURL string) domain.VideoResult
}

// Processor discovers the YouTube URLs in a prompt and processes each one
type Processor struct {
	videos  VideoProcessor
	workers int
	log     logrus.FieldLogger
}

// NewProcessor creates a new prompt processor
func NewProcessor(videos VideoProcessor) *Processor {
	return &Processor{
		videos:  videos,
		workers: DefaultWorkers,
		log:     logrus.StandardLogger(),
	}
}

// SetWorkers sets the number of videos processed in parallel.
// If workers <= 0, it will be coerced to 1, which processes videos sequentially
func (p *Processor) SetWorkers(workers int) {
	if workers <= 0 {
		p.workers = 1
		return
	}
	p.workers = workers
}

// SetLogger sets the logger
func (p *Processor) SetLogger(log logrus.FieldLogger) {
	if log != nil {
		p.log = log
	}
}

// Process returns one entry per distinct URL found in text, in discovery
// order regardless of completion order. A prompt without URLs yields an
// empty result. Videos are independent: a failed video is recorded in its
// own entry and never stops the others
func (p *Processor) Process(ctx context.Context, text string) *domain.PromptResult {
	found := urls.Discover(text)
	log := p.log.WithField("run_id", uuid.NewString())

	if len(found) == 0 {
		log.Debug("no video URLs in prompt")
		return domain.NewPromptResult(nil)
	}

	start := time.Now()
	log.WithField("videos", len(found)).Info("processing prompt")

	results := make([]domain.VideoResult, len(found))

	var g errgroup.Group
	g.SetLimit(p.workers)
	for i, videoURL := range found {
		g.Go(func() error {
			results[i] = p.videos.Process(ctx, videoURL)
			return nil
		})
	}
	_ = g.Wait()

	captioned := 0
	for _, r := range results {
		if r.HasCaption() {
			captioned++
		}
	}
	log.WithFields(logrus.Fields{
		"videos":    len(results),
		"captioned": captioned,
		"duration":  time.Since(start).String(),
	}).Info("prompt processed")

	return domain.NewPromptResult(results)
}
