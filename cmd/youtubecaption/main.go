package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"youtube-caption/pkg/config"
	"youtube-caption/pkg/domain"
	"youtube-caption/pkg/feed"
	"youtube-caption/pkg/httpclient"
	"youtube-caption/pkg/logging"
	"youtube-caption/pkg/page"
	"youtube-caption/pkg/prompt"
	"youtube-caption/pkg/urls"
	"youtube-caption/pkg/video"
)

var errNoInput = errors.New("no prompt given: pass text as arguments, on stdin, or use --url/--feed/--page")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(viper.GetViper()).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "youtube-caption [prompt text...]",
		Short: "Extract captions and metadata from the YouTube videos linked in a text",
		Long: `youtube-caption finds YouTube video links in free-form text, fetches each
video's watch page and captions, and prints title, description and transcript
for every video in the order it was found.

The prompt is read from the arguments, or from stdin when there are none.`,
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return config.Setup(v)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, v, args)
		},
	}

	flags := cmd.Flags()
	flags.String("url", "", "Process a single video URL instead of a prompt")
	flags.String("feed", "", "Build the prompt from the item links of an RSS/Atom feed")
	flags.String("page", "", "Build the prompt from the video links of a web page")
	flags.Bool("json", false, "Print results as JSON")

	flags.Duration("timeout", httpclient.DefaultTimeout, "Timeout for each HTTP request")
	lo.Must0(v.BindPFlag(config.HTTPTimeout, flags.Lookup("timeout")))

	flags.String("client", string(httpclient.DefaultClient), "HTTP client profile (default, browser)")
	lo.Must0(v.BindPFlag(config.HTTPClient, flags.Lookup("client")))

	flags.String("parser", page.PatternParserName, "Watch page parser ("+strings.Join(page.Names(), ", ")+")")
	lo.Must0(v.BindPFlag(config.PageParser, flags.Lookup("parser")))

	flags.IntP("workers", "w", prompt.DefaultWorkers, "Videos processed in parallel")
	lo.Must0(v.BindPFlag(config.PromptWorkers, flags.Lookup("workers")))

	flags.String("log-level", "warn", "Log level (trace, debug, info, warn, error)")
	lo.Must0(v.BindPFlag(config.LogLevel, flags.Lookup("log-level")))

	flags.Bool("log-json", false, "Write logs as JSON")
	lo.Must0(v.BindPFlag(config.LogJSON, flags.Lookup("log-json")))

	return cmd
}

func run(cmd *cobra.Command, v *viper.Viper, args []string) error {
	ctx := cmd.Context()
	cfg := config.Load(v)
	log := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.JSON)

	client := httpclient.NewClientWithConfig(httpclient.Config{
		Type:         cfg.HTTP.Client,
		Timeout:      cfg.HTTP.Timeout,
		MaxRedirects: cfg.HTTP.MaxRedirects,
		MaxBodyBytes: cfg.HTTP.MaxBodyBytes,
		Logger:       log,
	})

	parser, err := page.New(cfg.PageParser)
	if err != nil {
		return err
	}

	videos := video.NewProcessor(client)
	videos.SetParser(parser)
	videos.SetLogger(log)

	asJSON, _ := cmd.Flags().GetBool("json")
	out := cmd.OutOrStdout()

	if videoURL, _ := cmd.Flags().GetString("url"); videoURL != "" {
		if !urls.IsVideoURL(videoURL) {
			log.WithField("url", videoURL).Warn("not a recognised YouTube video URL, processing anyway")
		}
		result := videos.Process(ctx, videoURL)
		return render(out, domain.NewPromptResult([]domain.VideoResult{result}), asJSON)
	}

	text, err := promptText(cmd, client, log, args)
	if err != nil {
		return err
	}

	prompts := prompt.NewProcessor(videos)
	prompts.SetWorkers(cfg.PromptWorkers)
	prompts.SetLogger(log)

	return render(out, prompts.Process(ctx, text), asJSON)
}

// promptText picks the prompt source: --feed, --page, then arguments, then stdin
func promptText(cmd *cobra.Command, fetcher httpclient.Fetcher, log logrus.FieldLogger, args []string) (string, error) {
	if feedURL, _ := cmd.Flags().GetString("feed"); feedURL != "" {
		text, err := feed.NewSource(fetcher).Prompt(cmd.Context(), feedURL)
		if err != nil {
			return "", fmt.Errorf("read feed: %w", err)
		}
		log.WithField("feed", feedURL).Debug("prompt built from feed")
		return text, nil
	}

	if pageURL, _ := cmd.Flags().GetString("page"); pageURL != "" {
		text, err := urls.NewHTMLSource(fetcher).Prompt(cmd.Context(), pageURL)
		if err != nil {
			return "", fmt.Errorf("read page: %w", err)
		}
		log.WithField("page", pageURL).Debug("prompt built from page links")
		return text, nil
	}

	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	if f, ok := cmd.InOrStdin().(*os.File); ok {
		if info, err := f.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 {
			return "", errNoInput
		}
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", errNoInput
	}
	return string(data), nil
}
