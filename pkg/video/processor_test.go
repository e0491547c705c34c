package video

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"youtube-caption/pkg/caption"
	"youtube-caption/pkg/httpclient"
	"youtube-caption/pkg/page"
)

const jsonAmp = "\\" + "u0026"

// mockFetcher serves canned bodies keyed by URL and counts calls
type mockFetcher struct {
	mu     sync.Mutex
	bodies map[string]string
	calls  map[string]int
}

func newMockFetcher(bodies map[string]string) *mockFetcher {
	return &mockFetcher{bodies: bodies, calls: make(map[string]int)}
}

func (m *mockFetcher) Fetch(ctx context.Context, url string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[url]++
	body, ok := m.bodies[url]
	if !ok {
		return "", errors.Join(httpclient.ErrFetch, fmt.Errorf("no such url: %s", url))
	}
	return body, nil
}

func quietProcessor(f httpclient.Fetcher) *Processor {
	p := NewProcessor(f)
	l := logrus.New()
	l.SetOutput(io.Discard)
	p.SetLogger(l)
	return p
}

func watchPage(videoID string, withCaptions bool) string {
	var sb strings.Builder
	sb.WriteString(`<html><head><meta property="og:title" content="Video ` + videoID + `">`)
	sb.WriteString(`<meta property="og:description" content="About ` + videoID + `"></head><body><script>`)
	if withCaptions {
		sb.WriteString(`var ytInitialPlayerResponse = {"captions":{"baseUrl":"https://www.youtube.com/api/timedtext?v=` + videoID + jsonAmp + `lang=en"}};`)
	}
	sb.WriteString(`</script></body></html>`)
	return sb.String()
}

func captionURL(videoID string) string {
	return "https://www.youtube.com/api/timedtext?v=" + videoID + "&lang=en"
}

func TestProcessor_Process_WithCaption(t *testing.T) {
	const videoURL = "https://www.youtube.com/watch?v=abc"
	fetcher := newMockFetcher(map[string]string{
		videoURL:          watchPage("abc", true),
		captionURL("abc"): `<transcript><text>Hello&#39;s</text><text>World</text></transcript>`,
	})

	got := quietProcessor(fetcher).Process(context.Background(), videoURL)

	assert.Equal(t, videoURL, got.URL)
	assert.Equal(t, "Video abc", got.Title)
	assert.Equal(t, "About abc", got.Description)
	assert.Equal(t, captionURL("abc"), got.CaptionURL)
	assert.Equal(t, "en", got.Language)
	require.True(t, got.HasCaption())
	assert.Equal(t, "Hello's\nWorld", got.CaptionText())

	assert.Equal(t, 1, fetcher.calls[videoURL])
	assert.Equal(t, 1, fetcher.calls[captionURL("abc")])
}

func TestProcessor_Process_PageFetchFails(t *testing.T) {
	const videoURL = "https://youtu.be/missing"
	fetcher := newMockFetcher(map[string]string{})

	got := quietProcessor(fetcher).Process(context.Background(), videoURL)

	assert.Equal(t, videoURL, got.URL)
	assert.Empty(t, got.Title)
	assert.Empty(t, got.Description)
	assert.Empty(t, got.CaptionURL)
	assert.Empty(t, got.Language)
	assert.False(t, got.HasCaption())
	assert.Equal(t, 1, fetcher.calls[videoURL])
}

func TestProcessor_Process_NoCaptionReference(t *testing.T) {
	const videoURL = "https://youtu.be/nocap"
	fetcher := newMockFetcher(map[string]string{
		videoURL: watchPage("nocap", false),
	})

	got := quietProcessor(fetcher).Process(context.Background(), videoURL)

	assert.Equal(t, "Video nocap", got.Title)
	assert.Equal(t, "About nocap", got.Description)
	assert.Empty(t, got.CaptionURL)
	assert.Empty(t, got.Language)
	assert.False(t, got.HasCaption())
	assert.Len(t, fetcher.calls, 1)
}

func TestProcessor_Process_CaptionFailuresCollapse(t *testing.T) {
	const videoURL = "https://youtu.be/cap"

	tests := []struct {
		name   string
		bodies map[string]string
	}{
		{
			name:   "caption fetch fails",
			bodies: map[string]string{videoURL: watchPage("cap", true)},
		},
		{
			name: "caption document malformed",
			bodies: map[string]string{
				videoURL:          watchPage("cap", true),
				captionURL("cap"): "<transcript><text>broken",
			},
		},
		{
			name: "caption document empty",
			bodies: map[string]string{
				videoURL:          watchPage("cap", true),
				captionURL("cap"): "",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := newMockFetcher(tt.bodies)

			got := quietProcessor(fetcher).Process(context.Background(), videoURL)

			assert.Equal(t, "Video cap", got.Title)
			assert.Equal(t, captionURL("cap"), got.CaptionURL)
			assert.False(t, got.HasCaption())
			assert.Empty(t, got.Language)
			assert.Equal(t, 1, fetcher.calls[captionURL("cap")])
		})
	}
}

func TestProcessor_Process_EmptyTranscript(t *testing.T) {
	const videoURL = "https://youtu.be/silent"
	fetcher := newMockFetcher(map[string]string{
		videoURL:             watchPage("silent", true),
		captionURL("silent"): "<transcript></transcript>",
	})

	got := quietProcessor(fetcher).Process(context.Background(), videoURL)

	require.True(t, got.HasCaption())
	assert.Equal(t, "", got.CaptionText())
	assert.Equal(t, "en", got.Language)
}

func TestProcessor_Process_CustomParser(t *testing.T) {
	const videoURL = "https://youtu.be/reorder"
	fetcher := newMockFetcher(map[string]string{
		videoURL: `<html><head><meta content="Reordered" property="og:title"></head></html>`,
	})

	p := quietProcessor(fetcher)
	assert.Empty(t, p.Process(context.Background(), videoURL).Title)

	p.SetParser(&page.DocumentParser{SkipReadability: true})
	assert.Equal(t, "Reordered", p.Process(context.Background(), videoURL).Title)
}

func TestProcessor_Process_CustomDecoder(t *testing.T) {
	const videoURL = "https://youtu.be/upper"
	fetcher := newMockFetcher(map[string]string{
		videoURL:            watchPage("upper", true),
		captionURL("upper"): "plain words",
	})

	p := quietProcessor(fetcher)
	p.SetDecoder(caption.DecoderFunc(func(doc string) (string, error) {
		return strings.ToUpper(doc), nil
	}))

	got := p.Process(context.Background(), videoURL)
	require.True(t, got.HasCaption())
	assert.Equal(t, "PLAIN WORDS", got.CaptionText())
}

func TestProcessor_Process_HTTP(t *testing.T) {
	var server *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		// The caption URL in the page always points at youtube.com, so serve
		// a page without one and check the metadata path end to end
		w.Write([]byte(`<meta property="og:title" content="Served Title">`))
	})
	mux.HandleFunc("/short", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, server.URL+"/watch", http.StatusMovedPermanently)
	})
	server = httptest.NewServer(mux)
	defer server.Close()

	l := logrus.New()
	l.SetOutput(io.Discard)
	p := NewProcessor(httpclient.NewClientWithConfig(httpclient.Config{Logger: l}))
	p.SetLogger(l)

	got := p.Process(context.Background(), server.URL+"/short")
	assert.Equal(t, "Served Title", got.Title)
	assert.False(t, got.HasCaption())
}
