package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// jsonAmp is the escaped ampersand found in the page's inline player JSON
const jsonAmp = "\\" + "u0026"

func watchPage(head, script string) string {
	return `<!DOCTYPE html><html><head>` + head + `</head><body><script>var ytInitialPlayerResponse = ` + script + `;</script></body></html>`
}

func TestParsers_Metadata(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Metadata
	}{
		{
			name: "title and description",
			body: watchPage(`<meta property="og:title" content="Example Title"><meta property="og:description" content="An example video">`, `{}`),
			want: Metadata{Title: "Example Title", Description: "An example video"},
		},
		{
			name: "title only",
			body: watchPage(`<meta property="og:title" content="Example Title">`, `{}`),
			want: Metadata{Title: "Example Title"},
		},
		{
			name: "entities decoded",
			body: watchPage(`<meta property="og:title" content="Tom &amp; Jerry&#39;s">`, `{}`),
			want: Metadata{Title: "Tom & Jerry's"},
		},
		{
			name: "first tag wins",
			body: watchPage(`<meta property="og:title" content="First"><meta property="og:title" content="Second">`, `{}`),
			want: Metadata{Title: "First"},
		},
	}

	parsers := []Parser{NewPatternParser(), &DocumentParser{SkipReadability: true}}

	for _, p := range parsers {
		for _, tt := range tests {
			t.Run(p.Name()+"/"+tt.name, func(t *testing.T) {
				assert.Equal(t, tt.want, p.Metadata(tt.body))
			})
		}
	}
}

func TestPatternParser_NoMetadata(t *testing.T) {
	meta := ScrapeMetadata(watchPage(`<title>plain page</title>`, `{}`))
	assert.Empty(t, meta.Title)
	assert.Empty(t, meta.Description)
}

func TestPatternParser_LiteralOnly(t *testing.T) {
	// Reordered attributes are outside the literal pattern
	body := watchPage(`<meta content="Reordered" property="og:title">`, `{}`)

	assert.Empty(t, NewPatternParser().Metadata(body).Title)
	assert.Equal(t, "Reordered", (&DocumentParser{SkipReadability: true}).Metadata(body).Title)
}

func TestDocumentParser_ReadabilityFallback(t *testing.T) {
	body := `<!DOCTYPE html><html><head><title>Fallback Title</title></head><body><article>
<h1>Fallback Title</h1>
<p>This is a long enough paragraph of article text so that readability has something to work with when it scores the content of the page.</p>
<p>A second paragraph adds more body text, and more sentences, so the extracted article is not empty at all.</p>
</article></body></html>`

	meta := NewDocumentParser().Metadata(body)
	assert.Contains(t, meta.Title, "Fallback Title")
}

func TestDocumentParser_EmptyBody(t *testing.T) {
	assert.Equal(t, Metadata{}, NewDocumentParser().Metadata("   "))
}

func TestScrapeCaptionURL(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   string
		wantOK bool
	}{
		{
			name:   "escaped ampersands",
			body:   watchPage("", `{"captions":{"baseUrl":"https://www.youtube.com/api/timedtext?v=abc`+jsonAmp+`ei=xyz`+jsonAmp+`lang=en`+jsonAmp+`fmt=srv3"}}`),
			want:   "https://www.youtube.com/api/timedtext?v=abc&ei=xyz&lang=en&fmt=srv3",
			wantOK: true,
		},
		{
			name:   "first reference wins",
			body:   watchPage("", `{"a":"https://www.youtube.com/api/timedtext?v=one`+jsonAmp+`lang=de","b":"https://www.youtube.com/api/timedtext?v=two`+jsonAmp+`lang=fr"}`),
			want:   "https://www.youtube.com/api/timedtext?v=one&lang=de",
			wantOK: true,
		},
		{
			name:   "no timedtext reference",
			body:   watchPage(`<meta property="og:title" content="No captions">`, `{"playabilityStatus":{"status":"OK"}}`),
			wantOK: false,
		},
		{
			name:   "other host ignored",
			body:   watchPage("", `{"u":"https://example.com/api/timedtext?v=abc"}`),
			wantOK: false,
		},
	}

	parsers := []Parser{NewPatternParser(), NewDocumentParser()}

	for _, p := range parsers {
		for _, tt := range tests {
			t.Run(p.Name()+"/"+tt.name, func(t *testing.T) {
				got, ok := p.CaptionURL(tt.body)
				assert.Equal(t, tt.wantOK, ok)
				assert.Equal(t, tt.want, got)
			})
		}
	}

	got, ok := ScrapeCaptionURL(tests[0].body)
	require.True(t, ok)
	assert.Equal(t, tests[0].want, got)
}

func TestCaptionLanguage(t *testing.T) {
	tests := []struct {
		url    string
		want   string
		wantOK bool
	}{
		{"https://www.youtube.com/api/timedtext?v=abc&lang=en&fmt=srv3", "en", true},
		{"https://www.youtube.com/api/timedtext?v=abc&fmt=srv3&lang=pt-BR", "pt-BR", true},
		{"https://www.youtube.com/api/timedtext?lang=es&v=abc", "es", true},
		{"https://www.youtube.com/api/timedtext?v=abc&tlang=fr", "", false},
		{"https://www.youtube.com/api/timedtext?v=abc&lang=", "", false},
		{"https://www.youtube.com/api/timedtext?v=abc", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, ok := CaptionLanguage(tt.url)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew(t *testing.T) {
	for _, name := range Names() {
		p, err := New(name)
		require.NoError(t, err)
		assert.Equal(t, name, p.Name())
	}

	p, err := New("")
	require.NoError(t, err)
	assert.Equal(t, PatternParserName, p.Name())

	_, err = New("xpath")
	assert.ErrorIs(t, err, ErrUnknownParser)
}
