package domain

import (
	"bytes"
	"encoding/json"
)

// VideoResult is the outcome of processing one video URL.
//
// Only URL is guaranteed. A result with every other field empty means the
// watch page itself could not be fetched
type VideoResult struct {
	// URL is the video URL exactly as it was discovered
	URL string `json:"url"`

	// Title and Description come from the page's og:title / og:description tags
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`

	// CaptionURL is the timedtext URL found in the page, when any
	CaptionURL string `json:"caption_url,omitempty"`

	// Language is the caption URL's lang parameter. Set only together with Caption
	Language string `json:"language,omitempty"`

	// Caption is the decoded transcript. nil means no caption: none was
	// referenced, the caption fetch failed, or the document did not decode.
	// A non-nil empty string is a caption document with no segments
	Caption *string `json:"caption,omitempty"`
}

// HasCaption reports whether a transcript was fetched and decoded
func (v VideoResult) HasCaption() bool {
	return v.Caption != nil
}

// CaptionText returns the transcript, or "" when there is none
func (v VideoResult) CaptionText() string {
	if v.Caption == nil {
		return ""
	}
	return *v.Caption
}

// PromptResult maps each URL discovered in a prompt to its VideoResult,
// iterating in discovery order
type PromptResult struct {
	results []VideoResult
	index   map[string]int
}

// NewPromptResult builds a PromptResult from results already in discovery order.
// A later result for a URL already present replaces the earlier one in place
func NewPromptResult(results []VideoResult) *PromptResult {
	p := &PromptResult{
		results: make([]VideoResult, 0, len(results)),
		index:   make(map[string]int, len(results)),
	}
	for _, r := range results {
		p.put(r)
	}
	return p
}

func (p *PromptResult) put(r VideoResult) {
	if i, ok := p.index[r.URL]; ok {
		p.results[i] = r
		return
	}
	p.index[r.URL] = len(p.results)
	p.results = append(p.results, r)
}

// Len returns the number of entries
func (p *PromptResult) Len() int {
	if p == nil {
		return 0
	}
	return len(p.results)
}

// Get returns the result for url
func (p *PromptResult) Get(url string) (VideoResult, bool) {
	if p == nil {
		return VideoResult{}, false
	}
	i, ok := p.index[url]
	if !ok {
		return VideoResult{}, false
	}
	return p.results[i], true
}

// URLs returns the keys in discovery order
func (p *PromptResult) URLs() []string {
	if p == nil {
		return nil
	}
	out := make([]string, len(p.results))
	for i, r := range p.results {
		out[i] = r.URL
	}
	return out
}

// Results returns a copy of the entries in discovery order
func (p *PromptResult) Results() []VideoResult {
	if p == nil {
		return nil
	}
	out := make([]VideoResult, len(p.results))
	copy(out, p.results)
	return out
}

// MarshalJSON encodes the entries as an array so discovery order survives.
// HTML escaping is off so query strings keep their literal '&'
func (p *PromptResult) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("[]"), nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p.results); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
