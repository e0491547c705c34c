// Package caption turns a timedtext captions document into a plain transcript
package caption

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"strings"
)

// ErrMalformed is returned when a captions document cannot be parsed
var ErrMalformed = errors.New("malformed caption document")

// Decoder turns a captions document into a transcript
type Decoder interface {
	Decode(doc string) (string, error)
}

// DecoderFunc adapts a function to Decoder
type DecoderFunc func(doc string) (string, error)

// Decode calls f(doc)
func (f DecoderFunc) Decode(doc string) (string, error) { return f(doc) }

// Default sniffs the document format: json3 when it starts with '{', XML otherwise
var Default Decoder = DecoderFunc(Decode)

// Decode picks the decoder from the document's first non-space byte
func Decode(doc string) (string, error) {
	if strings.HasPrefix(strings.TrimSpace(doc), "{") {
		return DecodeJSON3(doc)
	}
	return DecodeXML(doc)
}

// timedText is the legacy timedtext XML format: a root element holding
// <text start=".." dur="..">segment</text> children
type timedText struct {
	Texts []timedTextLine `xml:"text"`
}

type timedTextLine struct {
	Start string `xml:"start,attr"`
	Dur   string `xml:"dur,attr"`
	Body  string `xml:",chardata"`
}

// DecodeXML extracts every <text> element in document order, decodes its
// HTML entities and joins the segments with newlines. A document without
// <text> elements decodes to ""
func DecodeXML(doc string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(doc))
	decoder.Entity = xml.HTMLEntity

	var tt timedText
	if err := decoder.Decode(&tt); err != nil {
		return "", errors.Join(ErrMalformed, fmt.Errorf("parse timedtext XML: %w", err))
	}
	if err := expectEOF(decoder); err != nil {
		return "", errors.Join(ErrMalformed, err)
	}

	segments := make([]string, 0, len(tt.Texts))
	for _, line := range tt.Texts {
		segments = append(segments, html.UnescapeString(line.Body))
	}

	return strings.Join(segments, "\n"), nil
}

// expectEOF rejects anything but whitespace, comments and processing
// instructions after the root element
func expectEOF(decoder *xml.Decoder) error {
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("trailing content after root element: %w", err)
		}

		switch t := tok.(type) {
		case xml.Comment, xml.ProcInst:
		case xml.CharData:
			if len(bytes.TrimSpace(t)) != 0 {
				return errors.New("trailing text after root element")
			}
		default:
			return errors.New("trailing element after root element")
		}
	}
}

// json3 is the fmt=json3 timedtext format
type json3 struct {
	Events []json3Event `json:"events"`
}

type json3Event struct {
	StartMs int64          `json:"tStartMs"`
	Segs    []json3Segment `json:"segs"`
}

type json3Segment struct {
	UTF8 string `json:"utf8"`
}

// DecodeJSON3 decodes a fmt=json3 document. Each event carrying segments
// becomes one line; events without segments only position the caption
// window and are skipped
func DecodeJSON3(doc string) (string, error) {
	var parsed json3
	if err := json.Unmarshal([]byte(doc), &parsed); err != nil {
		return "", errors.Join(ErrMalformed, fmt.Errorf("parse timedtext JSON: %w", err))
	}

	segments := make([]string, 0, len(parsed.Events))
	for _, event := range parsed.Events {
		if len(event.Segs) == 0 {
			continue
		}
		var sb strings.Builder
		for _, seg := range event.Segs {
			sb.WriteString(seg.UTF8)
		}
		segments = append(segments, html.UnescapeString(sb.String()))
	}

	return strings.Join(segments, "\n"), nil
}
