package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"youtube-caption/pkg/domain"
)

const noCaption = "NO CAPTION"

func render(w io.Writer, result *domain.PromptResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(result)
	}

	if result.Len() == 0 {
		_, err := fmt.Fprintln(w, "No YouTube video URLs found.")
		return err
	}

	for _, r := range result.Results() {
		if err := renderVideo(w, r); err != nil {
			return err
		}
	}
	return nil
}

func renderVideo(w io.Writer, r domain.VideoResult) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s:\n", r.URL)
	if r.Title != "" {
		fmt.Fprintf(&sb, "Title: %s\n", r.Title)
	}
	if r.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", r.Description)
	}
	if r.Language != "" {
		fmt.Fprintf(&sb, "Language: %s\n", r.Language)
	}

	caption := noCaption
	if r.HasCaption() {
		caption = r.CaptionText()
	}
	fmt.Fprintf(&sb, "%s\n\n", caption)

	_, err := io.WriteString(w, sb.String())
	return err
}
