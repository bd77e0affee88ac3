// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer converts post content from markdown to sanitized HTML.
//
// Raw HTML in the markdown is passed through by goldmark and then stripped
// down to a user-generated-content allow-list by bluemonday.
// A Renderer is safe for concurrent use.
type Renderer struct {
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
}

// NewRenderer builds a renderer with GitHub Flavored Markdown enabled.
func NewRenderer() *Renderer {
	markdown := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			extension.Typographer,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithUnsafe(),
		),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "span")
	policy.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")

	return &Renderer{markdown: markdown, policy: policy}
}

// Render converts markdown to safe HTML.
func (renderer *Renderer) Render(content string) (string, error) {
	var buf bytes.Buffer
	if err := renderer.markdown.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("render: markdown conversion failed: %w", err)
	}
	return renderer.policy.Sanitize(buf.String()), nil
}
