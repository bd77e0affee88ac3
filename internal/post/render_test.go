// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-blog/internal/post"
)

/*
TestRenderer_Render converts markdown and strips unsafe markup.
*/
func TestRenderer_Render(t *testing.T) {
	renderer := post.NewRenderer()

	tests := []struct {
		name     string
		content  string
		contains []string
		excludes []string
	}{
		{
			name:     "heading_and_emphasis",
			content:  "# Hello\n\nSome **bold** text.",
			contains: []string{`<h1 id="hello">Hello</h1>`, "<strong>bold</strong>"},
		},
		{
			name:     "gfm_table",
			content:  "| a | b |\n|---|---|\n| 1 | 2 |",
			contains: []string{"<table>", "<td>1</td>"},
		},
		{
			name:     "script_removed",
			content:  "Hi <script>alert('x')</script> there",
			excludes: []string{"<script", "alert("},
		},
		{
			name:     "javascript_link_removed",
			content:  "[click](javascript:alert(1))",
			excludes: []string{"javascript:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html, err := renderer.Render(tt.content)
			require.NoError(t, err)

			for _, fragment := range tt.contains {
				assert.Contains(t, html, fragment)
			}
			for _, fragment := range tt.excludes {
				assert.NotContains(t, html, fragment)
			}
		})
	}
}
