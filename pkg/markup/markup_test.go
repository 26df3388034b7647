package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		contains []string
		excludes []string
	}{
		{
			name:     "emphasis",
			source:   "**bold** and _italic_",
			contains: []string{"<strong>bold</strong>", "<em>italic</em>"},
		},
		{
			name:     "list",
			source:   "- one\n- two",
			contains: []string{"<ul>", "<li>one</li>"},
		},
		{
			name:     "raw html escaped",
			source:   "<script>alert(1)</script>",
			excludes: []string{"<script>"},
		},
		{
			name:     "javascript link dropped",
			source:   "[click](javascript:alert(1))",
			excludes: []string{"javascript:"},
		},
		{
			name:     "external link",
			source:   "[docs](https://example.com)",
			contains: []string{`href="https://example.com"`, `rel="nofollow`},
		},
		{
			name:     "hard wraps",
			source:   "first\nsecond",
			contains: []string{"<br"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Render(tt.source)
			require.NoError(t, err)

			for _, want := range tt.contains {
				assert.Contains(t, string(out), want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, string(out), unwanted)
			}
		})
	}
}

func TestRenderEmpty(t *testing.T) {
	out, err := Render("  \n ")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Empty(t, MustRender(""))
}
