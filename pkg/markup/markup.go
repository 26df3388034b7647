// Package markup renders user supplied Markdown into safe HTML
package markup

import (
	"bytes"
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	initOnce sync.Once
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
)

func setup() {
	initOnce.Do(func() {
		markdown = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		)

		policy = bluemonday.UGCPolicy()
		policy.RequireNoFollowOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)
	})
}

// Render converts Markdown to sanitized HTML. Raw HTML in the source is
// escaped by goldmark and anything unsafe left over is stripped
func Render(source string) (template.HTML, error) {
	setup()

	if strings.TrimSpace(source) == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return "", err
	}

	return template.HTML(policy.SanitizeBytes(buf.Bytes())), nil
}

// MustRender is Render for templates. A conversion failure falls back to the
// escaped source
func MustRender(source string) template.HTML {
	out, err := Render(source)
	if err != nil {
		return template.HTML(template.HTMLEscapeString(source))
	}
	return out
}
