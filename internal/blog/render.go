package blog

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

var markdownEngine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithXHTML(),
	),
)

var pageTemplate = template.Must(template.New("blog").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<article>
{{.Body}}
</article>
</body>
</html>
`))

// RenderHTML converts markdown into an HTML fragment. Raw HTML in the
// source is not passed through.
func RenderHTML(markdown string) (string, error) {
	var out bytes.Buffer
	if err := markdownEngine.Convert([]byte(markdown), &out); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out.String(), nil
}

// RenderPage wraps the rendered post in a standalone HTML document.
func RenderPage(title, markdown string) ([]byte, error) {
	body, err := RenderHTML(markdown)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	err = pageTemplate.Execute(&out, struct {
		Title string
		Body  template.HTML
	}{
		Title: title,
		Body:  template.HTML(body),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render page: %w", err)
	}
	return out.Bytes(), nil
}
