package report

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const htmlShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s</body>
</html>
`

// RenderHTML converts Markdown to an HTML fragment. GFM is enabled so the
// pipe tables come out as <table>.
func RenderHTML(markdown string) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// HTML renders the report as a standalone page.
func (r *Report) HTML() (string, error) {
	body, err := RenderHTML(r.Markdown())
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(htmlShell, html.EscapeString(r.title()), body), nil
}

// WriteFile writes HTML for .html/.htm paths and Markdown otherwise.
func (r *Report) WriteFile(path string) error {
	var content string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		page, err := r.HTML()
		if err != nil {
			return err
		}
		content = page
	default:
		content = r.Markdown()
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
