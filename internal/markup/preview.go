package markup

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/gubarz/coursemd/internal/mathspan"
)

// previewer is the configured goldmark instance, reused across calls.
// Raw HTML passes through so pages that already hold HTML still preview.
var previewer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
)

// Preview renders Markdown with goldmark (tables, strikethrough, autolinks) for
// full-fidelity previews. Math is shielded from the parser and emitted in
// escaped canonical form.
func Preview(markdown string) (string, error) {
	math := mathspan.Protect(crlfOrCR.ReplaceAllString(markdown, "\n"))
	var st stash
	src := st.maskMath(math.Shielded)

	var buf bytes.Buffer
	if err := previewer.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render preview: %w", err)
	}

	spans := make([]mathspan.Span, len(math.Spans))
	for i, s := range math.Spans {
		s.Original = html.EscapeString(s.Original)
		spans[i] = s
	}
	return mathspan.Restore(st.restore(buf.String()), spans), nil
}

const documentTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/katex@0.16.9/dist/katex.min.css">
<script defer src="https://cdn.jsdelivr.net/npm/katex@0.16.9/dist/katex.min.js"></script>
<script defer src="https://cdn.jsdelivr.net/npm/katex@0.16.9/dist/contrib/auto-render.min.js"
  onload="renderMathInElement(document.body)"></script>
</head>
<body>
%s
</body>
</html>
`

// Document wraps a rendered body in a standalone page that loads KaTeX
func Document(title, body string) string {
	return fmt.Sprintf(documentTemplate, html.EscapeString(title), body)
}
