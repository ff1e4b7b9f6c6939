package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/gubarz/coursemd/internal/content"
	"github.com/gubarz/coursemd/internal/course"
	"github.com/gubarz/coursemd/internal/markup"
	"github.com/gubarz/coursemd/internal/mathspan"
)

// Renderer turns markdown into terminal output
type Renderer interface {
	Render(markdown string) (string, error)
}

// RendererFactory builds a renderer for a wrap width
type RendererFactory func(width int) (Renderer, error)

// GlamourRenderer returns a factory for glamour renderers in the given style
func GlamourRenderer(style string) RendererFactory {
	return func(width int) (Renderer, error) {
		opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
		if style == "" || style == "auto" {
			opts = append(opts, glamour.WithAutoStyle())
		} else {
			opts = append(opts, glamour.WithStandardStyle(style))
		}
		r, err := glamour.NewTermRenderer(opts...)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
}

// ShieldMath wraps each math span in a code span so the terminal renderer
// shows the LaTeX source untouched
func ShieldMath(md string) string {
	res := mathspan.Protect(md)
	if len(res.Spans) == 0 {
		return md
	}
	pairs := make([]string, 0, 2*len(res.Spans))
	for _, s := range res.Spans {
		pairs = append(pairs, s.Placeholder, "`"+s.Original+"`")
	}
	return strings.NewReplacer(pairs...).Replace(res.Shielded)
}

// subsectionMarkdown renders one subsection as markdown for preview. page
// selects the page for paged content.
func subsectionMarkdown(title string, raw course.Subsection, page int) string {
	b := getBuilder()
	defer putBuilder(b)
	fmt.Fprintf(b, "# %s\n\n", title)

	switch c := content.Classify(raw).(type) {
	case content.Pages:
		writePage(b, c.Pages, page)
	case content.Empty:
		writePage(b, c.Pages, 0)
	case content.Flashcards:
		if c.Summary != "" {
			b.WriteString(markup.As(c.Summary, markup.ModeMarkdown))
			b.WriteString("\n\n")
		}
		for i, card := range c.Flashcards {
			fmt.Fprintf(b, "%d. **%s**\n   %s", i+1, card.Question, card.Answer)
			if card.Difficulty != "" {
				fmt.Fprintf(b, " _(%s)_", card.Difficulty)
			}
			b.WriteString("\n")
		}
	case content.CategorizedFlashcards:
		writePairs(b, "Concept cards", c.ConceptFlashCards)
		writePairs(b, "Formula cards", c.FormulaFlashCards)
	}
	return b.String()
}

func writePage(b *strings.Builder, pages []course.Page, index int) {
	if len(pages) == 0 {
		return
	}
	index = clamp(index, 0, len(pages)-1)
	p := pages[index]
	fmt.Fprintf(b, "## %s _(page %d of %d)_\n\n", p.Title, index+1, len(pages))
	body := p.Content
	if body == "" {
		body = p.HTML
	}
	b.WriteString(markup.As(body, markup.ModeMarkdown))
	if p.KeyTakeaway != "" {
		fmt.Fprintf(b, "\n\n> %s", p.KeyTakeaway)
	}
	b.WriteString("\n")
}

func writePairs(b *strings.Builder, heading string, pairs []course.CardPair) {
	if len(pairs) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", heading)
	for _, p := range pairs {
		fmt.Fprintf(b, "- **%s** %s\n", p.Question, p.Answer)
	}
	b.WriteString("\n")
}
