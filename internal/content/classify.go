package content

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gubarz/coursemd/internal/course"
)

const (
	PlaceholderContent = "Content will be available once this page is generated."
	IntroductionTitle  = "Introduction"
	defaultPageLabel   = "Page %d"
)

// Classify picks exactly one variant for a raw subsection. First match wins:
//
//  1. concept/formula cards
//  2. top-level flashcards, or flashcards nested under pages[0]
//  3. pages whose first entry is an object with no flashcards field
//  4. any other pages shape, or a legacy text blob: five synthesized cards
//  5. empty
func Classify(raw course.Subsection) Content {
	if len(raw.ConceptFlashCards) > 0 || len(raw.FormulaFlashCards) > 0 {
		return CategorizedFlashcards{
			ConceptFlashCards: nonNil(raw.ConceptFlashCards),
			FormulaFlashCards: nonNil(raw.FormulaFlashCards),
		}
	}

	if len(raw.Flashcards) > 0 {
		return Flashcards{Summary: raw.Summary, Flashcards: raw.Flashcards}
	}

	if len(raw.Pages) > 0 {
		first := raw.Pages[0]
		switch {
		case first.Text != "":
			return Flashcards{Summary: raw.Summary, Flashcards: Synthesize(raw), Synthesized: true}
		case first.Flashcards == nil:
			return Pages{Pages: normalizePages(raw.Pages)}
		case len(first.Flashcards) > 0:
			summary := raw.Summary
			if strings.TrimSpace(first.Content) != "" {
				summary = first.Content
			}
			return Flashcards{Summary: summary, Flashcards: first.Flashcards}
		default:
			return Flashcards{Summary: raw.Summary, Flashcards: Synthesize(raw), Synthesized: true}
		}
	}

	if legacyText(raw) != "" {
		return Flashcards{Summary: raw.Summary, Flashcards: Synthesize(raw), Synthesized: true}
	}

	return NewEmpty()
}

// NewEmpty returns the placeholder variant for subsections awaiting generation
func NewEmpty() Empty {
	return Empty{Pages: []course.Page{{Title: IntroductionTitle, Content: PlaceholderContent}}}
}

func normalizePages(pages []course.Page) []course.Page {
	out := make([]course.Page, len(pages))
	for i, p := range pages {
		if p.Text != "" && p.Content == "" {
			p.Content = p.Text
		}
		p.Text = ""
		if strings.TrimSpace(p.Title) == "" {
			p.Title = p.PageTitle
		}
		if strings.TrimSpace(p.Title) == "" {
			p.Title = fmt.Sprintf(defaultPageLabel, i+1)
		}
		if strings.TrimSpace(p.Content) == "" && strings.TrimSpace(p.HTML) == "" {
			p.Content = PlaceholderContent
		}
		p.Flashcards = nil
		out[i] = p
	}
	return out
}

// legacyText returns the single-blob body older generators produced
func legacyText(raw course.Subsection) string {
	for _, s := range []string{raw.Explanation, raw.Content, raw.GeneratedMarkdown} {
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// ToPages converts a subsection to the pages variant for editing. Legacy blobs
// become one page; empty subsections get the placeholder page. Every other
// variant field is cleared. Card decks cannot be edited as pages.
func ToPages(raw course.Subsection) (course.Subsection, bool) {
	var pages []course.Page
	switch c := Classify(raw).(type) {
	case Pages:
		pages = c.Pages
	case Empty:
		pages = c.Pages
	case Flashcards:
		if !c.Synthesized {
			return raw, false
		}
		if len(raw.Pages) > 0 {
			pages = normalizePages(raw.Pages)
		} else {
			pages = []course.Page{{Title: IntroductionTitle, Content: legacyText(raw)}}
		}
	default:
		return raw, false
	}

	out := course.Subsection{
		Title:   raw.Title,
		Summary: raw.Summary,
		Pages:   pages,
	}
	return out, true
}

var titleNumberRe = regexp.MustCompile(`^\s*\d+(?:\.\d+)*\.?\s*`)

// bareTitle strips a leading "1.2.3" numbering from a subsection title
func bareTitle(title string) string {
	t := strings.TrimSpace(titleNumberRe.ReplaceAllString(title, ""))
	if t == "" {
		return "this topic"
	}
	return t
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
