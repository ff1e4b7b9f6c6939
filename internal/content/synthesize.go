package content

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gubarz/coursemd/internal/course"
	"github.com/gubarz/coursemd/internal/markup"
)

type cardTemplate struct {
	stem       string
	category   string
	difficulty string
	cue        *regexp.Regexp
	fallback   string
}

// The five study intents every synthesized deck covers, in order
var cardTemplates = []cardTemplate{
	{
		stem: "What is %s?", category: "definition", difficulty: "basic",
		cue:      regexp.MustCompile(`(?i)\b(is|are|refers to|means|defined)\b`),
		fallback: "%s is a core idea introduced in this subsection.",
	},
	{
		stem: "Why is %s important?", category: "concept", difficulty: "basic",
		cue:      regexp.MustCompile(`(?i)\b(important|because|essential|allows|enables|helps)\b`),
		fallback: "%s underpins the ideas that follow in this module.",
	},
	{
		stem: "How does %s apply in practice?", category: "application", difficulty: "intermediate",
		cue:      regexp.MustCompile(`(?i)\b(example|apply|applied|used|practice|application)\b`),
		fallback: "Work through the examples in this subsection to see %s applied.",
	},
	{
		stem: "What should students remember about %s?", category: "concept", difficulty: "intermediate",
		cue:      regexp.MustCompile(`(?i)\b(remember|key|note|always|never)\b`),
		fallback: "Review the key points of %s before moving on.",
	},
	{
		stem: "How does %s connect to broader topics?", category: "analysis", difficulty: "advanced",
		cue:      regexp.MustCompile(`(?i)\b(relat\w*|connect\w*|build\w*|foundation|broader)\b`),
		fallback: "%s connects to the wider themes of this course.",
	},
}

var (
	sentenceRe  = regexp.MustCompile(`[^.!?\n]+[.!?]?`)
	mdMarkersRe = regexp.MustCompile(`(?m)^\s*(?:#{1,6}\s+|>\s?|[-*+]\s+|\d+\.\s+)|\*\*|__|\*`)
)

// Synthesize builds exactly five flashcards for a subsection with no usable
// card data, drawing answers from whatever text the record carries.
func Synthesize(raw course.Subsection) []course.Flashcard {
	title := bareTitle(raw.Title)
	pool := sentences(raw)
	memo := remembered(raw)
	used := make(map[int]bool)

	cards := make([]course.Flashcard, 0, len(cardTemplates))
	for i, tpl := range cardTemplates {
		answer := ""
		if i == 3 && memo != "" {
			answer = memo
		} else {
			answer = pick(pool, tpl.cue, used)
		}
		if answer == "" {
			answer = fmt.Sprintf(tpl.fallback, title)
		}
		cards = append(cards, course.Flashcard{
			Question:   fmt.Sprintf(tpl.stem, title),
			Answer:     answer,
			Category:   tpl.category,
			Difficulty: tpl.difficulty,
		})
	}
	return cards
}

// pick prefers an unused sentence matching cue, then any unused sentence
func pick(pool []string, cue *regexp.Regexp, used map[int]bool) string {
	for i, s := range pool {
		if !used[i] && cue.MatchString(s) {
			used[i] = true
			return s
		}
	}
	for i, s := range pool {
		if !used[i] {
			used[i] = true
			return s
		}
	}
	return ""
}

func remembered(raw course.Subsection) string {
	if len(raw.KeyPoints) > 0 {
		return strings.TrimSpace(plain(raw.KeyPoints[0]))
	}
	for _, p := range raw.Pages {
		if t := strings.TrimSpace(p.KeyTakeaway); t != "" {
			return plain(t)
		}
	}
	return ""
}

// sentences flattens every text field into plain sentences, in field order
func sentences(raw course.Subsection) []string {
	sources := []string{raw.Summary, raw.Explanation, raw.Content, raw.GeneratedMarkdown}
	for _, p := range raw.Pages {
		switch {
		case p.Content != "":
			sources = append(sources, p.Content)
		case p.HTML != "":
			sources = append(sources, p.HTML)
		default:
			sources = append(sources, p.Text)
		}
	}

	var out []string
	seen := make(map[string]bool)
	for _, src := range sources {
		for _, s := range sentenceRe.FindAllString(plain(src), -1) {
			s = strings.TrimSpace(s)
			if len(s) < 12 || seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func plain(s string) string {
	if markup.IsHTML(s) {
		s = markup.ToMarkdown(s)
	}
	return mdMarkersRe.ReplaceAllString(s, "")
}
