// Package markup converts page content between the Markdown subset the authoring
// tool produces and HTML, keeping LaTeX math spans intact in both directions.
package markup

import (
	"html"
	"regexp"
	"strings"

	"github.com/gubarz/coursemd/internal/mathspan"
)

var (
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	fencedCodeRe = regexp.MustCompile("(?s)```([\\w+#-]*)[ \\t]*\\n(.*?)\\n?```")
	inlineCodeRe = regexp.MustCompile("`([^`\\n]+)`")

	headingRe    = regexp.MustCompile(`^(#{1,4})\s+(.+)$`)
	blockquoteRe = regexp.MustCompile(`^>\s?(.*)$`)
	unorderedRe  = regexp.MustCompile(`^\s*[-*+]\s+(.*)$`)
	orderedRe    = regexp.MustCompile(`^\s*\d+[.)]\s+(.*)$`)

	imageRe       = regexp.MustCompile(`!\[([^\]]*)\]\(([^)\s]+)\)`)
	linkRe        = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)
	boldEmStarRe  = regexp.MustCompile(`\*\*\*(.+?)\*\*\*`)
	boldEmUnderRe = regexp.MustCompile(`___(.+?)___`)
	boldStarRe    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	boldUnderRe   = regexp.MustCompile(`__(.+?)__`)
	italicStarRe  = regexp.MustCompile(`\*([^*\n]+)\*`)
	italicUnderRe = regexp.MustCompile(`\b_([^_\n]+)_\b`)
)

type listKind int

const (
	noList listKind = iota
	unorderedList
	orderedList
)

// ToHTML converts Markdown to HTML. Math spans come out in canonical \( \) / \[ \]
// form so a KaTeX viewer can render them directly. Input that is already HTML
// should be routed around this function with IsHTML.
func ToHTML(markdown string) string {
	if strings.TrimSpace(markdown) == "" {
		return ""
	}

	text := crlfOrCR.ReplaceAllString(markdown, "\n")

	var st stash
	text = fencedCodeRe.ReplaceAllStringFunc(text, func(m string) string {
		sub := fencedCodeRe.FindStringSubmatch(m)
		open := "<pre><code>"
		if sub[1] != "" {
			open = `<pre><code class="language-` + sub[1] + `">`
		}
		return "\n" + st.putBlock(open+html.EscapeString(sub[2])+"</code></pre>") + "\n"
	})
	text = inlineCodeRe.ReplaceAllStringFunc(text, func(m string) string {
		return st.put("<code>" + html.EscapeString(m[1:len(m)-1]) + "</code>")
	})

	math := mathspan.Protect(text)
	text = st.maskMath(math.Shielded)

	out := renderBlocks(strings.Split(text, "\n"), &st)
	return math.Restore(st.restore(out))
}

// renderBlocks groups lines into headings, quotes, lists and paragraphs
func renderBlocks(lines []string, st *stash) string {
	var out []string
	var para, quote, items []string
	kind := noList

	flushPara := func() {
		if len(para) > 0 {
			out = append(out, "<p>"+renderInline(strings.Join(para, "<br>"), st)+"</p>")
			para = nil
		}
	}
	flushQuote := func() {
		if len(quote) > 0 {
			out = append(out, "<blockquote>"+renderInline(strings.Join(quote, "<br>"), st)+"</blockquote>")
			quote = nil
		}
	}
	flushList := func() {
		if len(items) == 0 {
			return
		}
		tag := "ul"
		if kind == orderedList {
			tag = "ol"
		}
		var b strings.Builder
		b.WriteString("<" + tag + ">")
		for _, item := range items {
			b.WriteString("<li>" + renderInline(item, st) + "</li>")
		}
		b.WriteString("</" + tag + ">")
		out = append(out, b.String())
		items = nil
		kind = noList
	}
	flushAll := func() {
		flushPara()
		flushQuote()
		flushList()
	}

	for _, raw := range lines {
		line := strings.TrimRight(raw, " \t")
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			flushAll()

		case st.isBlock(trimmed):
			flushAll()
			out = append(out, trimmed)

		case headingRe.MatchString(trimmed):
			flushAll()
			m := headingRe.FindStringSubmatch(trimmed)
			level := string(rune('0' + len(m[1])))
			out = append(out, "<h"+level+">"+renderInline(strings.TrimSpace(m[2]), st)+"</h"+level+">")

		case blockquoteRe.MatchString(trimmed):
			flushPara()
			flushList()
			quote = append(quote, blockquoteRe.FindStringSubmatch(trimmed)[1])

		case unorderedRe.MatchString(line):
			flushPara()
			flushQuote()
			if kind != unorderedList {
				flushList()
				kind = unorderedList
			}
			items = append(items, unorderedRe.FindStringSubmatch(line)[1])

		case orderedRe.MatchString(line):
			flushPara()
			flushQuote()
			if kind != orderedList {
				flushList()
				kind = orderedList
			}
			items = append(items, orderedRe.FindStringSubmatch(line)[1])

		default:
			flushQuote()
			flushList()
			para = append(para, trimmed)
		}
	}
	flushAll()

	return strings.Join(out, "\n")
}

// renderInline applies span-level rules. Generated tags carrying attributes are
// stashed so emphasis rules never rewrite a URL.
func renderInline(text string, st *stash) string {
	text = imageRe.ReplaceAllStringFunc(text, func(m string) string {
		sub := imageRe.FindStringSubmatch(m)
		return st.put(`<img src="` + sub[2] + `" alt="` + sub[1] + `">`)
	})
	text = linkRe.ReplaceAllStringFunc(text, func(m string) string {
		sub := linkRe.FindStringSubmatch(m)
		return st.put(`<a href="`+sub[2]+`">`) + sub[1] + "</a>"
	})
	text = boldEmStarRe.ReplaceAllString(text, "<strong><em>$1</em></strong>")
	text = boldEmUnderRe.ReplaceAllString(text, "<strong><em>$1</em></strong>")
	text = boldStarRe.ReplaceAllString(text, "<strong>$1</strong>")
	text = boldUnderRe.ReplaceAllString(text, "<strong>$1</strong>")
	text = italicStarRe.ReplaceAllString(text, "<em>$1</em>")
	text = italicUnderRe.ReplaceAllString(text, "<em>$1</em>")
	return text
}
