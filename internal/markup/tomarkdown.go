package markup

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

var (
	delimitedMathRe = regexp.MustCompile(`(?s)\\\[.+?\\\]|\\\(.+?\\\)`)

	preCodeRe    = regexp.MustCompile(`(?is)<pre\b[^>]*>\s*<code\b([^>]*)>(.*?)</code>\s*</pre>`)
	codeTagRe    = regexp.MustCompile(`(?is)<code\b[^>]*>(.*?)</code>`)
	langClassRe  = regexp.MustCompile(`(?i)class\s*=\s*["'][^"']*?language-([\w+#-]+)`)
	headingTagRe = regexp.MustCompile(`(?is)<h([1-6])\b[^>]*>(.*?)</h[1-6]>`)
	strongTagRe  = regexp.MustCompile(`(?is)<(?:strong|b)(?:\s[^>]*)?>(.*?)</(?:strong|b)>`)
	emTagRe      = regexp.MustCompile(`(?is)<(?:em|i)(?:\s[^>]*)?>(.*?)</(?:em|i)>`)
	quoteTagRe   = regexp.MustCompile(`(?is)<blockquote\b[^>]*>(.*?)</blockquote>`)
	olTagRe      = regexp.MustCompile(`(?is)<ol\b[^>]*>(.*?)</ol>`)
	ulTagRe      = regexp.MustCompile(`(?is)<ul\b[^>]*>(.*?)</ul>`)
	liTagRe      = regexp.MustCompile(`(?is)<li\b[^>]*>(.*?)</li>`)
	imgTagRe     = regexp.MustCompile(`(?i)<img\b[^>]*>`)
	aTagRe       = regexp.MustCompile(`(?is)<a\b[^>]*?href\s*=\s*["']([^"']*)["'][^>]*>(.*?)</a>`)
	brTagRe      = regexp.MustCompile(`(?i)<br\s*/?>`)
	pOpenRe      = regexp.MustCompile(`(?i)<p\b[^>]*>`)
	pCloseRe     = regexp.MustCompile(`(?i)</p>`)
	anyTagRe     = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)
	blankRunRe   = regexp.MustCompile(`\n{3,}`)
	spaceRunRe   = regexp.MustCompile(`[ \t]+`)
	altAttrRe    = regexp.MustCompile(`(?i)\balt\s*=\s*["']([^"']*)["']`)
	srcAttrRe    = regexp.MustCompile(`(?i)\bsrc\s*=\s*["']([^"']*)["']`)
)

// ToMarkdown converts HTML produced by ToHTML or a generation backend back to
// Markdown. It is best effort: unknown tags are dropped and their text kept.
func ToMarkdown(src string) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}

	text := crlfOrCR.ReplaceAllString(src, "\n")

	// Math like \(a<b\) would otherwise look like a tag to the stripper.
	// Dollar signs are left alone; in HTML they are usually currency.
	var st stash
	text = delimitedMathRe.ReplaceAllStringFunc(text, st.put)

	text = preCodeRe.ReplaceAllStringFunc(text, func(m string) string {
		sub := preCodeRe.FindStringSubmatch(m)
		lang := ""
		if lm := langClassRe.FindStringSubmatch(sub[1]); lm != nil {
			lang = lm[1]
		}
		code := html.UnescapeString(anyTagRe.ReplaceAllString(sub[2], ""))
		return "\n\n" + st.put("```"+lang+"\n"+strings.Trim(code, "\n")+"\n```") + "\n\n"
	})
	text = codeTagRe.ReplaceAllStringFunc(text, func(m string) string {
		inner := codeTagRe.FindStringSubmatch(m)[1]
		return st.put("`" + html.UnescapeString(anyTagRe.ReplaceAllString(inner, "")) + "`")
	})

	text = headingTagRe.ReplaceAllStringFunc(text, func(m string) string {
		sub := headingTagRe.FindStringSubmatch(m)
		level, _ := strconv.Atoi(sub[1])
		return "\n\n" + strings.Repeat("#", level) + " " + oneLine(sub[2]) + "\n\n"
	})
	text = strongTagRe.ReplaceAllString(text, "**$1**")
	text = emTagRe.ReplaceAllString(text, "*$1*")

	text = imgTagRe.ReplaceAllStringFunc(text, func(m string) string {
		return "![" + attr(altAttrRe, m) + "](" + attr(srcAttrRe, m) + ")"
	})
	text = aTagRe.ReplaceAllString(text, "[$2]($1)")

	text = quoteTagRe.ReplaceAllStringFunc(text, func(m string) string {
		inner := quoteTagRe.FindStringSubmatch(m)[1]
		inner = brTagRe.ReplaceAllString(inner, "\n")
		inner = pCloseRe.ReplaceAllString(inner, "\n")
		inner = anyTagRe.ReplaceAllString(inner, "")
		var lines []string
		for _, line := range strings.Split(strings.TrimSpace(inner), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, "> "+line)
			}
		}
		return "\n\n" + strings.Join(lines, "\n") + "\n\n"
	})

	text = olTagRe.ReplaceAllStringFunc(text, func(m string) string {
		return "\n\n" + listItems(olTagRe.FindStringSubmatch(m)[1], true) + "\n\n"
	})
	text = ulTagRe.ReplaceAllStringFunc(text, func(m string) string {
		return "\n\n" + listItems(ulTagRe.FindStringSubmatch(m)[1], false) + "\n\n"
	})
	text = liTagRe.ReplaceAllString(text, "- $1\n")

	text = brTagRe.ReplaceAllString(text, "\n")
	text = pCloseRe.ReplaceAllString(text, "\n\n")
	text = pOpenRe.ReplaceAllString(text, "")
	text = anyTagRe.ReplaceAllString(text, "")
	text = html.UnescapeString(text)

	text = st.restore(text)
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

func listItems(inner string, ordered bool) string {
	var lines []string
	for i, item := range liTagRe.FindAllStringSubmatch(inner, -1) {
		marker := "- "
		if ordered {
			marker = strconv.Itoa(i+1) + ". "
		}
		lines = append(lines, marker+oneLine(item[1]))
	}
	return strings.Join(lines, "\n")
}

// oneLine flattens a fragment that must stay on a single Markdown line
func oneLine(s string) string {
	s = brTagRe.ReplaceAllString(s, " ")
	s = pOpenRe.ReplaceAllString(s, "")
	s = pCloseRe.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(spaceRunRe.ReplaceAllString(s, " "))
}

func attr(re *regexp.Regexp, tag string) string {
	if m := re.FindStringSubmatch(tag); m != nil {
		return m[1]
	}
	return ""
}
