package markup

import (
	"regexp"
	"strings"
)

// tagRe matches tags from the HTML vocabulary pages use. Attributes must
// carry a value, so comparisons like "n<b and c>k" are not read as tags.
var tagRe = regexp.MustCompile(`(?i)</?(?:p|h[1-6]|strong|b|em|i|u|s|sub|sup|ul|ol|li|a|img|br|hr|pre|code|blockquote|div|span|table|thead|tbody|tr|th|td)` +
	`(?:\s+[a-z][\w:-]*\s*=\s*(?:"[^"]*"|'[^']*'|[^\s"'>]+))*\s*/?>`)

// Mode is the format a page is edited in
type Mode string

const (
	ModeMarkdown Mode = "markdown"
	ModeHTML     Mode = "html"
)

// ParseMode maps a config or flag value to a Mode, defaulting to Markdown
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), string(ModeHTML)) {
		return ModeHTML
	}
	return ModeMarkdown
}

// IsHTML reports whether s contains at least one HTML tag
func IsHTML(s string) bool {
	return tagRe.MatchString(s)
}

// As converts content into mode, leaving it alone when it is already there
func As(content string, mode Mode) string {
	switch mode {
	case ModeHTML:
		if IsHTML(content) {
			return content
		}
		return ToHTML(content)
	default:
		if !IsHTML(content) {
			return content
		}
		return ToMarkdown(content)
	}
}
