// Package mathspan shields LaTeX math spans from text transforms.
//
// Protect swaps every math span for a placeholder token and records the span in
// canonical \( \) or \[ \] form; Restore puts the canonical form back.
package mathspan

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind distinguishes display math from inline math
type Kind string

const (
	Inline Kind = "inline"
	Block  Kind = "block"
)

// Span is one protected math span
type Span struct {
	Placeholder string // Token left in the shielded text
	Original    string // Canonical form: \(...\) or \[...\]
	Kind        Kind
}

// Result holds shielded text and the spans removed from it
type Result struct {
	Shielded string
	Spans    []Span
}

type mathRule struct {
	kind Kind
	re   *regexp.Regexp
}

// Rules run in order; block delimiters first so $$ is never read as two inline $.
var rules = []mathRule{
	{kind: Block, re: regexp.MustCompile(`(?s)\$\$(.+?)\$\$`)},
	{kind: Block, re: regexp.MustCompile(`(?s)\\\[(.+?)\\\]`)},
	{kind: Inline, re: regexp.MustCompile(`\$([^$\n]+?)\$`)},
	{kind: Inline, re: regexp.MustCompile(`\\\((.+?)\\\)`)},
}

// TokenPattern matches the placeholder tokens produced by Protect
var TokenPattern = regexp.MustCompile(`__MATH_(?:INLINE|BLOCK)_\d+__`)

// Protect replaces math spans in text with __MATH_{KIND}_{N}__ tokens.
// N counts up from zero within a single call.
func Protect(text string) Result {
	res := Result{Shielded: text}
	if text == "" {
		return res
	}

	n := 0
	for _, rule := range rules {
		res.Shielded = rule.re.ReplaceAllStringFunc(res.Shielded, func(match string) string {
			inner := rule.re.FindStringSubmatch(match)[1]
			token := fmt.Sprintf("__MATH_%s_%d__", strings.ToUpper(string(rule.kind)), n)
			n++
			res.Spans = append(res.Spans, Span{
				Placeholder: token,
				Original:    canonical(rule.kind, inner),
				Kind:        rule.kind,
			})
			return token
		})
	}
	return res
}

// Restore substitutes each span's token with its canonical original.
// Tokens without a matching span are left untouched.
func Restore(shielded string, spans []Span) string {
	if len(spans) == 0 {
		return shielded
	}
	pairs := make([]string, 0, len(spans)*2)
	for _, s := range spans {
		pairs = append(pairs, s.Placeholder, s.Original)
	}
	return strings.NewReplacer(pairs...).Replace(shielded)
}

// Restore is shorthand for Restore(r.Shielded, r.Spans) on transformed text
func (r Result) Restore(text string) string {
	return Restore(text, r.Spans)
}

func canonical(kind Kind, inner string) string {
	if kind == Block {
		return `\[` + inner + `\]`
	}
	return `\(` + inner + `\)`
}
