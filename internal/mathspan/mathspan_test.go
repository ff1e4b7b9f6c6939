package mathspan

import (
	"strings"
	"testing"
)

func TestProtect(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		shielded string
		spans    []Span
	}{
		{
			name:     "inline dollar",
			input:    "Some $x^2+1$ text",
			shielded: "Some __MATH_INLINE_0__ text",
			spans:    []Span{{Placeholder: "__MATH_INLINE_0__", Original: `\(x^2+1\)`, Kind: Inline}},
		},
		{
			name:     "block before inline",
			input:    "$$a_1 + b_2$$ and $c$",
			shielded: "__MATH_BLOCK_0__ and __MATH_INLINE_1__",
			spans: []Span{
				{Placeholder: "__MATH_BLOCK_0__", Original: `\[a_1 + b_2\]`, Kind: Block},
				{Placeholder: "__MATH_INLINE_1__", Original: `\(c\)`, Kind: Inline},
			},
		},
		{
			name:     "block spans newlines",
			input:    "$$\n\\frac{a}{b}\n$$",
			shielded: "__MATH_BLOCK_0__",
			spans:    []Span{{Placeholder: "__MATH_BLOCK_0__", Original: "\\[\n\\frac{a}{b}\n\\]", Kind: Block}},
		},
		{
			name:     "backslash delimiters",
			input:    `\[E=mc^2\] then \(v_0\)`,
			shielded: "__MATH_BLOCK_0__ then __MATH_INLINE_1__",
			spans: []Span{
				{Placeholder: "__MATH_BLOCK_0__", Original: `\[E=mc^2\]`, Kind: Block},
				{Placeholder: "__MATH_INLINE_1__", Original: `\(v_0\)`, Kind: Inline},
			},
		},
		{
			name:     "inline dollar does not cross lines",
			input:    "costs $5\nand $6",
			shielded: "costs $5\nand $6",
		},
		{
			name:     "no math",
			input:    "**plain** text",
			shielded: "**plain** text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Protect(tt.input)
			if res.Shielded != tt.shielded {
				t.Errorf("shielded = %q, want %q", res.Shielded, tt.shielded)
			}
			if len(res.Spans) != len(tt.spans) {
				t.Fatalf("got %d spans, want %d: %+v", len(res.Spans), len(tt.spans), res.Spans)
			}
			for i, want := range tt.spans {
				if res.Spans[i] != want {
					t.Errorf("span[%d] = %+v, want %+v", i, res.Spans[i], want)
				}
			}
		})
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	inputs := []string{
		"mix $a_b$ with **bold_text** and $$x_1 * y_2$$",
		`\(\alpha\) _under_ \[\sum_{i=0}^n i\]`,
		"# Heading $h$\n- item $$z$$",
	}
	for _, in := range inputs {
		res := Protect(in)
		if strings.Contains(res.Shielded, "$") {
			t.Errorf("shielded text still contains a dollar: %q", res.Shielded)
		}
		out := Restore(res.Shielded, res.Spans)
		for _, s := range res.Spans {
			if !strings.Contains(out, s.Original) {
				t.Errorf("restored %q missing span %q", out, s.Original)
			}
		}
		if again := Protect(out); len(again.Spans) != len(res.Spans) {
			t.Errorf("canonical output re-protects to %d spans, want %d", len(again.Spans), len(res.Spans))
		}
	}
}

func TestRestoreLeavesUnknownTokens(t *testing.T) {
	got := Restore("a __MATH_INLINE_7__ b __MATH_INLINE_0__", []Span{{Placeholder: "__MATH_INLINE_0__", Original: `\(x\)`}})
	want := `a __MATH_INLINE_7__ b \(x\)`
	if got != want {
		t.Errorf("Restore = %q, want %q", got, want)
	}
}

func TestProtectIsStateless(t *testing.T) {
	first := Protect("$a$ $b$")
	second := Protect("$c$")
	if second.Spans[0].Placeholder != "__MATH_INLINE_0__" {
		t.Errorf("numbering leaked between calls: %q", second.Spans[0].Placeholder)
	}
	if len(first.Spans) != 2 {
		t.Errorf("want 2 spans, got %d", len(first.Spans))
	}
}
