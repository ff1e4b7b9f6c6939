package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gubarz/coursemd/internal/course"
)

func execute(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func TestConvertCommands(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := []struct {
		name  string
		args  []string
		stdin string
		want  string
	}{
		{"tohtml", []string{"tohtml"}, "**b**", "<p><strong>b</strong></p>\n"},
		{"tomd", []string{"tomd"}, "<p><strong>b</strong></p>", "**b**\n"},
		{"preview html", []string{"preview", "--html"}, "# Hi", "<h1>Hi</h1>\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := execute(t, tt.stdin, tt.args...); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadOutline(t *testing.T) {
	dir := t.TempDir()
	md := filepath.Join(dir, "notes.md")
	if err := os.WriteFile(md, []byte("### 1.1 Forces\n#### 1.1.1 Newton\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	mod := filepath.Join(dir, "module.json")
	if err := course.WriteFile(mod, &course.Module{Title: "M", Content: "#### 2.1.1 Heat"}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path   string
		number string
	}{
		{md, "1.1.1"},
		{mod, "2.1.1"},
	}
	for _, tt := range tests {
		outline, err := loadOutline(tt.path)
		if err != nil {
			t.Fatalf("%s: %v", tt.path, err)
		}
		if len(outline.Subsections) != 1 || outline.Subsections[0].Number != tt.number {
			t.Errorf("%s: subsections = %+v", tt.path, outline.Subsections)
		}
	}
}

func TestSubsectionText(t *testing.T) {
	tests := []struct {
		name string
		raw  course.Subsection
		want string
	}{
		{
			name: "pages",
			raw:  course.Subsection{Title: "T", Pages: []course.Page{{Title: "A", HTML: "<p>x</p>"}}},
			want: "## A\n\nx",
		},
		{
			name: "formula cards",
			raw:  course.Subsection{Title: "T", FormulaFlashCards: []course.CardPair{{Question: "F", Answer: "ma"}}},
			want: "F\nma",
		},
		{
			name: "nothing generated",
			raw:  course.Subsection{Title: "1.1 Pending"},
			want: "1.1 Pending",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := subsectionText(tt.raw); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestModuleExt(t *testing.T) {
	for format, want := range map[string]string{"": ".json", "json": ".json", "YAML": ".yaml", "yml": ".yaml"} {
		got, err := moduleExt(format)
		if err != nil || got != want {
			t.Errorf("moduleExt(%q) = %q, %v", format, got, err)
		}
	}
	if _, err := moduleExt("toml"); err == nil {
		t.Error("expected error for toml")
	}
}
