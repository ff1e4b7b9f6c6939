package course

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleJSON = `{
  "title": "Kinematics",
  "content": "### 1.1 Motion\n#### 1.1.1 Speed",
  "detailedSubsections": [
    {"title": "1.1.1 Speed", "pages": [{"title": "Intro", "content": "v = d/t"}]},
    {"title": "1.1.2 Legacy", "pages": [{"content": "old", "flashcards": []}]}
  ],
  "subsectionQuizzes": {"0_easy": {"questions": [{"question": "Q"}], "difficulty": "easy", "subsectionTitle": "Speed", "totalQuestions": 1}}
}`

const sampleYAML = `title: Waves
detailedSubsections:
  - title: 2.1.1 Frequency
    explanation: How often a wave repeats.
`

func TestDecodeFormats(t *testing.T) {
	m, err := Decode([]byte(sampleJSON), FormatJSON)
	if err != nil {
		t.Fatalf("Decode json: %v", err)
	}
	if m.Title != "Kinematics" || len(m.DetailedSubsections) != 2 {
		t.Fatalf("unexpected module: %+v", m)
	}
	if m.DetailedSubsections[0].Pages[0].Flashcards != nil {
		t.Error("absent flashcards should decode as nil")
	}
	if fc := m.DetailedSubsections[1].Pages[0].Flashcards; fc == nil || len(fc) != 0 {
		t.Errorf("empty flashcards should decode as empty non-nil slice, got %#v", fc)
	}
	if q := m.SubsectionQuizzes[QuizKey(0, "easy")]; q.TotalQuestions != 1 {
		t.Errorf("quiz not decoded: %+v", q)
	}

	y, err := Decode([]byte(sampleYAML), FormatYAML)
	if err != nil {
		t.Fatalf("Decode yaml: %v", err)
	}
	if y.DetailedSubsections[0].Explanation != "How often a wave repeats." {
		t.Errorf("yaml explanation = %q", y.DetailedSubsections[0].Explanation)
	}
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path string
		want Format
		err  bool
	}{
		{path: "a.json", want: FormatJSON},
		{path: "b.YAML", want: FormatYAML},
		{path: "c.yml", want: FormatYAML},
		{path: "d.md", err: true},
	}
	for _, tt := range tests {
		got, err := FormatOf(tt.path)
		if tt.err {
			if !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("FormatOf(%q) err = %v, want ErrUnsupportedFormat", tt.path, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("FormatOf(%q) = %q, %v", tt.path, got, err)
		}
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	edited := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m := &Module{
		Title: "Optics",
		DetailedSubsections: []Subsection{{
			Title: "3.1.1 Lenses",
			Pages: []Page{{Title: "Focal length", Content: "$f$", IsManuallyEdited: true, LastEditedAt: &edited}},
		}},
	}

	for _, name := range []string{"optics.json", "optics.yaml"} {
		path := filepath.Join(dir, name)
		if err := WriteFile(path, m); err != nil {
			t.Fatalf("WriteFile(%s): %v", name, err)
		}
		got, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile(%s): %v", name, err)
		}
		page := got.DetailedSubsections[0].Pages[0]
		if !page.IsManuallyEdited || page.LastEditedAt == nil || !page.LastEditedAt.Equal(edited) {
			t.Errorf("%s: edit metadata lost: %+v", name, page)
		}
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Errorf("temp files left behind: %d entries", len(entries))
	}
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "unit2")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	os.WriteFile(filepath.Join(dir, "a.json"), []byte(sampleJSON), 0o644)
	os.WriteFile(filepath.Join(sub, "b.yaml"), []byte(sampleYAML), 0o644)
	os.WriteFile(filepath.Join(dir, "notes.md"), []byte("# ignored"), 0o644)

	mods, err := LoadDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if len(mods) != 2 {
		t.Fatalf("want 2 modules, got %d", len(mods))
	}
	if mods[0].Module.Title != "Kinematics" || mods[1].Module.Title != "Waves" {
		t.Errorf("unexpected order: %s, %s", mods[0].Module.Title, mods[1].Module.Title)
	}
}

func TestLoadDirectoryReportsBadFile(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), 0o644)
	if _, err := LoadDirectory(context.Background(), dir); err == nil {
		t.Error("expected decode error")
	}
}

func TestCloneIsDeep(t *testing.T) {
	m := &Module{
		Objectives:          []string{"a"},
		DetailedSubsections: []Subsection{{Title: "x", Pages: []Page{{Content: "one"}}}},
		SubsectionQuizzes:   map[string]Quiz{"0_easy": {Difficulty: "easy"}},
	}
	c := m.Clone()
	c.Objectives[0] = "b"
	c.DetailedSubsections[0].Pages[0].Content = "two"
	c.SubsectionQuizzes["1_hard"] = Quiz{}

	if m.Objectives[0] != "a" || m.DetailedSubsections[0].Pages[0].Content != "one" || len(m.SubsectionQuizzes) != 1 {
		t.Error("clone aliases the original")
	}
}

func TestDecodeBareTextPages(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{"json", `{"title":"M","detailedSubsections":[{"title":"1.1.1 Old","pages":["legacy text page", 3]}]}`, FormatJSON},
		{"yaml", "title: M\ndetailedSubsections:\n  - title: 1.1.1 Old\n    pages:\n      - legacy text page\n      - 3\n", FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Decode([]byte(tt.data), tt.format)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			pages := m.DetailedSubsections[0].Pages
			if len(pages) != 2 || pages[0].Text != "legacy text page" || pages[1].Text != "3" {
				t.Fatalf("pages = %+v", pages)
			}

			out, err := Encode(m, tt.format)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			again, err := Decode(out, tt.format)
			if err != nil {
				t.Fatalf("Decode after Encode: %v\n%s", err, out)
			}
			if got := again.DetailedSubsections[0].Pages[0].Text; got != "legacy text page" {
				t.Errorf("text after round trip = %q\n%s", got, out)
			}
		})
	}
}

func TestWriteFileKeepsEmptyFlashcards(t *testing.T) {
	dir := t.TempDir()
	m := &Module{
		Title: "Legacy",
		DetailedSubsections: []Subsection{{
			Title: "1.1.2 Legacy",
			Pages: []Page{{Content: "old", Flashcards: []Flashcard{}}, {Content: "plain"}},
		}},
	}
	for _, name := range []string{"legacy.json", "legacy.yaml"} {
		path := filepath.Join(dir, name)
		if err := WriteFile(path, m.Clone()); err != nil {
			t.Fatalf("WriteFile(%s): %v", name, err)
		}
		got, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile(%s): %v", name, err)
		}
		pages := got.DetailedSubsections[0].Pages
		if fc := pages[0].Flashcards; fc == nil || len(fc) != 0 {
			t.Errorf("%s: empty flashcards lost: %#v", name, fc)
		}
		if pages[1].Flashcards != nil {
			t.Errorf("%s: absent flashcards became %#v", name, pages[1].Flashcards)
		}
	}
}
