package content

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gubarz/coursemd/internal/course"
)

func fiveCards() []course.Flashcard {
	var cards []course.Flashcard
	for _, q := range []string{"Q1", "Q2", "Q3", "Q4", "Q5"} {
		cards = append(cards, course.Flashcard{Question: q, Answer: "A" + q[1:]})
	}
	return cards
}

func TestClassifyKinds(t *testing.T) {
	tests := []struct {
		name string
		raw  course.Subsection
		want Kind
	}{
		{
			name: "pages without flashcards field",
			raw:  course.Subsection{Pages: []course.Page{{Title: "P", Content: "c"}}},
			want: KindPages,
		},
		{
			name: "flashcards nested in first page",
			raw:  course.Subsection{Pages: []course.Page{{Flashcards: fiveCards()}}},
			want: KindFlashcards,
		},
		{
			name: "top level flashcards",
			raw:  course.Subsection{Flashcards: fiveCards()},
			want: KindFlashcards,
		},
		{
			name: "categorized cards win over pages",
			raw: course.Subsection{
				Pages:             []course.Page{{Content: "c"}},
				ConceptFlashCards: []course.CardPair{{Question: "q", Answer: "a"}},
			},
			want: KindCategorizedFlashcards,
		},
		{
			name: "legacy pages with empty flashcards",
			raw:  course.Subsection{Title: "Forces", Pages: []course.Page{{Content: "Force is mass times acceleration.", Flashcards: []course.Flashcard{}}}},
			want: KindFlashcards,
		},
		{
			name: "bare text pages",
			raw:  course.Subsection{Title: "Forces", Pages: []course.Page{{Text: "Force is mass times acceleration."}}},
			want: KindFlashcards,
		},
		{
			name: "legacy explanation blob",
			raw:  course.Subsection{Title: "Forces", Explanation: "text..."},
			want: KindFlashcards,
		},
		{
			name: "nothing at all",
			raw:  course.Subsection{Title: "Pending"},
			want: KindEmpty,
		},
		{
			name: "empty pages array",
			raw:  course.Subsection{Title: "Pending", Pages: []course.Page{}},
			want: KindEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.raw)
			if got.Kind() != tt.want {
				t.Errorf("Classify kind = %q, want %q", got.Kind(), tt.want)
			}
		})
	}
}

func TestClassifyNestedFlashcards(t *testing.T) {
	raw := course.Subsection{
		Summary: "old summary",
		Pages:   []course.Page{{Content: "fresh summary", Flashcards: fiveCards()}},
	}
	got, ok := Classify(raw).(Flashcards)
	if !ok {
		t.Fatalf("want Flashcards, got %T", Classify(raw))
	}
	if len(got.Flashcards) != 5 || got.Flashcards[0].Question != "Q1" {
		t.Errorf("flashcards not carried over: %+v", got.Flashcards)
	}
	if got.Summary != "fresh summary" {
		t.Errorf("summary = %q, want pages[0].content", got.Summary)
	}

	data, err := json.Marshal(NewView(got))
	if err != nil {
		t.Fatal(err)
	}
	var wire struct {
		Type Kind           `json:"type"`
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatal(err)
	}
	if wire.Type != KindFlashcards {
		t.Errorf("type tag = %q", wire.Type)
	}
	if _, ok := wire.Data["pages"]; ok {
		t.Errorf("flashcards view must not carry pages: %s", data)
	}
	if cards, _ := wire.Data["flashcards"].([]any); len(cards) != 5 {
		t.Errorf("want 5 flashcards on the wire, got %s", data)
	}
}

func TestClassifyPagesNormalization(t *testing.T) {
	raw := course.Subsection{Pages: []course.Page{
		{PageTitle: "From pageTitle", Content: "body"},
		{},
	}}
	got := Classify(raw).(Pages)
	if got.Pages[0].Title != "From pageTitle" {
		t.Errorf("title fallback = %q", got.Pages[0].Title)
	}
	if got.Pages[1].Title != "Page 2" {
		t.Errorf("generic label = %q", got.Pages[1].Title)
	}
	if got.Pages[1].Content != PlaceholderContent {
		t.Errorf("placeholder content = %q", got.Pages[1].Content)
	}
	if raw.Pages[1].Title != "" {
		t.Error("Classify mutated its input")
	}
}

func TestClassifyLegacyBlobSynthesizesFive(t *testing.T) {
	raw := course.Subsection{Title: "2.1.3 Newton's Laws", Explanation: "text..."}
	got := Classify(raw).(Flashcards)
	if len(got.Flashcards) != 5 {
		t.Fatalf("want 5 cards, got %d", len(got.Flashcards))
	}
	if !got.Synthesized {
		t.Error("expected Synthesized flag")
	}
	wantQ := []string{
		"What is Newton's Laws?",
		"Why is Newton's Laws important?",
		"How does Newton's Laws apply in practice?",
		"What should students remember about Newton's Laws?",
		"How does Newton's Laws connect to broader topics?",
	}
	for i, card := range got.Flashcards {
		if card.Question != wantQ[i] {
			t.Errorf("card %d question = %q, want %q", i, card.Question, wantQ[i])
		}
		if card.Answer == "" || card.Category == "" || card.Difficulty == "" {
			t.Errorf("card %d incomplete: %+v", i, card)
		}
	}
	if got.Flashcards[0].Difficulty != "basic" || got.Flashcards[4].Difficulty != "advanced" {
		t.Errorf("difficulty ladder wrong: %+v", got.Flashcards)
	}
}

func TestSynthesizeDrawsFromText(t *testing.T) {
	raw := course.Subsection{
		Title:       "Momentum",
		Explanation: "Momentum is the product of mass and velocity. It is important because it is conserved. For example, it is used in collision analysis.",
		KeyPoints:   []string{"Momentum is a vector."},
	}
	cards := Synthesize(raw)
	if cards[0].Answer != "Momentum is the product of mass and velocity." {
		t.Errorf("definition answer = %q", cards[0].Answer)
	}
	if cards[1].Answer != "It is important because it is conserved." {
		t.Errorf("importance answer = %q", cards[1].Answer)
	}
	if cards[2].Answer != "For example, it is used in collision analysis." {
		t.Errorf("application answer = %q", cards[2].Answer)
	}
	if cards[3].Answer != "Momentum is a vector." {
		t.Errorf("remember answer = %q", cards[3].Answer)
	}
	if !strings.Contains(cards[4].Answer, "Momentum") {
		t.Errorf("fallback answer should mention title: %q", cards[4].Answer)
	}
}

func TestEmptyCarriesIntroductionPage(t *testing.T) {
	got := Classify(course.Subsection{}).(Empty)
	if len(got.Pages) != 1 || got.Pages[0].Title != IntroductionTitle {
		t.Errorf("empty variant pages = %+v", got.Pages)
	}
}

func TestToPages(t *testing.T) {
	legacy := course.Subsection{Title: "T", Explanation: "blob", Summary: "s"}
	out, ok := ToPages(legacy)
	if !ok || len(out.Pages) != 1 || out.Pages[0].Content != "blob" || out.Explanation != "" {
		t.Errorf("legacy conversion = %+v, %v", out, ok)
	}

	categorized := course.Subsection{
		Pages:             []course.Page{{Content: "c"}},
		FormulaFlashCards: []course.CardPair{{Question: "q"}},
	}
	if _, ok := ToPages(categorized); ok {
		t.Error("categorized cards must not convert to pages")
	}

	paged := course.Subsection{Pages: []course.Page{{Title: "a", Content: "b"}}, Explanation: "stale"}
	out, ok = ToPages(paged)
	if !ok || out.Explanation != "" || out.Pages[0].Content != "b" {
		t.Errorf("pages conversion should drop other variants: %+v", out)
	}
}

func TestClassifyBareTextPagesFromFile(t *testing.T) {
	data := `{"title":"M","detailedSubsections":[{"title":"1.1.1 Forces","pages":["Force is mass times acceleration."]}]}`
	m, err := course.Decode([]byte(data), course.FormatJSON)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got, ok := Classify(m.DetailedSubsections[0]).(Flashcards)
	if !ok || !got.Synthesized || len(got.Flashcards) != 5 {
		t.Fatalf("Classify = %+v", Classify(m.DetailedSubsections[0]))
	}
	if got.Flashcards[0].Answer != "Force is mass times acceleration." {
		t.Errorf("answer not drawn from page text: %q", got.Flashcards[0].Answer)
	}

	out, ok := ToPages(m.DetailedSubsections[0])
	if !ok || out.Pages[0].Content != "Force is mass times acceleration." || out.Pages[0].Text != "" {
		t.Errorf("ToPages = %+v, %v", out, ok)
	}
}

func TestClassifySurvivesSaveAndLoad(t *testing.T) {
	subs := []course.Subsection{
		{Title: "1.1.1 Cards", Pages: []course.Page{{Content: "Force is mass times acceleration.", Flashcards: []course.Flashcard{}}}},
		{Title: "1.1.2 Pages", Pages: []course.Page{{Title: "P", Content: "c"}}},
		{Title: "1.1.3 Bare", Pages: []course.Page{{Text: "Energy is conserved in a closed system."}}},
	}
	dir := t.TempDir()
	for _, name := range []string{"m.json", "m.yaml"} {
		path := filepath.Join(dir, name)
		if err := course.WriteFile(path, &course.Module{Title: "M", DetailedSubsections: subs}); err != nil {
			t.Fatalf("WriteFile(%s): %v", name, err)
		}
		m, err := course.LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile(%s): %v", name, err)
		}
		for i, raw := range subs {
			before, after := Classify(raw), Classify(m.DetailedSubsections[i])
			if before.Kind() != after.Kind() {
				t.Errorf("%s %s: kind %q became %q", name, raw.Title, before.Kind(), after.Kind())
			}
			if b, ok := before.(Flashcards); ok && b.Synthesized != after.(Flashcards).Synthesized {
				t.Errorf("%s %s: synthesized flag changed", name, raw.Title)
			}
		}
	}
}
