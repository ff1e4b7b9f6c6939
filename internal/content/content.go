// Package content classifies loosely shaped subsection records into a single
// content variant for rendering and editing.
package content

import (
	"encoding/json"

	"github.com/gubarz/coursemd/internal/course"
)

// Kind tags a content variant
type Kind string

const (
	KindPages                 Kind = "pages"
	KindFlashcards            Kind = "flashcards"
	KindCategorizedFlashcards Kind = "categorizedFlashcards"
	KindEmpty                 Kind = "empty"
)

// Content is one of Pages, Flashcards, CategorizedFlashcards or Empty
type Content interface {
	Kind() Kind
	content()
}

// Pages is the canonical multi-page form
type Pages struct {
	Pages []course.Page `json:"pages"`
}

// Flashcards is an ordered card deck. Synthesized is set when the cards were
// built from templates rather than supplied by generation.
type Flashcards struct {
	Summary     string             `json:"summary,omitempty"`
	Flashcards  []course.Flashcard `json:"flashcards"`
	Synthesized bool               `json:"synthesized,omitempty"`
}

// CategorizedFlashcards holds separate concept and formula decks
type CategorizedFlashcards struct {
	ConceptFlashCards []course.CardPair `json:"conceptFlashCards"`
	FormulaFlashCards []course.CardPair `json:"formulaFlashCards"`
}

// Empty signals that the subsection still needs generation. It carries a
// single placeholder page so editors have something to open.
type Empty struct {
	Pages []course.Page `json:"pages"`
}

func (Pages) Kind() Kind                 { return KindPages }
func (Flashcards) Kind() Kind            { return KindFlashcards }
func (CategorizedFlashcards) Kind() Kind { return KindCategorizedFlashcards }
func (Empty) Kind() Kind                 { return KindEmpty }

func (Pages) content()                 {}
func (Flashcards) content()            {}
func (CategorizedFlashcards) content() {}
func (Empty) content()                 {}

// View is the tagged wire form {type, data}
type View struct {
	Type Kind    `json:"type"`
	Data Content `json:"data"`
}

// NewView wraps a variant with its tag
func NewView(c Content) View {
	return View{Type: c.Kind(), Data: c}
}

// MarshalJSON keeps Data typed by its concrete variant
func (v View) MarshalJSON() ([]byte, error) {
	type wire struct {
		Type Kind `json:"type"`
		Data any  `json:"data"`
	}
	return json.Marshal(wire{Type: v.Type, Data: v.Data})
}
