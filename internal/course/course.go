// Package course holds the module data model as it is exchanged with the
// authoring backend and stored on disk.
package course

import (
	"fmt"
	"time"
)

// Module is the unit of course content
type Module struct {
	ID                  string                `json:"id,omitempty" yaml:"id,omitempty"`
	Title               string                `json:"title" yaml:"title"`
	Summary             string                `json:"summary,omitempty" yaml:"summary,omitempty"`
	Content             string                `json:"content,omitempty" yaml:"content,omitempty"`
	Objectives          []string              `json:"objectives,omitempty" yaml:"objectives,omitempty"`
	Examples            []string              `json:"examples,omitempty" yaml:"examples,omitempty"`
	DetailedSubsections []Subsection          `json:"detailedSubsections,omitempty" yaml:"detailedSubsections,omitempty"`
	SubsectionQuizzes   map[string]Quiz       `json:"subsectionQuizzes,omitempty" yaml:"subsectionQuizzes,omitempty"`
	Assignments         []Assignment          `json:"assignments,omitempty" yaml:"assignments,omitempty"`
	Resources           map[string][]Resource `json:"resources,omitempty" yaml:"resources,omitempty"`
}

// Subsection is a loosely shaped record. Generation endpoints have produced
// several layouts over time, so any of the content fields may be set; the
// content package decides which one wins.
type Subsection struct {
	Title             string      `json:"title" yaml:"title"`
	Summary           string      `json:"summary,omitempty" yaml:"summary,omitempty"`
	Explanation       string      `json:"explanation,omitempty" yaml:"explanation,omitempty"`
	Content           string      `json:"content,omitempty" yaml:"content,omitempty"`
	GeneratedMarkdown string      `json:"generatedMarkdown,omitempty" yaml:"generatedMarkdown,omitempty"`
	KeyPoints         []string    `json:"keyPoints,omitempty" yaml:"keyPoints,omitempty"`
	Pages             []Page      `json:"pages,omitempty" yaml:"pages,omitempty"`
	Flashcards        []Flashcard `json:"flashcards,omitempty" yaml:"flashcards,omitempty"`
	ConceptFlashCards []CardPair  `json:"conceptFlashCards,omitempty" yaml:"conceptFlashCards,omitempty"`
	FormulaFlashCards []CardPair  `json:"formulaFlashCards,omitempty" yaml:"formulaFlashCards,omitempty"`
}

// Page is one screen of a multi-page subsection. Flashcards is only set by the
// older layout that nested cards under pages[0]; nil means the field was absent.
// Text holds a page that was stored as a bare string instead of an object.
type Page struct {
	Title            string      `json:"title,omitempty" yaml:"title,omitempty"`
	PageTitle        string      `json:"pageTitle,omitempty" yaml:"pageTitle,omitempty"`
	Content          string      `json:"content,omitempty" yaml:"content,omitempty"`
	HTML             string      `json:"html,omitempty" yaml:"html,omitempty"`
	KeyTakeaway      string      `json:"keyTakeaway,omitempty" yaml:"keyTakeaway,omitempty"`
	IsManuallyEdited bool        `json:"isManuallyEdited,omitempty" yaml:"isManuallyEdited,omitempty"`
	LastEditedAt     *time.Time  `json:"lastEditedAt,omitempty" yaml:"lastEditedAt,omitempty"`
	Flashcards       []Flashcard `json:"flashcards,omitempty" yaml:"flashcards,omitempty"`
	Text             string      `json:"-" yaml:"-"`
}

// Flashcard is a question/answer pair with study metadata
type Flashcard struct {
	Question   string `json:"question" yaml:"question"`
	Answer     string `json:"answer" yaml:"answer"`
	Category   string `json:"category,omitempty" yaml:"category,omitempty"`
	Difficulty string `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
}

// CardPair is a concept or formula card without metadata
type CardPair struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

// Question is a single generated quiz question
type Question struct {
	Question      string   `json:"question" yaml:"question"`
	Options       []string `json:"options,omitempty" yaml:"options,omitempty"`
	CorrectAnswer string   `json:"correctAnswer,omitempty" yaml:"correctAnswer,omitempty"`
	Explanation   string   `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

// Quiz is produced by the generation backend, never derived locally
type Quiz struct {
	Questions       []Question `json:"questions" yaml:"questions"`
	Difficulty      string     `json:"difficulty" yaml:"difficulty"`
	SubsectionTitle string     `json:"subsectionTitle" yaml:"subsectionTitle"`
	TotalQuestions  int        `json:"totalQuestions" yaml:"totalQuestions"`
	GeneratedWith   string     `json:"generatedWith,omitempty" yaml:"generatedWith,omitempty"`
}

// Assignment is an opaque assignment record carried through unchanged
type Assignment struct {
	Title        string   `json:"title" yaml:"title"`
	Description  string   `json:"description,omitempty" yaml:"description,omitempty"`
	Instructions []string `json:"instructions,omitempty" yaml:"instructions,omitempty"`
	DueDays      int      `json:"dueDays,omitempty" yaml:"dueDays,omitempty"`
}

// Resource is a link or reference attached to a module category
type Resource struct {
	Title       string `json:"title" yaml:"title"`
	URL         string `json:"url,omitempty" yaml:"url,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
}

// QuizKey returns the subsectionQuizzes key for a subsection and difficulty
func QuizKey(subsectionIndex int, difficulty string) string {
	return fmt.Sprintf("%d_%s", subsectionIndex, difficulty)
}

// Clone returns a deep copy so snapshots handed to persistence never alias
// state the editor keeps mutating.
func (m *Module) Clone() *Module {
	if m == nil {
		return nil
	}
	c := *m
	c.Objectives = append([]string(nil), m.Objectives...)
	c.Examples = append([]string(nil), m.Examples...)
	c.Assignments = append([]Assignment(nil), m.Assignments...)
	c.DetailedSubsections = make([]Subsection, len(m.DetailedSubsections))
	for i, s := range m.DetailedSubsections {
		c.DetailedSubsections[i] = s.Clone()
	}
	if m.SubsectionQuizzes != nil {
		c.SubsectionQuizzes = make(map[string]Quiz, len(m.SubsectionQuizzes))
		for k, q := range m.SubsectionQuizzes {
			q.Questions = append([]Question(nil), q.Questions...)
			c.SubsectionQuizzes[k] = q
		}
	}
	if m.Resources != nil {
		c.Resources = make(map[string][]Resource, len(m.Resources))
		for k, r := range m.Resources {
			c.Resources[k] = append([]Resource(nil), r...)
		}
	}
	return &c
}

// Clone returns a deep copy of the subsection
func (s Subsection) Clone() Subsection {
	c := s
	c.KeyPoints = append([]string(nil), s.KeyPoints...)
	c.Flashcards = append([]Flashcard(nil), s.Flashcards...)
	c.ConceptFlashCards = append([]CardPair(nil), s.ConceptFlashCards...)
	c.FormulaFlashCards = append([]CardPair(nil), s.FormulaFlashCards...)
	if s.Pages != nil {
		c.Pages = make([]Page, len(s.Pages))
		for i, p := range s.Pages {
			if p.Flashcards != nil {
				p.Flashcards = append(make([]Flashcard, 0, len(p.Flashcards)), p.Flashcards...)
			}
			if p.LastEditedAt != nil {
				t := *p.LastEditedAt
				p.LastEditedAt = &t
			}
			c.Pages[i] = p
		}
	}
	return c
}
