// Package editor owns a module while it is being edited: field updates, the
// page edit session and the debounced autosave state machine. It is driven
// from a single event loop and is not safe for concurrent use.
package editor

import (
	"errors"
	"time"

	"github.com/gubarz/coursemd/internal/course"
	"github.com/gubarz/coursemd/internal/logger"
	"github.com/gubarz/coursemd/internal/markup"
)

var (
	ErrSubsectionNotFound = errors.New("subsection not found")
	ErrPageNotFound       = errors.New("page not found")
	ErrNoSession          = errors.New("no edit session open")
	ErrSessionOpen        = errors.New("an edit session is already open")
	ErrNotPaged           = errors.New("subsection holds flashcards and cannot be edited as pages")
)

// DefaultDelay is the autosave debounce window
const DefaultDelay = 2 * time.Second

// Editor holds the in-memory module and its edit state
type Editor struct {
	module            *course.Module
	state             State
	generation        uint64
	editedWhileSaving bool
	session           *openSession

	delay       time.Duration
	defaultMode markup.Mode
	now         func() time.Time
	log         *logger.Logger
}

// Option configures an Editor
type Option func(*Editor)

// WithDelay sets the autosave debounce window
func WithDelay(d time.Duration) Option {
	return func(e *Editor) {
		if d > 0 {
			e.delay = d
		}
	}
}

// WithMode sets the mode new sessions open in
func WithMode(mode markup.Mode) Option {
	return func(e *Editor) { e.defaultMode = mode }
}

// WithClock overrides the time source for lastEditedAt
func WithClock(now func() time.Time) Option {
	return func(e *Editor) { e.now = now }
}

// WithLogger sets the logger
func WithLogger(log *logger.Logger) Option {
	return func(e *Editor) { e.log = log }
}

// New creates an editor for m. The editor works on its own copy.
func New(m *course.Module, opts ...Option) *Editor {
	if m == nil {
		m = &course.Module{}
	}
	e := &Editor{
		module:      m.Clone(),
		delay:       DefaultDelay,
		defaultMode: markup.ModeMarkdown,
		now:         time.Now,
		log:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Module returns a copy of the current module
func (e *Editor) Module() *course.Module {
	return e.module.Clone()
}

// Subsection returns a copy of one generated subsection
func (e *Editor) Subsection(index int) (course.Subsection, bool) {
	if index < 0 || index >= len(e.module.DetailedSubsections) {
		return course.Subsection{}, false
	}
	return e.module.DetailedSubsections[index].Clone(), true
}

func (e *Editor) State() State {
	return e.state
}

func (e *Editor) Delay() time.Duration {
	return e.delay
}

// ReplaceModule swaps in a module supplied from outside, e.g. after the file
// changed on disk. It is ignored while a session is open so in-flight edits
// are not clobbered.
func (e *Editor) ReplaceModule(m *course.Module) bool {
	if e.session != nil {
		e.log.Debug("module update ignored during edit session")
		return false
	}
	if m == nil {
		m = &course.Module{}
	}
	e.module = m.Clone()
	e.generation++
	e.state = Clean
	e.editedWhileSaving = false
	return true
}

// Update applies fn to the module and marks it dirty
func (e *Editor) Update(fn func(m *course.Module)) Timer {
	fn(e.module)
	return e.markDirty()
}

func (e *Editor) SetTitle(title string) Timer {
	return e.Update(func(m *course.Module) { m.Title = title })
}

func (e *Editor) SetSummary(summary string) Timer {
	return e.Update(func(m *course.Module) { m.Summary = summary })
}

// SetContent replaces the module's raw heading markdown
func (e *Editor) SetContent(content string) Timer {
	return e.Update(func(m *course.Module) { m.Content = content })
}

func (e *Editor) SetObjectives(objectives []string) Timer {
	return e.Update(func(m *course.Module) { m.Objectives = append([]string(nil), objectives...) })
}

func (e *Editor) SetExamples(examples []string) Timer {
	return e.Update(func(m *course.Module) { m.Examples = append([]string(nil), examples...) })
}

// SetSubsectionTitle renames a generated subsection. Saving a session writes
// back the whole subsection, so renames wait until the session closes.
func (e *Editor) SetSubsectionTitle(index int, title string) (Timer, error) {
	if e.session != nil {
		return Timer{}, ErrSessionOpen
	}
	if index < 0 || index >= len(e.module.DetailedSubsections) {
		return Timer{}, ErrSubsectionNotFound
	}
	return e.Update(func(m *course.Module) { m.DetailedSubsections[index].Title = title }), nil
}

// ApplyDetailedContent replaces every generated subsection with a fresh
// generation result. Nothing changes on error.
func (e *Editor) ApplyDetailedContent(subsections []course.Subsection) (Timer, error) {
	if e.session != nil {
		return Timer{}, ErrSessionOpen
	}
	fresh := make([]course.Subsection, len(subsections))
	for i, s := range subsections {
		fresh[i] = s.Clone()
	}
	return e.Update(func(m *course.Module) { m.DetailedSubsections = fresh }), nil
}

// ApplyQuiz stores a generated quiz under "{index}_{difficulty}"
func (e *Editor) ApplyQuiz(index int, quiz course.Quiz) (Timer, error) {
	if index < 0 || index >= len(e.module.DetailedSubsections) {
		return Timer{}, ErrSubsectionNotFound
	}
	quiz.Questions = append([]course.Question(nil), quiz.Questions...)
	if quiz.TotalQuestions == 0 {
		quiz.TotalQuestions = len(quiz.Questions)
	}
	if quiz.SubsectionTitle == "" {
		quiz.SubsectionTitle = e.module.DetailedSubsections[index].Title
	}
	key := course.QuizKey(index, quiz.Difficulty)
	return e.Update(func(m *course.Module) {
		if m.SubsectionQuizzes == nil {
			m.SubsectionQuizzes = make(map[string]course.Quiz)
		}
		m.SubsectionQuizzes[key] = quiz
	}), nil
}
