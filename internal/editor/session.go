package editor

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/gubarz/coursemd/internal/content"
	"github.com/gubarz/coursemd/internal/course"
	"github.com/gubarz/coursemd/internal/markup"
)

// Session is the page being edited
type Session struct {
	ID              uuid.UUID
	SubsectionIndex int
	PageIndex       int
	Content         string
	Title           string
	Takeaway        string
	Mode            markup.Mode
}

type openSession struct {
	Session
	// subsection converted to pages; written back only on Save
	subsection course.Subsection
}

// OpenSession starts editing one page. Legacy and empty subsections are
// converted to pages for the session; the module itself is untouched until
// Save.
func (e *Editor) OpenSession(subsectionIndex, pageIndex int) (Session, error) {
	if e.session != nil {
		return Session{}, ErrSessionOpen
	}
	if subsectionIndex < 0 || subsectionIndex >= len(e.module.DetailedSubsections) {
		return Session{}, fmt.Errorf("%w: %d", ErrSubsectionNotFound, subsectionIndex)
	}

	paged, ok := content.ToPages(e.module.DetailedSubsections[subsectionIndex].Clone())
	if !ok {
		return Session{}, ErrNotPaged
	}
	if pageIndex < 0 || pageIndex >= len(paged.Pages) {
		return Session{}, fmt.Errorf("%w: %d", ErrPageNotFound, pageIndex)
	}

	page := paged.Pages[pageIndex]
	e.session = &openSession{
		Session: Session{
			ID:              uuid.New(),
			SubsectionIndex: subsectionIndex,
			PageIndex:       pageIndex,
			Content:         pageBody(page, e.defaultMode),
			Title:           page.Title,
			Takeaway:        page.KeyTakeaway,
			Mode:            e.defaultMode,
		},
		subsection: paged,
	}
	e.log.Debug("session opened", "session", e.session.ID.String(), "subsection", subsectionIndex, "page", pageIndex)
	return e.session.Session, nil
}

// pageBody returns the page's stored body for mode. Only a page that has no
// body in that form is converted.
func pageBody(page course.Page, mode markup.Mode) string {
	if mode == markup.ModeHTML {
		if page.HTML != "" {
			return page.HTML
		}
		return markup.As(page.Content, mode)
	}
	if page.Content != "" {
		return markup.As(page.Content, mode)
	}
	return markup.ToMarkdown(page.HTML)
}

// Session returns the open session, if any
func (e *Editor) Session() (Session, bool) {
	if e.session == nil {
		return Session{}, false
	}
	return e.session.Session, true
}

func (e *Editor) HasSession() bool {
	return e.session != nil
}

func (e *Editor) SetSessionContent(s string) error {
	if e.session == nil {
		return ErrNoSession
	}
	e.session.Content = s
	return nil
}

func (e *Editor) SetSessionTitle(s string) error {
	if e.session == nil {
		return ErrNoSession
	}
	e.session.Title = s
	return nil
}

func (e *Editor) SetSessionTakeaway(s string) error {
	if e.session == nil {
		return ErrNoSession
	}
	e.session.Takeaway = s
	return nil
}

// ToggleMode switches the session between Markdown and HTML, converting the
// content as it goes
func (e *Editor) ToggleMode() (Session, error) {
	if e.session == nil {
		return Session{}, ErrNoSession
	}
	next := markup.ModeHTML
	if e.session.Mode == markup.ModeHTML {
		next = markup.ModeMarkdown
	}
	if next == markup.ModeHTML {
		e.session.Content = markup.ToHTML(e.session.Content)
	} else {
		e.session.Content = markup.ToMarkdown(e.session.Content)
	}
	e.session.Mode = next
	return e.session.Session, nil
}

// Save merges the session into its page, closes the session and marks the
// module dirty. Both the markdown and HTML forms of the page are stored.
func (e *Editor) Save() (Timer, error) {
	if e.session == nil {
		return Timer{}, ErrNoSession
	}
	s := e.session
	if s.SubsectionIndex >= len(e.module.DetailedSubsections) {
		return Timer{}, fmt.Errorf("%w: %d", ErrSubsectionNotFound, s.SubsectionIndex)
	}
	if s.PageIndex >= len(s.subsection.Pages) {
		return Timer{}, fmt.Errorf("%w: %d", ErrPageNotFound, s.PageIndex)
	}

	page := s.subsection.Pages[s.PageIndex]
	if s.Mode == markup.ModeHTML {
		page.HTML = s.Content
		page.Content = markup.ToMarkdown(s.Content)
	} else {
		page.Content = s.Content
		page.HTML = markup.ToHTML(s.Content)
	}
	page.Title = s.Title
	page.KeyTakeaway = s.Takeaway
	page.IsManuallyEdited = true
	edited := e.now().UTC()
	page.LastEditedAt = &edited
	s.subsection.Pages[s.PageIndex] = page

	e.module.DetailedSubsections[s.SubsectionIndex] = s.subsection
	e.session = nil
	e.log.Info("page saved", "session", s.ID.String(), "subsection", s.SubsectionIndex, "page", s.PageIndex)
	return e.markDirty(), nil
}

// Cancel discards the session. When edits were held back while it was open
// the returned timer re-arms autosave.
func (e *Editor) Cancel() (Timer, bool) {
	if e.session == nil {
		return Timer{}, false
	}
	e.log.Debug("session cancelled", "session", e.session.ID.String())
	e.session = nil
	if e.state == Dirty {
		return Timer{Generation: e.generation, Delay: e.delay}, true
	}
	return Timer{}, false
}
