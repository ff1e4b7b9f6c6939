package editor

import (
	"time"

	"github.com/google/uuid"

	"github.com/gubarz/coursemd/internal/course"
)

// State is the persistence state of the module being edited
type State int

const (
	Clean State = iota
	Dirty
	Saving
)

func (s State) String() string {
	switch s {
	case Clean:
		return "clean"
	case Dirty:
		return "dirty"
	case Saving:
		return "saving"
	default:
		return "unknown"
	}
}

// Timer asks the caller to call Fire(Generation) after Delay. Every edit
// hands out a new generation, so only the most recent timer can save.
type Timer struct {
	Generation uint64
	Delay      time.Duration
}

// Signal tells the owning collaborator to persist Module. Module is a deep
// copy; the editor keeps working on its own.
type Signal struct {
	Revision uuid.UUID
	Module   *course.Module
}

// markDirty records an edit and returns the timer to arm
func (e *Editor) markDirty() Timer {
	e.generation++
	if e.state == Saving {
		e.editedWhileSaving = true
	} else {
		e.state = Dirty
	}
	return Timer{Generation: e.generation, Delay: e.delay}
}

// Fire is called when a debounce timer elapses. It returns a Signal only for
// the latest generation, while Dirty, with no session open.
func (e *Editor) Fire(generation uint64) (Signal, bool) {
	if generation != e.generation || e.state != Dirty {
		return Signal{}, false
	}
	if e.session != nil {
		e.log.Debug("autosave held by open session", "generation", generation)
		return Signal{}, false
	}
	e.state = Saving
	e.editedWhileSaving = false
	sig := Signal{Revision: uuid.New(), Module: e.module.Clone()}
	e.log.Debug("autosave", "revision", sig.Revision.String(), "generation", generation)
	return sig, true
}

// Saved reports the outcome of the last Signal. A failed save leaves the
// module Dirty without retrying; the next edit arms a new timer. Edits made
// while saving re-arm immediately.
func (e *Editor) Saved(err error) (Timer, bool) {
	if e.state != Saving {
		return Timer{}, false
	}
	if err != nil {
		e.state = Dirty
		e.editedWhileSaving = false
		e.log.Warn("autosave failed", "error", err)
		return Timer{}, false
	}
	if e.editedWhileSaving {
		e.state = Dirty
		e.editedWhileSaving = false
		return Timer{Generation: e.generation, Delay: e.delay}, true
	}
	e.state = Clean
	return Timer{}, false
}

// Flush forces a Signal for pending edits regardless of the debounce window,
// e.g. on quit. The open-session guard still applies.
func (e *Editor) Flush() (Signal, bool) {
	return e.Fire(e.generation)
}
