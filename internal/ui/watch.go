package ui

import (
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/gubarz/coursemd/internal/course"
)

// moduleChangedMsg carries a module re-read after its file changed on disk
type moduleChangedMsg struct {
	module *course.Module
	err    error
}

// watchStoppedMsg is sent once the watcher has been closed
type watchStoppedMsg struct{}

// newWatcher watches the directory holding path. Atomic writes replace the
// file, so watching the file itself would lose track after the first save.
func newWatcher(path string) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}

// waitForChange blocks until path is written, created or renamed into place,
// then reloads it
func waitForChange(w *fsnotify.Watcher, path string) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return watchStoppedMsg{}
				}
				if filepath.Clean(ev.Name) != path {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				m, err := course.LoadFile(path)
				return moduleChangedMsg{module: m, err: err}
			case err, ok := <-w.Errors:
				if !ok {
					return watchStoppedMsg{}
				}
				return moduleChangedMsg{err: err}
			}
		}
	}
}
