package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gubarz/coursemd/internal/course"
	"github.com/gubarz/coursemd/internal/editor"
	"github.com/gubarz/coursemd/internal/executor"
	"github.com/gubarz/coursemd/internal/logger"
	"github.com/gubarz/coursemd/internal/markup"
)

var errInterrupted = errors.New("save interrupted by exit")

// Options configures an editing run
type Options struct {
	Path  string        // Module file to edit
	Mode  markup.Mode   // Mode new edit sessions open in
	Delay time.Duration // Autosave debounce window
	Style string        // Glamour style for previews
	Watch bool          // Reload the module when the file changes on disk
	Log   *logger.Logger
}

// getTTY returns file handles for TUI input/output
// Uses /dev/tty to bypass shell pipes and command substitution
func getTTY() (in *os.File, out *os.File, cleanup func()) {
	var closers []func()

	// stdout is not a terminal when piped or captured by $()
	if fileInfo, _ := os.Stdout.Stat(); (fileInfo.Mode() & os.ModeCharDevice) == 0 {
		out, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
		if err != nil {
			out = os.Stderr
		} else {
			closers = append(closers, func() { out.Close() })
		}

		in, err := os.OpenFile("/dev/tty", os.O_RDONLY, 0)
		if err != nil {
			in = os.Stdin
		} else {
			closers = append(closers, func() { in.Close() })
		}

		// Tell lipgloss to use the TTY for color detection
		lipgloss.SetDefaultRenderer(lipgloss.NewRenderer(out))

		return in, out, func() {
			for _, c := range closers {
				c()
			}
		}
	}

	return os.Stdin, os.Stdout, func() {}
}

// Run opens the module at opts.Path in the interactive editor. Pending
// changes are persisted through exec before it returns.
func Run(exec *executor.Executor, opts Options) error {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}

	path, err := filepath.Abs(opts.Path)
	if err != nil {
		return fmt.Errorf("error resolving path: %w", err)
	}
	path = filepath.Clean(path)

	mod, err := course.LoadFile(path)
	if err != nil {
		return err
	}

	ed := editor.New(mod,
		editor.WithDelay(opts.Delay),
		editor.WithMode(opts.Mode),
		editor.WithLogger(log),
	)

	m := newModel(path, ed, exec, GlamourRenderer(opts.Style), log)
	if opts.Watch {
		w, err := newWatcher(path)
		if err != nil {
			log.Warn("file watching disabled", "path", path, "error", err)
		} else {
			m.watcher = w
			defer w.Close()
		}
	}

	ttyIn, ttyOut, cleanup := getTTY()
	RefreshStyles() // Refresh after getTTY sets up the renderer
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithOutput(ttyOut), tea.WithInput(ttyIn))
	_, runErr := p.Run()
	cleanup()

	if err := flush(ed, exec); err != nil {
		log.Error("final save failed", "path", path, "error", err)
		if runErr == nil {
			return err
		}
	}
	return runErr
}

// flush discards any open session and persists unsaved changes. A save still
// in flight when the program exited is treated as lost and written again.
func flush(ed *editor.Editor, exec *executor.Executor) error {
	if ed.HasSession() {
		ed.Cancel()
	}
	if ed.State() == editor.Saving {
		ed.Saved(errInterrupted)
	}
	sig, ok := ed.Flush()
	if !ok {
		return nil
	}
	err := exec.Persist(context.Background(), sig)
	ed.Saved(err)
	return err
}
