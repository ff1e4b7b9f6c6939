package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/gubarz/coursemd/internal/config"
	"github.com/gubarz/coursemd/internal/course"
	"github.com/gubarz/coursemd/internal/editor"
	"github.com/gubarz/coursemd/internal/logger"
)

// ============================================================================
// Persister Interface
// ============================================================================

// Persister stores a module snapshot
type Persister interface {
	Persist(ctx context.Context, m *course.Module) error
}

// FilePersister writes modules back to a JSON or YAML file
type FilePersister struct {
	Path string
}

// Persist writes m atomically to the persister's path
func (p FilePersister) Persist(_ context.Context, m *course.Module) error {
	return course.WriteFile(p.Path, m)
}

// ============================================================================
// Clipboard Interface
// ============================================================================

// Clipboard defines the interface for clipboard operations
type Clipboard interface {
	Copy(text string) error
}

// systemClipboard implements Clipboard using system commands
type systemClipboard struct {
	fallback io.Writer
}

// Copy copies text to the system clipboard
func (c *systemClipboard) Copy(text string) error {
	cmd := c.findClipboardCommand()
	if cmd == nil {
		// No clipboard tool found, just print
		_, err := fmt.Fprintln(c.fallback, text)
		return err
	}
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}

// findClipboardCommand returns the appropriate clipboard command for the system
func (c *systemClipboard) findClipboardCommand() *exec.Cmd {
	switch {
	case commandExists("wl-copy"):
		return exec.Command("wl-copy")
	case commandExists("xclip"):
		return exec.Command("xclip", "-selection", "clipboard")
	case commandExists("xsel"):
		return exec.Command("xsel", "--clipboard", "--input")
	case commandExists("pbcopy"):
		return exec.Command("pbcopy")
	default:
		return nil
	}
}

// commandExists checks if a command is available in PATH
func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// ============================================================================
// Executor
// ============================================================================

// ErrNoPersister is returned when a signal arrives with nowhere to save it
var ErrNoPersister = errors.New("no persister configured")

// DefaultPersistTimeout bounds a single persistence call
const DefaultPersistTimeout = 30 * time.Second

// Executor delivers autosave signals and command output
type Executor struct {
	persister Persister
	clipboard Clipboard
	out       io.Writer
	file      string
	timeout   time.Duration
	log       *logger.Logger
}

// NewExecutor creates an executor that saves through p
func NewExecutor(p Persister) *Executor {
	return &Executor{
		persister: p,
		clipboard: &systemClipboard{fallback: os.Stdout},
		out:       os.Stdout,
		timeout:   DefaultPersistTimeout,
		log:       logger.Nop(),
	}
}

// WithClipboard sets a custom clipboard implementation (useful for testing)
func (e *Executor) WithClipboard(c Clipboard) *Executor {
	e.clipboard = c
	return e
}

// WithWriter sets where print output goes
func (e *Executor) WithWriter(w io.Writer) *Executor {
	e.out = w
	if sc, ok := e.clipboard.(*systemClipboard); ok {
		sc.fallback = w
	}
	return e
}

// WithOutputFile sets the target for file output
func (e *Executor) WithOutputFile(path string) *Executor {
	e.file = path
	return e
}

// WithTimeout bounds each Persist call
func (e *Executor) WithTimeout(d time.Duration) *Executor {
	if d > 0 {
		e.timeout = d
	}
	return e
}

func (e *Executor) WithLogger(log *logger.Logger) *Executor {
	e.log = log
	return e
}

// ============================================================================
// Persistence
// ============================================================================

// Persist hands a signal's snapshot to the persister. Failures are returned
// as-is; retrying is left to the next edit.
func (e *Executor) Persist(ctx context.Context, sig editor.Signal) error {
	if e.persister == nil {
		return ErrNoPersister
	}
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	if err := e.persister.Persist(ctx, sig.Module); err != nil {
		e.log.Error("persist failed", "revision", sig.Revision.String(), "error", err)
		return fmt.Errorf("persist revision %s: %w", sig.Revision, err)
	}
	e.log.Info("persisted", "revision", sig.Revision.String(), "took", time.Since(start))
	return nil
}

// ============================================================================
// Output Handling
// ============================================================================

// OutputMode represents how command results are delivered
type OutputMode string

const (
	OutputPrint OutputMode = "print"
	OutputCopy  OutputMode = "copy"
	OutputFile  OutputMode = "file"
)

// Output delivers text based on the configured mode
func (e *Executor) Output(text string) error {
	mode := OutputMode(config.GetOutput())
	return e.OutputWithMode(text, mode)
}

// OutputWithMode delivers text with an explicit mode
func (e *Executor) OutputWithMode(text string, mode OutputMode) error {
	switch mode {
	case OutputCopy:
		return e.clipboard.Copy(text)
	case OutputFile:
		if e.file == "" {
			return errors.New("file output needs a target path")
		}
		if !strings.HasSuffix(text, "\n") {
			text += "\n"
		}
		return os.WriteFile(e.file, []byte(text), 0o644)
	default: // print
		_, err := fmt.Fprintln(e.out, text)
		return err
	}
}
