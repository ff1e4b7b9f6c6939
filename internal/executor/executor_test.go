package executor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/gubarz/coursemd/internal/course"
	"github.com/gubarz/coursemd/internal/editor"
)

type mockClipboard struct {
	copied string
}

func (m *mockClipboard) Copy(text string) error {
	m.copied = text
	return nil
}

type mockPersister struct {
	got *course.Module
	err error
}

func (m *mockPersister) Persist(ctx context.Context, mod *course.Module) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("persist called without deadline")
	}
	m.got = mod
	return m.err
}

func TestPersist(t *testing.T) {
	p := &mockPersister{}
	exec := NewExecutor(p)
	sig := editor.Signal{Revision: uuid.New(), Module: &course.Module{Title: "M"}}

	if err := exec.Persist(context.Background(), sig); err != nil {
		t.Fatal(err)
	}
	if p.got == nil || p.got.Title != "M" {
		t.Errorf("persisted = %+v", p.got)
	}
}

func TestPersistError(t *testing.T) {
	boom := errors.New("boom")
	exec := NewExecutor(&mockPersister{err: boom})
	err := exec.Persist(context.Background(), editor.Signal{Module: &course.Module{}})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}

	if err := NewExecutor(nil).Persist(context.Background(), editor.Signal{}); !errors.Is(err, ErrNoPersister) {
		t.Errorf("nil persister err = %v", err)
	}
}

func TestFilePersister(t *testing.T) {
	path := filepath.Join(t.TempDir(), "module.yaml")
	p := FilePersister{Path: path}
	if err := p.Persist(context.Background(), &course.Module{Title: "Saved"}); err != nil {
		t.Fatal(err)
	}
	m, err := course.LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if m.Title != "Saved" {
		t.Errorf("title = %q", m.Title)
	}
}

func TestOutputWithMode(t *testing.T) {
	tests := []struct {
		name    string
		mode    OutputMode
		printed string
		copied  string
	}{
		{"print", OutputPrint, "<p>x</p>\n", ""},
		{"copy", OutputCopy, "", "<p>x</p>"},
		{"unknown falls back to print", OutputMode("bogus"), "<p>x</p>\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			clip := &mockClipboard{}
			exec := NewExecutor(nil).WithClipboard(clip).WithWriter(&buf)

			if err := exec.OutputWithMode("<p>x</p>", tt.mode); err != nil {
				t.Fatal(err)
			}
			if buf.String() != tt.printed {
				t.Errorf("printed %q, want %q", buf.String(), tt.printed)
			}
			if clip.copied != tt.copied {
				t.Errorf("copied %q, want %q", clip.copied, tt.copied)
			}
		})
	}
}

func TestOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.html")
	exec := NewExecutor(nil).WithOutputFile(path)
	if err := exec.OutputWithMode("<h1>T</h1>", OutputFile); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "<h1>T</h1>\n" {
		t.Errorf("file = %q", data)
	}

	if err := NewExecutor(nil).OutputWithMode("x", OutputFile); err == nil {
		t.Error("file mode without target should fail")
	}
}
