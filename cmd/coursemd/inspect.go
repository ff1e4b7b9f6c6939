package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gubarz/coursemd/internal/content"
	"github.com/gubarz/coursemd/internal/course"
	"github.com/gubarz/coursemd/internal/parser"
)

var outlineCmd = &cobra.Command{
	Use:   "outline <file>",
	Short: "Print the unit, section and subsection outline",
	Long: `Parses the heading hierarchy of a Markdown file, or of the content
field of a module file (.json, .yaml, .yml).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outline, err := loadOutline(args[0])
		if err != nil {
			return err
		}
		return outputJSON(newOutput(cmd), outline)
	},
}

var classifyCmd = &cobra.Command{
	Use:   "classify <module>",
	Short: "Print the normalized content of every generated subsection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := course.LoadFile(args[0])
		if err != nil {
			return err
		}
		type classified struct {
			Title   string       `json:"title"`
			Content content.View `json:"content"`
		}
		out := make([]classified, 0, len(m.DetailedSubsections))
		for _, s := range m.DetailedSubsections {
			out = append(out, classified{Title: s.Title, Content: content.NewView(content.Classify(s))})
		}
		return outputJSON(newOutput(cmd), out)
	},
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize <module|dir>",
	Short: "Join outline headings with their generated content",
	Long: `Prints, for every module file, the subsections in outline order with the
generated record each heading matched. A directory is searched recursively.`,
	Args: cobra.ExactArgs(1),
	RunE: runNormalize,
}

type normalizedModule struct {
	Path        string                  `json:"path"`
	Title       string                  `json:"title"`
	Subsections []parser.SubsectionView `json:"subsections"`
}

func runNormalize(cmd *cobra.Command, args []string) error {
	info, err := os.Stat(args[0])
	if err != nil {
		return fmt.Errorf("path error: %w", err)
	}

	var loaded []course.LoadedModule
	if info.IsDir() {
		loaded, err = course.LoadDirectory(cmd.Context(), args[0])
	} else {
		var m *course.Module
		m, err = course.LoadFile(args[0])
		loaded = []course.LoadedModule{{Path: args[0], Module: m}}
	}
	if err != nil {
		return err
	}

	out := make([]normalizedModule, 0, len(loaded))
	for _, l := range loaded {
		out = append(out, normalizedModule{
			Path:        l.Path,
			Title:       l.Module.Title,
			Subsections: parser.Merge(parser.ParseHeadings(l.Module.Content), l.Module.DetailedSubsections),
		})
	}
	return outputJSON(newOutput(cmd), out)
}

// loadOutline parses a Markdown file directly or a module file's content
func loadOutline(path string) (parser.Outline, error) {
	if _, err := course.FormatOf(path); err != nil {
		return parser.ParseFile(path)
	}
	m, err := course.LoadFile(path)
	if err != nil {
		return parser.Outline{}, err
	}
	return parser.ParseHeadings(m.Content), nil
}
