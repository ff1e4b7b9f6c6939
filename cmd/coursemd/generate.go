package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gubarz/coursemd/internal/backend"
	"github.com/gubarz/coursemd/internal/config"
	"github.com/gubarz/coursemd/internal/content"
	"github.com/gubarz/coursemd/internal/course"
	"github.com/gubarz/coursemd/internal/editor"
	"github.com/gubarz/coursemd/internal/markup"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate course content with the backend",
}

var generateContentCmd = &cobra.Command{
	Use:   "content <module>",
	Short: "Generate detailed subsections for a module",
	Long: `Requests detailed content for one module of a stored course and writes
the returned subsections into the module file, replacing the old ones.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerateContent,
}

var generateQuizCmd = &cobra.Command{
	Use:   "quiz <module>",
	Short: "Generate a quiz for one subsection",
	Long: `Requests a quiz for a subsection and stores it on the module under
"{index}_{difficulty}".`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerateQuiz,
}

var generateCurriculumCmd = &cobra.Command{
	Use:   "curriculum <dir>",
	Short: "Generate a curriculum and write one file per module",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerateCurriculum,
}

var publishCmd = &cobra.Command{
	Use:   "publish <module>",
	Short: "Save a module to the backend",
	Long: `Saves a module file to the backend. A course id assigned by the backend
is written back to the file.`,
	Args: cobra.ExactArgs(1),
	RunE: runPublish,
}

func init() {
	generateCmd.AddCommand(generateContentCmd, generateQuizCmd, generateCurriculumCmd)

	generateContentCmd.Flags().String("course-id", "", "Stored course id (defaults to the module id)")
	generateContentCmd.Flags().Int("module-index", 0, "Index of the module within the course")

	generateQuizCmd.Flags().IntP("subsection", "s", 0, "Subsection index")
	generateQuizCmd.Flags().StringP("difficulty", "d", "", "Quiz difficulty (easy, medium, hard)")
	generateQuizCmd.Flags().String("provider", "", "Generation provider")

	generateCurriculumCmd.Flags().String("title", "", "Course title")
	generateCurriculumCmd.Flags().String("topic", "", "Course topic")
	generateCurriculumCmd.Flags().Int("modules", 4, "Number of modules")
	generateCurriculumCmd.Flags().StringSlice("module-topic", nil, "Topic for each module (repeatable)")
	generateCurriculumCmd.Flags().String("notes", "", "Teaching notes")
	generateCurriculumCmd.Flags().String("format", "json", "Module file format: json, yaml")
}

func runGenerateContent(cmd *cobra.Command, args []string) error {
	path := args[0]
	m, err := course.LoadFile(path)
	if err != nil {
		return err
	}

	courseID, _ := cmd.Flags().GetString("course-id")
	if courseID == "" {
		courseID = m.ID
	}
	if courseID == "" {
		return fmt.Errorf("%s has no course id; publish it first or pass --course-id", path)
	}
	index, _ := cmd.Flags().GetInt("module-index")

	log := newLogger()
	defer log.Sync()

	resp, err := newBackend(log).GenerateDetailedContent(cmd.Context(), backend.DetailedContentRequest{
		CourseID:      courseID,
		ModuleIndex:   index,
		AcademicLevel: config.GetAcademicLevel(),
		Subject:       config.GetSubject(),
	})
	if err != nil {
		return fmt.Errorf("generate content: %w", err)
	}

	ed := editor.New(m, editor.WithLogger(log))
	if _, err := ed.ApplyDetailedContent(resp.DetailedSubsections); err != nil {
		return err
	}
	if err := course.WriteFile(path, ed.Module()); err != nil {
		return err
	}
	log.Info("detailed content written", "path", path, "subsections", len(resp.DetailedSubsections), "pages", resp.TotalPages)
	return newOutput(cmd).Output(fmt.Sprintf("%d subsections written to %s", len(resp.DetailedSubsections), path))
}

func runGenerateQuiz(cmd *cobra.Command, args []string) error {
	path := args[0]
	m, err := course.LoadFile(path)
	if err != nil {
		return err
	}

	index, _ := cmd.Flags().GetInt("subsection")
	if index < 0 || index >= len(m.DetailedSubsections) {
		return fmt.Errorf("subsection %d: %w", index, editor.ErrSubsectionNotFound)
	}
	difficulty, _ := cmd.Flags().GetString("difficulty")
	if difficulty == "" {
		difficulty = config.GetQuizDifficulty()
	}
	provider, _ := cmd.Flags().GetString("provider")
	if provider == "" {
		provider = config.GetQuizProvider()
	}

	log := newLogger()
	defer log.Sync()

	sub := m.DetailedSubsections[index]
	resp, err := newBackend(log).GenerateQuiz(cmd.Context(), backend.QuizRequest{
		ModuleContent: subsectionText(sub),
		Difficulty:    difficulty,
		Provider:      provider,
		Context: backend.QuizContext{
			Concept:       sub.Title,
			AcademicLevel: config.GetAcademicLevel(),
			Subject:       config.GetSubject(),
			Semester:      config.GetSemester(),
		},
	})
	if err != nil {
		return fmt.Errorf("generate quiz: %w", err)
	}

	ed := editor.New(m, editor.WithLogger(log))
	if _, err := ed.ApplyQuiz(index, resp.Quiz(difficulty, sub.Title)); err != nil {
		return err
	}
	if err := course.WriteFile(path, ed.Module()); err != nil {
		return err
	}
	key := course.QuizKey(index, difficulty)
	log.Info("quiz written", "path", path, "key", key, "questions", len(resp.Questions))
	return newOutput(cmd).Output(fmt.Sprintf("%d questions stored as %s", len(resp.Questions), key))
}

// subsectionText flattens a subsection to Markdown for quiz generation
func subsectionText(raw course.Subsection) string {
	var parts []string
	switch c := content.Classify(raw).(type) {
	case content.Pages:
		for _, p := range c.Pages {
			body := p.Content
			if body == "" {
				body = p.HTML
			}
			parts = append(parts, "## "+p.Title, markup.As(body, markup.ModeMarkdown))
		}
	case content.Flashcards:
		if c.Summary != "" {
			parts = append(parts, c.Summary)
		}
		for _, f := range c.Flashcards {
			parts = append(parts, f.Question+"\n"+f.Answer)
		}
	case content.CategorizedFlashcards:
		for _, f := range slices.Concat(c.ConceptFlashCards, c.FormulaFlashCards) {
			parts = append(parts, f.Question+"\n"+f.Answer)
		}
	}
	if len(parts) == 0 {
		return raw.Title
	}
	return strings.Join(parts, "\n\n")
}

func runGenerateCurriculum(cmd *cobra.Command, args []string) error {
	dir := args[0]
	format, _ := cmd.Flags().GetString("format")
	ext, err := moduleExt(format)
	if err != nil {
		return err
	}

	title, _ := cmd.Flags().GetString("title")
	topic, _ := cmd.Flags().GetString("topic")
	count, _ := cmd.Flags().GetInt("modules")
	topics, _ := cmd.Flags().GetStringSlice("module-topic")
	notes, _ := cmd.Flags().GetString("notes")

	log := newLogger()
	defer log.Sync()
	client := newBackend(log)

	cur, err := client.GenerateCurriculum(cmd.Context(), backend.CurriculumRequest{
		Title:           title,
		Topic:           topic,
		AcademicLevel:   config.GetAcademicLevel(),
		Subject:         config.GetSubject(),
		Semester:        config.GetSemester(),
		NumberOfModules: count,
		ModuleTopics:    topics,
		TeachingNotes:   notes,
	})
	if err != nil {
		return fmt.Errorf("generate curriculum: %w", err)
	}

	processed, err := client.ProcessCurriculum(cmd.Context(), backend.ProcessRequest{
		Curriculum: cur.Curriculum,
		CourseData: map[string]any{
			"title":         title,
			"topic":         topic,
			"academicLevel": config.GetAcademicLevel(),
			"subject":       config.GetSubject(),
			"semester":      config.GetSemester(),
		},
	})
	if err != nil {
		return fmt.Errorf("process curriculum: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	var written []string
	for i := range processed.Modules {
		path := filepath.Join(dir, fmt.Sprintf("module-%02d%s", i+1, ext))
		if err := course.WriteFile(path, &processed.Modules[i]); err != nil {
			return err
		}
		written = append(written, path)
	}
	log.Info("curriculum written", "dir", dir, "modules", len(written))
	return newOutput(cmd).Output(strings.Join(written, "\n"))
}

func moduleExt(format string) (string, error) {
	switch strings.ToLower(format) {
	case "", "json":
		return ".json", nil
	case "yaml", "yml":
		return ".yaml", nil
	default:
		return "", fmt.Errorf("unsupported format: %s (supported: json, yaml)", format)
	}
}

func runPublish(cmd *cobra.Command, args []string) error {
	path := args[0]
	m, err := course.LoadFile(path)
	if err != nil {
		return err
	}

	log := newLogger()
	defer log.Sync()

	resp, err := newBackend(log).SaveCourse(cmd.Context(), m)
	if err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	id := resp.CourseID
	if id == "" && resp.Course != nil {
		id = resp.Course.ID
	}
	if id != "" && id != m.ID {
		m.ID = id
		if err := course.WriteFile(path, m); err != nil {
			return err
		}
	}
	log.Info("module published", "path", path, "course_id", id)
	return newOutput(cmd).Output(fmt.Sprintf("published %s as %s", path, id))
}
