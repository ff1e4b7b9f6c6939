package backend

import "github.com/gubarz/coursemd/internal/course"

type CurriculumRequest struct {
	Title           string   `json:"title"`
	Topic           string   `json:"topic"`
	AcademicLevel   string   `json:"academicLevel"`
	Subject         string   `json:"subject"`
	Semester        string   `json:"semester"`
	NumberOfModules int      `json:"numberOfModules"`
	ModuleTopics    []string `json:"moduleTopics"`
	TeachingNotes   string   `json:"teachingNotes"`
}

type CurriculumResponse struct {
	Curriculum string `json:"curriculum"`
}

type ProcessRequest struct {
	Curriculum string         `json:"curriculum"`
	CourseData map[string]any `json:"courseData"`
}

type ProcessResponse struct {
	Modules []course.Module `json:"modules"`
}

type DetailedContentRequest struct {
	CourseID      string `json:"courseId"`
	ModuleIndex   int    `json:"moduleIndex"`
	AcademicLevel string `json:"academicLevel"`
	Subject       string `json:"subject"`
}

type DetailedContentResponse struct {
	DetailedSubsections []course.Subsection `json:"detailedSubsections"`
	TotalSubsections    int                 `json:"totalSubsections"`
	TotalPages          int                 `json:"totalPages"`
}

// QuizContext describes what a quiz is about
type QuizContext struct {
	Concept       string `json:"concept"`
	AcademicLevel string `json:"academicLevel"`
	Subject       string `json:"subject"`
	Semester      string `json:"semester"`
}

type QuizRequest struct {
	ModuleContent string      `json:"moduleContent"`
	Difficulty    string      `json:"difficulty"`
	Context       QuizContext `json:"context"`
	Provider      string      `json:"provider"`
}

type QuizResponse struct {
	Questions []course.Question `json:"questions"`
	Metadata  struct {
		GeneratedWith string `json:"generatedWith"`
	} `json:"metadata"`
}

// Quiz turns a generation response into the record stored on a module
func (r QuizResponse) Quiz(difficulty, subsectionTitle string) course.Quiz {
	return course.Quiz{
		Questions:       r.Questions,
		Difficulty:      difficulty,
		SubsectionTitle: subsectionTitle,
		TotalQuestions:  len(r.Questions),
		GeneratedWith:   r.Metadata.GeneratedWith,
	}
}

type SaveRequest struct {
	Course *course.Module `json:"course"`
}

// SaveResponse carries either the new course id or the stored course
type SaveResponse struct {
	CourseID string         `json:"courseId,omitempty"`
	Course   *course.Module `json:"course,omitempty"`
}
