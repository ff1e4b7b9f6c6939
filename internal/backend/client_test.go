package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gubarz/coursemd/internal/course"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, "secret-token", 5*time.Second)
}

func TestGenerateCurriculum(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate-curriculum" || r.Method != http.MethodPost {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret-token" {
			t.Errorf("authorization = %q", got)
		}
		var req CurriculumRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Error(err)
			return
		}
		if req.Title != "Physics" || req.NumberOfModules != 3 {
			t.Errorf("request = %+v", req)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"curriculum":"# Unit 1: Mechanics"}`))
	})

	resp, err := client.GenerateCurriculum(context.Background(), CurriculumRequest{Title: "Physics", NumberOfModules: 3})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Curriculum != "# Unit 1: Mechanics" {
		t.Errorf("curriculum = %q", resp.Curriculum)
	}
}

func TestGenerateDetailedContent(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"detailedSubsections":[{"title":"1.1.1 Intro","pages":[{"title":"P","content":"c"}]}],"totalSubsections":1,"totalPages":1}`))
	})

	resp, err := client.GenerateDetailedContent(context.Background(), DetailedContentRequest{CourseID: "c1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.DetailedSubsections) != 1 || resp.DetailedSubsections[0].Pages[0].Content != "c" || resp.TotalPages != 1 {
		t.Errorf("response = %+v", resp)
	}
}

func TestGenerateQuiz(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req QuizRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Context.Concept != "Forces" || req.Provider != "openai" {
			t.Errorf("request = %+v", req)
		}
		w.Write([]byte(`{"questions":[{"question":"q1","options":["a","b"],"correctAnswer":"a"}],"metadata":{"generatedWith":"gpt"}}`))
	})

	resp, err := client.GenerateQuiz(context.Background(), QuizRequest{
		Difficulty: "easy",
		Context:    QuizContext{Concept: "Forces"},
		Provider:   "openai",
	})
	if err != nil {
		t.Fatal(err)
	}
	quiz := resp.Quiz("easy", "1.1.1 Forces")
	if quiz.TotalQuestions != 1 || quiz.GeneratedWith != "gpt" || quiz.Difficulty != "easy" {
		t.Errorf("quiz = %+v", quiz)
	}
}

func TestGenerateQuizEmpty(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"questions":[]}`))
	})
	_, err := client.GenerateQuiz(context.Background(), QuizRequest{})
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Code != CodeBadResponse {
		t.Errorf("err = %v", err)
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		code    string
		message string
	}{
		{"error field", http.StatusInternalServerError, `{"error":"model overloaded"}`, CodeServer, "model overloaded"},
		{"message field", http.StatusBadRequest, `{"message":"title required"}`, CodeBadRequest, "title required"},
		{"detail field", http.StatusNotFound, `{"detail":"course missing"}`, CodeNotFound, "course missing"},
		{"structured detail", http.StatusUnprocessableEntity, `{"detail":[{"loc":"title"}]}`, CodeBadRequest, `[{"loc":"title"}]`},
		{"no body", http.StatusUnauthorized, ``, CodeUnauthorized, "Unauthorized"},
		{"plain text", http.StatusBadGateway, `upstream died`, CodeServer, "Bad Gateway"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.SaveCourse(context.Background(), &course.Module{Title: "M"})
			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("want *Error, got %v", err)
			}
			if apiErr.Status != tt.status || apiErr.Code != tt.code || apiErr.Message != tt.message {
				t.Errorf("error = %+v", apiErr)
			}
			if calls.Load() != 1 {
				t.Errorf("calls = %d, want exactly one attempt", calls.Load())
			}
		})
	}
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := New(url, "", time.Second)
	err := client.Persist(context.Background(), &course.Module{})
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Code != CodeNetwork || apiErr.Unwrap() == nil {
		t.Errorf("err = %v", err)
	}
}

func TestSaveCourse(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/courses/save" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req struct {
			Course course.Module `json:"course"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.Course.Title != "M" {
			t.Errorf("course = %+v", req.Course)
		}
		w.Write([]byte(`{"courseId":"abc"}`))
	})

	resp, err := client.SaveCourse(context.Background(), &course.Module{Title: "M"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.CourseID != "abc" {
		t.Errorf("response = %+v", resp)
	}
	if _, err := client.SaveCourse(context.Background(), nil); err == nil {
		t.Error("nil module should fail")
	}
}

func TestBadJSON(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	})
	_, err := client.ProcessCurriculum(context.Background(), ProcessRequest{Curriculum: "x"})
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Code != CodeBadResponse {
		t.Errorf("err = %v", err)
	}
}
