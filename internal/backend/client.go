// Package backend calls the course generation and save endpoints. Calls are
// made once; failures come back as *Error and are never retried here.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/gubarz/coursemd/internal/course"
	"github.com/gubarz/coursemd/internal/logger"
)

// Paths are the endpoint paths relative to the base URL
type Paths struct {
	GenerateCurriculum      string
	ProcessCurriculum       string
	GenerateDetailedContent string
	GenerateQuiz            string
	SaveCourse              string
}

// DefaultPaths are the authoring backend's routes
var DefaultPaths = Paths{
	GenerateCurriculum:      "/api/generate-curriculum",
	ProcessCurriculum:       "/api/process-curriculum",
	GenerateDetailedContent: "/api/generate-detailed-content",
	GenerateQuiz:            "/api/generate-quiz",
	SaveCourse:              "/api/courses/save",
}

// Client talks to the authoring backend
type Client struct {
	http  *resty.Client
	paths Paths
	log   *logger.Logger
}

type Option func(*Client)

func WithPaths(p Paths) Option {
	return func(c *Client) { c.paths = p }
}

func WithLogger(log *logger.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a client for baseURL. An empty token sends no Authorization
// header.
func New(baseURL, token string, timeout time.Duration, opts ...Option) *Client {
	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if token != "" {
		http.SetAuthToken(token)
	}
	c := &Client{http: http, paths: DefaultPaths, log: logger.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post(path)
	if err != nil {
		c.log.Warn("backend call failed", "path", path, "error", err)
		return &Error{Code: CodeNetwork, Message: err.Error(), Err: err}
	}
	c.log.Debug("backend call", "path", path, "status", resp.StatusCode(), "took", time.Since(start))

	if resp.IsError() {
		return &Error{
			Status:  resp.StatusCode(),
			Code:    codeFor(resp.StatusCode()),
			Message: serverMessage(resp.StatusCode(), resp.Body()),
		}
	}
	if out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &Error{
			Status:  resp.StatusCode(),
			Code:    CodeBadResponse,
			Message: "unreadable response from server",
			Err:     err,
		}
	}
	return nil
}

// GenerateCurriculum asks for a curriculum outline in markdown
func (c *Client) GenerateCurriculum(ctx context.Context, req CurriculumRequest) (CurriculumResponse, error) {
	var out CurriculumResponse
	err := c.post(ctx, c.paths.GenerateCurriculum, req, &out)
	return out, err
}

// ProcessCurriculum turns a curriculum into module records
func (c *Client) ProcessCurriculum(ctx context.Context, req ProcessRequest) (ProcessResponse, error) {
	var out ProcessResponse
	err := c.post(ctx, c.paths.ProcessCurriculum, req, &out)
	return out, err
}

// GenerateDetailedContent produces the subsections of one module
func (c *Client) GenerateDetailedContent(ctx context.Context, req DetailedContentRequest) (DetailedContentResponse, error) {
	var out DetailedContentResponse
	err := c.post(ctx, c.paths.GenerateDetailedContent, req, &out)
	return out, err
}

// GenerateQuiz produces quiz questions for some module content
func (c *Client) GenerateQuiz(ctx context.Context, req QuizRequest) (QuizResponse, error) {
	var out QuizResponse
	if err := c.post(ctx, c.paths.GenerateQuiz, req, &out); err != nil {
		return QuizResponse{}, err
	}
	if len(out.Questions) == 0 {
		return QuizResponse{}, &Error{Code: CodeBadResponse, Message: "quiz response has no questions"}
	}
	return out, nil
}

// SaveCourse stores a module
func (c *Client) SaveCourse(ctx context.Context, m *course.Module) (SaveResponse, error) {
	if m == nil {
		return SaveResponse{}, errors.New("nothing to save")
	}
	var out SaveResponse
	err := c.post(ctx, c.paths.SaveCourse, SaveRequest{Course: m}, &out)
	return out, err
}

// Persist saves a module, discarding the response
func (c *Client) Persist(ctx context.Context, m *course.Module) error {
	_, err := c.SaveCourse(ctx, m)
	return err
}
