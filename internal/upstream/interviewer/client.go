// Package interviewer is the gateway to the external AI service that parses
// resumes, generates questions and scores answers. The service owns the
// interview state machine; this client only translates request and response
// shapes and never interprets the content it relays.
package interviewer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/jaychopda/ai-interview-taking-system/internal/models"
	"github.com/jaychopda/ai-interview-taking-system/internal/upstream"
)

const serviceName = "interviewer"

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// StartResult is the upstream reply to a start-interview call. The session
// id is opaque and authoritative.
type StartResult struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
}

// SubmitResult carries feedback for the answered question and either the
// next question or the completion payload.
type SubmitResult struct {
	Feedback       string   `json:"feedback"`
	Score          float64  `json:"score"`
	NextQuestion   string   `json:"next_question"`
	QuestionNumber int      `json:"question_number"`
	IsComplete     bool     `json:"is_complete"`
	FinalScore     *float64 `json:"final_score"`
	Suggestions    []string `json:"suggestions"`
	OverallAdvice  string   `json:"overall_advice"`
}

type startRequest struct {
	Position       string                 `json:"position"`
	Difficulty     string                 `json:"difficulty"`
	Skills         []string               `json:"skills"`
	TotalQuestions int                    `json:"total_questions"`
	ResumeData     *models.ResumeInsights `json:"resume_data"`
}

type submitRequest struct {
	SessionID      string `json:"session_id"`
	Answer         string `json:"answer"`
	QuestionNumber int    `json:"question_number"`
}

type cancelRequest struct {
	SessionID string `json:"session_id"`
}

// StartInterview asks the service for a new session and its first question.
func (c *Client) StartInterview(ctx context.Context, position string, difficulty models.Difficulty, skills []string, totalQuestions int, resume *models.ResumeInsights) (*StartResult, error) {
	body := startRequest{
		Position:       position,
		Difficulty:     string(difficulty),
		Skills:         skills,
		TotalQuestions: totalQuestions,
		ResumeData:     resume,
	}
	var result StartResult
	if err := c.postJSON(ctx, "/start-interview", body, &result); err != nil {
		return nil, err
	}
	if result.SessionID == "" || result.Question == "" {
		return nil, &upstream.Error{Service: serviceName, Code: upstream.ErrCodeBadResponse, Message: "start-interview reply missing session id or question"}
	}
	return &result, nil
}

// SubmitAnswer forwards an answer for scoring. Completion is decided
// upstream; the flag in the result is relayed as-is.
func (c *Client) SubmitAnswer(ctx context.Context, sessionID, answer string, questionNumber int) (*SubmitResult, error) {
	body := submitRequest{SessionID: sessionID, Answer: answer, QuestionNumber: questionNumber}
	var result SubmitResult
	if err := c.postJSON(ctx, "/submit-answer", body, &result); err != nil {
		return nil, err
	}
	if result.IsComplete && result.FinalScore == nil {
		return nil, &upstream.Error{Service: serviceName, Code: upstream.ErrCodeBadResponse, Message: "completion reply missing final score"}
	}
	return &result, nil
}

// AnalyzeResume streams an uploaded resume file for structured extraction.
func (c *Client) AnalyzeResume(ctx context.Context, filename string, file io.Reader) (*models.ResumeInsights, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, &upstream.Error{Service: serviceName, Code: upstream.ErrCodeBadResponse, Message: "failed to build upload body", Err: err}
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, &upstream.Error{Service: serviceName, Code: upstream.ErrCodeBadResponse, Message: "failed to read upload", Err: err}
	}
	if err := mw.Close(); err != nil {
		return nil, &upstream.Error{Service: serviceName, Code: upstream.ErrCodeBadResponse, Message: "failed to finalize upload body", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze-resume", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var reply struct {
		Success  bool                  `json:"success"`
		Analysis models.ResumeInsights `json:"analysis"`
	}
	if err := c.do(req, &reply); err != nil {
		return nil, err
	}
	return &reply.Analysis, nil
}

// CancelSession tells the service a session was abandoned so it can release
// resources early. Best effort: callers ignore the returned error.
func (c *Client) CancelSession(ctx context.Context, sessionID string) error {
	return c.postJSON(ctx, "/cancel-interview", cancelRequest{SessionID: sessionID}, nil)
}

// FetchResults returns the service's own view of a finished session. The
// payload is relayed opaquely.
func (c *Client) FetchResults(ctx context.Context, sessionID string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/interview-results/"+sessionID, nil)
	if err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if err := c.do(req, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &upstream.Error{Service: serviceName, Code: upstream.ErrCodeUnavailable, Message: "AI service unreachable", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &upstream.Error{Service: serviceName, Code: upstream.ErrCodeNotFound, Message: "AI service has no such resource"}
	}
	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &upstream.Error{
			Service: serviceName,
			Code:    upstream.ErrCodeUnavailable,
			Message: fmt.Sprintf("AI service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))),
		}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &upstream.Error{Service: serviceName, Code: upstream.ErrCodeBadResponse, Message: "unparseable AI service reply", Err: err}
	}
	return nil
}
