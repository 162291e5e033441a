package models

import (
	"fmt"
	"strings"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// implements the Validator interface used by the validation middleware
func (r *RegisterRequest) Validate() error {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return &ErrorResponse{Code: CodeInvalidRequest, Message: "A valid email is required"}
	}
	if r.Password == "" {
		return &ErrorResponse{Code: CodeInvalidRequest, Message: "Password is required"}
	}
	if len(r.Password) < 6 {
		return &ErrorResponse{Code: CodeInvalidRequest, Message: "Password must be at least 6 characters"}
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	if r.Email == "" || r.Password == "" {
		return &ErrorResponse{Code: CodeInvalidRequest, Message: "Email and password are required"}
	}
	return nil
}

type StartInterviewRequest struct {
	Position       string          `json:"position"`
	Difficulty     Difficulty      `json:"difficulty"`
	Skills         []string        `json:"skills"`
	TotalQuestions int             `json:"totalQuestions"`
	ResumeAnalysis *ResumeInsights `json:"resumeAnalysis"`
}

// The client pre-validates these fields, but the selection form is not a
// trust boundary; everything is re-checked here.
func (r *StartInterviewRequest) Validate() error {
	if strings.TrimSpace(r.Position) == "" {
		return &ErrorResponse{Code: CodeInvalidRequest, Message: "Position is required"}
	}
	if !SupportedDifficulties[r.Difficulty] {
		return &ErrorResponse{Code: CodeInvalidRequest, Message: "Difficulty must be one of: Beginner, Intermediate, Advanced"}
	}
	skills := r.Skills[:0]
	for _, s := range r.Skills {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	r.Skills = skills
	if len(r.Skills) == 0 {
		return &ErrorResponse{Code: CodeInvalidRequest, Message: "At least one skill must be selected"}
	}
	if !SupportedQuestionCounts[r.TotalQuestions] {
		return &ErrorResponse{Code: CodeInvalidRequest, Message: fmt.Sprintf("Unsupported question count: %d", r.TotalQuestions)}
	}
	return nil
}

type SubmitAnswerRequest struct {
	SessionID      string `json:"sessionId"`
	Answer         string `json:"answer"`
	QuestionNumber int    `json:"questionNumber"`
}

func (r *SubmitAnswerRequest) Validate() error {
	if r.SessionID == "" {
		return &ErrorResponse{Code: CodeInvalidRequest, Message: "Session ID is required"}
	}
	if r.QuestionNumber < 1 {
		return &ErrorResponse{Code: CodeInvalidRequest, Message: "Question number must be positive"}
	}
	return nil
}

// CancelInterviewRequest is the beacon payload sent on tab close. It is
// deliberately lenient: cancellation is advisory and must never error loudly.
type CancelInterviewRequest struct {
	SessionID string `json:"sessionId"`
}

type SynthesizeRequest struct {
	Text string `json:"text"`
}

func (r *SynthesizeRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return &ErrorResponse{Code: CodeInvalidRequest, Message: "Text is required"}
	}
	return nil
}
