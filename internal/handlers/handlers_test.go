package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jaychopda/ai-interview-taking-system/internal/handlers"
	"github.com/jaychopda/ai-interview-taking-system/internal/models"
	"github.com/jaychopda/ai-interview-taking-system/internal/repositories"
	"github.com/jaychopda/ai-interview-taking-system/internal/routers"
	"github.com/jaychopda/ai-interview-taking-system/internal/session"
	"github.com/jaychopda/ai-interview-taking-system/internal/upstream/interviewer"
	"github.com/jaychopda/ai-interview-taking-system/internal/upstream/sarvam"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ---- in-memory repositories ----

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User // keyed by hex id
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrDuplicateEmail
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()
	copied := *user
	r.users[user.ID.Hex()] = &copied
	return nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id.Hex()]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, repositories.ErrNotFound
}

type fakeInterviewRepo struct {
	mu         sync.Mutex
	interviews map[string]*models.Interview // keyed by session id
}

func newFakeInterviewRepo() *fakeInterviewRepo {
	return &fakeInterviewRepo{interviews: make(map[string]*models.Interview)}
}

func (r *fakeInterviewRepo) Create(_ context.Context, interview *models.Interview) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	interview.ID = primitive.NewObjectID()
	interview.CreatedAt = time.Now().UTC()
	if interview.Rounds == nil {
		interview.Rounds = []models.InterviewRound{}
	}
	copied := *interview
	r.interviews[interview.SessionID] = &copied
	return nil
}

func (r *fakeInterviewRepo) GetBySessionID(_ context.Context, sessionID string) (*models.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if iv, ok := r.interviews[sessionID]; ok {
		copied := *iv
		copied.Rounds = append([]models.InterviewRound{}, iv.Rounds...)
		return &copied, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeInterviewRepo) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Interview{}
	for _, iv := range r.interviews {
		if iv.UserID == userID {
			out = append(out, *iv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeInterviewRepo) guarded(sessionID string, expected int) (*models.Interview, error) {
	iv, ok := r.interviews[sessionID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if iv.IsComplete {
		return nil, repositories.ErrInterviewComplete
	}
	if iv.CurrentQuestion != expected {
		return nil, repositories.ErrStaleSubmission
	}
	return iv, nil
}

func (r *fakeInterviewRepo) Advance(_ context.Context, sessionID string, expected int, round models.InterviewRound, nextQuestion string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	iv, err := r.guarded(sessionID, expected)
	if err != nil {
		return err
	}
	iv.Rounds = append(iv.Rounds, round)
	iv.CurrentQuestion = expected + 1
	iv.CurrentQuestionText = nextQuestion
	return nil
}

func (r *fakeInterviewRepo) Complete(_ context.Context, sessionID string, expected int, round models.InterviewRound, finalScore float64, suggestions []string, overallAdvice string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	iv, err := r.guarded(sessionID, expected)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	iv.Rounds = append(iv.Rounds, round)
	iv.IsComplete = true
	iv.FinalScore = &finalScore
	iv.Suggestions = suggestions
	iv.OverallAdvice = overallAdvice
	iv.CompletedAt = &now
	return nil
}

func (r *fakeInterviewRepo) MarkCancelled(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if iv, ok := r.interviews[sessionID]; ok && !iv.IsComplete {
		now := time.Now().UTC()
		iv.CancelledAt = &now
	}
	return nil
}

type fakeResumeRepo struct {
	mu       sync.Mutex
	analyses []*models.ResumeAnalysis
}

func newFakeResumeRepo() *fakeResumeRepo { return &fakeResumeRepo{} }

func (r *fakeResumeRepo) Create(_ context.Context, analysis *models.ResumeAnalysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	analysis.ID = primitive.NewObjectID()
	analysis.CreatedAt = time.Now().UTC()
	copied := *analysis
	r.analyses = append(r.analyses, &copied)
	return nil
}

func (r *fakeResumeRepo) LatestByUser(_ context.Context, userID primitive.ObjectID) (*models.ResumeAnalysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *models.ResumeAnalysis
	for _, a := range r.analyses {
		if a.UserID != userID {
			continue
		}
		if latest == nil || a.CreatedAt.After(latest.CreatedAt) {
			latest = a
		}
	}
	if latest == nil {
		return nil, repositories.ErrNotFound
	}
	copied := *latest
	return &copied, nil
}

// ---- fake AI service ----

// fakeAIService emulates the Python interview service: sessions complete on
// the question matching the requested total.
type fakeAIService struct {
	mu       sync.Mutex
	calls    map[string]int
	totals   map[string]int // session id -> requested total questions
	nextID   int
	failNext bool
}

func newFakeAIService() *fakeAIService {
	return &fakeAIService{calls: make(map[string]int), totals: make(map[string]int)}
}

func (f *fakeAIService) callCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func (f *fakeAIService) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/start-interview", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.calls["/start-interview"]++
		fail := f.failNext
		f.failNext = false
		f.nextID++
		id := fmt.Sprintf("sess-%d", f.nextID)
		var req struct {
			TotalQuestions int `json:"total_questions"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		f.totals[id] = req.TotalQuestions
		f.mu.Unlock()

		if fail {
			http.Error(w, "model overloaded", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"session_id": id, "question": "Q1"})
	})
	mux.HandleFunc("/submit-answer", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			SessionID      string `json:"session_id"`
			QuestionNumber int    `json:"question_number"`
		}
		json.NewDecoder(r.Body).Decode(&req)

		f.mu.Lock()
		f.calls["/submit-answer"]++
		total := f.totals[req.SessionID]
		f.mu.Unlock()

		if req.QuestionNumber >= total {
			json.NewEncoder(w).Encode(map[string]any{
				"feedback":       "final feedback",
				"score":          8.0,
				"is_complete":    true,
				"final_score":    7.2,
				"suggestions":    []string{"Review algorithms"},
				"overall_advice": "Solid performance",
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"feedback":        fmt.Sprintf("feedback %d", req.QuestionNumber),
			"score":           6.5,
			"next_question":   fmt.Sprintf("Q%d", req.QuestionNumber+1),
			"question_number": req.QuestionNumber + 1,
			"is_complete":     false,
		})
	})
	mux.HandleFunc("/analyze-resume", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.calls["/analyze-resume"]++
		f.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"analysis": map[string]any{
				"name":   "Jay",
				"skills": []string{"Python", "SQL"},
			},
		})
	})
	mux.HandleFunc("/cancel-interview", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.calls["/cancel-interview"]++
		f.mu.Unlock()
		w.Write([]byte("{}"))
	})
	mux.HandleFunc("/interview-results/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.calls["/interview-results"]++
		f.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{"session_id": "sess-1", "is_complete": true})
	})
	return mux
}

// ---- test environment ----

type testEnv struct {
	router     *chi.Mux
	users      *fakeUserRepo
	interviews *fakeInterviewRepo
	resumes    *fakeResumeRepo
	sessions   *session.Store
	ai         *fakeAIService
	speechSrv  *httptest.Server
	uploadDir  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	ai := newFakeAIService()
	aiSrv := httptest.NewServer(ai.handler())
	t.Cleanup(aiSrv.Close)

	speechSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/text-to-speech":
			json.NewEncoder(w).Encode(map[string]any{"audios": []string{"data:audio/wav;base64,AA"}})
		case "/speech-to-text":
			json.NewEncoder(w).Encode(map[string]any{"transcript": "spoken answer"})
		}
	}))
	t.Cleanup(speechSrv.Close)

	env := &testEnv{
		users:      newFakeUserRepo(),
		interviews: newFakeInterviewRepo(),
		resumes:    newFakeResumeRepo(),
		sessions:   session.NewStore(rdb, time.Hour),
		ai:         ai,
		speechSrv:  speechSrv,
	}

	logger := zap.NewNop()
	aiClient := interviewer.NewClient(aiSrv.URL, 5*time.Second)
	speechClient := sarvam.NewClient(speechSrv.URL, "test-key", 5*time.Second)
	uploadDir := t.TempDir()
	env.uploadDir = uploadDir

	authHandler := handlers.NewAuthHandler(env.users, env.sessions, logger)
	interviewHandler := handlers.NewInterviewHandler(env.interviews, aiClient, logger)
	historyHandler := handlers.NewHistoryHandler(env.interviews, aiClient, logger)
	resumeHandler := handlers.NewResumeHandler(env.resumes, aiClient, uploadDir, logger)
	speechHandler := handlers.NewSpeechHandler(speechClient, uploadDir, logger)

	router := chi.NewRouter()
	routers.AuthRoutes(router, authHandler)
	routers.InterviewRoutes(router, env.sessions, interviewHandler, historyHandler, resumeHandler)
	routers.SpeechRoutes(router, speechHandler)

	env.router = router
	return env
}

func (env *testEnv) do(t *testing.T, req *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// register creates an account and returns its session cookie.
func (env *testEnv) register(t *testing.T, email, password string) *http.Cookie {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"name":"Test"}`, email, password)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := env.do(t, req, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("registration failed: %d %s", w.Code, w.Body.String())
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie issued on registration")
	return nil
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode body %q: %v", w.Body.String(), err)
	}
	return out
}
