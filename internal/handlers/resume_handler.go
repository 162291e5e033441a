package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jaychopda/ai-interview-taking-system/internal/metrics"
	"github.com/jaychopda/ai-interview-taking-system/internal/models"
	"github.com/jaychopda/ai-interview-taking-system/internal/repositories"
	"github.com/jaychopda/ai-interview-taking-system/internal/upstream/interviewer"
	"github.com/jaychopda/ai-interview-taking-system/internal/utils"

	"go.uber.org/zap"
)

const maxUploadBytes = 10 << 20 // 10MB, matching the client-side limit

var allowedResumeExts = map[string]bool{".pdf": true, ".doc": true, ".docx": true}

// ResumeHandler accepts resume uploads, forwards them for analysis and
// serves the latest stored analysis.
type ResumeHandler struct {
	resumes   repositories.ResumeRepository
	ai        *interviewer.Client
	uploadDir string
	logger    *zap.Logger
}

func NewResumeHandler(resumes repositories.ResumeRepository, ai *interviewer.Client, uploadDir string, logger *zap.Logger) *ResumeHandler {
	return &ResumeHandler{resumes: resumes, ai: ai, uploadDir: uploadDir, logger: logger}
}

// UploadHandler saves the file only long enough to stream it upstream; the
// local copy is removed in every outcome.
func (h *ResumeHandler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := authenticatedOwner(r)
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, models.CodeUnauthorized, "Authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("resume")
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, models.CodeInvalidRequest, "No file uploaded")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedResumeExts[ext] {
		utils.JSONError(w, http.StatusBadRequest, models.CodeInvalidRequest, "Invalid file type. Only PDF, DOC and DOCX are allowed")
		return
	}

	path, err := saveUpload(h.uploadDir, header.Filename, file)
	if err != nil {
		h.logger.Error("failed to save upload", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, models.CodeInternalError, "Failed to process resume")
		return
	}
	defer os.Remove(path)

	f, err := os.Open(path)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, models.CodeInternalError, "Failed to process resume")
		return
	}
	defer f.Close()

	insights, err := h.ai.AnalyzeResume(r.Context(), header.Filename, f)
	metrics.RecordUpstream("interviewer", err)
	if err != nil {
		h.logger.Error("resume analysis failed", zap.Error(err))
		utils.JSONError(w, http.StatusBadGateway, models.CodeAnalysisFailed, "Failed to analyze resume")
		return
	}

	analysis := &models.ResumeAnalysis{UserID: ownerID, Analysis: *insights}
	if err := h.resumes.Create(r.Context(), analysis); err != nil {
		h.logger.Error("failed to persist resume analysis", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, models.CodeInternalError, "Failed to save resume analysis")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"analysis": insights,
		"message":  "Resume uploaded and analyzed successfully",
	})
}

// LatestHandler returns the most recent analysis, or a null analysis when
// the user has not uploaded a resume yet.
func (h *ResumeHandler) LatestHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := authenticatedOwner(r)
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, models.CodeUnauthorized, "Authentication required")
		return
	}

	analysis, err := h.resumes.LatestByUser(r.Context(), ownerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.JSON(w, http.StatusOK, map[string]any{"success": true, "analysis": nil})
			return
		}
		h.logger.Error("failed to fetch resume analysis", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, models.CodeInternalError, "Failed to fetch resume analysis")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]any{"success": true, "analysis": analysis.Analysis})
}

// saveUpload writes the multipart file under dir with a timestamped name.
func saveUpload(dir, filename string, src io.Reader) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filepath.Base(filename))
	path := filepath.Join(dir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}
