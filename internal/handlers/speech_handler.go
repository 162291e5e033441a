package handlers

import (
	"net/http"
	"os"

	"github.com/jaychopda/ai-interview-taking-system/internal/metrics"
	"github.com/jaychopda/ai-interview-taking-system/internal/middleware"
	"github.com/jaychopda/ai-interview-taking-system/internal/models"
	"github.com/jaychopda/ai-interview-taking-system/internal/upstream/sarvam"
	"github.com/jaychopda/ai-interview-taking-system/internal/utils"

	"go.uber.org/zap"
)

// SpeechHandler fronts the speech vendor. Both operations are optional
// conveniences for the interview flow, so failures map to their own error
// codes and the client can fall back to plain text.
type SpeechHandler struct {
	speech    *sarvam.Client
	uploadDir string
	logger    *zap.Logger
}

func NewSpeechHandler(speech *sarvam.Client, uploadDir string, logger *zap.Logger) *SpeechHandler {
	return &SpeechHandler{speech: speech, uploadDir: uploadDir, logger: logger}
}

func (h *SpeechHandler) SynthesizeHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.SynthesizeRequest](r)

	audioURL, err := h.speech.Synthesize(r.Context(), req.Text)
	metrics.RecordUpstream("sarvam", err)
	if err != nil {
		h.logger.Error("text-to-speech failed", zap.Error(err))
		utils.JSONError(w, http.StatusBadGateway, models.CodeSpeechUnavailable, "Failed to convert text to speech")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]any{"success": true, "audioUrl": audioURL})
}

// TranscribeHandler stores the recording only long enough to stream it to
// the vendor, then removes it.
func (h *SpeechHandler) TranscribeHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("audio")
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, models.CodeInvalidRequest, "No audio uploaded")
		return
	}
	defer file.Close()

	path, err := saveUpload(h.uploadDir, header.Filename, file)
	if err != nil {
		h.logger.Error("failed to save audio upload", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, models.CodeInternalError, "Failed to process audio")
		return
	}
	defer os.Remove(path)

	f, err := os.Open(path)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, models.CodeInternalError, "Failed to process audio")
		return
	}
	defer f.Close()

	transcript, err := h.speech.Transcribe(r.Context(), header.Filename, f)
	metrics.RecordUpstream("sarvam", err)
	if err != nil {
		h.logger.Error("speech-to-text failed", zap.Error(err))
		utils.JSONError(w, http.StatusBadGateway, models.CodeTranscriptionFailed, "Failed to convert speech to text")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]any{"success": true, "transcript": transcript})
}
