// Package sarvam calls the Sarvam speech vendor for text-to-speech and
// speech-to-text. Both operations are non-fatal to the interview flow:
// question text stays readable without audio and a failed transcription
// only blocks the one answer being dictated.
package sarvam

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

	"github.com/jaychopda/ai-interview-taking-system/internal/upstream"
)

const serviceName = "sarvam"

// vendor model identifiers
const (
	ttsModel     = "bulbul:v1"
	sttModel     = "saarika:v2.5"
	languageCode = "en-IN"
	ttsSpeaker   = "meera"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type synthesizeRequest struct {
	Inputs              []string `json:"inputs"`
	TargetLanguageCode  string   `json:"target_language_code"`
	Speaker             string   `json:"speaker"`
	Pitch               int      `json:"pitch"`
	Pace                float64  `json:"pace"`
	Loudness            float64  `json:"loudness"`
	SpeechSampleRate    int      `json:"speech_sample_rate"`
	EnablePreprocessing bool     `json:"enable_preprocessing"`
	Model               string   `json:"model"`
}

// Synthesize converts question text to a playable audio resource.
func (c *Client) Synthesize(ctx context.Context, text string) (string, error) {
	body := synthesizeRequest{
		Inputs:              []string{text},
		TargetLanguageCode:  languageCode,
		Speaker:             ttsSpeaker,
		Pace:                1.0,
		Loudness:            1.0,
		SpeechSampleRate:    8000,
		EnablePreprocessing: true,
		Model:               ttsModel,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/text-to-speech", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-subscription-key", c.apiKey)

	var reply struct {
		Audios []string `json:"audios"`
	}
	if err := c.do(req, &reply); err != nil {
		return "", err
	}
	if len(reply.Audios) == 0 || reply.Audios[0] == "" {
		return "", &upstream.Error{Service: serviceName, Code: upstream.ErrCodeBadResponse, Message: "text-to-speech reply carried no audio"}
	}
	return reply.Audios[0], nil
}

// Transcribe converts a recorded answer to text.
func (c *Client) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", &upstream.Error{Service: serviceName, Code: upstream.ErrCodeBadResponse, Message: "failed to build upload body", Err: err}
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", &upstream.Error{Service: serviceName, Code: upstream.ErrCodeBadResponse, Message: "failed to read recording", Err: err}
	}
	_ = mw.WriteField("model", sttModel)
	_ = mw.WriteField("language_code", languageCode)
	if err := mw.Close(); err != nil {
		return "", &upstream.Error{Service: serviceName, Code: upstream.ErrCodeBadResponse, Message: "failed to finalize upload body", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/speech-to-text", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("api-subscription-key", c.apiKey)

	var reply struct {
		Transcript string `json:"transcript"`
	}
	if err := c.do(req, &reply); err != nil {
		return "", err
	}
	return reply.Transcript, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &upstream.Error{Service: serviceName, Code: upstream.ErrCodeUnavailable, Message: "speech vendor unreachable", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &upstream.Error{
			Service: serviceName,
			Code:    upstream.ErrCodeUnavailable,
			Message: fmt.Sprintf("speech vendor returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &upstream.Error{Service: serviceName, Code: upstream.ErrCodeBadResponse, Message: "unparseable speech vendor reply", Err: err}
	}
	return nil
}
