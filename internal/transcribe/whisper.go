package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"interview-coach/internal/config"
)

// WhisperTranscriber работает с OpenAI-совместимым /audio/transcriptions (Groq, OpenAI)
type WhisperTranscriber struct {
	apiKey   string
	baseURL  string
	model    string
	language string
	client   *http.Client
}

type whisperResponse struct {
	Text  string `json:"text"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewWhisper(cfg config.STTConfig) *WhisperTranscriber {
	return &WhisperTranscriber{
		apiKey:   cfg.APIKey,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		model:    cfg.Model,
		language: whisperLanguage(cfg.Language),
		client:   &http.Client{Timeout: 120 * time.Second},
	}
}

func (w *WhisperTranscriber) Transcribe(ctx context.Context, path string) (string, error) {
	body, contentType, err := w.buildForm(path)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.baseURL+"/audio/transcriptions", body)
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+w.apiKey)

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcription API error %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out whisperResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("error parsing response: %w", err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("transcription API error: %s", out.Error.Message)
	}

	text := strings.TrimSpace(out.Text)
	if text == "" {
		return "", ErrEmptyTranscript
	}
	return text, nil
}

func (w *WhisperTranscriber) buildForm(path string) (*bytes.Buffer, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("read audio: %w", err)
	}

	fields := map[string]string{
		"model":           w.model,
		"response_format": "json",
		"language":        w.language,
	}
	for k, v := range fields {
		if v == "" {
			continue
		}
		if err := form.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	if err := form.Close(); err != nil {
		return nil, "", err
	}
	return &buf, form.FormDataContentType(), nil
}

// whisperLanguage переводит en-US в en: Whisper принимает ISO-639-1
func whisperLanguage(code string) string {
	code = strings.TrimSpace(code)
	if i := strings.IndexAny(code, "-_"); i > 0 {
		code = code[:i]
	}
	return strings.ToLower(code)
}
