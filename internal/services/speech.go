package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Speech recognition failure modes. These surface to the caller as an error
// payload; they are never written to the voice command log.
var (
	ErrRecognitionTimeout = errors.New("Timeout: No speech detected")
	ErrUnintelligible     = errors.New("Could not understand audio")
)

const (
	// How long recognition waits for speech to start and how much speech
	// it will take once started.
	listenTimeout   = 5 * time.Second
	phraseTimeLimit = 10 * time.Second
)

// SpeechClient talks to the external speech service over HTTP. Recognition
// is synchronous within the request that triggers it; synthesis is only ever
// called from the playback workers.
type SpeechClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewSpeechClient() *SpeechClient {
	return &SpeechClient{
		baseURL: strings.TrimRight(os.Getenv("SPEECH_API_URL"), "/"),
		apiKey:  os.Getenv("SPEECH_API_KEY"),
		client: &http.Client{
			// Covers the listen window plus the phrase itself
			Timeout: listenTimeout + phraseTimeLimit + 5*time.Second,
		},
	}
}

type recognizeRequest struct {
	TimeoutSeconds     float64 `json:"timeout"`
	PhraseLimitSeconds float64 `json:"phrase_time_limit"`
}

type recognizeResponse struct {
	Text  string `json:"text"`
	Error string `json:"error"`
}

// Recognize asks the speech service to capture and transcribe one utterance.
// The returned text is lowercased so the intent rules see normalized input.
func (s *SpeechClient) Recognize(ctx context.Context) (string, error) {
	if s.baseURL == "" {
		return "", fmt.Errorf("speech recognition error: SPEECH_API_URL not set")
	}

	payload, err := json.Marshal(recognizeRequest{
		TimeoutSeconds:     listenTimeout.Seconds(),
		PhraseLimitSeconds: phraseTimeLimit.Seconds(),
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/recognize", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("speech recognition error: %v", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusRequestTimeout:
		return "", ErrRecognitionTimeout
	case http.StatusUnprocessableEntity:
		return "", ErrUnintelligible
	default:
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("speech recognition error: status %d: %s", resp.StatusCode, string(body))
	}

	var result recognizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("speech recognition error: %v", err)
	}
	if result.Error != "" {
		return "", fmt.Errorf("speech recognition error: %s", result.Error)
	}

	return strings.ToLower(strings.TrimSpace(result.Text)), nil
}

type synthesizeRequest struct {
	Text   string  `json:"text"`
	Rate   int     `json:"rate"`
	Volume float64 `json:"volume"`
}

// Synthesize converts text to audio and returns the raw payload plus its
// content type.
func (s *SpeechClient) Synthesize(ctx context.Context, text string) ([]byte, string, error) {
	if s.baseURL == "" {
		return nil, "", fmt.Errorf("speech synthesis error: SPEECH_API_URL not set")
	}

	payload, err := json.Marshal(synthesizeRequest{Text: text, Rate: 150, Volume: 0.9})
	if err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/synthesize", bytes.NewReader(payload))
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("speech synthesis error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, "", fmt.Errorf("speech synthesis error: status %d: %s", resp.StatusCode, string(body))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("speech synthesis error: %v", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/mpeg"
	}
	return audio, contentType, nil
}
