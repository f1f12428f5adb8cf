package services

import (
	"context"
	"log"
	"mime"
	"time"

	"github.com/google/uuid"
)

const (
	playbackWorkers = 2
	playbackQueue   = 32
)

// PlaybackPool runs text-to-speech jobs in the background so HTTP responses
// never wait on audio. Completion and failure are unobservable by the
// submitter: errors are logged and swallowed.
type PlaybackPool struct {
	jobs chan string

	// Replaceable seams for tests
	synthesize func(ctx context.Context, text string) ([]byte, string, error)
	store      func(name string, data []byte, contentType string) (string, error)
}

func NewPlaybackPool(speech *SpeechClient) *PlaybackPool {
	return &PlaybackPool{
		jobs:       make(chan string, playbackQueue),
		synthesize: speech.Synthesize,
		store:      StoreAudio,
	}
}

// Run starts the worker goroutines. Call once from main.
func (p *PlaybackPool) Run() {
	for i := 0; i < playbackWorkers; i++ {
		go p.worker()
	}
}

// Enqueue submits text for synthesis without blocking. A full queue drops
// the job; the caller already got its acknowledgment either way.
func (p *PlaybackPool) Enqueue(text string) bool {
	if text == "" {
		return false
	}
	select {
	case p.jobs <- text:
		return true
	default:
		log.Printf("Playback queue full, dropping utterance")
		return false
	}
}

func (p *PlaybackPool) worker() {
	for text := range p.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		audio, contentType, err := p.synthesize(ctx, text)
		cancel()
		if err != nil {
			log.Printf("TTS Error: %v", err)
			continue
		}

		name := uuid.New().String() + extensionFor(contentType)
		url, err := p.store(name, audio, contentType)
		if err != nil {
			log.Printf("Failed to store synthesized audio: %v", err)
			continue
		}
		log.Printf("Synthesized audio stored at %s", url)
	}
}

func extensionFor(contentType string) string {
	exts, err := mime.ExtensionsByType(contentType)
	if err != nil || len(exts) == 0 {
		return ".mp3"
	}
	return exts[0]
}
