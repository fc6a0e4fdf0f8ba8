package transcribe

import (
	"context"
	"fmt"
	"os"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
)

// recognizeFunc - синхронный вызов Speech-to-Text
type recognizeFunc func(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error)

// GoogleTranscriber распознаёт короткие записи через Google Cloud Speech-to-Text.
// Требует GOOGLE_APPLICATION_CREDENTIALS.
type GoogleTranscriber struct {
	client     *speech.Client
	recognize  recognizeFunc
	language   string
	sampleRate int32
}

func NewGoogle(ctx context.Context, language string, sampleRate int) (*GoogleTranscriber, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create speech client: %w", err)
	}
	g := newGoogle(func(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
		return c.Recognize(ctx, req)
	}, language, sampleRate)
	g.client = c
	return g, nil
}

func newGoogle(recognize recognizeFunc, language string, sampleRate int) *GoogleTranscriber {
	if language == "" {
		language = "en-US"
	}
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	return &GoogleTranscriber{
		recognize:  recognize,
		language:   language,
		sampleRate: int32(sampleRate),
	}
}

func (g *GoogleTranscriber) Transcribe(ctx context.Context, path string) (string, error) {
	audio, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read audio: %w", err)
	}

	resp, err := g.recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:            g.sampleRate,
			LanguageCode:               g.language,
			EnableAutomaticPunctuation: true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return "", fmt.Errorf("recognize: %w", err)
	}

	text := joinResults(resp)
	if text == "" {
		return "", ErrEmptyTranscript
	}
	return text, nil
}

func (g *GoogleTranscriber) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

// joinResults склеивает лучшие альтернативы всех фрагментов
func joinResults(resp *speechpb.RecognizeResponse) string {
	var parts []string
	for _, r := range resp.GetResults() {
		alts := r.GetAlternatives()
		if len(alts) == 0 {
			continue
		}
		if t := strings.TrimSpace(alts[0].GetTranscript()); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
