package narration

import (
	"context"
	"errors"
	"io"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAISettings configures the OpenAI speech endpoint.
type OpenAISettings struct {
	APIKey string
	Model  string
	Voice  string
	Speed  float64
}

// OpenAISynthesizer uses the OpenAI text-to-speech API.
type OpenAISynthesizer struct {
	client   *openai.Client
	settings OpenAISettings
}

// NewOpenAISynthesizer creates a synthesizer. The key falls back to
// OPENAI_API_KEY.
func NewOpenAISynthesizer(s OpenAISettings) (*OpenAISynthesizer, error) {
	if s.APIKey == "" {
		s.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if s.APIKey == "" {
		return nil, errors.New("OPENAI_API_KEY environment variable not set")
	}
	if s.Model == "" {
		s.Model = string(openai.TTSModel1)
	}
	if s.Voice == "" {
		s.Voice = string(openai.VoiceAlloy)
	}
	if s.Speed == 0 {
		s.Speed = 1
	}
	return &OpenAISynthesizer{client: openai.NewClient(s.APIKey), settings: s}, nil
}

// Synthesize returns mp3 audio for text.
func (o *OpenAISynthesizer) Synthesize(ctx context.Context, text string) (io.ReadCloser, error) {
	resp, err := o.client.CreateSpeech(ctx, speechRequest(o.settings, text))
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func speechRequest(s OpenAISettings, text string) openai.CreateSpeechRequest {
	return openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(s.Model),
		Input:          text,
		Voice:          openai.SpeechVoice(s.Voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
		Speed:          s.Speed,
	}
}
