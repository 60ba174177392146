package transcribe

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"homefix/internal/domain"
	"homefix/internal/providers/genai"
)

const (
	transcribeTemperature = 0.7
	transcribeMaxTokens   = 200
)

const transcribeInstruction = "Transcribe the attached audio recording of a person " +
	"describing a home repair problem. Return only the transcription text, with no " +
	"commentary, labels, or formatting."

// Transcriber converts captured speech audio into text. It is an external
// collaborator boundary: the diagnosis core never depends on it.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

// GenAITranscriber asks the completion provider to transcribe an inlined audio
// clip.
type GenAITranscriber struct {
	client genai.Client
}

// NewGenAITranscriber wraps the given provider client.
func NewGenAITranscriber(client genai.Client) *GenAITranscriber {
	return &GenAITranscriber{client: client}
}

// Transcribe sends the audio clip with the transcription instruction and
// returns the trimmed transcript.
func (t *GenAITranscriber) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if len(audio) == 0 {
		return "", errors.New("transcribe: audio is required")
	}
	if mimeType == "" {
		mimeType = "audio/m4a"
	}
	req := genai.Request{
		Contents: []genai.Content{{
			Role: "user",
			Parts: []genai.Part{
				{Text: transcribeInstruction},
				{InlineData: &genai.Blob{
					MIMEType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(audio),
				}},
			},
		}},
		GenerationConfig: &genai.GenerationConfig{
			Temperature:     transcribeTemperature,
			MaxOutputTokens: transcribeMaxTokens,
		},
	}
	raw, err := t.client.GenerateText(ctx, req)
	if err != nil {
		return "", err
	}
	transcript := strings.TrimSpace(raw)
	if transcript == "" {
		return "", &domain.ParseError{Reason: domain.ParseReasonEmptyReply}
	}
	return transcript, nil
}

var _ Transcriber = (*GenAITranscriber)(nil)
