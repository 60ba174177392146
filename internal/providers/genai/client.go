package genai

import "context"

// Blob carries inlined binary media, base64-encoded, with its MIME type.
type Blob struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// Part is one piece of a content turn: either text or inlined media.
type Part struct {
	Text       string `json:"text,omitempty"`
	InlineData *Blob  `json:"inlineData,omitempty"`
}

// Content is one role-tagged turn in a completion request.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// GenerationConfig holds the sampling parameters sent with a request.
type GenerationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	TopK            int     `json:"topK,omitempty"`
	TopP            float64 `json:"topP,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

// Request is a provider-neutral completion request: ordered contents plus a
// generation configuration.
type Request struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

// Client performs exactly one request/response exchange with a text completion
// provider. Implementations return the raw response text or a
// *domain.TransportError; they never return an empty string silently and never
// retry on their own.
type Client interface {
	GenerateText(ctx context.Context, req Request) (string, error)
}
