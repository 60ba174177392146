package diagnosis

import (
	"encoding/base64"
	"strings"

	"homefix/internal/domain"
	"homefix/internal/providers/genai"
)

// Sampling parameters sent with every provider call. Follow-up turns get a
// shorter output budget since they are conversational replies, not full
// diagnoses.
const (
	genTemperature     = 0.7
	genTopK            = 40
	genTopP            = 0.95
	maxDiagnosisTokens = 1024
	maxFollowUpTokens  = 512
)

const diagnosisInstruction = `You are a professional home repair diagnostic assistant. Analyze the photo (when provided) and the user's description to identify the problem and provide repair recommendations.

Respond with valid JSON only, matching exactly this shape and nothing else:
{"issue": string, "severity": "low"|"medium"|"high", "recommendedActions": [string], "requiredParts": [{"id": string, "name": string, "estimatedCost": string, "availabilityStatus": "in-stock"|"limited"|"out-of-stock"}]}

Keep recommendedActions in execution order. Base the diagnosis only on what you can see in the image and the description.`

// BuildDiagnosisPrompt assembles the initial provider request for a capture
// submission. It is pure: the description is embedded verbatim and the image,
// when present, is inlined base64-encoded.
func BuildDiagnosisPrompt(req domain.DiagnosisRequest, locale string) (genai.Request, error) {
	if err := req.Validate(); err != nil {
		return genai.Request{}, err
	}
	var sb strings.Builder
	sb.WriteString(diagnosisInstruction)
	sb.WriteString("\n\nAnswer in ")
	sb.WriteString(localeLanguage(locale))
	sb.WriteString(".\n\nUser problem description: ")
	sb.WriteString(req.Description)

	parts := []genai.Part{{Text: sb.String()}}
	if len(req.ImageData) > 0 {
		parts = append(parts, genai.Part{InlineData: &genai.Blob{
			MIMEType: req.ImageMIME,
			Data:     base64.StdEncoding.EncodeToString(req.ImageData),
		}})
	}
	return genai.Request{
		Contents: []genai.Content{{Role: string(domain.RoleUser), Parts: parts}},
		GenerationConfig: &genai.GenerationConfig{
			Temperature:     genTemperature,
			TopK:            genTopK,
			TopP:            genTopP,
			MaxOutputTokens: maxDiagnosisTokens,
		},
	}, nil
}

// BuildFollowUpPrompt assembles a follow-up request: the full conversation
// history, in original order and unmodified, followed by the new user message.
// No truncation window is applied; every turn exchanged so far is sent.
func BuildFollowUpPrompt(history []domain.ConversationMessage, message string) (genai.Request, error) {
	if strings.TrimSpace(message) == "" {
		return genai.Request{}, domain.ErrInvalidInput
	}
	contents := make([]genai.Content, 0, len(history)+1)
	for _, msg := range history {
		contents = append(contents, genai.Content{
			Role:  string(msg.Role),
			Parts: []genai.Part{{Text: msg.Content}},
		})
	}
	contents = append(contents, genai.Content{
		Role:  string(domain.RoleUser),
		Parts: []genai.Part{{Text: message}},
	})
	return genai.Request{
		Contents: contents,
		GenerationConfig: &genai.GenerationConfig{
			Temperature:     genTemperature,
			TopK:            genTopK,
			TopP:            genTopP,
			MaxOutputTokens: maxFollowUpTokens,
		},
	}, nil
}

func localeLanguage(locale string) string {
	if strings.HasPrefix(strings.ToLower(locale), "es") {
		return "Spanish"
	}
	return "English"
}
