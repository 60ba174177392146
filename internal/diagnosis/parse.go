package diagnosis

import (
	"encoding/json"
	"strings"

	"homefix/internal/domain"
)

// ParseDiagnosis extracts a DiagnosisResult from raw model text. The model is
// instructed to return JSON only, but its output is treated as untrusted
// free-form text: code fences are stripped, and every balanced {...} span is
// tried in order until one parses and validates. A partially-valid result is
// never returned.
func ParseDiagnosis(raw string) (*domain.DiagnosisResult, error) {
	text := trimCodeFence(strings.TrimSpace(raw))
	spans := jsonObjectSpans(text)
	if len(spans) == 0 {
		return nil, &domain.ParseError{Reason: domain.ParseReasonNoJSON}
	}
	var lastErr error
	for _, span := range spans {
		result, err := decodeDiagnosis(span)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}
	detail := ""
	if lastErr != nil {
		detail = lastErr.Error()
	}
	return nil, &domain.ParseError{Reason: domain.ParseReasonSchemaMismatch, Detail: detail}
}

// ParseFollowUpReply treats a follow-up reply as plain prose: trimmed and
// returned verbatim. A blank reply is an error since there is no safe generic
// substitute for conversational content.
func ParseFollowUpReply(raw string) (string, error) {
	reply := strings.TrimSpace(raw)
	if reply == "" {
		return "", &domain.ParseError{Reason: domain.ParseReasonEmptyReply}
	}
	return reply, nil
}

type partPayload struct {
	ID                 *string                  `json:"id"`
	Name               *string                  `json:"name"`
	EstimatedCost      *string                  `json:"estimatedCost"`
	AvailabilityStatus *domain.PartAvailability `json:"availabilityStatus"`
}

type diagnosisPayload struct {
	Issue              *string          `json:"issue"`
	Severity           *domain.Severity `json:"severity"`
	RecommendedActions *[]string        `json:"recommendedActions"`
	RequiredParts      *[]partPayload   `json:"requiredParts"`
}

func decodeDiagnosis(span string) (*domain.DiagnosisResult, error) {
	var payload diagnosisPayload
	if err := json.Unmarshal([]byte(span), &payload); err != nil {
		return nil, err
	}
	if payload.Issue == nil || payload.Severity == nil || payload.RecommendedActions == nil || payload.RequiredParts == nil {
		return nil, &domain.ParseError{Reason: domain.ParseReasonSchemaMismatch, Detail: "missing required field"}
	}
	result := &domain.DiagnosisResult{
		Issue:              *payload.Issue,
		Severity:           *payload.Severity,
		RecommendedActions: *payload.RecommendedActions,
		RequiredParts:      make([]domain.Part, 0, len(*payload.RequiredParts)),
	}
	if result.RecommendedActions == nil {
		result.RecommendedActions = []string{}
	}
	for _, part := range *payload.RequiredParts {
		if part.ID == nil || part.Name == nil || part.EstimatedCost == nil || part.AvailabilityStatus == nil {
			return nil, &domain.ParseError{Reason: domain.ParseReasonSchemaMismatch, Detail: "missing part field"}
		}
		result.RequiredParts = append(result.RequiredParts, domain.Part{
			ID:                 *part.ID,
			Name:               *part.Name,
			EstimatedCost:      *part.EstimatedCost,
			AvailabilityStatus: *part.AvailabilityStatus,
		})
	}
	if err := result.Validate(); err != nil {
		return nil, &domain.ParseError{Reason: domain.ParseReasonSchemaMismatch, Detail: err.Error()}
	}
	return result, nil
}

// jsonObjectSpans returns every balanced top-level {...} span in order of
// appearance, tracking JSON string literals so braces inside strings do not
// confuse the depth count.
func jsonObjectSpans(text string) []string {
	var spans []string
	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		if end, ok := matchBrace(text, i); ok {
			spans = append(spans, text[i:end+1])
			i = end
		}
	}
	return spans
}

func matchBrace(text string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
