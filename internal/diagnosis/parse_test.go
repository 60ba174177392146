package diagnosis

import (
	"errors"
	"testing"

	"homefix/internal/domain"
)

const faucetJSON = `{"issue":"Worn faucet cartridge","severity":"low","recommendedActions":["Replace cartridge"],"requiredParts":[{"id":"p1","name":"Cartridge","estimatedCost":"$8-12","availabilityStatus":"in-stock"}]}`

func TestParseDiagnosisFromProseWrappedJSON(t *testing.T) {
	raw := "Here is the result: " + faucetJSON + " Let me know if you need more."
	result, err := ParseDiagnosis(raw)
	if err != nil {
		t.Fatalf("ParseDiagnosis returned error: %v", err)
	}
	if result.Issue != "Worn faucet cartridge" {
		t.Fatalf("Issue = %q", result.Issue)
	}
	if result.Severity != domain.SeverityLow {
		t.Fatalf("Severity = %q", result.Severity)
	}
	if len(result.RecommendedActions) != 1 || result.RecommendedActions[0] != "Replace cartridge" {
		t.Fatalf("RecommendedActions = %#v", result.RecommendedActions)
	}
	if len(result.RequiredParts) != 1 {
		t.Fatalf("len(RequiredParts) = %d, want 1", len(result.RequiredParts))
	}
	part := result.RequiredParts[0]
	if part.ID != "p1" || part.Name != "Cartridge" || part.EstimatedCost != "$8-12" || part.AvailabilityStatus != domain.PartInStock {
		t.Fatalf("Part = %+v", part)
	}
}

func TestParseDiagnosisFromCodeFence(t *testing.T) {
	raw := "```json\n" + faucetJSON + "\n```"
	result, err := ParseDiagnosis(raw)
	if err != nil {
		t.Fatalf("ParseDiagnosis returned error: %v", err)
	}
	if result.Issue != "Worn faucet cartridge" {
		t.Fatalf("Issue = %q", result.Issue)
	}
}

func TestParseDiagnosisUsesFirstParsableSpan(t *testing.T) {
	raw := `{"not": "a diagnosis"} and then ` + faucetJSON
	result, err := ParseDiagnosis(raw)
	if err != nil {
		t.Fatalf("ParseDiagnosis returned error: %v", err)
	}
	if result.Issue != "Worn faucet cartridge" {
		t.Fatalf("Issue = %q", result.Issue)
	}
}

func TestParseDiagnosisNoJSON(t *testing.T) {
	_, err := ParseDiagnosis("I am sorry, I cannot analyze this image.")
	var parseErr *domain.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("err = %v, want *domain.ParseError", err)
	}
	if parseErr.Reason != domain.ParseReasonNoJSON {
		t.Fatalf("Reason = %q, want %q", parseErr.Reason, domain.ParseReasonNoJSON)
	}
}

func TestParseDiagnosisSchemaMismatch(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing severity", `{"issue":"x","recommendedActions":[],"requiredParts":[]}`},
		{"bad severity value", `{"issue":"x","severity":"catastrophic","recommendedActions":[],"requiredParts":[]}`},
		{"mistyped actions", `{"issue":"x","severity":"low","recommendedActions":"do it","requiredParts":[]}`},
		{"part missing field", `{"issue":"x","severity":"low","recommendedActions":[],"requiredParts":[{"id":"p1","name":"n","estimatedCost":"$1"}]}`},
		{"bad availability", `{"issue":"x","severity":"low","recommendedActions":[],"requiredParts":[{"id":"p1","name":"n","estimatedCost":"$1","availabilityStatus":"plentiful"}]}`},
		{"duplicate part ids", `{"issue":"x","severity":"low","recommendedActions":[],"requiredParts":[{"id":"p1","name":"a","estimatedCost":"$1","availabilityStatus":"limited"},{"id":"p1","name":"b","estimatedCost":"$2","availabilityStatus":"limited"}]}`},
		{"empty issue", `{"issue":"  ","severity":"low","recommendedActions":[],"requiredParts":[]}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseDiagnosis(tc.raw)
			var parseErr *domain.ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("err = %v, want *domain.ParseError", err)
			}
			if parseErr.Reason != domain.ParseReasonSchemaMismatch {
				t.Fatalf("Reason = %q, want %q", parseErr.Reason, domain.ParseReasonSchemaMismatch)
			}
		})
	}
}

func TestParseDiagnosisAllowsEmptyActions(t *testing.T) {
	result, err := ParseDiagnosis(`{"issue":"Hairline crack","severity":"medium","recommendedActions":[],"requiredParts":[]}`)
	if err != nil {
		t.Fatalf("ParseDiagnosis returned error: %v", err)
	}
	if len(result.RecommendedActions) != 0 {
		t.Fatalf("RecommendedActions = %#v, want empty", result.RecommendedActions)
	}
}

func TestParseDiagnosisBracesInsideStrings(t *testing.T) {
	raw := `{"issue":"Pipe marked {A-3}","severity":"high","recommendedActions":["Call a plumber"],"requiredParts":[]}`
	result, err := ParseDiagnosis(raw)
	if err != nil {
		t.Fatalf("ParseDiagnosis returned error: %v", err)
	}
	if result.Issue != "Pipe marked {A-3}" {
		t.Fatalf("Issue = %q", result.Issue)
	}
}

func TestParseFollowUpReplyTrims(t *testing.T) {
	reply, err := ParseFollowUpReply("  Tighten the nut first.\n")
	if err != nil {
		t.Fatalf("ParseFollowUpReply returned error: %v", err)
	}
	if reply != "Tighten the nut first." {
		t.Fatalf("reply = %q", reply)
	}
}

func TestParseFollowUpReplyEmpty(t *testing.T) {
	_, err := ParseFollowUpReply("   \n ")
	var parseErr *domain.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("err = %v, want *domain.ParseError", err)
	}
	if parseErr.Reason != domain.ParseReasonEmptyReply {
		t.Fatalf("Reason = %q, want %q", parseErr.Reason, domain.ParseReasonEmptyReply)
	}
}
