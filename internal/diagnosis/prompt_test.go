package diagnosis

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"homefix/internal/domain"
)

func TestBuildDiagnosisPromptEmbedsDescriptionVerbatim(t *testing.T) {
	description := "kitchen \"faucet\" drips constantly\nabout 2 times per minute"
	req, err := BuildDiagnosisPrompt(domain.DiagnosisRequest{Description: description}, "en")
	if err != nil {
		t.Fatalf("BuildDiagnosisPrompt returned error: %v", err)
	}
	if len(req.Contents) != 1 {
		t.Fatalf("len(Contents) = %d, want 1", len(req.Contents))
	}
	text := req.Contents[0].Parts[0].Text
	if !strings.Contains(text, description) {
		t.Fatalf("prompt does not contain the description verbatim:\n%s", text)
	}
}

func TestBuildDiagnosisPromptRejectsBlankDescription(t *testing.T) {
	for _, description := range []string{"", "   ", "\n\t"} {
		_, err := BuildDiagnosisPrompt(domain.DiagnosisRequest{Description: description}, "en")
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("description %q: err = %v, want ErrInvalidInput", description, err)
		}
	}
}

func TestBuildDiagnosisPromptInlinesImage(t *testing.T) {
	image := []byte{0xff, 0xd8, 0xff, 0xe0}
	req, err := BuildDiagnosisPrompt(domain.DiagnosisRequest{
		Description: "water stain under sink",
		ImageData:   image,
	}, "en")
	if err != nil {
		t.Fatalf("BuildDiagnosisPrompt returned error: %v", err)
	}
	parts := req.Contents[0].Parts
	if len(parts) != 2 {
		t.Fatalf("len(Parts) = %d, want 2", len(parts))
	}
	blob := parts[1].InlineData
	if blob == nil {
		t.Fatal("expected inline image part")
	}
	if blob.MIMEType != "image/jpeg" {
		t.Fatalf("MIMEType = %q, want %q", blob.MIMEType, "image/jpeg")
	}
	if blob.Data != base64.StdEncoding.EncodeToString(image) {
		t.Fatal("inline data is not the base64 of the image bytes")
	}
}

func TestBuildDiagnosisPromptLocaleLanguage(t *testing.T) {
	req, err := BuildDiagnosisPrompt(domain.DiagnosisRequest{Description: "gotea el grifo"}, "es")
	if err != nil {
		t.Fatalf("BuildDiagnosisPrompt returned error: %v", err)
	}
	if !strings.Contains(req.Contents[0].Parts[0].Text, "Answer in Spanish") {
		t.Fatal("expected Spanish answer instruction for es locale")
	}
}

func TestBuildFollowUpPromptPreservesHistoryOrder(t *testing.T) {
	history := []domain.ConversationMessage{
		{Role: domain.RoleUser, Content: "the faucet drips"},
		{Role: domain.RoleModel, Content: "worn cartridge"},
		{Role: domain.RoleUser, Content: "how do I replace it?"},
		{Role: domain.RoleModel, Content: "shut off the water first"},
	}
	req, err := BuildFollowUpPrompt(history, "which size do I need?")
	if err != nil {
		t.Fatalf("BuildFollowUpPrompt returned error: %v", err)
	}
	if len(req.Contents) != len(history)+1 {
		t.Fatalf("len(Contents) = %d, want %d", len(req.Contents), len(history)+1)
	}
	for i, msg := range history {
		if req.Contents[i].Role != string(msg.Role) {
			t.Fatalf("Contents[%d].Role = %q, want %q", i, req.Contents[i].Role, msg.Role)
		}
		if req.Contents[i].Parts[0].Text != msg.Content {
			t.Fatalf("Contents[%d] text = %q, want %q", i, req.Contents[i].Parts[0].Text, msg.Content)
		}
	}
	last := req.Contents[len(history)]
	if last.Role != string(domain.RoleUser) || last.Parts[0].Text != "which size do I need?" {
		t.Fatalf("last content = %+v, want the new user message", last)
	}
}

func TestBuildFollowUpPromptRejectsBlankMessage(t *testing.T) {
	if _, err := BuildFollowUpPrompt(nil, "  "); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestBuildFollowUpPromptUsesShorterOutputBudget(t *testing.T) {
	req, err := BuildFollowUpPrompt(nil, "is this urgent?")
	if err != nil {
		t.Fatalf("BuildFollowUpPrompt returned error: %v", err)
	}
	if req.GenerationConfig == nil || req.GenerationConfig.MaxOutputTokens != maxFollowUpTokens {
		t.Fatalf("GenerationConfig = %+v, want MaxOutputTokens %d", req.GenerationConfig, maxFollowUpTokens)
	}
}
