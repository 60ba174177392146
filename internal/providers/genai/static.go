package genai

import "context"

const staticDiagnosisJSON = `{
  "issue": "Leaking sink trap",
  "severity": "medium",
  "recommendedActions": [
    "Place a bucket under the trap",
    "Tighten the slip nuts by hand",
    "Replace the trap washer if the drip continues"
  ],
  "requiredParts": [
    {"id": "p-trap-kit", "name": "P-trap repair kit", "estimatedCost": "$10-15", "availabilityStatus": "in-stock"}
  ]
}`

const staticFollowUpReply = "Tightening the slip nuts by hand is usually enough; " +
	"if the joint still drips afterwards, the washer inside the nut has worn out and should be replaced."

// StaticClient is a deterministic stand-in for the real provider, used in
// development without an API key and in tests. A single-turn request is
// treated as an initial diagnosis and answered with canned JSON; multi-turn
// requests get a canned prose reply.
type StaticClient struct{}

// NewStaticClient returns the canned provider.
func NewStaticClient() *StaticClient {
	return &StaticClient{}
}

// GenerateText answers with the canned diagnosis or follow-up reply.
func (s *StaticClient) GenerateText(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(req.Contents) <= 1 {
		return staticDiagnosisJSON, nil
	}
	return staticFollowUpReply, nil
}

var _ Client = (*StaticClient)(nil)
