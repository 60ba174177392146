package domain

import (
	"errors"
	"strings"
)

// Severity ranks how urgently an identified issue needs attention.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Valid reports whether the severity is one of the allowed values.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

// PartAvailability enumerates stock states for a required part.
type PartAvailability string

const (
	PartInStock    PartAvailability = "in-stock"
	PartLimited    PartAvailability = "limited"
	PartOutOfStock PartAvailability = "out-of-stock"
)

// Valid reports whether the availability is one of the allowed values.
func (a PartAvailability) Valid() bool {
	switch a {
	case PartInStock, PartLimited, PartOutOfStock:
		return true
	}
	return false
}

// Part is a replacement component named by a diagnosis. EstimatedCost is a
// human-readable price range, not a parsed amount; the provider returns it
// free-form and it is surfaced as-is.
type Part struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	EstimatedCost      string           `json:"estimatedCost"`
	AvailabilityStatus PartAvailability `json:"availabilityStatus"`
}

// Validate checks that all part fields are present and well-formed.
func (p Part) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return errors.New("part id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("part name is required")
	}
	if strings.TrimSpace(p.EstimatedCost) == "" {
		return errors.New("part estimated cost is required")
	}
	if !p.AvailabilityStatus.Valid() {
		return errors.New("part availability status is invalid")
	}
	return nil
}

// DiagnosisRequest is one capture-session submission: an optional photo plus a
// required problem description. It is built once and discarded after the
// initial provider call settles.
type DiagnosisRequest struct {
	ImageData   []byte
	ImageMIME   string
	Description string
}

// Validate rejects submissions with a blank description. An image without a
// declared MIME type defaults to JPEG, matching what the capture flow produces.
func (r *DiagnosisRequest) Validate() error {
	if strings.TrimSpace(r.Description) == "" {
		return ErrInvalidInput
	}
	if len(r.ImageData) > 0 && r.ImageMIME == "" {
		r.ImageMIME = "image/jpeg"
	}
	return nil
}

// DiagnosisResult is the structured outcome of one submission. All four fields
// must be present and well-typed; a partially-valid result is never surfaced.
type DiagnosisResult struct {
	Issue              string   `json:"issue"`
	Severity           Severity `json:"severity"`
	RecommendedActions []string `json:"recommendedActions"`
	RequiredParts      []Part   `json:"requiredParts"`
}

// Validate checks the result invariants: non-empty issue, allowed severity,
// and fully-formed parts with unique ids. RecommendedActions may be empty.
func (d *DiagnosisResult) Validate() error {
	if strings.TrimSpace(d.Issue) == "" {
		return errors.New("issue is required")
	}
	if !d.Severity.Valid() {
		return errors.New("severity is invalid")
	}
	seen := make(map[string]struct{}, len(d.RequiredParts))
	for _, part := range d.RequiredParts {
		if err := part.Validate(); err != nil {
			return err
		}
		if _, ok := seen[part.ID]; ok {
			return errors.New("part ids must be unique")
		}
		seen[part.ID] = struct{}{}
	}
	return nil
}

// FallbackResult returns the generic diagnosis substituted when the provider
// call or its parsing fails on the initial submission. The conversation
// continues with this result so the flow never dead-ends on a provider error.
func FallbackResult() *DiagnosisResult {
	return &DiagnosisResult{
		Issue:    "Home repair issue detected",
		Severity: SeverityMedium,
		RecommendedActions: []string{
			"Inspect the affected area closely",
			"Check connections and fittings for visible damage",
			"Consult a professional if the problem persists",
		},
		RequiredParts: []Part{},
	}
}
