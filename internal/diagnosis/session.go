package diagnosis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"homefix/internal/domain"
	"homefix/internal/providers/genai"
)

// State names the lifecycle phase of a session.
type State string

const (
	StateIdle       State = "idle"
	StateAnalyzing  State = "analyzing"
	StateDiagnosed  State = "diagnosed"
	StateDiscussing State = "discussing"
	StateClosed     State = "closed"
	StateFailed     State = "failed"
)

// Session drives a single diagnosis conversation: one Submit, any number of
// follow-up turns, then Close. The session exclusively owns its conversation
// history; operations that call the provider are serialized by a busy flag and
// fail fast when one is already in flight. A new diagnosis requires a new
// session, so one session's conversation can never leak into another.
type Session struct {
	ID string

	client genai.Client
	logger zerolog.Logger
	locale string

	mu      sync.Mutex
	state   State
	busy    bool
	history []domain.ConversationMessage
	result  *domain.DiagnosisResult
}

// NewSession creates an idle session bound to the given provider client.
func NewSession(client genai.Client, logger zerolog.Logger, locale string) *Session {
	id := uuid.NewString()
	return &Session{
		ID:     id,
		client: client,
		logger: logger.With().Str("session_id", id).Logger(),
		locale: locale,
		state:  StateIdle,
	}
}

// Submit runs the initial diagnosis for the capture. It never fails on a
// provider or parse error: those substitute the documented fallback result so
// the user flow can continue. It does fail on invalid input, on a session that
// already diagnosed, and on caller cancellation.
func (s *Session) Submit(ctx context.Context, req domain.DiagnosisRequest) (*domain.DiagnosisResult, error) {
	prompt, err := BuildDiagnosisPrompt(req, s.locale)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: operation in flight", domain.ErrInvalidState)
	}
	if s.state != StateIdle {
		state := s.state
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: cannot submit in state %q", domain.ErrInvalidState, state)
	}
	s.state = StateAnalyzing
	s.busy = true
	s.mu.Unlock()

	result := s.analyze(ctx, prompt)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if s.state == StateClosed {
		return nil, fmt.Errorf("%w: session closed", domain.ErrInvalidState)
	}
	if ctx.Err() != nil {
		// Cancelled mid-flight: discard whatever arrived, never seed history.
		s.state = StateFailed
		return nil, ctx.Err()
	}
	s.result = result
	s.history = seedHistory(req.Description, result)
	s.state = StateDiagnosed
	return result, nil
}

func (s *Session) analyze(ctx context.Context, prompt genai.Request) *domain.DiagnosisResult {
	raw, err := s.client.GenerateText(ctx, prompt)
	if err != nil {
		s.logger.Warn().Err(err).Msg("diagnosis: provider call failed, using fallback result")
		return domain.FallbackResult()
	}
	result, err := ParseDiagnosis(raw)
	if err != nil {
		s.logger.Warn().Err(err).Msg("diagnosis: unusable provider response, using fallback result")
		return domain.FallbackResult()
	}
	return result
}

// AskFollowUp sends one follow-up question over the full conversation history
// and returns the model's reply. On failure the user message stays appended
// (it was genuinely sent) but no model message is added, and the session
// returns to the diagnosed state so the caller can retry.
func (s *Session) AskFollowUp(ctx context.Context, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", domain.ErrInvalidInput
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return "", fmt.Errorf("%w: operation in flight", domain.ErrInvalidState)
	}
	if s.state != StateDiagnosed {
		state := s.state
		s.mu.Unlock()
		return "", fmt.Errorf("%w: cannot ask follow-up in state %q", domain.ErrInvalidState, state)
	}
	s.history = append(s.history, domain.ConversationMessage{Role: domain.RoleUser, Content: message})
	snapshot := make([]domain.ConversationMessage, len(s.history))
	copy(snapshot, s.history)
	s.state = StateDiscussing
	s.busy = true
	s.mu.Unlock()

	reply, err := s.discuss(ctx, snapshot[:len(snapshot)-1], message)
	if err == nil && ctx.Err() != nil {
		// A reply that raced a cancellation must not be committed.
		err = ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if s.state == StateClosed {
		return "", fmt.Errorf("%w: session closed", domain.ErrInvalidState)
	}
	s.state = StateDiagnosed
	if err != nil {
		return "", err
	}
	s.history = append(s.history, domain.ConversationMessage{Role: domain.RoleModel, Content: reply})
	return reply, nil
}

func (s *Session) discuss(ctx context.Context, history []domain.ConversationMessage, message string) (string, error) {
	prompt, err := BuildFollowUpPrompt(history, message)
	if err != nil {
		return "", err
	}
	raw, err := s.client.GenerateText(ctx, prompt)
	if err != nil {
		return "", err
	}
	return ParseFollowUpReply(raw)
}

// History returns a snapshot copy of the conversation so far. The snapshot is
// safe to read while operations are in flight.
func (s *Session) History() []domain.ConversationMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make([]domain.ConversationMessage, len(s.history))
	copy(snapshot, s.history)
	return snapshot
}

// Result returns the diagnosis produced by Submit, or nil before it.
func (s *Session) Result() *domain.DiagnosisResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Close ends the conversation. History stays readable but no further turns are
// accepted; an operation still in flight is discarded at commit time.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateClosed
}

// seedHistory builds the two synthetic turns recorded after the initial
// diagnosis settles: the user's description and the model's announcement of
// the result, so follow-up calls carry the full context.
func seedHistory(description string, result *domain.DiagnosisResult) []domain.ConversationMessage {
	announcement := "I analyzed the problem and identified: " + result.Issue
	if encoded, err := json.Marshal(result); err == nil {
		announcement += "\n\nFull diagnosis:\n" + string(encoded)
	}
	return []domain.ConversationMessage{
		{Role: domain.RoleUser, Content: description},
		{Role: domain.RoleModel, Content: announcement},
	}
}
