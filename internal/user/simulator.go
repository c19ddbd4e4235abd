package user

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/chatprobe/chatprobe/internal/llm"
	"github.com/chatprobe/chatprobe/internal/sim"
)

const (
	initialMessageMaxTokens = 300
	responseMaxTokens       = 500

	// contextWindow is the number of trailing messages included in the
	// response prompt.
	contextWindow = 6

	defaultSatisfaction = 0.5
)

// Simulator drives the synthetic user side of a conversation. It owns the
// conversation state exclusively; all mutation goes through its methods and
// callers only ever see deep copies.
type Simulator struct {
	completer llm.Completer
	persona   sim.Persona
	goal      sim.Goal
	state     sim.ConversationState
}

// NewSimulator creates a user simulator for one conversation.
func NewSimulator(completer llm.Completer, persona sim.Persona, goal sim.Goal) *Simulator {
	return &Simulator{
		completer: completer,
		persona:   persona,
		goal:      goal,
		state: sim.ConversationState{
			Messages:         []sim.Message{},
			CurrentTurn:      0,
			GoalProgress:     0,
			UserSatisfaction: defaultSatisfaction,
			FrustrationLevel: 0,
			Context:          map[string]any{},
		},
	}
}

// GenerateInitialMessage produces the opening user message. It does not
// mutate state; the caller appends the message explicitly.
func (s *Simulator) GenerateInitialMessage(ctx context.Context) (string, error) {
	return s.completer.Complete(ctx, s.systemPrompt(), s.initialPrompt(), initialMessageMaxTokens)
}

// GenerateResponse ingests the assistant's reply into the conversation state
// and produces the next user turn. Returns the next message (empty means no
// further user turn), whether the user wants to continue, and the parsed
// satisfaction value.
func (s *Simulator) GenerateResponse(ctx context.Context, assistantMessage string) (string, bool, float64, error) {
	s.ingest(assistantMessage)

	content, err := s.completer.Complete(ctx, s.systemPrompt(), s.responsePrompt(), responseMaxTokens)
	if err != nil {
		return "", false, defaultSatisfaction, err
	}

	fields := llm.ParseFields(content, "MESSAGE", "CONTINUE", "SATISFACTION", "REASON")
	message := fields.String("MESSAGE", "")
	shouldContinue := fields.Bool("CONTINUE", true)
	satisfaction := fields.Float("SATISFACTION", defaultSatisfaction)

	log.Debug().
		Int("turn", s.state.CurrentTurn).
		Bool("continue", shouldContinue).
		Float64("satisfaction", satisfaction).
		Str("reason", fields.String("REASON", "")).
		Msg("Parsed simulated user response")

	return message, shouldContinue, satisfaction, nil
}

// AddUserMessage appends a user message to the conversation state.
func (s *Simulator) AddUserMessage(content string) {
	s.state.Messages = append(s.state.Messages, sim.Message{
		Role:       sim.RoleUser,
		Content:    content,
		Timestamp:  time.Now(),
		TurnNumber: s.state.CurrentTurn,
	})
}

// AddAssistantMessage appends an assistant message to the conversation state.
func (s *Simulator) AddAssistantMessage(content string) {
	s.state.Messages = append(s.state.Messages, sim.Message{
		Role:       sim.RoleAssistant,
		Content:    content,
		Timestamp:  time.Now(),
		TurnNumber: s.state.CurrentTurn,
	})
}

// UpdateSatisfaction sets the user satisfaction level, clamped to [0,1].
func (s *Simulator) UpdateSatisfaction(value float64) {
	s.state.UserSatisfaction = clamp01(value)
}

// State returns a deep copy of the current conversation state.
func (s *Simulator) State() sim.ConversationState {
	return s.state.Clone()
}

// ShouldStop reports whether the conversation should end: the turn budget is
// doubly exhausted, frustration has boiled over, or the goal is complete.
func (s *Simulator) ShouldStop() bool {
	expected := s.goal.ExpectedTurnsOrDefault()
	return s.state.CurrentTurn >= expected*2 ||
		s.state.FrustrationLevel > 0.9 ||
		s.state.GoalProgress >= 1
}

// ingest records an assistant turn: appends the message, advances the turn
// counter and recomputes the progress and frustration heuristics.
func (s *Simulator) ingest(assistantMessage string) {
	s.AddAssistantMessage(assistantMessage)
	s.state.CurrentTurn++
	s.updateGoalProgress()
	s.updateFrustrationLevel()
}

// updateGoalProgress applies the linear progress heuristic: one expected
// turn's worth of progress per ingested assistant turn.
func (s *Simulator) updateGoalProgress() {
	perTurn := 1.0 / float64(s.goal.ExpectedTurnsOrDefault())
	s.state.GoalProgress = clamp01(s.state.GoalProgress + perTurn)
}

// updateFrustrationLevel raises frustration when the conversation drags past
// its expected length or when satisfaction is low. Frustration never
// decreases; both triggers may fire on the same turn.
func (s *Simulator) updateFrustrationLevel() {
	turnRatio := float64(s.state.CurrentTurn) / float64(s.goal.ExpectedTurnsOrDefault())

	if turnRatio > 1.5 {
		s.state.FrustrationLevel = clamp01(s.state.FrustrationLevel + (1-s.persona.Patience)*0.1)
	}
	if s.state.UserSatisfaction < 0.3 {
		s.state.FrustrationLevel = clamp01(s.state.FrustrationLevel + (1-s.persona.FrustrationTolerance)*0.15)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
