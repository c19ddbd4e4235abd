package sim

import (
	"time"
)

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Domain tags for conversation goals.
const (
	DomainTechnical   = "technical"
	DomainGeneral     = "general"
	DomainBusiness    = "business"
	DomainCreative    = "creative"
	DomainEducational = "educational"
)

// Complexity tags for conversation goals.
const (
	ComplexitySimple   = "simple"
	ComplexityModerate = "moderate"
	ComplexityComplex  = "complex"
)

// Persona describes a simulated user. All trait values are on a 0-1 scale.
// Personas are immutable once constructed.
type Persona struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	Patience             float64 `json:"patience"`               // 0 = very impatient, 1 = very patient
	Expertise            float64 `json:"expertise"`              // 0 = novice, 1 = expert
	Verbosity            float64 `json:"verbosity"`              // 0 = concise, 1 = verbose
	FrustrationTolerance float64 `json:"frustration_tolerance"`  // 0 = easily frustrated, 1 = high tolerance
	Clarity              float64 `json:"clarity_of_communication"` // 0 = unclear, 1 = very clear
	TechnicalLevel       float64 `json:"technical_level"`        // 0 = non-technical, 1 = highly technical
}

// Goal describes the outcome a simulated conversation is driving toward.
type Goal struct {
	ID              string   `json:"id"`
	Description     string   `json:"description"`
	SuccessCriteria []string `json:"success_criteria"`
	ExpectedTurns   int      `json:"expected_turns,omitempty"` // 0 means unspecified
	Domain          string   `json:"domain"`
	Complexity      string   `json:"complexity"`
}

// ExpectedTurnsOrDefault returns the expected turn count, defaulting to 10
// when the goal does not specify one.
func (g Goal) ExpectedTurnsOrDefault() int {
	if g.ExpectedTurns <= 0 {
		return 10
	}
	return g.ExpectedTurns
}

// Message is a single conversation utterance. Messages are append-only; once
// created they are never edited.
type Message struct {
	Role       Role      `json:"role"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
	TurnNumber int       `json:"turn_number"`
}

// ConversationState is the mutable state of a running conversation. It is
// owned exclusively by the user simulator; everyone else receives deep copies.
type ConversationState struct {
	Messages         []Message      `json:"messages"`
	CurrentTurn      int            `json:"current_turn"`
	GoalProgress     float64        `json:"goal_progress"`
	UserSatisfaction float64        `json:"user_satisfaction"`
	FrustrationLevel float64        `json:"frustration_level"`
	Context          map[string]any `json:"context,omitempty"`
}

// Clone returns a deep copy of the state. Callers must not be able to observe
// or cause mutation of the live state through a snapshot.
func (s ConversationState) Clone() ConversationState {
	out := s
	out.Messages = make([]Message, len(s.Messages))
	copy(out.Messages, s.Messages)
	if s.Context != nil {
		out.Context = make(map[string]any, len(s.Context))
		for k, v := range s.Context {
			out.Context[k] = v
		}
	}
	return out
}

// Config captures everything needed to run one simulation.
type Config struct {
	Persona      Persona `json:"persona"`
	Goal         Goal    `json:"goal"`
	Model        string  `json:"model"`
	MaxTurns     int     `json:"max_turns"`
	APIEndpoint  string  `json:"api_endpoint"`
	SimulationID string  `json:"simulation_id"`
}

// EvaluationMetrics is the scored outcome of one conversation. Score fields
// are normalized to [0,1]; the judge produces them once and never mutates
// them afterwards.
type EvaluationMetrics struct {
	GoalAchieved        bool    `json:"goal_achieved"`
	TotalTurns          int     `json:"total_turns"`
	AverageResponseTime float64 `json:"average_response_time"` // milliseconds

	UserSatisfactionScore float64 `json:"user_satisfaction_score"`
	ClarityScore          float64 `json:"clarity_score"`
	ClarityReason         string  `json:"clarity_reason,omitempty"`
	RelevanceScore        float64 `json:"relevance_score"`
	RelevanceReason       string  `json:"relevance_reason,omitempty"`
	CompletenessScore     float64 `json:"completeness_score"`
	CompletenessReason    string  `json:"completeness_reason,omitempty"`
	PolitenessScore       float64 `json:"politeness_score"`
	PolitenessReason      string  `json:"politeness_reason,omitempty"`

	FrustrationIncidents int     `json:"frustration_incidents"`
	ErrorRate            float64 `json:"error_rate"`
}

// Result aggregates everything produced by one simulation run. Write-once.
type Result struct {
	Config       Config            `json:"config"`
	Conversation ConversationState `json:"conversation"`
	Metrics      EvaluationMetrics `json:"metrics"`
	StartTime    time.Time         `json:"start_time"`
	EndTime      time.Time         `json:"end_time"`
	Duration     float64           `json:"duration"` // milliseconds
	Errors       []string          `json:"errors,omitempty"`
}
