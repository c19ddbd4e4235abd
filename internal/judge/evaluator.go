// Package judge scores completed conversations with an LLM acting as judge.
//
// Quality axes use integer scoring (0-3) internally for consistency:
// 0 Poor, 1 Fair, 2 Good, 3 Excellent. Scores are normalized to 0-1 floats
// for metrics compatibility.
package judge

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/chatprobe/chatprobe/internal/llm"
	"github.com/chatprobe/chatprobe/internal/sim"
)

const (
	goalMaxTokens = 10
	axisMaxTokens = 200

	fallbackScore       = 1 // "Fair"
	fallbackParseReason = "Parsing error; defaulting to fair."
	fallbackEmptyReason = "No assistant messages; defaulting to fair."
)

// frustrationPhrases are scanned case-insensitively in user messages. Each
// message contributes at most one incident.
var frustrationPhrases = []string{
	"not what i asked",
	"that's not helpful",
	"you're not understanding",
	"this is frustrating",
	"can you just",
	"i already said",
	"please listen",
	"wrong answer",
	"that doesn't help",
	"this isn't working",
}

// Evaluator scores completed transcripts.
type Evaluator struct {
	completer llm.Completer
}

// NewEvaluator creates a judge backed by the given completion capability.
func NewEvaluator(completer llm.Completer) *Evaluator {
	return &Evaluator{completer: completer}
}

// Evaluate scores a completed conversation. Failures of individual scoring
// calls degrade to documented defaults; Evaluate itself never fails.
func (e *Evaluator) Evaluate(
	ctx context.Context,
	conversation sim.ConversationState,
	goal sim.Goal,
	persona sim.Persona,
	responseTimes []float64,
	errs []string,
) sim.EvaluationMetrics {
	goalAchieved := e.evaluateGoalAchievement(ctx, conversation, goal)

	clarityScore, clarityReason := e.evaluateAssistantAxis(ctx, conversation, clarityPrompt(conversation))
	relevanceScore, relevanceReason := e.evaluateAxis(ctx, relevancePrompt(conversation, goal))
	completenessScore, completenessReason := e.evaluateAxis(ctx, completenessPrompt(conversation, goal))
	politenessScore, politenessReason := e.evaluateAssistantAxis(ctx, conversation, politenessPrompt(conversation))

	errorRate := float64(len(errs)) / float64(max(len(conversation.Messages), 1))

	var averageResponseTime float64
	if len(responseTimes) > 0 {
		var sum float64
		for _, t := range responseTimes {
			sum += t
		}
		averageResponseTime = sum / float64(len(responseTimes))
	}

	return sim.EvaluationMetrics{
		GoalAchieved:          goalAchieved,
		TotalTurns:            conversation.CurrentTurn,
		AverageResponseTime:   averageResponseTime,
		UserSatisfactionScore: conversation.UserSatisfaction,
		ClarityScore:          float64(clarityScore) / 3.0,
		ClarityReason:         clarityReason,
		RelevanceScore:        float64(relevanceScore) / 3.0,
		RelevanceReason:       relevanceReason,
		CompletenessScore:     float64(completenessScore) / 3.0,
		CompletenessReason:    completenessReason,
		PolitenessScore:       float64(politenessScore) / 3.0,
		PolitenessReason:      politenessReason,
		FrustrationIncidents:  countFrustrationIncidents(conversation),
		ErrorRate:             errorRate,
	}
}

// evaluateGoalAchievement asks for a constrained TRUE/FALSE verdict. Any
// other output, and any call failure, counts as FALSE.
func (e *Evaluator) evaluateGoalAchievement(ctx context.Context, conversation sim.ConversationState, goal sim.Goal) bool {
	out, err := e.completer.Complete(ctx, "", goalPrompt(conversation, goal), goalMaxTokens)
	if err != nil {
		log.Warn().Err(err).Msg("Goal achievement call failed, treating as not achieved")
		return false
	}
	return strings.ToUpper(strings.TrimSpace(out)) == "TRUE"
}

// evaluateAssistantAxis scores an axis that only looks at assistant messages,
// short-circuiting to the fallback when the transcript has none.
func (e *Evaluator) evaluateAssistantAxis(ctx context.Context, conversation sim.ConversationState, prompt string) (int, string) {
	if assistantTranscript(conversation) == "" {
		return fallbackScore, fallbackEmptyReason
	}
	return e.evaluateAxis(ctx, prompt)
}

// evaluateAxis runs one rubric-scored judge call and parses the
// REASONING/SCORE contract defensively.
func (e *Evaluator) evaluateAxis(ctx context.Context, prompt string) (int, string) {
	out, err := e.completer.Complete(ctx, "", prompt, axisMaxTokens)
	if err != nil {
		log.Warn().Err(err).Msg("Judge scoring call failed, using fallback score")
		return fallbackScore, fallbackParseReason
	}

	score, ok := llm.ParseFields(out, "SCORE").IntClamped("SCORE", 0, 3)
	if !ok {
		return fallbackScore, fallbackParseReason
	}
	return score, llm.Section(out, "REASONING", "SCORE")
}

// countFrustrationIncidents scans user messages for frustration-indicating
// phrases. Detection stops at the first matching phrase per message.
func countFrustrationIncidents(conversation sim.ConversationState) int {
	incidents := 0
	for _, m := range conversation.Messages {
		if m.Role != sim.RoleUser {
			continue
		}
		lower := strings.ToLower(m.Content)
		for _, phrase := range frustrationPhrases {
			if strings.Contains(lower, phrase) {
				incidents++
				break
			}
		}
	}
	return incidents
}
