package user

import (
	"fmt"
	"strings"
)

func (s *Simulator) systemPrompt() string {
	expected := "unspecified"
	if s.goal.ExpectedTurns > 0 {
		expected = fmt.Sprintf("%d", s.goal.ExpectedTurns)
	}

	return fmt.Sprintf(`You are simulating a user with the following characteristics:

Persona: %s
Description: %s

Personality Traits (0-1 scale):
- Patience: %.2f (%s)
- Expertise: %.2f (%s)
- Verbosity: %.2f (%s)
- Frustration Tolerance: %.2f
- Communication Clarity: %.2f
- Technical Level: %.2f

Your Goal: %s
Expected conversation length: %s turns
Domain: %s
Complexity: %s

Behave consistently with these traits throughout the conversation.
Express frustration or satisfaction naturally based on your persona.
Use language and terminology appropriate to your technical level.`,
		s.persona.Name,
		s.persona.Description,
		s.persona.Patience, traitDescription("patience", s.persona.Patience),
		s.persona.Expertise, traitDescription("expertise", s.persona.Expertise),
		s.persona.Verbosity, traitDescription("verbosity", s.persona.Verbosity),
		s.persona.FrustrationTolerance,
		s.persona.Clarity,
		s.persona.TechnicalLevel,
		s.goal.Description,
		expected,
		s.goal.Domain,
		s.goal.Complexity,
	)
}

func (s *Simulator) initialPrompt() string {
	return fmt.Sprintf(`Generate the first message to start a conversation about: "%s".

Remember your persona traits:
- Patience level: %.2f
- Expertise: %.2f
- Communication clarity: %.2f

Make the message natural and consistent with these traits.`,
		s.goal.Description,
		s.persona.Patience,
		s.persona.Expertise,
		s.persona.Clarity,
	)
}

func (s *Simulator) responsePrompt() string {
	var criteria strings.Builder
	for _, c := range s.goal.SuccessCriteria {
		criteria.WriteString("- " + c + "\n")
	}

	return fmt.Sprintf(`Based on the assistant's last response, generate your next message.

Current conversation state:
- Turn number: %d
- Goal progress: %.0f%%
- Your frustration level: %.0f%%
- Your satisfaction: %.0f%%

Success criteria for your goal:
%s
Recent conversation:
%s

Generate your response based on:
1. Your persona traits (patience: %.2f, expertise: %.2f)
2. Whether the assistant is helping you achieve your goal
3. Your current frustration and satisfaction levels

YOU MUST format your response EXACTLY like this:
MESSAGE: [your message]
CONTINUE: [true/false]
SATISFACTION: [0-1]
REASON: [brief reason]

Example:
MESSAGE: Could you try explaining it in a different way?
CONTINUE: true
SATISFACTION: 0.3
REASON: Assistant didn't provide helpful information

IMPORTANT: Always include all four fields (MESSAGE, CONTINUE, SATISFACTION, REASON) in your response.`,
		s.state.CurrentTurn,
		s.state.GoalProgress*100,
		s.state.FrustrationLevel*100,
		s.state.UserSatisfaction*100,
		criteria.String(),
		s.conversationContext(),
		s.persona.Patience,
		s.persona.Expertise,
	)
}

// conversationContext renders the most recent messages as ROLE: content
// blocks for the response prompt.
func (s *Simulator) conversationContext() string {
	msgs := s.state.Messages
	if len(msgs) > contextWindow {
		msgs = msgs[len(msgs)-contextWindow:]
	}
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		parts = append(parts, strings.ToUpper(string(m.Role))+": "+m.Content)
	}
	return strings.Join(parts, "\n\n")
}

// traitDescription maps a trait value onto descriptive wording used in the
// system prompt. Only traits with distinct low/high phrasings are covered.
func traitDescription(trait string, value float64) string {
	descriptions := map[string][2]string{
		"patience":  {"very impatient, wants quick answers", "very patient, willing to explore topics deeply"},
		"expertise": {"novice, needs simple explanations", "expert, understands complex concepts"},
		"verbosity": {"concise, uses few words", "verbose, provides detailed context"},
	}
	desc, ok := descriptions[trait]
	if !ok {
		return ""
	}
	switch {
	case value < 0.3:
		return desc[0]
	case value > 0.7:
		return desc[1]
	default:
		return "moderate"
	}
}
