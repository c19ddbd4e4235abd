package judge

import (
	"fmt"
	"strings"

	"github.com/chatprobe/chatprobe/internal/sim"
)

// transcript renders the full conversation as "role: content" blocks.
func transcript(conversation sim.ConversationState) string {
	parts := make([]string, 0, len(conversation.Messages))
	for _, m := range conversation.Messages {
		parts = append(parts, string(m.Role)+": "+m.Content)
	}
	return strings.Join(parts, "\n\n")
}

// assistantTranscript renders only the assistant-authored messages.
func assistantTranscript(conversation sim.ConversationState) string {
	var parts []string
	for _, m := range conversation.Messages {
		if m.Role == sim.RoleAssistant {
			parts = append(parts, m.Content)
		}
	}
	return strings.Join(parts, "\n\n")
}

func criteriaList(goal sim.Goal) string {
	var sb strings.Builder
	for _, c := range goal.SuccessCriteria {
		sb.WriteString("- " + c + "\n")
	}
	return sb.String()
}

func goalPrompt(conversation sim.ConversationState, goal sim.Goal) string {
	return fmt.Sprintf(`Evaluate if the following conversation achieved its goal.

Context: This is a "Keep in mind" memory assistant that follows a clarification policy:
- When users ask vague questions about stored memories, the assistant should ask clarifying questions
- When users ask specific questions, the assistant should search directly
- The assistant should help users find their stored information through appropriate clarification

Goal: %s

Success Criteria:
%s
Conversation:
%s

Based on the success criteria, was the goal achieved? Consider:
1. Were all success criteria met?
2. Did the assistant follow the clarification policy appropriately?
3. Did the user ultimately get their answer or understand why not?
4. Was the assistant's behavior appropriate for the query type (vague vs specific)?

Respond with only "TRUE" if the goal was achieved, or "FALSE" if not.`,
		goal.Description, criteriaList(goal), transcript(conversation))
}

func clarityPrompt(conversation sim.ConversationState) string {
	return fmt.Sprintf(`Evaluate the clarity of these assistant responses.

Assistant Messages:
%s

Scoring Rubric (0-3):
0 - Poor: Responses are confusing, unclear, or incomprehensible. Structure is illogical, instructions are vague.
1 - Fair: Responses are somewhat clear but have notable issues. Some parts are confusing or poorly structured.
2 - Good: Responses are mostly clear and well-structured. Minor clarity issues that don't impede understanding.
3 - Excellent: Responses are crystal clear, well-organized, and easy to follow. Instructions are specific and actionable.

Evaluation Criteria:
- Are explanations clear and easy to understand?
- Is technical jargon explained when necessary?
- Are instructions specific and actionable?
- Is the structure logical and easy to follow?

First provide your reasoning, then give your score.
Format your response as:
REASONING: [Your analysis]
SCORE: [0, 1, 2, or 3]`,
		assistantTranscript(conversation))
}

func relevancePrompt(conversation sim.ConversationState, goal sim.Goal) string {
	return fmt.Sprintf(`Evaluate the relevance of the assistant's responses to the user's goal.

User's Goal: %s
Domain: %s

Conversation:
%s

Scoring Rubric (0-3):
0 - Irrelevant: Responses mostly miss the point, contain off-topic content, or fail to address the goal.
1 - Partially Relevant: Some responses address the goal but with significant tangents or missing key aspects.
2 - Mostly Relevant: Responses generally stay on topic and address the goal with minor irrelevant content.
3 - Highly Relevant: All responses directly address the user's questions and goal without unnecessary tangents.

Evaluation Criteria:
- Do responses directly address the user's questions?
- Is information provided relevant to the goal?
- Are there unnecessary tangents or off-topic content?
- Does the assistant stay focused on helping achieve the goal?

First provide your reasoning, then give your score.
Format your response as:
REASONING: [Your analysis]
SCORE: [0, 1, 2, or 3]`,
		goal.Description, goal.Domain, transcript(conversation))
}

func completenessPrompt(conversation sim.ConversationState, goal sim.Goal) string {
	return fmt.Sprintf(`Evaluate the completeness of the assistant's responses.

Goal: %s
Expected Complexity: %s

Success Criteria:
%s
Conversation:
%s

Scoring Rubric (0-3):
0 - Incomplete: Major aspects missing, provides only surface-level information, fails to meet success criteria.
1 - Partially Complete: Addresses some aspects but omits important details or steps, meets few success criteria.
2 - Mostly Complete: Covers most important aspects with adequate depth, meets most success criteria.
3 - Fully Complete: Thoroughly addresses all aspects with appropriate depth, meets all success criteria.

Evaluation Criteria:
- Were all aspects of the question addressed?
- Are responses thorough given the complexity level?
- Were important details or steps omitted?
- Did the assistant provide sufficient depth?

First provide your reasoning, then give your score.
Format your response as:
REASONING: [Your analysis]
SCORE: [0, 1, 2, or 3]`,
		goal.Description, goal.Complexity, criteriaList(goal), transcript(conversation))
}

func politenessPrompt(conversation sim.ConversationState) string {
	return fmt.Sprintf(`Evaluate the politeness and courtesy of these assistant responses.

Assistant Messages:
%s

Scoring Rubric (0-3):
0 - Impolite: Responses are rude, dismissive, or disrespectful. Uses harsh language or shows impatience.
1 - Somewhat Polite: Responses are generally polite but may lack warmth or could be more courteous.
2 - Polite: Responses are consistently polite and respectful with appropriate courtesy.
3 - Very Polite: Responses are exceptionally courteous, warm, and respectful with excellent tone.

Evaluation Criteria:
- Does the assistant use polite language and appropriate greetings?
- Is the tone respectful and considerate?
- Does the assistant show empathy and understanding?
- Are responses courteous even when correcting or clarifying?
- Does the assistant maintain a professional yet friendly demeanor?

First provide your reasoning, then give your score.
Format your response as:
REASONING: [Your analysis]
SCORE: [0, 1, 2, or 3]`,
		assistantTranscript(conversation))
}
