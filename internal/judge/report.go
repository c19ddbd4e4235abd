package judge

import (
	"fmt"
	"math"
	"strings"

	"github.com/chatprobe/chatprobe/internal/sim"
)

// Composite score weights.
const (
	weightGoalAchieved = 0.20
	weightSatisfaction = 0.15
	weightClarity      = 0.15
	weightRelevance    = 0.15
	weightCompleteness = 0.15
	weightPoliteness   = 0.15
	weightErrorPenalty = 0.05

	frustrationPenalty = 0.02
)

// OverallScore computes the weighted composite score, clamped to [0,1].
func OverallScore(m sim.EvaluationMetrics) float64 {
	var score float64
	if m.GoalAchieved {
		score += weightGoalAchieved
	}
	score += m.UserSatisfactionScore * weightSatisfaction
	score += m.ClarityScore * weightClarity
	score += m.RelevanceScore * weightRelevance
	score += m.CompletenessScore * weightCompleteness
	score += m.PolitenessScore * weightPoliteness
	score -= m.ErrorRate * weightErrorPenalty
	score -= float64(m.FrustrationIncidents) * frustrationPenalty

	return math.Max(0, math.Min(1, score))
}

// Grade maps a composite score onto its band label. Thresholds correspond to
// the 0-3 rubric scale normalized to 0-1 (0.83 ~ 2.5/3, 0.67 ~ 2/3, ...).
func Grade(score float64) string {
	switch {
	case score >= 0.83:
		return "(Excellent)"
	case score >= 0.67:
		return "(Good)"
	case score >= 0.5:
		return "(Satisfactory)"
	case score >= 0.33:
		return "(Needs Improvement)"
	default:
		return "(Poor)"
	}
}

// Report renders a human-readable evaluation report, showing both the
// normalized percentages and the original 0-3 ratings.
func Report(m sim.EvaluationMetrics) string {
	overall := OverallScore(m)

	achieved := "✗ Not Achieved"
	if m.GoalAchieved {
		achieved = "✓ Achieved"
	}

	var sb strings.Builder
	sb.WriteString("\n=== EVALUATION REPORT ===\n\n")
	fmt.Fprintf(&sb, "Overall Score: %.1f%% %s\n\n", overall*100, Grade(overall))
	fmt.Fprintf(&sb, "Goal Achievement: %s\n\n", achieved)
	sb.WriteString("Performance Metrics:\n")
	fmt.Fprintf(&sb, "- Total Turns: %d\n", m.TotalTurns)
	fmt.Fprintf(&sb, "- Avg Response Time: %.2fs\n", m.AverageResponseTime/1000)
	fmt.Fprintf(&sb, "- Error Rate: %.1f%%\n\n", m.ErrorRate*100)
	sb.WriteString("Quality Scores (0-3 scale | percentage):\n")
	fmt.Fprintf(&sb, "- User Satisfaction: %d/3 (%.1f%%)\n", rating(m.UserSatisfactionScore), m.UserSatisfactionScore*100)
	writeAxis(&sb, "Clarity", m.ClarityScore, m.ClarityReason)
	writeAxis(&sb, "Relevance", m.RelevanceScore, m.RelevanceReason)
	writeAxis(&sb, "Completeness", m.CompletenessScore, m.CompletenessReason)
	writeAxis(&sb, "Politeness", m.PolitenessScore, m.PolitenessReason)
	sb.WriteString("\nScore Interpretation:\n")
	sb.WriteString("  0 = Poor | 1 = Fair | 2 = Good | 3 = Excellent\n\n")
	sb.WriteString("Issues:\n")
	fmt.Fprintf(&sb, "- Frustration Incidents: %d\n\n", m.FrustrationIncidents)
	sb.WriteString(recommendations(m))
	sb.WriteString("\n")

	return sb.String()
}

func writeAxis(sb *strings.Builder, name string, score float64, reason string) {
	fmt.Fprintf(sb, "- %s: %d/3 (%.1f%%)\n", name, rating(score), score*100)
	if reason != "" {
		fmt.Fprintf(sb, "  Reason: %s\n", reason)
	}
}

// rating converts a normalized score back to the 0-3 display scale.
func rating(score float64) int {
	return int(math.Round(score * 3))
}

// recommendations derives improvement suggestions from threshold rules. The
// 0.67 cutoff is the normalized equivalent of a rubric score of 2.
func recommendations(m sim.EvaluationMetrics) string {
	var recs []string

	if !m.GoalAchieved {
		recs = append(recs, "- Focus on achieving user goals more effectively")
	}
	if m.ClarityScore < 0.67 {
		recs = append(recs, "- Improve response clarity and structure")
	}
	if m.RelevanceScore < 0.67 {
		recs = append(recs, "- Stay more focused on user questions")
	}
	if m.CompletenessScore < 0.67 {
		recs = append(recs, "- Provide more comprehensive responses")
	}
	if m.PolitenessScore < 0.67 {
		recs = append(recs, "- Improve politeness and courtesy in responses")
	}
	if m.FrustrationIncidents > 2 {
		recs = append(recs, "- Better understand user intent to reduce frustration")
	}
	if m.ErrorRate > 0.1 {
		recs = append(recs, "- Improve error handling and recovery")
	}
	if len(recs) == 0 {
		recs = append(recs, "- Continue maintaining high performance")
	}

	return "Recommendations:\n" + strings.Join(recs, "\n")
}
