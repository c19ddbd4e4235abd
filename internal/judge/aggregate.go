package judge

import (
	"fmt"
	"math"
	"strings"

	"github.com/chatprobe/chatprobe/internal/sim"
)

// Aggregate folds multiple evaluation metrics into a single summary.
// Continuous metrics become arithmetic means; goal_achieved becomes "majority
// achieved"; frustration incidents aggregate as the rounded mean, not the
// sum.
func Aggregate(metrics []sim.EvaluationMetrics) (sim.EvaluationMetrics, error) {
	if len(metrics) == 0 {
		return sim.EvaluationMetrics{}, fmt.Errorf("cannot aggregate empty metrics list")
	}

	n := float64(len(metrics))
	var (
		achieved          float64
		turns             float64
		responseTime      float64
		satisfaction      float64
		clarity           float64
		relevance         float64
		completeness      float64
		politeness        float64
		frustrationsTotal int
		errorRate         float64
	)
	for _, m := range metrics {
		if m.GoalAchieved {
			achieved++
		}
		turns += float64(m.TotalTurns)
		responseTime += m.AverageResponseTime
		satisfaction += m.UserSatisfactionScore
		clarity += m.ClarityScore
		relevance += m.RelevanceScore
		completeness += m.CompletenessScore
		politeness += m.PolitenessScore
		frustrationsTotal += m.FrustrationIncidents
		errorRate += m.ErrorRate
	}

	return sim.EvaluationMetrics{
		GoalAchieved:          achieved/n >= 0.5,
		TotalTurns:            int(math.Round(turns / n)),
		AverageResponseTime:   responseTime / n,
		UserSatisfactionScore: satisfaction / n,
		ClarityScore:          clarity / n,
		RelevanceScore:        relevance / n,
		CompletenessScore:     completeness / n,
		PolitenessScore:       politeness / n,
		FrustrationIncidents:  int(math.Round(float64(frustrationsTotal) / n)),
		ErrorRate:             errorRate / n,
	}, nil
}

// AggregatedReport renders the summary report for a batch of simulations.
func AggregatedReport(metrics []sim.EvaluationMetrics, numSimulations int) (string, error) {
	aggregated, err := Aggregate(metrics)
	if err != nil {
		return "", err
	}

	var achieved float64
	for _, m := range metrics {
		if m.GoalAchieved {
			achieved++
		}
	}
	achievementRate := achieved / float64(len(metrics)) * 100

	var sb strings.Builder
	sb.WriteString("\n=== AGGREGATED EVALUATION REPORT ===\n")
	fmt.Fprintf(&sb, "Simulations Run: %d\n", numSimulations)
	fmt.Fprintf(&sb, "Successful Evaluations: %d\n", len(metrics))
	sb.WriteString(Report(aggregated))
	fmt.Fprintf(&sb, "\nGoal Achievement Rate: %.1f%%\n\n", achievementRate)
	sb.WriteString("Individual Score Distribution (0-3 scale):\n")
	fmt.Fprintf(&sb, "- Clarity: %s\n", distribution(metrics, func(m sim.EvaluationMetrics) float64 { return m.ClarityScore }))
	fmt.Fprintf(&sb, "- Relevance: %s\n", distribution(metrics, func(m sim.EvaluationMetrics) float64 { return m.RelevanceScore }))
	fmt.Fprintf(&sb, "- Completeness: %s\n", distribution(metrics, func(m sim.EvaluationMetrics) float64 { return m.CompletenessScore }))
	fmt.Fprintf(&sb, "- Politeness: %s\n", distribution(metrics, func(m sim.EvaluationMetrics) float64 { return m.PolitenessScore }))

	return sb.String(), nil
}

// distribution buckets the per-run ratings of one axis over the 0-3 scale.
func distribution(metrics []sim.EvaluationMetrics, score func(sim.EvaluationMetrics) float64) string {
	counts := [4]int{}
	for _, m := range metrics {
		r := rating(score(m))
		if r < 0 {
			r = 0
		}
		if r > 3 {
			r = 3
		}
		counts[r]++
	}

	total := len(metrics)
	parts := make([]string, 0, 4)
	for r, count := range counts {
		parts = append(parts, fmt.Sprintf("%d: %d (%.0f%%)", r, count, float64(count)/float64(total)*100))
	}
	return strings.Join(parts, " | ")
}
