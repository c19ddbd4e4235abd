package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/chatprobe/chatprobe/internal/judge"
	"github.com/chatprobe/chatprobe/internal/llm"
	"github.com/chatprobe/chatprobe/internal/runner"
	"github.com/chatprobe/chatprobe/internal/sim"
)

func handleBatch(ctx context.Context, c *cli.Command) error {
	env, err := loadEnvConfig(c)
	if err != nil {
		return err
	}

	count := int(c.Int("count"))
	if count < 1 {
		return fmt.Errorf("count must be at least 1")
	}

	baseConfig, err := buildConfig(c, env)
	if err != nil {
		return err
	}

	fmt.Println(color.New(color.FgCyan, color.Bold).Sprint("\nAI Assistant Multi-Turn Evaluation System (batch)"))
	fmt.Printf("Persona: %s\nGoal: %s\nSimulations: %d\n\n", baseConfig.Persona.Name, baseConfig.Goal.Description, count)

	bar := progressbar.Default(int64(count), "simulating")

	var metrics []sim.EvaluationMetrics
	var failures int

	for i := 0; i < count; i++ {
		// Independent component set per run; no shared mutable state.
		completer, err := llm.NewClient(env.OpenAIKey, env.OpenAIBaseURL, baseConfig.Model)
		if err != nil {
			return err
		}

		config := baseConfig
		config.SimulationID = fmt.Sprintf("%s-%s-%d", config.Persona.ID, config.Goal.ID, time.Now().UnixMilli())

		r := runner.NewRunner(config, completer, runner.Options{
			ResultsDir: c.String("results-dir"),
			Out:        io.Discard, // transcripts stay quiet during batch runs
		})

		result, err := r.Run(ctx)
		if err != nil {
			failures++
			fmt.Println(color.RedString("Simulation %d failed: %v", i+1, err))
		} else {
			metrics = append(metrics, result.Metrics)
		}

		_ = bar.Add(1)
	}
	_ = bar.Finish()

	if len(metrics) == 0 {
		return fmt.Errorf("all %d simulations failed", count)
	}

	report, err := judge.AggregatedReport(metrics, count)
	if err != nil {
		return err
	}
	fmt.Println(report)

	if failures > 0 {
		fmt.Println(color.YellowString("%d of %d simulations failed and were excluded from aggregation", failures, count))
	}
	return nil
}
