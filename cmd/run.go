package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/chatprobe/chatprobe/internal/llm"
	"github.com/chatprobe/chatprobe/internal/runner"
	"github.com/chatprobe/chatprobe/internal/sim"
)

// buildConfig resolves the persona/goal positional arguments and assembles a
// simulation config. Unknown identifiers fail before any simulation work.
func buildConfig(c *cli.Command, env envConfig) (sim.Config, error) {
	personaID := c.Args().Get(0)
	if personaID == "" {
		personaID = defaultPersonaID
	}
	goalID := c.Args().Get(1)
	if goalID == "" {
		goalID = defaultGoalID
	}

	persona, err := sim.LookupPersona(personaID)
	if err != nil {
		return sim.Config{}, err
	}
	goal, err := sim.LookupGoal(goalID)
	if err != nil {
		return sim.Config{}, err
	}

	model := env.Model
	if model == "" {
		model = llm.DefaultModel
	}

	return sim.Config{
		Persona:      persona,
		Goal:         goal,
		Model:        model,
		MaxTurns:     int(c.Int("max-turns")),
		APIEndpoint:  env.AssistantURL,
		SimulationID: fmt.Sprintf("%s-%s-%d", personaID, goalID, time.Now().UnixMilli()),
	}, nil
}

func handleRun(ctx context.Context, c *cli.Command) error {
	env, err := loadEnvConfig(c)
	if err != nil {
		return err
	}

	config, err := buildConfig(c, env)
	if err != nil {
		return err
	}

	completer, err := llm.NewClient(env.OpenAIKey, env.OpenAIBaseURL, config.Model)
	if err != nil {
		return err
	}

	fmt.Println(color.New(color.FgCyan, color.Bold).Sprint("\nAI Assistant Multi-Turn Evaluation System"))
	fmt.Println("==================================================")

	r := runner.NewRunner(config, completer, runner.Options{
		ResultsDir: c.String("results-dir"),
	})
	if _, err := r.Run(ctx); err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	fmt.Println(color.GreenString("\nSimulation completed successfully"))
	return nil
}
