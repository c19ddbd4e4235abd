// Package runner drives one simulation start to finish: the turn loop between
// the simulated user and the target assistant, followed by judge evaluation
// and result persistence.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"

	"github.com/chatprobe/chatprobe/internal/assistant"
	"github.com/chatprobe/chatprobe/internal/judge"
	"github.com/chatprobe/chatprobe/internal/llm"
	"github.com/chatprobe/chatprobe/internal/sim"
	"github.com/chatprobe/chatprobe/internal/user"
)

// DefaultResultsDir is where result documents land unless overridden.
const DefaultResultsDir = "simulation/results"

// Options tunes a Runner. Zero values select defaults.
type Options struct {
	ResultsDir string
	Out        io.Writer // transcript/report output, defaults to os.Stdout
}

// Runner wires one simulation's components together. Each simulation must use
// an independently constructed Runner; no state is shared across runs.
type Runner struct {
	config    sim.Config
	agent     *user.Simulator
	client    *assistant.Client
	evaluator *judge.Evaluator

	resultsDir string
	out        io.Writer

	responseTimes []float64
	errors        []string
}

// NewRunner builds a runner with a fresh component set for the given config.
func NewRunner(config sim.Config, completer llm.Completer, opts Options) *Runner {
	if opts.ResultsDir == "" {
		opts.ResultsDir = DefaultResultsDir
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	return &Runner{
		config: config,
		agent:  user.NewSimulator(completer, config.Persona, config.Goal),
		client: assistant.NewClient(assistant.Config{
			Endpoint: config.APIEndpoint,
		}),
		evaluator:  judge.NewEvaluator(completer),
		resultsDir: opts.ResultsDir,
		out:        opts.Out,
	}
}

// Run executes the conversation loop, evaluates the transcript, persists the
// result document and prints the evaluation report. A conversation failure
// never aborts the run; evaluation proceeds on the partial transcript.
func (r *Runner) Run(ctx context.Context) (sim.Result, error) {
	fmt.Fprintln(r.out, color.CyanString("\nStarting Simulation"))
	fmt.Fprintf(r.out, "Persona: %s\n", r.config.Persona.Name)
	fmt.Fprintf(r.out, "Goal: %s\n", r.config.Goal.Description)
	fmt.Fprintf(r.out, "Max Turns: %d\n\n", r.config.MaxTurns)

	startTime := time.Now()

	if err := r.runConversation(ctx); err != nil {
		fmt.Fprintln(r.out, color.RedString("Simulation error: %v", err))
		r.errors = append(r.errors, err.Error())
	}

	endTime := time.Now()
	conversation := r.agent.State()

	fmt.Fprintln(r.out, color.CyanString("\nEvaluating Conversation..."))
	metrics := r.evaluator.Evaluate(ctx, conversation, r.config.Goal, r.config.Persona, r.responseTimes, r.errors)

	result := sim.Result{
		Config:       r.config,
		Conversation: conversation,
		Metrics:      metrics,
		StartTime:    startTime,
		EndTime:      endTime,
		Duration:     float64(endTime.Sub(startTime)) / float64(time.Millisecond),
		Errors:       r.errors,
	}

	path, err := SaveResult(r.resultsDir, result)
	if err != nil {
		log.Error().Err(err).Msg("Failed to save result document")
	} else {
		fmt.Fprintf(r.out, "\nResults saved to: %s\n", path)
	}

	fmt.Fprintln(r.out, judge.Report(result.Metrics))
	if len(result.Errors) > 0 {
		fmt.Fprintln(r.out, color.RedString("\n⚠️ Errors encountered:"))
		for _, e := range result.Errors {
			fmt.Fprintln(r.out, color.RedString("  - %s", e))
		}
	}

	return result, nil
}

// runConversation alternates user and assistant turns until a stop condition
// fires or the turn budget runs out. A transport error ends the loop
// immediately; there is no retry.
func (r *Runner) runConversation(ctx context.Context) error {
	initial, err := r.agent.GenerateInitialMessage(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate initial message: %w", err)
	}
	r.agent.AddUserMessage(initial)
	fmt.Fprintln(r.out, color.BlueString("USER: %s", initial))

	turnCount := 0
	shouldContinue := true

	for shouldContinue && turnCount < r.config.MaxTurns && !r.agent.ShouldStop() {
		state := r.agent.State()
		last := state.Messages[len(state.Messages)-1]

		reply, elapsed, err := r.client.Send(ctx, last.Content, state.Messages[:len(state.Messages)-1])
		if err != nil {
			fmt.Fprintln(r.out, color.RedString("ERROR: %v", err))
			r.errors = append(r.errors, err.Error())
			break
		}

		r.responseTimes = append(r.responseTimes, elapsed)
		fmt.Fprintln(r.out, color.GreenString("ASSISTANT: %s", reply))

		r.agent.AddAssistantMessage(reply)

		message, cont, satisfaction, err := r.agent.GenerateResponse(ctx, reply)
		if err != nil {
			return fmt.Errorf("failed to generate user response: %w", err)
		}
		shouldContinue = cont

		if message != "" {
			r.agent.AddUserMessage(message)
			fmt.Fprintln(r.out, color.BlueString("USER: %s", message))
		}

		r.agent.UpdateSatisfaction(satisfaction)

		if !cont {
			fmt.Fprintln(r.out, color.YellowString("\nUser ended conversation"))
		}

		turnCount++
	}

	if turnCount >= r.config.MaxTurns {
		fmt.Fprintln(r.out, color.YellowString("\nMaximum turns reached"))
	}

	return nil
}
