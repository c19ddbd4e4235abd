package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

var (
	version  = "dev"
	revision = "none"
)

const (
	defaultAssistantURL = "http://localhost:3000/api/chat"
	defaultPersonaID    = "average_user"
	defaultGoalID       = "learn_basic_concept"
)

func main() {
	// Setup logger
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// .env is optional; real environment variables win either way.
	_ = godotenv.Load()

	app := &cli.Command{
		Name:  "chatprobe",
		Usage: "Simulate and score multi-turn conversations against a chat assistant",
		Description: `chatprobe drives a synthetic LLM-backed user persona against a target
assistant endpoint, then scores the resulting transcript with an LLM judge
along five quality axes.`,
		Version: fmt.Sprintf("%s (rev: %s)", version, revision),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"V"},
				Usage:   "Enable verbose logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Run a single simulation",
				Action:    handleRun,
				Aliases:   []string{"r"},
				ArgsUsage: "[persona] [goal]",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "max-turns",
						Usage: "Maximum conversation turns",
						Value: 20,
					},
					&cli.StringFlag{
						Name:  "results-dir",
						Usage: "Directory for result JSON documents",
					},
					&cli.StringFlag{
						Name:  "endpoint",
						Usage: "Assistant endpoint URL (overrides ASSISTANT_API_URL)",
					},
				},
			},
			{
				Name:      "batch",
				Usage:     "Run several independent simulations and aggregate their scores",
				Action:    handleBatch,
				Aliases:   []string{"b"},
				ArgsUsage: "[persona] [goal]",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "count",
						Aliases: []string{"n"},
						Usage:   "Number of simulations to run",
						Value:   5,
					},
					&cli.IntFlag{
						Name:  "max-turns",
						Usage: "Maximum conversation turns per simulation",
						Value: 20,
					},
					&cli.StringFlag{
						Name:  "results-dir",
						Usage: "Directory for result JSON documents",
					},
					&cli.StringFlag{
						Name:  "endpoint",
						Usage: "Assistant endpoint URL (overrides ASSISTANT_API_URL)",
					},
				},
			},
			{
				Name:    "personas",
				Usage:   "List available personas",
				Action:  handlePersonas,
				Aliases: []string{"p"},
			},
			{
				Name:    "goals",
				Usage:   "List available goals",
				Action:  handleGoals,
				Aliases: []string{"g"},
			},
		},
		Before: func(ctx context.Context, c *cli.Command) error {
			if c.Bool("verbose") {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
			return nil
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("Failed to run application")
	}
}

// envConfig is everything read from the process environment. Components never
// read the environment themselves; values are passed into their constructors.
type envConfig struct {
	OpenAIKey     string
	OpenAIBaseURL string
	Model         string
	AssistantURL  string
}

func loadEnvConfig(c *cli.Command) (envConfig, error) {
	cfg := envConfig{
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		Model:         os.Getenv("OPENAI_MODEL"),
		AssistantURL:  os.Getenv("ASSISTANT_API_URL"),
	}
	if cfg.OpenAIKey == "" {
		return envConfig{}, fmt.Errorf("OPENAI_API_KEY not found in environment variables")
	}
	if endpoint := c.String("endpoint"); endpoint != "" {
		cfg.AssistantURL = endpoint
	}
	if cfg.AssistantURL == "" {
		cfg.AssistantURL = defaultAssistantURL
	}
	return cfg, nil
}
