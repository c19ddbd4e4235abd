package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/chatprobe/chatprobe/internal/sim"
)

func handlePersonas(ctx context.Context, c *cli.Command) error {
	fmt.Println("Available personas:")
	for _, id := range sim.PersonaIDs() {
		p := sim.Personas[id]
		fmt.Printf("  %s %s\n", color.CyanString(id), p.Name)
		fmt.Printf("    %s\n", p.Description)
		fmt.Printf("    patience=%.2f expertise=%.2f verbosity=%.2f frustration_tolerance=%.2f clarity=%.2f technical=%.2f\n",
			p.Patience, p.Expertise, p.Verbosity, p.FrustrationTolerance, p.Clarity, p.TechnicalLevel)
	}
	return nil
}

func handleGoals(ctx context.Context, c *cli.Command) error {
	fmt.Println("Available goals:")
	for _, id := range sim.GoalIDs() {
		g := sim.Goals[id]
		fmt.Printf("  %s [%s/%s, %d expected turns]\n", color.CyanString(id), g.Domain, g.Complexity, g.ExpectedTurnsOrDefault())
		fmt.Printf("    %s\n", g.Description)
		for _, criterion := range g.SuccessCriteria {
			fmt.Printf("      - %s\n", criterion)
		}
	}
	return nil
}
