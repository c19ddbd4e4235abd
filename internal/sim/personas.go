package sim

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Personas is the built-in persona catalog, keyed by lookup id.
var Personas = map[string]Persona{
	"average_user": {
		ID:                   "average-user",
		Name:                 "Average User",
		Description:          "A balanced developer/system engineer with moderate domain knowledge and average patience. Asks practical questions about CSTA integration and expects clear, actionable guidance. Cooperative when prompted for clarification.",
		Patience:             0.5,
		Expertise:            0.5,
		Verbosity:            0.5,
		FrustrationTolerance: 0.5,
		Clarity:              0.5,
		TechnicalLevel:       0.5,
	},
	"csta_newcomer": {
		ID:                   "csta-newcomer",
		Name:                 "CSTA Newcomer",
		Description:          "A generalist developer new to CSTA. Asks foundational “how do I” and “why” questions (e.g., call states, event flows, basic device monitoring). Will provide context if prompted and appreciates step-by-step guidance. Tests friendly tone, clear explanations, and good clarifying questions.",
		Patience:             0.85,
		Expertise:            0.25,
		Verbosity:            0.7,
		FrustrationTolerance: 0.8,
		Clarity:              0.6,
		TechnicalLevel:       0.3,
	},
	"hasty_integrator": {
		ID:                   "hasty-integrator",
		Name:                 "Hasty Integrator",
		Description:          "A time-pressed system engineer integrating CSTA with existing SIP/PBX infrastructure. Gives minimal context, wants copy-pasteable guidance, and may push for quick answers beyond tool outputs. Tests concise responses, proactive clarification, and strict adherence to “only answer from tool calls” (including saying “Sorry, I don’t know” when needed).",
		Patience:             0.25,
		Expertise:            0.5,
		Verbosity:            0.2,
		FrustrationTolerance: 0.3,
		Clarity:              0.4,
		TechnicalLevel:       0.5,
	},
	"standards_stickler": {
		ID:                   "standards-stickler",
		Name:                 "Standards Stickler",
		Description:          "A senior telecom engineer familiar with ECMA CSTA standards (e.g., ECMA-269/323). Asks precise, clause-oriented questions and edge cases about call control, services, and event semantics. Expects accurate, tool-derived answers and explicit references when available. Tests precision, correctness, and refusing to speculate beyond tool data.",
		Patience:             0.7,
		Expertise:            0.9,
		Verbosity:            0.3,
		FrustrationTolerance: 0.6,
		Clarity:              0.9,
		TechnicalLevel:       0.9,
	},
}

// LookupPersona returns the persona registered under id.
func LookupPersona(id string) (Persona, error) {
	p, ok := Personas[id]
	if !ok {
		return Persona{}, fmt.Errorf("unknown persona: %s (available: %v)", id, PersonaIDs())
	}
	return p, nil
}

// PersonaIDs returns the sorted lookup ids of all built-in personas.
func PersonaIDs() []string {
	ids := make([]string, 0, len(Personas))
	for id := range Personas {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CustomPersona builds a persona from the average_user base with the given
// overrides applied.
func CustomPersona(override func(*Persona)) Persona {
	p := Personas["average_user"]
	p.ID = "custom-" + uuid.NewString()
	if override != nil {
		override(&p)
	}
	return p
}
