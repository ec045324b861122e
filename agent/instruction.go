package agent

import (
	"fmt"

	"github.com/hupe1980/agentfan/internal/util"
)

// RenderInstructions expands {{.name}} placeholders in instructions from vars.
// Text without placeholders is returned unchanged.
func RenderInstructions(instructions string, vars map[string]any) (string, error) {
	out, err := util.RenderTemplate(instructions, vars)
	if err != nil {
		return "", fmt.Errorf("failed to render instructions: %w", err)
	}
	return out, nil
}

// Render returns a copy of the definition with its instructions expanded from vars.
func (d Definition) Render(vars map[string]any) (Definition, error) {
	text, err := RenderInstructions(d.Instructions, vars)
	if err != nil {
		return Definition{}, fmt.Errorf("persona %s: %w", d.Name, err)
	}
	d.Instructions = text
	return d, nil
}
