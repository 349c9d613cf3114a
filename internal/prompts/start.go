// Package prompts implements MCP prompt handlers for phase planning.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// StartPrompt handles the plan-start MCP prompt.
// It guides the AI through collecting signals and creating a plan.
type StartPrompt struct{}

// NewStartPrompt creates a StartPrompt.
func NewStartPrompt() *StartPrompt {
	return &StartPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StartPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("plan-start",
		mcp.WithPromptDescription(
			"Plan a project in phases. "+
				"Collects the complexity signals, scores them and builds a "+
				"gated phase plan sized to the project.",
		),
		mcp.WithArgument("project_name",
			mcp.ArgumentDescription("Name of the project being planned"),
		),
		mcp.WithArgument("mode",
			mcp.ArgumentDescription(
				"'measure' (inspect the codebase to count signals) or 'interview' (ask me for estimates). Default: measure",
			),
		),
	)
}

// Handle processes the plan-start prompt request.
func (p *StartPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	projectName := "this project"
	mode := "measure"
	if args := req.Params.Arguments; args != nil {
		if name, ok := args["project_name"]; ok && name != "" {
			projectName = name
		}
		if m, ok := args["mode"]; ok && m != "" {
			mode = m
		}
	}

	gather := "Inspect the repository to measure each signal. Count files, nesting depth, " +
		"branches, integrations and dependencies yourself; only ask me for what the code " +
		"cannot tell you (expected users, data volume, how complete and clear the spec is)."
	if mode == "interview" {
		gather = "Ask me for each signal one group at a time, offering a sensible estimate " +
			"I can accept or correct."
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Plan %s in phases", projectName),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want a phased implementation plan for %s.\n\n"+
						"%s\n\n"+
						"Signals: file_count, module_depth, business_rules, branch_count, "+
						"integration_count, auth_types (0-3), expected_users, data_gb, "+
						"spec_completeness (0-1), clarity_score (0-1), legacy_files, total_files, "+
						"deprecated_deps, total_deps. Also estimate the share of work per domain "+
						"(e.g. backend, frontend, data) in percent.\n\n"+
						"Then:\n"+
						"1. Run `plan_assess` and show me the score, category and phase count\n"+
						"2. If I agree, run `plan_create` with the same arguments\n"+
						"3. Walk me through phase 1 and its gates\n"+
						"4. As work lands, record gate progress with `plan_gate_update`",
					projectName, gather,
				)),
			},
		},
	}, nil
}
