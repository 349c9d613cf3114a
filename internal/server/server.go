// Package server wires all MCP components and creates the server instance.
//
// This is the composition root (DIP): it receives the concrete plan store
// and injects it into the tools and resources that depend on state.Store.
// No business logic lives here, only wiring.
package server

import (
	"github.com/HendryAvila/phaseplan/internal/prompts"
	"github.com/HendryAvila/phaseplan/internal/resources"
	"github.com/HendryAvila/phaseplan/internal/state"
	"github.com/HendryAvila/phaseplan/internal/tools"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Name is the MCP server name reported to clients.
const Name = "phaseplan"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered.
func New(store state.Store) *server.MCPServer {
	s := server.NewMCPServer(
		Name,
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register tools ---

	assessTool := tools.NewAssessTool()
	s.AddTool(assessTool.Definition(), assessTool.Handle)

	createTool := tools.NewCreateTool(store)
	s.AddTool(createTool.Definition(), createTool.Handle)

	statusTool := tools.NewStatusTool(store)
	s.AddTool(statusTool.Definition(), statusTool.Handle)

	gateTool := tools.NewGateUpdateTool(store)
	s.AddTool(gateTool.Definition(), gateTool.Handle)

	listTool := tools.NewListTool(store)
	s.AddTool(listTool.Definition(), listTool.Handle)

	// --- Register prompts ---

	startPrompt := prompts.NewStartPrompt()
	s.AddPrompt(startPrompt.Definition(), startPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(store)
	s.AddResource(resourceHandler.CurrentPlanResource(), resourceHandler.HandleCurrentPlan)

	return s
}

// serverInstructions returns the system instructions that tell the AI
// how to use phaseplan effectively.
func serverInstructions() string {
	return `You have access to phaseplan, a complexity scoring and phase planning MCP server.

## WHEN TO USE phaseplan

Suggest phaseplan when the user is about to start a project or a large
feature and wants to know how big it is, how long it should take, or how
to split it into phases. It is not needed for small fixes.

## How Tools Work

1. plan_assess scores raw project signals. Nothing is saved.
2. plan_create builds the plan (phases, shares, durations, gates) and
   makes it the current plan.
3. plan_status shows the plan and gate progress.
4. plan_gate_update records gate progress.
5. plan_list lists stored plans.

Measure signals from the codebase where you can. Ask the user only for
what code cannot tell you (expected users, data volume, spec clarity).
Never invent values silently; state your estimates.

## Scoring

Six dimensions, each in [0,1]: structure (0.20), logic (0.25),
integration (0.20), scale (0.15), uncertainty (0.10), technical_debt
(0.10). The weighted sum is the overall score, bucketed into TRIVIAL,
SIMPLE, MODERATE, COMPLEX, VERY_COMPLEX or CRITICAL.

## Phases

3 to 6 phases depending on the score and on how many domains hold at
least 30% of the work. Phase shares start from a fixed template and shift
toward integration, setup, features or polish when the matching dimension
is high.

## Gates

Every phase has at least three validation gates with IDs like P2-G1.
Gates move pending → in_progress → passed | failed. A phase cannot start
until every gate of the previous phase has passed. A failed gate blocks
the plan until it is reset to pending. Gate checks are descriptive: YOU
verify the criterion, then record the result.`
}
