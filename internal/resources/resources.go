// Package resources implements MCP resource handlers for phase plans.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (plan://...) following MCP conventions.
package resources

import (
	"context"
	"fmt"

	"github.com/HendryAvila/phaseplan/internal/state"
	"github.com/mark3labs/mcp-go/mcp"
)

// CurrentPlanURI addresses the current plan document.
const CurrentPlanURI = "plan://current"

// Handler manages plan resource endpoints.
type Handler struct {
	store state.Store
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(store state.Store) *Handler {
	return &Handler{store: store}
}

// CurrentPlanResource returns the MCP resource definition for the current plan.
func (h *Handler) CurrentPlanResource() mcp.Resource {
	return mcp.NewResource(
		CurrentPlanURI,
		"Current Phase Plan",
		mcp.WithResourceDescription("The current plan: scores, phases, durations and gate states"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleCurrentPlan returns the current plan as JSON.
func (h *Handler) HandleCurrentPlan(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	plan, err := h.store.LoadCurrent()
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	if plan == nil {
		return errorResource(req.Params.URI, "no current plan"), nil
	}

	data, err := state.Encode(plan, state.FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("encoding plan: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
