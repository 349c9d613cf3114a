package resources

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/HendryAvila/phaseplan/internal/complexity"
	"github.com/HendryAvila/phaseplan/internal/planner"
	"github.com/HendryAvila/phaseplan/internal/state"
	"github.com/HendryAvila/phaseplan/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/afero"
)

func newStore() *state.PlanStore {
	return state.NewPlanStore(storage.NewFileStorage(afero.NewMemMapFs(), "/state"))
}

func readCurrent(t *testing.T, h *Handler) mcp.TextResourceContents {
	t.Helper()
	req := mcp.ReadResourceRequest{}
	req.Params.URI = CurrentPlanURI
	contents, err := h.HandleCurrentPlan(context.Background(), req)
	if err != nil {
		t.Fatalf("HandleCurrentPlan failed: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("contents = %d, want 1", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("content type = %T, want TextResourceContents", contents[0])
	}
	return tc
}

func TestCurrentPlanResource_Definition(t *testing.T) {
	res := NewHandler(newStore()).CurrentPlanResource()
	if res.URI != "plan://current" {
		t.Errorf("URI = %q, want plan://current", res.URI)
	}
	if res.MIMEType != "application/json" {
		t.Errorf("MIMEType = %q, want application/json", res.MIMEType)
	}
}

func TestHandleCurrentPlan_NoPlan(t *testing.T) {
	tc := readCurrent(t, NewHandler(newStore()))
	if tc.MIMEType != "text/plain" {
		t.Errorf("MIMEType = %q, want text/plain", tc.MIMEType)
	}
	if !strings.Contains(tc.Text, "no current plan") {
		t.Errorf("Text = %q", tc.Text)
	}
}

func TestHandleCurrentPlan_ReturnsJSON(t *testing.T) {
	store := newStore()
	plan, err := planner.Build(complexity.Result{Score: 0.55, Category: complexity.CategoryModerate}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	plan.ID = "res-plan"
	if err := store.Create(plan); err != nil {
		t.Fatalf("Create: %v", err)
	}

	tc := readCurrent(t, NewHandler(store))
	if tc.MIMEType != "application/json" {
		t.Errorf("MIMEType = %q, want application/json", tc.MIMEType)
	}

	var got planner.Plan
	if err := json.Unmarshal([]byte(tc.Text), &got); err != nil {
		t.Fatalf("resource is not valid JSON: %v", err)
	}
	if got.ID != "res-plan" {
		t.Errorf("ID = %q, want res-plan", got.ID)
	}
	if got.PhaseCount != 5 {
		t.Errorf("PhaseCount = %d, want 5", got.PhaseCount)
	}
}
