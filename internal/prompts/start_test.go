package prompts

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func promptText(t *testing.T, args map[string]string) (*mcp.GetPromptResult, string) {
	t.Helper()
	req := mcp.GetPromptRequest{}
	req.Params.Arguments = args
	result, err := NewStartPrompt().Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if len(result.Messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(result.Messages))
	}
	tc, ok := result.Messages[0].Content.(mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T, want TextContent", result.Messages[0].Content)
	}
	return result, tc.Text
}

func TestStartPrompt_Definition(t *testing.T) {
	def := NewStartPrompt().Definition()
	if def.Name != "plan-start" {
		t.Errorf("name = %q, want plan-start", def.Name)
	}
	if len(def.Arguments) != 2 {
		t.Errorf("arguments = %d, want 2", len(def.Arguments))
	}
}

func TestStartPrompt_Handle_Defaults(t *testing.T) {
	result, text := promptText(t, nil)
	if result.Description != "Plan this project in phases" {
		t.Errorf("Description = %q", result.Description)
	}
	for _, want := range []string{"plan_assess", "plan_create", "plan_gate_update", "Inspect the repository"} {
		if !strings.Contains(text, want) {
			t.Errorf("prompt should contain %q", want)
		}
	}
}

func TestStartPrompt_Handle_InterviewMode(t *testing.T) {
	result, text := promptText(t, map[string]string{"project_name": "billing", "mode": "interview"})
	if !strings.Contains(result.Description, "billing") {
		t.Errorf("Description = %q, want project name", result.Description)
	}
	if !strings.Contains(text, "Ask me for each signal") {
		t.Error("interview mode should ask for signals")
	}
}
