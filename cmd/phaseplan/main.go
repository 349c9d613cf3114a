// phaseplan: complexity scoring and phase planning
//
// Scores a project across six weighted dimensions and turns the score into
// a phased plan with effort estimates and validation gates. The same
// operations are exposed as a CLI and as an MCP server.
//
// Usage:
//
//	phaseplan assess -s signals.yaml   # Score signals
//	phaseplan create -s signals.yaml   # Build and save a plan
//	phaseplan gate P1-G1 in_progress   # Record gate progress
//	phaseplan serve                    # Start MCP server (stdio transport)
//
// MCP client configuration:
//
//	{
//	  "mcpServers": {
//	    "phaseplan": {
//	      "command": "phaseplan",
//	      "args": ["serve"]
//	    }
//	  }
//	}
package main

import (
	"os"

	"github.com/HendryAvila/phaseplan/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
