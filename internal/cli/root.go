// Package cli provides the phaseplan command-line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/HendryAvila/phaseplan/internal/config"
	"github.com/HendryAvila/phaseplan/internal/server"
	"github.com/HendryAvila/phaseplan/internal/state"
	"github.com/spf13/cobra"
)

// app carries what subcommands share once the root pre-run has loaded
// configuration.
type app struct {
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
}

// flagKeys maps persistent flags to the config keys they override.
var flagKeys = map[string]string{
	"state-dir": "state.dir",
	"backend":   "state.backend",
	"output":    "output.format",
	"log-level": "log.level",
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "phaseplan",
		Short: "Complexity scoring and phase planning",
		Long: `phaseplan scores a project's complexity across six weighted dimensions
and turns the score into a phased implementation plan with effort
estimates and validation gates.

Run "phaseplan serve" to expose the same operations as an MCP server.`,
		Version: server.Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			return a.load(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ./.phaseplan.yaml, then ~/.phaseplan.yaml)")
	rootCmd.PersistentFlags().String("state-dir", "", "directory plans are stored in (default: .build-state)")
	rootCmd.PersistentFlags().String("backend", "", "state backend (file|sqlite)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format (table|json|yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose logging (same as --log-level debug)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("backend", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.BackendFile, config.BackendSQLite}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newVersionCommand())
	rootCmd.AddCommand(newAssessCommand(a))
	rootCmd.AddCommand(newCreateCommand(a))
	rootCmd.AddCommand(newShowCommand(a))
	rootCmd.AddCommand(newListCommand(a))
	rootCmd.AddCommand(newGateCommand(a))
	rootCmd.AddCommand(newServeCommand(a))

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// load resolves configuration and installs the stderr logger.
func (a *app) load(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	overrides := map[string]any{}
	for flag, key := range flagKeys {
		if flags.Changed(flag) {
			val, _ := flags.GetString(flag)
			overrides[key] = val
		}
	}
	if verbose, _ := flags.GetBool("verbose"); verbose {
		overrides["log.level"] = "debug"
	}

	cfg, err := config.Load(a.cfgFile, overrides)
	if err != nil {
		return err
	}
	a.cfg = cfg

	// Logs go to stderr; stdout carries command output and the MCP stdio
	// transport.
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.LogLevel()}))
	slog.SetDefault(a.logger)
	return nil
}

// openStore opens the configured plan store. The cleanup function is
// always non-nil.
func (a *app) openStore() (*state.PlanStore, func(), error) {
	kv, cleanup, err := config.OpenStorage(a.cfg)
	if err != nil {
		return nil, cleanup, err
	}
	return state.NewPlanStore(kv), cleanup, nil
}
