package cli

import (
	"fmt"

	"github.com/HendryAvila/phaseplan/internal/planner"
	"github.com/HendryAvila/phaseplan/internal/state"
	"github.com/spf13/cobra"
)

func newAssessCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Score project signals without saving a plan",
		Long: `Score a project across six weighted dimensions and recommend a phase count.

Signals are read from a JSON or YAML file:

  file_count: 40
  module_depth: 3
  business_rules: 12
  ...
  domains:
    backend: 45
    frontend: 40`,
		Example: `  phaseplan assess --signals signals.yaml
  phaseplan assess -s signals.json --domain backend=45 --domain frontend=40 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sig, domains, err := readInput(cmd)
			if err != nil {
				return err
			}
			res, err := planner.Assess(sig, domains)
			if err != nil {
				return err
			}
			a.logger.Debug("signals assessed", "score", res.Score, "category", res.Category, "phases", res.PhaseCount)
			return a.renderer(cmd.OutOrStdout()).Assessment(res, domains)
		},
	}
	addSignalFlags(cmd)
	return cmd
}

func newCreateCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Build a phase plan and save it as the current plan",
		Long: `Build a phase plan from project signals, persist it in the state directory
and make it the current plan. Takes the same inputs as "assess".`,
		Example: `  phaseplan create --signals signals.yaml --id checkout-rewrite`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sig, domains, err := readInput(cmd)
			if err != nil {
				return err
			}
			plan, err := planner.BuildFromSignals(sig, domains)
			if err != nil {
				return err
			}
			plan.ID, _ = cmd.Flags().GetString("id")

			store, cleanup, err := a.openStore()
			defer cleanup()
			if err != nil {
				return err
			}
			if err := store.Create(plan); err != nil {
				return err
			}
			a.logger.Info("plan created", "plan", plan.ID, "category", plan.Category, "phases", plan.PhaseCount)
			return a.renderer(cmd.OutOrStdout()).Plan(plan)
		},
	}
	addSignalFlags(cmd)
	cmd.Flags().String("id", "", "plan ID (default: generated UUID)")
	return cmd
}

func newShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show [plan-id]",
		Short: "Show a plan (default: the current plan)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cleanup, err := a.openStore()
			defer cleanup()
			if err != nil {
				return err
			}
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			plan, err := loadPlan(store, id)
			if err != nil {
				return err
			}
			return a.renderer(cmd.OutOrStdout()).Plan(plan)
		},
	}
}

func newListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, cleanup, err := a.openStore()
			defer cleanup()
			if err != nil {
				return err
			}
			plans, err := store.List()
			if err != nil {
				return err
			}
			return a.renderer(cmd.OutOrStdout()).Plans(plans)
		},
	}
}

func newGateCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gate <gate-id> [status]",
		Short: "Move a validation gate to a new status",
		Long: `Move a validation gate through its lifecycle:

  pending -> in_progress -> passed | failed

A phase can only start once every gate of the previous phase has passed.
A failed gate blocks the plan until it is reset with --reset.`,
		Example: `  phaseplan gate P1-G1 in_progress
  phaseplan gate P1-G1 passed
  phaseplan gate P2-G3 --reset --plan checkout-rewrite`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reset, _ := cmd.Flags().GetBool("reset")
			switch {
			case reset && len(args) == 2:
				return fmt.Errorf("--reset takes no status argument")
			case !reset && len(args) != 2:
				return fmt.Errorf("a target status is required (in_progress, passed or failed)")
			}
			gateID := args[0]

			store, cleanup, err := a.openStore()
			defer cleanup()
			if err != nil {
				return err
			}
			planID, _ := cmd.Flags().GetString("plan")
			plan, err := loadPlan(store, planID)
			if err != nil {
				return err
			}

			before, err := plan.Gate(gateID)
			if err != nil {
				return err
			}
			if reset {
				err = planner.ResetGate(plan, gateID)
			} else {
				err = planner.TransitionGate(plan, gateID, planner.GateStatus(args[1]))
			}
			if err != nil {
				return err
			}
			if err := store.Save(plan); err != nil {
				return err
			}
			after, _ := plan.Gate(gateID)
			a.logger.Info("gate updated", "plan", plan.ID, "gate", gateID, "from", before.Status, "to", after.Status)
			return a.renderer(cmd.OutOrStdout()).GateUpdate(plan, before, after)
		},
	}
	cmd.Flags().String("plan", "", "plan ID (default: the current plan)")
	cmd.Flags().Bool("reset", false, "return the gate to pending")
	cmd.ValidArgsFunction = func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 1 {
			return []string{string(planner.GateInProgress), string(planner.GatePassed), string(planner.GateFailed)}, cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return cmd
}

// loadPlan returns the plan with the given ID, or the current plan.
func loadPlan(store state.Store, planID string) (*planner.Plan, error) {
	if planID != "" {
		return store.Load(planID)
	}
	plan, err := store.LoadCurrent()
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, fmt.Errorf(`no current plan: create one with "phaseplan create"`)
	}
	return plan, nil
}
