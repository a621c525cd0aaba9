package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flexigpt/lingo-go/spec"
)

const quitCommand = "/quit"

func newChatCmd(a *app) *cobra.Command {
	var scenario string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Practice a scenario in the terminal",
		Long:  "Starts the scenario and reads one learner line per turn from stdin until it completes, " + quitCommand + " or EOF.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.chat(cmd, spec.ScenarioID(scenario))
		},
	}
	cmd.Flags().StringVarP(&scenario, "scenario", "s", "coffee_shop", "scenario id")
	return cmd
}

func (a *app) chat(cmd *cobra.Command, scenario spec.ScenarioID) error {
	ctx := cmd.Context()
	rt, err := a.newRuntime()
	if err != nil {
		return err
	}
	id, err := rt.NewSession(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = rt.CloseSession(ctx, id) }()

	out := cmd.OutOrStdout()
	reply, err := rt.Respond(ctx, id, spec.RespondArgs{Scenario: scenario, Message: "start"})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "tutor> %s\n", reply.Text)
	if reply.Outcome == spec.OutcomeInvalidScenario {
		return fmt.Errorf("%w: %s", spec.ErrScenarioNotFound, scenario)
	}

	in := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "you> ")
		if !in.Scan() {
			fmt.Fprintln(out)
			return in.Err()
		}
		line := in.Text()
		if strings.TrimSpace(line) == quitCommand {
			return nil
		}
		reply, err := rt.Respond(ctx, id, spec.RespondArgs{Scenario: scenario, Message: line})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "tutor> %s\n", reply.Text)
		if reply.Complete() {
			return nil
		}
	}
}
