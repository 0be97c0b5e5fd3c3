package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"taskpilot/internal/session"
)

var sayJSON bool

// sayCmd runs one transcript through the pipeline and prints the outcome.
var sayCmd = &cobra.Command{
	Use:   "say <transcript>",
	Short: "Run a single voice transcript through the pipeline",
	Example: `  taskpilot say "create task Review Report due tomorrow high priority"
  taskpilot say "show tasks today"
  taskpilot say "update goal Learn React to 75 percent"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, cleanup, err := buildSession()
		if err != nil {
			return err
		}
		defer cleanup()

		transcript := strings.Join(args, " ")
		if err := ctrl.Start(); err != nil {
			return err
		}
		outcome, err := ctrl.HandleTranscript(context.Background(), transcript)
		if err != nil {
			return err
		}

		// Without auto-confirm the command parses and waits; confirm it
		// here since a one-shot CLI run has no separate confirm step.
		if ctrl.State() == session.StateAwaitingConfirmation {
			outcome, err = ctrl.Confirm(context.Background())
			if err != nil {
				return err
			}
		}

		printOutcome(outcome)
		if outcome.Failure != "" {
			os.Exit(1)
		}
		return nil
	},
}

func printOutcome(o session.Outcome) {
	if sayJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(map[string]interface{}{
			"transcript": o.Transcript,
			"command":    o.Command,
			"result":     o.Result,
			"failure":    o.Failure,
			"message":    o.Message,
		})
		return
	}

	fmt.Println(o.Message)
	if o.Result.Data != nil && o.Result.DisplayType != "" && o.Result.DisplayType != "confirmation" {
		data, err := json.MarshalIndent(o.Result.Data, "", "  ")
		if err == nil {
			fmt.Println(string(data))
		}
	}
}

func init() {
	sayCmd.Flags().BoolVar(&sayJSON, "json", false, "print the full outcome as JSON")
}
