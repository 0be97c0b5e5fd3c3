package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"taskpilot/internal/session"
)

// replCmd is an interactive loop: type what you would have spoken.
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive transcript loop",
	Long: `Reads transcripts line by line and runs each through the pipeline.

When a command needs confirmation, answer y/n. Type "again" to retry the
last turn, "quit" to exit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, cleanup, err := buildSession()
		if err != nil {
			return err
		}
		defer cleanup()

		scanner := bufio.NewScanner(os.Stdin)
		fmt.Println("taskpilot ready. Type a command, or \"quit\".")
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				return scanner.Err()
			}
			line := strings.TrimSpace(scanner.Text())
			switch line {
			case "":
				continue
			case "quit", "exit":
				return nil
			case "again":
				if err := ctrl.Retry(); err != nil {
					fmt.Println(err)
				}
				continue
			}

			if err := ctrl.Start(); err != nil {
				// A confirmation may still be pending from the last line.
				_ = ctrl.Cancel()
				if err := ctrl.Start(); err != nil {
					fmt.Println(err)
					continue
				}
			}
			outcome, err := ctrl.HandleTranscript(context.Background(), line)
			if err != nil {
				fmt.Println(err)
				continue
			}

			if ctrl.State() == session.StateAwaitingConfirmation {
				pending, _ := ctrl.Pending()
				fmt.Printf("Run %s? [y/N] ", pending.Action)
				if !scanner.Scan() {
					return scanner.Err()
				}
				answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
				if answer != "y" && answer != "yes" {
					_ = ctrl.Cancel()
					fmt.Println("Cancelled.")
					continue
				}
				outcome, err = ctrl.Confirm(context.Background())
				if err != nil {
					fmt.Println(err)
					continue
				}
			}

			fmt.Println(outcome.Message)
		}
	},
}
