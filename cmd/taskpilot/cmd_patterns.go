package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskpilot/internal/pattern"
)

// patternsCmd prints the fallback catalog, most specific first. Handy for
// checking what works offline.
var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List the offline fallback patterns",
	Run: func(cmd *cobra.Command, args []string) {
		for _, p := range pattern.Catalog() {
			fmt.Printf("%-24s %s\n", p.Action, p.Regex)
			for _, ex := range p.Examples {
				fmt.Printf("%-24s   e.g. %q\n", "", ex)
			}
		}
	},
}
