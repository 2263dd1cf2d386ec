package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "splitdeck",
	Short: "A/B experiment dashboard backend",
	Long: `splitdeck is the backend for an A/B testing dashboard.

Product teams draft experiments with variants, targeting rules, and KPIs,
run them through a validated lifecycle (draft, live, paused, ended), and
delivery systems consume the live experiments over an integration feed.
Every change is recorded in a per-experiment audit trail.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
