package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JoelJaison394/Minecraft-Agent/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "agent",
		Short: "Autonomous decision and execution engine for a simulated-world agent",
		Long: `agent runs a goal-driven game agent: a priority scheduler for behavioral
goals, a single-flight action executor, behavioral stuck detection with an
override layer, and a decision cycle that consults an external LLM advisor.`,
	}

	rootCmd.AddCommand(cli.RunCmd())
	rootCmd.AddCommand(cli.StatusCmd())
	rootCmd.AddCommand(cli.SnapshotCmd())
	rootCmd.AddCommand(cli.ActCmd())
	rootCmd.AddCommand(cli.HistoryCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
