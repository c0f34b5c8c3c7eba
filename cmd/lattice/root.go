package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lattice",
	Short: "Lattice is the state core of a spreadsheet-like grid",
	Long: `Lattice loads a grid definition (columns, row headers, tree options and rows)
and drives it with keyboard strokes: focus moves, selection, editing and
clearing, over hierarchical rows that expand and collapse.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("data", "", "Rows file (YAML or JSON) replacing the definition's inline data")
}

// loadGrid builds the logger and grid shared by the subcommands.
func loadGrid(cmd *cobra.Command, definition string, opts cli.GridOptions) (*slog.Logger, *lattice.Grid, error) {
	level, _ := cmd.Flags().GetString("log-level")
	logger, err := cli.CreateLogger(level)
	if err != nil {
		return nil, nil, err
	}
	opts.DefinitionPath = definition
	opts.DataPath, _ = cmd.Flags().GetString("data")

	grid, err := cli.CreateGrid(opts, logger)
	if err != nil {
		return nil, nil, err
	}
	return logger, grid, nil
}
