package main

import (
	"os"

	"github.com/aretw0/lattice/internal/cli"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play <definition>",
	Short: "Replay key strokes against a grid",
	Long: `Focuses the first cell, applies the strokes in order and prints the grid
with its focus and selection.

Example:
  lattice play grid.yaml --keys "down,shift-down,shift-right,del"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		keys, _ := cmd.Flags().GetStringSlice("keys")
		jsonMode, _ := cmd.Flags().GetBool("json")

		_, grid, err := loadGrid(cmd, args[0], cli.GridOptions{})
		if err != nil {
			return err
		}
		defer grid.Destroy()

		cli.FocusFirstCell(grid)
		return cli.Play(os.Stdout, grid, keys, jsonMode)
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().StringSliceP("keys", "k", nil, "Comma separated key strokes")
	playCmd.Flags().Bool("json", false, "Print actions and state as JSON")
}
