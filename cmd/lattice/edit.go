package main

import (
	"os"

	"github.com/aretw0/lattice/internal/cli"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <definition>",
	Short: "Drive a grid interactively from the keyboard",
	Long: `Opens the grid in the terminal. Arrow, page, home/end and tab keys move the
focus, shift extends the selection, enter starts editing, del clears and
space expands or collapses the focused tree row. Press q to quit.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, grid, err := loadGrid(cmd, args[0], cli.GridOptions{})
		if err != nil {
			return err
		}
		defer grid.Destroy()

		return cli.Edit(os.Stdin, os.Stdout, grid)
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
}
