package main

import (
	"os"

	"github.com/aretw0/lattice/internal/cli"
	"github.com/spf13/cobra"
)

var flattenCmd = &cobra.Command{
	Use:   "flatten <definition>",
	Short: "Print the materialized rows in document order",
	Long:  `Materializes the definition's rows and prints each one with its key, parent, depth and tree flags.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonMode, _ := cmd.Flags().GetBool("json")
		mermaid, _ := cmd.Flags().GetBool("mermaid")

		_, grid, err := loadGrid(cmd, args[0], cli.GridOptions{})
		if err != nil {
			return err
		}
		defer grid.Destroy()

		if mermaid {
			return cli.Mermaid(os.Stdout, grid)
		}
		return cli.Flatten(os.Stdout, grid, jsonMode)
	},
}

func init() {
	rootCmd.AddCommand(flattenCmd)
	flattenCmd.Flags().Bool("json", false, "Print rows as JSON")
	flattenCmd.Flags().Bool("mermaid", false, "Print the row tree as a Mermaid flowchart")
	flattenCmd.MarkFlagsMutuallyExclusive("json", "mermaid")
}
