package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"devtrack/internal/report"
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Render a tab-separated device list as a markdown table",
	RunE: func(cmd *cobra.Command, args []string) error {
		input, _ := cmd.Flags().GetString("input")
		output, _ := cmd.Flags().GetString("output")
		n, err := report.GenerateFile(input, output)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d devices to %s\n", n, output)
		return nil
	},
}

func init() {
	tableCmd.Flags().StringP("input", "i", "device_list.txt", "input device list path")
	tableCmd.Flags().StringP("output", "o", "device_table.md", "output markdown path")
}
