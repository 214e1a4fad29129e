package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"devtrack/internal/discovery"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a saved router page and print the devices as JSON",
	Long: `Parse a saved copy of the router's device page without touching the
database. Use "-" to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		return parsePage(in, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func parsePage(in io.Reader, out, errOut io.Writer) error {
	devices, err := discovery.Parse(in)
	switch {
	case errors.Is(err, discovery.ErrTableNotFound):
		fmt.Fprintln(errOut, "warning: could not find device table")
	case err != nil:
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(devices)
}
