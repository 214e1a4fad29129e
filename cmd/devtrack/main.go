package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"devtrack/config"
	"devtrack/server"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "devtrack",
	Short: "Router LAN device tracker",
	Long: `devtrack polls the router's LAN host discovery page, keeps a history of
every device it has seen and serves a search API and web UI over it.`,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Poll the router and serve the device API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		var app server.App
		if err := app.Initialize(cfg); err != nil {
			return err
		}
		return app.Run()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (env vars only when empty)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(tableCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
