// Package cmd defines the command-line interface of the chamados backend.
// The default command starts the HTTP server; "sync" runs a single
// synchronization pass and exits.
package cmd

import (
	"github.com/spf13/cobra"
)

// version is stamped at build time via -ldflags "-X .../cmd.version=v1.2.3".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "chamados-backend",
	Short:   "Backend for the retail ticket (chamados) dashboard",
	Version: version,
	RunE:    runServe,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(syncCmd)
}
