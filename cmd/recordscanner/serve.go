package main

import (
	"github.com/spf13/cobra"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON API and the scheduled arrest-log ingestion",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel, application, logger, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer cancel()
		defer application.Close()

		if err := application.Serve(ctx, servePort); err != nil {
			logger.Error("application stopped", "error", err)
			return err
		}
		logger.Info("application stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Port to run the server on (defaults to server.port or PORT)")
}
