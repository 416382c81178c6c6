package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Locate the newest arrest bulletin, extract it and store new records",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel, application, logger, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer cancel()
		defer application.Close()

		report, err := application.Ingest(ctx)
		if err != nil {
			logger.Error("ingestion failed", "error", err)
			return err
		}

		if report.Bulletin != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "bulletin: %s\n", report.Bulletin.URL)
		}
		for _, e := range report.Errors {
			fmt.Fprintf(cmd.OutOrStdout(), "error: %s\n", e)
		}
		fmt.Fprintln(cmd.OutOrStdout(), report.Summary())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
