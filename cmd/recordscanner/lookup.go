package main

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"RecordsScanner/internal/usecase"
)

var lookupOpts usecase.ResolveOptions

var lookupCmd = &cobra.Command{
	Use:   `lookup "<full name>"`,
	Short: "Search every configured court source for a client's hearings",
	Long: `Lookup queries each enabled court source with the name as given,
"Last, First" and "First Last", then the public-records aggregator.

Examples:
  recordscanner lookup "Travis Hong-Ah Nee"
  recordscanner lookup "Jane Roe" --county Maui --max 10`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel, application, _, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer cancel()
		defer application.Close()

		result := application.Lookup(ctx, strings.Join(args, " "), lookupOpts)

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	rootCmd.AddCommand(lookupCmd)
	lookupCmd.Flags().StringVar(&lookupOpts.State, "state", "", "State hint forwarded to sources")
	lookupCmd.Flags().StringVar(&lookupOpts.County, "county", "", "County hint forwarded to sources")
	lookupCmd.Flags().IntVar(&lookupOpts.MaxResults, "max", 0, "Cap on returned hearing records (0 = no cap)")
}
