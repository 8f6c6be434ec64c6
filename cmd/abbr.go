package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"mnemo/pkg/schema"
)

var abbrCmd = &cobra.Command{
	Use:   "abbr <terms...>",
	Short: "Expand abbreviations and store them in the cache",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		out := schema.FetchedResponse{Fetched: make([]schema.Abbreviation, 0, len(args))}
		for _, term := range args {
			out.Fetched = append(out.Fetched, a.Resolver.Resolve(cmd.Context(), term))
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	rootCmd.AddCommand(abbrCmd)
}
