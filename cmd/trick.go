package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mnemo/pkg/trick"
)

var trickLang string

var trickCmd = &cobra.Command{
	Use:   "trick <type> <letters...>",
	Short: "Print a memory trick",
	Long: fmt.Sprintf(`Print a memory trick for the given letters or words.

Types: %s`, strings.Join(trick.Types, ", ")),
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		out := a.Tricks.Generate(cmd.Context(), args[0], strings.Join(args[1:], " "), trick.Options{Lang: trickLang})
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	trickCmd.Flags().StringVar(&trickLang, "lang", "english", "sentence language (english or hinglish)")
	rootCmd.AddCommand(trickCmd)
}
