package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mnemo/pkg/generator"
)

var generateCmd = &cobra.Command{
	Use:   "generate <type> <concept...>",
	Short: "Generate a trick with the configured model backend",
	Long: fmt.Sprintf(`Generate a memory trick with the configured model backend.

Types: %s`, strings.Join(generator.TrickTypes(), ", ")),
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		out, err := a.Generator.Generate(cmd.Context(), strings.Join(args[1:], " "), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
}
