package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCatalogCmd(a *app) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the games of the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			needle := strings.ToLower(filter)
			shown := 0
			for _, entry := range a.catalog.Entries() {
				if needle != "" && !strings.Contains(strings.ToLower(entry.Name), needle) {
					continue
				}
				fmt.Fprintf(out, "%s\t%s\n", entry.GameID, entry.Name)
				shown++
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d games\n", shown, a.catalog.Len())
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "only names containing this text (case-insensitive)")
	return cmd
}
