package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mongoschema/internal/di"
	"mongoschema/pkg/mongodb"
)

var syncCmd = &cobra.Command{
	Use:   "sync [collection...]",
	Short: "Apply validators and indexes to the database",
	Long:  `Apply the validator, then the indexes, of the given collections (all manifest collections when none are given). A collection whose validator is already installed is left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(_ *mongodb.MongoDBClient) error {
			service, err := di.GetSchemaSyncService()
			if err != nil {
				return err
			}
			results, syncErr := service.Sync(cmd.Context(), args...)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "COLLECTION\tVALIDATOR\tINDEXES\tERROR")
			for _, r := range results {
				errMsg := ""
				if r.Error != nil {
					errMsg = r.Error.Error()
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Collection, r.ValidatorAction, strings.Join(r.Indexes, ","), errMsg)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			return syncErr
		})
	},
}
