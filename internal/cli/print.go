package cli

import (
	"github.com/spf13/cobra"

	"mongoschema/internal/di"
	"mongoschema/pkg/mongodb"
)

var printCmd = &cobra.Command{
	Use:   "print <collection>",
	Short: "Print the resolved $jsonSchema of a collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := di.GetManifest()
		if err != nil {
			return err
		}
		schema, err := m.Schema(args[0])
		if err != nil {
			return err
		}
		extended, _ := cmd.Flags().GetBool("extjson")
		if validator, _ := cmd.Flags().GetBool("validator"); validator {
			return writeDocument(cmd.OutOrStdout(), mongodb.Validator(schema), true)
		}
		return writeDocument(cmd.OutOrStdout(), schema, extended)
	},
}

func init() {
	printCmd.Flags().Bool("extjson", false, WrapString("print relaxed Extended JSON instead of plain JSON"))
	printCmd.Flags().Bool("validator", false, WrapString("wrap the schema in the {$jsonSchema: ...} validator document (implies --extjson)"))
}
