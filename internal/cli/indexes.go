package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson"

	"mongoschema/internal/di"
	"mongoschema/pkg/manifest"
	"mongoschema/pkg/mongodb"
)

var indexesCmd = &cobra.Command{
	Use:   "indexes <collection>",
	Short: "Print the declared or installed indexes of a collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		installed, _ := cmd.Flags().GetBool("installed")
		if installed {
			return withClient(func(client *mongodb.MongoDBClient) error {
				cursor, err := client.GetCollectionByName(args[0]).Indexes().List(cmd.Context())
				if err != nil {
					return err
				}
				var specs []bson.D
				if err := cursor.All(cmd.Context(), &specs); err != nil {
					return err
				}
				return writeDocument(cmd.OutOrStdout(), bson.D{{Key: "indexes", Value: specs}}, true)
			})
		}

		m, err := di.GetManifest()
		if err != nil {
			return err
		}
		c, ok := m.Collection(args[0])
		if !ok {
			return fmt.Errorf("%w: unknown collection %q", manifest.ErrInvalidManifest, args[0])
		}
		return writeDocument(cmd.OutOrStdout(), bson.D{
			{Key: "dropOldIndexes", Value: c.DropOldIndexes},
			{Key: "indexes", Value: indexList(c.Indexes)},
		}, true)
	},
}

func init() {
	indexesCmd.Flags().Bool("installed", false, WrapString("list the indexes currently on the server instead of the manifest ones"))
}

func indexList(indexes []manifest.Index) []manifest.Index {
	if indexes == nil {
		return []manifest.Index{}
	}
	return indexes
}
