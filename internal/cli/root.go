package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mongoschema/config"
	"mongoschema/internal/di"
)

const (
	Version = "0.3.0"
)

var (
	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "mongoschema",
		Short: "keep MongoDB validators and indexes in sync",
		Long: fmt.Sprintf(`mongoschema (v%s)

Applies $jsonSchema validators and indexes declared in a manifest to a
MongoDB database. Every flag can also be set through the environment as
MONGOSCHEMA_<FLAG> (e.g. MONGOSCHEMA_MONGODB_URI=mongodb://db:27017).`, Version),
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of mongoschema",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mongoschema v%s\n", Version)
		},
	}
)

func init() {
	RootCmd.AddCommand(syncCmd)
	RootCmd.AddCommand(printCmd)
	RootCmd.AddCommand(indexesCmd)
	RootCmd.AddCommand(serveCmd)
	RootCmd.AddCommand(versionCmd)

	key := "mongodb-uri"
	RootCmd.PersistentFlags().String(key, "", WrapString("MongoDB connection string (default mongodb://localhost:27017)"))
	key = "mongodb-name"
	RootCmd.PersistentFlags().String(key, "", WrapString("database holding the collections (default test)"))
	key = "manifest"
	RootCmd.PersistentFlags().String(key, "", WrapString("path of the collection manifest (default mongoschema.json)"))
	key = "benchmarks"
	RootCmd.PersistentFlags().Bool(key, false, WrapString("log how long schema synthesis, validator and index synchronization take"))
}

// loadConfig reads the environment, then lets flags and MONGOSCHEMA_*
// variables bound through viper override it.
func loadConfig(cmd *cobra.Command, _ []string) error {
	if err := config.LoadEnv(); err != nil {
		return err
	}

	viper.SetEnvPrefix("mongoschema")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	if viper.IsSet("mongodb-uri") {
		config.Env.MongoURI = viper.GetString("mongodb-uri")
	}
	if viper.IsSet("mongodb-name") {
		config.Env.MongoDatabaseName = viper.GetString("mongodb-name")
	}
	if viper.IsSet("manifest") {
		config.Env.ManifestPath = viper.GetString("manifest")
	}
	if viper.IsSet("port") {
		config.Env.Port = viper.GetString("port")
	}
	if viper.GetBool("benchmarks") {
		config.Env.BenchmarkCreateJSONSchema = true
		config.Env.BenchmarkEnsureIndexes = true
		config.Env.BenchmarkEnsureJSONSchema = true
	}
	if err := config.Env.Validate(); err != nil {
		return err
	}
	config.ApplyTimings()

	di.Initialize()
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := RootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
