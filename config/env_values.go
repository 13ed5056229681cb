package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"mongoschema/internal/timing"
)

type Environment struct {
	// Server configs
	IsDocker          bool
	Port              string
	Environment       string
	CorsAllowedOrigin string

	// Database configs
	MongoURI            string
	MongoDatabaseName   string
	MongoConnectTimeout time.Duration

	// Schema configs
	ManifestPath string

	// Timing toggles
	BenchmarkCreateJSONSchema bool
	BenchmarkEnsureIndexes    bool
	BenchmarkEnsureJSONSchema bool
}

var Env Environment

// LoadEnv loads environment variables from .env file if present
// and validates required variables
func LoadEnv() error {
	// Check if running in Docker
	Env.IsDocker = os.Getenv("IS_DOCKER") == "true"

	// Load .env file only if not running in Docker
	if !Env.IsDocker {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			fmt.Printf("Warning: .env file could not be loaded: %v\n", err)
		}
	}

	// Server configs
	Env.Port = getEnvWithDefault("PORT", "3000")
	Env.Environment = getEnvWithDefault("ENVIRONMENT", "DEVELOPMENT")
	Env.CorsAllowedOrigin = getEnvWithDefault("CORS_ALLOWED_ORIGIN", "http://localhost:5173")

	// Database configs
	Env.MongoURI = getEnvWithDefault("MONGOSCHEMA_MONGODB_URI", "mongodb://localhost:27017")
	Env.MongoDatabaseName = getEnvWithDefault("MONGOSCHEMA_MONGODB_NAME", "test")
	Env.MongoConnectTimeout = time.Millisecond * time.Duration(getIntEnvWithDefault("MONGOSCHEMA_MONGODB_CONNECT_TIMEOUT_MILLISECONDS", 30000))

	// Schema configs
	Env.ManifestPath = getEnvWithDefault("MONGOSCHEMA_MANIFEST", "mongoschema.json")

	// Timing toggles
	Env.BenchmarkCreateJSONSchema = getBoolEnv(timing.Toggles[timing.CreateJSONSchema])
	Env.BenchmarkEnsureIndexes = getBoolEnv(timing.Toggles[timing.EnsureIndexes])
	Env.BenchmarkEnsureJSONSchema = getBoolEnv(timing.Toggles[timing.EnsureJSONSchema])

	return validateConfig()
}

// ApplyTimings pushes the timing toggles to the timing package, so that flags
// overriding the environment take effect.
func ApplyTimings() {
	timing.Enable(timing.CreateJSONSchema, Env.BenchmarkCreateJSONSchema)
	timing.Enable(timing.EnsureIndexes, Env.BenchmarkEnsureIndexes)
	timing.Enable(timing.EnsureJSONSchema, Env.BenchmarkEnsureJSONSchema)
}

// Helper functions to get environment variables with defaults and validation
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnvWithDefault(key string, defaultValue int) int {
	strValue := os.Getenv(key)
	if strValue == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(strValue)
	if err != nil {
		fmt.Printf("Warning: Invalid value for %s, using default: %d\n", key, defaultValue)
		return defaultValue
	}
	return value
}

func getBoolEnv(key string) bool {
	return os.Getenv(key) == "true"
}

func validateConfig() error {
	return Env.Validate()
}

// Validate checks the values that would only fail later, at connect time.
func (e Environment) Validate() error {
	if !isValidURI(e.MongoURI) {
		return fmt.Errorf("invalid MONGOSCHEMA_MONGODB_URI format: %s", e.MongoURI)
	}
	if e.MongoDatabaseName == "" {
		return fmt.Errorf("MONGOSCHEMA_MONGODB_NAME must not be empty")
	}
	if e.MongoConnectTimeout <= 0 {
		return fmt.Errorf("MONGOSCHEMA_MONGODB_CONNECT_TIMEOUT_MILLISECONDS must be positive, got: %s", e.MongoConnectTimeout)
	}
	return nil
}

func isValidURI(uri string) bool {
	return strings.HasPrefix(uri, "mongodb://") || strings.HasPrefix(uri, "mongodb+srv://")
}
