// Package timing records how long the schema and synchronization operations
// take. Durations always go to a metrics summary; they are also logged when
// the operation's BENCHMARKS_* toggle is on.
package timing

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/puzpuzpuz/xsync/v3"
)

const (
	CreateJSONSchema = "createJsonSchemaForClass"
	EnsureIndexes    = "ensureIndexes"
	EnsureJSONSchema = "ensureJsonSchema"
)

// Toggles maps each timed operation to the environment variable that turns
// on its timing log line.
var Toggles = map[string]string{
	CreateJSONSchema: "BENCHMARKS_CREATEJSONSCHEMAFORCLASS",
	EnsureIndexes:    "BENCHMARKS_ENSUREINDEXES",
	EnsureJSONSchema: "BENCHMARKS_ENSUREJSONSCHEMA",
}

var overrides = xsync.NewMapOf[string, bool]()

// Enable forces the timing log for op on or off, regardless of the environment.
func Enable(op string, on bool) {
	overrides.Store(op, on)
}

// Enabled reports whether timing lines are logged for op.
func Enabled(op string) bool {
	if on, ok := overrides.Load(op); ok {
		return on
	}
	env, ok := Toggles[op]
	return ok && os.Getenv(env) == "true"
}

// Track starts timing op. Call the returned func when the operation ends.
func Track(op string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		metrics.GetOrCreateSummary(metricName(op)).Update(d.Seconds())
		if Enabled(op) {
			log.Printf("%s: %s", op, d)
		}
	}
}

func metricName(op string) string {
	return fmt.Sprintf(`mongoschema_operation_duration_seconds{op=%q}`, op)
}
