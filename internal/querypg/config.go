package querypg

import "os"

// DisableBRINEnv is the environment variable that turns off the redundant
// BRIN-helper clauses. Its mere presence disables them; the value is
// irrelevant. This is an operational kill-switch in case the expanded
// clause misleads the planner in some deployment; correctness is
// unaffected either way.
const DisableBRINEnv = "DISABLE_BRIN_BLOCK_RANGE"

// Config holds the process-lifetime settings for predicate compilation.
// Build it once at startup (typically via ConfigFromEnv) and pass it to
// every compiled clause; it is never read from hidden global state.
type Config struct {
	// DisableBRINRange suppresses the redundant scalar-bound clauses that
	// exist only to make the BRIN index on block_range usable.
	DisableBRINRange bool
}

// ConfigFromEnv derives a Config from the process environment.
func ConfigFromEnv() Config {
	_, set := os.LookupEnv(DisableBRINEnv)
	return Config{DisableBRINRange: set}
}
