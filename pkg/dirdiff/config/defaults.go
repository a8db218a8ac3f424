package config

// Default configuration values for dirdiff.
const (
	// DefaultWorkers is the worker-pool override; 0 means auto-tune from
	// the CPU count.
	DefaultWorkers = 0

	// DefaultLogLevel is the default logging level.
	DefaultLogLevel = "info"
)

// DefaultExclusions contains paths excluded from scanning by default.
// Empty: a snapshot tool should see everything unless told otherwise.
var DefaultExclusions = []string{}
