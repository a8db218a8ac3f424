// Package tuner picks worker-pool sizes for the hashing and copying pools.
package tuner

import "runtime"

// Worker-count limits.
const (
	// Multiplier is the number of workers per logical CPU. Hashing and
	// copying spend most of their time waiting on storage, so
	// oversubscription relative to core count improves throughput.
	Multiplier = 4

	// MinWorkers is the floor for the auto-tuned count.
	MinWorkers = 4

	// MaxWorkers is the hard cap for any pool. Each worker holds at most
	// two file descriptors, so the cap bounds descriptor use.
	MaxWorkers = 64
)

// Workers returns the pool size to use. An override greater than zero wins,
// clamped to MaxWorkers. Otherwise the count is Multiplier per logical CPU,
// clamped to [MinWorkers, MaxWorkers].
func Workers(override int) int {
	if override > 0 {
		return min(override, MaxWorkers)
	}

	w := runtime.NumCPU() * Multiplier
	w = max(w, MinWorkers)
	return min(w, MaxWorkers)
}
