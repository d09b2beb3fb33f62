package main

import "runtime"

// Worker pool bounds.
const (
	MaxWorkers     = 32
	maxAutoWorkers = 8
)

// resolvePoolSize determines the number of conversion workers.
// Priority: explicit count > GOMAXPROCS-based calculation.
func resolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS reflects the container quota once automaxprocs has run.
	return min(max(runtime.GOMAXPROCS(0), 1), maxAutoWorkers)
}
