package hashtab

// defaultBatchSize is the number of words handed to a worker at a time in
// parallel builds. Large enough to amortize channel overhead, small enough
// to keep workers evenly loaded near the end of a wordlist.
const defaultBatchSize = 1024

// BuildOption is a functional option for configuring builds.
type BuildOption func(*buildConfig)

type buildConfig struct {
	workers   int
	batchSize int

	totalWords uint64 // Pre-known word count for exact file pre-allocation
}

func defaultBuildConfig() *buildConfig {
	return &buildConfig{
		workers:   0, // Default to single-threaded; use WithWorkers(n) to parallelize
		batchSize: defaultBatchSize,
	}
}

// WithWorkers sets the number of parallel digest workers.
//
// With workers > 1, words are digested in batches across worker goroutines.
// Each record's position in the artifact is fixed by its sequence number,
// so workers write disjoint regions of the output and the final artifact is
// identical to a single-threaded build.
func WithWorkers(n int) BuildOption {
	return func(c *buildConfig) {
		c.workers = n
	}
}

// WithBatchSize sets the number of words per worker batch in parallel
// builds. Has no effect in single-threaded mode.
func WithBatchSize(n int) BuildOption {
	return func(c *buildConfig) {
		if n > 0 {
			c.batchSize = n
		}
	}
}
