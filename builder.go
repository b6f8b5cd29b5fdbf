package hashtab

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	taberrors "github.com/dictsearch/hashtab/errors"
)

// Builder provides an AddWord-style API for building a lookup table file.
//
// The word count must be known upfront so the output can be pre-allocated
// at its exact final size; with no header or footer in the format, the file
// length is the only record count the artifact carries.
//
// Usage:
//
//	builder, err := hashtab.NewBuilder(ctx, "table.idx", totalWords, algo)
//	if err != nil { return err }
//	defer builder.Close() // Clean up on error
//
//	for word, offset := range wordlist {
//	    if err := builder.AddWord(word, offset); err != nil { return err }
//	}
//	return builder.Finish()
//
// For parallel digesting with N workers:
//
//	builder, err := hashtab.NewBuilder(ctx, "table.idx", totalWords, algo,
//	    hashtab.WithWorkers(8))
//
// Words must be added in strictly increasing offset order in both modes;
// the artifact is offset-monotonic by contract.
type Builder struct {
	ctx    context.Context
	cfg    *buildConfig
	algo   *Algorithm
	tw     *tableWriter
	output string
	closed bool

	wordsAdded  uint64
	lastOffset  uint64
	wordCounter int

	// Parallel mode fields (when workers > 1), see builder_parallel.go
	workers         int
	workChan        chan recordBatch
	workerGroup     *errgroup.Group
	workerCtx       context.Context
	workerCancel    context.CancelFunc
	workersShutDown bool
	pending         recordBatch
	entryPool       sync.Pool
}

// NewBuilder creates a builder writing the table for algo to output.
// totalWords must be the exact number of words that will be added.
func NewBuilder(ctx context.Context, output string, totalWords uint64, algo *Algorithm, opts ...BuildOption) (*Builder, error) {
	if totalWords == 0 {
		return nil, taberrors.ErrEmptyTable
	}

	cfg := defaultBuildConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.totalWords = totalWords

	tw, err := newTableWriter(output, totalWords)
	if err != nil {
		return nil, fmt.Errorf("create table writer: %w", err)
	}

	workers := cfg.workers
	if workers <= 0 {
		workers = 1 // Default to single-threaded
	}

	b := &Builder{
		ctx:     ctx,
		cfg:     cfg,
		algo:    algo,
		tw:      tw,
		output:  output,
		workers: workers,
	}

	if workers > 1 {
		b.initParallelWorkers()
	}

	return b, nil
}

// AddWord adds one wordlist candidate and its byte offset to the table.
// Offsets must be strictly increasing across calls.
func (b *Builder) AddWord(word []byte, offset uint64) error {
	if b.closed {
		return taberrors.ErrBuilderClosed
	}

	if b.wordsAdded == b.cfg.totalWords {
		return fmt.Errorf("%w: more than the declared %d words added",
			taberrors.ErrWordCountMismatch, b.cfg.totalWords)
	}

	// Offset failures abort the build; a skipped entry would silently
	// desynchronize the lookup side's offset assumptions.
	if offset >= MaxOffset {
		return fmt.Errorf("%s: word at offset %d: %w", b.algo.Key, offset, taberrors.ErrOffsetOverflow)
	}
	if b.wordsAdded > 0 && offset <= b.lastOffset {
		return fmt.Errorf("%s: offset %d follows %d: %w",
			b.algo.Key, offset, b.lastOffset, taberrors.ErrUnsortedOffsets)
	}
	b.lastOffset = offset

	// Check context periodically.
	b.wordCounter++
	if b.wordCounter >= contextCheckInterval {
		b.wordCounter = 0
		select {
		case <-b.ctx.Done():
			return b.ctx.Err()
		default:
		}
	}

	if b.workers > 1 {
		if err := b.addWordParallel(word, offset); err != nil {
			return err
		}
	} else {
		// Single-threaded: digest and pack directly into the mmap region.
		dst := b.tw.region(b.wordsAdded, 1)
		if err := packRecord(dst, b.algo.Digest(word), offset); err != nil {
			return fmt.Errorf("%s: word at offset %d: %w", b.algo.Key, offset, err)
		}
	}

	b.wordsAdded++
	return nil
}

// Finish completes the table and writes it to disk.
// After calling Finish, the builder cannot be used again.
func (b *Builder) Finish() error {
	if b.closed {
		return taberrors.ErrBuilderClosed
	}
	b.closed = true

	if b.workers > 1 {
		if err := b.drainParallelWorkers(); err != nil {
			return errors.Join(err, b.cleanup())
		}
	}

	// Validate word count matches declared total
	if b.wordsAdded != b.cfg.totalWords {
		primaryErr := fmt.Errorf("%w: expected %d, got %d",
			taberrors.ErrWordCountMismatch, b.cfg.totalWords, b.wordsAdded)
		return errors.Join(primaryErr, b.cleanup())
	}

	return b.tw.finalize()
}

// Close aborts the build and removes the partial output file.
// Call this if an error occurs during AddWord calls. Safe to call after
// Finish(), in which case it ensures worker goroutines are shut down even
// if Finish() returned an error.
func (b *Builder) Close() error {
	if b.closed {
		// Finish() was called but may have failed with workers still
		// running; shut them down if they haven't been already.
		b.shutdownWorkers()
		return nil
	}
	b.closed = true
	return b.cleanup()
}

// cleanup shuts down any running worker goroutines and removes the output
// file. Workers must be stopped before unmapping tw.data, which they may
// still be writing through.
func (b *Builder) cleanup() error {
	b.shutdownWorkers()
	return errors.Join(b.tw.close(), os.Remove(b.output))
}
