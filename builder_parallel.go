package hashtab

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// workChanBufferMultiplier is the multiplier for work channel buffer size.
const workChanBufferMultiplier = 2

// wordEntry holds one word and its offset, copied out of the caller's
// buffer so it stays valid until a worker digests it.
type wordEntry struct {
	word   []byte
	offset uint64
}

// recordBatch is a run of consecutive words handed to one worker.
// firstRecord fixes where the batch's records land: record i of the batch
// is written at byte (firstRecord+i)*RecordSize. Batches therefore
// occupy disjoint regions of the output and workers never contend,
// whatever order they finish in. The artifact stays offset-ordered
// because positions, not completion order, determine placement.
type recordBatch struct {
	firstRecord uint64
	entries     []wordEntry
}

// initParallelWorkers initializes the channel, entry pool, and worker
// goroutines for parallel building.
func (b *Builder) initParallelWorkers() {
	b.workChan = make(chan recordBatch, b.workers*workChanBufferMultiplier)

	batchSize := b.cfg.batchSize
	b.entryPool.New = func() any {
		return make([]wordEntry, 0, batchSize)
	}
	b.pending = recordBatch{entries: b.getEntrySlice()}

	// Wrap in explicit cancel so shutdownWorkers can unblock workers.
	ctx, cancel := context.WithCancel(b.ctx)
	b.workerCancel = cancel
	b.workerGroup, b.workerCtx = errgroup.WithContext(ctx)
	for i := 0; i < b.workers; i++ {
		b.workerGroup.Go(b.runWorker)
	}
}

// addWordParallel handles AddWord in parallel mode: accumulate into the
// pending batch, dispatch when full.
func (b *Builder) addWordParallel(word []byte, offset uint64) error {
	b.pending.entries = append(b.pending.entries, wordEntry{
		word:   append([]byte(nil), word...), // caller may reuse its buffer
		offset: offset,
	})
	if len(b.pending.entries) >= b.cfg.batchSize {
		return b.dispatchBatch()
	}
	return nil
}

// dispatchBatch sends the pending batch to workers for digesting.
func (b *Builder) dispatchBatch() error {
	work := b.pending
	b.pending = recordBatch{
		firstRecord: work.firstRecord + uint64(len(work.entries)),
		entries:     b.getEntrySlice(),
	}

	select {
	case b.workChan <- work:
		return nil
	case <-b.workerCtx.Done():
		// A worker failed; the real error surfaces from Wait in
		// drainParallelWorkers or cleanup.
		return b.workerCtx.Err()
	}
}

// runWorker digests batches and writes their records directly into the
// batch's pre-reserved mmap region.
func (b *Builder) runWorker() error {
	for work := range b.workChan {
		select {
		case <-b.workerCtx.Done():
			return b.workerCtx.Err()
		default:
		}

		dst := b.tw.region(work.firstRecord, uint64(len(work.entries)))
		for i, e := range work.entries {
			if err := packRecord(dst[i*RecordSize:], b.algo.Digest(e.word), e.offset); err != nil {
				return fmt.Errorf("%s: word at offset %d: %w", b.algo.Key, e.offset, err)
			}
		}

		b.putEntrySlice(work.entries)
	}
	return nil
}

// drainParallelWorkers dispatches the final partial batch, closes the work
// channel, and waits for all workers to finish.
func (b *Builder) drainParallelWorkers() error {
	if len(b.pending.entries) > 0 {
		if err := b.dispatchBatch(); err != nil {
			return err
		}
	}

	close(b.workChan)
	b.workersShutDown = true // Prevents double-close in Close()/shutdownWorkers()

	if err := b.workerGroup.Wait(); err != nil {
		b.workerCancel()
		return fmt.Errorf("worker error: %w", err)
	}
	b.workerCancel()
	return nil
}

// shutdownWorkers cancels and waits out worker goroutines. Safe to call
// multiple times and in single-threaded mode (no-op when no workers ran).
func (b *Builder) shutdownWorkers() {
	if b.workersShutDown || b.workChan == nil {
		return
	}
	b.workersShutDown = true
	b.workerCancel()
	close(b.workChan)
	_ = b.workerGroup.Wait()
}

// getEntrySlice gets a []wordEntry slice from the pool.
func (b *Builder) getEntrySlice() []wordEntry {
	return b.entryPool.Get().([]wordEntry)[:0]
}

// putEntrySlice returns a []wordEntry slice to the pool.
func (b *Builder) putEntrySlice(s []wordEntry) {
	//lint:ignore SA6002 slice value boxing is acceptable; pointer-to-slice adds complexity
	b.entryPool.Put(s[:0]) //nolint:staticcheck
}
