package hashtab

import (
	"errors"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

// tableWriter writes table records to disk using mmap-based zero-copy
// writes. The artifact has no header or footer, so the file is
// pre-allocated at its exact final size (RecordSize * totalWords) and
// record i is written at byte RecordSize*i. Fixed record positions make
// writes to disjoint record ranges safe from concurrent goroutines.
type tableWriter struct {
	file *os.File
	mmap mmap.MMap
	data []byte // View into mmap for direct writes
	size uint64 // Exact artifact size in bytes
}

// newTableWriter creates the output file, pre-allocates it, and maps it
// for writing.
func newTableWriter(path string, totalWords uint64) (*tableWriter, error) {
	size := totalWords * RecordSize

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create table file: %w", err)
	}

	// Pre-allocate disk blocks to prevent SIGBUS on disk full.
	if err := fallocateFile(file, int64(size)); err != nil {
		primaryErr := fmt.Errorf("failed to allocate disk space: %w", err)
		return nil, errors.Join(primaryErr, file.Close())
	}

	mm, err := mmap.MapRegion(file, int(size), mmap.RDWR, 0, 0)
	if err != nil {
		primaryErr := fmt.Errorf("failed to mmap table file: %w", err)
		return nil, errors.Join(primaryErr, file.Close())
	}

	tw := &tableWriter{
		file: file,
		mmap: mm,
		data: []byte(mm),
		size: size,
	}

	// Prefault the record region for better parallel write performance.
	// On Linux 5.14+, uses MADV_POPULATE_WRITE. No-op on other platforms.
	prefaultRegion(tw.data)

	return tw, nil
}

// region returns the mmap bytes backing records [first, first+n).
// Panics if the range exceeds the table size.
func (tw *tableWriter) region(first, n uint64) []byte {
	start := first * RecordSize
	end := start + n*RecordSize
	if end > tw.size {
		panic("tableWriter: requested region exceeds table size")
	}
	return tw.data[start:end]
}

// finalize flushes dirty pages, unmaps, pins the file length, and closes.
// On error, delegates to close() for idempotent cleanup. On success, nils
// mmap/file so that close() is a safe no-op.
func (tw *tableWriter) finalize() error {
	if err := tw.mmap.Flush(); err != nil {
		primaryErr := fmt.Errorf("mmap flush failed: %w", err)
		return errors.Join(primaryErr, tw.close())
	}

	// Unmap before truncate (required order).
	// Nil mmap regardless of outcome to prevent close() from retrying.
	unmapErr := tw.mmap.Unmap()
	tw.mmap = nil
	tw.data = nil
	if unmapErr != nil {
		primaryErr := fmt.Errorf("mmap unmap failed: %w", unmapErr)
		return errors.Join(primaryErr, tw.close())
	}

	// fallocate reserves blocks but does not set the length on every
	// filesystem; the file length is the format's only record count.
	if err := tw.file.Truncate(int64(tw.size)); err != nil {
		primaryErr := fmt.Errorf("truncate failed: %w", err)
		return errors.Join(primaryErr, tw.close())
	}

	closeErr := tw.file.Close()
	tw.file = nil
	return closeErr
}

// close closes the writer without finalizing (for error cleanup).
// Idempotent: safe to call multiple times.
func (tw *tableWriter) close() error {
	var unmapErr error
	if tw.mmap != nil {
		unmapErr = tw.mmap.Unmap()
		tw.mmap = nil
		tw.data = nil
	}
	var closeErr error
	if tw.file != nil {
		closeErr = tw.file.Close()
		tw.file = nil
	}
	return errors.Join(unmapErr, closeErr)
}
