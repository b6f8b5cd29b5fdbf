package hashtab

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/edsrzf/mmap-go"

	taberrors "github.com/dictsearch/hashtab/errors"
)

// Table is a read-only view of a generated lookup table.
//
// It decodes records; it does not search them. Interpreting the keys
// requires knowing which algorithm generated the table; the format
// carries no header, so that is the consumer's responsibility.
//
// Thread safety:
//   - Record and NumRecords are safe for concurrent use
//   - Close is NOT safe to call concurrently with reads
type Table struct {
	mmap mmap.MMap
	data []byte

	numRecords uint64

	closed atomic.Bool
}

// OpenTable opens a table file for reading.
// It memory-maps the file and closes the descriptor. A file whose length
// is not an exact multiple of RecordSize is truncated or corrupt and is
// rejected with ErrTruncatedTable.
func OpenTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat table file: %w", err)
	}
	size := stat.Size()
	if size%RecordSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", taberrors.ErrTruncatedTable, size)
	}

	t := &Table{numRecords: uint64(size) / RecordSize}
	if size == 0 {
		// Zero-length mappings are invalid; an empty table needs no data.
		return t, nil
	}

	// Tables are typically scanned front to back once opened.
	fadviseSequential(int(f.Fd()), 0, size)

	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap table file: %w", err)
	}
	t.mmap = mm
	t.data = []byte(mm)
	return t, nil
}

// OpenTableBytes creates a table view over an in-memory byte slice.
// No file is opened or memory-mapped; Close is a no-op. The caller must
// not modify data while the Table is in use.
func OpenTableBytes(data []byte) (*Table, error) {
	if len(data)%RecordSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", taberrors.ErrTruncatedTable, len(data))
	}
	return &Table{
		data:       data,
		numRecords: uint64(len(data)) / RecordSize,
	}, nil
}

// NumRecords returns the number of records in the table.
func (t *Table) NumRecords() uint64 {
	return t.numRecords
}

// Record returns record i's key and wordlist offset.
// Panics if i is out of range or the table is closed.
func (t *Table) Record(i uint64) (key [KeySize]byte, offset uint64) {
	if t.closed.Load() {
		panic(taberrors.ErrTableClosed.Error())
	}
	if i >= t.numRecords {
		panic(fmt.Sprintf("hashtab: record index %d out of range (%d records)", i, t.numRecords))
	}
	rec := t.data[i*RecordSize : i*RecordSize+RecordSize]
	copy(key[:], rec[:KeySize])
	return key, DecodeOffset(rec[KeySize:])
}

// Close unmaps the table. After Close returns, no methods may be called.
// Idempotent: safe to call multiple times.
func (t *Table) Close() error {
	if t.closed.Swap(true) {
		return nil
	}
	t.data = nil
	if t.mmap != nil {
		err := t.mmap.Unmap()
		t.mmap = nil
		return err
	}
	return nil
}
