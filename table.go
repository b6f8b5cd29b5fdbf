package hashtab

import (
	"context"
	"fmt"
	"io"

	taberrors "github.com/dictsearch/hashtab/errors"
)

// contextCheckInterval is how often to check for context cancellation
// while generating records.
const contextCheckInterval = 10000

// WriteTable generates a lookup table by digesting every word from src
// under algo and appending one RecordSize-byte record per word to w, in
// the order src produces them.
//
// Only complete records reach w: per-record bytes are assembled before the
// single Write call, so an aborted build never leaves a partial record in
// the output. Any digest or encoding failure aborts the build, annotated
// with the algorithm key and the failing entry's offset; nothing is
// skipped silently. The caller owns w and its flush/close semantics.
//
// Returns the number of records written, which on success equals the
// number of words src yielded (output length is exactly RecordSize times
// that count).
func WriteTable(ctx context.Context, w io.Writer, src WordSource, algo *Algorithm) (uint64, error) {
	var (
		records    uint64
		lastOffset uint64
		counter    int
		rec        [RecordSize]byte
	)
	for {
		word, offset, err := src.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, fmt.Errorf("%s: read wordlist: %w", algo.Key, err)
		}
		if records > 0 && offset <= lastOffset {
			return records, fmt.Errorf("%s: offset %d follows %d: %w",
				algo.Key, offset, lastOffset, taberrors.ErrUnsortedOffsets)
		}
		lastOffset = offset

		counter++
		if counter >= contextCheckInterval {
			counter = 0
			select {
			case <-ctx.Done():
				return records, ctx.Err()
			default:
			}
		}

		if err := packRecord(rec[:], algo.Digest(word), offset); err != nil {
			return records, fmt.Errorf("%s: word at offset %d: %w", algo.Key, offset, err)
		}
		if _, err := w.Write(rec[:]); err != nil {
			return records, fmt.Errorf("%s: write record %d: %w", algo.Key, records, err)
		}
		records++
	}
}
