// Package errors defines all exported error sentinels for the hashtab library.
//
// This is the single source of truth for error values. Both the top-level
// hashtab package and internal packages import from here, ensuring errors.Is
// checks work across package boundaries.
package errors

import "errors"

// Algorithm errors
var (
	ErrUnknownAlgorithm = errors.New("hashtab: unknown algorithm key")
	ErrInvalidInput     = errors.New("hashtab: input is neither text nor raw bytes")
)

// Encoding errors
var (
	ErrOffsetOverflow = errors.New("hashtab: wordlist offset exceeds 48-bit range")
)

// Build errors
var (
	ErrBuilderClosed     = errors.New("hashtab: builder is closed")
	ErrEmptyTable        = errors.New("hashtab: cannot build table with zero words")
	ErrWordCountMismatch = errors.New("hashtab: word count mismatch")
	ErrUnsortedOffsets   = errors.New("hashtab: wordlist offsets are not strictly increasing")
)

// Table errors
var (
	ErrTruncatedTable = errors.New("hashtab: table length is not a multiple of the record size")
	ErrTableClosed    = errors.New("hashtab: table is closed")
)
