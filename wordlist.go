package hashtab

import (
	"bufio"
	"io"
)

// wordScannerBufferSize is the read buffer for wordlist scanning.
const wordScannerBufferSize = 1 << 16

// WordSource yields wordlist candidates paired with the byte offset of the
// candidate's first character, in strictly increasing offset order. Next
// returns io.EOF after the last word. A source is forward-only and is
// consumed exactly once; it is not restartable.
//
// The library does not own the underlying resource: callers open and close
// the wordlist themselves.
type WordSource interface {
	Next() (word []byte, offset uint64, err error)
}

// WordScanner reads a newline-delimited wordlist, yielding each line
// without its terminator and the byte offset where the line starts.
// A trailing CR is stripped from the word but still counted toward the
// next offset, so offsets remain exact for CRLF wordlists. Empty lines
// are yielded as empty candidates rather than skipped: every line must
// produce a record so offsets stay dense for the lookup side.
type WordScanner struct {
	r      *bufio.Reader
	offset uint64
	done   bool
}

// NewWordScanner returns a WordScanner reading from r.
func NewWordScanner(r io.Reader) *WordScanner {
	return &WordScanner{r: bufio.NewReaderSize(r, wordScannerBufferSize)}
}

// Next implements WordSource.
func (s *WordScanner) Next() ([]byte, uint64, error) {
	if s.done {
		return nil, 0, io.EOF
	}
	line, err := s.r.ReadBytes('\n')
	if err == io.EOF {
		s.done = true
		if len(line) == 0 {
			return nil, 0, io.EOF
		}
		// Final line without a newline terminator.
	} else if err != nil {
		return nil, 0, err
	}
	start := s.offset
	s.offset += uint64(len(line))
	return trimEOL(line), start, nil
}

// trimEOL strips a trailing LF and a CR preceding it.
func trimEOL(line []byte) []byte {
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
	}
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	return line
}

// CountWords consumes src and returns the number of words it yields.
// Used to pre-size file-backed builds, which need the exact word count
// before the first record is written.
func CountWords(src WordSource) (uint64, error) {
	var n uint64
	for {
		_, _, err := src.Next()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return 0, err
		}
		n++
	}
}
