package hashtab

import (
	"encoding/binary"
	"fmt"

	taberrors "github.com/dictsearch/hashtab/errors"
)

// Table record geometry. Every record is KeySize bytes of digest prefix
// followed by OffsetSize bytes of little-endian wordlist offset, with no
// separators or per-record metadata: byte 14*i of the artifact is always
// the start of record i.
const (
	// KeySize is the width of the stored digest prefix in bytes.
	KeySize = 8

	// OffsetSize is the width of the stored wordlist offset in bytes.
	OffsetSize = 6

	// RecordSize is the total width of one table record in bytes.
	RecordSize = KeySize + OffsetSize

	// MaxOffset is the exclusive upper bound on encodable wordlist offsets.
	// 48 bits of offset bound the addressable wordlist at 256 TiB.
	MaxOffset = uint64(1) << (OffsetSize * 8)
)

// EncodeKey reduces a raw digest to the fixed-width table key: the first
// KeySize bytes of the digest, right-padded with zeros when the digest is
// shorter. The key is intentionally lossy; collisions are resolved by the
// lookup side re-hashing the full candidate.
func EncodeKey(digest []byte) [KeySize]byte {
	var key [KeySize]byte
	copy(key[:], digest) // copy stops at KeySize; shorter digests leave zero padding
	return key
}

// EncodeOffset encodes a wordlist byte offset as OffsetSize little-endian
// bytes. Fails with ErrOffsetOverflow for offsets outside [0, MaxOffset).
func EncodeOffset(offset uint64) ([OffsetSize]byte, error) {
	var out [OffsetSize]byte
	if offset >= MaxOffset {
		return out, fmt.Errorf("%w: offset %d", taberrors.ErrOffsetOverflow, offset)
	}
	putUint48(out[:], offset)
	return out, nil
}

// DecodeOffset decodes an OffsetSize-byte little-endian wordlist offset.
// Precondition: len(src) >= OffsetSize.
func DecodeOffset(src []byte) uint64 {
	return uint64(binary.LittleEndian.Uint32(src)) |
		uint64(binary.LittleEndian.Uint16(src[4:]))<<32
}

// putUint48 writes the low 48 bits of v to dst in little-endian order.
// Precondition: len(dst) >= OffsetSize and v < MaxOffset.
func putUint48(dst []byte, v uint64) {
	binary.LittleEndian.PutUint32(dst, uint32(v))
	binary.LittleEndian.PutUint16(dst[4:], uint16(v>>32))
}

// packRecord writes one record into dst. A record is atomic: callers hand
// the full RecordSize bytes to the sink or nothing.
// Precondition: len(dst) >= RecordSize.
func packRecord(dst []byte, digest []byte, offset uint64) error {
	if offset >= MaxOffset {
		return fmt.Errorf("%w: offset %d", taberrors.ErrOffsetOverflow, offset)
	}
	key := EncodeKey(digest)
	copy(dst[:KeySize], key[:])
	putUint48(dst[KeySize:RecordSize], offset)
	return nil
}
