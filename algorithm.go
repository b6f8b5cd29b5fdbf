package hashtab

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/jzelinskie/whirlpool"
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/md4"
	"golang.org/x/crypto/ripemd160"
	"golang.org/x/crypto/sha3"

	taberrors "github.com/dictsearch/hashtab/errors"
	"github.com/dictsearch/hashtab/internal/legacy"
)

// Input truncation limits applied before the primitive runs. These are
// byte-count slices, not validity checks: longer candidates are silently
// truncated, never rejected.
const (
	lmInputLimit     = 15  // one byte of slack over LM's own 14-byte cap
	ntInputLimit     = 127 // NTLM's documented password length limit
	saltedInputLimit = 64  // shared cap across the remaining salted schemes
)

// Algorithm describes one digest variant: a raw primitive plus the
// per-variant policy (input truncation, scheme-marker stripping, fixed
// username salt) that the generic Digest adapter applies around it.
// Descriptors are immutable once a Registry is constructed.
type Algorithm struct {
	// Key is the short identifier used to select the algorithm, e.g. "md5"
	// or "oracle10g-sys". Unique within a Registry.
	Key string

	// Name is the human-readable algorithm name.
	Name string

	// HexLength is the digest length in hex characters after any
	// post-processing. Informational: twice the raw digest width.
	HexLength int

	truncate  int  // max input bytes fed to the primitive; 0 means unlimited
	strip     int  // leading bytes removed from the primitive's output
	hexOutput bool // primitive emits the scheme's canonical hex text, not raw bytes
	digest    func([]byte) []byte
}

// Digest computes the algorithm's raw digest of data.
//
// The adapter steps are uniform across all variants: slice the input to the
// truncation limit if one is defined, invoke the primitive (any fixed
// username salt is baked into the variant), strip the scheme marker from
// the primitive's output, and hex-decode textual output into raw bytes.
func (a *Algorithm) Digest(data []byte) []byte {
	if a.truncate > 0 && len(data) > a.truncate {
		data = data[:a.truncate]
	}
	out := a.digest(data)
	if a.strip > 0 {
		out = out[a.strip:]
	}
	if !a.hexOutput {
		return out
	}
	raw := make([]byte, hex.DecodedLen(len(out)))
	if _, err := hex.Decode(raw, out); err != nil {
		// Primitives emit well-formed hex; anything else is a bug there.
		panic("hashtab: primitive emitted malformed hex output: " + err.Error())
	}
	return raw
}

// DigestValue computes the digest of a dynamically typed candidate.
// Strings are converted to their UTF-8 bytes; []byte is used as-is.
// Any other type fails with ErrInvalidInput.
func (a *Algorithm) DigestValue(v any) ([]byte, error) {
	switch data := v.(type) {
	case []byte:
		return a.Digest(data), nil
	case string:
		return a.Digest([]byte(data)), nil
	default:
		return nil, fmt.Errorf("%w: %T", taberrors.ErrInvalidInput, v)
	}
}

// Capabilities selects which optional algorithm families a Registry
// includes. An absent capability removes its family from the registry
// entirely; it does not turn lookups of other keys into errors.
//
// Capability flags are explicit constructor inputs: two runs with the same
// flags always produce the same available-key set, and toggling a flag
// changes only registry membership, never the encoding of other algorithms.
type Capabilities struct {
	// SaltedHashes enables the legacy password-hash family: lm, ntlm,
	// mysql323, mysql41, oracle10g-*, postgres_md5-*, msdcc-*, msdcc2-*.
	SaltedHashes bool

	// RIPEMD160 enables the ripemd160 digest.
	RIPEMD160 bool

	// Whirlpool enables the whirlpool digest.
	Whirlpool bool
}

// AllCapabilities returns the capability set with every optional family
// this build links enabled.
func AllCapabilities() Capabilities {
	return Capabilities{SaltedHashes: true, RIPEMD160: true, Whirlpool: true}
}

// Registry maps algorithm keys to descriptors. It is populated once by
// NewRegistry and read-only thereafter, so it is safe for concurrent use
// without locking.
type Registry struct {
	algorithms map[string]*Algorithm
}

// Lookup returns the descriptor for key, or an error wrapping
// ErrUnknownAlgorithm if the key is absent (including keys whose backing
// capability was not enabled).
func (r *Registry) Lookup(key string) (*Algorithm, error) {
	a, ok := r.algorithms[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", taberrors.ErrUnknownAlgorithm, key)
	}
	return a, nil
}

// Keys returns the sorted set of algorithm keys usable with this registry.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.algorithms))
	for k := range r.algorithms {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (r *Registry) add(a *Algorithm) {
	if _, ok := r.algorithms[a.Key]; ok {
		panic("hashtab: duplicate algorithm key in catalog: " + a.Key)
	}
	r.algorithms[a.Key] = a
}

// hashFn adapts a hash.Hash constructor into a one-shot digest function.
func hashFn(newHash func() hash.Hash) func([]byte) []byte {
	return func(data []byte) []byte {
		h := newHash()
		h.Write(data)
		return h.Sum(nil)
	}
}

// hexFn adapts a legacy primitive returning canonical hex text.
func hexFn(f func([]byte) string) func([]byte) []byte {
	return func(data []byte) []byte { return []byte(f(data)) }
}

// userHexFn adapts a username-salted legacy primitive, baking the fixed
// username into the variant.
func userHexFn(f func([]byte, string) string, user string) func([]byte) []byte {
	return func(data []byte) []byte { return []byte(f(data, user)) }
}

// NewRegistry builds the algorithm catalog for the given capability set.
//
// The hashlib-style digests, the SHA-3 family, and the non-cryptographic
// fast hashes are always present; the remaining families are included only
// when their capability flag is set.
func NewRegistry(caps Capabilities) *Registry {
	r := &Registry{algorithms: make(map[string]*Algorithm)}

	r.add(&Algorithm{Key: "md4", Name: "Message Digest 4", HexLength: 32, digest: hashFn(md4.New)})
	r.add(&Algorithm{Key: "md5", Name: "Message Digest 5", HexLength: 32, digest: hashFn(func() hash.Hash { return md5.New() })})
	r.add(&Algorithm{Key: "sha1", Name: "Secure Hashing Algorithm 1", HexLength: 40, digest: hashFn(func() hash.Hash { return sha1.New() })})
	r.add(&Algorithm{Key: "sha2-224", Name: "Secure Hashing Algorithm 2 (224 bit)", HexLength: 56, digest: hashFn(sha256.New224)})
	r.add(&Algorithm{Key: "sha2-256", Name: "Secure Hashing Algorithm 2 (256 bit)", HexLength: 64, digest: hashFn(sha256.New)})
	r.add(&Algorithm{Key: "sha2-384", Name: "Secure Hashing Algorithm 2 (384 bit)", HexLength: 96, digest: hashFn(sha512.New384)})
	r.add(&Algorithm{Key: "sha2-512", Name: "Secure Hashing Algorithm 2 (512 bit)", HexLength: 128, digest: hashFn(sha512.New)})
	r.add(&Algorithm{Key: "sha3-224", Name: "Secure Hashing Algorithm 3 (224 bit)", HexLength: 56, digest: hashFn(sha3.New224)})
	r.add(&Algorithm{Key: "sha3-256", Name: "Secure Hashing Algorithm 3 (256 bit)", HexLength: 64, digest: hashFn(sha3.New256)})
	r.add(&Algorithm{Key: "sha3-384", Name: "Secure Hashing Algorithm 3 (384 bit)", HexLength: 96, digest: hashFn(sha3.New384)})
	r.add(&Algorithm{Key: "sha3-512", Name: "Secure Hashing Algorithm 3 (512 bit)", HexLength: 128, digest: hashFn(sha3.New512)})

	// Fast non-cryptographic hashes, useful when the table indexes a
	// wordlist for dedup or joins rather than credential lookup.
	r.add(&Algorithm{Key: "xxh64", Name: "xxHash 64", HexLength: 16, digest: hashFn(func() hash.Hash { return xxhash.New() })})
	r.add(&Algorithm{Key: "xxh3-128", Name: "xxHash3 128", HexLength: 32, digest: xxh3Digest})
	r.add(&Algorithm{Key: "murmur3-128", Name: "MurmurHash3 x64 128", HexLength: 32, digest: hashFn(func() hash.Hash { return murmur3.New128() })})

	if caps.RIPEMD160 {
		r.add(&Algorithm{Key: "ripemd160", Name: "RACE Integrity Primitives Evaluation Message Digest (160 bit)", HexLength: 40, digest: hashFn(ripemd160.New)})
	}

	if caps.Whirlpool {
		r.add(&Algorithm{Key: "whirlpool", Name: "Whirlpool", HexLength: 128, digest: hashFn(whirlpool.New)})
	}

	if caps.SaltedHashes {
		r.add(&Algorithm{Key: "lm", Name: "LM", HexLength: 32,
			truncate: lmInputLimit, hexOutput: true, digest: hexFn(legacy.LM)})
		r.add(&Algorithm{Key: "ntlm", Name: "NTLM", HexLength: 32,
			truncate: ntInputLimit, hexOutput: true, digest: hexFn(legacy.NT)})
		r.add(&Algorithm{Key: "mysql323", Name: "MySQL v3.2.3", HexLength: 16,
			truncate: saltedInputLimit, hexOutput: true, digest: hexFn(legacy.MySQL323)})
		// MySQL 4.1 prefixes its hex with a "*" scheme marker; strip it.
		r.add(&Algorithm{Key: "mysql41", Name: "MySQL v4.1", HexLength: 40,
			truncate: saltedInputLimit, strip: 1, hexOutput: true, digest: hexFn(legacy.MySQL41)})
		r.add(&Algorithm{Key: "oracle10g-sys", Name: "Oracle 10g (SYS)", HexLength: 16,
			truncate: saltedInputLimit, hexOutput: true, digest: userHexFn(legacy.Oracle10, "SYS")})
		r.add(&Algorithm{Key: "oracle10g-system", Name: "Oracle 10g (SYSTEM)", HexLength: 16,
			truncate: saltedInputLimit, hexOutput: true, digest: userHexFn(legacy.Oracle10, "SYSTEM")})
		// PostgreSQL prefixes its hex with an "md5" scheme marker; strip it.
		r.add(&Algorithm{Key: "postgres_md5-root", Name: "Postgres MD5 (root)", HexLength: 32,
			truncate: saltedInputLimit, strip: 3, hexOutput: true, digest: userHexFn(legacy.PostgresMD5, "root")})
		r.add(&Algorithm{Key: "postgres_md5-postgres", Name: "Postgres MD5 (postgres)", HexLength: 32,
			truncate: saltedInputLimit, strip: 3, hexOutput: true, digest: userHexFn(legacy.PostgresMD5, "postgres")})
		r.add(&Algorithm{Key: "postgres_md5-admin", Name: "Postgres MD5 (admin)", HexLength: 32,
			truncate: saltedInputLimit, strip: 3, hexOutput: true, digest: userHexFn(legacy.PostgresMD5, "admin")})
		r.add(&Algorithm{Key: "msdcc-administrator", Name: "MS Domain Cached Credentials", HexLength: 32,
			truncate: saltedInputLimit, hexOutput: true, digest: userHexFn(legacy.MSDCC, "administrator")})
		r.add(&Algorithm{Key: "msdcc2-administrator", Name: "MS Domain Cached Credentials v2", HexLength: 32,
			truncate: saltedInputLimit, hexOutput: true, digest: userHexFn(legacy.MSDCC2, "administrator")})
	}

	return r
}

// xxh3Digest serializes the 128-bit xxHash3 value as Lo then Hi in
// little-endian order.
func xxh3Digest(data []byte) []byte {
	h := xxh3.Hash128(data)
	out := make([]byte, 16)
	binary.LittleEndian.PutUint64(out[0:8], h.Lo)
	binary.LittleEndian.PutUint64(out[8:16], h.Hi)
	return out
}
