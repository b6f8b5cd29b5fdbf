package hashtab

import (
	"bytes"
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"slices"
	"sort"
	"testing"

	taberrors "github.com/dictsearch/hashtab/errors"
)

// ---------------------------------------------------------------------------
// Known-answer vectors
// ---------------------------------------------------------------------------

var digestVectors = []struct {
	key   string
	input string
	hex   string
}{
	{"md4", "password", "8a9d093f14f8701df17732b2bb182c74"},
	{"md5", "password", "5f4dcc3b5aa765d61d8327deb882cf99"},
	{"sha1", "password", "5baa61e4c9b93f3f0682250b6cf8331b7ee68fd8"},
	{"sha2-224", "", "d14a028c2a3a2bc9476102bb288234c415a2b01f828ea62ac5b3e42f"},
	{"sha2-256", "password", "5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8"},
	{"sha2-384", "", "38b060a751ac96384cd9327eb1b1e36a21fdb71114be07434c0cc7bf63f6e1da274edebfe76f65fbd51ad2f14898b95b"},
	{"sha2-512", "", "cf83e1357eefb8bdf1542850d66d8007d620e4050b5715dc83f4a921d36ce9ce47d0d13c5d85f2b0ff8318d2877eec2f63b931bd47417a81a538327af927da3e"},
	{"sha3-224", "", "6b4e03423667dbb73b6e15454f0eb1abd4597f9a1b078e3f5b5a6bc7"},
	{"sha3-256", "", "a7ffc6f8bf1ed76651c14756a061d662f580ff4de43b49fa82d80a4b80f8434a"},
	{"sha3-384", "", "0c63a75b845e4f7d01107d852e4c2485c51a50aaaa94fc61995e71bbee983a2ac3713831264adb47fb6bd1e058d5f004"},
	{"sha3-512", "", "a69f73cca23a9ac5c8b567dc185a756e97c982164fe25859e0d1dcc1475c80a615b2123af1f5f94c11e3e9402c3ac558f500199d95b6d3e301758586281dcd26"},
	{"ripemd160", "", "9c1185a5c5e9fc54612808977ee8f548b2258d31"},
	{"whirlpool", "", "19fa61d75522a4669b44e39c1d2e1726c530232130d407f89afee0964997f7a73e83be698b288febcf88e3e03c4f0757ea8964e59b63d93708b138cc42a66eb3"},
	{"lm", "password", "e52cac67419a9a224a3b108f3fa6cb6d"},
	{"ntlm", "password", "8846f7eaee8fb117ad06bdd830b7586c"},
	{"mysql323", "password", "5d2e19393cc5ef67"},
	{"mysql41", "password", "2470c0c06dee42fd1618bb99005adca2ec9d1e19"},
}

func TestDigestVectors(t *testing.T) {
	registry := NewRegistry(AllCapabilities())
	for _, v := range digestVectors {
		algo, err := registry.Lookup(v.key)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", v.key, err)
		}
		got := hex.EncodeToString(algo.Digest([]byte(v.input)))
		if got != v.hex {
			t.Errorf("%s(%q): expected %s, got %s", v.key, v.input, v.hex, got)
		}
	}
}

func TestDigestWidthsMatchCatalog(t *testing.T) {
	registry := NewRegistry(AllCapabilities())
	for _, key := range registry.Keys() {
		algo, err := registry.Lookup(key)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", key, err)
		}
		digest := algo.Digest([]byte("abc"))
		if len(digest)*2 != algo.HexLength {
			t.Errorf("%s: digest is %d bytes, catalog says %d hex chars",
				key, len(digest), algo.HexLength)
		}
	}
}

// ---------------------------------------------------------------------------
// Adapter policy: truncation, salting, scheme-marker stripping
// ---------------------------------------------------------------------------

func TestNTLMInputTruncation(t *testing.T) {
	registry := NewRegistry(AllCapabilities())
	algo, err := registry.Lookup("ntlm")
	if err != nil {
		t.Fatal(err)
	}

	long := bytes.Repeat([]byte{'x'}, 200)
	prefix := long[:127]
	if !bytes.Equal(algo.Digest(long), algo.Digest(prefix)) {
		t.Error("200-byte candidate should digest identically to its 127-byte prefix")
	}
	// One byte under the limit must still be distinguishable.
	if bytes.Equal(algo.Digest(long[:126]), algo.Digest(prefix)) {
		t.Error("126- and 127-byte candidates should digest differently")
	}
}

func TestLMInputTruncation(t *testing.T) {
	registry := NewRegistry(AllCapabilities())
	algo, err := registry.Lookup("lm")
	if err != nil {
		t.Fatal(err)
	}
	long := bytes.Repeat([]byte{'a'}, 40)
	if !bytes.Equal(algo.Digest(long), algo.Digest(long[:15])) {
		t.Error("40-byte candidate should digest identically to its 15-byte prefix")
	}
}

func TestSaltedVariantsDiffer(t *testing.T) {
	registry := NewRegistry(AllCapabilities())
	word := []byte("hunter2")

	pairs := [][2]string{
		{"oracle10g-sys", "oracle10g-system"},
		{"postgres_md5-root", "postgres_md5-postgres"},
		{"postgres_md5-postgres", "postgres_md5-admin"},
		{"msdcc-administrator", "msdcc2-administrator"},
	}
	for _, p := range pairs {
		a, err := registry.Lookup(p[0])
		if err != nil {
			t.Fatal(err)
		}
		b, err := registry.Lookup(p[1])
		if err != nil {
			t.Fatal(err)
		}
		if bytes.Equal(a.Digest(word), b.Digest(word)) {
			t.Errorf("%s and %s digest %q identically", p[0], p[1], word)
		}
	}
}

func TestPostgresMarkerStripped(t *testing.T) {
	registry := NewRegistry(AllCapabilities())
	algo, err := registry.Lookup("postgres_md5-admin")
	if err != nil {
		t.Fatal(err)
	}
	// The stored form is "md5" + hex(md5(secret||user)); the adapter must
	// strip the marker and hand back the raw 16 digest bytes.
	want := md5.Sum([]byte("passwordadmin"))
	if got := algo.Digest([]byte("password")); !bytes.Equal(got, want[:]) {
		t.Errorf("Expected %x, got %x", want, got)
	}
}

func TestMySQL41MarkerStripped(t *testing.T) {
	registry := NewRegistry(AllCapabilities())
	algo, err := registry.Lookup("mysql41")
	if err != nil {
		t.Fatal(err)
	}
	first := sha1.Sum([]byte("password"))
	want := sha1.Sum(first[:])
	if got := algo.Digest([]byte("password")); !bytes.Equal(got, want[:]) {
		t.Errorf("Expected %x, got %x", want, got)
	}
}

func TestDigestValue(t *testing.T) {
	registry := NewRegistry(AllCapabilities())
	algo, err := registry.Lookup("sha1")
	if err != nil {
		t.Fatal(err)
	}

	fromString, err := algo.DigestValue("password")
	if err != nil {
		t.Fatal(err)
	}
	fromBytes, err := algo.DigestValue([]byte("password"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(fromString, fromBytes) {
		t.Error("String and []byte candidates should digest identically")
	}

	if _, err := algo.DigestValue(42); !errors.Is(err, taberrors.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for int candidate, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Registry population
// ---------------------------------------------------------------------------

func TestLookupUnknownAlgorithm(t *testing.T) {
	registry := NewRegistry(AllCapabilities())
	_, err := registry.Lookup("does-not-exist")
	if !errors.Is(err, taberrors.ErrUnknownAlgorithm) {
		t.Errorf("Expected ErrUnknownAlgorithm, got %v", err)
	}
}

func TestCapabilityGating(t *testing.T) {
	bare := NewRegistry(Capabilities{})
	full := NewRegistry(AllCapabilities())

	unconditional := []string{
		"md4", "md5", "sha1",
		"sha2-224", "sha2-256", "sha2-384", "sha2-512",
		"sha3-224", "sha3-256", "sha3-384", "sha3-512",
		"xxh64", "xxh3-128", "murmur3-128",
	}
	for _, key := range unconditional {
		if !slices.Contains(bare.Keys(), key) {
			t.Errorf("Key %q missing from registry with no capabilities", key)
		}
	}

	optional := []string{
		"ripemd160", "whirlpool",
		"lm", "ntlm", "mysql323", "mysql41",
		"oracle10g-sys", "oracle10g-system",
		"postgres_md5-root", "postgres_md5-postgres", "postgres_md5-admin",
		"msdcc-administrator", "msdcc2-administrator",
	}
	for _, key := range optional {
		if slices.Contains(bare.Keys(), key) {
			t.Errorf("Key %q present despite missing capability", key)
		}
		if _, err := bare.Lookup(key); !errors.Is(err, taberrors.ErrUnknownAlgorithm) {
			t.Errorf("Lookup(%q) without capability: expected ErrUnknownAlgorithm, got %v", key, err)
		}
		if !slices.Contains(full.Keys(), key) {
			t.Errorf("Key %q missing from fully-capable registry", key)
		}
	}

	// Toggling capabilities must not change the encoding of algorithms
	// that are available either way.
	for _, key := range unconditional {
		a, err := bare.Lookup(key)
		if err != nil {
			t.Fatal(err)
		}
		b, err := full.Lookup(key)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(a.Digest([]byte("password")), b.Digest([]byte("password"))) {
			t.Errorf("%s digests differ between capability sets", key)
		}
	}
}

func TestRegistryKeysSorted(t *testing.T) {
	keys := NewRegistry(AllCapabilities()).Keys()
	if !sort.StringsAreSorted(keys) {
		t.Errorf("Keys not sorted: %v", keys)
	}
}

func TestEightByteDigestNeedsNoPadding(t *testing.T) {
	registry := NewRegistry(AllCapabilities())
	algo, err := registry.Lookup("mysql323")
	if err != nil {
		t.Fatal(err)
	}
	digest := algo.Digest([]byte("password"))
	if len(digest) != KeySize {
		t.Fatalf("Expected %d-byte digest, got %d", KeySize, len(digest))
	}
	key := EncodeKey(digest)
	if !bytes.Equal(key[:], digest) {
		t.Errorf("Key should equal the full digest: %x vs %x", key, digest)
	}
}
