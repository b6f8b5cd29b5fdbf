package legacy

import (
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"testing"

	"golang.org/x/crypto/md4"
	"golang.org/x/crypto/pbkdf2"
)

// utf16leASCII interleaves ASCII bytes with zero bytes, the UTF-16LE
// encoding of ASCII text. Lets composition tests avoid the production
// encoder.
func utf16leASCII(s string) []byte {
	out := make([]byte, 0, 2*len(s))
	for i := 0; i < len(s); i++ {
		out = append(out, s[i], 0)
	}
	return out
}

func md4Sum(data ...[]byte) []byte {
	h := md4.New()
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}

func TestEncodeUTF16ByteOrder(t *testing.T) {
	if got := encodeUTF16(utf16le, []byte("Ab")); string(got) != "A\x00b\x00" {
		t.Errorf("UTF-16LE of %q: expected 41 00 62 00, got % x", "Ab", got)
	}
	if got := encodeUTF16(utf16be, []byte("Ab")); string(got) != "\x00A\x00b" {
		t.Errorf("UTF-16BE of %q: expected 00 41 00 62, got % x", "Ab", got)
	}
}

func TestLMKnownVectors(t *testing.T) {
	vectors := []struct{ secret, want string }{
		{"password", "e52cac67419a9a224a3b108f3fa6cb6d"},
		{"", "aad3b435b51404eeaad3b435b51404ee"},
	}
	for _, v := range vectors {
		if got := LM([]byte(v.secret)); got != v.want {
			t.Errorf("LM(%q): expected %s, got %s", v.secret, v.want, got)
		}
	}
}

func TestLMUppercasesSecret(t *testing.T) {
	if LM([]byte("PASSWORD")) != LM([]byte("password")) {
		t.Error("LM should be case-insensitive")
	}
}

func TestLMTruncatesToFourteenBytes(t *testing.T) {
	if LM([]byte("aaaaaaaaaaaaaa")) != LM([]byte("aaaaaaaaaaaaaaZZZ")) {
		t.Error("LM should ignore bytes past the 14th")
	}
}

func TestNTKnownVectors(t *testing.T) {
	vectors := []struct{ secret, want string }{
		{"password", "8846f7eaee8fb117ad06bdd830b7586c"},
		{"", "31d6cfe0d16ae931b73c59d7e0c089c0"},
	}
	for _, v := range vectors {
		if got := NT([]byte(v.secret)); got != v.want {
			t.Errorf("NT(%q): expected %s, got %s", v.secret, v.want, got)
		}
	}
}

func TestMySQL323KnownVector(t *testing.T) {
	if got := MySQL323([]byte("password")); got != "5d2e19393cc5ef67" {
		t.Errorf("MySQL323(password): expected 5d2e19393cc5ef67, got %s", got)
	}
}

func TestMySQL323SkipsWhitespace(t *testing.T) {
	if MySQL323([]byte("pass word")) != MySQL323([]byte("password")) {
		t.Error("MySQL323 should skip spaces, matching the server's scrambler")
	}
	if MySQL323([]byte("pass\tword")) != MySQL323([]byte("password")) {
		t.Error("MySQL323 should skip tabs, matching the server's scrambler")
	}
}

func TestMySQL41KnownVector(t *testing.T) {
	want := "*2470C0C06DEE42FD1618BB99005ADCA2EC9D1E19"
	if got := MySQL41([]byte("password")); got != want {
		t.Errorf("MySQL41(password): expected %s, got %s", want, got)
	}
}

func TestOracle10ScottTiger(t *testing.T) {
	// The canonical SCOTT/TIGER hash that ships in every default 10g install.
	if got := Oracle10([]byte("tiger"), "SCOTT"); got != "F894844C34402B67" {
		t.Errorf("Oracle10(tiger, SCOTT): expected F894844C34402B67, got %s", got)
	}
}

func TestOracle10CaseFolding(t *testing.T) {
	if Oracle10([]byte("TIGER"), "scott") != Oracle10([]byte("tiger"), "SCOTT") {
		t.Error("Oracle10 should uppercase both username and secret")
	}
}

func TestOracle10UserSalt(t *testing.T) {
	if Oracle10([]byte("tiger"), "SYS") == Oracle10([]byte("tiger"), "SYSTEM") {
		t.Error("Different usernames should produce different hashes")
	}
}

func TestPostgresMD5Format(t *testing.T) {
	got := PostgresMD5([]byte("password"), "postgres")
	if !strings.HasPrefix(got, "md5") {
		t.Fatalf("Expected md5 scheme marker, got %s", got)
	}
	sum := md5.Sum([]byte("passwordpostgres"))
	if got[3:] != hex.EncodeToString(sum[:]) {
		t.Errorf("Expected md5%x, got %s", sum, got)
	}
}

func TestMSDCCComposition(t *testing.T) {
	// DCC v1 is MD4(MD4(UTF-16LE(secret)) || UTF-16LE(lower(user))).
	inner := md4Sum(utf16leASCII("password"))
	want := hex.EncodeToString(md4Sum(inner, utf16leASCII("administrator")))
	if got := MSDCC([]byte("password"), "Administrator"); got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestMSDCC2Composition(t *testing.T) {
	// DCC v2 keys PBKDF2-HMAC-SHA1 with the DCC v1 digest.
	dcc1, err := hex.DecodeString(MSDCC([]byte("password"), "administrator"))
	if err != nil {
		t.Fatal(err)
	}
	want := hex.EncodeToString(pbkdf2.Key(dcc1, utf16leASCII("administrator"), 10240, 16, sha1.New))
	if got := MSDCC2([]byte("password"), "administrator"); got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestHexOutputsWellFormed(t *testing.T) {
	outputs := map[string]string{
		"LM":       LM([]byte("x")),
		"NT":       NT([]byte("x")),
		"MySQL323": MySQL323([]byte("x")),
		"Oracle10": Oracle10([]byte("x"), "SYS"),
		"MSDCC":    MSDCC([]byte("x"), "administrator"),
		"MSDCC2":   MSDCC2([]byte("x"), "administrator"),
	}
	for name, out := range outputs {
		if _, err := hex.DecodeString(out); err != nil {
			t.Errorf("%s output %q is not valid hex: %v", name, out, err)
		}
	}
}
