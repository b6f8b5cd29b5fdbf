// Package legacy implements the legacy password-hash schemes (LM, NTLM,
// MySQL, Oracle 10g, PostgreSQL MD5, MS Domain Cached Credentials) behind
// the salted-hash capability of the algorithm registry.
//
// Each function returns the scheme's canonical textual encoding, exactly as
// the originating system stores it: lowercase hex for LM/NTLM/MySQL323/MSDCC,
// "*"-prefixed uppercase hex for MySQL 4.1, "md5"-prefixed lowercase hex for
// PostgreSQL, uppercase hex for Oracle 10g. The caller strips any scheme
// marker and hex-decodes to obtain raw digest bytes.
//
// Secrets are accepted as raw bytes. Schemes defined over UTF-16 code units
// (NTLM, Oracle, MSDCC) interpret the bytes as UTF-8 text; byte sequences
// that are not valid UTF-8 are carried through with U+FFFD replacement.
package legacy

import (
	"bytes"
	"crypto/cipher"
	"crypto/des"
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/md4"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

var (
	utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	utf16be = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
)

// encodeUTF16 converts UTF-8 bytes to UTF-16 code units in the given order.
func encodeUTF16(enc encoding.Encoding, b []byte) []byte {
	out, err := enc.NewEncoder().Bytes(b)
	if err != nil {
		// The UTF-16 encoders replace invalid input rather than failing.
		panic("legacy: UTF-16 encoder returned unexpected error: " + err.Error())
	}
	return out
}

// lmMagic is the constant plaintext each DES half encrypts in the LM scheme.
var lmMagic = []byte("KGS!@#$%")

// desKey7 expands a 7-byte half into an 8-byte DES key by spreading the
// 56 bits across 8 bytes. Parity bits are left clear; DES ignores them.
func desKey7(k []byte) []byte {
	return []byte{
		k[0],
		k[0]<<7 | k[1]>>1,
		k[1]<<6 | k[2]>>2,
		k[2]<<5 | k[3]>>3,
		k[3]<<4 | k[4]>>4,
		k[4]<<3 | k[5]>>5,
		k[5]<<2 | k[6]>>6,
		k[6] << 1,
	}
}

func mustDES(key []byte) cipher.Block {
	c, err := des.NewCipher(key)
	if err != nil {
		panic("legacy: des.NewCipher rejected an 8-byte key: " + err.Error())
	}
	return c
}

// LM computes the LAN Manager hash: the secret is ASCII-uppercased,
// truncated/zero-padded to 14 bytes, and each 7-byte half is used as a DES
// key to encrypt a fixed magic block. Returns 32 lowercase hex characters.
func LM(secret []byte) string {
	s := bytes.ToUpper(secret)
	var block [14]byte
	copy(block[:], s) // copy stops at 14 bytes; shorter secrets leave zero padding
	out := make([]byte, 16)
	mustDES(desKey7(block[0:7])).Encrypt(out[0:8], lmMagic)
	mustDES(desKey7(block[7:14])).Encrypt(out[8:16], lmMagic)
	return hex.EncodeToString(out)
}

// NT computes the NTLM hash: MD4 over the UTF-16LE encoding of the secret.
// Returns 32 lowercase hex characters.
func NT(secret []byte) string {
	h := md4.New()
	h.Write(encodeUTF16(utf16le, secret))
	return hex.EncodeToString(h.Sum(nil))
}

// MySQL323 computes the pre-4.1 MySQL password hash. Space and tab bytes
// are skipped, matching the server's scrambling routine. Returns 16
// lowercase hex characters (two 31-bit words).
func MySQL323(secret []byte) string {
	var (
		nr  uint32 = 1345345333
		nr2 uint32 = 0x12345671
		add uint32 = 7
	)
	for _, c := range secret {
		if c == ' ' || c == '\t' {
			continue
		}
		tmp := uint32(c)
		nr ^= ((nr&63)+add)*tmp + nr<<8
		nr2 += nr2<<8 ^ nr
		add += tmp
	}
	return fmt.Sprintf("%08x%08x", nr&0x7fffffff, nr2&0x7fffffff)
}

// MySQL41 computes the MySQL 4.1+ password hash: SHA-1 applied twice.
// Returns the scheme marker "*" followed by 40 uppercase hex characters,
// as stored in mysql.user.
func MySQL41(secret []byte) string {
	first := sha1.Sum(secret)
	second := sha1.Sum(first[:])
	return "*" + strings.ToUpper(hex.EncodeToString(second[:]))
}

// oracleSeedKey is the fixed DES key seeding the first CBC pass.
var oracleSeedKey = []byte{0x01, 0x23, 0x45, 0x67, 0x89, 0xab, 0xcd, 0xef}

// desCBCLastBlock encrypts data with DES-CBC (zero IV) and returns the
// final ciphertext block. len(data) must be a multiple of 8.
func desCBCLastBlock(key, data []byte) []byte {
	out := make([]byte, len(data))
	cipher.NewCBCEncrypter(mustDES(key), make([]byte, 8)).CryptBlocks(out, data)
	return out[len(out)-8:]
}

// Oracle10 computes the Oracle 10g password hash, salted by username.
// Username and secret are concatenated, uppercased, encoded as UTF-16BE,
// and zero-padded to a DES block boundary. Two DES-CBC passes follow: the
// first, under a fixed seed key, derives the second pass's key; the final
// block of the second pass is the hash. Returns 16 uppercase hex
// characters, as stored in SYS.USER$.
func Oracle10(secret []byte, user string) string {
	data := encodeUTF16(utf16be, []byte(strings.ToUpper(user+string(secret))))
	if rem := len(data) % 8; rem != 0 {
		data = append(data, make([]byte, 8-rem)...)
	}
	key2 := desCBCLastBlock(oracleSeedKey, data)
	return strings.ToUpper(hex.EncodeToString(desCBCLastBlock(key2, data)))
}

// PostgresMD5 computes the PostgreSQL MD5 password hash: MD5 over the
// secret concatenated with the username. Returns the scheme marker "md5"
// followed by 32 lowercase hex characters, as stored in pg_authid.
func PostgresMD5(secret []byte, user string) string {
	h := md5.New()
	h.Write(secret)
	h.Write([]byte(user))
	return "md5" + hex.EncodeToString(h.Sum(nil))
}

// msdcc1 computes the raw DCC (v1) digest:
// MD4(MD4(UTF-16LE(secret)) || UTF-16LE(lowercase(user))).
func msdcc1(secret []byte, user string) []byte {
	inner := md4.New()
	inner.Write(encodeUTF16(utf16le, secret))
	outer := md4.New()
	outer.Write(inner.Sum(nil))
	outer.Write(encodeUTF16(utf16le, []byte(strings.ToLower(user))))
	return outer.Sum(nil)
}

// MSDCC computes the MS Domain Cached Credentials (v1) hash, salted by
// the lowercased username. Returns 32 lowercase hex characters.
func MSDCC(secret []byte, user string) string {
	return hex.EncodeToString(msdcc1(secret, user))
}

// msdcc2Rounds is the fixed PBKDF2 iteration count used by DCC v2.
const msdcc2Rounds = 10240

// MSDCC2 computes the MS Domain Cached Credentials v2 hash:
// PBKDF2-HMAC-SHA1 over the DCC v1 digest with the lowercased UTF-16LE
// username as salt. Returns 32 lowercase hex characters.
func MSDCC2(secret []byte, user string) string {
	salt := encodeUTF16(utf16le, []byte(strings.ToLower(user)))
	return hex.EncodeToString(pbkdf2.Key(msdcc1(secret, user), salt, msdcc2Rounds, 16, sha1.New))
}
