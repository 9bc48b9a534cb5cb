package totp

import (
	"encoding/base32"
	"strings"
)

const base32Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"

var secretEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// decodeSecret turns a Base32 secret into key bytes.
//
// Decoding is lenient about case and trailing '=' padding. Bits left over after
// the last full byte are dropped, so secrets whose length is not a multiple of 8
// characters still decode.
func decodeSecret(secret string) ([]byte, error) {
	s := strings.TrimRight(strings.ToUpper(strings.TrimSpace(secret)), "=")

	out := make([]byte, 0, len(s)*5/8)
	var buffer uint32
	var bits uint
	for i := 0; i < len(s); i++ {
		v := strings.IndexByte(base32Alphabet, s[i])
		if v < 0 {
			return nil, ErrInvalidSecret
		}
		buffer = buffer<<5 | uint32(v)
		bits += 5
		if bits >= 8 {
			bits -= 8
			out = append(out, byte(buffer>>bits))
			buffer &= 1<<bits - 1
		}
	}
	if len(out) == 0 {
		return nil, ErrInvalidSecret
	}
	return out, nil
}

func encodeSecret(key []byte) string {
	return secretEncoding.EncodeToString(key)
}
