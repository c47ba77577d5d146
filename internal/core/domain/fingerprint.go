package domain

import (
	"encoding/base64"
	"encoding/hex"

	"go.trai.ch/zerr"
)

// FingerprintSize is the width of a fingerprint in bytes.
const FingerprintSize = 16

// Fingerprint is the fixed-width output of the rolling hash.
type Fingerprint [FingerprintSize]byte

// ParseFingerprint decodes a fingerprint from its hex form.
func ParseFingerprint(s string) (Fingerprint, error) {
	var fp Fingerprint
	b, err := hex.DecodeString(s)
	if err != nil {
		return fp, zerr.With(zerr.Wrap(err, "invalid fingerprint"), "value", s)
	}
	if len(b) != FingerprintSize {
		return fp, zerr.With(zerr.New("invalid fingerprint length"), "value", s)
	}
	copy(fp[:], b)
	return fp, nil
}

// String returns the hex form of the fingerprint.
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// Base64 returns the unpadded URL-safe base64 form, used for compact display.
func (f Fingerprint) Base64() string {
	return base64.RawURLEncoding.EncodeToString(f[:])
}

// IsZero reports whether the fingerprint was never set.
func (f Fingerprint) IsZero() bool {
	return f == Fingerprint{}
}
