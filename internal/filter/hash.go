package filter

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainFilter prefixes structural filter keys. The version suffix allows the
// description format to change without colliding with older keys.
const DomainFilter = "filterql/filter/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Canonical returns the canonical JSON description of f.
func Canonical(f Filter) ([]byte, error) {
	if f == nil {
		return nil, fmt.Errorf("canonical: nil filter")
	}
	return MarshalCanonical(Describe(f))
}

// Key returns the structural identity of f: a hex SHA-256 over its canonical
// description. Key(nil) is "".
func Key(f Filter) string {
	if f == nil {
		return ""
	}
	canonical, err := Canonical(f)
	if err != nil {
		// Describe only emits canonical-safe shapes.
		panic(fmt.Sprintf("filter key: %v", err))
	}
	return hashWithDomain(DomainFilter, canonical)
}

// Equal reports whether a and b are structurally identical.
func Equal(a, b Filter) bool {
	return Key(a) == Key(b)
}
