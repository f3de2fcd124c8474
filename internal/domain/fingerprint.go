package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"slices"
	"strings"
)

// Fingerprint is the hex SHA-256 digest of a request's generation-affecting fields.
type Fingerprint string

// NewFingerprint computes the cache key of req. Only prompt, mode and parameters are
// included; field order never changes the digest. Callers pass a request that already
// went through Validate.
func NewFingerprint(req *GenerationRequest) Fingerprint {
	fields := req.Parameters.normalize().Fields()
	fields["prompt"] = strings.TrimSpace(req.Prompt)
	fields["mode"] = strings.ToLower(strings.TrimSpace(string(req.Mode)))

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	slices.Sort(names)

	h := sha256.New()
	for _, name := range names {
		writeField(h, name, fields[name])
	}

	return Fingerprint(hex.EncodeToString(h.Sum(nil)))
}

// writeField length-prefixes name and value so no two field sets serialize alike.
func writeField(h hash.Hash, name, value string) {
	fmt.Fprintf(h, "%d:%s=%d:%s;", len(name), name, len(value), value)
}

// String returns the digest as a string.
func (f Fingerprint) String() string {
	return string(f)
}

// Short returns the first 12 digest characters for log lines.
func (f Fingerprint) Short() string {
	const shortLen = 12
	if len(f) <= shortLen {
		return string(f)
	}
	return string(f[:shortLen])
}
