package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// Fingerprint identifies dataset content for dedup and cache checks
type Fingerprint Hash

// NewFingerprint hashes a serialized dataset payload
func NewFingerprint(data []byte) Fingerprint {
	return Fingerprint(NewHash(data))
}

func (f Fingerprint) String() string { return Hash(f).String() }

func (f Fingerprint) IsEmpty() bool { return Hash(f).IsEmpty() }

// ComputeSchemaFingerprint hashes the column layout plus row count so two
// snapshots of the same shape can be recognized without comparing payloads.
func ComputeSchemaFingerprint(columns []string, rowCount int) Fingerprint {
	var data strings.Builder
	for _, col := range columns {
		data.WriteString(col)
		data.WriteString("\x1f")
	}
	data.WriteString(fmt.Sprintf("rows=%d", rowCount))
	return NewFingerprint([]byte(data.String()))
}
