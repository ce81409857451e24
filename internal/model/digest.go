package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content digests.
// Version suffix enables future algorithm migration.
const (
	DomainProject = "splice/project/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ProjectDigest returns a content digest covering every project field.
// Two projects have the same digest iff their canonical forms are equal.
func ProjectDigest(p Project) (string, error) {
	canonical, err := MarshalCanonical(p)
	if err != nil {
		return "", fmt.Errorf("ProjectDigest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainProject, canonical), nil
}

// MustProjectDigest is like ProjectDigest but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustProjectDigest(p Project) string {
	d, err := ProjectDigest(p)
	if err != nil {
		panic(err)
	}
	return d
}
