package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainFormula     = "perov/formula/v1"
	DomainComposition = "perov/composition/v1"
	DomainVocabulary  = "perov/vocabulary/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// FormulaKey computes the cache key for formula text.
// Callers pass normalized text so that visually identical formulas share a key.
func FormulaKey(text string) string {
	return hashWithDomain(DomainFormula, []byte(text))
}

// VocabularyKey digests a parse configuration fingerprint
// (formula.Processor.Fingerprint) into a fixed-size key.
func VocabularyKey(fingerprint string) string {
	return hashWithDomain(DomainVocabulary, []byte(fingerprint))
}

// CompositionHash computes a content hash over the canonical JSON of c.
// Two compositions with equal entries hash equally regardless of insertion order.
func CompositionHash(c Composition) (string, error) {
	canonical, err := MarshalCanonical(c)
	if err != nil {
		return "", fmt.Errorf("CompositionHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainComposition, canonical), nil
}
