package quicklang

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// fieldDelimiter separates the serialized request fields.
const fieldDelimiter = "|"

// HashText computes the SHA-256 hash of the trimmed text.
func HashText(text string) string {
	trimmed := strings.TrimSpace(text)
	hash := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(hash[:])
}

// CanonicalRequest serializes the request fields in fingerprint order.
// Only the input text is free-form; the trailing enumerated fields never
// contain the delimiter, so the serialization can be split from the right
// without ambiguity. The input text is used verbatim (not trimmed).
func CanonicalRequest(req TranslationRequest) string {
	return strings.Join([]string{
		req.InputText,
		string(req.SourceLang),
		string(req.TargetLang),
		string(req.Formality),
		string(req.Engine),
	}, fieldDelimiter)
}

// ComputeFingerprint returns the SHA-256 digest of the canonical request.
func ComputeFingerprint(req TranslationRequest) Fingerprint {
	hash := sha256.Sum256([]byte(CanonicalRequest(req)))
	return Fingerprint(hex.EncodeToString(hash[:]))
}

// SessionKey generates the store key holding a session's last fingerprint.
func SessionKey(sessionID string) string {
	return "last:" + sessionID
}
