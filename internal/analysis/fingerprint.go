package analysis

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	"github.com/jonathan/resume-analyzer/internal/parsing"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// Fingerprint returns a hex blake2b-256 digest of the normalized input.
// Inputs differing only in case or whitespace share a fingerprint.
func Fingerprint(in types.AnalysisInput) string {
	return FingerprintTexts(in.ResumeText, in.JobDescription, in.SelectedRole)
}

// FingerprintTexts digests the normalized texts, separated by NUL bytes.
func FingerprintTexts(texts ...string) string {
	h, _ := blake2b.New256(nil)
	for i, text := range texts {
		if i > 0 {
			h.Write([]byte{0}) //nolint:errcheck
		}
		h.Write([]byte(parsing.Normalize(text))) //nolint:errcheck
	}
	return hex.EncodeToString(h.Sum(nil))
}
