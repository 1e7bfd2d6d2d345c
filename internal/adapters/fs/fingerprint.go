package fs

import (
	_ "crypto/sha256" // registers the hash behind digest.Canonical

	"github.com/opencontainers/go-digest"
	"go.trai.ch/chip/internal/core/ports"
)

var _ ports.Fingerprinter = (*Fingerprinter)(nil)

// Fingerprinter computes sha256 content digests in "sha256:<hex>" form.
type Fingerprinter struct{}

// NewFingerprinter creates a new Fingerprinter.
func NewFingerprinter() *Fingerprinter {
	return &Fingerprinter{}
}

// Fingerprint returns the canonical digest of data.
func (f *Fingerprinter) Fingerprint(data []byte) string {
	return digest.Canonical.FromBytes(data).String()
}
