package fs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/chip/internal/adapters/fs"
)

// The fingerprint format is persisted in every cache document.
// A change here invalidates all existing caches.
func TestFingerprinter_Golden(t *testing.T) {
	f := fs.NewFingerprinter()

	assert.Equal(t,
		"sha256:e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		f.Fingerprint(nil))
	assert.Equal(t,
		"sha256:2c26b46b68ffc68ff99b453c1d30413413422d706483bfa0f98a5e886266e7ae",
		f.Fingerprint([]byte("foo")))
}

func TestFingerprinter_DistinguishesContent(t *testing.T) {
	f := fs.NewFingerprinter()

	assert.NotEqual(t, f.Fingerprint([]byte("const a = 1;")), f.Fingerprint([]byte("const a = 2;")))
	assert.Equal(t, f.Fingerprint([]byte("same")), f.Fingerprint([]byte("same")))
}
