package ports

// Fingerprinter computes content fingerprints.
//
//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Fingerprinter interface {
	// Fingerprint returns a stable digest of data.
	Fingerprint(data []byte) string
}
