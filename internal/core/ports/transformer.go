package ports

import "context"

// Transformer converts the text of a source file into the text of its artifact.
//
//go:generate mockgen -source=transformer.go -destination=mocks/mock_transformer.go -package=mocks
type Transformer interface {
	// Transform returns the artifact text for source. filename is the absolute source path.
	Transform(ctx context.Context, filename, source string) (string, error)
}
