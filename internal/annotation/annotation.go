// Package annotation asks a language model to describe songs in the shape
// taste.RawTrackAnnotation decodes.
package annotation

import (
	"context"
	"errors"

	"github.com/ademuri/taste-tools/internal/taste"
)

// DefaultBatchSize is how many songs go into one request.
const DefaultBatchSize = 10

var ErrEmptyResponse = errors.New("annotation: empty response")

// Annotator describes songs. Songs are "<song> by <artist>" strings; the
// result has one annotation per song, in the same order.
type Annotator interface {
	Annotate(ctx context.Context, songs []string) ([]taste.RawTrackAnnotation, error)
}

// BatchSongs splits items into consecutive batches of at most size items.
// A size <= 0 uses DefaultBatchSize.
func BatchSongs[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = DefaultBatchSize
	}
	var batches [][]T
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		batches = append(batches, items[start:end])
	}
	return batches
}
