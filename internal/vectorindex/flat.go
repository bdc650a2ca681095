// Package vectorindex implements a flat (brute-force) similarity index
// over fixed-dimension float32 vectors with parallel text and metadata
// side tables.
package vectorindex

import (
	"errors"
	"fmt"
	"sort"
)

// ErrDimensionMismatch is returned when a vector does not match the
// dimension the index was created with.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// Result is a single search hit, nearest first.
type Result struct {
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata"`
	Distance float32           `json:"distance"`
}

// FlatIndex stores vectors alongside their source texts and metadata in
// parallel slices sharing one integer index. It is append-only within a
// session and safe for concurrent readers once writing has stopped.
type FlatIndex struct {
	dimension int
	vectors   [][]float32
	texts     []string
	metadata  []map[string]string
}

// New creates an empty index for vectors of the given dimension.
func New(dimension int) (*FlatIndex, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("invalid dimension: %d", dimension)
	}
	return &FlatIndex{dimension: dimension}, nil
}

// Dimension returns the vector dimension of the index.
func (ix *FlatIndex) Dimension() int {
	return ix.dimension
}

// Len returns the number of stored entries.
func (ix *FlatIndex) Len() int {
	return len(ix.vectors)
}

// Add appends a batch of texts with their embeddings. Texts and vectors
// must have equal length; a nil metadatas substitutes an empty mapping
// per item. All vectors are dimension-checked before anything is
// appended, so a failed call leaves the index unchanged. Empty input is
// a no-op.
func (ix *FlatIndex) Add(texts []string, vectors [][]float32, metadatas []map[string]string) error {
	if len(texts) == 0 || len(vectors) == 0 {
		return nil
	}
	if len(texts) != len(vectors) {
		return fmt.Errorf("texts and vectors length mismatch: %d vs %d", len(texts), len(vectors))
	}
	if metadatas != nil && len(metadatas) != len(texts) {
		return fmt.Errorf("texts and metadatas length mismatch: %d vs %d", len(texts), len(metadatas))
	}

	for i, vec := range vectors {
		if len(vec) != ix.dimension {
			return fmt.Errorf("%w: vector %d has %d dimensions, index expects %d",
				ErrDimensionMismatch, i, len(vec), ix.dimension)
		}
	}

	if metadatas == nil {
		metadatas = make([]map[string]string, len(texts))
		for i := range metadatas {
			metadatas[i] = map[string]string{}
		}
	}

	ix.vectors = append(ix.vectors, vectors...)
	ix.texts = append(ix.texts, texts...)
	ix.metadata = append(ix.metadata, metadatas...)
	return nil
}

// Search returns up to k entries nearest to the query vector, ordered
// by ascending squared Euclidean distance. Equal distances keep
// insertion order. An empty index or k <= 0 yields an empty result; a
// k larger than the index returns everything.
func (ix *FlatIndex) Search(query []float32, k int) ([]Result, error) {
	if len(query) != ix.dimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, index expects %d",
			ErrDimensionMismatch, len(query), ix.dimension)
	}
	if k <= 0 || len(ix.vectors) == 0 {
		return []Result{}, nil
	}

	order := make([]int, len(ix.vectors))
	distances := make([]float32, len(ix.vectors))
	for i, vec := range ix.vectors {
		order[i] = i
		distances[i] = SquaredL2(query, vec)
	}

	sort.Slice(order, func(a, b int) bool {
		i, j := order[a], order[b]
		if distances[i] != distances[j] {
			return distances[i] < distances[j]
		}
		return i < j
	})

	if k > len(order) {
		k = len(order)
	}

	results := make([]Result, 0, k)
	for _, idx := range order[:k] {
		results = append(results, Result{
			Text:     ix.texts[idx],
			Metadata: ix.metadata[idx],
			Distance: distances[idx],
		})
	}
	return results, nil
}

// Each calls fn for every stored entry in insertion order.
func (ix *FlatIndex) Each(fn func(text string, metadata map[string]string)) {
	for i := range ix.texts {
		fn(ix.texts[i], ix.metadata[i])
	}
}

// SquaredL2 computes the squared Euclidean distance between two vectors
func SquaredL2(a, b []float32) float32 {
	if len(a) != len(b) {
		panic(fmt.Sprintf("vector dimension mismatch: %d vs %d", len(a), len(b)))
	}

	var sum float32
	for i := 0; i < len(a); i++ {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum
}
