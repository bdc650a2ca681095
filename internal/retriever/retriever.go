// Package retriever wires the resume chunker, the embedding service and
// the flat vector index into a single indexing and query surface.
package retriever

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/resumake/resumake/internal/embedding"
	"github.com/resumake/resumake/internal/resume"
	"github.com/resumake/resumake/internal/vectorindex"
)

var (
	// ErrAlreadyIndexed is returned when IndexResume is called on a
	// retriever that already holds an index.
	ErrAlreadyIndexed = errors.New("retriever already indexed")

	// ErrNotIndexed is returned when a query or save is attempted
	// before any resume has been indexed or restored.
	ErrNotIndexed = errors.New("no resume indexed")

	// ErrNoChunks is returned when the resume text yields no chunks,
	// which happens when it contains no section markers.
	ErrNoChunks = errors.New("resume produced no chunks")
)

// Embedder is the slice of the embedding service the retriever needs.
type Embedder interface {
	EmbedOne(ctx context.Context, text string) ([]float32, error)
	EmbedMany(ctx context.Context, texts []string) []embedding.Result
	Dimension(ctx context.Context) (int, error)
}

type state int

const (
	stateEmpty state = iota
	stateIndexed
	stateRestored
)

// Stats summarizes one indexing run.
type Stats struct {
	Chunks   int
	Embedded int
	Skipped  int
}

// Retriever owns a vector index over resume chunks and answers
// relevance queries against it. It is not safe for concurrent use
// while indexing.
type Retriever struct {
	embedder Embedder
	index    *vectorindex.FlatIndex
	state    state
}

// New creates a retriever backed by the given embedder. It probes the
// embedder once to learn the vector dimension, so it fails early when
// the embedding endpoint is unreachable.
func New(ctx context.Context, embedder Embedder) (*Retriever, error) {
	dim, err := embedder.Dimension(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to determine embedding dimension: %w", err)
	}

	ix, err := vectorindex.New(dim)
	if err != nil {
		return nil, err
	}

	return &Retriever{embedder: embedder, index: ix}, nil
}

// Load restores a retriever from an index previously written by Save,
// skipping chunking and embedding. The embedder is still probed: an
// index built with a different embedding model cannot answer queries
// embedded by this one, so a dimension mismatch is refused.
func Load(ctx context.Context, embedder Embedder, dir string) (*Retriever, error) {
	ix, err := vectorindex.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load index: %w", err)
	}

	dim, err := embedder.Dimension(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to determine embedding dimension: %w", err)
	}
	if dim != ix.Dimension() {
		return nil, fmt.Errorf("index dimension %d does not match embedding model dimension %d",
			ix.Dimension(), dim)
	}

	return &Retriever{embedder: embedder, index: ix, state: stateRestored}, nil
}

// IndexResume chunks the resume text, embeds every chunk and adds the
// survivors to the index in one atomic batch. Chunks whose embedding
// fails are dropped; texts and metadata are re-aligned to the vectors
// that actually came back, so a mid-batch failure never shifts a text
// onto someone else's vector. A retriever indexes at most once.
func (r *Retriever) IndexResume(ctx context.Context, resumeText string) (Stats, error) {
	if r.state != stateEmpty {
		return Stats{}, ErrAlreadyIndexed
	}

	chunks := resume.Split(resumeText)
	if len(chunks) == 0 {
		return Stats{}, ErrNoChunks
	}

	results := r.embedder.EmbedMany(ctx, resume.Texts(chunks))

	texts := make([]string, 0, len(results))
	vectors := make([][]float32, 0, len(results))
	metadatas := make([]map[string]string, 0, len(results))
	for _, res := range results {
		texts = append(texts, chunks[res.Index].Text)
		vectors = append(vectors, res.Vector)
		metadatas = append(metadatas, chunks[res.Index].Metadata)
	}

	if err := r.index.Add(texts, vectors, metadatas); err != nil {
		return Stats{}, fmt.Errorf("failed to add chunks to index: %w", err)
	}

	stats := Stats{
		Chunks:   len(chunks),
		Embedded: len(results),
		Skipped:  len(chunks) - len(results),
	}
	if stats.Skipped > 0 {
		log.Printf("warning: %d of %d resume chunks failed to embed and were skipped",
			stats.Skipped, stats.Chunks)
	}

	r.state = stateIndexed
	return stats, nil
}

// RelevantExperience embeds the job description and returns the k
// nearest resume chunks, nearest first. A failed query embedding is an
// error, never an empty result: the caller must be able to tell "the
// model is down" apart from "nothing matched".
func (r *Retriever) RelevantExperience(ctx context.Context, jobDescription string, k int) ([]vectorindex.Result, error) {
	if r.state == stateEmpty {
		return nil, ErrNotIndexed
	}

	query, err := r.embedder.EmbedOne(ctx, jobDescription)
	if err != nil {
		return nil, fmt.Errorf("failed to embed job description: %w", err)
	}

	return r.index.Search(query, k)
}

// Save writes the index to dir. It requires an indexed or restored
// retriever; there is nothing meaningful to persist before that.
func (r *Retriever) Save(dir string) error {
	if r.state == stateEmpty {
		return ErrNotIndexed
	}
	return r.index.Save(dir)
}

// Len returns the number of indexed chunks.
func (r *Retriever) Len() int {
	return r.index.Len()
}

// Dimension returns the embedding dimension of the underlying index.
func (r *Retriever) Dimension() int {
	return r.index.Dimension()
}

// EachChunk visits every indexed chunk in insertion order.
func (r *Retriever) EachChunk(fn func(text string, metadata map[string]string)) {
	r.index.Each(fn)
}
