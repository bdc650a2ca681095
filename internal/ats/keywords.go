// Package ats estimates how an applicant tracking system would score a
// resume against a job posting: weighted component scores plus keyword
// coverage backed by a full-text index.
package ats

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
)

// chunkDoc is the indexed form of one resume chunk.
type chunkDoc struct {
	Content string `json:"content"`
	Section string `json:"section"`
}

// KeywordIndex answers "does the resume mention this keyword" queries
// over resume chunks using a memory-only full-text index, so matching
// benefits from real tokenization and stemming instead of substring
// checks.
type KeywordIndex struct {
	index bleve.Index
	docs  int
}

// NewKeywordIndex creates an empty in-memory keyword index.
func NewKeywordIndex() (*KeywordIndex, error) {
	index, err := bleve.NewMemOnly(buildKeywordMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create keyword index: %w", err)
	}
	return &KeywordIndex{index: index}, nil
}

func buildKeywordMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = "en"
	indexMapping.DefaultField = "content"

	docMapping := bleve.NewDocumentMapping()

	contentField := bleve.NewTextFieldMapping()
	contentField.Store = false
	contentField.Index = true
	docMapping.AddFieldMappingsAt("content", contentField)

	sectionField := bleve.NewTextFieldMapping()
	sectionField.Store = true
	sectionField.Index = true
	sectionField.Analyzer = "keyword"
	docMapping.AddFieldMappingsAt("section", sectionField)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// IndexChunk adds one resume chunk under the given id.
func (k *KeywordIndex) IndexChunk(id, text, section string) error {
	return k.indexDoc(id, chunkDoc{Content: text, Section: section})
}

func (k *KeywordIndex) indexDoc(id string, doc chunkDoc) error {
	if err := k.index.Index(id, doc); err != nil {
		return fmt.Errorf("failed to index chunk %s: %w", id, err)
	}
	k.docs++
	return nil
}

// Match reports whether any indexed chunk matches the keyword.
func (k *KeywordIndex) Match(keyword string) (bool, error) {
	query := bleve.NewMatchQuery(keyword)
	query.SetField("content")

	req := bleve.NewSearchRequestOptions(query, 1, 0, false)
	res, err := k.index.Search(req)
	if err != nil {
		return false, fmt.Errorf("keyword search failed: %w", err)
	}
	return len(res.Hits) > 0, nil
}

// Coverage is the result of checking a keyword list against the index.
type Coverage struct {
	Matched []string `json:"matched"`
	Missing []string `json:"missing"`
	Score   float64  `json:"score"`
}

// Coverage checks every keyword and returns the matched and missing
// sets with the matched fraction. An empty keyword list scores 1.
func (k *KeywordIndex) Coverage(keywords []string) (Coverage, error) {
	cov := Coverage{Score: 1.0}
	if len(keywords) == 0 {
		return cov, nil
	}

	for _, kw := range keywords {
		ok, err := k.Match(kw)
		if err != nil {
			return Coverage{}, err
		}
		if ok {
			cov.Matched = append(cov.Matched, kw)
		} else {
			cov.Missing = append(cov.Missing, kw)
		}
	}
	cov.Score = float64(len(cov.Matched)) / float64(len(keywords))
	return cov, nil
}

// Len returns the number of indexed chunks.
func (k *KeywordIndex) Len() int {
	return k.docs
}

// Close releases the index.
func (k *KeywordIndex) Close() error {
	return k.index.Close()
}
