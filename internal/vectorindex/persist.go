package vectorindex

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	vectorsFile   = "vectors.bin"
	sideTableFile = "store.json"

	vectorsMagic   = uint32(0x524D5658) // "RMVX"
	vectorsVersion = uint32(1)
)

// sideTable is the JSON artifact holding everything but the raw vectors.
type sideTable struct {
	Texts     []string            `json:"texts"`
	Metadata  []map[string]string `json:"metadata"`
	Dimension int                 `json:"dimension"`
}

// Save persists the index into dir as a binary vector matrix plus a
// JSON side table, creating the directory if needed. Both artifacts are
// written to temporary paths first and renamed into place so a reader
// never observes one without the other being at least in flight.
func (ix *FlatIndex) Save(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	var buf bytes.Buffer
	header := []uint32{vectorsMagic, vectorsVersion, uint32(ix.dimension), uint32(len(ix.vectors))}
	for _, v := range header {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("failed to encode vector header: %w", err)
		}
	}
	for _, vec := range ix.vectors {
		if err := binary.Write(&buf, binary.LittleEndian, vec); err != nil {
			return fmt.Errorf("failed to encode vectors: %w", err)
		}
	}

	side, err := json.Marshal(sideTable{
		Texts:     ix.texts,
		Metadata:  ix.metadata,
		Dimension: ix.dimension,
	})
	if err != nil {
		return fmt.Errorf("failed to encode side table: %w", err)
	}

	if err := writeAtomic(filepath.Join(dir, vectorsFile), buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write vectors: %w", err)
	}
	if err := writeAtomic(filepath.Join(dir, sideTableFile), side); err != nil {
		return fmt.Errorf("failed to write side table: %w", err)
	}
	return nil
}

// Load reconstructs an index previously written by Save. It fails if
// either artifact is missing or corrupt, or if the two disagree about
// dimension or entry count.
func Load(dir string) (*FlatIndex, error) {
	sideData, err := os.ReadFile(filepath.Join(dir, sideTableFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read side table: %w", err)
	}

	var side sideTable
	if err := json.Unmarshal(sideData, &side); err != nil {
		return nil, fmt.Errorf("failed to parse side table: %w", err)
	}
	if side.Dimension <= 0 {
		return nil, fmt.Errorf("side table has invalid dimension: %d", side.Dimension)
	}
	if len(side.Texts) != len(side.Metadata) {
		return nil, fmt.Errorf("side table texts/metadata length mismatch: %d vs %d",
			len(side.Texts), len(side.Metadata))
	}

	vecData, err := os.ReadFile(filepath.Join(dir, vectorsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read vectors: %w", err)
	}

	reader := bytes.NewReader(vecData)
	var magic, version, dimension, count uint32
	for _, field := range []*uint32{&magic, &version, &dimension, &count} {
		if err := binary.Read(reader, binary.LittleEndian, field); err != nil {
			return nil, fmt.Errorf("failed to decode vector header: %w", err)
		}
	}
	if magic != vectorsMagic {
		return nil, fmt.Errorf("vector file has bad magic: %#x", magic)
	}
	if version != vectorsVersion {
		return nil, fmt.Errorf("unsupported vector file version: %d", version)
	}
	if int(dimension) != side.Dimension {
		return nil, fmt.Errorf("vector file dimension %d does not match side table %d",
			dimension, side.Dimension)
	}
	if int(count) != len(side.Texts) {
		return nil, fmt.Errorf("vector file holds %d entries, side table %d",
			count, len(side.Texts))
	}

	ix, err := New(side.Dimension)
	if err != nil {
		return nil, err
	}

	ix.vectors = make([][]float32, count)
	for i := range ix.vectors {
		vec := make([]float32, dimension)
		if err := binary.Read(reader, binary.LittleEndian, vec); err != nil {
			return nil, fmt.Errorf("failed to decode vector %d: %w", i, err)
		}
		ix.vectors[i] = vec
	}

	ix.texts = side.Texts
	ix.metadata = side.Metadata
	for i, meta := range ix.metadata {
		if meta == nil {
			ix.metadata[i] = map[string]string{}
		}
	}
	return ix, nil
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
