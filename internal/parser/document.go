package parser

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Document is one registry XML file handed to the batch parser.
type Document interface {
	// Name identifies the document in logs and errors.
	Name() string
	Open() (io.ReadCloser, error)
}

// FileDocument is a document on the local filesystem.
type FileDocument string

func (f FileDocument) Name() string { return string(f) }

func (f FileDocument) Open() (io.ReadCloser, error) {
	return os.Open(string(f))
}

type bytesDocument struct {
	name string
	data []byte
}

// BytesDocument wraps an in-memory payload.
func BytesDocument(name string, data []byte) Document {
	return bytesDocument{name: name, data: data}
}

func (b bytesDocument) Name() string { return b.name }

func (b bytesDocument) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b.data)), nil
}

// DiscoverFiles returns every *.xml file (any case) under root, sorted.
func DiscoverFiles(root string) ([]Document, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".xml") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoDocuments, root)
	}

	sort.Strings(paths)
	docs := make([]Document, len(paths))
	for i, p := range paths {
		docs[i] = FileDocument(p)
	}
	return docs, nil
}

// Chunk splits docs into min(n, len(docs)) contiguous shards whose sizes
// differ by at most one, earlier shards taking the remainder.
func Chunk(docs []Document, n int) [][]Document {
	if len(docs) == 0 {
		return nil
	}
	if n < 1 {
		n = 1
	}
	if n > len(docs) {
		n = len(docs)
	}

	base, extra := len(docs)/n, len(docs)%n
	shards := make([][]Document, 0, n)
	start := 0
	for i := 0; i < n; i++ {
		size := base
		if i < extra {
			size++
		}
		shards = append(shards, docs[start:start+size])
		start += size
	}
	return shards
}
