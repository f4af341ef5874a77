// Package catalog reads and writes the item list a drill runs over.
//
// The on-disk form is a JSON document {"version": 1, "data": [[lhs, rhs], ...]}.
// Item order is significant: progress is indexed by catalog position.
package catalog

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/example/mintin/pkg/models"
)

// Version is the only catalog format version understood
const Version = 1

// Sentinel errors of the catalog package
var (
	ErrVersion   = errors.New("catalog: unsupported version")
	ErrMalformed = errors.New("catalog: malformed document")
)

type document struct {
	Version int                 `json:"version"`
	Data    [][]json.RawMessage `json:"data"`
}

// Load parses a catalog document
func Load(r io.Reader) ([]models.Item, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrapf(ErrMalformed, "decode: %v", err)
	}
	if doc.Version != Version {
		return nil, errors.Wrapf(ErrVersion, "got %d, want %d", doc.Version, Version)
	}

	items := make([]models.Item, 0, len(doc.Data))
	for i, row := range doc.Data {
		if len(row) != 2 {
			return nil, errors.Wrapf(ErrMalformed, "row %d has %d fields", i, len(row))
		}
		prompt, err := cellString(row[0])
		if err != nil {
			return nil, errors.Wrapf(ErrMalformed, "row %d: lhs is not a string", i)
		}
		answer, err := cellString(row[1])
		if err != nil {
			return nil, errors.Wrapf(ErrMalformed, "row %d: rhs is not a string", i)
		}
		items = append(items, models.Item{Prompt: prompt, Answer: answer})
	}
	return items, nil
}

// cellString decodes a JSON string; null is rejected
func cellString(raw json.RawMessage) (string, error) {
	var s *string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", err
	}
	if s == nil {
		return "", errors.New("null cell")
	}
	return *s, nil
}

// LoadFile reads the catalog stored at path
func LoadFile(path string) ([]models.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open catalog")
	}
	defer f.Close()

	items, err := Load(f)
	if err != nil {
		return nil, errors.Wrapf(err, "catalog %s", path)
	}
	return items, nil
}

// Write emits items as a version 1 document
func Write(w io.Writer, items []models.Item) error {
	data := make([][2]string, len(items))
	for i, item := range items {
		data[i] = [2]string{item.Prompt, item.Answer}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Version int         `json:"version"`
		Data    [][2]string `json:"data"`
	}{Version, data})
}

// WriteFile stores items at path, replacing any previous content
func WriteFile(path string, items []models.Item) error {
	var buf bytes.Buffer
	if err := Write(&buf, items); err != nil {
		return errors.Wrap(err, "failed to encode catalog")
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(err, "failed to write catalog")
	}
	return nil
}
