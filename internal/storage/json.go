package storage

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"io"

	"github.com/tartampluch/go-assistant/internal/config"
	"github.com/tartampluch/go-assistant/internal/directory"
	"github.com/tartampluch/go-assistant/internal/domain"
)

// JSONBackend stores the directory as an indented JSON array.
type JSONBackend struct {
	Path  string
	Clock domain.Clock
}

// Load implements Backend.
func (b *JSONBackend) Load() (*directory.Directory, error) {
	raw, err := readFile(b.Path)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return directory.New(), nil
	}
	var data []directory.Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStorageDecode, err)
	}
	return rebuild(data, b.Clock, b.Path), nil
}

// Save implements Backend.
func (b *JSONBackend) Save(d *directory.Directory) error {
	return writeAtomic(b.Path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", config.JSONIndent)
		return enc.Encode(d.Snapshot())
	})
}

// GobBackend stores the directory in Go's binary gob encoding.
type GobBackend struct {
	Path  string
	Clock domain.Clock
}

// Load implements Backend.
func (b *GobBackend) Load() (*directory.Directory, error) {
	raw, err := readFile(b.Path)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return directory.New(), nil
	}
	var data []directory.Data
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&data); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStorageDecode, err)
	}
	return rebuild(data, b.Clock, b.Path), nil
}

// Save implements Backend.
func (b *GobBackend) Save(d *directory.Directory) error {
	return writeAtomic(b.Path, func(w io.Writer) error {
		return gob.NewEncoder(w).Encode(d.Snapshot())
	})
}
