// Package storage persists the contact directory and the note list.
//
// Contacts go through a Backend chosen at runtime (JSON, gob, vCard or
// SQLite); notes always live in a JSON file. Every loader re-validates the
// records it reads: values that no longer pass are dropped, and only records
// without a valid name are skipped.
package storage

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tartampluch/go-assistant/internal/config"
	"github.com/tartampluch/go-assistant/internal/directory"
	"github.com/tartampluch/go-assistant/internal/domain"
)

// Backend loads and saves a whole directory.
type Backend interface {
	Load() (*directory.Directory, error)
	Save(d *directory.Directory) error
}

// Kind names a backend encoding.
type Kind string

const (
	KindJSON   Kind = "json"
	KindGob    Kind = "gob"
	KindVCard  Kind = "vcf"
	KindSQLite Kind = "sqlite"
)

// Kinds lists every supported backend.
var Kinds = []Kind{KindJSON, KindGob, KindVCard, KindSQLite}

// New returns the backend for kind, storing its file under dir.
func New(kind Kind, dir string, clock domain.Clock) (Backend, error) {
	if clock == nil {
		clock = domain.RealClock{}
	}
	switch kind {
	case KindJSON:
		return &JSONBackend{Path: filepath.Join(dir, config.AddressBookBase+config.ExtJSON), Clock: clock}, nil
	case KindGob:
		return &GobBackend{Path: filepath.Join(dir, config.AddressBookBase+config.ExtGob), Clock: clock}, nil
	case KindVCard:
		return &VCardBackend{Path: filepath.Join(dir, config.AddressBookBase+config.ExtVCF), Clock: clock}, nil
	case KindSQLite:
		return &SQLiteBackend{Path: filepath.Join(dir, config.AddressBookBase+config.ExtSQLite), Clock: clock}, nil
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrStorageKind, kind)
	}
}

// rebuild turns plain records into a directory, dropping the invalid ones.
func rebuild(data []directory.Data, clock domain.Clock, source string) *directory.Directory {
	d := directory.New()
	now := clock.Now()
	for _, item := range data {
		r, dropped, err := directory.FromData(item, now)
		warnDropped(source, item.Name, dropped)
		if err == nil {
			err = d.Put(r)
		}
		if err != nil {
			slog.Warn(config.MsgSkippedRecord,
				config.LogKeyComponent, config.CompStorage,
				config.LogKeyFile, source,
				config.LogKeyName, item.Name,
				config.LogKeyError, err)
		}
	}
	slog.Info(config.MsgStorageLoaded,
		config.LogKeyComponent, config.CompStorage,
		config.LogKeyFile, source,
		config.LogKeyCount, d.Len())
	return d
}

// warnDropped logs the stored values that were left out of a loaded record.
func warnDropped(source, name string, dropped []error) {
	for _, err := range dropped {
		slog.Warn(config.MsgDroppedField,
			config.LogKeyComponent, config.CompStorage,
			config.LogKeyFile, source,
			config.LogKeyName, name,
			config.LogKeyError, err)
	}
}

// readFile returns nil content and no error when the file does not exist yet.
func readFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStorageRead, err)
	}
	return b, nil
}

// writeAtomic writes through a temp file in the same directory and renames it
// over path, so readers never see a partial file.
func writeAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, config.DirPermUserRWX); err != nil {
		return fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+config.TempFilePattern)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrStorageWrite, err)
	}
	// Cleanup is a no-op once the rename succeeded.
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%s: %w", config.ErrStorageWrite, err)
	}
	if err := tmp.Chmod(config.FilePermUserRW); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%s: %w", config.ErrStorageWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%s: %w", config.ErrStorageWrite, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%s: %w", config.ErrStorageWrite, err)
	}

	slog.Debug(config.MsgStorageSaved,
		config.LogKeyComponent, config.CompStorage,
		config.LogKeyFile, path)
	return nil
}
