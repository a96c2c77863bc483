package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tartampluch/go-assistant/internal/config"
	"github.com/tartampluch/go-assistant/internal/directory"
	"github.com/tartampluch/go-assistant/internal/domain"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS contacts (
	id INTEGER PRIMARY KEY,
	position INTEGER NOT NULL,
	name TEXT NOT NULL UNIQUE,
	address TEXT NOT NULL DEFAULT '',
	birthday TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS phones (
	contact_id INTEGER NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	number TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS emails (
	contact_id INTEGER NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	address TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_phones_contact ON phones(contact_id);
CREATE INDEX IF NOT EXISTS idx_emails_contact ON emails(contact_id);
`

// SQLiteBackend stores the directory in a SQLite database. Save rewrites every
// table inside one transaction.
type SQLiteBackend struct {
	Path  string
	Clock domain.Clock
}

func (b *SQLiteBackend) open() (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(b.Path), config.DirPermUserRWX); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}
	db, err := sql.Open(config.SQLiteDriver, b.Path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrDBOpen, err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", config.ErrDBSchema, err)
	}
	return db, nil
}

// Load implements Backend.
func (b *SQLiteBackend) Load() (*directory.Directory, error) {
	if _, err := os.Stat(b.Path); errors.Is(err, os.ErrNotExist) {
		return directory.New(), nil
	}
	db, err := b.open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	rows, err := db.Query(`SELECT id, name, address, birthday FROM contacts ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStorageRead, err)
	}
	var (
		ids  []int64
		data []directory.Data
	)
	for rows.Next() {
		var (
			id   int64
			item directory.Data
		)
		if err := rows.Scan(&id, &item.Name, &item.Address, &item.Birthday); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("%s: %w", config.ErrStorageRead, err)
		}
		ids = append(ids, id)
		data = append(data, item)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("%s: %w", config.ErrStorageRead, err)
	}
	_ = rows.Close()

	for i, id := range ids {
		if data[i].Phones, err = queryStrings(db, `SELECT number FROM phones WHERE contact_id = ? ORDER BY position`, id); err != nil {
			return nil, err
		}
		if data[i].Emails, err = queryStrings(db, `SELECT address FROM emails WHERE contact_id = ? ORDER BY position`, id); err != nil {
			return nil, err
		}
	}
	return rebuild(data, b.Clock, b.Path), nil
}

func queryStrings(db *sql.DB, query string, args ...any) ([]string, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStorageRead, err)
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrStorageRead, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStorageRead, err)
	}
	return out, nil
}

// Save implements Backend.
func (b *SQLiteBackend) Save(d *directory.Directory) error {
	db, err := b.open()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrStorageWrite, err)
	}
	if err := writeSnapshot(tx, d.Snapshot()); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%s: %w", config.ErrStorageWrite, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", config.ErrStorageWrite, err)
	}
	return nil
}

func writeSnapshot(tx *sql.Tx, data []directory.Data) error {
	for _, stmt := range []string{`DELETE FROM phones`, `DELETE FROM emails`, `DELETE FROM contacts`} {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	for pos, item := range data {
		res, err := tx.Exec(`INSERT INTO contacts (position, name, address, birthday) VALUES (?, ?, ?, ?)`,
			pos, item.Name, item.Address, item.Birthday)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		for i, p := range item.Phones {
			if _, err := tx.Exec(`INSERT INTO phones (contact_id, position, number) VALUES (?, ?, ?)`, id, i, p); err != nil {
				return err
			}
		}
		for i, e := range item.Emails {
			if _, err := tx.Exec(`INSERT INTO emails (contact_id, position, address) VALUES (?, ?, ?)`, id, i, e); err != nil {
				return err
			}
		}
	}
	return nil
}
