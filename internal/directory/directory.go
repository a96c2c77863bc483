// Package directory owns the in-memory contact records, keyed by name.
package directory

import (
	"slices"
	"strings"
	"sync"

	"github.com/tartampluch/go-assistant/internal/config"
	"github.com/tartampluch/go-assistant/internal/domain"
)

// SortOrder selects the ordering used by Sorted.
type SortOrder string

const (
	SortNameAsc  SortOrder = "az"
	SortNameDesc SortOrder = "za"
)

// Directory maps contact names to records and iterates in insertion order.
//
// A single RWMutex guards the map and the order slice. Rename holds the write
// lock across the existence check and the re-key so two renames cannot race
// onto the same destination.
type Directory struct {
	mu      sync.RWMutex
	records map[string]*Record
	order   []string
}

// New returns an empty directory.
func New() *Directory {
	return &Directory{records: make(map[string]*Record)}
}

// AddOrGet returns the record stored under name, creating an empty one if needed.
func (d *Directory) AddOrGet(name domain.Name) *Record {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := name.String()
	if r, ok := d.records[key]; ok {
		return r
	}
	r := NewRecord(name)
	d.records[key] = r
	d.order = append(d.order, key)
	return r
}

// Put stores r under its own name. It fails if the name is already taken.
func (d *Directory) Put(r *Record) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := r.Name()
	if _, ok := d.records[key]; ok {
		return domain.NewConflictError(config.FieldContact, key)
	}
	d.records[key] = r
	d.order = append(d.order, key)
	return nil
}

// Find is an exact-key lookup.
func (d *Directory) Find(name string) (*Record, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	r, ok := d.records[name]
	return r, ok
}

// Delete removes the record stored under name and reports whether one existed.
func (d *Directory) Delete(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.records[name]; !ok {
		return false
	}
	delete(d.records, name)
	d.order = slices.DeleteFunc(d.order, func(k string) bool { return k == name })
	return true
}

// Rename moves the record stored under oldName to newName, keeping its
// position in iteration order and every field other than the name.
// Nothing is modified when an error is returned.
func (d *Directory) Rename(oldName, newName string) error {
	name, err := domain.NewName(newName)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	r, ok := d.records[oldName]
	if !ok {
		return domain.NewNotFoundError(config.FieldContact, oldName)
	}
	key := name.String()
	if _, exists := d.records[key]; exists {
		return domain.NewConflictError(config.FieldContact, key)
	}

	delete(d.records, oldName)
	d.records[key] = r
	d.order[slices.Index(d.order, oldName)] = key
	r.name = name
	return nil
}

// All returns the records in storage order. The slice is a snapshot; the
// records themselves are shared.
func (d *Directory) All() []*Record {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]*Record, 0, len(d.order))
	for _, k := range d.order {
		out = append(out, d.records[k])
	}
	return out
}

// Len returns the number of records.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.records)
}

// Sorted returns the records ordered by case-insensitive name.
func (d *Directory) Sorted(order SortOrder) []*Record {
	out := d.All()
	slices.SortStableFunc(out, func(a, b *Record) int {
		c := strings.Compare(strings.ToLower(a.Name()), strings.ToLower(b.Name()))
		if order == SortNameDesc {
			return -c
		}
		return c
	})
	return out
}

// FindByAddress returns the records whose address contains query, ignoring case.
func (d *Directory) FindByAddress(query string) []*Record {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []*Record
	for _, r := range d.All() {
		a, ok := r.Address()
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(a.String()), q) {
			out = append(out, r)
		}
	}
	return out
}
