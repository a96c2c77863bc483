package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/tartampluch/go-assistant/internal/config"
	"github.com/tartampluch/go-assistant/internal/notes"
)

// noteRecord is the on-disk note shape. Files written before notes carried an
// id or a timestamp hold only text and tags; both decode into this struct.
type noteRecord struct {
	ID        uuid.UUID `json:"id,omitzero"`
	Text      string    `json:"text"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// NotesFile persists notes as a JSON array, rewritten in full on every save.
type NotesFile struct {
	Path string
}

// Load reads the notes. A missing file yields no notes.
func (f NotesFile) Load() ([]*notes.Note, error) {
	raw, err := readFile(f.Path)
	if err != nil || raw == nil {
		return nil, err
	}
	var recs []noteRecord
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStorageDecode, err)
	}
	out := make([]*notes.Note, 0, len(recs))
	for _, r := range recs {
		out = append(out, &notes.Note{ID: r.ID, Text: r.Text, Tags: r.Tags, CreatedAt: r.CreatedAt})
	}
	return out, nil
}

// Save writes every note.
func (f NotesFile) Save(ns []*notes.Note) error {
	recs := make([]noteRecord, 0, len(ns))
	for _, n := range ns {
		tags := n.Tags
		if tags == nil {
			tags = []string{}
		}
		recs = append(recs, noteRecord{ID: n.ID, Text: n.Text, Tags: tags, CreatedAt: n.CreatedAt})
	}
	return writeAtomic(f.Path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", config.JSONIndent)
		return enc.Encode(recs)
	})
}
