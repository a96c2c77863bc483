// Package notes keeps free-text notes with tags.
//
// Notes are identified by pointer, so two notes with the same text stay
// distinguishable. IDs exist only for persistence.
package notes

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tartampluch/go-assistant/internal/config"
	"github.com/tartampluch/go-assistant/internal/domain"
)

// Note is a free-text entry with ordered tags.
type Note struct {
	ID        uuid.UUID
	Text      string
	Tags      []string
	CreatedAt time.Time
}

// matches reports whether q (already lowercased) is in the text or any tag.
func (n *Note) matches(q string) bool {
	if strings.Contains(strings.ToLower(n.Text), q) {
		return true
	}
	return slices.ContainsFunc(n.Tags, func(t string) bool {
		return strings.Contains(strings.ToLower(t), q)
	})
}

// SortOrder selects the ordering used by Sorted.
type SortOrder string

const (
	SortTextAsc  SortOrder = "az"
	SortTextDesc SortOrder = "za"
	SortNewest   SortOrder = "newest"
	SortOldest   SortOrder = "oldest"
)

// Store is a list of notes in insertion order.
type Store struct {
	mu    sync.RWMutex
	notes []*Note
	clock domain.Clock
}

// NewStore returns an empty store. A nil clock means the real clock.
func NewStore(clock domain.Clock) *Store {
	if clock == nil {
		clock = domain.RealClock{}
	}
	return &Store{clock: clock}
}

// Add appends a note. Text must not be blank.
func (s *Store) Add(text string, tags []string) (*Note, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewValidationError(config.FieldText, config.ErrNoteEmpty)
	}
	n := &Note{
		ID:        uuid.New(),
		Text:      text,
		Tags:      cleanTags(tags),
		CreatedAt: s.clock.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = append(s.notes, n)
	return n, nil
}

// Delete removes n from the store.
func (s *Store) Delete(n *Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.Index(s.notes, n)
	if i < 0 {
		return domain.NewNotFoundError(config.FieldNote, noteKey(n))
	}
	s.notes = slices.Delete(s.notes, i, i+1)
	return nil
}

// Edit replaces the text of n, and its tags unless tags is nil.
func (s *Store) Edit(n *Note, text string, tags []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !slices.Contains(s.notes, n) {
		return domain.NewNotFoundError(config.FieldNote, noteKey(n))
	}
	n.Text = text
	if tags != nil {
		n.Tags = cleanTags(tags)
	}
	return nil
}

// Find returns the first note whose text or a tag contains query, ignoring case.
func (s *Store) Find(query string) (*Note, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, domain.NewInvalidArgumentError(config.ArgQuery, config.ErrQueryEmpty)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.notes {
		if n.matches(q) {
			return n, nil
		}
	}
	return nil, domain.NewNotFoundError(config.FieldNote, query)
}

// Search returns every matching note. An empty query lists all notes.
func (s *Store) Search(query string) []*Note {
	q := strings.ToLower(strings.TrimSpace(query))

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Note, 0, len(s.notes))
	for _, n := range s.notes {
		if q == "" || n.matches(q) {
			out = append(out, n)
		}
	}
	return out
}

// SearchByTag returns notes carrying tag, compared case-insensitively.
func (s *Store) SearchByTag(tag string) []*Note {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Note
	for _, n := range s.notes {
		if slices.ContainsFunc(n.Tags, func(t string) bool { return strings.EqualFold(t, tag) }) {
			out = append(out, n)
		}
	}
	return out
}

// Sorted returns a sorted copy of the note list.
func (s *Store) Sorted(order SortOrder) []*Note {
	out := s.All()
	slices.SortStableFunc(out, func(a, b *Note) int {
		switch order {
		case SortTextDesc:
			return strings.Compare(strings.ToLower(b.Text), strings.ToLower(a.Text))
		case SortNewest:
			return b.CreatedAt.Compare(a.CreatedAt)
		case SortOldest:
			return a.CreatedAt.Compare(b.CreatedAt)
		default:
			return strings.Compare(strings.ToLower(a.Text), strings.ToLower(b.Text))
		}
	})
	return out
}

// All returns the notes in store order.
func (s *Store) All() []*Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.notes)
}

// Len returns the number of notes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}

// Load replaces the store content. Notes without an ID get a fresh one.
func (s *Store) Load(notes []*Note) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notes = make([]*Note, 0, len(notes))
	for _, n := range notes {
		if n == nil {
			continue
		}
		if n.ID == uuid.Nil {
			n.ID = uuid.New()
		}
		s.notes = append(s.notes, n)
	}
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func noteKey(n *Note) string {
	if n == nil {
		return ""
	}
	return n.ID.String()
}
