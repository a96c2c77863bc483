package storage_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-assistant/internal/directory"
	"github.com/tartampluch/go-assistant/internal/domain"
	"github.com/tartampluch/go-assistant/internal/notes"
	"github.com/tartampluch/go-assistant/internal/storage"
)

var clock = domain.FixedClock{Time: time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)}

func sample(t *testing.T) *directory.Directory {
	t.Helper()
	svc := directory.NewService(directory.New(), clock)
	inputs := []directory.ContactInput{
		{Name: "Alice", Phone: "+380501111111", Email: "alice@example.com", Address: "Khreshchatyk 1", Birthday: "14.03.1990"},
		{Name: "Bob", Phone: "0502222222"},
		{Name: "Olena Kovalenko", Email: "olena@example.org", Birthday: "1985-12-01"},
	}
	for _, in := range inputs {
		_, err := svc.Add(in)
		require.NoError(t, err)
	}
	_, err := svc.Add(directory.ContactInput{Name: "Bob", Phone: "0503333333"})
	require.NoError(t, err)
	return svc.Directory()
}

func TestBackends_RoundTrip(t *testing.T) {
	for _, kind := range storage.Kinds {
		t.Run(string(kind), func(t *testing.T) {
			dir := t.TempDir()
			b, err := storage.New(kind, dir, clock)
			require.NoError(t, err)

			want := sample(t)
			require.NoError(t, b.Save(want))

			got, err := b.Load()
			require.NoError(t, err)
			if diff := cmp.Diff(want.Snapshot(), got.Snapshot()); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}

			// Saving again overwrites rather than appends.
			require.True(t, want.Delete("Bob"))
			require.NoError(t, b.Save(want))
			got, err = b.Load()
			require.NoError(t, err)
			assert.Equal(t, 2, got.Len())
		})
	}
}

func TestBackends_MissingFileIsEmpty(t *testing.T) {
	for _, kind := range storage.Kinds {
		t.Run(string(kind), func(t *testing.T) {
			b, err := storage.New(kind, filepath.Join(t.TempDir(), "nested"), clock)
			require.NoError(t, err)
			d, err := b.Load()
			require.NoError(t, err)
			assert.Equal(t, 0, d.Len())
		})
	}
}

func TestNew_UnknownKind(t *testing.T) {
	_, err := storage.New("pickle", t.TempDir(), clock)
	assert.Error(t, err)
}

func TestJSON_KeepsRecordsWithInvalidValues(t *testing.T) {
	dir := t.TempDir()
	content := `[
		{"name": "Alice", "phones": ["380501111111"]},
		{"name": "Broken", "phones": ["111"]},
		{"name": "", "emails": ["x@y.z"]},
		{"name": "Future", "birthday": "2999-01-01"},
		{"name": "Alice"}
	]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "addressbook.json"), []byte(content), 0o600))

	b, err := storage.New(storage.KindJSON, dir, clock)
	require.NoError(t, err)
	d, err := b.Load()
	require.NoError(t, err)
	// The nameless entry and the duplicate Alice are skipped.
	require.Equal(t, 3, d.Len())
	r, ok := d.Find("Alice")
	require.True(t, ok)
	assert.Len(t, r.Phones(), 1)

	broken, ok := d.Find("Broken")
	require.True(t, ok)
	assert.Empty(t, broken.Phones())
	future, ok := d.Find("Future")
	require.True(t, ok)
	_, ok = future.Birthday()
	assert.False(t, ok)

	// Saving the loaded directory keeps every surviving contact on disk.
	require.NoError(t, b.Save(d))
	again, err := b.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Broken", "Future"}, func() []string {
		var names []string
		for _, r := range again.All() {
			names = append(names, r.Name())
		}
		return names
	}())
}

func TestJSON_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "addressbook.json"), []byte("{not json"), 0o600))
	b, _ := storage.New(storage.KindJSON, dir, clock)
	_, err := b.Load()
	assert.Error(t, err)
}

func TestImportVCard(t *testing.T) {
	vcf := "BEGIN:VCARD\r\nVERSION:4.0\r\nFN:Alice\r\nTEL:0509999999\r\nEMAIL:alice@work.com\r\nEND:VCARD\r\n" +
		"BEGIN:VCARD\r\nVERSION:4.0\r\nFN:Dmytro\r\nTEL:0504444444\r\nBDAY:19920704\r\nEND:VCARD\r\n" +
		"BEGIN:VCARD\r\nVERSION:4.0\r\nFN:Bad Phone\r\nTEL:12\r\nEND:VCARD\r\n" +
		"BEGIN:VCARD\r\nVERSION:4.0\r\nTEL:0505555555\r\nEND:VCARD\r\n"

	d := sample(t)
	n, err := storage.ImportVCard(strings.NewReader(vcf), d, clock)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 5, d.Len())

	// A card with a bad phone keeps its name, the phone is dropped.
	badPhone, ok := d.Find("Bad Phone")
	require.True(t, ok)
	assert.Empty(t, badPhone.Phones())

	alice, _ := d.Find("Alice")
	assert.Len(t, alice.Phones(), 2)
	assert.Len(t, alice.Emails(), 2)

	dmytro, ok := d.Find("Dmytro")
	require.True(t, ok)
	bd, ok := dmytro.Birthday()
	require.True(t, ok)
	assert.Equal(t, "04.07.1992", bd.String())
}

func TestExportVCard(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, storage.ExportVCard(&buf, sample(t).All()))
	out := buf.String()
	assert.Equal(t, 3, strings.Count(out, "BEGIN:VCARD"))
	assert.Contains(t, out, "FN:Olena Kovalenko")
	assert.Contains(t, out, "BDAY:1990-03-14")
}

func TestNotesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.json")
	f := storage.NotesFile{Path: path}

	loaded, err := f.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)

	store := notes.NewStore(clock)
	_, err = store.Add("Buy milk", []string{"shopping"})
	require.NoError(t, err)
	_, err = store.Add("call mom", nil)
	require.NoError(t, err)
	require.NoError(t, f.Save(store.All()))

	loaded, err = f.Load()
	require.NoError(t, err)
	if diff := cmp.Diff(store.All(), loaded); diff != "" {
		t.Errorf("notes mismatch (-want +got):\n%s", diff)
	}
}

func TestNotesFile_LegacyShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"text": "old note", "tags": ["a", "b"]}]`), 0o600))

	loaded, err := storage.NotesFile{Path: path}.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "old note", loaded[0].Text)
	assert.Equal(t, []string{"a", "b"}, loaded[0].Tags)
	assert.Equal(t, uuid.Nil, loaded[0].ID)

	store := notes.NewStore(clock)
	store.Load(loaded)
	assert.NotEqual(t, uuid.Nil, store.All()[0].ID)
}
