package directory_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-assistant/internal/directory"
	"github.com/tartampluch/go-assistant/internal/domain"
)

var today = time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)

func mustName(t *testing.T, raw string) domain.Name {
	t.Helper()
	n, err := domain.NewName(raw)
	require.NoError(t, err)
	return n
}

func seed(t *testing.T) *directory.Directory {
	t.Helper()
	d := directory.New()
	svc := directory.NewService(d, domain.FixedClock{Time: today})
	_, err := svc.Add(directory.ContactInput{Name: "Alice", Phone: "+380501111111", Email: "alice@example.com", Birthday: "14.03.1990"})
	require.NoError(t, err)
	_, err = svc.Add(directory.ContactInput{Name: "Bob", Phone: "0502222222", Address: "Kyiv, Khreshchatyk 1"})
	require.NoError(t, err)
	_, err = svc.Add(directory.ContactInput{Name: "carol"})
	require.NoError(t, err)
	return d
}

func names(records []*directory.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Name())
	}
	return out
}

func TestAddOrGet(t *testing.T) {
	d := directory.New()
	a := d.AddOrGet(mustName(t, "Alice"))
	b := d.AddOrGet(mustName(t, "Alice"))
	assert.Same(t, a, b)
	assert.Equal(t, 1, d.Len())
}

func TestRename_RoundTrip(t *testing.T) {
	d := seed(t)
	before := d.Snapshot()

	require.NoError(t, d.Rename("Alice", "Alicia"))
	_, ok := d.Find("Alice")
	assert.False(t, ok)
	r, ok := d.Find("Alicia")
	require.True(t, ok)
	assert.Equal(t, "Alicia", r.Name())
	assert.Equal(t, []string{"Alicia", "Bob", "carol"}, names(d.All()), "position is kept")

	require.NoError(t, d.Rename("Alicia", "Alice"))
	if diff := cmp.Diff(before, d.Snapshot()); diff != "" {
		t.Errorf("snapshot mismatch after A->B->A (-want +got):\n%s", diff)
	}
}

func TestRename_Failures(t *testing.T) {
	d := seed(t)
	before := d.Snapshot()

	err := d.Rename("Zed", "Zack")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = d.Rename("Alice", "Bob")
	assert.ErrorIs(t, err, domain.ErrConflict)

	err = d.Rename("Alice", "Alice")
	assert.ErrorIs(t, err, domain.ErrConflict)

	err = d.Rename("Alice", "  ")
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Empty(t, cmp.Diff(before, d.Snapshot()))
}

func TestDelete(t *testing.T) {
	d := seed(t)
	assert.True(t, d.Delete("Bob"))
	assert.False(t, d.Delete("Bob"))
	assert.Equal(t, []string{"Alice", "carol"}, names(d.All()))
}

func TestPut_Conflict(t *testing.T) {
	d := seed(t)
	err := d.Put(directory.NewRecord(mustName(t, "Alice")))
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 3, d.Len())
}

func TestSorted(t *testing.T) {
	d := seed(t)
	d.AddOrGet(mustName(t, "aaron"))

	assert.Equal(t, []string{"aaron", "Alice", "Bob", "carol"}, names(d.Sorted(directory.SortNameAsc)))
	assert.Equal(t, []string{"carol", "Bob", "Alice", "aaron"}, names(d.Sorted(directory.SortNameDesc)))
	assert.Equal(t, []string{"Alice", "Bob", "carol", "aaron"}, names(d.All()), "storage order untouched")
}

func TestFindByAddress(t *testing.T) {
	d := seed(t)
	assert.Equal(t, []string{"Bob"}, names(d.FindByAddress("kyiv")))
	assert.Empty(t, d.FindByAddress("lviv"))
}

func TestRecordPhones(t *testing.T) {
	r := directory.NewRecord(mustName(t, "Dan"))
	p1, _ := domain.NewPhone("0501111111")
	p2, _ := domain.NewPhone("0502222222")
	r.AddPhone(p1)
	r.AddPhone(p2)

	got, ok := r.FindPhone("050 111 11 11")
	require.True(t, ok)
	assert.Equal(t, "380501111111", got.String())

	p3, _ := domain.NewPhone("0503333333")
	require.NoError(t, r.EditPhone("380501111111", p3))
	assert.Equal(t, "380503333333", r.Phones()[0].String())

	assert.ErrorIs(t, r.RemovePhone("0509999999"), domain.ErrNotFound)
	require.NoError(t, r.RemovePhone("0502222222"))
	assert.Len(t, r.Phones(), 1)
}

func TestClone_IsIndependent(t *testing.T) {
	d := seed(t)
	r, _ := d.Find("Alice")
	c := r.Clone()
	p, _ := domain.NewPhone("0509999999")
	c.AddPhone(p)
	c.ClearBirthday()

	assert.Len(t, r.Phones(), 1)
	_, ok := r.Birthday()
	assert.True(t, ok)
}

func TestFromData(t *testing.T) {
	r, dropped, err := directory.FromData(directory.Data{
		Name:     "Eve",
		Phones:   []string{"380501234567"},
		Emails:   []string{"eve@example.com"},
		Birthday: "1985-12-01",
	}, today)
	require.NoError(t, err)
	assert.Empty(t, dropped)
	assert.Equal(t, "01.12.1985", func() string { b, _ := r.Birthday(); return b.String() }())

	// Bad values are left out, the contact survives.
	r, dropped, err = directory.FromData(directory.Data{
		Name:     "Eve",
		Phones:   []string{"12", "0501234567"},
		Emails:   []string{"bad"},
		Address:  "Kyiv",
		Birthday: "2999-01-01",
	}, today)
	require.NoError(t, err)
	require.Len(t, dropped, 3)
	for _, e := range dropped {
		assert.ErrorIs(t, e, domain.ErrValidation)
	}
	assert.Equal(t, "Eve", r.Name())
	require.Len(t, r.Phones(), 1)
	assert.Equal(t, "380501234567", r.Phones()[0].String())
	assert.Empty(t, r.Emails())
	_, ok := r.Birthday()
	assert.False(t, ok)
	a, ok := r.Address()
	require.True(t, ok)
	assert.Equal(t, "Kyiv", a.String())

	_, _, err = directory.FromData(directory.Data{Name: "  ", Phones: []string{"380501234567"}}, today)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
