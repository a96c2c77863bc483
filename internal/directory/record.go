package directory

import (
	"slices"

	"github.com/tartampluch/go-assistant/internal/config"
	"github.com/tartampluch/go-assistant/internal/domain"
)

// Record aggregates the field values of one person.
// Records are owned by a Directory; the name can only change through Directory.Rename.
type Record struct {
	name     domain.Name
	phones   []domain.Phone
	emails   []domain.Email
	address  *domain.Address
	birthday *domain.Birthday
}

// NewRecord returns an empty record for name. It is not stored anywhere until
// passed to Directory.Put.
func NewRecord(name domain.Name) *Record {
	return &Record{name: name}
}

// Name returns the record's key.
func (r *Record) Name() string { return r.name.String() }

// Phones returns a copy of the phone list, in insertion order.
func (r *Record) Phones() []domain.Phone { return slices.Clone(r.phones) }

// Emails returns a copy of the email list, in insertion order.
func (r *Record) Emails() []domain.Email { return slices.Clone(r.emails) }

// Address returns the address, if set.
func (r *Record) Address() (domain.Address, bool) {
	if r.address == nil {
		return domain.Address{}, false
	}
	return *r.address, true
}

// Birthday returns the birthday, if set.
func (r *Record) Birthday() (domain.Birthday, bool) {
	if r.birthday == nil {
		return domain.Birthday{}, false
	}
	return *r.birthday, true
}

// BirthdayValue exposes the birthday in the loose form the scheduler accepts;
// nil when unset.
func (r *Record) BirthdayValue() any {
	if r.birthday == nil {
		return nil
	}
	return *r.birthday
}

// AddPhone appends p. Duplicates are allowed.
func (r *Record) AddPhone(p domain.Phone) {
	r.phones = append(r.phones, p)
}

// FindPhone returns the first phone equal to raw once normalized.
func (r *Record) FindPhone(raw string) (domain.Phone, bool) {
	i := r.phoneIndex(raw)
	if i < 0 {
		return domain.Phone{}, false
	}
	return r.phones[i], true
}

// RemovePhone drops the first phone matching raw.
func (r *Record) RemovePhone(raw string) error {
	i := r.phoneIndex(raw)
	if i < 0 {
		return domain.NewNotFoundError(config.FieldPhone, raw)
	}
	r.phones = slices.Delete(r.phones, i, i+1)
	return nil
}

// EditPhone replaces the first phone matching old with replacement, keeping its position.
func (r *Record) EditPhone(old string, replacement domain.Phone) error {
	i := r.phoneIndex(old)
	if i < 0 {
		return domain.NewNotFoundError(config.FieldPhone, old)
	}
	r.phones[i] = replacement
	return nil
}

func (r *Record) phoneIndex(raw string) int {
	normalized, err := domain.NormalizePhone(raw)
	if err != nil {
		return -1
	}
	return slices.IndexFunc(r.phones, func(p domain.Phone) bool {
		return p.String() == normalized || p.String() == raw
	})
}

// AddEmail appends e.
func (r *Record) AddEmail(e domain.Email) {
	r.emails = append(r.emails, e)
}

// RemoveEmail drops the first email equal to raw.
func (r *Record) RemoveEmail(raw string) error {
	i := r.emailIndex(raw)
	if i < 0 {
		return domain.NewNotFoundError(config.FieldEmail, raw)
	}
	r.emails = slices.Delete(r.emails, i, i+1)
	return nil
}

// EditEmail replaces the first email equal to old, keeping its position.
func (r *Record) EditEmail(old string, replacement domain.Email) error {
	i := r.emailIndex(old)
	if i < 0 {
		return domain.NewNotFoundError(config.FieldEmail, old)
	}
	r.emails[i] = replacement
	return nil
}

func (r *Record) emailIndex(raw string) int {
	return slices.IndexFunc(r.emails, func(e domain.Email) bool {
		return e.String() == raw
	})
}

// SetAddress replaces the address.
func (r *Record) SetAddress(a domain.Address) {
	r.address = &a
}

// ClearAddress removes the address.
func (r *Record) ClearAddress() {
	r.address = nil
}

// SetBirthday replaces the birthday.
func (r *Record) SetBirthday(b domain.Birthday) {
	r.birthday = &b
}

// ClearBirthday removes the birthday.
func (r *Record) ClearBirthday() {
	r.birthday = nil
}

// Clone returns a deep copy that shares no state with r.
func (r *Record) Clone() *Record {
	c := &Record{
		name:   r.name,
		phones: slices.Clone(r.phones),
		emails: slices.Clone(r.emails),
	}
	if r.address != nil {
		a := *r.address
		c.address = &a
	}
	if r.birthday != nil {
		b := *r.birthday
		c.birthday = &b
	}
	return c
}
