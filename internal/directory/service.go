package directory

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tartampluch/go-assistant/internal/config"
	"github.com/tartampluch/go-assistant/internal/domain"
)

// ContactInput carries the already-tokenized arguments of an "add" command.
// Optional fields are skipped when empty.
type ContactInput struct {
	Name     string `validate:"required"`
	Phone    string `validate:"omitempty,contact_phone"`
	Email    string `validate:"omitempty,contact_email"`
	Address  string
	Birthday string
}

// Service implements the contact commands on top of a Directory.
// Every command validates its inputs before touching a record, so a
// rejected command leaves the directory exactly as it was.
type Service struct {
	dir   *Directory
	clock domain.Clock
}

// NewService wires a Service to dir. A nil clock means the real clock.
func NewService(dir *Directory, clock domain.Clock) *Service {
	if clock == nil {
		clock = domain.RealClock{}
	}
	return &Service{dir: dir, clock: clock}
}

// Directory returns the underlying directory.
func (s *Service) Directory() *Directory { return s.dir }

// Add creates the contact or extends an existing one with the supplied fields.
// It reports whether a new record was created.
func (s *Service) Add(in ContactInput) (bool, error) {
	if err := domain.Validator().Struct(in); err != nil {
		return false, translateValidation(err)
	}

	name, err := domain.NewName(in.Name)
	if err != nil {
		return false, err
	}

	var (
		phone    *domain.Phone
		email    *domain.Email
		birthday *domain.Birthday
	)
	if in.Phone != "" {
		p, err := domain.NewPhone(in.Phone)
		if err != nil {
			return false, err
		}
		phone = &p
	}
	if in.Email != "" {
		e, err := domain.NewEmail(in.Email)
		if err != nil {
			return false, err
		}
		email = &e
	}
	if in.Birthday != "" {
		b, err := domain.NewBirthday(in.Birthday, s.clock.Now())
		if err != nil {
			return false, err
		}
		birthday = &b
	}

	_, existed := s.dir.Find(name.String())
	r := s.dir.AddOrGet(name)
	if phone != nil {
		r.AddPhone(*phone)
	}
	if email != nil {
		r.AddEmail(*email)
	}
	if strings.TrimSpace(in.Address) != "" {
		r.SetAddress(domain.NewAddress(in.Address))
	}
	if birthday != nil {
		r.SetBirthday(*birthday)
	}
	return !existed, nil
}

// Show returns the record stored under name.
func (s *Service) Show(name string) (*Record, error) {
	r, ok := s.dir.Find(name)
	if !ok {
		return nil, domain.NewNotFoundError(config.FieldContact, name)
	}
	return r, nil
}

// Delete removes the contact, failing with a not-found error when it is missing.
func (s *Service) Delete(name string) error {
	if !s.dir.Delete(name) {
		return domain.NewNotFoundError(config.FieldContact, name)
	}
	return nil
}

// Rename re-keys a contact; see Directory.Rename.
func (s *Service) Rename(oldName, newName string) error {
	return s.dir.Rename(oldName, newName)
}

// ChangePhone replaces oldPhone with newPhone on the named contact.
func (s *Service) ChangePhone(name, oldPhone, newPhone string) error {
	r, err := s.Show(name)
	if err != nil {
		return err
	}
	p, err := domain.NewPhone(newPhone)
	if err != nil {
		return err
	}
	return r.EditPhone(oldPhone, p)
}

// DeletePhone removes phone from the named contact.
func (s *Service) DeletePhone(name, phone string) error {
	r, err := s.Show(name)
	if err != nil {
		return err
	}
	return r.RemovePhone(phone)
}

// ChangeEmail replaces oldEmail with newEmail on the named contact.
func (s *Service) ChangeEmail(name, oldEmail, newEmail string) error {
	r, err := s.Show(name)
	if err != nil {
		return err
	}
	e, err := domain.NewEmail(newEmail)
	if err != nil {
		return err
	}
	return r.EditEmail(oldEmail, e)
}

// SetAddress replaces the address of the named contact. An empty address clears it.
func (s *Service) SetAddress(name, address string) error {
	r, err := s.Show(name)
	if err != nil {
		return err
	}
	if strings.TrimSpace(address) == "" {
		r.ClearAddress()
		return nil
	}
	r.SetAddress(domain.NewAddress(address))
	return nil
}

// SetBirthday parses raw and stores it on the named contact.
func (s *Service) SetBirthday(name, raw string) error {
	r, err := s.Show(name)
	if err != nil {
		return err
	}
	b, err := domain.NewBirthday(raw, s.clock.Now())
	if err != nil {
		return err
	}
	r.SetBirthday(b)
	return nil
}

// translateValidation turns the first validator failure into a domain validation error.
func translateValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &domain.Error{Kind: domain.KindValidation, Message: err.Error(), Err: err}
	}
	fe := verrs[0]
	return &domain.Error{
		Kind:    domain.KindValidation,
		Field:   strings.ToLower(fe.Field()),
		Message: config.ErrRuleFailed + " " + fe.Tag(),
		Err:     err,
	}
}
