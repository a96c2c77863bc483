package domain

import (
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/tartampluch/go-assistant/internal/config"
)

var emailPattern = regexp.MustCompile(config.EmailPattern)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator with the contact-specific tags registered.
// Struct-level inputs (see directory.ContactInput) reuse it so that tag rules and
// the field constructors below agree on what is valid.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation(config.TagContactEmail, func(fl validator.FieldLevel) bool {
			return emailPattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation(config.TagContactPhone, func(fl validator.FieldLevel) bool {
			_, err := NewPhone(fl.Field().String())
			return err == nil
		})
		validate = v
	})
	return validate
}

// -----------------------------------------------------------------------------
// Name
// -----------------------------------------------------------------------------

// Name is a contact's display name and its key in the directory.
type Name struct {
	value string
}

// NewName trims raw and rejects empty names.
func NewName(raw string) (Name, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return Name{}, NewValidationError(config.FieldName, config.ErrNameEmpty)
	}
	return Name{value: v}, nil
}

func (n Name) String() string { return n.value }

// -----------------------------------------------------------------------------
// Phone
// -----------------------------------------------------------------------------

// Phone is a digit string normalized to the international prefix length.
type Phone struct {
	value string
}

// NormalizePhone keeps only the digits of raw and prepends the country prefix
// when the number does not already start with it.
func NormalizePhone(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", NewValidationError(config.FieldPhone, config.ErrPhoneEmpty)
	}

	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if digits != "" && digits[0] == config.PhoneCountryLead {
		return digits, nil
	}
	return config.PhoneCountryPrefix + digits, nil
}

// NewPhone normalizes raw and requires exactly config.PhoneDigits digits.
func NewPhone(raw string) (Phone, error) {
	normalized, err := NormalizePhone(raw)
	if err != nil {
		return Phone{}, err
	}
	return validatePhone(normalized)
}

func validatePhone(normalized string) (Phone, error) {
	for _, r := range normalized {
		if !unicode.IsDigit(r) {
			return Phone{}, NewValidationError(config.FieldPhone, config.ErrPhoneDigits)
		}
	}
	if len(normalized) != config.PhoneDigits {
		return Phone{}, NewValidationError(config.FieldPhone, config.ErrPhoneLength)
	}
	return Phone{value: normalized}, nil
}

func (p Phone) String() string { return p.value }

// -----------------------------------------------------------------------------
// Email
// -----------------------------------------------------------------------------

// Email is a pattern-checked email address.
type Email struct {
	value string
}

// NewEmail trims raw and validates it with the contact_email rule.
func NewEmail(raw string) (Email, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return Email{}, NewValidationError(config.FieldEmail, config.ErrEmailEmpty)
	}
	if err := Validator().Var(v, config.TagContactEmail); err != nil {
		return Email{}, &Error{Kind: KindValidation, Field: config.FieldEmail, Message: config.ErrEmailInvalid, Err: err}
	}
	return Email{value: v}, nil
}

func (e Email) String() string { return e.value }

// -----------------------------------------------------------------------------
// Address
// -----------------------------------------------------------------------------

// Address is a free-form postal address.
type Address struct {
	value string
}

// NewAddress trims raw. Any text is accepted.
func NewAddress(raw string) Address {
	return Address{value: strings.TrimSpace(raw)}
}

func (a Address) String() string { return a.value }

// -----------------------------------------------------------------------------
// Birthday
// -----------------------------------------------------------------------------

// Birthday is a calendar date that is not in the future.
type Birthday struct {
	value time.Time
}

// NewBirthday parses raw with ParseDate and checks it against today.
func NewBirthday(raw string, now time.Time) (Birthday, error) {
	t, err := ParseDate(raw)
	if err != nil {
		return Birthday{}, err
	}
	return NewBirthdayFromDate(t, now)
}

// NewBirthdayFromDate truncates t to its calendar date and rejects dates after today.
func NewBirthdayFromDate(t time.Time, now time.Time) (Birthday, error) {
	if t.IsZero() {
		return Birthday{}, NewValidationError(config.FieldBirthday, config.ErrBirthdayMissing)
	}
	date := CivilDate(t)
	if date.After(CivilDate(now)) {
		return Birthday{}, NewValidationError(config.FieldBirthday, config.ErrBirthdayFuture)
	}
	return Birthday{value: date}, nil
}

// Value returns the birth date at UTC midnight.
func (b Birthday) Value() time.Time { return b.value }

// String renders the date as DD.MM.YYYY.
func (b Birthday) String() string {
	return b.value.Format(config.DateFormatDisplay)
}
