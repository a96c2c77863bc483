package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/tartampluch/go-assistant/internal/config"
)

// Wrapped is implemented by value objects that carry a birthday one level down.
type Wrapped interface {
	WrappedValue() any
}

// maxUnwrapDepth bounds Wrapped/map unwrapping so a self-referencing value cannot loop.
const maxUnwrapDepth = 4

// ParseDate handles the supported birthday layouts, then the ISO-8601 fallbacks.
func ParseDate(value string) (time.Time, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, NewValidationError(config.FieldBirthday, config.ErrBirthdayMissing)
	}

	for _, layout := range config.BirthdayLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return CivilDate(t), nil
		}
	}

	// ISO-8601 fallback keeps the calendar date as written, whatever the offset.
	for _, layout := range config.ISOFallbackLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return CivilDate(t), nil
		}
	}

	return time.Time{}, &Error{
		Kind:    KindValidation,
		Field:   config.FieldBirthday,
		Message: fmt.Sprintf("%s: %q", config.ErrDateParse, v),
	}
}

// NormalizeBirthday converts one of the accepted birthday shapes into a calendar date.
//
// Accepted inputs: time.Time, *time.Time, Birthday, *Birthday, string (any layout
// ParseDate accepts), Wrapped, and map[string]any / map[string]string holding a
// "value" key. Anything else is a validation error.
func NormalizeBirthday(v any) (time.Time, error) {
	return normalizeBirthday(v, 0)
}

func normalizeBirthday(v any, depth int) (time.Time, error) {
	if depth > maxUnwrapDepth {
		return time.Time{}, NewValidationError(config.FieldBirthday, config.ErrBirthdayNested)
	}

	switch x := v.(type) {
	case nil:
		return time.Time{}, NewValidationError(config.FieldBirthday, config.ErrBirthdayMissing)
	case time.Time:
		if x.IsZero() {
			return time.Time{}, NewValidationError(config.FieldBirthday, config.ErrBirthdayMissing)
		}
		return CivilDate(x), nil
	case *time.Time:
		if x == nil {
			return time.Time{}, NewValidationError(config.FieldBirthday, config.ErrBirthdayMissing)
		}
		return normalizeBirthday(*x, depth+1)
	case Birthday:
		return normalizeBirthday(x.value, depth+1)
	case *Birthday:
		if x == nil {
			return time.Time{}, NewValidationError(config.FieldBirthday, config.ErrBirthdayMissing)
		}
		return normalizeBirthday(x.value, depth+1)
	case string:
		return ParseDate(x)
	case Wrapped:
		return normalizeBirthday(x.WrappedValue(), depth+1)
	case map[string]any:
		inner, ok := x[config.WrappedValueKey]
		if !ok {
			return time.Time{}, NewValidationError(config.FieldBirthday, config.ErrBirthdayMissing)
		}
		return normalizeBirthday(inner, depth+1)
	case map[string]string:
		inner, ok := x[config.WrappedValueKey]
		if !ok {
			return time.Time{}, NewValidationError(config.FieldBirthday, config.ErrBirthdayMissing)
		}
		return ParseDate(inner)
	default:
		return time.Time{}, NewValidationError(config.FieldBirthday, fmt.Sprintf("%s: %T", config.ErrBirthdayType, v))
	}
}
