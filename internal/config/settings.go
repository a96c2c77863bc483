package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

// Settings are the user-tunable runtime options. Every field can be given in
// the YAML file passed to Load and overridden by its environment variable.
type Settings struct {
	Storage  string `yaml:"storage" env:"ASSISTANT_STORAGE" env-default:"json" validate:"oneof=json gob vcf sqlite"`
	DataDir  string `yaml:"data_dir" env:"ASSISTANT_DATA_DIR"`
	Language string `yaml:"language" env:"ASSISTANT_LANG" env-default:"en" validate:"oneof=en uk"`
	Debug    bool   `yaml:"debug" env:"ASSISTANT_DEBUG"`

	Birthdays BirthdaySettings `yaml:"birthdays"`
	Search    SearchSettings   `yaml:"search"`
}

// BirthdaySettings tune the congratulation scheduler.
type BirthdaySettings struct {
	Days            int      `yaml:"days" env:"ASSISTANT_BIRTHDAY_DAYS" env-default:"7" validate:"gte=0,lte=366"`
	WeekendPolicy   string   `yaml:"weekend_policy" env:"ASSISTANT_WEEKEND_POLICY" env-default:"monday" validate:"oneof=monday none holidays"`
	Holidays        []string `yaml:"holidays" env:"ASSISTANT_HOLIDAYS" env-separator:","`
	ReminderTrigger string   `yaml:"reminder_trigger" env:"ASSISTANT_REMINDER" env-default:"-P1D"`
}

// SearchSettings tune fuzzy contact search.
type SearchSettings struct {
	FuzzyMinRatio float64 `yaml:"fuzzy_min_ratio" env:"ASSISTANT_FUZZY_MIN_RATIO" env-default:"0.3" validate:"gte=0,lte=1"`
	FuzzyLimit    int     `yaml:"fuzzy_limit" env:"ASSISTANT_FUZZY_LIMIT" env-default:"3" validate:"gt=0"`
}

// LoadSettings reads the settings. With a path the YAML file is read first and
// the environment overrides it; without one only the environment and the
// defaults apply. An empty DataDir resolves to the user config directory.
func LoadSettings(path string) (*Settings, error) {
	var s Settings
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, &s)
	} else {
		err = cleanenv.ReadEnv(&s)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrSettingsLoad, err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	if s.DataDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrConfigDir, err)
		}
		s.DataDir = filepath.Join(base, AppID)
	}
	return &s, nil
}

// Validate checks the value constraints declared in the struct tags.
func (s *Settings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("%s: %w", ErrSettingsValid, err)
	}
	return nil
}

// NotesPath is the location of the notes file inside DataDir.
func (s *Settings) NotesPath() string {
	return filepath.Join(s.DataDir, NotesFileName)
}
