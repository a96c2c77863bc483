package config_test

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-assistant/internal/config"
)

// TestConstants_Integrity ensures critical constants are not empty or malformed.
func TestConstants_Integrity(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"AppName", config.AppName},
		{"AppID", config.AppID},
		{"Version", config.Version},
		{"ICalVersion", config.ICalVersion},
		{"ICalProdid", config.ICalProdid},
		{"ReplPrompt", config.ReplPrompt},
		{"NotesFileName", config.NotesFileName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.value, "Critical constant %s should not be empty", tt.name)
		})
	}
}

// TestDefaults_Sanity checks that default values make sense logically.
func TestDefaults_Sanity(t *testing.T) {
	assert.GreaterOrEqual(t, config.DefaultBirthdayDays, 0)
	assert.Greater(t, config.DefaultFuzzyLimit, 0)
	assert.True(t, config.DefaultFuzzyMinRatio > 0 && config.DefaultFuzzyMinRatio < 1)
	assert.Contains(t, config.SupportedLanguages, config.DefaultLanguage)
	assert.Zero(t, config.BigJubileeStep%config.JubileeStep, "every big jubilee must also be a jubilee")
}

func TestEmailPattern(t *testing.T) {
	re := regexp.MustCompile(config.EmailPattern)
	assert.True(t, re.MatchString("a@b.co"))
	assert.False(t, re.MatchString("a@b"))
	assert.False(t, re.MatchString("a b@c.d"))
}

// TestCommandAliases ensures every alias points at a canonical command, never at another alias.
func TestCommandAliases(t *testing.T) {
	for alias, target := range config.CommandAliases {
		_, chained := config.CommandAliases[target]
		assert.Falsef(t, chained, "alias %q resolves to another alias %q", alias, target)
		assert.NotEqual(t, alias, target)
	}
}

func TestLoadSettings_Defaults(t *testing.T) {
	t.Setenv("ASSISTANT_DATA_DIR", t.TempDir())

	s, err := config.LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultStorage, s.Storage)
	assert.Equal(t, config.DefaultLanguage, s.Language)
	assert.Equal(t, config.DefaultBirthdayDays, s.Birthdays.Days)
	assert.Equal(t, config.PolicyMonday, s.Birthdays.WeekendPolicy)
	assert.Equal(t, config.DefaultReminderTrigger, s.Birthdays.ReminderTrigger)
	assert.InDelta(t, config.DefaultFuzzyMinRatio, s.Search.FuzzyMinRatio, 1e-9)
	assert.Equal(t, config.DefaultFuzzyLimit, s.Search.FuzzyLimit)
}

func TestLoadSettings_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	content := "storage: sqlite\n" +
		"language: uk\n" +
		"data_dir: " + dir + "\n" +
		"birthdays:\n" +
		"  days: 14\n" +
		"  weekend_policy: holidays\n" +
		"  holidays: [\"01.01\", \"24.08\"]\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("ASSISTANT_BIRTHDAY_DAYS", "3")

	s, err := config.LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", s.Storage)
	assert.Equal(t, "uk", s.Language)
	assert.Equal(t, dir, s.DataDir)
	assert.Equal(t, 3, s.Birthdays.Days)
	assert.Equal(t, config.PolicyHolidays, s.Birthdays.WeekendPolicy)
	assert.Equal(t, []string{"01.01", "24.08"}, s.Birthdays.Holidays)
	assert.Equal(t, filepath.Join(dir, config.NotesFileName), s.NotesPath())
}

func TestLoadSettings_Invalid(t *testing.T) {
	t.Setenv("ASSISTANT_DATA_DIR", t.TempDir())

	tests := []struct {
		name, key, value string
	}{
		{"unknown storage", "ASSISTANT_STORAGE", "pickle"},
		{"unknown language", "ASSISTANT_LANG", "fr"},
		{"negative days", "ASSISTANT_BIRTHDAY_DAYS", "-1"},
		{"unknown policy", "ASSISTANT_WEEKEND_POLICY", "friday"},
		{"ratio above one", "ASSISTANT_FUZZY_MIN_RATIO", "1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := config.LoadSettings("")
			assert.Error(t, err)
		})
	}
}

func TestLoadSettings_MissingFile(t *testing.T) {
	_, err := config.LoadSettings(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
