package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName        = "Go Assistant"
	AppID          = "com.github.tartampluch.go-assistant"
	BinaryName     = "go-assistant"
	LogFileName    = "app.log"
	NotesFileName  = "notes.json"
	SettingsEnvVar = "ASSISTANT_CONFIG"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for the address book, notes and logs.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// TempFilePattern is appended to the target name for atomic writes.
	TempFilePattern = ".*.tmp"
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion = "version"
	FlagDebug   = "debug"
	FlagConfig  = "config"
	FlagStorage = "storage"
	FlagDataDir = "data-dir"
	FlagLang    = "lang"
	FlagSort    = "sort"
	FlagDate    = "date"
	FlagICS     = "ics"
	FlagTags    = "tags"
	FlagTag     = "tag"

	FlagDescVersion = "Show application version and exit"
	FlagDescDebug   = "Enable debug logging to stdout"
	FlagDescConfig  = "Path to a YAML settings file"
	FlagDescStorage = "Address book backend: json, gob, vcf or sqlite"
	FlagDescDataDir = "Directory holding the address book and notes"
	FlagDescLang    = "Interface language (en, uk)"
	FlagDescSortC   = "Sort order: az or za"
	FlagDescSortN   = "Sort order: az, za, newest or oldest"
	FlagDescDate    = "List birthdays on this calendar day instead of a window"
	FlagDescICS     = "Also write the schedule to this .ics file"
	FlagDescTags    = "Comma-separated tags"
	FlagDescTag     = "Only notes carrying this tag"

	MsgVersionOutput = "%s version %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// Commands
// -----------------------------------------------------------------------------

const (
	CmdAdd            = "add"
	CmdShow           = "show"
	CmdAll            = "all"
	CmdSearchContacts = "search-contacts"
	CmdFindAddress    = "find-address"
	CmdChange         = "change"
	CmdChangeEmail    = "change-email"
	CmdSetAddress     = "set-address"
	CmdSetBirthday    = "set-birthday"
	CmdRename         = "rename"
	CmdDelete         = "delete"
	CmdDeletePhone    = "delete-phone"
	CmdBirthdays      = "birthdays"
	CmdNoteAdd        = "note-add"
	CmdNoteDel        = "note-del"
	CmdNoteEdit       = "note-edit"
	CmdNoteList       = "note-list"
	CmdContacts       = "contacts"
	CmdImport         = "import"
	CmdExport         = "export"
	CmdHello          = "hello"
	CmdHelp           = "help"
	CmdExit           = "exit"
	CmdQuit           = "quit"
	CmdClose          = "close"

	ShortRoot           = "Local contact book, birthday planner and notes"
	ShortAdd            = "Add a contact or extend an existing one"
	ShortShow           = "Show one contact"
	ShortAll            = "List every contact"
	ShortSearchContacts = "Search contacts (exact, then fuzzy)"
	ShortFindAddress    = "Find contacts by address"
	ShortChange         = "Replace a phone number"
	ShortChangeEmail    = "Replace an email address"
	ShortSetAddress     = "Set or clear the address"
	ShortSetBirthday    = "Set the birthday"
	ShortRename         = "Rename a contact"
	ShortDelete         = "Delete a contact"
	ShortDeletePhone    = "Remove a phone number"
	ShortBirthdays      = "Upcoming birthdays, shifted off weekends"
	ShortNoteAdd        = "Add a note"
	ShortNoteDel        = "Delete the first note matching a query"
	ShortNoteEdit       = "Edit the first note matching a query"
	ShortNoteList       = "List or search notes"
	ShortContacts       = "Import or export vCard files"
	ShortImport         = "Merge contacts from a .vcf file"
	ShortExport         = "Write all contacts to a .vcf file"
	ShortHello          = "Say hello"
	ShortExit           = "Leave the interactive session"

	UseAdd            = "add <name> [phone] [email] [address] [birthday]"
	UseShow           = "show <name>"
	UseSearchContacts = "search-contacts <query>"
	UseFindAddress    = "find-address <query>"
	UseChange         = "change <name> <old-phone> <new-phone>"
	UseChangeEmail    = "change-email <name> <old-email> <new-email>"
	UseSetAddress     = "set-address <name> [address]"
	UseSetBirthday    = "set-birthday <name> <date>"
	UseRename         = "rename <old-name> <new-name>"
	UseDelete         = "delete <name>"
	UseDeletePhone    = "delete-phone <name> <phone>"
	UseBirthdays      = "birthdays [days]"
	UseNoteAdd        = "note-add <text>"
	UseNoteDel        = "note-del <query>"
	UseNoteEdit       = "note-edit <query> <text>"
	UseNoteList       = "note-list [query]"
	UseImport         = "import <file.vcf>"
	UseExport         = "export <file.vcf>"

	// AnnotationMutates marks commands whose success must be persisted.
	AnnotationMutates = "mutates"
	MutatesContacts   = "contacts"
	MutatesNotes      = "notes"

	ReplPrompt        = ">>> "
	TagSeparator      = ","
	SuggestionCutoff  = 0.6
	ReplLineBuffer    = 1
	ReplMaxLineLength = 1 << 20
)

// CommandAliases maps shorthand and legacy command names onto canonical ones.
var CommandAliases = map[string]string{
	"create":        CmdAdd,
	"new":           CmdAdd,
	"list":          CmdAll,
	"list-contacts": CmdAll,
	"search":        CmdSearchContacts,
	"find":          CmdSearchContacts,
	"edit":          CmdChange,
	"remove":        CmdDelete,
	"del":           CmdDelete,
	"na":            CmdNoteAdd,
	"nd":            CmdNoteDel,
	"ne":            CmdNoteEdit,
	"nl":            CmdNoteList,
	"ns":            CmdNoteList,
	"bd":            CmdBirthdays,
	CmdQuit:         CmdExit,
	CmdClose:        CmdExit,
}

// -----------------------------------------------------------------------------
// Settings Defaults
// -----------------------------------------------------------------------------

const (
	DefaultLanguage        = "en"
	DefaultStorage         = "json"
	DefaultBirthdayDays    = 7
	DefaultFuzzyMinRatio   = 0.3
	DefaultFuzzyLimit      = 3
	DefaultReminderTrigger = "-P1D"
	DefaultJubileeStep     = 5

	PolicyMonday   = "monday"
	PolicyNone     = "none"
	PolicyHolidays = "holidays"
)

// SupportedLanguages defines the list of available UI languages (ISO 639-1).
var SupportedLanguages = []string{"en", "uk"}

// -----------------------------------------------------------------------------
// Contact Field Rules
// -----------------------------------------------------------------------------

const (
	// Phones keep digits only; numbers not starting with the country lead get the prefix.
	PhoneCountryLead   byte = '3'
	PhoneCountryPrefix      = "38"
	PhoneDigits             = 12

	EmailPattern = `^[^@\s]+@[^@\s]+\.[^@\s]+$`

	// Validator tags registered on the shared validator.
	TagContactEmail = "contact_email"
	TagContactPhone = "contact_phone"

	// WrappedValueKey is the map key holding a wrapped birthday.
	WrappedValueKey = "value"

	FieldName     = "name"
	FieldPhone    = "phone"
	FieldEmail    = "email"
	FieldAddress  = "address"
	FieldBirthday = "birthday"
	FieldContact  = "contact"
	FieldNote     = "note"
	FieldText     = "text"

	ArgDays  = "days"
	ArgDate  = "date"
	ArgQuery = "query"
)

// -----------------------------------------------------------------------------
// Birthday Scheduling
// -----------------------------------------------------------------------------

const (
	JubileeStep         = DefaultJubileeStep
	BigJubileeStep      = 10
	DaysPerLeapYear     = 366
	MaxHolidayShiftDays = 31
	HolidayLayout       = "02.01"

	// MaxWindowDays caps the FindNear horizon well inside what time.Time can represent.
	MaxWindowDays = 1_000_000
	// WindowTailDays is the stretch of a long window that is actually scanned.
	// Eight years always hold a Feb 29, even across a skipped century leap year.
	WindowTailDays = 8 * DaysPerLeapYear
)

// -----------------------------------------------------------------------------
// Data Formats & File Extensions
// -----------------------------------------------------------------------------

const (
	DateFormatDisplay = "02.01.2006"
	DateFormatISO     = "2006-01-02"
	DateTimeDisplay   = "02.01.2006 15:04"

	AddressBookBase = "addressbook"
	ExtJSON         = ".json"
	ExtGob          = ".gob"
	ExtVCF          = ".vcf"
	ExtSQLite       = ".db"
	ExtICS          = ".ics"

	JSONIndent   = "  "
	SQLiteDriver = "sqlite"
	VCardVersion = "4.0"
	SourceImport = "vcard-import"

	// UID Generation
	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
	FormatUID       = "%x-%d@%s"
	UIDSalt         = "go-assistant-v1-"
)

// BirthdayLayouts are tried in order when parsing a birthday string.
var BirthdayLayouts = []string{DateFormatISO, "2006.01.02", DateFormatDisplay}

// ISOFallbackLayouts are tried after BirthdayLayouts. Only the calendar date is kept.
var ISOFallbackLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"20060102",
}

// -----------------------------------------------------------------------------
// Standards: iCalendar
// -----------------------------------------------------------------------------

const (
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go Assistant//Birthdays//EN"
	ICalCalName   = "Congratulations"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "goassistant"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWelcome         = "welcome"
	TKeyHint            = "hint"
	TKeyHello           = "hello"
	TKeyGoodbye         = "goodbye"
	TKeyContactAdded    = "contact_added"   // Requires Name
	TKeyContactUpdated  = "contact_updated" // Requires Name
	TKeyContactDeleted  = "contact_deleted" // Requires Name
	TKeyContactRenamed  = "contact_renamed" // Requires Old, New
	TKeyPhoneChanged    = "phone_changed"   // Requires Name
	TKeyPhoneDeleted    = "phone_deleted"   // Requires Name
	TKeyEmailChanged    = "email_changed"   // Requires Name
	TKeyAddressSet      = "address_set"     // Requires Name
	TKeyAddressCleared  = "address_cleared" // Requires Name
	TKeyBirthdaySet     = "birthday_set"    // Requires Name, Date
	TKeyNoContacts      = "no_contacts"
	TKeyTotalContacts   = "total_contacts" // Requires Count
	TKeySearchFuzzy     = "search_fuzzy"
	TKeyNoMatches       = "no_matches"
	TKeyNoBirthdays     = "no_birthdays"     // Requires Days
	TKeyBirthdaysHeader = "birthdays_header" // Requires Days
	TKeyBirthdaysOnDate = "birthdays_on"     // Requires Date
	TKeyNoBirthdaysOn   = "no_birthdays_on"  // Requires Date
	TKeyCalendarWritten = "calendar_written" // Requires Path, Count
	TKeyShiftedFrom     = "shifted_from"     // Requires Weekday, Date
	TKeyJubilee         = "jubilee"
	TKeyNoteAdded       = "note_added"
	TKeyNoteDeleted     = "note_deleted"
	TKeyNoteEdited      = "note_edited"
	TKeyNoNotes         = "no_notes"
	TKeyTotalNotes      = "total_notes"       // Requires Count
	TKeyImported        = "contacts_imported" // Requires Count
	TKeyExported        = "contacts_exported" // Requires Count, Path
	TKeyUnknownCommand  = "unknown_command"   // Requires Command
	TKeyDidYouMean      = "did_you_mean"      // Requires Suggestion
	TKeyEvtSummary      = "event_summary"     // Requires Name
	TKeyEvtSummaryAge   = "event_summary_age" // Requires Name, Age

	// Column Headers
	TKeyColIndex    = "col_index"
	TKeyColName     = "col_name"
	TKeyColPhones   = "col_phones"
	TKeyColEmails   = "col_emails"
	TKeyColAddress  = "col_address"
	TKeyColBirthday = "col_birthday"
	TKeyColDate     = "col_date"
	TKeyColWeekday  = "col_weekday"
	TKeyColAge      = "col_age"
	TKeyColPhone    = "col_phone"
	TKeyColEmail    = "col_email"
	TKeyColText     = "col_text"
	TKeyColTags     = "col_tags"
	TKeyColCreated  = "col_created"

	// Errors, selected by domain.Kind
	TKeyErrValidation = "err_validation"       // Requires Field, Message
	TKeyErrNotFound   = "err_not_found"        // Requires Field, Message
	TKeyErrConflict   = "err_conflict"         // Requires Field, Message
	TKeyErrInvalidArg = "err_invalid_argument" // Requires Field, Message
	TKeyErrUnknown    = "err_unknown"          // Requires Error

	// TKeyFieldPrefix + a Field* constant names a field in the active language.
	TKeyFieldPrefix = "field_"
	// TKeyWeekdayPrefix + a lowercase English weekday names the day in the active language.
	TKeyWeekdayPrefix = "weekday_"
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrNameEmpty       = "name must not be empty"
	ErrPhoneEmpty      = "phone must not be empty"
	ErrPhoneDigits     = "phone must contain digits only"
	ErrPhoneLength     = "phone must have exactly 12 digits"
	ErrEmailEmpty      = "email must not be empty"
	ErrEmailInvalid    = "email is not a valid address"
	ErrBirthdayMissing = "birthday is missing"
	ErrBirthdayFuture  = "birthday cannot be in the future"
	ErrBirthdayNested  = "birthday value is nested too deeply"
	ErrBirthdayType    = "unsupported birthday type"
	ErrDateParse       = "unable to parse date, use DD.MM.YYYY or YYYY-MM-DD"
	ErrRuleFailed      = "failed rule"
	ErrNoteEmpty       = "note text must not be empty"
	ErrQueryEmpty      = "query must not be empty"
	ErrDaysNegative    = "days must not be negative"
	ErrHolidayParse    = "invalid holiday, expected DD.MM"
	ErrPolicyUnknown   = "unknown weekend policy"
	ErrCardNoName      = "card has neither FN nor N"

	ErrStorageKind   = "configuration error: unsupported storage type"
	ErrStorageRead   = "failed to read storage"
	ErrStorageWrite  = "failed to write storage"
	ErrStorageDecode = "failed to decode storage"
	ErrDBOpen        = "failed to open database"
	ErrDBSchema      = "failed to initialize database schema"
	ErrVCardParse    = "failed to parse vCard stream"
	ErrVCardEncode   = "failed to encode vCard"
	ErrICalEncode    = "failed to encode iCalendar data"
	ErrSettingsLoad  = "failed to load settings"
	ErrSettingsValid = "invalid settings"
	ErrFileOpen      = "failed to open file"
	ErrFileWrite     = "failed to write file"

	ErrLogFile       = "failed to open log file"
	ErrCacheDir      = "could not determine user cache dir"
	ErrConfigDir     = "could not determine user config dir"
	ErrCreateDir     = "could not create directory"
	ErrAppFailed     = "application failed unexpectedly"
	ErrLocalesAccess = "failed to access embedded locales"
	ErrLocaleLoad    = "failed to load locale file"
)

// -----------------------------------------------------------------------------
// Fallbacks & Log Messages
// -----------------------------------------------------------------------------

const (
	FallbackSummary = "Congratulate %s"

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	MsgAppStarting     = "Starting application"
	MsgAppStop         = "Application stopped gracefully"
	MsgCtxCancel       = "Context cancelled, leaving interactive session"
	MsgLogWarning      = "Warning: %s at %s: %v\n"
	MsgSettingsLoaded  = "Settings loaded"
	MsgStorageLoaded   = "Address book loaded"
	MsgStorageSaved    = "Storage file written"
	MsgNotesLoaded     = "Notes loaded"
	MsgSkippedRecord   = "Skipping invalid stored record"
	MsgDroppedField    = "Dropping invalid stored value"
	MsgSkippedCard     = "Skipping malformed vCard"
	MsgSkippedDate     = "Skipping invalid date format"
	MsgSkippedBirthday = "Skipping unparseable birthday"
	MsgScheduleBuilt   = "Congratulation schedule built"
	MsgCalendarBuilt   = "Calendar generation successful"
	MsgVCardImported   = "vCard import finished"
	MsgCommandRun      = "Command executed"
	MsgCommandFailed   = "Command failed"
	MsgLocaleSkip      = "Skipping non-locale file"
	MsgLocaleBadName   = "Skipping malformed locale filename"
	MsgLocaleLoaded    = "Locale loaded successfully"
	MsgTransMissing    = "Missing translation key"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeyTotal     = "total"
	LogKeyFound     = "found"
	LogKeySkipped   = "skipped"
	LogKeyCount     = "count"
	LogKeyName      = "name"
	LogKeyCommand   = "command"
	LogKeyKind      = "kind"
	LogKeyStorage   = "storage"
	LogKeyDataDir   = "data_dir"
	LogKeyPolicy    = "weekend_policy"
	LogKeyDuration  = "duration_ms"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompUI        = "ui"
	CompRepl      = "repl"
	CompScheduler = "scheduler"
	CompStorage   = "storage"
	CompSettings  = "settings"
	CompMain      = "main"
	CompI18n      = "i18n"
)
