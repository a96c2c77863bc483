// Package ui is the terminal front end: the cobra command tree, the
// interactive shell that feeds it and the lipgloss presenter that renders
// results.
package ui

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/spf13/cobra"
	"github.com/tartampluch/go-assistant/internal/config"
	"github.com/tartampluch/go-assistant/internal/directory"
	"github.com/tartampluch/go-assistant/internal/domain"
	"github.com/tartampluch/go-assistant/internal/engine"
	"github.com/tartampluch/go-assistant/internal/notes"
	"github.com/tartampluch/go-assistant/internal/search"
	"github.com/tartampluch/go-assistant/internal/storage"
)

// NotesFile persists the note list.
type NotesFile interface {
	Load() ([]*notes.Note, error)
	Save([]*notes.Note) error
}

// App encapsulates the loaded data, the services acting on it and the I/O streams.
type App struct {
	Settings *config.Settings
	Clock    domain.Clock // Injected clock for testability

	Backend   storage.Backend
	NotesFile NotesFile

	Contacts  *directory.Service
	Notes     *notes.Store
	Search    *search.Engine
	Scheduler *engine.Scheduler

	In  io.Reader
	Out io.Writer

	I18nBundle         *i18n.Bundle
	Localizer          *i18n.Localizer
	SupportedLanguages []string

	view *Presenter
}

// NewApp returns an App reading commands from in and writing to out.
// Call Boot before executing any command.
func NewApp(in io.Reader, out io.Writer) *App {
	return &App{
		In:    in,
		Out:   out,
		Clock: domain.RealClock{},
	}
}

// Boot wires the services selected by s and loads persisted contacts and notes.
// Backend and NotesFile are only built when the caller did not inject them.
func (app *App) Boot(s *config.Settings) error {
	app.Settings = s
	app.SetupI18n()
	app.view = NewPresenter(app.Out, app.T)

	if app.Backend == nil {
		b, err := storage.New(storage.Kind(s.Storage), s.DataDir, app.Clock)
		if err != nil {
			return err
		}
		app.Backend = b
	}
	if app.NotesFile == nil {
		app.NotesFile = storage.NotesFile{Path: s.NotesPath()}
	}

	policy, err := engine.PolicyFor(s.Birthdays.WeekendPolicy, s.Birthdays.Holidays)
	if err != nil {
		return err
	}
	app.Scheduler = engine.New(app.Clock)
	app.Scheduler.Policy = policy
	app.Scheduler.ReminderTrigger = s.Birthdays.ReminderTrigger
	app.Scheduler.FormatSummary = app.eventSummary

	app.Search = &search.Engine{MinRatio: s.Search.FuzzyMinRatio, Limit: s.Search.FuzzyLimit}

	return app.load()
}

func (app *App) load() error {
	dir, err := app.Backend.Load()
	if err != nil {
		return err
	}
	app.Contacts = directory.NewService(dir, app.Clock)

	loaded, err := app.NotesFile.Load()
	if err != nil {
		return err
	}
	app.Notes = notes.NewStore(app.Clock)
	app.Notes.Load(loaded)

	slog.Debug(config.MsgNotesLoaded,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyCount, app.Notes.Len())
	return nil
}

// Persist saves whatever the finished command changed. It is installed as the
// root PersistentPostRunE, so it only runs after a successful command.
func (app *App) Persist(cmd *cobra.Command, _ []string) error {
	switch cmd.Annotations[config.AnnotationMutates] {
	case config.MutatesContacts:
		return app.Backend.Save(app.Contacts.Directory())
	case config.MutatesNotes:
		return app.NotesFile.Save(app.Notes.All())
	}
	return nil
}

// ReportError renders err in the active language.
func (app *App) ReportError(err error) {
	if app.view == nil {
		_, _ = fmt.Fprintln(app.Out, err)
		return
	}
	var de *domain.Error
	if !errors.As(err, &de) {
		app.view.Error(app.T(config.TKeyErrUnknown, map[string]any{"Error": err.Error()}))
		return
	}

	key := config.TKeyErrUnknown
	switch de.Kind {
	case domain.KindValidation:
		key = config.TKeyErrValidation
	case domain.KindNotFound:
		key = config.TKeyErrNotFound
	case domain.KindConflict:
		key = config.TKeyErrConflict
	case domain.KindInvalidArgument:
		key = config.TKeyErrInvalidArg
	}
	app.view.Error(app.T(key, map[string]any{
		"Field":   app.fieldName(de.Field),
		"Message": de.Message,
		"Error":   de.Error(),
	}))
}

// fieldName localizes a field or argument name, falling back to the raw name.
func (app *App) fieldName(field string) string {
	key := config.TKeyFieldPrefix + field
	if msg := app.GetMsg(key); msg != key {
		return msg
	}
	return field
}

// eventSummary is the localized title of a calendar event.
func (app *App) eventSummary(name string, age int) string {
	if age > 0 {
		return app.T(config.TKeyEvtSummaryAge, map[string]any{"Name": name, "Age": age})
	}
	return app.T(config.TKeyEvtSummary, map[string]any{"Name": name})
}
