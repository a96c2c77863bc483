package ui

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-assistant/internal/config"
	"github.com/tartampluch/go-assistant/internal/directory"
	"github.com/tartampluch/go-assistant/internal/domain"
	"github.com/tartampluch/go-assistant/internal/engine"
	"github.com/tartampluch/go-assistant/internal/notes"
	"github.com/tartampluch/go-assistant/internal/search"
	"github.com/tartampluch/go-assistant/internal/storage"
)

// Register attaches every contact, birthday and note command to root.
func (app *App) Register(root *cobra.Command) {
	root.AddCommand(
		app.command(config.CmdHello, config.ShortHello, cobra.NoArgs, "", app.runHello),
		app.command(config.UseAdd, config.ShortAdd, cobra.RangeArgs(1, 5), config.MutatesContacts, app.runAdd),
		app.command(config.UseShow, config.ShortShow, cobra.ExactArgs(1), "", app.runShow),
		app.allCommand(),
		app.command(config.UseSearchContacts, config.ShortSearchContacts, cobra.MinimumNArgs(1), "", app.runSearch),
		app.command(config.UseFindAddress, config.ShortFindAddress, cobra.MinimumNArgs(1), "", app.runFindAddress),
		app.command(config.UseChange, config.ShortChange, cobra.ExactArgs(3), config.MutatesContacts, app.runChange),
		app.command(config.UseChangeEmail, config.ShortChangeEmail, cobra.ExactArgs(3), config.MutatesContacts, app.runChangeEmail),
		app.command(config.UseSetAddress, config.ShortSetAddress, cobra.MinimumNArgs(1), config.MutatesContacts, app.runSetAddress),
		app.command(config.UseSetBirthday, config.ShortSetBirthday, cobra.ExactArgs(2), config.MutatesContacts, app.runSetBirthday),
		app.command(config.UseRename, config.ShortRename, cobra.ExactArgs(2), config.MutatesContacts, app.runRename),
		app.command(config.UseDelete, config.ShortDelete, cobra.ExactArgs(1), config.MutatesContacts, app.runDelete),
		app.command(config.UseDeletePhone, config.ShortDeletePhone, cobra.ExactArgs(2), config.MutatesContacts, app.runDeletePhone),
		app.birthdaysCommand(),
		app.noteAddCommand(),
		app.command(config.UseNoteDel, config.ShortNoteDel, cobra.MinimumNArgs(1), config.MutatesNotes, app.runNoteDel),
		app.noteEditCommand(),
		app.noteListCommand(),
		app.contactsCommand(),
	)
}

func (app *App) command(use, short string, args cobra.PositionalArgs, mutates string, run func(*cobra.Command, []string) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE:  run,
	}
	if mutates != "" {
		cmd.Annotations = map[string]string{config.AnnotationMutates: mutates}
	}
	return cmd
}

// -----------------------------------------------------------------------------
// Contacts
// -----------------------------------------------------------------------------

func (app *App) runHello(*cobra.Command, []string) error {
	app.view.Info(app.GetMsg(config.TKeyHello))
	return nil
}

// runAdd maps positional arguments onto name, phone, email, address, birthday.
func (app *App) runAdd(_ *cobra.Command, args []string) error {
	in := directory.ContactInput{Name: args[0]}
	optional := []*string{&in.Phone, &in.Email, &in.Address, &in.Birthday}
	for i, v := range args[1:] {
		*optional[i] = v
	}

	created, err := app.Contacts.Add(in)
	if err != nil {
		return err
	}
	key := config.TKeyContactUpdated
	if created {
		key = config.TKeyContactAdded
	}
	app.view.Success(app.T(key, map[string]any{"Name": in.Name}))
	return nil
}

func (app *App) runShow(_ *cobra.Command, args []string) error {
	r, err := app.Contacts.Show(args[0])
	if err != nil {
		return err
	}
	app.view.Contacts([]*directory.Record{r})
	return nil
}

func (app *App) allCommand() *cobra.Command {
	var order string
	cmd := &cobra.Command{
		Use:   config.CmdAll,
		Short: config.ShortAll,
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			dir := app.Contacts.Directory()
			var records []*directory.Record
			switch o := directory.SortOrder(order); o {
			case "":
				records = dir.All()
			case directory.SortNameAsc, directory.SortNameDesc:
				records = dir.Sorted(o)
			default:
				return domain.NewInvalidArgumentError(config.FlagSort, order)
			}
			app.showContacts(records)
			return nil
		},
	}
	cmd.Flags().StringVar(&order, config.FlagSort, "", config.FlagDescSortC)
	return cmd
}

func (app *App) showContacts(records []*directory.Record) {
	if len(records) == 0 {
		app.view.Info(app.GetMsg(config.TKeyNoContacts))
		return
	}
	app.view.Contacts(records)
	app.view.Info(app.T(config.TKeyTotalContacts, map[string]any{"Count": len(records)}))
}

func (app *App) runSearch(_ *cobra.Command, args []string) error {
	res := app.Search.Search(app.Contacts.Directory().All(), strings.Join(args, " "))
	if len(res.Matches) == 0 {
		app.view.Info(app.GetMsg(config.TKeyNoMatches))
		return nil
	}
	if res.Mode == search.ModeFuzzy {
		app.view.Warning(app.GetMsg(config.TKeySearchFuzzy))
	}
	app.view.Contacts(res.Records())
	return nil
}

func (app *App) runFindAddress(_ *cobra.Command, args []string) error {
	records := app.Contacts.Directory().FindByAddress(strings.Join(args, " "))
	if len(records) == 0 {
		app.view.Info(app.GetMsg(config.TKeyNoMatches))
		return nil
	}
	app.view.Contacts(records)
	return nil
}

func (app *App) runChange(_ *cobra.Command, args []string) error {
	if err := app.Contacts.ChangePhone(args[0], args[1], args[2]); err != nil {
		return err
	}
	app.view.Success(app.T(config.TKeyPhoneChanged, map[string]any{"Name": args[0]}))
	return nil
}

func (app *App) runChangeEmail(_ *cobra.Command, args []string) error {
	if err := app.Contacts.ChangeEmail(args[0], args[1], args[2]); err != nil {
		return err
	}
	app.view.Success(app.T(config.TKeyEmailChanged, map[string]any{"Name": args[0]}))
	return nil
}

// runSetAddress joins the remaining words, so unquoted addresses work too.
// No address clears it.
func (app *App) runSetAddress(_ *cobra.Command, args []string) error {
	address := strings.Join(args[1:], " ")
	if err := app.Contacts.SetAddress(args[0], address); err != nil {
		return err
	}
	key := config.TKeyAddressSet
	if strings.TrimSpace(address) == "" {
		key = config.TKeyAddressCleared
	}
	app.view.Success(app.T(key, map[string]any{"Name": args[0]}))
	return nil
}

func (app *App) runSetBirthday(_ *cobra.Command, args []string) error {
	if err := app.Contacts.SetBirthday(args[0], args[1]); err != nil {
		return err
	}
	app.view.Success(app.T(config.TKeyBirthdaySet, map[string]any{"Name": args[0], "Date": args[1]}))
	return nil
}

func (app *App) runRename(_ *cobra.Command, args []string) error {
	if err := app.Contacts.Rename(args[0], args[1]); err != nil {
		return err
	}
	app.view.Success(app.T(config.TKeyContactRenamed, map[string]any{"Old": args[0], "New": args[1]}))
	return nil
}

func (app *App) runDelete(_ *cobra.Command, args []string) error {
	if err := app.Contacts.Delete(args[0]); err != nil {
		return err
	}
	app.view.Success(app.T(config.TKeyContactDeleted, map[string]any{"Name": args[0]}))
	return nil
}

func (app *App) runDeletePhone(_ *cobra.Command, args []string) error {
	if err := app.Contacts.DeletePhone(args[0], args[1]); err != nil {
		return err
	}
	app.view.Success(app.T(config.TKeyPhoneDeleted, map[string]any{"Name": args[0]}))
	return nil
}

// -----------------------------------------------------------------------------
// Birthdays
// -----------------------------------------------------------------------------

func (app *App) birthdaysCommand() *cobra.Command {
	var date, ics string
	cmd := &cobra.Command{
		Use:   config.UseBirthdays,
		Short: config.ShortBirthdays,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			subjects := engine.Subjects(app.Contacts.Directory().All())

			var (
				cs  []engine.Congratulation
				err error
			)
			if date != "" {
				if cs, err = app.Scheduler.FindDate(subjects, date); err != nil {
					return err
				}
				app.announceSchedule(cs, config.TKeyBirthdaysOnDate, config.TKeyNoBirthdaysOn, map[string]any{"Date": date})
			} else {
				days := app.Settings.Birthdays.Days
				if len(args) == 1 {
					if days, err = strconv.Atoi(args[0]); err != nil {
						return domain.NewInvalidArgumentError(config.ArgDays, err.Error())
					}
				}
				if cs, err = app.Scheduler.FindNear(subjects, days); err != nil {
					return err
				}
				app.announceSchedule(cs, config.TKeyBirthdaysHeader, config.TKeyNoBirthdays, map[string]any{"Days": days})
			}

			if ics == "" {
				return nil
			}
			return app.writeCalendar(ics, cs)
		},
	}
	cmd.Flags().StringVar(&date, config.FlagDate, "", config.FlagDescDate)
	cmd.Flags().StringVar(&ics, config.FlagICS, "", config.FlagDescICS)
	return cmd
}

func (app *App) announceSchedule(cs []engine.Congratulation, header, empty string, data map[string]any) {
	if len(cs) == 0 {
		app.view.Info(app.T(empty, data))
		return
	}
	app.view.Info(app.T(header, data))
	app.view.Birthdays(engine.Project(cs))
}

func (app *App) writeCalendar(path string, cs []engine.Congratulation) error {
	data, err := app.Scheduler.Calendar(cs)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, config.FilePermUserRW); err != nil {
		return fmt.Errorf("%s: %w", config.ErrFileWrite, err)
	}
	app.view.Success(app.T(config.TKeyCalendarWritten, map[string]any{"Path": path, "Count": len(cs)}))
	return nil
}

// -----------------------------------------------------------------------------
// Notes
// -----------------------------------------------------------------------------

func (app *App) noteAddCommand() *cobra.Command {
	var tags string
	cmd := app.command(config.UseNoteAdd, config.ShortNoteAdd, cobra.MinimumNArgs(1), config.MutatesNotes,
		func(_ *cobra.Command, args []string) error {
			if _, err := app.Notes.Add(strings.Join(args, " "), splitTags(tags)); err != nil {
				return err
			}
			app.view.Success(app.GetMsg(config.TKeyNoteAdded))
			return nil
		})
	cmd.Flags().StringVar(&tags, config.FlagTags, "", config.FlagDescTags)
	return cmd
}

func (app *App) runNoteDel(_ *cobra.Command, args []string) error {
	n, err := app.Notes.Find(strings.Join(args, " "))
	if err != nil {
		return err
	}
	if err := app.Notes.Delete(n); err != nil {
		return err
	}
	app.view.Success(app.GetMsg(config.TKeyNoteDeleted))
	return nil
}

// noteEditCommand replaces the text of the first note matching the query.
// Tags are only touched when --tags is given; --tags "" clears them.
func (app *App) noteEditCommand() *cobra.Command {
	var tags string
	cmd := app.command(config.UseNoteEdit, config.ShortNoteEdit, cobra.MinimumNArgs(2), config.MutatesNotes, nil)
	cmd.RunE = func(c *cobra.Command, args []string) error {
		n, err := app.Notes.Find(args[0])
		if err != nil {
			return err
		}
		var newTags []string
		if c.Flags().Changed(config.FlagTags) {
			newTags = splitTags(tags)
		}
		if err := app.Notes.Edit(n, strings.Join(args[1:], " "), newTags); err != nil {
			return err
		}
		app.view.Success(app.GetMsg(config.TKeyNoteEdited))
		return nil
	}
	cmd.Flags().StringVar(&tags, config.FlagTags, "", config.FlagDescTags)
	return cmd
}

func (app *App) noteListCommand() *cobra.Command {
	var tag, order string
	cmd := &cobra.Command{
		Use:   config.UseNoteList,
		Short: config.ShortNoteList,
		RunE: func(_ *cobra.Command, args []string) error {
			list := app.Notes.All()
			switch o := notes.SortOrder(order); o {
			case "":
			case notes.SortTextAsc, notes.SortTextDesc, notes.SortNewest, notes.SortOldest:
				list = app.Notes.Sorted(o)
			default:
				return domain.NewInvalidArgumentError(config.FlagSort, order)
			}

			query := strings.Join(args, " ")
			switch {
			case tag != "":
				list = keep(list, app.Notes.SearchByTag(tag))
			case strings.TrimSpace(query) != "":
				list = keep(list, app.Notes.Search(query))
			}

			if len(list) == 0 {
				app.view.Info(app.GetMsg(config.TKeyNoNotes))
				return nil
			}
			app.view.Notes(list)
			app.view.Info(app.T(config.TKeyTotalNotes, map[string]any{"Count": len(list)}))
			return nil
		},
	}
	cmd.Flags().StringVar(&tag, config.FlagTag, "", config.FlagDescTag)
	cmd.Flags().StringVar(&order, config.FlagSort, "", config.FlagDescSortN)
	return cmd
}

// keep filters list down to the notes present in matches, preserving list order.
func keep(list, matches []*notes.Note) []*notes.Note {
	wanted := make(map[*notes.Note]struct{}, len(matches))
	for _, n := range matches {
		wanted[n] = struct{}{}
	}
	out := list[:0:0]
	for _, n := range list {
		if _, ok := wanted[n]; ok {
			out = append(out, n)
		}
	}
	return out
}

func splitTags(raw string) []string {
	out := []string{}
	for _, t := range strings.Split(raw, config.TagSeparator) {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// -----------------------------------------------------------------------------
// vCard exchange
// -----------------------------------------------------------------------------

func (app *App) contactsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   config.CmdContacts,
		Short: config.ShortContacts,
	}
	cmd.AddCommand(
		app.command(config.UseImport, config.ShortImport, cobra.ExactArgs(1), config.MutatesContacts, app.runImport),
		app.command(config.UseExport, config.ShortExport, cobra.ExactArgs(1), "", app.runExport),
	)
	return cmd
}

func (app *App) runImport(_ *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrFileOpen, err)
	}
	defer func() { _ = f.Close() }()

	n, err := storage.ImportVCard(f, app.Contacts.Directory(), app.Clock)
	if err != nil {
		return err
	}
	app.view.Success(app.T(config.TKeyImported, map[string]any{"Count": n}))
	return nil
}

func (app *App) runExport(_ *cobra.Command, args []string) error {
	records := app.Contacts.Directory().All()
	f, err := os.OpenFile(args[0], os.O_CREATE|os.O_TRUNC|os.O_WRONLY, config.FilePermUserRW)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrFileOpen, err)
	}
	if err := storage.ExportVCard(f, records); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%s: %w", config.ErrFileWrite, err)
	}
	app.view.Success(app.T(config.TKeyExported, map[string]any{"Count": len(records), "Path": args[0]}))
	return nil
}
