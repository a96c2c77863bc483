package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/tartampluch/go-assistant/internal/config"
	"github.com/tartampluch/go-assistant/internal/directory"
	"github.com/tartampluch/go-assistant/internal/engine"
	"github.com/tartampluch/go-assistant/internal/notes"
)

// Translator resolves a message key with optional template data.
type Translator func(key string, data map[string]any) string

// Terminal palette (ANSI 16 colors).
const (
	colorRed     = lipgloss.Color("1")
	colorGreen   = lipgloss.Color("2")
	colorYellow  = lipgloss.Color("3")
	colorBlue    = lipgloss.Color("4")
	colorMagenta = lipgloss.Color("5")
	colorCyan    = lipgloss.Color("6")
	colorGray    = lipgloss.Color("8")
)

type styles struct {
	success   lipgloss.Style
	failure   lipgloss.Style
	info      lipgloss.Style
	warning   lipgloss.Style
	header    lipgloss.Style
	highlight lipgloss.Style
	cell      lipgloss.Style
	border    lipgloss.Style
}

// Presenter renders messages and tables. Styles come from a renderer bound to
// the output, so colors are dropped when it is not a terminal.
type Presenter struct {
	out    io.Writer
	t      Translator
	styles styles
}

// NewPresenter returns a presenter writing to out.
func NewPresenter(out io.Writer, t Translator) *Presenter {
	r := lipgloss.NewRenderer(out)
	cell := r.NewStyle().Padding(0, 1)
	return &Presenter{
		out: out,
		t:   t,
		styles: styles{
			success:   r.NewStyle().Foreground(colorGreen),
			failure:   r.NewStyle().Foreground(colorRed).Bold(true),
			info:      r.NewStyle().Foreground(colorCyan),
			warning:   r.NewStyle().Foreground(colorYellow),
			header:    cell.Foreground(colorBlue).Bold(true),
			highlight: cell.Foreground(colorMagenta).Bold(true),
			cell:      cell,
			border:    r.NewStyle().Foreground(colorGray),
		},
	}
}

func (p *Presenter) Success(msg string) { p.line(p.styles.success, msg) }
func (p *Presenter) Error(msg string)   { p.line(p.styles.failure, msg) }
func (p *Presenter) Info(msg string)    { p.line(p.styles.info, msg) }
func (p *Presenter) Warning(msg string) { p.line(p.styles.warning, msg) }

// Plain writes msg unstyled.
func (p *Presenter) Plain(msg string) { _, _ = fmt.Fprintln(p.out, msg) }

func (p *Presenter) prompt() { _, _ = fmt.Fprint(p.out, config.ReplPrompt) }

func (p *Presenter) line(s lipgloss.Style, msg string) {
	_, _ = fmt.Fprintln(p.out, s.Render(msg))
}

// Contacts renders records as a numbered table.
func (p *Presenter) Contacts(records []*directory.Record) {
	headers := p.headers(config.TKeyColIndex, config.TKeyColName, config.TKeyColPhones,
		config.TKeyColEmails, config.TKeyColAddress, config.TKeyColBirthday)

	rows := make([][]string, 0, len(records))
	for i, r := range records {
		d := r.Data()
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			d.Name,
			strings.Join(d.Phones, ", "),
			strings.Join(d.Emails, ", "),
			d.Address,
			displayBirthday(r),
		})
	}
	p.table(headers, rows, nil)
}

// Birthdays renders a congratulation schedule. Jubilee rows are highlighted.
func (p *Presenter) Birthdays(entries []engine.Entry) {
	headers := p.headers(config.TKeyColDate, config.TKeyColWeekday, config.TKeyColName,
		config.TKeyColAge, config.TKeyColPhone, config.TKeyColEmail)

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		weekday := p.weekday(e.Weekday)
		if e.IsShifted {
			weekday += " " + p.t(config.TKeyShiftedFrom, map[string]any{
				"Weekday": p.weekday(e.ActualWeekday),
				"Date":    e.ActualDate,
			})
		}
		age := strconv.Itoa(e.Age)
		if e.IsJubilee {
			age += " " + p.t(config.TKeyJubilee, nil)
		}
		rows = append(rows, []string{e.Date, weekday, e.Name, age, e.Phone, e.Email})
	}
	p.table(headers, rows, func(row int) bool { return entries[row].IsJubilee })
}

// Notes renders notes as a numbered table.
func (p *Presenter) Notes(ns []*notes.Note) {
	headers := p.headers(config.TKeyColIndex, config.TKeyColText, config.TKeyColTags, config.TKeyColCreated)

	rows := make([][]string, 0, len(ns))
	for i, n := range ns {
		created := ""
		if !n.CreatedAt.IsZero() {
			created = n.CreatedAt.Local().Format(config.DateTimeDisplay)
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), n.Text, strings.Join(n.Tags, ", "), created})
	}
	p.table(headers, rows, nil)
}

func (p *Presenter) table(headers []string, rows [][]string, highlight func(row int) bool) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(p.styles.border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return p.styles.header
			case highlight != nil && row >= 0 && row < len(rows) && highlight(row):
				return p.styles.highlight
			}
			return p.styles.cell
		})
	_, _ = fmt.Fprintln(p.out, t.Render())
}

func (p *Presenter) headers(keys ...string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = p.t(k, nil)
	}
	return out
}

func (p *Presenter) weekday(english string) string {
	return p.t(config.TKeyWeekdayPrefix+strings.ToLower(english), nil)
}

func displayBirthday(r *directory.Record) string {
	if b, ok := r.Birthday(); ok {
		return b.String()
	}
	return ""
}
