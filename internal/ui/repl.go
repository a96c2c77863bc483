package ui

import (
	"bufio"
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-assistant/internal/config"
	"github.com/tartampluch/go-assistant/internal/search"
)

// RunREPL reads commands from app.In until exit, end of input or ctx cancellation.
func (app *App) RunREPL(ctx context.Context) error {
	app.view.Info(app.GetMsg(config.TKeyWelcome))
	app.view.Plain(app.GetMsg(config.TKeyHint))

	lines := make(chan string, config.ReplLineBuffer)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(app.In)
		sc.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), config.ReplMaxLineLength)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		app.view.prompt()
		select {
		case <-ctx.Done():
			slog.Info(config.MsgCtxCancel, config.LogKeyComponent, config.CompRepl)
			app.view.Plain("")
			app.view.Info(app.GetMsg(config.TKeyGoodbye))
			return nil
		case line, ok := <-lines:
			if !ok || !app.Exec(ctx, line) {
				app.view.Info(app.GetMsg(config.TKeyGoodbye))
				return nil
			}
		}
	}
}

// Exec runs one input line. It reports false when the line asks to leave.
func (app *App) Exec(ctx context.Context, line string) bool {
	tokens := Tokenize(line)
	if len(tokens) == 0 {
		return true
	}
	name := resolveCommand(tokens[0])
	if name == config.CmdExit {
		return false
	}

	root := app.shellRoot()
	known := commandNames(root)
	if !slices.Contains(known, name) {
		app.view.Error(app.T(config.TKeyUnknownCommand, map[string]any{"Command": tokens[0]}))
		if s, ok := suggest(name, known); ok {
			app.view.Info(app.T(config.TKeyDidYouMean, map[string]any{"Suggestion": s}))
		}
		return true
	}

	root.SetArgs(append([]string{name}, tokens[1:]...))
	start := time.Now()
	if err := root.ExecuteContext(ctx); err != nil {
		slog.Debug(config.MsgCommandFailed,
			config.LogKeyComponent, config.CompRepl,
			config.LogKeyCommand, name,
			config.LogKeyError, err)
		app.ReportError(err)
		return true
	}
	slog.Debug(config.MsgCommandRun,
		config.LogKeyComponent, config.CompRepl,
		config.LogKeyCommand, name,
		config.LogKeyDuration, time.Since(start).Milliseconds())
	return true
}

// shellRoot builds a fresh command tree for one line, so flag values never
// leak from one command into the next.
func (app *App) shellRoot() *cobra.Command {
	root := &cobra.Command{
		Use:                config.BinaryName,
		Short:              config.ShortRoot,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPostRunE: app.Persist,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetIn(app.In)
	root.SetOut(app.Out)
	root.SetErr(app.Out)

	app.Register(root)
	root.AddCommand(&cobra.Command{
		Use:   config.CmdExit,
		Short: config.ShortExit,
		Args:  cobra.NoArgs,
		RunE:  func(*cobra.Command, []string) error { return nil },
	})
	return root
}

func commandNames(root *cobra.Command) []string {
	names := []string{config.CmdHelp}
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	return names
}

func resolveCommand(name string) string {
	if canonical, ok := config.CommandAliases[name]; ok {
		return canonical
	}
	return name
}

// suggest returns the candidate most similar to name, if it is similar enough.
func suggest(name string, candidates []string) (string, bool) {
	best, bestRatio := "", 0.0
	for _, c := range candidates {
		if r := search.Ratio(name, c); r > bestRatio {
			best, bestRatio = c, r
		}
	}
	return best, bestRatio >= config.SuggestionCutoff
}

// Tokenize splits a line the way a POSIX shell would, honoring single and
// double quotes and backslash escapes. An unbalanced quote falls back to plain
// whitespace splitting. The command word is lowercased.
func Tokenize(line string) []string {
	tokens, ok := splitQuoted(line)
	if !ok {
		tokens = strings.Fields(line)
	}
	if len(tokens) > 0 {
		tokens[0] = strings.ToLower(tokens[0])
	}
	return tokens
}

func splitQuoted(line string) ([]string, bool) {
	var (
		tokens  []string
		cur     strings.Builder
		inToken bool
		quote   rune
		escaped bool
	)
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			inToken = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inToken = true
		case unicode.IsSpace(r):
			if inToken {
				tokens = append(tokens, cur.String())
				cur.Reset()
				inToken = false
			}
		default:
			cur.WriteRune(r)
			inToken = true
		}
	}
	if quote != 0 || escaped {
		return nil, false
	}
	if inToken {
		tokens = append(tokens, cur.String())
	}
	return tokens, true
}
