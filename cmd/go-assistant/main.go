package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-assistant/internal/config"
	"github.com/tartampluch/go-assistant/internal/ui"
)

// main is the application entry point.
// It delegates execution to runMain to ensure that deferred function calls
// (like closing log files) are executed before the process terminates.
func main() {
	os.Exit(runMain())
}

// runMain manages the application lifecycle and exit codes.
// Returns config.ExitCodeSuccess on success, config.ExitCodeError on failure.
func runMain() int {
	// Create a root context that cancels on SIGINT (Ctrl+C) or SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var logCloser io.Closer
	defer func() {
		if logCloser != nil {
			_ = logCloser.Close() // Best effort close
		}
	}()

	app := ui.NewApp(os.Stdin, os.Stdout)
	root := newRootCommand(app, func(s *config.Settings) {
		logCloser = setupLogging(s.Debug)
		logStartupInfo(s)
	})

	if err := root.ExecuteContext(ctx); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		app.ReportError(err)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

type rootFlags struct {
	configPath string
	storage    string
	dataDir    string
	lang       string
	debug      bool
}

// newRootCommand builds the CLI. Without a subcommand it starts the interactive
// shell; with one it runs that command once. onSettings runs once the settings
// are known and before any data is loaded.
func newRootCommand(app *ui.App, onSettings func(*config.Settings)) *cobra.Command {
	var flags rootFlags

	root := &cobra.Command{
		Use:           config.BinaryName,
		Short:         config.ShortRoot,
		Version:       config.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := loadSettings(cmd, flags)
			if err != nil {
				return err
			}
			if onSettings != nil {
				onSettings(settings)
			}
			return app.Boot(settings)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.RunREPL(cmd.Context())
		},
		PersistentPostRunE: app.Persist,
	}
	root.SetVersionTemplate(versionLine())

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, config.FlagConfig, os.Getenv(config.SettingsEnvVar), config.FlagDescConfig)
	pf.StringVar(&flags.storage, config.FlagStorage, "", config.FlagDescStorage)
	pf.StringVar(&flags.dataDir, config.FlagDataDir, "", config.FlagDescDataDir)
	pf.StringVar(&flags.lang, config.FlagLang, "", config.FlagDescLang)
	pf.BoolVar(&flags.debug, config.FlagDebug, false, config.FlagDescDebug)

	app.Register(root)
	return root
}

// loadSettings reads file and environment settings, then applies explicit flags on top.
func loadSettings(cmd *cobra.Command, flags rootFlags) (*config.Settings, error) {
	s, err := config.LoadSettings(flags.configPath)
	if err != nil {
		return nil, err
	}

	fs := cmd.Flags()
	if fs.Changed(config.FlagStorage) {
		s.Storage = flags.storage
	}
	if fs.Changed(config.FlagDataDir) {
		s.DataDir = flags.dataDir
	}
	if fs.Changed(config.FlagLang) {
		s.Language = flags.lang
	}
	s.Debug = s.Debug || flags.debug

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// versionLine is the build information printed by --version.
func versionLine() string {
	return fmt.Sprintf(config.MsgVersionOutput,
		config.AppName,
		config.Version,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo(s *config.Settings) {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
		slog.String(config.LogKeyStorage, s.Storage),
		slog.String(config.LogKeyDataDir, s.DataDir),
		slog.String(config.LogKeyPolicy, s.Birthdays.WeekendPolicy),
	)
}

// setupLogging configures the default slog logger.
// Logs always go to a file in the user's cache directory. Stderr is added in
// debug mode only, since stdout belongs to the interactive session.
func setupLogging(debugMode bool) io.Closer {
	var writers []io.Writer
	var logFile *os.File

	if debugMode {
		writers = append(writers, os.Stderr)
	}

	if logPath, err := getLogFilePath(); err == nil {
		// O_TRUNC resets logs on restart to prevent indefinite growth.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}

	logger := slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts))
	slog.SetDefault(logger)

	if logFile == nil {
		return nil
	}
	return logFile
}

// getLogFilePath determines the platform-specific cache directory for logs.
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)

	// Ensure the directory exists with restricted permissions (700).
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(appDir, config.LogFileName), nil
}
