package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	charmLog "github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/misops/tickboard/internal/adapters/backend"
	"github.com/misops/tickboard/internal/app"
	"github.com/misops/tickboard/internal/config"
	"github.com/misops/tickboard/internal/platform"
	"github.com/misops/tickboard/internal/session"
	"github.com/misops/tickboard/internal/tui"
)

// version stores a package-level helper value.
var version = "dev"

// program represents program data used by this package.
type program interface {
	Run() (tea.Model, error)
}

// programFactory stores a package-level helper value.
var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

// main handles main.
func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// run runs the requested command flow.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	// Local .env carries dev backend settings; absence is not an error.
	_ = godotenv.Load()

	fs := flag.NewFlagSet("tickboard", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		configPath string
		backendURL string
		appName    string
		devMode    bool
		showVer    bool
	)
	defaultDevMode := version == "dev"
	if envDev, ok := parseBoolEnv("TICKBOARD_DEV_MODE"); ok {
		defaultDevMode = envDev
	}
	if envApp := strings.TrimSpace(os.Getenv("TICKBOARD_APP_NAME")); envApp != "" {
		appName = envApp
	} else {
		appName = "tickboard"
	}
	fs.StringVar(&configPath, "config", "", "path to config TOML")
	fs.StringVar(&backendURL, "backend", "", "backend base URL override")
	fs.StringVar(&appName, "app", appName, "application name for config/data path resolution")
	fs.BoolVar(&devMode, "dev", defaultDevMode, "use dev mode paths (<app>-dev)")
	fs.BoolVar(&showVer, "version", false, "show version")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if showVer {
		_, _ = fmt.Fprintf(stdout, "tickboard %s\n", version)
		return nil
	}

	paths, err := platform.DefaultPathsWithOptions(platform.Options{
		AppName: appName,
		DevMode: devMode,
	})
	if err != nil {
		return err
	}

	command := firstArg(fs.Args())
	switch command {
	case "paths":
		_, _ = fmt.Fprintf(stdout, "app: %s\n", appName)
		_, _ = fmt.Fprintf(stdout, "dev_mode: %t\n", devMode)
		_, _ = fmt.Fprintf(stdout, "config: %s\n", paths.ConfigPath)
		_, _ = fmt.Fprintf(stdout, "data_dir: %s\n", paths.DataDir)
		_, _ = fmt.Fprintf(stdout, "session: %s\n", paths.SessionPath)
		return nil
	case "", "login", "logout", "whoami", "register", "verify":
		// Continue.
	default:
		return fmt.Errorf("unknown command: %s", command)
	}

	if configPath == "" {
		if envPath := strings.TrimSpace(os.Getenv("TICKBOARD_CONFIG")); envPath != "" {
			configPath = envPath
		} else {
			configPath = paths.ConfigPath
		}
	}
	if backendURL == "" {
		backendURL = strings.TrimSpace(os.Getenv("TICKBOARD_BACKEND_URL"))
	}

	cfg, err := config.Load(configPath, config.Default())
	if err != nil {
		return fmt.Errorf("load config %q: %w", configPath, err)
	}
	if backendURL != "" {
		cfg.Backend.BaseURL = backendURL
	}

	logger, err := newRuntimeLogger(stderr, appName, devMode, cfg.Logging, time.Now)
	if err != nil {
		return fmt.Errorf("configure runtime logger: %w", err)
	}
	if command == "" {
		// Keep TUI rendering clean: runtime logs stay in the dev-file sink while the board is active.
		logger.SetConsoleEnabled(false)
	}
	defer func() {
		if closeErr := logger.Close(); closeErr != nil {
			_, _ = fmt.Fprintf(stderr, "warning: close runtime log sink: %v\n", closeErr)
		}
	}()

	logger.Info("startup configuration resolved", "app", appName, "dev_mode", devMode, "command", command)
	logger.Debug("runtime paths resolved", "config_path", configPath, "data_dir", paths.DataDir, "session_path", paths.SessionPath)
	logger.Info("configuration loaded", "config_path", configPath, "backend_url", cfg.Backend.BaseURL, "log_level", cfg.Logging.Level)

	store := session.NewStore(paths.SessionPath)
	backendCfg := backend.Config{
		BaseURL:       cfg.Backend.BaseURL,
		TicketService: cfg.Backend.TicketService,
		StaffService:  cfg.Backend.StaffService,
		UserService:   cfg.Backend.UserService,
		Timeout:       cfg.RequestTimeout(),
	}

	switch command {
	case "login":
		return runLogin(store, fs.Args()[1:], stdout)
	case "logout":
		if err := store.Clear(); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		_, _ = fmt.Fprintln(stdout, "signed out")
		return nil
	case "whoami":
		return runWhoami(store, stdout)
	case "register":
		// Registration runs before any session exists.
		registrar := app.NewRegistrar(backend.NewAccountClient(backendCfg, nil))
		return runRegister(ctx, registrar, fs.Args()[1:], stdout)
	case "verify":
		registrar := app.NewRegistrar(backend.NewAccountClient(backendCfg, nil))
		return runVerify(ctx, registrar, fs.Args()[1:], stdout)
	}

	sess, err := store.Load(time.Now())
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNoSession):
			return errors.New("not signed in: run `tickboard login -token <token>` first")
		case errors.Is(err, session.ErrSessionExpired):
			return errors.New("session expired: run `tickboard login` again")
		default:
			return fmt.Errorf("load session: %w", err)
		}
	}
	logger.Info("session loaded", "username", sess.Username)

	svc := app.NewConsole(
		backend.NewTicketClient(backendCfg, sess),
		backend.NewStaffClient(backendCfg, sess),
	)
	m := tui.NewModel(svc, tui.WithBoardConfig(tui.BoardConfig{
		ShowReporter:     cfg.Board.ShowReporter,
		ShowDateFinished: cfg.Board.ShowDateFinished,
	}))

	logger.Info("starting tui program loop")
	if _, err := programFactory(m).Run(); err != nil {
		logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	logger.Info("command flow complete", "command", "tui")
	return nil
}

// runLogin stores the bearer credential for subsequent board sessions.
func runLogin(store *session.Store, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("tickboard login", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		token    string
		username string
	)
	fs.StringVar(&token, "token", "", "bearer token issued by the backend")
	fs.StringVar(&username, "username", "", "account username (informational)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse login flags: %w", err)
	}
	if token == "" {
		token = strings.TrimSpace(os.Getenv("TICKBOARD_TOKEN"))
	}
	if token == "" {
		return errors.New("-token is required (or set TICKBOARD_TOKEN)")
	}

	if err := store.Save(session.Session{BearerToken: token, Username: username}); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	_, _ = fmt.Fprintln(stdout, "signed in")
	return nil
}

// runWhoami reports the stored session state.
func runWhoami(store *session.Store, stdout io.Writer) error {
	sess, err := store.Load(time.Now())
	switch {
	case errors.Is(err, session.ErrNoSession):
		_, _ = fmt.Fprintln(stdout, "not signed in")
		return nil
	case errors.Is(err, session.ErrSessionExpired):
		_, _ = fmt.Fprintln(stdout, "session expired")
		return nil
	case err != nil:
		return fmt.Errorf("load session: %w", err)
	}
	if sess.Username != "" {
		_, _ = fmt.Fprintf(stdout, "signed in as %s\n", sess.Username)
	} else {
		_, _ = fmt.Fprintln(stdout, "signed in")
	}
	return nil
}

// runRegister submits a new staff account registration.
func runRegister(ctx context.Context, registrar *app.Registrar, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("tickboard register", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var reg app.Registration
	fs.StringVar(&reg.Username, "username", "", "account username (letters and digits)")
	fs.StringVar(&reg.Password, "password", "", "account password")
	fs.StringVar(&reg.Email, "email", "", "staff email address")
	fs.StringVar(&reg.StaffNumber, "staff-number", "", "MIS staff number")
	fs.StringVar(&reg.FirstName, "first-name", "", "first name")
	fs.StringVar(&reg.MiddleName, "middle-name", "", "middle name")
	fs.StringVar(&reg.LastName, "last-name", "", "last name")
	fs.StringVar(&reg.ContactNumber, "contact", "", "contact number")
	fs.StringVar(&reg.Address, "address", "", "address")
	fs.StringVar(&reg.Birthdate, "birthdate", "", "birthdate (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse register flags: %w", err)
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected register arguments: %v", fs.Args())
	}

	if err := registrar.RegisterStaff(ctx, reg); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(stdout, "registration submitted, check your email for the verification code")
	return nil
}

// runVerify submits the one-time verification code for a new account.
func runVerify(ctx context.Context, registrar *app.Registrar, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("tickboard verify", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		username string
		otp      string
	)
	fs.StringVar(&username, "username", "", "account username")
	fs.StringVar(&otp, "otp", "", "one-time verification code")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse verify flags: %w", err)
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected verify arguments: %v", fs.Args())
	}

	if err := registrar.VerifyOTP(ctx, username, otp); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(stdout, "account verified, you can sign in now")
	return nil
}

// firstArg handles first arg.
func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// parseBoolEnv reads an optional boolean environment toggle.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return value, true
}

// runtimeLogger fans log events to a styled console sink and an optional dev-file sink.
type runtimeLogger struct {
	sinks          []*charmLog.Logger
	consoleSink    *charmLog.Logger
	consoleEnabled bool
	closeFile      func() error
	devLog         string
}

// newRuntimeLogger configures runtime log sinks from CLI/config state.
func newRuntimeLogger(stderr io.Writer, appName string, devMode bool, cfg config.LoggingConfig, now func() time.Time) (*runtimeLogger, error) {
	level, err := charmLog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse logging level %q: %w", cfg.Level, err)
	}

	if now == nil {
		now = time.Now
	}
	if stderr == nil {
		stderr = io.Discard
	}

	consoleLogger := charmLog.NewWithOptions(stderr, charmLog.Options{
		Level:           level,
		Prefix:          appName,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       charmLog.TextFormatter,
	})

	logger := &runtimeLogger{
		sinks:          []*charmLog.Logger{consoleLogger},
		consoleSink:    consoleLogger,
		consoleEnabled: true,
	}
	if !devMode || !cfg.DevFile.Enabled {
		return logger, nil
	}

	devLogPath, err := devLogFilePath(cfg.DevFile.Dir, appName, now().UTC())
	if err != nil {
		return nil, fmt.Errorf("resolve dev log file path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(devLogPath), 0o755); err != nil {
		return nil, fmt.Errorf("create dev log dir: %w", err)
	}
	logFile, err := os.OpenFile(devLogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open dev log file: %w", err)
	}

	// Keep file output parseable and unstyled while preserving styled console logs.
	fileLogger := charmLog.NewWithOptions(logFile, charmLog.Options{
		Level:           level,
		Prefix:          appName,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       charmLog.LogfmtFormatter,
	})
	logger.sinks = append(logger.sinks, fileLogger)
	logger.closeFile = logFile.Close
	logger.devLog = devLogPath
	return logger, nil
}

// Close closes the optional dev-file sink.
func (l *runtimeLogger) Close() error {
	if l == nil || l.closeFile == nil {
		return nil
	}
	return l.closeFile()
}

// SetConsoleEnabled toggles whether the console sink receives runtime events.
func (l *runtimeLogger) SetConsoleEnabled(enabled bool) {
	if l == nil {
		return
	}
	l.consoleEnabled = enabled
}

func (l *runtimeLogger) log(level charmLog.Level, msg string, keyvals ...any) {
	if l == nil {
		return
	}
	for _, sink := range l.sinks {
		if sink == l.consoleSink && !l.consoleEnabled {
			continue
		}
		sink.Log(level, msg, keyvals...)
	}
}

// Debug logs a debug event to all configured sinks.
func (l *runtimeLogger) Debug(msg string, keyvals ...any) {
	l.log(charmLog.DebugLevel, msg, keyvals...)
}

// Info logs an informational event to all configured sinks.
func (l *runtimeLogger) Info(msg string, keyvals ...any) {
	l.log(charmLog.InfoLevel, msg, keyvals...)
}

// Error logs an error event to all configured sinks.
func (l *runtimeLogger) Error(msg string, keyvals ...any) {
	l.log(charmLog.ErrorLevel, msg, keyvals...)
}

// devLogFilePath resolves the dev log file path for the current run day.
func devLogFilePath(configDir, appName string, now time.Time) (string, error) {
	baseDir := strings.TrimSpace(configDir)
	if baseDir == "" {
		baseDir = ".tickboard/log"
	}
	if !filepath.IsAbs(baseDir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve working dir: %w", err)
		}
		baseDir = filepath.Join(cwd, baseDir)
	}
	fileName := fmt.Sprintf("%s-%s.log", appName, now.Format("20060102"))
	return filepath.Join(filepath.Clean(baseDir), fileName), nil
}
