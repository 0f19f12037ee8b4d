package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"syscall"

	"fyne.io/fyne/v2/app"

	"github.com/tartampluch/life-in-weeks/internal/config"
	"github.com/tartampluch/life-in-weeks/internal/desktop"
	"github.com/tartampluch/life-in-weeks/internal/engine"
	"github.com/tartampluch/life-in-weeks/internal/render"
	"github.com/tartampluch/life-in-weeks/internal/server"
	"github.com/tartampluch/life-in-weeks/internal/ui"
)

// main is the application entry point.
// It delegates execution to runMain to ensure that deferred function calls
// (like closing log files) are executed before the process terminates.
// os.Exit() does not run defers, so we must return an integer code first.
func main() {
	os.Exit(runMain(os.Args[1:], os.Stdout, os.Stderr))
}

// runMain manages the application lifecycle, argument parsing, and exit codes.
func runMain(args []string, stdout, stderr io.Writer) int {
	// -------------------------------------------------------------------------
	// 1. CLI Argument Parsing
	// -------------------------------------------------------------------------
	global := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	global.SetOutput(stderr)
	showVersion := global.Bool(config.FlagVersion, false, config.FlagDescVersion)
	debugMode := global.Bool(config.FlagDebug, false, config.FlagDescDebug)
	global.Usage = func() {
		fmt.Fprint(stderr, config.MsgUsage)
		global.PrintDefaults()
	}
	if err := parseFlags(global, args); err != nil {
		return exitCodeFor(err)
	}

	if *showVersion {
		printVersion(stdout)
		return config.ExitCodeSuccess
	}

	command := config.CmdServe
	rest := global.Args()
	if len(rest) > 0 {
		command, rest = rest[0], rest[1:]
	}

	// -------------------------------------------------------------------------
	// 2. Logging Initialization
	// -------------------------------------------------------------------------
	// Only the server and the window log to the console by default; render
	// and export keep stdout for their own output.
	var console io.Writer
	switch {
	case command == config.CmdServe, command == config.CmdGUI:
		console = stdout
	case *debugMode:
		console = stderr
	}
	logCloser := setupLogging(*debugMode, console)
	if logCloser != nil {
		defer func() {
			_ = logCloser.Close() // Best effort close
		}()
	}

	// -------------------------------------------------------------------------
	// 3. Context & Signal Handling
	// -------------------------------------------------------------------------
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo()

	// -------------------------------------------------------------------------
	// 4. Application Logic
	// -------------------------------------------------------------------------
	var err error
	switch command {
	case config.CmdServe:
		err = runServe(ctx, rest, stderr)
	case config.CmdRender:
		err = runRender(ctx, rest, stdout, stderr)
	case config.CmdExport:
		err = runExport(ctx, rest, stdout, stderr)
	case config.CmdGUI:
		err = runGUI(ctx, rest, stderr)
	default:
		fmt.Fprintf(stderr, "%s: %q\n", config.ErrUnknownCommand, command)
		global.Usage()
		return config.ExitCodeUsage
	}

	if err != nil {
		var ue usageError
		if errors.Is(err, flag.ErrHelp) || errors.As(err, &ue) {
			return exitCodeFor(err)
		}
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		fmt.Fprintln(stderr, err)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// usageError marks failures caused by the caller's arguments.
type usageError struct {
	msg string
}

func (e usageError) Error() string {
	return e.msg
}

// parseFlags turns flag parse failures into usage errors. The flag set has
// already printed the problem; -h stays flag.ErrHelp.
func parseFlags(fs *flag.FlagSet, args []string) error {
	err := fs.Parse(args)
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return err
	}
	return usageError{msg: err.Error()}
}

func exitCodeFor(err error) int {
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return config.ExitCodeSuccess
	}
	return config.ExitCodeUsage
}

// -----------------------------------------------------------------------------
// Commands
// -----------------------------------------------------------------------------

func runServe(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet(config.CmdServe, flag.ContinueOnError)
	fs.SetOutput(stderr)
	port := fs.String(config.FlagPort, config.DefaultPort, config.FlagDescPort)
	bind := fs.String(config.FlagBind, config.DefaultBindAddr, config.FlagDescBind)
	lang := fs.String(config.FlagLang, config.DefaultLanguage, config.FlagDescLang)
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if err := server.ValidatePort(*port); err != nil {
		fmt.Fprintln(stderr, err)
		return usageError{msg: err.Error()}
	}

	tr := ui.NewTranslator()
	if err := checkLang(tr, *lang, stderr); err != nil {
		return err
	}

	srv := server.NewServer(*bind, *port, engine.NewCalculator(nil), tr)
	srv.Lang = *lang
	return srv.Start(ctx)
}

func runRender(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet(config.CmdRender, flag.ContinueOnError)
	fs.SetOutput(stderr)
	cf := addCalendarFlags(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	lc, loc, _, err := cf.calendar(ctx, stderr)
	if err != nil {
		return err
	}

	return render.Terminal(stdout, lc, render.TerminalOptions{Captions: ui.Captions(loc)})
}

func runExport(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet(config.CmdExport, flag.ContinueOnError)
	fs.SetOutput(stderr)
	cf := addCalendarFlags(fs)
	format := fs.String(config.FlagFormat, config.ExtPNG, config.FlagDescFormat)
	out := fs.String(config.FlagOut, "", config.FlagDescOut)
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if *format != config.ExtPNG && *format != config.ExtICS {
		msg := fmt.Sprintf("%s: %q", config.ErrFormatUnsupport, *format)
		fmt.Fprintln(stderr, msg)
		return usageError{msg: msg}
	}

	lc, loc, name, err := cf.calendar(ctx, stderr)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	switch *format {
	case config.ExtICS:
		err = render.WriteICS(&buf, lc, ui.ICSOptions(loc, name))
	default:
		err = render.WritePNG(&buf, lc, render.PNGOptions{PastColor: lc.PastColor})
	}
	if err != nil {
		return err
	}

	path := *out
	if path == "-" {
		_, err := stdout.Write(buf.Bytes())
		return err
	}
	if path == "" {
		path = render.ExportFilename(lc.LifespanYears, *format)
	}
	if err := os.WriteFile(path, buf.Bytes(), config.FilePermPublic); err != nil {
		return fmt.Errorf("%s: %w", config.ErrWriteFile, err)
	}

	slog.Info(config.MsgExportDone,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyFormat, *format,
		config.LogKeyFile, path,
		config.LogKeySizeBytes, buf.Len(),
	)
	fmt.Fprintf(stdout, config.MsgExported, path)
	return nil
}

// runGUI opens the desktop window. It blocks until the window is closed or
// ctx is cancelled.
func runGUI(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet(config.CmdGUI, flag.ContinueOnError)
	fs.SetOutput(stderr)
	lang := fs.String(config.FlagLang, "", config.FlagDescLang)
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	tr := ui.NewTranslator()
	if *lang != "" {
		if err := checkLang(tr, *lang, stderr); err != nil {
			return err
		}
	}

	a := app.NewWithID(config.AppID)
	a.Preferences().SetString(config.PrefLastRun, config.Version)
	if *lang != "" {
		a.Preferences().SetString(config.PrefLanguage, *lang)
	}

	desktop.NewApp(a, engine.NewCalculator(nil), tr).Run(ctx)
	return nil
}

// -----------------------------------------------------------------------------
// Calendar Inputs
// -----------------------------------------------------------------------------

// calendarFlags are shared by render and export.
type calendarFlags struct {
	birthdate *string
	lifespan  *string
	color     *string
	lang      *string
	now       *string
	name      *string
	vcard     *string
	vcardUser *string
	vcardSave *bool
}

func addCalendarFlags(fs *flag.FlagSet) *calendarFlags {
	return &calendarFlags{
		birthdate: fs.String(config.FlagBirthdate, "", config.FlagDescBirthdate),
		lifespan:  fs.String(config.FlagLifespan, strconv.Itoa(config.DefaultLifespanYears), config.FlagDescLifespan),
		color:     fs.String(config.FlagColor, config.DefaultPastColor, config.FlagDescColor),
		lang:      fs.String(config.FlagLang, config.DefaultLanguage, config.FlagDescLang),
		now:       fs.String(config.FlagNow, "", config.FlagDescNow),
		name:      fs.String(config.FlagName, "", config.FlagDescName),
		vcard:     fs.String(config.FlagVCard, "", config.FlagDescVCard),
		vcardUser: fs.String(config.FlagVCardUser, "", config.FlagDescVCardUser),
		vcardSave: fs.Bool(config.FlagVCardSave, false, config.FlagDescVCardSave),
	}
}

// calendar resolves the inputs and generates the calendar. The birthdate
// comes from -vcard when given, then -birthdate, then the default. Invalid
// input is reported on stderr in the selected language and returned as a
// usage error.
func (f *calendarFlags) calendar(ctx context.Context, stderr io.Writer) (*engine.LifeCalendar, *ui.Locale, string, error) {
	tr := ui.NewTranslator()
	if err := checkLang(tr, *f.lang, stderr); err != nil {
		return nil, nil, "", err
	}
	loc := tr.Locale(*f.lang)
	name := *f.name

	invalid := func(err error) (*engine.LifeCalendar, *ui.Locale, string, error) {
		msg := ui.ErrorMessage(loc, err)
		fmt.Fprintln(stderr, msg)
		return nil, loc, "", usageError{msg: msg}
	}

	var clock engine.Clock = engine.RealClock{}
	if *f.now != "" {
		now, err := engine.ParseBirthdate(*f.now)
		if err != nil {
			return invalid(err)
		}
		clock = engine.FixedClock(now)
	}

	birthdate := *f.birthdate
	if *f.vcard != "" {
		src := engine.VCardSource{
			Location: *f.vcard,
			User:     *f.vcardUser,
			Pass:     engine.LookupPassword(*f.vcardUser),
		}
		cardName, birth, err := engine.LoadVCardBirthdate(ctx, src, nil)
		if err != nil {
			if errors.Is(err, engine.ErrInvalidInput) {
				return invalid(err)
			}
			return nil, loc, "", err
		}
		if *f.vcardSave {
			if err := engine.StorePassword(src.User, src.Pass); err != nil {
				slog.Warn(config.MsgPassStoreFail,
					config.LogKeyComponent, config.CompMain,
					config.LogKeyError, err)
			}
		}
		birthdate = birth.Format(config.DateFormatFullDash)
		if name == "" {
			name = cardName
		}
	}
	if birthdate == "" {
		birthdate = engine.DefaultBirthdate(clock.Now()).Format(config.DateFormatFullDash)
	}

	in, err := engine.ParseInput(birthdate, *f.lifespan, *f.color)
	if err != nil {
		return invalid(err)
	}
	if in.PastColor, err = render.HexColor(in.PastColor); err != nil {
		return invalid(err)
	}

	lc, err := engine.NewCalculator(clock).Calculate(in)
	if err != nil {
		return invalid(err)
	}
	return lc, loc, name, nil
}

// checkLang rejects a -lang value with no loaded locale.
func checkLang(tr *ui.Translator, lang string, stderr io.Writer) error {
	langs := tr.Languages()
	if slices.Contains(langs, lang) {
		return nil
	}
	msg := fmt.Sprintf("%s: %q (%s)", config.ErrLangUnsupported, lang, strings.Join(langs, ", "))
	fmt.Fprintln(stderr, msg)
	return usageError{msg: msg}
}

// -----------------------------------------------------------------------------
// Logging & Diagnostics
// -----------------------------------------------------------------------------

// printVersion outputs the build information.
func printVersion(w io.Writer) {
	fmt.Fprintf(w, config.MsgVersionOutput,
		config.AppName,
		config.Version,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyCommit, config.Commit),
			slog.String(config.LogKeyDate, config.Date),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging configures the default slog logger. Records always go to the
// log file in the user cache directory, and to console when it is non-nil.
func setupLogging(debugMode bool, console io.Writer) io.Closer {
	var writers []io.Writer
	var logFile *os.File

	if console != nil {
		writers = append(writers, console)
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
