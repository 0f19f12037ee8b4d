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

// UserAgent identifies the HTTP client used to fetch remote vCards.
var UserAgent = "Life-In-Weeks/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName        = "Life in Weeks"
	AppID          = "com.github.tartampluch.life-in-weeks"
	KeyringService = "com.github.tartampluch.life-in-weeks"
	LogFileName    = "app.log"
	EnvVCardPass   = "LIFE_IN_WEEKS_VCARD_PASSWORD"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
	ExitCodeUsage   = 2
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// FilePermPublic represents -rw-r--r--, used for exported images and feeds.
	FilePermPublic fs.FileMode = 0644

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Commands, Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	CmdServe  = "serve"
	CmdRender = "render"
	CmdExport = "export"
	CmdGUI    = "gui"

	FlagVersion   = "version"
	FlagDebug     = "debug"
	FlagPort      = "port"
	FlagBind      = "bind"
	FlagLang      = "lang"
	FlagBirthdate = "birthdate"
	FlagLifespan  = "lifespan"
	FlagColor     = "color"
	FlagNow       = "now"
	FlagFormat    = "format"
	FlagOut       = "out"
	FlagVCard     = "vcard"
	FlagVCardUser = "vcard-user"
	FlagVCardSave = "vcard-remember"
	FlagName      = "name"

	FlagDescVersion   = "Show application version and exit"
	FlagDescDebug     = "Enable debug logging to stdout"
	FlagDescPort      = "Port the HTTP server listens on"
	FlagDescBind      = "Address the HTTP server binds to"
	FlagDescLang      = "Language for labels (en, fr)"
	FlagDescBirthdate = "Birthdate as YYYY-MM-DD"
	FlagDescLifespan  = "Expected lifespan in years (1-150)"
	FlagDescColor     = "Color of lived weeks (hex, e.g. #4a5568)"
	FlagDescNow       = "Override the current date (YYYY-MM-DD), for reproducible output"
	FlagDescFormat    = "Export format: png or ics"
	FlagDescOut       = "Output file (defaults to life-in-weeks_<lifespan>y.<ext>)"
	FlagDescVCard     = "Read the birthdate from a vCard file path or http(s) URL"
	FlagDescName      = "Name used in birthday event titles"
	FlagDescVCardUser = "Username for a remote vCard; the password comes from the keyring or " + EnvVCardPass
	FlagDescVCardSave = "Save the " + EnvVCardPass + " password in the OS keyring after a successful read"

	MsgVersionOutput = "%s version %s (%s/%s)\n"
	MsgUsage         = "Usage: life-in-weeks [-debug] [-version] <serve|render|export|gui> [flags]\n"
	MsgExported      = "Wrote %s\n"
)

// -----------------------------------------------------------------------------
// Life Calendar Rules
// -----------------------------------------------------------------------------

const (
	// WeeksPerYear is the fixed width of every grid row.
	WeeksPerYear = 52

	MinLifespanYears     = 1
	MaxLifespanYears     = 150
	DefaultLifespanYears = 80

	// LabelPeriod controls which rows carry an absolute year label.
	LabelPeriod = 5

	// DefaultBirthdateYearsAgo positions the default birthdate relative to today.
	DefaultBirthdateYearsAgo = 25

	DefaultPastColor = "#4a5568"

	DaysPerWeek   = 7
	SecondsPerDay = 24 * 60 * 60
)

// -----------------------------------------------------------------------------
// Export Layout (PNG)
// -----------------------------------------------------------------------------

const (
	// ExportPixelRatio scales every layout length for high-density output.
	ExportPixelRatio = 2

	ExportCellSize     = 10
	ExportCellGap      = 3
	ExportLabelWidth   = 36
	ExportPaddingTop   = 24
	ExportPaddingRight = 24
	ExportPaddingLeft  = 8
	ExportPaddingBot   = 8
	ExportRingWidth    = 1

	ExportBackground  = "#ffffff"
	ExportFutureRing  = "#a0aec0"
	ExportBeforeBirth = "#e2e8f0"
	ExportLabelColor  = "#4a5568"

	ExportFilePrefix = "life-in-weeks_"
	FormatExportName = "%s%dy.%s"
	ExtPNG           = "png"
	ExtICS           = "ics"
)

// -----------------------------------------------------------------------------
// Terminal Rendering
// -----------------------------------------------------------------------------

const (
	GlyphLived       = "●"
	GlyphFuture      = "○"
	GlyphBeforeBirth = "·"
	TermLabelWidth   = 5
	TermFutureColor  = "#718096"
	TermBeforeColor  = "#4a5568"
	TermBorderColor  = "#4a5568"
	// TermCellWidth is the rune width of a spaced cell ("● ").
	TermCellWidth = 2
)

// -----------------------------------------------------------------------------
// Desktop Window
// -----------------------------------------------------------------------------

const (
	// Preference keys persisted by the fyne app between runs.
	PrefBirthdate = "birthdate"
	PrefLifespan  = "lifespan"
	PrefPastColor = "past_color"
	PrefLanguage  = "language"
	PrefLastRun   = "last_run_version"

	WindowWidth  = 780
	WindowHeight = 860

	// GUICellSize is the side of one week circle in device-independent units.
	GUICellSize   = 11
	GUILabelWidth = 40
	GUIRingWidth  = 1

	// TooltipDuration matches the page's auto-hide delay.
	TooltipDuration = 5 * time.Second
)

// -----------------------------------------------------------------------------
// Web Page
// -----------------------------------------------------------------------------

const (
	TemplateIndex = "templates/index.html"

	ClassLived       = "past"
	ClassFuture      = "future"
	ClassBeforeBirth = "before-birth"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyPageTitle       = "page_title"
	TKeyPageSubtitle    = "page_subtitle"
	TKeyLblBirthdate    = "lbl_birthdate"
	TKeyLblLifespan     = "lbl_lifespan"
	TKeyLblPastColor    = "lbl_past_color"
	TKeyBtnGenerate     = "btn_generate"
	TKeyBtnDownload     = "btn_download"
	TKeyBtnCalendar     = "btn_calendar"
	TKeyStatTotal       = "stat_total_weeks"
	TKeyStatLived       = "stat_weeks_lived"
	TKeyStatRemaining   = "stat_weeks_remaining"
	TKeyStatAge         = "stat_age"
	TKeyStatusBefore    = "status_before_birth"
	TKeyStatusLived     = "status_lived"
	TKeyStatusFuture    = "status_future"
	TKeyTipLifeWeek     = "tip_life_week"     // Requires Week
	TKeyTipYearWeek     = "tip_year_week"     // Requires Year, Week
	TKeyDescBeforeBirth = "desc_before_birth" // Requires Year, Week
	TKeyDescLived       = "desc_lived"        // Requires Week
	TKeyDescFuture      = "desc_future"       // Requires Week
	TKeyErrMissing      = "err_missing_input"
	TKeyErrLifespan     = "err_lifespan_range" // Requires Min, Max
	TKeyErrBirthdate    = "err_birthdate"
	TKeyErrColor        = "err_color"
	TKeyHintMobile      = "hint_export_mobile"
	TKeyEvtBirth        = "event_birth"    // Requires Name
	TKeyEvtBirthday     = "event_birthday" // Requires Name, Age
	TKeyFallbackName    = "fallback_name"
	TKeyLblLanguage     = "lbl_language"
	TKeyMsgSaved        = "msg_saved" // Requires File
)

// SupportedLanguages defines the list of available label languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// Default Values
// -----------------------------------------------------------------------------

const (
	DefaultPort     = "18081"
	DefaultBindAddr = "127.0.0.1"
	DefaultLanguage = "en"
	DefaultName     = "Me"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	ICalVersion = "2.0"
	ICalProdid  = "-//Life in Weeks//Engine//EN"
	ICalCalName = "Life in Weeks"
	ICalMethod  = "PUBLISH"
	ICalScale   = "GREGORIAN"

	PropUID        = "UID"
	PropSummary    = "SUMMARY"
	PropDTStart    = "DTSTART"
	PropDTStamp    = "DTSTAMP"
	PropRefresh    = "REFRESH-INTERVAL"
	PropVersion    = "VERSION"
	PropProdid     = "PRODID"
	PropXWRCalName = "X-WR-CALNAME"
	PropCalScale   = "CALSCALE"
	PropMethod     = "METHOD"

	VCardBDAY = "BDAY"
	VCardFN   = "FN"
	VCardN    = "N"

	DefaultICalRefresh = 24 * time.Hour

	// FormatUIDName is hashed into a name-based UUID per birthday event.
	FormatUIDName = "life-in-weeks|%s|%d"

	FallbackBirth    = "%s is born"
	FallbackBirthday = "%s turns %d"
)

// -----------------------------------------------------------------------------
// Data Formats & Limits
// -----------------------------------------------------------------------------

const (
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	MinPort = 1
	MaxPort = 65535
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	HandlerTimeout      = 20 * time.Second
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 1024 * 1024 // 1MB, plenty for a single vCard
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"

	RouteRoot    = "/"
	RouteGrid    = "/api/grid"
	RouteCell    = "/api/cell"
	RouteExport  = "/export"
	RoutePNG     = "/png"
	RouteICS     = "/ics"
	RouteHealthz = "/healthz"

	QueryBirthdate = "birthdate"
	QueryLifespan  = "lifespan"
	QueryColor     = "color"
	QueryLang      = "lang"
	QueryYearIndex = "year_index"
	QueryColumn    = "column"
	QueryName      = "name"
)

// MobileUserAgentHints are lowercase substrings identifying phone and tablet
// browsers. User agents are lowercased before matching.
var MobileUserAgentHints = []string{"mobi", "android", "iphone", "ipad", "ipod"}

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType        = "Content-Type"
	HeaderContentDisposition = "Content-Disposition"
	HeaderCacheControl       = "Cache-Control"
	HeaderETag               = "ETag"
	HeaderAllow              = "Allow"
	HeaderXContentType       = "X-Content-Type-Options"
	HeaderUserAgent          = "User-Agent"
	HeaderAccept             = "Accept"
	HeaderIfNoneMatch        = "If-None-Match"
	HeaderAcceptLanguage     = "Accept-Language"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json; charset=utf-8"
	MimeHTML            = "text/html; charset=utf-8"
	MimePNG             = "image/png"
	MimeVCardAccept     = "text/vcard, text/x-vcard;q=0.9, */*;q=0.5"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
	// FormatAttachment expects a file name.
	FormatAttachment = `attachment; filename="%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrInvalidInput     = "invalid input"
	ErrBirthdateMissing = "birthdate is missing"
	ErrBirthdateParse   = "unable to parse birthdate"
	ErrBirthdateYear    = "birthdate has no year"
	ErrLifespanMissing  = "lifespan is missing"
	ErrLifespanNumber   = "lifespan must be an integer"
	ErrLifespanRange    = "lifespan must be between 1 and 150"
	ErrColorParse       = "unable to parse color"
	ErrCellOutOfGrid    = "cell is outside the grid"
	ErrNoBirthday       = "no vCard with a birthday found"
	ErrVCardParse       = "failed to parse vCard stream"
	ErrVCardOpen        = "failed to open vCard source"
	ErrICalEncode       = "failed to encode iCalendar data"
	ErrPNGEncode        = "failed to encode PNG image"
	ErrFormatUnsupport  = "unsupported export format"
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrPortRequired     = "server port is required"
	ErrPortNumber       = "server port must be a number"
	ErrPortRange        = "server port must be between 1 and 65535"
	ErrInvalidURL       = "invalid URL structure"
	ErrProtocol         = "unsupported protocol scheme (http/https only)"
	ErrFetchStatus      = "vCard server returned an error status"
	ErrFetchRequest     = "vCard request failed"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrCreateDir        = "could not create app cache dir"
	ErrAppFailed        = "application failed unexpectedly"
	ErrWriteResp        = "failed to write response body"
	ErrWriteFile        = "failed to write output file"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
	ErrTemplateRender   = "failed to render page template"
	ErrUnknownCommand   = "unknown command"
	ErrLangUnsupported  = "unsupported language"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPMsgInternalErr  = "Internal Server Error"
	HTTPMsgOK           = "ok"
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgAppStarting   = "Starting application"
	MsgAppStop       = "Application stopped gracefully"
	MsgGridGenerated = "Life calendar generated"
	MsgServerListen  = "HTTP server listening"
	MsgServerStop    = "Shutting down HTTP server..."
	MsgRequest       = "HTTP request"
	MsgBadRequest    = "Rejected invalid input"
	MsgLocaleSkip    = "Skipping non-locale file"
	MsgLocaleBadName = "Skipping malformed locale filename"
	MsgLocaleLoaded  = "Locale loaded successfully"
	MsgLocaleMissing = "Supported language has no locale file"
	MsgTransMissing  = "Missing translation key"
	MsgSkippedDate   = "Skipping invalid date format"
	MsgVCardFound    = "Birthdate read from vCard"
	MsgPassFail      = "Password retrieval failed (might be empty)"
	MsgPassStored    = "vCard password saved to keyring"
	MsgPassStoreFail = "Could not save vCard password to keyring"
	MsgLogWarning    = "Warning: %s at %s: %v\n"
	MsgExportDone    = "Export written"
	MsgTermNarrow    = "Terminal narrower than the grid, using compact cells"
	MsgWindowOpen    = "Opening life calendar window"
	MsgCellTapped    = "Week cell selected"
	MsgCtxCancel     = "Context cancelled, quitting window"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyBind      = "bind"
	LogKeyMethod    = "method"
	LogKeyPath      = "path"
	LogKeyRequestID = "request_id"
	LogKeyUser      = "user"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeyLifespan  = "lifespan_years"
	LogKeyTotal     = "total_weeks"
	LogKeyLived     = "weeks_lived"
	LogKeyRemaining = "weeks_remaining"
	LogKeyAge       = "age"
	LogKeyName      = "name"
	LogKeyDOB       = "date_of_birth"
	LogKeyDuration  = "duration_ms"
	LogKeySizeBytes = "size_bytes"
	LogKeyFormat    = "format"
	LogKeyWidth     = "width"
	LogKeyYearIndex = "year_index"
	LogKeyColumn    = "column"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyCommit  = "commit"
	LogKeyDate    = "date"
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
	CompMain   = "main"
	CompEngine = "engine"
	CompRender = "render"
	CompServer = "server"
	CompVCard  = "vcard"
	CompI18n   = "i18n"
	CompDesk   = "desktop"
)
