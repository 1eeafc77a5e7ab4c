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

// UserAgent identifies the HTTP client.
var UserAgent = "Go-Kalendar/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Kalendar"
	AppID             = "com.github.tartampluch.go-kalendar"
	KeyringService    = "com.github.tartampluch.go-kalendar"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	IconFile          = "Icon.png"
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
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion      = "version"
	FlagDebug        = "debug"
	FlagAttrs        = "attrs"
	FlagPrint        = "print"
	FlagMonth        = "month"
	FlagDescVersion  = "Show application version and exit"
	FlagDescDebug    = "Enable debug logging to stdout"
	FlagDescAttrs    = "Path to a YAML file with calendar widget attributes"
	FlagDescPrint    = "Print the month grid to the terminal and exit"
	FlagDescMonth    = "Month to print, formatted as YYYY-MM (default: current month)"
	MsgVersionOutput = "%s version %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// Calendar Grid
// -----------------------------------------------------------------------------

const (
	// GridWeeks and GridColumns give the 6x7 shape of the day grid.
	GridWeeks   = 6
	GridColumns = 7

	// MonthLayout is the textual form of a reference month ("2024-03").
	MonthLayout = "2006-01"
	// DayLayout is the textual form of a single day.
	DayLayout = "2006-01-02"
)

// -----------------------------------------------------------------------------
// Widget Attributes
// -----------------------------------------------------------------------------

const (
	// DefaultDateFormat is the title layout used when none is configured or the
	// configured one is unusable.
	DefaultDateFormat = "Jan 2006"

	HighlightCircle = "circle"
	HighlightSquare = "square"
	HighlightBorder = "border"

	DefaultHighlight = HighlightCircle

	// WeekStartAuto derives the first weekday from the UI language region.
	WeekStartAuto = "auto"
)

// HighlightStyles lists the accepted highlight appearances, default first.
var HighlightStyles = []string{HighlightCircle, HighlightSquare, HighlightBorder}

// WeekStarts lists the accepted first-weekday settings, auto first.
var WeekStarts = []string{WeekStartAuto, "sunday", "monday", "saturday"}

// -----------------------------------------------------------------------------
// UI Constants & Preferences
// -----------------------------------------------------------------------------

const (
	SettingsWindowWidth = 600
	MainWindowWidth     = 420
	MainWindowHeight    = 460

	// Preference Keys
	PrefLanguage       = "language"
	PrefDateFormat     = "date_format"
	PrefAllowHighlight = "allow_highlight"
	PrefHighlightStyle = "highlight_style"
	PrefWeekStart      = "week_start"
	PrefSourceURL      = "source_url"
	PrefUsername       = "username"
	PrefSourceMode     = "source_mode"
	PrefLocalPath      = "local_path"
	PrefInterval       = "refresh_interval_min"
	PrefServerPort     = "server_port"
	PrefLastRun        = "last_run_version"
)

// SupportedLanguages defines the list of available UI languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// UI Events Window Constants
// -----------------------------------------------------------------------------

const (
	EventsWinWidth  = 360
	EventsWinHeight = 400

	// Table Column IDs
	ColIDDate    = 0
	ColIDWeekday = 1

	ColWidthDate    = 160
	ColWidthWeekday = 160

	TablePlaceholder = "Cell Content"
	LogMsgOpenWin    = "Opening events window"
	LogMsgSorted     = "Events sorted"

	SortIconAsc  = " ▲"
	SortIconDesc = " ▼"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWinTitle       = "win_title"
	TKeyWinSettings    = "win_settings_title"
	TKeyWinEvents      = "win_events_title"
	TKeyMenuShow       = "menu_show"
	TKeyMenuEvents     = "menu_events"
	TKeyMenuReload     = "menu_reload"
	TKeyMenuSettings   = "menu_settings"
	TKeyStatusIdle     = "status_idle"
	TKeyStatusClicked  = "status_clicked"     // Requires Date
	TKeyStatusLong     = "status_long_press"  // Requires Date
	TKeyStatusEvents   = "status_events"      // Requires Count > 0
	TKeyStatusNoEvents = "status_events_zero" // Explicit key for 0
	TKeyNotifStart     = "notif_reload_start"
	TKeyNotifSuccess   = "notif_reload_success"
	TKeyNotifError     = "notif_err_reload"
	TKeyModeWeb        = "mode_web"
	TKeyModeLocal      = "mode_local"
	TKeyModeNone       = "mode_none"
	TKeyLblLanguage    = "lbl_language"
	TKeyHelpLanguage   = "help_language"
	TKeyLblMinutes     = "lbl_minutes_suffix"
	TKeyLblRefresh     = "lbl_refresh_interval"
	TKeyHelpInterval   = "help_interval"
	TKeyLblPort        = "lbl_server_port"
	TKeyHelpPort       = "help_port"
	TKeyLblGeneral     = "lbl_general"
	TKeyLblCalendar    = "lbl_calendar"
	TKeyLblDateFormat  = "lbl_date_format"
	TKeyHelpDateFormat = "help_date_format"
	TKeyLblHighlight   = "lbl_allow_highlight"
	TKeyLblHighStyle   = "lbl_highlight_style"
	TKeyLblWeekStart   = "lbl_week_start"
	TKeyBtnSave        = "btn_save"
	TKeyBtnCancel      = "btn_cancel"
	TKeyLblFooter      = "lbl_footer"
	TKeyBtnBrowse      = "btn_browse"
	TKeyLblURL         = "lbl_url"
	TKeyHelpURL        = "help_source_url"
	TKeyLblUser        = "lbl_user"
	TKeyLblPass        = "lbl_pass"
	TKeyLblSource      = "lbl_source"

	// Column Headers
	TKeyColDate    = "col_date"
	TKeyColWeekday = "col_weekday"

	// TKeyMonthPrefix and TKeyWeekdayPrefix are completed by the month number
	// (1-12) or the weekday number (0 = Sunday).
	TKeyMonthPrefix        = "month_"
	TKeyMonthShortPrefix   = "month_short_"
	TKeyWeekdayPrefix      = "weekday_"
	TKeyWeekdayShortPrefix = "weekday_short_"

	// Validation Errors (UI)
	TKeyErrPortReq    = "err_port_required"
	TKeyErrPortNum    = "err_port_number"
	TKeyErrPortRange  = "err_port_range"
	TKeyErrDateFormat = "err_date_format"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	SourceModeNone    = "none"
	SourceModeWeb     = "web"
	SourceModeLocal   = "local"
	DefaultPort       = "18081"
	DefaultRefreshMin = 60
	DefaultLanguage   = "en"
	UIDSalt           = "go-kalendar-v1-" // Salt for deterministic UID generation
	DisabledInterval  = 0
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion      = "2.0"
	ICalProdid       = "-//Go Kalendar//Engine//EN"
	ICalCalName      = "Marked days"
	ICalMethod       = "PUBLISH"
	ICalScale        = "GREGORIAN"
	ICalDomain       = "gokalendar"
	ICalEventSummary = "Marked day"

	// iCal Fields
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

	// vCard Fields
	VCardBDAY        = "BDAY"
	VCardAnniversary = "ANNIVERSARY"

	// Stream markers used to detect the source format.
	MarkerVCalendar = "BEGIN:VCALENDAR"
	MarkerVCard     = "BEGIN:VCARD"
	SniffSize       = 512

	DefaultICalRefresh = 1 * time.Hour
)

// -----------------------------------------------------------------------------
// Data Formats, Limits & File Extensions
// -----------------------------------------------------------------------------

const (
	// Date layouts used for parsing vCard date fields
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"

	// Limits
	MinPort = 1
	MaxPort = 65535

	// UID Generation
	UIDHashLength   = 16
	FormatHashInput = "%s|%s"
	FormatUID       = "%s@%s"

	// File Extensions
	ExtICS   = ".ics"
	ExtVCF   = ".vcf"
	ExtVCard = ".vcard"
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
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 64 * 1024 * 1024 // 64MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	// SchemeWebcal is the calendar subscription scheme, fetched over https.
	SchemeWebcal = "webcal"
	RouteRoot           = "/"
	RouteFeed           = "/kalendar.ics"
	AddrSeparator       = ":"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderAccept          = "Accept"
	HeaderContentLength   = "Content-Length"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	AcceptSources       = "text/calendar, text/vcard;q=0.9, */*;q=0.1"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrLocalPathEmpty   = "configuration error: local path is empty"
	ErrWebURLEmpty      = "configuration error: web URL is empty"
	ErrFetcherMissing   = "internal error: network fetcher is not initialized"
	ErrModeUnsupport    = "configuration error: unsupported source mode"
	ErrSourceFormat     = "unrecognized event source format (expected iCalendar or vCard)"
	ErrSourceRead       = "failed to read event source"
	ErrICalDecode       = "failed to decode iCalendar stream"
	ErrICalEncode       = "failed to encode iCalendar data"
	ErrDateParse        = "unable to parse date"
	ErrDateFormatEmpty  = "date format is empty"
	ErrDateFormatTokens = "date format contains no date elements"
	ErrWeekStart        = "unknown first weekday"
	ErrHighlightStyle   = "unknown highlight style"
	ErrMonthParse       = "invalid month (expected YYYY-MM)"
	ErrTermWrite        = "failed to write calendar to terminal"
	ErrAttrsRead        = "failed to read attributes file"
	ErrAttrsParse       = "failed to parse attributes file"
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrPortRequired     = "server port is required"
	ErrInvalidURL       = "invalid URL structure"
	ErrProtocol         = "unsupported protocol scheme (http/https only)"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrCreateDir        = "could not create app cache dir"
	ErrAppFailed        = "application failed unexpectedly"
	ErrWriteResp        = "failed to write response body"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
	ErrTrayNotSupported = "system tray not supported on this platform/driver"
	ErrFeedExport       = "failed to export marked days"
	ErrRequestBuild     = "failed to create request"
	ErrNetwork          = "network error during fetch"
	ErrHTTPStatus       = "server returned unexpected status"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPMsgNotFound     = "Not Found"
)

// -----------------------------------------------------------------------------
// Fallbacks & Defaults
// -----------------------------------------------------------------------------

const (
	FallbackStatusError  = "Go Kalendar: Reload Error"
	FallbackStatusEvents = "%d marked days"
	FallbackTrayLabel    = "Go Kalendar"

	// StubVCalendar is the minimal valid iCalendar object used when no day is marked.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	TitleStartupError = "Startup Error"
	TitleReloadError  = "Reload Error"

	MsgPortBusy        = "Port %s is busy or unavailable."
	MsgReloadReq       = "Event reload requested"
	MsgReloadFailed    = "Event reload failed. Check logs."
	MsgReloadSkipped   = "No event source configured, keeping current events"
	MsgWorkerStart     = "Background worker started"
	MsgWorkerStop      = "Worker stopping due to context cancellation"
	MsgUpdateInterval  = "Updating reload interval"
	MsgAppStop         = "Application stopped gracefully"
	MsgCtxCancel       = "Context cancelled, shutting down UI"
	MsgSkippedCard     = "Skipping malformed vCard"
	MsgSkippedDate     = "Skipping invalid date format"
	MsgSkippedEvent    = "Skipping event without usable start date"
	MsgLoadStarted     = "Event source load started"
	MsgLoadSuccess     = "Event source loaded"
	MsgAppStarting     = "Starting application"
	MsgServerListen    = "HTTP server listening"
	MsgServerStop      = "Shutting down HTTP server..."
	MsgCacheUpdated    = "Feed cache updated"
	MsgLocaleSkip      = "Skipping non-locale file"
	MsgLocaleBadName   = "Skipping malformed locale filename"
	MsgLocaleLoaded    = "Locale loaded successfully"
	MsgTransMissing    = "Missing translation key"
	MsgPassFail        = "Password retrieval failed (might be empty)"
	MsgLogWarning      = "Warning: %s at %s: %v\n"
	MsgMonthChanged    = "Reference month changed"
	MsgEventToggled    = "Event toggled"
	MsgEventsReplaced  = "Event set replaced"
	MsgDayClicked      = "Day clicked"
	MsgDayLongPressed  = "Day long-pressed"
	MsgAttrsReset      = "Invalid widget attributes replaced by defaults"
	MsgAttrsLoaded     = "Widget attributes loaded"
	MsgFetchStart      = "Initiating event source download"
	MsgFetchStatus     = "Server returned error status"
	MsgFetchBody       = "Event source downloading"

	PlaceholderURL = "https://..."
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
	LogKeyMode      = "mode"
	LogKeyFormat    = "format"
	LogKeyInterval  = "interval"
	LogKeyOld       = "old"
	LogKeyNew       = "new"
	LogKeyUser      = "user"
	LogKeySizeBytes = "size_bytes"
	LogKeyLength    = "content_length"
	LogKeyETag      = "etag"
	LogKeyManual    = "manual"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeySortCol   = "sort_column"
	LogKeySortAsc   = "sort_asc"
	LogKeyCount     = "count"
	LogKeyDate      = "date"
	LogKeyDelta     = "delta"
	LogKeyMarked    = "marked"
	LogKeyDuration  = "duration_ms"
	LogKeyTotal     = "total_entries"
	LogKeyFound     = "dates_found"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyCommit  = "commit"
	LogKeyBuilt   = "built"
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
	CompUI      = "ui"
	CompUISet   = "ui_settings"
	CompWidget  = "widget"
	CompEngine  = "engine"
	CompSource  = "source"
	CompServer  = "server"
	CompFetcher = "fetcher"
	CompWorker  = "worker"
	CompMain    = "main"
	CompI18n    = "i18n"
	CompConfig  = "config"
)

// -----------------------------------------------------------------------------
// UI Layout Constants
// -----------------------------------------------------------------------------

const (
	LayoutColumnsDouble = 2
	DayCellMinSize      = 36
	HighlightInset      = 3
	HighlightStroke     = 2
	HighlightCorner     = 4
)
