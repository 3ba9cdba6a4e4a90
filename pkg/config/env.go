package config

// EnvPrefix is empty: every field carries its full variable name so the names
// stay compatible with existing .env files.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv       = "APP_ENV"
	EnvLogLevel     = "LOG_LEVEL"
	EnvLogWarnStack = "LOG_WARN_STACK"

	EnvWCURL             = "WC_API_URL"
	EnvWCConsumerKey     = "WC_API_CONSUMER_KEY"
	EnvWCConsumerSecret  = "WC_API_CONSUMER_SECRET"
	EnvWCVersion         = "WC_API_VERSION"
	EnvWCTimeout         = "WC_API_TIMEOUT"
	EnvWCPageSize        = "WC_API_PAGE_SIZE"
	EnvWCQueryStringAuth = "WC_API_QUERY_STRING_AUTH"
	EnvWCUserAgent       = "WC_API_USER_AGENT"

	EnvReportExportDir = "REPORT_EXPORT_DIR"
	EnvReportKind      = "REPORT_KIND"
	EnvReportYear      = "REPORT_YEAR"
	EnvReportSinceYear = "REPORT_SINCE_YEAR"
	EnvReportTopN      = "REPORT_TOP_N"
	EnvReportLocale    = "REPORT_LOCALE"
	EnvReportStatuses  = "REPORT_ORDER_STATUSES"

	EnvThemeBackground = "REPORT_THEME_BACKGROUND"
	EnvThemeForeground = "REPORT_THEME_FOREGROUND"
	EnvThemeGrid       = "REPORT_THEME_GRID"
	EnvThemePalette    = "REPORT_THEME_PALETTE"
	EnvChartWidth      = "REPORT_CHART_WIDTH"
	EnvChartHeight     = "REPORT_CHART_HEIGHT"

	EnvMetricsTextfile = "METRICS_TEXTFILE"
)
