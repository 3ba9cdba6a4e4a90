package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/multierr"
	"golang.org/x/text/language"

	"github.com/angelmondragon/wcreports/pkg/enums"
	pkgerrors "github.com/angelmondragon/wcreports/pkg/errors"
)

const maxPageSize = 100

type Config struct {
	App         AppConfig
	WooCommerce WooCommerceConfig
	Report      ReportConfig
	Theme       ThemeConfig
	Metrics     MetricsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// WooCommerceConfig holds the store endpoint and REST API credentials.
type WooCommerceConfig struct {
	URL             string        `envconfig:"WC_API_URL" required:"true"`
	ConsumerKey     string        `envconfig:"WC_API_CONSUMER_KEY" required:"true"`
	ConsumerSecret  string        `envconfig:"WC_API_CONSUMER_SECRET" required:"true"`
	Version         string        `envconfig:"WC_API_VERSION" default:"wc/v3"`
	Timeout         time.Duration `envconfig:"WC_API_TIMEOUT" default:"30s"`
	PageSize        int           `envconfig:"WC_API_PAGE_SIZE" default:"100"`
	QueryStringAuth bool          `envconfig:"WC_API_QUERY_STRING_AUTH" default:"false"`
	UserAgent       string        `envconfig:"WC_API_USER_AGENT" default:"wcreports/1.0"`
}

// IsSecure reports whether the store is reached over TLS, which decides the auth scheme.
func (w WooCommerceConfig) IsSecure() bool {
	u, err := url.Parse(strings.TrimSpace(w.URL))
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Scheme, "https")
}

type ReportConfig struct {
	ExportDir string `envconfig:"REPORT_EXPORT_DIR" default:"../export/diagrams"`
	Kind      string `envconfig:"REPORT_KIND" default:"orders-units"`
	Year      int    `envconfig:"REPORT_YEAR" default:"0"`
	SinceYear int    `envconfig:"REPORT_SINCE_YEAR" default:"2018"`
	TopN      int    `envconfig:"REPORT_TOP_N" default:"10"`
	Locale    string `envconfig:"REPORT_LOCALE" default:"de"`
	// Statuses restricts fetched orders; empty means every status.
	Statuses []string `envconfig:"REPORT_ORDER_STATUSES"`
}

// YearOrCurrent returns the configured year, defaulting to the year of now.
func (r ReportConfig) YearOrCurrent(now time.Time) int {
	if r.Year <= 0 {
		return now.Year()
	}
	return r.Year
}

// Language parses the configured locale tag.
func (r ReportConfig) Language() language.Tag {
	tag, err := language.Parse(strings.TrimSpace(r.Locale))
	if err != nil {
		return language.German
	}
	return tag
}

type ThemeConfig struct {
	Background string   `envconfig:"REPORT_THEME_BACKGROUND" default:"#333333"`
	Foreground string   `envconfig:"REPORT_THEME_FOREGROUND" default:"white"`
	Grid       string   `envconfig:"REPORT_THEME_GRID" default:"gray"`
	Palette    []string `envconfig:"REPORT_THEME_PALETTE" default:"lightgreen,green,#4E79A7,#F28E2B,#E15759,#76B7B2,#EDC948,#B07AA1,#FF9DA7,#9C755F"`
	Width      int      `envconfig:"REPORT_CHART_WIDTH" default:"1200"`
	Height     int      `envconfig:"REPORT_CHART_HEIGHT" default:"600"`
}

type MetricsConfig struct {
	Textfile string `envconfig:"METRICS_TEXTFILE"`
}

// Validate performs the cross-field checks envconfig tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(strings.TrimSpace(c.WooCommerce.URL))
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("%s: %w", EnvWCURL, err))
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, fmt.Errorf("%s: scheme must be http or https, got %q", EnvWCURL, u.Scheme))
	case u.Host == "":
		errs = append(errs, fmt.Errorf("%s: host is required", EnvWCURL))
	}
	if strings.TrimSpace(c.WooCommerce.ConsumerKey) == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvWCConsumerKey))
	}
	if strings.TrimSpace(c.WooCommerce.ConsumerSecret) == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvWCConsumerSecret))
	}
	if strings.TrimSpace(c.WooCommerce.Version) == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvWCVersion))
	}
	if c.WooCommerce.PageSize < 1 || c.WooCommerce.PageSize > maxPageSize {
		errs = append(errs, fmt.Errorf("%s must be between 1 and %d, got %d", EnvWCPageSize, maxPageSize, c.WooCommerce.PageSize))
	}
	if c.WooCommerce.Timeout < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", EnvWCTimeout))
	}

	if strings.TrimSpace(c.Report.ExportDir) == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvReportExportDir))
	}
	if c.Report.SinceYear < 1970 {
		errs = append(errs, fmt.Errorf("%s must be 1970 or later, got %d", EnvReportSinceYear, c.Report.SinceYear))
	}
	if c.Report.Year != 0 && (c.Report.Year < 1970 || c.Report.Year > 9999) {
		errs = append(errs, fmt.Errorf("%s must be between 1970 and 9999, got %d", EnvReportYear, c.Report.Year))
	}
	if c.Report.TopN < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", EnvReportTopN))
	}
	if _, err := language.Parse(strings.TrimSpace(c.Report.Locale)); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", EnvReportLocale, err))
	}
	if _, err := enums.ParseOrderStatuses(c.Report.Statuses); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", EnvReportStatuses, err))
	}

	if c.Theme.Width <= 0 || c.Theme.Height <= 0 {
		errs = append(errs, fmt.Errorf("%s and %s must be positive", EnvChartWidth, EnvChartHeight))
	}
	if len(c.Theme.Palette) == 0 {
		errs = append(errs, fmt.Errorf("%s must list at least one color", EnvThemePalette))
	}

	if err := multierr.Combine(errs...); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid configuration")
	}
	return nil
}
