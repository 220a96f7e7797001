package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// Env is the environment variable for environment name.
	Env = "ENV"

	// DebugModeEnv is the environment variable for debug mode.
	DebugModeEnv = "DEBUG_MODE"

	// LogLevelEnv is the environment variable for the log level (debug, info, warn, error).
	LogLevelEnv = "LOG_LEVEL"

	// LogFormatEnv is the environment variable for the log format (json, text).
	LogFormatEnv = "LOG_FORMAT"

	// HTTPServerPortEnv is the environment variable for HTTP server port.
	HTTPServerPortEnv = "HTTP_SERVER_PORT"

	// MetricsServerPortEnv is the environment variable for metrics server port.
	MetricsServerPortEnv = "METRICS_SERVER_PORT"

	// SourceKindEnv selects where the catalogue rows come from (csv, sheets, xlsx).
	SourceKindEnv = "SOURCE_KIND"

	// SheetCSVURLEnv is the published CSV export URL of the catalogue sheet.
	SheetCSVURLEnv = "SHEET_CSV_URL"

	// SheetXLSXURLEnv is the XLSX export URL of the catalogue spreadsheet.
	SheetXLSXURLEnv = "SHEET_XLSX_URL"

	// SheetNameEnv is the worksheet to read from the XLSX export. Empty means the first one.
	SheetNameEnv = "SHEET_NAME"

	// SheetsSpreadsheetIDEnv is the spreadsheet ID used with the Sheets API.
	SheetsSpreadsheetIDEnv = "SHEETS_SPREADSHEET_ID"

	// SheetsRangeEnv is the A1 range read with the Sheets API.
	SheetsRangeEnv = "SHEETS_RANGE"

	// SheetsAPIKeyEnv is the API key used with the Sheets API.
	SheetsAPIKeyEnv = "SHEETS_API_KEY"

	// FetchTimeoutEnv bounds a single catalogue fetch.
	FetchTimeoutEnv = "FETCH_TIMEOUT"

	// RefreshIntervalEnv is how often the catalogue is fetched again. Zero disables it.
	RefreshIntervalEnv = "REFRESH_INTERVAL"

	// MessagingBaseURLEnv is the chat link purchase inquiries are routed to.
	MessagingBaseURLEnv = "MESSAGING_BASE_URL"

	// StoreBackendEnv selects the snapshot store (memory, postgres).
	StoreBackendEnv = "STORE_BACKEND"

	// SnapshotRetentionEnv is how many catalogue snapshots are kept.
	SnapshotRetentionEnv = "SNAPSHOT_RETENTION"

	// DBHostEnv is the environment variable for database host.
	DBHostEnv = "DB_HOST"

	// DBPortEnv is the environment variable for database port.
	DBPortEnv = "DB_PORT"

	// DBUserEnv is the environment variable for database user.
	DBUserEnv = "DB_USER"

	// DBPassEnv is the environment variable for database password.
	DBPassEnv = "DB_PASS"

	// DBNameEnv is the environment variable for database name.
	DBNameEnv = "DB_NAME"

	// AWSRegionEnv is the environment variable for AWS region.
	AWSRegionEnv = "AWS_REGION"

	// AWSEndpointEnv is the environment variable for AWS endpoint.
	AWSEndpointEnv = "AWS_ENDPOINT"

	// SQSQueueURLEnv is the environment variable for the inquiries SQS queue URL.
	SQSQueueURLEnv = "SQS_QUEUE_URL"

	// AdminJWTSecretEnv is the HS256 secret protecting the admin endpoints.
	AdminJWTSecretEnv = "ADMIN_JWT_SECRET"

	// EnvFilePath is the environment variable for .env file path (only for local/test environment).
	EnvFilePath = "ENV_PATH"

	// DefaultEnvFilePath is the default path to the .env file.
	DefaultEnvFilePath = ".env"
)

const (
	SourceCSV    = "csv"
	SourceSheets = "sheets"
	SourceXLSX   = "xlsx"

	StoreMemory   = "memory"
	StorePostgres = "postgres"

	defaultEnv              = "dev"
	defaultHTTPPort         = "8080"
	defaultMetricsPort      = "9090"
	defaultSheetsRange      = "A:G"
	defaultFetchTimeout     = "15s"
	defaultRefreshInterval  = "5m"
	defaultMessagingBaseURL = "https://wa.me/584129878696"
	defaultAWSRegion        = "us-east-1"
	defaultRetention        = "50"
)

var (
	// ErrMissingConfig is returned when required configuration values are missing.
	ErrMissingConfig = errors.New("missing config data")

	// ErrInvalidConfig is returned when a configuration value is not one of the allowed options.
	ErrInvalidConfig = errors.New("invalid config value")
)

// Config represents the application configuration.
type Config struct {
	Env           string
	DebugMode     bool
	Log           LogConfig
	HTTPServer    Server
	MetricsServer Server
	Source        SourceConfig
	Catalogue     CatalogueConfig
	Store         StoreConfig
	Database      DB
	AWS           AWSConfig
	Auth          AuthConfig
}

// LogConfig represents logger settings.
type LogConfig struct {
	Level  string
	Format string
}

// SourceConfig describes where catalogue rows are fetched from.
type SourceConfig struct {
	Kind          string
	CSVURL        string
	XLSXURL       string
	SheetName     string
	SpreadsheetID string
	Range         string
	APIKey        string
	FetchTimeout  time.Duration
}

// CatalogueConfig represents catalogue serving settings.
type CatalogueConfig struct {
	RefreshInterval  time.Duration
	MessagingBaseURL string
}

// StoreConfig selects the snapshot store backend.
type StoreConfig struct {
	Backend   string
	Retention int
}

// AWSConfig represents AWS-specific configuration settings.
type AWSConfig struct {
	Region      string
	Endpoint    string
	SQSQueueURL string
}

// AuthConfig represents admin authentication settings.
type AuthConfig struct {
	AdminJWTSecret string
}

// DB represents database configuration settings.
type DB struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
}

// Server represents server configuration settings.
type Server struct {
	Port string
}

// IsDev reports whether the service runs in the development environment.
func (c *Config) IsDev() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), defaultEnv)
}

func allNonEmpty(keyValues map[string]string) error {
	for key, value := range keyValues {
		if value == "" {
			slog.Error("configuration validation failed", slog.String("key", key), slog.String("error", "value is empty"))
			return fmt.Errorf("%w for key: %s", ErrMissingConfig, key)
		}
	}
	return nil
}

func allNumbers(keyValues map[string]string) error {
	for key, value := range keyValues {
		_, err := strconv.Atoi(value)
		if err != nil {
			slog.Error("configuration validation failed", slog.String("key", key), slog.String("value", value), slog.String("error", err.Error()))
			return fmt.Errorf("invalid number for key %s: %w", key, err)
		}
	}
	return nil
}

func oneOf(key, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	slog.Error("configuration validation failed", slog.String("key", key), slog.String("value", value), slog.Any("allowed", allowed))
	return fmt.Errorf("%w for key %s: %q (allowed: %s)", ErrInvalidConfig, key, value, strings.Join(allowed, ", "))
}

func (c *Config) validate() error {
	// Validate server ports
	if err := allNonEmpty(map[string]string{
		HTTPServerPortEnv:    c.HTTPServer.Port,
		MetricsServerPortEnv: c.MetricsServer.Port,
	}); err != nil {
		return fmt.Errorf("server port configuration incomplete: %w", err)
	}

	if err := allNumbers(map[string]string{
		HTTPServerPortEnv:    c.HTTPServer.Port,
		MetricsServerPortEnv: c.MetricsServer.Port,
	}); err != nil {
		return fmt.Errorf("invalid port number: %w", err)
	}

	if err := c.validateSource(); err != nil {
		return fmt.Errorf("source configuration incomplete: %w", err)
	}

	if err := allNonEmpty(map[string]string{
		MessagingBaseURLEnv: c.Catalogue.MessagingBaseURL,
	}); err != nil {
		return fmt.Errorf("catalogue configuration incomplete: %w", err)
	}

	if err := oneOf(StoreBackendEnv, c.Store.Backend, StoreMemory, StorePostgres); err != nil {
		return err
	}
	if c.Store.Retention <= 0 {
		return fmt.Errorf("%w for key %s: must be positive", ErrInvalidConfig, SnapshotRetentionEnv)
	}

	// Validate database configuration
	if c.Store.Backend == StorePostgres {
		if err := allNonEmpty(map[string]string{
			DBHostEnv: c.Database.Host,
			DBUserEnv: c.Database.User,
			DBNameEnv: c.Database.Name,
		}); err != nil {
			return fmt.Errorf("database configuration incomplete: %w", err)
		}
		if err := allNumbers(map[string]string{
			DBPortEnv: c.Database.Port,
		}); err != nil {
			return fmt.Errorf("invalid port number: %w", err)
		}
	}

	// Admin endpoints must be protected outside of dev
	if !c.IsDev() {
		if err := allNonEmpty(map[string]string{
			AdminJWTSecretEnv: c.Auth.AdminJWTSecret,
		}); err != nil {
			return fmt.Errorf("auth configuration incomplete: %w", err)
		}
	}

	return nil
}

func (c *Config) validateSource() error {
	if err := oneOf(SourceKindEnv, c.Source.Kind, SourceCSV, SourceSheets, SourceXLSX); err != nil {
		return err
	}

	switch c.Source.Kind {
	case SourceCSV:
		return allNonEmpty(map[string]string{SheetCSVURLEnv: c.Source.CSVURL})
	case SourceXLSX:
		return allNonEmpty(map[string]string{SheetXLSXURLEnv: c.Source.XLSXURL})
	default:
		return allNonEmpty(map[string]string{
			SheetsSpreadsheetIDEnv: c.Source.SpreadsheetID,
			SheetsRangeEnv:         c.Source.Range,
			SheetsAPIKeyEnv:        c.Source.APIKey,
		})
	}
}

// ValidateQueue checks the settings needed to publish or consume inquiry messages.
func (c *Config) ValidateQueue() error {
	if err := allNonEmpty(map[string]string{
		AWSRegionEnv:   c.AWS.Region,
		SQSQueueURLEnv: c.AWS.SQSQueueURL,
	}); err != nil {
		return fmt.Errorf("AWS configuration incomplete: %w", err)
	}
	return nil
}

func getEnvAsBool(name string, defaultValue bool) bool {
	if val, err := strconv.ParseBool(os.Getenv(name)); err == nil {
		return val
	}
	return defaultValue
}

func getEnv(name, defaultValue string) string {
	if val := strings.TrimSpace(os.Getenv(name)); val != "" {
		return val
	}
	return defaultValue
}

func getEnvAsDuration(name, defaultValue string) (time.Duration, error) {
	raw := getEnv(name, defaultValue)
	d, err := time.ParseDuration(raw)
	if err != nil {
		slog.Error("configuration validation failed", slog.String("key", name), slog.String("value", raw), slog.String("error", err.Error()))
		return 0, fmt.Errorf("invalid duration for key %s: %w", name, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w for key %s: negative duration", ErrInvalidConfig, name)
	}
	return d, nil
}

// ApplyEnvFile loads environment variables from the specified .env files.
func ApplyEnvFile(files ...string) error {
	err := godotenv.Load(files...)
	if err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// LoadFromEnv loads configuration from environment variables and validates it.
func LoadFromEnv() (*Config, error) {
	envPath := os.Getenv(EnvFilePath)
	if envPath == "" {
		envPath = DefaultEnvFilePath
	}
	err := ApplyEnvFile(envPath)
	if err != nil {
		// just log the error, maybe all envs are set in another way
		slog.Info("failed to load from .env", slog.Any("err", err))
	}

	fetchTimeout, err := getEnvAsDuration(FetchTimeoutEnv, defaultFetchTimeout)
	if err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	refreshInterval, err := getEnvAsDuration(RefreshIntervalEnv, defaultRefreshInterval)
	if err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	retentionRaw := getEnv(SnapshotRetentionEnv, defaultRetention)
	if err := allNumbers(map[string]string{SnapshotRetentionEnv: retentionRaw}); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	retention, _ := strconv.Atoi(retentionRaw)

	conf := &Config{
		Env:       getEnv(Env, defaultEnv),
		DebugMode: getEnvAsBool(DebugModeEnv, false),
		Log: LogConfig{
			Level:  getEnv(LogLevelEnv, "info"),
			Format: getEnv(LogFormatEnv, "json"),
		},
		HTTPServer: Server{
			Port: getEnv(HTTPServerPortEnv, defaultHTTPPort),
		},
		MetricsServer: Server{
			Port: getEnv(MetricsServerPortEnv, defaultMetricsPort),
		},
		Source: SourceConfig{
			Kind:          strings.ToLower(getEnv(SourceKindEnv, SourceCSV)),
			CSVURL:        os.Getenv(SheetCSVURLEnv),
			XLSXURL:       os.Getenv(SheetXLSXURLEnv),
			SheetName:     os.Getenv(SheetNameEnv),
			SpreadsheetID: os.Getenv(SheetsSpreadsheetIDEnv),
			Range:         getEnv(SheetsRangeEnv, defaultSheetsRange),
			APIKey:        os.Getenv(SheetsAPIKeyEnv),
			FetchTimeout:  fetchTimeout,
		},
		Catalogue: CatalogueConfig{
			RefreshInterval:  refreshInterval,
			MessagingBaseURL: getEnv(MessagingBaseURLEnv, defaultMessagingBaseURL),
		},
		Store: StoreConfig{
			Backend:   strings.ToLower(getEnv(StoreBackendEnv, StoreMemory)),
			Retention: retention,
		},
		Database: DB{
			Host:     os.Getenv(DBHostEnv),
			User:     os.Getenv(DBUserEnv),
			Password: os.Getenv(DBPassEnv),
			Name:     os.Getenv(DBNameEnv),
			Port:     getEnv(DBPortEnv, "5432"),
		},
		AWS: AWSConfig{
			Region:      getEnv(AWSRegionEnv, defaultAWSRegion),
			Endpoint:    os.Getenv(AWSEndpointEnv),
			SQSQueueURL: os.Getenv(SQSQueueURLEnv),
		},
		Auth: AuthConfig{
			AdminJWTSecret: os.Getenv(AdminJWTSecretEnv),
		},
	}

	if err := conf.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return conf, nil
}
