package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	HTTP      HTTPConfig
	Warehouse DatabaseConfig
	Redis     RedisConfig
	LLM       LLMConfig
	Google    GoogleConfig
	PDF       PDFConfig
	Storage   StorageConfig
	Telemetry TelemetryConfig
	Log       LogConfig
	Clients   []ClientConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name          string
	Env           string
	Port          string
	DefaultClient string // used by the dashboard when x-client-id is absent
}

// DatabaseConfig holds warehouse connection settings
type DatabaseConfig struct {
	Driver          string // postgres, sqlite
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
	QueryTimeout    time.Duration
	SlowQueryThresh time.Duration
}

// RedisConfig holds Redis connection settings.
// With Enabled=false responses are cached in process memory.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	CacheTTL time.Duration
}

// Addr returns host:port
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// LLMConfig holds Anthropic settings
type LLMConfig struct {
	APIKey          string
	BaseURL         string
	Model           string
	ExtractionModel string
	MaxTokens       int
	MaxSteps        int
	Timeout         time.Duration
}

// GoogleConfig holds Google Drive settings
type GoogleConfig struct {
	CredentialsFile string
	OwnerEmail      string
	DriveFolderID   string
	ShareDomain     string
}

// PDFConfig holds headless Chrome settings
type PDFConfig struct {
	ChromePath string // empty = chromedp default lookup
	Timeout    time.Duration
	NoSandbox  bool
}

// StorageConfig holds the optional S3 archive for exported PDFs
type StorageConfig struct {
	Enabled         bool
	Bucket          string
	Region          string
	Endpoint        string // custom endpoint for MinIO/R2
	Prefix          string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	MaxBodySize      int64
	MaxUploadSize    int64
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
	// Per-client request budget for the LLM-backed routes; 0 disables it
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool    // Whether to enable OpenTelemetry
	CollectorEndpoint string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName       string  // Service name for traces
	Insecure          bool    // Use insecure (non-TLS) connection (development only)
	MetricsEnabled    bool
	MetricsInterval   time.Duration
	LogsEnabled       bool // export zap logs over OTLP
	DBTraceEnabled    bool // Enable warehouse query tracing (otelgorm)
	DBLogFullSQL      bool // Record SQL with bound variables (dev only)
	Profiling         ProfilingConfig
}

// ProfilingConfig holds Pyroscope continuous profiling configuration
type ProfilingConfig struct {
	Enabled           bool
	ServerAddress     string   // e.g. "http://pyroscope:4040"
	ApplicationName   string   // defaults to the telemetry service name
	BasicAuthUser     string   // Grafana Cloud only
	BasicAuthPassword string   // Grafana Cloud only
	ProfileTypes      []string // cpu, alloc_objects, alloc_space, inuse_objects, inuse_space, goroutines, mutex, block
	SpanProfiles      bool     // tag CPU samples with the active span id
	MutexFraction     int
	BlockRate         int
}

// ClientConfig overrides or adds a client of the built-in registry
type ClientConfig struct {
	ID                string  `mapstructure:"id"`
	Name              string  `mapstructure:"name"`
	Dataset           string  `mapstructure:"dataset"`
	HasEmail          *bool   `mapstructure:"has_email"`
	MonthlyTarget     float64 `mapstructure:"monthly_target"`
	MonthlyROASTarget float64 `mapstructure:"monthly_roas_target"`
	Currency          string  `mapstructure:"currency"`
	CurrencySymbol    string  `mapstructure:"currency_symbol"`
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with ANALYTICS_ prefix (e.g., ANALYTICS_WAREHOUSE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
//
// ANTHROPIC_API_KEY, GOOGLE_APPLICATION_CREDENTIALS and
// GOOGLE_WORKSPACE_OWNER_EMAIL are also read without the prefix.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("ANALYTICS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// BindEnv with explicit names skips the prefix
	_ = v.BindEnv("llm.api_key", "ANALYTICS_LLM_API_KEY", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("google.credentials_file", "ANALYTICS_GOOGLE_CREDENTIALS_FILE", "GOOGLE_APPLICATION_CREDENTIALS")
	_ = v.BindEnv("google.owner_email", "ANALYTICS_GOOGLE_OWNER_EMAIL", "GOOGLE_WORKSPACE_OWNER_EMAIL")

	cfg := &Config{
		App: AppConfig{
			Name:          v.GetString("app.name"),
			Env:           v.GetString("app.env"),
			Port:          v.GetString("app.port"),
			DefaultClient: v.GetString("app.default_client"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			MaxUploadSize:    v.GetInt64("http.max_upload_size"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),

			RateLimitRequests: v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:   v.GetDuration("http.rate_limit_window"),
		},
		Warehouse: DatabaseConfig{
			Driver:          v.GetString("warehouse.driver"),
			Host:            v.GetString("warehouse.host"),
			Port:            v.GetInt("warehouse.port"),
			User:            v.GetString("warehouse.user"),
			Password:        v.GetString("warehouse.password"),
			DBName:          v.GetString("warehouse.dbname"),
			SSLMode:         v.GetString("warehouse.sslmode"),
			SQLitePath:      v.GetString("warehouse.sqlite_path"),
			MaxOpenConns:    v.GetInt("warehouse.max_open_conns"),
			MaxIdleConns:    v.GetInt("warehouse.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("warehouse.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("warehouse.conn_max_idle_time"),
			QueryTimeout:    v.GetDuration("warehouse.query_timeout"),
			SlowQueryThresh: v.GetDuration("warehouse.slow_query_threshold"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			CacheTTL: v.GetDuration("redis.cache_ttl"),
		},
		LLM: LLMConfig{
			APIKey:          v.GetString("llm.api_key"),
			BaseURL:         v.GetString("llm.base_url"),
			Model:           v.GetString("llm.model"),
			ExtractionModel: v.GetString("llm.extraction_model"),
			MaxTokens:       v.GetInt("llm.max_tokens"),
			MaxSteps:        v.GetInt("llm.max_steps"),
			Timeout:         v.GetDuration("llm.timeout"),
		},
		Google: GoogleConfig{
			CredentialsFile: v.GetString("google.credentials_file"),
			OwnerEmail:      v.GetString("google.owner_email"),
			DriveFolderID:   v.GetString("google.drive_folder_id"),
			ShareDomain:     v.GetString("google.share_domain"),
		},
		PDF: PDFConfig{
			ChromePath: v.GetString("pdf.chrome_path"),
			Timeout:    v.GetDuration("pdf.timeout"),
			NoSandbox:  v.GetBool("pdf.no_sandbox"),
		},
		Storage: StorageConfig{
			Enabled:         v.GetBool("storage.enabled"),
			Bucket:          v.GetString("storage.bucket"),
			Region:          v.GetString("storage.region"),
			Endpoint:        v.GetString("storage.endpoint"),
			Prefix:          v.GetString("storage.prefix"),
			AccessKeyID:     v.GetString("storage.access_key_id"),
			SecretAccessKey: v.GetString("storage.secret_access_key"),
			UsePathStyle:    v.GetBool("storage.use_path_style"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			DBLogFullSQL:      v.GetBool("telemetry.db_log_full_sql"),
			Profiling: ProfilingConfig{
				Enabled:           v.GetBool("telemetry.profiling.enabled"),
				ServerAddress:     v.GetString("telemetry.profiling.server_address"),
				ApplicationName:   v.GetString("telemetry.profiling.application_name"),
				BasicAuthUser:     v.GetString("telemetry.profiling.basic_auth_user"),
				BasicAuthPassword: v.GetString("telemetry.profiling.basic_auth_password"),
				ProfileTypes:      v.GetStringSlice("telemetry.profiling.profile_types"),
				SpanProfiles:      v.GetBool("telemetry.profiling.span_profiles"),
				MutexFraction:     v.GetInt("telemetry.profiling.mutex_fraction"),
				BlockRate:         v.GetInt("telemetry.profiling.block_rate"),
			},
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
	}

	if err := v.UnmarshalKey("clients", &cfg.Clients); err != nil {
		return nil, fmt.Errorf("error reading clients: %w", err)
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "rooted-analytics"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.App.DefaultClient == "" {
		cfg.App.DefaultClient = "jumbomax"
	}

	if cfg.Warehouse.Driver == "" {
		cfg.Warehouse.Driver = "postgres"
	}
	if cfg.Warehouse.Host == "" {
		cfg.Warehouse.Host = "localhost"
	}
	if cfg.Warehouse.Port == 0 {
		cfg.Warehouse.Port = 5432
	}
	if cfg.Warehouse.User == "" {
		cfg.Warehouse.User = "postgres"
	}
	if cfg.Warehouse.DBName == "" {
		cfg.Warehouse.DBName = "analytics"
	}
	if cfg.Warehouse.SSLMode == "" {
		cfg.Warehouse.SSLMode = "disable"
	}
	if cfg.Warehouse.SQLitePath == "" {
		cfg.Warehouse.SQLitePath = "analytics.db"
	}
	if cfg.Warehouse.MaxOpenConns == 0 {
		cfg.Warehouse.MaxOpenConns = 25
	}
	if cfg.Warehouse.MaxIdleConns == 0 {
		cfg.Warehouse.MaxIdleConns = 5
	}
	if cfg.Warehouse.ConnMaxLifetime == 0 {
		cfg.Warehouse.ConnMaxLifetime = 60
	}
	if cfg.Warehouse.ConnMaxIdleTime == 0 {
		cfg.Warehouse.ConnMaxIdleTime = 30
	}
	if cfg.Warehouse.QueryTimeout == 0 {
		cfg.Warehouse.QueryTimeout = 60 * time.Second
	}
	if cfg.Warehouse.SlowQueryThresh == 0 {
		cfg.Warehouse.SlowQueryThresh = time.Second
	}

	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Redis.CacheTTL == 0 {
		cfg.Redis.CacheTTL = 15 * time.Minute
	}

	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "claude-sonnet-4-5"
	}
	if cfg.LLM.ExtractionModel == "" {
		cfg.LLM.ExtractionModel = cfg.LLM.Model
	}
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = "https://api.anthropic.com/v1"
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 4096
	}
	if cfg.LLM.MaxSteps == 0 {
		cfg.LLM.MaxSteps = 10
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 5 * time.Minute
	}

	if cfg.Google.DriveFolderID == "" {
		cfg.Google.DriveFolderID = "1rR77jye0X8ZO2tXWLSHw2JJ4eU6u-ebG"
	}
	if cfg.Google.ShareDomain == "" {
		cfg.Google.ShareDomain = "rootedsolutions.co"
	}

	if cfg.PDF.Timeout == 0 {
		cfg.PDF.Timeout = 60 * time.Second
	}

	if cfg.Storage.Prefix == "" {
		cfg.Storage.Prefix = "exports"
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "us-east-1"
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}

	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 30 * time.Second
	}
	// chat streams and PDF rendering outlive the usual write deadline
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 5 * time.Minute
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 120 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 10 << 20 // 10MB
	}
	if cfg.HTTP.MaxUploadSize == 0 {
		cfg.HTTP.MaxUploadSize = 32 << 20 // 32MB
	}
	if cfg.HTTP.RateLimitRequests > 0 && cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	// No CORS origin default: cross-origin requests stay blocked until configured.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "X-Request-ID", "X-Client-ID"}
	}

	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = 60 * time.Second
	}
	if cfg.Telemetry.Profiling.ApplicationName == "" {
		cfg.Telemetry.Profiling.ApplicationName = cfg.Telemetry.ServiceName
	}
	if len(cfg.Telemetry.Profiling.ProfileTypes) == 0 {
		cfg.Telemetry.Profiling.ProfileTypes = []string{"cpu", "alloc_space", "inuse_space", "goroutines"}
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Warehouse.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("warehouse.driver must be postgres or sqlite, got %q", c.Warehouse.Driver)
	}
	if c.Warehouse.MaxOpenConns <= 0 {
		return fmt.Errorf("warehouse.max_open_conns must be positive")
	}
	if c.Warehouse.MaxIdleConns < 0 {
		return fmt.Errorf("warehouse.max_idle_conns cannot be negative")
	}
	if c.Warehouse.MaxIdleConns > c.Warehouse.MaxOpenConns {
		return fmt.Errorf("warehouse.max_idle_conns (%d) cannot exceed warehouse.max_open_conns (%d)",
			c.Warehouse.MaxIdleConns, c.Warehouse.MaxOpenConns)
	}

	if c.LLM.MaxSteps < 1 {
		return fmt.Errorf("llm.max_steps must be at least 1")
	}

	if c.Storage.Enabled && c.Storage.Bucket == "" {
		return fmt.Errorf("storage.bucket is required when storage is enabled")
	}

	seen := make(map[string]bool, len(c.Clients))
	for i, cl := range c.Clients {
		if cl.ID == "" {
			return fmt.Errorf("clients[%d].id is required", i)
		}
		if seen[cl.ID] {
			return fmt.Errorf("client %q configured twice", cl.ID)
		}
		seen[cl.ID] = true
	}

	if c.App.Env == "production" {
		if c.Warehouse.Driver == "postgres" && c.Warehouse.Password == "" {
			return fmt.Errorf("warehouse.password is required in production")
		}
		if c.LLM.APIKey == "" {
			return fmt.Errorf("llm.api_key (ANTHROPIC_API_KEY) is required in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		if c.Telemetry.DBLogFullSQL {
			return fmt.Errorf("telemetry.db_log_full_sql must be false in production to prevent sensitive data exposure in traces")
		}
	}

	if c.Telemetry.Profiling.Enabled && c.Telemetry.Profiling.ServerAddress == "" {
		return fmt.Errorf("telemetry.profiling.server_address is required when profiling is enabled")
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

// DSN returns the warehouse connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
