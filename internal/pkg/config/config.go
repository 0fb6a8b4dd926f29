package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection,
//   CRS credentials), security settings
// - default: Values common across all environments (timeouts, lock TTLs),
//   standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server    ServerConfig
	DB        DBConfig
	CORS      CORSConfig
	Log       LogConfig
	Token     TokenConfig
	CRS       CRSConfig
	Retry     RetryConfig
	Breaker   BreakerConfig
	Locks     LockConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,X-Session-Token"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type TokenConfig struct {
	Secret   string        `envconfig:"SESSION_TOKEN_SECRET" required:"true"`
	Duration time.Duration `envconfig:"SESSION_TOKEN_DURATION" default:"10m"`
}

// CRSConfig carries the credentials and endpoint of the external Central
// Reservation System. Mode "sandbox" swaps in the in-memory provider.
type CRSConfig struct {
	Mode      string        `envconfig:"CRS_MODE" default:"live"`
	BaseURL   string        `envconfig:"CRS_BASE_URL" required:"true"`
	APIKey    string        `envconfig:"CRS_API_KEY" required:"true"`
	HotelID   string        `envconfig:"CRS_HOTEL_ID" required:"true"`
	ChannelID string        `envconfig:"CRS_CHANNEL_ID" default:"WEB"`
	Timeout   time.Duration `envconfig:"CRS_TIMEOUT" default:"10s"`
}

type RetryConfig struct {
	MaxRetries     int           `envconfig:"RETRY_MAX_RETRIES" default:"3"`
	BaseDelay      time.Duration `envconfig:"RETRY_BASE_DELAY" default:"1s"`
	MaxDelay       time.Duration `envconfig:"RETRY_MAX_DELAY" default:"5s"`
	AttemptTimeout time.Duration `envconfig:"RETRY_ATTEMPT_TIMEOUT" default:"10s"`
}

type BreakerConfig struct {
	FailureThreshold int           `envconfig:"BREAKER_FAILURE_THRESHOLD" default:"5"`
	ResetTimeout     time.Duration `envconfig:"BREAKER_RESET_TIMEOUT" default:"60s"`
}

type LockConfig struct {
	SessionTTL     time.Duration `envconfig:"SESSION_TTL" default:"10m"`
	InventoryTTL   time.Duration `envconfig:"INVENTORY_LOCK_TTL" default:"5m"`
	ProcessingTTL  time.Duration `envconfig:"PROCESSING_LOCK_TTL" default:"2m"`
	IdempotencyTTL time.Duration `envconfig:"IDEMPOTENCY_TTL" default:"24h"`
}

type RateLimitConfig struct {
	MaxRequests int           `envconfig:"RATE_LIMIT_MAX_REQUESTS" default:"5"`
	Window      time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"60s"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "UTC",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 0,
		},
		Token: TokenConfig{
			Secret:   "test-session-secret",
			Duration: 10 * time.Minute,
		},
		CRS: CRSConfig{
			Mode:      "sandbox",
			BaseURL:   "http://localhost:9999",
			APIKey:    "test-key",
			HotelID:   "HOTEL1",
			ChannelID: "WEB",
			Timeout:   10 * time.Second,
		},
		Retry: RetryConfig{
			MaxRetries:     3,
			BaseDelay:      time.Millisecond,
			MaxDelay:       5 * time.Millisecond,
			AttemptTimeout: time.Second,
		},
		Breaker: BreakerConfig{
			FailureThreshold: 5,
			ResetTimeout:     60 * time.Second,
		},
		Locks: LockConfig{
			SessionTTL:     10 * time.Minute,
			InventoryTTL:   5 * time.Minute,
			ProcessingTTL:  2 * time.Minute,
			IdempotencyTTL: 24 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			// Generous cap so functional suites never trip the limiter;
			// limiter behavior itself is covered by its unit tests.
			MaxRequests: 100,
			Window:      60 * time.Second,
		},
	}
}
