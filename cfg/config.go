package cfg

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Env                string
	Port               string
	FrontendURL        string
	CORSAllowedOrigins []string
	RequestsPerSecond  float64
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr is empty when no Redis host is configured.
func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	return r.Host + ":" + r.Port
}

type PostgresConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MigrateOnStart bool
	MigrationsPath string
}

type GDSConfig struct {
	BaseURL         string
	ClientID        string
	ClientSecret    string
	Timeout         time.Duration
	RatePerSecond   float64
	MaxOffers       int
	LogoURLTemplate string
}

type PaymentConfig struct {
	StripeSecretKey string
	Currency        string
}

type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// Enabled reports whether SMTP delivery is configured.
func (m MailConfig) Enabled() bool {
	return m.Host != "" && m.From != ""
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type AuthConfig struct {
	JWTSecret          string
	SessionSecret      string
	JWTTTL             time.Duration
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

func (a AuthConfig) GoogleEnabled() bool {
	return a.GoogleClientID != "" && a.GoogleClientSecret != ""
}

type ObservabilityConfig struct {
	ServiceName  string
	OTLPEndpoint string
}

type CacheConfig struct {
	SearchTTL   time.Duration
	LocationTTL time.Duration
	QuoteTTL    time.Duration
	AttemptTTL  time.Duration
}

type LogConfig struct {
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type Config struct {
	App             AppConfig
	Redis           RedisConfig
	Postgres        PostgresConfig
	GDS             GDSConfig
	Payment         PaymentConfig
	Mail            MailConfig
	Kafka           KafkaConfig
	Auth            AuthConfig
	Observability   ObservabilityConfig
	Cache           CacheConfig
	Log             LogConfig
	SnowflakeNodeID int64
}

// Load reads .env when present, then the process environment. Every missing
// or malformed variable is reported in one joined error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.New("failed load cfg: " + err.Error())
	}

	var errs []error

	config := &Config{
		App: AppConfig{
			Env:                mustEnv("APP_ENV", &errs),
			Port:               envOr("APP_PORT", "8080"),
			FrontendURL:        mustEnv("FRONTEND_URL", &errs),
			CORSAllowedOrigins: listEnv("CORS_ALLOWED_ORIGINS"),
			RequestsPerSecond:  floatEnv("HTTP_RATE_LIMIT_PER_SECOND", 50, &errs),
		},
		Redis: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     envOr("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       intEnv("REDIS_DB", 0, &errs),
		},
		Postgres: postgresFromEnv(&errs),
		GDS: GDSConfig{
			BaseURL:         mustEnv("GDS_BASE_URL", &errs),
			ClientID:        mustEnv("GDS_CLIENT_ID", &errs),
			ClientSecret:    mustEnv("GDS_CLIENT_SECRET", &errs),
			Timeout:         time.Duration(intEnv("GDS_TIMEOUT_SECONDS", 10, &errs)) * time.Second,
			RatePerSecond:   floatEnv("GDS_RATE_LIMIT_PER_SECOND", 10, &errs),
			MaxOffers:       intEnv("GDS_MAX_OFFERS", 50, &errs),
			LogoURLTemplate: os.Getenv("AIRLINE_LOGO_URL_TEMPLATE"),
		},
		Payment: PaymentConfig{
			StripeSecretKey: mustEnv("STRIPE_SECRET_KEY", &errs),
			Currency:        envOr("PAYMENT_CURRENCY", "MUR"),
		},
		Mail: MailConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     intEnv("SMTP_PORT", 587, &errs),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("MAIL_FROM"),
			Timeout:  time.Duration(intEnv("SMTP_TIMEOUT_SECONDS", 10, &errs)) * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers: listEnv("KAFKA_BROKERS"),
			Topic:   envOr("KAFKA_TOPIC", "booking-events"),
		},
		Auth: AuthConfig{
			JWTSecret:          mustEnv("JWT_SECRET", &errs),
			SessionSecret:      os.Getenv("SESSION_SECRET"),
			JWTTTL:             time.Duration(intEnv("JWT_TTL_HOURS", 24, &errs)) * time.Hour,
			GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		},
		Observability: ObservabilityConfig{
			ServiceName:  envOr("OTEL_SERVICE_NAME", "travelbooking"),
			OTLPEndpoint: os.Getenv("OTLP_ENDPOINT"),
		},
		Cache: CacheConfig{
			SearchTTL:   minutesEnv("CACHE_TTL_MINUTES", 10, &errs),
			LocationTTL: minutesEnv("LOCATION_CACHE_TTL_MINUTES", 24*60, &errs),
			QuoteTTL:    minutesEnv("QUOTE_TTL_MINUTES", 30, &errs),
			AttemptTTL:  minutesEnv("ATTEMPT_TTL_MINUTES", 120, &errs),
		},
		Log: LogConfig{
			File:       os.Getenv("LOG_FILE"),
			MaxSizeMB:  intEnv("LOG_MAX_SIZE_MB", 100, &errs),
			MaxBackups: intEnv("LOG_MAX_BACKUPS", 5, &errs),
			MaxAgeDays: intEnv("LOG_MAX_AGE_DAYS", 28, &errs),
		},
		SnowflakeNodeID: int64(intEnv("SNOWFLAKE_NODE_ID", 1, &errs)),
	}

	if config.Auth.GoogleEnabled() {
		if config.Auth.GoogleRedirectURL == "" {
			errs = append(errs, errors.New("missing env: GOOGLE_REDIRECT_URL"))
		}
		// the login cookie key must not be able to forge bearer tokens
		switch config.Auth.SessionSecret {
		case "":
			errs = append(errs, errors.New("missing env: SESSION_SECRET"))
		case config.Auth.JWTSecret:
			errs = append(errs, errors.New("invalid env: SESSION_SECRET must differ from JWT_SECRET"))
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return config, nil
}

// LoadPostgres reads only the database section, for tools that do not run
// the API.
func LoadPostgres() (*PostgresConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.New("failed load cfg: " + err.Error())
	}
	var errs []error
	pg := postgresFromEnv(&errs)
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &pg, nil
}

func postgresFromEnv(errs *[]error) PostgresConfig {
	return PostgresConfig{
		Host:           mustEnv("POSTGRES_HOST", errs),
		Port:           envOr("POSTGRES_PORT", "5432"),
		User:           mustEnv("POSTGRES_USER", errs),
		Password:       mustEnv("POSTGRES_PASSWORD", errs),
		DBName:         mustEnv("POSTGRES_DB", errs),
		SSLMode:        envOr("POSTGRES_SSLMODE", "disable"),
		MigrateOnStart: boolEnv("MIGRATE_ON_START", false, errs),
		MigrationsPath: envOr("MIGRATIONS_PATH", "file://db/migrations"),
	}
}

func mustEnv(key string, errs *[]error) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		*errs = append(*errs, errors.New("missing env: "+key))
	}
	return value
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func listEnv(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func intEnv(key string, fallback int, errs *[]error) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, errors.New("conversion failed env: "+key))
		return fallback
	}
	return n
}

func floatEnv(key string, fallback float64, errs *[]error) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*errs = append(*errs, errors.New("conversion failed env: "+key))
		return fallback
	}
	return f
}

func boolEnv(key string, fallback bool, errs *[]error) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, errors.New("conversion failed env: "+key))
		return fallback
	}
	return b
}

func minutesEnv(key string, fallback int, errs *[]error) time.Duration {
	return time.Duration(intEnv(key, fallback, errs)) * time.Minute
}
