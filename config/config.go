package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMongo     = "mongo"
	DriverMemory    = "memory"
	DriverCassandra = "cassandra"
)

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	CORSOrigin   string
}

// Addr accepts both "8080" and ":8080".
func (h HTTPConfig) Addr() string {
	if h.Port == "" {
		return ":8080"
	}
	if strings.HasPrefix(h.Port, ":") {
		return h.Port
	}
	return ":" + h.Port
}

type StoreConfig struct {
	Driver            string
	MongoURI          string
	MongoDB           string
	NotificationStore string
	CassandraHosts    []string
	CassandraKeyspace string
}

type AuthConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	AdminEmail    string
	AdminPassword string
}

type EmailConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
	// OutboxSize bounds the queue of emails waiting for delivery.
	OutboxSize     int
	OutboxAttempts int
	OutboxBackoff  time.Duration
}

// Configured reports whether SMTP credentials are present.
func (e EmailConfig) Configured() bool {
	return e.Host != "" && e.User != "" && e.Password != ""
}

type Config struct {
	HTTP        HTTPConfig
	Store       StoreConfig
	Auth        AuthConfig
	Email       EmailConfig
	FrontendURL string
	UploadDir   string
	LogFile     string
	LogLevel    string
}

// Load reads the environment, first merging envFile when it exists.
// Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var errs []error
	intVar := func(key string, def int) int {
		v, err := getInt(key, def)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}
	durVar := func(key string, def time.Duration) time.Duration {
		v, err := getDuration(key, def)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}

	cfg := &Config{
		HTTP: HTTPConfig{
			Port:         getenv("SERVER_PORT", "8080"),
			ReadTimeout:  durVar("HTTP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: durVar("HTTP_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  durVar("HTTP_IDLE_TIMEOUT", 60*time.Second),
			CORSOrigin:   getenv("CORS_ORIGIN", "*"),
		},
		Store: StoreConfig{
			Driver:            getenv("STORE_DRIVER", DriverMongo),
			MongoURI:          getenv("MONGO_URI", "mongodb://localhost:27017"),
			MongoDB:           getenv("MONGO_DB_NAME", "bugcrew"),
			NotificationStore: getenv("NOTIFICATION_STORE", ""),
			CassandraHosts:    splitList(getenv("CASS_DB", "127.0.0.1")),
			CassandraKeyspace: getenv("CASS_KEYSPACE", "notifications"),
		},
		Auth: AuthConfig{
			JWTSecret:     os.Getenv("JWT_SECRET"),
			TokenTTL:      durVar("JWT_TTL", 7*24*time.Hour),
			AdminEmail:    os.Getenv("ADMIN_EMAIL"),
			AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		},
		Email: EmailConfig{
			Host:           getenv("EMAIL_HOST", "smtp.gmail.com"),
			Port:           getenv("EMAIL_PORT", "587"),
			User:           os.Getenv("EMAIL_USER"),
			Password:       os.Getenv("EMAIL_PASS"),
			From:           os.Getenv("EMAIL_FROM"),
			OutboxSize:     intVar("OUTBOX_SIZE", 100),
			OutboxAttempts: intVar("OUTBOX_ATTEMPTS", 3),
			OutboxBackoff:  durVar("OUTBOX_BACKOFF", 2*time.Second),
		},
		FrontendURL: strings.TrimRight(getenv("FRONTEND_URL", "http://localhost:3000"), "/"),
		UploadDir:   getenv("UPLOAD_DIR", "uploads"),
		LogFile:     os.Getenv("LOG_FILE"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
	}

	if cfg.Email.From == "" {
		cfg.Email.From = cfg.Email.User
	}
	if cfg.Store.NotificationStore == "" {
		cfg.Store.NotificationStore = cfg.Store.Driver
	}

	if err := cfg.validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	switch c.Store.Driver {
	case DriverMongo, DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverMongo, DriverMemory, c.Store.Driver))
	}
	switch c.Store.NotificationStore {
	case DriverMongo, DriverMemory, DriverCassandra:
	default:
		errs = append(errs, fmt.Errorf("NOTIFICATION_STORE %q is not supported", c.Store.NotificationStore))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is not set"))
	}
	if c.Email.OutboxSize < 1 {
		errs = append(errs, errors.New("OUTBOX_SIZE must be positive"))
	}
	if c.Email.OutboxAttempts < 1 {
		errs = append(errs, errors.New("OUTBOX_ATTEMPTS must be positive"))
	}
	return errors.Join(errs...)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
