package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.)
// - default: Values common across all environments (timezone, timeout, etc.)
// -----------------------------------------------------------------------------

type Config struct {
	Server       ServerConfig
	DB           DBConfig
	Mongo        MongoConfig
	Redis        RedisConfig
	Store        StoreConfig
	Notification NotificationConfig
	Lifecycle    LifecycleConfig
	RateLimit    RateLimitConfig
	CORS         CORSConfig
	Log          LogConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
	// Empty means X-Forwarded-For is ignored and the peer address is the client IP.
	TrustedProxies []string `envconfig:"TRUSTED_PROXIES"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:""`
	DBName   string `envconfig:"DB_NAME" default:"restaurant_console"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
}

type MongoConfig struct {
	URI      string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	Database string `envconfig:"MONGO_DATABASE" default:"restaurant_console"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// StoreConfig selects the reservation store backend: "postgres" or "mongo".
type StoreConfig struct {
	Driver  string        `envconfig:"STORE_DRIVER" default:"postgres"`
	Timeout time.Duration `envconfig:"STORE_TIMEOUT" default:"5s"`
}

// NotificationConfig selects the gateway: "" (none), "outbox", "redis" or "tasks".
type NotificationConfig struct {
	Gateway       string        `envconfig:"NOTIFY_GATEWAY" default:""`
	RedisQueueKey string        `envconfig:"NOTIFY_REDIS_QUEUE" default:"notifications:email"`
	TaskQueue     string        `envconfig:"NOTIFY_TASK_QUEUE" default:"notifications"`
	SendTimeout   time.Duration `envconfig:"NOTIFY_SEND_TIMEOUT" default:"10s"`
}

type LifecycleConfig struct {
	LateGrace       time.Duration `envconfig:"LATE_GRACE" default:"0s"`
	RetentionDays   int           `envconfig:"RETENTION_DAYS" default:"90"`
	DefaultTimeZone string        `envconfig:"DEFAULT_TIMEZONE" default:"UTC"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `envconfig:"RATE_LIMIT_RPM" default:"600"`
	Burst             int `envconfig:"RATE_LIMIT_BURST" default:"60"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,X-Staff-ID"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone   string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
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
		Store: StoreConfig{
			Driver:  "postgres",
			Timeout: 5 * time.Second,
		},
		Notification: NotificationConfig{
			SendTimeout: time.Second,
		},
		Lifecycle: LifecycleConfig{
			LateGrace:       0,
			RetentionDays:   90,
			DefaultTimeZone: "UTC",
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 6000,
			Burst:             100,
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"http://localhost:3000"},
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Accept", "X-Staff-ID"},
			MaxAge:       time.Hour,
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeZone:   "UTC",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
	}
}
