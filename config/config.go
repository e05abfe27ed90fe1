package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	defaultDBPassword = "password"
)

type Config struct {
	App AppConfig
	DB  DBConfig
	JWT JWTConfig
	Log LogConfig
}

type AppConfig struct {
	Env         string `env:"APP_ENV"      env-default:"development"`
	Port        string `env:"PORT"         env-default:"8088"`
	FrontendURL string `env:"FRONTEND_URL" env-default:"http://localhost:3000"`
}

// DBConfig selects and configures the store. Driver "memory" keeps
// everything in process and ignores the connection settings.
type DBConfig struct {
	Driver   string `env:"DB_DRIVER"   env-default:"postgres"`
	Host     string `env:"DB_HOST"     env-default:"localhost"`
	Port     string `env:"DB_PORT"     env-default:"5432"`
	User     string `env:"DB_USER"     env-default:"postgres"`
	Password string `env:"DB_PASSWORD" env-default:"password"`
	Name     string `env:"DB_NAME"     env-default:"profiles_db"`
	SSLMode  string `env:"DB_SSLMODE"  env-default:"disable"`
	TimeZone string `env:"DB_TIMEZONE" env-default:"UTC"`
}

// JWTConfig protects the write endpoints. An empty secret leaves them open.
type JWTConfig struct {
	AccessTokenSecret string `env:"JWT_ACCESS_TOKEN_SECRET"`
}

type LogConfig struct {
	Level string `env:"LOG_LEVEL" env-default:"info"`
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() (*Config, error) {
	// A missing .env is normal in production where env vars are set directly.
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded, relying on environment variables")
	}

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	switch cfg.DB.Driver {
	case DriverPostgres, DriverMemory:
	default:
		return nil, fmt.Errorf("invalid DB_DRIVER %q: expected %q or %q", cfg.DB.Driver, DriverPostgres, DriverMemory)
	}

	if cfg.JWT.AccessTokenSecret == "" {
		slog.Warn("JWT_ACCESS_TOKEN_SECRET is empty, write endpoints are not protected")
	}
	if cfg.DB.Driver == DriverPostgres && cfg.DB.Password == defaultDBPassword && cfg.IsProduction() {
		slog.Warn("using default DB password in production, set DB_PASSWORD")
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// DSN renders the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.DB.Host,
		c.DB.User,
		c.DB.Password,
		c.DB.Name,
		c.DB.Port,
		c.DB.SSLMode,
		c.DB.TimeZone,
	)
}

// ConnectDB opens the postgres connection. SQL statements are logged through
// log at info level in development and only slow or failing ones elsewhere.
func ConnectDB(cfg *Config, log *slog.Logger) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.App.Env == "development" {
		logLevel = logger.Info
	}

	gormConfig := &gorm.Config{
		Logger: logger.New(slog.NewLogLogger(log.Handler(), slog.LevelInfo), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
		}),
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("connected to database", slog.String("host", cfg.DB.Host), slog.String("name", cfg.DB.Name))
	return db, nil
}
