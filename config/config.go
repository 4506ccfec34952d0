package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverMySQL  = "mysql"
	DriverMemory = "memory"
)

type Config struct {
	HTTP      HTTPConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Log       LogConfig
	Scheduler SchedulerConfig
	SeedData  bool
}

type HTTPConfig struct {
	Port        string
	CORSOrigins []string
}

type DatabaseConfig struct {
	Driver string
	DSN    string
	Name   string
}

// RedisConfig is optional; an empty Addr disables the notification stream.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Stream   string
}

type LogConfig struct {
	Level  string
	Format string
}

type SchedulerConfig struct {
	ToleranceSweepInterval time.Duration
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		HTTP: HTTPConfig{
			Port:        envOrDefault("PORT", "8080"),
			CORSOrigins: parseCorsOrigins(os.Getenv("CORS_ORIGINS")),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(envOrDefault("STORE_DRIVER", DriverMySQL)),
		},
		Redis: RedisConfig{
			Addr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
			Password: os.Getenv("REDIS_PASSWORD"),
			Stream:   envOrDefault("NOTIFY_STREAM", "lodging:notifications"),
		},
		Log: LogConfig{
			Level:  envOrDefault("LOG_LEVEL", "info"),
			Format: envOrDefault("LOG_FORMAT", "json"),
		},
	}

	switch cfg.Database.Driver {
	case DriverMySQL:
		dsn, name, err := resolveMySQLDSN()
		if err != nil {
			return nil, fmt.Errorf("database config: %w", err)
		}
		cfg.Database.DSN, cfg.Database.Name = dsn, name
	case DriverMemory:
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q (want mysql or memory)", cfg.Database.Driver)
	}

	redisDB, err := strconv.Atoi(envOrDefault("REDIS_DB", "0"))
	if err != nil || redisDB < 0 {
		return nil, fmt.Errorf("invalid REDIS_DB %q", os.Getenv("REDIS_DB"))
	}
	cfg.Redis.DB = redisDB

	interval, err := time.ParseDuration(envOrDefault("TOLERANCE_SWEEP_INTERVAL", "1m"))
	if err != nil || interval <= 0 {
		return nil, fmt.Errorf("invalid TOLERANCE_SWEEP_INTERVAL %q", os.Getenv("TOLERANCE_SWEEP_INTERVAL"))
	}
	cfg.Scheduler.ToleranceSweepInterval = interval

	if raw := strings.TrimSpace(os.Getenv("SEED_DATA")); raw != "" {
		seed, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SEED_DATA %q", raw)
		}
		cfg.SeedData = seed
	}
	return cfg, nil
}

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func parseCorsOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func mysqlDSNFromURL(raw string) (string, string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode())
	return dsn, dbName, nil
}

func resolveMySQLDSN() (string, string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, strings.TrimSpace(os.Getenv("DB_NAME")), nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "motel_db")

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	)
	return dsn, dbName, nil
}
