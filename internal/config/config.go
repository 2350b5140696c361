package config

import (
	"fmt"
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Config aggregates every runtime setting of the service.
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	Backup   BackupConfig
	Storage  StorageConfig
	Auth     AuthConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	database, err := loadDatabaseConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:   server,
		Log:      LogConfig{Mode: getEnvOrDefault("LOG_MODE", "dev")},
		Database: database,
		Backup:   BackupConfig{Dir: getEnvOrDefault("DATA_DIR", "data")},
		Storage:  loadStorageConfig(),
		Auth:     AuthConfig{Secret: strings.TrimSpace(os.Getenv("JWT_SECRET"))},
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

// LogConfig selects the logger mode ("dev" or "prod").
type LogConfig struct {
	Mode string
}

// BackupConfig points at the directory holding transcript backup files.
type BackupConfig struct {
	Dir string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" and "127.0.0.1:8080" as-is.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// DatabaseConfig describes the primary store connection.
type DatabaseConfig struct {
	Driver string
	DSN    string
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func loadDatabaseConfig() (DatabaseConfig, error) {
	driver := strings.ToLower(getEnvOrDefault("DB_DRIVER", ""))
	switch driver {
	case "":
		return DatabaseConfig{}, nil
	case DriverPostgres:
		host := getEnvOrDefault("POSTGRES_HOST", "localhost")
		port := getEnvOrDefault("POSTGRES_PORT", "5432")
		user := getEnvOrDefault("POSTGRES_USER", "postgres")
		password := strings.TrimSpace(os.Getenv("POSTGRES_PASSWORD"))
		name := getEnvOrDefault("POSTGRES_NAME", "interviews")
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)
		return DatabaseConfig{Driver: DriverPostgres, DSN: dsn}, nil
	case DriverSQLite:
		return DatabaseConfig{Driver: DriverSQLite, DSN: getEnvOrDefault("SQLITE_PATH", "interviews.db")}, nil
	default:
		return DatabaseConfig{}, fmt.Errorf("unsupported DB_DRIVER value: %q", driver)
	}
}

// Enabled reports whether a primary store is configured.
func (c DatabaseConfig) Enabled() bool {
	return c.Driver != ""
}

// Open creates a database handle from the configuration.
func (c DatabaseConfig) Open() (*gorm.DB, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("database driver not configured, set DB_DRIVER to %q or %q", DriverPostgres, DriverSQLite)
	}

	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}

	switch c.Driver {
	case DriverPostgres:
		return gorm.Open(postgres.Open(c.DSN), gormCfg)
	case DriverSQLite:
		return gorm.Open(sqlite.Open(c.DSN), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", c.Driver)
	}
}

// StorageConfig describes the object-storage sink.
type StorageConfig struct {
	Bucket string
}

func loadStorageConfig() StorageConfig {
	return StorageConfig{Bucket: strings.TrimSpace(os.Getenv("TRANSCRIPT_BUCKET"))}
}

// Enabled reports whether object storage is configured.
func (c StorageConfig) Enabled() bool {
	return c.Bucket != ""
}

// AuthConfig holds the shared secret used to verify caller tokens. The
// reconciliation job runs without it; the API server requires it.
type AuthConfig struct {
	Secret string
}

// Enabled reports whether a verification secret is configured.
func (c AuthConfig) Enabled() bool {
	return c.Secret != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
