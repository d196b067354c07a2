package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Backend names accepted by METADATA_BACKEND and BLOB_BACKEND.
const (
	BackendPostgres = "postgres"
	BackendDynamoDB = "dynamodb"
	BackendMinIO    = "minio"
	BackendS3       = "s3"
	BackendMemory   = "memory"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string `yaml:"host"`
	Port               string `yaml:"port"`
	User               string `yaml:"user"`
	Password           string `yaml:"password"`
	Name               string `yaml:"name"`
	SSLMode            string `yaml:"sslmode"`
	MaxOpenConns       int    `yaml:"max_open_conns"`
	MaxIdleConns       int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeSec int    `yaml:"conn_max_lifetime_sec"`
	ConnectTimeoutSec  int    `yaml:"connect_timeout_sec"`
	AutoMigrate        bool   `yaml:"auto_migrate"`
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// AWSConfig holds settings shared by the DynamoDB and S3 backends.
type AWSConfig struct {
	Region         string `yaml:"region"`
	Endpoint       string `yaml:"endpoint"`
	ForcePathStyle bool   `yaml:"force_path_style"`
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from an optional YAML file and then from environment variables.
// Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string `yaml:"app_host"`
	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`
	TZName   string `yaml:"tz_name"`

	MetadataBackend string `yaml:"metadata_backend"`
	BlobBackend     string `yaml:"blob_backend"`

	// Table identifies the metadata store (Postgres table or DynamoDB table).
	Table string `yaml:"table"`
	// Bucket identifies the blob store container.
	Bucket string `yaml:"bucket"`

	Database DatabaseConfig `yaml:"database"`
	MinIO    MinIOConfig    `yaml:"minio"`
	AWS      AWSConfig      `yaml:"aws"`
}

// Defaults returns the configuration used before any file or environment overrides.
func Defaults() *AppConfig {
	return &AppConfig{
		AppHost:         "localhost:8080",
		Port:            "8080",
		LogLevel:        "info",
		TZName:          "UTC",
		MetadataBackend: BackendPostgres,
		BlobBackend:     BackendMinIO,
		Table:           "notes",
		Database: DatabaseConfig{
			Port:               "5432",
			SSLMode:            "disable",
			MaxOpenConns:       10,
			MaxIdleConns:       5,
			ConnMaxLifetimeSec: 300,
			ConnectTimeoutSec:  5,
			AutoMigrate:        true,
		},
		AWS: AWSConfig{
			Region: "us-east-1",
		},
	}
}

// Load reads configuration from CONFIG_FILE (if set) and environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// Real environment variables take precedence over the file.
// The metadata table and blob bucket are not validated here; a missing value
// surfaces when an operation touches that store.
func Load() (*AppConfig, error) {
	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	applyEnv(cfg)
	return cfg, nil
}

func loadFile(path string, cfg *AppConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(c *AppConfig) {
	c.AppHost = getEnv("APP_HOST", c.AppHost)
	c.Port = getEnv("PORT", c.Port)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.TZName = getEnv("TZ_NAME", c.TZName)

	c.MetadataBackend = getEnv("METADATA_BACKEND", c.MetadataBackend)
	c.BlobBackend = getEnv("BLOB_BACKEND", c.BlobBackend)
	c.Table = getEnv("NOTES_TABLE", getEnv("DYNAMODB_TABLE_NAME", c.Table))
	c.Bucket = getEnv("NOTES_BUCKET", getEnv("S3_BUCKET_NAME", c.Bucket))

	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnv("DB_PORT", c.Database.Port)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.Name = getEnv("DB_NAME", c.Database.Name)
	c.Database.SSLMode = getEnv("DB_SSLMODE", c.Database.SSLMode)
	c.Database.MaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", c.Database.MaxOpenConns)
	c.Database.MaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", c.Database.MaxIdleConns)
	c.Database.ConnMaxLifetimeSec = getEnvInt("DB_CONN_MAX_LIFETIME_SEC", c.Database.ConnMaxLifetimeSec)
	c.Database.ConnectTimeoutSec = getEnvInt("DB_CONNECT_TIMEOUT_SEC", c.Database.ConnectTimeoutSec)
	c.Database.AutoMigrate = getEnvBool("DB_AUTO_MIGRATE", c.Database.AutoMigrate)

	c.MinIO.Endpoint = getEnv("MINIO_ENDPOINT", c.MinIO.Endpoint)
	c.MinIO.AccessKey = getEnv("MINIO_ACCESS_KEY", c.MinIO.AccessKey)
	c.MinIO.SecretKey = getEnv("MINIO_SECRET_KEY", c.MinIO.SecretKey)
	c.MinIO.UseSSL = getEnvBool("MINIO_USE_SSL", c.MinIO.UseSSL)

	c.AWS.Region = getEnv("AWS_REGION", c.AWS.Region)
	c.AWS.Endpoint = getEnv("AWS_ENDPOINT_URL", c.AWS.Endpoint)
	c.AWS.ForcePathStyle = getEnvBool("S3_FORCE_PATH_STYLE", c.AWS.ForcePathStyle)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
