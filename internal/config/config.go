package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

type Config struct {
	Port        string
	GinMode     string
	CORSOrigins []string

	JWTSecret string
	JWTTTL    time.Duration

	Database DatabaseConfig
	Redis    RedisConfig
	Scylla   ScyllaConfig
	Elastic  ElasticConfig
	MinIO    MinIOConfig
	SMTP     SMTPConfig
	Logger   LoggerConfig
}

type DatabaseConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int
}

// DSN renvoie DATABASE_URL si elle est définie, sinon un DSN postgres clé/valeur.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func (r RedisConfig) Enabled() bool { return r.Addr != "" }

type ScyllaConfig struct {
	Hosts    []string
	Keyspace string
	Username string
	Password string
	Timeout  time.Duration
	NumConns int
}

func (s ScyllaConfig) Enabled() bool { return len(s.Hosts) > 0 && s.Keyspace != "" }

type ElasticConfig struct {
	URL      string
	Username string
	Password string
	Index    string
}

func (e ElasticConfig) Enabled() bool { return e.URL != "" }

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

func (m MinIOConfig) Enabled() bool { return m.Endpoint != "" }

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (s SMTPConfig) Enabled() bool { return s.Host != "" }

type LoggerConfig struct {
	Mode     string
	Filename string
}

// Load lit .env s'il existe puis construit la configuration depuis l'environnement.
// Le booléen indique si un fichier .env a été trouvé.
func Load() (*Config, bool, error) {
	loaded := godotenv.Load(".env") == nil
	cfg, err := FromEnv()
	return cfg, loaded, err
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:        getenv("PORT", "8080"),
		GinMode:     getenv("GIN_MODE", "release"),
		CORSOrigins: splitList(getenv("CORS_ORIGINS", "*")),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		JWTTTL:      cast.ToDuration(getenv("JWT_TTL", "24h")),
		Database: DatabaseConfig{
			URL:      os.Getenv("DATABASE_URL"),
			Host:     getenv("DB_HOST", "localhost"),
			Port:     getenv("DB_PORT", "5432"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			SSLMode:  getenv("DB_SSLMODE", "disable"),
			MaxConns: cast.ToInt(getenv("DB_MAX_CONNS", "20")),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_HOST"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       cast.ToInt(getenv("REDIS_DB", "0")),
		},
		Scylla: ScyllaConfig{
			Hosts:    splitList(os.Getenv("SCYLLA_HOSTS")),
			Keyspace: os.Getenv("SCYLLA_KEYSPACE"),
			Username: os.Getenv("SCYLLA_USERNAME"),
			Password: os.Getenv("SCYLLA_PASSWORD"),
			Timeout:  cast.ToDuration(getenv("SCYLLA_TIMEOUT", "5s")),
			NumConns: cast.ToInt(getenv("SCYLLA_NUM_CONNS", "4")),
		},
		Elastic: ElasticConfig{
			URL:      os.Getenv("ELASTIC_URL"),
			Username: os.Getenv("ELASTIC_USER"),
			Password: os.Getenv("ELASTIC_PASSWORD"),
			Index:    getenv("ELASTIC_INDEX", "products"),
		},
		MinIO: MinIOConfig{
			Endpoint:  os.Getenv("MINIO_ENDPOINT"),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Bucket:    getenv("MINIO_BUCKET", "products"),
			UseSSL:    cast.ToBool(os.Getenv("MINIO_USE_SSL")),
			PublicURL: os.Getenv("MINIO_PUBLIC_URL"),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     cast.ToInt(getenv("SMTP_PORT", "587")),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getenv("SMTP_FROM", "noreply@localhost"),
		},
		Logger: LoggerConfig{
			Mode:     getenv("LOG_MODE", "development"),
			Filename: os.Getenv("LOG_FILE"),
		},
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.JWTTTL <= 0 {
		return nil, fmt.Errorf("invalid JWT_TTL %q", os.Getenv("JWT_TTL"))
	}
	if cfg.Database.URL == "" && cfg.Database.Name == "" {
		return nil, errors.New("DATABASE_URL or DB_NAME is required")
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
