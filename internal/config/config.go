package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `json:"server"`

	// MongoDB is the primary document store
	MongoDB MongoDBConfig `json:"mongodb"`

	// Storage holds the external binary asset store settings
	Storage StorageConfig `json:"storage"`

	Redis RedisConfig `json:"redis"`

	Auth AuthConfig `json:"auth"`

	Logging LoggingConfig `json:"logging"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Port            string   `json:"port"`
	Host            string   `json:"host"`
	MediaServerPort string   `json:"media_server_port"`
	ReadTimeout     int      `json:"read_timeout"`  // seconds
	WriteTimeout    int      `json:"write_timeout"` // seconds
	Environment     string   `json:"environment"`   // development, staging, production
	CORSOrigins     []string `json:"cors_origins"`
	RateLimitRPS    float64  `json:"rate_limit_rps"` // 0 disables rate limiting
	RateLimitBurst  int      `json:"rate_limit_burst"`
}

type MongoDBConfig struct {
	Host        string `json:"host"`
	Port        string `json:"port"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	Database    string `json:"database"`
	SearchIndex string `json:"search_index"` // Atlas Search index over videos
}

// StorageConfig selects and configures the asset store. Driver is "gridfs" or "minio".
type StorageConfig struct {
	Driver         string `json:"driver"`
	MediaBaseURL   string `json:"media_base_url"`
	UploadDir      string `json:"upload_dir"`
	TimeoutSeconds int    `json:"timeout_seconds"`

	MinioEndpoint  string `json:"minio_endpoint"`
	MinioAccessKey string `json:"minio_access_key"`
	MinioSecretKey string `json:"minio_secret_key"`
	MinioBucket    string `json:"minio_bucket"`
	MinioUseSSL    bool   `json:"minio_use_ssl"`
	MinioPublicURL string `json:"minio_public_url"`
}

type RedisConfig struct {
	Enabled         bool   `json:"enabled"`
	Address         string `json:"address"`
	Password        string `json:"password"`
	DB              int    `json:"db"`
	StatsTTLSeconds int    `json:"stats_ttl_seconds"`
}

type AuthConfig struct {
	JWTSecret     string `json:"-"`
	TokenTTLHours int    `json:"token_ttl_hours"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `json:"level"`  // none, debug, info, warn, error
	Format string `json:"format"` // json, text
}

var defaults = map[string]interface{}{
	"SERVER_HOST":          "0.0.0.0",
	"SERVER_PORT":          "8000",
	"MEDIA_SERVER_PORT":    "8080",
	"SERVER_READ_TIMEOUT":  15,
	"SERVER_WRITE_TIMEOUT": 60,
	"ENVIRONMENT":          "development",
	"CORS_ORIGIN":          "*",
	"RATE_LIMIT_RPS":       20.0,
	"RATE_LIMIT_BURST":     40,

	"MONGO_HOST":         "localhost",
	"MONGO_PORT":         "27017",
	"MONGO_USERNAME":     "",
	"MONGO_PASSWORD":     "",
	"MONGO_DATABASE":     "gotube",
	"MONGO_SEARCH_INDEX": "search-videos",

	"STORAGE_DRIVER":          "gridfs",
	"MEDIA_BASE_URL":          "",
	"UPLOAD_DIR":              "./public/temp",
	"STORAGE_TIMEOUT_SECONDS": 30,
	"MINIO_ENDPOINT":          "localhost:9000",
	"MINIO_ACCESS_KEY":        "",
	"MINIO_SECRET_KEY":        "",
	"MINIO_BUCKET":            "gotube-media",
	"MINIO_USE_SSL":           false,
	"MINIO_PUBLIC_URL":        "",

	"REDIS_ENABLED":           false,
	"REDIS_ADDRESS":           "localhost:6379",
	"REDIS_PASSWORD":          "",
	"REDIS_DB":                0,
	"REDIS_STATS_TTL_SECONDS": 60,

	"JWT_SECRET":      "",
	"TOKEN_TTL_HOURS": 24,

	"LOG_LEVEL":  "info",
	"LOG_FORMAT": "json",
}

// LoadConfig reads .env (if present), an optional config.yml and the process
// environment, in increasing order of precedence.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using system env variables")
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Printf("config file ignored: %v", err)
		}
	}
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host:            v.GetString("SERVER_HOST"),
			Port:            v.GetString("SERVER_PORT"),
			MediaServerPort: v.GetString("MEDIA_SERVER_PORT"),
			ReadTimeout:     v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetInt("SERVER_WRITE_TIMEOUT"),
			Environment:     v.GetString("ENVIRONMENT"),
			CORSOrigins:     splitList(v.GetString("CORS_ORIGIN")),
			RateLimitRPS:    v.GetFloat64("RATE_LIMIT_RPS"),
			RateLimitBurst:  v.GetInt("RATE_LIMIT_BURST"),
		},
		MongoDB: MongoDBConfig{
			Host:        v.GetString("MONGO_HOST"),
			Port:        v.GetString("MONGO_PORT"),
			Username:    v.GetString("MONGO_USERNAME"),
			Password:    v.GetString("MONGO_PASSWORD"),
			Database:    v.GetString("MONGO_DATABASE"),
			SearchIndex: v.GetString("MONGO_SEARCH_INDEX"),
		},
		Storage: StorageConfig{
			Driver:         strings.ToLower(v.GetString("STORAGE_DRIVER")),
			MediaBaseURL:   v.GetString("MEDIA_BASE_URL"),
			UploadDir:      v.GetString("UPLOAD_DIR"),
			TimeoutSeconds: v.GetInt("STORAGE_TIMEOUT_SECONDS"),
			MinioEndpoint:  v.GetString("MINIO_ENDPOINT"),
			MinioAccessKey: v.GetString("MINIO_ACCESS_KEY"),
			MinioSecretKey: v.GetString("MINIO_SECRET_KEY"),
			MinioBucket:    v.GetString("MINIO_BUCKET"),
			MinioUseSSL:    v.GetBool("MINIO_USE_SSL"),
			MinioPublicURL: v.GetString("MINIO_PUBLIC_URL"),
		},
		Redis: RedisConfig{
			Enabled:         v.GetBool("REDIS_ENABLED"),
			Address:         v.GetString("REDIS_ADDRESS"),
			Password:        v.GetString("REDIS_PASSWORD"),
			DB:              v.GetInt("REDIS_DB"),
			StatsTTLSeconds: v.GetInt("REDIS_STATS_TTL_SECONDS"),
		},
		Auth: AuthConfig{
			JWTSecret:     v.GetString("JWT_SECRET"),
			TokenTTLHours: v.GetInt("TOKEN_TTL_HOURS"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}

	if cfg.Storage.MediaBaseURL == "" {
		cfg.Storage.MediaBaseURL = fmt.Sprintf("http://localhost:%s/media", cfg.Server.MediaServerPort)
	}

	return cfg
}

// Validate rejects configurations the server cannot run with.
func (cfg *Config) Validate() error {
	switch cfg.Storage.Driver {
	case "gridfs", "minio":
	default:
		return fmt.Errorf("storage driver %q is not supported", cfg.Storage.Driver)
	}
	if cfg.Auth.JWTSecret == "" && cfg.Server.Environment == "production" {
		return errors.New("JWT_SECRET must be set in production")
	}
	if cfg.MongoDB.Database == "" {
		return errors.New("MONGO_DATABASE must not be empty")
	}
	return nil
}

func (cfg *Config) GetMongoURI() string {
	if cfg.MongoDB.Username != "" && cfg.MongoDB.Password != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%s/%s?authSource=admin",
			url.QueryEscape(cfg.MongoDB.Username),
			url.QueryEscape(cfg.MongoDB.Password),
			cfg.MongoDB.Host,
			cfg.MongoDB.Port,
			cfg.MongoDB.Database,
		)
	}
	return fmt.Sprintf("mongodb://%s:%s/%s", cfg.MongoDB.Host, cfg.MongoDB.Port, cfg.MongoDB.Database)
}

func (cfg *Config) StorageTimeout() time.Duration {
	if cfg.Storage.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(cfg.Storage.TimeoutSeconds) * time.Second
}

func (cfg *Config) TokenTTL() time.Duration {
	if cfg.Auth.TokenTTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(cfg.Auth.TokenTTLHours) * time.Hour
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
