package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/Alturino/storefront/internal/log"
)

const DefaultSecretKey = "dev-secret-change-me"

type Application struct {
	Env          string        `mapstructure:"env"           json:"env"`
	Host         string        `mapstructure:"host"          json:"host"`
	PublicRoot   string        `mapstructure:"public_root"   json:"public_root"`
	LogPath      string        `mapstructure:"log_path"      json:"log_path"`
	Port         int           `mapstructure:"port"          json:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"  json:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" json:"write_timeout"`
}

type Auth struct {
	Username     string        `mapstructure:"username"      json:"username"`
	Password     string        `mapstructure:"password"      json:"-"`
	PasswordHash string        `mapstructure:"password_hash" json:"-"`
	SecretKey    string        `mapstructure:"secret_key"    json:"-"`
	Issuer       string        `mapstructure:"issuer"        json:"issuer"`
	Audience     string        `mapstructure:"audience"      json:"audience"`
	TokenTTL     time.Duration `mapstructure:"token_ttl"     json:"token_ttl"`
}

type Storage struct {
	CatalogPath string `mapstructure:"catalog_path" json:"catalog_path"`
	OrdersPath  string `mapstructure:"orders_path"  json:"orders_path"`
}

type Minio struct {
	Endpoint  string `mapstructure:"endpoint"   json:"endpoint"`
	AccessKey string `mapstructure:"access_key" json:"-"`
	SecretKey string `mapstructure:"secret_key" json:"-"`
	Bucket    string `mapstructure:"bucket"     json:"bucket"`
	PublicURL string `mapstructure:"public_url" json:"public_url"`
	UseSSL    bool   `mapstructure:"use_ssl"    json:"use_ssl"`
}

type Upload struct {
	Backend           string   `mapstructure:"backend"            json:"backend"`
	Dir               string   `mapstructure:"dir"                json:"dir"`
	AllowedFolders    []string `mapstructure:"allowed_folders"    json:"allowed_folders"`
	AllowedExtensions []string `mapstructure:"allowed_extensions" json:"allowed_extensions"`
	MaxSize           int64    `mapstructure:"max_size"           json:"max_size"`
	Minio             Minio    `mapstructure:"minio"              json:"minio"`
}

type Cache struct {
	Host     string        `mapstructure:"host"     json:"host"`
	Password string        `mapstructure:"password" json:"-"`
	TTL      time.Duration `mapstructure:"ttl"      json:"ttl"`
	Database int           `mapstructure:"database" json:"database"`
	Port     uint16        `mapstructure:"port"     json:"port"`
	Enabled  bool          `mapstructure:"enabled"  json:"enabled"`
}

type Otel struct {
	Host    string `mapstructure:"host"    json:"host"`
	Port    int    `mapstructure:"port"    json:"port"`
	Enabled bool   `mapstructure:"enabled" json:"enabled"`
}

type Config struct {
	Application Application `mapstructure:"application" json:"application"`
	Auth        Auth        `mapstructure:"auth"        json:"auth"`
	Storage     Storage     `mapstructure:"storage"     json:"storage"`
	Upload      Upload      `mapstructure:"upload"      json:"upload"`
	Cache       Cache       `mapstructure:"cache"       json:"cache"`
	Otel        Otel        `mapstructure:"otel"        json:"otel"`
}

var (
	once   sync.Once
	config *Config
)

// envBindings maps config keys to the variable names the storefront has
// always been deployed with.
var envBindings = map[string]string{
	"application.port":   "PORT",
	"auth.username":      "ADMIN_USER",
	"auth.password":      "ADMIN_PASS",
	"auth.password_hash": "ADMIN_PASS_HASH",
	"auth.secret_key":    "JWT_SECRET",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("application.env", "development")
	v.SetDefault("application.host", "localhost")
	v.SetDefault("application.port", 5050)
	v.SetDefault("application.public_root", ".")
	v.SetDefault("application.log_path", "")
	v.SetDefault("application.read_timeout", 45*time.Second)
	v.SetDefault("application.write_timeout", 45*time.Second)

	v.SetDefault("auth.username", "admin")
	v.SetDefault("auth.password", "")
	v.SetDefault("auth.password_hash", "")
	v.SetDefault("auth.secret_key", DefaultSecretKey)
	v.SetDefault("auth.issuer", "storefront")
	v.SetDefault("auth.audience", "storefront-admin")
	v.SetDefault("auth.token_ttl", 7*24*time.Hour)

	v.SetDefault("storage.catalog_path", "catalog.json")
	v.SetDefault("storage.orders_path", "server/data/orders.json")

	v.SetDefault("upload.backend", "disk")
	v.SetDefault("upload.dir", "assets/uploads")
	v.SetDefault("upload.max_size", 10*1024*1024)
	v.SetDefault("upload.allowed_folders", []string{"products", "promos", "categories", "brand"})
	v.SetDefault("upload.allowed_extensions", []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".avif"})
	v.SetDefault("upload.minio.endpoint", "")
	v.SetDefault("upload.minio.access_key", "")
	v.SetDefault("upload.minio.secret_key", "")
	v.SetDefault("upload.minio.bucket", "storefront")
	v.SetDefault("upload.minio.public_url", "")
	v.SetDefault("upload.minio.use_ssl", false)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.host", "localhost")
	v.SetDefault("cache.port", 6379)
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.database", 0)
	v.SetDefault("cache.ttl", 10*time.Minute)

	v.SetDefault("otel.enabled", false)
	v.SetDefault("otel.host", "otel-collector")
	v.SetDefault("otel.port", 4317)
}

// LoadDotenv loads the given .env files into the process environment.
// Missing files are skipped and variables already set are never overridden.
func LoadDotenv(c context.Context, filenames ...string) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "config LoadDotenv").
		Str(log.KeyProcess, "loading dotenv").
		Logger()

	for _, filename := range filenames {
		if _, err := os.Stat(filename); err != nil {
			logger.Trace().Str("filename", filename).Msg("dotenv file not found, skipping")
			continue
		}
		if err := godotenv.Load(filename); err != nil {
			err = fmt.Errorf("failed loading dotenv file=%s with error=%w", filename, err)
			logger.Warn().Err(err).Msg(err.Error())
			continue
		}
		logger.Info().Str("filename", filename).Msg("loaded dotenv file")
	}
}

// Load reads env/<filename>.yaml (or the first match in paths), then applies
// environment overrides. A missing config file is not an error.
func Load(c context.Context, filename string, paths ...string) (*Config, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "config Load").
		Str("filename", filename).
		Logger()

	v := viper.New()
	setDefaults(v)
	v.SetConfigName(filename)
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"./env", "."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed binding env=%s to key=%s with error=%w", env, key, err)
		}
	}

	logger = logger.With().Str(log.KeyProcess, "reading config").Logger()
	logger.Info().Msg("reading config")
	if err := v.ReadInConfig(); err != nil {
		notFound := viper.ConfigFileNotFoundError{}
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed reading config with error=%w", err)
		}
		logger.Warn().Msg("config file not found, using defaults and environment")
	} else {
		logger.Info().Str("configFile", v.ConfigFileUsed()).Msg("read config")
	}

	logger = logger.With().Str(log.KeyProcess, "unmarshaling config").Logger()
	logger.Info().Msg("unmarshaling config")
	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed unmarshaling config with error=%w", err)
	}
	logger.Info().Msg("unmarshaled config")

	if cfg.Auth.SecretKey == DefaultSecretKey && cfg.Application.Env == "production" {
		logger.Warn().Msg("JWT secret is the development default, set JWT_SECRET")
	}

	return &cfg, nil
}

func InitConfig(c context.Context, filename string) *Config {
	once.Do(func() {
		logger := zerolog.Ctx(c).
			With().
			Str(log.KeyTag, "main InitConfig").
			Str(log.KeyProcess, "init config").
			Str("filename", filename).
			Logger()
		c = logger.WithContext(c)

		LoadDotenv(c, "server/.env", ".env")
		cfg, err := Load(c, filename)
		if err != nil {
			logger.Fatal().Err(err).Msg(err.Error())
		}
		config = cfg
		logger.Info().Any(log.KeyConfig, cfg).Msg("initialized config")
	})
	return config
}
