package config

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/stridezone/storefront/internal/constants"
	"github.com/stridezone/storefront/internal/log"
)

type Application struct {
	Env       string `mapstructure:"env"        json:"env"`
	LogFile   string `mapstructure:"log_file"   json:"log_file"`
	Host      string `mapstructure:"host"       json:"host"`
	SecretKey string `mapstructure:"secret_key" json:"-"`
	Port      int    `mapstructure:"port"       json:"port"`
}

type Backend struct {
	BaseURL        string `mapstructure:"base_url"        json:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" json:"timeout_seconds"`
}

// Store configures the durable local store. Backend is "file" or
// "redis"; the file backend is the default and needs only Dir.
type Store struct {
	Backend  string `mapstructure:"backend"  json:"backend"`
	Dir      string `mapstructure:"dir"      json:"dir"`
	CartKey  string `mapstructure:"cart_key" json:"cart_key"`
	TokenKey string `mapstructure:"token_key" json:"token_key"`
	Host     string `mapstructure:"host"     json:"host"`
	Password string `mapstructure:"password" json:"-"`
	Database int    `mapstructure:"database" json:"database"`
	Port     uint16 `mapstructure:"port"     json:"port"`
}

type Otel struct {
	Host string `mapstructure:"host" json:"host"`
	Port int    `mapstructure:"port" json:"port"`
}

type Config struct {
	Application `mapstructure:"application" json:"application"`
	Backend     `mapstructure:"backend"     json:"backend"`
	Store       `mapstructure:"store"       json:"store"`
	Otel        `mapstructure:"otel"        json:"otel"`
}

var (
	once   sync.Once
	config *Config
)

func InitConfig(c context.Context, filename string) *Config {
	cfg := Config{}
	once.Do(func() {
		logger := zerolog.Ctx(c).
			With().
			Str(log.KeyTag, "main InitConfig").
			Str(log.KeyProcess, "init config").
			Str("filename", filename).
			Logger()

		viper.SetConfigName(filename)
		viper.AddConfigPath("./env")
		viper.SetConfigType("yaml")
		viper.SetEnvPrefix("stridezone")
		viper.AutomaticEnv()

		viper.SetDefault("application.env", "production")
		viper.SetDefault("application.log_file", "storefront.log")
		viper.SetDefault("application.host", "127.0.0.1")
		viper.SetDefault("application.port", 8000)
		viper.SetDefault("application.secret_key", "stridezone-dev-secret")
		viper.SetDefault("backend.base_url", "http://127.0.0.1:8000")
		viper.SetDefault("backend.timeout_seconds", 30)
		viper.SetDefault("store.backend", "file")
		viper.SetDefault("store.dir", ".stridezone")
		viper.SetDefault("store.cart_key", constants.SlotCart)
		viper.SetDefault("store.token_key", constants.SlotToken)
		viper.SetDefault("store.host", "localhost")
		viper.SetDefault("store.port", 6379)
		viper.SetDefault("store.database", 0)
		viper.SetDefault("otel.host", "localhost")
		viper.SetDefault("otel.port", 4317)

		logger = logger.With().Str(log.KeyProcess, "reading config").Logger()
		logger.Info().Msg("reading config")
		err := viper.ReadInConfig()
		if err != nil {
			// The CLI runs fine on defaults; only a malformed file is fatal.
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				err = fmt.Errorf("error when reading config with error=%w", err)
				logger.Fatal().Err(err).Msg(err.Error())
			}
			logger.Info().Msg("config file not found, using defaults")
		}
		logger.Info().Msg("read config")

		logger = logger.With().Str(log.KeyProcess, "unmarshaling config").Logger()
		logger.Info().Msg("unmarshaling config")
		err = viper.Unmarshal(&cfg)
		if err != nil {
			err = fmt.Errorf("error unmarshaling config with error=%w", err)
			logger.Fatal().Err(err).Msg(err.Error())
		}
		config = &cfg
		logger = logger.With().Any(log.KeyConfig, cfg).Logger()
		logger.Info().Msg("unmarshaled config")
	})
	return config
}
