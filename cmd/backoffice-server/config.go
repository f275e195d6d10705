package main

import (
	"strings"
	"time"

	"github.com/callcove/backoffice/internal/api/http"
	"github.com/callcove/backoffice/internal/db"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log        LogConfig
	Http       http.Config
	Db         db.Config
	Auth       AuthConfig
	Revocation RevocationConfig
}

type AuthConfig struct {
	Secret          string `mapstructure:"secret"`
	TokenTTLMinutes int    `mapstructure:"token_ttl_minutes"`
}

func (c AuthConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

type RevocationConfig struct {
	Backend  string `mapstructure:"backend"`
	RedisUrl string `mapstructure:"redis_url"`
}

var config Config

func InitConfig() {
	_ = godotenv.Load()

	viper.SetConfigName("application")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./cmd/backoffice-server")
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("http.port", 8080)
	viper.SetDefault("auth.token_ttl_minutes", 100)
	viper.SetDefault("revocation.backend", "memory")

	_ = viper.BindEnv("auth.secret", "AUTH_SECRET")
	_ = viper.BindEnv("db.url", "DATABASE_URL")

	if err := viper.ReadInConfig(); err != nil {
		panic(err)
	}

	if err := viper.Unmarshal(&config); err != nil {
		panic(err)
	}

	if config.Auth.Secret == "" {
		panic("auth.secret must be configured")
	}

	initLogger(config.Log.Level)
}
