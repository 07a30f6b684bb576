package bootstrap

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

type Config struct {
	ServerPort       string        `mapstructure:"SERVER_PORT"`
	GrpcPort         string        `mapstructure:"GRPC_PORT"`
	Storage          string        `mapstructure:"STORAGE"`
	RedisUrl         string        `mapstructure:"REDIS_URL"`
	RedisGameTTL     time.Duration `mapstructure:"REDIS_GAME_TTL"`
	MongoUri         string        `mapstructure:"MONGO_URI"`
	MongoDatabase    string        `mapstructure:"MONGO_DATABASE"`
	IsLocalCors      bool          `mapstructure:"LOCAL_CORS"`
	DefaultBoardSize int           `mapstructure:"DEFAULT_BOARD_SIZE"`
	DefaultKomi      float64       `mapstructure:"DEFAULT_KOMI"`
	LogDevelopment   bool          `mapstructure:"LOG_DEVELOPMENT"`
}

var defaults = map[string]any{
	"SERVER_PORT":        ":8080",
	"GRPC_PORT":          ":8082",
	"STORAGE":            StorageMemory,
	"REDIS_URL":          "localhost:6379",
	"REDIS_GAME_TTL":     "24h",
	"MONGO_URI":          "mongodb://localhost:27017",
	"MONGO_DATABASE":     "goban",
	"LOCAL_CORS":         false,
	"DEFAULT_BOARD_SIZE": 19,
	"DEFAULT_KOMI":       0.0,
	"LOG_DEVELOPMENT":    false,
}

// Setup reads cfgPath (a .env style file) if it exists, then lets
// environment variables override it.
func Setup(cfgPath string) (*Config, error) {
	return SetupWith(viper.New(), cfgPath)
}

// SetupWith is Setup on a caller-owned viper instance, so flags bound to v
// take part in the lookup.
func SetupWith(v *viper.Viper, cfgPath string) (*Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		v.SetConfigType("env")
		err := v.ReadInConfig()
		var notFound viper.ConfigFileNotFoundError
		if err != nil && !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
