package config

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode         string        `mapstructure:"mode"`
	Port         int           `mapstructure:"port"`
	StaticPath   string        `mapstructure:"static_path"`
	DBPath       string        `mapstructure:"db_path"`
	Secret       string        `mapstructure:"secret"`
	JWTSecret    string        `mapstructure:"jwt_secret"`
	CORSOrigin   string        `mapstructure:"cors_origin"`
	ReadLimit    int64         `mapstructure:"read_limit"`
	SendBuffer   int           `mapstructure:"send_buffer"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DefaultRoom  string        `mapstructure:"default_room"`
	StrictRooms  bool          `mapstructure:"strict_rooms"`
	HistoryLimit int           `mapstructure:"history_limit"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 5000)
	v.SetDefault("static_path", "./web")
	v.SetDefault("db_path", "./chat.db")
	v.SetDefault("secret", "checkpoint-session-secret")
	v.SetDefault("jwt_secret", "supersecretkey-change-in-production")
	v.SetDefault("cors_origin", "http://localhost:5173")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("send_buffer", 32)
	v.SetDefault("write_timeout", "5s")
	v.SetDefault("default_room", "general")
	v.SetDefault("strict_rooms", false)
	v.SetDefault("history_limit", 100)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
