package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port string
	}
	Bot struct {
		Prefix        string
		DefaultCutoff int
		Cutoffs       map[string]int
	}
	Storage struct {
		Driver string // memory | redis | postgres
	}
	Database struct {
		DSN string
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	Log struct {
		Level string
	}
}

var C Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", ":8080")
	v.SetDefault("bot.prefix", "!")
	v.SetDefault("bot.defaultcutoff", 0)
	v.SetDefault("storage.driver", "memory")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("log.level", "info")
}

// Load reads the yaml file at path (when non-empty) and QUEUEBOT_* env
// overrides into C.
func Load(path string) error {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("QUEUEBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "read config %s", path)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return errors.Wrap(err, "parse config")
	}
	if c.Bot.Prefix == "" {
		c.Bot.Prefix = "!"
	}
	C = c
	return nil
}
