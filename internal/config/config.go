package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides (PAGESTATE_LOG_LEVEL, ...).
const EnvPrefix = "PAGESTATE"

// Config holds application configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Demo    DemoConfig    `mapstructure:"demo"`
	Server  ServerConfig  `mapstructure:"server"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Runner  RunnerConfig  `mapstructure:"runner"`
	Machine MachineConfig `mapstructure:"machine"`
	Trace   TraceConfig   `mapstructure:"trace"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DemoConfig holds the simulated API latencies of the demo host.
type DemoConfig struct {
	UserDelay  time.Duration `mapstructure:"user_delay"`
	PostsDelay time.Duration `mapstructure:"posts_delay"`
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// RedisConfig holds trace sink settings. An empty Addr disables Redis.
type RedisConfig struct {
	Addr   string `mapstructure:"addr"`
	Stream string `mapstructure:"stream"`
	MaxLen int64  `mapstructure:"max_len"`
}

// RunnerConfig holds host loop settings.
type RunnerConfig struct {
	Workers int `mapstructure:"workers"`
}

// MachineConfig holds engine settings.
type MachineConfig struct {
	ContextPolicy string `mapstructure:"context_policy"`
}

// TraceConfig holds OpenTelemetry settings. Spans are exported to stderr
// when Stdout is set.
type TraceConfig struct {
	Stdout bool `mapstructure:"stdout"`
}

// New returns a viper instance with defaults and env overrides applied.
// Flags may be bound to it before Load.
func New() *viper.Viper {
	v := viper.New()

	// default values
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("demo.user_delay", "2s")
	v.SetDefault("demo.posts_delay", "3s")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.stream", "pagestate:trace:")
	v.SetDefault("redis.max_len", 1000)
	v.SetDefault("runner.workers", 4)
	v.SetDefault("machine.context_policy", "carry")
	v.SetDefault("trace.stdout", false)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// Load reads the optional config file and decodes v.
// path falls back to $PAGESTATE_CONFIG, then ./pagestate.yaml if present.
func Load(v *viper.Viper, path string) (Config, error) {
	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("pagestate")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
