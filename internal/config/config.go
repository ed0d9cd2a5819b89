// Package config loads runtime settings from defaults, an optional YAML
// file, a .env file and IZPOSOJA_* environment variables, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Keys.
const (
	KeyAddr              = "addr"
	KeyDB                = "db"
	KeyLogFile           = "log.file"
	KeyLogEnv            = "log.env"
	KeyJWTSecret         = "jwt.secret"
	KeyJWTExpiry         = "jwt.expiry"
	KeyKafkaBrokers      = "kafka.brokers"
	KeyKafkaTopic        = "kafka.topic"
	KeyRedisAddr         = "redis.addr"
	KeyRedisPassword     = "redis.password"
	KeyRedisDB           = "redis.db"
	KeyRequestsPerMinute = "ratelimit.requests_per_minute"
	KeyLoginsPerMinute   = "ratelimit.logins_per_minute"
)

const (
	envPrefix      = "IZPOSOJA"
	configFileName = "izposoja"
	configFileType = "yaml"
)

// Config is the resolved runtime configuration.
type Config struct {
	Addr    string
	DB      string
	LogFile string
	LogEnv  string

	// JWTSecret signs tokens. Empty means use the secret stored in the
	// database.
	JWTSecret string
	JWTExpiry time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RequestsPerMinute int
	LoginsPerMinute   int
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyAddr, ":8080")
	v.SetDefault(KeyDB, "izposoja.sqlite3")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyLogEnv, "production")
	v.SetDefault(KeyJWTSecret, "")
	v.SetDefault(KeyJWTExpiry, 7*24*time.Hour)
	v.SetDefault(KeyKafkaBrokers, []string{})
	v.SetDefault(KeyKafkaTopic, "izposoja.notifications")
	v.SetDefault(KeyRedisAddr, "")
	v.SetDefault(KeyRedisPassword, "")
	v.SetDefault(KeyRedisDB, 0)
	v.SetDefault(KeyRequestsPerMinute, 30)
	v.SetDefault(KeyLoginsPerMinute, 10)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads .env (if present) and the config file into v, then resolves
// the settings. configFile may be empty, in which case izposoja.yaml is
// looked up in the working directory and its absence is not an error.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	return Resolve(v)
}

// Resolve converts v into a Config and validates it.
func Resolve(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Addr:              v.GetString(KeyAddr),
		DB:                v.GetString(KeyDB),
		LogFile:           v.GetString(KeyLogFile),
		LogEnv:            v.GetString(KeyLogEnv),
		JWTSecret:         v.GetString(KeyJWTSecret),
		JWTExpiry:         v.GetDuration(KeyJWTExpiry),
		KafkaBrokers:      splitList(v.GetStringSlice(KeyKafkaBrokers)),
		KafkaTopic:        v.GetString(KeyKafkaTopic),
		RedisAddr:         v.GetString(KeyRedisAddr),
		RedisPassword:     v.GetString(KeyRedisPassword),
		RedisDB:           v.GetInt(KeyRedisDB),
		RequestsPerMinute: v.GetInt(KeyRequestsPerMinute),
		LoginsPerMinute:   v.GetInt(KeyLoginsPerMinute),
	}

	if cfg.Addr == "" {
		return nil, errors.New("addr must not be empty")
	}
	if cfg.DB == "" {
		return nil, errors.New("db must not be empty")
	}
	if cfg.JWTExpiry <= 0 {
		return nil, fmt.Errorf("jwt.expiry must be positive, got %s", cfg.JWTExpiry)
	}
	return cfg, nil
}

// splitList accepts both YAML lists and comma-separated environment values.
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for part := range strings.SplitSeq(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
