package config

import (
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/turtacn/coursehub/pkg/constants"
	"github.com/turtacn/coursehub/pkg/errors"
)

// EnvPrefix is prepended to every environment override, e.g. COURSEHUB_JWT_SECRET_KEY.
const EnvPrefix = "COURSEHUB"

// Loader reads configuration from a YAML file and the environment.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a Loader. An empty configFile searches /etc/coursehub/ and the working directory.
func NewLoader(configFile string) *Loader {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/coursehub/")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:8080", "http://localhost:5050"})

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.database", "coursehub")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.sqlite_path", "coursehub.db")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)

	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.mount_path", "secret")
	v.SetDefault("vault.secret_path", "coursehub/jwt")
	v.SetDefault("vault.secret_key", "secret_key")

	v.SetDefault("jwt.algorithm", string(constants.AlgorithmHS256))
	v.SetDefault("jwt.access_token_expire_minutes", int(constants.DefaultAccessTokenTTL/time.Minute))
	v.SetDefault("jwt.logout_backdate", constants.LogoutBackdate)

	v.SetDefault("security.bcrypt_cost", 10)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.login_attempts", 5)
	v.SetDefault("rate_limit.window", time.Minute)

	v.SetDefault("audit.enabled", false)
	v.SetDefault("audit.topic", "coursehub.audit")
	v.SetDefault("audit.buffer_size", 1024)
	v.SetDefault("audit.publish_timeout", 2*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output_path", "stdout")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "coursehub")
	v.SetDefault("tracing.sampling_rate", 1.0)
}

// Load reads, unmarshals and validates the configuration. A missing config
// file is not an error; defaults and environment variables still apply.
func (l *Loader) Load() (*Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.ErrServerError("failed to read config file").WithCause(err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, errors.ErrServerError("failed to unmarshal config").WithCause(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// WatchLogLevel calls onChange with log.level whenever the config file is
// written. Other keys are read once at startup and never reapplied.
func (l *Loader) WatchLogLevel(onChange func(level string)) bool {
	if l.v.ConfigFileUsed() == "" {
		return false
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if e.Op&(fsnotify.Write|fsnotify.Create) == 0 {
			return
		}
		onChange(l.v.GetString("log.level"))
	})
	l.v.WatchConfig()
	return true
}

// LoadConfig loads the configuration from file and environment variables.
func LoadConfig(configFile string) (*Config, error) {
	return NewLoader(configFile).Load()
}
