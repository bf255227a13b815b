package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/turtacn/coursehub/pkg/constants"
)

// Config holds the application's configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Vault     VaultConfig     `mapstructure:"vault"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Security  SecurityConfig  `mapstructure:"security"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Audit     AuditConfig     `mapstructure:"audit"`
	Log       LogConfig       `mapstructure:"log"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Environment     string        `mapstructure:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// Addr returns the listen address.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsProduction reports whether debug surfaces such as pprof must stay off.
func (c *ServerConfig) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // postgres or sqlite
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	SQLitePath      string        `mapstructure:"sqlite_path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

type RedisConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Address      string `mapstructure:"address"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
}

// VaultConfig points at a KV v2 secret holding the token signing secret.
type VaultConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Address    string `mapstructure:"address"`
	Token      string `mapstructure:"token"`
	MountPath  string `mapstructure:"mount_path"`
	SecretPath string `mapstructure:"secret_path"`
	SecretKey  string `mapstructure:"secret_key"`
}

type JWTConfig struct {
	Algorithm                string        `mapstructure:"algorithm"`
	SecretKey                string        `mapstructure:"secret_key"`
	AccessTokenExpireMinutes int           `mapstructure:"access_token_expire_minutes"`
	LogoutBackdate           time.Duration `mapstructure:"logout_backdate"`
}

// AccessTokenTTL returns the default token lifetime.
func (c *JWTConfig) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

type SecurityConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

type RateLimitConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	LoginAttempts int           `mapstructure:"login_attempts"`
	Window        time.Duration `mapstructure:"window"`
}

type AuditConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	// BufferSize bounds events waiting to be published; extra events are dropped.
	BufferSize     int           `mapstructure:"buffer_size"`
	PublishTimeout time.Duration `mapstructure:"publish_timeout"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type TracingConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint"`
	ServiceName    string  `mapstructure:"service_name"`
	SamplingRate   float64 `mapstructure:"sampling_rate"`
}

var supportedAlgorithms = map[constants.JWTAlgorithm]bool{
	constants.AlgorithmHS256: true,
	constants.AlgorithmHS384: true,
	constants.AlgorithmHS512: true,
	constants.AlgorithmRS256: true,
	constants.AlgorithmRS384: true,
	constants.AlgorithmRS512: true,
	constants.AlgorithmPS256: true,
	constants.AlgorithmES256: true,
	constants.AlgorithmES384: true,
	constants.AlgorithmES512: true,
	constants.AlgorithmEdDSA: true,
}

// Validate checks for essential configuration values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if !supportedAlgorithms[constants.JWTAlgorithm(c.JWT.Algorithm)] {
		return fmt.Errorf("jwt.algorithm %q is not supported", c.JWT.Algorithm)
	}
	// With Vault enabled the secret is fetched at startup.
	if c.JWT.SecretKey == "" && !c.Vault.Enabled {
		return fmt.Errorf("jwt.secret_key must be set")
	}
	if c.JWT.AccessTokenExpireMinutes <= 0 {
		return fmt.Errorf("jwt.access_token_expire_minutes must be positive")
	}
	switch c.Database.Driver {
	case "postgres":
		if c.Database.Host == "" || c.Database.Database == "" {
			return fmt.Errorf("database.host and database.database must be set for postgres")
		}
	case "sqlite":
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("database.sqlite_path must be set for sqlite")
		}
	default:
		return fmt.Errorf("database.driver %q must be postgres or sqlite", c.Database.Driver)
	}
	if c.Vault.Enabled && (c.Vault.Address == "" || c.Vault.SecretPath == "") {
		return fmt.Errorf("vault.address and vault.secret_path must be set when vault is enabled")
	}
	if c.RateLimit.Enabled && (c.RateLimit.LoginAttempts <= 0 || c.RateLimit.Window <= 0) {
		return fmt.Errorf("rate_limit.login_attempts and rate_limit.window must be positive")
	}
	if c.Audit.Enabled && len(c.Audit.Brokers) == 0 {
		return fmt.Errorf("audit.brokers must be set when audit is enabled")
	}
	return nil
}
