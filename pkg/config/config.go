package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the wallet middleware configuration.
// It is loaded once at startup and treated as immutable for the process lifetime.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Chain      ChainConfig      `mapstructure:"chain"`
	Ton        TonConfig        `mapstructure:"ton"`
	Token      TokenConfig      `mapstructure:"token"`
	Staking    StakingConfig    `mapstructure:"staking"`
	Admin      AdminConfig      `mapstructure:"admin"`
	Refresh    RefreshConfig    `mapstructure:"refresh"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// ChainConfig contains BNB Chain provider settings.
// An empty RPCURL leaves both BNB lookups unconfigured; an empty
// TokenContract leaves only the token lookup unconfigured.
type ChainConfig struct {
	RPCURL         string        `mapstructure:"rpc_url"`
	TokenContract  string        `mapstructure:"token_contract"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// TonConfig contains TON provider settings.
// An empty APIURL leaves the TON lookup unconfigured; APIKey is optional
// and only raises the toncenter rate limit.
type TonConfig struct {
	APIURL         string        `mapstructure:"api_url"`
	APIKey         string        `mapstructure:"api_key"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// TokenConfig contains tracked token metadata and conversion factors
type TokenConfig struct {
	Symbol string `mapstructure:"symbol"`
	// Decimals is the on-chain decimal scale used to convert raw integer
	// amounts to display values (raw / 10^decimals).
	Decimals int `mapstructure:"decimals"`
	// TonFactor is the logical cross-chain exchange factor: how many
	// TON-side token units equal one unit of the tracked asset.
	TonFactor float64 `mapstructure:"ton_factor"`
}

// StakingConfig contains staking defaults
type StakingConfig struct {
	AnnualRatePercent float64 `mapstructure:"annual_rate_percent"`
}

// AdminConfig contains admin endpoint authentication settings
type AdminConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// RefreshConfig contains settings for the background on-chain balance refresh
type RefreshConfig struct {
	InitialTimeout time.Duration `mapstructure:"initial_timeout"`
	Interval       time.Duration `mapstructure:"interval"`
}

// MonitoringConfig contains monitoring and metrics settings
type MonitoringConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	MetricsPort int  `mapstructure:"metrics_port"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "60s")
	viper.SetDefault("server.request_timeout", "60s")
	viper.SetDefault("server.shutdown_timeout", "30s")

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.database", "wallet")

	// Chain defaults
	viper.SetDefault("chain.rpc_url", "https://bsc-dataseed.binance.org/")
	viper.SetDefault("chain.request_timeout", "10s")

	// Ton defaults
	viper.SetDefault("ton.api_url", "https://toncenter.com/api/v2")
	viper.SetDefault("ton.request_timeout", "10s")

	// Token defaults
	viper.SetDefault("token.symbol", "SLH")
	viper.SetDefault("token.decimals", 18)
	viper.SetDefault("token.ton_factor", 1000.0)

	// Staking defaults
	viper.SetDefault("staking.annual_rate_percent", 120.0)

	// Admin defaults
	viper.SetDefault("admin.token_ttl", "24h")

	// Refresh defaults
	viper.SetDefault("refresh.initial_timeout", "2m")
	viper.SetDefault("refresh.interval", "5m")

	// Monitoring defaults
	viper.SetDefault("monitoring.enabled", true)
	viper.SetDefault("monitoring.metrics_port", 9090)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output_path", "stdout")
}

func validate(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if config.Token.Symbol == "" {
		return fmt.Errorf("token.symbol is required")
	}
	if config.Token.Decimals <= 0 {
		return fmt.Errorf("token.decimals must be positive")
	}
	if config.Token.TonFactor <= 0 {
		return fmt.Errorf("token.ton_factor must be positive")
	}
	return nil
}
