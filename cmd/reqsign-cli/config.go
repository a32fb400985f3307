package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the reqsign-cli configuration, loaded the way
// internal/config.Load builds cmd/alexander-server's Config: viper
// defaults, an optional YAML file, then REQSIGN_-prefixed env overrides.
type Config struct {
	Cloud   string        `mapstructure:"cloud"`
	AWS     AWSConfig     `mapstructure:"aws"`
	Azure   AzureConfig   `mapstructure:"azure"`
	Google  GoogleConfig  `mapstructure:"google"`
	Oracle  OracleConfig  `mapstructure:"oracle"`
	Aliyun  AliyunConfig  `mapstructure:"aliyun"`
	Tencent TencentConfig `mapstructure:"tencent"`

	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Audit   AuditConfig   `mapstructure:"audit"`
	Server  ServerConfig  `mapstructure:"server"`
}

// AWSConfig selects the AWS SigV4 signer's region/service and which
// credential chain to use.
type AWSConfig struct {
	Region         string `mapstructure:"region"`
	Service        string `mapstructure:"service"`
	UseAssumeRole  bool   `mapstructure:"use_assume_role"`
	RoleARN        string `mapstructure:"role_arn"`
	RoleSessionTTL time.Duration `mapstructure:"role_session_ttl"`
}

// AzureConfig selects the Shared Key/Bearer signing mode.
type AzureConfig struct {
	Mode string `mapstructure:"mode"` // "shared_key" or "bearer"
}

// GoogleConfig selects Bearer or SignedURL signing mode.
type GoogleConfig struct {
	Mode string `mapstructure:"mode"` // "bearer" or "signed_url"
}

// OracleConfig has no mode switch -- Oracle only signs headers.
type OracleConfig struct{}

// AliyunConfig selects the signing region and whether to assume a role.
type AliyunConfig struct {
	Region        string `mapstructure:"region"`
	UseAssumeRole bool   `mapstructure:"use_assume_role"`
	RoleARN       string `mapstructure:"role_arn"`
}

// TencentConfig has no mode switch -- Tencent's q-sign scheme covers both
// header and presign cases through the same Authorization header.
type TencentConfig struct{}

// LoggingConfig controls the global zerolog level.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// MetricsConfig controls whether /metrics is exposed by the serve
// subcommand.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// AuditConfig selects an optional audit backend for credential loads.
type AuditConfig struct {
	Driver string `mapstructure:"driver"` // "none" or "sqlite"; the CLI rejects "postgres"
	DSN    string `mapstructure:"dsn"`
}

// ServerConfig holds the loopback serve subcommand's listen address.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// LoadConfig reads configuration the way internal/config.Load does:
// defaults, then an optional YAML file, then REQSIGN_-prefixed env vars.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setConfigDefaults(v)

	v.SetEnvPrefix("REQSIGN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("reqsign")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("cloud", "aws")

	v.SetDefault("aws.region", "us-east-1")
	v.SetDefault("aws.service", "s3")
	v.SetDefault("aws.role_session_ttl", time.Hour)

	v.SetDefault("azure.mode", "shared_key")
	v.SetDefault("google.mode", "bearer")
	v.SetDefault("aliyun.region", "cn-hangzhou")

	v.SetDefault("logging.level", "info")

	v.SetDefault("metrics.enabled", true)

	v.SetDefault("audit.driver", "none")

	v.SetDefault("server.addr", "127.0.0.1:8787")
}
