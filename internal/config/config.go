package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/law-makers/wom/internal/utils/headers"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string
	JSONLog  bool
	Quiet    bool

	// HTTP
	HTTPTimeout    time.Duration
	IndexTimeout   time.Duration
	MaxRetries     int
	BackoffStep    time.Duration
	UserAgent      string
	AcceptLanguage string
	Proxy          string
	Headers        map[string]string

	// Chart and archive
	TargetURL      string
	ArchiveBase    string
	CDXEndpoint    string
	Limit          int
	YearsBack      int
	CollapseDigits int

	// ConfigFile is the file that was read, if any
	ConfigFile string
}

// Default returns a Config populated with the defaults only
func Default() *Config {
	return &Config{
		LogLevel:       DefaultLogLevel,
		JSONLog:        DefaultJSONLog,
		HTTPTimeout:    DefaultHTTPTimeout,
		IndexTimeout:   DefaultIndexTimeout,
		MaxRetries:     DefaultMaxRetries,
		BackoffStep:    DefaultBackoffStep,
		UserAgent:      DefaultUserAgent,
		AcceptLanguage: DefaultAcceptLanguage,
		Headers:        map[string]string{},
		TargetURL:      DefaultTargetURL,
		ArchiveBase:    DefaultArchiveBase,
		CDXEndpoint:    DefaultCDXEndpoint,
		Limit:          DefaultLimit,
		YearsBack:      DefaultYearsBack,
		CollapseDigits: DefaultCollapseDigits,
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("log-level", d.LogLevel)
	v.SetDefault("json-log", d.JSONLog)
	v.SetDefault("timeout", d.HTTPTimeout)
	v.SetDefault("index-timeout", d.IndexTimeout)
	v.SetDefault("max-retries", d.MaxRetries)
	v.SetDefault("backoff-step", d.BackoffStep)
	v.SetDefault("user-agent", d.UserAgent)
	v.SetDefault("accept-language", d.AcceptLanguage)
	v.SetDefault("target-url", d.TargetURL)
	v.SetDefault("archive-base", d.ArchiveBase)
	v.SetDefault("cdx-endpoint", d.CDXEndpoint)
	v.SetDefault("limit", d.Limit)
	v.SetDefault("years-back", d.YearsBack)
	v.SetDefault("collapse-digits", d.CollapseDigits)
}

// Load builds a Config from defaults, an optional YAML config file, WOM_*
// environment variables and the flags of cmd, in increasing precedence.
// Caller should pass the command being executed so its flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	cfg := &Config{
		LogLevel:       strings.ToLower(v.GetString("log-level")),
		JSONLog:        v.GetBool("json-log"),
		HTTPTimeout:    v.GetDuration("timeout"),
		IndexTimeout:   v.GetDuration("index-timeout"),
		MaxRetries:     v.GetInt("max-retries"),
		BackoffStep:    v.GetDuration("backoff-step"),
		UserAgent:      v.GetString("user-agent"),
		AcceptLanguage: v.GetString("accept-language"),
		Proxy:          v.GetString("proxy"),
		Headers:        v.GetStringMapString("headers"),
		TargetURL:      v.GetString("target-url"),
		ArchiveBase:    v.GetString("archive-base"),
		CDXEndpoint:    v.GetString("cdx-endpoint"),
		Limit:          v.GetInt("limit"),
		YearsBack:      v.GetInt("years-back"),
		CollapseDigits: v.GetInt("collapse-digits"),
		ConfigFile:     v.ConfigFileUsed(),
	}

	switch {
	case v.GetBool("verbose"):
		cfg.LogLevel = "debug"
	case v.GetBool("quiet"):
		cfg.LogLevel = "error"
		cfg.Quiet = true
	}

	if cmd != nil {
		if err := mergeHeaderFlags(cmd, cfg); err != nil {
			return nil, err
		}
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func readConfigFile(v *viper.Viper) error {
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName("wom")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "wom"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

func mergeHeaderFlags(cmd *cobra.Command, cfg *Config) error {
	if cmd.Flags().Lookup("header") == nil {
		return nil
	}
	raw, err := cmd.Flags().GetStringArray("header")
	if err != nil {
		return fmt.Errorf("failed to read header flags: %w", err)
	}
	parsed, err := headers.Parse(raw)
	if err != nil {
		return err
	}
	if cfg.Headers == nil {
		cfg.Headers = make(map[string]string, len(parsed))
	}
	for k, val := range parsed {
		cfg.Headers[k] = val
	}
	return nil
}
