// Package config loads the server configuration.
//
// Values are layered: defaults, then a .env file in the working directory,
// then NAMESTAMP_* environment variables, then command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultPort            = 8080
	DefaultHost            = ""
	DefaultUploadDir       = "uploads"
	DefaultOutputDir       = "output"
	DefaultLogLevel        = "info"
	DefaultMaxUpload       = 25 * 1024 * 1024
	DefaultSessionTTL      = 30 * time.Minute
	DefaultCleanupInterval = 10 * time.Minute

	// DefaultDirPerm is used for the upload and output directories.
	DefaultDirPerm = 0o755

	envPrefix = "NAMESTAMP"
)

// ErrHelp is returned when usage was requested.
var ErrHelp = pflag.ErrHelp

type Config struct {
	Host string
	Port int

	UploadDir string
	OutputDir string
	// MaxUpload bounds a template upload in bytes.
	MaxUpload int64

	SessionTTL      time.Duration
	CleanupInterval time.Duration

	LogLevel string
	// TitlePages inserts a page with the group label before each group.
	TitlePages bool
}

func DefaultConfig() *Config {
	return &Config{
		Host:            DefaultHost,
		Port:            DefaultPort,
		UploadDir:       DefaultUploadDir,
		OutputDir:       DefaultOutputDir,
		MaxUpload:       DefaultMaxUpload,
		SessionTTL:      DefaultSessionTTL,
		CleanupInterval: DefaultCleanupInterval,
		LogLevel:        DefaultLogLevel,
		TitlePages:      true,
	}
}

// LoadFromFlags loads the configuration from the process arguments and
// environment.
func LoadFromFlags() (*Config, error) {
	return Load(os.Args[0], os.Args[1:])
}

// Load parses args on top of the environment and defaults.
func Load(name string, args []string) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()
	setupViperEnvironment(v, cfg)

	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	defineCommandLineFlags(flags, cfg)
	setupUsageMessage(flags, name)
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	populateConfigFromViper(v, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setupViperEnvironment(v *viper.Viper, cfg *Config) {
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	// PORT is what most hosting platforms set.
	_ = v.BindEnv("port", envPrefix+"_PORT", "PORT")

	v.SetDefault("host", cfg.Host)
	v.SetDefault("port", cfg.Port)
	v.SetDefault("uploaddir", cfg.UploadDir)
	v.SetDefault("outputdir", cfg.OutputDir)
	v.SetDefault("maxupload", cfg.MaxUpload)
	v.SetDefault("sessionttl", cfg.SessionTTL)
	v.SetDefault("cleanupinterval", cfg.CleanupInterval)
	v.SetDefault("loglevel", cfg.LogLevel)
	v.SetDefault("titlepages", cfg.TitlePages)
}

func defineCommandLineFlags(flags *pflag.FlagSet, cfg *Config) {
	flags.String("host", cfg.Host, "Address to listen on (empty for all interfaces)")
	flags.Int("port", cfg.Port, "Port to listen on")
	flags.String("uploaddir", cfg.UploadDir, "Directory for uploaded templates")
	flags.String("outputdir", cfg.OutputDir, "Directory for generated documents")
	flags.Int64("maxupload", cfg.MaxUpload, "Maximum template upload size in bytes")
	flags.Duration("sessionttl", cfg.SessionTTL, "How long a session is kept")
	flags.Duration("cleanupinterval", cfg.CleanupInterval, "How often expired sessions are removed")
	flags.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flags.Bool("titlepages", cfg.TitlePages, "Insert a title page before each group")
}

func setupUsageMessage(flags *pflag.FlagSet, name string) {
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", name)
		fmt.Fprintf(os.Stderr, "\nName stamping API server\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flags.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  %s_PORT (or PORT)  Port to listen on\n", envPrefix)
		fmt.Fprintf(os.Stderr, "  %s_HOST            Address to listen on\n", envPrefix)
		fmt.Fprintf(os.Stderr, "  %s_UPLOADDIR       Upload directory\n", envPrefix)
		fmt.Fprintf(os.Stderr, "  %s_OUTPUTDIR       Output directory\n", envPrefix)
		fmt.Fprintf(os.Stderr, "  %s_SESSIONTTL      Session lifetime, e.g. 30m\n", envPrefix)
		fmt.Fprintf(os.Stderr, "  %s_LOGLEVEL        Log level\n", envPrefix)
		fmt.Fprintf(os.Stderr, "  %s_TITLEPAGES      Insert group title pages\n", envPrefix)
	}
}

func populateConfigFromViper(v *viper.Viper, cfg *Config) {
	cfg.Host = v.GetString("host")
	cfg.Port = v.GetInt("port")
	cfg.UploadDir = v.GetString("uploaddir")
	cfg.OutputDir = v.GetString("outputdir")
	cfg.MaxUpload = v.GetInt64("maxupload")
	cfg.SessionTTL = v.GetDuration("sessionttl")
	cfg.CleanupInterval = v.GetDuration("cleanupinterval")
	cfg.LogLevel = v.GetString("loglevel")
	cfg.TitlePages = v.GetBool("titlepages")
}

// Validate checks the configuration without touching the file system.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return errors.New("port must be between 1 and 65535")
	}
	if c.UploadDir == "" || c.OutputDir == "" {
		return errors.New("upload and output directories cannot be empty")
	}
	if c.MaxUpload <= 0 {
		return errors.New("maximum upload size must be positive")
	}
	if c.SessionTTL <= 0 || c.CleanupInterval <= 0 {
		return errors.New("session ttl and cleanup interval must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}
	return nil
}

// EnsureDirs creates the upload and output directories.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.UploadDir, c.OutputDir} {
		if err := os.MkdirAll(dir, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Address returns the listen address as host:port.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

func (c *Config) String() string {
	return fmt.Sprintf("Config{Address: %s, UploadDir: %s, OutputDir: %s, MaxUpload: %d, SessionTTL: %s, LogLevel: %s, TitlePages: %t}",
		c.Address(), c.UploadDir, c.OutputDir, c.MaxUpload, c.SessionTTL, c.LogLevel, c.TitlePages)
}
