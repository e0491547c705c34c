// Package config wires defaults, the optional config file, .env and
// YTCAPTION_* environment variables into viper
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"youtube-caption/pkg/httpclient"
	"youtube-caption/pkg/page"
	"youtube-caption/pkg/prompt"
)

// Configuration keys
const (
	HTTPTimeout      = "http.timeout"
	HTTPMaxRedirects = "http.max_redirects"
	HTTPMaxBodyBytes = "http.max_body_bytes"
	HTTPClient       = "http.client"
	PageParser       = "page.parser"
	PromptWorkers    = "prompt.workers"
	LogLevel         = "log.level"
	LogJSON          = "log.json"
)

const (
	EnvPrefix = "YTCAPTION"
	FileName  = "youtube-caption"
)

// EnvKeyReplacer maps dotted keys onto environment variable names
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Config is a typed snapshot of the settings
type Config struct {
	HTTP struct {
		Timeout      time.Duration
		MaxRedirects int
		MaxBodyBytes int64
		Client       httpclient.ClientType
	}
	PageParser    string
	PromptWorkers int
	Log           struct {
		Level string
		JSON  bool
	}
}

// SetDefaults registers every default on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault(HTTPTimeout, httpclient.DefaultTimeout)
	v.SetDefault(HTTPMaxRedirects, httpclient.DefaultMaxRedirects)
	v.SetDefault(HTTPMaxBodyBytes, httpclient.DefaultMaxBodyBytes)
	v.SetDefault(HTTPClient, string(httpclient.DefaultClient))
	v.SetDefault(PageParser, page.PatternParserName)
	v.SetDefault(PromptWorkers, prompt.DefaultWorkers)
	v.SetDefault(LogLevel, "warn")
	v.SetDefault(LogJSON, false)
}

// Setup loads .env from the working directory when present, registers
// defaults and environment binding, and reads the config file if one exists
func Setup(v *viper.Viper) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(EnvKeyReplacer)
	v.AutomaticEnv()

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, FileName))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}

	return nil
}

// Load reads a typed Config out of v
func Load(v *viper.Viper) Config {
	var cfg Config
	cfg.HTTP.Timeout = v.GetDuration(HTTPTimeout)
	cfg.HTTP.MaxRedirects = v.GetInt(HTTPMaxRedirects)
	cfg.HTTP.MaxBodyBytes = v.GetInt64(HTTPMaxBodyBytes)
	cfg.HTTP.Client = httpclient.ClientType(strings.ToLower(v.GetString(HTTPClient)))
	cfg.PageParser = v.GetString(PageParser)
	cfg.PromptWorkers = v.GetInt(PromptWorkers)
	cfg.Log.Level = v.GetString(LogLevel)
	cfg.Log.JSON = v.GetBool(LogJSON)
	return cfg
}
