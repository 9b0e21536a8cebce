package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ytget/game-system/internal/platform"
)

// EnvPrefix prefixes environment variables, e.g. GAMESYS_MODEL1_URL
const EnvPrefix = "GAMESYS"

// Environment is the configuration read from .env, GAMESYS_* variables and
// an optional YAML file. Fyne preferences take precedence over it.
type Environment struct {
	v *viper.Viper
}

// Values is a resolved configuration
type Values struct {
	Model1URL      string
	Model2URL      string
	WakeURLs       []string
	CatalogPath    string
	RequestTimeout time.Duration
	BannerDuration time.Duration
	MetricsAddr    string
	Language       string
	Debug          bool
	LogFile        string
}

// LoadEnvironment reads .env from the working directory (if present), then
// cfgFile or config.yaml from the working directory or the user config
// directory, then GAMESYS_* variables.
func LoadEnvironment(cfgFile string) (*Environment, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to load .env", "error", err)
	}

	v := newViper()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if dir, err := platform.AppConfigDir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.SetConfigType("yaml")
		v.SetConfigName(strings.TrimSuffix(platform.ConfigFileName, filepath.Ext(platform.ConfigFileName)))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		slog.Info("Using config file", "path", v.ConfigFileUsed())
	}

	return &Environment{v: v}, nil
}

// DefaultEnvironment returns an Environment holding defaults and GAMESYS_* variables only
func DefaultEnvironment() *Environment {
	return &Environment{v: newViper()}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyModel1URL, DefaultModel1URL)
	v.SetDefault(KeyModel2URL, DefaultModel2URL)
	v.SetDefault(KeyWakeURLs, DefaultWakeURLs)
	v.SetDefault(KeyCatalogPath, "")
	v.SetDefault(KeyRequestTimeout, DefaultRequestTimeoutSeconds)
	v.SetDefault(KeyBannerDuration, DefaultBannerDurationSeconds)
	v.SetDefault(KeyMetricsAddr, "")
	v.SetDefault(KeyLanguage, DefaultLanguage)
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyLogFile, "")
	return v
}

// Set overrides a key, e.g. from a command line flag
func (e *Environment) Set(key string, value any) {
	e.v.Set(key, value)
}

// String returns a string setting
func (e *Environment) String(key string) string {
	return strings.TrimSpace(e.v.GetString(key))
}

// List returns a list setting. A plain string is split on commas and spaces.
func (e *Environment) List(key string) []string {
	if raw, ok := e.v.Get(key).(string); ok {
		return splitList(raw)
	}
	return splitList(strings.Join(e.v.GetStringSlice(key), ","))
}

// Values resolves every setting, clamping out-of-range numbers
func (e *Environment) Values() Values {
	return Values{
		Model1URL:      e.String(KeyModel1URL),
		Model2URL:      e.String(KeyModel2URL),
		WakeURLs:       e.List(KeyWakeURLs),
		CatalogPath:    e.String(KeyCatalogPath),
		RequestTimeout: seconds(clamp(e.v.GetInt(KeyRequestTimeout), MinRequestTimeoutSeconds, MaxRequestTimeoutSeconds)),
		BannerDuration: seconds(clamp(e.v.GetInt(KeyBannerDuration), MinBannerDurationSeconds, MaxBannerDurationSeconds)),
		MetricsAddr:    e.String(KeyMetricsAddr),
		Language:       e.String(KeyLanguage),
		Debug:          e.v.GetBool(KeyDebug),
		LogFile:        e.String(KeyLogFile),
	}
}

func splitList(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func clamp(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
