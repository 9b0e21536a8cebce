package config

import (
	"time"

	"fyne.io/fyne/v2"
)

// Settings keys, shared by Fyne preferences and the environment layer
const (
	KeyModel1URL      = "model1_url"
	KeyModel2URL      = "model2_url"
	KeyWakeURLs       = "wake_urls"
	KeyCatalogPath    = "catalog_path"
	KeyRequestTimeout = "request_timeout"
	KeyBannerDuration = "banner_duration"
	KeyMetricsAddr    = "metrics_addr"
	KeyLanguage       = "language"
	KeyDebug          = "debug"
	KeyLogFile        = "log_file"
)

// Default values
const (
	DefaultModel1URL             = "https://eep-503n.up.railway.app/get-player-count"
	DefaultModel2URL             = "https://eep-503n.up.railway.app/get-recommendations"
	DefaultRequestTimeoutSeconds = 30
	DefaultBannerDurationSeconds = 3
	DefaultLanguage              = "system"
)

// Limits for numeric settings, in seconds
const (
	MinRequestTimeoutSeconds = 1
	MaxRequestTimeoutSeconds = 300
	MinBannerDurationSeconds = 1
	MaxBannerDurationSeconds = 30
)

// DefaultWakeURLs holds the only known service base URL. The model hosts
// behind it are added through settings, GAMESYS_WAKE_URLS or --wake-url.
var DefaultWakeURLs = []string{
	"https://eep-503n.up.railway.app",
}

// Settings manages application configuration
type Settings struct {
	app fyne.App
	env *Environment
}

// NewSettings creates a new settings manager. Values missing from the
// preferences come from env, or from defaults when env is nil.
func NewSettings(app fyne.App, env *Environment) *Settings {
	if env == nil {
		env = DefaultEnvironment()
	}
	return &Settings{app: app, env: env}
}

// Values resolves every setting
func (s *Settings) Values() Values {
	values := s.env.Values()
	values.Model1URL = s.GetModel1URL()
	values.Model2URL = s.GetModel2URL()
	values.WakeURLs = s.GetWakeURLs()
	values.CatalogPath = s.GetCatalogPath()
	values.RequestTimeout = s.GetRequestTimeout()
	values.BannerDuration = s.GetBannerDuration()
	values.MetricsAddr = s.GetMetricsAddr()
	values.Language = s.GetLanguage()
	return values
}

// GetModel1URL returns the player count endpoint
func (s *Settings) GetModel1URL() string {
	return s.stringOrEnv(KeyModel1URL)
}

// SetModel1URL sets the player count endpoint; empty restores the default
func (s *Settings) SetModel1URL(url string) {
	s.app.Preferences().SetString(KeyModel1URL, url)
}

// GetModel2URL returns the recommendations endpoint
func (s *Settings) GetModel2URL() string {
	return s.stringOrEnv(KeyModel2URL)
}

// SetModel2URL sets the recommendations endpoint; empty restores the default
func (s *Settings) SetModel2URL(url string) {
	s.app.Preferences().SetString(KeyModel2URL, url)
}

// GetWakeURLs returns the services pinged by the wake button
func (s *Settings) GetWakeURLs() []string {
	urls := s.app.Preferences().StringList(KeyWakeURLs)
	if len(urls) == 0 {
		return s.env.List(KeyWakeURLs)
	}
	return urls
}

// SetWakeURLs sets the services to wake; an empty list restores the default
func (s *Settings) SetWakeURLs(urls []string) {
	if len(urls) == 0 {
		s.app.Preferences().RemoveValue(KeyWakeURLs)
		return
	}
	s.app.Preferences().SetStringList(KeyWakeURLs, urls)
}

// GetCatalogPath returns the configured catalog file, empty to search for it
func (s *Settings) GetCatalogPath() string {
	return s.stringOrEnv(KeyCatalogPath)
}

// SetCatalogPath sets the catalog file
func (s *Settings) SetCatalogPath(path string) {
	s.app.Preferences().SetString(KeyCatalogPath, path)
}

// GetRequestTimeout returns the HTTP timeout of remote calls
func (s *Settings) GetRequestTimeout() time.Duration {
	value := s.app.Preferences().Int(KeyRequestTimeout)
	if value <= 0 {
		return s.env.Values().RequestTimeout
	}
	return seconds(value)
}

// SetRequestTimeout sets the HTTP timeout in seconds
func (s *Settings) SetRequestTimeout(secs int) {
	s.app.Preferences().SetInt(KeyRequestTimeout, clamp(secs, MinRequestTimeoutSeconds, MaxRequestTimeoutSeconds))
}

// GetBannerDuration returns how long the wake banner stays visible
func (s *Settings) GetBannerDuration() time.Duration {
	value := s.app.Preferences().Int(KeyBannerDuration)
	if value <= 0 {
		return s.env.Values().BannerDuration
	}
	return seconds(value)
}

// SetBannerDuration sets the banner duration in seconds
func (s *Settings) SetBannerDuration(secs int) {
	s.app.Preferences().SetInt(KeyBannerDuration, clamp(secs, MinBannerDurationSeconds, MaxBannerDurationSeconds))
}

// GetMetricsAddr returns the Prometheus listen address, empty when disabled
func (s *Settings) GetMetricsAddr() string {
	return s.stringOrEnv(KeyMetricsAddr)
}

// SetMetricsAddr sets the Prometheus listen address
func (s *Settings) SetMetricsAddr(addr string) {
	s.app.Preferences().SetString(KeyMetricsAddr, addr)
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.stringOrEnv(KeyLanguage)
	if lang == "" {
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}

func (s *Settings) stringOrEnv(key string) string {
	if value := s.app.Preferences().String(key); value != "" {
		return value
	}
	return s.env.String(key)
}
