package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/game-system/internal/platform"
)

// isolate runs the test in an empty working directory with a private user
// config directory and returns the working directory.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("AppData", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadEnvironment(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		isolate(t)

		env, err := LoadEnvironment("")
		require.NoError(t, err)

		values := env.Values()
		assert.Equal(t, DefaultModel1URL, values.Model1URL)
		assert.Equal(t, DefaultModel2URL, values.Model2URL)
		assert.Equal(t, DefaultWakeURLs, values.WakeURLs)
		assert.Equal(t, 30*time.Second, values.RequestTimeout)
		assert.Equal(t, 3*time.Second, values.BannerDuration)
		assert.Equal(t, DefaultLanguage, values.Language)
		assert.Empty(t, values.CatalogPath)
	})

	t.Run("From File", func(t *testing.T) {
		dir := isolate(t)
		cfg := filepath.Join(dir, "custom.yaml")
		content := "model1_url: http://localhost:8000/get-player-count\n" +
			"wake_urls:\n  - http://localhost:8000\n  - http://localhost:8001\n" +
			"request_timeout: 5\n" +
			"debug: true\n"
		require.NoError(t, os.WriteFile(cfg, []byte(content), 0644))

		env, err := LoadEnvironment(cfg)
		require.NoError(t, err)

		values := env.Values()
		assert.Equal(t, "http://localhost:8000/get-player-count", values.Model1URL)
		assert.Equal(t, []string{"http://localhost:8000", "http://localhost:8001"}, values.WakeURLs)
		assert.Equal(t, 5*time.Second, values.RequestTimeout)
		assert.True(t, values.Debug)
	})

	t.Run("Missing Explicit File", func(t *testing.T) {
		isolate(t)
		_, err := LoadEnvironment(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("From Env", func(t *testing.T) {
		isolate(t)
		t.Setenv("GAMESYS_REQUEST_TIMEOUT", "900")
		t.Setenv("GAMESYS_BANNER_DURATION", "0")
		t.Setenv("GAMESYS_LANGUAGE", "pt")

		env, err := LoadEnvironment("")
		require.NoError(t, err)

		values := env.Values()
		assert.Equal(t, 300*time.Second, values.RequestTimeout, "clamped to maximum")
		assert.Equal(t, time.Second, values.BannerDuration, "clamped to minimum")
		assert.Equal(t, "pt", values.Language)
	})

	t.Run("Dotenv File", func(t *testing.T) {
		dir := isolate(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GAMESYS_METRICS_ADDR=:2112\n"), 0644))
		t.Cleanup(func() { os.Unsetenv("GAMESYS_METRICS_ADDR") })

		env, err := LoadEnvironment("")
		require.NoError(t, err)
		assert.Equal(t, ":2112", env.Values().MetricsAddr)
	})

	t.Run("User Config Dir", func(t *testing.T) {
		isolate(t)
		dir, err := platform.AppConfigDir()
		require.NoError(t, err)
		require.NoError(t, platform.CreateDirectoryIfNotExists(dir))
		content := "model2_url: http://localhost:9000/get-recommendations\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, platform.ConfigFileName), []byte(content), 0644))

		env, err := LoadEnvironment("")
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:9000/get-recommendations", env.Values().Model2URL)
	})

	t.Run("Working Dir Wins", func(t *testing.T) {
		wd := isolate(t)
		dir, err := platform.AppConfigDir()
		require.NoError(t, err)
		require.NoError(t, platform.CreateDirectoryIfNotExists(dir))
		require.NoError(t, os.WriteFile(filepath.Join(dir, platform.ConfigFileName), []byte("language: ru\n"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(wd, platform.ConfigFileName), []byte("language: pt\n"), 0644))

		env, err := LoadEnvironment("")
		require.NoError(t, err)
		assert.Equal(t, "pt", env.Values().Language)
	})
}

func TestEnvironmentSet(t *testing.T) {
	env := DefaultEnvironment()
	env.Set(KeyWakeURLs, "http://x http://y")
	assert.Equal(t, []string{"http://x", "http://y"}, env.List(KeyWakeURLs))
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"a", []string{"a"}},
		{"a,b", []string{"a", "b"}},
		{" a , b ,, c ", []string{"a", "b", "c"}},
		{"a\nb\tc", []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, splitList(tt.in), tt.in)
	}
}
