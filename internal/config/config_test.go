package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadMissingFile(t *testing.T) {
	config, err := Load(filepath.Join(t.TempDir(), "omnivox.json5"))
	require.NoError(t, err)
	require.Equal(t, Default().Institutions, config.Institutions)

	config, err = Load("")
	require.NoError(t, err)
	require.Equal(t, 10, config.RequestTimeoutSeconds)
}

func TestLoadMergesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "omnivox.json5")
	writeFile(t, path, `{
		// extra institution on the same driver
		institutions: {
			vanier: { driver: "champlain", base_url: "https://vaniercollege.omnivox.ca" },
		},
		requests_per_second: 5,
		bypass_cloudflare: false,
	}`)
	writeFile(t, filepath.Join(dir, "omnivox.local.json5"), `{
		smtp: { host: "smtp.example.com", port: 587, from: "bot@example.com", to: ["me@example.com"] },
	}`)

	config, err := Load(path)
	require.NoError(t, err)

	require.Contains(t, config.Institutions, "vanier")
	require.Contains(t, config.Institutions, "champlain")
	require.Contains(t, config.Institutions, "maisonneuve")
	require.Equal(t, float64(5), config.RequestsPerSecond)
	require.Equal(t, "America/Montreal", config.Timezone)
	require.True(t, config.Smtp.Enabled())

	options := config.BrowserOptions()
	require.False(t, options.BypassCloudflare)
	require.Equal(t, 10*time.Second, options.Timeout)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "omnivox.json5")
	writeFile(t, path, `{ institutions: { broken: { base_url: "https://x.omnivox.ca" } } }`)

	_, err := Load(path)
	require.ErrorContains(t, err, "institution 'broken' has no driver")
}

func TestDefaultBrowserOptions(t *testing.T) {
	options := Default().BrowserOptions()
	require.True(t, options.BypassCloudflare)
	require.Equal(t, float64(2), options.RequestsPerSecond)

	clock, err := Default().Clock()
	require.NoError(t, err)
	require.Equal(t, "America/Montreal", clock.Location().String())
}
