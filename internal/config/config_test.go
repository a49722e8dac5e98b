package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setConfigPath(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv(envConfig, path)
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	setConfigPath(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ModeProduction, cfg.Mode)
	require.Equal(t, 500*time.Millisecond, cfg.UI.Latency)
	require.Equal(t, 2, cfg.UI.PageSize)
	require.Equal(t, "info", cfg.Log.Level)
	require.False(t, cfg.Development())
}

func TestLoadReadsFile(t *testing.T) {
	path := setConfigPath(t)
	data := `mode = "development"

[ui]
latency = "250ms"
page_size = 10

[[keybindings]]
scope = "list"
action = "search"
keys = ["f"]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.Development())
	require.Equal(t, 250*time.Millisecond, cfg.UI.Latency)
	require.Equal(t, 10, cfg.UI.PageSize)
	require.Equal(t, []KeybindingConfig{{Scope: "list", Action: "search", Keys: []string{"f"}}}, cfg.Keybindings)
}

func TestLoadEnvOverride(t *testing.T) {
	setConfigPath(t)
	t.Setenv("FORENSICDESK_UI_PAGE_SIZE", "20")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 20, cfg.UI.PageSize)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := setConfigPath(t)
	require.NoError(t, os.WriteFile(path, []byte("[ui]\npage_size = 7\n"), 0o644))

	_, err := Load()
	require.ErrorContains(t, err, "page_size")
}

func TestValidateMode(t *testing.T) {
	cfg := Config{Mode: "staging", UI: UIConfig{PageSize: 2}}
	require.ErrorContains(t, cfg.Validate(), "mode")

	cfg.Mode = ModeDevelopment
	cfg.UI.Latency = -time.Second
	require.ErrorContains(t, cfg.Validate(), "latency")
}

func TestSaveRoundTrip(t *testing.T) {
	setConfigPath(t)

	want := Config{
		Mode: ModeDevelopment,
		Log:  LogConfig{Path: "/tmp/fd.log", Level: "debug"},
		UI:   UIConfig{Latency: time.Second, PageSize: 50},
		Keybindings: []KeybindingConfig{
			{Scope: "home", Action: "open", Keys: []string{"o"}},
		},
	}
	require.NoError(t, Save(want))

	got, err := Load()
	require.NoError(t, err)
	require.Equal(t, want.Mode, got.Mode)
	require.Equal(t, want.Log, got.Log)
	require.Equal(t, want.UI, got.UI)
	require.Equal(t, want.Keybindings, got.Keybindings)
}
