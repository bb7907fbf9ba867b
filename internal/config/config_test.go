package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"tagdesk/internal/config"
	"tagdesk/internal/errors"
	"tagdesk/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a temporary YAML config file
func createTestYAML(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "config-*.yaml")
	require.NoError(t, err)
	_, err = tmpFile.WriteString(content)
	require.NoError(t, err)
	err = tmpFile.Close()
	require.NoError(t, err)
	return tmpFile.Name()
}

const (
	validYAML = `
settings:
  default_position: start
  backup: true
  backup_dir: ".bak"
directories:
  default: "/home/test/photos"
layout:
  margin: 4
  h_spacing: 8
tagger:
  default: gemini
  gemini:
    model: gemini-2.0-flash
    max_tags: 10
  ollama:
    url: "http://gpu-box:11434"
theme:
  name: dark
`
	invalidSyntaxYAML = `
settings:
  default_position: "start
  backup: yes please
`
	invalidPositionYAML = `
settings:
  default_position: middle
`
	invalidTaggerYAML = `
tagger:
  default: florence
`
)

func TestLoadConfigFile(t *testing.T) {
	t.Run("load valid config", func(t *testing.T) {
		configFile := createTestYAML(t, validYAML)
		cfg, err := config.LoadConfigFile(configFile)

		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, "start", cfg.Settings.DefaultPosition)
		assert.Equal(t, types.Start, cfg.Position())
		assert.True(t, cfg.Settings.Backup)
		assert.Equal(t, ".bak", cfg.Settings.BackupDir)
		assert.Equal(t, "/home/test/photos", cfg.Directories.Default)
		assert.Equal(t, float32(4), cfg.Layout.Margin)
		assert.Equal(t, float32(8), cfg.Layout.HSpacing)
		assert.Equal(t, "gemini", cfg.Tagger.Default)
		assert.Equal(t, "gemini-2.0-flash", cfg.Tagger.Gemini.Model)
		assert.Equal(t, 10, cfg.Tagger.Gemini.MaxTags)
		assert.Equal(t, "http://gpu-box:11434", cfg.Tagger.Ollama.URL)
		assert.Equal(t, "dark", cfg.Theme.Name)
		assert.Equal(t, config.GetTheme("dark")["primary"], cfg.Theme.Primary)
	})

	t.Run("unset fields keep defaults", func(t *testing.T) {
		configFile := createTestYAML(t, validYAML)
		cfg, err := config.LoadConfigFile(configFile)
		require.NoError(t, err)

		defaults := config.New()
		assert.Equal(t, defaults.Settings.RejectDelimiter, cfg.Settings.RejectDelimiter)
		assert.Equal(t, defaults.Layout.VSpacing, cfg.Layout.VSpacing)
		assert.Equal(t, defaults.Tagger.Gemini.APIKeyEnv, cfg.Tagger.Gemini.APIKeyEnv)
		assert.Equal(t, defaults.Tagger.Ollama.Model, cfg.Tagger.Ollama.Model)
		assert.Equal(t, defaults.Tagger.WD.GeneralThreshold, cfg.Tagger.WD.GeneralThreshold)
	})

	t.Run("load non-existent file", func(t *testing.T) {
		nonExistentPath := filepath.Join(t.TempDir(), "does_not_exist.yaml")
		cfg, err := config.LoadConfigFile(nonExistentPath)

		require.NoError(t, err, "Loading non-existent file should return default config, not an error")
		require.NotNil(t, cfg)

		assert.Equal(t, "end", cfg.Settings.DefaultPosition)
		assert.Equal(t, types.End, cfg.Position())
		assert.False(t, cfg.Settings.Backup)
		assert.Equal(t, ".tagdesk-backup", cfg.Settings.BackupDir)
		assert.True(t, cfg.Settings.RejectDelimiter)
		assert.Equal(t, float32(config.Unset), cfg.Layout.HSpacing)
		assert.Equal(t, float32(config.Unset), cfg.Layout.VSpacing)
		assert.Equal(t, "wd", cfg.Tagger.Default)
		assert.Equal(t, float32(0.35), cfg.Tagger.WD.GeneralThreshold)
		assert.Equal(t, float32(0.85), cfg.Tagger.WD.CharacterThreshold)
		assert.Equal(t, "gemini-2.5-flash", cfg.Tagger.Gemini.Model)
		assert.Equal(t, "GOOGLE_AI_API_KEY", cfg.Tagger.Gemini.APIKeyEnv)
		assert.Equal(t, "llava:13b", cfg.Tagger.Ollama.Model)
	})

	t.Run("load file with invalid YAML syntax", func(t *testing.T) {
		configFile := createTestYAML(t, invalidSyntaxYAML)
		_, err := config.LoadConfigFile(configFile)

		require.Error(t, err, "Loading invalid YAML should return an error")
		assert.Contains(t, err.Error(), "error parsing config file")
		assert.True(t, errors.IsInvalidConfig(err))
	})

	t.Run("load file with invalid position", func(t *testing.T) {
		configFile := createTestYAML(t, invalidPositionYAML)
		_, err := config.LoadConfigFile(configFile)

		require.Error(t, err)
		assert.True(t, errors.IsInvalidConfig(err))

		var cfgErr *errors.ConfigError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, "settings.default_position", cfgErr.Param())
	})

	t.Run("load file with unknown tagger", func(t *testing.T) {
		configFile := createTestYAML(t, invalidTaggerYAML)
		_, err := config.LoadConfigFile(configFile)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "tagger.default")
	})
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		param   string
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(*config.Config) {},
			wantErr: false,
		},
		{
			name:    "explicit spacing",
			mutate:  func(c *config.Config) { c.Layout.HSpacing, c.Layout.VSpacing = 0, 12 },
			wantErr: false,
		},
		{
			name:    "negative margin",
			mutate:  func(c *config.Config) { c.Layout.Margin = -2 },
			param:   "layout.margin",
			wantErr: true,
		},
		{
			name:    "spacing below unset",
			mutate:  func(c *config.Config) { c.Layout.VSpacing = -3 },
			param:   "layout.v_spacing",
			wantErr: true,
		},
		{
			name:    "backup without dir",
			mutate:  func(c *config.Config) { c.Settings.Backup, c.Settings.BackupDir = true, "" },
			param:   "settings.backup_dir",
			wantErr: true,
		},
		{
			name:    "threshold out of range",
			mutate:  func(c *config.Config) { c.Tagger.WD.GeneralThreshold = 1.5 },
			param:   "tagger.wd.general_threshold",
			wantErr: true,
		},
		{
			name:    "unknown gemini mode",
			mutate:  func(c *config.Config) { c.Tagger.Gemini.Mode = "poem" },
			param:   "tagger.gemini.mode",
			wantErr: true,
		},
		{
			name:    "unknown ollama mode",
			mutate:  func(c *config.Config) { c.Tagger.Ollama.Mode = "" },
			param:   "tagger.ollama.mode",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var cfgErr *errors.ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.param, cfgErr.Param())
		})
	}

	var nilCfg *config.Config
	assert.ErrorIs(t, nilCfg.Validate(), errors.ErrInvalidConfig)
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := config.New()
	cfg.Settings.DefaultPosition = "start"
	cfg.Tagger.Default = "ollama"
	require.NoError(t, config.SaveConfig(cfg, path))

	loaded, err := config.LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "start", loaded.Settings.DefaultPosition)
	assert.Equal(t, "ollama", loaded.Tagger.Default)
	assert.Equal(t, cfg.Theme, loaded.Theme)
}

func TestThemes(t *testing.T) {
	assert.Equal(t, config.GetTheme("default"), config.GetTheme("no-such-theme"))
	for _, name := range config.ListThemes() {
		assert.Contains(t, config.GetTheme(name), "primary")
	}

	cfg := config.New()
	cfg.ApplyTheme("light")
	assert.Equal(t, "light", cfg.Theme.Name)
	assert.Equal(t, "135", cfg.Theme.Primary)
}

func TestLoadConfigFileTheme(t *testing.T) {
	t.Run("named theme fills colors", func(t *testing.T) {
		cfg, err := config.LoadConfigFile(createTestYAML(t, "theme:\n  name: light\n"))
		require.NoError(t, err)
		light := config.GetTheme("light")
		assert.Equal(t, light["primary"], cfg.Theme.Primary)
		assert.Equal(t, light["error"], cfg.Theme.Error)
		assert.Equal(t, light["border"], cfg.Theme.Border)
	})

	t.Run("explicit colors win over the named theme", func(t *testing.T) {
		cfg, err := config.LoadConfigFile(createTestYAML(t, "theme:\n  name: dark\n  error: \"9\"\n"))
		require.NoError(t, err)
		assert.Equal(t, "9", cfg.Theme.Error)
		assert.Equal(t, config.GetTheme("dark")["primary"], cfg.Theme.Primary)
	})

	t.Run("no theme section keeps the default", func(t *testing.T) {
		cfg, err := config.LoadConfigFile(createTestYAML(t, "settings:\n  default_position: end\n"))
		require.NoError(t, err)
		assert.Equal(t, "default", cfg.Theme.Name)
		assert.Equal(t, config.GetTheme("default")["primary"], cfg.Theme.Primary)
	})

	t.Run("saved theme round-trips", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		saved := config.New()
		saved.ApplyTheme("dark")
		require.NoError(t, config.SaveConfig(saved, path))

		cfg, err := config.LoadConfigFile(path)
		require.NoError(t, err)
		assert.Equal(t, saved.Theme, cfg.Theme)
	})
}
