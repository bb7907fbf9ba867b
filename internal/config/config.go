package config

import (
	"os"
	"path/filepath"

	"tagdesk/internal/errors"
	"tagdesk/pkg/types"

	"gopkg.in/yaml.v3"
)

// Unset marks a layout value that falls back to the front end's default.
const Unset = -1

// Config represents the application configuration structure.
// It defines tag editing settings, layout spacing, tagger backends and the TUI theme.
type Config struct {
	Settings struct {
		DefaultPosition string `yaml:"default_position"` // Where new tags go: start or end
		Backup          bool   `yaml:"backup"`           // Copy sidecars before batch edits
		BackupDir       string `yaml:"backup_dir"`       // Backup folder, relative to the image folder
		RejectDelimiter bool   `yaml:"reject_delimiter"` // Refuse tags that contain a comma
	} `yaml:"settings"`
	Directories struct {
		Default string `yaml:"default"` // Folder opened when none is given
	} `yaml:"directories"`
	Layout struct {
		Margin   float32 `yaml:"margin"`    // Space around the chip area
		HSpacing float32 `yaml:"h_spacing"` // Gap between chips on a row, -1 for default
		VSpacing float32 `yaml:"v_spacing"` // Gap between rows, -1 for default
	} `yaml:"layout"`
	Tagger TaggerConfig `yaml:"tagger"`
	Theme  struct {
		Name     string `yaml:"name"`     // Theme name (default, dark, light)
		Primary  string `yaml:"primary"`  // Primary color for branding
		Success  string `yaml:"success"`  // Success message color
		Warning  string `yaml:"warning"`  // Warning message color
		Error    string `yaml:"error"`    // Error message color
		Info     string `yaml:"info"`     // Informational message color
		Emphasis string `yaml:"emphasis"` // Selected chip color
		Border   string `yaml:"border"`   // Chip border color
	} `yaml:"theme"`
}

// TaggerConfig selects and parameterises the AI tagger backends.
type TaggerConfig struct {
	Default string `yaml:"default"` // wd, gemini, ollama or exif
	WD      struct {
		ModelDir           string  `yaml:"model_dir"`    // Holds model.onnx and selected_tags.csv
		LibraryPath        string  `yaml:"library_path"` // onnxruntime shared library
		GeneralThreshold   float32 `yaml:"general_threshold"`
		CharacterThreshold float32 `yaml:"character_threshold"`
		IncludeRating      bool    `yaml:"include_rating"`
	} `yaml:"wd"`
	Gemini struct {
		Model     string `yaml:"model"`
		APIKeyEnv string `yaml:"api_key_env"` // Environment variable holding the key
		Mode      string `yaml:"mode"`        // caption or tags
		MaxTags   int    `yaml:"max_tags"`
	} `yaml:"gemini"`
	Ollama struct {
		URL   string `yaml:"url"`
		Model string `yaml:"model"`
		Mode  string `yaml:"mode"` // caption or tags
	} `yaml:"ollama"`
}

// DefaultPath returns ~/.config/tagdesk/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "tagdesk", "config.yaml"), nil
}

// LoadConfig loads configuration from the default location
// (~/.config/tagdesk/config.yaml).
func LoadConfig() (*Config, error) {
	configPath, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(configPath)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.NewFileError("error reading config file", path, errors.IOFailure, err)
	}

	// Decode over the defaults so unset fields keep them. Theme colors start
	// empty so the named theme can fill whatever the file leaves out.
	cfg.Theme = Config{}.Theme
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError("error parsing config file", path, errors.InvalidConfig, err)
	}
	cfg.fillTheme()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// defaultConfig returns the default configuration with safe defaults.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Settings.DefaultPosition = "end"
	cfg.Settings.Backup = false
	cfg.Settings.BackupDir = ".tagdesk-backup"
	cfg.Settings.RejectDelimiter = true

	cfg.Directories.Default = "."

	cfg.Layout.Margin = 0
	cfg.Layout.HSpacing = Unset
	cfg.Layout.VSpacing = Unset

	cfg.Tagger.Default = "wd"
	cfg.Tagger.WD.GeneralThreshold = 0.35
	cfg.Tagger.WD.CharacterThreshold = 0.85
	cfg.Tagger.Gemini.Model = "gemini-2.5-flash"
	cfg.Tagger.Gemini.APIKeyEnv = "GOOGLE_AI_API_KEY"
	cfg.Tagger.Gemini.Mode = "tags"
	cfg.Tagger.Gemini.MaxTags = 20
	cfg.Tagger.Ollama.URL = "http://localhost:11434"
	cfg.Tagger.Ollama.Model = "llava:13b"
	cfg.Tagger.Ollama.Mode = "caption"

	cfg.ApplyTheme("default")

	return cfg
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.NewFileError("failed to create config directory", dir, errors.IOFailure, err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.NewFileError("failed to write config file", path, errors.IOFailure, err)
	}

	return nil
}

var (
	validTaggers = map[string]bool{"wd": true, "gemini": true, "ollama": true, "exif": true}
	validModes   = map[string]bool{"caption": true, "tags": true}
)

// Validate checks if the configuration is valid.
// Returns an InvalidConfig error naming the offending parameter.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrInvalidConfig
	}

	invalid := func(param, msg string) error {
		return errors.NewConfigError(msg, param, errors.InvalidConfig, nil)
	}

	switch c.Settings.DefaultPosition {
	case "start", "end":
	default:
		return invalid("settings.default_position", "must be start or end")
	}

	if c.Settings.Backup && c.Settings.BackupDir == "" {
		return invalid("settings.backup_dir", "required when backup is enabled")
	}

	if c.Layout.Margin < 0 {
		return invalid("layout.margin", "must be >= 0")
	}
	if c.Layout.HSpacing < Unset {
		return invalid("layout.h_spacing", "must be >= 0, or -1 for the default")
	}
	if c.Layout.VSpacing < Unset {
		return invalid("layout.v_spacing", "must be >= 0, or -1 for the default")
	}

	if !validTaggers[c.Tagger.Default] {
		return invalid("tagger.default", "must be one of wd, gemini, ollama, exif")
	}
	if t := c.Tagger.WD.GeneralThreshold; t <= 0 || t > 1 {
		return invalid("tagger.wd.general_threshold", "must be in (0, 1]")
	}
	if t := c.Tagger.WD.CharacterThreshold; t <= 0 || t > 1 {
		return invalid("tagger.wd.character_threshold", "must be in (0, 1]")
	}
	if !validModes[c.Tagger.Gemini.Mode] {
		return invalid("tagger.gemini.mode", "must be caption or tags")
	}
	if c.Tagger.Gemini.MaxTags < 0 {
		return invalid("tagger.gemini.max_tags", "must be >= 0")
	}
	if !validModes[c.Tagger.Ollama.Mode] {
		return invalid("tagger.ollama.mode", "must be caption or tags")
	}

	return nil
}

// Position returns the configured default insert position.
func (c *Config) Position() types.Position {
	return types.ParsePosition(c.Settings.DefaultPosition)
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

// NewTestConfig creates a configuration instance for testing purposes.
func NewTestConfig() *Config {
	cfg := defaultConfig()
	cfg.Settings.Backup = true
	cfg.Tagger.Default = "exif"
	return cfg
}

// GetTheme returns a predefined theme configuration by name.
// If the theme doesn't exist, returns the default theme.
func GetTheme(name string) map[string]string {
	themes := map[string]map[string]string{
		"default": {
			"primary":  "213", // Purple
			"success":  "114", // Green
			"warning":  "220", // Yellow
			"error":    "196", // Red
			"info":     "39",  // Blue
			"emphasis": "212", // Light Pink
			"border":   "213", // Purple
		},
		"dark": {
			"primary":  "105", // Dark Blue
			"success":  "78",  // Dark Green
			"warning":  "214", // Dark Yellow
			"error":    "160", // Dark Red
			"info":     "33",  // Dark Blue
			"emphasis": "147", // Light Blue
			"border":   "105", // Dark Blue
		},
		"light": {
			"primary":  "135", // Light Purple
			"success":  "150", // Light Green
			"warning":  "222", // Light Yellow
			"error":    "210", // Light Red
			"info":     "117", // Light Blue
			"emphasis": "219", // Very Light Pink
			"border":   "135", // Light Purple
		},
	}

	if theme, exists := themes[name]; exists {
		return theme
	}

	return themes["default"]
}

// ApplyTheme sets the theme colors in the configuration by theme name.
func (c *Config) ApplyTheme(name string) {
	theme := GetTheme(name)

	c.Theme.Name = name
	c.Theme.Primary = theme["primary"]
	c.Theme.Success = theme["success"]
	c.Theme.Warning = theme["warning"]
	c.Theme.Error = theme["error"]
	c.Theme.Info = theme["info"]
	c.Theme.Emphasis = theme["emphasis"]
	c.Theme.Border = theme["border"]
}

// fillTheme sets every color the config leaves empty from the named theme
func (c *Config) fillTheme() {
	if c.Theme.Name == "" {
		c.Theme.Name = "default"
	}
	theme := GetTheme(c.Theme.Name)

	for key, field := range map[string]*string{
		"primary":  &c.Theme.Primary,
		"success":  &c.Theme.Success,
		"warning":  &c.Theme.Warning,
		"error":    &c.Theme.Error,
		"info":     &c.Theme.Info,
		"emphasis": &c.Theme.Emphasis,
		"border":   &c.Theme.Border,
	} {
		if *field == "" {
			*field = theme[key]
		}
	}
}

// ListThemes returns a list of available theme names.
func ListThemes() []string {
	return []string{"default", "dark", "light"}
}
