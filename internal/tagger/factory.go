package tagger

import (
	"tagdesk/internal/config"
	"tagdesk/internal/errors"
)

// Names lists the backends NewFromConfig knows
var Names = []string{"wd", "gemini", "ollama", "exif"}

// Factory builds a Tagger by name. It can be swapped in tests.
type Factory func(name string, cfg *config.Config) (Tagger, error)

// CurrentFactory is used by the front ends
var CurrentFactory Factory = NewFromConfig

// SetFactory replaces the active factory
func SetFactory(f Factory) {
	CurrentFactory = f
}

// ResetFactory restores NewFromConfig
func ResetFactory() {
	CurrentFactory = NewFromConfig
}

// NewFromConfig builds the named backend from cfg; an empty name selects
// cfg.Tagger.Default.
func NewFromConfig(name string, cfg *config.Config) (Tagger, error) {
	if cfg == nil {
		cfg = config.New()
	}
	if name == "" {
		name = cfg.Tagger.Default
	}

	tc := cfg.Tagger
	switch name {
	case "wd":
		wd, err := NewWD(WDOptions{
			ModelDir:           tc.WD.ModelDir,
			LibraryPath:        tc.WD.LibraryPath,
			GeneralThreshold:   tc.WD.GeneralThreshold,
			CharacterThreshold: tc.WD.CharacterThreshold,
			IncludeRating:      tc.WD.IncludeRating,
		})
		if err != nil {
			return nil, err
		}
		return wd, nil
	case "gemini":
		g, err := NewGemini(tc.Gemini.Model, tc.Gemini.APIKeyEnv, tc.Gemini.Mode, tc.Gemini.MaxTags)
		if err != nil {
			return nil, err
		}
		return g, nil
	case "ollama":
		return NewOllama(tc.Ollama.URL, tc.Ollama.Model, tc.Ollama.Mode), nil
	case "exif":
		e, err := NewExif()
		if err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, errors.NewConfigError("unknown tagger", name, errors.InvalidConfig, nil)
	}
}
