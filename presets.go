package scanforge

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type presetFile struct {
	Presets map[string]presetEntry `yaml:"presets"`
}

type presetEntry struct {
	SpatialSigma        *float32 `yaml:"spatial_sigma"`
	RangeSigma          *float32 `yaml:"range_sigma"`
	ConfidenceThreshold *float32 `yaml:"confidence_threshold"`
	FeatureWeight       *float32 `yaml:"feature_weight"`
}

// FindPresetPath returns the first preset file found on the search path, or
// "" when none exists. Locations, in priority order: $SCANFORGE_PRESETS,
// ./scanforge-presets.yaml, ~/.config/scanforge/presets.yaml.
func FindPresetPath() string {
	if p := os.Getenv("SCANFORGE_PRESETS"); p != "" {
		return p
	}
	candidates := []string{"scanforge-presets.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "scanforge", "presets.yaml"))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

// LoadPresets reads named parameter profiles from a YAML file. Omitted fields
// fall back to DefaultParameters; every profile is validated.
func LoadPresets(path string) (map[string]ProcessingParameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presets: %w", err)
	}

	var file presetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse presets: %w", err)
	}

	presets := make(map[string]ProcessingParameters, len(file.Presets))
	for name, entry := range file.Presets {
		p := DefaultParameters()
		if entry.SpatialSigma != nil {
			p.SpatialSigma = *entry.SpatialSigma
		}
		if entry.RangeSigma != nil {
			p.RangeSigma = *entry.RangeSigma
		}
		if entry.ConfidenceThreshold != nil {
			p.ConfidenceThreshold = *entry.ConfidenceThreshold
		}
		if entry.FeatureWeight != nil {
			p.FeatureWeight = *entry.FeatureWeight
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
		presets[name] = p
	}
	return presets, nil
}
