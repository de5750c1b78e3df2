package yolods

// The YAML dataset descriptor (data.yaml) consumed by the training library. The validator core
// never reads it; it only shares the directory convention.

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DataConfig is the dataset descriptor.
type DataConfig struct {
	Path  string         `yaml:"path"`           // Dataset root directory.
	Train string         `yaml:"train"`          // Train images, relative to Path.
	Val   string         `yaml:"val"`            // Val images, relative to Path.
	Test  string         `yaml:"test,omitempty"` // Test images, relative to Path. Optional.
	NC    int            `yaml:"nc"`             // Number of classes.
	Names map[int]string `yaml:"names"`          // Class id to class name.
}

// classNames is the 40-class Cityscapes taxonomy, indexed by class id.
var classNames = [NumClasses]string{
	"person", "motorcyclegroup", "terrain", "ridergroup", "road",
	"motorcycle", "building", "truck", "caravan", "nse plate",
	"pole", "vegetation", "dynamic", "cargroup", "polegroup",
	"train", "bicycle", "truckgroup", "bicyclegroup", "out of roi",
	"guard rail", "ego vehicle", "rectification border", "sky", "bridge",
	"wall", "fence", "trailer", "tunnel", "car",
	"ground", "parking", "traffic sign", "persongroup", "static",
	"rider", "traffic light", "sidewalk", "bus", "rail track",
}

// ClassNames returns a fresh id-to-name map of the Cityscapes taxonomy.
func ClassNames() map[int]string {
	names := make(map[int]string, NumClasses)
	for id, name := range classNames {
		names[id] = name
	}
	return names
}

// DescriptorPath is the conventional location of the descriptor under root.
func DescriptorPath(root string) string {
	return filepath.Join(root, "data.yaml")
}

// DefaultDataConfig builds the descriptor for a Cityscapes-style dataset rooted at root, with
// Path forced absolute so the training library does not resolve it against a cached dataset
// directory.
func DefaultDataConfig(root string) DataConfig {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	return DataConfig{
		Path:  abs,
		Train: "images/train",
		Val:   "images/val",
		Test:  "images/test",
		NC:    NumClasses,
		Names: ClassNames(),
	}
}

// WriteDataConfig writes cfg as YAML to path.
func WriteDataConfig(path string, cfg DataConfig) error {
	enc, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(path, enc); err != nil {
		return fmt.Errorf("cannot write descriptor %q: %w", path, err)
	}
	return nil
}

// ReadDataConfig reads and parses the YAML descriptor at path.
func ReadDataConfig(path string) (DataConfig, error) {
	enc, err := os.ReadFile(path)
	if err != nil {
		return DataConfig{}, err
	}

	var cfg DataConfig
	if err := yaml.Unmarshal(enc, &cfg); err != nil {
		return DataConfig{}, fmt.Errorf("failed to parse descriptor %q: %w", path, err)
	}
	return cfg, nil
}
