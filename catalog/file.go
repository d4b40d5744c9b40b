package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CatalogFileName is the declarative catalog file, looked up in the
// config directory. It lets a deployment pin scripts to categories and
// kinds explicitly instead of relying on filename inference.
const CatalogFileName = "catalog.yaml"

// File is the parsed catalog file.
type File struct {
	Scripts []Entry `yaml:"scripts"`
}

// Entry declares one script. Name is required; everything else overrides
// what the scanner would have inferred.
type Entry struct {
	Name string `yaml:"name"`
	// Path is where the script lives; defaults to Name when empty.
	Path string `yaml:"path,omitempty"`
	// Category is a category code ("nervous", "cardiovascular",
	// "musculoskeletal", "dental"); empty means infer from the name.
	Category string `yaml:"category,omitempty"`
	// Kind is a feature kind code ("surface-rendering", ...); empty
	// means infer from the name.
	Kind string `yaml:"kind,omitempty"`
	// Data overrides the imaging file passed to this script.
	Data string `yaml:"data,omitempty"`
}

// LoadFile reads and parses a catalog file. A missing file yields
// (nil, nil) since the file is optional.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}

	for i, e := range f.Scripts {
		if e.Name == "" {
			return nil, fmt.Errorf("catalog file %s: entry %d has no name", path, i)
		}
	}

	return &f, nil
}
