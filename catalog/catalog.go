// Package catalog discovers feature scripts and classifies them into the
// anatomical category mapping the menu is built from. Discovery combines
// a directory scan with an optional declarative catalog file whose
// entries are authoritative over name-based inference.
package catalog

import (
	"path/filepath"

	"medviz/anatomy"
	"medviz/config"
	"medviz/log"
)

// Catalog is the result of one discovery pass.
type Catalog struct {
	// Mapping is the classified category mapping, read-only once built.
	Mapping anatomy.Mapping
	// Unclassified counts identifiers that matched no category rule.
	// They are excluded from the mapping, not reported as errors.
	Unclassified int

	// dataOverrides maps script names to per-script imaging file paths
	// declared in the catalog file.
	dataOverrides map[string]string
}

// Build runs a full discovery pass: scan the configured directories,
// apply the catalog file, classify.
func Build(cfg *config.Config) (*Catalog, error) {
	scripts, err := Scan(cfg.ScriptDirs, cfg.ScriptExtensions)
	if err != nil {
		return nil, err
	}

	file, err := loadCatalogFile()
	if err != nil {
		// A broken catalog file must not take the shell down; inference
		// still works without it.
		log.WarningLog.Printf("ignoring catalog file: %v", err)
		file = nil
	}

	return build(scripts, file), nil
}

// build merges scanned scripts with catalog file entries and classifies
// the result. Scanned scripts keep their discovery order; file-only
// entries are appended in file order.
func build(scanned []anatomy.Script, file *File) *Catalog {
	c := &Catalog{
		dataOverrides: make(map[string]string),
	}

	entries := make(map[string]Entry)
	if file != nil {
		for _, e := range file.Scripts {
			entries[e.Name] = e
		}
	}

	type classified struct {
		script   anatomy.Script
		category anatomy.Category
		ok       bool
	}

	var all []classified
	seen := make(map[string]bool)

	resolve := func(s anatomy.Script, e Entry, explicit bool) classified {
		if explicit {
			if e.Kind != "" {
				if k, ok := anatomy.KindByCode(e.Kind); ok {
					s.Kind = k
					s.KindKnown = true
				} else {
					log.WarningLog.Printf("catalog entry %s: unknown kind %q", e.Name, e.Kind)
				}
			}
			if e.Data != "" {
				c.dataOverrides[s.Name] = e.Data
			}
			if e.Category != "" {
				if cat, ok := anatomy.CategoryByCode(e.Category); ok {
					return classified{script: s, category: cat, ok: true}
				}
				log.WarningLog.Printf("catalog entry %s: unknown category %q", e.Name, e.Category)
			}
		}
		cat, ok := anatomy.CategoryFor(s.Name)
		return classified{script: s, category: cat, ok: ok}
	}

	for _, s := range scanned {
		e, explicit := entries[s.Name]
		all = append(all, resolve(s, e, explicit))
		seen[s.Name] = true
	}

	if file != nil {
		for _, e := range file.Scripts {
			if seen[e.Name] {
				continue
			}
			path := e.Path
			if path == "" {
				path = e.Name
			}
			kind, known := anatomy.InferKind(e.Name)
			s := anatomy.Script{Name: e.Name, Path: path, Kind: kind, KindKnown: known}
			all = append(all, resolve(s, e, true))
		}
	}

	m := make(anatomy.Mapping, len(anatomy.Categories))
	for _, cat := range anatomy.Categories {
		m[cat] = []anatomy.Script{}
	}
	for _, cl := range all {
		if !cl.ok {
			c.Unclassified++
			continue
		}
		m[cl.category] = append(m[cl.category], cl.script)
	}

	c.Mapping = m
	return c
}

// DataOverride returns the per-script imaging file path declared in the
// catalog file, if any.
func (c *Catalog) DataOverride(scriptName string) (string, bool) {
	path, ok := c.dataOverrides[scriptName]
	return path, ok
}

// loadCatalogFile reads the catalog file from the config directory.
// A missing file is not an error.
func loadCatalogFile() (*File, error) {
	configDir, err := config.GetConfigDir()
	if err != nil {
		return nil, err
	}
	return LoadFile(filepath.Join(configDir, CatalogFileName))
}
