package catalog

import (
	"os"
	"path/filepath"
	"strings"

	"medviz/anatomy"
	"medviz/log"
)

// Scan lists candidate scripts in the given directories. Entries within a
// directory come back in lexical order, so discovery order is stable
// across runs. A missing directory is skipped with a warning; the scan
// only fails on real read errors.
func Scan(dirs []string, exts []string) ([]anatomy.Script, error) {
	var scripts []anatomy.Script

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				log.WarningLog.Printf("script directory does not exist: %s", dir)
				continue
			}
			return nil, err
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()
			if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
				continue
			}
			if !matchesExt(name, exts) {
				continue
			}

			kind, known := anatomy.InferKind(name)
			scripts = append(scripts, anatomy.Script{
				Name:      name,
				Path:      filepath.Join(dir, name),
				Kind:      kind,
				KindKnown: known,
			})
		}
	}

	return scripts, nil
}

func matchesExt(name string, exts []string) bool {
	ext := filepath.Ext(name)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}
