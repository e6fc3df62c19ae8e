package locate

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"fixflow-agent/packages/config"
)

// SymbolIndex maps an exported symbol name to the absolute paths of the
// files defining it. It is persisted as JSON and rebuilt wholesale, never
// incrementally.
type SymbolIndex map[string][]string

// exportRE matches top-level exported TypeScript declarations. This is a
// best-effort heuristic, not a language parser: unusual export styles
// (re-exports, destructured exports) are missed and that's accepted.
var exportRE = regexp.MustCompile(`\bexport\s+(?:default\s+)?(?:async\s+)?(?:function|class|interface|const|type|enum)\s+([A-Za-z_$][A-Za-z0-9_$]*)`)

// BuildIndex walks the project tree once and extracts every exported
// declaration name. Unreadable files are skipped silently; skip
// directories are never descended into.
func BuildIndex(cfg config.LocatorConfig) (SymbolIndex, error) {
	skip := make(map[string]bool, len(cfg.SkipDirs))
	for _, d := range cfg.SkipDirs {
		skip[d] = true
	}

	index := SymbolIndex{}
	err := filepath.WalkDir(cfg.ProjectPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if skip[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), cfg.FileExtension) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		for _, m := range exportRE.FindAllStringSubmatch(string(data), -1) {
			symbol := m[1]
			if !contains(index[symbol], abs) {
				index[symbol] = append(index[symbol], abs)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", cfg.ProjectPath, err)
	}
	return index, nil
}

// LoadOrBuildIndex returns the cached symbol index, rebuilding when the
// cache is missing, unreadable, or a rebuild is forced. A rebuilt index
// is persisted back to the cache path; a failed save only degrades
// caching, never the lookup.
func LoadOrBuildIndex(cfg config.LocatorConfig) (SymbolIndex, error) {
	if !cfg.RebuildIndex {
		if index, err := loadIndex(cfg.SymbolIndexPath); err == nil {
			return index, nil
		} else if !os.IsNotExist(err) {
			slog.Warn("Symbol index cache unreadable, rebuilding", "path", cfg.SymbolIndexPath, "error", err)
		}
	}

	slog.Info("Building symbol index", "project", cfg.ProjectPath)
	index, err := BuildIndex(cfg)
	if err != nil {
		return nil, err
	}
	if err := saveIndex(cfg.SymbolIndexPath, index); err != nil {
		slog.Warn("Failed to persist symbol index", "path", cfg.SymbolIndexPath, "error", err)
	} else {
		slog.Info("Symbol index written", "path", cfg.SymbolIndexPath, "symbols", len(index))
	}
	return index, nil
}

func loadIndex(path string) (SymbolIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var index SymbolIndex
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("parse symbol index: %w", err)
	}
	return index, nil
}

// saveIndex writes through a temp file and renames so a concurrent reader
// never observes a partial index. Concurrent rebuilds still race;
// last writer wins, which is acceptable for an idempotent rebuild.
func saveIndex(path string, index SymbolIndex) error {
	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func contains(paths []string, p string) bool {
	for _, x := range paths {
		if x == p {
			return true
		}
	}
	return false
}
