package locate

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fixflow-agent/packages/config"
)

func testLocatorConfig(t *testing.T, projectPath string) config.LocatorConfig {
	t.Helper()
	cfg := config.DefaultConfig().Locator
	cfg.ProjectPath = projectPath
	cfg.SymbolIndexPath = filepath.Join(t.TempDir(), "index.json")
	return cfg
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestBuildIndex_ExtractsExportedDeclarations(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "user.service.ts"),
		"export class UserService {}\nexport default async function bootstrap() {}\nexport const MAX_USERS = 10;\n")
	writeFile(t, filepath.Join(root, "src", "types.ts"),
		"export interface UserService {}\nexport type UserId = string;\n")
	writeFile(t, filepath.Join(root, "README.md"), "export class NotCode {}\n")

	index, err := BuildIndex(testLocatorConfig(t, root))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(index["UserService"]) != 2 {
		t.Errorf("UserService defined in %d file(s), want 2", len(index["UserService"]))
	}
	for _, sym := range []string{"bootstrap", "MAX_USERS", "UserId"} {
		if len(index[sym]) != 1 {
			t.Errorf("symbol %s indexed in %d file(s), want 1", sym, len(index[sym]))
		}
	}
	if _, ok := index["NotCode"]; ok {
		t.Error("non-source file leaked into the index")
	}
	for sym, paths := range index {
		for _, p := range paths {
			if !filepath.IsAbs(p) {
				t.Errorf("index path for %s not absolute: %s", sym, p)
			}
		}
	}
}

func TestBuildIndex_SkipsVendorDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "node_modules", "lib", "dep.ts"), "export class Hidden {}\n")
	writeFile(t, filepath.Join(root, "dist", "out.ts"), "export const Built = 1;\n")
	writeFile(t, filepath.Join(root, "src", "ok.ts"), "export function visible() {}\n")

	index, err := BuildIndex(testLocatorConfig(t, root))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := index["Hidden"]; ok {
		t.Error("node_modules was not skipped")
	}
	if _, ok := index["Built"]; ok {
		t.Error("dist was not skipped")
	}
	if _, ok := index["visible"]; !ok {
		t.Error("src file missing from index")
	}
}

func TestLoadOrBuildIndex_PersistsAndReloadsUnchanged(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.ts"), "export class Foo {}\n")
	cfg := testLocatorConfig(t, root)

	if _, err := LoadOrBuildIndex(cfg); err != nil {
		t.Fatalf("initial build: %v", err)
	}
	if _, err := os.Stat(cfg.SymbolIndexPath); err != nil {
		t.Fatalf("index was not persisted: %v", err)
	}

	// Replace the cache with a handcrafted map; without a forced rebuild
	// the persisted map must be returned unchanged.
	custom := SymbolIndex{"Handmade": {"/x.ts"}}
	data, _ := json.Marshal(custom)
	if err := os.WriteFile(cfg.SymbolIndexPath, data, 0o644); err != nil {
		t.Fatal(err)
	}

	index, err := LoadOrBuildIndex(cfg)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := index["Handmade"]; !ok {
		t.Error("cached index was rebuilt without being asked")
	}

	cfg.RebuildIndex = true
	index, err = LoadOrBuildIndex(cfg)
	if err != nil {
		t.Fatalf("forced rebuild: %v", err)
	}
	if _, ok := index["Handmade"]; ok {
		t.Error("forced rebuild kept stale cache content")
	}
	if _, ok := index["Foo"]; !ok {
		t.Error("forced rebuild lost a real symbol")
	}
}

func TestLoadOrBuildIndex_CorruptCacheRebuilds(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.ts"), "export class Foo {}\n")
	cfg := testLocatorConfig(t, root)
	writeFile(t, cfg.SymbolIndexPath, "{not json")

	index, err := LoadOrBuildIndex(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := index["Foo"]; !ok {
		t.Error("corrupt cache did not trigger a rebuild")
	}

	data, err := os.ReadFile(cfg.SymbolIndexPath)
	if err != nil {
		t.Fatalf("rebuilt index not persisted: %v", err)
	}
	if !strings.Contains(string(data), "Foo") {
		t.Error("persisted index missing rebuilt symbol")
	}
}
