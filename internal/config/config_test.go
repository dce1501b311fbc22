package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAndValidate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.yaml")
	content := `database: out/graph.db
paths:
  - src
workers: 4
batch_size: 256
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Database != "out/graph.db" || len(cfg.Paths) != 1 || cfg.Workers != 4 || cfg.BatchSize != 256 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidateRejectsIncompleteConfig(t *testing.T) {
	if err := (&Config{}).Validate(); err == nil {
		t.Error("empty config passed validation")
	}
	if err := (&Config{Database: "g.db"}).Validate(); err == nil {
		t.Error("config without inputs passed validation")
	}
	if err := (&Config{Database: "g.db", Paths: []string{"."}, Workers: -1}).Validate(); err == nil {
		t.Error("negative workers passed validation")
	}
}

func TestSourcesDiscoversCppFiles(t *testing.T) {
	dir := t.TempDir()
	mustWrite := func(rel, content string) {
		t.Helper()
		full := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	mustWrite("src/main.cpp", "int main() {}")
	mustWrite("src/util.h", "void f();")
	mustWrite("src/notes.txt", "not code")
	mustWrite("build/gen.cpp", "int g() {}") // ignored directory

	cfg := &Config{Database: "g.db", Paths: []string{dir}}
	files, err := cfg.Sources(context.Background())
	if err != nil {
		t.Fatalf("sources: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("discovered %d files, want 2: %+v", len(files), files)
	}
	// Sorted by relative path.
	if files[0].RelPath != "src/main.cpp" || files[1].RelPath != "src/util.h" {
		t.Fatalf("order = %q, %q", files[0].RelPath, files[1].RelPath)
	}
}

func TestSourcesExplicitFilesComeFirst(t *testing.T) {
	dir := t.TempDir()
	explicit := filepath.Join(dir, "one.cpp")
	if err := os.WriteFile(explicit, []byte("int one() {}"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{Database: "g.db", Files: []string{explicit}}
	files, err := cfg.Sources(context.Background())
	if err != nil {
		t.Fatalf("sources: %v", err)
	}
	if len(files) != 1 || files[0].Path != explicit {
		t.Fatalf("files = %+v", files)
	}
}

func TestSourcesHonorsExtraIgnore(t *testing.T) {
	dir := t.TempDir()
	for _, rel := range []string{"keep/a.cpp", "generated/b.cpp"} {
		full := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte("int x;"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	cfg := &Config{Database: "g.db", Paths: []string{dir}, Ignore: []string{"generated"}}
	files, err := cfg.Sources(context.Background())
	if err != nil {
		t.Fatalf("sources: %v", err)
	}
	if len(files) != 1 || files[0].RelPath != "keep/a.cpp" {
		t.Fatalf("files = %+v", files)
	}
}
