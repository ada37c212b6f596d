package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "bench.toml", `
[engine]
capacity = 256
debug = true

[logging]
level = "debug"
format = "json"

[bench]
nodes = 500
dirty_rate = 0.5
mode = "ecs"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Engine.Capacity != 256 || !cfg.Engine.Debug {
		t.Errorf("engine = %+v", cfg.Engine)
	}
	if cfg.Engine.MaxTreeDepth != Default().Engine.MaxTreeDepth {
		t.Errorf("MaxTreeDepth = %d, want default", cfg.Engine.MaxTreeDepth)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if cfg.Bench.Nodes != 500 || cfg.Bench.DirtyRate != 0.5 || cfg.Bench.Mode != "ecs" {
		t.Errorf("bench = %+v", cfg.Bench)
	}
	if cfg.Bench.Frames != 120 {
		t.Errorf("Frames = %d, want default 120", cfg.Bench.Frames)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "bench.yaml", "bench:\n  nodes: 42\n  reparents: 3\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Bench.Nodes != 42 || cfg.Bench.Reparents != 3 {
		t.Errorf("bench = %+v", cfg.Bench)
	}
	if !cfg.Bench.Verify {
		t.Error("Verify should keep its default")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"nodes":      "[bench]\nnodes = 0\n",
		"dirty_rate": "[bench]\ndirty_rate = 2.0\n",
		"mode":       "[bench]\nmode = \"gpu\"\n",
	}
	for field, content := range cases {
		t.Run(field, func(t *testing.T) {
			_, err := Load(writeFile(t, "bench.toml", content))
			if err == nil || !strings.Contains(err.Error(), field) {
				t.Errorf("err = %v, want mention of %s", err, field)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Load(writeFile(t, "bench.json", "{}")); err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("err = %v, want unsupported extension", err)
	}
	if _, err := Load(writeFile(t, "bench.yaml", "bench: [")); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Errorf("err = %v, want parse error", err)
	}
}
