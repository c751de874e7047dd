package embedded

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func resetEmbedded() {
	dataFS = nil
	initialized = false
}

func TestReadFileNotInitialized(t *testing.T) {
	resetEmbedded()

	if IsInitialized() {
		t.Fatal("IsInitialized() should be false before Init")
	}
	if _, err := ReadFile("data/configurator.yaml"); err == nil {
		t.Error("ReadFile should fail before Init")
	}
	if Exists("data/configurator.yaml") {
		t.Error("Exists should be false before Init")
	}
	if _, err := Glob("data/*.yaml"); err == nil {
		t.Error("Glob should fail before Init")
	}
}

func TestReadFileEmbedded(t *testing.T) {
	resetEmbedded()
	Init(fstest.MapFS{
		"data/configurator.yaml":     {Data: []byte("window: {}")},
		"data/assemblies/plus.yaml":  {Data: []byte("boxes: []")},
		"data/assemblies/tier2.yaml": {Data: []byte("boxes: []")},
	})
	defer resetEmbedded()

	// 路径标准化："./" 前缀与反斜杠
	for _, path := range []string{"data/configurator.yaml", "./data/configurator.yaml"} {
		data, err := ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile(%q) error: %v", path, err)
		}
		if string(data) != "window: {}" {
			t.Errorf("ReadFile(%q) = %q", path, data)
		}
	}

	if !Exists("data/assemblies/plus.yaml") {
		t.Error("Exists should find embedded file")
	}
	if Exists("data/assemblies/missing.yaml") {
		t.Error("Exists should not find missing file")
	}

	matches, err := Glob("data/assemblies/*.yaml")
	if err != nil {
		t.Fatalf("Glob error: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("Glob matched %v, want 2 files", matches)
	}

	if _, err := Glob("assets/*.png"); err == nil {
		t.Error("Glob should reject non-data prefixes")
	}
}

func TestReadFileLocalFallback(t *testing.T) {
	resetEmbedded()

	// 非 "data/" 路径直接读取本地文件，不要求 Init
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("tiers: {}"), 0644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	data, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%q) error: %v", path, err)
	}
	if string(data) != "tiers: {}" {
		t.Errorf("ReadFile = %q", data)
	}
	if !Exists(path) {
		t.Error("Exists should find local file")
	}
	if IsEmbeddedPath(path) {
		t.Error("absolute temp path must not be treated as embedded")
	}
}
