package fingerprint

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOfIsDeterministic(t *testing.T) {
	a := Of([]byte("package main"), 100)
	b := Of([]byte("package main"), 100)
	if a != b {
		t.Errorf("identical inputs produced different fingerprints: %v vs %v", a, b)
	}
}

func TestKeyChangesWithContentAndMTime(t *testing.T) {
	base := Of([]byte("package main"), 100).Key("main.go")

	tests := []struct {
		name    string
		content string
		mtime   int64
	}{
		{"changed content", "package main // edited", 100},
		{"changed mtime", "package main", 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Of([]byte(tt.content), tt.mtime).Key("main.go"); got == base {
				t.Error("key did not change")
			}
		})
	}

	// Different resources never share a key, even with identical content.
	other := Of([]byte("package main"), 100).Key("other.go")
	if other == base {
		t.Error("distinct resources share a key")
	}
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.go")
	if err := os.WriteFile(path, []byte("package x"), 0644); err != nil {
		t.Fatal(err)
	}

	fp, err := File(path)
	if err != nil {
		t.Fatalf("File() error = %v", err)
	}
	if fp.Hash == "" || fp.MTime == 0 {
		t.Errorf("incomplete fingerprint: %+v", fp)
	}
	want := Of([]byte("package x"), fp.MTime)
	if fp != want {
		t.Errorf("File() = %+v, want %+v", fp, want)
	}

	if _, err := File(filepath.Join(dir, "missing.go")); err == nil {
		t.Error("File() on a missing path should fail")
	}
}
