package util

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestResolvePath(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "icon.png")

	tests := []struct {
		name string
		base string
		rel  string
		want string
	}{
		{"relative", "apps", "icon.png", filepath.Join("apps", "icon.png")},
		{"absolute overrides base", "apps", abs, abs},
		{"dot segments", "apps", "../share/icon.png", filepath.Join("share", "icon.png")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolvePath(tt.base, tt.rel); got != tt.want {
				t.Fatalf("ResolvePath(%q, %q) = %q, want %q", tt.base, tt.rel, got, tt.want)
			}
		})
	}
}

func TestResolvePathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got := ResolvePath("ignored", "~/icons/app.png")
	want := filepath.Join(home, "icons", "app.png")
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriteJSONFileCreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.json")
	if err := WriteJSONFile(path, map[string]int{"width": 1280}); err != nil {
		t.Fatal(err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]int
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	if got["width"] != 1280 {
		t.Fatalf("width = %d, want 1280", got["width"])
	}
}

func TestRemoveFileMissing(t *testing.T) {
	if err := RemoveFile(filepath.Join(t.TempDir(), "nope")); err != nil {
		t.Fatalf("RemoveFile on missing file: %v", err)
	}
}
