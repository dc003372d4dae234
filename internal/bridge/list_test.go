package bridge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pibridge/pibridge/pkg/types"
)

func TestClassify(t *testing.T) {
	cases := map[string]string{
		"notes.txt":   "txt",
		"ARCHIVE.ZIP": "zip",
		"photo.JPG":   "jpg",
		"Makefile":    types.KindUnknown,
		".bashrc":     types.KindUnknown,
		"a.tar.gz":    "gz",
	}
	for name, want := range cases {
		if got := classify(name); got != want {
			t.Errorf("classify(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestList(t *testing.T) {
	sc := newTestSFTP(t)
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "docs"), 0755); err != nil {
		t.Fatal(err)
	}

	files, err := List(sc, dir)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(files))
	}

	byName := map[string]types.FileDescriptor{}
	for _, f := range files {
		byName[f.Name] = f
	}

	notes, ok := byName["notes.txt"]
	if !ok {
		t.Fatal("notes.txt missing from listing")
	}
	if notes.Kind != "txt" {
		t.Errorf("notes.txt kind = %q, want txt", notes.Kind)
	}
	if notes.Size != 5 {
		t.Errorf("notes.txt size = %d, want 5", notes.Size)
	}
	if notes.LastModified == "" || notes.LastModified == "0" {
		t.Errorf("notes.txt lastModified = %q, want a real timestamp", notes.LastModified)
	}

	docs, ok := byName["docs"]
	if !ok {
		t.Fatal("docs missing from listing")
	}
	if !docs.IsDir() {
		t.Errorf("docs kind = %q, want %q", docs.Kind, types.KindDirectory)
	}
}

func TestList_MissingDirectory(t *testing.T) {
	sc := newTestSFTP(t)
	if _, err := List(sc, filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("expected error for missing directory")
	}
}
