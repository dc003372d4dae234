package bridge

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureBase_Idempotent(t *testing.T) {
	sc := newTestSFTP(t)
	home := t.TempDir()

	first, err := EnsureBase(sc, home)
	if err != nil {
		t.Fatalf("EnsureBase failed: %v", err)
	}
	second, err := EnsureBase(sc, home)
	if err != nil {
		t.Fatalf("second EnsureBase failed: %v", err)
	}
	if first != second {
		t.Errorf("EnsureBase not stable: %q vs %q", first, second)
	}
	if first != filepath.Join(home, BaseDirName) {
		t.Errorf("base = %q, want %q", first, filepath.Join(home, BaseDirName))
	}

	info, err := os.Stat(first)
	if err != nil {
		t.Fatal(err)
	}
	if !info.IsDir() {
		t.Error("base is not a directory")
	}
}

func TestEnsureUserDir_Idempotent(t *testing.T) {
	sc := newTestSFTP(t)
	home := t.TempDir()

	base, err := EnsureBase(sc, home)
	if err != nil {
		t.Fatal(err)
	}

	first, err := EnsureUserDir(sc, base, "alice")
	if err != nil {
		t.Fatalf("EnsureUserDir failed: %v", err)
	}
	second, err := EnsureUserDir(sc, base, "alice")
	if err != nil {
		t.Fatalf("second EnsureUserDir failed: %v", err)
	}
	if first != second {
		t.Errorf("EnsureUserDir not stable: %q vs %q", first, second)
	}

	info, err := os.Stat(first)
	if err != nil {
		t.Fatal(err)
	}
	if !info.IsDir() {
		t.Error("user dir is not a directory")
	}
	if got := info.Mode().Perm(); got != 0o755 {
		t.Errorf("user dir mode = %o, want 0755", got)
	}
}

func TestEnsureUserDir_RejectsTraversalUser(t *testing.T) {
	sc := newTestSFTP(t)
	if _, err := EnsureUserDir(sc, t.TempDir(), "../outside"); !errors.Is(err, ErrPath) {
		t.Errorf("expected ErrPath, got %v", err)
	}
}
