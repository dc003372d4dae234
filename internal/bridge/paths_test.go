package bridge

import (
	"errors"
	"testing"
)

func TestCheckName_RejectsTraversal(t *testing.T) {
	bad := []string{"", ".", "..", "a/b", `a\b`, "../etc", "/etc"}
	for _, name := range bad {
		if err := CheckName(name); !errors.Is(err, ErrPath) {
			t.Errorf("CheckName(%q) = %v, want ErrPath", name, err)
		}
	}
}

func TestCheckName_AcceptsPlainNames(t *testing.T) {
	good := []string{"notes.txt", "docs", ".bashrc", "a..b", "with space"}
	for _, name := range good {
		if err := CheckName(name); err != nil {
			t.Errorf("CheckName(%q) = %v, want nil", name, err)
		}
	}
}

func TestJoinSegments(t *testing.T) {
	got, err := JoinSegments("/home/pi/pi-bridge/alice", []string{"docs", "reports"})
	if err != nil {
		t.Fatal(err)
	}
	want := "/home/pi/pi-bridge/alice/docs/reports"
	if got != want {
		t.Errorf("JoinSegments = %q, want %q", got, want)
	}
}

func TestJoinSegments_RejectsDotDot(t *testing.T) {
	if _, err := JoinSegments("/root", []string{"docs", ".."}); !errors.Is(err, ErrPath) {
		t.Errorf("expected ErrPath, got %v", err)
	}
}
