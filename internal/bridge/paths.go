package bridge

import (
	"fmt"
	"path"
	"strings"
)

// CheckName rejects anything that cannot serve as a single path component
// inside a workspace. Names containing separators or dot components would
// silently escape the per-user sandbox, so they fail before any remote call.
func CheckName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrPath)
	case name == "." || name == "..":
		return fmt.Errorf("%w: invalid name %q", ErrPath, name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: name %q contains a path separator", ErrPath, name)
	}
	return nil
}

// JoinSegments validates each segment and joins it beneath root with "/".
func JoinSegments(root string, segments []string) (string, error) {
	for _, seg := range segments {
		if err := CheckName(seg); err != nil {
			return "", err
		}
	}
	return path.Join(append([]string{root}, segments...)...), nil
}
