package bridge

import (
	"fmt"
	"io"
	"path"

	"github.com/pkg/sftp"
)

// CreateFolder creates dir/name with mode 0755. Unlike workspace
// provisioning this is not idempotent: an existing entry is an error.
func CreateFolder(sc *sftp.Client, dir, name string) error {
	if err := CheckName(name); err != nil {
		return err
	}
	p := path.Join(dir, name)
	if _, err := sc.Stat(p); err == nil {
		return fmt.Errorf("%w: %s already exists", ErrRemote, p)
	}
	if err := sc.Mkdir(p); err != nil {
		return fmt.Errorf("%w: create folder %s: %w", ErrRemote, p, err)
	}
	if err := sc.Chmod(p, dirMode); err != nil {
		return fmt.Errorf("%w: chmod %s: %w", ErrRemote, p, err)
	}
	return nil
}

// Rename renames dir/oldName to dir/newName with the remote filesystem's own
// conflict semantics.
func Rename(sc *sftp.Client, dir, oldName, newName string) error {
	if err := CheckName(oldName); err != nil {
		return err
	}
	if err := CheckName(newName); err != nil {
		return err
	}
	oldPath := path.Join(dir, oldName)
	newPath := path.Join(dir, newName)
	if err := sc.Rename(oldPath, newPath); err != nil {
		return fmt.Errorf("%w: rename %s to %s: %w", ErrRemote, oldPath, newPath, err)
	}
	return nil
}

// DeleteMany removes each named entry under dir; directories are deleted
// recursively, depth-first. The first failure aborts the remaining items,
// potentially leaving a partially deleted tree.
func DeleteMany(sc *sftp.Client, dir string, names []string) error {
	for _, name := range names {
		if err := CheckName(name); err != nil {
			return err
		}
		p := path.Join(dir, name)
		info, err := sc.Stat(p)
		if err != nil {
			return fmt.Errorf("%w: stat %s: %w", ErrRemote, p, err)
		}
		if info.IsDir() {
			if err := deleteTree(sc, p); err != nil {
				return err
			}
			continue
		}
		if err := sc.Remove(p); err != nil {
			return fmt.Errorf("%w: remove %s: %w", ErrRemote, p, err)
		}
	}
	return nil
}

// deleteTree unlinks every child file, recurses into every child directory,
// then removes the now-empty directory itself.
func deleteTree(sc *sftp.Client, dir string) error {
	entries, err := sc.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("%w: read directory %s: %w", ErrRemote, dir, err)
	}
	for _, e := range entries {
		child := path.Join(dir, e.Name())
		if e.IsDir() {
			if err := deleteTree(sc, child); err != nil {
				return err
			}
			continue
		}
		if err := sc.Remove(child); err != nil {
			return fmt.Errorf("%w: remove %s: %w", ErrRemote, child, err)
		}
	}
	if err := sc.RemoveDirectory(dir); err != nil {
		return fmt.Errorf("%w: remove directory %s: %w", ErrRemote, dir, err)
	}
	return nil
}

// ReadFile reads dir/name fully into memory as text. Reserved for editable
// text files; large files go through the chunked transfer path.
func ReadFile(sc *sftp.Client, dir, name string) (string, error) {
	if err := CheckName(name); err != nil {
		return "", err
	}
	p := path.Join(dir, name)
	f, err := sc.Open(p)
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %w", ErrRemote, p, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %w", ErrRemote, p, err)
	}
	return string(data), nil
}

// SaveFile creates or truncates dir/name and writes the full content in one
// call.
func SaveFile(sc *sftp.Client, dir, name, content string) error {
	if err := CheckName(name); err != nil {
		return err
	}
	p := path.Join(dir, name)
	f, err := sc.Create(p)
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrRemote, p, err)
	}
	if _, err := f.Write([]byte(content)); err != nil {
		f.Close()
		return fmt.Errorf("%w: write %s: %w", ErrRemote, p, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrRemote, p, err)
	}
	return nil
}
