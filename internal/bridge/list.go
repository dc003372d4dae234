package bridge

import (
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/pkg/sftp"

	"github.com/pibridge/pibridge/pkg/types"
)

// List enumerates the direct children of a remote directory. Entries come
// back in whatever order the remote enumeration yields them; descriptors are
// produced fresh on every call, never cached.
func List(sc *sftp.Client, dir string) ([]types.FileDescriptor, error) {
	entries, err := sc.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: read directory %s: %w", ErrRemote, dir, err)
	}

	descs := make([]types.FileDescriptor, 0, len(entries))
	for _, e := range entries {
		descs = append(descs, describe(e))
	}
	return descs, nil
}

func describe(info os.FileInfo) types.FileDescriptor {
	kind := types.KindDirectory
	if !info.IsDir() {
		kind = classify(info.Name())
	}

	var size uint64
	if info.Size() > 0 {
		size = uint64(info.Size())
	}

	// Missing remote attributes degrade to zero, never to an error.
	mtime := info.ModTime().Unix()
	if mtime < 0 {
		mtime = 0
	}

	return types.FileDescriptor{
		Name:         info.Name(),
		Kind:         kind,
		Size:         size,
		LastModified: strconv.FormatInt(mtime, 10),
	}
}

// classify maps a file name to its lowercase extension, or KindUnknown when
// it has none. A leading dot alone (dotfiles) does not count as an extension.
func classify(name string) string {
	base := strings.TrimPrefix(name, ".")
	ext := strings.TrimPrefix(path.Ext(base), ".")
	if ext == "" {
		return types.KindUnknown
	}
	return strings.ToLower(ext)
}
