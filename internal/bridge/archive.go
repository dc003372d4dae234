package bridge

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zip"
	"github.com/pkg/sftp"

	"github.com/pibridge/pibridge/internal/progress"
	"github.com/pibridge/pibridge/pkg/types"
)

// Archiver packages a set of remote files and directories into a single ZIP
// in the downloads directory. Directories are expanded depth-first; entry
// names mirror the remote structure (<dirname>/<relative-path>).
type Archiver struct {
	sftp        *sftp.Client
	reporter    progress.Reporter
	downloadDir string
}

// NewArchiver binds an archiver to one session's SFTP client.
func NewArchiver(sc *sftp.Client, reporter progress.Reporter, downloadDir string) *Archiver {
	if reporter == nil {
		reporter = progress.Nop
	}
	return &Archiver{sftp: sc, reporter: reporter, downloadDir: downloadDir}
}

// BuildZip archives the named items under baseDir and returns the local path
// of the finished archive. The combined size of every item, directories fully
// expanded, is emitted once as total-size before any byte moves; zip-progress
// then carries the cumulative count across all entries. The archive is staged
// under a temporary name and renamed into place only on success; the staging
// file is removed on every exit path.
func (a *Archiver) BuildZip(baseDir string, names []string) (string, error) {
	remotePaths := make([]string, len(names))
	for i, name := range names {
		remotePaths[i] = path.Join(baseDir, name)
	}

	total, err := a.totalSize(remotePaths)
	if err != nil {
		return "", err
	}
	a.reporter.Emit(types.TopicTotalSize, total)

	// Staged in the downloads directory itself so the final rename never
	// crosses filesystems.
	stagePath := filepath.Join(a.downloadDir, ".pibridge-staging-"+uuid.NewString()+".zip")
	stage, err := os.Create(stagePath)
	if err != nil {
		return "", fmt.Errorf("%w: create staging file %s: %w", ErrLocalIO, stagePath, err)
	}
	defer os.Remove(stagePath)

	zw := zip.NewWriter(stage)
	var done uint64

	for i, name := range names {
		info, err := a.sftp.Stat(remotePaths[i])
		if err != nil {
			stage.Close()
			return "", fmt.Errorf("%w: stat %s: %w", ErrRemote, remotePaths[i], err)
		}
		if info.IsDir() {
			err = a.addDir(zw, remotePaths[i], name, &done)
		} else {
			err = a.addFile(zw, remotePaths[i], name, &done)
		}
		if err != nil {
			stage.Close()
			return "", err
		}
	}

	if err := zw.Close(); err != nil {
		stage.Close()
		return "", fmt.Errorf("%w: finalize archive: %w", ErrArchive, err)
	}
	if err := stage.Close(); err != nil {
		return "", fmt.Errorf("%w: close %s: %w", ErrLocalIO, stagePath, err)
	}

	finalPath := filepath.Join(a.downloadDir, fmt.Sprintf("pibridge-%s-%s.zip",
		time.Now().Format("20060102-150405"), uuid.NewString()[:8]))
	if err := os.Rename(stagePath, finalPath); err != nil {
		return "", fmt.Errorf("%w: move archive to %s: %w", ErrLocalIO, finalPath, err)
	}
	return finalPath, nil
}

// addDir walks a remote directory depth-first, adding every descendant file
// under entryPrefix.
func (a *Archiver) addDir(zw *zip.Writer, remoteDir, entryPrefix string, done *uint64) error {
	entries, err := a.sftp.ReadDir(remoteDir)
	if err != nil {
		return fmt.Errorf("%w: read directory %s: %w", ErrRemote, remoteDir, err)
	}
	for _, e := range entries {
		child := path.Join(remoteDir, e.Name())
		entry := path.Join(entryPrefix, e.Name())
		if e.IsDir() {
			if err := a.addDir(zw, child, entry, done); err != nil {
				return err
			}
			continue
		}
		if err := a.addFile(zw, child, entry, done); err != nil {
			return err
		}
	}
	return nil
}

// addFile streams one remote file into the archive, chunked like a regular
// download, advancing the archive-wide cumulative progress counter.
func (a *Archiver) addFile(zw *zip.Writer, remotePath, entryName string, done *uint64) error {
	w, err := zw.Create(entryName)
	if err != nil {
		return fmt.Errorf("%w: create archive entry %s: %w", ErrArchive, entryName, err)
	}

	src, err := a.sftp.Open(remotePath)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", ErrRemote, remotePath, err)
	}
	defer src.Close()

	base := *done
	rep := progress.Func(func(_ string, v uint64) {
		a.reporter.Emit(types.TopicZipProgress, base+v)
	})

	n, readErr, writeErr := copyChunks(w, src, rep, types.TopicZipProgress)
	*done = base + n
	if readErr != nil {
		return fmt.Errorf("%w: read %s: %w", ErrRemote, remotePath, readErr)
	}
	if writeErr != nil {
		return fmt.Errorf("%w: write archive entry %s: %w", ErrArchive, entryName, writeErr)
	}
	return nil
}

// totalSize stats every requested item, expanding directories recursively,
// so total-size reflects the exact byte count the archive will stream.
func (a *Archiver) totalSize(remotePaths []string) (uint64, error) {
	var total uint64
	for _, p := range remotePaths {
		info, err := a.sftp.Stat(p)
		if err != nil {
			return 0, fmt.Errorf("%w: stat %s: %w", ErrRemote, p, err)
		}
		if !info.IsDir() {
			total += uint64(info.Size())
			continue
		}
		n, err := a.dirSize(p)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func (a *Archiver) dirSize(dir string) (uint64, error) {
	entries, err := a.sftp.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("%w: read directory %s: %w", ErrRemote, dir, err)
	}
	var total uint64
	for _, e := range entries {
		if e.IsDir() {
			n, err := a.dirSize(path.Join(dir, e.Name()))
			if err != nil {
				return 0, err
			}
			total += n
			continue
		}
		total += uint64(e.Size())
	}
	return total, nil
}
