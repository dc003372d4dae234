package bridge

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/pkg/sftp"

	"github.com/pibridge/pibridge/internal/progress"
	"github.com/pibridge/pibridge/pkg/types"
)

// ChunkSize bounds peak transfer memory to one buffer regardless of file
// size.
const ChunkSize = 1 << 20 // 1 MiB

// Engine streams bytes between the local downloads directory and the remote
// filesystem in fixed-size chunks, reporting cumulative progress.
type Engine struct {
	sftp        *sftp.Client
	reporter    progress.Reporter
	downloadDir string
}

// NewEngine binds a transfer engine to one session's SFTP client.
func NewEngine(sc *sftp.Client, reporter progress.Reporter, downloadDir string) *Engine {
	if reporter == nil {
		reporter = progress.Nop
	}
	return &Engine{sftp: sc, reporter: reporter, downloadDir: downloadDir}
}

// DownloadFile copies a remote file into the downloads directory under the
// same base name and returns the local path. Emits total-size once, then a
// cumulative download-progress after every chunk. A failed transfer leaves
// any partially written local file in place.
func (e *Engine) DownloadFile(remotePath string) (string, error) {
	info, err := e.sftp.Stat(remotePath)
	if err != nil {
		return "", fmt.Errorf("%w: stat %s: %w", ErrRemote, remotePath, err)
	}
	e.reporter.Emit(types.TopicTotalSize, uint64(info.Size()))

	src, err := e.sftp.Open(remotePath)
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %w", ErrRemote, remotePath, err)
	}
	defer src.Close()

	localPath := filepath.Join(e.downloadDir, path.Base(remotePath))
	dst, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("%w: create %s: %w", ErrLocalIO, localPath, err)
	}

	_, readErr, writeErr := copyChunks(dst, src, e.reporter, types.TopicDownloadProgress)
	if readErr != nil {
		dst.Close()
		return "", fmt.Errorf("%w: read %s: %w", ErrRemote, remotePath, readErr)
	}
	if writeErr != nil {
		dst.Close()
		return "", fmt.Errorf("%w: write %s: %w", ErrLocalIO, localPath, writeErr)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("%w: close %s: %w", ErrLocalIO, localPath, err)
	}
	return localPath, nil
}

// UploadFile copies a local file to remotePath, chunked the same way as
// DownloadFile, emitting total-size once and cumulative upload-progress per
// chunk.
func (e *Engine) UploadFile(remotePath, localPath string) error {
	info, err := os.Stat(localPath)
	if err != nil {
		return fmt.Errorf("%w: stat %s: %w", ErrLocalIO, localPath, err)
	}
	e.reporter.Emit(types.TopicTotalSize, uint64(info.Size()))

	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", ErrLocalIO, localPath, err)
	}
	defer src.Close()

	dst, err := e.sftp.Create(remotePath)
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrRemote, remotePath, err)
	}

	_, readErr, writeErr := copyChunks(dst, src, e.reporter, types.TopicUploadProgress)
	if readErr != nil {
		dst.Close()
		return fmt.Errorf("%w: read %s: %w", ErrLocalIO, localPath, readErr)
	}
	if writeErr != nil {
		dst.Close()
		return fmt.Errorf("%w: write %s: %w", ErrRemote, remotePath, writeErr)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrRemote, remotePath, err)
	}
	return nil
}

// copyChunks streams src into dst one ChunkSize buffer at a time, emitting
// the cumulative byte count on topic after every chunk. Read and write
// failures come back separately so callers can attribute them to the right
// side of the transfer.
func copyChunks(dst io.Writer, src io.Reader, rep progress.Reporter, topic string) (written uint64, readErr, writeErr error) {
	buf := make([]byte, ChunkSize)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return written, nil, werr
			}
			written += uint64(n)
			rep.Emit(topic, written)
		}
		if err == io.EOF {
			return written, nil, nil
		}
		if err != nil {
			return written, err, nil
		}
	}
}
