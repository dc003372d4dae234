package bridge

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pibridge/pibridge/internal/metrics"
	"github.com/pibridge/pibridge/internal/progress"
	"github.com/pibridge/pibridge/internal/sshconn"
	"github.com/pibridge/pibridge/pkg/types"
)

// Credentials are the three opaque connection values. How they are sourced is
// the config layer's concern.
type Credentials struct {
	Host     string
	User     string
	Password string
}

func (c Credentials) check() error {
	switch {
	case c.Host == "":
		return fmt.Errorf("%w: remote host is not configured", ErrConfig)
	case c.User == "":
		return fmt.Errorf("%w: remote user is not configured", ErrConfig)
	case c.Password == "":
		return fmt.Errorf("%w: remote password is not configured", ErrConfig)
	}
	return nil
}

// Recorder persists the outcome of a completed operation. Implemented by the
// history store; nil disables recording.
type Recorder interface {
	Record(op, user, remotePath string, bytes uint64, d time.Duration, opErr error)
}

// Service is the command surface over the bridge core. Every method opens its
// own session, resolves the caller's workspace, executes, and discards the
// session — no pooling, no shared state between commands.
type Service struct {
	creds       Credentials
	downloadDir string
	reporter    progress.Reporter
	recorder    Recorder
}

// NewService wires the command surface. reporter and recorder may be nil.
func NewService(creds Credentials, downloadDir string, reporter progress.Reporter, recorder Recorder) *Service {
	if reporter == nil {
		reporter = progress.Nop
	}
	return &Service{creds: creds, downloadDir: downloadDir, reporter: reporter, recorder: recorder}
}

// withWorkspace opens a fresh session, provisions home/base/user, resolves
// the requested path beneath the workspace, and runs fn with both.
func (s *Service) withWorkspace(user string, segments []string, fn func(sess *sshconn.Session, dir string) error) error {
	if err := s.creds.check(); err != nil {
		return err
	}

	sess, err := sshconn.Open(s.creds.Host, s.creds.User, s.creds.Password)
	if err != nil {
		metrics.ConnectsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}
	metrics.ConnectsTotal.WithLabelValues("ok").Inc()
	defer sess.Close()

	home, err := ResolveHome(sess)
	if err != nil {
		return err
	}
	base, err := EnsureBase(sess.SFTP(), home)
	if err != nil {
		return err
	}
	userDir, err := EnsureUserDir(sess.SFTP(), base, user)
	if err != nil {
		return err
	}
	dir, err := JoinSegments(userDir, segments)
	if err != nil {
		return err
	}
	return fn(sess, dir)
}

// Connect provisions the user's workspace and lists the requested path
// beneath it.
func (s *Service) Connect(user string, segments []string) ([]types.FileDescriptor, error) {
	var files []types.FileDescriptor
	err := s.instrument("connect", user, segments, func(sess *sshconn.Session, dir string) (uint64, error) {
		var err error
		files, err = List(sess.SFTP(), dir)
		return 0, err
	})
	return files, err
}

// DownloadFiles fetches the named items into the downloads directory. A
// single plain file is downloaded directly; anything else is bundled into one
// ZIP archive. Returns the local paths written.
func (s *Service) DownloadFiles(user string, segments, names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no files requested", ErrPath)
	}
	for _, name := range names {
		if err := CheckName(name); err != nil {
			return nil, err
		}
	}

	var localPaths []string
	err := s.instrument("download", user, segments, func(sess *sshconn.Session, dir string) (uint64, error) {
		sc := sess.SFTP()

		// Common case: one plain file, no archive overhead.
		if len(names) == 1 {
			info, err := sc.Stat(dir + "/" + names[0])
			if err != nil {
				return 0, fmt.Errorf("%w: stat %s/%s: %w", ErrRemote, dir, names[0], err)
			}
			if !info.IsDir() {
				engine := NewEngine(sc, s.reporter, s.downloadDir)
				local, err := engine.DownloadFile(dir + "/" + names[0])
				if err != nil {
					return 0, err
				}
				localPaths = []string{local}
				metrics.TransferBytesTotal.WithLabelValues("download").Add(float64(info.Size()))
				return uint64(info.Size()), nil
			}
		}

		archiver := NewArchiver(sc, s.reporter, s.downloadDir)
		local, err := archiver.BuildZip(dir, names)
		if err != nil {
			return 0, err
		}
		localPaths = []string{local}

		var bytes uint64
		if st, err := os.Stat(local); err == nil {
			bytes = uint64(st.Size())
		}
		metrics.TransferBytesTotal.WithLabelValues("download").Add(float64(bytes))
		return bytes, nil
	})
	return localPaths, err
}

// UploadFiles copies the given local files into the workspace path, one
// chunked transfer per file. The first failure aborts the remaining files.
func (s *Service) UploadFiles(user string, segments, localPaths []string) error {
	if len(localPaths) == 0 {
		return fmt.Errorf("%w: no files to upload", ErrPath)
	}
	names := make([]string, len(localPaths))
	for i, lp := range localPaths {
		name := filepath.Base(lp)
		if err := CheckName(name); err != nil {
			return fmt.Errorf("%w: local path %q has no usable file name", ErrPath, lp)
		}
		names[i] = name
	}

	return s.instrument("upload", user, segments, func(sess *sshconn.Session, dir string) (uint64, error) {
		engine := NewEngine(sess.SFTP(), s.reporter, s.downloadDir)
		var bytes uint64
		for i, lp := range localPaths {
			if st, err := os.Stat(lp); err == nil {
				bytes += uint64(st.Size())
			}
			if err := engine.UploadFile(dir+"/"+names[i], lp); err != nil {
				return 0, err
			}
		}
		metrics.TransferBytesTotal.WithLabelValues("upload").Add(float64(bytes))
		return bytes, nil
	})
}

// CreateFolder creates a folder in the workspace path.
func (s *Service) CreateFolder(user string, segments []string, name string) error {
	return s.instrument("create_folder", user, segments, func(sess *sshconn.Session, dir string) (uint64, error) {
		return 0, CreateFolder(sess.SFTP(), dir, name)
	})
}

// RenameFile renames an entry in the workspace path.
func (s *Service) RenameFile(user string, segments []string, oldName, newName string) error {
	return s.instrument("rename", user, segments, func(sess *sshconn.Session, dir string) (uint64, error) {
		return 0, Rename(sess.SFTP(), dir, oldName, newName)
	})
}

// DeleteFiles removes the named entries from the workspace path, directories
// recursively.
func (s *Service) DeleteFiles(user string, segments, names []string) error {
	return s.instrument("delete", user, segments, func(sess *sshconn.Session, dir string) (uint64, error) {
		return 0, DeleteMany(sess.SFTP(), dir, names)
	})
}

// ReadFile returns the full content of a file in the workspace path.
func (s *Service) ReadFile(user string, segments []string, name string) (string, error) {
	var content string
	err := s.instrument("read_file", user, segments, func(sess *sshconn.Session, dir string) (uint64, error) {
		var err error
		content, err = ReadFile(sess.SFTP(), dir, name)
		return uint64(len(content)), err
	})
	return content, err
}

// SaveFile writes the full content of a file in the workspace path.
func (s *Service) SaveFile(user string, segments []string, name, content string) error {
	return s.instrument("save_file", user, segments, func(sess *sshconn.Session, dir string) (uint64, error) {
		return uint64(len(content)), SaveFile(sess.SFTP(), dir, name, content)
	})
}

// instrument wraps withWorkspace with metrics and history recording. The
// inner fn reports how many payload bytes the operation moved.
func (s *Service) instrument(op, user string, segments []string, fn func(sess *sshconn.Session, dir string) (uint64, error)) error {
	start := time.Now()
	var bytes uint64
	var lastDir string

	err := s.withWorkspace(user, segments, func(sess *sshconn.Session, dir string) error {
		lastDir = dir
		var err error
		bytes, err = fn(sess, dir)
		return err
	})

	elapsed := time.Since(start)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.OperationsTotal.WithLabelValues(op, status).Inc()
	metrics.OperationDuration.WithLabelValues(op).Observe(elapsed.Seconds())
	if s.recorder != nil {
		s.recorder.Record(op, user, lastDir, bytes, elapsed, err)
	}
	return err
}
