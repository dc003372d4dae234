package bridge

import (
	"fmt"
	"os"
	"path"

	"github.com/pkg/sftp"

	"github.com/pibridge/pibridge/internal/sshconn"
)

// BaseDirName is the shared directory under the remote home that holds every
// user's workspace.
const BaseDirName = "pi-bridge"

const dirMode = os.FileMode(0o755)

// ResolveHome asks the remote host for its home directory. The remote command
// failing or printing nothing is a remote error.
func ResolveHome(sess *sshconn.Session) (string, error) {
	home, err := sess.RunCommand("echo $HOME")
	if err != nil {
		return "", fmt.Errorf("%w: resolve remote home: %w", ErrRemote, err)
	}
	if home == "" {
		return "", fmt.Errorf("%w: remote home directory is empty", ErrRemote)
	}
	return home, nil
}

// EnsureBase guarantees <home>/pi-bridge exists and returns it. Repeated
// calls never fail on a pre-existing directory.
func EnsureBase(sc *sftp.Client, home string) (string, error) {
	base := path.Join(home, BaseDirName)
	if err := ensureDir(sc, base); err != nil {
		return "", err
	}
	return base, nil
}

// EnsureUserDir guarantees <base>/<user> exists and returns it.
func EnsureUserDir(sc *sftp.Client, base, user string) (string, error) {
	if err := CheckName(user); err != nil {
		return "", err
	}
	dir := path.Join(base, user)
	if err := ensureDir(sc, dir); err != nil {
		return "", err
	}
	return dir, nil
}

func ensureDir(sc *sftp.Client, dir string) error {
	if _, err := sc.Stat(dir); err == nil {
		return nil
	}
	if err := sc.Mkdir(dir); err != nil {
		return fmt.Errorf("%w: create directory %s: %w", ErrRemote, dir, err)
	}
	if err := sc.Chmod(dir, dirMode); err != nil {
		return fmt.Errorf("%w: chmod %s: %w", ErrRemote, dir, err)
	}
	return nil
}
