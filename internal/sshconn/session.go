// Package sshconn opens authenticated SSH sessions against the remote host
// and exposes the SFTP subsystem plus command execution over them.
//
// A Session is owned by exactly one command invocation: it is opened at the
// start of the command, passed down the call chain as an explicit value, and
// closed when the command returns. Sessions are never pooled or shared.
package sshconn

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

const (
	sshPort     = "22"
	dialTimeout = 10 * time.Second
)

// Session is an authenticated connection to the remote host, valid for the
// duration of a single command.
type Session struct {
	client *ssh.Client
	sftp   *sftp.Client
}

// Open dials host:22, authenticates with the given password, and opens the
// SFTP subsystem. Each step failing yields a diagnostic naming that step.
// One attempt, no retry.
func Open(host, user, password string) (*Session, error) {
	addr := net.JoinHostPort(host, sshPort)

	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", addr, err)
	}

	cfg := &ssh.ClientConfig{
		User: user,
		Auth: []ssh.AuthMethod{ssh.Password(password)},
		// Hosts are operator-provisioned; key pinning is out of scope.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         dialTimeout,
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, cfg)
	if err != nil {
		conn.Close()
		if strings.Contains(err.Error(), "unable to authenticate") {
			return nil, fmt.Errorf("authenticate as %q on %s: %w", user, addr, err)
		}
		return nil, fmt.Errorf("ssh handshake with %s: %w", addr, err)
	}

	client := ssh.NewClient(sshConn, chans, reqs)

	sftpClient, err := sftp.NewClient(client)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("open sftp subsystem on %s: %w", addr, err)
	}

	return &Session{client: client, sftp: sftpClient}, nil
}

// SFTP returns the SFTP client bound to this session.
func (s *Session) SFTP() *sftp.Client {
	return s.sftp
}

// RunCommand executes a command on the remote host and returns its trimmed
// stdout. A non-zero exit status is an error.
func (s *Session) RunCommand(cmd string) (string, error) {
	sess, err := s.client.NewSession()
	if err != nil {
		return "", fmt.Errorf("open exec channel: %w", err)
	}
	defer sess.Close()

	out, err := sess.Output(cmd)
	if err != nil {
		return "", fmt.Errorf("run %q: %w", cmd, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Close releases the SFTP subsystem and the underlying TCP connection.
func (s *Session) Close() error {
	if s.sftp != nil {
		s.sftp.Close()
	}
	return s.client.Close()
}
