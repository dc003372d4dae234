package bridge

import (
	"io"
	"testing"

	"github.com/pkg/sftp"
)

// pipeRWC glues two in-memory pipes into the ReadWriteCloser the SFTP server
// wants.
type pipeRWC struct {
	io.Reader
	io.WriteCloser
}

func (p pipeRWC) Close() error {
	return p.WriteCloser.Close()
}

// newTestSFTP starts an in-process SFTP server over a pipe and returns a
// client connected to it. The server serves the local filesystem, so tests
// address absolute paths under t.TempDir().
func newTestSFTP(t *testing.T) *sftp.Client {
	t.Helper()

	clientRd, serverWr := io.Pipe()
	serverRd, clientWr := io.Pipe()

	srv, err := sftp.NewServer(pipeRWC{Reader: serverRd, WriteCloser: serverWr})
	if err != nil {
		t.Fatalf("failed to start sftp server: %v", err)
	}
	go srv.Serve()

	cl, err := sftp.NewClientPipe(clientRd, clientWr)
	if err != nil {
		t.Fatalf("failed to connect sftp client: %v", err)
	}
	// Cleanups run LIFO: close the server first so the client's recv
	// goroutine sees EOF and cl.Close can return.
	t.Cleanup(func() { cl.Close() })
	t.Cleanup(func() { srv.Close() })

	return cl
}
