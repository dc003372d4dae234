package bridge

import (
	"bytes"
	"crypto/rand"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/pibridge/pibridge/internal/progress"
	"github.com/pibridge/pibridge/pkg/types"
)

// countingReader counts Read calls so tests can assert the chunking shape.
type countingReader struct {
	r     io.Reader
	reads int
}

func (c *countingReader) Read(p []byte) (int, error) {
	c.reads++
	return c.r.Read(p)
}

type capturedEvents struct {
	topics []string
	values []uint64
}

func (c *capturedEvents) Emit(topic string, value uint64) {
	c.topics = append(c.topics, topic)
	c.values = append(c.values, value)
}

func TestCopyChunks_ChunkCountAndCumulativeProgress(t *testing.T) {
	size := ChunkSize*2 + ChunkSize/2 // 2.5 MiB
	data := make([]byte, size)
	if _, err := rand.Read(data); err != nil {
		t.Fatal(err)
	}

	src := &countingReader{r: bytes.NewReader(data)}
	var dst bytes.Buffer
	events := &capturedEvents{}

	written, readErr, writeErr := copyChunks(&dst, src, events, types.TopicDownloadProgress)
	if readErr != nil || writeErr != nil {
		t.Fatalf("copyChunks failed: read=%v write=%v", readErr, writeErr)
	}

	if written != uint64(size) {
		t.Errorf("expected %d bytes written, got %d", size, written)
	}
	if !bytes.Equal(dst.Bytes(), data) {
		t.Error("destination differs from source")
	}

	// 3 data reads plus the final read that reports EOF.
	dataReads := src.reads
	if dataReads != 3 && dataReads != 4 {
		t.Errorf("expected 3 chunk reads (plus optional EOF read), got %d", dataReads)
	}

	if len(events.values) != 3 {
		t.Fatalf("expected 3 progress events, got %d", len(events.values))
	}
	if got := events.values[len(events.values)-1]; got != uint64(size) {
		t.Errorf("final cumulative progress = %d, want %d", got, size)
	}
	for i := 1; i < len(events.values); i++ {
		if events.values[i] <= events.values[i-1] {
			t.Errorf("progress not cumulative: %v", events.values)
		}
	}
}

func TestCopyChunks_AttributesWriteFailure(t *testing.T) {
	src := bytes.NewReader(make([]byte, 10))
	_, readErr, writeErr := copyChunks(failWriter{}, src, progress.Nop, types.TopicUploadProgress)
	if readErr != nil {
		t.Errorf("unexpected read error: %v", readErr)
	}
	if writeErr == nil {
		t.Error("expected write error")
	}
}

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestDownloadFile_RoundTripWithProgress(t *testing.T) {
	sc := newTestSFTP(t)
	remoteDir := t.TempDir()
	downloadDir := t.TempDir()

	size := ChunkSize*2 + ChunkSize/2
	data := make([]byte, size)
	if _, err := rand.Read(data); err != nil {
		t.Fatal(err)
	}
	remotePath := filepath.Join(remoteDir, "payload.bin")
	if err := os.WriteFile(remotePath, data, 0644); err != nil {
		t.Fatal(err)
	}

	events := &capturedEvents{}
	engine := NewEngine(sc, events, downloadDir)

	localPath, err := engine.DownloadFile(remotePath)
	if err != nil {
		t.Fatalf("DownloadFile failed: %v", err)
	}

	got, err := os.ReadFile(localPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Error("downloaded file differs from remote source")
	}

	if len(events.topics) == 0 || events.topics[0] != types.TopicTotalSize {
		t.Fatalf("expected leading total-size event, got %v", events.topics)
	}
	if events.values[0] != uint64(size) {
		t.Errorf("total-size = %d, want %d", events.values[0], size)
	}
	if got := events.values[len(events.values)-1]; got != uint64(size) {
		t.Errorf("final cumulative progress = %d, want %d", got, size)
	}
	for _, topic := range events.topics[1:] {
		if topic != types.TopicDownloadProgress {
			t.Errorf("unexpected topic %q", topic)
		}
	}
}

func TestDownloadFile_MissingRemoteIsRemoteError(t *testing.T) {
	sc := newTestSFTP(t)
	engine := NewEngine(sc, nil, t.TempDir())

	_, err := engine.DownloadFile(filepath.Join(t.TempDir(), "absent.txt"))
	if !errors.Is(err, ErrRemote) {
		t.Errorf("expected ErrRemote, got %v", err)
	}
}

func TestUploadFile_RoundTripWithProgress(t *testing.T) {
	sc := newTestSFTP(t)
	remoteDir := t.TempDir()
	localDir := t.TempDir()

	data := make([]byte, ChunkSize+123)
	if _, err := rand.Read(data); err != nil {
		t.Fatal(err)
	}
	localPath := filepath.Join(localDir, "upload.bin")
	if err := os.WriteFile(localPath, data, 0644); err != nil {
		t.Fatal(err)
	}

	events := &capturedEvents{}
	engine := NewEngine(sc, events, localDir)

	remotePath := filepath.Join(remoteDir, "upload.bin")
	if err := engine.UploadFile(remotePath, localPath); err != nil {
		t.Fatalf("UploadFile failed: %v", err)
	}

	got, err := os.ReadFile(remotePath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Error("uploaded file differs from local source")
	}

	if events.topics[0] != types.TopicTotalSize || events.values[0] != uint64(len(data)) {
		t.Errorf("expected total-size %d first, got %v %v", len(data), events.topics, events.values)
	}
	if got := events.values[len(events.values)-1]; got != uint64(len(data)) {
		t.Errorf("final cumulative progress = %d, want %d", got, len(data))
	}
}

func TestUploadFile_MissingLocalIsLocalIOError(t *testing.T) {
	sc := newTestSFTP(t)
	engine := NewEngine(sc, nil, t.TempDir())

	err := engine.UploadFile(filepath.Join(t.TempDir(), "dst.bin"), filepath.Join(t.TempDir(), "absent.bin"))
	if !errors.Is(err, ErrLocalIO) {
		t.Errorf("expected ErrLocalIO, got %v", err)
	}
}
