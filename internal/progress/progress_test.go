package progress

import (
	"testing"

	"github.com/pibridge/pibridge/pkg/types"
)

func TestHub_FanOut(t *testing.T) {
	hub := NewHub()

	ch1, cancel1 := hub.Subscribe()
	defer cancel1()
	ch2, cancel2 := hub.Subscribe()
	defer cancel2()

	hub.Emit(types.TopicDownloadProgress, 1024)

	for i, ch := range []<-chan types.ProgressEvent{ch1, ch2} {
		select {
		case ev := <-ch:
			if ev.Topic != types.TopicDownloadProgress || ev.Value != 1024 {
				t.Errorf("subscriber %d got %+v", i, ev)
			}
		default:
			t.Errorf("subscriber %d received nothing", i)
		}
	}
}

func TestHub_CancelRemovesSubscriber(t *testing.T) {
	hub := NewHub()

	_, cancel := hub.Subscribe()
	if got := hub.Subscribers(); got != 1 {
		t.Fatalf("subscribers = %d, want 1", got)
	}
	cancel()
	if got := hub.Subscribers(); got != 0 {
		t.Errorf("subscribers = %d after cancel, want 0", got)
	}

	// Emit after cancel must not panic or block.
	hub.Emit(types.TopicUploadProgress, 1)
}

func TestHub_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()

	ch, cancel := hub.Subscribe()
	defer cancel()

	// Overfill the buffer; the overflow must be dropped, not deadlock.
	for i := 0; i < subscriberBuffer+10; i++ {
		hub.Emit(types.TopicZipProgress, uint64(i))
	}

	received := 0
	for {
		select {
		case <-ch:
			received++
			continue
		default:
		}
		break
	}
	if received != subscriberBuffer {
		t.Errorf("received %d events, want %d buffered", received, subscriberBuffer)
	}
}

func TestTee_DuplicatesEvents(t *testing.T) {
	var a, b []uint64
	tee := Tee(
		Func(func(_ string, v uint64) { a = append(a, v) }),
		Func(func(_ string, v uint64) { b = append(b, v) }),
	)

	tee.Emit(types.TopicTotalSize, 7)
	tee.Emit(types.TopicTotalSize, 9)

	if len(a) != 2 || len(b) != 2 {
		t.Fatalf("got %d/%d events, want 2/2", len(a), len(b))
	}
	if a[0] != 7 || a[1] != 9 || b[0] != 7 || b[1] != 9 {
		t.Errorf("events diverged: %v vs %v", a, b)
	}
}

func TestNop_Discards(t *testing.T) {
	// Must simply not panic.
	Nop.Emit(types.TopicTotalSize, 42)
}
