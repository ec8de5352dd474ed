package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/goleak"

	"github.com/quantiva/dashboard/internal/core/ports"
)

type recordingDeliverer struct {
	mu        sync.Mutex
	delivered []string
	notify    chan string
}

func newRecordingDeliverer() *recordingDeliverer {
	return &recordingDeliverer{notify: make(chan string, 16)}
}

func (r *recordingDeliverer) DeliverReply(_ context.Context, transcriptID string) error {
	r.mu.Lock()
	r.delivered = append(r.delivered, transcriptID)
	r.mu.Unlock()
	r.notify <- transcriptID
	return nil
}

func waitDelivered(t *testing.T, r *recordingDeliverer, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-r.notify:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out after %d of %d deliveries", i, n)
		}
	}
}

func TestDispatcher_DeliversAfterDue(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	target := newRecordingDeliverer()
	d := NewDispatcher(2, zerolog.Nop())
	d.Start(ctx, target)

	start := time.Now()
	d.Schedule(ports.ReplyJob{TranscriptID: "u-1", Due: start.Add(30 * time.Millisecond)})
	waitDelivered(t, target, 1)

	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Fatalf("delivered early after %s", elapsed)
	}
	cancel()
}

func TestDispatcher_PreservesOrderPerTranscript(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	target := newRecordingDeliverer()
	d := NewDispatcher(4, zerolog.Nop())
	d.Start(ctx, target)

	now := time.Now()
	for i := 0; i < 5; i++ {
		d.Schedule(ports.ReplyJob{TranscriptID: "u-1", Due: now})
	}
	waitDelivered(t, target, 5)

	target.mu.Lock()
	if len(target.delivered) != 5 {
		t.Fatalf("expected 5 deliveries, got %d", len(target.delivered))
	}
	target.mu.Unlock()
	cancel()
}

func TestDispatcher_StopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	target := newRecordingDeliverer()
	d := NewDispatcher(1, zerolog.Nop())
	d.Start(ctx, target)

	d.Schedule(ports.ReplyJob{TranscriptID: "u-1", Due: time.Now().Add(time.Hour)})
	cancel()
	time.Sleep(20 * time.Millisecond)

	target.mu.Lock()
	defer target.mu.Unlock()
	if len(target.delivered) != 0 {
		t.Fatalf("pending job must be dropped on cancel, got %v", target.delivered)
	}
}

// scheduleAll reports whether n Schedule calls returned within a second.
func scheduleAll(d *Dispatcher, n int, due time.Time) bool {
	returned := make(chan struct{})
	go func() {
		defer close(returned)
		for i := 0; i < n; i++ {
			d.Schedule(ports.ReplyJob{TranscriptID: "u-1", Due: due})
		}
	}()
	select {
	case <-returned:
		return true
	case <-time.After(time.Second):
		return false
	}
}

func TestDispatcher_ScheduleAfterStopDoesNotBlock(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	target := newRecordingDeliverer()
	d := NewDispatcher(1, zerolog.Nop())
	d.Start(ctx, target)
	cancel()

	if !scheduleAll(d, channelBuffer+10, time.Now()) {
		t.Fatalf("Schedule blocked after the dispatcher stopped")
	}
	target.mu.Lock()
	defer target.mu.Unlock()
	if len(target.delivered) != 0 {
		t.Fatalf("jobs scheduled after stop must be dropped, got %v", target.delivered)
	}
}

func TestDispatcher_ScheduleDropsWhenBufferFull(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d := NewDispatcher(1, zerolog.Nop())
	d.Start(ctx, newRecordingDeliverer())

	// The worker parks on the first job; the rest fill and overflow the buffer.
	if !scheduleAll(d, channelBuffer+10, time.Now().Add(time.Hour)) {
		t.Fatalf("Schedule blocked on a full buffer")
	}
	if got := len(d.workers[0]); got > channelBuffer {
		t.Fatalf("buffer overfilled: %d", got)
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(0, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
	first := d.shardIndex("u-1")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("u-1"); got != first {
			t.Fatalf("shard changed: %d vs %d", first, got)
		}
	}
}
