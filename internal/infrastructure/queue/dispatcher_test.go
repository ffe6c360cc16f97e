package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type stubProcessor struct {
	mu        sync.Mutex
	processed []string
	failFor   string
	done      chan struct{}
	want      int
}

func newStubProcessor(want int) *stubProcessor {
	return &stubProcessor{done: make(chan struct{}), want: want}
}

func (p *stubProcessor) Process(_ context.Context, transactionID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.processed = append(p.processed, transactionID)
	if len(p.processed) == p.want {
		close(p.done)
	}
	if transactionID == p.failFor {
		return errors.New("generation failed")
	}
	return nil
}

func (p *stubProcessor) ids() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.processed...)
}

func waitDone(t *testing.T, p *stubProcessor) {
	t.Helper()
	select {
	case <-p.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for jobs, processed %v", p.ids())
	}
}

func TestDispatcher_ProcessesAllJobs(t *testing.T) {
	proc := newStubProcessor(3)
	d := NewDispatcher(2, proc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue("tx-1")
	d.Enqueue("tx-2")
	d.Enqueue("tx-3")
	waitDone(t, proc)

	seen := make(map[string]bool)
	for _, id := range proc.ids() {
		seen[id] = true
	}
	for _, id := range []string{"tx-1", "tx-2", "tx-3"} {
		if !seen[id] {
			t.Errorf("job %s never processed", id)
		}
	}
}

func TestDispatcher_FailureDoesNotStopWorker(t *testing.T) {
	proc := newStubProcessor(2)
	proc.failFor = "tx-bad"
	d := NewDispatcher(1, proc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue("tx-bad")
	d.Enqueue("tx-good")
	waitDone(t, proc)

	if got := proc.ids(); len(got) != 2 {
		t.Errorf("expected both jobs processed, got %v", got)
	}
}

func TestDispatcher_ShardingIsDeterministic(t *testing.T) {
	d := NewDispatcher(4, newStubProcessor(0), zerolog.Nop())

	for _, id := range []string{"tx-1", "tx-2", "abc", ""} {
		first := d.shardIndex(id)
		for i := 0; i < 10; i++ {
			if got := d.shardIndex(id); got != first {
				t.Fatalf("shard for %q changed: %d vs %d", id, first, got)
			}
		}
		if first < 0 || first >= 4 {
			t.Errorf("shard for %q out of range: %d", id, first)
		}
	}
}

func TestNewDispatcher_DefaultWorkerCount(t *testing.T) {
	d := NewDispatcher(0, newStubProcessor(0), zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Errorf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}
