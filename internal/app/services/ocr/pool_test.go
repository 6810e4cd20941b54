package ocr

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type scriptedRunner struct {
	id  string
	run func(ctx context.Context) error
}

func (r *scriptedRunner) ID() string                    { return r.id }
func (r *scriptedRunner) Run(ctx context.Context) error { return r.run(ctx) }

func blockUntilCanceled(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

type factoryRecorder struct {
	mu  sync.Mutex
	ids []string
}

func (f *factoryRecorder) record(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = append(f.ids, id)
}

func (f *factoryRecorder) spawned() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.ids))
	copy(out, f.ids)
	return out
}

func TestPool_KeepsConfiguredNumberOfWorkersLive(t *testing.T) {
	factory := func(id string) (Runner, error) {
		return &scriptedRunner{id: id, run: blockUntilCanceled}, nil
	}
	pool := NewPool(3, time.Millisecond, factory, zap.NewNop())

	pool.Start(context.Background())
	defer pool.Stop()

	assert.Equal(t, 3, pool.Size())
	assert.Eventually(t, func() bool { return pool.Live() == 3 },
		2*time.Second, 10*time.Millisecond)
}

func TestPool_RespawnsSlotAfterPanic(t *testing.T) {
	recorder := &factoryRecorder{}
	factory := func(id string) (Runner, error) {
		recorder.record(id)
		generation := len(recorder.spawned())
		return &scriptedRunner{id: id, run: func(ctx context.Context) error {
			if generation < 3 {
				panic("worker blew up")
			}
			return blockUntilCanceled(ctx)
		}}, nil
	}
	pool := NewPool(1, time.Millisecond, factory, zap.NewNop())

	pool.Start(context.Background())
	defer pool.Stop()

	assert.Eventually(t, func() bool {
		return len(recorder.spawned()) >= 3 && pool.Live() == 1
	}, 2*time.Second, 10*time.Millisecond)

	ids := recorder.spawned()
	assert.Equal(t, "ocr-worker-0-1", ids[0])
	assert.Equal(t, "ocr-worker-0-2", ids[1])
	assert.Equal(t, "ocr-worker-0-3", ids[2])
}

func TestPool_RespawnsSlotAfterErrorExit(t *testing.T) {
	recorder := &factoryRecorder{}
	factory := func(id string) (Runner, error) {
		recorder.record(id)
		generation := len(recorder.spawned())
		return &scriptedRunner{id: id, run: func(ctx context.Context) error {
			if generation == 1 {
				return assert.AnError
			}
			return blockUntilCanceled(ctx)
		}}, nil
	}
	pool := NewPool(1, time.Millisecond, factory, zap.NewNop())

	pool.Start(context.Background())
	defer pool.Stop()

	assert.Eventually(t, func() bool {
		return len(recorder.spawned()) == 2 && pool.Live() == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPool_StopWaitsForWorkersToExit(t *testing.T) {
	factory := func(id string) (Runner, error) {
		return &scriptedRunner{id: id, run: blockUntilCanceled}, nil
	}
	pool := NewPool(2, time.Millisecond, factory, zap.NewNop())

	pool.Start(context.Background())
	assert.Eventually(t, func() bool { return pool.Live() == 2 },
		2*time.Second, 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		pool.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after canceling workers")
	}
	assert.Equal(t, 0, pool.Live())
}

func TestPool_SizeFloorsAtOne(t *testing.T) {
	pool := NewPool(0, time.Millisecond, func(id string) (Runner, error) {
		return &scriptedRunner{id: id, run: blockUntilCanceled}, nil
	}, zap.NewNop())

	assert.Equal(t, 1, pool.Size())
}
