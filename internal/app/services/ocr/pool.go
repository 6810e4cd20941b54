package ocr

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"vitalwatch-service/internal/pkg/constvars"

	"go.uber.org/zap"
)

// Runner is one supervised unit of work, normally a Worker.
type Runner interface {
	ID() string
	Run(ctx context.Context) error
}

// RunnerFactory builds a fresh runner for a respawned slot. Workers are not
// reused across generations because their broker channel may be dead.
type RunnerFactory func(id string) (Runner, error)

// Pool keeps a fixed number of worker slots alive. When a worker exits or
// panics, its slot respawns a new generation after respawnDelay. Slot count
// never changes after Start.
type Pool struct {
	size         int
	respawnDelay time.Duration
	factory      RunnerFactory
	log          *zap.Logger

	live   atomic.Int64
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewPool(size int, respawnDelay time.Duration, factory RunnerFactory, log *zap.Logger) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		size:         size,
		respawnDelay: respawnDelay,
		factory:      factory,
		log:          log,
	}
}

func (p *Pool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	for slot := 0; slot < p.size; slot++ {
		p.wg.Add(1)
		go func(slot int) {
			defer p.wg.Done()
			p.superviseSlot(ctx, slot)
		}(slot)
	}
}

// Stop cancels every slot and waits for in-flight handlers to finish.
func (p *Pool) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
}

func (p *Pool) Size() int {
	return p.size
}

// Live reports how many workers are currently running, which dips below Size
// while a slot waits to respawn.
func (p *Pool) Live() int {
	return int(p.live.Load())
}

func (p *Pool) superviseSlot(ctx context.Context, slot int) {
	for generation := 1; ; generation++ {
		if ctx.Err() != nil {
			return
		}

		id := fmt.Sprintf("ocr-worker-%d-%d", slot, generation)
		runner, err := p.factory(id)
		if err != nil {
			p.log.Error("failed to construct worker",
				zap.String(constvars.LoggingWorkerIDKey, id),
				zap.Error(err),
			)
		} else {
			p.live.Add(1)
			err = p.runGuarded(ctx, runner)
			p.live.Add(-1)
			if ctx.Err() != nil {
				return
			}
			p.log.Warn("worker exited, respawning slot",
				zap.String(constvars.LoggingWorkerIDKey, id),
				zap.Error(err),
			)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(p.respawnDelay):
		}
	}
}

func (p *Pool) runGuarded(ctx context.Context, runner Runner) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("worker %s panicked: %v", runner.ID(), r)
		}
	}()
	return runner.Run(ctx)
}
