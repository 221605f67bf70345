package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingPoller struct {
	calls atomic.Int32
	err   error
}

func (p *countingPoller) Poll(context.Context) (int, error) {
	p.calls.Add(1)
	return 1, p.err
}

func (p *countingPoller) RefreshIfStale(context.Context) (int, error) {
	p.calls.Add(1)
	return 0, p.err
}

func runFor(d time.Duration, start func(ctx context.Context)) {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	done := make(chan struct{})
	go func() {
		start(ctx)
		close(done)
	}()
	<-done
}

func TestOrderPollerWorker_PollsWhileAuthenticated(t *testing.T) {
	poller := &countingPoller{err: errors.New("offline")}
	worker := &OrderPollerWorker{Orders: poller, RunInterval: 10 * time.Millisecond}

	runFor(120*time.Millisecond, worker.Start)

	assert.GreaterOrEqual(t, poller.calls.Load(), int32(3))
}

func TestOrderPollerWorker_SkipsWithoutSession(t *testing.T) {
	poller := &countingPoller{}
	worker := &OrderPollerWorker{
		Orders:        poller,
		Authenticated: func() bool { return false },
		RunInterval:   10 * time.Millisecond,
	}

	runFor(60*time.Millisecond, worker.Start)

	assert.Zero(t, poller.calls.Load())
}

func TestDashboardRefresherWorker_RunsImmediately(t *testing.T) {
	refresher := &countingPoller{}
	worker := &DashboardRefresherWorker{Dashboard: refresher, RunInterval: time.Hour}

	runFor(30*time.Millisecond, worker.Start)

	assert.Equal(t, int32(1), refresher.calls.Load())
}

func TestExecuteTasks_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran bool
	counts := executeTasks(ctx, []WorkerTask{
		{Name: "never", Fn: func(context.Context) (int, error) { ran = true; return 1, nil }},
	})

	assert.False(t, ran)
	assert.Equal(t, []int{0}, counts)
}
