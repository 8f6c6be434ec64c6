package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slowBackend struct {
	running atomic.Int32
	peak    atomic.Int32
	delay   time.Duration
	err     error
}

func (b *slowBackend) Infer(ctx context.Context, _ *openai.ChatCompletionNewParams, _, user string) (string, error) {
	n := b.running.Add(1)
	defer b.running.Add(-1)
	for {
		p := b.peak.Load()
		if n <= p || b.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(b.delay)
	if b.err != nil {
		return "", b.err
	}
	return "echo " + user, nil
}

func (b *slowBackend) Verify(context.Context, string) (bool, error) { return true, nil }

func TestQueue_SerializesRequests(t *testing.T) {
	backend := &slowBackend{delay: 5 * time.Millisecond}
	q := New(backend, 10, nil)
	q.Start()
	defer q.Stop()

	var wg sync.WaitGroup
	for range 5 {
		wg.Go(func() {
			out, err := q.Infer(context.Background(), nil, "sys", "hi")
			assert.NoError(t, err)
			assert.Equal(t, "echo hi", out)
		})
	}
	wg.Wait()
	assert.Equal(t, int32(1), backend.peak.Load())
}

func TestQueue_PropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	q := New(&slowBackend{err: boom}, 1, nil)
	q.Start()
	defer q.Stop()

	_, err := q.Infer(context.Background(), nil, "", "x")
	assert.ErrorIs(t, err, boom)
}

func TestQueue_Full(t *testing.T) {
	q := New(&slowBackend{}, 1, nil)

	require.NoError(t, q.Add(&Item{Ctx: context.Background(), Response: make(chan string, 1), Error: make(chan error, 1)}))
	err := q.Add(&Item{Ctx: context.Background()})
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestQueue_StopFailsPending(t *testing.T) {
	q := New(&slowBackend{}, 2, nil)
	item := &Item{Ctx: context.Background(), Response: make(chan string, 1), Error: make(chan error, 1)}
	require.NoError(t, q.Add(item))

	q.Stop()
	assert.ErrorIs(t, q.Add(item), ErrStopped)
}

func TestQueue_ContextCancelled(t *testing.T) {
	q := New(&slowBackend{delay: 50 * time.Millisecond}, 2, nil)
	q.Start()
	defer q.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	_, err := q.Infer(ctx, nil, "", "x")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
