// Package queue serializes generation requests for backends that can only
// serve one completion at a time, such as a local model server.
package queue

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go/v3"

	"mnemo/pkg/inference"
	"mnemo/pkg/utils"
)

var (
	ErrQueueFull = errors.New("queue is full")
	ErrStopped   = errors.New("queue stopped")
)

// Queue runs requests against the wrapped backend one at a time. It is
// itself an inference.Inferencer.
type Queue struct {
	backend inference.Inferencer
	items   chan *Item
	stop    chan struct{}
	logger  *log.Logger

	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}
}

type Item struct {
	Ctx    context.Context
	Params *openai.ChatCompletionNewParams
	System string
	User   string

	Response chan string
	Error    chan error
}

// New wraps backend with a queue holding at most size pending requests.
func New(backend inference.Inferencer, size int, logger *log.Logger) *Queue {
	if size <= 0 {
		size = 100
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Queue{
		backend: backend,
		items:   make(chan *Item, size),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
		logger:  logger.With("component", "queue"),
	}
}

func (q *Queue) Start() {
	q.startOnce.Do(func() { go q.processLoop() })
}

// Stop ends the worker after the current item. Pending items fail with
// ErrStopped.
func (q *Queue) Stop() {
	q.stopOnce.Do(func() { close(q.stop) })
	q.startOnce.Do(func() { close(q.done) })
	<-q.done
}

// Add enqueues a request without waiting for it.
func (q *Queue) Add(item *Item) error {
	select {
	case <-q.stop:
		return ErrStopped
	default:
	}
	select {
	case q.items <- item:
		return nil
	default:
		return ErrQueueFull
	}
}

// Infer enqueues the request and waits for its result or for ctx.
func (q *Queue) Infer(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string) (string, error) {
	item := &Item{
		Ctx:      ctx,
		Params:   params,
		System:   system,
		User:     user,
		Response: make(chan string, 1),
		Error:    make(chan error, 1),
	}
	if err := q.Add(item); err != nil {
		return "", err
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case err := <-item.Error:
		return "", err
	case out := <-item.Response:
		return out, nil
	}
}

func (q *Queue) Verify(ctx context.Context, result string) (bool, error) {
	return q.backend.Verify(ctx, result)
}

func (q *Queue) processLoop() {
	defer close(q.done)
	q.logger.Info("Generation queue started")
	for {
		select {
		case <-q.stop:
			q.drain()
			q.logger.Info("Generation queue stopped")
			return
		case item := <-q.items:
			q.processItem(item)
		}
	}
}

func (q *Queue) processItem(item *Item) {
	if err := item.Ctx.Err(); err != nil {
		item.Error <- err
		return
	}

	q.logger.Debug("Processing generation", "prompt", utils.Truncate(item.User, 50))

	out, err := q.backend.Infer(item.Ctx, item.Params, item.System, item.User)
	if err != nil {
		q.logger.Warn("Generation failed", "error", err)
		item.Error <- err
		return
	}
	item.Response <- out
}

func (q *Queue) drain() {
	for {
		select {
		case item := <-q.items:
			item.Error <- ErrStopped
		default:
			return
		}
	}
}
