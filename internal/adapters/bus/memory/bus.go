package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"dino-park/internal/platform/logger"
	"dino-park/internal/ports/bus"
)

const DefaultBuffer = 256

// Bus es un bus in-process: una cola FIFO por topic y una goroutine por suscriptor.
// Los mensajes publicados antes de la suscripción quedan encolados.
type Bus struct {
	log    logger.Logger
	buffer int

	mu     sync.Mutex
	topics map[string]*topic
	closed bool
	done   chan struct{}
	wg     sync.WaitGroup

	// pending cuenta mensajes publicados que todavía no terminó de procesar un handler.
	pending atomic.Int64
}

type topic struct {
	queue      chan []byte
	subscribed bool
}

var _ bus.Bus = (*Bus)(nil)

func New(log logger.Logger, buffer int) *Bus {
	if log == nil {
		log = logger.Nop()
	}
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Bus{
		log:    log.With(logger.Fields{"component": "bus.memory"}),
		buffer: buffer,
		topics: make(map[string]*topic),
		done:   make(chan struct{}),
	}
}

func (b *Bus) topicLocked(name string) *topic {
	t, ok := b.topics[name]
	if !ok {
		t = &topic{queue: make(chan []byte, b.buffer)}
		b.topics[name] = t
	}
	return t
}

// Publish encola el mensaje; bloquea si la cola del topic está llena.
func (b *Bus) Publish(ctx context.Context, name string, payload []byte) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return bus.ErrClosed
	}
	t := b.topicLocked(name)
	b.mu.Unlock()

	msg := append([]byte(nil), payload...)
	b.pending.Add(1)
	select {
	case t.queue <- msg:
		return nil
	case <-ctx.Done():
		b.pending.Add(-1)
		return ctx.Err()
	case <-b.done:
		b.pending.Add(-1)
		return bus.ErrClosed
	}
}

func (b *Bus) Subscribe(ctx context.Context, name string, h bus.Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return bus.ErrClosed
	}
	t := b.topicLocked(name)
	if t.subscribed {
		return fmt.Errorf("%w: %s", bus.ErrTopicTaken, name)
	}
	t.subscribed = true

	b.wg.Add(1)
	go b.consume(ctx, name, t.queue, h)
	return nil
}

func (b *Bus) consume(ctx context.Context, name string, queue <-chan []byte, h bus.Handler) {
	defer b.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-b.done:
			return
		case msg := <-queue:
			_ = bus.Invoke(ctx, b.log, name, msg, h)
			b.pending.Add(-1)
		}
	}
}

// Drain espera a que todo lo publicado haya sido procesado.
// Solo termina si cada topic con mensajes tiene suscriptor.
func (b *Bus) Drain(ctx context.Context) error {
	tick := time.NewTicker(10 * time.Millisecond)
	defer tick.Stop()
	for b.pending.Load() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-b.done:
			return bus.ErrClosed
		case <-tick.C:
		}
	}
	return nil
}

// Close detiene los consumidores y espera a que terminen el mensaje en curso.
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.done)
	b.mu.Unlock()

	b.wg.Wait()
	return nil
}
