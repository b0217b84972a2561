package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dino-park/internal/platform/logger"
	"dino-park/internal/ports/bus"
)

type collector struct {
	mu   sync.Mutex
	msgs []string
	done chan struct{}
	want int
}

func newCollector(want int) *collector {
	return &collector{done: make(chan struct{}), want: want}
}

func (c *collector) handle(_ context.Context, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, string(payload))
	if len(c.msgs) == c.want {
		close(c.done)
	}
	return nil
}

func (c *collector) wait(t *testing.T) []string {
	t.Helper()
	select {
	case <-c.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timeout waiting for %d messages", c.want)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.msgs...)
}

func TestBus_FIFOWithinTopic(t *testing.T) {
	b := New(logger.Nop(), 8)
	defer b.Close()

	ctx := context.Background()
	c := newCollector(5)
	require.NoError(t, b.Subscribe(ctx, "service:dino_move", c.handle))

	for _, m := range []string{"1", "2", "3", "4", "5"} {
		require.NoError(t, b.Publish(ctx, "service:dino_move", []byte(m)))
	}

	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, c.wait(t))
}

func TestBus_BuffersUntilSubscribed(t *testing.T) {
	b := New(logger.Nop(), 8)
	defer b.Close()

	ctx := context.Background()
	require.NoError(t, b.Publish(ctx, "service:dino_add", []byte("early")))

	c := newCollector(1)
	require.NoError(t, b.Subscribe(ctx, "service:dino_add", c.handle))

	assert.Equal(t, []string{"early"}, c.wait(t))
}

func TestBus_SecondSubscriberRejected(t *testing.T) {
	b := New(logger.Nop(), 8)
	defer b.Close()

	ctx := context.Background()
	noop := func(context.Context, []byte) error { return nil }

	require.NoError(t, b.Subscribe(ctx, "service:dino_feed", noop))
	err := b.Subscribe(ctx, "service:dino_feed", noop)
	assert.True(t, errors.Is(err, bus.ErrTopicTaken), "got %v", err)
}

func TestBus_HandlerPanicDoesNotStopLoop(t *testing.T) {
	b := New(logger.Nop(), 8)
	defer b.Close()

	ctx := context.Background()
	c := newCollector(1)
	calls := 0
	require.NoError(t, b.Subscribe(ctx, "service:maintenance", func(ctx context.Context, p []byte) error {
		calls++
		if calls == 1 {
			panic("boom")
		}
		return c.handle(ctx, p)
	}))

	require.NoError(t, b.Publish(ctx, "service:maintenance", []byte("first")))
	require.NoError(t, b.Publish(ctx, "service:maintenance", []byte("second")))

	assert.Equal(t, []string{"second"}, c.wait(t))
}

func TestBus_PublishAfterClose(t *testing.T) {
	b := New(logger.Nop(), 1)
	require.NoError(t, b.Close())

	err := b.Publish(context.Background(), "service:dino_add", []byte("x"))
	assert.ErrorIs(t, err, bus.ErrClosed)
	assert.NoError(t, b.Close())
}

func TestBus_PublishRespectsContextWhenFull(t *testing.T) {
	b := New(logger.Nop(), 1)
	defer b.Close()

	require.NoError(t, b.Publish(context.Background(), "service:dino_remove", []byte("fills")))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := b.Publish(ctx, "service:dino_remove", []byte("blocked"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBus_DrainWaitsForHandlers(t *testing.T) {
	b := New(logger.Nop(), 8)
	defer b.Close()

	var mu sync.Mutex
	handled := 0
	require.NoError(t, b.Subscribe(context.Background(), "service:dino_feed", func(context.Context, []byte) error {
		time.Sleep(5 * time.Millisecond)
		mu.Lock()
		handled++
		mu.Unlock()
		return nil
	}))

	for i := 0; i < 5; i++ {
		require.NoError(t, b.Publish(context.Background(), "service:dino_feed", []byte("x")))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, b.Drain(ctx))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 5, handled)
}

func TestBus_DrainTimesOutWithoutSubscriber(t *testing.T) {
	b := New(logger.Nop(), 8)
	defer b.Close()

	require.NoError(t, b.Publish(context.Background(), "service:maintenance", []byte("orphan")))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	assert.True(t, errors.Is(b.Drain(ctx), context.DeadlineExceeded))
}
