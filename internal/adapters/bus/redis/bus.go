package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"dino-park/internal/platform/logger"
	"dino-park/internal/ports/bus"
)

// Bus usa Redis pub/sub: un canal por topic y un PubSub por suscriptor.
type Bus struct {
	client *redis.Client
	log    logger.Logger

	mu   sync.Mutex
	subs map[string]*redis.PubSub
	wg   sync.WaitGroup
}

var _ bus.Bus = (*Bus)(nil)

type Options struct {
	Addr     string
	Password string
	DB       int
}

// Open conecta y verifica con PING antes de devolver el bus.
func Open(ctx context.Context, opts Options, log logger.Logger) (*Bus, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	return New(client, log), nil
}

func New(client *redis.Client, log logger.Logger) *Bus {
	if log == nil {
		log = logger.Nop()
	}
	return &Bus{
		client: client,
		log:    log.With(logger.Fields{"component": "bus.redis"}),
		subs:   make(map[string]*redis.PubSub),
	}
}

func (b *Bus) Publish(ctx context.Context, topic string, payload []byte) error {
	if err := b.client.Publish(ctx, topic, payload).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", topic, err)
	}
	return nil
}

func (b *Bus) Subscribe(ctx context.Context, topic string, h bus.Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, taken := b.subs[topic]; taken {
		return fmt.Errorf("%w: %s", bus.ErrTopicTaken, topic)
	}

	ps := b.client.Subscribe(ctx, topic)
	// Receive espera la confirmación del SUBSCRIBE; sin esto se pierden los primeros mensajes.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return fmt.Errorf("redis subscribe %s: %w", topic, err)
	}
	b.subs[topic] = ps

	b.wg.Add(1)
	go b.consume(ctx, topic, ps.Channel(), h)
	return nil
}

func (b *Bus) consume(ctx context.Context, topic string, ch <-chan *redis.Message, h bus.Handler) {
	defer b.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_ = bus.Invoke(ctx, b.log, topic, []byte(msg.Payload), h)
		}
	}
}

func (b *Bus) Close() error {
	b.mu.Lock()
	for topic, ps := range b.subs {
		if err := ps.Close(); err != nil {
			b.log.Warn("close subscription", logger.Fields{"topic": topic, "err": err})
		}
		delete(b.subs, topic)
	}
	b.mu.Unlock()

	b.wg.Wait()
	return b.client.Close()
}
