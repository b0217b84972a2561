package bus

import (
	"context"
	"errors"
)

var (
	// ErrTopicTaken: cada topic admite exactamente un handler.
	ErrTopicTaken = errors.New("topic already has a subscriber")
	ErrClosed     = errors.New("bus closed")
)

// Handler procesa un mensaje. Los errores se registran, no detienen el consumo.
type Handler func(ctx context.Context, payload []byte) error

// Publisher publica un payload en un topic. Retorna cuando el bus aceptó el mensaje.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

// Subscriber registra el único handler de un topic.
// Dentro de un topic los mensajes se entregan en orden FIFO, uno a la vez.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string, h Handler) error
}

type Bus interface {
	Publisher
	Subscriber
	Close() error
}
