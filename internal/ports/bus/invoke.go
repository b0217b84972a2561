package bus

import (
	"context"
	"fmt"

	"dino-park/internal/platform/logger"
)

// Invoke ejecuta h protegiendo el loop de consumo: un panic se convierte en error.
// Los adapters lo usan para que un handler roto no tumbe la suscripción.
func Invoke(ctx context.Context, log logger.Logger, topic string, payload []byte, h Handler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic on %s: %v", topic, r)
		}
		if err != nil {
			log.Error("bus handler failed", logger.Fields{"topic": topic, "err": err})
		}
	}()
	return h(ctx, payload)
}
