package events

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid event input")
	ErrMalformed    = errors.New("malformed event payload")
)

// DecodeBatch acepta un objeto suelto o un arreglo. Cada elemento se decodifica
// por separado: uno con campos de tipo incorrecto queda marcado con DecodeErr y
// el resto del lote sigue. Solo falla si el cuerpo no es JSON o no es objeto/arreglo.
func DecodeBatch(body []byte) ([]Event, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformed)
	}

	switch trimmed[0] {
	case '[':
		var raws []json.RawMessage
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return DecodeList(raws), nil
	case '{':
		if !json.Valid(trimmed) {
			return nil, fmt.Errorf("%w: invalid json object", ErrMalformed)
		}
		return []Event{decodeOne(trimmed)}, nil
	default:
		return nil, fmt.Errorf("%w: expected object or array", ErrMalformed)
	}
}

// DecodeList decodifica cada elemento por separado, conservando posiciones.
func DecodeList(raws []json.RawMessage) []Event {
	out := make([]Event, 0, len(raws))
	for _, raw := range raws {
		out = append(out, decodeOne(raw))
	}
	return out
}

func decodeOne(raw json.RawMessage) Event {
	var e Event
	if err := json.Unmarshal(raw, &e); err != nil {
		e.DecodeErr = fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return e
}

// Decoded cuenta los eventos que se decodificaron sin error.
func Decoded(evs []Event) int {
	n := 0
	for _, e := range evs {
		if e.DecodeErr == nil {
			n++
		}
	}
	return n
}
