package events

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	ErrUnroutable  = errors.New("unroutable event kind")
	ErrInvalidTime = errors.New("invalid event time")
)

// Sequenced es un evento aceptado, con su instante parseado y topic resuelto.
type Sequenced struct {
	Seq   int
	Topic Topic
	At    time.Time
	Event Event
}

// Rejected es un evento descartado antes de publicar.
type Rejected struct {
	// Index es la posición en el lote original.
	Index int
	Event Event
	Err   error
}

// Ordering es el resultado de ordenar un lote.
type Ordering struct {
	Events   []Sequenced
	Rejected []Rejected
}

// Order establece el orden global de un lote:
//   - descarta elementos que no decodificaron (ErrInvalidInput), kinds sin topic
//     (ErrUnroutable) y time no parseable (ErrInvalidTime),
//   - ordena el resto por time ascendente; empates conservan el orden de llegada,
//   - numera el resultado con Seq desde 1.
func Order(batch []Event) Ordering {
	out := Ordering{Events: make([]Sequenced, 0, len(batch))}

	for i, e := range batch {
		if e.DecodeErr != nil {
			out.Rejected = append(out.Rejected, Rejected{Index: i, Event: e, Err: e.DecodeErr})
			continue
		}
		topic, ok := TopicFor(e.Kind)
		if !ok {
			out.Rejected = append(out.Rejected, Rejected{
				Index: i,
				Event: e,
				Err:   fmt.Errorf("%w: %q", ErrUnroutable, e.Kind),
			})
			continue
		}
		at, err := ParseTime(e.Time)
		if err != nil {
			out.Rejected = append(out.Rejected, Rejected{Index: i, Event: e, Err: err})
			continue
		}
		out.Events = append(out.Events, Sequenced{Topic: topic, At: at, Event: e})
	}

	if len(out.Events) > 1 {
		sort.SliceStable(out.Events, func(i, j int) bool {
			return out.Events[i].At.Before(out.Events[j].At)
		})
	}
	for i := range out.Events {
		out.Events[i].Seq = i + 1
	}
	return out
}
