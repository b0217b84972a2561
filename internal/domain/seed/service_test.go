package seed

import (
	"context"
	"errors"
	"testing"

	"dino-park/internal/adapters/upstream"
	"dino-park/internal/domain/events"
	"dino-park/internal/domain/ingest"
	"dino-park/internal/platform/logger"
)

type fakeSource struct {
	evs []events.Event
	err error
}

func (f fakeSource) FetchEvents(context.Context) ([]events.Event, error) { return f.evs, f.err }

type fakeSubmitter struct {
	got [][]events.Event
}

func (f *fakeSubmitter) Submit(_ context.Context, evs []events.Event) (ingest.Receipt, error) {
	f.got = append(f.got, evs)
	return ingest.Receipt{BatchID: "seed", Accepted: len(evs)}, nil
}

func TestRun_SubmitsFetchedBatch(t *testing.T) {
	sub := &fakeSubmitter{}
	src := fakeSource{evs: []events.Event{
		{Kind: events.KindDinoAdded, ID: 1, Time: "2024-01-01T00:00:00Z"},
		{Kind: events.KindDinoLocationUpdated, DinosaurID: 1, Location: "A1", Time: "2024-01-01T00:01:00Z"},
	}}

	rec, err := NewService(src, sub, logger.Nop()).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rec.Accepted != 2 || len(sub.got) != 1 {
		t.Fatalf("unexpected receipt %+v / submits %d", rec, len(sub.got))
	}
}

func TestRun_FetchFailureSkipsSeeding(t *testing.T) {
	sub := &fakeSubmitter{}
	src := fakeSource{err: upstream.ErrUpstream}

	_, err := NewService(src, sub, logger.Nop()).Run(context.Background())
	if !errors.Is(err, upstream.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if len(sub.got) != 0 {
		t.Fatalf("nothing should be submitted on fetch failure")
	}
}
