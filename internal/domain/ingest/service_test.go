package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"dino-park/internal/domain/events"
	"dino-park/internal/platform/logger"
)

type published struct {
	topic string
	env   events.Envelope
}

type fakePublisher struct {
	mu     sync.Mutex
	got    []published
	failOn map[int]error // por número de llamada (1-based)
	calls  int
}

func (f *fakePublisher) Publish(_ context.Context, topic string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err, ok := f.failOn[f.calls]; ok {
		return err
	}
	var env events.Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return err
	}
	f.got = append(f.got, published{topic: topic, env: env})
	return nil
}

func (f *fakePublisher) snapshot() []published {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]published(nil), f.got...)
}

func newTestService(pub *fakePublisher, size int) *Service {
	s := NewService(pub, logger.Nop(), Options{QueueSize: size})
	s.newID = func() string { return "batch-1" }
	return s
}

func TestDispatch_FeedBeforeAddIsReordered(t *testing.T) {
	pub := &fakePublisher{}
	s := newTestService(pub, 1)

	rep := s.Dispatch(context.Background(), "b", []events.Event{
		{Kind: events.KindDinoFed, ID: 1042, Time: "2024-01-02T00:00:00Z"},
		{Kind: events.KindDinoAdded, ID: 1042, Name: "Rex", Time: "2024-01-01T00:00:00Z"},
	})

	if rep.Published != 2 || rep.Failed != 0 {
		t.Fatalf("unexpected report %+v", rep)
	}
	got := pub.snapshot()
	if got[0].topic != string(events.TopicDinoAdd) || got[1].topic != string(events.TopicDinoFeed) {
		t.Fatalf("expected add then feed, got %s, %s", got[0].topic, got[1].topic)
	}
	if got[0].env.Seq != 1 || got[1].env.Seq != 2 || got[0].env.BatchID != "b" {
		t.Fatalf("unexpected envelopes %+v", got)
	}
	if got[0].env.Event.Name != "Rex" {
		t.Fatalf("event payload lost: %+v", got[0].env.Event)
	}
}

func TestDispatch_SkipsUnroutableAndInvalidTime(t *testing.T) {
	pub := &fakePublisher{}
	s := newTestService(pub, 1)

	rep := s.Dispatch(context.Background(), "b", []events.Event{
		{Kind: "dino_teleported", ID: 1, Time: "2024-01-01T00:00:00Z"},
		{Kind: events.KindDinoRemoved, ID: 2, Time: "ayer"},
		{Kind: events.KindDinoRemoved, ID: 3},
		{Kind: events.KindMaintenancePerformed, Location: "B7", Time: "2024-01-01T00:00:00Z"},
	})

	if rep.Published != 1 || rep.Unroutable != 1 || rep.Invalid != 2 {
		t.Fatalf("unexpected report %+v", rep)
	}
	got := pub.snapshot()
	if len(got) != 1 || got[0].topic != string(events.TopicMaintenance) {
		t.Fatalf("only maintenance should be published, got %+v", got)
	}
}

func TestDispatch_PublishFailureDoesNotStopBatch(t *testing.T) {
	pub := &fakePublisher{failOn: map[int]error{1: errors.New("broker down")}}
	s := newTestService(pub, 1)

	rep := s.Dispatch(context.Background(), "b", []events.Event{
		{Kind: events.KindDinoAdded, ID: 1, Time: "2024-01-01T00:00:00Z"},
		{Kind: events.KindDinoAdded, ID: 2, Time: "2024-01-01T00:00:01Z"},
		{Kind: events.KindDinoAdded, ID: 3, Time: "2024-01-01T00:00:02Z"},
	})

	if rep.Published != 2 || rep.Failed != 1 {
		t.Fatalf("unexpected report %+v", rep)
	}
	got := pub.snapshot()
	if got[0].env.Event.ID != 2 || got[1].env.Event.ID != 3 {
		t.Fatalf("expected events 2 and 3 after failure, got %+v", got)
	}
}

func TestDispatch_EmptyBatch(t *testing.T) {
	pub := &fakePublisher{}
	s := newTestService(pub, 1)

	rep := s.Dispatch(context.Background(), "b", nil)
	if rep.Published != 0 || pub.calls != 0 {
		t.Fatalf("empty batch must be a no-op, got %+v", rep)
	}
}

func TestSubmit_RunPublishesInQueueOrder(t *testing.T) {
	pub := &fakePublisher{}
	s := NewService(pub, logger.Nop(), Options{QueueSize: 4})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for i, ts := range []string{"2024-01-03T00:00:00Z", "2024-01-01T00:00:00Z"} {
		rec, err := s.Submit(ctx, []events.Event{{Kind: events.KindDinoRemoved, ID: int64(i + 1), Time: ts}})
		if err != nil || rec.Accepted != 1 || rec.BatchID == "" {
			t.Fatalf("submit %d: rec=%+v err=%v", i, rec, err)
		}
	}

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for len(pub.snapshot()) < 2 {
		select {
		case <-deadline:
			t.Fatalf("timeout waiting for dispatcher")
		case <-time.After(5 * time.Millisecond):
		}
	}

	// los lotes se despachan en orden de llegada, sin reordenar entre lotes
	got := pub.snapshot()
	if got[0].env.Event.ID != 1 || got[1].env.Event.ID != 2 {
		t.Fatalf("batches out of order: %+v", got)
	}
	if got[0].env.BatchID == got[1].env.BatchID {
		t.Fatalf("each batch needs its own id")
	}

	cancel()
	<-done
}

func TestSubmit_FullQueueHonoursContext(t *testing.T) {
	s := newTestService(&fakePublisher{}, 1)
	ev := []events.Event{{Kind: events.KindDinoFed, ID: 1, Time: "2024-01-01T00:00:00Z"}}

	if _, err := s.Submit(context.Background(), ev); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := s.Submit(ctx, ev); !errors.Is(err, ErrQueueUnavailable) {
		t.Fatalf("expected ErrQueueUnavailable, got %v", err)
	}
}

func TestSubmit_EmptyBatchNotQueued(t *testing.T) {
	s := newTestService(&fakePublisher{}, 1)

	rec, err := s.Submit(context.Background(), nil)
	if err != nil || rec.Accepted != 0 {
		t.Fatalf("unexpected rec=%+v err=%v", rec, err)
	}
	if len(s.queue) != 0 {
		t.Fatalf("empty batch should not be queued")
	}
}

func TestDispatch_RateLimitedHonoursContext(t *testing.T) {
	pub := &fakePublisher{}
	s := NewService(pub, logger.Nop(), Options{QueueSize: 1, PublishRate: 0.5})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// burst 1: el primero sale, el segundo no llega antes del deadline
	rep := s.Dispatch(ctx, "b", []events.Event{
		{Kind: events.KindDinoFed, ID: 1, Time: "2024-01-01T00:00:00Z"},
		{Kind: events.KindDinoFed, ID: 2, Time: "2024-01-01T00:00:01Z"},
	})
	if rep.Published != 1 || rep.Failed != 1 {
		t.Fatalf("unexpected report %+v", rep)
	}
}
