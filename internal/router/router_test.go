package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	membus "dino-park/internal/adapters/bus/memory"
	"dino-park/internal/adapters/storage/memory"
	"dino-park/internal/domain/consumers"
	"dino-park/internal/domain/ingest"
	"dino-park/internal/domain/park"
	"dino-park/internal/domain/reconcile"
	"dino-park/internal/platform/logger"
	"dino-park/internal/platform/metrics"
	"dino-park/internal/router"
)

type gridCell struct {
	Location       string     `json:"location"`
	MaintenanceDue *time.Time `json:"maintenanceDue"`
	GridStatus     string     `json:"grid_status"`
}

type dino struct {
	ID       int64   `json:"id"`
	Location *string `json:"location"`
	IsHungry bool    `json:"is_hungry"`
}

func TestHTTP_EndToEnd_EventsToGridStatus(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := logger.Nop()
	m := metrics.New()
	dinos := memory.NewDinoRepo()
	grid := memory.NewGridRepo()
	if _, err := park.NewService(dinos, grid).InitGrid(ctx); err != nil {
		t.Fatalf("init grid: %v", err)
	}

	b := membus.New(log, 0)
	defer b.Close()
	if err := consumers.NewService(dinos, grid, log, m).Register(ctx, b); err != nil {
		t.Fatalf("register consumers: %v", err)
	}
	ing := ingest.NewService(b, log, ingest.Options{QueueSize: 4, Metrics: m})
	go ing.Run(ctx)

	ts := httptest.NewServer(router.NewRouter(router.Options{
		Log:     log,
		Metrics: m,
		Dinos:   dinos,
		Grid:    grid,
		Ingest:  ing,
	}))
	defer ts.Close()

	fedAt := time.Now().UTC().Add(-5 * time.Hour)

	// 1) Alta del dinosaurio; el kind desconocido se acepta y se descarta al ordenar
	{
		st, body := doReq(t, ts.URL, http.MethodPost, "/event", []map[string]any{
			{"kind": "dino_teleported", "id": 1042, "time": fedAt.Format(time.RFC3339)},
			{"kind": "dino_added", "id": 1042, "name": "Rex", "species": "Tyrannosaurus", "gender": "male",
				"digestion_period_in_hours": 4, "herbivore": false, "park_id": 1, "time": fedAt.Add(-time.Hour).Format(time.RFC3339)},
		})
		if st != http.StatusAccepted {
			t.Fatalf("expected 202, got %d body=%s", st, string(body))
		}
		var out struct {
			Accepted int    `json:"accepted"`
			BatchID  string `json:"batch_id"`
		}
		mustJSON(t, body, &out)
		if out.Accepted != 2 || out.BatchID == "" {
			t.Fatalf("unexpected 202 body %s", string(body))
		}
	}
	waitFor(t, func() bool {
		var ds []dino
		_, body := doReq(t, ts.URL, http.MethodGet, "/api/dinos", nil)
		mustJSON(t, body, &ds)
		return len(ds) == 1
	})

	// 2) Feed listado antes que el move: se publican ordenados por time
	{
		st, body := doReq(t, ts.URL, http.MethodPost, "/event", []map[string]any{
			{"kind": "dino_fed", "id": 1042, "time": fedAt.Format(time.RFC3339)},
			{"kind": "dino_location_updated", "dinosaur_id": 1042, "location": "B7", "time": fedAt.Add(-time.Minute).Format(time.RFC3339)},
		})
		if st != http.StatusAccepted {
			t.Fatalf("expected 202, got %d body=%s", st, string(body))
		}
	}
	waitFor(t, func() bool {
		var ds []dino
		_, body := doReq(t, ts.URL, http.MethodGet, "/api/dinos", nil)
		mustJSON(t, body, &ds)
		c, _ := grid.GetByLocation(ctx, "B7")
		return len(ds) == 1 && ds[0].Location != nil && !ds[0].IsHungry && c.MaintenanceDue != nil
	})

	// 3) Reconciliación: digestión de 4h vencida => hambriento => B7 Unsafe
	rep := reconcile.NewEngine(dinos, grid, log, m, time.Second).Tick(ctx)
	if rep.HungerWrites != 1 {
		t.Fatalf("expected hunger write, got %+v", rep)
	}

	var cells []gridCell
	{
		st, body := doReq(t, ts.URL, http.MethodGet, "/api/grid", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 on grid, got %d", st)
		}
		mustJSON(t, body, &cells)
	}
	if len(cells) != 416 || cells[0].Location != "A1" || cells[415].Location != "Z16" {
		t.Fatalf("unexpected grid listing (%d cells)", len(cells))
	}
	var b7 gridCell
	for _, c := range cells {
		if c.Location == "B7" {
			b7 = c
		}
	}
	if b7.GridStatus != "Unsafe" || b7.MaintenanceDue == nil {
		t.Fatalf("expected B7 Unsafe with due date, got %+v", b7)
	}

	// 4) Observabilidad
	{
		st, body := doReq(t, ts.URL, http.MethodGet, "/metrics", nil)
		if st != http.StatusOK || !strings.Contains(string(body), `dinopark_ingest_dropped_total{reason="unroutable"} 1`) {
			t.Fatalf("metrics missing dropped counter: %d", st)
		}
	}
}

func TestHTTP_ReadOnlyRouter(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	if st, body := doReq(t, ts.URL, http.MethodGet, "/health", nil); st != http.StatusOK || string(body) != "ok" {
		t.Fatalf("health: %d %s", st, string(body))
	}
	if st, _ := doReq(t, ts.URL, http.MethodPost, "/event", map[string]any{"kind": "dino_fed"}); st != http.StatusMethodNotAllowed && st != http.StatusNotFound {
		t.Fatalf("gateway disabled should not accept events, got %d", st)
	}
	if st, body := doReq(t, ts.URL, http.MethodGet, "/swagger/doc.json", nil); st != http.StatusOK || !strings.Contains(string(body), "/api/grid") {
		t.Fatalf("swagger doc: %d", st)
	}
	if st, body := doReq(t, ts.URL, http.MethodGet, "/api/grid", nil); st != http.StatusOK || strings.TrimSpace(string(body)) != "[]" {
		t.Fatalf("empty grid: %d %s", st, string(body))
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func mustJSON(t *testing.T, body []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(body, v); err != nil {
		t.Fatalf("decode %s: %v", string(body), err)
	}
}

func doReq(t *testing.T, baseURL, method, path string, payload any) (int, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b
}
