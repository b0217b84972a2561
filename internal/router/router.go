package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "dino-park/docs"
	mem "dino-park/internal/adapters/storage/memory"
	"dino-park/internal/domain/ingest"
	"dino-park/internal/domain/park"
	"dino-park/internal/middleware"
	"dino-park/internal/platform/logger"
	"dino-park/internal/platform/metrics"
)

type Options struct {
	Log     logger.Logger
	Metrics *metrics.Metrics

	// Opcional: si no vienen, in-memory.
	Dinos park.DinoRepository
	Grid  park.GridRepository

	// Opcional: nil deshabilita POST /event (proceso sin gateway).
	Ingest *ingest.Service
}

func NewRouter(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.EchoRequestID)
	r.Use(middleware.RequestLog(log))
	r.Use(middleware.Recover(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", opts.Metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	dinos, grid := opts.Dinos, opts.Grid
	if dinos == nil {
		dinos = mem.NewDinoRepo()
	}
	if grid == nil {
		grid = mem.NewGridRepo()
	}

	park.RegisterRoutes(r, park.NewService(dinos, grid))
	if opts.Ingest != nil {
		ingest.RegisterRoutes(r, opts.Ingest)
	}

	return r
}
