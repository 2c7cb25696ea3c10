package router

import (
	"net/http"

	_ "pet-ledger/docs"
	"pet-ledger/internal/domain/pets"
	"pet-ledger/internal/middleware"
	"pet-ledger/internal/platform/logger"
	"pet-ledger/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Pets es obligatorio; main decide el storage (memory, postgres o sqlite).
	Pets *pets.Service

	Logger logger.Logger // opcional
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))
	r.Use(middleware.RequestLog(log.With(map[string]any{"component": "http"})))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	pets.RegisterRoutes(r, opts.Pets)

	return r
}
