//PUT  /api/v1/submissions/{id}  # Idempotent commit keyed by client-generated ID
//GET  /api/v1/submissions       # List stored submissions
//GET  /api/v1/submissions/{id}  # Get one submission
//GET  /api/v1/forms             # List form definitions
//GET  /api/v1/forms/{id}        # Get one form definition
//GET  /api/v1/health            # Connectivity probe

package api

import (
	formAPI "fieldsync/internal/app/server/api/http/form"
	healthAPI "fieldsync/internal/app/server/api/http/health"
	"fieldsync/internal/app/server/api/http/middleware"
	"fieldsync/internal/app/server/api/http/middleware/logger"
	submissionAPI "fieldsync/internal/app/server/api/http/submission"
	"fieldsync/internal/domain/form"
	"fieldsync/internal/domain/submission"
	"fieldsync/internal/infrastructure/storage/postgres"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"
)

type Handlers struct {
	Health     *healthAPI.Handler
	Submission *submissionAPI.Handler
	Form       *formAPI.Handler
}

// New builds a *chi.Mux with every operation registered through huma.
func New(storage *postgres.Storage, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	config := huma.DefaultConfig("FieldSync API", "1.0.0")

	API := humachi.New(mux, config)

	h := handlers(storage, log)
	h.Health.SetupRoutes(API)
	h.Submission.SetupRoutes(API)
	h.Form.SetupRoutes(API)

	return mux
}

func handlers(storage *postgres.Storage, log *slog.Logger) *Handlers {
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(log, middlewares.GetAllAndClear())

	formRepo := postgres.NewFormRepository(storage.Pool(), log)
	formService := form.NewService(formRepo, log)
	middlewares.Add(loggerMW.Middleware())
	formHandler := formAPI.NewHandler(formService, log, middlewares.GetAllAndClear())

	submissionRepo := postgres.NewSubmissionRepository(storage.Pool(), log)
	submissionService := submission.NewService(submissionRepo, formRepo, log)
	middlewares.Add(loggerMW.Middleware())
	submissionHandler := submissionAPI.NewHandler(submissionService, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health:     healthHandler,
		Submission: submissionHandler,
		Form:       formHandler,
	}
}
