package routes

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/just-nibble/versioncontrol/internal/http/handlers"
)

type Handlers struct {
	Repositories *handlers.RepositoryHandler
	Accounts     *handlers.AccountHandler
	Operations   *handlers.OperationHandler
	Access       *handlers.AccessHandler
}

func NewRouter(h Handlers, logger zerolog.Logger) http.Handler {
	router := http.NewServeMux()

	router.HandleFunc("POST /repositories", h.Repositories.AddRepository)
	router.HandleFunc("GET /repositories", h.Repositories.FetchAllRepositories)
	router.HandleFunc("GET /repositories/{id}", h.Repositories.FetchRepository)
	router.HandleFunc("PUT /repositories/{id}", h.Repositories.UpdateRepository)
	router.HandleFunc("DELETE /repositories/{id}", h.Repositories.DeleteRepository)

	router.HandleFunc("GET /repositories/{id}/accounts", h.Accounts.FetchAccounts)
	router.HandleFunc("POST /repositories/{id}/accounts", h.Accounts.AddAccount)
	router.HandleFunc("PUT /repositories/{id}/accounts/{uid}", h.Accounts.RenameAccount)
	router.HandleFunc("DELETE /repositories/{id}/accounts/{uid}", h.Accounts.DeleteAccount)

	router.HandleFunc("GET /repositories/{id}/operations", h.Operations.FetchOperations)
	router.HandleFunc("POST /repositories/{id}/operations", h.Operations.AddOperation)
	router.HandleFunc("GET /operations/{id}", h.Operations.FetchOperation)
	router.HandleFunc("DELETE /operations/{id}", h.Operations.DeleteOperation)
	router.HandleFunc("PUT /operations/{id}/labels", h.Operations.UpdateLabels)
	router.HandleFunc("GET /operations/{id}/revision", h.Operations.FormatRevision)

	router.HandleFunc("POST /repositories/{id}/access-check", h.Access.CheckAccess)

	router.Handle("GET /metrics", promhttp.Handler())
	// Serve Swagger documentation
	router.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	return RequestLogger(logger)(router)
}
