package service

import (
	"net/http"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/just-nibble/versioncontrol/internal/backend"
	"github.com/just-nibble/versioncontrol/internal/hooks"
	"github.com/just-nibble/versioncontrol/internal/http/handlers"
	"github.com/just-nibble/versioncontrol/internal/mapper"
	"github.com/just-nibble/versioncontrol/internal/policy"
	"github.com/just-nibble/versioncontrol/internal/repository"
	"github.com/just-nibble/versioncontrol/internal/routes"
	"github.com/just-nibble/versioncontrol/internal/usecases"
)

type Options struct {
	// DefaultBackend is assigned to repositories created without a vcs.
	DefaultBackend string
	// Observers receive entity events in addition to the log and metrics observers.
	Observers []hooks.Observer
	// Policies run after the built-in auth handler policy.
	Policies []policy.WriteAccessPolicy
}

// Service wires the stores, registries and usecases of one database.
type Service struct {
	Backends     *backend.Registry
	Mappers      *mapper.Registry
	AuthHandlers *policy.Handlers
	Dispatcher   *hooks.Dispatcher

	Repositories usecases.RepositoryUsecase
	Accounts     usecases.AccountUsecase
	Operations   usecases.OperationUsecase
	Access       usecases.AccessUsecase

	logger zerolog.Logger
}

func New(db *gorm.DB, opts Options, logger zerolog.Logger) *Service {
	uow := repository.NewGormUnitOfWork(db)
	stores := uow.Stores()

	observers := append([]hooks.Observer{hooks.NewLogObserver(logger), hooks.MetricsObserver{}}, opts.Observers...)

	s := &Service{
		Backends:     backend.NewDefaultRegistry(stores, logger),
		Mappers:      mapper.NewRegistry(stores.Accounts),
		AuthHandlers: policy.NewHandlers(),
		Dispatcher:   hooks.NewDispatcher(logger, observers...),
		logger:       logger,
	}

	s.Repositories = usecases.NewRepositoryUsecase(uow, s.Backends, []policy.AccountAuthorizer{s.AuthHandlers},
		s.Dispatcher, opts.DefaultBackend, logger)
	s.Accounts = usecases.NewAccountUsecase(uow, s.Backends, s.Dispatcher, logger)
	s.Operations = usecases.NewOperationUsecase(uow, s.Backends, s.Mappers, s.Dispatcher, logger)

	policies := append([]policy.WriteAccessPolicy{policy.NewHandlerPolicy(s.AuthHandlers)}, opts.Policies...)
	s.Access = usecases.NewAccessUsecase(uow, s.Repositories, logger, policies...)
	return s
}

// Router exposes the service over HTTP.
func (s *Service) Router() http.Handler {
	return routes.NewRouter(routes.Handlers{
		Repositories: handlers.NewRepositoryHandler(s.Repositories),
		Accounts:     handlers.NewAccountHandler(s.Repositories, s.Accounts, s.Backends),
		Operations:   handlers.NewOperationHandler(s.Repositories, s.Operations, s.Backends),
		Access:       handlers.NewAccessHandler(s.Access),
	}, s.logger)
}
