// Package application holds the process-wide dependency container shared by
// controllers and services.
package application

import (
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/taskwall/taskwall/pkg/eventbus"
	"github.com/taskwall/taskwall/pkg/realtime"
	"github.com/taskwall/taskwall/pkg/tenancy"
)

// Controller registers its routes on the router. Key is the route namespace,
// used for logging and deduplication.
type Controller interface {
	Key() string
	Register(r *mux.Router)
}

type ApplicationOptions struct {
	Pool     *pgxpool.Pool
	Tenants  *tenancy.Registry
	EventBus eventbus.EventBus
	Realtime realtime.Publisher
	Logger   *logrus.Logger
}

type Application struct {
	pool     *pgxpool.Pool
	tenants  *tenancy.Registry
	eventBus eventbus.EventBus
	realtime realtime.Publisher
	logger   *logrus.Logger

	controllers []Controller
	middlewares []mux.MiddlewareFunc
}

func New(opts *ApplicationOptions) *Application {
	return &Application{
		pool:     opts.Pool,
		tenants:  opts.Tenants,
		eventBus: opts.EventBus,
		realtime: opts.Realtime,
		logger:   opts.Logger,
	}
}

func (a *Application) Pool() *pgxpool.Pool          { return a.pool }
func (a *Application) Tenants() *tenancy.Registry   { return a.tenants }
func (a *Application) EventBus() eventbus.EventBus  { return a.eventBus }
func (a *Application) Realtime() realtime.Publisher { return a.realtime }
func (a *Application) Logger() *logrus.Logger       { return a.logger }
func (a *Application) Controllers() []Controller    { return a.controllers }
func (a *Application) Middleware() []mux.MiddlewareFunc {
	return a.middlewares
}

func (a *Application) RegisterControllers(controllers ...Controller) {
	a.controllers = append(a.controllers, controllers...)
}

func (a *Application) RegisterMiddleware(middlewares ...mux.MiddlewareFunc) {
	a.middlewares = append(a.middlewares, middlewares...)
}
