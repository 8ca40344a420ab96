// Package server builds the default HTTP server: middleware stack, fallback
// handlers and controller registration.
package server

import (
	"net/http"

	"github.com/taskwall/taskwall/pkg/application"
	"github.com/taskwall/taskwall/pkg/configuration"
	"github.com/taskwall/taskwall/pkg/httpapi"
	"github.com/taskwall/taskwall/pkg/middleware"
	"github.com/taskwall/taskwall/pkg/server"
)

func Default(app *application.Application, conf *configuration.Configuration) *server.HTTPServer {
	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", "resource not found", nil)
	})
	methodNotAllowed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})

	app.RegisterMiddleware(
		middleware.WithLogger(app.Logger()),
		middleware.RequireTenant(app.Tenants(), conf),
	)
	return server.NewHTTPServer(app, notFound, methodNotAllowed)
}
