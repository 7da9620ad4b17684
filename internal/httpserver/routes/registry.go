package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/harbor/internal/httpserver/deps"
	"github.com/MrSnakeDoc/harbor/internal/httpserver/mw"
)

type (
	Registrar func(r chi.Router, d deps.Deps)
	// Guard builds a middleware once the dependencies are known.
	Guard func(d deps.Deps) func(http.Handler) http.Handler
)

type entry struct {
	reg    Registrar
	guards []Guard
}

var registry []entry

// Register a registrar; its routes sit behind every guard given.
func Register(reg Registrar, guards ...Guard) {
	registry = append(registry, entry{reg: reg, guards: guards})
}

// RegisterAll is called once from httpserver.NewRouter.
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, e := range registry {
		if len(e.guards) == 0 {
			e.reg(r, d)
			continue
		}
		mws := make([]func(http.Handler) http.Handler, 0, len(e.guards))
		for _, g := range e.guards {
			mws = append(mws, g(d))
		}
		e.reg(r.With(mws...), d)
	}
}

// networkOnly restricts a route to the allowed client networks.
func networkOnly(d deps.Deps) func(http.Handler) http.Handler {
	return mw.AllowNetworks(d.AllowedCIDRS, d.TrustProxy, d.Logger)
}

// controlPlane adds the Host header check on top of networkOnly.
func controlPlane(d deps.Deps) func(http.Handler) http.Handler {
	return mw.ControlPlane(d.AllowedCIDRS, d.TrustProxy, d.AllowedHosts, d.Logger)
}
