package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/harbor/internal/httpserver/deps"
	"github.com/MrSnakeDoc/harbor/internal/httpserver/handlers"
)

func init() { Register(registerImports, controlPlane) }

func registerImports(r chi.Router, d deps.Deps) {
	r.Post("/import", handlers.TriggerImport(d))
	r.Get("/imports", handlers.ListImports(d))
	r.Post("/imports/{bundle}/skip", handlers.SkipImport(d))
	r.Delete("/imports/{bundle}", handlers.ResetImport(d))
}
