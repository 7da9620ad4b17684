package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/harbor/internal/httpserver/deps"
	"github.com/MrSnakeDoc/harbor/internal/httpserver/handlers"
)

func init() { Register(registerBookmarks, controlPlane) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	r.Get("/bookmarks", handlers.Bookmarks(d))
}
