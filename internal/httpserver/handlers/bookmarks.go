package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/harbor/internal/domain"
	"github.com/MrSnakeDoc/harbor/internal/httpserver/deps"
)

// Bookmarks lists the collection in insertion order. ?source= filters by bundle id.
func Bookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all := d.Collection.All()
		source := r.URL.Query().Get("source")
		if source == "" {
			writeJSON(w, http.StatusOK, all)
			return
		}

		filtered := make([]*domain.Bookmark, 0, len(all))
		for _, b := range all {
			if b.Source == source {
				filtered = append(filtered, b)
			}
		}
		writeJSON(w, http.StatusOK, filtered)
	}
}
