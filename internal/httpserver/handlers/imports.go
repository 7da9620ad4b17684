package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/harbor/internal/httpserver/deps"
	"github.com/MrSnakeDoc/harbor/internal/importer"
	"github.com/MrSnakeDoc/harbor/internal/logger"
	"github.com/MrSnakeDoc/harbor/internal/sources"
)

type importStatus struct {
	Source   string           `json:"source"`
	Name     string           `json:"name"`
	Location string           `json:"location"`
	Imported bool             `json:"imported"`
	Checksum string           `json:"checksum,omitempty"`
	Skipped  bool             `json:"skipped"`
	Last     *importer.Result `json:"last,omitempty"`
}

// TriggerImport asks the scheduler for an immediate run of every source.
func TriggerImport(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case d.ImportTrigger <- struct{}{}:
			d.Logger.Info("manual import triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusAccepted)
			if _, err := w.Write([]byte("✅ Import triggered successfully\n")); err != nil {
				d.Logger.Debug("failed to write response", logger.Error(err))
			}
		default:
			d.Logger.Warn("import already pending",
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusTooManyRequests)
			if _, err := w.Write([]byte("⏳ Import already pending, please wait\n")); err != nil {
				d.Logger.Debug("failed to write response", logger.Error(err))
			}
		}
	}
}

// ListImports reports the stored fact of every source.
func ListImports(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out := make([]importStatus, 0, len(d.Sources))
		for _, src := range d.Sources {
			fact, err := d.Importer.Status(r.Context(), src)
			if err != nil {
				d.Logger.Error("failed to read import status",
					logger.String("source", src.BundleID()),
					logger.Error(err))
				writeError(w, http.StatusInternalServerError, "failed to read import status")
				return
			}
			st := importStatus{
				Source:   src.BundleID(),
				Name:     src.Name(),
				Location: src.Location(),
				Imported: fact.Imported,
				Checksum: fact.Checksum,
				Skipped:  fact.Imported && fact.Checksum == "",
			}
			if d.Results != nil {
				if last, ok := d.Results.LastResult(src.BundleID()); ok {
					st.Last = last
				}
			}
			out = append(out, st)
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// SkipImport marks a source as declined.
func SkipImport(d deps.Deps) http.HandlerFunc {
	return withSource(d, func(w http.ResponseWriter, r *http.Request, src importer.Source) {
		if err := d.Importer.Skip(r.Context(), src); err != nil {
			d.Logger.Error("failed to skip import", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to skip import")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

// ResetImport forgets the fact of a source.
func ResetImport(d deps.Deps) http.HandlerFunc {
	return withSource(d, func(w http.ResponseWriter, r *http.Request, src importer.Source) {
		if err := d.Importer.Reset(r.Context(), src); err != nil {
			d.Logger.Error("failed to reset import", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to reset import")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func withSource(d deps.Deps, next func(http.ResponseWriter, *http.Request, importer.Source)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bundle := chi.URLParam(r, "bundle")
		src, ok := sources.Lookup(d.Sources, bundle)
		if !ok {
			writeError(w, http.StatusNotFound, "unknown source "+bundle)
			return
		}
		next(w, r, src)
	}
}
