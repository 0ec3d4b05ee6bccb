package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/tarungka/streamsx/internal/history"
	"github.com/tarungka/streamsx/submit"
)

const defaultListLimit = 50

func SubmissionsRouter(j Journal, log zerolog.Logger) chi.Router {
	router := chi.NewRouter()

	router.Get("/", listSubmissions(j, log))
	router.Get("/{id}", getSubmission(j, log))

	return router
}

func listSubmissions(j Journal, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultListLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				SendResponseWithHeader(w, false, nil, "limit must be a non-negative integer", http.StatusBadRequest, nil)
				return
			}
			limit = n
		}

		records, err := j.List(limit)
		if err != nil {
			log.Err(err).Msg("Error when listing submissions")
			SendResponseWithHeader(w, false, nil, err.Error(), http.StatusInternalServerError, nil)
			return
		}

		out := make([]SubmissionModel, 0, len(records))
		for _, rec := range records {
			out = append(out, newSubmissionModel(rec))
		}
		SendResponse(w, true, out, "")
	}
}

func getSubmission(j Journal, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		rec, err := j.Get(id)
		switch {
		case errors.Is(err, history.ErrNotFound):
			SendResponseWithHeader(w, false, nil, err.Error(), http.StatusNotFound, nil)
			return
		case err != nil:
			log.Err(err).Str("id", id).Msg("Error when reading submission")
			SendResponseWithHeader(w, false, nil, err.Error(), http.StatusInternalServerError, nil)
			return
		}
		SendResponse(w, true, newSubmissionModel(rec), "")
	}
}

func listContexts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		SendResponse(w, true, submit.ContextTypes(), "")
	}
}
