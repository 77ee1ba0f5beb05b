package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/reorder"
	"github.com/desertthunder/marquee/internal/shared"
)

const maxBodyBytes = 1 << 20

type moviesResponse struct {
	Movies       []models.Movie `json:"movies"`
	Genres       []string       `json:"genres"`
	FilterActive bool           `json:"filterActive"`
	Total        int            `json:"total"`
}

type reorderRequest struct {
	Moved  string `json:"moved"`
	Target string `json:"target"`
}

type filterRequest struct {
	Genres []string `json:"genres"`
}

type addRequest struct {
	ID string `json:"id"`
}

type statusResponse struct {
	State        string    `json:"state"`
	QueueLength  int       `json:"queueLength"`
	RequestCount int       `json:"requestCount"`
	Processing   bool      `json:"processing"`
	WindowEnd    time.Time `json:"windowEnd,omitzero"`
	Movies       int       `json:"movies"`
	Language     string    `json:"language"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleListMovies returns the current view. A genre query (repeatable or comma separated)
// filters the response without changing the list's own filter.
func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	list := s.engine.List()

	genres := queryGenres(r)
	if len(genres) == 0 {
		writeJSON(w, http.StatusOK, s.viewResponse())
		return
	}

	movies := reorder.Filter(list.Movies(), func(m models.Movie) bool { return m.HasAnyGenre(genres...) })
	writeJSON(w, http.StatusOK, moviesResponse{Movies: movies, Genres: genres, FilterActive: true, Total: list.Len()})
}

func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	m, ok := s.engine.List().Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("%w: %s", shared.ErrMovieNotFound, id))
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleAddMovie(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.ID) == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: id", shared.ErrMissingArgument))
		return
	}

	m, err := s.engine.AddMovie(r.Context(), req.ID)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleSetFilter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.engine.List().SetGenres(req.Genres...)
	writeJSON(w, http.StatusOK, s.viewResponse())
}

func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Moved == "" || req.Target == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: moved and target", shared.ErrMissingArgument))
		return
	}

	if _, err := s.engine.Reorder(r.Context(), req.Moved, req.Target); err != nil {
		if !errors.Is(err, shared.ErrNotSynced) {
			writeError(w, statusFor(err), err)
			return
		}
		s.logger.Warn("reorder not synced", "moved", req.Moved, "error", err)
	}
	writeJSON(w, http.StatusOK, s.viewResponse())
}

func (s *Server) handleEditMovie(w http.ResponseWriter, r *http.Request) {
	var m models.Movie
	if err := decodeJSON(w, r, &m); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	m.ID = r.PathValue("id")

	resp, err := s.engine.Edit(r.Context(), m)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if resp == nil {
		resp = &models.BackendResponse{Status: http.StatusOK, Success: true, Message: "saved locally"}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteMovie(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	removed, err := s.engine.Delete(r.Context(), id)
	if err != nil && !errors.Is(err, shared.ErrNotSynced) {
		writeError(w, statusFor(err), err)
		return
	}
	if err != nil {
		s.logger.Warn("delete not synced", "id", id, "error", err)
	}
	writeJSON(w, http.StatusOK, removed)
}

func (s *Server) handleSaveAll(w http.ResponseWriter, r *http.Request) {
	resp, err := s.engine.SaveAll(r.Context(), nil)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		State:    "idle",
		Movies:   s.engine.List().Len(),
		Language: s.engine.Language(),
	}
	if s.status != nil {
		st := s.status.Status()
		resp.State = st.State.String()
		resp.QueueLength = st.QueueLength
		resp.RequestCount = st.RequestCount
		resp.Processing = st.Processing
		resp.WindowEnd = st.WindowEnd
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) viewResponse() moviesResponse {
	list := s.engine.List()
	return moviesResponse{
		Movies:       list.View(),
		Genres:       list.Genres(),
		FilterActive: list.FilterActive(),
		Total:        list.Len(),
	}
}

func queryGenres(r *http.Request) []string {
	var genres []string
	for _, v := range r.URL.Query()["genre"] {
		for g := range strings.SplitSeq(v, ",") {
			if g = strings.TrimSpace(g); g != "" {
				genres = append(genres, g)
			}
		}
	}
	return genres
}

// statusFor maps shared sentinels onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrMovieNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrDuplicateMovie):
		return http.StatusConflict
	case errors.Is(err, shared.ErrInvalidMovie), errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrInvalidArgument), errors.Is(err, shared.ErrMissingArgument):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, shared.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, shared.ErrAPIRequest):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := shared.MarshalJSON(v, false)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
