package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"dealer_reviews/internal/app"
	"dealer_reviews/internal/domain"
)

const (
	welcomeText  = "Welcome to the Mongoose API"
	maxBodyBytes = 1 << 20

	msgFetchReviews = "Error fetching documents"
	msgFetchDealers = "Error fetching dealers"
	msgInsertReview = "Error inserting review"
)

type Handlers struct {
	S *app.Store
	// InsertLimiter throttles POST /insert_review when set.
	InsertLimiter *rate.Limiter
}

type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(welcomeText))
	})
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Get("/fetchReviews", h.fetchReviews)
	s.mux.Get("/fetchReviews/dealer/{id}", h.fetchDealerReviews)
	s.mux.Get("/fetchDealers", h.fetchDealers)
	s.mux.Get("/fetchDealers/{state}", h.fetchDealersByState)
	s.mux.Get("/fetchDealer/{id}", h.fetchDealer)
	s.mux.With(RateLimit(h.InsertLimiter)).Post("/insert_review", h.insertReview)
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	body := errorBody{Error: msg}
	// only validation failures are safe to echo back
	if errors.Is(err, domain.ErrValidation) {
		body.Detail = err.Error()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("write JSON error response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return "", nil, err
	}
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`, body, nil
}

// writeList sends v as JSON, answering 304 when the client already has it.
func writeList(w http.ResponseWriter, r *http.Request, v any, failMsg string) {
	etag, body, err := calcETagAndBody(v)
	if err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("marshal response failed")
		writeError(w, http.StatusInternalServerError, failMsg, err)
		return
	}
	w.Header().Set("ETag", etag)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("write body failed")
	}
}

// pathID parses the {id} segment; a non-numeric id fails the request like a
// failed query would.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (h *Handlers) fetchReviews(w http.ResponseWriter, r *http.Request) {
	rs, err := h.S.ListReviews(r.Context(), nil)
	if err != nil {
		log.Error().Err(err).Msg("list reviews failed")
		writeError(w, http.StatusInternalServerError, msgFetchReviews, err)
		return
	}
	writeList(w, r, rs, msgFetchReviews)
}

func (h *Handlers) fetchDealerReviews(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		log.Warn().Str("id", chi.URLParam(r, "id")).Msg("dealer id is not a number")
		writeError(w, http.StatusInternalServerError, msgFetchReviews, err)
		return
	}
	rs, err := h.S.ListReviews(r.Context(), &id)
	if err != nil {
		log.Error().Err(err).Int64("dealership", id).Msg("list dealer reviews failed")
		writeError(w, http.StatusInternalServerError, msgFetchReviews, err)
		return
	}
	writeList(w, r, rs, msgFetchReviews)
}

func (h *Handlers) fetchDealers(w http.ResponseWriter, r *http.Request) {
	ds, err := h.S.ListDealerships(r.Context(), domain.DealershipFilter{})
	if err != nil {
		log.Error().Err(err).Msg("list dealers failed")
		writeError(w, http.StatusInternalServerError, msgFetchDealers, err)
		return
	}
	writeList(w, r, ds, msgFetchDealers)
}

func (h *Handlers) fetchDealersByState(w http.ResponseWriter, r *http.Request) {
	state := chi.URLParam(r, "state")
	// chi routes on RawPath when it is set, leaving the param still escaped
	if r.URL.RawPath != "" {
		if s, err := url.PathUnescape(state); err == nil {
			state = s
		}
	}
	ds, err := h.S.ListDealerships(r.Context(), domain.DealershipFilter{State: &state})
	if err != nil {
		log.Error().Err(err).Str("state", state).Msg("list dealers by state failed")
		writeError(w, http.StatusInternalServerError, msgFetchDealers, err)
		return
	}
	writeList(w, r, ds, msgFetchDealers)
}

func (h *Handlers) fetchDealer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		log.Warn().Str("id", chi.URLParam(r, "id")).Msg("dealer id is not a number")
		writeError(w, http.StatusInternalServerError, msgFetchDealers, err)
		return
	}
	ds, err := h.S.GetDealership(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("get dealer failed")
		writeError(w, http.StatusInternalServerError, msgFetchDealers, err)
		return
	}
	writeList(w, r, ds, msgFetchDealers)
}

// insertReview reads the raw body whatever its content type.
func (h *Handlers) insertReview(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		log.Warn().Err(err).Msg("read review body failed")
		writeError(w, http.StatusInternalServerError, msgInsertReview, err)
		return
	}
	rv, err := h.S.InsertReview(r.Context(), body)
	if err != nil {
		ev := log.Error()
		if errors.Is(err, domain.ErrValidation) {
			ev = log.Warn()
		}
		ev.Err(err).Msg("insert review failed")
		writeError(w, http.StatusInternalServerError, msgInsertReview, err)
		return
	}
	log.Info().Int64("id", rv.ID).Int64("dealership", rv.Dealership).Msg("review inserted")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(rv); err != nil {
		log.Error().Err(err).Msg("write insertReview body failed")
	}
}
