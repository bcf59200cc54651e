package session_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"cinema-api/internal/errs"
	"cinema-api/internal/logger"
	"cinema-api/internal/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Accepts both zero-padded and unpadded dates (2022-09-02 and 2022-9-2).
const dateLayout = "2006-1-2"

var showTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

type SessionService interface {
	List(filter models.SessionFilter) ([]models.SessionListItem, error)
	Detail(id int64) (*models.SessionDetail, error)
	Create(movieID, hallID int64, showTime time.Time) (*models.MovieSession, error)
}

type Handler struct {
	SessionService SessionService
	Logger         *logger.Logger
}

func NewHandler(service SessionService, log *logger.Logger) *Handler {
	return &Handler{SessionService: service, Logger: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/movie_sessions", func(r chi.Router) {
		r.Get("/", h.ListSessions)
		r.Post("/", h.CreateSession)
		r.Get("/{sessionId}", h.GetSession)
	})
}

type createSessionRequest struct {
	Movie      int64  `json:"movie"`
	CinemaHall int64  `json:"cinema_hall"`
	ShowTime   string `json:"show_time"`
}

type createSessionResponse struct {
	ID         int64     `json:"id"`
	Movie      int64     `json:"movie"`
	CinemaHall int64     `json:"cinema_hall"`
	ShowTime   time.Time `json:"show_time"`
}

func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	filter, verr := parseFilter(r.URL.Query())
	if verr != nil {
		h.Logger.Warn("API", fmt.Sprintf("ListSessions: bad filter: %v", verr))
		writeValidationError(w, verr)
		return
	}

	items, err := h.SessionService.List(filter)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListSessions: %v", err))
		writeError(w, http.StatusInternalServerError, "failed to list movie sessions")
		return
	}

	page := paginate(r, items)
	writeJSON(w, http.StatusOK, page)
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "sessionId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Not found.")
		return
	}

	detail, err := h.SessionService.Detail(id)
	if err != nil {
		if errors.Is(err, errs.ErrSessionNotFound) {
			h.Logger.Info("API", fmt.Sprintf("GetSession: session %d not found", id))
			writeError(w, http.StatusNotFound, "Not found.")
			return
		}
		h.Logger.Error("API", fmt.Sprintf("GetSession: %v", err))
		writeError(w, http.StatusInternalServerError, "failed to load movie session")
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warn("API", fmt.Sprintf("CreateSession: bad body: %v", err))
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	showTime, terr := parseShowTime(req.ShowTime)
	if terr != nil {
		writeValidationError(w, terr)
		return
	}

	session, err := h.SessionService.Create(req.Movie, req.CinemaHall, showTime)
	if err != nil {
		var verr *errs.ValidationError
		if errors.As(err, &verr) {
			h.Logger.Warn("API", fmt.Sprintf("CreateSession: %v", verr))
			writeValidationError(w, verr)
			return
		}
		h.Logger.Error("API", fmt.Sprintf("CreateSession: %v", err))
		writeError(w, http.StatusInternalServerError, "failed to create movie session")
		return
	}

	h.Logger.Info("API", fmt.Sprintf("CreateSession: session %d created", session.ID))
	writeJSON(w, http.StatusCreated, createSessionResponse{
		ID:         session.ID,
		Movie:      session.MovieID,
		CinemaHall: session.CinemaHallID,
		ShowTime:   session.ShowTime,
	})
}

// parseFilter turns the query string into a SessionFilter. Values that do not
// parse at all are validation failures; well-formed values that match nothing
// are left to produce an empty result downstream.
func parseFilter(query url.Values) (models.SessionFilter, *errs.ValidationError) {
	var filter models.SessionFilter
	verr := errs.NewValidationError()

	if raw := query.Get("date"); raw != "" {
		date, err := time.Parse(dateLayout, raw)
		if err != nil {
			verr.Add("date", fmt.Sprintf("%q is not a valid calendar date", raw))
		} else {
			filter.Date = &date
		}
	}

	if raw := query.Get("movie"); raw != "" {
		movieID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			verr.Add("movie", fmt.Sprintf("%q is not a valid movie id", raw))
		} else {
			filter.MovieID = &movieID
		}
	}

	if verr.HasErrors() {
		return filter, verr
	}
	return filter, nil
}

func parseShowTime(raw string) (time.Time, *errs.ValidationError) {
	if raw == "" {
		verr := errs.NewValidationError()
		verr.Add("show_time", "a show time is required")
		return time.Time{}, verr
	}
	for _, layout := range showTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	verr := errs.NewValidationError()
	verr.Add("show_time", fmt.Sprintf("%q is not a valid show time", raw))
	return time.Time{}, verr
}

func paginate(r *http.Request, items []models.SessionListItem) models.SessionPage {
	pageNum := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", defaultPageSize)
	if pageNum < 1 {
		pageNum = 1
	}
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	start := (pageNum - 1) * pageSize
	end := start + pageSize
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	page := models.SessionPage{
		Count:   len(items),
		Results: items[start:end],
	}
	if end < len(items) {
		page.Next = pageURL(r, pageNum+1)
	}
	if pageNum > 1 {
		page.Previous = pageURL(r, pageNum-1)
	}
	return page
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func pageURL(r *http.Request, page int) *string {
	u := *r.URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	s := u.String()
	return &s
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeValidationError(w http.ResponseWriter, verr *errs.ValidationError) {
	writeJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": verr.Fields})
}
