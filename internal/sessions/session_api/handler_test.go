package session_api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"cinema-api/internal/errs"
	"cinema-api/internal/logger"
	"cinema-api/internal/models"
	"cinema-api/internal/sessions/session_api"
)

// MockSessionService simulates the session service for handler tests.
type MockSessionService struct {
	items         []models.SessionListItem
	details       map[int64]*models.SessionDetail
	nextID        int64
	created       []models.MovieSession
	lastFilter    models.SessionFilter
	validationErr *errs.ValidationError
}

func NewMockSessionService() *MockSessionService {
	return &MockSessionService{
		details: make(map[int64]*models.SessionDetail),
		nextID:  1,
	}
}

func (m *MockSessionService) List(filter models.SessionFilter) ([]models.SessionListItem, error) {
	m.lastFilter = filter
	// Simulate conjunctive filtering against the single seeded session.
	for _, item := range m.items {
		if filter.MovieID != nil && *filter.MovieID != 1 {
			return nil, nil
		}
		if filter.Date != nil {
			y, mo, d := filter.Date.Date()
			sy, sm, sd := item.ShowTime.Date()
			if y != sy || mo != sm || d != sd {
				return nil, nil
			}
		}
	}
	return m.items, nil
}

func (m *MockSessionService) Detail(id int64) (*models.SessionDetail, error) {
	detail, exists := m.details[id]
	if !exists {
		return nil, fmt.Errorf("%w: id %d", errs.ErrSessionNotFound, id)
	}
	return detail, nil
}

func (m *MockSessionService) Create(movieID, hallID int64, showTime time.Time) (*models.MovieSession, error) {
	if m.validationErr != nil {
		return nil, m.validationErr
	}
	session := models.MovieSession{
		ID:           m.nextID,
		MovieID:      movieID,
		CinemaHallID: hallID,
		ShowTime:     showTime,
	}
	m.nextID++
	m.created = append(m.created, session)
	return &session, nil
}

func setupRouter(service *MockSessionService) http.Handler {
	handler := session_api.NewHandler(service, logger.NewLogger())
	r := chi.NewRouter()
	r.Route("/api/cinema", handler.RegisterRoutes)
	return r
}

func seedMockService() *MockSessionService {
	service := NewMockSessionService()
	showTime := time.Date(2022, 9, 2, 9, 0, 0, 0, time.UTC)
	service.items = []models.SessionListItem{{
		ID:                 1,
		ShowTime:           showTime,
		MovieTitle:         "Titanic",
		CinemaHallName:     "White",
		CinemaHallCapacity: 140,
		TicketsAvailable:   137,
	}}
	service.details[1] = &models.SessionDetail{
		ID:       1,
		ShowTime: showTime,
		Movie: models.MovieDetail{
			ID:          1,
			Title:       "Titanic",
			Description: "Titanic description",
			Duration:    123,
			Genres:      []string{"Drama", "Comedy"},
			Actors:      []string{"Kate Winslet"},
		},
		CinemaHall: models.HallDetail{
			ID:         1,
			Name:       "White",
			Rows:       10,
			SeatsInRow: 14,
			Capacity:   140,
		},
		TakenPlaces: []models.Place{{Row: 3, Seat: 9}, {Row: 5, Seat: 7}},
	}
	return service
}

func TestListSessionsResponseShape(t *testing.T) {
	router := setupRouter(seedMockService())

	req := httptest.NewRequest(http.MethodGet, "/api/cinema/movie_sessions/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var page models.SessionPage
	err := json.Unmarshal(rec.Body.Bytes(), &page)
	assert.NoError(t, err)
	assert.Equal(t, 1, page.Count)
	assert.Equal(t, 1, len(page.Results))

	item := page.Results[0]
	assert.Equal(t, "Titanic", item.MovieTitle)
	assert.Equal(t, "White", item.CinemaHallName)
	assert.Equal(t, 140, item.CinemaHallCapacity)
	assert.Equal(t, 137, item.TicketsAvailable)
}

func TestListSessionsFilteredByDate(t *testing.T) {
	router := setupRouter(seedMockService())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cinema/movie_sessions/?date=2022-09-02", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	var page models.SessionPage
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Count)

	// Unpadded dates are accepted too.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cinema/movie_sessions/?date=2022-9-2", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Count)

	// A day with no sessions is an empty 200, not an error.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cinema/movie_sessions/?date=2022-09-01", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 0, page.Count)
}

func TestListSessionsFilteredByMovie(t *testing.T) {
	router := setupRouter(seedMockService())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cinema/movie_sessions/?movie=1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	var page models.SessionPage
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Count)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cinema/movie_sessions/?movie=1234", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 0, page.Count)
}

func TestListSessionsCombinedFilters(t *testing.T) {
	router := setupRouter(seedMockService())

	cases := []struct {
		query string
		count int
	}{
		{"?movie=1&date=2022-9-2", 1},
		{"?movie=1234&date=2022-9-2", 0},
		{"?movie=1&date=2022-9-3", 0},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cinema/movie_sessions/"+tc.query, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		var page models.SessionPage
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
		assert.Equal(t, tc.count, page.Count, "query %s", tc.query)
	}
}

func TestListSessionsMalformedFilters(t *testing.T) {
	router := setupRouter(seedMockService())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cinema/movie_sessions/?date=not-a-date", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cinema/movie_sessions/?movie=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSessionDetail(t *testing.T) {
	router := setupRouter(seedMockService())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cinema/movie_sessions/1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var detail map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))

	movie := detail["movie"].(map[string]interface{})
	assert.Equal(t, "Titanic", movie["title"])
	assert.Equal(t, "Titanic description", movie["description"])
	assert.Equal(t, float64(123), movie["duration"])
	assert.Equal(t, []interface{}{"Drama", "Comedy"}, movie["genres"])
	assert.Equal(t, []interface{}{"Kate Winslet"}, movie["actors"])

	hall := detail["cinema_hall"].(map[string]interface{})
	assert.Equal(t, "White", hall["name"])
	assert.Equal(t, float64(10), hall["rows"])
	assert.Equal(t, float64(14), hall["seats_in_row"])
	assert.Equal(t, float64(140), hall["capacity"])

	taken := detail["taken_places"].([]interface{})
	assert.Equal(t, 2, len(taken))
	first := taken[0].(map[string]interface{})
	assert.Equal(t, float64(3), first["row"])
	assert.Equal(t, float64(9), first["seat"])
}

func TestGetSessionNotFound(t *testing.T) {
	router := setupRouter(seedMockService())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cinema/movie_sessions/9999", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateSession(t *testing.T) {
	service := seedMockService()
	router := setupRouter(service)

	body, _ := json.Marshal(map[string]interface{}{
		"movie":       1,
		"cinema_hall": 1,
		"show_time":   "2022-09-05T19:00:00Z",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/cinema/movie_sessions/", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, len(service.created))

	var created map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotZero(t, created["id"])
	assert.Equal(t, float64(1), created["movie"])
	assert.Equal(t, float64(1), created["cinema_hall"])
}

func TestCreateSessionValidationFailure(t *testing.T) {
	service := seedMockService()
	verr := errs.NewValidationError()
	verr.Add("movie", "movie 1234 does not exist")
	service.validationErr = verr
	router := setupRouter(service)

	body, _ := json.Marshal(map[string]interface{}{
		"movie":       1234,
		"cinema_hall": 1,
		"show_time":   "2022-09-05T19:00:00Z",
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cinema/movie_sessions/", bytes.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var response map[string]map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Contains(t, response["errors"], "movie")
}

func TestCreateSessionMissingShowTime(t *testing.T) {
	router := setupRouter(seedMockService())

	body, _ := json.Marshal(map[string]interface{}{"movie": 1, "cinema_hall": 1})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cinema/movie_sessions/", bytes.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListSessionsPagination(t *testing.T) {
	service := NewMockSessionService()
	for i := 1; i <= 25; i++ {
		service.items = append(service.items, models.SessionListItem{
			ID:               int64(i),
			ShowTime:         time.Date(2022, 9, 2, 9, 0, 0, 0, time.UTC),
			MovieTitle:       "Titanic",
			TicketsAvailable: 140,
		})
	}
	router := setupRouter(service)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cinema/movie_sessions/?page_size=10", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var page models.SessionPage
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 25, page.Count)
	assert.Equal(t, 10, len(page.Results))
	assert.NotNil(t, page.Next)
	assert.Nil(t, page.Previous)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cinema/movie_sessions/?page_size=10&page=3", nil))
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 5, len(page.Results))
	assert.Nil(t, page.Next)
	assert.NotNil(t, page.Previous)
}
