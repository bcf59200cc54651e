package sessions

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cinema-api/internal/errs"
	"cinema-api/internal/logger"
	"cinema-api/internal/models"
)

type DBLayer interface {
	ListSessions(filter models.SessionFilter) ([]models.MovieSession, error)
	GetSessionByID(id int64) (*models.MovieSession, error)
	CreateSession(session *models.MovieSession) error
	GetMovieByID(id int64) (*models.Movie, error)
	GetHallByID(id int64) (*models.CinemaHall, error)
	GenreNames(movieID int64) ([]string, error)
	ActorNames(movieID int64) ([]string, error)
	MovieExists(id int64) (bool, error)
	HallExists(id int64) (bool, error)
	CountSold(sessionID int64) (int, error)
	ListTakenPlaces(sessionID int64) ([]models.Place, error)
}

type EventPublisher interface {
	PublishSessionCreated(session models.MovieSession) error
}

type SessionService struct {
	DB     DBLayer
	Kafka  EventPublisher
	Logger *logger.Logger
}

func NewSessionService(db DBLayer, kafka EventPublisher, log *logger.Logger) *SessionService {
	return &SessionService{DB: db, Kafka: kafka, Logger: log}
}

// List returns the sessions matching the filter with availability attached.
// A filter that matches nothing is an empty result, never an error.
func (s *SessionService) List(filter models.SessionFilter) ([]models.SessionListItem, error) {
	sessions, err := s.DB.ListSessions(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	movies := make(map[int64]*models.Movie)
	halls := make(map[int64]*models.CinemaHall)

	items := make([]models.SessionListItem, 0, len(sessions))
	for _, session := range sessions {
		hall, ok := halls[session.CinemaHallID]
		if !ok {
			hall, err = s.lookupHall(session)
			if err != nil {
				return nil, err
			}
			halls[session.CinemaHallID] = hall
		}

		movie, ok := movies[session.MovieID]
		if !ok {
			movie, err = s.DB.GetMovieByID(session.MovieID)
			if err != nil {
				return nil, fmt.Errorf("failed to load movie %d for session %d: %w", session.MovieID, session.ID, err)
			}
			movies[session.MovieID] = movie
		}

		available, err := s.availableCount(session, hall)
		if err != nil {
			return nil, err
		}

		items = append(items, models.SessionListItem{
			ID:                 session.ID,
			ShowTime:           session.ShowTime,
			MovieTitle:         movie.Title,
			CinemaHallName:     hall.Name,
			CinemaHallCapacity: hall.Capacity(),
			TicketsAvailable:   available,
		})
	}
	return items, nil
}

// Detail returns the full session view with nested movie and hall plus the
// taken places.
func (s *SessionService) Detail(id int64) (*models.SessionDetail, error) {
	session, err := s.DB.GetSessionByID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: id %d", errs.ErrSessionNotFound, id)
	}

	hall, err := s.lookupHall(*session)
	if err != nil {
		return nil, err
	}

	movie, err := s.DB.GetMovieByID(session.MovieID)
	if err != nil {
		return nil, fmt.Errorf("failed to load movie %d for session %d: %w", session.MovieID, session.ID, err)
	}

	genres, err := s.DB.GenreNames(movie.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load genres for movie %d: %w", movie.ID, err)
	}
	actors, err := s.DB.ActorNames(movie.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load actors for movie %d: %w", movie.ID, err)
	}

	taken, err := s.takenPlaces(*session)
	if err != nil {
		return nil, err
	}

	return &models.SessionDetail{
		ID:       session.ID,
		ShowTime: session.ShowTime,
		Movie: models.MovieDetail{
			ID:          movie.ID,
			Title:       movie.Title,
			Description: movie.Description,
			Duration:    movie.Duration,
			Genres:      genres,
			Actors:      actors,
		},
		CinemaHall: models.HallDetail{
			ID:         hall.ID,
			Name:       hall.Name,
			Rows:       hall.Rows,
			SeatsInRow: hall.SeatsInRow,
			Capacity:   hall.Capacity(),
		},
		TakenPlaces: taken,
	}, nil
}

// Create persists a new session after checking the movie and hall actually
// exist. Referential misses are validation failures, not silent inserts.
func (s *SessionService) Create(movieID, hallID int64, showTime time.Time) (*models.MovieSession, error) {
	verr := errs.NewValidationError()

	if movieID <= 0 {
		verr.Add("movie", "a movie id is required")
	} else if ok, err := s.DB.MovieExists(movieID); err != nil {
		return nil, fmt.Errorf("failed to check movie %d: %w", movieID, err)
	} else if !ok {
		verr.Add("movie", fmt.Sprintf("movie %d does not exist", movieID))
	}

	if hallID <= 0 {
		verr.Add("cinema_hall", "a cinema hall id is required")
	} else if ok, err := s.DB.HallExists(hallID); err != nil {
		return nil, fmt.Errorf("failed to check cinema hall %d: %w", hallID, err)
	} else if !ok {
		verr.Add("cinema_hall", fmt.Sprintf("cinema hall %d does not exist", hallID))
	}

	if showTime.IsZero() {
		verr.Add("show_time", "a show time is required")
	}

	if verr.HasErrors() {
		return nil, verr
	}

	session := &models.MovieSession{
		MovieID:      movieID,
		CinemaHallID: hallID,
		ShowTime:     showTime,
	}
	if err := s.DB.CreateSession(session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if s.Logger != nil {
		s.Logger.LogDatabase("INSERT", "movie_sessions", fmt.Sprintf("session %d created", session.ID))
	}

	if s.Kafka != nil {
		if err := s.Kafka.PublishSessionCreated(*session); err != nil && s.Logger != nil {
			s.Logger.Warn("KAFKA", fmt.Sprintf("failed to publish session created event: %v", err))
		}
	}

	return session, nil
}

func (s *SessionService) lookupHall(session models.MovieSession) (*models.CinemaHall, error) {
	hall, err := s.DB.GetHallByID(session.CinemaHallID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			integrityErr := &errs.MissingHallError{SessionID: session.ID, HallID: session.CinemaHallID}
			if s.Logger != nil {
				s.Logger.Error("INTEGRITY", integrityErr.Error())
			}
			return nil, integrityErr
		}
		return nil, fmt.Errorf("failed to load cinema hall %d: %w", session.CinemaHallID, err)
	}
	return hall, nil
}
