package orders

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cinema-api/internal/errs"
	"cinema-api/internal/logger"
	"cinema-api/internal/models"
	"cinema-api/internal/orders/qr"
)

type DBLayer interface {
	CreateOrderWithTickets(order *models.Order, tickets []models.Ticket) error
	GetOrderByID(id int64) (*models.Order, error)
	GetTicketsByOrder(orderID int64) ([]models.Ticket, error)
	PlaceSold(sessionID int64, row, seat int) (bool, error)
	UserExists(id int64) (bool, error)
}

type SessionLookup interface {
	GetSessionByID(id int64) (*models.MovieSession, error)
	GetHallByID(id int64) (*models.CinemaHall, error)
}

type SeatHolder interface {
	HoldSeats(sessionID int64, places []models.Place, ref string) (bool, error)
	ReleaseSeats(sessionID int64, places []models.Place, ref string) error
}

type EventPublisher interface {
	PublishOrderCreated(order models.Order, tickets []models.Ticket) error
}

// OrderService is the enforcement point for seat uniqueness: the availability
// reader only reflects committed tickets, everything that keeps two buyers off
// one seat happens here.
type OrderService struct {
	DB       DBLayer
	Sessions SessionLookup
	Holds    SeatHolder
	Kafka    EventPublisher
	QR       *qr.QRGenerator
	Logger   *logger.Logger
}

func NewOrderService(db DBLayer, sessions SessionLookup, holds SeatHolder, kafka EventPublisher, qrGen *qr.QRGenerator, log *logger.Logger) *OrderService {
	return &OrderService{DB: db, Sessions: sessions, Holds: holds, Kafka: kafka, QR: qrGen, Logger: log}
}

func (s *OrderService) PlaceOrder(req models.OrderRequest) (*models.OrderResponse, error) {
	verr := errs.NewValidationError()

	if req.User <= 0 {
		verr.Add("user", "a user id is required")
	} else if ok, err := s.DB.UserExists(req.User); err != nil {
		return nil, fmt.Errorf("failed to check user %d: %w", req.User, err)
	} else if !ok {
		verr.Add("user", fmt.Sprintf("user %d does not exist", req.User))
	}

	if len(req.Seats) == 0 {
		verr.Add("seats", "at least one seat is required")
	}

	var session *models.MovieSession
	if req.MovieSession <= 0 {
		verr.Add("movie_session", "a movie session id is required")
	} else {
		var err error
		session, err = s.Sessions.GetSessionByID(req.MovieSession)
		if err != nil {
			verr.Add("movie_session", fmt.Sprintf("movie session %d does not exist", req.MovieSession))
		}
	}

	if verr.HasErrors() {
		return nil, verr
	}

	hall, err := s.Sessions.GetHallByID(session.CinemaHallID)
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

	if err := s.validateSeats(session, hall, req.Seats); err != nil {
		return nil, err
	}

	reference := uuid.New().String()

	held, err := s.Holds.HoldSeats(session.ID, req.Seats, reference)
	if err != nil {
		return nil, fmt.Errorf("seat hold error: %w", err)
	}
	if !held {
		verr := errs.NewValidationError()
		verr.Add("seats", "one or more seats are currently being booked by another customer")
		return nil, verr
	}
	defer func() {
		_ = s.Holds.ReleaseSeats(session.ID, req.Seats, reference)
	}()

	now := time.Now()
	order := &models.Order{
		Reference: reference,
		UserID:    req.User,
		CreatedAt: now,
	}

	tickets := make([]models.Ticket, 0, len(req.Seats))
	for _, place := range req.Seats {
		ticket := models.Ticket{
			MovieSessionID: session.ID,
			Row:            place.Row,
			Seat:           place.Seat,
			IssuedAt:       now,
		}
		if s.QR != nil {
			code, err := s.QR.GenerateEncryptedQR(qr.TicketClaim{
				OrderReference: reference,
				MovieSession:   session.ID,
				Row:            place.Row,
				Seat:           place.Seat,
				IssuedAt:       now,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to generate ticket QR: %w", err)
			}
			ticket.QRCode = code
		}
		tickets = append(tickets, ticket)
	}

	if err := s.DB.CreateOrderWithTickets(order, tickets); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if s.Logger != nil {
		s.Logger.LogDatabase("INSERT", "orders", fmt.Sprintf("order %s committed with %d tickets", reference, len(tickets)))
	}

	if s.Kafka != nil {
		if err := s.Kafka.PublishOrderCreated(*order, tickets); err != nil && s.Logger != nil {
			s.Logger.Warn("KAFKA", fmt.Sprintf("failed to publish order created event: %v", err))
		}
	}

	return orderResponse(order, tickets, session.ID), nil
}

func (s *OrderService) GetOrder(id int64) (*models.OrderResponse, error) {
	order, err := s.DB.GetOrderByID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: id %d", errs.ErrOrderNotFound, id)
	}

	tickets, err := s.DB.GetTicketsByOrder(order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tickets for order %d: %w", order.ID, err)
	}

	var sessionID int64
	if len(tickets) > 0 {
		sessionID = tickets[0].MovieSessionID
	}
	return orderResponse(order, tickets, sessionID), nil
}

// validateSeats rejects out-of-grid places, duplicates within the request and
// places already sold.
func (s *OrderService) validateSeats(session *models.MovieSession, hall *models.CinemaHall, seats []models.Place) error {
	verr := errs.NewValidationError()
	seen := make(map[models.Place]bool, len(seats))

	for i, place := range seats {
		field := fmt.Sprintf("seats[%d]", i)

		if !hall.Contains(place.Row, place.Seat) {
			verr.Add(field, fmt.Sprintf(
				"place (%d, %d) is outside the %dx%d grid of hall %q",
				place.Row, place.Seat, hall.Rows, hall.SeatsInRow, hall.Name,
			))
			continue
		}
		if seen[place] {
			verr.Add(field, fmt.Sprintf("place (%d, %d) appears more than once", place.Row, place.Seat))
			continue
		}
		seen[place] = true

		sold, err := s.DB.PlaceSold(session.ID, place.Row, place.Seat)
		if err != nil {
			return fmt.Errorf("failed to check place (%d, %d): %w", place.Row, place.Seat, err)
		}
		if sold {
			verr.Add(field, fmt.Sprintf("place (%d, %d) is already sold", place.Row, place.Seat))
		}
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

func orderResponse(order *models.Order, tickets []models.Ticket, sessionID int64) *models.OrderResponse {
	seats := make([]models.Place, 0, len(tickets))
	for _, t := range tickets {
		seats = append(seats, models.Place{Row: t.Row, Seat: t.Seat})
	}
	return &models.OrderResponse{
		ID:           order.ID,
		Reference:    order.Reference,
		User:         order.UserID,
		MovieSession: sessionID,
		Seats:        seats,
		CreatedAt:    order.CreatedAt,
	}
}
