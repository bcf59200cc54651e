package db

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"cinema-api/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// ListSessions returns sessions matching the filter, oldest id first. Nil
// filter fields are ignored.
func (d *DB) ListSessions(filter models.SessionFilter) ([]models.MovieSession, error) {
	var sessions []models.MovieSession

	q := d.Bun.NewSelect().Model(&sessions)
	if filter.MovieID != nil {
		q = q.Where("movie_id = ?", *filter.MovieID)
	}
	if filter.Date != nil {
		dayStart := time.Date(
			filter.Date.Year(), filter.Date.Month(), filter.Date.Day(),
			0, 0, 0, 0, filter.Date.Location(),
		)
		q = q.Where("show_time >= ?", dayStart).
			Where("show_time < ?", dayStart.Add(24*time.Hour))
	}

	err := q.Order("id ASC").Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (d *DB) GetSessionByID(id int64) (*models.MovieSession, error) {
	var session models.MovieSession
	err := d.Bun.NewSelect().
		Model(&session).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (d *DB) CreateSession(session *models.MovieSession) error {
	_, err := d.Bun.NewInsert().Model(session).Exec(context.Background())
	return err
}

func (d *DB) CountSessions() (int, error) {
	return d.Bun.NewSelect().
		Model((*models.MovieSession)(nil)).
		Count(context.Background())
}

func (d *DB) GetMovieByID(id int64) (*models.Movie, error) {
	var movie models.Movie
	err := d.Bun.NewSelect().
		Model(&movie).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

func (d *DB) GetHallByID(id int64) (*models.CinemaHall, error) {
	var hall models.CinemaHall
	err := d.Bun.NewSelect().
		Model(&hall).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &hall, nil
}

// GenreNames returns the movie's genre names in the order they were attached.
func (d *DB) GenreNames(movieID int64) ([]string, error) {
	var names []string
	err := d.Bun.NewSelect().
		Model((*models.Genre)(nil)).
		Column("genre.name").
		Join("JOIN movie_genres AS mg ON mg.genre_id = genre.id").
		Where("mg.movie_id = ?", movieID).
		OrderExpr("mg.id ASC").
		Scan(context.Background(), &names)
	if err != nil {
		return nil, err
	}
	return names, nil
}

// ActorNames returns the movie's actors as "First Last" in attachment order.
func (d *DB) ActorNames(movieID int64) ([]string, error) {
	var actors []models.Actor
	err := d.Bun.NewSelect().
		Model(&actors).
		Join("JOIN movie_actors AS ma ON ma.actor_id = actor.id").
		Where("ma.movie_id = ?", movieID).
		OrderExpr("ma.id ASC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(actors))
	for _, a := range actors {
		names = append(names, a.FullName())
	}
	return names, nil
}

func (d *DB) MovieExists(id int64) (bool, error) {
	return d.Bun.NewSelect().
		Model((*models.Movie)(nil)).
		Where("id = ?", id).
		Exists(context.Background())
}

func (d *DB) HallExists(id int64) (bool, error) {
	return d.Bun.NewSelect().
		Model((*models.CinemaHall)(nil)).
		Where("id = ?", id).
		Exists(context.Background())
}
