package db

import (
	"context"

	"cinema-api/internal/models"
)

// The ticket ledger: which places are sold for a session, derived from the
// committed ticket rows. Seat-uniqueness is enforced on the order-creation
// path; these queries only reflect what has been committed.

// CountSold returns the number of tickets sold for the session.
func (d *DB) CountSold(sessionID int64) (int, error) {
	return d.Bun.NewSelect().
		Model((*models.Ticket)(nil)).
		Where("movie_session_id = ?", sessionID).
		Count(context.Background())
}

// ListTakenPlaces returns the sold (row, seat) pairs for the session without
// duplicates, sorted by row then seat so the output is deterministic.
func (d *DB) ListTakenPlaces(sessionID int64) ([]models.Place, error) {
	var places []models.Place
	err := d.Bun.NewSelect().
		Model((*models.Ticket)(nil)).
		Column("row", "seat").
		Distinct().
		Where("movie_session_id = ?", sessionID).
		Order("row ASC", "seat ASC").
		Scan(context.Background(), &places)
	if err != nil {
		return nil, err
	}
	return places, nil
}
