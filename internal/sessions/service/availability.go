package sessions

import (
	"fmt"

	"cinema-api/internal/models"
)

// availableCount derives the remaining-seat count for a session:
// hall capacity minus the number of tickets already sold. The booking path
// keeps sold from ever exceeding capacity; if it somehow does, that is an
// integrity problem worth shouting about, not clamping away.
func (s *SessionService) availableCount(session models.MovieSession, hall *models.CinemaHall) (int, error) {
	sold, err := s.DB.CountSold(session.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to count sold tickets for session %d: %w", session.ID, err)
	}

	available := hall.Capacity() - sold
	if available < 0 && s.Logger != nil {
		s.Logger.Error("INTEGRITY", fmt.Sprintf(
			"session %d has %d tickets sold against capacity %d", session.ID, sold, hall.Capacity(),
		))
	}
	return available, nil
}

// takenPlaces exposes the ledger's sold (row, seat) pairs verbatim.
func (s *SessionService) takenPlaces(session models.MovieSession) ([]models.Place, error) {
	places, err := s.DB.ListTakenPlaces(session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list taken places for session %d: %w", session.ID, err)
	}
	if places == nil {
		places = []models.Place{}
	}
	return places, nil
}
