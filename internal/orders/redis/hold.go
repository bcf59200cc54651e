package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"cinema-api/internal/models"
)

// Holder puts short-lived SetNX holds on (session, row, seat) triples while an
// order commits, so two requests racing for the same place cannot both reach
// the insert. The committed ticket rows are the durable record; a hold only
// covers the commit window and expires on its own if the process dies.
type Holder struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewHolder(client *redis.Client, ttl time.Duration) *Holder {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Holder{Client: client, TTL: ttl}
}

func holdKey(sessionID int64, place models.Place) string {
	return fmt.Sprintf("seat_hold:%d:%d:%d", sessionID, place.Row, place.Seat)
}

// HoldSeats takes holds on every place, all or nothing. On any conflict or
// error the holds taken so far are released.
func (h *Holder) HoldSeats(sessionID int64, places []models.Place, ref string) (bool, error) {
	held := make([]models.Place, 0, len(places))
	for _, place := range places {
		ok, err := h.Client.SetNX(context.Background(), holdKey(sessionID, place), ref, h.TTL).Result()
		if err != nil {
			_ = h.ReleaseSeats(sessionID, held, ref)
			return false, err
		}
		if !ok {
			_ = h.ReleaseSeats(sessionID, held, ref)
			return false, nil
		}
		held = append(held, place)
	}
	return true, nil
}

// ReleaseSeats drops the holds owned by ref. Holds owned by someone else are
// left alone.
func (h *Holder) ReleaseSeats(sessionID int64, places []models.Place, ref string) error {
	ctx := context.Background()
	var firstErr error
	for _, place := range places {
		key := holdKey(sessionID, place)
		val, err := h.Client.Get(ctx, key).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if val == ref {
			if _, err := h.Client.Del(ctx, key).Result(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
