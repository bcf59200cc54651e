package db

import (
	"context"

	"github.com/uptrace/bun"

	"cinema-api/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// CreateOrderWithTickets inserts the order and all of its tickets in one
// transaction so a concurrent reader never observes a partially written order.
func (d *DB) CreateOrderWithTickets(order *models.Order, tickets []models.Ticket) error {
	ctx := context.Background()
	return d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(order).Exec(ctx); err != nil {
			return err
		}
		for i := range tickets {
			tickets[i].OrderID = order.ID
			if _, err := tx.NewInsert().Model(&tickets[i]).Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}

func (d *DB) GetOrderByID(id int64) (*models.Order, error) {
	var order models.Order
	err := d.Bun.NewSelect().
		Model(&order).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (d *DB) GetTicketsByOrder(orderID int64) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := d.Bun.NewSelect().
		Model(&tickets).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

// PlaceSold reports whether a ticket already exists for the (session, row,
// seat) triple.
func (d *DB) PlaceSold(sessionID int64, row, seat int) (bool, error) {
	return d.Bun.NewSelect().
		Model((*models.Ticket)(nil)).
		Where("movie_session_id = ?", sessionID).
		Where("? = ?", bun.Ident("row"), row).
		Where("seat = ?", seat).
		Exists(context.Background())
}

func (d *DB) UserExists(id int64) (bool, error) {
	return d.Bun.NewSelect().
		Model((*models.User)(nil)).
		Where("id = ?", id).
		Exists(context.Background())
}
