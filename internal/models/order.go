package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Reference string    `bun:"reference,unique,notnull" json:"reference"`
	UserID    int64     `bun:"user_id,notnull" json:"user"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
}

type Ticket struct {
	bun.BaseModel `bun:"table:tickets"`

	ID             int64     `bun:"id,pk,autoincrement" json:"id"`
	OrderID        int64     `bun:"order_id,notnull" json:"order"`
	MovieSessionID int64     `bun:"movie_session_id,notnull" json:"movie_session"`
	Row            int       `bun:"row,notnull" json:"row"`
	Seat           int       `bun:"seat,notnull" json:"seat"`
	QRCode         []byte    `bun:"qr_code" json:"-"`
	IssuedAt       time.Time `bun:"issued_at,notnull" json:"issued_at"`
}

// OrderRequest is the booking payload: one order, one session, explicit places.
type OrderRequest struct {
	MovieSession int64   `json:"movie_session"`
	User         int64   `json:"user"`
	Seats        []Place `json:"seats"`
}

type OrderResponse struct {
	ID           int64     `json:"id"`
	Reference    string    `json:"reference"`
	User         int64     `json:"user"`
	MovieSession int64     `json:"movie_session"`
	Seats        []Place   `json:"seats"`
	CreatedAt    time.Time `json:"created_at"`
}
