package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Email     string    `bun:"email,unique,notnull" json:"email"`
	FullName  string    `bun:"full_name,notnull" json:"full_name"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
}
