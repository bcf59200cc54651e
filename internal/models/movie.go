package models

import (
	"github.com/uptrace/bun"
)

type Genre struct {
	bun.BaseModel `bun:"table:genres,alias:genre"`

	ID   int64  `bun:"id,pk,autoincrement" json:"id"`
	Name string `bun:"name,unique,notnull" json:"name"`
}

type Actor struct {
	bun.BaseModel `bun:"table:actors,alias:actor"`

	ID        int64  `bun:"id,pk,autoincrement" json:"id"`
	FirstName string `bun:"first_name,notnull" json:"first_name"`
	LastName  string `bun:"last_name,notnull" json:"last_name"`
}

func (a *Actor) FullName() string {
	return a.FirstName + " " + a.LastName
}

type Movie struct {
	bun.BaseModel `bun:"table:movies"`

	ID          int64  `bun:"id,pk,autoincrement" json:"id"`
	Title       string `bun:"title,notnull" json:"title"`
	Description string `bun:"description" json:"description"`
	Duration    int    `bun:"duration,notnull" json:"duration"`
}

// MovieGenre and MovieActor are explicit join rows. Their autoincrement ids
// preserve the order in which genres and actors were attached to a movie,
// which is the order the API reports them in.
type MovieGenre struct {
	bun.BaseModel `bun:"table:movie_genres"`

	ID      int64 `bun:"id,pk,autoincrement"`
	MovieID int64 `bun:"movie_id,notnull"`
	GenreID int64 `bun:"genre_id,notnull"`
}

type MovieActor struct {
	bun.BaseModel `bun:"table:movie_actors"`

	ID      int64 `bun:"id,pk,autoincrement"`
	MovieID int64 `bun:"movie_id,notnull"`
	ActorID int64 `bun:"actor_id,notnull"`
}
