// Command cinema-migrate applies the SQL migrations and can optionally load a
// small sample catalog for local development.
package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"cinema-api/internal/config"
	"cinema-api/internal/database/migrations"
	"cinema-api/internal/models"
)

func main() {
	var (
		down = flag.Bool("down", false, "roll back the most recent migration")
		seed = flag.Bool("seed", false, "load the sample catalog after migrating")
		dir  = flag.String("dir", "./migrations", "migrations directory")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using environment variables")
	}
	cfg := config.Load()

	ctx := context.Background()
	sqldb, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer sqldb.Close()

	if err := sqldb.PingContext(ctx); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	db := bun.NewDB(sqldb, pgdialect.New())

	runner := migrations.NewRunner(db, migrations.Options{MigrationsDir: *dir})

	if *down {
		log.Println("Rolling back most recent migration...")
		if err := runner.Down(); err != nil {
			log.Fatalf("Rollback failed: %v", err)
		}
		log.Println("Done.")
		return
	}

	log.Println("Applying migrations...")
	if err := runner.Up(); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	version, dirty, err := runner.Version()
	if err != nil {
		log.Fatalf("Failed to read schema version: %v", err)
	}
	log.Printf("Schema at version %d (dirty=%v)", version, dirty)

	if *seed {
		log.Println("Seeding sample catalog...")
		if err := seedCatalog(ctx, db); err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
	}
	log.Println("Done.")
}

// seedCatalog loads the minimal fixture used in local development: one movie
// with genres and an actor, one hall, one upcoming session and a user.
func seedCatalog(ctx context.Context, db *bun.DB) error {
	user := models.User{Email: "alice@example.com", FullName: "Alice Wonderland", CreatedAt: time.Now()}
	if _, err := db.NewInsert().Model(&user).Exec(ctx); err != nil {
		return err
	}

	movie := models.Movie{Title: "Titanic", Description: "Titanic description", Duration: 123}
	if _, err := db.NewInsert().Model(&movie).Exec(ctx); err != nil {
		return err
	}

	genres := []models.Genre{{Name: "Drama"}, {Name: "Comedy"}}
	for i := range genres {
		if _, err := db.NewInsert().Model(&genres[i]).Exec(ctx); err != nil {
			return err
		}
		link := models.MovieGenre{MovieID: movie.ID, GenreID: genres[i].ID}
		if _, err := db.NewInsert().Model(&link).Exec(ctx); err != nil {
			return err
		}
	}

	actress := models.Actor{FirstName: "Kate", LastName: "Winslet"}
	if _, err := db.NewInsert().Model(&actress).Exec(ctx); err != nil {
		return err
	}
	link := models.MovieActor{MovieID: movie.ID, ActorID: actress.ID}
	if _, err := db.NewInsert().Model(&link).Exec(ctx); err != nil {
		return err
	}

	hall, err := models.NewCinemaHall("White", 10, 14)
	if err != nil {
		return err
	}
	if _, err := db.NewInsert().Model(hall).Exec(ctx); err != nil {
		return err
	}

	session := models.MovieSession{
		MovieID:      movie.ID,
		CinemaHallID: hall.ID,
		ShowTime:     time.Now().AddDate(0, 0, 7).Truncate(time.Hour),
	}
	if _, err := db.NewInsert().Model(&session).Exec(ctx); err != nil {
		return err
	}
	return nil
}
