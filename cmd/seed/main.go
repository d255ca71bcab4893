package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"melodex/internal/database"
	"melodex/internal/domain"
	"melodex/internal/repository"
)

type seedArtist struct {
	name   string
	albums []string
}

var seedData = []seedArtist{
	{name: "Boards of Canada", albums: []string{"Music Has the Right to Children", "Geogaddi"}},
	{name: "Aphex Twin", albums: []string{"Selected Ambient Works 85-92", "Drukqs"}},
	{name: "Burial", albums: []string{"Untrue"}},
	{name: "Autechre", albums: []string{"Tri Repetae", "LP5"}},
}

// Development seed. Wipes and repopulates the catalog tables so the image
// endpoints have entities to attach assets to.
func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "melodex.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (children first to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM enrichment_logs")
	db.Exec("DELETE FROM custom_assets")
	db.Exec("DELETE FROM albums")
	db.Exec("DELETE FROM artists")

	artistRepo := repository.NewArtistRepository(db)
	albumRepo := repository.NewAlbumRepository(db)
	ctx := context.Background()

	log.Println("Creating artists and albums...")
	artists, albums := 0, 0
	for _, sa := range seedData {
		artist := &domain.Artist{Name: sa.name}
		if err := artistRepo.Create(ctx, artist); err != nil {
			log.Fatalf("inserting artist %q: %v", sa.name, err)
		}
		artists++

		for _, title := range sa.albums {
			album := &domain.Album{ArtistID: artist.ID, Title: title}
			if err := albumRepo.Create(ctx, album); err != nil {
				log.Fatalf("inserting album %q: %v", title, err)
			}
			albums++
		}
	}

	log.Printf("seed completed: artists=%d albums=%d", artists, albums)
}
