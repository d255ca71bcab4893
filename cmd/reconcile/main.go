package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"melodex/internal/config"
	"melodex/internal/database"
	"melodex/internal/domain"
	"melodex/internal/modules/artwork"
	"melodex/internal/modules/reconcile"
	"melodex/internal/repository"
)

func main() {
	apply := flag.Bool("apply", false, "remove orphaned files instead of only reporting them")
	kindArg := flag.String("kind", "", "reconcile a single kind (artist or album); default both")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	kinds := []domain.EntityKind{domain.KindArtist, domain.KindAlbum}
	if *kindArg != "" {
		kind, ok := domain.ParseEntityKind(*kindArg)
		if !ok {
			log.Fatalf("invalid kind %q", *kindArg)
		}
		kinds = []domain.EntityKind{kind}
	}

	paths := artwork.NewPathResolver(cfg.StorageRoot, cfg.CoverAlongsideAudio)
	svc := reconcile.NewService(
		repository.NewArtistRepository(db),
		repository.NewAlbumRepository(db),
		repository.NewCustomAssetRepository(db),
		paths,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	for _, kind := range kinds {
		report, err := svc.Reconcile(ctx, kind, !*apply)
		if err != nil {
			log.Fatalf("reconcile %s failed: %v", kind, err)
		}
		log.Printf("reconcile %s completed: dry_run=%v files_removed=%d space_freed=%d inactive_assets=%d errors=%d",
			kind, report.DryRun, report.FilesRemoved, report.SpaceFreedBytes, report.InactiveAssets, len(report.Errors))
		for _, e := range report.Errors {
			log.Printf("  error: %s", e)
		}
	}
}
