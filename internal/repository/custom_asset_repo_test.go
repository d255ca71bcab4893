package repository

import (
	"context"
	"testing"

	"melodex/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(
		sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: ":memory:"}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	require.NoError(t, err, "failed to open sqlite db")
	require.NoError(t, AutoMigrate(db))
	return db
}

func seedAsset(t *testing.T, repo *CustomAssetRepository, parentID int64, active bool) *domain.CustomAsset {
	t.Helper()
	a := &domain.CustomAsset{
		ParentKind: domain.KindArtist,
		ParentID:   parentID,
		Slot:       domain.SlotProfile,
		FilePath:   "/assets/custom/x.png",
		FileName:   "x.png",
		FileSize:   100,
		MimeType:   "image/png",
		IsActive:   active,
	}
	require.NoError(t, repo.Create(context.Background(), a))
	return a
}

func TestCustomAssetRepository_ActivateExclusive(t *testing.T) {
	repo := NewCustomAssetRepository(newTestDB(t))
	ctx := context.Background()

	first := seedAsset(t, repo, 7, false)
	second := seedAsset(t, repo, 7, false)
	other := seedAsset(t, repo, 8, false)

	require.NoError(t, repo.ActivateExclusive(ctx, first))
	require.NoError(t, repo.ActivateExclusive(ctx, second))
	require.NoError(t, repo.ActivateExclusive(ctx, other))

	// Only the last activation per parent slot survives.
	active, err := repo.GetActive(ctx, domain.KindArtist, 7, domain.SlotProfile)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, second.ID, active.ID)

	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	// A different parent is untouched by the swap.
	otherActive, err := repo.GetActive(ctx, domain.KindArtist, 8, domain.SlotProfile)
	require.NoError(t, err)
	require.NotNil(t, otherActive)
	assert.Equal(t, other.ID, otherActive.ID)
}

func TestCustomAssetRepository_GetActive_NoneIsNil(t *testing.T) {
	repo := NewCustomAssetRepository(newTestDB(t))

	active, err := repo.GetActive(context.Background(), domain.KindArtist, 7, domain.SlotProfile)
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestCustomAssetRepository_ListByParent_NewestFirst(t *testing.T) {
	repo := NewCustomAssetRepository(newTestDB(t))
	ctx := context.Background()

	seedAsset(t, repo, 7, false)
	seedAsset(t, repo, 7, false)
	seedAsset(t, repo, 8, false)

	assets, err := repo.ListByParent(ctx, domain.KindArtist, 7, domain.SlotProfile)
	require.NoError(t, err)
	assert.Len(t, assets, 2)
}

func TestCustomAssetRepository_ListInactive(t *testing.T) {
	repo := NewCustomAssetRepository(newTestDB(t))
	ctx := context.Background()

	a := seedAsset(t, repo, 7, false)
	b := seedAsset(t, repo, 7, false)
	require.NoError(t, repo.ActivateExclusive(ctx, a))

	inactive, err := repo.ListInactive(ctx)
	require.NoError(t, err)
	require.Len(t, inactive, 1)
	assert.Equal(t, b.ID, inactive[0].ID)
}

func TestArtistRepository_SaveRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewArtistRepository(db)
	ctx := context.Background()

	artist := &domain.Artist{Name: "Burial"}
	require.NoError(t, repo.Create(ctx, artist))
	require.NotZero(t, artist.ID)

	artist.ExternalProfilePath = "/assets/artists/1/profile.jpg"
	artist.ExternalProfileSource = "fanarttv"
	require.NoError(t, repo.Save(ctx, artist))

	got, err := repo.GetByID(ctx, artist.ID)
	require.NoError(t, err)
	assert.Equal(t, "Burial", got.Name)
	assert.Equal(t, "/assets/artists/1/profile.jpg", got.ExternalProfilePath)
	assert.Equal(t, "fanarttv", got.ExternalProfileSource)
	// Unset slots stay empty rather than picking up zero values.
	assert.Empty(t, got.LocalProfilePath)
	assert.Nil(t, got.LocalProfileUpdatedAt)
}

func TestAlbumRepository_ListIDs(t *testing.T) {
	db := newTestDB(t)
	artists := NewArtistRepository(db)
	albums := NewAlbumRepository(db)
	ctx := context.Background()

	artist := &domain.Artist{Name: "Burial"}
	require.NoError(t, artists.Create(ctx, artist))

	for _, title := range []string{"Untrue", "Rival Dealer"} {
		require.NoError(t, albums.Create(ctx, &domain.Album{ArtistID: artist.ID, Title: title}))
	}

	ids, err := albums.ListIDs(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}
