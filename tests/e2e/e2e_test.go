package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"
	"time"

	"melodex/internal/cache"
	"melodex/internal/database"
	"melodex/internal/domain"
	"melodex/internal/middleware"
	"melodex/internal/modules/artwork"
	"melodex/internal/modules/reconcile"
	jwtsvc "melodex/internal/pkg/jwt"
	"melodex/internal/realtime"
	"melodex/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type E2ETestSuite struct {
	router      *gin.Engine
	db          *gorm.DB
	jwtService  *jwtsvc.Service
	storageRoot string
	artistID    int64
	albumID     int64
}

type TestResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// memoryCache stands in for redis so the suite has no external dependencies.
type memoryCache struct {
	entries map[string]string
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	c.entries[key] = fmt.Sprint(value)
	return nil
}

func (c *memoryCache) Get(ctx context.Context, key string) (string, error) {
	return c.entries[key], nil
}

func (c *memoryCache) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	// Use in-memory SQLite for testing
	db, err := database.Connect(":memory:")
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, repository.AutoMigrate(db), "Failed to migrate schema")

	artistRepo := repository.NewArtistRepository(db)
	albumRepo := repository.NewAlbumRepository(db)
	assetRepo := repository.NewCustomAssetRepository(db)
	logRepo := repository.NewEnrichmentLogRepository(db)

	storageRoot := t.TempDir()
	paths := artwork.NewPathResolver(storageRoot, false)
	fetcher := artwork.NewFetcher(5 * time.Second)

	images, err := cache.NewImageCache(64)
	require.NoError(t, err)
	invalidator := cache.NewInvalidator(images, &memoryCache{entries: make(map[string]string)})

	hub := realtime.NewHub(realtime.NewLimiter(realtime.DefaultLimit, realtime.DefaultWindowSize))

	artworkService := artwork.NewService(
		artistRepo, albumRepo, assetRepo, logRepo,
		fetcher, paths, invalidator, hub,
	)
	jwtService := jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)

	artworkHandler := artwork.NewHandler(artworkService, images)
	reconcileHandler := reconcile.NewHandler(
		reconcile.NewService(artistRepo, albumRepo, assetRepo, paths),
	)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")

	// Public routes
	artworkHandler.RegisterRoutes(v1)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.JWTAuth(jwtService))
	{
		artworkHandler.RegisterProtectedRoutes(protected)
		reconcileHandler.RegisterRoutes(protected.Group("/admin"))
	}

	// Seed one artist with one album
	ctx := context.Background()
	artist := &domain.Artist{Name: "Burial"}
	require.NoError(t, artistRepo.Create(ctx, artist))
	album := &domain.Album{ArtistID: artist.ID, Title: "Untrue"}
	require.NoError(t, albumRepo.Create(ctx, album))

	return &E2ETestSuite{
		router:      r,
		db:          db,
		jwtService:  jwtService,
		storageRoot: storageRoot,
		artistID:    artist.ID,
		albumID:     album.ID,
	}
}

func (s *E2ETestSuite) token(t *testing.T) string {
	t.Helper()
	token, err := s.jwtService.GenerateToken(42, "curator")
	require.NoError(t, err)
	return token
}

func (s *E2ETestSuite) makeRequest(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}

	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// uploadFile POSTs a multipart image to path with the given mime type.
func (s *E2ETestSuite) uploadFile(t *testing.T, path, fileName, mimeType string, data []byte, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	header.Set("Content-Type", mimeType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) *TestResponse {
	t.Helper()
	var resp TestResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		log.Printf("Failed to parse response. Status: %d, Body: %s", w.Code, w.Body.String())
		t.FailNow()
	}
	return &resp
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

// imageHost serves one image for apply-external calls.
func imageHost(t *testing.T, data []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(data)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestE2E_ExternalImageLifecycle(t *testing.T) {
	s := setupTestSuite(t)
	token := s.token(t)

	imgData := testPNG(t, 8, 8)
	host := imageHost(t, imgData)
	applyPath := fmt.Sprintf("/api/v1/artists/%d/images/profile", s.artistID)

	// Apply an external profile image
	w := s.makeRequest(http.MethodPost, applyPath,
		map[string]interface{}{"url": host.URL, "provider": "fanarttv"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := parseResponse(t, w)
	assert.True(t, resp.Success)
	storedPath, _ := resp.Data["path"].(string)
	require.NotEmpty(t, storedPath)
	assert.FileExists(t, storedPath)
	assert.Equal(t, filepath.Join(s.storageRoot, "artists", fmt.Sprint(s.artistID), "profile.jpg"), storedPath)

	// The public read path serves the downloaded bytes
	w = s.makeRequest(http.MethodGet, applyPath, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, imgData, w.Body.Bytes())

	// Delete the slot
	w = s.makeRequest(http.MethodDelete, applyPath, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NoFileExists(t, storedPath)

	// Nothing left to serve
	w = s.makeRequest(http.MethodGet, applyPath, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestE2E_AlbumCoverDimensionNaming(t *testing.T) {
	s := setupTestSuite(t)
	token := s.token(t)

	host := imageHost(t, testPNG(t, 320, 240))
	applyPath := fmt.Sprintf("/api/v1/albums/%d/images/cover", s.albumID)

	w := s.makeRequest(http.MethodPost, applyPath,
		map[string]interface{}{"url": host.URL, "provider": "coverartarchive"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := parseResponse(t, w)
	storedPath, _ := resp.Data["path"].(string)
	assert.Equal(t, "cover-320x240.png", filepath.Base(storedPath))
	assert.FileExists(t, storedPath)
}

func TestE2E_ApplyExternalRequiresAuth(t *testing.T) {
	s := setupTestSuite(t)

	w := s.makeRequest(http.MethodPost,
		fmt.Sprintf("/api/v1/artists/%d/images/profile", s.artistID),
		map[string]interface{}{"url": "http://img.example/x.jpg", "provider": "fanarttv"}, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestE2E_InvalidSlotRejected(t *testing.T) {
	s := setupTestSuite(t)
	token := s.token(t)

	// Artists have no cover slot
	w := s.makeRequest(http.MethodPost,
		fmt.Sprintf("/api/v1/artists/%d/images/cover", s.artistID),
		map[string]interface{}{"url": "http://img.example/x.jpg", "provider": "fanarttv"}, token)

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := parseResponse(t, w)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

func TestE2E_MalformedApplyBodyCarriesDetails(t *testing.T) {
	s := setupTestSuite(t)
	token := s.token(t)

	// Missing provider fails binding; the binding error rides in details.
	w := s.makeRequest(http.MethodPost,
		fmt.Sprintf("/api/v1/artists/%d/images/profile", s.artistID),
		map[string]interface{}{"url": "http://img.example/x.jpg"}, token)

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := parseResponse(t, w)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
	assert.NotEmpty(t, resp.Error.Details)
}

func TestE2E_DownloadFailureLeavesNoState(t *testing.T) {
	s := setupTestSuite(t)
	token := s.token(t)

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer failing.Close()

	applyPath := fmt.Sprintf("/api/v1/artists/%d/images/profile", s.artistID)
	w := s.makeRequest(http.MethodPost, applyPath,
		map[string]interface{}{"url": failing.URL, "provider": "fanarttv"}, token)

	require.Equal(t, http.StatusBadGateway, w.Code)
	resp := parseResponse(t, w)
	assert.Equal(t, "DOWNLOAD_FAILED", resp.Error.Code)

	// Failed download never left a pointer behind
	w = s.makeRequest(http.MethodGet, applyPath, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestE2E_CustomAssetFlow(t *testing.T) {
	s := setupTestSuite(t)
	token := s.token(t)

	slotPath := fmt.Sprintf("/api/v1/artists/%d/images/profile", s.artistID)
	first := testPNG(t, 10, 10)
	second := testPNG(t, 20, 20)

	// Upload two custom images; both start inactive
	w := s.uploadFile(t, slotPath+"/custom", "one.png", "image/png", first, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := parseResponse(t, w)
	firstID := int64(resp.Data["id"].(float64))
	assert.False(t, resp.Data["is_active"].(bool))

	w = s.uploadFile(t, slotPath+"/custom", "two.png", "image/png", second, token)
	require.Equal(t, http.StatusCreated, w.Code)
	secondID := int64(parseResponse(t, w).Data["id"].(float64))

	// No active asset yet, nothing to serve
	w = s.makeRequest(http.MethodGet, slotPath, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Activate the first upload
	w = s.makeRequest(http.MethodPost, fmt.Sprintf("/api/v1/custom-assets/%d/apply", firstID), nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.makeRequest(http.MethodGet, slotPath, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, first, w.Body.Bytes())

	// Activating the second deactivates the first
	w = s.makeRequest(http.MethodPost, fmt.Sprintf("/api/v1/custom-assets/%d/apply", secondID), nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.makeRequest(http.MethodGet, slotPath, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, second, w.Body.Bytes())

	// At most one active asset in the listing
	w = s.makeRequest(http.MethodGet, slotPath+"/custom", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var listResp struct {
		Data struct {
			Assets []domain.CustomAsset `json:"assets"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	require.Len(t, listResp.Data.Assets, 2)
	active := 0
	for _, a := range listResp.Data.Assets {
		if a.IsActive {
			active++
			assert.Equal(t, secondID, a.ID)
		}
	}
	assert.Equal(t, 1, active)

	// Deleting the active asset clears the display
	w = s.makeRequest(http.MethodDelete, fmt.Sprintf("/api/v1/custom-assets/%d", secondID), nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.makeRequest(http.MethodGet, slotPath, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestE2E_CustomUploadRejectsBadMime(t *testing.T) {
	s := setupTestSuite(t)
	token := s.token(t)

	w := s.uploadFile(t,
		fmt.Sprintf("/api/v1/artists/%d/images/profile/custom", s.artistID),
		"anim.gif", "image/gif", []byte("GIF89a"), token)

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := parseResponse(t, w)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

func TestE2E_Reconcile(t *testing.T) {
	s := setupTestSuite(t)
	token := s.token(t)

	// A directory for an artist id the database does not know
	orphan := filepath.Join(s.storageRoot, "artists", "99999")
	require.NoError(t, os.MkdirAll(orphan, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(orphan, "profile.jpg"), make([]byte, 512), 0o644))

	// Dry run reports the orphan but leaves it alone
	w := s.makeRequest(http.MethodPost, "/api/v1/admin/reconcile?kind=artist", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := parseResponse(t, w)
	assert.Equal(t, true, resp.Data["dry_run"])
	assert.Equal(t, float64(1), resp.Data["files_removed"])
	assert.Equal(t, float64(512), resp.Data["space_freed_bytes"])
	assert.DirExists(t, orphan)

	// Apply removes it
	w = s.makeRequest(http.MethodPost, "/api/v1/admin/reconcile?kind=artist&apply=true", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NoDirExists(t, orphan)

	// A second apply finds nothing
	w = s.makeRequest(http.MethodPost, "/api/v1/admin/reconcile?kind=artist&apply=true", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	resp = parseResponse(t, w)
	assert.Equal(t, float64(0), resp.Data["files_removed"])
}

func TestE2E_EnrichmentLogWritten(t *testing.T) {
	s := setupTestSuite(t)
	token := s.token(t)

	host := imageHost(t, testPNG(t, 8, 8))
	w := s.makeRequest(http.MethodPost,
		fmt.Sprintf("/api/v1/artists/%d/images/banner", s.artistID),
		map[string]interface{}{"url": host.URL, "provider": "fanarttv"}, token)
	require.Equal(t, http.StatusOK, w.Code)

	logs, err := repository.NewEnrichmentLogRepository(s.db).ListByEntity(context.Background(), domain.KindArtist, s.artistID, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.EnrichmentSuccess, logs[0].Status)
	assert.Equal(t, "fanarttv", logs[0].Provider)
	assert.Equal(t, "banner.external,banner.local", logs[0].FieldsUpdated)
}
