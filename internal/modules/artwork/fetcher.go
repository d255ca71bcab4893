package artwork

import (
	"context"
	"fmt"
	"image"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	// Decoders for reading image dimensions. Covers, profiles and uploads
	// are jpeg, png or webp.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// Fetcher downloads remote images and commits them to disk atomically. The
// temp file is created inside the destination directory so the final step is
// a same-filesystem rename.
type Fetcher struct {
	client *http.Client
}

func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Download streams sourceURL into destDir and returns the final file path.
//
// When finalName is empty the file is named from its decoded dimensions
// (cover-{w}x{h}.ext), so covers of different resolutions can coexist. A file
// already present under the final name is replaced; differently named
// siblings are left untouched. On any failure the temp file is removed and
// destDir is left as it was.
func (f *Fetcher) Download(ctx context.Context, sourceURL, destDir, finalName string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: unexpected status %d from %s", ErrDownloadFailed, resp.StatusCode, sourceURL)
	}

	ext := extensionFor(resp.Header.Get("Content-Type"), sourceURL)
	return f.commit(destDir, finalName, ext, resp.Body)
}

// SaveUpload writes bytes from r under destDir/finalName using the same
// temp-then-rename path as Download. Used for user uploads, no HTTP involved.
func (f *Fetcher) SaveUpload(destDir, finalName string, r io.Reader) (string, error) {
	if finalName == "" {
		return "", fmt.Errorf("%w: upload requires a file name", ErrInvalidInput)
	}
	return f.commit(destDir, finalName, "", r)
}

// commit writes r to a temp file in destDir and renames it into place. An
// empty finalName triggers dimension-derived naming with the given ext.
func (f *Fetcher) commit(destDir, finalName, ext string, r io.Reader) (finalPath string, err error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create destination dir: %w", err)
	}

	tmp, err := os.CreateTemp(destDir, ".artwork-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	defer func() {
		if err != nil {
			os.Remove(tmpPath)
		}
	}()

	if _, err = io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	if finalName == "" {
		finalName, err = dimensionName(tmpPath, ext)
		if err != nil {
			return "", err
		}
	}

	finalPath = filepath.Join(destDir, finalName)

	// Replace semantics: an existing file under the final name goes away
	// first. A missing file is not an error.
	if err = os.Remove(finalPath); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("remove existing %s: %w", finalName, err)
	}
	if err = os.Rename(tmpPath, finalPath); err != nil {
		return "", fmt.Errorf("rename temp file: %w", err)
	}

	return finalPath, nil
}

// dimensionName decodes just the image header to derive a
// cover-{width}x{height} name.
func dimensionName(path, ext string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open temp file: %w", err)
	}
	defer file.Close()

	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("cover-%dx%d%s", cfg.Width, cfg.Height, ext), nil
}

// extensionFor picks a file extension from the response content type, falling
// back to the URL path and finally to .jpg.
func extensionFor(contentType, sourceURL string) string {
	if contentType != "" {
		if mt, _, err := mime.ParseMediaType(contentType); err == nil {
			switch mt {
			case "image/jpeg":
				return ".jpg"
			case "image/png":
				return ".png"
			case "image/webp":
				return ".webp"
			}
		}
	}

	if u, err := url.Parse(sourceURL); err == nil {
		ext := strings.ToLower(filepath.Ext(u.Path))
		switch ext {
		case ".jpg", ".jpeg":
			return ".jpg"
		case ".png", ".webp":
			return ext
		}
	}

	return ".jpg"
}
