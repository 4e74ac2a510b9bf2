package images

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/castsite/feedimport/app/store"
)

// AssetStore is the one store operation the pipeline needs.
type AssetStore interface {
	UploadAsset(ctx context.Context, data []byte, filename string) (string, error)
}

// Uploader re-hosts an image: it downloads the binary from an arbitrary URL
// and uploads it to the content store's asset endpoint. Failures propagate
// to the caller; the importer decides whether they are fatal.
type Uploader struct {
	store     AssetStore
	client    *http.Client
	userAgent string
}

func NewUploader(assetStore AssetStore, userAgent string) *Uploader {
	return &Uploader{
		store:     assetStore,
		userAgent: userAgent,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// UploadFromURL fetches the binary at rawURL and uploads it to the store,
// returning a reference usable by document image fields. When filename is
// empty one is derived from the URL path, defaulting the extension to jpg.
func (u *Uploader) UploadFromURL(ctx context.Context, rawURL, filename string) (store.ImageRef, error) {
	data, err := u.fetch(ctx, rawURL)
	if err != nil {
		return store.ImageRef{}, fmt.Errorf("failed to download image %s: %w", rawURL, err)
	}

	if filename == "" {
		filename = inferFilename(rawURL)
	}

	assetID, err := u.store.UploadAsset(ctx, data, filename)
	if err != nil {
		return store.ImageRef{}, fmt.Errorf("failed to upload image %s: %w", filename, err)
	}

	return store.NewImageRef(assetID), nil
}

func (u *Uploader) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if u.userAgent != "" {
		req.Header.Set("User-Agent", u.userAgent)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	return data, nil
}

func inferFilename(rawURL string) string {
	name := "cover"
	extension := "jpg"

	if parsed, err := url.Parse(rawURL); err == nil {
		base := path.Base(parsed.Path)
		if ext := strings.TrimPrefix(path.Ext(base), "."); ext != "" {
			extension = ext
			name = strings.TrimSuffix(base, path.Ext(base))
		} else if base != "" && base != "." && base != "/" {
			name = base
		}
	}

	return name + "." + extension
}
