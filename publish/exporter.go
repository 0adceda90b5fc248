package publish

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"docsite/preview"
	"docsite/types"
)

// Deployment describes one published copy of a site
type Deployment struct {
	ID          string    `json:"id"`
	SiteID      string    `json:"site_id"`
	Key         string    `json:"key"`
	PublishedAt time.Time `json:"published_at"`
}

// Exporter renders a website to static HTML and publishes it to an object
// store under sites/<siteID>/, keeping one deployment record per upload
type Exporter struct {
	store ObjectStore
}

// NewExporter creates an exporter over an object store
func NewExporter(store ObjectStore) *Exporter {
	return &Exporter{store: store}
}

// Publish renders the site and uploads it as sites/<siteID>/index.html,
// overwriting any previous deployment of the same site
func (e *Exporter) Publish(ctx context.Context, data *types.WebsiteData) (*Deployment, error) {
	if data == nil || data.ID == "" {
		return nil, fmt.Errorf("cannot publish a website without an id")
	}

	html, err := preview.Render(data)
	if err != nil {
		return nil, fmt.Errorf("failed to render site for publishing: %w", err)
	}

	key := siteKey(data.ID)
	if exists, err := e.store.Exists(ctx, key); err == nil && exists {
		log.Printf("publish: replacing existing deployment for site %s", data.ID)
	}

	err = e.store.Put(ctx, key, strings.NewReader(html),
		"text/html; charset=utf-8", "public, max-age=60")
	if err != nil {
		return nil, fmt.Errorf("failed to upload site %s: %w", data.ID, err)
	}

	return &Deployment{
		ID:          uuid.NewString(),
		SiteID:      data.ID,
		Key:         key,
		PublishedAt: time.Now(),
	}, nil
}

// Unpublish removes every object under the site's prefix
func (e *Exporter) Unpublish(ctx context.Context, siteID string) error {
	keys, err := e.store.ListKeys(ctx, sitePrefix(siteID))
	if err != nil {
		return fmt.Errorf("failed to list deployment of site %s: %w", siteID, err)
	}
	for _, key := range keys {
		if err := e.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("failed to remove %s: %w", key, err)
		}
	}
	return nil
}

// ExportDir writes the rendered site to a local directory instead of the
// object store, for offline inspection
func ExportDir(dir string, data *types.WebsiteData) (string, error) {
	html, err := preview.Render(data)
	if err != nil {
		return "", fmt.Errorf("failed to render site for export: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(dir, "index.html")
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}

func sitePrefix(siteID string) string {
	return "sites/" + siteID + "/"
}

func siteKey(siteID string) string {
	return sitePrefix(siteID) + "index.html"
}
