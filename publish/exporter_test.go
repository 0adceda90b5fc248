package publish

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"docsite/types"
)

type fakeStore struct {
	mu      sync.Mutex
	objects map[string]string
	types   map[string]string
	putErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string]string{}, types: map[string]string{}}
}

func (f *fakeStore) Put(ctx context.Context, key string, body io.Reader, contentType, cacheControl string) error {
	if f.putErr != nil {
		return f.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = string(data)
	f.types[key] = contentType
	return nil
}

func (f *fakeStore) Exists(ctx context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok, nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func (f *fakeStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func siteData() *types.WebsiteData {
	return &types.WebsiteData{
		ID: "site-1",
		Content: map[string]interface{}{
			"header": map[string]interface{}{"site_name": "Smile Dental Care"},
			"hero":   map[string]interface{}{"title": "Healthy smiles"},
		},
	}
}

func TestPublishUploadsRenderedSite(t *testing.T) {
	store := newFakeStore()
	exp := NewExporter(store)

	dep, err := exp.Publish(context.Background(), siteData())
	if err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	if dep.ID == "" || dep.SiteID != "site-1" {
		t.Fatalf("deployment = %+v", dep)
	}
	if dep.Key != "sites/site-1/index.html" {
		t.Fatalf("Key = %q", dep.Key)
	}

	html, ok := store.objects[dep.Key]
	if !ok {
		t.Fatalf("nothing uploaded at %q", dep.Key)
	}
	if !strings.Contains(html, "Smile Dental Care") {
		t.Fatalf("uploaded document missing site content")
	}
	if ct := store.types[dep.Key]; !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type = %q; want text/html", ct)
	}
}

func TestPublishRequiresSiteID(t *testing.T) {
	exp := NewExporter(newFakeStore())
	if _, err := exp.Publish(context.Background(), &types.WebsiteData{Content: map[string]interface{}{}}); err == nil {
		t.Fatalf("expected error for site without id")
	}
	if _, err := exp.Publish(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil data")
	}
}

func TestPublishSurfacesUploadFailure(t *testing.T) {
	store := newFakeStore()
	store.putErr = errors.New("access denied")
	exp := NewExporter(store)

	if _, err := exp.Publish(context.Background(), siteData()); err == nil {
		t.Fatalf("expected upload failure to surface")
	}
}

func TestUnpublishRemovesDeployment(t *testing.T) {
	store := newFakeStore()
	exp := NewExporter(store)

	if _, err := exp.Publish(context.Background(), siteData()); err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	if err := exp.Unpublish(context.Background(), "site-1"); err != nil {
		t.Fatalf("Unpublish error: %v", err)
	}
	if len(store.objects) != 0 {
		t.Fatalf("objects remain after unpublish: %v", store.objects)
	}
}

func TestExportDirWritesIndexFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	path, err := ExportDir(dir, siteData())
	if err != nil {
		t.Fatalf("ExportDir error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	if !strings.Contains(string(data), "Smile Dental Care") {
		t.Fatalf("exported document missing site content")
	}
}
