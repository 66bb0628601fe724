package videos

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/screenerhq/screener/internal/core"
	"github.com/screenerhq/screener/internal/domain"
)

// memStore is an in-memory core.VideoStore with newest-first listing.
type memStore struct {
	videos map[domain.VideoID]*domain.Video
}

func newMemStore() *memStore {
	return &memStore{videos: make(map[domain.VideoID]*domain.Video)}
}

func (m *memStore) Put(_ context.Context, v *domain.Video) error {
	cp := *v
	m.videos[v.ID] = &cp
	return nil
}

func (m *memStore) Get(_ context.Context, id domain.VideoID) (*domain.Video, error) {
	v, ok := m.videos[id]
	if !ok {
		return nil, core.ErrVideoNotFound
	}
	cp := *v
	return &cp, nil
}

func (m *memStore) List(_ context.Context) ([]*domain.Video, error) {
	out := make([]*domain.Video, 0, len(m.videos))
	for _, v := range m.videos {
		cp := *v
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) Delete(_ context.Context, id domain.VideoID) error {
	delete(m.videos, id)
	return nil
}

// memBlobs records saved blobs by name.
type memBlobs struct {
	blobs   map[string][]byte
	failPut bool
}

func newMemBlobs() *memBlobs {
	return &memBlobs{blobs: make(map[string][]byte)}
}

func (m *memBlobs) Save(_ context.Context, name string, r io.Reader) (string, error) {
	if m.failPut {
		return "", errors.New("blob store down")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.blobs[name] = data
	return "/media/video/upload/" + name, nil
}

func (m *memBlobs) Remove(_ context.Context, name string) error {
	delete(m.blobs, name)
	return nil
}

func TestUploadStoresBlobAndDescriptor(t *testing.T) {
	store, blobs := newMemStore(), newMemBlobs()
	svc := NewService(store, blobs)

	v, err := svc.Upload(context.Background(), UploadInput{
		Title:      "demo recording",
		Filename:   "capture.webm",
		Size:       1024,
		UploadedBy: "tok-1",
		Data:       bytes.NewReader([]byte("fake video bytes")),
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if v.PublicID != string(v.ID)+".webm" {
		t.Errorf("public id: got %q", v.PublicID)
	}
	if _, ok := blobs.blobs[v.PublicID]; !ok {
		t.Error("blob not stored")
	}
	if !strings.Contains(v.Thumbnail, "c_scale,w_400,h_300,f_jpg,so_5/") {
		t.Errorf("thumbnail not derived: %q", v.Thumbnail)
	}
	if v.UploadedBy != "tok-1" || v.FileSize != 1024 {
		t.Errorf("descriptor fields: %+v", v)
	}

	got, err := store.Get(context.Background(), v.ID)
	if err != nil {
		t.Fatalf("descriptor not persisted: %v", err)
	}
	if got.Title != "demo recording" {
		t.Errorf("title: got %q", got.Title)
	}
}

func TestUploadRejectsEmptyTitle(t *testing.T) {
	svc := NewService(newMemStore(), newMemBlobs())
	_, err := svc.Upload(context.Background(), UploadInput{
		Title: "",
		Data:  bytes.NewReader(nil),
	})
	if !errors.Is(err, domain.ErrTitleEmpty) {
		t.Errorf("got %v, want ErrTitleEmpty", err)
	}
}

func TestUploadDefaultsExtension(t *testing.T) {
	blobs := newMemBlobs()
	svc := NewService(newMemStore(), blobs)

	v, err := svc.Upload(context.Background(), UploadInput{
		Title:    "no extension",
		Filename: "blob",
		Data:     bytes.NewReader([]byte("x")),
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !strings.HasSuffix(v.PublicID, ".webm") {
		t.Errorf("public id: got %q, want .webm suffix", v.PublicID)
	}
}

func TestListNewestFirst(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, newMemBlobs())

	base := time.Now().UTC()
	for i, title := range []string{"oldest", "middle", "newest"} {
		store.Put(context.Background(), &domain.Video{
			ID:        domain.VideoID(title),
			Title:     title,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	vs, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(vs) != 3 || vs[0].Title != "newest" || vs[2].Title != "oldest" {
		t.Errorf("order: got %v", []string{vs[0].Title, vs[1].Title, vs[2].Title})
	}
}

func TestDeleteRemovesBlobAndDescriptor(t *testing.T) {
	store, blobs := newMemStore(), newMemBlobs()
	svc := NewService(store, blobs)

	v, err := svc.Upload(context.Background(), UploadInput{
		Title:    "doomed",
		Filename: "x.webm",
		Data:     bytes.NewReader([]byte("x")),
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if err := svc.Delete(context.Background(), v.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := blobs.blobs[v.PublicID]; ok {
		t.Error("blob still present")
	}
	if _, err := svc.Get(context.Background(), v.ID); !errors.Is(err, core.ErrVideoNotFound) {
		t.Errorf("Get after delete: %v, want ErrVideoNotFound", err)
	}
}

func TestDeleteUnknownVideo(t *testing.T) {
	svc := NewService(newMemStore(), newMemBlobs())
	if err := svc.Delete(context.Background(), "ghost"); !errors.Is(err, core.ErrVideoNotFound) {
		t.Errorf("got %v, want ErrVideoNotFound", err)
	}
}

func TestFixThumbnailsUpdatesLegacyOnly(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, newMemBlobs())

	ctx := context.Background()
	store.Put(ctx, &domain.Video{
		ID:        "legacy",
		Thumbnail: "https://host/demo/video/upload/so_0/v1/a.mp4",
		CreatedAt: time.Now(),
	})
	store.Put(ctx, &domain.Video{
		ID:        "current",
		Thumbnail: "https://host/demo/video/upload/c_scale,w_400,h_300,f_jpg,so_5/v1/b.mp4",
		CreatedAt: time.Now(),
	})

	n, err := svc.FixThumbnails(ctx)
	if err != nil {
		t.Fatalf("FixThumbnails: %v", err)
	}
	if n != 1 {
		t.Errorf("updated: got %d, want 1", n)
	}

	fixed, _ := store.Get(ctx, "legacy")
	if strings.Contains(fixed.Thumbnail, "/so_0/") {
		t.Errorf("legacy thumbnail not rewritten: %q", fixed.Thumbnail)
	}
}
