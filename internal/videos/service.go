// Package videos implements the recording catalog: size-capped uploads,
// newest-first listing, deletion and thumbnail repair.
package videos

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/screenerhq/screener/internal/core"
	"github.com/screenerhq/screener/internal/domain"
	"github.com/screenerhq/screener/internal/media"
)

type UploadInput struct {
	Title       string
	Description string
	Filename    string
	Size        int64
	UploadedBy  string
	Data        io.Reader
}

type Service struct {
	Store core.VideoStore
	Blobs core.BlobStore
}

func NewService(store core.VideoStore, blobs core.BlobStore) *Service {
	return &Service{Store: store, Blobs: blobs}
}

// Upload stores the blob, derives the thumbnail URL and persists the
// descriptor. A failed persist removes the already-stored blob.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*domain.Video, error) {
	v := &domain.Video{ID: domain.VideoID(uuid.NewString())}
	if err := v.SetTitle(in.Title); err != nil {
		return nil, err
	}

	ext := filepath.Ext(in.Filename)
	if ext == "" {
		ext = ".webm"
	}
	name := string(v.ID) + ext

	url, err := s.Blobs.Save(ctx, name, in.Data)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	v.Description = in.Description
	v.URL = url
	v.Thumbnail = media.ThumbnailURL(url)
	v.PublicID = name
	v.FileSize = in.Size
	v.UploadedBy = in.UploadedBy
	v.CreatedAt = time.Now().UTC()

	if err := s.Store.Put(ctx, v); err != nil {
		if rmErr := s.Blobs.Remove(ctx, name); rmErr != nil {
			log.Warn().Err(rmErr).Str("module", "videos").Str("name", name).Msg("orphaned blob after failed persist")
		}
		return nil, fmt.Errorf("persist video: %w", err)
	}

	log.Info().Str("module", "videos").Str("id", string(v.ID)).Str("title", v.Title).Int64("size", v.FileSize).Msg("video uploaded")
	return v, nil
}

func (s *Service) List(ctx context.Context) ([]*domain.Video, error) {
	return s.Store.List(ctx)
}

func (s *Service) Get(ctx context.Context, id domain.VideoID) (*domain.Video, error) {
	return s.Store.Get(ctx, id)
}

// Delete removes the blob first, then the descriptor.
func (s *Service) Delete(ctx context.Context, id domain.VideoID) error {
	v, err := s.Store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Blobs.Remove(ctx, v.PublicID); err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Str("module", "videos").Str("id", string(id)).Msg("video deleted")
	return nil
}

// FixThumbnails rewrites legacy-format thumbnail URLs to the current
// transform and reports how many descriptors were updated.
func (s *Service) FixThumbnails(ctx context.Context) (int, error) {
	vs, err := s.Store.List(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, v := range vs {
		next, changed := media.UpgradeLegacyThumbnail(v.Thumbnail)
		if !changed {
			continue
		}
		v.Thumbnail = next
		if err := s.Store.Put(ctx, v); err != nil {
			return updated, fmt.Errorf("update thumbnail for %s: %w", v.ID, err)
		}
		updated++
	}
	log.Info().Str("module", "videos").Int("updated", updated).Msg("thumbnails fixed")
	return updated, nil
}
