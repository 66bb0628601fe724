package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/screenerhq/screener/internal/core"
	"github.com/screenerhq/screener/internal/domain"
	"github.com/screenerhq/screener/internal/videos"
)

type VideoHandlers struct {
	Svc            *videos.Service
	MaxUploadBytes int64
}

type uploadForm struct {
	Title       string `form:"title" binding:"required,max=200"`
	Description string `form:"description" binding:"omitempty,max=2000"`
}

func (h *VideoHandlers) Upload(c *gin.Context) {
	var form uploadForm
	if err := c.ShouldBind(&form); err != nil {
		log.Warn().Err(err).Str("module", "adapters.http").Msg("upload validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data"})
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}

	if fh.Size > h.MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": "File too large",
			"details": fmt.Sprintf("Maximum file size is %dMB. Your file is %dMB.",
				h.MaxUploadBytes/(1024*1024), fh.Size/(1024*1024)),
		})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return
	}
	defer f.Close()

	v, err := h.Svc.Upload(c.Request.Context(), videos.UploadInput{
		Title:       form.Title,
		Description: form.Description,
		Filename:    fh.Filename,
		Size:        fh.Size,
		UploadedBy:  c.GetString("client_token"),
		Data:        f,
	})
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload video", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"video": gin.H{
			"id":        v.ID,
			"title":     v.Title,
			"url":       v.URL,
			"thumbnail": v.Thumbnail,
		},
	})
}

func (h *VideoHandlers) List(c *gin.Context) {
	vs, err := h.Svc.List(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("list videos failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch videos", "details": err.Error()})
		return
	}
	if vs == nil {
		vs = []*domain.Video{}
	}
	c.JSON(http.StatusOK, gin.H{"videos": vs})
}

func (h *VideoHandlers) Get(c *gin.Context) {
	v, err := h.Svc.Get(c.Request.Context(), domain.VideoID(c.Param("id")))
	if errors.Is(err, core.ErrVideoNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("get video failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch video"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"video": v})
}

func (h *VideoHandlers) Delete(c *gin.Context) {
	err := h.Svc.Delete(c.Request.Context(), domain.VideoID(c.Param("id")))
	if errors.Is(err, core.ErrVideoNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("delete video failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete video"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *VideoHandlers) FixThumbnails(c *gin.Context) {
	n, err := h.Svc.FixThumbnails(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("fix thumbnails failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fix thumbnails", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"updated": n,
		"message": fmt.Sprintf("Updated %d video thumbnails", n),
	})
}
