package domain

import (
	"errors"
	"time"
)

const MaxTitleLen = 200

var (
	ErrTitleEmpty   = errors.New("title empty")
	ErrTitleTooLong = errors.New("title too long")
)

type VideoID string

// Video is a stored-recording descriptor. URL and Thumbnail point at the
// media host; PublicID is the host-side handle needed for deletion.
type Video struct {
	ID          VideoID   `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url"`
	Thumbnail   string    `json:"thumbnail"`
	PublicID    string    `json:"publicId"`
	Duration    float64   `json:"duration"`
	FileSize    int64     `json:"fileSize"`
	UploadedBy  string    `json:"uploadedBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (v *Video) SetTitle(title string) error {
	if len(title) == 0 {
		return ErrTitleEmpty
	}
	if len(title) > MaxTitleLen {
		return ErrTitleTooLong
	}
	v.Title = title
	return nil
}
