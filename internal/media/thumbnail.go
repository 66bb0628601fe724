// Package media reproduces the hosting provider's URL conventions for
// derived assets. Thumbnails are the video URL with a transformation
// segment spliced in after the upload prefix.
package media

import "strings"

const (
	uploadPrefix = "/video/upload/"

	// 400x300 JPEG frame grabbed five seconds in.
	thumbTransform = "c_scale,w_400,h_300,f_jpg,so_5/"

	// Transform used by early uploads: a frame at second zero, full size.
	legacyTransform = "so_0/"
)

// ThumbnailURL derives the thumbnail URL for a stored video. URLs that do
// not follow the provider convention are returned unchanged.
func ThumbnailURL(videoURL string) string {
	if !strings.Contains(videoURL, uploadPrefix) {
		return videoURL
	}
	return strings.Replace(videoURL, uploadPrefix, uploadPrefix+thumbTransform, 1)
}

// UpgradeLegacyThumbnail rewrites an old-format thumbnail URL to the current
// transform. Reports whether the URL was changed.
func UpgradeLegacyThumbnail(thumbURL string) (string, bool) {
	old := uploadPrefix + legacyTransform
	if !strings.Contains(thumbURL, old) {
		return thumbURL, false
	}
	return strings.Replace(thumbURL, old, uploadPrefix+thumbTransform, 1), true
}
