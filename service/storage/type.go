package storage

import "github.com/slidegrab/slidegrab/model"

// IService owns the on-disk artifact layout: one video file per identity and
// one images folder per (identity, crop-signature) pair. All locations come
// from configuration, never from ambient working-directory state.
type IService interface {
	VideoPath(videoID string) string
	ImagesFolder(videoID string, crop *model.CropRegion) string
	EnsureFolder(path string) error
	HasImages(folder string) bool
	ListImages(folder string) ([]string, error)
	Purge(videoID string, crop *model.CropRegion) error
}
