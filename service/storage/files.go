package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/slidegrab/slidegrab/model"
	"github.com/slidegrab/slidegrab/service/config"
)

type filesService struct {
	CfgSvc config.IService
}

func NewFiles(cfgsvc config.IService) IService {
	return &filesService{
		CfgSvc: cfgsvc,
	}
}

func (svc *filesService) VideoPath(videoID string) string {
	return filepath.Join(svc.CfgSvc.GetVideosFolder(), fmt.Sprintf("%s.mp4", videoID))
}

func (svc *filesService) ImagesFolder(videoID string, crop *model.CropRegion) string {
	suffix := ""
	if crop != nil {
		suffix = crop.Signature()
	}
	return filepath.Join(svc.CfgSvc.GetImagesFolder(), videoID+suffix)
}

func (svc *filesService) EnsureFolder(path string) error {
	return os.MkdirAll(path, 0755)
}

// HasImages reports whether the folder already holds extracted frames, in
// which case a re-run reuses them instead of re-extracting.
func (svc *filesService) HasImages(folder string) bool {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return false
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(strings.ToLower(entry.Name()), ".png") {
			return true
		}
	}

	return false
}

// ListImages returns the folder's PNG paths sorted lexicographically, which
// equals selection order because frame names are zero-padded.
func (svc *filesService) ListImages(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("error reading images folder %s: %w", folder, err)
	}

	var images []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(strings.ToLower(entry.Name()), ".png") {
			images = append(images, filepath.Join(folder, entry.Name()))
		}
	}
	sort.Strings(images)

	return images, nil
}

// Purge removes the cached video and the (identity, crop) images folder so a
// no-cache run starts from nothing.
func (svc *filesService) Purge(videoID string, crop *model.CropRegion) error {
	if err := os.RemoveAll(svc.VideoPath(videoID)); err != nil {
		return fmt.Errorf("error purging cached video: %w", err)
	}
	if err := os.RemoveAll(svc.ImagesFolder(videoID, crop)); err != nil {
		return fmt.Errorf("error purging cached images: %w", err)
	}
	return nil
}
