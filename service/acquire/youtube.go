package acquire

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/kkdai/youtube/v2"
	"github.com/slidegrab/slidegrab/service/lgr"
)

type youtubeService struct {
	client youtube.Client
}

func NewYouTube() IService {
	return &youtubeService{}
}

func (svc *youtubeService) ResolveID(url string) (string, error) {
	id, err := youtube.ExtractVideoID(url)
	if err != nil {
		return "", fmt.Errorf("could not extract video ID from URL %s: %w", url, err)
	}
	return id, nil
}

// Fetch downloads the highest-resolution progressive MP4 stream. The file is
// written to a temp path first and renamed into place so an interrupted
// download never looks like a cached video.
func (svc *youtubeService) Fetch(ctx context.Context, url string, destPath string) error {
	video, err := svc.client.GetVideoContext(ctx, url)
	if err != nil {
		return fmt.Errorf("error resolving video %s: %w", url, err)
	}

	format, err := bestMP4Format(video)
	if err != nil {
		return err
	}

	lgr.Logger.Info(
		"downloading video",
		slog.String("title", video.Title),
		slog.Int("width", format.Width),
		slog.Int("height", format.Height),
	)

	stream, _, err := svc.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return fmt.Errorf("error opening video stream: %w", err)
	}
	defer stream.Close()

	tmpPath := destPath + ".part"
	out, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("error creating video file %s: %w", tmpPath, err)
	}

	if _, err := io.Copy(out, stream); err != nil {
		out.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("error downloading video: %w", err)
	}

	if err := out.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("error closing video file: %w", err)
	}

	return os.Rename(tmpPath, destPath)
}

// bestMP4Format prefers progressive MP4 streams (video+audio muxed) and
// falls back to any MP4 video stream, picking the widest frame either way.
func bestMP4Format(video *youtube.Video) (*youtube.Format, error) {
	candidates := video.Formats.Type("video/mp4").WithAudioChannels()
	if len(candidates) == 0 {
		candidates = video.Formats.Type("video/mp4")
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no compatible MP4 stream for video %s", video.ID)
	}

	best := 0
	for i := range candidates {
		if candidates[i].Width > candidates[best].Width {
			best = i
		}
	}

	return &candidates[best], nil
}
