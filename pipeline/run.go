package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/slidegrab/slidegrab/model"
	"github.com/slidegrab/slidegrab/service/lgr"
)

// Run executes one full job: purge caches if asked, acquire the video,
// extract and deduplicate frames unless cached images already exist, then
// assemble the deck. Stages run strictly in sequence; cancellation is
// coarse-grained (the whole run stops between frames, never mid-write).
func Run(ctx context.Context, svcs ServicesFactory, job model.Job) (model.RunStats, error) {
	tracer := otel.Tracer("pipeline")
	ctx, span := tracer.Start(ctx, "pipeline.Run")
	defer span.End()

	runID := uuid.NewString()
	span.SetAttributes(
		attribute.String("run.id", runID),
		attribute.String("video.id", job.VideoID),
	)

	startTime := time.Now().Unix()
	stats := model.RunStats{
		RunID:   runID,
		VideoID: job.VideoID,
	}

	lgr.Logger.Info(
		"run starting",
		slog.String("runID", runID),
		slog.String("videoID", job.VideoID),
		slog.Float64("threshold", job.Threshold),
		slog.Bool("noCache", job.NoCache),
	)

	if job.NoCache {
		if err := svcs.StorageSvc.Purge(job.VideoID, job.Crop); err != nil {
			return stats, model.GenError("run", err, nil, "error purging caches for video %s", job.VideoID)
		}
	}

	videoPath, err := acquireStage(ctx, svcs, job)
	if err != nil {
		return stats, err
	}

	imagesFolder := svcs.StorageSvc.ImagesFolder(job.VideoID, job.Crop)
	if svcs.StorageSvc.HasImages(imagesFolder) {
		lgr.Logger.Info(
			"using cached images",
			slog.String("folder", imagesFolder),
		)
		stats.FromCache = true
	} else {
		seen, kept, err := extractStage(ctx, svcs, job, videoPath, imagesFolder)
		if err != nil {
			return stats, err
		}
		stats.SeenFrames = seen
		stats.KeptFrames = kept
	}

	deckPath, err := deckStage(ctx, svcs, job, imagesFolder)
	if err != nil {
		return stats, err
	}
	stats.DeckPath = deckPath
	stats.Uptime = time.Now().Unix() - startTime

	lgr.Logger.Info(
		"run complete",
		slog.String("runID", runID),
		slog.Int("seenFrames", stats.SeenFrames),
		slog.Int("keptFrames", stats.KeptFrames),
		slog.Bool("fromCache", stats.FromCache),
		slog.String("deck", stats.DeckPath),
	)

	return stats, nil
}

// acquireStage returns the local video path, downloading it first unless a
// cached copy exists.
func acquireStage(ctx context.Context, svcs ServicesFactory, job model.Job) (string, error) {
	tracer := otel.Tracer("pipeline")
	ctx, span := tracer.Start(ctx, "pipeline.acquire")
	defer span.End()

	videoPath := svcs.StorageSvc.VideoPath(job.VideoID)
	if _, err := os.Stat(videoPath); err == nil {
		lgr.Logger.Info(
			"using cached video",
			slog.String("path", videoPath),
		)
		return videoPath, nil
	}

	if err := svcs.StorageSvc.EnsureFolder(filepath.Dir(videoPath)); err != nil {
		return "", model.GenError("run_acquire", err, nil, "error creating videos folder")
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(svcs.CfgSvc.GetAcquireTimeout())*time.Second)
	defer cancel()

	if err := svcs.AcquireSvc.Fetch(ctx, job.URL, videoPath); err != nil {
		return "", model.GenError("run_acquire", err, nil, "error acquiring video %s", job.VideoID)
	}

	return videoPath, nil
}

// extractStage runs the Source -> Selector -> ImageWriter pass: one forward
// walk over the frame window, keeping a frame only when it differs from the
// last kept frame by more than the threshold, streaming each kept frame to
// disk as it is selected.
func extractStage(ctx context.Context, svcs ServicesFactory, job model.Job, videoPath, imagesFolder string) (int, int, error) {
	tracer := otel.Tracer("pipeline")
	_, span := tracer.Start(ctx, "pipeline.extract")
	defer span.End()

	if err := svcs.StorageSvc.EnsureFolder(imagesFolder); err != nil {
		return 0, 0, model.GenError("run_extract", err, nil, "error creating images folder")
	}

	source, err := OpenVideoSource(videoPath, job.Crop, job.Window)
	if err != nil {
		return 0, 0, model.GenError("run_extract", err, nil, "error opening video source")
	}
	defer source.Close()

	selector := NewSelector(job.Threshold, MeanSquaredError)
	defer selector.Close()

	writer := NewImageWriter(imagesFolder)

	bar := progressbar.Default(int64(source.FrameCount()), "Processing video")
	defer bar.Finish()

	for {
		if ctx.Err() != nil {
			return selector.Seen(), selector.Kept(), ctx.Err()
		}

		frame, ok := source.Next()
		if !ok {
			break
		}
		bar.Add(1)

		if !selector.Offer(frame) {
			continue
		}

		if err := writer.Write(frame); err != nil {
			return selector.Seen(), selector.Kept(), model.GenError("run_extract", err, nil, "error persisting kept frame")
		}
	}

	span.SetAttributes(
		attribute.Int("frames.seen", selector.Seen()),
		attribute.Int("frames.kept", selector.Kept()),
	)

	return selector.Seen(), selector.Kept(), nil
}

// deckStage assembles the persisted images into the PPTX deck.
func deckStage(ctx context.Context, svcs ServicesFactory, job model.Job, imagesFolder string) (string, error) {
	tracer := otel.Tracer("pipeline")
	_, span := tracer.Start(ctx, "pipeline.deck")
	defer span.End()

	images, err := svcs.StorageSvc.ListImages(imagesFolder)
	if err != nil {
		return "", model.GenError("run_deck", err, nil, "error listing images")
	}
	if len(images) == 0 {
		return "", model.GenError("run_deck", fmt.Errorf("no frames were extracted"), nil, "images folder %s is empty", imagesFolder)
	}

	deckPath := job.Output
	if deckPath == "" {
		deckPath = filepath.Join(imagesFolder, fmt.Sprintf("%s.pptx", job.VideoID))
	}

	if err := svcs.DeckSvc.Build(images, deckPath); err != nil {
		return "", model.GenError("run_deck", err, nil, "error building deck")
	}

	span.SetAttributes(attribute.Int("deck.slides", len(images)))

	return deckPath, nil
}
