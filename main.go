package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"golang.org/x/xerrors"

	"github.com/slidegrab/slidegrab/model"
	"github.com/slidegrab/slidegrab/pipeline"
	"github.com/slidegrab/slidegrab/service/acquire"
	"github.com/slidegrab/slidegrab/service/config"
	"github.com/slidegrab/slidegrab/service/deck"
	"github.com/slidegrab/slidegrab/service/lgr"
	"github.com/slidegrab/slidegrab/service/storage"
)

func main() {
	rootCtx := context.Background()
	canxCtx, canxFn := context.WithCancel(rootCtx)
	defer canxFn()

	// Hook up a signal handler to cancel the context
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		lgr.Logger.Info(
			"received kill signal",
			slog.Any("signal", sig),
		)
		canxFn()
	}()

	// Load env vars if we are in DEV mode
	if os.Getenv("RUN_TIME_ENV") == "dev" {
		lgr.Logger.Info("loading env vars from .env file")
		if err := godotenv.Load(); err != nil {
			lgr.Logger.Error("error loading .env file", slog.Any("error", xerrors.New(err.Error())))
			os.Exit(1)
		}
	}

	cmd := &cli.Command{
		Name:      "slidegrab",
		Usage:     "turn a recorded talk into a slide deck by deduplicating video frames",
		ArgsUsage: "<video-url>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "crop",
				Usage: "crop rectangle applied to every frame, as x,y,width,height",
			},
			&cli.StringFlag{
				Name:  "start",
				Usage: "start time as MM:SS",
				Value: "00:00",
			},
			&cli.StringFlag{
				Name:  "end",
				Usage: "end time as MM:SS (default: end of video)",
			},
			&cli.StringFlag{
				Name:  "output",
				Usage: "output deck path (default: <images folder>/<video id>.pptx)",
			},
			&cli.Float64Flag{
				Name:  "threshold",
				Usage: "mean-squared-error threshold above which a frame is kept",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "purge the cached video and images for this URL before running",
			},
		},
		Action: run,
	}

	if err := cmd.Run(canxCtx, os.Args); err != nil {
		lgr.Logger.Error("run failed", slog.Any("error", xerrors.New(err.Error())))
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	url := cmd.Args().First()
	if url == "" {
		return fmt.Errorf("missing required <video-url> argument")
	}

	cfgSvc, err := config.NewEnv()
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	lgr.Init(cfgSvc.GetLogLevel(), cfgSvc.GetLogFile())

	acquireSvc := acquire.NewYouTube()
	storageSvc := storage.NewFiles(cfgSvc)
	deckSvc := deck.NewPptx()

	job, err := buildJob(cmd, cfgSvc, acquireSvc, url)
	if err != nil {
		return err
	}

	svcs := pipeline.ServicesFactory{
		CfgSvc:     cfgSvc,
		AcquireSvc: acquireSvc,
		StorageSvc: storageSvc,
		DeckSvc:    deckSvc,
	}

	color.Cyan("Processing video: %s", job.VideoID)

	stats, err := pipeline.Run(ctx, svcs, job)
	if err != nil {
		return err
	}

	color.Green("Slide deck created: %s", stats.DeckPath)
	return nil
}

// buildJob validates every argument before any frame processing begins.
// Malformed crop or time arguments and unresolvable locators are fatal
// configuration errors, never silently defaulted.
func buildJob(cmd *cli.Command, cfgSvc config.IService, acquireSvc acquire.IService, url string) (model.Job, error) {
	videoID, err := acquireSvc.ResolveID(url)
	if err != nil {
		return model.Job{}, err
	}

	job := model.Job{
		URL:       url,
		VideoID:   videoID,
		Window:    model.FullVideo(),
		Threshold: cfgSvc.GetMSEThreshold(),
		Output:    cmd.String("output"),
		NoCache:   cmd.Bool("no-cache"),
	}

	if cmd.IsSet("threshold") {
		t := cmd.Float64("threshold")
		if t < 0 {
			return model.Job{}, fmt.Errorf("threshold must be non-negative, got %v", t)
		}
		job.Threshold = t
	}

	if s := cmd.String("crop"); s != "" {
		crop, err := model.ParseCropRegion(s)
		if err != nil {
			return model.Job{}, err
		}
		job.Crop = &crop
	}

	start, err := model.ParseTimecode(cmd.String("start"))
	if err != nil {
		return model.Job{}, err
	}
	job.Window.StartSeconds = start

	if s := cmd.String("end"); s != "" {
		end, err := model.ParseTimecode(s)
		if err != nil {
			return model.Job{}, err
		}
		if end <= start {
			return model.Job{}, fmt.Errorf("end time %s is not after start time %s", s, cmd.String("start"))
		}
		job.Window.EndSeconds = end
	}

	return job, nil
}
