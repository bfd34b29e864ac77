package model

import (
	"fmt"
	"runtime/debug"
	"strconv"
	"strings"
)

type CustomError struct {
	Processor  string                 `json:"processor"`
	Inner      error                  `json:"innerError"`
	Message    string                 `json:"message"`
	StackTrace string                 `json:"stackTrace"`
	Misc       map[string]interface{} `json:"misc"`
}

func (e CustomError) Error() string {
	if e.Inner != nil {
		return fmt.Sprintf("%s: %s: %v", e.Processor, e.Message, e.Inner)
	}
	return fmt.Sprintf("%s: %s", e.Processor, e.Message)
}

func (e CustomError) Unwrap() error {
	return e.Inner
}

func GenError(proc string, err error, misc map[string]interface{}, messagef string, args ...interface{}) CustomError {
	return CustomError{
		Processor:  proc,
		Inner:      err,
		Message:    fmt.Sprintf(messagef, args...),
		StackTrace: string(debug.Stack()),
		Misc:       misc,
	}
}

// CropRegion is an axis-aligned rectangle in source-frame pixel coordinates.
// It is applied uniformly to every frame before comparison and persistence.
type CropRegion struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ParseCropRegion parses the CLI form "x,y,width,height".
func ParseCropRegion(s string) (CropRegion, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return CropRegion{}, fmt.Errorf("crop must be x,y,width,height: %q", s)
	}

	vals := make([]int, 4)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return CropRegion{}, fmt.Errorf("crop component %q is not an integer", p)
		}
		vals[i] = v
	}

	crop := CropRegion{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}
	if crop.X < 0 || crop.Y < 0 || crop.Width <= 0 || crop.Height <= 0 {
		return CropRegion{}, fmt.Errorf("crop rectangle out of range: %q", s)
	}

	return crop, nil
}

// Validate checks the rectangle against the source frame dimensions.
// Violations are configuration errors detected once at open time and are
// never re-checked in the per-frame hot path.
func (c CropRegion) Validate(frameWidth, frameHeight int) error {
	if c.X+c.Width > frameWidth || c.Y+c.Height > frameHeight {
		return fmt.Errorf("crop rectangle (%d,%d,%d,%d) exceeds frame size %dx%d",
			c.X, c.Y, c.Width, c.Height, frameWidth, frameHeight)
	}
	return nil
}

// Signature is the directory suffix that keys the images cache on the crop
// rectangle, e.g. "_crop_100_50_400_300".
func (c CropRegion) Signature() string {
	return fmt.Sprintf("_crop_%d_%d_%d_%d", c.X, c.Y, c.Width, c.Height)
}

// TimeWindow bounds the processed portion of the video in seconds.
// EndSeconds < 0 means "until the end of the video".
type TimeWindow struct {
	StartSeconds float64 `json:"startSeconds"`
	EndSeconds   float64 `json:"endSeconds"`
}

// FullVideo is the window covering the entire source.
func FullVideo() TimeWindow {
	return TimeWindow{StartSeconds: 0, EndSeconds: -1}
}

// ParseTimecode parses the CLI form "MM:SS" into seconds. Minutes may exceed
// 59 for long videos ("90:00" is ninety minutes).
func ParseTimecode(s string) (float64, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("timecode must be MM:SS: %q", s)
	}

	minutes, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, fmt.Errorf("timecode minutes %q is not a number", parts[0])
	}
	seconds, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, fmt.Errorf("timecode seconds %q is not a number", parts[1])
	}
	if minutes < 0 || seconds < 0 {
		return 0, fmt.Errorf("timecode components must be non-negative: %q", s)
	}

	return minutes*60 + seconds, nil
}

// FrameWindow is the time window resolved to a half-open frame index range
// [Start, End) against the source frame rate. Derived, never set directly.
type FrameWindow struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Resolve converts the time window to frame indices. No frame-rate
// correction is applied: the reported FPS is assumed exact, so variable
// frame-rate sources may drift from wall-clock expectations.
func (w TimeWindow) Resolve(fps float64, totalFrames int) FrameWindow {
	start := int(w.StartSeconds * fps)
	end := totalFrames
	if w.EndSeconds >= 0 {
		end = int(w.EndSeconds * fps)
	}
	if end > totalFrames {
		end = totalFrames
	}
	return FrameWindow{Start: start, End: end}
}

// Len is the number of frames in the window. A start beyond the end of the
// video yields zero, not an error.
func (w FrameWindow) Len() int {
	if w.End <= w.Start {
		return 0
	}
	return w.End - w.Start
}

// Job is one fully-resolved pipeline run.
type Job struct {
	URL       string      `json:"url"`
	VideoID   string      `json:"videoId"`
	Crop      *CropRegion `json:"crop,omitempty"`
	Window    TimeWindow  `json:"window"`
	Threshold float64     `json:"threshold"`
	Output    string      `json:"output,omitempty"`
	NoCache   bool        `json:"noCache"`
}

// RunStats summarizes a completed run.
type RunStats struct {
	RunID      string `json:"runId"`
	VideoID    string `json:"videoId"`
	SeenFrames int    `json:"seenFrames"`
	KeptFrames int    `json:"keptFrames"`
	FromCache  bool   `json:"fromCache"`
	DeckPath   string `json:"deckPath"`
	Uptime     int64  `json:"uptime"`
}
