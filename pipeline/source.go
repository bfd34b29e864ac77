package pipeline

import (
	"fmt"
	"image"

	"github.com/slidegrab/slidegrab/model"
	"gocv.io/x/gocv"
)

// VideoSource walks a local video file frame by frame inside a resolved
// frame window, applying an optional crop before exposing each frame.
// It holds the capture handle exclusively; Close releases it whether the
// sequence was drained or abandoned.
type VideoSource struct {
	vc     *gocv.VideoCapture
	crop   *model.CropRegion
	window model.FrameWindow
	fps    float64
	next   int
	buf    gocv.Mat
}

var _ FrameReader = (*VideoSource)(nil)

// OpenVideoSource opens the video, validates the crop against the source
// dimensions once, resolves the time window against the reported FPS and
// positions the capture at the window start. A start beyond the end of the
// video yields an empty (not failing) source.
func OpenVideoSource(path string, crop *model.CropRegion, window model.TimeWindow) (*VideoSource, error) {
	vc, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("error opening video file %s: %w", path, err)
	}

	fps := vc.Get(gocv.VideoCaptureFPS)
	totalFrames := int(vc.Get(gocv.VideoCaptureFrameCount))
	width := int(vc.Get(gocv.VideoCaptureFrameWidth))
	height := int(vc.Get(gocv.VideoCaptureFrameHeight))

	if fps <= 0 {
		vc.Close()
		return nil, fmt.Errorf("video %s reports non-positive FPS", path)
	}

	if crop != nil {
		if err := crop.Validate(width, height); err != nil {
			vc.Close()
			return nil, err
		}
	}

	resolved := window.Resolve(fps, totalFrames)
	if resolved.Len() > 0 {
		vc.Set(gocv.VideoCapturePosFrames, float64(resolved.Start))
	}

	return &VideoSource{
		vc:     vc,
		crop:   crop,
		window: resolved,
		fps:    fps,
		next:   resolved.Start,
		buf:    gocv.NewMat(),
	}, nil
}

// FrameCount is the number of frames the window spans, for progress display.
func (s *VideoSource) FrameCount() int {
	return s.window.Len()
}

// FPS is the frame rate the source reported.
func (s *VideoSource) FPS() float64 {
	return s.fps
}

// Next decodes the next frame in the window. It returns false when the
// window is exhausted, when the decoder runs dry and when a frame fails to
// decode mid-stream; all three simply end the sequence. The returned Mat is
// an independent clone owned by the caller.
func (s *VideoSource) Next() (FrameData, bool) {
	if s.next >= s.window.End {
		return FrameData{}, false
	}

	if ok := s.vc.Read(&s.buf); !ok || s.buf.Empty() {
		return FrameData{}, false
	}

	index := s.next
	s.next++

	var mat gocv.Mat
	if s.crop != nil {
		region := s.buf.Region(image.Rect(
			s.crop.X,
			s.crop.Y,
			s.crop.X+s.crop.Width,
			s.crop.Y+s.crop.Height,
		))
		mat = region.Clone()
		region.Close()
	} else {
		mat = s.buf.Clone()
	}

	return FrameData{Mat: mat, Index: index}, true
}

// Close releases the capture handle and the decode buffer.
func (s *VideoSource) Close() error {
	s.buf.Close()
	return s.vc.Close()
}
