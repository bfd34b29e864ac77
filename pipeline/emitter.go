package pipeline

import (
	"fmt"
	"path/filepath"

	"gocv.io/x/gocv"
)

// ImageWriter streams kept frames to disk as sequentially numbered PNGs.
// The zero-padded name makes lexicographic and selection order coincide,
// which is what the deck builder sorts on later.
type ImageWriter struct {
	dir string
	n   int
}

var _ FrameSink = (*ImageWriter)(nil)

func NewImageWriter(dir string) *ImageWriter {
	return &ImageWriter{dir: dir}
}

// Write persists the frame. Write failures (disk full, permissions) are
// fatal to the run; there is no partial-deck recovery.
func (w *ImageWriter) Write(frame FrameData) error {
	path := filepath.Join(w.dir, fmt.Sprintf("frame_%04d.png", w.n))
	if ok := gocv.IMWrite(path, frame.Mat); !ok {
		return fmt.Errorf("error writing frame image %s", path)
	}
	w.n++
	return nil
}

// Written is the number of images persisted so far.
func (w *ImageWriter) Written() int {
	return w.n
}
