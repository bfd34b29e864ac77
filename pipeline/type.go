package pipeline

import (
	"github.com/slidegrab/slidegrab/service/acquire"
	"github.com/slidegrab/slidegrab/service/config"
	"github.com/slidegrab/slidegrab/service/deck"
	"github.com/slidegrab/slidegrab/service/storage"
	"gocv.io/x/gocv"
)

// FrameData is one decoded (and already cropped) frame. Index is the frame's
// position in the source video.
type FrameData struct {
	Mat   gocv.Mat
	Index int
}

// FrameReader produces frames in strictly increasing source-index order.
// Next returns false on window end and on decoder exhaustion alike; the
// consumer treats both as "no more frames", never as an error.
type FrameReader interface {
	Next() (FrameData, bool)
	Close() error
}

// MetricFunc scores the dissimilarity of two equally-shaped frames.
type MetricFunc func(a, b gocv.Mat) float64

// FrameSink persists kept frames as they are selected.
type FrameSink interface {
	Write(frame FrameData) error
}

type ServicesFactory struct {
	CfgSvc     config.IService
	AcquireSvc acquire.IService
	StorageSvc storage.IService
	DeckSvc    deck.IService
}
