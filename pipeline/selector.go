package pipeline

import (
	"gocv.io/x/gocv"
)

// The selector is a two-state machine: it waits for the first frame, which
// is always kept, then compares every later frame against the most recently
// kept one (the reference). A frame is kept only when its dissimilarity to
// the reference strictly exceeds the threshold; a tie counts as similar.
type selectorState int

const (
	stateAwaitingFirst selectorState = iota
	stateHaveReference
)

// Selector applies the greedy streaming keep/discard policy. It owns every
// Mat offered to it: discarded frames are closed immediately, kept frames
// are retained as the reference until superseded. Memory beyond the
// reference is O(1) regardless of input length.
type Selector struct {
	threshold float64
	metric    MetricFunc
	state     selectorState
	reference gocv.Mat
	seen      int
	kept      int
}

func NewSelector(threshold float64, metric MetricFunc) *Selector {
	return &Selector{
		threshold: threshold,
		metric:    metric,
		state:     stateAwaitingFirst,
	}
}

// Offer feeds one frame through the state machine and reports whether it was
// kept. A kept frame's Mat stays valid until the next kept frame supersedes
// it (or Close is called); the caller must persist it before offering more
// frames and must never close it.
func (s *Selector) Offer(frame FrameData) bool {
	s.seen++

	switch s.state {
	case stateAwaitingFirst:
		s.reference = frame.Mat
		s.state = stateHaveReference
		s.kept++
		return true

	case stateHaveReference:
		if s.metric(frame.Mat, s.reference) > s.threshold {
			s.reference.Close()
			s.reference = frame.Mat
			s.kept++
			return true
		}
		frame.Mat.Close()
		return false
	}

	return false
}

// Seen is the number of frames offered so far.
func (s *Selector) Seen() int {
	return s.seen
}

// Kept is the number of frames kept so far.
func (s *Selector) Kept() int {
	return s.kept
}

// Close releases the retained reference frame. The selector must not be
// offered frames afterwards.
func (s *Selector) Close() {
	if s.state == stateHaveReference {
		s.reference.Close()
		s.state = stateAwaitingFirst
	}
}
