package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gocv.io/x/gocv"
)

// uniformMat builds a rows x cols BGR frame with every channel set to v.
func uniformMat(v float64, rows, cols int) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(v, v, v, 0), rows, cols, gocv.MatTypeCV8UC3)
}

func TestMeanSquaredErrorIdenticalFramesIsZero(t *testing.T) {
	a := uniformMat(42, 8, 8)
	defer a.Close()
	b := uniformMat(42, 8, 8)
	defer b.Close()

	assert.Equal(t, 0.0, MeanSquaredError(a, b))
	assert.Equal(t, 0.0, MeanSquaredError(a, a))
}

func TestMeanSquaredErrorKnownValue(t *testing.T) {
	a := uniformMat(10, 8, 8)
	defer a.Close()
	b := uniformMat(12, 8, 8)
	defer b.Close()

	// Per pixel: three channels each differing by 2, so 3*2^2 = 12 summed
	// over H*W pixels, divided by H*W. The divisor is H*W only, so the score
	// carries the channel count.
	assert.InDelta(t, 12.0, MeanSquaredError(a, b), 1e-9)
}

func TestMeanSquaredErrorSymmetric(t *testing.T) {
	a := uniformMat(10, 16, 9)
	defer a.Close()
	b := uniformMat(200, 16, 9)
	defer b.Close()

	assert.Equal(t, MeanSquaredError(a, b), MeanSquaredError(b, a))
}

func TestMeanSquaredErrorMonotone(t *testing.T) {
	a := uniformMat(10, 8, 8)
	defer a.Close()
	near := uniformMat(15, 8, 8)
	defer near.Close()
	far := uniformMat(200, 8, 8)
	defer far.Close()

	assert.Greater(t, MeanSquaredError(a, far), MeanSquaredError(a, near))
}

func TestMeanSquaredErrorLargeDifferenceDoesNotOverflow(t *testing.T) {
	a := uniformMat(0, 8, 8)
	defer a.Close()
	b := uniformMat(255, 8, 8)
	defer b.Close()

	// 3 * 255^2 per pixel.
	assert.InDelta(t, 3*255*255, MeanSquaredError(a, b), 1e-6)
}

func TestMeanSquaredErrorShapeMismatchPanics(t *testing.T) {
	a := uniformMat(10, 8, 8)
	defer a.Close()
	b := uniformMat(10, 8, 9)
	defer b.Close()

	assert.Panics(t, func() { MeanSquaredError(a, b) })
}
