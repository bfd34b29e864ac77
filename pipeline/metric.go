package pipeline

import (
	"fmt"

	"gocv.io/x/gocv"
)

// MeanSquaredError computes the dissimilarity of two equally-shaped frames:
// the sum of squared per-byte differences over every pixel and channel,
// divided by H*W.
//
// The divisor is deliberately H*W and NOT H*W*C, matching the scale the
// default threshold of 200 was calibrated against. Normalizing by channel
// count as well would silently shrink every score by 3x for color frames and
// invalidate existing thresholds.
//
// Mismatched shapes are a programming error (inconsistent cropping upstream)
// and panic rather than produce a meaningless number.
func MeanSquaredError(a, b gocv.Mat) float64 {
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() || a.Channels() != b.Channels() {
		panic(fmt.Sprintf(
			"mean squared error requires equally-shaped frames: %dx%dx%d vs %dx%dx%d",
			a.Rows(), a.Cols(), a.Channels(),
			b.Rows(), b.Cols(), b.Channels(),
		))
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(a, b, &diff)

	// Promote to float64 before squaring so large differences cannot
	// saturate the 8-bit range.
	wide := gocv.NewMat()
	defer wide.Close()
	diff.ConvertTo(&wide, gocv.MatTypeCV64F)

	sq := gocv.NewMat()
	defer sq.Close()
	gocv.Multiply(wide, wide, &sq)

	sum := sq.Sum()
	total := sum.Val1 + sum.Val2 + sum.Val3 + sum.Val4

	return total / float64(a.Rows()*a.Cols())
}
