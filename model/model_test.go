package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCropRegion(t *testing.T) {
	crop, err := ParseCropRegion("100,50,400,300")
	require.NoError(t, err)
	assert.Equal(t, CropRegion{X: 100, Y: 50, Width: 400, Height: 300}, crop)

	crop, err = ParseCropRegion(" 0 , 0 , 10 , 10 ")
	require.NoError(t, err)
	assert.Equal(t, CropRegion{X: 0, Y: 0, Width: 10, Height: 10}, crop)

	for _, bad := range []string{
		"",
		"1,2,3",
		"1,2,3,4,5",
		"a,b,c,d",
		"-1,0,10,10",
		"0,0,0,10",
		"0,0,10,-5",
	} {
		_, err := ParseCropRegion(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestCropRegionValidate(t *testing.T) {
	crop := CropRegion{X: 100, Y: 50, Width: 400, Height: 300}
	assert.NoError(t, crop.Validate(1920, 1080))

	// Flush against the edge is still valid.
	edge := CropRegion{X: 1520, Y: 780, Width: 400, Height: 300}
	assert.NoError(t, edge.Validate(1920, 1080))

	assert.Error(t, CropRegion{X: 1600, Y: 0, Width: 400, Height: 300}.Validate(1920, 1080))
	assert.Error(t, CropRegion{X: 0, Y: 900, Width: 400, Height: 300}.Validate(1920, 1080))
}

func TestCropRegionSignature(t *testing.T) {
	crop := CropRegion{X: 100, Y: 50, Width: 400, Height: 300}
	assert.Equal(t, "_crop_100_50_400_300", crop.Signature())
}

func TestParseTimecode(t *testing.T) {
	cases := map[string]float64{
		"00:00": 0,
		"01:30": 90,
		"90:00": 5400,
		"0:5":   5,
	}
	for in, want := range cases {
		got, err := ParseTimecode(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}

	for _, bad := range []string{"", "90", "1:2:3", "aa:bb", "-1:00", "1:-5"} {
		_, err := ParseTimecode(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestTimeWindowResolve(t *testing.T) {
	// 30 seconds of 30fps video.
	full := FullVideo().Resolve(30, 900)
	assert.Equal(t, FrameWindow{Start: 0, End: 900}, full)
	assert.Equal(t, 900, full.Len())

	w := TimeWindow{StartSeconds: 10, EndSeconds: 20}.Resolve(30, 900)
	assert.Equal(t, FrameWindow{Start: 300, End: 600}, w)

	// Explicit end beyond the video clamps to the last frame.
	clamped := TimeWindow{StartSeconds: 0, EndSeconds: 60}.Resolve(30, 900)
	assert.Equal(t, FrameWindow{Start: 0, End: 900}, clamped)

	// A start past the end of the video yields an empty window, not an error.
	empty := TimeWindow{StartSeconds: 60, EndSeconds: -1}.Resolve(30, 900)
	assert.Equal(t, 0, empty.Len())
}
