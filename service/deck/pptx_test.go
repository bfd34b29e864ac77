package deck

import (
	"archive/zip"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestPNG(t *testing.T, path string, c color.RGBA) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 32, 18))
	for y := 0; y < 18; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, c)
		}
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func buildTestDeck(t *testing.T, slides int) (string, []string) {
	t.Helper()

	dir := t.TempDir()
	var images []string
	for i := 0; i < slides; i++ {
		path := filepath.Join(dir, fmt.Sprintf("frame_%04d.png", i))
		writeTestPNG(t, path, color.RGBA{R: uint8(i * 40), A: 255})
		images = append(images, path)
	}

	deckPath := filepath.Join(dir, "deck.pptx")
	require.NoError(t, NewPptx().Build(images, deckPath))

	return deckPath, images
}

func readZipPart(t *testing.T, r *zip.ReadCloser, name string) string {
	t.Helper()

	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			require.NoError(t, err)
			defer rc.Close()
			data, err := io.ReadAll(rc)
			require.NoError(t, err)
			return string(data)
		}
	}

	t.Fatalf("part %s not found in package", name)
	return ""
}

func TestBuildProducesOneSlidePerImage(t *testing.T) {
	deckPath, _ := buildTestDeck(t, 3)

	r, err := zip.OpenReader(deckPath)
	require.NoError(t, err)
	defer r.Close()

	names := map[string]bool{}
	for _, f := range r.File {
		names[f.Name] = true
	}

	for _, want := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"ppt/presentation.xml",
		"ppt/_rels/presentation.xml.rels",
		"ppt/slideMasters/slideMaster1.xml",
		"ppt/slideLayouts/slideLayout1.xml",
		"ppt/theme/theme1.xml",
		"ppt/slides/slide1.xml",
		"ppt/slides/slide2.xml",
		"ppt/slides/slide3.xml",
		"ppt/media/image1.png",
		"ppt/media/image2.png",
		"ppt/media/image3.png",
	} {
		assert.True(t, names[want], "missing package part %s", want)
	}

	assert.False(t, names["ppt/slides/slide4.xml"], "no extra slides")
}

func TestBuildSlideSizeIs16By9(t *testing.T) {
	deckPath, _ := buildTestDeck(t, 1)

	r, err := zip.OpenReader(deckPath)
	require.NoError(t, err)
	defer r.Close()

	presentation := readZipPart(t, r, "ppt/presentation.xml")
	assert.Contains(t, presentation, `<p:sldSz cx="14630400" cy="8229600"/>`)

	// The picture fills the whole canvas.
	slide := readZipPart(t, r, "ppt/slides/slide1.xml")
	assert.Contains(t, slide, `<a:off x="0" y="0"/>`)
	assert.Contains(t, slide, `<a:ext cx="14630400" cy="8229600"/>`)
}

func TestBuildPreservesImageOrder(t *testing.T) {
	deckPath, images := buildTestDeck(t, 4)

	r, err := zip.OpenReader(deckPath)
	require.NoError(t, err)
	defer r.Close()

	// Slide N references image N, and media bytes equal the source files.
	for i := 1; i <= 4; i++ {
		rels := readZipPart(t, r, fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i))
		assert.Contains(t, rels, fmt.Sprintf(`Target="../media/image%d.png"`, i))

		media := readZipPart(t, r, fmt.Sprintf("ppt/media/image%d.png", i))
		src, err := os.ReadFile(images[i-1])
		require.NoError(t, err)
		assert.Equal(t, string(src), media)
	}

	// Presentation lists slides in order.
	presentation := readZipPart(t, r, "ppt/presentation.xml")
	last := -1
	for i := 2; i <= 5; i++ {
		pos := strings.Index(presentation, fmt.Sprintf(`r:id="rId%d"`, i))
		require.GreaterOrEqual(t, pos, 0)
		assert.Greater(t, pos, last)
		last = pos
	}
}

func TestBuildContentTypesCoverEverySlide(t *testing.T) {
	deckPath, _ := buildTestDeck(t, 5)

	r, err := zip.OpenReader(deckPath)
	require.NoError(t, err)
	defer r.Close()

	contentTypes := readZipPart(t, r, "[Content_Types].xml")
	for i := 1; i <= 5; i++ {
		assert.Contains(t, contentTypes, fmt.Sprintf(`PartName="/ppt/slides/slide%d.xml"`, i))
	}
	assert.Contains(t, contentTypes, `Extension="png"`)
}

func TestBuildLargeDeckCopiesEveryImage(t *testing.T) {
	deckPath, images := buildTestDeck(t, 30)

	r, err := zip.OpenReader(deckPath)
	require.NoError(t, err)
	defer r.Close()

	// The media loop reports progress per image; every image must still land
	// in the package exactly once.
	media := 0
	for _, f := range r.File {
		if strings.HasPrefix(f.Name, "ppt/media/") {
			media++
		}
	}
	assert.Equal(t, len(images), media)

	last := readZipPart(t, r, fmt.Sprintf("ppt/media/image%d.png", len(images)))
	src, err := os.ReadFile(images[len(images)-1])
	require.NoError(t, err)
	assert.Equal(t, string(src), last)
}

func TestBuildWithNoImagesFails(t *testing.T) {
	err := NewPptx().Build(nil, filepath.Join(t.TempDir(), "deck.pptx"))
	assert.Error(t, err)
}

func TestBuildUnwritableDestinationFails(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "frame_0000.png")
	writeTestPNG(t, img, color.RGBA{A: 255})

	err := NewPptx().Build([]string{img}, filepath.Join(dir, "missing", "deck.pptx"))
	assert.Error(t, err)
}
