package mockup

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"
)

// solidImage returns a w x h NRGBA filled with c.
func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

// patternImage returns a w x h NRGBA with a deterministic per-pixel pattern,
// useful for byte-identity comparisons.
func patternImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(x, y)
			img.Pix[i] = uint8(x * 7)
			img.Pix[i+1] = uint8(y * 13)
			img.Pix[i+2] = uint8((x + y) * 3)
			img.Pix[i+3] = 255
		}
	}
	return img
}

// pngBytes encodes img as PNG, failing the test on error.
func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// waitFor polls cond until it reports true or the deadline passes. Used to
// drain async loader completions through Engine.Update.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}

// fp returns a pointer to v, for building Patches in tests.
func fp(v float64) *float64 { return &v }
