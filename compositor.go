package mockup

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
)

// Render is the compositing pipeline: it turns (background, foreground,
// state) into a pixel buffer. It is a pure function of its inputs and is
// deterministic — identical bitmaps and state produce byte-identical
// buffers. There is no incremental path; every call recomputes the full
// buffer, which stays cheap because the inputs are bounded to one photo.
//
// The output buffer always has the background's native pixel dimensions, so
// exports match the original photo's resolution no matter how the canvas is
// displayed. A nil background yields a nil buffer. A nil foreground, or one
// with a zero dimension, yields the background alone.
func Render(bg, fg image.Image, st State) *image.NRGBA {
	if bg == nil {
		return nil
	}
	bb := bg.Bounds()
	w, h := bb.Dx(), bb.Dy()
	if w <= 0 || h <= 0 {
		return nil
	}

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), bg, bb.Min, draw.Src)

	if fg == nil {
		return out
	}
	fb := fg.Bounds()
	if fb.Dx() <= 0 || fb.Dy() <= 0 {
		return out
	}

	// Size normalization: target width is 30% of the background width times
	// the user scale; height preserves the foreground's native aspect ratio.
	targetW := int(math.Round(float64(w) * foregroundBaseline * st.Scale))
	if targetW < 1 {
		targetW = 1
	}
	targetH := int(math.Round(float64(targetW) * float64(fb.Dy()) / float64(fb.Dx())))
	if targetH < 1 {
		targetH = 1
	}

	layer := imaging.Resize(fg, targetW, targetH, imaging.Lanczos)

	// Color adjustment is recomputed from the decoded foreground every
	// render; it never accumulates across frames.
	applyColorMatrix(layer, adjustMatrix(st.Hue, st.Saturation, st.Brightness))

	// Positive rotation is clockwise about the layer center; imaging rotates
	// counter-clockwise, hence the sign flip. The canvas grows to fit and
	// fills with transparency, so the center stays the center.
	if st.Rotation != 0 {
		layer = imaging.Rotate(layer, -st.Rotation, color.NRGBA{})
	}

	lb := layer.Bounds()
	cx := float64(w)/2 + st.OffsetX
	cy := float64(h)/2 + st.OffsetY
	x0 := int(math.Round(cx - float64(lb.Dx())/2))
	y0 := int(math.Round(cy - float64(lb.Dy())/2))

	compositeLayer(out, layer, x0, y0, st.Blend, st.Opacity)
	return out
}

// compositeLayer blends src over dst with its top-left at (x0, y0). The
// blend operator combines normalized channels; opacity then mixes the
// blended result back toward the backdrop, weighted by the source pixel's
// own alpha so resampled and rotated edges stay soft.
func compositeLayer(dst, src *image.NRGBA, x0, y0 int, mode BlendMode, opacity float64) {
	op := mode.operator()
	db := dst.Bounds()
	sb := src.Bounds()

	for sy := 0; sy < sb.Dy(); sy++ {
		dy := y0 + sy
		if dy < db.Min.Y || dy >= db.Max.Y {
			continue
		}
		for sx := 0; sx < sb.Dx(); sx++ {
			dx := x0 + sx
			if dx < db.Min.X || dx >= db.Max.X {
				continue
			}
			si := src.PixOffset(sb.Min.X+sx, sb.Min.Y+sy)
			sa := float64(src.Pix[si+3]) / 255
			if sa == 0 {
				continue
			}
			a := opacity * sa

			di := dst.PixOffset(dx, dy)
			for c := 0; c < 3; c++ {
				b := float64(dst.Pix[di+c]) / 255
				s := float64(src.Pix[si+c]) / 255
				v := b + (op(b, s)-b)*a
				dst.Pix[di+c] = clampByte(v * 255)
			}
			ba := float64(dst.Pix[di+3]) / 255
			dst.Pix[di+3] = clampByte((ba + (1-ba)*a) * 255)
		}
	}
}
