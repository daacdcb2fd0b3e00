package mockup

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Viewport describes where the canvas lands inside a display surface after
// aspect-preserving fit scaling: the canvas is drawn Scale times its native
// size, offset by (X, Y) to center it.
type Viewport struct {
	Scale float64
	X     float64
	Y     float64
}

// fitViewport computes the letterboxed placement of a nativeW x nativeH
// canvas inside a dispW x dispH surface. A zero dimension anywhere yields
// the zero Viewport.
func fitViewport(nativeW, nativeH, dispW, dispH int) Viewport {
	if nativeW <= 0 || nativeH <= 0 || dispW <= 0 || dispH <= 0 {
		return Viewport{}
	}
	sx := float64(dispW) / float64(nativeW)
	sy := float64(dispH) / float64(nativeH)
	s := sx
	if sy < s {
		s = sy
	}
	return Viewport{
		Scale: s,
		X:     (float64(dispW) - float64(nativeW)*s) / 2,
		Y:     (float64(dispH) - float64(nativeH)*s) / 2,
	}
}

// View displays the engine's frames on an ebiten surface and maps pointer
// coordinates back into canvas space for the gesture tracker.
type View struct {
	tex  *ebiten.Image
	w, h int
	vp   Viewport
}

// NewView creates an empty display adapter.
func NewView() *View {
	return &View{}
}

// Upload copies a completed frame into the display texture. Call it from
// the engine's OnFrame callback.
func (v *View) Upload(frame *image.NRGBA) {
	if frame == nil {
		return
	}
	b := frame.Bounds()
	if v.tex == nil || v.w != b.Dx() || v.h != b.Dy() {
		if v.tex != nil {
			v.tex.Deallocate()
		}
		v.w, v.h = b.Dx(), b.Dy()
		v.tex = ebiten.NewImage(v.w, v.h)
	}
	v.tex.WritePixels(rgbaPixels(frame))
}

// rgbaPixels converts a straight-alpha frame to the premultiplied bytes
// WritePixels expects.
func rgbaPixels(frame *image.NRGBA) []byte {
	pix := frame.Pix
	out := make([]byte, len(pix))
	for i := 0; i < len(pix); i += 4 {
		a := uint32(pix[i+3])
		out[i] = byte(uint32(pix[i]) * a / 255)
		out[i+1] = byte(uint32(pix[i+1]) * a / 255)
		out[i+2] = byte(uint32(pix[i+2]) * a / 255)
		out[i+3] = byte(a)
	}
	return out
}

// Draw fits the canvas into the screen and draws it. The placement is
// remembered for ScreenToCanvas and PixelRatio.
func (v *View) Draw(screen *ebiten.Image) {
	if v.tex == nil {
		return
	}
	sb := screen.Bounds()
	v.vp = fitViewport(v.w, v.h, sb.Dx(), sb.Dy())
	if v.vp.Scale == 0 {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(v.vp.Scale, v.vp.Scale)
	op.GeoM.Translate(v.vp.X, v.vp.Y)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(v.tex, &op)
}

// PixelRatio reports native pixels per displayed pixel on each axis, the
// conversion the gesture tracker multiplies drag deltas by. Before the
// first Draw it reports 1:1.
func (v *View) PixelRatio() (rx, ry float64) {
	if v.vp.Scale == 0 {
		return 1, 1
	}
	r := 1 / v.vp.Scale
	return r, r
}

// ScreenToCanvas maps a display-surface point to native canvas pixels.
// ok is false when the point falls outside the drawn canvas.
func (v *View) ScreenToCanvas(x, y float64) (cx, cy float64, ok bool) {
	if v.vp.Scale == 0 {
		return 0, 0, false
	}
	cx = (x - v.vp.X) / v.vp.Scale
	cy = (y - v.vp.Y) / v.vp.Scale
	ok = cx >= 0 && cy >= 0 && cx < float64(v.w) && cy < float64(v.h)
	return cx, cy, ok
}
