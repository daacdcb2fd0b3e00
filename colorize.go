package mockup

import (
	"image"
	"math"
)

// The color adjustment stage is a 3x3 color matrix applied per pixel on the
// CPU. The matrix is composed from three primitives — hue rotation,
// saturation, brightness, in that order — so a single pass over the pixels
// covers all three adjustments. Alpha is never touched.

// colorMatrix is a row-major 3x3 RGB matrix.
type colorMatrix [9]float64

var identityMatrix = colorMatrix{
	1, 0, 0,
	0, 1, 0,
	0, 0, 1,
}

// mulMatrix returns a*b (apply b first, then a).
func mulMatrix(a, b colorMatrix) colorMatrix {
	var m colorMatrix
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			m[r*3+c] = a[r*3]*b[c] + a[r*3+1]*b[3+c] + a[r*3+2]*b[6+c]
		}
	}
	return m
}

// hueRotateMatrix builds the standard hue rotation matrix (the feColorMatrix
// "hueRotate" coefficients) for an angle in degrees.
func hueRotateMatrix(degrees float64) colorMatrix {
	if degrees == 0 {
		return identityMatrix
	}
	sin, cos := math.Sincos(degrees * math.Pi / 180)
	return colorMatrix{
		0.213 + cos*0.787 - sin*0.213, 0.715 - cos*0.715 - sin*0.715, 0.072 - cos*0.072 + sin*0.928,
		0.213 - cos*0.213 + sin*0.143, 0.715 + cos*0.285 + sin*0.140, 0.072 - cos*0.072 - sin*0.283,
		0.213 - cos*0.213 - sin*0.787, 0.715 - cos*0.715 + sin*0.715, 0.072 + cos*0.928 + sin*0.072,
	}
}

// saturationMatrix builds a saturation matrix for a multiplier s (1 is
// neutral, 0 is grayscale) using the Rec. 601 luminance weights.
func saturationMatrix(s float64) colorMatrix {
	if s == 1 {
		return identityMatrix
	}
	sr := (1 - s) * 0.299
	sg := (1 - s) * 0.587
	sb := (1 - s) * 0.114
	return colorMatrix{
		sr + s, sg, sb,
		sr, sg + s, sb,
		sr, sg, sb + s,
	}
}

// brightnessMatrix builds a brightness matrix for a multiplier b (1 is
// neutral). Channels scale uniformly and clamp at white.
func brightnessMatrix(b float64) colorMatrix {
	if b == 1 {
		return identityMatrix
	}
	return colorMatrix{
		b, 0, 0,
		0, b, 0,
		0, 0, b,
	}
}

// adjustMatrix composes the full adjustment for a State: hue rotation first,
// then saturation, then brightness, percentages interpreted as multipliers.
func adjustMatrix(hueDeg, saturationPct, brightnessPct float64) colorMatrix {
	m := hueRotateMatrix(hueDeg)
	m = mulMatrix(saturationMatrix(saturationPct/100), m)
	m = mulMatrix(brightnessMatrix(brightnessPct/100), m)
	return m
}

// isIdentity reports whether the matrix is exactly the identity, which lets
// the compositor skip the per-pixel pass entirely.
func (m colorMatrix) isIdentity() bool {
	return m == identityMatrix
}

// applyColorMatrix transforms every pixel of img in place. img holds
// non-premultiplied RGBA, so alpha passes through untouched.
func applyColorMatrix(img *image.NRGBA, m colorMatrix) {
	if m.isIdentity() {
		return
	}
	pix := img.Pix
	for i := 0; i < len(pix); i += 4 {
		r := float64(pix[i])
		g := float64(pix[i+1])
		b := float64(pix[i+2])
		pix[i] = clampByte(m[0]*r + m[1]*g + m[2]*b)
		pix[i+1] = clampByte(m[3]*r + m[4]*g + m[5]*b)
		pix[i+2] = clampByte(m[6]*r + m[7]*g + m[8]*b)
	}
}

func clampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
