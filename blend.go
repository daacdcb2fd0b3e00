package mockup

// blendFunc combines one normalized channel of the backdrop (b) and the
// source (s). Opacity is not the operator's business: the compositor applies
// it as the final mix between the blended result and the backdrop.
type blendFunc func(b, s float64) float64

func blendNormalOp(_, s float64) float64 { return s }

func blendMultiplyOp(b, s float64) float64 { return b * s }

func blendScreenOp(b, s float64) float64 { return 1 - (1-b)*(1-s) }

func blendOverlayOp(b, s float64) float64 {
	if b < 0.5 {
		return 2 * b * s
	}
	return 1 - 2*(1-b)*(1-s)
}

func blendDarkenOp(b, s float64) float64 {
	if b < s {
		return b
	}
	return s
}

// operator returns the channel function for a blend mode. Unknown values
// fall back to multiply, the engine default.
func (m BlendMode) operator() blendFunc {
	switch m {
	case BlendNormal:
		return blendNormalOp
	case BlendMultiply:
		return blendMultiplyOp
	case BlendScreen:
		return blendScreenOp
	case BlendOverlay:
		return blendOverlayOp
	case BlendDarken:
		return blendDarkenOp
	default:
		return blendMultiplyOp
	}
}
