package mockup

// BlendMode selects the per-pixel operator used when the foreground layer is
// composited over the backdrop. Operators follow the standard separable blend
// definitions (W3C Compositing and Blending Level 1), applied per RGB channel
// with both sides normalized to [0, 1].
type BlendMode uint8

const (
	BlendMultiply BlendMode = iota // B*S (only darkens; the default)
	BlendScreen                    // 1-(1-B)*(1-S) (only brightens)
	BlendOverlay                   // multiply or screen depending on the backdrop
	BlendDarken                    // min(B, S)
	BlendNormal                    // S (plain alpha blending)
)

// blendNames maps BlendMode values to their canonical names.
var blendNames = [...]string{
	BlendMultiply: "multiply",
	BlendScreen:   "screen",
	BlendOverlay:  "overlay",
	BlendDarken:   "darken",
	BlendNormal:   "normal",
}

// String returns the canonical lowercase name of the blend mode.
func (b BlendMode) String() string {
	if int(b) < len(blendNames) {
		return blendNames[b]
	}
	return "unknown"
}

// ParseBlendMode resolves a canonical blend mode name. Returns false if the
// name is not one of the five supported modes.
func ParseBlendMode(name string) (BlendMode, bool) {
	for i, n := range blendNames {
		if n == name {
			return BlendMode(i), true
		}
	}
	return BlendMultiply, false
}

// Field is a bitmask naming subsets of State fields, used by Store.Reset.
type Field uint16

const (
	FieldScale Field = 1 << iota
	FieldRotation
	FieldOpacity
	FieldOffsets
	FieldBlend
	FieldHue
	FieldSaturation
	FieldBrightness

	// FieldColor covers the three color adjustment fields.
	FieldColor = FieldHue | FieldSaturation | FieldBrightness
	// FieldAll restores every field to its default.
	FieldAll = FieldScale | FieldRotation | FieldOpacity | FieldOffsets |
		FieldBlend | FieldColor
)

// Slot names one of the two bitmap inputs managed by the Loader.
type Slot uint8

const (
	SlotBackground Slot = iota
	SlotForeground

	slotCount = 2
)

// String returns "background" or "foreground".
func (s Slot) String() string {
	if s == SlotBackground {
		return "background"
	}
	return "foreground"
}

// foregroundBaseline is the size normalization rule: at Scale == 1 the
// foreground is rendered at 30% of the background's width, regardless of the
// foreground's native pixel count.
const foregroundBaseline = 0.3

// Config holds the tunable constants of the engine. The scale bounds are
// deliberately configuration, not law; DefaultConfig uses the wide range.
type Config struct {
	// MinScale and MaxScale bound State.Scale.
	MinScale float64
	MaxScale float64
	// ColorAdjust enables the hue/saturation/brightness stage of the
	// compositor. When false the foreground is composited untouched.
	ColorAdjust bool
}

// DefaultConfig returns the stock engine configuration.
func DefaultConfig() Config {
	return Config{
		MinScale:    0.05,
		MaxScale:    5.0,
		ColorAdjust: true,
	}
}
