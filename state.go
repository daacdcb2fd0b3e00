package mockup

import "math"

// State describes how the foreground layer is placed and color-adjusted
// relative to the background. It is a plain value: reads are snapshots, and
// the only way to produce a new current state is Store.Update or Store.Reset.
type State struct {
	// Scale multiplies the 30%-of-background baseline width.
	Scale float64
	// Rotation is degrees clockwise about the foreground center, [-180, 180].
	Rotation float64
	// Opacity is the compositing alpha, [0.1, 1.0].
	Opacity float64
	// OffsetX and OffsetY translate the foreground center away from the
	// background center, in background pixel space.
	OffsetX float64
	OffsetY float64
	// Blend is the per-pixel compositing operator.
	Blend BlendMode
	// Hue is a color rotation in degrees, [0, 360).
	Hue float64
	// Saturation and Brightness are percentages, [0, 200]; 100 is neutral.
	Saturation float64
	Brightness float64
}

// DefaultState returns the documented field defaults.
func DefaultState() State {
	return State{
		Scale:      1,
		Rotation:   0,
		Opacity:    0.8,
		OffsetX:    0,
		OffsetY:    0,
		Blend:      BlendMultiply,
		Hue:        0,
		Saturation: 100,
		Brightness: 100,
	}
}

// Patch is a partial State. Nil fields are left untouched by Store.Update;
// set fields are merged over the current state and clamped to their domains.
type Patch struct {
	Scale      *float64
	Rotation   *float64
	Opacity    *float64
	OffsetX    *float64
	OffsetY    *float64
	Blend      *BlendMode
	Hue        *float64
	Saturation *float64
	Brightness *float64
}

// Store owns the current State. All mutation funnels through Update and
// Reset, which clamp every touched field and fire the change callback once.
//
// Store is not safe for concurrent use; like the rest of the engine it
// belongs to a single goroutine.
type Store struct {
	cfg      Config
	state    State
	onChange func(State)
}

// NewStore creates a Store holding the default state.
func NewStore(cfg Config) *Store {
	return &Store{cfg: cfg, state: DefaultState()}
}

// State returns a snapshot of the current state.
func (s *Store) State() State {
	return s.state
}

// OnChange registers the change callback. Every successful Update or Reset
// invokes it exactly once with the new state.
func (s *Store) OnChange(fn func(State)) {
	s.onChange = fn
}

// Update merges the set fields of p over the current state, clamps each to
// its domain, installs the result, and returns it. Out-of-domain values are
// normalized, never rejected.
func (s *Store) Update(p Patch) State {
	st := s.state
	if p.Scale != nil {
		st.Scale = clampFloat(*p.Scale, s.cfg.MinScale, s.cfg.MaxScale)
	}
	if p.Rotation != nil {
		st.Rotation = clampFloat(*p.Rotation, -180, 180)
	}
	if p.Opacity != nil {
		st.Opacity = clampFloat(*p.Opacity, 0.1, 1.0)
	}
	if p.OffsetX != nil {
		st.OffsetX = *p.OffsetX
	}
	if p.OffsetY != nil {
		st.OffsetY = *p.OffsetY
	}
	if p.Blend != nil {
		st.Blend = *p.Blend
		if int(st.Blend) >= len(blendNames) {
			st.Blend = BlendMultiply
		}
	}
	if p.Hue != nil {
		st.Hue = wrapHue(*p.Hue)
	}
	if p.Saturation != nil {
		st.Saturation = clampFloat(*p.Saturation, 0, 200)
	}
	if p.Brightness != nil {
		st.Brightness = clampFloat(*p.Brightness, 0, 200)
	}
	s.state = st
	s.fire()
	return st
}

// Reset restores the named fields to their defaults and returns the result.
func (s *Store) Reset(fields Field) State {
	def := DefaultState()
	st := s.state
	if fields&FieldScale != 0 {
		st.Scale = clampFloat(def.Scale, s.cfg.MinScale, s.cfg.MaxScale)
	}
	if fields&FieldRotation != 0 {
		st.Rotation = def.Rotation
	}
	if fields&FieldOpacity != 0 {
		st.Opacity = def.Opacity
	}
	if fields&FieldOffsets != 0 {
		st.OffsetX = def.OffsetX
		st.OffsetY = def.OffsetY
	}
	if fields&FieldBlend != 0 {
		st.Blend = def.Blend
	}
	if fields&FieldHue != 0 {
		st.Hue = def.Hue
	}
	if fields&FieldSaturation != 0 {
		st.Saturation = def.Saturation
	}
	if fields&FieldBrightness != 0 {
		st.Brightness = def.Brightness
	}
	s.state = st
	s.fire()
	return st
}

func (s *Store) fire() {
	if s.onChange != nil {
		s.onChange(s.state)
	}
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// wrapHue normalizes a hue angle into [0, 360). Hue lives on a circle, so
// out-of-domain values wrap rather than saturate at the bounds.
func wrapHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}
