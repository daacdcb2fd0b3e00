package mockup

// Tracker converts raw pointer events into offset updates on a Store. It is
// a two-state machine: Idle until a pointer goes down over the canvas with a
// foreground present, Dragging until that same pointer goes up, leaves, or
// is cancelled. Secondary pointers are ignored for the whole gesture.
//
// Pointer coordinates arrive in display space. Deltas are converted to
// background pixel space by the pixelRatio callback, which reports how many
// native pixels one displayed pixel covers on each axis (> 1 when the canvas
// is shown smaller than the photo).
type Tracker struct {
	store         *Store
	hasForeground func() bool
	pixelRatio    func() (rx, ry float64)

	active  bool
	pointer int
	lastX   float64
	lastY   float64
}

// NewTracker wires a gesture tracker to a store. hasForeground gates the
// Idle→Dragging transition; pixelRatio supplies the display-to-native
// conversion and may be nil for 1:1 surfaces.
func NewTracker(store *Store, hasForeground func() bool, pixelRatio func() (rx, ry float64)) *Tracker {
	return &Tracker{
		store:         store,
		hasForeground: hasForeground,
		pixelRatio:    pixelRatio,
	}
}

// Dragging reports whether a drag gesture is in progress.
func (t *Tracker) Dragging() bool {
	return t.active
}

// PointerDown starts a drag at (x, y) for the given pointer id. A down while
// already dragging is a secondary touch point and is ignored, as is a down
// when no foreground image is selected.
func (t *Tracker) PointerDown(id int, x, y float64) {
	if t.active {
		return
	}
	if t.hasForeground != nil && !t.hasForeground() {
		return
	}
	t.active = true
	t.pointer = id
	t.lastX = x
	t.lastY = y
}

// PointerMove advances the drag. Moves from pointers other than the one that
// started the gesture, or while idle, are no-ops. Each move converts the
// display-space delta to background pixels and shifts the offsets by it.
func (t *Tracker) PointerMove(id int, x, y float64) {
	if !t.active || id != t.pointer {
		return
	}
	dx := x - t.lastX
	dy := y - t.lastY
	t.lastX = x
	t.lastY = y
	if dx == 0 && dy == 0 {
		return
	}
	rx, ry := 1.0, 1.0
	if t.pixelRatio != nil {
		rx, ry = t.pixelRatio()
	}
	st := t.store.State()
	ox := st.OffsetX + dx*rx
	oy := st.OffsetY + dy*ry
	t.store.Update(Patch{OffsetX: &ox, OffsetY: &oy})
}

// PointerUp ends the drag if id is the gesture's pointer.
func (t *Tracker) PointerUp(id int) {
	if t.active && id == t.pointer {
		t.active = false
	}
}

// PointerCancel ends the drag the same way PointerUp does. Used for
// leave/cancel events from the host surface.
func (t *Tracker) PointerCancel(id int) {
	t.PointerUp(id)
}

// AdjustScale applies a discrete scale step (from a button or wheel tick),
// independent of the drag state machine. The store clamps the result.
func (t *Tracker) AdjustScale(delta float64) {
	st := t.store.State()
	v := st.Scale + delta
	t.store.Update(Patch{Scale: &v})
}
