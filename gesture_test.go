package mockup

import "testing"

// newTestTracker builds a tracker over a fresh store with a fixed
// display-to-native ratio and a controllable foreground flag.
func newTestTracker(ratio float64, hasFG *bool) (*Tracker, *Store) {
	store := NewStore(DefaultConfig())
	tr := NewTracker(store,
		func() bool { return *hasFG },
		func() (float64, float64) { return ratio, ratio },
	)
	return tr, store
}

func TestGestureRoundTrip(t *testing.T) {
	// A 200x200 native canvas shown at half size: every displayed pixel
	// covers 2 native pixels.
	hasFG := true
	tr, store := newTestTracker(2, &hasFG)

	tr.PointerDown(0, 10, 10)
	if !tr.Dragging() {
		t.Fatal("expected Dragging after pointer down")
	}
	tr.PointerMove(0, 15, 14)
	st := store.State()
	if st.OffsetX != 10 || st.OffsetY != 8 {
		t.Errorf("offsets = (%v, %v), want (10, 8)", st.OffsetX, st.OffsetY)
	}

	tr.PointerUp(0)
	if tr.Dragging() {
		t.Fatal("expected Idle after pointer up")
	}

	// Moves without a new down are no-ops.
	tr.PointerMove(0, 50, 50)
	st = store.State()
	if st.OffsetX != 10 || st.OffsetY != 8 {
		t.Errorf("offsets changed after up: (%v, %v)", st.OffsetX, st.OffsetY)
	}
}

func TestGestureIncrementalMoves(t *testing.T) {
	hasFG := true
	tr, store := newTestTracker(1, &hasFG)

	tr.PointerDown(0, 0, 0)
	tr.PointerMove(0, 3, 0)
	tr.PointerMove(0, 3, 4)
	tr.PointerMove(0, 10, 10)

	st := store.State()
	if st.OffsetX != 10 || st.OffsetY != 10 {
		t.Errorf("offsets = (%v, %v), want (10, 10)", st.OffsetX, st.OffsetY)
	}
}

func TestGestureDisabledWithoutForeground(t *testing.T) {
	hasFG := false
	tr, store := newTestTracker(1, &hasFG)

	tr.PointerDown(0, 10, 10)
	if tr.Dragging() {
		t.Fatal("drag should not start without a foreground")
	}
	tr.PointerMove(0, 50, 50)
	if st := store.State(); st.OffsetX != 0 || st.OffsetY != 0 {
		t.Errorf("offsets moved without a gesture: (%v, %v)", st.OffsetX, st.OffsetY)
	}
}

func TestGestureIgnoresSecondaryPointers(t *testing.T) {
	hasFG := true
	tr, store := newTestTracker(1, &hasFG)

	tr.PointerDown(1, 0, 0)
	tr.PointerDown(2, 100, 100) // secondary touch: ignored
	tr.PointerMove(2, 150, 150) // ignored
	tr.PointerMove(1, 5, 5)

	st := store.State()
	if st.OffsetX != 5 || st.OffsetY != 5 {
		t.Errorf("offsets = (%v, %v), want (5, 5)", st.OffsetX, st.OffsetY)
	}

	tr.PointerUp(2) // releasing the secondary pointer keeps the gesture
	if !tr.Dragging() {
		t.Fatal("gesture ended by secondary pointer release")
	}
	tr.PointerUp(1)
	if tr.Dragging() {
		t.Fatal("gesture should end with the primary pointer")
	}
}

func TestGestureCancel(t *testing.T) {
	hasFG := true
	tr, _ := newTestTracker(1, &hasFG)

	tr.PointerDown(0, 0, 0)
	tr.PointerCancel(0)
	if tr.Dragging() {
		t.Fatal("expected Idle after cancel")
	}
}

func TestGestureNilRatioDefaultsToOneToOne(t *testing.T) {
	store := NewStore(DefaultConfig())
	tr := NewTracker(store, nil, nil)

	tr.PointerDown(0, 0, 0)
	tr.PointerMove(0, 7, -2)
	st := store.State()
	if st.OffsetX != 7 || st.OffsetY != -2 {
		t.Errorf("offsets = (%v, %v), want (7, -2)", st.OffsetX, st.OffsetY)
	}
}

func TestAdjustScale(t *testing.T) {
	hasFG := true
	tr, store := newTestTracker(1, &hasFG)

	tr.AdjustScale(0.5)
	if st := store.State(); st.Scale != 1.5 {
		t.Errorf("scale = %v, want 1.5", st.Scale)
	}

	// Works regardless of the drag state machine, and clamps.
	tr.PointerDown(0, 0, 0)
	tr.AdjustScale(999)
	if st := store.State(); st.Scale != 5.0 {
		t.Errorf("scale = %v, want clamped max 5.0", st.Scale)
	}
	tr.AdjustScale(-999)
	if st := store.State(); st.Scale != 0.05 {
		t.Errorf("scale = %v, want clamped min 0.05", st.Scale)
	}
}
