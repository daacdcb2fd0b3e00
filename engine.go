package mockup

import (
	"context"
	"image"
	"io"
)

// Engine ties the loader, the state store, and the compositor together. It
// owns the two bitmap slots and the last completed frame.
//
// Engine is single-goroutine, like the rest of the package: call every
// method from one goroutine (typically the host's update loop). The only
// concurrency is the loader's decode goroutines, and those communicate
// exclusively through the completion channel drained by Update.
type Engine struct {
	cfg     Config
	store   *Store
	loader  *Loader
	tracker *Tracker

	slots [slotCount]*Bitmap
	frame *image.NRGBA
	dirty bool

	gen     Generator
	history []HistoryEntry

	onFrame func(*image.NRGBA)
	onError func(error)
}

// NewEngine creates an engine with its own store, loader, and gesture
// tracker. pixelRatio feeds the tracker's display-to-native conversion and
// may be nil for 1:1 surfaces.
func NewEngine(cfg Config, pixelRatio func() (rx, ry float64)) *Engine {
	e := &Engine{
		cfg:    cfg,
		store:  NewStore(cfg),
		loader: NewLoader(nil),
	}
	e.store.OnChange(func(State) { e.dirty = true })
	e.tracker = NewTracker(e.store, func() bool { return e.slots[SlotForeground] != nil }, pixelRatio)
	return e
}

// Store returns the transform/filter state store.
func (e *Engine) Store() *Store { return e.store }

// Tracker returns the pointer gesture tracker.
func (e *Engine) Tracker() *Tracker { return e.tracker }

// Background returns the current background handle, or nil.
func (e *Engine) Background() *Bitmap { return e.slots[SlotBackground] }

// Foreground returns the current foreground handle, or nil.
func (e *Engine) Foreground() *Bitmap { return e.slots[SlotForeground] }

// Frame returns the last completed render, or nil if none has occurred.
func (e *Engine) Frame() *image.NRGBA { return e.frame }

// OnFrame registers a callback fired after every completed render.
func (e *Engine) OnFrame(fn func(*image.NRGBA)) { e.onFrame = fn }

// OnError registers a callback for recoverable errors (decode failures).
// Without one they are dropped after leaving the prior slot state intact.
func (e *Engine) OnError(fn func(error)) { e.onError = fn }

// SetGenerator installs the design generation collaborator.
func (e *Engine) SetGenerator(g Generator) { e.gen = g }

// History returns the prompt history of successful generations this session.
func (e *Engine) History() []HistoryEntry { return e.history }

// LoadBackground starts decoding a new background photo. The returned token
// identifies the request; a later load for the slot supersedes it.
func (e *Engine) LoadBackground(ctx context.Context, source string) uint64 {
	return e.loader.Load(ctx, SlotBackground, source)
}

// LoadForeground starts decoding a new foreground design.
func (e *Engine) LoadForeground(ctx context.Context, source string) uint64 {
	return e.loader.Load(ctx, SlotForeground, source)
}

// LoadForegroundBytes installs a foreground from in-memory encoded bytes
// (an upload or a generated design).
func (e *Engine) LoadForegroundBytes(source string, data []byte) uint64 {
	return e.loader.LoadBytes(SlotForeground, source, data)
}

// GenerateForeground asks the generation collaborator for a design and, on
// success, records the prompt and feeds the bytes to the foreground slot.
// On failure the history is left untouched so the caller can retry the same
// prompt, and the current foreground stays visible.
func (e *Engine) GenerateForeground(ctx context.Context, prompt string, style Style) error {
	if e.gen == nil {
		return &GenerationFailure{Prompt: prompt, Err: errNoGenerator}
	}
	data, err := e.gen.Generate(ctx, prompt, style)
	if err != nil {
		return err
	}
	entry := newHistoryEntry(prompt, style)
	e.history = append(e.history, entry)
	e.loader.LoadBytes(SlotForeground, "generated:"+entry.ID, data)
	return nil
}

// Update drains finished decodes and re-renders if anything changed. Call
// once per host frame. It returns true when a new frame was produced.
//
// Renders are serialized and coalesced: however many state updates and slot
// installs landed since the last call, at most one full render runs, from a
// consistent snapshot of the state and both completed handles.
func (e *Engine) Update() bool {
	for {
		select {
		case res := <-e.loader.Completions():
			e.install(res)
		default:
			if !e.dirty {
				return false
			}
			e.dirty = false
			e.render()
			return true
		}
	}
}

// install applies one decode completion. Superseded results are dropped
// unobservably; failed decodes leave the prior handle in place.
func (e *Engine) install(res loadResult) {
	if !e.loader.IsCurrent(res.slot, res.token) {
		return
	}
	if res.err != nil {
		if e.onError != nil {
			e.onError(res.err)
		}
		return
	}
	prev := e.slots[res.slot]
	e.slots[res.slot] = res.bitmap

	// A fresh photo invalidates the old placement: snap the design back to
	// the center before the next render.
	if res.slot == SlotBackground && (prev == nil || prev.Source() != res.bitmap.Source()) {
		e.store.Reset(FieldOffsets)
	}
	e.dirty = true
}

// render recomputes the frame from the current snapshot.
func (e *Engine) render() {
	bg := e.slots[SlotBackground]
	if bg == nil {
		e.frame = nil
		return
	}
	var fg image.Image
	if f := e.slots[SlotForeground]; f != nil {
		fg = f.Image()
	}
	st := e.store.State()
	if !e.cfg.ColorAdjust {
		def := DefaultState()
		st.Hue, st.Saturation, st.Brightness = def.Hue, def.Saturation, def.Brightness
	}
	e.frame = Render(bg.Image(), fg, st)
	if e.onFrame != nil && e.frame != nil {
		e.onFrame(e.frame)
	}
}

// Export encodes the most recent completed render as a PNG. It fails with
// ExportError when no render has occurred yet.
func (e *Engine) Export(w io.Writer) error {
	return encodeFrame(w, e.frame)
}

// ExportFile writes the most recent completed render to a PNG file.
func (e *Engine) ExportFile(path string) error {
	if e.frame == nil {
		return &ExportError{Reason: "no completed render"}
	}
	return WritePNG(path, e.frame)
}

type noGeneratorError struct{}

func (noGeneratorError) Error() string { return "no generator configured" }

var errNoGenerator = noGeneratorError{}
