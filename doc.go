// Package mockup is an interactive compositing engine for previewing a
// generated design over a photograph.
//
// The engine keeps exactly two layers: a background photo and a foreground
// design. A [State] value describes how the design is placed — scale,
// rotation, opacity, offsets, blend mode, and a hue/saturation/brightness
// adjustment — and [Render] turns the two decoded bitmaps plus that state
// into a pixel buffer at the photo's native resolution, deterministically.
//
// # Engine
//
// [Engine] wires the pieces together for a host application:
//
//	eng := mockup.NewEngine(mockup.DefaultConfig(), view.PixelRatio)
//	eng.LoadBackground(ctx, "photo.jpg")
//	eng.LoadForeground(ctx, "design.png")
//	// each host frame:
//	eng.Update()
//
// Image decodes run asynchronously; a newer load for a slot supersedes an
// older in-flight one, so the render pipeline never sees a stale result.
// Every state change or completed load marks the engine dirty, and
// [Engine.Update] performs at most one full re-render per call.
//
// # Interaction
//
// [Tracker] converts pointer events into offset updates on the [Store],
// scaling display-space drag deltas into background pixel space. [View]
// shows frames in an Ebitengine window and supplies that scaling.
//
// # Export
//
// [Engine.Export] writes the most recent completed render as a lossless
// PNG at the background's native resolution.
//
// Everything in this package belongs to a single goroutine; only the
// loader's decode goroutines run concurrently, and they communicate
// through a completion channel drained by [Engine.Update].
package mockup
