package mockup

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"strings"
	"time"
)

// ExportError reports that the current composition cannot be exported —
// typically because no render has completed yet. It is surfaced to the
// caller, never swallowed.
type ExportError struct {
	Reason string
}

func (e *ExportError) Error() string {
	return "export: " + e.Reason
}

// encodeFrame writes a completed render as a lossless, alpha-capable PNG.
func encodeFrame(w io.Writer, frame *image.NRGBA) error {
	if frame == nil {
		return &ExportError{Reason: "no completed render"}
	}
	if err := png.Encode(w, frame); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// WritePNG encodes a frame to a PNG file at the given path. It fails with
// ExportError for a nil frame, same as Engine.Export.
func WritePNG(path string, frame *image.NRGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := encodeFrame(f, frame); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ExportFilename returns a download-ready filename for an export performed
// at time t, e.g. "design_20260827_153012.png".
func ExportFilename(t time.Time) string {
	return "design_" + t.Format("20060102_150405") + ".png"
}

// LabeledExportFilename is ExportFilename with a user-supplied label (for
// example the generation prompt) in place of the "design" prefix, e.g.
// "summer-tee_20260827_153012.png".
func LabeledExportFilename(label string, t time.Time) string {
	return sanitizeLabel(label) + "_" + t.Format("20060102_150405") + ".png"
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "design" for empty strings. Used when an
// export label is derived from a prompt.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "design"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
