package mockup

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"strings"

	// Decoders for the formats a photo or generated design arrives in.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// Bitmap is a decoded-image handle. It is immutable once decoded; the loader
// replaces the whole handle when a slot's source changes, so an in-flight
// render holding a Bitmap is never mutated underneath it.
type Bitmap struct {
	img    image.Image
	width  int
	height int
	source string
}

// Image returns the decoded pixels.
func (b *Bitmap) Image() image.Image { return b.img }

// Width returns the native pixel width.
func (b *Bitmap) Width() int { return b.width }

// Height returns the native pixel height.
func (b *Bitmap) Height() int { return b.height }

// Source returns the identifier the bitmap was decoded from.
func (b *Bitmap) Source() string { return b.source }

// DecodeError reports a source that could not be fetched or decoded. The
// prior bitmap for the slot stays in place; the error is advisory.
type DecodeError struct {
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// loadResult is one finished decode, delivered on the loader's completion
// channel. The token identifies which request produced it.
type loadResult struct {
	slot   Slot
	token  uint64
	bitmap *Bitmap
	err    error
}

// Loader decodes image sources into Bitmaps, one logical slot each for the
// background and the foreground. Decodes run on their own goroutines; the
// owner drains Completions from its single engine goroutine.
//
// A newer Load for a slot supersedes an older in-flight one: each request
// gets the slot's next token, and results whose token is no longer current
// must be dropped (IsCurrent). Cancellation is by ignoring the stale result,
// not by interrupting the decode.
type Loader struct {
	client *http.Client
	tokens [slotCount]uint64
	done   chan loadResult
}

// NewLoader creates a loader. client may be nil to use http.DefaultClient
// for URL sources.
func NewLoader(client *http.Client) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Loader{
		client: client,
		done:   make(chan loadResult, 16),
	}
}

// Completions returns the channel finished decodes arrive on.
func (l *Loader) Completions() <-chan loadResult { return l.done }

// IsCurrent reports whether token is still the newest request for slot.
func (l *Loader) IsCurrent(slot Slot, token uint64) bool {
	return l.tokens[slot] == token
}

// Load starts decoding source into the given slot and returns the request
// token. source may be a local file path, a data: URI, or an http(s) URL.
// The decode runs asynchronously; the result arrives on Completions.
func (l *Loader) Load(ctx context.Context, slot Slot, source string) uint64 {
	l.tokens[slot]++
	token := l.tokens[slot]
	go func() {
		img, err := decodeSource(ctx, l.client, source)
		l.deliver(slot, token, source, img, err)
	}()
	return token
}

// LoadBytes decodes an in-memory encoded image into the slot, identified by
// source for error reporting. Used for generated designs and uploads that
// arrive as raw bytes.
func (l *Loader) LoadBytes(slot Slot, source string, data []byte) uint64 {
	l.tokens[slot]++
	token := l.tokens[slot]
	go func() {
		img, _, err := image.Decode(bytes.NewReader(data))
		l.deliver(slot, token, source, img, err)
	}()
	return token
}

func (l *Loader) deliver(slot Slot, token uint64, source string, img image.Image, err error) {
	res := loadResult{slot: slot, token: token}
	if err != nil {
		res.err = &DecodeError{Source: source, Err: err}
	} else {
		b := img.Bounds()
		res.bitmap = &Bitmap{img: img, width: b.Dx(), height: b.Dy(), source: source}
	}
	l.done <- res
}

// Decode fetches and decodes a source synchronously, outside the slot and
// token machinery. Intended for one-shot (headless) use.
func Decode(ctx context.Context, source string) (*Bitmap, error) {
	img, err := decodeSource(ctx, http.DefaultClient, source)
	if err != nil {
		return nil, &DecodeError{Source: source, Err: err}
	}
	b := img.Bounds()
	return &Bitmap{img: img, width: b.Dx(), height: b.Dy(), source: source}, nil
}

// decodeSource fetches and decodes a single source reference.
func decodeSource(ctx context.Context, client *http.Client, source string) (image.Image, error) {
	switch {
	case strings.HasPrefix(source, "data:"):
		return decodeDataURI(source)
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return decodeURL(ctx, client, source)
	default:
		f, err := os.Open(source)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		img, _, err := image.Decode(f)
		return img, err
	}
}

// decodeDataURI decodes a base64 data URI such as
// "data:image/png;base64,iVBOR...". The media type is ignored; the image
// decoder sniffs the format itself.
func decodeDataURI(uri string) (image.Image, error) {
	comma := strings.IndexByte(uri, ',')
	if comma < 0 {
		return nil, fmt.Errorf("malformed data URI")
	}
	meta := uri[len("data:"):comma]
	payload := uri[comma+1:]

	var raw []byte
	var err error
	if strings.HasSuffix(meta, ";base64") {
		raw, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("base64 payload: %w", err)
		}
	} else {
		raw = []byte(payload)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	return img, err
}

func decodeURL(ctx context.Context, client *http.Client, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	img, _, err := image.Decode(resp.Body)
	return img, err
}
