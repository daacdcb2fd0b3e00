package mockup

import (
	"context"
	"encoding/base64"
	"errors"
	"image/color"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// drainOne blocks for the next completion or fails the test.
func drainOne(t *testing.T, l *Loader) loadResult {
	t.Helper()
	select {
	case res := <-l.Completions():
		return res
	case <-time.After(2 * time.Second):
		t.Fatal("no completion within deadline")
		return loadResult{}
	}
}

func TestLoadBytes(t *testing.T) {
	l := NewLoader(nil)
	data := pngBytes(t, solidImage(8, 6, color.NRGBA{1, 2, 3, 255}))

	token := l.LoadBytes(SlotForeground, "upload:test", data)
	res := drainOne(t, l)

	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}
	if res.slot != SlotForeground || res.token != token {
		t.Errorf("result routing = (%v, %d), want (%v, %d)", res.slot, res.token, SlotForeground, token)
	}
	if !l.IsCurrent(res.slot, res.token) {
		t.Error("freshly delivered token should be current")
	}
	if res.bitmap.Width() != 8 || res.bitmap.Height() != 6 {
		t.Errorf("bitmap size = %dx%d, want 8x6", res.bitmap.Width(), res.bitmap.Height())
	}
	if res.bitmap.Source() != "upload:test" {
		t.Errorf("source = %q", res.bitmap.Source())
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.png")
	if err := os.WriteFile(path, pngBytes(t, patternImage(12, 9)), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(nil)
	l.Load(context.Background(), SlotBackground, path)
	res := drainOne(t, l)
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}
	if res.bitmap.Width() != 12 || res.bitmap.Height() != 9 {
		t.Errorf("bitmap size = %dx%d, want 12x9", res.bitmap.Width(), res.bitmap.Height())
	}
}

func TestLoadDataURI(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString(pngBytes(t, solidImage(3, 3, color.NRGBA{9, 9, 9, 255})))
	l := NewLoader(nil)
	l.Load(context.Background(), SlotForeground, "data:image/png;base64,"+payload)
	res := drainOne(t, l)
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}
	if res.bitmap.Width() != 3 {
		t.Errorf("width = %d, want 3", res.bitmap.Width())
	}
}

func TestLoadURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(pngBytes(t, solidImage(5, 4, color.NRGBA{7, 7, 7, 255})))
	}))
	defer srv.Close()

	l := NewLoader(srv.Client())
	l.Load(context.Background(), SlotBackground, srv.URL+"/photo.png")
	res := drainOne(t, l)
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}
	if res.bitmap.Width() != 5 || res.bitmap.Height() != 4 {
		t.Errorf("bitmap size = %dx%d, want 5x4", res.bitmap.Width(), res.bitmap.Height())
	}
}

func TestLoadURLBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	l := NewLoader(srv.Client())
	l.Load(context.Background(), SlotBackground, srv.URL+"/missing.png")
	res := drainOne(t, l)

	var de *DecodeError
	if !errors.As(res.err, &de) {
		t.Fatalf("error = %v, want *DecodeError", res.err)
	}
	if de.Source != srv.URL+"/missing.png" {
		t.Errorf("error source = %q", de.Source)
	}
	if res.bitmap != nil {
		t.Error("failed load should carry no bitmap")
	}
}

func TestLoadBadData(t *testing.T) {
	l := NewLoader(nil)
	l.LoadBytes(SlotForeground, "upload:garbage", []byte("not an image"))
	res := drainOne(t, l)

	var de *DecodeError
	if !errors.As(res.err, &de) {
		t.Fatalf("error = %v, want *DecodeError", res.err)
	}
}

func TestLoadSupersedes(t *testing.T) {
	l := NewLoader(nil)
	data := pngBytes(t, solidImage(2, 2, color.NRGBA{A: 255}))

	old := l.LoadBytes(SlotForeground, "upload:old", data)
	newer := l.LoadBytes(SlotForeground, "upload:new", data)

	if l.IsCurrent(SlotForeground, old) {
		t.Error("superseded token still reports current")
	}
	if !l.IsCurrent(SlotForeground, newer) {
		t.Error("newest token should be current")
	}

	// Both results still arrive; the owner drops the stale one by token.
	a := drainOne(t, l)
	b := drainOne(t, l)
	seen := map[uint64]bool{a.token: true, b.token: true}
	if !seen[old] || !seen[newer] {
		t.Errorf("tokens delivered = %v, want both %d and %d", seen, old, newer)
	}
}

func TestLoadSlotsIndependent(t *testing.T) {
	l := NewLoader(nil)
	data := pngBytes(t, solidImage(2, 2, color.NRGBA{A: 255}))

	bg := l.LoadBytes(SlotBackground, "upload:bg", data)
	fg := l.LoadBytes(SlotForeground, "upload:fg", data)

	if !l.IsCurrent(SlotBackground, bg) || !l.IsCurrent(SlotForeground, fg) {
		t.Error("loads in different slots must not supersede each other")
	}
	drainOne(t, l)
	drainOne(t, l)
}

func TestDecodeSync(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.png")
	if err := os.WriteFile(path, pngBytes(t, solidImage(4, 4, color.NRGBA{A: 255})), 0o644); err != nil {
		t.Fatal(err)
	}

	bm, err := Decode(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bm.Width() != 4 {
		t.Errorf("width = %d, want 4", bm.Width())
	}

	if _, err := Decode(context.Background(), filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Error("missing file should return an error")
	}
}
