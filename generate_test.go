package mockup

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseStyle(t *testing.T) {
	for _, st := range Styles {
		got, err := ParseStyle(string(st))
		if err != nil || got != st {
			t.Errorf("ParseStyle(%q) = (%v, %v)", st, got, err)
		}
	}
	if _, err := ParseStyle("baroque"); err == nil {
		t.Error("unknown style should fail")
	}
}

func TestHTTPGeneratorPostsPromptAndStyle(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("bad body: %v", err)
		}
		w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	g := &HTTPGenerator{Endpoint: srv.URL, Client: srv.Client()}
	data, err := g.Generate(context.Background(), "red logo", StyleCartoon)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("data = %q", data)
	}
	if got.Prompt != "red logo" || got.Style != "cartoon" {
		t.Errorf("request = %+v", got)
	}
}

func TestHTTPGeneratorFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"bad status", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		}},
		{"empty body", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			g := &HTTPGenerator{Endpoint: srv.URL, Client: srv.Client()}
			_, err := g.Generate(context.Background(), "p", StyleMinimal)
			var gf *GenerationFailure
			if !errors.As(err, &gf) {
				t.Fatalf("error = %v, want *GenerationFailure", err)
			}
			if gf.Prompt != "p" {
				t.Errorf("failure prompt = %q", gf.Prompt)
			}
		})
	}
}

func TestHistoryEntryStamping(t *testing.T) {
	a := newHistoryEntry("first", StyleRealistic)
	b := newHistoryEntry("second", StyleAbstract)
	if a.ID == "" || b.ID == "" || a.ID == b.ID {
		t.Errorf("entry IDs must be unique and non-empty: %q, %q", a.ID, b.ID)
	}
	if a.CreatedAt.IsZero() {
		t.Error("entry missing timestamp")
	}
}
