package mockup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Style selects the rendering style requested from the design generator.
type Style string

const (
	StyleRealistic Style = "realistic"
	StyleCartoon   Style = "cartoon"
	StyleMinimal   Style = "minimal"
	StyleAbstract  Style = "abstract"
)

// Styles lists the supported generation styles.
var Styles = []Style{StyleRealistic, StyleCartoon, StyleMinimal, StyleAbstract}

// ParseStyle resolves a style name. Returns an error naming the valid set
// for anything else.
func ParseStyle(s string) (Style, error) {
	for _, st := range Styles {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown style %q (valid: realistic, cartoon, minimal, abstract)", s)
}

// Generator produces an encoded design image for a prompt. The remote
// generation call is opaque to the engine: it either returns usable image
// bytes or fails.
type Generator interface {
	Generate(ctx context.Context, prompt string, style Style) ([]byte, error)
}

// GenerationFailure reports that the generator returned no usable image.
// It is retryable: the engine leaves the prompt history untouched so the
// user can retry without retyping.
type GenerationFailure struct {
	Prompt string
	Err    error
}

func (e *GenerationFailure) Error() string {
	return fmt.Sprintf("generate %q: %v", e.Prompt, e.Err)
}

func (e *GenerationFailure) Unwrap() error { return e.Err }

// HistoryEntry records one successful generation this session.
type HistoryEntry struct {
	ID        string
	Prompt    string
	Style     Style
	CreatedAt time.Time
}

// newHistoryEntry stamps a history record for a completed generation.
func newHistoryEntry(prompt string, style Style) HistoryEntry {
	return HistoryEntry{
		ID:        uuid.NewString(),
		Prompt:    prompt,
		Style:     style,
		CreatedAt: time.Now(),
	}
}

// generateRequest is the JSON body HTTPGenerator posts.
type generateRequest struct {
	Prompt string `json:"prompt"`
	Style  string `json:"style"`
}

// HTTPGenerator calls a remote generation endpoint: a POST with a JSON
// {prompt, style} body, answered with the encoded image bytes.
type HTTPGenerator struct {
	// Endpoint is the full URL of the generation route.
	Endpoint string
	// Client may be nil to use http.DefaultClient.
	Client *http.Client
}

// Generate posts the prompt and returns the response body on success. Any
// transport error or non-200 status becomes a GenerationFailure.
func (g *HTTPGenerator) Generate(ctx context.Context, prompt string, style Style) ([]byte, error) {
	body, err := json.Marshal(generateRequest{Prompt: prompt, Style: string(style)})
	if err != nil {
		return nil, &GenerationFailure{Prompt: prompt, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &GenerationFailure{Prompt: prompt, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &GenerationFailure{Prompt: prompt, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, &GenerationFailure{Prompt: prompt, Err: fmt.Errorf("provider returned %s", resp.Status)}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &GenerationFailure{Prompt: prompt, Err: err}
	}
	if len(data) == 0 {
		return nil, &GenerationFailure{Prompt: prompt, Err: fmt.Errorf("provider returned an empty body")}
	}
	return data, nil
}
