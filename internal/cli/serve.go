package cli

import (
	"encoding/json"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/fogleman/gg"
	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/phanxgames/mockup"
)

const placeholderSize = 512

// newServeCmd creates a local stub of the design generation provider. It
// answers the same POST /generate route HTTPGenerator speaks, rendering a
// deterministic placeholder design from the prompt, so the full
// generate→load→composite path works without a remote service.
func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local stub design generator",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			r := chi.NewRouter()
			r.Post("/generate", handleGenerate(logger.Printf))

			logger.Info("stub generator listening", "addr", addr)
			srv := &http.Server{
				Addr:              addr,
				Handler:           r,
				ReadHeaderTimeout: 5 * time.Second,
			}
			return srv.ListenAndServe()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8750", "listen address")
	return cmd
}

type generateRequest struct {
	Prompt string `json:"prompt"`
	Style  string `json:"style"`
}

// handleGenerate decodes the request, validates the style, and streams a
// placeholder PNG back.
func handleGenerate(logf func(string, ...any)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "malformed request body", http.StatusBadRequest)
			return
		}
		if req.Prompt == "" {
			http.Error(w, "prompt is required", http.StatusBadRequest)
			return
		}
		style, err := mockup.ParseStyle(req.Style)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		dc := drawPlaceholder(req.Prompt, style)
		w.Header().Set("Content-Type", "image/png")
		if err := dc.EncodePNG(w); err != nil {
			logf("encode placeholder: %v", err)
		}
	}
}

// drawPlaceholder renders a deterministic design for the prompt: the prompt
// seeds the RNG, the style picks the shape vocabulary. Same prompt and
// style, same pixels.
func drawPlaceholder(prompt string, style mockup.Style) *gg.Context {
	h := fnv.New64a()
	h.Write([]byte(prompt))
	h.Write([]byte(style))
	rng := rand.New(rand.NewPCG(h.Sum64(), 0))

	dc := gg.NewContext(placeholderSize, placeholderSize)
	cx := float64(placeholderSize) / 2

	shapes := 5 + rng.IntN(6)
	for i := 0; i < shapes; i++ {
		x := rng.Float64() * placeholderSize
		y := rng.Float64() * placeholderSize
		size := 30 + rng.Float64()*120
		dc.SetRGBA(rng.Float64(), rng.Float64(), rng.Float64(), styleAlpha(style))

		switch style {
		case mockup.StyleMinimal:
			dc.DrawCircle(cx, cx, 40+float64(i)*18)
			dc.SetLineWidth(4)
			dc.Stroke()
		case mockup.StyleCartoon:
			dc.DrawRegularPolygon(3+rng.IntN(4), x, y, size/2, rng.Float64()*math.Pi)
			dc.Fill()
		case mockup.StyleAbstract:
			dc.DrawEllipse(x, y, size, size/(1.2+rng.Float64()))
			dc.Fill()
		default: // realistic: layered soft discs
			dc.DrawCircle(x, y, size/2)
			dc.Fill()
		}
	}
	return dc
}

func styleAlpha(style mockup.Style) float64 {
	if style == mockup.StyleMinimal {
		return 1
	}
	return 0.85
}
