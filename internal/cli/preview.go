package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/spf13/cobra"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/mockup"
)

const (
	wheelScaleStep = 0.1  // scale change per wheel notch
	rotationStep   = 5.0  // degrees per key press
	opacityStep    = 0.1  // alpha per key press
	hueStep        = 15.0 // degrees per key press
	percentStep    = 10.0 // saturation/brightness per key press
	fadeInSeconds  = 0.35 // foreground fade-in duration
)

// newPreviewCmd creates the interactive preview window command.
func newPreviewCmd(configPath *string) *cobra.Command {
	var bg, fg, prompt, style string

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Open an interactive preview window",
		Long: `Preview opens a window showing the design composited over the photo.

Controls:
  drag          move the design
  mouse wheel   scale
  Q / E         rotate
  B             cycle blend mode
  - / =         opacity
  H             rotate hue
  N / M         saturation down / up
  K / L         brightness down / up
  R             reset placement and filters
  X             export a PNG into the export directory`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			return runPreview(cmd, fc, bg, fg, prompt, style)
		},
	}

	cmd.Flags().StringVar(&bg, "bg", "", "background photo (file path, data URI, or URL)")
	cmd.Flags().StringVar(&fg, "fg", "", "foreground design (file path, data URI, or URL)")
	cmd.Flags().StringVar(&prompt, "prompt", "", "generate the foreground from this prompt instead of --fg")
	cmd.Flags().StringVar(&style, "style", string(mockup.StyleRealistic), "generation style for --prompt")
	_ = cmd.MarkFlagRequired("bg")

	return cmd
}

func runPreview(cmd *cobra.Command, fc fileConfig, bg, fg, prompt, style string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	view := mockup.NewView()
	eng := mockup.NewEngine(fc.engineConfig(), view.PixelRatio)
	eng.OnFrame(view.Upload)
	eng.OnError(func(err error) { logger.Warn("load failed", "err", err) })

	patch, err := fc.statePatch()
	if err != nil {
		return err
	}
	eng.Store().Update(patch)

	eng.LoadBackground(ctx, bg)
	switch {
	case fg != "":
		eng.LoadForeground(ctx, fg)
	case prompt != "":
		st, err := mockup.ParseStyle(style)
		if err != nil {
			return err
		}
		if fc.Generator.Endpoint == "" {
			return fmt.Errorf("--prompt needs a generator endpoint in the config (try `mockup serve`)")
		}
		eng.SetGenerator(&mockup.HTTPGenerator{Endpoint: fc.Generator.Endpoint})
		if err := eng.GenerateForeground(ctx, prompt, st); err != nil {
			return err
		}
	}

	app := &previewApp{
		ctx:       ctx,
		logger:    logger,
		engine:    eng,
		view:      view,
		exportDir: fc.Preview.ExportDir,
	}

	ebiten.SetWindowSize(fc.Preview.Width, fc.Preview.Height)
	ebiten.SetWindowTitle("Mockup Preview")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(app)
}

// previewApp is the ebiten.Game hosting the engine. All engine calls happen
// in Update, which keeps the single-goroutine contract.
type previewApp struct {
	ctx    context.Context
	logger *charmlog.Logger
	engine *mockup.Engine
	view   *mockup.View

	exportDir string

	mouseDown bool
	touchIDs  []ebiten.TouchID
	activeTID ebiten.TouchID
	touching  bool

	fgSource string
	fade     *gween.Tween
}

func (a *previewApp) Update() error {
	a.pollMouse()
	a.pollTouch()
	a.pollKeys()
	a.updateFade()
	a.engine.Update()
	return nil
}

func (a *previewApp) Draw(screen *ebiten.Image) {
	a.view.Draw(screen)
}

func (a *previewApp) Layout(w, h int) (int, int) {
	return w, h
}

// pollMouse drives the gesture tracker from the mouse (pointer 0).
func (a *previewApp) pollMouse() {
	tr := a.engine.Tracker()
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)

	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	switch {
	case pressed && !a.mouseDown:
		a.mouseDown = true
		if _, _, over := a.view.ScreenToCanvas(x, y); over {
			tr.PointerDown(0, x, y)
		}
	case pressed && a.mouseDown:
		tr.PointerMove(0, x, y)
	case !pressed && a.mouseDown:
		a.mouseDown = false
		tr.PointerUp(0)
	}

	if _, wy := ebiten.Wheel(); wy != 0 {
		tr.AdjustScale(wy * wheelScaleStep)
	}
}

// pollTouch drives the tracker from the first touch point (pointer 1).
// Additional touches are ignored here and by the tracker itself.
func (a *previewApp) pollTouch() {
	tr := a.engine.Tracker()
	a.touchIDs = ebiten.AppendTouchIDs(a.touchIDs[:0])

	if a.touching {
		for _, tid := range a.touchIDs {
			if tid == a.activeTID {
				tx, ty := ebiten.TouchPosition(tid)
				tr.PointerMove(1, float64(tx), float64(ty))
				return
			}
		}
		a.touching = false
		tr.PointerUp(1)
		return
	}

	if len(a.touchIDs) > 0 {
		tid := a.touchIDs[0]
		tx, ty := ebiten.TouchPosition(tid)
		x, y := float64(tx), float64(ty)
		if _, _, over := a.view.ScreenToCanvas(x, y); over {
			a.touching = true
			a.activeTID = tid
			tr.PointerDown(1, x, y)
		}
	}
}

func (a *previewApp) pollKeys() {
	store := a.engine.Store()
	st := store.State()

	adjust := func(p mockup.Patch) { store.Update(p) }
	step := func(field *float64, delta float64) *float64 {
		v := *field + delta
		return &v
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyQ):
		adjust(mockup.Patch{Rotation: step(&st.Rotation, -rotationStep)})
	case inpututil.IsKeyJustPressed(ebiten.KeyE):
		adjust(mockup.Patch{Rotation: step(&st.Rotation, rotationStep)})
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus):
		adjust(mockup.Patch{Opacity: step(&st.Opacity, -opacityStep)})
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual):
		adjust(mockup.Patch{Opacity: step(&st.Opacity, opacityStep)})
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		adjust(mockup.Patch{Hue: step(&st.Hue, hueStep)})
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		adjust(mockup.Patch{Saturation: step(&st.Saturation, -percentStep)})
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		adjust(mockup.Patch{Saturation: step(&st.Saturation, percentStep)})
	case inpututil.IsKeyJustPressed(ebiten.KeyK):
		adjust(mockup.Patch{Brightness: step(&st.Brightness, -percentStep)})
	case inpututil.IsKeyJustPressed(ebiten.KeyL):
		adjust(mockup.Patch{Brightness: step(&st.Brightness, percentStep)})
	case inpututil.IsKeyJustPressed(ebiten.KeyB):
		next := mockup.BlendMode((int(st.Blend) + 1) % 5)
		adjust(mockup.Patch{Blend: &next})
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		store.Reset(mockup.FieldAll)
	case inpututil.IsKeyJustPressed(ebiten.KeyX):
		a.export()
	}
}

// updateFade eases a freshly installed foreground from near-transparent up
// to the user's opacity instead of popping in.
func (a *previewApp) updateFade() {
	store := a.engine.Store()

	if f := a.engine.Foreground(); f != nil && f.Source() != a.fgSource {
		a.fgSource = f.Source()
		target := float32(store.State().Opacity)
		a.fade = gween.New(0.1, target, fadeInSeconds, ease.OutQuad)
	}

	if a.fade != nil {
		dt := float32(1.0 / float64(ebiten.TPS()))
		v, done := a.fade.Update(dt)
		o := float64(v)
		store.Update(mockup.Patch{Opacity: &o})
		if done {
			a.fade = nil
		}
	}
}

func (a *previewApp) export() {
	if err := os.MkdirAll(a.exportDir, 0o755); err != nil {
		a.logger.Error("export", "err", err)
		return
	}
	name := mockup.ExportFilename(time.Now())
	if hist := a.engine.History(); len(hist) > 0 {
		name = mockup.LabeledExportFilename(hist[len(hist)-1].Prompt, time.Now())
	}
	path := filepath.Join(a.exportDir, name)
	if err := a.engine.ExportFile(path); err != nil {
		a.logger.Error("export", "err", err)
		return
	}
	a.logger.Info("exported", "path", path)
}
