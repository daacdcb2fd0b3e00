package cli

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/phanxgames/mockup"
)

// fileConfig is the TOML configuration surface. Everything is optional;
// zero values fall back to the engine defaults.
//
//	[engine]
//	min_scale = 0.05
//	max_scale = 5.0
//	color_adjust = true
//
//	[state]
//	scale = 1.2
//	blend = "screen"
//
//	[preview]
//	width = 1024
//	height = 768
//	export_dir = "exports"
//
//	[generator]
//	endpoint = "http://localhost:8750/generate"
type fileConfig struct {
	Engine struct {
		MinScale    float64 `toml:"min_scale"`
		MaxScale    float64 `toml:"max_scale"`
		ColorAdjust *bool   `toml:"color_adjust"`
	} `toml:"engine"`
	State struct {
		Scale      *float64 `toml:"scale"`
		Rotation   *float64 `toml:"rotation"`
		Opacity    *float64 `toml:"opacity"`
		OffsetX    *float64 `toml:"offset_x"`
		OffsetY    *float64 `toml:"offset_y"`
		Blend      string   `toml:"blend"`
		Hue        *float64 `toml:"hue"`
		Saturation *float64 `toml:"saturation"`
		Brightness *float64 `toml:"brightness"`
	} `toml:"state"`
	Preview struct {
		Width     int    `toml:"width"`
		Height    int    `toml:"height"`
		ExportDir string `toml:"export_dir"`
	} `toml:"preview"`
	Generator struct {
		Endpoint string `toml:"endpoint"`
	} `toml:"generator"`
}

// defaultFileConfig returns the stock CLI settings.
func defaultFileConfig() fileConfig {
	var fc fileConfig
	fc.Preview.Width = 1024
	fc.Preview.Height = 768
	fc.Preview.ExportDir = "exports"
	return fc
}

// loadConfig reads a TOML config file, or returns the defaults when path is
// empty.
func loadConfig(path string) (fileConfig, error) {
	fc := defaultFileConfig()
	if path == "" {
		return fc, nil
	}
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fc, fmt.Errorf("config %s: %w", path, err)
	}
	return fc, nil
}

// statePatch converts the [state] table into a Patch of initial overrides.
// Unset keys stay at the engine defaults.
func (fc fileConfig) statePatch() (mockup.Patch, error) {
	s := fc.State
	p := mockup.Patch{
		Scale:      s.Scale,
		Rotation:   s.Rotation,
		Opacity:    s.Opacity,
		OffsetX:    s.OffsetX,
		OffsetY:    s.OffsetY,
		Hue:        s.Hue,
		Saturation: s.Saturation,
		Brightness: s.Brightness,
	}
	if s.Blend != "" {
		b, ok := mockup.ParseBlendMode(s.Blend)
		if !ok {
			return mockup.Patch{}, fmt.Errorf("config: unknown blend mode %q", s.Blend)
		}
		p.Blend = &b
	}
	return p, nil
}

// engineConfig converts the file settings into a mockup.Config, with engine
// defaults for anything unset.
func (fc fileConfig) engineConfig() mockup.Config {
	cfg := mockup.DefaultConfig()
	if fc.Engine.MinScale > 0 {
		cfg.MinScale = fc.Engine.MinScale
	}
	if fc.Engine.MaxScale > 0 {
		cfg.MaxScale = fc.Engine.MaxScale
	}
	if fc.Engine.ColorAdjust != nil {
		cfg.ColorAdjust = *fc.Engine.ColorAdjust
	}
	return cfg
}
