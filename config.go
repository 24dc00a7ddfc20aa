package lightvol

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
)

const (
	BackendGL       = "gl"
	BackendWGPU     = "wgpu"
	BackendHeadless = "headless"
)

// Config carries everything the demo needs at startup. Values that change
// per frame (viewport size, cursor) live in app.Frame instead.
type Config struct {
	Backend string

	Width  int
	Height int

	// Proxy mesh paths. An empty path selects the procedural proxy.
	SphereMesh string
	ConeMesh   string

	SpotLights  int
	PointLights int

	// Frames stops the loop after N frames; 0 runs until the window closes.
	Frames int

	Near float32
	Far  float32

	Debug        bool
	SnapshotPath string
}

func DefaultConfig() Config {
	return Config{
		Backend:      BackendGL,
		Width:        800,
		Height:       600,
		SphereMesh:   "assets/sphere.obj",
		ConeMesh:     "assets/cone.obj",
		SpotLights:   10,
		PointLights:  0,
		Near:         0.1,
		Far:          100,
		SnapshotPath: "lightvol.bmp",
	}
}

// RegisterFlags binds the config fields to fs, using the current values as defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Backend, "backend", c.Backend, "Rendering backend: gl, wgpu or headless")
	fs.IntVar(&c.Width, "width", c.Width, "Initial window width")
	fs.IntVar(&c.Height, "height", c.Height, "Initial window height")
	fs.StringVar(&c.SphereMesh, "sphere", c.SphereMesh, "Point light proxy mesh (empty = procedural)")
	fs.StringVar(&c.ConeMesh, "cone", c.ConeMesh, "Spot light proxy mesh (empty = procedural)")
	fs.IntVar(&c.SpotLights, "spots", c.SpotLights, "Number of spot lights")
	fs.IntVar(&c.PointLights, "points", c.PointLights, "Number of point lights")
	fs.IntVar(&c.Frames, "frames", c.Frames, "Stop after N frames (0 = run until closed)")
	fs.Func("near", fmt.Sprintf("Near plane (default %g)", c.Near), float32Setter(&c.Near))
	fs.Func("far", fmt.Sprintf("Far plane (default %g)", c.Far), float32Setter(&c.Far))
	fs.BoolVar(&c.Debug, "debug", c.Debug, "Enable debug logging")
	fs.StringVar(&c.SnapshotPath, "snapshot", c.SnapshotPath, "Light buffer snapshot path (F12, gl backend)")
}

func float32Setter(dst *float32) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return err
		}
		*dst = float32(v)
		return nil
	}
}

func (c Config) Validate() error {
	var errs []error
	switch c.Backend {
	case BackendGL, BackendWGPU, BackendHeadless:
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q", c.Backend))
	}
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Width, c.Height))
	}
	if c.SpotLights < 0 || c.PointLights < 0 {
		errs = append(errs, errors.New("light counts must not be negative"))
	}
	if c.Frames < 0 {
		errs = append(errs, errors.New("frame count must not be negative"))
	}
	if c.Near <= 0 || c.Far <= c.Near {
		errs = append(errs, fmt.Errorf("need 0 < near < far, got near=%g far=%g", c.Near, c.Far))
	}
	return errors.Join(errs...)
}

// ProjectionA and ProjectionB let the light shaders rebuild view depth from
// the depth buffer: z_view = ProjectionB / (depth - ProjectionA).
func (c Config) ProjectionA() float32 {
	return c.Far / (c.Far - c.Near)
}

func (c Config) ProjectionB() float32 {
	return (-c.Far * c.Near) / (c.Far - c.Near)
}
