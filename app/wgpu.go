package app

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/gekko3d/lightvol"
	"github.com/gekko3d/lightvol/gpu/wgpubackend"
	"github.com/gekko3d/lightvol/shaders"
	"github.com/go-gl/glfw/v3.3/glfw"
)

type wgpuContext struct {
	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	config   *wgpu.SurfaceConfiguration
}

func newWGPUContext(window *glfw.Window) (*wgpuContext, error) {
	c := &wgpuContext{instance: wgpu.CreateInstance(nil)}
	c.surface = c.instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(window))

	var err error
	c.adapter, err = c.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: c.surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	c.device, err = c.adapter.RequestDevice(nil)
	if err != nil {
		return nil, fmt.Errorf("request device: %w", err)
	}
	c.queue = c.device.GetQueue()

	width, height := window.GetFramebufferSize()
	caps := c.surface.GetCapabilities(c.adapter)
	c.config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	c.surface.Configure(c.adapter, c.device, c.config)
	return c, nil
}

func (c *wgpuContext) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if uint32(width) == c.config.Width && uint32(height) == c.config.Height {
		return
	}
	c.config.Width, c.config.Height = uint32(width), uint32(height)
	c.surface.Configure(c.adapter, c.device, c.config)
}

func (c *wgpuContext) release() {
	c.device.Release()
	c.adapter.Release()
	c.surface.Release()
	c.instance.Release()
}

func runWGPU(cfg lightvol.Config, log lightvol.Logger) error {
	window, err := createWindow(cfg, false)
	if err != nil {
		return err
	}
	defer glfw.Terminate()
	defer window.Destroy()

	ctx, err := newWGPUContext(window)
	if err != nil {
		return err
	}
	defer ctx.release()

	dev := wgpubackend.New(ctx.device, log)
	defer dev.Release()
	pointMat, err := dev.NewMaterial("PointLight", shaders.PointLightWGSL, ctx.config.Format)
	if err != nil {
		return err
	}
	defer pointMat.Release()
	spotMat, err := dev.NewMaterial("SpotLight", shaders.SpotLightWGSL, ctx.config.Format)
	if err != nil {
		return err
	}
	defer spotMat.Release()

	r, err := NewRenderer(dev, pointMat, spotMat, cfg, log)
	if err != nil {
		return err
	}
	defer r.Close()

	scene := NewScene(cfg.SpotLights, cfg.PointLights)
	camera := NewCamera()
	var (
		input controls
		fps   fpsCounter
		clk   clock
		prof  = NewProfiler()
	)
	input.attach(window)
	log.Infof("WASD to move, Tab to capture the mouse, Esc to quit")

	for i := 0; !window.ShouldClose() && (cfg.Frames == 0 || i < cfg.Frames); i++ {
		glfw.PollEvents()
		dt, now := clk.tick()
		width, height := window.GetFramebufferSize()
		ctx.resize(width, height)

		f := &Frame{Index: i, Width: width, Height: height, DT: dt, Time: now, Input: input.poll(window)}
		prof.Begin("update")
		camera.Update(f.Input, dt)
		scene.Update(dt)
		prof.End("update")
		f.View = camera.View()
		f.Projection = ZeroToOneDepth.Mul4(Projection(width, height, cfg.Near, cfg.Far))

		prof.Begin("render")
		if err := renderWGPU(ctx, dev, r, f, scene); err != nil {
			log.Errorf("frame %d: %v", i, err)
		}
		prof.End("render")
		if input.takeSnapshot() {
			log.Warnf("snapshots are only supported by the gl backend")
		}
		if rate, ok := fps.tick(float64(dt)); ok {
			window.SetTitle(windowTitle(cfg.Backend, rate))
			prof.Count("spots", len(scene.Spots))
			prof.Count("points", len(scene.Points))
			log.Debugf("frame %d: %s", i, prof.Report())
		}
	}
	return nil
}

func renderWGPU(ctx *wgpuContext, dev *wgpubackend.Device, r *Renderer, f *Frame, scene *Scene) error {
	texture, err := ctx.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("get current texture: %w", err)
	}
	defer texture.Release()
	view, err := texture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("create view: %w", err)
	}
	defer view.Release()

	encoder, err := ctx.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		}},
	})
	dev.SetPass(pass)
	renderErr := r.Render(f, scene)
	dev.SetPass(nil)
	if err := pass.End(); err != nil {
		return fmt.Errorf("light pass: %w", err)
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish encoder: %w", err)
	}
	ctx.queue.Submit(cmd)
	ctx.surface.Present()
	return renderErr
}
