package app

import (
	"fmt"
	"path/filepath"

	"github.com/gekko3d/lightvol"
	"github.com/gekko3d/lightvol/gpu/glbackend"
	"github.com/gekko3d/lightvol/shaders"
	"github.com/go-gl/glfw/v3.3/glfw"
)

func runGL(cfg lightvol.Config, log lightvol.Logger) error {
	window, err := createWindow(cfg, true)
	if err != nil {
		return err
	}
	defer glfw.Terminate()
	defer window.Destroy()
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	dev, err := glbackend.New(log)
	if err != nil {
		return err
	}
	defer dev.Release()

	pointMat, err := dev.NewMaterial("point-light", shaders.PointLightVert, shaders.PointLightFrag)
	if err != nil {
		return err
	}
	defer pointMat.Release()
	spotMat, err := dev.NewMaterial("spot-light", shaders.SpotLightVert, shaders.SpotLightFrag)
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
	log.Infof("WASD to move, Tab to capture the mouse, F12 for a snapshot, Esc to quit")

	for i := 0; !window.ShouldClose() && (cfg.Frames == 0 || i < cfg.Frames); i++ {
		glfw.PollEvents()
		dt, now := clk.tick()
		width, height := window.GetFramebufferSize()

		f := &Frame{Index: i, Width: width, Height: height, DT: dt, Time: now, Input: input.poll(window)}
		prof.Begin("update")
		camera.Update(f.Input, dt)
		scene.Update(dt)
		prof.End("update")
		f.View = camera.View()
		f.Projection = Projection(width, height, cfg.Near, cfg.Far)

		prof.Begin("render")
		dev.BeginLightPass(width, height)
		if err := r.Render(f, scene); err != nil {
			log.Errorf("frame %d: %v", i, err)
		}
		dev.EndLightPass()
		prof.End("render")

		if input.takeSnapshot() {
			path, _ := filepath.Abs(cfg.SnapshotPath)
			caption := fmt.Sprintf("%d spots, %d points, frame %d", len(scene.Spots), len(scene.Points), i)
			if err := WriteSnapshot(path, dev.Snapshot(width, height), caption); err != nil {
				log.Errorf("%v", err)
			} else {
				log.Infof("snapshot written to %s", path)
			}
		}

		window.SwapBuffers()
		if rate, ok := fps.tick(float64(dt)); ok {
			window.SetTitle(windowTitle(cfg.Backend, rate))
			prof.Count("spots", len(scene.Spots))
			prof.Count("points", len(scene.Points))
			log.Debugf("frame %d: %s", i, prof.Report())
		}
	}
	return nil
}
