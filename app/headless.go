package app

import (
	"fmt"

	"github.com/gekko3d/lightvol"
	"github.com/gekko3d/lightvol/gpu"
)

// DefaultHeadlessFrames is the frame count of a headless run with Frames 0.
const DefaultHeadlessFrames = 3

// Stats summarizes a headless run.
type Stats struct {
	Frames    int
	Draws     int
	Instances int
}

// RunHeadless renders the demo scene into a gpu.HeadlessDevice at a fixed
// 60 Hz step. It exercises the whole frame path without a window.
func RunHeadless(cfg lightvol.Config, log lightvol.Logger) (Stats, error) {
	log = lightvol.OrNop(log)
	if err := cfg.Validate(); err != nil {
		return Stats{}, fmt.Errorf("headless: %w", err)
	}
	frames := cfg.Frames
	if frames == 0 {
		frames = DefaultHeadlessFrames
	}

	dev := gpu.NewHeadlessDevice(log)
	r, err := NewRenderer(dev, dev.NewMaterial("point-light"), dev.NewMaterial("spot-light"), cfg, log)
	if err != nil {
		return Stats{}, err
	}
	defer r.Close()

	scene := NewScene(cfg.SpotLights, cfg.PointLights)
	camera := NewCamera()
	const dt = float32(1.0 / 60)

	prof := NewProfiler()
	var stats Stats
	for i := 0; i < frames; i++ {
		prof.Begin("update")
		scene.Update(dt)
		camera.Update(Input{}, dt)
		prof.End("update")
		f := &Frame{
			Index:      i,
			Width:      cfg.Width,
			Height:     cfg.Height,
			DT:         dt,
			Time:       float64(i) * float64(dt),
			View:       camera.View(),
			Projection: Projection(cfg.Width, cfg.Height, cfg.Near, cfg.Far),
		}
		dev.ResetDraws()
		prof.Begin("render")
		err := r.Render(f, scene)
		prof.End("render")
		if err != nil {
			return stats, fmt.Errorf("frame %d: %w", i, err)
		}
		draws := dev.Draws()
		for _, d := range draws {
			stats.Draws++
			stats.Instances += d.InstanceCount
		}
		stats.Frames++
		prof.Count("draws", len(draws))
		prof.Count("spots", len(scene.Spots))
		prof.Count("points", len(scene.Points))
		log.Debugf("frame %d: %s", i, prof.Report())
	}
	log.Infof("headless: %d frames, %d draws, %d light instances, %d live buffers",
		stats.Frames, stats.Draws, stats.Instances, dev.LiveBuffers())
	return stats, nil
}
