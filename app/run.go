package app

import "github.com/gekko3d/lightvol"

// Run opens the configured backend and renders the demo scene until the
// window closes or cfg.Frames frames have been drawn.
func Run(cfg lightvol.Config, log lightvol.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	log = lightvol.OrNop(log)
	switch cfg.Backend {
	case lightvol.BackendHeadless:
		_, err := RunHeadless(cfg, log)
		return err
	case lightvol.BackendWGPU:
		return runWGPU(cfg, log)
	default:
		return runGL(cfg, log)
	}
}
