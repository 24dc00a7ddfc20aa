package app

import (
	"testing"

	"github.com/gekko3d/lightvol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func headlessConfig() lightvol.Config {
	cfg := lightvol.DefaultConfig()
	cfg.Backend = lightvol.BackendHeadless
	cfg.SphereMesh = "../assets/sphere.obj"
	cfg.ConeMesh = "../assets/cone.obj"
	return cfg
}

func TestRunHeadless_Defaults(t *testing.T) {
	stats, err := RunHeadless(headlessConfig(), nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultHeadlessFrames, stats.Frames)
	// Both light kinds draw every frame, the point draw with zero instances.
	assert.Equal(t, 2*DefaultHeadlessFrames, stats.Draws)
	assert.Equal(t, 10*DefaultHeadlessFrames, stats.Instances)
}

func TestRunHeadless_ProceduralProxies(t *testing.T) {
	cfg := headlessConfig()
	cfg.SphereMesh, cfg.ConeMesh = "", ""
	cfg.PointLights = 7
	cfg.Frames = 5

	stats, err := RunHeadless(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Frames)
	assert.Equal(t, 10, stats.Draws)
	assert.Equal(t, 5*17, stats.Instances)
}

func TestRunHeadless_MissingProxyDegrades(t *testing.T) {
	cfg := headlessConfig()
	cfg.ConeMesh = "missing.obj"
	stats, err := RunHeadless(cfg, nil)
	require.NoError(t, err, "an unreadable proxy draws nothing instead of failing")
	assert.Equal(t, 2*DefaultHeadlessFrames, stats.Draws)
}

func TestRunHeadless_RejectsInvalidConfig(t *testing.T) {
	cfg := headlessConfig()
	cfg.SpotLights = -1
	stats, err := RunHeadless(cfg, nil)
	assert.Error(t, err)
	assert.Zero(t, stats)
}

func TestRun_RejectsInvalidConfig(t *testing.T) {
	cfg := headlessConfig()
	cfg.Near = 0
	assert.Error(t, Run(cfg, nil))

	cfg = headlessConfig()
	assert.NoError(t, Run(cfg, nil))
}
