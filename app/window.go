package app

import (
	"fmt"

	"github.com/gekko3d/lightvol"
	"github.com/go-gl/glfw/v3.3/glfw"
)

func createWindow(cfg lightvol.Config, withGLContext bool) (*glfw.Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}
	glfw.WindowHint(glfw.Resizable, glfw.True)
	if withGLContext {
		glfw.WindowHint(glfw.ContextVersionMajor, 4)
		glfw.WindowHint(glfw.ContextVersionMinor, 1)
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
		glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	} else {
		glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	}
	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, windowTitle(cfg.Backend, 0), nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	return window, nil
}

func windowTitle(backend string, fps float64) string {
	if fps <= 0 {
		return fmt.Sprintf("lightvol (%s)", backend)
	}
	return fmt.Sprintf("lightvol (%s) - %.1f FPS", backend, fps)
}

// controls turns glfw callbacks into per-frame Input. Tab toggles mouse
// capture, Esc closes the window and F12 requests a snapshot.
type controls struct {
	captured     bool
	haveCursor   bool
	lastX, lastY float64
	dx, dy       float32
	snapshot     bool
}

func (c *controls) attach(w *glfw.Window) {
	w.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch key {
		case glfw.KeyEscape:
			w.SetShouldClose(true)
		case glfw.KeyTab:
			c.captured = !c.captured
			c.haveCursor = false
			if c.captured {
				w.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
			} else {
				w.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
			}
		case glfw.KeyF12:
			c.snapshot = true
		}
	})
	w.SetCursorPosCallback(func(w *glfw.Window, x, y float64) {
		if c.captured && c.haveCursor {
			c.dx += float32(x - c.lastX)
			c.dy += float32(y - c.lastY)
		}
		c.lastX, c.lastY, c.haveCursor = x, y, true
	})
}

func (c *controls) poll(w *glfw.Window) Input {
	down := func(k glfw.Key) bool { return w.GetKey(k) == glfw.Press }
	in := Input{
		Forward: down(glfw.KeyW),
		Back:    down(glfw.KeyS),
		Left:    down(glfw.KeyA),
		Right:   down(glfw.KeyD),
		LookDX:  c.dx,
		LookDY:  c.dy,
	}
	c.dx, c.dy = 0, 0
	return in
}

// takeSnapshot reports and clears a pending F12 request.
func (c *controls) takeSnapshot() bool {
	s := c.snapshot
	c.snapshot = false
	return s
}

// fpsCounter averages the frame rate over one second windows.
type fpsCounter struct {
	frames  int
	elapsed float64
}

// tick records one frame of length dt and returns the rate once a full
// second has accumulated.
func (c *fpsCounter) tick(dt float64) (float64, bool) {
	c.frames++
	c.elapsed += dt
	if c.elapsed < 1.0 {
		return 0, false
	}
	fps := float64(c.frames) / c.elapsed
	c.frames, c.elapsed = 0, 0
	return fps, true
}

// clock measures frame times from glfw's timer.
type clock struct {
	last float64
}

func (c *clock) tick() (dt float32, now float64) {
	now = glfw.GetTime()
	if c.last == 0 {
		c.last = now
	}
	dt = float32(now - c.last)
	c.last = now
	return dt, now
}
