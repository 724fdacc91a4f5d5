// Package app wires the window, renderer, and input into the two phases
// of a TrackForge run: sketching a track in the editor, then walking the
// baked scene in the viewer. The phases are mutually exclusive and
// transition exactly once, on bake.
package app

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/trackforge/internal/config"
	"github.com/Faultbox/trackforge/internal/editor"
	"github.com/Faultbox/trackforge/internal/engine/camera"
	"github.com/Faultbox/trackforge/internal/engine/input"
	"github.com/Faultbox/trackforge/internal/engine/picking"
	"github.com/Faultbox/trackforge/internal/engine/renderer"
	"github.com/Faultbox/trackforge/internal/engine/window"
	"github.com/Faultbox/trackforge/internal/logger"
	"github.com/Faultbox/trackforge/internal/scene"
	"github.com/Faultbox/trackforge/pkg/math"
)

// The editor views the sketch plane from a fixed distance along +Z.
const sketchCameraDistance = 25

// App owns the windowing stack and runs the editor and viewer loops.
type App struct {
	cfg      *config.Config
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
}

// New creates the window, GL context, and renderer.
func New(cfg *config.Config) (*App, error) {
	win, err := window.New(window.Config{
		Title:      "TrackForge",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	rend, err := renderer.New(renderer.Config{
		Width:  cfg.Graphics.Width,
		Height: cfg.Graphics.Height,
	})
	if err != nil {
		win.Close()
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	return &App{
		cfg:      cfg,
		window:   win,
		renderer: rend,
		input:    input.New(),
	}, nil
}

// Close tears down the renderer and window.
func (a *App) Close() {
	a.renderer.Close()
	a.window.Close()
}

// Run executes the editing phase (unless a scene was requested directly)
// and then the viewing phase.
func (a *App) Run() error {
	scenePath := a.cfg.Scene.File

	if !config.ViewOnly() {
		baked, quit := a.runEditor()
		if quit {
			return nil
		}
		if baked == nil {
			// Window closed without a bake; nothing to view.
			return nil
		}
		scenePath = baked.ScenePath
	} else {
		logger.Info("viewing existing scene", zap.String("path", scenePath))
	}

	a.runViewer(scenePath)
	return nil
}

// runEditor runs the sketch loop until the user bakes or quits. Returns
// the bake result, or quit=true when the user closed the window.
func (a *App) runEditor() (*editor.BakeResult, bool) {
	session := editor.New(a.cfg.Editor)

	var previewHandle uint32
	var pointsHandle uint32
	dirty := false

	rebuild := func() {
		if previewHandle != 0 {
			a.renderer.DestroyLine(previewHandle)
			previewHandle = 0
		}
		if pointsHandle != 0 {
			a.renderer.DestroyLine(pointsHandle)
			pointsHandle = 0
		}
		if points := session.Points(); len(points) > 0 {
			pointsHandle, _ = a.renderer.CreateLine(points)
		}
		if preview := session.Preview(a.cfg.Editor.BakeDensity); len(preview) > 0 {
			previewHandle, _ = a.renderer.CreateLine(preview)
		}
	}

	cameraPos := math.Vec3{Z: sketchCameraDistance}
	view := math.LookAt(cameraPos, math.Vec3{}, math.Vec3{Y: 1})

	for {
		if a.input.Update() {
			return nil, true
		}

		w, h := a.window.GetSize()
		projection := math.Perspective(math.Radians(45), a.renderer.Aspect(), 0.1, 100)

		for _, ev := range a.input.Events() {
			switch ev.Type {
			case input.EventWindowResize:
				a.renderer.Resize(ev.Width, ev.Height)

			case input.EventMouseDown:
				if ev.Button != sdl.BUTTON_LEFT {
					continue
				}
				inv := projection.Mul(view).Inverse()
				ray := picking.ScreenToRay(float32(ev.MouseX), float32(ev.MouseY), float32(w), float32(h), inv)
				if p, ok := ray.IntersectPlaneZ(0); ok {
					session.AddPoint(p.X, p.Y)
					dirty = true
				}

			case input.EventKeyDown:
				switch ev.Key {
				case sdl.SCANCODE_PAGEUP, sdl.SCANCODE_UP:
					session.RaiseHeight()
				case sdl.SCANCODE_PAGEDOWN, sdl.SCANCODE_DOWN:
					session.LowerHeight()
				case sdl.SCANCODE_BACKSPACE:
					session.RemoveLast()
					dirty = true
				case sdl.SCANCODE_ESCAPE:
					return nil, true
				case sdl.SCANCODE_RETURN:
					if !session.CanBake() {
						logger.Warn("not enough control points to bake",
							zap.Int("points", len(session.Points())),
						)
						continue
					}
					baked, err := session.Bake(a.cfg.Scene.CurveDensity)
					if err != nil {
						logger.Error("bake failed", zap.Error(err))
						continue
					}
					a.renderer.DestroyLine(previewHandle)
					a.renderer.DestroyLine(pointsHandle)
					return baked, false
				}
			}
		}

		if dirty {
			rebuild()
			dirty = false
		}

		a.renderer.SetCamera(projection, view, cameraPos)
		a.renderer.Begin()
		if previewHandle != 0 {
			a.renderer.DrawLine(previewHandle, math.Identity(), [4]float32{1, 1, 0, 1}, false)
		}
		if pointsHandle != 0 {
			a.renderer.DrawPoints(pointsHandle, math.Identity(), [4]float32{1, 0.5, 0, 1}, 8)
		}
		a.window.SwapBuffers()
	}
}

// runViewer loads the scene and walks it with a fly camera until quit.
func (a *App) runViewer(scenePath string) {
	sc := scene.Load(scenePath, a.cfg.Scene, a.renderer)
	defer sc.Close(a.renderer)

	global := sc.Global
	cam := camera.NewFlyCamera(global.CameraPos, global.CameraFront, global.CameraSpeed, global.Sensitivity)

	a.window.CaptureMouse(true)
	defer a.window.CaptureMouse(false)

	a.renderer.SetBackground(global.FogColor.X, global.FogColor.Y, global.FogColor.Z)

	lastTicks := sdl.GetTicks64()
	for {
		if a.input.Update() {
			return
		}

		now := sdl.GetTicks64()
		dt := float64(now-lastTicks) / 1000.0
		lastTicks = now

		for _, ev := range a.input.Events() {
			switch ev.Type {
			case input.EventWindowResize:
				a.renderer.Resize(ev.Width, ev.Height)
			case input.EventMouseMove:
				cam.HandleMouse(float32(ev.RelX), float32(ev.RelY))
			case input.EventKeyDown:
				if ev.Key == sdl.SCANCODE_ESCAPE {
					return
				}
			}
		}

		var forward, right float32
		if a.input.IsKeyHeld(sdl.SCANCODE_W) {
			forward++
		}
		if a.input.IsKeyHeld(sdl.SCANCODE_S) {
			forward--
		}
		if a.input.IsKeyHeld(sdl.SCANCODE_D) {
			right++
		}
		if a.input.IsKeyHeld(sdl.SCANCODE_A) {
			right--
		}
		cam.Move(forward, right)

		sc.Update(dt)

		projection := math.Perspective(
			math.Radians(global.FOV),
			a.renderer.Aspect(),
			global.NearPlane,
			global.FarPlane,
		)
		a.renderer.SetCamera(projection, cam.ViewMatrix(), cam.Position)

		a.renderer.Begin()
		for _, obj := range sc.Objects {
			handle, ok := obj.Mesh.Handle()
			if !ok {
				continue
			}
			a.renderer.DrawMesh(handle, obj.ModelMatrix(), obj.Material, obj.Texture, global)
		}
		for _, curve := range sc.Curves {
			a.renderer.DrawLine(curve.Handle, math.Identity(), curve.Color, false)
		}
		a.window.SwapBuffers()
	}
}
