package main

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"ndrcraft/internal/input"
)

func bindDefaultKeys(im *input.Manager) {
	im.BindKey(input.Key(glfw.KeyW), input.ActionMoveForward)
	im.BindKey(input.Key(glfw.KeyS), input.ActionMoveBackward)
	im.BindKey(input.Key(glfw.KeyA), input.ActionMoveLeft)
	im.BindKey(input.Key(glfw.KeyD), input.ActionMoveRight)
	im.BindKey(input.Key(glfw.KeyUp), input.ActionMoveForward)
	im.BindKey(input.Key(glfw.KeyDown), input.ActionMoveBackward)
	im.BindKey(input.Key(glfw.KeyLeft), input.ActionMoveLeft)
	im.BindKey(input.Key(glfw.KeyRight), input.ActionMoveRight)
	im.BindKey(input.Key(glfw.KeySpace), input.ActionMoveUp)
	im.BindKey(input.Key(glfw.KeyLeftShift), input.ActionMoveDown)
	im.BindKey(input.Key(glfw.KeyEscape), input.ActionPause)
	im.BindKey(input.Key(glfw.KeyV), input.ActionToggleProfiling)

	digits := []glfw.Key{glfw.Key1, glfw.Key2, glfw.Key3, glfw.Key4, glfw.Key5, glfw.Key6}
	for i, act := range input.SelectActions {
		im.BindKey(input.Key(digits[i]), act)
	}

	im.BindButton(input.Button(glfw.MouseButtonLeft), input.ActionBreak)
	im.BindButton(input.Button(glfw.MouseButtonRight), input.ActionPlace)
}

func toState(action glfw.Action) input.State {
	switch action {
	case glfw.Press:
		return input.Press
	case glfw.Repeat:
		return input.Repeat
	default:
		return input.Release
	}
}

func setupInputHandlers(app *App) {
	window := app.window
	im := app.inputManager

	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		if !app.paused {
			im.HandleCursor(xpos, ypos)
		}
	})

	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		im.HandleButton(input.Button(button), toState(action))
	})

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		im.HandleKey(input.Key(key), toState(action))
	})

	window.SetFramebufferSizeCallback(func(w *glfw.Window, fbWidth, fbHeight int) {
		app.renderer.SetViewport(fbWidth, fbHeight)
		app.game.Session.Camera.SetAspect(fbWidth, fbHeight)
	})

	window.SetFocusCallback(func(w *glfw.Window, focused bool) {
		if !focused && !app.paused {
			app.setPaused(true)
		}
	})
}
