package input

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// KeyBinding ties one raylib key code to an action.
type KeyBinding struct {
	Key    int32
	Action Action
}

// DefaultKeyBindings: arrows and WASD steer, Escape or Q quits, R restarts.
var DefaultKeyBindings = []KeyBinding{
	{rl.KeyUp, ActionUp},
	{rl.KeyW, ActionUp},
	{rl.KeyRight, ActionRight},
	{rl.KeyD, ActionRight},
	{rl.KeyDown, ActionDown},
	{rl.KeyS, ActionDown},
	{rl.KeyLeft, ActionLeft},
	{rl.KeyA, ActionLeft},
	{rl.KeyEscape, ActionExit},
	{rl.KeyQ, ActionExit},
	{rl.KeyR, ActionRestart},
}

// Keyboard reports every bound key held down in the raylib window.
type Keyboard struct {
	Bindings []KeyBinding

	pollEvents  func()
	keyDown     func(key int32) bool
	shouldClose func() bool
}

func NewKeyboard() *Keyboard {
	return &Keyboard{
		Bindings:    DefaultKeyBindings,
		pollEvents:  rl.PollInputEvents,
		keyDown:     rl.IsKeyDown,
		shouldClose: rl.WindowShouldClose,
	}
}

func (k *Keyboard) Poll() (Frame, error) {
	k.pollEvents()

	var f Frame
	// Closing the window counts as the exit key
	if k.shouldClose() {
		f.Exit = true
	}
	for _, b := range k.Bindings {
		if k.keyDown(b.Key) {
			f.Apply(b.Action)
		}
	}
	return f, nil
}
