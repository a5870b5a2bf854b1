package input

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func TestEdgesLastOneFrame(t *testing.T) {
	im := NewInputManager()
	im.HandleKeyEvent(glfw.KeyC, glfw.Press)
	if !im.JustPressed(ActionToggleCulling) || !im.IsActive(ActionToggleCulling) {
		t.Fatalf("press must be active and just pressed")
	}
	im.PostUpdate()
	if im.JustPressed(ActionToggleCulling) {
		t.Fatalf("edge must reset after PostUpdate")
	}
	if !im.IsActive(ActionToggleCulling) {
		t.Fatalf("held key must stay active")
	}

	im.HandleKeyEvent(glfw.KeyC, glfw.Repeat)
	if im.JustPressed(ActionToggleCulling) {
		t.Fatalf("repeat must not count as a new press")
	}
	im.HandleKeyEvent(glfw.KeyC, glfw.Release)
	if !im.JustReleased(ActionToggleCulling) || im.IsActive(ActionToggleCulling) {
		t.Fatalf("release not tracked")
	}
}

func TestAxisCombinesBindings(t *testing.T) {
	im := NewInputManager()
	im.HandleKeyEvent(glfw.KeyUp, glfw.Press)
	if got := im.Axis(ActionMoveForward, ActionMoveBackward); got != 1 {
		t.Fatalf("axis: got %v, want 1", got)
	}
	im.HandleKeyEvent(glfw.KeyS, glfw.Press)
	if got := im.Axis(ActionMoveForward, ActionMoveBackward); got != 0 {
		t.Fatalf("opposed keys: got %v, want 0", got)
	}
}

func TestUnboundKeysAreIgnored(t *testing.T) {
	im := NewInputManager()
	im.UnbindKey(glfw.KeyW)
	im.HandleKeyEvent(glfw.KeyW, glfw.Press)
	if im.IsActive(ActionMoveForward) {
		t.Fatalf("unbound key must not drive actions")
	}
	if im.IsActive(ActionCount) || im.JustPressed(-1) {
		t.Fatalf("out of range actions are never active")
	}
}
