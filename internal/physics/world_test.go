package physics

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// flatField is a boundless plane at a fixed elevation.
type flatField struct {
	elevation float32
}

func (f flatField) HeightAt(x, z float32) (float32, bool) {
	return f.elevation, true
}

var down = rl.Vector3{Y: -1}

func TestRaycastHitsFlatHeightfield(t *testing.T) {
	w := NewWorld()
	w.SetHeightfield(flatField{})

	hit, ok := w.Raycast(rl.Vector3{X: 3, Y: 5, Z: -2}, down, 50, true)
	if !ok {
		t.Fatal("expected a ground hit")
	}
	if d := hit.Distance - 5; d > 0.01 || d < -0.01 {
		t.Errorf("hit distance = %v, want 5", hit.Distance)
	}
	if hit.Point.Y != 0 {
		t.Errorf("hit point Y = %v, want 0", hit.Point.Y)
	}
	if hit.Normal.Y < 0.99 {
		t.Errorf("flat ground normal = %+v, want +Y", hit.Normal)
	}
}

func TestRaycastHitsBoxTopFace(t *testing.T) {
	w := NewWorld()
	w.AddObstacle(rl.Vector3{X: 0, Y: 1, Z: 0}, rl.Vector3{X: 2, Y: 2, Z: 2})

	hit, ok := w.Raycast(rl.Vector3{Y: 5}, down, 50, true)
	if !ok {
		t.Fatal("expected a box hit")
	}
	if d := hit.Distance - 3; d > 0.001 || d < -0.001 {
		t.Errorf("hit distance = %v, want 3", hit.Distance)
	}
	if hit.Normal.Y != 1 {
		t.Errorf("top face normal = %+v, want +Y", hit.Normal)
	}
}

func TestRaycastNearestWins(t *testing.T) {
	w := NewWorld()
	w.SetHeightfield(flatField{})
	// box top at Y=2 sits between the ray origin and the ground
	w.AddObstacle(rl.Vector3{X: 0, Y: 1, Z: 0}, rl.Vector3{X: 2, Y: 2, Z: 2})

	hit, ok := w.Raycast(rl.Vector3{Y: 10}, down, 50, true)
	if !ok {
		t.Fatal("expected a hit")
	}
	if d := hit.Distance - 8; d > 0.001 || d < -0.001 {
		t.Errorf("hit distance = %v, want the box at 8, got something else", hit.Distance)
	}
}

func TestRaycastMisses(t *testing.T) {
	w := NewWorld()
	if _, ok := w.Raycast(rl.Vector3{Y: 5}, down, 50, true); ok {
		t.Error("empty world should not produce hits")
	}

	w.SetHeightfield(flatField{})
	if _, ok := w.Raycast(rl.Vector3{Y: 5}, down, 3, true); ok {
		t.Error("ground beyond max distance should not hit")
	}
	if _, ok := w.Raycast(rl.Vector3{Y: 5}, rl.Vector3{Y: 1}, 50, true); ok {
		t.Error("upward ray over a plane should not hit")
	}
}

func TestRaycastBoxSideFace(t *testing.T) {
	w := NewWorld()
	w.AddObstacle(rl.Vector3{X: 5, Y: 1, Z: 0}, rl.Vector3{X: 2, Y: 2, Z: 2})

	hit, ok := w.Raycast(rl.Vector3{X: 0, Y: 1, Z: 0}, rl.Vector3{X: 1}, 50, true)
	if !ok {
		t.Fatal("expected a side hit")
	}
	if d := hit.Distance - 4; d > 0.001 || d < -0.001 {
		t.Errorf("hit distance = %v, want 4", hit.Distance)
	}
	if hit.Normal.X != -1 {
		t.Errorf("side face normal = %+v, want -X", hit.Normal)
	}
}

func TestBodyLifecycle(t *testing.T) {
	w := NewWorld()
	a := w.NewBody(rl.Vector3{Y: 1})
	b := w.NewBody(rl.Vector3{Y: 2})
	if w.BodyCount() != 2 {
		t.Fatalf("body count = %d, want 2", w.BodyCount())
	}

	w.RemoveBody(a)
	if w.BodyCount() != 1 {
		t.Errorf("body count after remove = %d, want 1", w.BodyCount())
	}
	// removing twice is a no-op
	w.RemoveBody(a)
	if w.BodyCount() != 1 {
		t.Errorf("double remove changed count to %d", w.BodyCount())
	}

	w.SetBodyPosition(b, rl.Vector3{Y: 7})
	if b.Position.Y != 7 {
		t.Errorf("body Y = %v, want 7", b.Position.Y)
	}
	// nil body must not panic
	w.SetBodyPosition(nil, rl.Vector3{})
}

func TestContinuousClampStopsTunneling(t *testing.T) {
	w := NewWorld()
	w.SetHeightfield(flatField{})

	b := w.NewBody(rl.Vector3{Y: 5})
	b.AttachCapsule(0.72, 0.4)
	b.Continuous = true

	// One huge downward step would carry the center through the surface.
	w.SetBodyPosition(b, rl.Vector3{Y: -5})
	if b.Position.Y != 0 {
		t.Errorf("continuous body Y = %v, want clamped to ground 0", b.Position.Y)
	}

	// Small steps that stay above the surface are untouched.
	w.SetBodyPosition(b, rl.Vector3{Y: 2})
	w.SetBodyPosition(b, rl.Vector3{Y: 1.9})
	if b.Position.Y != 1.9 {
		t.Errorf("body Y = %v, want 1.9", b.Position.Y)
	}
}

func TestNonContinuousBodyTunnels(t *testing.T) {
	w := NewWorld()
	w.SetHeightfield(flatField{})

	b := w.NewBody(rl.Vector3{Y: 5})
	w.SetBodyPosition(b, rl.Vector3{Y: -5})
	if b.Position.Y != -5 {
		t.Errorf("plain body Y = %v, want -5 (no clamp)", b.Position.Y)
	}
}

func TestInitializeFiresReadyOnce(t *testing.T) {
	w := NewWorld()
	fired := 0
	w.Ready.AddListener(func() { fired++ })

	if w.IsReady() {
		t.Fatal("world ready before Initialize")
	}
	w.Initialize()
	w.Initialize()
	if fired != 1 {
		t.Errorf("ready fired %d times, want 1", fired)
	}
	if !w.IsReady() {
		t.Error("world should be ready after Initialize")
	}

	// Late listeners run immediately.
	late := false
	w.Ready.AddListener(func() { late = true })
	if !late {
		t.Error("listener added after Initialize should run at once")
	}
}

func TestCapsuleBottom(t *testing.T) {
	c := Capsule{HalfHeight: 0.72, Radius: 0.4}
	if got := c.Bottom(); got != -1.12 {
		t.Errorf("capsule bottom = %v, want -1.12", got)
	}
}
