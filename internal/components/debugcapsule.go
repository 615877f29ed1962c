package components

import (
	"arena3d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// DebugCapsule mirrors a CharacterController's kinematic body as a wireframe
// capsule. Purely diagnostic: it reads the body pose after simulation and
// never feeds anything back.
type DebugCapsule struct {
	engine.BaseComponent
	Controller *CharacterController
	Visible    bool
	Color      rl.Color
}

func NewDebugCapsule(controller *CharacterController) *DebugCapsule {
	return &DebugCapsule{
		Controller: controller,
		Visible:    false,
		Color:      rl.Lime,
	}
}

// Toggle flips visibility and returns the new state.
func (d *DebugCapsule) Toggle() bool {
	d.Visible = !d.Visible
	return d.Visible
}

// Draw renders the capsule wireframe. Call inside BeginMode3D.
func (d *DebugCapsule) Draw() {
	if !d.Visible || d.Controller == nil {
		return
	}
	body := d.Controller.Body()
	if body == nil {
		return
	}

	capsule := body.Capsule
	start := rl.Vector3{X: body.Position.X, Y: body.Position.Y - capsule.HalfHeight, Z: body.Position.Z}
	end := rl.Vector3{X: body.Position.X, Y: body.Position.Y + capsule.HalfHeight, Z: body.Position.Z}
	rl.DrawCapsuleWires(start, end, capsule.Radius, 8, 4, d.Color)
}
