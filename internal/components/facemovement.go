package components

import (
	"math"

	"arena3d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// FaceMovement turns the owning object's yaw toward its controller's last
// movement direction, so the rendered mesh faces where it walks. Runs after
// the controller in component order; it only ever writes rotation.
type FaceMovement struct {
	engine.BaseComponent
	Controller *CharacterController
}

func NewFaceMovement(controller *CharacterController) *FaceMovement {
	return &FaceMovement{Controller: controller}
}

func (f *FaceMovement) Update(deltaTime float32) {
	if f.Controller == nil || !f.Controller.IsMoving() {
		return
	}
	dir := f.Controller.LastMoveDirection()
	if dir.X == 0 && dir.Z == 0 {
		return
	}
	g := f.GetGameObject()
	if g == nil {
		return
	}
	g.Transform.Rotation.Y = float32(math.Atan2(float64(dir.X), float64(dir.Z))) * rl.Rad2deg
}
