package components

import (
	"arena3d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// FollowCamera trails a target GameObject from a fixed offset, easing toward
// it so network corrections don't snap the view.
type FollowCamera struct {
	engine.BaseComponent
	Target *engine.GameObject
	Offset rl.Vector3
	FOV    float32
	Ease   float32 // fraction of remaining distance closed per frame at 60fps

	eye rl.Vector3
}

func NewFollowCamera(target *engine.GameObject) *FollowCamera {
	return &FollowCamera{
		Target: target,
		Offset: rl.Vector3{X: 0, Y: 9, Z: 9},
		FOV:    50.0,
		Ease:   0.12,
	}
}

func (c *FollowCamera) Start() {
	if c.Target != nil {
		c.eye = rl.Vector3Add(c.Target.Transform.Position, c.Offset)
	}
}

func (c *FollowCamera) Update(deltaTime float32) {
	if c.Target == nil {
		return
	}
	want := rl.Vector3Add(c.Target.Transform.Position, c.Offset)
	t := c.Ease * deltaTime * 60
	if t > 1 {
		t = 1
	}
	c.eye = rl.Vector3Add(c.eye, rl.Vector3Scale(rl.Vector3Subtract(want, c.eye), t))
}

// Raylib returns the camera in raylib form for BeginMode3D.
func (c *FollowCamera) Raylib() rl.Camera3D {
	target := c.eye
	if c.Target != nil {
		target = c.Target.Transform.Position
	}
	return rl.Camera3D{
		Position:   c.eye,
		Target:     target,
		Up:         rl.Vector3{Y: 1},
		Fovy:       c.FOV,
		Projection: rl.CameraPerspective,
	}
}
