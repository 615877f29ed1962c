package physics

import (
	"log"

	"arena3d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Heightfield is the terrain sampler the world collides against. Implemented
// by the terrain package; kept as an interface so tests can use flat planes.
type Heightfield interface {
	HeightAt(x, z float32) (float32, bool)
}

// Capsule is a vertical capsule collider: a cylinder of HalfHeight*2 with
// hemispherical caps of Radius.
type Capsule struct {
	HalfHeight float32
	Radius     float32
}

// Bottom returns the lowest point of the capsule relative to its center.
func (c Capsule) Bottom() float32 {
	return -(c.HalfHeight + c.Radius)
}

// Body is a kinematic collision volume. Its position is set by game logic
// every frame, never integrated from forces.
type Body struct {
	Position   rl.Vector3
	Capsule    Capsule
	Continuous bool // swept ground clamp on position set, prevents tunneling
	world      *World
}

// AttachCapsule shapes the body as a vertical capsule.
func (b *Body) AttachCapsule(halfHeight, radius float32) {
	b.Capsule = Capsule{HalfHeight: halfHeight, Radius: radius}
}

// Obstacle is a static axis-aligned box (walls, props). Never moves.
type Obstacle struct {
	Center rl.Vector3
	Size   rl.Vector3
}

// World owns all collision state: one optional terrain heightfield, static
// box obstacles, and the kinematic bodies moving over them. It performs no
// force simulation.
type World struct {
	// Ready fires once when Initialize is called. Late listeners run
	// immediately, so controllers constructed after init still start.
	Ready *engine.Event

	heightfield Heightfield
	obstacles   []*Obstacle
	bodies      []*Body
	initialized bool
}

func NewWorld() *World {
	return &World{
		Ready:     engine.NewOneShotEvent(),
		obstacles: make([]*Obstacle, 0),
		bodies:    make([]*Body, 0),
	}
}

// Initialize marks the world usable and fires the Ready signal exactly once.
func (w *World) Initialize() {
	if w.initialized {
		return
	}
	w.initialized = true
	log.Printf("physics: world ready (%d obstacles, heightfield=%v)", len(w.obstacles), w.heightfield != nil)
	w.Ready.Invoke()
}

// IsReady reports whether Initialize has run.
func (w *World) IsReady() bool {
	return w.initialized
}

// SetHeightfield attaches the terrain sampler used for ground raycasts and
// continuous-collision clamping.
func (w *World) SetHeightfield(hf Heightfield) {
	w.heightfield = hf
}

// AddObstacle registers a static box.
func (w *World) AddObstacle(center, size rl.Vector3) *Obstacle {
	o := &Obstacle{Center: center, Size: size}
	w.obstacles = append(w.obstacles, o)
	return o
}

// NewBody creates a kinematic body at the given position.
func (w *World) NewBody(position rl.Vector3) *Body {
	b := &Body{Position: position, world: w}
	w.bodies = append(w.bodies, b)
	return b
}

// SetBodyPosition moves a kinematic body. Bodies flagged Continuous get a
// swept vertical clamp against the heightfield so a single large step cannot
// carry the capsule through known ground.
func (w *World) SetBodyPosition(b *Body, position rl.Vector3) {
	if b == nil {
		return
	}
	if b.Continuous && w.heightfield != nil && position.Y < b.Position.Y {
		if groundY, ok := w.heightfield.HeightAt(position.X, position.Z); ok {
			// Clamp only when the center sweeps from above the surface to
			// below it in one step. Resting poses keep the capsule caps
			// slightly below the surface, so the bottom is not the test.
			if b.Position.Y >= groundY && position.Y < groundY {
				position.Y = groundY
			}
		}
	}
	b.Position = position
}

// RemoveBody releases a body from the world.
func (w *World) RemoveBody(b *Body) {
	for i, body := range w.bodies {
		if body == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			b.world = nil
			return
		}
	}
}

// BodyCount returns the number of live kinematic bodies.
func (w *World) BodyCount() int {
	return len(w.bodies)
}
