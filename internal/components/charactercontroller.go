package components

import (
	"log"
	"math"

	"arena3d/internal/engine"
	"arena3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HeightOracle answers ground elevation queries independently of the physics
// engine's own geometry. Returns ok=false where no height data exists.
type HeightOracle interface {
	HeightAt(x, z float32) (float32, bool)
}

// SpawnProvider is implemented by maps that can hand out respawn points.
// Optional: the controller falls back to its initial spawn without one.
type SpawnProvider interface {
	RandomSpawnPoint() rl.Vector3
}

// Tuning constants for ground resolution and movement.
const (
	DefaultHeight = 1.8
	DefaultRadius = 0.3

	gravityAccel    = -6.0  // units/sec^2
	terminalFall    = -12.0 // fall speed floor
	fallBlend       = 0.85  // exponential smoothing of fall speed
	snapDistance    = 3.0   // oracle snap range around safe Y
	rayStartOffset  = 0.5   // ray origin lift, avoids starting inside geometry
	groundRayLength = 50.0
	moveSpeed       = 5.0
	arriveDistance  = 0.1
	minTargetDistSq = 0.01 // targets closer than sqrt(0.01) are jitter, ignored
	lookAheadRay    = 20.0
	steepSlowFactor = 0.2 // movement scale near too-tall terrain
	stepMinDelta    = 0.1 // elevation change below this is flat ground
	driftTolerance  = 0.05
	killFloorY      = -3.0 // below this, support has failed: teleport out
	safeSpawnMinY   = 4.0
	visualHeight    = 1.9 // render silhouette height, independent of collider
)

// anomaly log throttle, in frames
const anomalyLogInterval = 120

// CharacterController keeps a character's kinematic capsule and its rendered
// mesh consistent with the terrain under gravity, movement intent and
// network corrections. Vertical placement is owned exclusively by the ground
// resolution pass; movement only ever translates in the horizontal plane.
type CharacterController struct {
	engine.BaseComponent

	Height float32
	Radius float32

	world  *physics.World
	oracle HeightOracle

	body     *physics.Body
	position rl.Vector3 // authoritative body center

	verticalVelocity float32
	grounded         bool
	lastGroundY      float32
	onStep           bool

	targetPosition rl.Vector3
	hasTarget      bool
	lastMoveDir    rl.Vector3

	initialSpawn rl.Vector3
	probes       []groundProbe

	frame     uint64
	rescueLog frameThrottle
	driftLog  frameThrottle
}

// NewCharacterController creates a controller bound to a physics world and a
// height oracle. Both are injected so tests and multiple characters can use
// isolated worlds. Body creation happens in Start, deferred until the world
// signals ready.
func NewCharacterController(world *physics.World, oracle HeightOracle) *CharacterController {
	return &CharacterController{
		Height:    DefaultHeight,
		Radius:    DefaultRadius,
		world:     world,
		oracle:    oracle,
		probes:    []groundProbe{oracleProbe{}, raycastProbe{}},
		rescueLog: frameThrottle{every: anomalyLogInterval},
		driftLog:  frameThrottle{every: anomalyLogInterval},
	}
}

func (c *CharacterController) Start() {
	g := c.GetGameObject()
	if g != nil {
		c.position = g.Transform.Position
	}
	c.initialSpawn = c.position

	if c.world == nil {
		log.Printf("character: no physics world, controller inert")
		return
	}
	if c.world.IsReady() {
		c.createBody()
		return
	}
	// Deferred construction: retried exactly once when the world comes up.
	log.Printf("character: physics not ready, deferring body creation")
	c.world.Ready.AddListener(c.createBody)
}

func (c *CharacterController) createBody() {
	if c.body != nil {
		return
	}
	c.body = c.world.NewBody(c.position)
	// The capsule must fully enclose the visual silhouette: the radius floor
	// keeps thin configurations from letting the mesh clip through walls.
	halfHeight := 0.4 * c.Height
	radius := c.Radius
	if radius < 0.4 {
		radius = 0.4
	}
	c.body.AttachCapsule(halfHeight, radius)
	c.body.Continuous = true
	log.Printf("character: body created at (%.1f, %.1f, %.1f)", c.position.X, c.position.Y, c.position.Z)
}

// Update runs one simulation frame: ground resolution, then horizontal
// movement, then mesh/body reconciliation. Safe to call with any dt.
func (c *CharacterController) Update(deltaTime float32) {
	if c.body == nil || deltaTime <= 0 {
		return
	}
	c.frame++

	c.resolveGround(deltaTime)
	c.moveTowardTarget(deltaTime)

	if c.position.Y < killFloorY {
		c.rescue()
	}

	c.commitBody()
	c.reconcile()
}

// resolveGround walks the probe list in priority order; the first probe that
// reports support wins. A probe may also veto the rest of the list (oracle
// knows the ground but the body is too far above it), in which case the body
// free-falls under gravity.
func (c *CharacterController) resolveGround(deltaTime float32) {
	for _, p := range c.probes {
		contact, status := p.probe(c)
		switch status {
		case probeHit:
			c.land(contact)
			return
		case probeStop:
			c.fall(deltaTime)
			return
		}
	}
	c.fall(deltaTime)
}

func (c *CharacterController) land(contact groundContact) {
	c.position.Y = contact.bodyY
	c.verticalVelocity = 0
	c.lastGroundY = contact.groundY
	c.onStep = contact.step
	c.grounded = true
}

// fall integrates gravity with smoothing and a terminal velocity floor, then
// re-checks the oracle so a fast frame cannot carry the body through known
// terrain.
func (c *CharacterController) fall(deltaTime float32) {
	target := c.verticalVelocity + gravityAccel*deltaTime
	if target < terminalFall {
		target = terminalFall
	}
	c.verticalVelocity = fallBlend*c.verticalVelocity + (1-fallBlend)*target

	newY := c.position.Y + c.verticalVelocity*deltaTime
	c.grounded = false

	if c.oracle != nil {
		if groundY, ok := c.oracle.HeightAt(c.position.X, c.position.Z); ok {
			safeY := groundY + c.Height/2
			if newY < safeY {
				newY = safeY
				c.verticalVelocity = 0
				c.lastGroundY = groundY
				c.grounded = true
			}
		}
	}
	c.position.Y = newY
}

// moveTowardTarget advances in the horizontal plane only. A look-ahead ray at
// the candidate position slows the step near terrain too tall to climb
// instead of cancelling it.
func (c *CharacterController) moveTowardTarget(deltaTime float32) {
	if !c.hasTarget {
		return
	}

	dx := c.targetPosition.X - c.position.X
	dz := c.targetPosition.Z - c.position.Z
	dist := float32(math.Sqrt(float64(dx*dx + dz*dz)))
	if dist < arriveDistance {
		c.hasTarget = false
		return
	}

	dirX := dx / dist
	dirZ := dz / dist
	step := moveSpeed * deltaTime
	if step > dist {
		step = dist
	}

	candidate := rl.Vector3{X: c.position.X + dirX*step, Y: c.position.Y, Z: c.position.Z + dirZ*step}
	if c.world != nil {
		origin := rl.Vector3{X: candidate.X, Y: candidate.Y + c.Height, Z: candidate.Z}
		if hit, ok := c.world.Raycast(origin, rl.Vector3{Y: -1}, lookAheadRay, true); ok {
			feetY := c.position.Y - c.Height/2
			deltaH := abs32(hit.Point.Y - feetY)
			if deltaH > 1.5*c.Radius {
				step *= steepSlowFactor
			}
		}
	}

	c.position.X += dirX * step
	c.position.Z += dirZ * step
	c.lastMoveDir = rl.Vector3{X: dirX, Y: 0, Z: dirZ}
}

// rescue handles total support failure: the body fell below the world floor.
// Spawn precedence is deterministic: a map-provided spawn point when the
// oracle can supply one, otherwise the initial spawn raised to a safe height.
func (c *CharacterController) rescue() {
	var spawn rl.Vector3
	if sp, ok := c.oracle.(SpawnProvider); ok {
		p := sp.RandomSpawnPoint()
		spawn = rl.Vector3{X: p.X, Y: p.Y + c.Height/2, Z: p.Z}
	} else {
		spawn = c.initialSpawn
		if spawn.Y < safeSpawnMinY {
			spawn.Y = safeSpawnMinY
		}
	}

	if c.rescueLog.ok(c.frame) {
		log.Printf("character: fell below %.0f at (%.1f, %.1f), teleporting to spawn (terrain gap?)",
			float32(killFloorY), c.position.X, c.position.Z)
	}

	c.position = spawn
	c.verticalVelocity = 0
	c.grounded = false
	c.hasTarget = false
}

// commitBody pushes the resolved position into the physics body. The body
// may clamp further (continuous collision), so the clamped position is read
// back as authoritative.
func (c *CharacterController) commitBody() {
	c.world.SetBodyPosition(c.body, c.position)
	c.position = c.body.Position
}

// reconcile writes the final pose to the owning GameObject's transform and
// corrects body drift against the authoritative ground calculation. Calling
// it twice with no intervening physics change is a fixed point.
func (c *CharacterController) reconcile() {
	g := c.GetGameObject()

	groundY, haveGround := float32(0), false
	if c.oracle != nil {
		groundY, haveGround = c.oracle.HeightAt(c.position.X, c.position.Z)
	}

	if haveGround && c.grounded {
		correctY := groundY + c.Height/2
		if abs32(c.position.Y-correctY) > driftTolerance {
			if c.driftLog.ok(c.frame) {
				log.Printf("character: body drifted %.3f from ground, snapping", c.position.Y-correctY)
			}
			c.position.Y = correctY
			c.world.SetBodyPosition(c.body, c.position)
		}
	}

	if g == nil {
		return
	}
	visualY := c.position.Y - c.Height/2 + visualHeight/2
	if haveGround && c.grounded {
		visualY = groundY + visualHeight/2
	}
	g.Transform.Position = rl.Vector3{X: c.position.X, Y: visualY, Z: c.position.Z}
}

// SetTargetPosition sets a feet-level movement target. Non-finite input is
// rejected; targets within jitter distance of the current position are
// ignored.
func (c *CharacterController) SetTargetPosition(p rl.Vector3) {
	if !finite(p) {
		log.Printf("character: rejecting non-finite target (%v, %v, %v)", p.X, p.Y, p.Z)
		return
	}

	targetY := p.Y + c.Height/2
	if c.oracle != nil {
		if groundY, ok := c.oracle.HeightAt(p.X, p.Z); ok {
			targetY = groundY + c.Height/2
		}
	}
	target := rl.Vector3{X: p.X, Y: targetY, Z: p.Z}

	dx := target.X - c.position.X
	dy := target.Y - c.position.Y
	dz := target.Z - c.position.Z
	if dx*dx+dy*dy+dz*dz <= minTargetDistSq {
		return
	}

	c.targetPosition = target
	c.hasTarget = true
}

// SetAbsolutePosition teleports the body center, used for authoritative
// network corrections and respawns. Clears any movement target.
func (c *CharacterController) SetAbsolutePosition(p rl.Vector3) {
	if !finite(p) {
		log.Printf("character: rejecting non-finite teleport (%v, %v, %v)", p.X, p.Y, p.Z)
		return
	}
	c.position = p
	c.verticalVelocity = 0
	c.grounded = false
	c.hasTarget = false
	if c.body != nil {
		// Direct assignment, not SetBodyPosition: a teleport is allowed to
		// pass through geometry.
		c.body.Position = p
	}
}

// CurrentPosition returns the authoritative body center, for outgoing state
// reports.
func (c *CharacterController) CurrentPosition() rl.Vector3 {
	return c.position
}

// IsMoving reports whether a movement target is set and not yet reached.
func (c *CharacterController) IsMoving() bool {
	return c.hasTarget
}

// Grounded reports whether the last frame resolved terrain support.
func (c *CharacterController) Grounded() bool {
	return c.grounded
}

// OnStep reports whether the last ground contact was a step/slope transition.
func (c *CharacterController) OnStep() bool {
	return c.onStep
}

// VerticalVelocity returns the smoothed signed fall speed.
func (c *CharacterController) VerticalVelocity() float32 {
	return c.verticalVelocity
}

// LastMoveDirection returns the unit horizontal direction of the last
// movement step, for the owning entity's facing.
func (c *CharacterController) LastMoveDirection() rl.Vector3 {
	return c.lastMoveDir
}

// Body exposes the kinematic body for debug visualization. Never authoritative
// for anything but drawing.
func (c *CharacterController) Body() *physics.Body {
	return c.body
}

// Dispose releases the kinematic body. The controller is inert afterwards.
func (c *CharacterController) Dispose() {
	if c.body != nil && c.world != nil {
		c.world.RemoveBody(c.body)
	}
	c.body = nil
}

// frameThrottle allows an action at most once every N frames.
type frameThrottle struct {
	every uint64
	last  uint64
}

func (t *frameThrottle) ok(frame uint64) bool {
	if t.last == 0 || frame-t.last >= t.every {
		t.last = frame
		return true
	}
	return false
}

func finite(p rl.Vector3) bool {
	for _, v := range []float32{p.X, p.Y, p.Z} {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
