package components

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// groundContact is a resolved support point: where the body center should
// snap to, the ground elevation under it, and whether the contact crossed a
// climbable step.
type groundContact struct {
	bodyY   float32
	groundY float32
	step    bool
}

type probeStatus int

const (
	probeMiss probeStatus = iota // no data, try the next probe
	probeHit                     // support found
	probeStop                    // authoritative "no support here", stop probing
)

// groundProbe is one strategy for finding terrain support under the body.
// Probes run in priority order, first success wins.
type groundProbe interface {
	probe(c *CharacterController) (groundContact, probeStatus)
}

// oracleProbe asks the terrain height oracle directly. Cheap and
// authoritative whenever the oracle has data for the body's column.
type oracleProbe struct{}

func (oracleProbe) probe(c *CharacterController) (groundContact, probeStatus) {
	if c.oracle == nil {
		return groundContact{}, probeMiss
	}
	groundY, ok := c.oracle.HeightAt(c.position.X, c.position.Z)
	if !ok {
		return groundContact{}, probeMiss
	}
	safeY := groundY + c.Height/2
	if c.grounded || abs32(c.position.Y-safeY) <= snapDistance {
		return groundContact{bodyY: safeY, groundY: groundY}, probeHit
	}
	// The oracle knows this column but the body is far above it. Free-fall;
	// the raycast fallback must not second-guess authoritative height data.
	return groundContact{}, probeStop
}

// raycastProbe casts straight down from slightly above the body, for ground
// the oracle has no data for (obstacles, map edges).
type raycastProbe struct{}

func (raycastProbe) probe(c *CharacterController) (groundContact, probeStatus) {
	if c.world == nil {
		return groundContact{}, probeMiss
	}
	origin := rl.Vector3{X: c.position.X, Y: c.position.Y + rayStartOffset, Z: c.position.Z}
	hit, ok := c.world.Raycast(origin, rl.Vector3{Y: -1}, groundRayLength, true)
	if !ok {
		return groundContact{}, probeMiss
	}

	groundDist := hit.Distance - rayStartOffset
	groundThreshold := c.Radius + 0.1
	if groundDist > groundThreshold+c.Height/2 {
		return groundContact{}, probeMiss
	}

	hitY := hit.Point.Y
	delta := abs32(hitY - c.lastGroundY)
	step := delta > stepMinDelta && delta <= 1.5*c.Radius

	return groundContact{
		bodyY:   hitY + groundThreshold + c.Height/2,
		groundY: hitY,
		step:    step,
	}, probeHit
}
