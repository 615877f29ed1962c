package physics

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// RaycastHit holds information about a raycast hit.
type RaycastHit struct {
	Point    rl.Vector3
	Normal   rl.Vector3
	Distance float32
}

// heightfield ray march step. Small enough to not skip a one-cell spike at
// typical cell sizes, cheap enough to march 50 units every frame.
const marchStep float32 = 0.25

// Raycast intersects a ray with the static world (heightfield + obstacles)
// and returns the nearest hit. stopAtFirstHit permits the heightfield march
// to stop at its first surface crossing instead of scanning the full
// distance; the nearest hit is the same either way for the downward ground
// rays this world serves.
func (w *World) Raycast(origin, direction rl.Vector3, maxDistance float32, stopAtFirstHit bool) (RaycastHit, bool) {
	direction = rl.Vector3Normalize(direction)

	var closest RaycastHit
	closest.Distance = maxDistance
	hit := false

	for _, o := range w.obstacles {
		if h, ok := raycastBox(origin, direction, o, maxDistance); ok && h.Distance < closest.Distance {
			closest = h
			hit = true
		}
	}

	if w.heightfield != nil {
		if h, ok := w.raycastHeightfield(origin, direction, maxDistance); ok && h.Distance < closest.Distance {
			closest = h
			hit = true
		}
	}

	return closest, hit
}

// raycastHeightfield marches along the ray watching for the point to cross
// below the terrain surface, then bisects the last segment for the contact.
func (w *World) raycastHeightfield(origin, direction rl.Vector3, maxDistance float32) (RaycastHit, bool) {
	prevT := float32(0)
	prevAbove, prevValid := w.aboveSurface(origin)

	for t := marchStep; t <= maxDistance; t += marchStep {
		p := rl.Vector3Add(origin, rl.Vector3Scale(direction, t))
		above, valid := w.aboveSurface(p)
		if valid && prevValid && prevAbove && !above {
			contactT := w.bisect(origin, direction, prevT, t)
			point := rl.Vector3Add(origin, rl.Vector3Scale(direction, contactT))
			if groundY, ok := w.heightfield.HeightAt(point.X, point.Z); ok {
				point.Y = groundY
			}
			return RaycastHit{
				Point:    point,
				Normal:   w.surfaceNormal(point.X, point.Z),
				Distance: contactT,
			}, true
		}
		prevT, prevAbove, prevValid = t, above, valid
	}
	return RaycastHit{}, false
}

func (w *World) aboveSurface(p rl.Vector3) (above, valid bool) {
	groundY, ok := w.heightfield.HeightAt(p.X, p.Z)
	if !ok {
		return false, false
	}
	return p.Y >= groundY, true
}

// bisect narrows the surface crossing between tLow (above) and tHigh (below).
func (w *World) bisect(origin, direction rl.Vector3, tLow, tHigh float32) float32 {
	for i := 0; i < 8; i++ {
		mid := (tLow + tHigh) / 2
		p := rl.Vector3Add(origin, rl.Vector3Scale(direction, mid))
		if above, valid := w.aboveSurface(p); !valid || above {
			tLow = mid
		} else {
			tHigh = mid
		}
	}
	return (tLow + tHigh) / 2
}

// surfaceNormal estimates the terrain normal from central height differences.
func (w *World) surfaceNormal(x, z float32) rl.Vector3 {
	const d = 0.5
	hl, okL := w.heightfield.HeightAt(x-d, z)
	hr, okR := w.heightfield.HeightAt(x+d, z)
	hb, okB := w.heightfield.HeightAt(x, z-d)
	hf, okF := w.heightfield.HeightAt(x, z+d)
	if !okL || !okR || !okB || !okF {
		return rl.Vector3{X: 0, Y: 1, Z: 0}
	}
	return rl.Vector3Normalize(rl.Vector3{X: hl - hr, Y: 2 * d, Z: hb - hf})
}

// raycastBox is a standard slab test against an axis-aligned obstacle.
func raycastBox(origin, direction rl.Vector3, o *Obstacle, maxDistance float32) (RaycastHit, bool) {
	halfSize := rl.Vector3{X: abs(o.Size.X) / 2, Y: abs(o.Size.Y) / 2, Z: abs(o.Size.Z) / 2}
	min := rl.Vector3Subtract(o.Center, halfSize)
	max := rl.Vector3Add(o.Center, halfSize)

	tmin := float32(-1e30)
	tmax := float32(1e30)

	// X slab
	if direction.X != 0 {
		t1 := (min.X - origin.X) / direction.X
		t2 := (max.X - origin.X) / direction.X
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin, tmax = t1, t2
	} else if origin.X < min.X || origin.X > max.X {
		return RaycastHit{}, false
	}

	// Y slab
	if direction.Y != 0 {
		t1 := (min.Y - origin.Y) / direction.Y
		t2 := (max.Y - origin.Y) / direction.Y
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	} else if origin.Y < min.Y || origin.Y > max.Y {
		return RaycastHit{}, false
	}

	if tmin > tmax {
		return RaycastHit{}, false
	}

	// Z slab
	if direction.Z != 0 {
		t1 := (min.Z - origin.Z) / direction.Z
		t2 := (max.Z - origin.Z) / direction.Z
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	} else if origin.Z < min.Z || origin.Z > max.Z {
		return RaycastHit{}, false
	}

	if tmin > tmax || tmax < 0 || tmin > maxDistance {
		return RaycastHit{}, false
	}

	t := tmin
	if t < 0 {
		t = tmax
	}
	if t < 0 || t > maxDistance {
		return RaycastHit{}, false
	}

	point := rl.Vector3Add(origin, rl.Vector3Scale(direction, t))

	// Normal from the face that was hit
	var normal rl.Vector3
	epsilon := float32(0.001)
	switch {
	case abs(point.X-min.X) < epsilon:
		normal = rl.Vector3{X: -1}
	case abs(point.X-max.X) < epsilon:
		normal = rl.Vector3{X: 1}
	case abs(point.Y-min.Y) < epsilon:
		normal = rl.Vector3{Y: -1}
	case abs(point.Y-max.Y) < epsilon:
		normal = rl.Vector3{Y: 1}
	case abs(point.Z-min.Z) < epsilon:
		normal = rl.Vector3{Z: -1}
	default:
		normal = rl.Vector3{Z: 1}
	}

	return RaycastHit{Point: point, Normal: normal, Distance: t}, true
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
