package terrain

import (
	"math"
	"math/rand"

	"arena3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Heightmap is a square procedural terrain centered on the origin. Heights
// are sampled on a regular grid and bilinearly interpolated between cells.
type Heightmap struct {
	size    float32 // world-space edge length
	cells   int     // grid resolution per edge
	heights []float32
	spawns  []rl.Vector3
	rng     *rand.Rand
}

const spawnPointCount = 16

// New generates a seeded terrain. The surface is a composite of low-frequency
// waves plus per-vertex jitter, so two runs with the same seed produce the
// same ground and the same spawn sequence.
func New(size float32, cells int, amplitude float32, seed int64) *Heightmap {
	if cells < 2 {
		cells = 2
	}
	h := &Heightmap{
		size:    size,
		cells:   cells,
		heights: make([]float32, (cells+1)*(cells+1)),
		rng:     rand.New(rand.NewSource(seed)),
	}

	for iz := 0; iz <= cells; iz++ {
		for ix := 0; ix <= cells; ix++ {
			x := float64(h.gridToWorld(ix))
			z := float64(h.gridToWorld(iz))
			wave := math.Sin(x/9)*0.6 + math.Sin(z/7)*0.5 + math.Sin((x+z)/13)*0.4
			jitter := (h.rng.Float64() - 0.5) * 0.08
			h.heights[iz*(cells+1)+ix] = amplitude * float32(wave+jitter)
		}
	}

	h.generateSpawns()
	return h
}

// NewFlat returns a uniform terrain at the given elevation, used by tests and
// as a degenerate arena.
func NewFlat(size float32, elevation float32) *Heightmap {
	h := &Heightmap{
		size:    size,
		cells:   2,
		heights: make([]float32, 9),
		rng:     rand.New(rand.NewSource(1)),
	}
	for i := range h.heights {
		h.heights[i] = elevation
	}
	h.generateSpawns()
	return h
}

func (h *Heightmap) generateSpawns() {
	h.spawns = make([]rl.Vector3, 0, spawnPointCount)
	for i := 0; i < spawnPointCount; i++ {
		x := (h.rng.Float32() - 0.5) * h.size * 0.8
		z := (h.rng.Float32() - 0.5) * h.size * 0.8
		y, _ := h.HeightAt(x, z)
		h.spawns = append(h.spawns, rl.Vector3{X: x, Y: y, Z: z})
	}
}

func (h *Heightmap) gridToWorld(i int) float32 {
	return (float32(i)/float32(h.cells) - 0.5) * h.size
}

// Size returns the world-space edge length.
func (h *Heightmap) Size() float32 {
	return h.size
}

// HeightAt returns the ground elevation at (x, z), or ok=false outside the
// terrain bounds. This is the height oracle consumed by character control.
func (h *Heightmap) HeightAt(x, z float32) (float32, bool) {
	half := h.size / 2
	if x < -half || x > half || z < -half || z > half {
		return 0, false
	}

	fx := (x/h.size + 0.5) * float32(h.cells)
	fz := (z/h.size + 0.5) * float32(h.cells)

	ix := int(fx)
	iz := int(fz)
	if ix >= h.cells {
		ix = h.cells - 1
	}
	if iz >= h.cells {
		iz = h.cells - 1
	}
	tx := fx - float32(ix)
	tz := fz - float32(iz)

	stride := h.cells + 1
	h00 := h.heights[iz*stride+ix]
	h10 := h.heights[iz*stride+ix+1]
	h01 := h.heights[(iz+1)*stride+ix]
	h11 := h.heights[(iz+1)*stride+ix+1]

	top := h00 + (h10-h00)*tx
	bottom := h01 + (h11-h01)*tx
	return top + (bottom-top)*tz, true
}

// RandomSpawnPoint returns one of the terrain's pregenerated spawn points.
// The sequence is deterministic for a given seed.
func (h *Heightmap) RandomSpawnPoint() rl.Vector3 {
	return h.spawns[h.rng.Intn(len(h.spawns))]
}

// BuildCollider registers this terrain with the physics world, making it the
// surface rays and continuous bodies collide against.
func (h *Heightmap) BuildCollider(w *physics.World) {
	w.SetHeightfield(h)
}
