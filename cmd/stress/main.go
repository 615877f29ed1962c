// Headless soak test: drops many character controllers onto procedural
// terrain and measures how fast they settle and whether any leave the ground
// envelope afterwards.
package main

import (
	"flag"
	"fmt"
	"math/rand"

	"arena3d/internal/components"
	"arena3d/internal/engine"
	"arena3d/internal/physics"
	"arena3d/internal/terrain"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func main() {
	count := flag.Int("n", 500, "number of controllers")
	frames := flag.Int("frames", 600, "frames to simulate")
	seed := flag.Int64("seed", 42, "terrain seed")
	flag.Parse()

	world := physics.NewWorld()
	terr := terrain.New(120, 128, 1.5, *seed)
	terr.BuildCollider(world)
	world.Initialize()

	rng := rand.New(rand.NewSource(*seed))
	const dt = float32(1.0 / 60.0)

	objs := make([]*engine.GameObject, *count)
	ctrls := make([]*components.CharacterController, *count)
	for i := range objs {
		obj := engine.NewGameObject(fmt.Sprintf("c%d", i))
		obj.Transform.Position = rl.Vector3{
			X: (rng.Float32() - 0.5) * 100,
			Y: 5 + rng.Float32()*20,
			Z: (rng.Float32() - 0.5) * 100,
		}
		ctrl := components.NewCharacterController(world, terr)
		obj.AddComponent(ctrl)
		obj.Start()
		objs[i] = obj
		ctrls[i] = ctrl
	}

	// frames until every controller reports ground contact
	settled := -1
	for f := 0; f < *frames; f++ {
		allGrounded := true
		for i, obj := range objs {
			obj.Update(dt)
			if !ctrls[i].Grounded() {
				allGrounded = false
			}
		}
		if allGrounded && settled < 0 {
			settled = f + 1
		}
	}

	escaped := 0
	for _, ctrl := range ctrls {
		pos := ctrl.CurrentPosition()
		groundY, ok := terr.HeightAt(pos.X, pos.Z)
		if !ok || pos.Y < groundY || !ctrl.Grounded() {
			escaped++
		}
	}

	fmt.Printf("%d controllers, %d frames\n", *count, *frames)
	if settled < 0 {
		fmt.Println("never fully settled")
	} else {
		fmt.Printf("settled after %d frames\n", settled)
	}
	fmt.Printf("escaped ground envelope: %d\n", escaped)
}
