package game

import (
	"fmt"
	"log"
	"time"

	"arena3d/internal/components"
	"arena3d/internal/engine"
	"arena3d/internal/net"
	"arena3d/internal/physics"
	"arena3d/internal/store"
	"arena3d/internal/terrain"
	"arena3d/pkg/config"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	clickRayLength   = 200.0
	saveInterval     = 5.0 // seconds between position persists
	playerVisualSize = 0.6
)

// Drawable is implemented by components that render themselves inside the
// 3D pass.
type Drawable interface {
	Draw()
}

type remotePlayer struct {
	obj  *engine.GameObject
	ctrl *components.CharacterController
	hp   int
}

type Game struct {
	cfg     *config.Config
	Scene   *engine.Scene
	Physics *physics.World
	Terrain *terrain.Heightmap

	Player     *engine.GameObject
	playerCtrl *components.CharacterController
	debugCap   *components.DebugCapsule
	camera     *components.FollowCamera

	client  *net.Client
	db      *store.Store
	remotes map[string]*remotePlayer

	sendTimer float32
	saveTimer float32
}

func New(cfg *config.Config) *Game {
	seed := cfg.Terrain.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g := &Game{
		cfg:     cfg,
		Scene:   engine.NewScene("Arena"),
		Physics: physics.NewWorld(),
		Terrain: terrain.New(float32(cfg.Terrain.Size), cfg.Terrain.Cells, float32(cfg.Terrain.Amplitude), seed),
		remotes: make(map[string]*remotePlayer),
	}
	g.Terrain.BuildCollider(g.Physics)
	g.addPillars()
	return g
}

// addPillars scatters a few static boxes so the raycast ground path and the
// movement look-ahead have something other than terrain to hit.
func (g *Game) addPillars() {
	half := g.Terrain.Size() / 2
	for i := 0; i < 4; i++ {
		x := -half + float32(i)*half/2 + half/4
		z := x * 0.6
		y, _ := g.Terrain.HeightAt(x, z)
		g.Physics.AddObstacle(rl.Vector3{X: x, Y: y + 1, Z: z}, rl.Vector3{X: 1.5, Y: 2, Z: 1.5})
	}
}

func (g *Game) Run() {
	rl.SetConfigFlags(rl.FlagWindowHighdpi)
	rl.InitWindow(int32(g.cfg.Window.Width), int32(g.cfg.Window.Height), g.cfg.Window.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(g.cfg.Window.FrameRate))

	g.setup()
	defer g.teardown()

	for !rl.WindowShouldClose() {
		dt := rl.GetFrameTime()
		g.Update(dt)
		g.Draw()
	}
}

func (g *Game) setup() {
	g.openStore()
	g.createPlayer()
	g.createCamera()
	g.Scene.Start()

	// Player controllers constructed above defer their bodies until here.
	g.Physics.Initialize()

	g.connect()
}

func (g *Game) openStore() {
	if !g.cfg.Store.Enabled {
		return
	}
	db, err := store.Open(g.cfg.Store.Path)
	if err != nil {
		log.Printf("game: store unavailable: %v", err)
		return
	}
	g.db = db
}

func (g *Game) createPlayer() {
	g.Player = engine.NewGameObject("Player")
	g.Player.Tags = []string{"player"}

	spawn := g.Terrain.RandomSpawnPoint()
	if g.db != nil {
		if saved, ok, err := g.db.LoadPosition(g.cfg.Player.Name); err == nil && ok {
			spawn = saved
		}
	}
	g.Player.Transform.Position = rl.Vector3{X: spawn.X, Y: spawn.Y + float32(g.cfg.Player.Height)/2, Z: spawn.Z}

	ctrl := components.NewCharacterController(g.Physics, g.Terrain)
	ctrl.Height = float32(g.cfg.Player.Height)
	ctrl.Radius = float32(g.cfg.Player.Radius)
	g.Player.AddComponent(ctrl)
	g.playerCtrl = ctrl

	g.Player.AddComponent(components.NewFaceMovement(ctrl))

	mesh := rl.GenMeshCube(playerVisualSize, 1.9, playerVisualSize)
	model := rl.LoadModelFromMesh(mesh)
	g.Player.AddComponent(components.NewModelRenderer(model, rl.SkyBlue))

	g.debugCap = components.NewDebugCapsule(ctrl)
	g.debugCap.Visible = g.cfg.Debug.ShowCollider
	g.Player.AddComponent(g.debugCap)

	g.Scene.AddGameObject(g.Player)
}

func (g *Game) createCamera() {
	camObj := engine.NewGameObject("Camera")
	g.camera = components.NewFollowCamera(g.Player)
	camObj.AddComponent(g.camera)
	g.Scene.AddGameObject(camObj)
}

func (g *Game) connect() {
	if !g.cfg.Network.Enabled {
		return
	}
	client, err := net.Dial(g.cfg.Network.ServerURL, g.cfg.Player.Name, net.Handlers{
		OnPos:    g.onRemotePos,
		OnWarp:   g.onRemoteWarp,
		OnAttack: g.onAttack,
		OnHealth: g.onHealth,
		OnLeave:  g.onLeave,
	})
	if err != nil {
		log.Printf("game: offline, server unreachable: %v", err)
		return
	}
	g.client = client
}

// remote event handlers run from client.Drain on the frame goroutine

func (g *Game) onRemotePos(m net.PosUpdate) {
	r := g.remote(m.ID)
	r.ctrl.SetTargetPosition(rl.Vector3{X: m.X, Y: m.Y, Z: m.Z})
}

func (g *Game) onRemoteWarp(m net.WarpMsg) {
	r := g.remote(m.ID)
	r.ctrl.SetAbsolutePosition(rl.Vector3{X: m.X, Y: m.Y, Z: m.Z})
}

func (g *Game) onAttack(m net.AttackEvent) {
	log.Printf("game: %s attacks %s for %d", m.From, m.Target, m.Damage)
}

func (g *Game) onHealth(m net.HealthEvent) {
	if r, ok := g.remotes[m.ID]; ok {
		r.hp = m.HP
	}
}

func (g *Game) onLeave(id string) {
	r, ok := g.remotes[id]
	if !ok {
		return
	}
	r.ctrl.Dispose()
	g.Scene.RemoveGameObject(r.obj)
	delete(g.remotes, id)
}

// remote returns the remote player entity for id, creating it on first sight.
func (g *Game) remote(id string) *remotePlayer {
	if r, ok := g.remotes[id]; ok {
		return r
	}

	obj := engine.NewGameObject(fmt.Sprintf("Remote_%s", id))
	obj.Tags = []string{"remote"}
	spawn := g.Terrain.RandomSpawnPoint()
	obj.Transform.Position = rl.Vector3{X: spawn.X, Y: spawn.Y + components.DefaultHeight/2, Z: spawn.Z}

	ctrl := components.NewCharacterController(g.Physics, g.Terrain)
	obj.AddComponent(ctrl)
	obj.AddComponent(components.NewFaceMovement(ctrl))

	mesh := rl.GenMeshCube(playerVisualSize, 1.9, playerVisualSize)
	model := rl.LoadModelFromMesh(mesh)
	obj.AddComponent(components.NewModelRenderer(model, rl.Orange))

	g.Scene.AddGameObject(obj)
	obj.Start()

	r := &remotePlayer{obj: obj, ctrl: ctrl, hp: 100}
	g.remotes[id] = r
	log.Printf("game: remote player %s joined", id)
	return r
}

func (g *Game) Update(dt float32) {
	if g.client != nil {
		g.client.Drain()
	}

	g.handleInput()
	g.Scene.Update(dt)

	if g.client != nil {
		g.sendTimer += dt
		if g.sendTimer >= float32(g.cfg.Network.SendInterval) {
			g.sendTimer = 0
			g.client.SendPosition(g.cfg.Player.Name, g.playerCtrl.CurrentPosition())
		}
	}

	if g.db != nil {
		g.saveTimer += dt
		if g.saveTimer >= saveInterval {
			g.saveTimer = 0
			if err := g.db.SavePosition(g.cfg.Player.Name, g.playerCtrl.CurrentPosition()); err != nil {
				log.Printf("game: save failed: %v", err)
			}
		}
	}
}

func (g *Game) handleInput() {
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		ray := rl.GetScreenToWorldRay(rl.GetMousePosition(), g.camera.Raylib())
		if hit, ok := g.Physics.Raycast(ray.Position, ray.Direction, clickRayLength, true); ok {
			g.playerCtrl.SetTargetPosition(hit.Point)
		}
	}

	if rl.IsKeyPressed(rl.KeyF1) {
		on := g.debugCap.Toggle()
		log.Printf("game: collider debug %v", on)
	}
}

func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(24, 26, 32, 255))

	rl.BeginMode3D(g.camera.Raylib())
	g.drawTerrain()
	for _, obj := range g.Scene.GameObjects {
		for _, comp := range obj.Components() {
			if d, ok := comp.(Drawable); ok {
				d.Draw()
			}
		}
	}
	rl.EndMode3D()

	rl.DrawFPS(10, 10)
	rl.DrawText("click: move  F1: collider", 10, 34, 16, rl.Gray)
	rl.EndDrawing()
}

// drawTerrain renders the heightfield as a wire grid. Good enough to read
// the surface; the controller itself never touches render state.
func (g *Game) drawTerrain() {
	half := g.Terrain.Size() / 2
	const gridStep = 2.0

	for x := -half; x < half; x += gridStep {
		for z := -half; z < half; z += gridStep {
			y00, ok := g.Terrain.HeightAt(x, z)
			if !ok {
				continue
			}
			if y10, ok := g.Terrain.HeightAt(x+gridStep, z); ok {
				rl.DrawLine3D(rl.Vector3{X: x, Y: y00, Z: z}, rl.Vector3{X: x + gridStep, Y: y10, Z: z}, rl.DarkGreen)
			}
			if y01, ok := g.Terrain.HeightAt(x, z+gridStep); ok {
				rl.DrawLine3D(rl.Vector3{X: x, Y: y00, Z: z}, rl.Vector3{X: x, Y: y01, Z: z + gridStep}, rl.DarkGreen)
			}
		}
	}
}

func (g *Game) teardown() {
	if g.client != nil {
		g.client.Close()
	}
	if g.db != nil {
		g.db.SavePosition(g.cfg.Player.Name, g.playerCtrl.CurrentPosition())
		g.db.Close()
	}
	g.playerCtrl.Dispose()
	for _, r := range g.remotes {
		r.ctrl.Dispose()
	}
}
