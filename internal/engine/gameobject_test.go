package engine

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type spyComponent struct {
	BaseComponent
	starts  int
	updates int
	lastDT  float32
}

func (s *spyComponent) Start()            { s.starts++ }
func (s *spyComponent) Update(dt float32) { s.updates++; s.lastDT = dt }

type otherComponent struct {
	BaseComponent
}

func TestUIDUniqueness(t *testing.T) {
	seen := make(map[uint64]bool)
	for i := 0; i < 100; i++ {
		g := NewGameObject("obj")
		if seen[g.UID] {
			t.Fatalf("duplicate UID %d", g.UID)
		}
		seen[g.UID] = true
	}
}

func TestStartRunsOnce(t *testing.T) {
	g := NewGameObject("obj")
	spy := &spyComponent{}
	g.AddComponent(spy)

	g.Start()
	g.Start()
	if spy.starts != 1 {
		t.Errorf("component started %d times, want 1", spy.starts)
	}
}

func TestLateAddComponentStartsImmediately(t *testing.T) {
	g := NewGameObject("obj")
	g.Start()

	spy := &spyComponent{}
	g.AddComponent(spy)
	if spy.starts != 1 {
		t.Errorf("late component started %d times, want 1", spy.starts)
	}
}

func TestUpdateSkipsInactive(t *testing.T) {
	g := NewGameObject("obj")
	spy := &spyComponent{}
	g.AddComponent(spy)
	g.Start()

	g.Update(0.016)
	g.Active = false
	g.Update(0.016)

	if spy.updates != 1 {
		t.Errorf("component updated %d times, want 1", spy.updates)
	}
	if spy.lastDT != 0.016 {
		t.Errorf("delta time = %v, want 0.016", spy.lastDT)
	}
}

func TestGetComponent(t *testing.T) {
	g := NewGameObject("obj")
	spy := &spyComponent{}
	g.AddComponent(spy)
	g.AddComponent(&otherComponent{})

	if got := GetComponent[*spyComponent](g); got != spy {
		t.Error("GetComponent did not return the registered component")
	}
	if got := GetComponent[*spyComponent](NewGameObject("empty")); got != nil {
		t.Error("GetComponent on an empty object should return the zero value")
	}
	if spy.GetGameObject() != g {
		t.Error("AddComponent should back-reference the game object")
	}
}

func TestWorldPosition(t *testing.T) {
	parent := NewGameObject("parent")
	parent.Transform.Position = rl.Vector3{X: 10, Y: 1, Z: -2}
	child := NewGameObject("child")
	child.Transform.Position = rl.Vector3{X: 1, Y: 2, Z: 3}
	parent.AddChild(child)

	got := child.WorldPosition()
	want := rl.Vector3{X: 11, Y: 3, Z: 1}
	if got != want {
		t.Errorf("world position = %+v, want %+v", got, want)
	}

	parent.RemoveChild(child)
	if child.Parent != nil {
		t.Error("removed child should have no parent")
	}
	if child.WorldPosition() != child.Transform.Position {
		t.Error("orphaned child world position should be its local position")
	}
}

func TestHasTag(t *testing.T) {
	g := NewGameObject("obj")
	g.Tags = []string{"player", "local"}
	if !g.HasTag("local") {
		t.Error("expected tag to be found")
	}
	if g.HasTag("remote") {
		t.Error("unexpected tag match")
	}
}
