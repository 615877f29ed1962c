package net

import (
	"sync"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

// newLoopbackClient builds a client with no connection. dispatch and Drain
// never touch the socket, so the queueing path is testable in isolation.
func newLoopbackClient(h Handlers) *Client {
	return &Client{
		pending:  make(chan func(h Handlers), pendingBufSize),
		handlers: h,
	}
}

func TestDispatchQueuesUntilDrain(t *testing.T) {
	var got []PosUpdate
	c := newLoopbackClient(Handlers{OnPos: func(m PosUpdate) { got = append(got, m) }})

	frame, err := Encode(MsgPos, PosUpdate{ID: "p1", X: 1, Y: 2, Z: 3})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	c.dispatch(frame)

	if len(got) != 0 {
		t.Fatal("handler ran before Drain")
	}
	c.Drain()
	if len(got) != 1 {
		t.Fatalf("handler ran %d times after Drain, want 1", len(got))
	}
	if m := got[0]; m.ID != "p1" || m.X != 1 || m.Y != 2 || m.Z != 3 {
		t.Errorf("decoded position = %+v", m)
	}
}

func TestDrainAppliesInArrivalOrder(t *testing.T) {
	var order []string
	c := newLoopbackClient(Handlers{
		OnPos:   func(PosUpdate) { order = append(order, "pos") },
		OnWarp:  func(WarpMsg) { order = append(order, "warp") },
		OnLeave: func(string) { order = append(order, "leave") },
	})

	for _, f := range []func() ([]byte, error){
		func() ([]byte, error) { return Encode(MsgWarp, WarpMsg{ID: "p1", Y: 4}) },
		func() ([]byte, error) { return Encode(MsgPos, PosUpdate{ID: "p1"}) },
		func() ([]byte, error) { return Encode(MsgLeave, LeaveMsg{ID: "p1"}) },
	} {
		frame, err := f()
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		c.dispatch(frame)
	}
	c.Drain()

	if len(order) != 3 || order[0] != "warp" || order[1] != "pos" || order[2] != "leave" {
		t.Errorf("handler order = %v, want [warp pos leave]", order)
	}
}

func TestDispatchDropsUnknownType(t *testing.T) {
	c := newLoopbackClient(Handlers{})
	frame, err := Encode("dance", PosUpdate{ID: "p1"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	c.dispatch(frame)
	if len(c.pending) != 0 {
		t.Error("unknown message type should not queue a handler call")
	}
}

func TestDispatchDropsMalformedFrames(t *testing.T) {
	c := newLoopbackClient(Handlers{})
	c.dispatch([]byte{0xc1, 0xff, 0x00})
	c.Drain()

	// valid envelope, payload of the wrong shape
	bad, err := msgpack.Marshal(Envelope{T: MsgHealth, D: []byte{0xc1}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	c.dispatch(bad)
	if len(c.pending) != 0 {
		t.Error("malformed payload should not queue a handler call")
	}
}

func TestDrainWithNilHandlers(t *testing.T) {
	c := newLoopbackClient(Handlers{})
	frame, err := Encode(MsgAttack, AttackEvent{From: "p1", Target: "p2", Damage: 10})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	c.dispatch(frame)
	c.Drain() // must not panic
}

func TestCloseIsSafeFromManyGoroutines(t *testing.T) {
	// A dropped connection errors both pumps near-simultaneously, and the
	// frame goroutine closes again on teardown. None of them may panic.
	c := &Client{
		pending: make(chan func(h Handlers), 1),
		done:    make(chan struct{}),
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Close()
		}()
	}
	wg.Wait()
	c.Close()

	select {
	case <-c.done:
	default:
		t.Error("done channel should be closed after Close")
	}
}

func TestHealthRoundTrip(t *testing.T) {
	var got HealthEvent
	c := newLoopbackClient(Handlers{OnHealth: func(m HealthEvent) { got = m }})

	frame, err := Encode(MsgHealth, HealthEvent{ID: "p2", HP: 64})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	c.dispatch(frame)
	c.Drain()

	if got.ID != "p2" || got.HP != 64 {
		t.Errorf("decoded health = %+v", got)
	}
}
