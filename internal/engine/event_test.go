package engine

import "testing"

func TestEventInvokesInOrder(t *testing.T) {
	e := &Event{}
	var order []int
	e.AddListener(func() { order = append(order, 1) })
	e.AddListener(func() { order = append(order, 2) })
	e.AddListener(nil)

	e.Invoke()
	e.Invoke()

	if len(order) != 4 || order[0] != 1 || order[1] != 2 || order[2] != 1 {
		t.Errorf("invocation order = %v, want 1,2 twice", order)
	}
	if e.GetListenerCount() != 2 {
		t.Errorf("listener count = %d, want 2 (nil rejected)", e.GetListenerCount())
	}
}

func TestOneShotEventFiresOnce(t *testing.T) {
	e := NewOneShotEvent()
	calls := 0
	e.AddListener(func() { calls++ })

	e.Invoke()
	e.Invoke()
	if calls != 1 {
		t.Errorf("one-shot listener ran %d times, want 1", calls)
	}
	if !e.Fired() {
		t.Error("event should report fired")
	}
	if e.GetListenerCount() != 0 {
		t.Error("one-shot event should drop listeners after firing")
	}
}

func TestOneShotLateListener(t *testing.T) {
	e := NewOneShotEvent()
	e.Invoke()

	ran := false
	e.AddListener(func() { ran = true })
	if !ran {
		t.Error("listener added after a one-shot fired should run immediately")
	}
}

func TestRemoveAllListeners(t *testing.T) {
	e := &Event{}
	calls := 0
	e.AddListener(func() { calls++ })
	e.RemoveAllListeners()
	e.Invoke()
	if calls != 0 {
		t.Errorf("removed listener ran %d times", calls)
	}
}

func TestEventWithArg(t *testing.T) {
	e := &EventWithArg[string]{}
	var got []string
	e.AddListener(func(s string) { got = append(got, s) })
	e.Invoke("hello")
	e.Invoke("world")
	if len(got) != 2 || got[0] != "hello" || got[1] != "world" {
		t.Errorf("received %v, want [hello world]", got)
	}
}
