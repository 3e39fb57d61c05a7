// internal/events/emitter_test.go
package events

import "testing"

func TestEmitterOnEmit(t *testing.T) {
	e := NewEmitter()
	var got []any
	e.On("ping", func(args ...any) {
		got = args
	})
	e.Emit("ping", 1, "two")
	if len(got) != 2 || got[0] != 1 || got[1] != "two" {
		t.Errorf("expected [1 two], got %v", got)
	}
}

func TestEmitterOff(t *testing.T) {
	e := NewEmitter()
	calls := 0
	token := e.On("ping", func(args ...any) { calls++ })
	e.Emit("ping")
	e.Off("ping", token)
	e.Emit("ping")
	if calls != 1 {
		t.Errorf("expected 1 call after Off, got %d", calls)
	}
	if e.HasListeners("ping") {
		t.Error("expected no listeners after Off")
	}
}

func TestEmitterClear(t *testing.T) {
	e := NewEmitter()
	calls := 0
	e.On("a", func(args ...any) { calls++ })
	e.On("b", func(args ...any) { calls++ })
	e.Clear()
	e.Emit("a")
	e.Emit("b")
	if calls != 0 {
		t.Errorf("expected no calls after Clear, got %d", calls)
	}
}

func TestEmitterMultipleHandlers(t *testing.T) {
	e := NewEmitter()
	calls := 0
	e.On("ping", func(args ...any) { calls++ })
	e.On("ping", func(args ...any) { calls++ })
	e.Emit("ping")
	if calls != 2 {
		t.Errorf("expected both handlers to fire, got %d", calls)
	}
}

func TestBridgeForwardsMappedEvents(t *testing.T) {
	local := NewEmitter()
	remote := NewEmitter()
	b := NewBridge(local, remote, map[string]string{"sf:submit": "submit"})
	b.Attach()

	var remoteGot, localGot int
	remote.On("submit", func(args ...any) { remoteGot++ })
	local.On("sf:submit", func(args ...any) { localGot++ })

	local.Emit("sf:submit")
	if remoteGot != 1 {
		t.Errorf("expected remote to see forwarded event, got %d", remoteGot)
	}

	remote.Emit("submit")
	if localGot != 2 {
		t.Errorf("expected local to see 1 direct + 1 forwarded, got %d", localGot)
	}
}

func TestBridgeDoesNotEcho(t *testing.T) {
	local := NewEmitter()
	remote := NewEmitter()
	b := NewBridge(local, remote, map[string]string{"sf:submit": "submit"})
	b.Attach()

	calls := 0
	local.On("sf:submit", func(args ...any) {
		calls++
		if calls > 3 {
			t.Fatal("event echoing across the bridge")
		}
	})
	local.Emit("sf:submit")
	if calls != 1 {
		t.Errorf("expected exactly 1 local delivery, got %d", calls)
	}
}

func TestBridgeIgnoresUnmappedEvents(t *testing.T) {
	local := NewEmitter()
	remote := NewEmitter()
	b := NewBridge(local, remote, map[string]string{"sf:submit": "submit"})
	b.Attach()

	forwarded := false
	remote.On("other", func(args ...any) { forwarded = true })
	local.Emit("other")
	if forwarded {
		t.Error("unmapped event crossed the bridge")
	}
}

func TestBridgeDetach(t *testing.T) {
	local := NewEmitter()
	remote := NewEmitter()
	b := NewBridge(local, remote, map[string]string{"sf:submit": "submit"})
	b.Attach()
	b.Detach()

	forwarded := false
	remote.On("submit", func(args ...any) { forwarded = true })
	local.Emit("sf:submit")
	if forwarded {
		t.Error("event forwarded after Detach")
	}
}
