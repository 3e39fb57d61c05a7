// internal/events/bridge.go
package events

import "sync"

// Bridge forwards events bidirectionally between the DataManager bus and the
// embedded editor's native emitter through an explicit name-mapping table.
// Only names present in the table cross the bridge; everything else stays on
// its own side.
type Bridge struct {
	local   *Emitter
	remote  *Emitter
	mapping map[string]string // local name -> remote name

	mu        sync.Mutex
	attached  bool
	tokens    []subscription
	inFlight  map[string]bool
}

type subscription struct {
	emitter *Emitter
	event   string
	token   string
}

// NewBridge creates a detached bridge over the given mapping.
func NewBridge(local, remote *Emitter, mapping map[string]string) *Bridge {
	m := make(map[string]string, len(mapping))
	for k, v := range mapping {
		m[k] = v
	}
	return &Bridge{
		local:    local,
		remote:   remote,
		mapping:  m,
		inFlight: make(map[string]bool),
	}
}

// Attach subscribes forwarding handlers on both sides.
func (b *Bridge) Attach() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.attached {
		return
	}
	b.attached = true
	for localName, remoteName := range b.mapping {
		ln, rn := localName, remoteName
		lt := b.local.On(ln, func(args ...any) {
			b.forward(b.remote, ln, rn, args)
		})
		rt := b.remote.On(rn, func(args ...any) {
			b.forward(b.local, rn, ln, args)
		})
		b.tokens = append(b.tokens,
			subscription{b.local, ln, lt},
			subscription{b.remote, rn, rt},
		)
	}
}

// Detach removes all forwarding handlers.
func (b *Bridge) Detach() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sub := range b.tokens {
		sub.emitter.Off(sub.event, sub.token)
	}
	b.tokens = nil
	b.attached = false
}

// forward re-emits on the target side unless this event is already crossing
// the bridge, which would echo forever.
func (b *Bridge) forward(target *Emitter, from, to string, args []any) {
	b.mu.Lock()
	if b.inFlight[from] || b.inFlight[to] {
		b.mu.Unlock()
		return
	}
	b.inFlight[from] = true
	b.mu.Unlock()

	target.Emit(to, args...)

	b.mu.Lock()
	delete(b.inFlight, from)
	b.mu.Unlock()
}
