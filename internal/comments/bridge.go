// internal/comments/bridge.go
package comments

import (
	"context"
	"log/slog"

	"github.com/akashkhedar/datamanager/internal/events"
	"github.com/akashkhedar/datamanager/internal/types"
)

// Named events the embedded editor fires for comment operations, and the
// result events the SDK answers with.
const (
	EventCreate = "comments:create"
	EventList   = "comments:list"
	EventUpdate = "comments:update"
	EventDelete = "comments:delete"

	EventCreated = "comments:created"
	EventListed  = "comments:listed"
	EventError   = "comments:error"
)

// Attach subscribes the SDK to the editor's comment events. The returned
// detach function removes every subscription.
func (s *Sdk) Attach(ctx context.Context, em *events.Emitter) func() {
	type sub struct{ event, token string }
	var subs []sub

	subs = append(subs, sub{EventCreate, em.On(EventCreate, func(args ...any) {
		req, ok := firstArg[CreateRequest](args)
		if !ok {
			slog.Warn("comment create event without request payload")
			return
		}
		c, err := s.Create(ctx, req)
		if err != nil {
			em.Emit(EventError, err)
			return
		}
		em.Emit(EventCreated, c)
	})})

	subs = append(subs, sub{EventList, em.On(EventList, func(args ...any) {
		scope, _ := firstArg[Scope](args)
		list, err := s.List(ctx, scope)
		if err != nil {
			em.Emit(EventError, err)
			return
		}
		em.Emit(EventListed, list)
	})})

	subs = append(subs, sub{EventUpdate, em.On(EventUpdate, func(args ...any) {
		id, ok := firstArg[types.CommentID](args)
		if !ok {
			return
		}
		req, _ := secondArg[UpdateRequest](args)
		if err := s.Update(ctx, id, req); err != nil {
			em.Emit(EventError, err)
		}
	})})

	subs = append(subs, sub{EventDelete, em.On(EventDelete, func(args ...any) {
		id, ok := firstArg[types.CommentID](args)
		if !ok {
			return
		}
		if err := s.Delete(ctx, id); err != nil {
			em.Emit(EventError, err)
		}
	})})

	return func() {
		for _, cur := range subs {
			em.Off(cur.event, cur.token)
		}
	}
}

func firstArg[T any](args []any) (T, bool) {
	var zero T
	if len(args) == 0 {
		return zero, false
	}
	v, ok := args[0].(T)
	return v, ok
}

func secondArg[T any](args []any) (T, bool) {
	var zero T
	if len(args) < 2 {
		return zero, false
	}
	v, ok := args[1].(T)
	return v, ok
}
