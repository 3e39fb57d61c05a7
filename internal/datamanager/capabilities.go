// internal/datamanager/capabilities.go
package datamanager

import (
	"context"
	"log/slog"

	"github.com/akashkhedar/datamanager/internal/types"
	"github.com/akashkhedar/datamanager/pkg/api"
)

// whoamiPayload is the identity endpoint's response.
type whoamiPayload struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	IsAnnotator bool   `json:"is_annotator"`
	IsClient    bool   `json:"is_client"`
	IsExpert    bool   `json:"is_expert"`
	Role        string `json:"role"`
}

// resolveCapabilities produces the immutable capability record for the
// session. canAnnotate falls back explicit config value > server-reported
// flag > true. An identity-fetch failure fails closed: all three role
// booleans false.
func resolveCapabilities(ctx context.Context, apic *api.Proxy, explicit *bool) types.Capabilities {
	caps := types.Capabilities{Role: types.RoleMember}

	resp, err := apic.Call(ctx, "whoami", api.Params{})
	if err != nil {
		slog.Warn("identity fetch failed, permissions fail closed", "error", err)
		caps.CanAnnotate = explicit == nil || *explicit
		return caps
	}
	var who whoamiPayload
	if err := resp.Decode(&who); err != nil {
		slog.Warn("identity decode failed, permissions fail closed", "error", err)
		caps.CanAnnotate = explicit == nil || *explicit
		return caps
	}

	caps.IsAnnotator = who.IsAnnotator
	caps.IsClient = who.IsClient
	caps.IsExpert = who.IsExpert
	if who.Role != "" {
		caps.Role = types.Role(who.Role)
	}
	caps.User = &types.User{
		ID:        types.UserID(who.ID),
		Email:     who.Email,
		FirstName: who.FirstName,
		LastName:  who.LastName,
	}

	switch {
	case explicit != nil:
		caps.CanAnnotate = *explicit
	default:
		caps.CanAnnotate = who.IsAnnotator || who.IsExpert
	}
	return caps
}
