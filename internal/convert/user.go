// internal/convert/user.go
package convert

import "github.com/akashkhedar/datamanager/internal/types"

// UserPayload is the backend wire shape of a user account.
type UserPayload struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar,omitempty"`
}

// ToUser converts a backend user.
func ToUser(p *UserPayload) *types.User {
	return &types.User{
		ID:        types.UserID(p.ID),
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Avatar:    p.Avatar,
	}
}

// ProjectPayload is the backend wire shape of the project settings the
// integration layer consumes.
type ProjectPayload struct {
	ID                    int64  `json:"id"`
	Title                 string `json:"title"`
	LabelConfig           string `json:"label_config"`
	ExpertInstruction     string `json:"expert_instruction"`
	ShowCollabPredictions bool   `json:"show_collab_predictions"`
}

// ToProject converts a backend project.
func ToProject(p *ProjectPayload) *types.Project {
	return &types.Project{
		ID:                    types.ProjectID(p.ID),
		Title:                 p.Title,
		LabelConfig:           p.LabelConfig,
		Instruction:           p.ExpertInstruction,
		ShowCollabPredictions: p.ShowCollabPredictions,
	}
}
