package dto

import "github.com/prp-platform/prp-api/internal/models"

// UserRef is the compact user shape embedded in other responses.
type UserRef struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	ImageURL string `json:"image_url,omitempty"`
}

// GroupRef is the compact group shape embedded in other responses.
type GroupRef struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	GroupUserName string `json:"group_user_name"`
}

// ProjectRef is the compact project shape embedded in other responses.
type ProjectRef struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

// NewUserRef converts a user model into its compact reference.
func NewUserRef(user models.User) UserRef {
	return UserRef{
		ID:       user.ID,
		Username: user.Username,
		Name:     user.Name,
		Role:     user.Role,
		ImageURL: user.ImageURL,
	}
}

// NewGroupRef converts a group model into its compact reference.
func NewGroupRef(group models.Group) GroupRef {
	return GroupRef{
		ID:            group.ID,
		Name:          group.Name,
		GroupUserName: group.GroupUserName,
	}
}
