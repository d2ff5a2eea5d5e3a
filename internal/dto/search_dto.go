package dto

// RepositoryResult is the compact repository shape in search results.
type RepositoryResult struct {
	Name          string `json:"name"`
	GroupUserName string `json:"group_user_name"`
	Description   string `json:"description,omitempty"`
	IsPrivate     bool   `json:"is_private"`
}

// SearchResponse groups substring-match results per entity kind.
type SearchResponse struct {
	Query        string             `json:"query"`
	Users        []UserRef          `json:"users"`
	Projects     []ProjectResponse  `json:"projects"`
	Repositories []RepositoryResult `json:"repositories"`
}
