package dto

// RepositoryStats counts activity within a repository.
type RepositoryStats struct {
	Commits  int64 `json:"commits"`
	Branches int64 `json:"branches"`
	Projects int64 `json:"projects"`
}

// RepositoryOverviewResponse is the metadata payload for the repository
// browser landing view.
type RepositoryOverviewResponse struct {
	Name          string          `json:"name"`
	GroupUserName string          `json:"group_user_name"`
	Description   string          `json:"description,omitempty"`
	IsPrivate     bool            `json:"is_private"`
	DefaultBranch string          `json:"default_branch"`
	Stats         RepositoryStats `json:"stats"`
}

// Tree node kinds surfaced by the browser.
const (
	TreeNodeFile      = "file"
	TreeNodeDirectory = "directory"
)

// TreeNode is a single entry of a repository tree at a given ref and path.
type TreeNode struct {
	Path string `json:"path"`
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size,omitempty"`
}

// TreeResponse is the listing for one directory level.
type TreeResponse struct {
	Ref     string     `json:"ref"`
	Path    string     `json:"path"`
	Entries []TreeNode `json:"entries"`
}

// CommitResponse describes a commit in the history view.
type CommitResponse struct {
	SHA       string `json:"sha"`
	Message   string `json:"message"`
	Author    string `json:"author"`
	Timestamp string `json:"timestamp"`
}

// CommitListResponse pages commit history.
type CommitListResponse struct {
	Ref        string           `json:"ref"`
	Items      []CommitResponse `json:"items"`
	Pagination Pagination       `json:"pagination"`
}
