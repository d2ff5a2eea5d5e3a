package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/prp-platform/prp-api/internal/access"
	"github.com/prp-platform/prp-api/internal/dto"
	"github.com/prp-platform/prp-api/internal/models"
	"github.com/prp-platform/prp-api/internal/repository"
	"github.com/prp-platform/prp-api/pkg/gitclient"
)

// GitBrowser is the slice of the git daemon client the browser needs.
type GitBrowser interface {
	Tree(ctx context.Context, owner, repo, ref, path string) ([]gitclient.TreeEntry, error)
	Commits(ctx context.Context, owner, repo, ref string, limit, offset int) ([]gitclient.Commit, int64, error)
	Stats(ctx context.Context, owner, repo string) (gitclient.RepoStats, error)
}

// RepoBrowserService serves the repository browser views.
type RepoBrowserService interface {
	Overview(ctx context.Context, owner, name string, viewer access.Viewer) (dto.RepositoryOverviewResponse, error)
	Tree(ctx context.Context, owner, name, ref, path string, viewer access.Viewer) (dto.TreeResponse, error)
	Commits(ctx context.Context, owner, name, ref string, limit, offset int, viewer access.Viewer) (dto.CommitListResponse, error)
}

type repoBrowserService struct {
	repos  repository.RepoRepository
	git    GitBrowser
	logger zerolog.Logger
}

// NewRepoBrowserService constructs the repository browser service.
func NewRepoBrowserService(repos repository.RepoRepository, git GitBrowser, logger zerolog.Logger) RepoBrowserService {
	return &repoBrowserService{
		repos:  repos,
		git:    git,
		logger: logger.With().Str("component", "repo_browser_service").Logger(),
	}
}

func (s *repoBrowserService) resolve(ctx context.Context, owner, name string, viewer access.Viewer) (models.Repository, error) {
	repo, err := s.repos.FindByOwnerAndName(ctx, owner, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Repository{}, ErrNotFound
		}
		return models.Repository{}, err
	}

	if repo.IsPrivate {
		if viewer.Anonymous() {
			return models.Repository{}, ErrForbidden
		}
		if viewer.Role != models.RoleAdministrator {
			member, err := s.repos.IsGroupMember(ctx, repo.GroupID, viewer.UserID)
			if err != nil {
				return models.Repository{}, err
			}
			if !member {
				return models.Repository{}, ErrForbidden
			}
		}
	}

	return repo, nil
}

func (s *repoBrowserService) Overview(ctx context.Context, owner, name string, viewer access.Viewer) (dto.RepositoryOverviewResponse, error) {
	repo, err := s.resolve(ctx, owner, name, viewer)
	if err != nil {
		return dto.RepositoryOverviewResponse{}, err
	}

	stats, err := s.git.Stats(ctx, owner, name)
	if err != nil && !errors.Is(err, gitclient.ErrNotFound) {
		return dto.RepositoryOverviewResponse{}, err
	}

	projects, err := s.repos.CountProjects(ctx, repo)
	if err != nil {
		return dto.RepositoryOverviewResponse{}, err
	}

	return dto.RepositoryOverviewResponse{
		Name:          repo.Name,
		GroupUserName: repo.Group.GroupUserName,
		Description:   repo.Description,
		IsPrivate:     repo.IsPrivate,
		DefaultBranch: repo.DefaultBranch,
		Stats: dto.RepositoryStats{
			Commits:  stats.Commits,
			Branches: stats.Branches,
			Projects: projects,
		},
	}, nil
}

func (s *repoBrowserService) Tree(ctx context.Context, owner, name, ref, path string, viewer access.Viewer) (dto.TreeResponse, error) {
	repo, err := s.resolve(ctx, owner, name, viewer)
	if err != nil {
		return dto.TreeResponse{}, err
	}
	if ref == "" {
		ref = repo.DefaultBranch
	}

	entries, err := s.git.Tree(ctx, owner, name, ref, path)
	if err != nil {
		if errors.Is(err, gitclient.ErrNotFound) {
			return dto.TreeResponse{}, ErrNotFound
		}
		return dto.TreeResponse{}, err
	}

	nodes := make([]dto.TreeNode, 0, len(entries))
	for _, entry := range entries {
		kind := dto.TreeNodeFile
		if entry.Type == "directory" || entry.Type == "tree" {
			kind = dto.TreeNodeDirectory
		}
		nodes = append(nodes, dto.TreeNode{
			Path: entry.Path,
			Name: entry.Name,
			Type: kind,
			Size: entry.Size,
		})
	}
	SortTreeNodes(nodes)

	return dto.TreeResponse{Ref: ref, Path: path, Entries: nodes}, nil
}

func (s *repoBrowserService) Commits(ctx context.Context, owner, name, ref string, limit, offset int, viewer access.Viewer) (dto.CommitListResponse, error) {
	repo, err := s.resolve(ctx, owner, name, viewer)
	if err != nil {
		return dto.CommitListResponse{}, err
	}
	if ref == "" {
		ref = repo.DefaultBranch
	}
	limit = clampLimit(limit, 20, 100)
	offset = maxInt(offset, 0)

	commits, total, err := s.git.Commits(ctx, owner, name, ref, limit, offset)
	if err != nil {
		if errors.Is(err, gitclient.ErrNotFound) {
			return dto.CommitListResponse{}, ErrNotFound
		}
		return dto.CommitListResponse{}, err
	}

	items := make([]dto.CommitResponse, 0, len(commits))
	for _, commit := range commits {
		items = append(items, dto.CommitResponse{
			SHA:       commit.SHA,
			Message:   commit.Message,
			Author:    commit.Author,
			Timestamp: commit.Timestamp,
		})
	}

	return dto.CommitListResponse{
		Ref:        ref,
		Items:      items,
		Pagination: dto.NewPagination(total, limit, offset),
	}, nil
}

// SortTreeNodes orders a directory listing: directories before files, names
// ascending within each kind.
func SortTreeNodes(nodes []dto.TreeNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Type != nodes[j].Type {
			return nodes[i].Type == dto.TreeNodeDirectory
		}
		return strings.ToLower(nodes[i].Name) < strings.ToLower(nodes[j].Name)
	})
}
