package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/prp-platform/prp-api/internal/dto"
	"github.com/prp-platform/prp-api/internal/repository"
)

// ErrQueryTooShort rejects search terms below the minimum length.
var ErrQueryTooShort = errors.New("search query must be at least 2 characters")

const searchResultLimit = 10

// SearchService runs cross-entity substring search.
type SearchService interface {
	Search(ctx context.Context, query string) (dto.SearchResponse, error)
}

type searchService struct {
	users    repository.UserRepository
	projects repository.ProjectRepository
	repos    repository.RepoRepository
	logger   zerolog.Logger
}

// NewSearchService constructs the search service.
func NewSearchService(users repository.UserRepository, projects repository.ProjectRepository, repos repository.RepoRepository, logger zerolog.Logger) SearchService {
	return &searchService{
		users:    users,
		projects: projects,
		repos:    repos,
		logger:   logger.With().Str("component", "search_service").Logger(),
	}
}

func (s *searchService) Search(ctx context.Context, query string) (dto.SearchResponse, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return dto.SearchResponse{}, ErrQueryTooShort
	}

	response := dto.SearchResponse{
		Query:        query,
		Users:        []dto.UserRef{},
		Projects:     []dto.ProjectResponse{},
		Repositories: []dto.RepositoryResult{},
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		users, err := s.users.Search(groupCtx, query, searchResultLimit)
		if err != nil {
			return err
		}
		for _, user := range users {
			response.Users = append(response.Users, dto.NewUserRef(user))
		}
		return nil
	})

	group.Go(func() error {
		projects, err := s.projects.Search(groupCtx, query, searchResultLimit)
		if err != nil {
			return err
		}
		for _, project := range projects {
			response.Projects = append(response.Projects, dto.NewProjectResponse(project, dto.ProjectStats{}))
		}
		return nil
	})

	group.Go(func() error {
		repos, err := s.repos.Search(groupCtx, query, searchResultLimit)
		if err != nil {
			return err
		}
		for _, repo := range repos {
			response.Repositories = append(response.Repositories, dto.RepositoryResult{
				Name:          repo.Name,
				GroupUserName: repo.Group.GroupUserName,
				Description:   repo.Description,
				IsPrivate:     repo.IsPrivate,
			})
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		return dto.SearchResponse{}, err
	}

	return response, nil
}
