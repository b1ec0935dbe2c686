package service

import (
	"context"
	"errors"
	"time"

	"github.com/reduxreimagine/portal-service/internal/domain"
	"github.com/reduxreimagine/portal-service/internal/repository"
)

// ProjectCreateInput describes an admin-created project.
type ProjectCreateInput struct {
	ClientID    string
	Title       string
	Description string
	Status      domain.ProjectStatus
	StartDate   time.Time
	EndDate     *time.Time
}

// ProjectUpdateInput carries admin edits to an existing project.
type ProjectUpdateInput struct {
	Title       string
	Description string
	Status      domain.ProjectStatus
	StartDate   time.Time
	EndDate     *time.Time
}

// ProjectService exposes project reads for clients and writes for admins.
type ProjectService struct {
	projects repository.ProjectRepository
	clients  repository.ClientRepository
}

// NewProjectService constructs the service.
func NewProjectService(projects repository.ProjectRepository, clients repository.ClientRepository) *ProjectService {
	return &ProjectService{projects: projects, clients: clients}
}

// ListClientProjects returns the signed-in client's own projects.
func (s *ProjectService) ListClientProjects(ctx context.Context, userID string) ([]domain.Project, error) {
	client, err := s.clients.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.projects.ListByClient(ctx, client.ID)
}

// ListAllProjects returns every project, for the admin view.
func (s *ProjectService) ListAllProjects(ctx context.Context) ([]domain.Project, error) {
	return s.projects.List(ctx)
}

// CreateProject records a new engagement for a client.
func (s *ProjectService) CreateProject(ctx context.Context, input ProjectCreateInput) (*domain.Project, error) {
	if _, err := s.clients.GetByID(ctx, input.ClientID); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = domain.ProjectStatusPending
	}
	if !domain.ValidProjectStatus(status) {
		return nil, errors.New("unknown status")
	}

	project := &domain.Project{
		ClientID:    input.ClientID,
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// UpdateProject applies admin edits.
func (s *ProjectService) UpdateProject(ctx context.Context, projectID string, input ProjectUpdateInput) (*domain.Project, error) {
	if !domain.ValidProjectStatus(input.Status) {
		return nil, errors.New("unknown status")
	}

	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	project.Title = input.Title
	project.Description = input.Description
	project.Status = input.Status
	project.StartDate = input.StartDate
	project.EndDate = input.EndDate

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}
