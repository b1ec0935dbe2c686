package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/reduxreimagine/portal-service/internal/domain"
)

type stubProjectRepo struct {
	projects []*domain.Project
	nextID   int
}

func (r *stubProjectRepo) Create(_ context.Context, project *domain.Project) error {
	r.nextID++
	project.ID = "project-" + strconv.Itoa(r.nextID)
	project.CreatedAt = time.Now()
	project.UpdatedAt = project.CreatedAt
	copied := *project
	r.projects = append(r.projects, &copied)
	return nil
}

func (r *stubProjectRepo) Update(_ context.Context, project *domain.Project) error {
	for i, existing := range r.projects {
		if existing.ID == project.ID {
			copied := *project
			r.projects[i] = &copied
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *stubProjectRepo) GetByID(_ context.Context, id string) (*domain.Project, error) {
	for _, project := range r.projects {
		if project.ID == id {
			copied := *project
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubProjectRepo) ListByClient(_ context.Context, clientID string) ([]domain.Project, error) {
	var out []domain.Project
	for _, project := range r.projects {
		if project.ClientID == clientID {
			out = append(out, *project)
		}
	}
	return out, nil
}

func (r *stubProjectRepo) List(context.Context) ([]domain.Project, error) {
	out := make([]domain.Project, 0, len(r.projects))
	for _, project := range r.projects {
		out = append(out, *project)
	}
	return out, nil
}

func TestCreateProjectDefaultsToPending(t *testing.T) {
	projects := &stubProjectRepo{}
	clients := &stubClientRepo{}
	client := seedClient(t, clients, "user-1", "jane@client.test")
	svc := NewProjectService(projects, clients)

	project, err := svc.CreateProject(context.Background(), ProjectCreateInput{
		ClientID:    client.ID,
		Title:       "New site",
		Description: "Marketing site rebuild",
		StartDate:   time.Now(),
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if project.Status != domain.ProjectStatusPending {
		t.Fatalf("status %q, want pending default", project.Status)
	}

	if _, err := svc.CreateProject(context.Background(), ProjectCreateInput{
		ClientID:  "missing",
		Title:     "x",
		StartDate: time.Now(),
	}); err == nil {
		t.Fatal("project created for unknown client")
	}
}

func TestUpdateProjectValidatesStatus(t *testing.T) {
	projects := &stubProjectRepo{}
	clients := &stubClientRepo{}
	client := seedClient(t, clients, "user-1", "jane@client.test")
	svc := NewProjectService(projects, clients)

	project, err := svc.CreateProject(context.Background(), ProjectCreateInput{
		ClientID:  client.ID,
		Title:     "New site",
		StartDate: time.Now(),
	})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := svc.UpdateProject(context.Background(), project.ID, ProjectUpdateInput{
		Title:       "New site",
		Description: "scoped",
		Status:      domain.ProjectStatusInProgress,
		StartDate:   project.StartDate,
	})
	if err != nil {
		t.Fatalf("update project: %v", err)
	}
	if updated.Status != domain.ProjectStatusInProgress {
		t.Fatalf("status %q", updated.Status)
	}

	if _, err := svc.UpdateProject(context.Background(), project.ID, ProjectUpdateInput{
		Title:  "New site",
		Status: "archived",
	}); err == nil {
		t.Fatal("unknown status accepted")
	}
}

func TestListClientProjectsScopesToOwner(t *testing.T) {
	projects := &stubProjectRepo{}
	clients := &stubClientRepo{}
	a := seedClient(t, clients, "user-1", "jane@client.test")
	b := seedClient(t, clients, "user-2", "bob@client.test")
	svc := NewProjectService(projects, clients)

	for _, clientID := range []string{a.ID, a.ID, b.ID} {
		if _, err := svc.CreateProject(context.Background(), ProjectCreateInput{
			ClientID:  clientID,
			Title:     "p",
			StartDate: time.Now(),
		}); err != nil {
			t.Fatal(err)
		}
	}

	mine, err := svc.ListClientProjects(context.Background(), "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 2 {
		t.Fatalf("listed %d projects for user-1, want 2", len(mine))
	}
}
