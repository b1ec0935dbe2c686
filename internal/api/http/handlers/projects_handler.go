package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/reduxreimagine/portal-service/internal/api/dto"
	"github.com/reduxreimagine/portal-service/internal/auth"
	"github.com/reduxreimagine/portal-service/internal/domain"
	"github.com/reduxreimagine/portal-service/internal/service"
	apperrors "github.com/reduxreimagine/portal-service/pkg/util"
)

// ProjectsHandler serves project endpoints for clients and admins.
type ProjectsHandler struct {
	service *service.ProjectService
}

// NewProjectsHandler constructs handler.
func NewProjectsHandler(projectService *service.ProjectService) *ProjectsHandler {
	return &ProjectsHandler{service: projectService}
}

// ListMine GET /api/projects.
func (h *ProjectsHandler) ListMine(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("sign in required")
	}
	projects, err := h.service.ListClientProjects(c.Context(), identity.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": projectResponses(projects)})
}

// ListAll GET /api/admin/projects.
func (h *ProjectsHandler) ListAll(c *fiber.Ctx) error {
	projects, err := h.service.ListAllProjects(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": projectResponses(projects)})
}

// Create POST /api/admin/projects.
func (h *ProjectsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(&req); err != nil {
		return err
	}

	project, err := h.service.CreateProject(c.Context(), service.ProjectCreateInput{
		ClientID:    req.ClientID,
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.ProjectStatus(req.Status),
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": projectResponse(project)})
}

// Update PUT /api/admin/projects/:id.
func (h *ProjectsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(&req); err != nil {
		return err
	}

	project, err := h.service.UpdateProject(c.Context(), c.Params("id"), service.ProjectUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.ProjectStatus(req.Status),
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": projectResponse(project)})
}

func projectResponse(p *domain.Project) dto.ProjectResponse {
	return dto.ProjectResponse{
		ID:          p.ID,
		ClientID:    p.ClientID,
		Title:       p.Title,
		Description: p.Description,
		Status:      p.Status,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func projectResponses(projects []domain.Project) []dto.ProjectResponse {
	items := make([]dto.ProjectResponse, 0, len(projects))
	for i := range projects {
		items = append(items, projectResponse(&projects[i]))
	}
	return items
}
