package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-grievance/grievance-service/internal/api/dto"
	"github.com/campus-grievance/grievance-service/internal/auth"
	"github.com/campus-grievance/grievance-service/internal/domain"
	"github.com/campus-grievance/grievance-service/internal/service"
	"github.com/campus-grievance/grievance-service/internal/validation"
	apperrors "github.com/campus-grievance/grievance-service/pkg/util"
)

// IssuesHandler manages grievance endpoints.
type IssuesHandler struct {
	service   *service.IssueService
	validator *validation.Validator
}

// NewIssuesHandler constructs handler.
func NewIssuesHandler(issueService *service.IssueService, v *validation.Validator) *IssuesHandler {
	return &IssuesHandler{service: issueService, validator: v}
}

// Create POST /api/issues/create.
func (h *IssuesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateIssueRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.validator.Struct(req); err != nil {
		return err
	}

	view, err := h.service.Create(c.UserContext(), principal, service.CreateIssueInput{
		Title:       req.Title,
		Description: req.Description,
		Sensitive:   req.Sensitive,
		Anonymous:   req.Anonymous,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": issueResponse(view)})
}

// ListOwn GET /api/issues/user.
func (h *IssuesHandler) ListOwn(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	views, err := h.service.ListOwn(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": issueList(views)})
}

// ListAll GET /api/issues/all.
func (h *IssuesHandler) ListAll(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	views, err := h.service.ListAll(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": issueList(views)})
}

// Get GET /api/issues/:id.
func (h *IssuesHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	view, err := h.service.Get(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": issueResponse(view)})
}

// UpdateStatus PATCH /api/issues/:id/status.
func (h *IssuesHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	view, err := h.service.UpdateStatus(c.UserContext(), principal, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": issueResponse(view)})
}

// Stats GET /api/issues/stats.
func (h *IssuesHandler) Stats(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	stats, err := h.service.Stats(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": statsResponse(stats)})
}

func issueResponse(view *service.IssueView) dto.IssueResponse {
	resp := dto.IssueResponse{
		ID:          view.Issue.ID,
		Title:       view.Issue.Title,
		Description: view.Issue.Description,
		Status:      view.Issue.Status,
		Sensitive:   view.Issue.Sensitive,
		Anonymous:   view.Issue.Anonymous,
		CreatedAt:   view.Issue.CreatedAt,
		UpdatedAt:   view.Issue.UpdatedAt,
	}
	if view.Reporter != nil {
		resp.Reporter = &dto.ReporterResponse{
			ID:    view.Reporter.ID,
			Name:  view.Reporter.Name,
			Email: view.Reporter.Email,
		}
	}
	return resp
}

func issueList(views []service.IssueView) []dto.IssueResponse {
	items := make([]dto.IssueResponse, 0, len(views))
	for i := range views {
		items = append(items, issueResponse(&views[i]))
	}
	return items
}

func statsResponse(stats *domain.IssueStats) dto.IssueStatsResponse {
	return dto.IssueStatsResponse{
		Total:      stats.Total,
		Pending:    stats.Pending,
		InProgress: stats.InProgress,
		Resolved:   stats.Resolved,
	}
}
