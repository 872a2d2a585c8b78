package web

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/dukex/flowdesk/pkg/activity"
	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/services"
	"github.com/dukex/flowdesk/pkg/session"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

type APIHandlers struct {
	workflowService *services.Workflow
	teamService     *services.Team
	commentService  *services.Comment
	templateService *services.Template
	session         *session.Session
	activity        *activity.Recorder
	validator       *validator.Validate
}

func NewAPIHandlers(
	workflowService *services.Workflow,
	teamService *services.Team,
	commentService *services.Comment,
	templateService *services.Template,
	session *session.Session,
	activity *activity.Recorder,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		workflowService: workflowService,
		teamService:     teamService,
		commentService:  commentService,
		templateService: templateService,
		session:         session,
		activity:        activity,
		validator:       validator,
	}
}

// requestContext returns the request context carrying the signed-in user as
// the actor of any published event.
func (h *APIHandlers) requestContext(c fiber.Ctx) context.Context {
	var ctx context.Context = c.Context()

	user, err := h.session.Current(ctx)
	if err == nil {
		ctx = services.WithActor(ctx, user.Email)
	}

	return ctx
}

// bind decodes and validates the request body. When it reports false the
// problem response has already been written and the handler must return err.
func (h *APIHandlers) bind(c fiber.Ctx, req any) (bool, error) {
	if err := c.Bind().JSON(req); err != nil {
		return false, badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return false, badRequest(c, err.Error())
	}

	return true, nil
}

func versionParam(c fiber.Ctx) (int, bool) {
	version, err := strconv.Atoi(c.Params("version"))
	if err != nil || version < 1 {
		return 0, false
	}

	return version, true
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	return c.JSON(h.workflowService.List(h.requestContext(c)))
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	workflow, err := h.workflowService.FetchByID(h.requestContext(c), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(workflow)
}

func (h *APIHandlers) CreateWorkflow(c fiber.Ctx) error {
	var req WorkflowRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}

	created, err := h.workflowService.Create(h.requestContext(c), req.toModel())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) UpdateWorkflow(c fiber.Ctx) error {
	var req WorkflowRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}

	updated, err := h.workflowService.Update(h.requestContext(c), c.Params("id"), req.toModel(), req.Comment)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) DeleteWorkflow(c fiber.Ctx) error {
	err := h.workflowService.Delete(h.requestContext(c), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) CloneWorkflow(c fiber.Ctx) error {
	var req CloneWorkflowRequest
	if len(c.Body()) > 0 {
		if ok, err := h.bind(c, &req); !ok {
			return err
		}
	}

	cloned, err := h.workflowService.Clone(h.requestContext(c), c.Params("id"), req.Name)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(cloned)
}

// ExportWorkflow returns the export document. ?versions=true includes the ledger.
func (h *APIHandlers) ExportWorkflow(c fiber.Ctx) error {
	includeVersions := false

	if raw := c.Query("versions"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return badRequest(c, "Invalid query parameters: "+err.Error())
		}

		includeVersions = parsed
	}

	document, err := h.workflowService.Export(h.requestContext(c), c.Params("id"), includeVersions)
	if err != nil {
		return handleServiceError(c, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	return c.SendString(document)
}

// ImportWorkflow takes the raw export document as the request body.
func (h *APIHandlers) ImportWorkflow(c fiber.Ctx) error {
	imported, err := h.workflowService.Import(h.requestContext(c), string(c.Body()))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(imported)
}

func (h *APIHandlers) GetVersions(c fiber.Ctx) error {
	versions, err := h.workflowService.Versions(h.requestContext(c), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(versions)
}

func (h *APIHandlers) GetVersion(c fiber.Ctx) error {
	version, ok := versionParam(c)
	if !ok {
		return badRequest(c, "Version must be a positive integer")
	}

	entry, err := h.workflowService.Version(h.requestContext(c), c.Params("id"), version)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(entry)
}

func (h *APIHandlers) RestoreVersion(c fiber.Ctx) error {
	version, ok := versionParam(c)
	if !ok {
		return badRequest(c, "Version must be a positive integer")
	}

	restored, err := h.workflowService.Restore(h.requestContext(c), c.Params("id"), version)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(restored)
}

// GetActivity lists the activity feed, optionally filtered by ?type=.
func (h *APIHandlers) GetActivity(c fiber.Ctx) error {
	filter := models.ActivityType(c.Query("type"))

	return c.JSON(h.activity.Feed(c.Context(), filter))
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, ok := h.workflowService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Flowdesk API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if ok {
		status = "healthy"
		message = "Flowdesk API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}
