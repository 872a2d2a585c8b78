package web

import (
	"github.com/gofiber/fiber/v3"
)

// GetTeams lists teams. ?mine=true restricts the list to the signed-in user's teams.
func (h *APIHandlers) GetTeams(c fiber.Ctx) error {
	ctx := h.requestContext(c)

	userID := ""

	if c.Query("mine") == "true" {
		user, err := h.session.Current(ctx)
		if err != nil {
			return unauthorized(c)
		}

		userID = user.Email
	}

	return c.JSON(h.teamService.List(ctx, userID))
}

func (h *APIHandlers) GetTeam(c fiber.Ctx) error {
	found, err := h.teamService.Get(h.requestContext(c), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(found)
}

// CreateTeam creates a team owned by the signed-in user.
func (h *APIHandlers) CreateTeam(c fiber.Ctx) error {
	var req CreateTeamRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}

	ctx := h.requestContext(c)

	user, err := h.session.Current(ctx)
	if err != nil {
		return unauthorized(c)
	}

	created, err := h.teamService.Create(ctx, req.Name, req.Description, user.Email, user.Email)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) UpdateTeam(c fiber.Ctx) error {
	var req CreateTeamRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}

	updated, err := h.teamService.Update(h.requestContext(c), c.Params("id"), req.Name, req.Description)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) DeleteTeam(c fiber.Ctx) error {
	err := h.teamService.Delete(h.requestContext(c), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) AddTeamMember(c fiber.Ctx) error {
	var req AddMemberRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}

	updated, err := h.teamService.AddMember(h.requestContext(c), c.Params("id"), req.ID, req.Email, req.Role)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(updated)
}

func (h *APIHandlers) UpdateTeamMember(c fiber.Ctx) error {
	var req UpdateMemberRoleRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}

	updated, err := h.teamService.UpdateMemberRole(h.requestContext(c), c.Params("id"), c.Params("memberId"), req.Role)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) RemoveTeamMember(c fiber.Ctx) error {
	updated, err := h.teamService.RemoveMember(h.requestContext(c), c.Params("id"), c.Params("memberId"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) GetTeamWorkflows(c fiber.Ctx) error {
	shared, err := h.teamService.SharedWorkflows(h.requestContext(c), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(shared)
}

func (h *APIHandlers) GetWorkflowTeams(c fiber.Ctx) error {
	ctx := h.requestContext(c)

	_, err := h.workflowService.FetchByID(ctx, c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(h.teamService.TeamsForWorkflow(ctx, c.Params("id")))
}

func (h *APIHandlers) ShareWorkflow(c fiber.Ctx) error {
	var req ShareWorkflowRequest
	if len(c.Body()) > 0 {
		if ok, err := h.bind(c, &req); !ok {
			return err
		}
	}

	share, err := h.teamService.Share(h.requestContext(c), c.Params("id"), c.Params("teamId"), req.Permissions)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(share)
}

func (h *APIHandlers) UnshareWorkflow(c fiber.Ctx) error {
	err := h.teamService.Unshare(h.requestContext(c), c.Params("id"), c.Params("teamId"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
