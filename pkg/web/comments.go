package web

import (
	"github.com/gofiber/fiber/v3"
)

// GetComments lists a workflow's comments. ?threaded=true groups replies
// under their root comments.
func (h *APIHandlers) GetComments(c fiber.Ctx) error {
	ctx := h.requestContext(c)

	if c.Query("threaded") == "true" {
		threads, err := h.commentService.Threads(ctx, c.Params("id"))
		if err != nil {
			return handleServiceError(c, err)
		}

		return c.JSON(threads)
	}

	comments, err := h.commentService.List(ctx, c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(comments)
}

// AddComment posts a comment authored by the signed-in user.
func (h *APIHandlers) AddComment(c fiber.Ctx) error {
	var req CommentRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}

	ctx := h.requestContext(c)

	user, err := h.session.Current(ctx)
	if err != nil {
		return unauthorized(c)
	}

	added, err := h.commentService.Add(ctx, c.Params("id"), user.Email, user.Email, req.Content, req.ParentID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(added)
}

func (h *APIHandlers) UpdateComment(c fiber.Ctx) error {
	var req CommentRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}

	updated, err := h.commentService.Update(h.requestContext(c), c.Params("id"), c.Params("commentId"), req.Content)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) ResolveComment(c fiber.Ctx) error {
	toggled, err := h.commentService.ToggleResolved(h.requestContext(c), c.Params("id"), c.Params("commentId"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(toggled)
}

func (h *APIHandlers) DeleteComment(c fiber.Ctx) error {
	err := h.commentService.Delete(h.requestContext(c), c.Params("id"), c.Params("commentId"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
