package web

import (
	"errors"

	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/session"
	"github.com/gofiber/fiber/v3"
)

func (h *APIHandlers) GetSession(c fiber.Ctx) error {
	user, err := h.session.Current(c.Context())
	if errors.Is(err, session.ErrSignedOut) {
		return unauthorized(c)
	}

	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(user)
}

func (h *APIHandlers) SignIn(c fiber.Ctx) error {
	var req SignInRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}

	user := models.User{Email: req.Email, Role: req.Role}

	err := h.session.SignIn(c.Context(), user)
	if err != nil {
		return internalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// SignOut ends the session. Stored workflows and their history are cleared.
func (h *APIHandlers) SignOut(c fiber.Ctx) error {
	err := h.session.SignOut(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) GetTheme(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"theme": h.session.Theme(c.Context())})
}

func (h *APIHandlers) SetTheme(c fiber.Ctx) error {
	var req ThemeRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}

	err := h.session.SetTheme(c.Context(), req.Theme)
	if errors.Is(err, session.ErrInvalidTheme) {
		return badRequest(c, err.Error())
	}

	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"theme": req.Theme})
}

func (h *APIHandlers) ToggleTheme(c fiber.Ctx) error {
	theme, err := h.session.ToggleTheme(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"theme": theme})
}
