package web

import (
	"github.com/gofiber/fiber/v3"
)

// GetTemplates lists catalog templates, filtered by ?category= and ?search=.
func (h *APIHandlers) GetTemplates(c fiber.Ctx) error {
	return c.JSON(h.templateService.List(c.Query("category"), c.Query("search")))
}

func (h *APIHandlers) GetTemplateCategories(c fiber.Ctx) error {
	return c.JSON(h.templateService.Categories())
}

func (h *APIHandlers) GetTemplate(c fiber.Ctx) error {
	tmpl, err := h.templateService.Get(c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(tmpl)
}

// UseTemplate creates a workflow from the template and returns it.
func (h *APIHandlers) UseTemplate(c fiber.Ctx) error {
	created, err := h.templateService.Use(h.requestContext(c), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}
