package web

import "github.com/gofiber/fiber/v3"

// Routes mounts every API endpoint on router.
func (h *APIHandlers) Routes(router fiber.Router) {
	w := router.Group("/workflows")
	w.Get("/", h.GetWorkflows)
	w.Post("/", h.CreateWorkflow)
	w.Post("/import", h.ImportWorkflow)
	w.Get("/:id", h.GetWorkflow)
	w.Put("/:id", h.UpdateWorkflow)
	w.Delete("/:id", h.DeleteWorkflow)
	w.Post("/:id/clone", h.CloneWorkflow)
	w.Get("/:id/export", h.ExportWorkflow)

	w.Get("/:id/versions", h.GetVersions)
	w.Get("/:id/versions/:version", h.GetVersion)
	w.Post("/:id/versions/:version/restore", h.RestoreVersion)

	w.Get("/:id/comments", h.GetComments)
	w.Post("/:id/comments", h.AddComment)
	w.Patch("/:id/comments/:commentId", h.UpdateComment)
	w.Delete("/:id/comments/:commentId", h.DeleteComment)
	w.Post("/:id/comments/:commentId/resolve", h.ResolveComment)

	w.Get("/:id/teams", h.GetWorkflowTeams)
	w.Put("/:id/shares/:teamId", h.ShareWorkflow)
	w.Delete("/:id/shares/:teamId", h.UnshareWorkflow)

	t := router.Group("/teams")
	t.Get("/", h.GetTeams)
	t.Post("/", h.CreateTeam)
	t.Get("/:id", h.GetTeam)
	t.Put("/:id", h.UpdateTeam)
	t.Delete("/:id", h.DeleteTeam)
	t.Post("/:id/members", h.AddTeamMember)
	t.Patch("/:id/members/:memberId", h.UpdateTeamMember)
	t.Delete("/:id/members/:memberId", h.RemoveTeamMember)
	t.Get("/:id/workflows", h.GetTeamWorkflows)

	s := router.Group("/session")
	s.Get("/", h.GetSession)
	s.Post("/", h.SignIn)
	s.Delete("/", h.SignOut)
	s.Get("/theme", h.GetTheme)
	s.Put("/theme", h.SetTheme)
	s.Post("/theme/toggle", h.ToggleTheme)

	tp := router.Group("/templates")
	tp.Get("/", h.GetTemplates)
	tp.Get("/categories", h.GetTemplateCategories)
	tp.Get("/:id", h.GetTemplate)
	tp.Post("/:id/use", h.UseTemplate)

	router.Get("/activity", h.GetActivity)
	router.Get("/health", h.HealthCheck)
}
