package handler

import (
	"github.com/gofiber/fiber/v2"

	"permitflow/internal/http/middleware"
	"permitflow/internal/service"
)

// registerWorkflowRoutes attaches the stage-progression and requirement
// ledger endpoints. Manual advancement is admin-only.
func registerWorkflowRoutes(app *fiber.App, wfSvc service.WorkflowService) {
	// Stage catalogue in workflow order
	app.Get("/stages", func(c *fiber.Ctx) error {
		stages, err := wfSvc.ListStages(c.UserContext())
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"data": stages})
	})

	// Every stage the application has entered
	app.Get("/applications/:id/progress", func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		progress, err := wfSvc.ListProgress(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"data": progress})
	})

	// The stage the application currently sits in
	app.Get("/applications/:id/current-stage", func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		stage, err := wfSvc.GetCurrentStage(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(stage)
	})

	// Requirement ledger for one stage (current stage when stage_id omitted)
	app.Get("/applications/:id/requirements", func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		reqs, err := wfSvc.ListRequirements(c.UserContext(), id, c.Query("stage_id"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"data": reqs})
	})

	// Record a requirement-status change; may advance the application
	app.Patch("/requirements", func(c *fiber.Ctx) error {
		var in service.UpdateRequirementInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		res, err := wfSvc.UpdateRequirementStatus(c.UserContext(), in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	})

	// Force-advance past the current stage regardless of requirement state
	app.Post("/applications/:id/advance", middleware.RequireRole("admin"), func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var in struct {
			CompletedBy string `json:"completed_by"`
			Notes       string `json:"notes"`
		}
		if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		transition, err := wfSvc.MoveToNextStage(c.UserContext(), id, in.CompletedBy, in.Notes)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(transition)
	})
}
