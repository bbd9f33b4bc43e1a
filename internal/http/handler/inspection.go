package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"permitflow/internal/model"
	"permitflow/internal/service"
)

// registerInspectionRoutes attaches the inspector and schedule endpoints.
func registerInspectionRoutes(app *fiber.App, inspSvc service.InspectionService) {
	// Inspection type reference data
	app.Get("/inspection-types", func(c *fiber.Ctx) error {
		types, err := inspSvc.ListTypes(c.UserContext())
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"data": types})
	})

	// Least-loaded available inspector for a date
	app.Get("/inspectors/available", func(c *fiber.Ctx) error {
		picked, err := inspSvc.FindAvailableInspector(
			c.UserContext(),
			c.Query("date"),
			c.Query("district"),
			c.Query("inspection_type_id"),
		)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(picked)
	})

	// Book an inspection
	app.Post("/inspections", func(c *fiber.Ctx) error {
		var in model.InspectionSchedule
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		created, err := inspSvc.CreateSchedule(c.UserContext(), &in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	// Schedules filtered by application, inspector, or owning user
	app.Get("/inspections", func(c *fiber.Ctx) error {
		if appID := c.Query("application_id"); appID != "" {
			items, err := inspSvc.ListByApplication(c.UserContext(), appID)
			if err != nil {
				return serviceError(c, err)
			}
			return c.JSON(fiber.Map{"data": items})
		}
		if inspectorID := c.Query("inspector_id"); inspectorID != "" {
			items, err := inspSvc.ListByInspector(c.UserContext(), inspectorID, c.Query("date"))
			if err != nil {
				return serviceError(c, err)
			}
			return c.JSON(fiber.Map{"data": items})
		}
		if userID := c.Query("user_id"); userID != "" {
			items, err := inspSvc.ListByUser(c.UserContext(), userID)
			if err != nil {
				return serviceError(c, err)
			}
			return c.JSON(fiber.Map{"data": items})
		}
		return writeError(c, fiber.StatusBadRequest, "FILTER_REQUIRED", "application_id, inspector_id or user_id is required")
	})

	// Get one schedule with inspector and stage context
	app.Get("/inspections/:id", func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		sched, err := inspSvc.Get(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(sched)
	})

	// Reschedule or edit a booking
	app.Patch("/inspections/:id", func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var in model.InspectionSchedule
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		in.ID = id
		updated, err := inspSvc.Update(c.UserContext(), &in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(updated)
	})

	// Mark an inspection completed and feed the requirement ledger.
	// The id may be a legacy stage id; the service resolves it.
	app.Post("/inspections/:id/complete", func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var in struct {
			InspectorID string `json:"inspector_id"`
			Comments    string `json:"comments"`
		}
		if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		completed, err := inspSvc.CompleteInspection(c.UserContext(), id, in.InspectorID, in.Comments)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(completed)
	})

	// Cancel a booking outright
	app.Delete("/inspections/:id", func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := inspSvc.Delete(c.UserContext(), id); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
