package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"permitflow/internal/model"
	"permitflow/internal/service"
)

// serviceError translates service sentinel errors into the standard error
// envelope. Anything unrecognized becomes an opaque 500.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrApplicationNotFound),
		errors.Is(err, service.ErrDocumentNotFound),
		errors.Is(err, service.ErrScheduleNotFound),
		errors.Is(err, service.ErrStageNotFound),
		errors.Is(err, service.ErrRequirementNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, service.ErrNoInspectorAvailable):
		return writeError(c, fiber.StatusNotFound, "NO_INSPECTOR_AVAILABLE", err.Error())
	case errors.Is(err, service.ErrNoCurrentStage),
		errors.Is(err, service.ErrAlreadyCompleted),
		errors.Is(err, service.ErrNotSubmittable):
		return writeError(c, fiber.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, service.ErrApplicationIDRequired),
		errors.Is(err, service.ErrUserIDRequired),
		errors.Is(err, service.ErrInspectorIDRequired),
		errors.Is(err, service.ErrScheduledDateRequired),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidRequirement),
		errors.Is(err, service.ErrReaderNil),
		errors.Is(err, service.ErrUnsupportedFileType):
		return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", err.Error())
	case errors.Is(err, service.ErrFileTooLarge):
		return writeError(c, fiber.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", err.Error())
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

func parseID(c *fiber.Ctx, param string) (string, bool) {
	id := c.Params(param)
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

func queryInt(c *fiber.Ctx, key string, def int) (int, bool) {
	v := c.Query(key)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// registerApplicationRoutes attaches the application lifecycle endpoints.
func registerApplicationRoutes(app *fiber.App, appSvc service.ApplicationService) {
	// Create a new application (pending or submitted)
	app.Post("/applications", func(c *fiber.Ctx) error {
		var in model.Application
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		created, err := appSvc.Create(c.UserContext(), &in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	// List the caller's applications with stage context
	app.Get("/applications", func(c *fiber.Ctx) error {
		userID := c.Query("user_id")
		limit, ok := queryInt(c, "limit", 10)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, ok := queryInt(c, "offset", 0)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}
		res, err := appSvc.ListByUser(c.UserContext(), userID, limit, offset)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	})

	// Get application by ID
	app.Get("/applications/:id", func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		found, err := appSvc.Get(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(found)
	})

	// Submit a pending application into the workflow
	app.Post("/applications/:id/submit", func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		submitted, err := appSvc.Submit(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(submitted)
	})

	// Set application status
	app.Patch("/applications/:id/status", func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var in struct {
			Status string `json:"status"`
		}
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		updated, err := appSvc.UpdateStatus(c.UserContext(), id, in.Status)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(updated)
	})

	// Delete application; dependents cascade in the database
	app.Delete("/applications/:id", func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := appSvc.Delete(c.UserContext(), id); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
