package handler

import (
	"github.com/gofiber/fiber/v2"

	"permitflow/internal/service"
)

// registerDocumentRoutes attaches the plan-document endpoints.
func registerDocumentRoutes(app *fiber.App, docSvc service.DocumentService) {
	// Upload document endpoint (multipart/form-data, field name: file)
	app.Post("/documents", func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		doc, err := docSvc.Upload(c.UserContext(), service.UploadInput{
			Reader:        f,
			FileName:      fh.Filename,
			ContentType:   ct,
			Size:          fh.Size,
			UserID:        c.FormValue("user_id"),
			ApplicationID: c.FormValue("application_id"),
		})
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	})

	// List documents by user or by application
	app.Get("/documents", func(c *fiber.Ctx) error {
		if appID := c.Query("application_id"); appID != "" {
			items, err := docSvc.ListByApplication(c.UserContext(), appID)
			if err != nil {
				return serviceError(c, err)
			}
			return c.JSON(fiber.Map{"data": items})
		}

		limit, ok := queryInt(c, "limit", 10)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, ok := queryInt(c, "offset", 0)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}
		res, err := docSvc.ListByUser(c.UserContext(), c.Query("user_id"), limit, offset)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	})

	// Get document by ID
	app.Get("/documents/:id", func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := docSvc.Get(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(doc)
	})

	// Presigned download URL, valid for a short window
	app.Get("/documents/:id/download", func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		url, err := docSvc.Download(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"url": url})
	})

	// Score the document against building standards
	app.Post("/documents/:id/compliance", func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		result, err := docSvc.CheckCompliance(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(result)
	})

	// Set document review status
	app.Patch("/documents/:id/status", func(c *fiber.Ctx) error {
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
		doc, err := docSvc.UpdateStatus(c.UserContext(), id, in.Status)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(doc)
	})

	// Delete document from storage and the database
	app.Delete("/documents/:id", func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := docSvc.Delete(c.UserContext(), id); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
