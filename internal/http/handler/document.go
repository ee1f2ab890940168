package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"expirytracker/internal/service"
)

func userIDParam(c *fiber.Ctx) (string, bool) {
	id := strings.TrimSpace(c.Params("userId"))
	return id, id != ""
}

func uuidParam(c *fiber.Ctx, name string) (string, bool) {
	id := c.Params(name)
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// ListDocuments lists a user's documents with their current status.
//
// @Summary List documents
// @Tags documents
// @Produce json
// @Param userId path string true "User ID"
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} service.DocumentListResult
// @Failure 400 {object} errorPayload
// @Router /users/{userId}/documents [get]
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := userIDParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_USER", "invalid user id")
		}
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), userID, limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// CreateDocument stores a new document and refreshes the owner's reminders.
//
// @Summary Create document
// @Tags documents
// @Accept json
// @Produce json
// @Param userId path string true "User ID"
// @Param document body service.DocumentInput true "Document"
// @Success 201 {object} service.DocumentView
// @Failure 400 {object} errorPayload
// @Router /users/{userId}/documents [post]
func CreateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := userIDParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_USER", "invalid user id")
		}
		var in service.DocumentInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		doc, err := svc.Create(c.UserContext(), userID, in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// GetDocument returns one document.
//
// @Summary Get document
// @Tags documents
// @Produce json
// @Param userId path string true "User ID"
// @Param id path string true "Document ID"
// @Success 200 {object} service.DocumentView
// @Failure 404 {object} errorPayload
// @Router /users/{userId}/documents/{id} [get]
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := userIDParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_USER", "invalid user id")
		}
		id, ok := uuidParam(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		doc, err := svc.Get(c.UserContext(), userID, id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// UpdateDocument replaces the editable fields of a document.
//
// @Summary Update document
// @Tags documents
// @Accept json
// @Produce json
// @Param userId path string true "User ID"
// @Param id path string true "Document ID"
// @Param document body service.DocumentInput true "Document"
// @Success 200 {object} service.DocumentView
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /users/{userId}/documents/{id} [put]
func UpdateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := userIDParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_USER", "invalid user id")
		}
		id, ok := uuidParam(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var in service.DocumentInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		doc, err := svc.Update(c.UserContext(), userID, id, in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// DeleteDocument removes a document.
//
// @Summary Delete document
// @Tags documents
// @Param userId path string true "User ID"
// @Param id path string true "Document ID"
// @Success 204
// @Failure 404 {object} errorPayload
// @Router /users/{userId}/documents/{id} [delete]
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := userIDParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_USER", "invalid user id")
		}
		id, ok := uuidParam(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		if err := svc.Delete(c.UserContext(), userID, id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// SearchDocuments runs a full-text query over the user's documents.
//
// @Summary Search documents
// @Tags documents
// @Produce json
// @Param userId path string true "User ID"
// @Param q query string true "Query"
// @Param limit query int false "Max results" default(20)
// @Success 200 {array} service.DocumentView
// @Failure 503 {object} errorPayload
// @Router /users/{userId}/documents/search [get]
func SearchDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := userIDParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_USER", "invalid user id")
		}
		q := strings.TrimSpace(c.Query("q"))
		if q == "" {
			return writeError(c, fiber.StatusBadRequest, "QUERY_REQUIRED", "query is required")
		}
		limit, err := strconv.Atoi(c.Query("limit", "20"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}

		items, err := svc.Search(c.UserContext(), userID, q, limit)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": items})
	}
}
