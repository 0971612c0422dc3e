package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"dataroom/internal/http/middleware"
	"dataroom/internal/service"
)

// FolderHandler serves the /api/folders routes.
type FolderHandler struct {
	folders service.FolderService
}

// NewFolderHandler constructs a FolderHandler.
func NewFolderHandler(folders service.FolderService) *FolderHandler {
	return &FolderHandler{folders: folders}
}

type createFolderRequest struct {
	DataRoomID string  `json:"dataRoomId"`
	ParentID   *string `json:"parentId"`
	Name       string  `json:"name"`
}

type moveFolderRequest struct {
	ParentID *string `json:"parentId"`
}

// List returns every folder of a room.
func (h *FolderHandler) List(c *fiber.Ctx) error {
	folders, err := h.folders.List(c.UserContext(), c.Query("dataRoomId"), middleware.UserFromCtx(c).ID)
	if err != nil {
		return err
	}
	return writeData(c, fiber.StatusOK, folders)
}

// Create adds a folder at the room root or under a parent folder.
func (h *FolderHandler) Create(c *fiber.Ctx) error {
	var req createFolderRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
	}
	folder, err := h.folders.Create(c.UserContext(), middleware.UserFromCtx(c).ID, service.CreateFolderInput{
		DataRoomID: req.DataRoomID,
		ParentID:   req.ParentID,
		Name:       req.Name,
	})
	if err != nil {
		return err
	}
	return writeData(c, fiber.StatusCreated, folder)
}

// Contents returns the folder with its child folders (and counts) and files.
func (h *FolderHandler) Contents(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	contents, err := h.folders.Contents(c.UserContext(), id, middleware.UserFromCtx(c).ID)
	if err != nil {
		return err
	}
	return writeData(c, fiber.StatusOK, contents)
}

// Tree returns the breadcrumb from the room root down to the folder.
func (h *FolderHandler) Tree(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	crumbs, err := h.folders.Tree(c.UserContext(), id, middleware.UserFromCtx(c).ID)
	if err != nil {
		return err
	}
	return writeData(c, fiber.StatusOK, crumbs)
}

// Rename updates the folder name.
func (h *FolderHandler) Rename(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	var req renameRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
	}
	folder, err := h.folders.Rename(c.UserContext(), id, middleware.UserFromCtx(c).ID, req.Name)
	if err != nil {
		return err
	}
	return writeData(c, fiber.StatusOK, folder)
}

// Move re-parents the folder; a null parentId moves it to the room root.
func (h *FolderHandler) Move(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	var req moveFolderRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
	}
	folder, err := h.folders.Move(c.UserContext(), id, middleware.UserFromCtx(c).ID, req.ParentID)
	if err != nil {
		return err
	}
	return writeData(c, fiber.StatusOK, folder)
}

// Delete removes the folder and everything under it.
func (h *FolderHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	if err := h.folders.Delete(c.UserContext(), id, middleware.UserFromCtx(c).ID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
