package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"dataroom/internal/http/middleware"
	"dataroom/internal/service"
)

// DataRoomHandler serves the /api/data-rooms routes.
type DataRoomHandler struct {
	rooms service.DataRoomService
}

// NewDataRoomHandler constructs a DataRoomHandler.
func NewDataRoomHandler(rooms service.DataRoomService) *DataRoomHandler {
	return &DataRoomHandler{rooms: rooms}
}

type renameRequest struct {
	Name string `json:"name"`
}

// Bootstrap returns the caller's data room, creating the default one on
// first access.
func (h *DataRoomHandler) Bootstrap(c *fiber.Ctx) error {
	user := middleware.UserFromCtx(c)
	room, err := h.rooms.GetOrCreate(c.UserContext(), user)
	if err != nil {
		return err
	}
	return writeData(c, fiber.StatusOK, room)
}

// SetName renames the caller's data room, creating it with the given name
// when none exists yet.
func (h *DataRoomHandler) SetName(c *fiber.Ctx) error {
	var req renameRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
	}
	room, err := h.rooms.SetName(c.UserContext(), middleware.UserFromCtx(c), req.Name)
	if err != nil {
		return err
	}
	return writeData(c, fiber.StatusOK, room)
}

// Get returns the aggregated room view: the room, its root folders with
// counts, and its root files.
func (h *DataRoomHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	view, err := h.rooms.Get(c.UserContext(), id, middleware.UserFromCtx(c).ID)
	if err != nil {
		return err
	}
	return writeData(c, fiber.StatusOK, view)
}

// Rename updates the room name.
func (h *DataRoomHandler) Rename(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	var req renameRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
	}
	room, err := h.rooms.Rename(c.UserContext(), id, middleware.UserFromCtx(c).ID, req.Name)
	if err != nil {
		return err
	}
	return writeData(c, fiber.StatusOK, room)
}

// Delete always refuses: users keep at least one data room.
func (h *DataRoomHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	return h.rooms.Delete(c.UserContext(), id, middleware.UserFromCtx(c).ID)
}
