package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"dataroom/internal/http/middleware"
	"dataroom/internal/service"
)

// FileHandler serves the /api/files routes.
type FileHandler struct {
	files service.FileService
}

// NewFileHandler constructs a FileHandler.
func NewFileHandler(files service.FileService) *FileHandler {
	return &FileHandler{files: files}
}

type presignUploadRequest struct {
	DataRoomID string  `json:"dataRoomId"`
	FolderID   *string `json:"folderId"`
	FileName   string  `json:"fileName"`
	FileSize   int64   `json:"fileSize"`
}

type completeUploadRequest struct {
	DataRoomID string  `json:"dataRoomId"`
	FolderID   *string `json:"folderId"`
	FileName   string  `json:"fileName"`
	FileSize   int64   `json:"fileSize"`
	MimeType   string  `json:"mimeType"`
	FilePath   string  `json:"filePath"`
}

// List returns the caller's files in a room, or in one folder when folderId
// is given.
func (h *FileHandler) List(c *fiber.Ctx) error {
	var folderID *string
	if id := c.Query("folderId"); id != "" {
		folderID = &id
	}
	files, err := h.files.List(c.UserContext(), middleware.UserFromCtx(c).ID, c.Query("dataRoomId"), folderID)
	if err != nil {
		return err
	}
	return writeData(c, fiber.StatusOK, files)
}

// Upload accepts a multipart upload (field name: file) and streams it into
// object storage.
func (h *FileHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
	}
	defer f.Close()

	name := c.FormValue("name")
	if name == "" {
		name = fh.Filename
	}
	var folderID *string
	if id := c.FormValue("folderId"); id != "" {
		folderID = &id
	}

	file, err := h.files.Upload(c.UserContext(), middleware.UserFromCtx(c).ID, service.UploadFileInput{
		DataRoomID: c.FormValue("dataRoomId"),
		FolderID:   folderID,
		Name:       name,
		Size:       fh.Size,
		MimeType:   fh.Header.Get("Content-Type"),
		Reader:     f,
	})
	if err != nil {
		return err
	}
	return writeData(c, fiber.StatusCreated, file)
}

// PresignUpload validates the upload and returns a direct-to-storage ticket.
func (h *FileHandler) PresignUpload(c *fiber.Ctx) error {
	var req presignUploadRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
	}
	ticket, err := h.files.PresignUpload(c.UserContext(), middleware.UserFromCtx(c).ID, service.PresignUploadInput{
		DataRoomID: req.DataRoomID,
		FolderID:   req.FolderID,
		Name:       req.FileName,
		Size:       req.FileSize,
	})
	if err != nil {
		return err
	}
	return writeData(c, fiber.StatusOK, ticket)
}

// CompleteUpload registers a blob previously uploaded via a ticket.
func (h *FileHandler) CompleteUpload(c *fiber.Ctx) error {
	var req completeUploadRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
	}
	file, err := h.files.CompleteUpload(c.UserContext(), middleware.UserFromCtx(c).ID, service.CompleteUploadInput{
		DataRoomID: req.DataRoomID,
		FolderID:   req.FolderID,
		Name:       req.FileName,
		Size:       req.FileSize,
		MimeType:   req.MimeType,
		Path:       req.FilePath,
	})
	if err != nil {
		return err
	}
	return writeData(c, fiber.StatusCreated, file)
}

// View returns a short-lived signed download URL for the file.
func (h *FileHandler) View(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	url, err := h.files.ViewURL(c.UserContext(), id, middleware.UserFromCtx(c).ID)
	if err != nil {
		return err
	}
	return writeData(c, fiber.StatusOK, fiber.Map{"url": url})
}

// Rename updates the file name.
func (h *FileHandler) Rename(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	var req renameRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
	}
	file, err := h.files.Rename(c.UserContext(), id, middleware.UserFromCtx(c).ID, req.Name)
	if err != nil {
		return err
	}
	return writeData(c, fiber.StatusOK, file)
}

// Delete removes the file row and schedules the blob for deletion.
func (h *FileHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	if err := h.files.Delete(c.UserContext(), id, middleware.UserFromCtx(c).ID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
