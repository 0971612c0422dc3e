package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"dataroom/internal/http/middleware"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Everything
// under /api except /api/health runs behind the auth middleware.
func RegisterRoutes(
	app *fiber.App,
	db *sql.DB,
	authMW fiber.Handler,
	rooms *DataRoomHandler,
	folders *FolderHandler,
	files *FileHandler,
) {
	api := app.Group("/api")

	// Health endpoint: checks DB connectivity only
	api.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	})

	authed := api.Use(authMW)

	// Current user profile, as resolved by the auth pipeline.
	authed.Get("/me", func(c *fiber.Ctx) error {
		return writeData(c, fiber.StatusOK, middleware.UserFromCtx(c))
	})

	roomRoutes := authed.Group("/data-rooms")
	roomRoutes.Get("/", rooms.Bootstrap)
	roomRoutes.Post("/", rooms.SetName)
	roomRoutes.Get("/:id", rooms.Get)
	roomRoutes.Put("/:id", rooms.Rename)
	roomRoutes.Delete("/:id", rooms.Delete)

	folderRoutes := authed.Group("/folders")
	folderRoutes.Get("/", folders.List)
	folderRoutes.Post("/", folders.Create)
	folderRoutes.Get("/:id/contents", folders.Contents)
	folderRoutes.Get("/:id/tree", folders.Tree)
	folderRoutes.Patch("/:id/rename", folders.Rename)
	folderRoutes.Patch("/:id/move", folders.Move)
	folderRoutes.Delete("/:id", folders.Delete)

	fileRoutes := authed.Group("/files")
	fileRoutes.Get("/", files.List)
	fileRoutes.Post("/upload", files.Upload)
	fileRoutes.Post("/upload-url", files.PresignUpload)
	fileRoutes.Post("/upload-complete", files.CompleteUpload)
	fileRoutes.Get("/:id/view", files.View)
	fileRoutes.Put("/:id", files.Rename)
	fileRoutes.Delete("/:id", files.Delete)
}
