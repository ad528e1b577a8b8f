package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/luwei/punchcard-api/internal/handlers"
)

func Setup(app *fiber.App) {
	api := app.Group("/api")

	booklet := api.Group("/booklet")
	booklet.Get("/routine/today", handlers.GetTodayTasks)
	booklet.Post("/routine/submit", handlers.SubmitTask)
	booklet.Post("/routine/style/new", handlers.CreateStyle)
	booklet.Post("/routine/refresh", handlers.RefreshAllStyles)

	// File upload for task images
	api.Post("/upload", handlers.UploadImage)
}
