package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/luwei/punchcard-api/internal/database"
	"github.com/luwei/punchcard-api/internal/models"
)

// RefreshAllStyles recomputes the cached statistics of every style as a
// maintenance/repair pass. One style's failure is logged and does not stop
// the remaining styles.
func RefreshAllStyles(c *fiber.Ctx) error {
	var styles []models.Style
	if err := database.DB.Find(&styles).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch styles",
		})
	}

	refreshed, failed := 0, 0
	for _, style := range styles {
		mu := lockStyle(style.ID)
		mu.Lock()
		err := refreshStyleStats(style.ID)
		mu.Unlock()
		if err != nil {
			log.Printf("booklet: refresh stats failed for style %s: %v", style.ID, err)
			failed++
			continue
		}
		refreshed++
	}

	return c.JSON(fiber.Map{
		"refreshed": refreshed,
		"failed":    failed,
	})
}
