package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/luwei/punchcard-api/internal/database"
	"github.com/luwei/punchcard-api/internal/models"
	"gorm.io/gorm"
)

// CreateStyle creates a new style starting today with the given task
// catalog. A style that already starts today is replaced only if it has no
// records yet; otherwise the request conflicts — recorded history is never
// silently discarded.
func CreateStyle(c *fiber.Ctx) error {
	var req models.CreateStyleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if len(req.Tasks) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "At least one task is required",
		})
	}
	for _, t := range req.Tasks {
		if t.Title == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Task title is required",
			})
		}
	}

	today := time.Now().Format(dateLayout)

	var existing models.Style
	err := database.DB.Where("start_date = ?", today).First(&existing).Error
	if err == nil {
		var count int64
		if err := database.DB.Model(&models.Record{}).
			Where("style_id = ?", existing.ID).
			Count(&count).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to check existing style",
			})
		}
		if count > 0 {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Today's style already has records; create a new style tomorrow",
			})
		}
		if err := deleteStyleCascade(existing.ID); err != nil {
			log.Printf("booklet: delete style %s failed: %v", existing.ID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to replace existing style",
			})
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to check existing style",
		})
	}

	style := models.Style{StartDate: today}
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&style).Error; err != nil {
			return err
		}
		for i, t := range req.Tasks {
			task := models.Task{
				StyleID:     style.ID,
				Position:    i,
				Title:       t.Title,
				Description: t.Description,
				Image:       t.Image,
			}
			if err := tx.Create(&task).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("booklet: create style failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create style",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"styleId": style.ID,
	})
}

// deleteStyleCascade removes a style and everything under it: task records,
// records, tasks, then the style itself, in one transaction.
func deleteStyleCascade(styleID uuid.UUID) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		var recordIDs []uuid.UUID
		if err := tx.Model(&models.Record{}).
			Where("style_id = ?", styleID).
			Pluck("id", &recordIDs).Error; err != nil {
			return err
		}
		if len(recordIDs) > 0 {
			if err := tx.Where("record_id IN ?", recordIDs).
				Delete(&models.TaskRecord{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("style_id = ?", styleID).
			Delete(&models.Record{}).Error; err != nil {
			return err
		}
		if err := tx.Where("style_id = ?", styleID).
			Delete(&models.Task{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", styleID).Delete(&models.Style{}).Error
	})
}
