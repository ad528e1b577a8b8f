package handlers

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/luwei/punchcard-api/internal/database"
	"github.com/luwei/punchcard-api/internal/models"
	"github.com/luwei/punchcard-api/internal/streak"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// styleLocks serializes submissions and recomputes per style so two
// concurrent writers cannot overwrite each other's freshly computed
// statistics with stale history.
var styleLocks sync.Map

func lockStyle(styleID uuid.UUID) *sync.Mutex {
	mu, _ := styleLocks.LoadOrStore(styleID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// GetTodayTasks returns the active style (most recent start date) with its
// statistics, the task catalog annotated with today's completion flags, and
// today's message. With no style yet it returns an empty object.
func GetTodayTasks(c *fiber.Ctx) error {
	var style models.Style
	if err := database.DB.Order("start_date DESC").First(&style).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(fiber.Map{})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch active style",
		})
	}

	var tasks []models.Task
	if err := database.DB.Where("style_id = ?", style.ID).
		Order("position ASC").
		Find(&tasks).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch tasks",
		})
	}

	today := time.Now().Format(dateLayout)
	var record models.Record
	err := database.DB.Where("style_id = ? AND record_date = ?", style.ID, today).
		Preload("TaskRecords").
		First(&record).Error

	done := make(map[uuid.UUID]bool)
	message := ""
	if err == nil {
		message = record.Message
		for _, tr := range record.TaskRecords {
			done[tr.TaskID] = tr.IsDone
		}
	}

	statuses := make([]models.TaskStatus, len(tasks))
	for i, task := range tasks {
		statuses[i] = models.TaskStatus{
			Title:       task.Title,
			Description: task.Description,
			Image:       task.Image,
			IsDone:      done[task.ID],
		}
	}

	return c.JSON(models.TodayView{
		Style: models.StyleSummary{
			StyleID:            style.ID,
			StartDate:          style.StartDate,
			ValidCheckins:      style.ValidCheckins,
			FullyDone:          style.FullyDone,
			LongestStreak:      style.LongestStreak,
			LongestFullyStreak: style.LongestFullyStreak,
		},
		Tasks:   statuses,
		Message: message,
	})
}

// SubmitTask upserts today's record and per-task flags for a style, then
// recomputes the style's statistics from its full history.
func SubmitTask(c *fiber.Ctx) error {
	var req models.SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	styleID, err := uuid.Parse(req.StyleID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid style ID",
		})
	}
	if req.Finish == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "finish must be an array of 0/1",
		})
	}
	for _, v := range req.Finish {
		if v != 0 && v != 1 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Completion flags must be 0 or 1",
			})
		}
	}
	if req.Message == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message is required",
		})
	}

	var style models.Style
	if err := database.DB.First(&style, styleID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Style not found",
		})
	}

	mu := lockStyle(style.ID)
	mu.Lock()
	defer mu.Unlock()

	var tasks []models.Task
	if err := database.DB.Where("style_id = ?", style.ID).
		Order("position ASC").
		Find(&tasks).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch tasks",
		})
	}

	today := time.Now().Format(dateLayout)

	// The record and all its task flags land together or not at all, so a
	// history read never sees a half-written submission.
	var recordID uuid.UUID
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var record models.Record
		if err := tx.Where("style_id = ? AND record_date = ?", style.ID, today).
			First(&record).Error; err != nil {
			record = models.Record{
				StyleID:    style.ID,
				RecordDate: today,
				Message:    *req.Message,
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		} else {
			record.Message = *req.Message
			if err := tx.Save(&record).Error; err != nil {
				return err
			}
		}
		recordID = record.ID

		for i, task := range tasks {
			// Positions past the end of the vector default to not-done.
			isDone := i < len(req.Finish) && req.Finish[i] == 1

			var tr models.TaskRecord
			if err := tx.Where("record_id = ? AND task_id = ?", record.ID, task.ID).
				First(&tr).Error; err != nil {
				tr = models.TaskRecord{
					RecordID: record.ID,
					TaskID:   task.ID,
					IsDone:   isDone,
				}
				if err := tx.Create(&tr).Error; err != nil {
					return err
				}
			} else if tr.IsDone != isDone {
				tr.IsDone = isDone
				if err := tx.Save(&tr).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("booklet: submit failed for style %s: %v", style.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save record",
		})
	}

	if err := refreshStyleStats(style.ID); err != nil {
		log.Printf("booklet: refresh stats failed for style %s: %v", style.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to refresh statistics",
		})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"recordId": recordID,
	})
}

// refreshStyleStats reloads a style's full ordered record history, folds it
// through the streak engine, and overwrites the cached statistics. Callers
// must hold the style's lock.
func refreshStyleStats(styleID uuid.UUID) error {
	var totalTasks int64
	if err := database.DB.Model(&models.Task{}).
		Where("style_id = ?", styleID).
		Count(&totalTasks).Error; err != nil {
		return err
	}

	var records []models.Record
	if err := database.DB.Where("style_id = ?", styleID).
		Preload("TaskRecords").
		Order("record_date ASC").
		Find(&records).Error; err != nil {
		return err
	}

	days := make([]streak.Day, 0, len(records))
	for _, rec := range records {
		date, err := time.Parse(dateLayout, rec.RecordDate)
		if err != nil {
			return err
		}
		flags := make([]bool, 0, len(rec.TaskRecords))
		for _, tr := range rec.TaskRecords {
			flags = append(flags, tr.IsDone)
		}
		days = append(days, streak.Day{Date: date, Flags: flags})
	}

	stats := streak.Compute(int(totalTasks), days)

	return database.DB.Model(&models.Style{}).
		Where("id = ?", styleID).
		Updates(map[string]interface{}{
			"valid_checkins":       stats.ValidCheckins,
			"fully_done":           stats.FullyDone,
			"longest_streak":       stats.LongestStreak,
			"longest_fully_streak": stats.LongestFullyStreak,
		}).Error
}
