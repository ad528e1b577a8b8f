package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/luwei/punchcard-api/internal/database"
	"github.com/luwei/punchcard-api/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points the package-level connection at a throwaway sqlite
// file and migrates the schema.
func setupTestDB(t *testing.T) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "booklet.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	database.DB = db
	require.NoError(t, database.Migrate())
}

func newTestApp() *fiber.App {
	app := fiber.New()
	app.Get("/api/booklet/routine/today", GetTodayTasks)
	app.Post("/api/booklet/routine/submit", SubmitTask)
	app.Post("/api/booklet/routine/style/new", CreateStyle)
	app.Post("/api/booklet/routine/refresh", RefreshAllStyles)
	app.Post("/api/upload", UploadImage)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp, decodeBody(t, resp)
}

func getJSON(t *testing.T, app *fiber.App, path string) (*http.Response, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp, decodeBody(t, resp)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return out
}

// seedStyle inserts a style with the given start date and a catalog of
// taskCount tasks directly through the store.
func seedStyle(t *testing.T, startDate string, taskCount int) models.Style {
	t.Helper()
	style := models.Style{StartDate: startDate}
	require.NoError(t, database.DB.Create(&style).Error)
	for i := 0; i < taskCount; i++ {
		task := models.Task{
			StyleID:  style.ID,
			Position: i,
			Title:    "task",
		}
		require.NoError(t, database.DB.Create(&task).Error)
	}
	return style
}

// seedRecord inserts a record for the given date with one task-record per
// flag, aligned to the style's catalog order.
func seedRecord(t *testing.T, styleID uuid.UUID, date string, flags []bool) models.Record {
	t.Helper()
	record := models.Record{StyleID: styleID, RecordDate: date}
	require.NoError(t, database.DB.Create(&record).Error)

	var tasks []models.Task
	require.NoError(t, database.DB.Where("style_id = ?", styleID).
		Order("position ASC").Find(&tasks).Error)
	for i, flag := range flags {
		require.Less(t, i, len(tasks))
		tr := models.TaskRecord{RecordID: record.ID, TaskID: tasks[i].ID, IsDone: flag}
		require.NoError(t, database.DB.Create(&tr).Error)
	}
	return record
}

func loadStyle(t *testing.T, id uuid.UUID) models.Style {
	t.Helper()
	var style models.Style
	require.NoError(t, database.DB.First(&style, id).Error)
	return style
}
