package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/luwei/punchcard-api/internal/database"
	"github.com/luwei/punchcard-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateStyle(t *testing.T) {
	setupTestDB(t)
	app := newTestApp()

	resp, body := postJSON(t, app, "/api/booklet/routine/style/new", map[string]interface{}{
		"tasks": []map[string]string{
			{"title": "read", "description": "30 minutes", "image": "/uploads/booklet/read.png"},
			{"title": "run"},
		},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["styleId"])

	var style models.Style
	require.NoError(t, database.DB.First(&style).Error)
	assert.Equal(t, time.Now().Format(dateLayout), style.StartDate)

	var tasks []models.Task
	require.NoError(t, database.DB.Where("style_id = ?", style.ID).
		Order("position ASC").Find(&tasks).Error)
	require.Len(t, tasks, 2)
	assert.Equal(t, "read", tasks[0].Title)
	assert.Equal(t, 0, tasks[0].Position)
	assert.Equal(t, "run", tasks[1].Title)
	assert.Equal(t, 1, tasks[1].Position)
}

func TestCreateStyleValidation(t *testing.T) {
	setupTestDB(t)
	app := newTestApp()

	resp, body := postJSON(t, app, "/api/booklet/routine/style/new", map[string]interface{}{
		"tasks": []map[string]string{},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, body["error"])

	resp, body = postJSON(t, app, "/api/booklet/routine/style/new", map[string]interface{}{
		"tasks": []map[string]string{{"description": "no title"}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, body["error"])

	var count int64
	require.NoError(t, database.DB.Model(&models.Style{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestReplaceStyleWithoutRecords(t *testing.T) {
	setupTestDB(t)
	app := newTestApp()

	_, first := postJSON(t, app, "/api/booklet/routine/style/new", map[string]interface{}{
		"tasks": []map[string]string{{"title": "old"}},
	})

	resp, second := postJSON(t, app, "/api/booklet/routine/style/new", map[string]interface{}{
		"tasks": []map[string]string{{"title": "new one"}, {"title": "new two"}},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEqual(t, first["styleId"], second["styleId"])

	var styleCount, taskCount int64
	require.NoError(t, database.DB.Model(&models.Style{}).Count(&styleCount).Error)
	require.NoError(t, database.DB.Model(&models.Task{}).Count(&taskCount).Error)
	assert.Equal(t, int64(1), styleCount)
	assert.Equal(t, int64(2), taskCount)
}

func TestReplaceStyleWithRecordsConflicts(t *testing.T) {
	setupTestDB(t)
	app := newTestApp()

	_, created := postJSON(t, app, "/api/booklet/routine/style/new", map[string]interface{}{
		"tasks": []map[string]string{{"title": "keep"}},
	})

	resp, _ := postJSON(t, app, "/api/booklet/routine/submit", map[string]interface{}{
		"styleId": created["styleId"],
		"finish":  []int{1},
		"message": "checked in",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := postJSON(t, app, "/api/booklet/routine/style/new", map[string]interface{}{
		"tasks": []map[string]string{{"title": "usurper"}},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.NotEmpty(t, body["error"])

	// The recorded style and its history survive.
	var styleCount, recordCount int64
	require.NoError(t, database.DB.Model(&models.Style{}).Count(&styleCount).Error)
	require.NoError(t, database.DB.Model(&models.Record{}).Count(&recordCount).Error)
	assert.Equal(t, int64(1), styleCount)
	assert.Equal(t, int64(1), recordCount)
}
