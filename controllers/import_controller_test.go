package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/vidasana/vidasana/models"
)

func importBody(importType string, rows ...map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"import_type": importType,
		"data":        rows,
	}
}

func TestImportSteps(t *testing.T) {
	r, db := newTestRouter(t)
	user := createTestUser(t, db, "ana", "ana@example.com")
	token := tokenFor(t, user)
	path := fmt.Sprintf("/users/%d/import", user.ID)

	w := doRequest(t, r, http.MethodPost, path, importBody("steps",
		map[string]interface{}{"date": "2026-08-25", "steps_amount": 3000},
		map[string]interface{}{"date": "2026-08-26", "steps_amount": 4000},
	), token)
	expectStatus(t, w, http.StatusOK)
	data := decodeData(t, w)
	if data["imported"].(float64) != 2 {
		t.Fatalf("expected 2 imported rows, got %v", data["imported"])
	}
	if data["batch_id"] == nil || data["batch_id"] == "" {
		t.Fatal("expected a batch id")
	}

	var count int64
	db.Model(&models.DailySteps{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 2 {
		t.Fatalf("expected 2 steps rows, got %d", count)
	}
}

func TestImportUpsertsOnSameDate(t *testing.T) {
	r, db := newTestRouter(t)
	user := createTestUser(t, db, "ana", "ana@example.com")
	token := tokenFor(t, user)
	path := fmt.Sprintf("/users/%d/import", user.ID)

	w := doRequest(t, r, http.MethodPost, path, importBody("weights",
		map[string]interface{}{"date": "2026-08-25", "weight": 80.0},
	), token)
	expectStatus(t, w, http.StatusOK)

	// Second write with the same (date, user_id) replaces the first.
	w = doRequest(t, r, http.MethodPost, path, importBody("weights",
		map[string]interface{}{"date": "2026-08-25", "weight": 78.5},
	), token)
	expectStatus(t, w, http.StatusOK)

	var rows []models.Weight
	if err := db.Where("user_id = ?", user.ID).Find(&rows).Error; err != nil {
		t.Fatalf("failed to query weights: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected exactly one record after upsert, got %d", len(rows))
	}
	if rows[0].Weight != 78.5 {
		t.Fatalf("expected the second write to win, got %v", rows[0].Weight)
	}
}

func TestImportUnknownTypeFails(t *testing.T) {
	r, db := newTestRouter(t)
	user := createTestUser(t, db, "ana", "ana@example.com")
	token := tokenFor(t, user)
	path := fmt.Sprintf("/users/%d/import", user.ID)

	w := doRequest(t, r, http.MethodPost, path, importBody("heartbeats",
		map[string]interface{}{"date": "2026-08-25", "bpm": 60},
	), token)
	expectStatus(t, w, http.StatusBadRequest)
}

func TestImportIsAllOrNothing(t *testing.T) {
	r, db := newTestRouter(t)
	user := createTestUser(t, db, "ana", "ana@example.com")
	token := tokenFor(t, user)
	path := fmt.Sprintf("/users/%d/import", user.ID)

	// The second row is malformed (negative count): nothing may land.
	w := doRequest(t, r, http.MethodPost, path, importBody("water",
		map[string]interface{}{"date": "2026-08-25", "water_amount": 5},
		map[string]interface{}{"date": "2026-08-26", "water_amount": -1},
	), token)
	expectStatus(t, w, http.StatusBadRequest)

	var count int64
	db.Model(&models.WaterConsumption{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 0 {
		t.Fatalf("malformed import must not insert anything, found %d rows", count)
	}

	// A row with fields outside the schema is rejected too.
	w = doRequest(t, r, http.MethodPost, path, importBody("water",
		map[string]interface{}{"date": "2026-08-25", "water_amount": 5, "units": "ml"},
	), token)
	expectStatus(t, w, http.StatusBadRequest)
}

func TestImportSanitizesExerciseNames(t *testing.T) {
	r, db := newTestRouter(t)
	user := createTestUser(t, db, "ana", "ana@example.com")
	token := tokenFor(t, user)
	path := fmt.Sprintf("/users/%d/import", user.ID)

	w := doRequest(t, r, http.MethodPost, path, importBody("exercises",
		map[string]interface{}{"date": "2026-08-25", "exercise_name": "<b>spinning</b>", "duration": 45},
	), token)
	expectStatus(t, w, http.StatusOK)

	var row models.Exercise
	if err := db.Where("user_id = ?", user.ID).First(&row).Error; err != nil {
		t.Fatalf("failed to load exercise: %v", err)
	}
	if row.ExerciseName != "spinning" {
		t.Fatalf("expected sanitized name, got %q", row.ExerciseName)
	}
	if row.Duration != 45 {
		t.Fatalf("expected duration 45, got %d", row.Duration)
	}
}

func TestImportForUnknownUser(t *testing.T) {
	r, _ := newTestRouter(t)

	// A valid token whose user row does not exist.
	ghost := models.User{ID: 999, Username: "ghost"}
	w := doRequest(t, r, http.MethodPost, "/users/999/import", importBody("steps",
		map[string]interface{}{"date": "2026-08-25", "steps_amount": 100},
	), tokenFor(t, ghost))
	expectStatus(t, w, http.StatusNotFound)
}
