package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vidasana/vidasana/models"
	"github.com/vidasana/vidasana/utils"
)

// ImportController bulk-loads metric rows. Each payload carries an
// import_type discriminator and a list of rows validated against the fixed
// schema of that metric kind. The whole import is one transaction: a single
// malformed row rolls everything back.
type ImportController struct {
	db *gorm.DB
}

// NewImportController creates an ImportController.
func NewImportController(db *gorm.DB) *ImportController {
	return &ImportController{db: db}
}

type importRequest struct {
	ImportType string            `json:"import_type" binding:"required"`
	Data       []json.RawMessage `json:"data" binding:"required"`
}

// Row schemas per import type. Dates arrive as strings because exports mix
// RFC3339 timestamps and bare dates.
type weightRow struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
}

type heightRow struct {
	Date   string  `json:"date"`
	Height float64 `json:"height"`
}

type bodyCompositionRow struct {
	Date   string  `json:"date"`
	Fat    float64 `json:"fat"`
	Muscle float64 `json:"muscle"`
	Water  float64 `json:"water"`
}

type waterRow struct {
	Date        string `json:"date"`
	WaterAmount int    `json:"water_amount"`
}

type stepsRow struct {
	Date        string `json:"date"`
	StepsAmount int    `json:"steps_amount"`
}

type exerciseRow struct {
	Date         string `json:"date"`
	ExerciseName string `json:"exercise_name"`
	Duration     int    `json:"duration"`
}

type bodyFatRow struct {
	Date          string  `json:"date"`
	FatPercentage float64 `json:"fat_percentage"`
}

// Import routes each row to the matching metric table. Writes use upsert
// semantics on (date, user_id): the last row for a key wins.
func (i *ImportController) Import(ctx *gin.Context) {
	id, ok := pathUserID(ctx)
	if !ok {
		return
	}
	if !requireSameUser(ctx, id) {
		return
	}
	if _, ok := findUser(ctx, i.db, id); !ok {
		return
	}

	var req importRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid import payload")
		return
	}

	rows, err := i.buildRows(id, req.ImportType, req.Data)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40031, err.Error())
		return
	}

	err = i.db.Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50006, "failed to import data")
		return
	}

	// The user's cached snapshot is stale after any import.
	utils.CacheDelete(dashboardCacheKey(id))

	batchID := uuid.NewString()
	utils.Sugar.Infow("data imported",
		"user_id", id,
		"import_type", req.ImportType,
		"rows", len(rows),
		"batch_id", batchID,
	)
	utils.Success(ctx, gin.H{
		"message":  "data imported",
		"batch_id": batchID,
		"imported": len(rows),
	})
}

var importTypes = map[string]bool{
	"weights":              true,
	"heights":              true,
	"body_compositions":    true,
	"water":                true,
	"steps":                true,
	"exercises":            true,
	"body_fat_percentages": true,
}

// buildRows validates the import type and every row before anything is
// written.
func (i *ImportController) buildRows(userID uint, importType string, data []json.RawMessage) ([]interface{}, error) {
	if !importTypes[importType] {
		return nil, fmt.Errorf("unknown import type: %s", importType)
	}

	rows := make([]interface{}, 0, len(data))

	for idx, raw := range data {
		row, err := decodeRow(userID, importType, raw)
		if err != nil {
			return nil, fmt.Errorf("row %d: %v", idx, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func decodeRow(userID uint, importType string, raw json.RawMessage) (interface{}, error) {
	switch importType {
	case "weights":
		var r weightRow
		if err := strictUnmarshal(raw, &r); err != nil {
			return nil, err
		}
		date, err := parseDate(r.Date)
		if err != nil {
			return nil, err
		}
		if r.Weight <= 0 {
			return nil, fmt.Errorf("weight must be positive")
		}
		return &models.Weight{Date: date, UserID: userID, Weight: r.Weight}, nil
	case "heights":
		var r heightRow
		if err := strictUnmarshal(raw, &r); err != nil {
			return nil, err
		}
		date, err := parseDate(r.Date)
		if err != nil {
			return nil, err
		}
		if r.Height <= 0 {
			return nil, fmt.Errorf("height must be positive")
		}
		return &models.Height{Date: date, UserID: userID, Height: r.Height}, nil
	case "body_compositions":
		var r bodyCompositionRow
		if err := strictUnmarshal(raw, &r); err != nil {
			return nil, err
		}
		date, err := parseDate(r.Date)
		if err != nil {
			return nil, err
		}
		if r.Fat < 0 || r.Muscle < 0 || r.Water < 0 {
			return nil, fmt.Errorf("body composition values must not be negative")
		}
		return &models.BodyComposition{Date: date, UserID: userID, Fat: r.Fat, Muscle: r.Muscle, Water: r.Water}, nil
	case "water":
		var r waterRow
		if err := strictUnmarshal(raw, &r); err != nil {
			return nil, err
		}
		date, err := parseDate(r.Date)
		if err != nil {
			return nil, err
		}
		if r.WaterAmount < 0 {
			return nil, fmt.Errorf("water_amount must not be negative")
		}
		return &models.WaterConsumption{Date: date, UserID: userID, WaterAmount: r.WaterAmount}, nil
	case "steps":
		var r stepsRow
		if err := strictUnmarshal(raw, &r); err != nil {
			return nil, err
		}
		date, err := parseDate(r.Date)
		if err != nil {
			return nil, err
		}
		if r.StepsAmount < 0 {
			return nil, fmt.Errorf("steps_amount must not be negative")
		}
		return &models.DailySteps{Date: date, UserID: userID, StepsAmount: r.StepsAmount}, nil
	case "exercises":
		var r exerciseRow
		if err := strictUnmarshal(raw, &r); err != nil {
			return nil, err
		}
		date, err := parseDate(r.Date)
		if err != nil {
			return nil, err
		}
		name := utils.Sanitize(strings.TrimSpace(r.ExerciseName))
		if name == "" {
			return nil, fmt.Errorf("exercise_name must not be empty")
		}
		if r.Duration <= 0 {
			return nil, fmt.Errorf("duration must be positive")
		}
		return &models.Exercise{Date: date, UserID: userID, ExerciseName: name, Duration: r.Duration}, nil
	case "body_fat_percentages":
		var r bodyFatRow
		if err := strictUnmarshal(raw, &r); err != nil {
			return nil, err
		}
		date, err := parseDate(r.Date)
		if err != nil {
			return nil, err
		}
		if r.FatPercentage < 0 || r.FatPercentage > 100 {
			return nil, fmt.Errorf("fat_percentage must be between 0 and 100")
		}
		return &models.BodyFatPercentage{Date: date, UserID: userID, FatPercentage: r.FatPercentage}, nil
	default:
		return nil, fmt.Errorf("unknown import type: %s", importType)
	}
}

// strictUnmarshal rejects rows carrying fields outside the metric schema.
func strictUnmarshal(raw json.RawMessage, out interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}
