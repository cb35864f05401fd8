package controllers

import (
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vidasana/vidasana/models"
	"github.com/vidasana/vidasana/utils"
)

// DashboardController computes the per-user snapshot and history views.
type DashboardController struct {
	db *gorm.DB
}

// NewDashboardController creates a DashboardController.
func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{db: db}
}

// periodDays maps lookback tokens to days.
var periodDays = map[string]int{
	"1w": 7,
	"1m": 30,
	"3m": 90,
	"6m": 180,
	"1y": 365,
}

// bodyCompositionOut is the snapshot shape of the latest composition record.
type bodyCompositionOut struct {
	Fat    float64 `json:"fat"`
	Muscle float64 `json:"muscle"`
	Water  float64 `json:"water"`
}

type exerciseOut struct {
	Date         time.Time `json:"date"`
	ExerciseName string    `json:"exercise_name"`
	Duration     int       `json:"duration"`
}

// currentStats is the dashboard snapshot. Metrics without records are null
// (or zero for the counters), matching what clients expect.
type currentStats struct {
	Weight          *float64            `json:"weight"`
	Height          *float64            `json:"height"`
	BMI             *float64            `json:"bmi"`
	BodyComposition *bodyCompositionOut `json:"body_composition"`
	FatPercentage   *float64            `json:"fat_percentage"`
	WaterConsumed   int                 `json:"water_consumed"`
	Steps           int                 `json:"steps"`
	Exercises       []exerciseOut       `json:"exercises"`
}

// CurrentStats returns the latest value of each metric kind for a user.
func (d *DashboardController) CurrentStats(ctx *gin.Context) {
	id, ok := pathUserID(ctx)
	if !ok {
		return
	}
	if !requireSameUser(ctx, id) {
		return
	}
	if _, ok := findUser(ctx, d.db, id); !ok {
		return
	}

	// Serve the cached snapshot when present; imports invalidate it.
	if b, ok := utils.CacheGetBytes(dashboardCacheKey(id)); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	stats, err := d.computeCurrentStats(id)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50007, "failed to compute stats")
		return
	}

	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: stats}
	utils.CacheSetJSON(dashboardCacheKey(id), wrapper, time.Hour)
	utils.Success(ctx, stats)
}

func (d *DashboardController) computeCurrentStats(userID uint) (*currentStats, error) {
	stats := &currentStats{Exercises: []exerciseOut{}}

	var weight models.Weight
	if err := d.latest(userID, &weight); err == nil {
		stats.Weight = &weight.Weight
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var height models.Height
	if err := d.latest(userID, &height); err == nil {
		stats.Height = &height.Height
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// BMI is derived, not stored: kg / m^2, heights are in centimeters.
	if stats.Weight != nil && stats.Height != nil && *stats.Height > 0 {
		bmi := round1(*stats.Weight / math.Pow(*stats.Height/100, 2))
		stats.BMI = &bmi
	}

	var comp models.BodyComposition
	if err := d.latest(userID, &comp); err == nil {
		stats.BodyComposition = &bodyCompositionOut{Fat: comp.Fat, Muscle: comp.Muscle, Water: comp.Water}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var fat models.BodyFatPercentage
	if err := d.latest(userID, &fat); err == nil {
		stats.FatPercentage = &fat.FatPercentage
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var water models.WaterConsumption
	if err := d.latest(userID, &water); err == nil {
		stats.WaterConsumed = water.WaterAmount
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var steps models.DailySteps
	if err := d.latest(userID, &steps); err == nil {
		stats.Steps = steps.StepsAmount
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Exercises: every entry on the most recent date that has any entry,
	// since several workouts can share a day.
	var last models.Exercise
	if err := d.latest(userID, &last); err == nil {
		var entries []models.Exercise
		if err := d.db.Where("user_id = ? AND date = ?", userID, last.Date).
			Order("date ASC").Find(&entries).Error; err != nil {
			return nil, err
		}
		for _, e := range entries {
			stats.Exercises = append(stats.Exercises, exerciseOut{Date: e.Date, ExerciseName: e.ExerciseName, Duration: e.Duration})
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return stats, nil
}

// latest loads the most recent record of dest's metric kind for a user.
func (d *DashboardController) latest(userID uint, dest interface{}) error {
	return d.db.Where("user_id = ?", userID).Order("date DESC").First(dest).Error
}

// History point shapes. Scalar metrics serialize as {date, value}.
type historyPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

type compositionPoint struct {
	Date   time.Time `json:"date"`
	Fat    float64   `json:"fat"`
	Muscle float64   `json:"muscle"`
	Water  float64   `json:"water"`
}

// History returns the filtered series of one metric over a named lookback
// period. Cumulative metrics (water, steps, exercise) also carry the window
// total. The window lower bound is inclusive: date >= now - period.
func (d *DashboardController) History(ctx *gin.Context) {
	id, ok := pathUserID(ctx)
	if !ok {
		return
	}
	if !requireSameUser(ctx, id) {
		return
	}
	if _, ok := findUser(ctx, d.db, id); !ok {
		return
	}

	metric := ctx.Query("metric")
	period := ctx.Query("period")

	days, ok := periodDays[period]
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid period")
		return
	}
	start := time.Now().AddDate(0, 0, -days)

	scoped := func(dest interface{}) error {
		return d.db.Where("user_id = ? AND date >= ?", id, start).Order("date ASC").Find(dest).Error
	}

	switch metric {
	case "weight":
		var rows []models.Weight
		if err := scoped(&rows); err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50008, "failed to query history")
			return
		}
		points := make([]historyPoint, 0, len(rows))
		for _, r := range rows {
			points = append(points, historyPoint{Date: r.Date, Value: r.Weight})
		}
		utils.Success(ctx, gin.H{"data": points})
	case "height":
		var rows []models.Height
		if err := scoped(&rows); err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50008, "failed to query history")
			return
		}
		points := make([]historyPoint, 0, len(rows))
		for _, r := range rows {
			points = append(points, historyPoint{Date: r.Date, Value: r.Height})
		}
		utils.Success(ctx, gin.H{"data": points})
	case "fat_percentage":
		var rows []models.BodyFatPercentage
		if err := scoped(&rows); err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50008, "failed to query history")
			return
		}
		points := make([]historyPoint, 0, len(rows))
		for _, r := range rows {
			points = append(points, historyPoint{Date: r.Date, Value: r.FatPercentage})
		}
		utils.Success(ctx, gin.H{"data": points})
	case "body_composition":
		var rows []models.BodyComposition
		if err := scoped(&rows); err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50008, "failed to query history")
			return
		}
		points := make([]compositionPoint, 0, len(rows))
		for _, r := range rows {
			points = append(points, compositionPoint{Date: r.Date, Fat: r.Fat, Muscle: r.Muscle, Water: r.Water})
		}
		utils.Success(ctx, gin.H{"data": points})
	case "water":
		var rows []models.WaterConsumption
		if err := scoped(&rows); err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50008, "failed to query history")
			return
		}
		points := make([]historyPoint, 0, len(rows))
		total := 0
		for _, r := range rows {
			points = append(points, historyPoint{Date: r.Date, Value: float64(r.WaterAmount)})
			total += r.WaterAmount
		}
		utils.Success(ctx, gin.H{"data": points, "total": total})
	case "steps":
		var rows []models.DailySteps
		if err := scoped(&rows); err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50008, "failed to query history")
			return
		}
		points := make([]historyPoint, 0, len(rows))
		total := 0
		for _, r := range rows {
			points = append(points, historyPoint{Date: r.Date, Value: float64(r.StepsAmount)})
			total += r.StepsAmount
		}
		utils.Success(ctx, gin.H{"data": points, "total": total})
	case "exercise":
		var rows []models.Exercise
		if err := scoped(&rows); err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50008, "failed to query history")
			return
		}
		points := make([]exerciseOut, 0, len(rows))
		total := 0
		for _, r := range rows {
			points = append(points, exerciseOut{Date: r.Date, ExerciseName: r.ExerciseName, Duration: r.Duration})
			total += r.Duration
		}
		utils.Success(ctx, gin.H{"data": points, "total": total})
	default:
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid metric")
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
