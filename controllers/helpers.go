package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vidasana/vidasana/middleware"
	"github.com/vidasana/vidasana/models"
	"github.com/vidasana/vidasana/utils"
)

// sanitizeUserResponse shapes a user for API output. The password hash is
// never serialized.
func sanitizeUserResponse(user models.User) gin.H {
	return gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"username":   user.Username,
		"birthday":   user.Birthday,
		"gender":     user.Gender,
		"created_at": user.CreatedAt,
	}
}

// pathUserID parses the :id route parameter.
func pathUserID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid user id")
		return 0, false
	}
	return uint(id), true
}

// requireSameUser ensures the authenticated token belongs to the path user.
func requireSameUser(ctx *gin.Context, id uint) bool {
	v, ok := ctx.Get(middleware.ContextUserIDKey)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return false
	}
	if uid, _ := v.(uint); uid != id {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "token does not match user")
		return false
	}
	return true
}

// findUser resolves a user by id and answers NotFound when absent.
func findUser(ctx *gin.Context, db *gorm.DB, id uint) (models.User, bool) {
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
		} else {
			utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to get user")
		}
		return models.User{}, false
	}
	return user, true
}

// parseDate accepts RFC3339 timestamps, naive timestamps and bare dates,
// which is what health-app exports actually contain.
func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("invalid date")
}

func dashboardCacheKey(userID uint) string {
	return "cache:dashboard:current:" + strconv.FormatUint(uint64(userID), 10)
}
