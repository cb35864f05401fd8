package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vidasana/vidasana/models"
	"github.com/vidasana/vidasana/utils"
)

// UserController serves profile reads and updates.
type UserController struct {
	db *gorm.DB
}

// NewUserController creates a UserController.
func NewUserController(db *gorm.DB) *UserController {
	return &UserController{db: db}
}

// GetUser returns a user's profile by id.
func (u *UserController) GetUser(ctx *gin.Context) {
	id, ok := pathUserID(ctx)
	if !ok {
		return
	}
	user, ok := findUser(ctx, u.db, id)
	if !ok {
		return
	}
	utils.Success(ctx, sanitizeUserResponse(user))
}

type updateUserRequest struct {
	Email           string `json:"email" binding:"required"`
	Username        string `json:"username" binding:"required"`
	Birthday        string `json:"birthday" binding:"required"`
	Gender          string `json:"gender" binding:"required"`
	NewPassword     string `json:"new_password"`
	CurrentPassword string `json:"current_password"`
}

// UpdateUser overwrites the profile fields and optionally rotates the
// password. A password change requires the current password to verify.
func (u *UserController) UpdateUser(ctx *gin.Context) {
	id, ok := pathUserID(ctx)
	if !ok {
		return
	}
	if !requireSameUser(ctx, id) {
		return
	}

	var req updateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40005, "invalid request payload")
		return
	}

	user, ok := findUser(ctx, u.db, id)
	if !ok {
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Username = utils.Sanitize(strings.TrimSpace(req.Username))

	if !utils.ValidEmail(req.Email) {
		utils.Error(ctx, http.StatusBadRequest, 40002, "invalid value for field email")
		return
	}
	if !utils.ValidGender(req.Gender) {
		utils.Error(ctx, http.StatusBadRequest, 40002, "invalid value for field gender: must be Masculino or Femenino")
		return
	}
	birthday, err := parseDate(req.Birthday)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40002, "invalid value for field birthday")
		return
	}

	if req.NewPassword != "" {
		if req.CurrentPassword == "" {
			utils.Error(ctx, http.StatusBadRequest, 40006, "current password required to change password")
			return
		}
		if !utils.CheckPassword(user.PasswordHash, req.CurrentPassword) {
			utils.Error(ctx, http.StatusUnauthorized, 40109, "invalid current password")
			return
		}
		if !utils.ValidPassword(req.NewPassword) {
			utils.Error(ctx, http.StatusBadRequest, 40003, "weak password: at least 10 characters with letters, digits and a symbol from @$!%*#?&")
			return
		}
	}

	var count int64
	if req.Email != user.Email {
		if err := u.db.Model(&models.User{}).Where("email = ? AND id <> ?", req.Email, user.ID).Count(&count).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50009, "failed to check uniqueness")
			return
		}
		if count > 0 {
			utils.Error(ctx, http.StatusConflict, 40901, "email already registered")
			return
		}
	}
	if req.Username != user.Username {
		if err := u.db.Model(&models.User{}).Where("username = ? AND id <> ?", req.Username, user.ID).Count(&count).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50009, "failed to check uniqueness")
			return
		}
		if count > 0 {
			utils.Error(ctx, http.StatusConflict, 40902, "username already exists")
			return
		}
	}

	credentialsChanged := req.Username != user.Username || req.NewPassword != ""

	user.Email = req.Email
	user.Username = req.Username
	user.Birthday = birthday
	user.Gender = req.Gender

	if req.NewPassword != "" {
		hash, err := utils.HashPassword(req.NewPassword)
		if err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to hash password")
			return
		}
		user.PasswordHash = hash
	}

	if err := u.db.Save(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50005, "failed to update profile")
		return
	}

	utils.Sugar.Infow("profile updated", "user_id", user.ID, "credentials_changed", credentialsChanged)
	utils.Success(ctx, gin.H{
		"message":             "profile updated",
		"credentials_changed": credentialsChanged,
	})
}
