package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vidasana/vidasana/middleware"
	"github.com/vidasana/vidasana/models"
	"github.com/vidasana/vidasana/utils"
)

// AuthController handles registration, login and logout.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates an AuthController.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

type registerRequest struct {
	Email         string  `json:"email" binding:"required"`
	Username      string  `json:"username" binding:"required,min=3,max=64"`
	Password      string  `json:"password" binding:"required"`
	Birthday      string  `json:"birthday" binding:"required"`
	Gender        string  `json:"gender" binding:"required"`
	CurrentWeight float64 `json:"current_weight" binding:"required"`
	CurrentHeight float64 `json:"current_height" binding:"required"`
}

// Register creates a user together with their initial weight and height
// records; every user has at least one data point in both series.
func (a *AuthController) Register(ctx *gin.Context) {
	var req registerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
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
	if !utils.ValidPassword(req.Password) {
		utils.Error(ctx, http.StatusBadRequest, 40003, "weak password: at least 10 characters with letters, digits and a symbol from @$!%*#?&")
		return
	}
	birthday, err := parseDate(req.Birthday)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40002, "invalid value for field birthday")
		return
	}
	if req.CurrentWeight <= 0 || req.CurrentHeight <= 0 {
		utils.Error(ctx, http.StatusBadRequest, 40002, "invalid value for initial weight or height")
		return
	}

	var count int64
	if err := a.db.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50009, "failed to check uniqueness")
		return
	}
	if count > 0 {
		utils.Error(ctx, http.StatusConflict, 40901, "email already registered")
		return
	}
	if err := a.db.Model(&models.User{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50009, "failed to check uniqueness")
		return
	}
	if count > 0 {
		utils.Error(ctx, http.StatusConflict, 40902, "username already exists")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to hash password")
		return
	}

	user := models.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
		Birthday:     birthday,
		Gender:       req.Gender,
	}

	now := time.Now()
	err = a.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.Weight{Date: now, UserID: user.ID, Weight: req.CurrentWeight}).Error; err != nil {
			return err
		}
		return tx.Create(&models.Height{Date: now, UserID: user.ID, Height: req.CurrentHeight}).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to create user")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, utils.TokenDuration)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to generate token")
		return
	}

	utils.Sugar.Infow("user registered", "user_id", user.ID, "username", user.Username)
	utils.Success(ctx, gin.H{
		"token":   token,
		"user_id": user.ID,
		"user":    sanitizeUserResponse(user),
	})
}

// Login verifies user credentials and issues a JWT.
func (a *AuthController) Login(ctx *gin.Context) {
	type request struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40004, "invalid request payload")
		return
	}

	var user models.User
	if err := a.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid username or password")
		return
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid username or password")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, utils.TokenDuration)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{
		"token":   token,
		"user_id": user.ID,
	})
}

// Logout invalidates the presented token by blacklisting it until expiry.
func (a *AuthController) Logout(ctx *gin.Context) {
	tokenVal, exists := ctx.Get(middleware.ContextTokenKey)
	if !exists {
		utils.Error(ctx, http.StatusUnauthorized, 40107, "invalid authorization header")
		return
	}
	token, _ := tokenVal.(string)

	claims, err := utils.ParseToken(token)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
		return
	}

	expiresAt := time.Now().Add(utils.TokenDuration)
	if claims.RegisteredClaims.ExpiresAt != nil {
		expiresAt = claims.RegisteredClaims.ExpiresAt.Time
	}

	utils.BlacklistToken(token, expiresAt)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the current authenticated user's information.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
		return
	}

	utils.Success(ctx, sanitizeUserResponse(user))
}
