package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/autoshop-scheduler/internal/config"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/middleware"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/models"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, config: cfg}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone" binding:"omitempty,twphone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

// Register creates a customer account. Staff accounts are seeded or created by an admin.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "系統忙碌中，請稍後再試")
		return
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hashed),
		Phone:        validators.NormalizePhone(req.Phone),
		Role:         models.RoleCustomer,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "email_already_exists", "此 Email 已經註冊")
			return
		}
		httperr.Respond(c, httperr.ErrPersistence("create user", err))
		return
	}

	h.respondWithToken(c, http.StatusCreated, &user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "帳號或密碼錯誤")
			return
		}
		httperr.Respond(c, httperr.ErrPersistence("find user", err))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "帳號或密碼錯誤")
		return
	}

	h.respondWithToken(c, http.StatusOK, &user)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, user *models.User) {
	token, err := middleware.IssueToken(h.config.JWTSecret, user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "系統忙碌中，請稍後再試")
		return
	}

	c.JSON(status, gin.H{
		"user":  userJSON(user),
		"token": token,
	})
}

func userJSON(user *models.User) gin.H {
	return gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"phone": user.Phone,
		"role":  user.Role,
	}
}
