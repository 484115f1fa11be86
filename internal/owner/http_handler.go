package owner

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ParkWise/ParkWise/internal/common/auth"
	"github.com/ParkWise/ParkWise/internal/common/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HTTPHandler 车主账号相关的 HTTP 接口（注册 / 登录）。
type HTTPHandler struct {
	repo    *Repo
	authCfg config.AuthConfig
}

func NewHTTPHandler(db *gorm.DB, authCfg config.AuthConfig) *HTTPHandler {
	return &HTTPHandler{
		repo:    NewRepo(db),
		authCfg: authCfg,
	}
}

// RegisterRoutes 挂载公开路由。
func (h *HTTPHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/owners/register", h.Register)
	rg.POST("/owners/login", h.Login)
}

type registerRequest struct {
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *HTTPHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username/password required"})
		return
	}

	salt, err := GenerateSaltHex()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	hash, err := HashPassword(req.Password, salt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	o := &Owner{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		PasswordSalt: salt,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Roles:        RolesJoin([]string{"user"}),
	}
	// 唯一性交给 username 的 uniqueIndex 兜底，并发重复注册同样走 409
	if err := h.repo.Create(c.Request.Context(), o); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "username already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":       o.ID,
		"username": o.Username,
		"roles":    o.RolesSlice(),
	})
}

func (h *HTTPHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	username := strings.TrimSpace(req.Username)

	o, err := h.repo.FindByUsername(c.Request.Context(), username)
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !VerifyPassword(req.Password, o.PasswordSalt, o.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, exp, err := auth.GenerateAccessToken(h.authCfg, o.ID, o.RolesSlice(), 24*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"expires_at":   exp.Unix(),
		"owner": gin.H{
			"id":         o.ID,
			"username":   o.Username,
			"first_name": o.FirstName,
			"last_name":  o.LastName,
			"roles":      o.RolesSlice(),
		},
	})
}
