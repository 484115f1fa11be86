package vehicle

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ParkWise/ParkWise/internal/common/server"
	"github.com/ParkWise/ParkWise/internal/owner"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HTTPHandler 车辆注册表的 HTTP 接口。
type HTTPHandler struct {
	svc       *Service
	ownerRepo *owner.Repo
}

func NewHTTPHandler(db *gorm.DB) *HTTPHandler {
	return &HTTPHandler{
		svc:       NewService(NewRepo(db)),
		ownerRepo: owner.NewRepo(db),
	}
}

// RegisterPublicRoutes 挂载公开路由（车牌查询对应原系统的找车页）。
func (h *HTTPHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/vehicles/search", h.Search)
}

// RegisterAuthRoutes 挂载需要鉴权的路由。
func (h *HTTPHandler) RegisterAuthRoutes(rg *gin.RouterGroup) {
	rg.POST("/vehicles", h.Register)
	rg.GET("/vehicles", h.List)
}

type registerVehicleRequest struct {
	LicensePlate        string `json:"license_plate" binding:"required"`
	VehicleType         string `json:"vehicle_type" binding:"required"`
	SubscriptionEndDate string `json:"subscription_end_date"` // YYYY-MM-DD，可选
	IsDisabled          bool   `json:"is_disabled"`
}

func (h *HTTPHandler) Register(c *gin.Context) {
	ai, ok := server.AuthFromContext(c)
	if !ok || strings.TrimSpace(ai.Subject) == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth"})
		return
	}

	var req registerVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var subEnd *time.Time
	if s := strings.TrimSpace(req.SubscriptionEndDate); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "subscription_end_date must be YYYY-MM-DD"})
			return
		}
		subEnd = &t
	}

	v, err := h.svc.Register(c.Request.Context(), RegisterInput{
		OwnerID:             ai.Subject,
		LicensePlate:        req.LicensePlate,
		VehicleType:         strings.TrimSpace(req.VehicleType),
		SubscriptionEndDate: subEnd,
		IsDisabled:          req.IsDisabled,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicatePlate):
			c.JSON(http.StatusConflict, gin.H{"error": "this license plate is already registered"})
		case errors.Is(err, ErrInvalidVehicleType):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle type"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, toJSON(v))
}

func (h *HTTPHandler) List(c *gin.Context) {
	ai, ok := server.AuthFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 200 {
		size = 20
	}

	vehicles, total, err := h.svc.List(c.Request.Context(), ai.Subject, ai.IsStaff(), (page-1)*size, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]gin.H, 0, len(vehicles))
	for i := range vehicles {
		out = append(out, toJSON(&vehicles[i]))
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": out, "total": total})
}

// Search 公开的按车牌查询（查询串按归一化规则比较）。
func (h *HTTPHandler) Search(c *gin.Context) {
	plate := strings.TrimSpace(c.Query("plate"))
	if plate == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "plate is required"})
		return
	}

	v, err := h.svc.FindByPlate(c.Request.Context(), plate)
	if errors.Is(err, ErrVehicleNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{
		"license_plate": v.LicensePlate,
		"vehicle_type":  v.VehicleType,
		"owner_id":      v.OwnerID,
	}
	if o, err := h.ownerRepo.FindByID(c.Request.Context(), v.OwnerID); err == nil {
		resp["username"] = o.Username
		resp["first_name"] = o.FirstName
		resp["last_name"] = o.LastName
	}
	c.JSON(http.StatusOK, resp)
}

func toJSON(v *Vehicle) gin.H {
	out := gin.H{
		"id":            v.ID,
		"license_plate": v.LicensePlate,
		"vehicle_type":  v.VehicleType,
		"owner_id":      v.OwnerID,
		"is_disabled":   v.IsDisabled,
	}
	if v.SubscriptionEndDate != nil {
		out["subscription_end_date"] = v.SubscriptionEndDate.Format("2006-01-02")
	}
	if v.ParkingSpotID != nil {
		out["parking_spot_id"] = *v.ParkingSpotID
	}
	return out
}
