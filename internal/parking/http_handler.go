package parking

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ParkWise/ParkWise/internal/common/server"
	"github.com/ParkWise/ParkWise/internal/vehicle"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HTTPHandler 停车会话与车位池的 HTTP 接口。
type HTTPHandler struct {
	svc      *Service
	vehicles *vehicle.Repo
}

func NewHTTPHandler(db *gorm.DB) *HTTPHandler {
	return &HTTPHandler{
		svc:      NewService(db),
		vehicles: vehicle.NewRepo(db),
	}
}

// RegisterPublicRoutes 挂载公开路由（费率表 + 车位实时状态，对应原系统首页和状态页）。
func (h *HTTPHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/rates", h.Rates)
	rg.GET("/status", h.Status)
}

// RegisterAuthRoutes 挂载需要鉴权的路由。
func (h *HTTPHandler) RegisterAuthRoutes(rg *gin.RouterGroup) {
	rg.POST("/sessions/start", h.StartSession)
	rg.POST("/sessions/end", h.EndSession)
	rg.GET("/sessions", h.Sessions)
	rg.GET("/report.csv", h.ReportCSV)
}

type sessionRequest struct {
	LicensePlate string `json:"license_plate" binding:"required"`
	At           string `json:"at"` // RFC3339，可选，缺省取当前时间
}

func (h *HTTPHandler) resolveVehicle(c *gin.Context, plate string) (*vehicle.Vehicle, bool) {
	v, err := h.vehicles.FindByPlate(c.Request.Context(), plate)
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return v, true
}

func parseAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now().UTC(), nil
	}
	return time.Parse(time.RFC3339, raw)
}

func (h *HTTPHandler) StartSession(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entryTime, err := parseAt(req.At)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at must be RFC3339"})
		return
	}

	v, ok := h.resolveVehicle(c, req.LicensePlate)
	if !ok {
		return
	}

	session, spot, err := h.svc.StartSession(c.Request.Context(), v.ID, entryTime)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoSpotAvailable):
			// “无可用车位”必须与成功显式区分
			c.JSON(http.StatusConflict, gin.H{"error": "no parking spots available"})
		case errors.Is(err, ErrAlreadyParked):
			c.JSON(http.StatusConflict, gin.H{"error": "vehicle already parked"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"session_id":  session.ID,
		"spot_number": spot.Number,
		"entry_time":  session.EntryTime.Format(time.RFC3339),
	})
}

func (h *HTTPHandler) EndSession(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	exitTime, err := parseAt(req.At)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at must be RFC3339"})
		return
	}

	v, ok := h.resolveVehicle(c, req.LicensePlate)
	if !ok {
		return
	}

	session, err := h.svc.EndSession(c.Request.Context(), v.ID, exitTime)
	if errors.Is(err, ErrNoActiveSession) {
		// 原系统对“无进行中会话”静默放行；这里保留 200，但把情况讲清楚
		c.JSON(http.StatusOK, gin.H{"ended": false, "notice": "no active session"})
		return
	}
	if errors.Is(err, ErrExitBeforeEntry) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "exit time before entry time"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ended":      true,
		"session_id": session.ID,
		"exit_time":  session.ExitTime.Format(time.RFC3339),
	})
}

// Status 车位实时状态，按编号升序。
func (h *HTTPHandler) Status(c *gin.Context) {
	spots, err := h.svc.Repo().ListSpots(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]gin.H, 0, len(spots))
	for i := range spots {
		s := &spots[i]
		item := gin.H{
			"number":      s.Number,
			"category":    s.Category,
			"is_occupied": s.IsOccupied,
		}
		if s.OccupiedSince != nil {
			item["occupied_since"] = s.OccupiedSince.Format(time.RFC3339)
		}
		out = append(out, item)
	}
	c.JSON(http.StatusOK, gin.H{"spots": out})
}

// Rates 费率表（金额换算为元的两位小数字符串）。
func (h *HTTPHandler) Rates(c *gin.Context) {
	rates, err := h.svc.Repo().ListRates(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]gin.H, 0, len(rates))
	for _, r := range rates {
		out = append(out, gin.H{
			"vehicle_type": r.VehicleType,
			"hourly_cents": r.HourlyCents,
			"currency":     r.Currency,
		})
	}
	c.JSON(http.StatusOK, gin.H{"rates": out})
}

func (h *HTTPHandler) sessionViews(c *gin.Context) ([]SessionView, bool) {
	ai, ok := server.AuthFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth"})
		return nil, false
	}
	views, err := h.svc.Repo().ListSessionViews(c.Request.Context(), ai.Subject, ai.IsStaff())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return views, true
}

// Sessions 会话台账（车主看自己的，staff 看全量）。
func (h *HTTPHandler) Sessions(c *gin.Context) {
	views, ok := h.sessionViews(c)
	if !ok {
		return
	}

	out := make([]gin.H, 0, len(views))
	for i := range views {
		v := &views[i]
		item := gin.H{
			"session_id":    v.ID,
			"license_plate": v.LicensePlate,
			"owner":         v.Username,
			"entry_time":    v.EntryTime.Format(time.RFC3339),
		}
		if v.ExitTime != nil {
			item["exit_time"] = v.ExitTime.Format(time.RFC3339)
			item["total_duration"] = v.ExitTime.Sub(v.EntryTime).String()
		} else {
			item["in_progress"] = true
		}
		out = append(out, item)
	}
	c.JSON(http.StatusOK, gin.H{"sessions": out})
}

// ReportCSV 导出会话报表。
func (h *HTTPHandler) ReportCSV(c *gin.Context) {
	views, ok := h.sessionViews(c)
	if !ok {
		return
	}

	rateRows, err := h.svc.Repo().ListRates(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	rates := make(map[string]Rate, len(rateRows))
	for _, r := range rateRows {
		rates[r.VehicleType] = r
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="parking_report.csv"`)
	if err := WriteReportCSV(c.Writer, views, rates); err != nil {
		// header 已发出，只能记录状态
		c.Status(http.StatusInternalServerError)
	}
}
