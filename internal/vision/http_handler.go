package vision

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/ParkWise/ParkWise/internal/vehicle"
	"github.com/gin-gonic/gin"
)

// HTTPHandler 图片上传 + 车牌识别接口。
type HTTPHandler struct {
	uploadDir string
}

func NewHTTPHandler(uploadDir string) *HTTPHandler {
	if uploadDir == "" {
		uploadDir = os.TempDir()
	}
	return &HTTPHandler{uploadDir: uploadDir}
}

// RegisterAuthRoutes 挂载需要鉴权的路由。
func (h *HTTPHandler) RegisterAuthRoutes(rg *gin.RouterGroup) {
	rg.POST("/plates/detect", h.Detect)
}

func (h *HTTPHandler) Detect(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}

	dst := filepath.Join(h.uploadDir, filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, dst); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer os.Remove(dst)

	plate, err := DetectLicensePlate(dst)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"license_plate":    plate,
		"normalized_plate": vehicle.NormalizePlate(plate),
		"recognized":       plate != "",
	})
}
