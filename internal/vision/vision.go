package vision

import (
	"fmt"
	"os"
)

// DetectLicensePlate 从图片中识别车牌。
// 目前是占位实现：只校验文件可读，返回空字符串表示未识别。
// 真正的识别由外部模型服务完成，接口约定不变（路径进、车牌串出）。
func DetectLicensePlate(imagePath string) (string, error) {
	info, err := os.Stat(imagePath)
	if err != nil {
		return "", fmt.Errorf("image not readable: %w", err)
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("image is empty")
	}
	return "", nil
}
